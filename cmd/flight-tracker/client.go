package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/yegors/flight-tracker/internal/aviation"
	"github.com/yegors/flight-tracker/internal/presenter"
	"github.com/yegors/flight-tracker/pkg/logger"
)

const clientTimeout = 30 * time.Second

var (
	liveStatus   string
	liveAirline  string
	liveSort     string
	liveLimit    string
	searchTerm   string
	catalogLimit string
	outputFormat string
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "List live flights",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := parseStatus(liveStatus)
		if err != nil {
			return err
		}
		var criterion presenter.SortCriterion
		if liveSort != "" {
			c, err := presenter.ParseSortCriterion(liveSort)
			if err != nil {
				return err
			}
			criterion = c
		}
		return runView(cmd, presenter.TabLive, presenter.Query{
			Status:  string(status),
			Airline: liveAirline,
			Limit:   liveLimit,
		}, criterion)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <flight-iata>",
	Short: "Search a flight by IATA code, e.g. BA117",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var ident string
		if len(args) == 1 {
			ident = args[0]
		}
		return runView(cmd, presenter.TabSearch, presenter.Query{FlightIATA: ident}, "")
	},
}

var airportsCmd = &cobra.Command{
	Use:   "airports",
	Short: "List airports, optionally filtered by a search term",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd, presenter.TabAirports, presenter.Query{Search: searchTerm, Limit: catalogLimit}, "")
	},
}

var airlinesCmd = &cobra.Command{
	Use:   "airlines",
	Short: "List airlines, optionally filtered by a search term",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd, presenter.TabAirlines, presenter.Query{Search: searchTerm, Limit: catalogLimit}, "")
	},
}

func init() {
	liveCmd.Flags().StringVar(&liveStatus, "status", "", "flight status: scheduled, active, landed, cancelled, incident or diverted")
	liveCmd.Flags().StringVar(&liveAirline, "airline", "", "airline name")
	liveCmd.Flags().StringVar(&liveSort, "sort", "", "sort by airline, departure or status")
	liveCmd.Flags().StringVar(&liveLimit, "limit", "", "maximum number of flights (proxy default 20)")

	for _, cmd := range []*cobra.Command{airportsCmd, airlinesCmd} {
		cmd.Flags().StringVar(&searchTerm, "search", "", "case-insensitive search term")
		cmd.Flags().StringVar(&catalogLimit, "limit", "", "records requested from the provider before filtering (default 50)")
	}
	for _, cmd := range []*cobra.Command{liveCmd, searchCmd, airportsCmd, airlinesCmd} {
		cmd.Flags().StringVar(&outputFormat, "format", "terminal", "output format: terminal or html")
	}
}

// parseStatus accepts an empty status or one the provider can filter on
func parseStatus(raw string) (aviation.FlightStatus, error) {
	status := aviation.FlightStatus(strings.ToLower(strings.TrimSpace(raw)))
	if status == "" || (status.Valid() && status != aviation.StatusUnknown) {
		return status, nil
	}
	names := make([]string, len(aviation.FlightStatuses))
	for i, s := range aviation.FlightStatuses {
		names[i] = string(s)
	}
	return "", fmt.Errorf("invalid status %q, expected one of: %s", raw, strings.Join(names, ", "))
}

func newRenderer(format string) (presenter.Renderer, error) {
	switch format {
	case "", "terminal":
		return presenter.NewTerminalRenderer(), nil
	case "html":
		return presenter.HTMLRenderer{}, nil
	default:
		return nil, fmt.Errorf("invalid format %q, expected terminal or html", format)
	}
}

func runView(cmd *cobra.Command, tab presenter.Tab, query presenter.Query, sortBy presenter.SortCriterion) error {
	renderer, err := newRenderer(outputFormat)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	view := presenter.NewView(presenter.NewClient(serverURL, clientTimeout, log), log)
	if err := view.Activate(tab); err != nil {
		return err
	}
	pane := presenter.NewPane(renderer)

	outcome := view.FetchAndRender(cmd.Context(), tab, query, pane)
	log.Debug("View rendered",
		logger.String("tab", string(tab)),
		logger.String("outcome", outcome.String()),
		logger.Int64("generation", int64(view.Generation())),
	)
	if outcome == presenter.OutcomePopulated && sortBy != "" {
		view.Sort(sortBy, pane)
	}

	fmt.Fprintln(cmd.OutOrStdout(), pane.Content())

	switch outcome {
	case presenter.OutcomeFailed, presenter.OutcomeInvalid:
		return errViewFailed
	default:
		return nil
	}
}
