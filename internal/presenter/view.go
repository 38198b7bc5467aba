// Package presenter turns proxy results into display cards. It holds the
// client-side state of the four views: the active tab and the last fetched
// live-flight list used for re-sorting.
package presenter

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/yegors/flight-tracker/internal/aviation"
	"github.com/yegors/flight-tracker/pkg/logger"
)

// Tab identifies one of the views. Exactly one is active at a time.
type Tab string

const (
	TabLive     Tab = "live-flights"
	TabSearch   Tab = "search-flight"
	TabAirports Tab = "airports"
	TabAirlines Tab = "airlines"
)

// MessageKind tells a container how to show a message
type MessageKind int

const (
	MessageEmpty MessageKind = iota
	MessageError
)

// Outcome is how a fetch ended
type Outcome int

const (
	OutcomePopulated Outcome = iota
	OutcomeEmpty
	OutcomeFailed
	OutcomeInvalid
)

func (o Outcome) String() string {
	switch o {
	case OutcomePopulated:
		return "populated"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	case OutcomeInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Container is the render target of a view. Each call replaces what the
// container showed before.
type Container interface {
	ShowCards(cards []Card)
	ShowMessage(kind MessageKind, text string)
}

// Messages are the user-facing texts of a view
type Messages struct {
	Missing string // input required but absent, search only
	Empty   string
	Failed  string
}

type viewSpec struct {
	path     string
	limit    string
	messages Messages
}

var viewSpecs = map[Tab]viewSpec{
	TabLive: {
		path:  "/api/flights/live",
		limit: "20",
		messages: Messages{
			Empty:  "No flights found matching your criteria.",
			Failed: "Failed to load flights. Please check your connection and try again.",
		},
	},
	TabSearch: {
		path: "/api/flights/search",
		messages: Messages{
			Missing: "Please enter a flight number or IATA code.",
			Empty:   "Flight not found. Please check the flight number and try again.",
			Failed:  "Failed to search flight. Please check the flight number and try again.",
		},
	},
	TabAirports: {
		path:  "/api/airports",
		limit: "50",
		messages: Messages{
			Empty:  "No airports found. Try a different search term or load all airports.",
			Failed: "Failed to load airports. Please try again.",
		},
	},
	TabAirlines: {
		path:  "/api/airlines",
		limit: "50",
		messages: Messages{
			Empty:  "No airlines found. Try a different search term or load all airlines.",
			Failed: "Failed to load airlines. Please try again.",
		},
	},
}

// View is the presentation state shared by the four tabs. Overlapping fetches
// are allowed; whichever resolves last owns the container and the held list.
type View struct {
	fetcher Fetcher
	format  func(string) string
	logger  *logger.Logger

	mu         sync.Mutex
	active     Tab
	flights    []aviation.FlightRecord
	generation uint64
}

// NewView creates a view with the live-flights tab active
func NewView(fetcher Fetcher, logger *logger.Logger) *View {
	return &View{
		fetcher: fetcher,
		format:  FormatTimestamp,
		logger:  logger.Named("presenter"),
		active:  TabLive,
	}
}

// Activate makes tab the only active tab
func (v *View) Activate(tab Tab) error {
	if _, ok := viewSpecs[tab]; !ok {
		return fmt.Errorf("unknown tab %q", tab)
	}
	v.mu.Lock()
	v.active = tab
	v.mu.Unlock()
	return nil
}

// Active returns the active tab
func (v *View) Active() Tab {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.active
}

// Generation counts the live-flight fetches started so far
func (v *View) Generation() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.generation
}

// Flights returns a copy of the held live-flight list
func (v *View) Flights() []aviation.FlightRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]aviation.FlightRecord(nil), v.flights...)
}

// FetchAndRender queries the proxy for tab and renders the result into c.
// Failures are logged and shown as the view's message; they never reach the
// caller. A successful live-flights fetch replaces the held list.
func (v *View) FetchAndRender(ctx context.Context, tab Tab, q Query, c Container) Outcome {
	spec, ok := viewSpecs[tab]
	if !ok {
		v.logger.Error("Unknown tab", logger.String("tab", string(tab)))
		return OutcomeInvalid
	}

	if tab == TabSearch && strings.TrimSpace(q.FlightIATA) == "" {
		c.ShowMessage(MessageError, spec.messages.Missing)
		return OutcomeInvalid
	}
	if tab == TabLive {
		v.mu.Lock()
		v.generation++
		generation := v.generation
		v.mu.Unlock()
		v.logger.Debug("Fetching live flights", logger.Int64("generation", int64(generation)))
	}
	if q.Limit == "" {
		q.Limit = spec.limit
	}

	env, err := v.fetcher.Fetch(ctx, spec.path, q.Values())
	if err != nil {
		v.logger.Error("Fetch failed", logger.String("tab", string(tab)), logger.Error(err))
		c.ShowMessage(MessageError, spec.messages.Failed)
		return OutcomeFailed
	}

	cards, err := v.cards(tab, env)
	if err != nil {
		v.logger.Error("Unusable response", logger.String("tab", string(tab)), logger.Error(err))
		c.ShowMessage(MessageError, spec.messages.Failed)
		return OutcomeFailed
	}
	if len(cards) == 0 {
		c.ShowMessage(MessageEmpty, spec.messages.Empty)
		return OutcomeEmpty
	}

	c.ShowCards(cards)
	return OutcomePopulated
}

func (v *View) cards(tab Tab, env *aviation.Envelope) ([]Card, error) {
	switch tab {
	case TabLive, TabSearch:
		records, err := decode(v, env, aviation.ParseFlight)
		if err != nil {
			return nil, err
		}
		if tab == TabLive {
			v.mu.Lock()
			v.flights = records
			v.mu.Unlock()
		}
		return v.flightCards(records), nil
	case TabAirports:
		records, err := decode(v, env, aviation.ParseAirport)
		return mapCards(records, AirportCard), err
	default:
		records, err := decode(v, env, aviation.ParseAirline)
		return mapCards(records, AirlineCard), err
	}
}

// Sort reorders the held live-flight list and re-renders it into c without
// a fetch. It does nothing and returns false when no list is held.
func (v *View) Sort(criterion SortCriterion, c Container) bool {
	v.mu.Lock()
	if len(v.flights) == 0 {
		v.mu.Unlock()
		return false
	}
	v.flights = SortFlights(v.flights, criterion)
	sorted := v.flights
	v.mu.Unlock()

	c.ShowCards(v.flightCards(sorted))
	return true
}

func (v *View) flightCards(records []aviation.FlightRecord) []Card {
	cards := make([]Card, len(records))
	for i, r := range records {
		cards[i] = flightCard(r, v.format)
	}
	return cards
}

func decode[T any](v *View, env *aviation.Envelope, parse func(gjson.Result) T) ([]T, error) {
	if !env.Valid() {
		return nil, fmt.Errorf("response is not valid JSON")
	}
	if !env.HasData() {
		return nil, nil
	}
	records, skipped, err := aviation.Decode(env, parse)
	if skipped > 0 {
		v.logger.Warn("Skipped non-object records", logger.Int("skipped", skipped))
	}
	return records, err
}

func mapCards[T any](records []T, fn func(T) Card) []Card {
	cards := make([]Card, len(records))
	for i, r := range records {
		cards[i] = fn(r)
	}
	return cards
}
