package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yegors/flight-tracker/internal/config"
	"github.com/yegors/flight-tracker/pkg/logger"
)

var (
	// Global flags
	configPath string
	envFile    string
	serverURL  string
	logLevel   string
)

// errViewFailed is returned when a client command rendered a failure message
var errViewFailed = errors.New("view failed")

var rootCmd = &cobra.Command{
	Use:   "flight-tracker",
	Short: "Flight data proxy and terminal client",
	Long: `flight-tracker proxies live flights, flight search, airports and airlines
from an aviationstack-compatible provider and serves the browser client.

Run "flight-tracker serve" to start the proxy. The live, search, airports and
airlines commands query a running proxy and print the results as cards.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to TOML config file (default configs/config.toml when present)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to .env file, ignored when missing")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:3000", "proxy base URL for client commands")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")

	rootCmd.AddCommand(serveCmd, liveCmd, searchCmd, airportsCmd, airlinesCmd)
}

// loadConfig reads the layered configuration and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, out *os.File) (*logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: out,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errViewFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
