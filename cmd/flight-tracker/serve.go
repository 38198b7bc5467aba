package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yegors/flight-tracker/internal/api"
	"github.com/yegors/flight-tracker/internal/aviation"
	"github.com/yegors/flight-tracker/internal/config"
	"github.com/yegors/flight-tracker/internal/flights"
	"github.com/yegors/flight-tracker/internal/storage/sqlite"
	"github.com/yegors/flight-tracker/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the flight data proxy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg, os.Stdout)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runServer(ctx, cfg, log)
	},
}

func runServer(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	if cfg.Aviation.AccessKey == "" {
		log.Warn("AVIATION_API_KEY is not set, upstream calls will fail")
	}

	var queryLog api.QueryLog
	if cfg.QueryLog.Enabled {
		db, storage, err := openQueryLog(cfg.QueryLog.DBPath, log)
		if err != nil {
			return err
		}
		defer db.Close()
		queryLog = storage
		log.Info("Query log enabled", logger.String("db_path", cfg.QueryLog.DBPath))
	}

	client := aviation.NewClient(cfg.Aviation.BaseURL, cfg.Aviation.AccessKey, cfg.Aviation.RequestTimeout(), log)
	service := flights.NewService(client, flights.Limits{
		Flights: cfg.Aviation.DefaultFlightLimit,
		Catalog: cfg.Aviation.DefaultCatalogLimit,
	}, log)
	handler := api.NewHandler(service, queryLog, cfg.QueryLog.MaxRecent, log)

	static, err := api.NewStaticFileHandler(cfg.Server.StaticFilesDir, log)
	if err != nil {
		return err
	}
	router := api.NewRouter(handler, static, cfg, log)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout(),
		WriteTimeout: cfg.Server.WriteTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening",
			logger.String("addr", server.Addr),
			logger.String("upstream", cfg.Aviation.BaseURL),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}

func openQueryLog(path string, log *logger.Logger) (*sql.DB, *sqlite.QueryStorage, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open query log: %w", err)
	}
	storage, err := sqlite.NewQueryStorage(db, log)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to initialize query log: %w", err)
	}
	return db, storage, nil
}
