package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/yegors/flight-tracker/pkg/logger"

	_ "modernc.org/sqlite"
)

// Open opens (creating if needed) the SQLite database at path
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single writer avoids SQLITE_BUSY under concurrent requests
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// QueryStorage handles storage of query records
type QueryStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewQueryStorage creates a new SQLite query storage
func NewQueryStorage(db *sql.DB, log *logger.Logger) (*QueryStorage, error) {
	storage := &QueryStorage{
		db:     db,
		logger: log.Named("sqlite-queries"),
	}

	if err := storage.initDB(); err != nil {
		return nil, err
	}

	return storage, nil
}

// initDB initializes the database tables
func (s *QueryStorage) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS queries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			request_id TEXT NOT NULL,
			operation TEXT NOT NULL,
			params TEXT NOT NULL DEFAULT '',
			status_code INTEGER NOT NULL,
			records INTEGER NOT NULL DEFAULT 0,
			upstream INTEGER NOT NULL DEFAULT 0,
			error TEXT,
			duration_ms INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create queries table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_queries_created_at ON queries(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_queries_operation ON queries(operation)`,
		`CREATE INDEX IF NOT EXISTS idx_queries_status ON queries(status_code)`,
	}

	for _, indexSQL := range indexes {
		if _, err := s.db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create query index: %w", err)
		}
	}

	return nil
}

// StoreQuery stores a query record and returns its ID. A missing request ID
// or timestamp is filled in.
func (s *QueryStorage) StoreQuery(ctx context.Context, record *QueryRecord) (int64, error) {
	if record.RequestID == "" {
		record.RequestID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	var errText sql.NullString
	if record.Error != "" {
		errText = sql.NullString{String: record.Error, Valid: true}
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO queries
		(request_id, operation, params, status_code, records, upstream, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.RequestID,
		record.Operation,
		record.Params,
		record.StatusCode,
		record.Records,
		record.Upstream,
		errText,
		record.DurationMS,
		record.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert query: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	record.ID = id

	s.logger.Debug("Stored query",
		logger.Int64("id", id),
		logger.String("operation", record.Operation),
		logger.Int("status", record.StatusCode),
	)

	return id, nil
}

// GetRecentQueries returns the most recent queries, newest first
func (s *QueryStorage) GetRecentQueries(ctx context.Context, limit int) ([]*QueryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, request_id, operation, params, status_code, records, upstream, error, duration_ms, created_at
		FROM queries
		ORDER BY id DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent queries: %w", err)
	}
	defer rows.Close()

	return s.scanQueryRows(rows)
}

// GetQueriesByOperation returns the most recent queries of one operation
func (s *QueryStorage) GetQueriesByOperation(ctx context.Context, operation string, limit int) ([]*QueryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, request_id, operation, params, status_code, records, upstream, error, duration_ms, created_at
		FROM queries
		WHERE operation = ?
		ORDER BY id DESC
		LIMIT ?`,
		operation, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query queries by operation: %w", err)
	}
	defer rows.Close()

	return s.scanQueryRows(rows)
}

// scanQueryRows scans database rows into QueryRecord structs
func (s *QueryStorage) scanQueryRows(rows *sql.Rows) ([]*QueryRecord, error) {
	records := []*QueryRecord{}
	for rows.Next() {
		var record QueryRecord
		var createdAt string
		var errText sql.NullString

		if err := rows.Scan(
			&record.ID,
			&record.RequestID,
			&record.Operation,
			&record.Params,
			&record.StatusCode,
			&record.Records,
			&record.Upstream,
			&errText,
			&record.DurationMS,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan query: %w", err)
		}

		var err error
		record.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		if errText.Valid {
			record.Error = errText.String
		}

		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate queries: %w", err)
	}

	return records, nil
}
