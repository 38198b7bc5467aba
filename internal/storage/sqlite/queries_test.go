package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yegors/flight-tracker/pkg/logger"
)

func setupTestStorage(t *testing.T) *QueryStorage {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "nested", "queries.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, db.Close())
	})

	storage, err := NewQueryStorage(db, logger.NewNop())
	require.NoError(t, err)
	require.NotNil(t, storage)

	return storage
}

func TestNewQueryStorage_IsIdempotent(t *testing.T) {
	storage := setupTestStorage(t)

	_, err := NewQueryStorage(storage.db, logger.NewNop())
	assert.NoError(t, err)
}

func TestStoreQuery_FillsDefaults(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	record := &QueryRecord{
		Operation:  "airports",
		Params:     "limit=50&search=lon",
		StatusCode: 200,
		Records:    1,
		Upstream:   50,
		DurationMS: 12,
	}
	id, err := storage.StoreQuery(ctx, record)
	require.NoError(t, err)

	assert.Equal(t, id, record.ID)
	assert.NotEmpty(t, record.RequestID)
	assert.False(t, record.CreatedAt.IsZero())

	got, err := storage.GetRecentQueries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, record.RequestID, got[0].RequestID)
	assert.Equal(t, "airports", got[0].Operation)
	assert.Equal(t, "limit=50&search=lon", got[0].Params)
	assert.Equal(t, 1, got[0].Records)
	assert.Equal(t, 50, got[0].Upstream)
	assert.Empty(t, got[0].Error)
	assert.WithinDuration(t, record.CreatedAt, got[0].CreatedAt, time.Millisecond)
}

func TestGetRecentQueries_NewestFirstAndLimited(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	for _, op := range []string{"live_flights", "search_flight", "airlines"} {
		_, err := storage.StoreQuery(ctx, &QueryRecord{Operation: op, StatusCode: 200})
		require.NoError(t, err)
	}

	got, err := storage.GetRecentQueries(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "airlines", got[0].Operation)
	assert.Equal(t, "search_flight", got[1].Operation)
}

func TestGetQueriesByOperation(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	_, err := storage.StoreQuery(ctx, &QueryRecord{Operation: "search_flight", StatusCode: 400, Error: "Flight IATA or flight number required"})
	require.NoError(t, err)
	_, err = storage.StoreQuery(ctx, &QueryRecord{Operation: "airports", StatusCode: 200})
	require.NoError(t, err)

	got, err := storage.GetQueriesByOperation(ctx, "search_flight", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 400, got[0].StatusCode)
	assert.Equal(t, "Flight IATA or flight number required", got[0].Error)
}

func TestGetRecentQueries_Empty(t *testing.T) {
	storage := setupTestStorage(t)

	got, err := storage.GetRecentQueries(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
