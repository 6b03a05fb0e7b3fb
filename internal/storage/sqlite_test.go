package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err, "failed to create storage")

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func TestNewSQLiteStorageCreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "haul.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)
}

func TestNewSQLiteStorageRejectsEmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestSetAndGet(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "trucking_routes", []byte(`[{"id":"r1"}]`)))

	value, err := store.Get(ctx, "trucking_routes")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"r1"}]`, string(value))
}

func TestSetOverwrites(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "fuel_entries", []byte(`[]`)))
	require.NoError(t, store.Set(ctx, "fuel_entries", []byte(`[{"id":"f1"}]`)))

	value, err := store.Get(ctx, "fuel_entries")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"f1"}]`, string(value))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fuel_entries"}, keys)
}

func TestGetMissingKey(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.Get(context.Background(), "trucks_data")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestDeleteKey(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "trucking_trips", []byte(`[]`)))
	require.NoError(t, store.Delete(ctx, "trucking_trips"))
	require.NoError(t, store.Delete(ctx, "trucking_trips"), "deleting a missing key is a no-op")

	_, err := store.Get(ctx, "trucking_trips")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestKeysSorted(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for _, key := range []string{"trucks_data", "fuel_entries", "trucking_routes"} {
		require.NoError(t, store.Set(ctx, key, []byte(`[]`)))
	}

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fuel_entries", "trucking_routes", "trucks_data"}, keys)
}

func TestSetValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	//nolint:staticcheck // exercising nil context handling
	assert.ErrorIs(t, store.Set(nil, "k", []byte(`[]`)), ErrNilContext)
	assert.ErrorIs(t, store.Set(ctx, "", []byte(`[]`)), ErrEmptyString)
	assert.ErrorIs(t, store.Set(ctx, "k", nil), ErrNilParameter)
}

func TestDataSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "haul.db")
	ctx := context.Background()

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Set(ctx, "trucking_expenses", []byte(`[{"id":"e1"}]`)))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.Migrate(ctx))

	value, err := reopened.Get(ctx, "trucking_expenses")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"e1"}]`, string(value))
}
