// Package testutil sets up real storage for tests that cross package
// boundaries.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/Veraticus/haul/internal/model"
	"github.com/Veraticus/haul/internal/records"
	"github.com/Veraticus/haul/internal/storage"
)

// TestDB is a migrated SQLite database in a temp dir and the records store
// loaded from it.
type TestDB struct {
	Storage *storage.SQLiteStorage
	Store   *records.Store
	Path    string
	t       *testing.T
}

// SetupTestDB creates and migrates a database file and opens a store on it.
// Everything is closed when the test ends.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	db.Seed(testutil.Fixtures{Trips: []model.Trip{...}})
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	db := &TestDB{Path: filepath.Join(t.TempDir(), "haul.db"), t: t}
	db.open()
	return db
}

// Reopen closes the database and loads everything again from disk.
func (db *TestDB) Reopen() {
	db.t.Helper()
	if err := db.Storage.Close(); err != nil {
		db.t.Fatalf("failed to close test database: %v", err)
	}
	db.open()
}

func (db *TestDB) open() {
	db.t.Helper()
	ctx := context.Background()

	s, err := storage.NewSQLiteStorage(db.Path)
	if err != nil {
		db.t.Fatalf("failed to create test database: %v", err)
	}
	if err := s.Migrate(ctx); err != nil {
		db.t.Fatalf("failed to run migrations: %v", err)
	}

	store, err := records.Open(ctx, s, records.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err != nil {
		db.t.Fatalf("failed to load records: %v", err)
	}

	db.Storage = s
	db.Store = store
	db.t.Cleanup(func() { _ = s.Close() })
}

// Fixtures are records to add through the store.
type Fixtures struct {
	Routes      []model.Route
	Trips       []model.Trip
	Expenses    []model.Expense
	Trucks      []model.Truck
	FuelEntries []model.FuelEntry
}

// Seed adds every fixture and fails the test on the first error. Fuel entries
// with an empty TruckID are assigned the first seeded truck.
func (db *TestDB) Seed(f Fixtures) {
	db.t.Helper()
	ctx := context.Background()
	fail := func(kind string, err error) {
		db.t.Helper()
		db.t.Fatalf("failed to seed %s: %v", kind, err)
	}

	for _, r := range f.Routes {
		if _, err := db.Store.Routes.Add(ctx, r); err != nil {
			fail("route", err)
		}
	}
	for _, tr := range f.Trips {
		if _, err := db.Store.Trips.Add(ctx, tr); err != nil {
			fail("trip", err)
		}
	}
	for _, e := range f.Expenses {
		if _, err := db.Store.Expenses.Add(ctx, e); err != nil {
			fail("expense", err)
		}
	}

	var firstTruck string
	for _, tk := range f.Trucks {
		added, err := db.Store.Trucks.Add(ctx, tk)
		if err != nil {
			fail("truck", err)
		}
		if firstTruck == "" {
			firstTruck = added.ID
		}
	}
	for _, fe := range f.FuelEntries {
		if fe.TruckID == "" {
			fe.TruckID = firstTruck
		}
		if _, err := db.Store.Fuel.Add(ctx, fe); err != nil {
			fail("fuel entry", err)
		}
	}
}
