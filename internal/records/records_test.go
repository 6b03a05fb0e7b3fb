package records

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/haul/internal/common"
	"github.com/Veraticus/haul/internal/model"
	"github.com/Veraticus/haul/internal/service"
	"github.com/Veraticus/haul/internal/storage"
)

// memoryKV is an in-memory service.KeyValueStore that can be told to fail.
type memoryKV struct {
	data     map[string][]byte
	failSet  error
	failGet  error
	setCalls int
	mu       sync.Mutex
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string][]byte)}
}

func (m *memoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return nil, m.failGet
	}
	v, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrKeyNotFound, key)
	}
	return v, nil
}

func (m *memoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.failSet != nil {
		return m.failSet
	}
	m.data[key] = value
	return nil
}

func (m *memoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryKV) Keys(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

var _ service.KeyValueStore = (*memoryKV)(nil)

func testOptions() Options {
	n := 0
	clock := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	return Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now: func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		},
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
}

func openTestStore(t *testing.T, kv service.KeyValueStore) *Store {
	t.Helper()
	s, err := Open(context.Background(), kv, testOptions())
	require.NoError(t, err)
	return s
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTripLifecycle(t *testing.T) {
	kv := newMemoryKV()
	s := openTestStore(t, kv)
	ctx := context.Background()

	trip, err := s.Trips.Add(ctx, model.Trip{
		RouteName: "Denver Run",
		Date:      "2024-03-15",
		Earnings:  d("500"),
		FuelCost:  d("80"),
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", trip.ID)
	assert.False(t, trip.CreatedAt.IsZero())

	got, ok := s.Trips.Get(trip.ID)
	require.True(t, ok)
	assert.Equal(t, trip, got)

	notes := "late load"
	updated, err := s.Trips.Update(ctx, trip.ID, model.TripPatch{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "late load", updated.Notes)
	assert.Equal(t, "Denver Run", updated.RouteName)
	assert.True(t, updated.Earnings.Equal(d("500")))

	require.NoError(t, s.Trips.Delete(ctx, trip.ID))
	_, ok = s.Trips.Get(trip.ID)
	assert.False(t, ok)
	assert.Empty(t, s.Trips.List())
	assert.JSONEq(t, `[]`, string(kv.data[service.KeyTrips]))
}

func TestAddRejectsInvalidRecords(t *testing.T) {
	kv := newMemoryKV()
	s := openTestStore(t, kv)
	ctx := context.Background()

	_, err := s.Trips.Add(ctx, model.Trip{RouteName: "A", Date: "03/15/2024"})
	assert.ErrorIs(t, err, model.ErrInvalidDate)

	_, err = s.Expenses.Add(ctx, model.Expense{Date: "2024-03-15", Category: "snacks", Description: "x"})
	assert.ErrorIs(t, err, model.ErrInvalidCategory)

	_, err = s.Fuel.Add(ctx, model.FuelEntry{Date: "2024-03-15", PricePerGallon: d("3.5")})
	assert.ErrorIs(t, err, model.ErrNonPositive)

	_, err = s.Routes.Add(ctx, model.Route{Payment: d("100")})
	assert.ErrorIs(t, err, model.ErrMissingField)

	assert.Zero(t, kv.setCalls, "invalid records never reach the store")
}

func TestUpdateValidatesMergedRecord(t *testing.T) {
	s := openTestStore(t, newMemoryKV())
	ctx := context.Background()

	e, err := s.Expenses.Add(ctx, model.Expense{
		Date: "2024-03-15", Category: model.CategoryTolls, Description: "I-80", Amount: d("12.5"),
	})
	require.NoError(t, err)

	bad := d("-1")
	_, err = s.Expenses.Update(ctx, e.ID, model.ExpensePatch{Amount: &bad})
	assert.ErrorIs(t, err, model.ErrNegativeAmount)

	got, _ := s.Expenses.Get(e.ID)
	assert.True(t, got.Amount.Equal(d("12.5")), "rejected update leaves record unchanged")
}

func TestUpdateAndDeleteMissing(t *testing.T) {
	s := openTestStore(t, newMemoryKV())
	ctx := context.Background()

	name := "x"
	_, err := s.Routes.Update(ctx, "nope", model.RoutePatch{Name: &name})
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, s.Trucks.Delete(ctx, "nope"), common.ErrNotFound)
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	kv := newMemoryKV()
	kv.failSet = errors.New("disk full")
	s := openTestStore(t, kv)
	ctx := context.Background()

	e, err := s.Expenses.Add(ctx, model.Expense{
		Date: "2024-03-15", Category: model.CategoryFood, Description: "lunch", Amount: d("14"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrPersistFailed)
	assert.True(t, common.IsPersistFailure(err))
	assert.Equal(t, 1, kv.setCalls, "no retries")

	got, ok := s.Expenses.Get(e.ID)
	require.True(t, ok, "in-memory insert is not rolled back")
	assert.Equal(t, "lunch", got.Description)

	err = s.Expenses.Delete(ctx, e.ID)
	assert.ErrorIs(t, err, common.ErrPersistFailed)
	assert.Zero(t, len(s.Expenses.List()))
}

func TestLoadFailureLeavesCollectionEmpty(t *testing.T) {
	kv := newMemoryKV()
	kv.data[service.KeyRoutes] = []byte(`not json`)
	kv.data[service.KeyTrips] = []byte(`[{"id":"t1","routeName":"A","date":"2024-01-02","earnings":100,"fuelCost":0,"otherExpenses":0,"createdAt":"2024-01-02T00:00:00Z"}]`)

	s, err := Open(context.Background(), kv, testOptions())
	assert.ErrorIs(t, err, common.ErrLoadFailed)
	require.NotNil(t, s)

	assert.Empty(t, s.Routes.List())
	require.Len(t, s.Trips.List(), 1)
	assert.True(t, s.Trips.List()[0].Earnings.Equal(d("100")))
}

func TestLoadFailureFromStore(t *testing.T) {
	kv := newMemoryKV()
	kv.failGet = errors.New("locked")

	s, err := Open(context.Background(), kv, testOptions())
	assert.ErrorIs(t, err, common.ErrLoadFailed)
	assert.Empty(t, s.Dataset().Trips)
}

func TestFuelAddFillsTotalCost(t *testing.T) {
	s := openTestStore(t, newMemoryKV())
	ctx := context.Background()

	computed, err := s.Fuel.Add(ctx, model.FuelEntry{
		Date: "2024-03-15", Gallons: d("100.5"), PricePerGallon: d("3.899"), Odometer: d("120000"),
	})
	require.NoError(t, err)
	assert.Equal(t, "391.85", computed.TotalCost.StringFixed(2))

	entered, err := s.Fuel.Add(ctx, model.FuelEntry{
		Date: "2024-03-16", Gallons: d("10"), PricePerGallon: d("4"), TotalCost: d("35"), Odometer: d("120500"),
	})
	require.NoError(t, err)
	assert.True(t, entered.TotalCost.Equal(d("35")), "entered total is kept")

	gallons := d("20")
	updated, err := s.Fuel.Update(ctx, entered.ID, model.FuelEntryPatch{Gallons: &gallons})
	require.NoError(t, err)
	assert.True(t, updated.TotalCost.Equal(d("35")), "total is never re-derived")
}

func TestTruckActiveAndTimestamps(t *testing.T) {
	s := openTestStore(t, newMemoryKV())
	ctx := context.Background()

	truck, err := s.Trucks.Add(ctx, model.Truck{
		Name: "Big Blue", Make: "Peterbilt", Model: "579", Year: 2021, PlateNumber: "TX-1", IsActive: true,
	})
	require.NoError(t, err)
	_, err = s.Trucks.Add(ctx, model.Truck{
		Name: "Spare", Make: "Volvo", Model: "VNL", Year: 2015, PlateNumber: "TX-2",
	})
	require.NoError(t, err)

	require.Len(t, s.Trucks.Active(), 1)
	assert.Equal(t, "Big Blue (2021 Peterbilt 579)", s.Trucks.Active()[0].DisplayName())

	inactive := false
	updated, err := s.Trucks.Update(ctx, truck.ID, model.TruckPatch{IsActive: &inactive})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(truck.UpdatedAt))
	assert.Equal(t, truck.CreatedAt, updated.CreatedAt)
	assert.Empty(t, s.Trucks.Active())
}

func TestSubscribe(t *testing.T) {
	s := openTestStore(t, newMemoryKV())
	ctx := context.Background()

	var seen []int
	unsubscribe := s.Routes.Subscribe(func(routes []model.Route) {
		seen = append(seen, len(routes))
	})

	r, err := s.Routes.Add(ctx, model.Route{Name: "Loop", Payment: d("300")})
	require.NoError(t, err)
	_, err = s.Routes.Add(ctx, model.Route{Name: "Spur", Payment: d("150")})
	require.NoError(t, err)

	unsubscribe()
	require.NoError(t, s.Routes.Delete(ctx, r.ID))

	assert.Equal(t, []int{1, 2}, seen)
}

func TestListReturnsCopy(t *testing.T) {
	s := openTestStore(t, newMemoryKV())
	ctx := context.Background()

	_, err := s.Routes.Add(ctx, model.Route{Name: "Loop", Payment: d("300")})
	require.NoError(t, err)

	routes := s.Routes.List()
	routes[0].Name = "changed"
	assert.Equal(t, "Loop", s.Routes.List()[0].Name)
}

func TestStoreRoundTripThroughSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "haul.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate(ctx))

	s := openTestStore(t, db)
	_, err = s.Trips.Add(ctx, model.Trip{RouteName: "Loop", Date: "2024-03-15", Earnings: d("500.25")})
	require.NoError(t, err)
	_, err = s.Expenses.Add(ctx, model.Expense{
		Date: "2024-03-15", Category: model.CategoryParking, Description: "lot", Amount: d("20"),
	})
	require.NoError(t, err)

	reopened := openTestStore(t, db)
	data := reopened.Dataset()
	require.Len(t, data.Trips, 1)
	assert.True(t, data.Trips[0].Earnings.Equal(d("500.25")))
	require.Len(t, data.Expenses, 1)
	assert.Equal(t, model.CategoryParking, data.Expenses[0].Category)

	counts := data.Counts()
	assert.Equal(t, 1, counts[service.KeyTrips])
	assert.Equal(t, 0, counts[service.KeyFuelEntries])

	raw, err := db.Get(ctx, service.KeyTrips)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"earnings":500.25`)
}
