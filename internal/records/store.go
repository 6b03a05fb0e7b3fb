package records

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/haul/internal/model"
	"github.com/Veraticus/haul/internal/service"
)

// Options tune how records are stamped. Zero values use the wall clock and
// random UUIDs.
type Options struct {
	Logger *slog.Logger
	Now    func() time.Time
	NewID  func() string
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

// Store bundles the service object of every collection.
type Store struct {
	Routes   *RouteService
	Trips    *TripService
	Expenses *ExpenseService
	Fuel     *FuelService
	Trucks   *TruckService
}

// Open builds a Store and loads every collection from kv. Load failures are
// logged and leave the affected collection empty; they are joined into the
// returned error, which callers may treat as a warning.
func Open(ctx context.Context, kv service.KeyValueStore, opts Options) (*Store, error) {
	opts = opts.withDefaults()

	s := &Store{
		Routes:   &RouteService{c: newCollection[model.Route](kv, service.KeyRoutes, opts), opts: opts},
		Trips:    &TripService{c: newCollection[model.Trip](kv, service.KeyTrips, opts), opts: opts},
		Expenses: &ExpenseService{c: newCollection[model.Expense](kv, service.KeyExpenses, opts), opts: opts},
		Fuel:     &FuelService{c: newCollection[model.FuelEntry](kv, service.KeyFuelEntries, opts), opts: opts},
		Trucks:   &TruckService{c: newCollection[model.Truck](kv, service.KeyTrucks, opts), opts: opts},
	}

	err := errors.Join(
		s.Routes.c.Load(ctx),
		s.Trips.c.Load(ctx),
		s.Expenses.c.Load(ctx),
		s.Fuel.c.Load(ctx),
		s.Trucks.c.Load(ctx),
	)

	return s, err
}

// Dataset snapshots every collection.
func (s *Store) Dataset() service.Dataset {
	return service.Dataset{
		Routes:      s.Routes.List(),
		Trips:       s.Trips.List(),
		Expenses:    s.Expenses.List(),
		Trucks:      s.Trucks.List(),
		FuelEntries: s.Fuel.List(),
	}
}
