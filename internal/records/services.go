package records

import (
	"context"
	"fmt"

	"github.com/Veraticus/haul/internal/model"
)

// Every Add and Update below returns the record as stored in memory, even when
// the error wraps common.ErrPersistFailed.

// RouteService manages saved routes.
type RouteService struct {
	c    *Collection[model.Route]
	opts Options
}

// List returns every route.
func (s *RouteService) List() []model.Route { return s.c.All() }

// Get returns the route with id.
func (s *RouteService) Get(id string) (model.Route, bool) { return s.c.Get(id) }

// Subscribe registers fn for change notifications.
func (s *RouteService) Subscribe(fn func([]model.Route)) func() { return s.c.Subscribe(fn) }

// Add validates and stores a new route.
func (s *RouteService) Add(ctx context.Context, r model.Route) (model.Route, error) {
	if err := r.Validate(); err != nil {
		return model.Route{}, fmt.Errorf("invalid route: %w", err)
	}
	now := s.opts.Now()
	r.ID = s.opts.NewID()
	r.CreatedAt = now
	r.UpdatedAt = now
	return r, s.c.insert(ctx, r)
}

// Update merges patch into the route with id.
func (s *RouteService) Update(ctx context.Context, id string, patch model.RoutePatch) (model.Route, error) {
	return s.c.replace(ctx, id, func(r model.Route) (model.Route, error) {
		r = r.Apply(patch)
		if err := r.Validate(); err != nil {
			return r, fmt.Errorf("invalid route: %w", err)
		}
		r.UpdatedAt = s.opts.Now()
		return r, nil
	})
}

// Delete removes the route with id. Trips keep their route name.
func (s *RouteService) Delete(ctx context.Context, id string) error { return s.c.remove(ctx, id) }

// TripService manages logged trips.
type TripService struct {
	c    *Collection[model.Trip]
	opts Options
}

// List returns every trip.
func (s *TripService) List() []model.Trip { return s.c.All() }

// Get returns the trip with id.
func (s *TripService) Get(id string) (model.Trip, bool) { return s.c.Get(id) }

// Subscribe registers fn for change notifications.
func (s *TripService) Subscribe(fn func([]model.Trip)) func() { return s.c.Subscribe(fn) }

// Add validates and stores a new trip.
func (s *TripService) Add(ctx context.Context, t model.Trip) (model.Trip, error) {
	if err := t.Validate(); err != nil {
		return model.Trip{}, fmt.Errorf("invalid trip: %w", err)
	}
	t.ID = s.opts.NewID()
	t.CreatedAt = s.opts.Now()
	return t, s.c.insert(ctx, t)
}

// Update merges patch into the trip with id.
func (s *TripService) Update(ctx context.Context, id string, patch model.TripPatch) (model.Trip, error) {
	return s.c.replace(ctx, id, func(t model.Trip) (model.Trip, error) {
		t = t.Apply(patch)
		if err := t.Validate(); err != nil {
			return t, fmt.Errorf("invalid trip: %w", err)
		}
		return t, nil
	})
}

// Delete removes the trip with id.
func (s *TripService) Delete(ctx context.Context, id string) error { return s.c.remove(ctx, id) }

// ExpenseService manages ledger expenses.
type ExpenseService struct {
	c    *Collection[model.Expense]
	opts Options
}

// List returns every expense.
func (s *ExpenseService) List() []model.Expense { return s.c.All() }

// Get returns the expense with id.
func (s *ExpenseService) Get(id string) (model.Expense, bool) { return s.c.Get(id) }

// Subscribe registers fn for change notifications.
func (s *ExpenseService) Subscribe(fn func([]model.Expense)) func() { return s.c.Subscribe(fn) }

// Add validates and stores a new expense.
func (s *ExpenseService) Add(ctx context.Context, e model.Expense) (model.Expense, error) {
	if err := e.Validate(); err != nil {
		return model.Expense{}, fmt.Errorf("invalid expense: %w", err)
	}
	e.ID = s.opts.NewID()
	e.CreatedAt = s.opts.Now()
	return e, s.c.insert(ctx, e)
}

// Update merges patch into the expense with id.
func (s *ExpenseService) Update(ctx context.Context, id string, patch model.ExpensePatch) (model.Expense, error) {
	return s.c.replace(ctx, id, func(e model.Expense) (model.Expense, error) {
		e = e.Apply(patch)
		if err := e.Validate(); err != nil {
			return e, fmt.Errorf("invalid expense: %w", err)
		}
		return e, nil
	})
}

// Delete removes the expense with id.
func (s *ExpenseService) Delete(ctx context.Context, id string) error { return s.c.remove(ctx, id) }

// FuelService manages fuel purchases.
type FuelService struct {
	c    *Collection[model.FuelEntry]
	opts Options
}

// List returns every fuel entry.
func (s *FuelService) List() []model.FuelEntry { return s.c.All() }

// Get returns the fuel entry with id.
func (s *FuelService) Get(id string) (model.FuelEntry, bool) { return s.c.Get(id) }

// Subscribe registers fn for change notifications.
func (s *FuelService) Subscribe(fn func([]model.FuelEntry)) func() { return s.c.Subscribe(fn) }

// Add validates and stores a new fuel entry. A zero TotalCost is filled in from
// gallons and price; any other value is kept as entered.
func (s *FuelService) Add(ctx context.Context, f model.FuelEntry) (model.FuelEntry, error) {
	if f.TotalCost.IsZero() {
		f.TotalCost = f.Gallons.Mul(f.PricePerGallon).Round(2)
	}
	if err := f.Validate(); err != nil {
		return model.FuelEntry{}, fmt.Errorf("invalid fuel entry: %w", err)
	}
	f.ID = s.opts.NewID()
	f.CreatedAt = s.opts.Now()
	return f, s.c.insert(ctx, f)
}

// Update merges patch into the fuel entry with id. TotalCost is never
// recomputed here.
func (s *FuelService) Update(ctx context.Context, id string, patch model.FuelEntryPatch) (model.FuelEntry, error) {
	return s.c.replace(ctx, id, func(f model.FuelEntry) (model.FuelEntry, error) {
		f = f.Apply(patch)
		if err := f.Validate(); err != nil {
			return f, fmt.Errorf("invalid fuel entry: %w", err)
		}
		return f, nil
	})
}

// Delete removes the fuel entry with id.
func (s *FuelService) Delete(ctx context.Context, id string) error { return s.c.remove(ctx, id) }

// TruckService manages the fleet.
type TruckService struct {
	c    *Collection[model.Truck]
	opts Options
}

// List returns every truck.
func (s *TruckService) List() []model.Truck { return s.c.All() }

// Get returns the truck with id.
func (s *TruckService) Get(id string) (model.Truck, bool) { return s.c.Get(id) }

// Subscribe registers fn for change notifications.
func (s *TruckService) Subscribe(fn func([]model.Truck)) func() { return s.c.Subscribe(fn) }

// Active returns the trucks marked active.
func (s *TruckService) Active() []model.Truck {
	var active []model.Truck
	for _, t := range s.c.All() {
		if t.IsActive {
			active = append(active, t)
		}
	}
	return active
}

// Add validates and stores a new truck.
func (s *TruckService) Add(ctx context.Context, t model.Truck) (model.Truck, error) {
	if err := t.Validate(); err != nil {
		return model.Truck{}, fmt.Errorf("invalid truck: %w", err)
	}
	now := s.opts.Now()
	t.ID = s.opts.NewID()
	t.CreatedAt = now
	t.UpdatedAt = now
	return t, s.c.insert(ctx, t)
}

// Update merges patch into the truck with id.
func (s *TruckService) Update(ctx context.Context, id string, patch model.TruckPatch) (model.Truck, error) {
	return s.c.replace(ctx, id, func(t model.Truck) (model.Truck, error) {
		t = t.Apply(patch)
		if err := t.Validate(); err != nil {
			return t, fmt.Errorf("invalid truck: %w", err)
		}
		t.UpdatedAt = s.opts.Now()
		return t, nil
	})
}

// Delete removes the truck with id. Fuel entries referencing it are kept.
func (s *TruckService) Delete(ctx context.Context, id string) error { return s.c.remove(ctx, id) }
