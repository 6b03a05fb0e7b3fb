// Package service defines the interfaces shared between haul's layers.
package service

import (
	"context"

	"github.com/Veraticus/haul/internal/model"
)

// Collection keys under which each record type is persisted.
const (
	KeyRoutes      = "trucking_routes"
	KeyTrips       = "trucking_trips"
	KeyExpenses    = "trucking_expenses"
	KeyTrucks      = "trucks_data"
	KeyFuelEntries = "fuel_entries"
)

// KeyValueStore defines the contract for our persistence layer. Each key holds
// one whole collection serialized as JSON.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// Dataset is a point-in-time copy of every collection. Reports, exports and
// backups all work from one.
type Dataset struct {
	Routes      []model.Route
	Trips       []model.Trip
	Expenses    []model.Expense
	Trucks      []model.Truck
	FuelEntries []model.FuelEntry
}

// Counts returns the number of records per collection key.
func (d Dataset) Counts() map[string]int {
	return map[string]int{
		KeyRoutes:      len(d.Routes),
		KeyTrips:       len(d.Trips),
		KeyExpenses:    len(d.Expenses),
		KeyTrucks:      len(d.Trucks),
		KeyFuelEntries: len(d.FuelEntries),
	}
}
