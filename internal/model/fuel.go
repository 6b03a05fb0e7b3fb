package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// FuelEntry is one fuel purchase. TotalCost is whatever the driver entered and is
// never re-derived from gallons and price. MPG is optional and precomputed
// elsewhere.
type FuelEntry struct {
	CreatedAt      time.Time        `json:"createdAt"`
	MPG            *decimal.Decimal `json:"mpg,omitempty"`
	ID             string           `json:"id"`
	TruckID        string           `json:"truckId,omitempty"`
	Date           string           `json:"date"`
	Location       string           `json:"location,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	Gallons        decimal.Decimal  `json:"gallons"`
	PricePerGallon decimal.Decimal  `json:"pricePerGallon"`
	TotalCost      decimal.Decimal  `json:"totalCost"`
	Odometer       decimal.Decimal  `json:"odometer"`
	IsFillUp       bool             `json:"isFillUp"`
}

// RecordID implements records.Record.
func (f FuelEntry) RecordID() string { return f.ID }

// Validate checks the fuel form rules.
func (f FuelEntry) Validate() error {
	if _, err := ParseDate(f.Date); err != nil {
		return err
	}
	if !f.Gallons.IsPositive() {
		return fmt.Errorf("%w: gallons", ErrNonPositive)
	}
	if !f.PricePerGallon.IsPositive() {
		return fmt.Errorf("%w: price per gallon", ErrNonPositive)
	}
	if f.TotalCost.IsNegative() {
		return fmt.Errorf("%w: total cost", ErrNegativeAmount)
	}
	if f.Odometer.IsNegative() {
		return fmt.Errorf("%w: odometer", ErrNegativeAmount)
	}
	return nil
}

// FuelEntryPatch carries the fields of an update. Nil fields are left untouched.
type FuelEntryPatch struct {
	TruckID        *string
	Date           *string
	Location       *string
	Notes          *string
	Gallons        *decimal.Decimal
	PricePerGallon *decimal.Decimal
	TotalCost      *decimal.Decimal
	Odometer       *decimal.Decimal
	MPG            *decimal.Decimal
	IsFillUp       *bool
}

// Apply returns a copy of f with the patch merged over it.
func (f FuelEntry) Apply(p FuelEntryPatch) FuelEntry {
	if p.TruckID != nil {
		f.TruckID = *p.TruckID
	}
	if p.Date != nil {
		f.Date = *p.Date
	}
	if p.Location != nil {
		f.Location = *p.Location
	}
	if p.Notes != nil {
		f.Notes = *p.Notes
	}
	if p.Gallons != nil {
		f.Gallons = *p.Gallons
	}
	if p.PricePerGallon != nil {
		f.PricePerGallon = *p.PricePerGallon
	}
	if p.TotalCost != nil {
		f.TotalCost = *p.TotalCost
	}
	if p.Odometer != nil {
		f.Odometer = *p.Odometer
	}
	if p.MPG != nil {
		mpg := *p.MPG
		f.MPG = &mpg
	}
	if p.IsFillUp != nil {
		f.IsFillUp = *p.IsFillUp
	}
	return f
}
