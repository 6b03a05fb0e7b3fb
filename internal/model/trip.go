// Package model defines the records kept in the driver's ledger.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Trip is a single paid haul. RouteName is a snapshot of the route's name at the
// time the trip was logged, not a reference to a Route.
type Trip struct {
	CreatedAt     time.Time       `json:"createdAt"`
	ID            string          `json:"id"`
	RouteName     string          `json:"routeName"`
	Date          string          `json:"date"`
	TrailerNumber string          `json:"trailerNumber,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Earnings      decimal.Decimal `json:"earnings"`
	FuelCost      decimal.Decimal `json:"fuelCost"`
	OtherExpenses decimal.Decimal `json:"otherExpenses"`
}

// RecordID implements records.Record.
func (t Trip) RecordID() string { return t.ID }

// Costs is the trip-scoped spend folded into every expense total.
func (t Trip) Costs() decimal.Decimal {
	return t.FuelCost.Add(t.OtherExpenses)
}

// NetProfit is earnings minus the trip's own costs.
func (t Trip) NetProfit() decimal.Decimal {
	return t.Earnings.Sub(t.Costs())
}

// Validate checks the trip form rules.
func (t Trip) Validate() error {
	if strings.TrimSpace(t.RouteName) == "" {
		return fmt.Errorf("%w: route name", ErrMissingField)
	}
	if _, err := ParseDate(t.Date); err != nil {
		return err
	}
	if t.Earnings.IsNegative() {
		return fmt.Errorf("%w: earnings", ErrNegativeAmount)
	}
	if t.FuelCost.IsNegative() {
		return fmt.Errorf("%w: fuel cost", ErrNegativeAmount)
	}
	if t.OtherExpenses.IsNegative() {
		return fmt.Errorf("%w: other expenses", ErrNegativeAmount)
	}
	return nil
}

// TripPatch carries the fields of an update. Nil fields are left untouched.
type TripPatch struct {
	RouteName     *string
	Date          *string
	TrailerNumber *string
	Notes         *string
	Earnings      *decimal.Decimal
	FuelCost      *decimal.Decimal
	OtherExpenses *decimal.Decimal
}

// Apply returns a copy of t with the patch merged over it.
func (t Trip) Apply(p TripPatch) Trip {
	if p.RouteName != nil {
		t.RouteName = *p.RouteName
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.TrailerNumber != nil {
		t.TrailerNumber = *p.TrailerNumber
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.Earnings != nil {
		t.Earnings = *p.Earnings
	}
	if p.FuelCost != nil {
		t.FuelCost = *p.FuelCost
	}
	if p.OtherExpenses != nil {
		t.OtherExpenses = *p.OtherExpenses
	}
	return t
}
