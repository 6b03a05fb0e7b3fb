package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Route is a reusable template for trips. Names are meant to be unique by
// case-insensitive match, which is not enforced.
type Route struct {
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Distance  *decimal.Decimal `json:"distance,omitempty"`
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Notes     string           `json:"notes,omitempty"`
	Payment   decimal.Decimal  `json:"payment"`
}

// RecordID implements records.Record.
func (r Route) RecordID() string { return r.ID }

// Validate checks the route form rules.
func (r Route) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	if r.Payment.IsNegative() {
		return fmt.Errorf("%w: payment", ErrNegativeAmount)
	}
	if r.Distance != nil && r.Distance.IsNegative() {
		return fmt.Errorf("%w: distance", ErrNegativeAmount)
	}
	return nil
}

// RoutePatch carries the fields of an update. Nil fields are left untouched.
type RoutePatch struct {
	Name     *string
	Notes    *string
	Payment  *decimal.Decimal
	Distance *decimal.Decimal
}

// Apply returns a copy of r with the patch merged over it.
func (r Route) Apply(p RoutePatch) Route {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	if p.Payment != nil {
		r.Payment = *p.Payment
	}
	if p.Distance != nil {
		d := *p.Distance
		r.Distance = &d
	}
	return r
}
