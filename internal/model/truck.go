package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Truck is a vehicle in the driver's fleet. Deleting one leaves the fuel entries
// that reference it in place.
type Truck struct {
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
	Mileage      *decimal.Decimal `json:"mileage,omitempty"`
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Make         string           `json:"make"`
	Model        string           `json:"model"`
	VIN          string           `json:"vin,omitempty"`
	PlateNumber  string           `json:"plateNumber"`
	Color        string           `json:"color,omitempty"`
	PurchaseDate string           `json:"purchaseDate,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	Year         int              `json:"year"`
	IsActive     bool             `json:"isActive"`
}

// RecordID implements records.Record.
func (t Truck) RecordID() string { return t.ID }

// DisplayName is "Name (Year Make Model)".
func (t Truck) DisplayName() string {
	return fmt.Sprintf("%s (%d %s %s)", t.Name, t.Year, t.Make, t.Model)
}

// Validate checks the truck form rules.
func (t Truck) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	if strings.TrimSpace(t.Make) == "" {
		return fmt.Errorf("%w: make", ErrMissingField)
	}
	if strings.TrimSpace(t.Model) == "" {
		return fmt.Errorf("%w: model", ErrMissingField)
	}
	if strings.TrimSpace(t.PlateNumber) == "" {
		return fmt.Errorf("%w: plate number", ErrMissingField)
	}
	if t.Year < 1900 || t.Year > time.Now().Year()+1 {
		return fmt.Errorf("%w: %d", ErrInvalidYear, t.Year)
	}
	if t.PurchaseDate != "" {
		if _, err := ParseDate(t.PurchaseDate); err != nil {
			return err
		}
	}
	if t.Mileage != nil && t.Mileage.IsNegative() {
		return fmt.Errorf("%w: mileage", ErrNegativeAmount)
	}
	return nil
}

// TruckPatch carries the fields of an update. Nil fields are left untouched.
type TruckPatch struct {
	Name         *string
	Make         *string
	Model        *string
	VIN          *string
	PlateNumber  *string
	Color        *string
	PurchaseDate *string
	Notes        *string
	Year         *int
	IsActive     *bool
	Mileage      *decimal.Decimal
}

// Apply returns a copy of t with the patch merged over it.
func (t Truck) Apply(p TruckPatch) Truck {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Make != nil {
		t.Make = *p.Make
	}
	if p.Model != nil {
		t.Model = *p.Model
	}
	if p.VIN != nil {
		t.VIN = *p.VIN
	}
	if p.PlateNumber != nil {
		t.PlateNumber = *p.PlateNumber
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.PurchaseDate != nil {
		t.PurchaseDate = *p.PurchaseDate
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.Year != nil {
		t.Year = *p.Year
	}
	if p.IsActive != nil {
		t.IsActive = *p.IsActive
	}
	if p.Mileage != nil {
		m := *p.Mileage
		t.Mileage = &m
	}
	return t
}
