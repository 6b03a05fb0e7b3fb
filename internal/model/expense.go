package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory is one of the fixed ledger categories.
type ExpenseCategory string

// Expense categories.
const (
	CategoryFuel         ExpenseCategory = "fuel"
	CategoryMaintenance  ExpenseCategory = "maintenance"
	CategoryTolls        ExpenseCategory = "tolls"
	CategoryFood         ExpenseCategory = "food"
	CategoryLodging      ExpenseCategory = "lodging"
	CategoryInsurance    ExpenseCategory = "insurance"
	CategoryPermits      ExpenseCategory = "permits"
	CategoryParking      ExpenseCategory = "parking"
	CategoryTruckPayment ExpenseCategory = "truck_payment"
	CategorySupplies     ExpenseCategory = "supplies"
	CategoryOther        ExpenseCategory = "other"
)

var categoryLabels = map[ExpenseCategory]string{
	CategoryFuel:         "Fuel",
	CategoryMaintenance:  "Maintenance",
	CategoryTolls:        "Tolls",
	CategoryFood:         "Food",
	CategoryLodging:      "Lodging",
	CategoryInsurance:    "Insurance",
	CategoryPermits:      "Permits",
	CategoryParking:      "Parking",
	CategoryTruckPayment: "Truck Payment",
	CategorySupplies:     "Supplies",
	CategoryOther:        "Other",
}

// ExpenseCategories returns every category in display order.
func ExpenseCategories() []ExpenseCategory {
	return []ExpenseCategory{
		CategoryFuel,
		CategoryMaintenance,
		CategoryTolls,
		CategoryFood,
		CategoryLodging,
		CategoryInsurance,
		CategoryPermits,
		CategoryParking,
		CategoryTruckPayment,
		CategorySupplies,
		CategoryOther,
	}
}

// ParseExpenseCategory accepts a category value or its label, case-insensitively.
func ParseExpenseCategory(s string) (ExpenseCategory, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for c, label := range categoryLabels {
		if norm == string(c) || norm == strings.ToLower(label) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// Valid reports whether c is one of the fixed categories.
func (c ExpenseCategory) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label is the human readable category name.
func (c ExpenseCategory) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Expense is a ledger outflow independent of any trip.
type Expense struct {
	CreatedAt    time.Time       `json:"createdAt"`
	ID           string          `json:"id"`
	Date         string          `json:"date"`
	Category     ExpenseCategory `json:"category"`
	Description  string          `json:"description"`
	Notes        string          `json:"notes,omitempty"`
	ReceiptImage string          `json:"receiptImage,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
}

// RecordID implements records.Record.
func (e Expense) RecordID() string { return e.ID }

// HasReceipt reports whether a receipt image is attached.
func (e Expense) HasReceipt() bool { return e.ReceiptImage != "" }

// Validate checks the expense form rules.
func (e Expense) Validate() error {
	if _, err := ParseDate(e.Date); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, e.Category)
	}
	if strings.TrimSpace(e.Description) == "" {
		return fmt.Errorf("%w: description", ErrMissingField)
	}
	if e.Amount.IsNegative() {
		return fmt.Errorf("%w: amount", ErrNegativeAmount)
	}
	return nil
}

// ExpensePatch carries the fields of an update. Nil fields are left untouched.
type ExpensePatch struct {
	Date         *string
	Category     *ExpenseCategory
	Description  *string
	Notes        *string
	ReceiptImage *string
	Amount       *decimal.Decimal
}

// Apply returns a copy of e with the patch merged over it.
func (e Expense) Apply(p ExpensePatch) Expense {
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
	if p.ReceiptImage != nil {
		e.ReceiptImage = *p.ReceiptImage
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	return e
}
