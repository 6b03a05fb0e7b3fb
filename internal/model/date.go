package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the layout of every record date. Dates are compared as strings,
// which is only correct because they are zero padded.
const DateLayout = "2006-01-02"

func init() {
	// Collections are persisted and exported with plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// ParseDate parses a YYYY-MM-DD record date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders t as a record date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the current local date as a record date.
func Today() string {
	return FormatDate(time.Now())
}

// MonthPrefix returns the "YYYY-MM" prefix shared by all dates of a month.
func MonthPrefix(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// YearPrefix returns the "YYYY" prefix shared by all dates of a year.
func YearPrefix(year int) string {
	return fmt.Sprintf("%04d", year)
}
