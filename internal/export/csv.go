// Package export renders records as CSV and JSON documents.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/haul/internal/model"
)

// Progress is called after each row is written with the number written so far
// and the total. It may be nil.
type Progress func(done, total int)

// Column headers, in output order.
var (
	TripHeaders    = []string{"Date", "Route Name", "Trailer Number", "Earnings", "Fuel Cost", "Other Expenses", "Net Profit", "Notes"}
	ExpenseHeaders = []string{"Date", "Category", "Description", "Amount", "Receipt", "Notes"}
	FuelHeaders    = []string{"Date", "Truck ID", "Gallons", "Price Per Gallon", "Total Cost", "Odometer", "MPG", "Location", "Fill-Up", "Notes"}
)

// TripsCSV writes one row per trip.
func TripsCSV(w io.Writer, trips []model.Trip, progress Progress) error {
	rows := make([][]string, len(trips))
	for i, t := range trips {
		rows[i] = []string{
			USDate(t.Date),
			t.RouteName,
			t.TrailerNumber,
			Money(t.Earnings),
			Money(t.FuelCost),
			Money(t.OtherExpenses),
			Money(t.NetProfit()),
			t.Notes,
		}
	}
	return writeCSV(w, TripHeaders, rows, progress)
}

// ExpensesCSV writes one row per expense.
func ExpensesCSV(w io.Writer, expenses []model.Expense, progress Progress) error {
	rows := make([][]string, len(expenses))
	for i, e := range expenses {
		rows[i] = []string{
			USDate(e.Date),
			e.Category.Label(),
			e.Description,
			Money(e.Amount),
			yesNo(e.HasReceipt()),
			e.Notes,
		}
	}
	return writeCSV(w, ExpenseHeaders, rows, progress)
}

// FuelCSV writes one row per fuel entry.
func FuelCSV(w io.Writer, entries []model.FuelEntry, progress Progress) error {
	rows := make([][]string, len(entries))
	for i, f := range entries {
		mpg := ""
		if f.MPG != nil {
			mpg = f.MPG.StringFixed(1)
		}
		rows[i] = []string{
			USDate(f.Date),
			f.TruckID,
			f.Gallons.StringFixed(3),
			f.PricePerGallon.StringFixed(3),
			Money(f.TotalCost),
			f.Odometer.String(),
			mpg,
			f.Location,
			yesNo(f.IsFillUp),
			f.Notes,
		}
	}
	return writeCSV(w, FuelHeaders, rows, progress)
}

func writeCSV(w io.Writer, headers []string, rows [][]string, progress Progress) error {
	if err := writeRow(w, headers); err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeRow(w, row); err != nil {
			return err
		}
		if progress != nil {
			progress(i+1, len(rows))
		}
	}
	return nil
}

func writeRow(w io.Writer, fields []string) error {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = EscapeField(f)
	}
	if _, err := io.WriteString(w, strings.Join(escaped, ",")+"\n"); err != nil {
		return fmt.Errorf("failed to write csv row: %w", err)
	}
	return nil
}

// EscapeField quotes a value only when it contains a comma, a double quote or a
// newline, doubling any embedded quotes.
func EscapeField(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// USDate renders a record date as M/D/YYYY. Unparseable dates pass through.
func USDate(date string) string {
	t, err := model.ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("1/2/2006")
}

// Money renders an amount with two decimals and no grouping.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
