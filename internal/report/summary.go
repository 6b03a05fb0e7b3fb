// Package report derives financial summaries from trips and expenses.
//
// Every function here is pure and recomputes from the full slices it is
// given. Expense totals always include the fuel cost and other expenses
// recorded on each trip in addition to the standalone ledger expenses; the two
// are never reconciled against each other.
package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/haul/internal/model"
)

// DailySummary is the result for a single date.
type DailySummary struct {
	Date          string
	Trips         []model.Trip
	Expenses      []model.Expense
	TotalEarnings decimal.Decimal
	TotalExpenses decimal.Decimal
	NetProfit     decimal.Decimal
}

// PeriodSummary is the result for a week, month or year. Start and End are the
// inclusive date bounds.
type PeriodSummary struct {
	ExpensesByCategory map[model.ExpenseCategory]decimal.Decimal
	Start              string
	End                string
	Trips              []model.Trip
	Expenses           []model.Expense
	TrailerNumbers     []string
	TotalEarnings      decimal.Decimal
	TotalExpenses      decimal.Decimal
	NetProfit          decimal.Decimal
	TripCount          int
}

// Daily summarizes the records dated exactly date.
func Daily(trips []model.Trip, expenses []model.Expense, date string) DailySummary {
	dayTrips := filterTrips(trips, func(d string) bool { return d == date })
	dayExpenses := filterExpenses(expenses, func(d string) bool { return d == date })

	earnings, costs := tripTotals(dayTrips)
	spent := costs.Add(expenseTotal(dayExpenses))

	return DailySummary{
		Date:          date,
		Trips:         dayTrips,
		Expenses:      dayExpenses,
		TotalEarnings: earnings,
		TotalExpenses: spent,
		NetProfit:     earnings.Sub(spent),
	}
}

// Monthly summarizes every record whose date starts with the "YYYY-MM" of
// year and month. A month outside 1-12 matches nothing.
func Monthly(trips []model.Trip, expenses []model.Expense, year, month int) PeriodSummary {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	prefix := model.MonthPrefix(year, month)
	inMonth := func(d string) bool { return strings.HasPrefix(d, prefix) }
	return summarize(trips, expenses, model.FormatDate(first), model.FormatDate(last), inMonth)
}

// Weekly summarizes the Sunday through Saturday week containing date.
func Weekly(trips []model.Trip, expenses []model.Expense, date time.Time) PeriodSummary {
	start, end := WeekBounds(date)
	return summarizeRange(trips, expenses, model.FormatDate(start), model.FormatDate(end))
}

// Yearly summarizes every record dated in year.
func Yearly(trips []model.Trip, expenses []model.Expense, year int) PeriodSummary {
	first := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return summarizeRange(trips, expenses, model.FormatDate(first), model.FormatDate(last))
}

// WeekBounds returns the Sunday and Saturday of the week containing t.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	start := day.AddDate(0, 0, -int(day.Weekday()))
	return start, start.AddDate(0, 0, 6)
}

func summarizeRange(trips []model.Trip, expenses []model.Expense, start, end string) PeriodSummary {
	inRange := func(d string) bool { return d >= start && d <= end }
	return summarize(trips, expenses, start, end, inRange)
}

func summarize(trips []model.Trip, expenses []model.Expense, start, end string, keep func(date string) bool) PeriodSummary {
	periodTrips := filterTrips(trips, keep)
	periodExpenses := filterExpenses(expenses, keep)

	earnings, costs := tripTotals(periodTrips)
	spent := costs.Add(expenseTotal(periodExpenses))

	return PeriodSummary{
		Start:              start,
		End:                end,
		Trips:              periodTrips,
		Expenses:           periodExpenses,
		TotalEarnings:      earnings,
		TotalExpenses:      spent,
		NetProfit:          earnings.Sub(spent),
		TripCount:          len(periodTrips),
		ExpensesByCategory: ExpensesByCategory(periodTrips, periodExpenses),
		TrailerNumbers:     trailerNumbers(periodTrips),
	}
}

// ExpensesByCategory sums expense amounts per category. Trip fuel costs are
// added under the fuel category, but the key only appears for them when at
// least one trip has a non-zero fuel cost. Trip other expenses are not
// categorized.
func ExpensesByCategory(trips []model.Trip, expenses []model.Expense) map[model.ExpenseCategory]decimal.Decimal {
	out := make(map[model.ExpenseCategory]decimal.Decimal)
	for _, e := range expenses {
		out[e.Category] = out[e.Category].Add(e.Amount)
	}

	tripFuel := decimal.Zero
	for _, t := range trips {
		tripFuel = tripFuel.Add(t.FuelCost)
	}
	if !tripFuel.IsZero() {
		out[model.CategoryFuel] = out[model.CategoryFuel].Add(tripFuel)
	}
	return out
}

func filterTrips(trips []model.Trip, keep func(date string) bool) []model.Trip {
	var out []model.Trip
	for _, t := range trips {
		if keep(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

func filterExpenses(expenses []model.Expense, keep func(date string) bool) []model.Expense {
	var out []model.Expense
	for _, e := range expenses {
		if keep(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// tripTotals returns summed earnings and summed trip-embedded costs.
func tripTotals(trips []model.Trip) (decimal.Decimal, decimal.Decimal) {
	earnings, costs := decimal.Zero, decimal.Zero
	for _, t := range trips {
		earnings = earnings.Add(t.Earnings)
		costs = costs.Add(t.Costs())
	}
	return earnings, costs
}

func expenseTotal(expenses []model.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

func trailerNumbers(trips []model.Trip) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range trips {
		if t.TrailerNumber == "" || seen[t.TrailerNumber] {
			continue
		}
		seen[t.TrailerNumber] = true
		out = append(out, t.TrailerNumber)
	}
	return out
}

// TotalExpenses applies the double accounting rule to arbitrary slices.
func TotalExpenses(trips []model.Trip, expenses []model.Expense) decimal.Decimal {
	_, costs := tripTotals(trips)
	return costs.Add(expenseTotal(expenses))
}

// TotalEarnings sums trip earnings.
func TotalEarnings(trips []model.Trip) decimal.Decimal {
	earnings, _ := tripTotals(trips)
	return earnings
}
