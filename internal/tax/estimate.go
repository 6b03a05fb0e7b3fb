// Package tax estimates a year's federal income tax for a self-employed driver.
package tax

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/haul/internal/model"
	"github.com/Veraticus/haul/internal/report"
)

// Bracket is one band of the marginal rate table. Min and Max are whole-dollar
// bounds as published; a nil Max means the band is unbounded.
type Bracket struct {
	Max  *decimal.Decimal
	Min  decimal.Decimal
	Rate decimal.Decimal
}

// floor is the income at which the band starts taxing. Published tables list
// the first dollar of each band, so every band after the first starts one
// dollar below its Min.
func (b Bracket) floor() decimal.Decimal {
	if b.Min.IsPositive() {
		return b.Min.Sub(decimal.NewFromInt(1))
	}
	return decimal.Zero
}

// DefaultStandardMileageRate is the per-mile deduction in dollars.
var DefaultStandardMileageRate = decimal.RequireFromString("0.655")

// DefaultBrackets are the single-filer rates.
func DefaultBrackets() []Bracket {
	band := func(min, max int64, rate string) Bracket {
		b := Bracket{Min: decimal.NewFromInt(min), Rate: decimal.RequireFromString(rate)}
		if max > 0 {
			m := decimal.NewFromInt(max)
			b.Max = &m
		}
		return b
	}
	return []Bracket{
		band(0, 11000, "0.10"),
		band(11001, 44725, "0.12"),
		band(44726, 95375, "0.22"),
		band(95376, 182100, "0.24"),
		band(182101, 231250, "0.32"),
		band(231251, 578125, "0.35"),
		band(578126, 0, "0.37"),
	}
}

// Estimator holds the rate table and mileage rate.
type Estimator struct {
	Brackets            []Bracket
	StandardMileageRate decimal.Decimal
}

// DefaultEstimator uses the built-in brackets and mileage rate.
func DefaultEstimator() Estimator {
	return Estimator{
		Brackets:            DefaultBrackets(),
		StandardMileageRate: DefaultStandardMileageRate,
	}
}

// Input selects the records and deduction method.
type Input struct {
	Trips              []model.Trip
	Expenses           []model.Expense
	EstimatedMiles     decimal.Decimal
	Year               int
	UseStandardMileage bool
}

// BracketTax is the tax owed within one bracket.
type BracketTax struct {
	Bracket Bracket
	Taxable decimal.Decimal
	Tax     decimal.Decimal
}

// Estimate is the result for one year.
type Estimate struct {
	QuarterlyDueDates        []time.Time
	Brackets                 []BracketTax
	CategoryBreakdown        []report.CategoryAmount
	TotalIncome              decimal.Decimal
	TotalExpenses            decimal.Decimal
	StandardMileageDeduction decimal.Decimal
	DeductibleExpenses       decimal.Decimal
	NetIncome                decimal.Decimal
	EstimatedTax             decimal.Decimal
	QuarterlyEstimate        decimal.Decimal
	EffectiveRate            decimal.Decimal
	Year                     int
	UseStandardMileage       bool
}

// Estimate computes the year's figures. Deductible expenses are the mileage
// deduction under the standard method, otherwise actual expenses including
// trip costs.
func (e Estimator) Estimate(in Input) Estimate {
	prefix := model.YearPrefix(in.Year)

	var trips []model.Trip
	for _, t := range in.Trips {
		if strings.HasPrefix(t.Date, prefix) {
			trips = append(trips, t)
		}
	}
	var expenses []model.Expense
	for _, x := range in.Expenses {
		if strings.HasPrefix(x.Date, prefix) {
			expenses = append(expenses, x)
		}
	}

	out := Estimate{
		Year:                     in.Year,
		UseStandardMileage:       in.UseStandardMileage,
		TotalIncome:              report.TotalEarnings(trips),
		TotalExpenses:            report.TotalExpenses(trips, expenses),
		StandardMileageDeduction: in.EstimatedMiles.Mul(e.StandardMileageRate),
		CategoryBreakdown:        report.CategoryBreakdown(report.ExpensesByCategory(trips, expenses)),
		QuarterlyDueDates:        QuarterlyDueDates(in.Year),
	}

	if in.UseStandardMileage {
		out.DeductibleExpenses = out.StandardMileageDeduction
	} else {
		out.DeductibleExpenses = out.TotalExpenses
	}

	out.NetIncome = decimal.Max(decimal.Zero, out.TotalIncome.Sub(out.DeductibleExpenses))
	out.Brackets = e.bracketTaxes(out.NetIncome)
	for _, b := range out.Brackets {
		out.EstimatedTax = out.EstimatedTax.Add(b.Tax)
	}

	out.QuarterlyEstimate = out.EstimatedTax.Div(decimal.NewFromInt(4))
	if out.NetIncome.IsPositive() {
		out.EffectiveRate = out.EstimatedTax.Div(out.NetIncome).Mul(decimal.NewFromInt(100))
	}

	return out
}

// Tax returns the marginal tax on income.
func (e Estimator) Tax(income decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, b := range e.bracketTaxes(income) {
		total = total.Add(b.Tax)
	}
	return total
}

// bracketTaxes taxes each dollar at the rate of the band it falls in. Only
// bands that tax something are returned.
func (e Estimator) bracketTaxes(income decimal.Decimal) []BracketTax {
	var out []BracketTax
	for _, b := range e.Brackets {
		floor := b.floor()
		if income.LessThanOrEqual(floor) {
			break
		}

		top := income
		if b.Max != nil && b.Max.LessThan(income) {
			top = *b.Max
		}

		taxable := top.Sub(floor)
		out = append(out, BracketTax{
			Bracket: b,
			Taxable: taxable,
			Tax:     taxable.Mul(b.Rate),
		})
	}
	return out
}

// QuarterlyDueDates returns the estimated payment deadlines for year: April 15,
// June 15, September 15 and January 15 of the following year.
func QuarterlyDueDates(year int) []time.Time {
	return []time.Time{
		time.Date(year, time.April, 15, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.June, 15, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.September, 15, 0, 0, 0, 0, time.UTC),
		time.Date(year+1, time.January, 15, 0, 0, 0, 0, time.UTC),
	}
}
