package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/haul/internal/model"
)

// FleetTotals are all-time figures across every collection.
type FleetTotals struct {
	TotalEarnings    decimal.Decimal
	TotalExpenses    decimal.Decimal
	NetProfit        decimal.Decimal
	FuelSpend        decimal.Decimal
	TripCount        int
	RouteCount       int
	TruckCount       int
	ActiveTruckCount int
	FuelEntryCount   int
}

// Fleet totals every record ever logged. FuelSpend sums fuel entry costs and is
// reported on its own; it is not part of TotalExpenses.
func Fleet(trips []model.Trip, expenses []model.Expense, routes []model.Route, trucks []model.Truck, fuel []model.FuelEntry) FleetTotals {
	earnings, costs := tripTotals(trips)
	spent := costs.Add(expenseTotal(expenses))

	active := 0
	for _, t := range trucks {
		if t.IsActive {
			active++
		}
	}

	fuelSpend := decimal.Zero
	for _, f := range fuel {
		fuelSpend = fuelSpend.Add(f.TotalCost)
	}

	return FleetTotals{
		TotalEarnings:    earnings,
		TotalExpenses:    spent,
		NetProfit:        earnings.Sub(spent),
		FuelSpend:        fuelSpend,
		TripCount:        len(trips),
		RouteCount:       len(routes),
		TruckCount:       len(trucks),
		ActiveTruckCount: active,
		FuelEntryCount:   len(fuel),
	}
}

// CategoryAmount is one line of a category breakdown.
type CategoryAmount struct {
	Category model.ExpenseCategory
	Amount   decimal.Decimal
}

// CategoryBreakdown flattens a category map, largest amount first and ties by
// category name.
func CategoryBreakdown(byCategory map[model.ExpenseCategory]decimal.Decimal) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(byCategory))
	for c, amount := range byCategory {
		out = append(out, CategoryAmount{Category: c, Amount: amount})
	}

	sort.Slice(out, func(i, j int) bool {
		if cmp := out[i].Amount.Cmp(out[j].Amount); cmp != 0 {
			return cmp > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}
