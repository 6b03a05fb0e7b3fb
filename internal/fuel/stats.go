// Package fuel computes fuel consumption statistics.
package fuel

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/haul/internal/model"
)

// Filter narrows the entries considered. Empty fields match everything; the
// date bounds are inclusive.
type Filter struct {
	TruckID   string
	StartDate string
	EndDate   string
}

// Matches reports whether e passes the filter. Empty fields match everything.
func (f Filter) Matches(e model.FuelEntry) bool {
	if f.TruckID != "" && e.TruckID != f.TruckID {
		return false
	}
	if f.StartDate != "" && e.Date < f.StartDate {
		return false
	}
	if f.EndDate != "" && e.Date > f.EndDate {
		return false
	}
	return true
}

// Stats summarizes a set of fuel entries.
type Stats struct {
	LastFillUp            *model.FuelEntry
	TotalGallons          decimal.Decimal
	TotalCost             decimal.Decimal
	AveragePricePerGallon decimal.Decimal
	TotalMilesDriven      decimal.Decimal
	AverageMPG            decimal.Decimal
	CostPerMile           decimal.Decimal
	MonthlyAverage        decimal.Decimal
	EntryCount            int
}

// Compute derives Stats from entries. Miles driven is the odometer difference
// between the earliest and latest entry, so out of order odometer readings can
// make it negative; that result is returned as is. Stored per-entry MPG values
// are ignored.
func Compute(entries []model.FuelEntry, filter Filter, now time.Time) Stats {
	var filtered []model.FuelEntry
	for _, e := range entries {
		if filter.Matches(e) {
			filtered = append(filtered, e)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date < filtered[j].Date
	})

	stats := Stats{EntryCount: len(filtered)}
	if len(filtered) == 0 {
		return stats
	}

	for _, e := range filtered {
		stats.TotalGallons = stats.TotalGallons.Add(e.Gallons)
		stats.TotalCost = stats.TotalCost.Add(e.TotalCost)
	}

	if stats.TotalGallons.IsPositive() {
		stats.AveragePricePerGallon = stats.TotalCost.Div(stats.TotalGallons)
	}

	if len(filtered) >= 2 {
		first, last := filtered[0], filtered[len(filtered)-1]
		stats.TotalMilesDriven = last.Odometer.Sub(first.Odometer)
		if stats.TotalGallons.IsPositive() {
			stats.AverageMPG = stats.TotalMilesDriven.Div(stats.TotalGallons)
		}
	}

	if stats.TotalMilesDriven.IsPositive() {
		stats.CostPerMile = stats.TotalCost.Div(stats.TotalMilesDriven)
	}

	stats.MonthlyAverage = monthlyAverage(filtered, now)

	last := filtered[len(filtered)-1]
	stats.LastFillUp = &last

	return stats
}

// monthlyAverage is the mean cost of the entries dated within the last month.
func monthlyAverage(entries []model.FuelEntry, now time.Time) decimal.Decimal {
	cutoff := model.FormatDate(now.AddDate(0, -1, 0))

	total := decimal.Zero
	count := 0
	for _, e := range entries {
		if e.Date >= cutoff {
			total = total.Add(e.TotalCost)
			count++
		}
	}
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count)))
}
