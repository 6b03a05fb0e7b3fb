package fuel

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/haul/internal/model"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var now = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func entry(id, truck, date, gallons, cost, odometer string) model.FuelEntry {
	return model.FuelEntry{
		ID:             id,
		TruckID:        truck,
		Date:           date,
		Gallons:        d(gallons),
		PricePerGallon: d("4"),
		TotalCost:      d(cost),
		Odometer:       d(odometer),
	}
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil, Filter{}, now)

	assert.Zero(t, s.EntryCount)
	assert.Nil(t, s.LastFillUp)
	assert.True(t, s.AverageMPG.IsZero())
	assert.True(t, s.CostPerMile.IsZero())
	assert.True(t, s.AveragePricePerGallon.IsZero())
	assert.True(t, s.MonthlyAverage.IsZero())
}

func TestComputeSingleEntry(t *testing.T) {
	s := Compute([]model.FuelEntry{entry("f1", "", "2024-03-01", "100", "400", "120000")}, Filter{}, now)

	assert.Equal(t, 1, s.EntryCount)
	assert.True(t, s.TotalMilesDriven.IsZero())
	assert.True(t, s.AverageMPG.IsZero())
	assert.True(t, s.CostPerMile.IsZero())
	assert.Equal(t, "4", s.AveragePricePerGallon.String())
	require.NotNil(t, s.LastFillUp)
	assert.Equal(t, "f1", s.LastFillUp.ID)
}

func TestComputeFirstToLastOdometer(t *testing.T) {
	entries := []model.FuelEntry{
		entry("f2", "", "2024-03-10", "20", "80", "1400"),
		entry("f1", "", "2024-03-01", "0", "0", "1000"),
	}

	s := Compute(entries, Filter{}, now)

	assert.Equal(t, "400", s.TotalMilesDriven.String())
	assert.Equal(t, "20", s.AverageMPG.String())
	assert.Equal(t, "0.2", s.CostPerMile.String())
	assert.Equal(t, "f2", s.LastFillUp.ID)
}

func TestComputeZeroGallons(t *testing.T) {
	entries := []model.FuelEntry{
		entry("a", "", "2024-03-01", "0", "50", "1000"),
		entry("b", "", "2024-03-08", "0", "30", "1250"),
	}

	s := Compute(entries, Filter{}, now)

	assert.Equal(t, 2, s.EntryCount)
	assert.True(t, s.TotalGallons.IsZero())
	assert.Equal(t, "250", s.TotalMilesDriven.String())
	assert.True(t, s.AverageMPG.IsZero(), "no gallons means no mpg")
	assert.True(t, s.AveragePricePerGallon.IsZero())
	assert.Equal(t, "0.32", s.CostPerMile.String())
}

func TestComputeAcrossManyEntries(t *testing.T) {
	entries := []model.FuelEntry{
		entry("a", "k1", "2024-01-05", "100", "380", "100000"),
		entry("b", "k1", "2024-02-05", "120", "468", "100650"),
		entry("c", "k1", "2024-03-01", "110", "440", "101300"),
		entry("d", "k1", "2024-03-15", "90", "378", "101800"),
	}

	s := Compute(entries, Filter{}, now)

	assert.Equal(t, 4, s.EntryCount)
	assert.Equal(t, "420", s.TotalGallons.String())
	assert.Equal(t, "1666", s.TotalCost.String())
	assert.Equal(t, "1800", s.TotalMilesDriven.String())
	assert.Equal(t, "4.2857142857142857", s.AverageMPG.String())
	// on or after 2024-02-20: c and d
	assert.Equal(t, "409", s.MonthlyAverage.String())
}

func TestComputeNegativeMilesPreserved(t *testing.T) {
	entries := []model.FuelEntry{
		entry("a", "", "2024-03-01", "50", "200", "5000"),
		entry("b", "", "2024-03-05", "50", "200", "4000"),
	}

	s := Compute(entries, Filter{}, now)

	assert.Equal(t, "-1000", s.TotalMilesDriven.String())
	assert.Equal(t, "-10", s.AverageMPG.String())
	assert.True(t, s.CostPerMile.IsZero(), "cost per mile needs positive miles")
}

func TestComputeStableSortOnSameDate(t *testing.T) {
	entries := []model.FuelEntry{
		entry("first", "", "2024-03-01", "10", "40", "1000"),
		entry("second", "", "2024-03-01", "10", "40", "1100"),
	}

	s := Compute(entries, Filter{}, now)

	assert.Equal(t, "100", s.TotalMilesDriven.String())
	assert.Equal(t, "second", s.LastFillUp.ID)
}

func TestComputeFilters(t *testing.T) {
	entries := []model.FuelEntry{
		entry("a", "k1", "2024-01-05", "100", "400", "1000"),
		entry("b", "k2", "2024-02-05", "100", "400", "9000"),
		entry("c", "k1", "2024-03-05", "100", "400", "2000"),
		entry("d", "k1", "2024-04-05", "100", "400", "3000"),
	}

	byTruck := Compute(entries, Filter{TruckID: "k1"}, now)
	assert.Equal(t, 3, byTruck.EntryCount)
	assert.Equal(t, "2000", byTruck.TotalMilesDriven.String())

	byRange := Compute(entries, Filter{TruckID: "k1", StartDate: "2024-01-05", EndDate: "2024-03-05"}, now)
	assert.Equal(t, 2, byRange.EntryCount, "bounds are inclusive")
	assert.Equal(t, "1000", byRange.TotalMilesDriven.String())

	none := Compute(entries, Filter{TruckID: "k9"}, now)
	assert.Zero(t, none.EntryCount)
}

func TestComputeIgnoresStoredMPG(t *testing.T) {
	mpg := d("99")
	a := entry("a", "", "2024-03-01", "10", "40", "1000")
	a.MPG = &mpg
	b := entry("b", "", "2024-03-02", "10", "40", "1060")
	b.MPG = &mpg

	s := Compute([]model.FuelEntry{a, b}, Filter{}, now)
	assert.Equal(t, "3", s.AverageMPG.String())
}
