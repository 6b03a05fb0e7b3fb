package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/haul/internal/model"
	"github.com/Veraticus/haul/internal/service"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestEscapeField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "plain", want: "plain"},
		{in: "", want: ""},
		{in: " leading space", want: " leading space"},
		{in: "stop, then go", want: `"stop, then go"`},
		{in: `the "big" one`, want: `"the ""big"" one"`},
		{in: "line\nbreak", want: "\"line\nbreak\""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeField(tt.in))
		})
	}
}

func TestTripsCSV(t *testing.T) {
	trips := []model.Trip{
		{Date: "2024-03-05", RouteName: "Denver Run", TrailerNumber: "TR-9", Earnings: d("500"), FuelCost: d("80"), OtherExpenses: d("20.5"), Notes: "stop, then go"},
		{Date: "2024-12-25", RouteName: `The "Holiday" Loop`, Earnings: d("1234.5")},
	}

	var buf bytes.Buffer
	require.NoError(t, TripsCSV(&buf, trips, nil))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Route Name,Trailer Number,Earnings,Fuel Cost,Other Expenses,Net Profit,Notes", lines[0])
	assert.Equal(t, `3/5/2024,Denver Run,TR-9,500.00,80.00,20.50,399.50,"stop, then go"`, lines[1])
	assert.Equal(t, `12/25/2024,"The ""Holiday"" Loop",,1234.50,0.00,0.00,1234.50,`, lines[2])
}

func TestCSVRoundTrip(t *testing.T) {
	trips := []model.Trip{{Date: "2024-03-05", RouteName: "A", Earnings: d("1"), Notes: "stop, then go"}}

	var buf bytes.Buffer
	require.NoError(t, TripsCSV(&buf, trips, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "stop, then go", records[1][7])
}

func TestExpensesCSV(t *testing.T) {
	expenses := []model.Expense{
		{Date: "2024-01-09", Category: model.CategoryTruckPayment, Description: "January note", Amount: d("1850"), ReceiptImage: "data:image/png;base64,AAAA"},
		{Date: "2024-01-10", Category: model.CategoryTolls, Description: "Turnpike", Amount: d("12.755")},
	}

	var buf bytes.Buffer
	require.NoError(t, ExpensesCSV(&buf, expenses, nil))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Category,Description,Amount,Receipt,Notes", lines[0])
	assert.Equal(t, "1/9/2024,Truck Payment,January note,1850.00,Yes,", lines[1])
	assert.Equal(t, "1/10/2024,Tolls,Turnpike,12.76,No,", lines[2])
}

func TestFuelCSV(t *testing.T) {
	mpg := d("6.84")
	entries := []model.FuelEntry{
		{Date: "2024-02-01", TruckID: "k1", Gallons: d("120.5"), PricePerGallon: d("3.899"), TotalCost: d("469.83"), Odometer: d("150230"), MPG: &mpg, Location: "Flying J, Cheyenne", IsFillUp: true},
		{Date: "2024-02-03", Gallons: d("40"), PricePerGallon: d("4"), TotalCost: d("160"), Odometer: d("150500")},
	}

	var buf bytes.Buffer
	require.NoError(t, FuelCSV(&buf, entries, nil))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Truck ID,Gallons,Price Per Gallon,Total Cost,Odometer,MPG,Location,Fill-Up,Notes", lines[0])
	assert.Equal(t, `2/1/2024,k1,120.500,3.899,469.83,150230,6.8,"Flying J, Cheyenne",Yes,`, lines[1])
	assert.Equal(t, "2/3/2024,,40.000,4.000,160.00,150500,,,No,", lines[2])
}

func TestCSVProgress(t *testing.T) {
	expenses := make([]model.Expense, 3)
	for i := range expenses {
		expenses[i] = model.Expense{Date: "2024-01-01", Category: model.CategoryOther, Description: "x", Amount: d("1")}
	}

	var calls [][2]int
	var buf bytes.Buffer
	require.NoError(t, ExpensesCSV(&buf, expenses, func(done, total int) {
		calls = append(calls, [2]int{done, total})
	}))

	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, calls)
}

func TestCSVEmptyWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TripsCSV(&buf, nil, nil))
	assert.Equal(t, strings.Join(TripHeaders, ",")+"\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestCSVWriteError(t *testing.T) {
	assert.Error(t, TripsCSV(failingWriter{}, nil, nil))
}

func TestUSDate(t *testing.T) {
	assert.Equal(t, "7/4/2024", USDate("2024-07-04"))
	assert.Equal(t, "not a date", USDate("not a date"))
}

func TestJSONIsIndented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, []model.Expense{{ID: "e1", Date: "2024-01-01", Category: model.CategoryFood, Description: "x", Amount: d("9.5")}}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "[\n  {\n    \"createdAt\""), out)
	assert.Contains(t, out, `"amount": 9.5`)
}

func TestSnapshot(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	data := service.Dataset{
		Trips: []model.Trip{{ID: "t1", RouteName: "A", Date: "2024-03-15", Earnings: d("500")}},
	}

	snap := NewSnapshot(User{ID: "local", Name: "Sam"}, data, now)

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, snap))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "1.0", doc["version"])
	assert.Equal(t, "2024-03-15T10:30:00Z", doc["timestamp"])

	inner := doc["data"].(map[string]any)
	for _, key := range []string{"routes", "trips", "expenses", "trucks", "fuelEntries"} {
		assert.Contains(t, inner, key)
		assert.NotNil(t, inner[key], "%s should be an array, not null", key)
	}

	parsed, err := ParseSnapshot(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, parsed.Dataset().Trips, 1)
	assert.True(t, parsed.Dataset().Trips[0].Earnings.Equal(d("500")))
	assert.Equal(t, "Sam", parsed.User.Name)

	_, err = ParseSnapshot([]byte("{"))
	assert.Error(t, err)
}
