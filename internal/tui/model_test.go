package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/haul/internal/model"
	"github.com/Veraticus/haul/internal/report"
	"github.com/Veraticus/haul/internal/service"
)

type staticSource struct {
	data  service.Dataset
	calls int
}

func (s *staticSource) Dataset() service.Dataset {
	s.calls++
	return s.data
}

func testDataset() service.Dataset {
	return service.Dataset{
		Trips: []model.Trip{
			{ID: "t1", Date: "2024-03-12", RouteName: "Dallas - Houston", TrailerNumber: "T-204",
				Earnings: decimal.NewFromInt(1500), FuelCost: decimal.NewFromInt(200), OtherExpenses: decimal.Zero},
			{ID: "t2", Date: "2024-02-20", RouteName: "Austin - El Paso",
				Earnings: decimal.NewFromInt(900), FuelCost: decimal.Zero, OtherExpenses: decimal.Zero},
		},
		Expenses: []model.Expense{
			{ID: "e1", Date: "2024-03-14", Category: model.CategoryTolls, Description: "Turnpike toll", Amount: decimal.NewFromInt(30)},
		},
	}
}

func newTestModel(t *testing.T, kind report.PeriodKind) (Model, *staticSource) {
	t.Helper()
	source := &staticSource{data: testDataset()}
	cfg := defaultConfig()
	cfg.Width = 120
	cfg.Height = 40
	cfg.Kind = kind
	cfg.Anchor = time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC)
	return newModel(source, cfg), source
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func TestNavigation(t *testing.T) {
	tests := []struct {
		name  string
		kind  report.PeriodKind
		keys  []string
		label string
	}{
		{name: "starts on anchor month", kind: report.PeriodMonth, label: "March 2024"},
		{name: "previous month", kind: report.PeriodMonth, keys: []string{"h"}, label: "February 2024"},
		{name: "arrow keys", kind: report.PeriodMonth, keys: []string{"left", "left", "right"}, label: "February 2024"},
		{name: "next year", kind: report.PeriodYear, keys: []string{"l"}, label: "2025"},
		{name: "switch to week", kind: report.PeriodMonth, keys: []string{"w"}, label: "Mar 10 - Mar 16, 2024"},
		{name: "week then back", kind: report.PeriodWeek, keys: []string{"h"}, label: "Mar 3 - Mar 9, 2024"},
		{name: "switch to year", kind: report.PeriodWeek, keys: []string{"y"}, label: "2024"},
		{name: "week after moving months", kind: report.PeriodMonth, keys: []string{"h", "w"}, label: "Jan 28 - Feb 3, 2024"},
		{name: "month from year keeps focus", kind: report.PeriodMonth, keys: []string{"y", "m"}, label: "March 2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t, tt.kind)
			m = press(t, m, tt.keys...)
			assert.Equal(t, tt.label, m.Period().Label())
			assert.Contains(t, m.View(), tt.label)
		})
	}
}

func TestTodayResetsToCurrentPeriod(t *testing.T) {
	m, _ := newTestModel(t, report.PeriodMonth)
	m.now = func() time.Time { return time.Date(2025, time.July, 4, 12, 0, 0, 0, time.UTC) }

	m = press(t, m, "h", "h", "t")
	assert.Equal(t, "July 2025", m.Period().Label())
}

func TestSummaryView(t *testing.T) {
	m, _ := newTestModel(t, report.PeriodMonth)
	view := m.View()

	assert.Contains(t, view, "$1,500.00")
	assert.Contains(t, view, "$230.00")
	assert.Contains(t, view, "T-204")
	assert.Contains(t, view, "By category")
	assert.Contains(t, view, "Tolls")
	// February earned 900, March 1500.
	assert.Contains(t, view, "+66.7%")
}

func TestLedgerView(t *testing.T) {
	m, _ := newTestModel(t, report.PeriodMonth)
	m = press(t, m, "tab")
	view := m.View()

	assert.Contains(t, view, "Turnpike toll")
	assert.Contains(t, view, "Dallas - Houston")
	assert.NotContains(t, view, "Austin - El Paso")

	m = press(t, m, "h")
	assert.Contains(t, m.View(), "Austin - El Paso")

	m = press(t, m, "h")
	assert.Contains(t, m.View(), "Nothing recorded in this period")

	m = press(t, m, "tab")
	assert.Equal(t, ViewSummary, m.view)
}

func TestRefreshAndDataChanges(t *testing.T) {
	m, source := newTestModel(t, report.PeriodMonth)
	require.Equal(t, 1, source.calls)

	m = press(t, m, "r")
	assert.Equal(t, 2, source.calls)

	next, _ := m.Update(dataChangedMsg{data: service.Dataset{}})
	m = next.(Model)
	assert.Contains(t, m.View(), "$0.00")
}

func TestQuit(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		t.Run(k, func(t *testing.T) {
			m, _ := newTestModel(t, report.PeriodMonth)
			var msg tea.KeyMsg
			if k == "esc" {
				msg = tea.KeyMsg{Type: tea.KeyEsc}
			} else {
				msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
			}

			next, cmd := m.Update(msg)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.Empty(t, next.View())
		})
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t, report.PeriodMonth)
	assert.False(t, m.help.ShowAll)

	m = press(t, m, "?")
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "yearly")
}

func TestWindowResize(t *testing.T) {
	m, _ := newTestModel(t, report.PeriodMonth)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m = next.(Model)

	assert.Equal(t, 60, m.width)
	assert.Equal(t, 20, m.height)
	assert.Contains(t, m.View(), "March 2024")
}
