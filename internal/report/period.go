package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/haul/internal/model"
)

// PeriodKind selects the length of a Period.
type PeriodKind string

// Period kinds.
const (
	PeriodWeek  PeriodKind = "week"
	PeriodMonth PeriodKind = "month"
	PeriodYear  PeriodKind = "year"
)

// ParsePeriodKind accepts week, month or year in any case.
func ParsePeriodKind(s string) (PeriodKind, error) {
	switch k := PeriodKind(strings.ToLower(strings.TrimSpace(s))); k {
	case PeriodWeek, PeriodMonth, PeriodYear:
		return k, nil
	default:
		return "", fmt.Errorf("unknown period %q: want week, month or year", s)
	}
}

// Period is a navigable week, month or year identified by any date inside it.
type Period struct {
	Anchor time.Time
	Kind   PeriodKind
}

// NewPeriod returns the period of the given kind containing anchor. Month
// anchors move to the 1st and year anchors to January 1, so stepping never
// overflows into the wrong month.
func NewPeriod(kind PeriodKind, anchor time.Time) Period {
	y, m, d := anchor.Date()
	switch kind {
	case PeriodMonth:
		d = 1
	case PeriodYear:
		m, d = time.January, 1
	}
	return Period{
		Kind:   kind,
		Anchor: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	}
}

// Prev steps one period back.
func (p Period) Prev() Period {
	return p.Shift(-1)
}

// Next steps one period forward.
func (p Period) Next() Period {
	return p.Shift(1)
}

// Shift moves n periods; negative n moves back.
func (p Period) Shift(n int) Period {
	switch p.Kind {
	case PeriodWeek:
		p.Anchor = p.Anchor.AddDate(0, 0, 7*n)
	case PeriodMonth:
		p.Anchor = p.Anchor.AddDate(0, n, 0)
	case PeriodYear:
		p.Anchor = p.Anchor.AddDate(n, 0, 0)
	}
	return p
}

// Range returns the inclusive first and last dates of the period.
func (p Period) Range() (time.Time, time.Time) {
	switch p.Kind {
	case PeriodWeek:
		return WeekBounds(p.Anchor)
	case PeriodYear:
		y := p.Anchor.Year()
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC)
	default:
		first := time.Date(p.Anchor.Year(), p.Anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(0, 1, -1)
	}
}

// Label renders the period for headings.
func (p Period) Label() string {
	start, end := p.Range()
	switch p.Kind {
	case PeriodWeek:
		if start.Year() != end.Year() {
			return fmt.Sprintf("%s - %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
		}
		return fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2, 2006"))
	case PeriodYear:
		return start.Format("2006")
	default:
		return start.Format("January 2006")
	}
}

// Summarize computes the summary for p.
func Summarize(p Period, trips []model.Trip, expenses []model.Expense) PeriodSummary {
	switch p.Kind {
	case PeriodWeek:
		return Weekly(trips, expenses, p.Anchor)
	case PeriodYear:
		return Yearly(trips, expenses, p.Anchor.Year())
	default:
		return Monthly(trips, expenses, p.Anchor.Year(), int(p.Anchor.Month()))
	}
}

// PercentChange is (current - previous) / previous * 100, or zero when there
// is no previous value to compare against.
func PercentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100))
}

// Comparison pairs a period with the one before it.
type Comparison struct {
	Period         Period
	Current        PeriodSummary
	Previous       PeriodSummary
	EarningsChange decimal.Decimal
	ExpensesChange decimal.Decimal
	ProfitChange   decimal.Decimal
}

// Compare summarizes p and its predecessor.
func Compare(p Period, trips []model.Trip, expenses []model.Expense) Comparison {
	current := Summarize(p, trips, expenses)
	previous := Summarize(p.Prev(), trips, expenses)

	return Comparison{
		Period:         p,
		Current:        current,
		Previous:       previous,
		EarningsChange: PercentChange(current.TotalEarnings, previous.TotalEarnings),
		ExpensesChange: PercentChange(current.TotalExpenses, previous.TotalExpenses),
		ProfitChange:   PercentChange(current.NetProfit, previous.NetProfit),
	}
}
