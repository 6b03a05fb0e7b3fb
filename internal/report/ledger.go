package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/haul/internal/model"
)

// EntryKind tells earnings from outflows in the ledger.
type EntryKind string

// Ledger entry kinds.
const (
	KindEarning EntryKind = "earning"
	KindOutflow EntryKind = "outflow"
)

// FilterEarnings restricts the ledger to trips.
const FilterEarnings = "earnings"

// LedgerEntry is one row of the transaction ledger.
type LedgerEntry struct {
	CreatedAt   time.Time
	ID          string
	Date        string
	Kind        EntryKind
	Category    model.ExpenseCategory
	Description string
	Amount      decimal.Decimal
}

// LedgerFilter narrows the ledger. Year zero means every year. Category is
// empty for everything, FilterEarnings for trips only, or an expense category
// for only that category's expenses.
type LedgerFilter struct {
	Category string
	Year     int
}

// Ledger lists trips as earnings and expenses as outflows, newest first. Rows
// sharing a date are ordered by creation time, newest first.
func Ledger(trips []model.Trip, expenses []model.Expense, filter LedgerFilter) []LedgerEntry {
	var prefix string
	if filter.Year != 0 {
		prefix = model.YearPrefix(filter.Year)
	}
	inYear := func(date string) bool {
		return len(date) >= len(prefix) && date[:len(prefix)] == prefix
	}

	var entries []LedgerEntry

	if filter.Category == "" || filter.Category == FilterEarnings {
		for _, t := range trips {
			if !inYear(t.Date) {
				continue
			}
			entries = append(entries, LedgerEntry{
				ID:          t.ID,
				Date:        t.Date,
				CreatedAt:   t.CreatedAt,
				Kind:        KindEarning,
				Description: tripDescription(t),
				Amount:      t.Earnings,
			})
		}
	}

	if filter.Category != FilterEarnings {
		for _, e := range expenses {
			if !inYear(e.Date) {
				continue
			}
			if filter.Category != "" && string(e.Category) != filter.Category {
				continue
			}
			entries = append(entries, LedgerEntry{
				ID:          e.ID,
				Date:        e.Date,
				CreatedAt:   e.CreatedAt,
				Kind:        KindOutflow,
				Category:    e.Category,
				Description: e.Description,
				Amount:      e.Amount,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date > entries[j].Date
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	return entries
}

func tripDescription(t model.Trip) string {
	if t.TrailerNumber == "" {
		return t.RouteName
	}
	return t.RouteName + " (trailer " + t.TrailerNumber + ")"
}
