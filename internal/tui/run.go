package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/haul/internal/model"
	"github.com/Veraticus/haul/internal/records"
)

// Run opens the period browser over store and blocks until the user quits or
// ctx is canceled. Changes to trips or expenses while it runs are picked up
// immediately.
func Run(ctx context.Context, store *records.Store, opts ...Option) error {
	if store == nil {
		return fmt.Errorf("store is required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	p := tea.NewProgram(newModel(store, cfg),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	notify := func() { p.Send(dataChangedMsg{data: store.Dataset()}) }
	stopTrips := store.Trips.Subscribe(func([]model.Trip) { notify() })
	defer stopTrips()
	stopExpenses := store.Expenses.Subscribe(func([]model.Expense) { notify() })
	defer stopExpenses()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("browser error: %w", err)
	}
	return nil
}
