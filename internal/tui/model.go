package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/haul/internal/report"
	"github.com/Veraticus/haul/internal/service"
	"github.com/Veraticus/haul/internal/tui/themes"
)

// View represents the current view mode.
type View int

const (
	ViewSummary View = iota
	ViewLedger
)

// DataSource supplies the records the browser summarizes.
type DataSource interface {
	Dataset() service.Dataset
}

// Model holds the browser state.
type Model struct {
	source   DataSource
	now      func() time.Time
	theme    themes.Theme
	data     service.Dataset
	period   report.Period
	focus    time.Time
	help     help.Model
	keymap   KeyMap
	width    int
	height   int
	view     View
	quitting bool
}

// newModel creates a new model with the given configuration.
func newModel(source DataSource, cfg Config) Model {
	h := help.New()
	h.ShowAll = cfg.ShowHelp

	m := Model{
		source: source,
		now:    time.Now,
		theme:  cfg.Theme,
		period: report.NewPeriod(cfg.Kind, cfg.Anchor),
		focus:  cfg.Anchor,
		help:   h,
		keymap: DefaultKeyMap(),
		width:  cfg.Width,
		height: cfg.Height,
		view:   ViewSummary,
	}
	if source != nil {
		m.data = source.Dataset()
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case dataChangedMsg:
		m.data = msg.data
	}
	return m, nil
}

// switchKind changes the period kind around the focused day, or around the
// start of the shown period once navigation has moved away from it.
func (m *Model) switchKind(kind report.PeriodKind) {
	start, end := m.period.Range()
	day := time.Date(m.focus.Year(), m.focus.Month(), m.focus.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(start) || day.After(end) {
		m.focus = start
	}
	m.period = report.NewPeriod(kind, m.focus)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Prev):
		m.period = m.period.Prev()
	case key.Matches(msg, m.keymap.Next):
		m.period = m.period.Next()
	case key.Matches(msg, m.keymap.Today):
		m.focus = m.now()
		m.period = report.NewPeriod(m.period.Kind, m.focus)
	case key.Matches(msg, m.keymap.Week):
		m.switchKind(report.PeriodWeek)
	case key.Matches(msg, m.keymap.Month):
		m.switchKind(report.PeriodMonth)
	case key.Matches(msg, m.keymap.Year):
		m.switchKind(report.PeriodYear)
	case key.Matches(msg, m.keymap.ToggleView):
		if m.view == ViewSummary {
			m.view = ViewLedger
		} else {
			m.view = ViewSummary
		}
	case key.Matches(msg, m.keymap.Refresh):
		if m.source != nil {
			m.data = m.source.Dataset()
		}
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// Period returns the period on screen.
func (m Model) Period() report.Period {
	return m.period
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.view {
	case ViewLedger:
		body = m.renderLedger()
	default:
		body = m.renderSummary()
	}
	return m.renderFrame(body)
}
