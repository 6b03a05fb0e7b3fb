package tui

import (
	"time"

	"github.com/Veraticus/haul/internal/report"
	"github.com/Veraticus/haul/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Anchor   time.Time
	Theme    themes.Theme
	Kind     report.PeriodKind
	Width    int
	Height   int
	ShowHelp bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Anchor: time.Now(),
		Theme:  themes.Default,
		Kind:   report.PeriodMonth,
		Width:  80,
		Height: 24,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithPeriod sets the starting period kind and anchor date.
func WithPeriod(kind report.PeriodKind, anchor time.Time) Option {
	return func(c *Config) {
		c.Kind = kind
		c.Anchor = anchor
	}
}

// WithHelp starts with the full help expanded.
func WithHelp(show bool) Option {
	return func(c *Config) {
		c.ShowHelp = show
	}
}
