package themes

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/haul/internal/model"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Tab           lipgloss.Style
	ActiveTab     lipgloss.Style
	RoundedBox    lipgloss.Style
	BarFull       lipgloss.Style
	BarEmpty      lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusError   lipgloss.Style
	StatusPending lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Success       lipgloss.Color
	Error         lipgloss.Color
}

func build(primary, fg, subtle, border, success, errColor, muted lipgloss.Color) Theme {
	return Theme{
		Primary: primary,
		Muted:   muted,
		Border:  border,
		Success: success,
		Error:   errColor,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(subtle),
		Normal: lipgloss.NewStyle().
			Foreground(fg),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		Tab: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg).
			Background(border).
			Padding(0, 1),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		BarFull: lipgloss.NewStyle().
			Foreground(primary),
		BarEmpty: lipgloss.NewStyle().
			Foreground(border),
		StatusSuccess: lipgloss.NewStyle().
			Foreground(success).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(errColor).
			Bold(true),
		StatusPending: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),
	}
}

// Default is the default theme.
var Default = build(
	lipgloss.Color("#F4A261"), // primary
	lipgloss.Color("#fafafa"), // foreground
	lipgloss.Color("#a3a3a3"), // subtitle
	lipgloss.Color("#404040"), // border
	lipgloss.Color("#4ECDC4"), // success
	lipgloss.Color("#FF6B6B"), // error
	lipgloss.Color("#737373"), // muted
)

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build(
	lipgloss.Color("#fab387"),
	lipgloss.Color("#cdd6f4"),
	lipgloss.Color("#a6adc8"),
	lipgloss.Color("#45475a"),
	lipgloss.Color("#a6e3a1"),
	lipgloss.Color("#f38ba8"),
	lipgloss.Color("#6c7086"),
)

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// CategoryIcons maps expense categories to emoji icons.
var CategoryIcons = map[model.ExpenseCategory]string{
	model.CategoryFuel:         "⛽",
	model.CategoryMaintenance:  "🔧",
	model.CategoryTolls:        "🛣️",
	model.CategoryFood:         "🍔",
	model.CategoryLodging:      "🛏️",
	model.CategoryInsurance:    "🛡️",
	model.CategoryPermits:      "📋",
	model.CategoryParking:      "🅿️",
	model.CategoryTruckPayment: "🚚",
	model.CategorySupplies:     "📦",
	model.CategoryOther:        "💼",
}

// GetCategoryIcon returns an icon for a category.
func GetCategoryIcon(category model.ExpenseCategory) string {
	if icon, ok := CategoryIcons[category]; ok {
		return icon
	}
	return "💼"
}
