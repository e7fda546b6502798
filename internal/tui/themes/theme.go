// Package themes holds the color schemes of the dashboard.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Normal       lipgloss.Style
	Bold         lipgloss.Style
	Selected     lipgloss.Style
	Tab          lipgloss.Style
	ActiveTab    lipgloss.Style
	RoundedBox   lipgloss.Style
	StatusError  lipgloss.Style
	StatusOK     lipgloss.Style
	StatusWarn   lipgloss.Style
	Income       lipgloss.Style
	Expense      lipgloss.Style
	Muted        lipgloss.Style
	Primary      lipgloss.Color
	Border       lipgloss.Color
	Foreground   lipgloss.Color
	MutedColor   lipgloss.Color
	IncomeColor  lipgloss.Color
	ExpenseColor lipgloss.Color
	WarningColor lipgloss.Color
}

func build(primary, foreground, muted, border, income, expense, warning lipgloss.Color) Theme {
	return Theme{
		Primary:      primary,
		Foreground:   foreground,
		MutedColor:   muted,
		Border:       border,
		IncomeColor:  income,
		ExpenseColor: expense,
		WarningColor: warning,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(foreground).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(muted),
		Normal: lipgloss.NewStyle().
			Foreground(foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(foreground),
		Selected: lipgloss.NewStyle().
			Background(primary).
			Foreground(foreground).
			Bold(true),
		Tab: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 2),
		ActiveTab: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			Underline(true).
			Padding(0, 2),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		StatusOK: lipgloss.NewStyle().
			Foreground(income).
			Bold(true),
		StatusWarn: lipgloss.NewStyle().
			Foreground(warning).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(expense).
			Bold(true),
		Income:  lipgloss.NewStyle().Foreground(income),
		Expense: lipgloss.NewStyle().Foreground(expense),
		Muted:   lipgloss.NewStyle().Foreground(muted),
	}
}

// Default is the default theme.
var Default = build(
	lipgloss.Color("#6366f1"),
	lipgloss.Color("#fafafa"),
	lipgloss.Color("#737373"),
	lipgloss.Color("#404040"),
	lipgloss.Color("#10b981"),
	lipgloss.Color("#ef4444"),
	lipgloss.Color("#f59e0b"),
)

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build(
	lipgloss.Color("#cba6f7"),
	lipgloss.Color("#cdd6f4"),
	lipgloss.Color("#6c7086"),
	lipgloss.Color("#45475a"),
	lipgloss.Color("#a6e3a1"),
	lipgloss.Color("#f38ba8"),
	lipgloss.Color("#f9e2af"),
)

// ByName returns the theme called name, or Default.
func ByName(name string) Theme {
	if name == "catppuccin" || name == "catppuccin-mocha" {
		return CatppuccinMocha
	}
	return Default
}
