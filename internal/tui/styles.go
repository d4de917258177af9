// Package tui is the terminal front end of the catalog viewer: a root model
// routing between the login, product list, product detail and summary views.
package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	ColorPrimary = lipgloss.Color("#7aa2f7")
	ColorSuccess = lipgloss.Color("#9ece6a")
	ColorWarning = lipgloss.Color("#e0af68")
	ColorError   = lipgloss.Color("#f7768e")
	ColorMuted   = lipgloss.Color("#565f89")
	ColorFg      = lipgloss.Color("#c0caf5")
	ColorFgDim   = lipgloss.Color("#a9b1d6")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorFg).
			Padding(0, 1).
			Bold(true)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Padding(0, 1).
			Underline(true).
			Bold(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorWarning).
			Padding(0, 1)

	BadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1a1b26")).
			Background(ColorSuccess).
			Padding(0, 1).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(1, 0, 0, 0)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)

	PanelFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary).
				Padding(0, 1)

	// Table cells
	CellStyle     = lipgloss.NewStyle().Padding(0, 1).Foreground(ColorFgDim)
	HeaderCell    = lipgloss.NewStyle().Padding(0, 1).Foreground(ColorPrimary).Bold(true)
	SelectedStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(ColorFg).Background(lipgloss.Color("#24283b")).Bold(true)
)

// formatPrice renders an amount in dollars rounded half-up to cents.
func formatPrice(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}
