package report

import "charm.land/lipgloss/v2"

// Color palette — calm, readable on dark terminals
var (
	primary = lipgloss.Color("#8B5CF6") // Purple
	good    = lipgloss.Color("#22C55E") // Green
	warn    = lipgloss.Color("#F97316") // Orange
	bad     = lipgloss.Color("#F43F5E") // Rose
	text    = lipgloss.Color("#F8FAFC") // White
	textDim = lipgloss.Color("#94A3B8") // Slate
	border  = lipgloss.Color("#334155") // Slate
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primary)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(text)

	dimStyle = lipgloss.NewStyle().
			Foreground(textDim)

	bodyStyle = lipgloss.NewStyle().
			Foreground(text)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1)
)

// scoreStyle colors a 0-100 score by how healthy it is.
func scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 70:
		return lipgloss.NewStyle().Foreground(good).Bold(true)
	case score >= 40:
		return lipgloss.NewStyle().Foreground(warn)
	default:
		return lipgloss.NewStyle().Foreground(bad)
	}
}
