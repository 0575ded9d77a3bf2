// Package theme holds the terminal styles of the command-line reports.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary = lipgloss.Color("#8B5CF6") // Vivid Purple
	Success = lipgloss.Color("#22C55E") // Green
	Warning = lipgloss.Color("#F59E0B") // Amber
	Error   = lipgloss.Color("#F43F5E") // Rose
	Text    = lipgloss.Color("#F8FAFC") // White
	TextDim = lipgloss.Color("#94A3B8") // Slate
	Border  = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(Text).
		MarginTop(1)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Dim = lipgloss.NewStyle().
		Foreground(TextDim)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

// Accuracy bands
var (
	Strong = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Fair   = lipgloss.NewStyle().Foreground(Warning)
	Weak   = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

// ForAccuracy picks the band style for a fraction in [0, 1].
func ForAccuracy(acc float64) lipgloss.Style {
	switch {
	case acc >= 0.8:
		return Strong
	case acc >= 0.5:
		return Fair
	default:
		return Weak
	}
}
