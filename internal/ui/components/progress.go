// Package components renders reusable pieces of the terminal reports.
package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/adaptquiz/internal/ui/theme"
)

// ProgressBar displays a horizontal accuracy bar colored by band.
type ProgressBar struct {
	Label       string
	LabelWidth  int
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var b strings.Builder

	if p.Label != "" {
		label := p.Label
		if p.LabelWidth > 0 {
			label = padRight(label, p.LabelWidth)
		}
		b.WriteString(theme.Body.Render(label) + "  ")
	}

	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 7 // "  100.0%"
	}
	barWidth := max(p.Width-lipgloss.Width(b.String())-percentWidth, 4)

	filled := min(max(int(float64(barWidth)*p.Percent), 0), barWidth)
	style := theme.ForAccuracy(p.Percent)
	b.WriteString(style.Render(strings.Repeat("█", filled)))
	b.WriteString(theme.Dim.Render(strings.Repeat("░", barWidth-filled)))

	if p.ShowPercent {
		b.WriteString(style.Render(fmt.Sprintf("  %5.1f%%", p.Percent*100)))
	}
	return b.String()
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
