package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/adaptquiz/internal/store"
	"github.com/abhisek/adaptquiz/internal/ui/theme"
)

// StatsReport renders a user's profile for the terminal: overall
// accuracy, one bar per category and the study plan items.
func StatsReport(username string, stats *store.UserStats, plan []string, width int) string {
	var sections []string

	sections = append(sections, theme.Title.Render(username))
	sections = append(sections, theme.Dim.Render(fmt.Sprintf(
		"%d quizzes completed · %d of %d answers correct",
		stats.TotalQuizzes, stats.Correct, stats.Total)))

	if stats.Total > 0 {
		overall := NewProgressBar("Overall", stats.Accuracy(), true, width)
		sections = append(sections, overall.View())
	}

	sections = append(sections, theme.Heading.Render("Categories"))
	if len(stats.Categories) == 0 {
		sections = append(sections, theme.Dim.Render("No answers recorded yet."))
	} else {
		labelWidth := 0
		for _, c := range stats.Categories {
			labelWidth = max(labelWidth, lipgloss.Width(c.Category))
		}
		for _, c := range stats.Categories {
			bar := ProgressBar{
				Label:       c.Category,
				LabelWidth:  labelWidth,
				Percent:     c.Accuracy(),
				ShowPercent: true,
				Width:       width,
			}
			sections = append(sections, bar.View()+theme.Dim.Render(fmt.Sprintf("  %d/%d", c.Correct, c.Total)))
		}
	}

	sections = append(sections, theme.Heading.Render("Study plan"))
	if len(plan) == 0 {
		sections = append(sections, theme.Dim.Render("No study plan available yet. Complete a quiz to generate one."))
	} else {
		items := make([]string, len(plan))
		for i, p := range plan {
			items[i] = theme.Body.Render("• " + p)
		}
		sections = append(sections, theme.Card.Width(width).Render(strings.Join(items, "\n")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
