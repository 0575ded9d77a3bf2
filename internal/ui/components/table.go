package components

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/adaptquiz/internal/ui/theme"
)

// Table renders rows under a bold header. Columns listed in numeric are
// right-aligned. A footer row, when given, is set off in the title
// style.
type Table struct {
	Headers []string
	Rows    [][]string
	Footer  []string
	Numeric []int
}

func (t Table) View() string {
	numeric := make(map[int]bool, len(t.Numeric))
	for _, c := range t.Numeric {
		numeric[c] = true
	}
	rows := t.Rows
	if len(t.Footer) > 0 {
		rows = append(rows[:len(rows):len(rows)], t.Footer)
	}
	isFooter := func(row int) bool { return len(t.Footer) > 0 && row == len(t.Rows) }

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		BorderColumn(false).
		Headers(t.Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if numeric[col] {
				s = s.Align(lipgloss.Right)
			}
			switch {
			case row == table.HeaderRow:
				return s.Bold(true).Foreground(theme.Primary)
			case isFooter(row):
				return s.Bold(true).Foreground(theme.Text)
			default:
				return s.Foreground(theme.Text)
			}
		})
	return tbl.String()
}
