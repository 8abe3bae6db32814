// Package report renders analysis results for the terminal: a styled
// static table per result and an interactive browser.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/chazu/suntools/pkg/analysis"
)

// Columns are the headers shared by the static and interactive tables.
var Columns = []string{"path", "relation", "case", "area", "exposed", "comment"}

// Rows returns one row per cell of res, in cell order.
func Rows(res *analysis.Result) [][]string {
	rows := make([][]string, 0, len(res.Cells))
	for _, c := range res.Cells {
		rel := c.Relationship.String()
		switch {
		case c.Degenerate:
			rel = "degenerate"
		case c.Skipped:
			rel = "skipped"
		}
		rows = append(rows, []string{
			c.Path.String(),
			rel,
			c.Case,
			formatArea(c.Area),
			formatArea(c.Exposed),
			c.Comment,
		})
	}
	return rows
}

func formatArea(a *float64) string {
	if a == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f", *a)
}

// Table renders res as a bordered table under a title line.
func Table(res *analysis.Result) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderCol)).
		Headers(Columns...).
		Rows(Rows(res)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(res.Cells) && (res.Cells[row].Degenerate || res.Cells[row].ReconciliationFailed) {
				return cellStyle.Foreground(warnFg)
			}
			return cellStyle
		})

	title := titleStyle.Render(fmt.Sprintf("%s (%s)", res.Name, res.Kind))
	total := dimStyle.Render(fmt.Sprintf("%d cells, total area %.4f", len(res.Cells), res.TotalArea()))
	return lipgloss.JoinVertical(lipgloss.Left, title, t.Render(), total)
}

// Summary renders every result, separated by blank lines.
func Summary(results []*analysis.Result) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, Table(r))
	}
	return appStyle.Render(strings.Join(parts, "\n\n"))
}
