package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/chazu/suntools/pkg/analysis"
)

// columnWidths are the starting widths of Columns; the comment column
// takes whatever the window leaves.
var columnWidths = []int{12, 18, 6, 10, 10, 40}

// Model is a bubbletea model that browses results one table at a time.
// Tab and shift+tab switch results, the arrow keys move within a table.
type Model struct {
	width  int
	height int

	results []*analysis.Result
	current int
	tbl     table.Model

	status string
}

// NewModel returns a browser over results, showing the first one.
func NewModel(results []*analysis.Result) Model {
	m := Model{
		results: results,
		tbl:     table.New(table.WithFocused(true)),
	}
	m.tbl.SetHeight(12)
	m.load()
	return m
}

// Current returns the index of the result on screen.
func (m Model) Current() int { return m.current }

// load fills the table from the current result.
func (m *Model) load() {
	cols := make([]table.Column, len(Columns))
	for i, c := range Columns {
		cols[i] = table.Column{Title: c, Width: columnWidths[i]}
	}
	if m.width > 0 {
		used := 0
		for _, w := range columnWidths[:len(columnWidths)-1] {
			used += w + 2
		}
		cols[len(cols)-1].Width = max(10, m.width-used-6)
	}

	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	if len(m.results) == 0 {
		m.status = "no results"
		return
	}
	res := m.results[m.current]
	rows := Rows(res)
	trows := make([]table.Row, len(rows))
	for i, r := range rows {
		trows[i] = table.Row(r)
	}
	m.tbl.SetRows(trows)
	m.tbl.SetCursor(0)
	m.status = fmt.Sprintf("%d/%d  %d cells, total area %.4f", m.current+1, len(m.results), len(res.Cells), res.TotalArea())
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tbl.SetWidth(max(20, m.width-4))
		m.tbl.SetHeight(max(4, m.height-6))
		m.load()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "tab":
			if len(m.results) > 0 {
				m.current = (m.current + 1) % len(m.results)
				m.load()
			}
			return m, nil
		case "shift+tab":
			if len(m.results) > 0 {
				m.current = (m.current + len(m.results) - 1) % len(m.results)
				m.load()
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var header string
	if len(m.results) > 0 {
		res := m.results[m.current]
		header = titleStyle.Render(fmt.Sprintf(" %s (%s) ", res.Name, res.Kind))
	} else {
		header = titleStyle.Render(" suntools ")
	}

	body := boxStyle.Render(m.tbl.View())
	detail := ""
	if row := m.tbl.SelectedRow(); row != nil {
		detail = dimStyle.Render(" " + row[len(row)-1])
	}
	keys := []string{"↑↓ move", "tab next", "shift+tab prev", "q quit"}
	footer := lipgloss.JoinHorizontal(lipgloss.Bottom,
		dimStyle.Render(" "+m.status+" "),
		dimStyle.Render("  "+strings.Join(keys, "  ")),
	)
	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, body, detail, footer))
}

// Browse runs the interactive browser until the user quits.
func Browse(results []*analysis.Result) error {
	_, err := tea.NewProgram(NewModel(results), tea.WithAltScreen()).Run()
	return err
}
