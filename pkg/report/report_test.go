package report

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chazu/suntools/pkg/analysis"
	"github.com/chazu/suntools/pkg/geom"
	"github.com/chazu/suntools/pkg/kernel/planar"
)

func rect(x0, y0, x1, y1 float64) geom.Polyline {
	return geom.Polyline{
		{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}, {X: x0, Y: y0},
	}
}

func results(t *testing.T) []*analysis.Result {
	t.Helper()
	req := analysis.RegionRequest{
		Name:  "patch",
		A:     []geom.Polyline{rect(0, 0, 1, 1), rect(5, 5, 6, 6)},
		B:     rect(0.5, 0.5, 1.5, 1.5),
		Plane: geom.WorldXY,
	}
	r := analysis.NewRunner(planar.New())
	diff, err := r.RegionDiff(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	req.Name = "overlap"
	inter, err := r.RegionInter(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	return []*analysis.Result{diff, inter}
}

func TestRows(t *testing.T) {
	res := results(t)[1]
	rows := Rows(res)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	tests := []struct {
		row, col int
		want     string
	}{
		{0, 0, "{0}"},
		{0, 1, "MutualIntersection"},
		{0, 3, "0.2500"},
		{0, 4, "-"},
		{1, 0, "{1}"},
		{1, 1, "Disjoint"},
		{1, 3, "0.0000"},
	}
	for _, tt := range tests {
		if got := rows[tt.row][tt.col]; got != tt.want {
			t.Errorf("rows[%d][%d] = %q, want %q", tt.row, tt.col, got, tt.want)
		}
	}
	for i, r := range rows {
		if len(r) != len(Columns) {
			t.Errorf("row %d has %d columns, want %d", i, len(r), len(Columns))
		}
	}
}

func TestRowsMarksDegenerateAndSkipped(t *testing.T) {
	res := &analysis.Result{Cells: []analysis.Cell{
		{Degenerate: true, Comment: "degenerate projection"},
		{Skipped: true},
	}}
	rows := Rows(res)
	if rows[0][1] != "degenerate" || rows[1][1] != "skipped" {
		t.Errorf("relations = %q, %q", rows[0][1], rows[1][1])
	}
	if rows[0][3] != "-" {
		t.Errorf("nil area rendered as %q", rows[0][3])
	}
}

func TestSummary(t *testing.T) {
	out := Summary(results(t))
	for _, want := range []string{"patch (region-diff)", "overlap (region-inter)", "comment", "MutualIntersection", "total area"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestModelSwitchesResults(t *testing.T) {
	var m tea.Model = NewModel(results(t))
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})

	tests := []struct {
		key  tea.KeyMsg
		want int
	}{
		{tea.KeyMsg{Type: tea.KeyTab}, 1},
		{tea.KeyMsg{Type: tea.KeyTab}, 0},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, 1},
	}
	for i, tt := range tests {
		m, _ = m.Update(tt.key)
		if got := m.(Model).Current(); got != tt.want {
			t.Errorf("step %d: current = %d, want %d", i, got, tt.want)
		}
	}
	if v := m.View(); !strings.Contains(v, "overlap") {
		t.Errorf("view does not show the current result:\n%s", v)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q did not return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestModelWithoutResults(t *testing.T) {
	m := NewModel(nil)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if next.(Model).Current() != 0 {
		t.Error("tab moved with no results")
	}
	if !strings.Contains(next.View(), "no results") {
		t.Error("empty browser should say so")
	}
}
