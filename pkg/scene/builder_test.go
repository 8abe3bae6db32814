package scene

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/chazu/suntools/pkg/analysis"
	"github.com/chazu/suntools/pkg/geom"
	"github.com/chazu/suntools/pkg/kernel/planar"
	"github.com/chazu/suntools/pkg/solar"
)

func TestBuilder(t *testing.T) {
	tol := solar.DefaultTolerances()
	tol.CutterThickness = 2

	s, err := NewBuilder().
		Panel("window", rectMesh(0, 0, 2, 2, 0)).
		Source("canopy", rectMesh(-1, -1, 1, 3, 1)).
		Curve("a", rect(0, 0, 1, 1)).
		Curve("b", rect(0.5, 0.5, 1.5, 1.5)).
		Tolerances(tol).
		Shade("noon", "window", []string{"canopy"}, down).
		Region("overlap", analysis.KindRegionInter, []string{"a"}, "b", &geom.WorldXY).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(s.Items) != 4 || len(s.Analyses) != 2 {
		t.Fatalf("items = %d, analyses = %d", len(s.Items), len(s.Analyses))
	}
	if s.Tolerances(solar.DefaultTolerances()).CutterThickness != 2 {
		t.Error("tolerance override lost")
	}

	results, err := s.Run(context.Background(), analysis.NewRunner(planar.New()))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := results[1].TotalArea(); math.Abs(got-0.25) > 1e-4 {
		t.Errorf("overlap = %f, want 0.25", got)
	}
}

func TestBuilderErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(*Builder) *Builder
		want  string
	}{
		{
			"duplicate",
			func(b *Builder) *Builder {
				return b.Panel("w", rectMesh(0, 0, 1, 1, 0)).Source("w", rectMesh(0, 0, 1, 1, 1))
			},
			`"w" already defined`,
		},
		{
			"empty name",
			func(b *Builder) *Builder { return b.Curve("", rect(0, 0, 1, 1)) },
			"name is empty",
		},
		{
			"dangling",
			func(b *Builder) *Builder {
				return b.Panel("w", rectMesh(0, 0, 1, 1, 0)).Glare("g", []string{"w"}, []string{"lamp"}, down)
			},
			`undefined item "lamp"`,
		},
		{
			"not a region",
			func(b *Builder) *Builder {
				return b.Curve("a", rect(0, 0, 1, 1)).Region("r", analysis.KindView, []string{"a"}, "a", nil)
			},
			"not a region kind",
		},
		{
			"view without suns",
			func(b *Builder) *Builder {
				return b.Panel("w", rectMesh(0, 0, 1, 1, 0)).Curve("c", rect(0, 0, 1, 1)).View("v", []string{"w"}, []string{"c"})
			},
			"no sun vectors",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build(NewBuilder()).Build()
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}
