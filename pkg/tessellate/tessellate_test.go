package tessellate_test

import (
	"context"
	"strings"
	"testing"

	"github.com/chazu/suntools/pkg/analysis"
	"github.com/chazu/suntools/pkg/geom"
	"github.com/chazu/suntools/pkg/kernel/planar"
	"github.com/chazu/suntools/pkg/scene"
	"github.com/chazu/suntools/pkg/solar"
	"github.com/chazu/suntools/pkg/tessellate"
	"gonum.org/v1/gonum/spatial/r3"
)

func rectMesh(x0, y0, x1, y1, z float64) *geom.Mesh {
	return geom.NewQuad(
		r3.Vec{X: x0, Y: y0, Z: z}, r3.Vec{X: x1, Y: y0, Z: z},
		r3.Vec{X: x1, Y: y1, Z: z}, r3.Vec{X: x0, Y: y1, Z: z},
	)
}

func TestSceneMeshItem(t *testing.T) {
	s := scene.New()
	s.AddItem(&scene.Item{Name: "window", Role: scene.RolePanel, Shape: scene.ShapeMesh, Mesh: rectMesh(0, 0, 2, 2, 0)})

	meshes, err := tessellate.Scene(s, planar.New(), solar.DefaultTolerances())
	if err != nil {
		t.Fatalf("Scene failed: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(meshes))
	}
	m := meshes[0]
	if m.Label != "window" {
		t.Errorf("expected label %q, got %q", "window", m.Label)
	}
	if m.TriangleCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", m.TriangleCount())
	}
}

func TestSceneCurveItemBecomesSlab(t *testing.T) {
	s := scene.New()
	s.AddItem(&scene.Item{Name: "fin", Role: scene.RoleSource, Shape: scene.ShapeCurve, Curve: geom.Polyline{
		{}, {X: 1}, {X: 1, Y: 1}, {Y: 1},
	}})

	meshes, err := tessellate.Scene(s, planar.New(), solar.DefaultTolerances())
	if err != nil {
		t.Fatalf("Scene failed: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(meshes))
	}
	m := meshes[0]
	if m.IsEmpty() || m.TriangleCount() == 0 {
		t.Fatal("slab mesh should not be empty")
	}
	if m.Label != "fin" {
		t.Errorf("expected label %q, got %q", "fin", m.Label)
	}
}

func TestSceneBadCurve(t *testing.T) {
	s := scene.New()
	s.AddItem(&scene.Item{Name: "stub", Role: scene.RoleSource, Shape: scene.ShapeCurve, Curve: geom.Polyline{{}, {X: 1}}})
	if _, err := tessellate.Scene(s, planar.New(), solar.DefaultTolerances()); err == nil {
		t.Error("expected error for a two-point curve")
	}
}

func TestEmptyScene(t *testing.T) {
	meshes, err := tessellate.Scene(nil, planar.New(), solar.DefaultTolerances())
	if err != nil || meshes != nil {
		t.Errorf("nil scene: %v, %v", meshes, err)
	}
	meshes, err = tessellate.Scene(scene.New(), planar.New(), solar.DefaultTolerances())
	if err != nil || len(meshes) != 0 {
		t.Errorf("empty scene: %v, %v", meshes, err)
	}
}

func TestResult(t *testing.T) {
	r := analysis.NewRunner(planar.New())
	r.DebugCutters = true
	res, err := r.ShadeAssess(context.Background(), analysis.ShadeRequest{
		Name:  "noon",
		Panel: rectMesh(0, 0, 2, 2, 0),
		Shades: []*geom.Mesh{
			rectMesh(-1, -1, 1, 3, 1),
			rectMesh(10, 10, 11, 11, 1),
		},
		Suns: []r3.Vec{{Z: -1}},
	})
	if err != nil {
		t.Fatalf("ShadeAssess failed: %v", err)
	}

	meshes := tessellate.Result(res)
	// The disjoint cell has neither a mesh nor a cutter.
	if len(meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(meshes))
	}
	if meshes[0].Label != "noon {0;0}" {
		t.Errorf("label = %q", meshes[0].Label)
	}
	if !strings.HasSuffix(meshes[1].Label, "cutter") {
		t.Errorf("label = %q, want cutter suffix", meshes[1].Label)
	}
	if res.Cells[0].Cutter.Label == meshes[1].Label {
		t.Error("Result relabelled the cell's cutter in place")
	}
	if tessellate.Result(nil) != nil {
		t.Error("nil result should give nil meshes")
	}
}
