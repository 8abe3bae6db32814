package analysis

import (
	"github.com/chazu/suntools/pkg/geom"
	"github.com/chazu/suntools/pkg/kernel"
	"github.com/chazu/suntools/pkg/solar"
	"gonum.org/v1/gonum/spatial/r3"
)

// ShadeRequest assesses shading of one window panel by shade meshes.
// Cells are keyed {shade;sun}.
type ShadeRequest struct {
	Name   string
	Panel  *geom.Mesh
	Shades []*geom.Mesh
	Suns   []r3.Vec
}

// GlareRequest projects the outline of each source mesh onto each wall
// panel and keeps the overlap. Cells are keyed {source;panel;sun}.
type GlareRequest struct {
	Name    string
	Panels  []*geom.Mesh
	Sources []*geom.Mesh
	Suns    []r3.Vec
}

// ViewRequest subtracts projected obstruction outlines from each panel
// outline. Cells are keyed {panel;obstruction;sun}.
type ViewRequest struct {
	Name         string
	Panels       []*geom.Mesh
	Obstructions []geom.Polyline
	Suns         []r3.Vec
}

// RegionRequest combines each curve of A with B in Plane. Cells are keyed
// {i} for A[i].
type RegionRequest struct {
	Name  string
	A     []geom.Polyline
	B     geom.Polyline
	Plane geom.Plane
}

// target is a panel reduced to what the cells need.
type target struct {
	mesh    *geom.Mesh
	outline geom.Polyline
	plane   geom.Plane
	area    float64
}

// panelTarget checks that m is a valid panel with exactly one boundary loop
// and fits its plane.
func panelTarget(k kernel.Kernel, op string, m *geom.Mesh, tol solar.Tolerances) (target, error) {
	if m == nil {
		return target{}, solar.Invalid(op, "panel is missing")
	}
	if err := m.Validate(); err != nil {
		return target{}, solar.Invalid(op, "panel: %v", err)
	}
	loops := k.NakedEdges(m, tol.MeshSplitTolerance)
	if len(loops) != 1 {
		return target{}, solar.Invalid(op, "panel has %d naked edge loops, want 1", len(loops))
	}
	outline := loops[0]
	plane, err := k.FitPlane(outline.Open(tol.MeshSplitTolerance))
	if err != nil {
		return target{}, solar.Invalid(op, "panel plane: %v", err)
	}
	area, _ := k.CurveAreaCentroid([]geom.Polyline{outline}, plane)
	return target{mesh: m, outline: outline, plane: plane, area: area}, nil
}

// sourceOutline returns the single boundary loop of a source mesh.
func sourceOutline(k kernel.Kernel, op string, m *geom.Mesh, tol solar.Tolerances) (geom.Polyline, error) {
	if m == nil {
		return nil, solar.Invalid(op, "source is missing")
	}
	if err := m.Validate(); err != nil {
		return nil, solar.Invalid(op, "source: %v", err)
	}
	loops := k.NakedEdges(m, tol.MeshSplitTolerance)
	if len(loops) != 1 {
		return nil, solar.Invalid(op, "source has %d naked edge loops, want 1", len(loops))
	}
	return loops[0], nil
}

func checkSuns(op string, suns []r3.Vec) error {
	if len(suns) == 0 {
		return solar.Invalid(op, "no sun vectors")
	}
	for i, s := range suns {
		if r3.Norm(s) == 0 {
			return solar.Invalid(op, "sun vector %d is zero", i)
		}
	}
	return nil
}

func checkMeshes(op, what string, ms []*geom.Mesh) error {
	if len(ms) == 0 {
		return solar.Invalid(op, "no %s", what)
	}
	for i, m := range ms {
		if m == nil {
			return solar.Invalid(op, "%s %d is missing", what, i)
		}
		if err := m.Validate(); err != nil {
			return solar.Invalid(op, "%s %d: %v", what, i, err)
		}
	}
	return nil
}

func checkCurves(op, what string, cs []geom.Polyline) error {
	if len(cs) == 0 {
		return solar.Invalid(op, "no %s", what)
	}
	for i, c := range cs {
		if len(c) < 3 {
			return solar.Invalid(op, "%s %d has %d points", what, i, len(c))
		}
	}
	return nil
}
