// Package tessellate turns scene items and analysis results into render
// meshes using a geometry kernel. One mesh is produced per item or per
// result cell. The tessellator is read-only and never mutates its inputs.
package tessellate

import (
	"fmt"

	"github.com/chazu/suntools/pkg/analysis"
	"github.com/chazu/suntools/pkg/geom"
	"github.com/chazu/suntools/pkg/kernel"
	"github.com/chazu/suntools/pkg/scene"
	"github.com/chazu/suntools/pkg/solar"
)

// Scene produces one render mesh per scene item. Mesh items are flattened
// directly. Curve items are rendered as the cutter slab they would produce:
// the curve extruded through its fitted plane by tol.CutterThickness.
func Scene(s *scene.Scene, k kernel.Kernel, tol solar.Tolerances) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}

	meshes := make([]*kernel.Mesh, 0, len(s.Items))
	for _, it := range s.Items {
		m, err := item(k, it, tol)
		if err != nil {
			return nil, fmt.Errorf("tessellate: item %q: %w", it.Name, err)
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

func item(k kernel.Kernel, it *scene.Item, tol solar.Tolerances) (*kernel.Mesh, error) {
	switch it.Shape {
	case scene.ShapeMesh:
		return kernel.FromGeom(it.Mesh, it.Name), nil

	case scene.ShapeCurve:
		pl, err := k.FitPlane(it.Curve.Open(tol.CurveTolerance))
		if err != nil {
			return nil, err
		}
		solid, err := k.ExtrudeAndThicken([]geom.Polyline{it.Curve.Closed(tol.CurveTolerance)}, pl, tol.CutterThickness)
		if err != nil {
			return nil, err
		}
		m, err := k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("ToMesh failed: %w", err)
		}
		m.Label = it.Name
		return m, nil

	default:
		return nil, fmt.Errorf("unknown shape %v", it.Shape)
	}
}

// Result produces the render meshes of an analysis result: the mesh of
// every cell that has one, followed by the cell's debug cutter when
// present. Labels read "name {path}" and "name {path} cutter".
func Result(r *analysis.Result) []*kernel.Mesh {
	if r == nil {
		return nil
	}
	var meshes []*kernel.Mesh
	for _, c := range r.Cells {
		label := fmt.Sprintf("%s %s", r.Name, c.Path)
		if c.Mesh != nil {
			meshes = append(meshes, kernel.FromGeom(c.Mesh, label))
		}
		if c.Cutter != nil {
			cut := *c.Cutter
			cut.Label = label + " cutter"
			meshes = append(meshes, &cut)
		}
	}
	return meshes
}
