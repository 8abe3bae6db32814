package solar

import (
	"fmt"
	"math"

	"github.com/chazu/suntools/pkg/geom"
	"github.com/chazu/suntools/pkg/kernel"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// SplitResult is the panel region cut out by a projected mesh.
type SplitResult struct {
	// Selected is the assembled piece, nil when nothing survives.
	Selected *geom.Mesh
	// Remainder holds the other split pieces.
	Remainder []*geom.Mesh
	// Area is the area of Selected.
	Area float64
	// Cutter is the slab the panel was split with.
	Cutter kernel.Solid
	// Reconciled is set when islands of the projected mesh were added after
	// the split.
	Reconciled bool
	// ReconciliationFailed is set when the island count still differs from
	// the projected mesh's after reconciliation.
	ReconciliationFailed bool
	Comment              string
}

// Splitter cuts panel meshes with slabs built from projected meshes.
type Splitter struct {
	Kernel kernel.Kernel
	Tol    Tolerances
}

// Footprint returns the outline loops of a mesh already projected into
// plane: its naked edges when the mesh is open, otherwise the union of its
// faces. Faces thinner than the mesh split tolerance are skipped.
func (s Splitter) Footprint(projected *geom.Mesh, plane geom.Plane) []geom.Polyline {
	tol := s.Tol.MeshSplitTolerance
	if loops := s.Kernel.NakedEdges(projected, tol); len(loops) > 0 {
		return loops
	}
	var faces []geom.Polyline
	for i, f := range projected.Faces {
		if projected.FaceArea(i) <= tol*tol {
			continue
		}
		v := projected.Vertices
		faces = append(faces, geom.Polyline{v[f[0]], v[f[1]], v[f[2]], v[f[0]]})
	}
	return s.Kernel.BooleanUnion(faces, plane)
}

// Split cuts panel with a slab extruded from the footprint of projected and
// selects, among the pieces inside the slab, the one whose centroid is
// nearest reference. A piece is inside the slab when its interior point is;
// the area centroid of a concave or annular piece may lie outside it.
//
// When the selected piece has fewer islands than projected, each island of
// projected is hulled and classified against panelOutline; islands lying
// wholly inside the panel and not yet covered are appended. A count that
// still differs sets ReconciliationFailed and is logged. Finally the result
// is discarded when its interior point falls outside panelOutline.
func (s Splitter) Split(panel *geom.Mesh, panelOutline geom.Polyline, plane geom.Plane, projected *geom.Mesh, reference r3.Vec) (SplitResult, error) {
	var res SplitResult
	if panel == nil || panel.IsEmpty() {
		return res, Invalid("split", "panel mesh is empty")
	}
	if projected == nil || projected.IsEmpty() {
		return res, Invalid("split", "projected mesh is empty")
	}

	footprint := s.Footprint(projected, plane)
	if len(footprint) == 0 {
		res.Comment = "projected mesh has no footprint"
		return res, nil
	}

	cutter, err := s.Kernel.ExtrudeAndThicken(footprint, plane, s.Tol.CutterThickness)
	if err != nil {
		return res, fmt.Errorf("solar: split: cutter: %w", err)
	}
	res.Cutter = cutter

	pieces, err := s.Kernel.SplitMeshByMesh(panel, cutter)
	if err != nil {
		return res, fmt.Errorf("solar: split: %w", err)
	}

	best := -1
	bestD := math.Inf(1)
	for i, p := range pieces {
		in, ok := interiorPoint(p)
		if !ok || !cutter.Contains(in) {
			continue
		}
		_, c := s.Kernel.MeshAreaCentroid(p)
		if d := r3.Norm(r3.Sub(c, reference)); d < bestD {
			best, bestD = i, d
		}
	}
	for i, p := range pieces {
		if i != best {
			res.Remainder = append(res.Remainder, p)
		}
	}
	if best < 0 {
		res.Comment = "no piece inside the cutter"
		return res, nil
	}
	selected := pieces[best].Clone()

	want := projected.Weld(s.Tol.MeshSplitTolerance).DisjointCount()
	if got := selected.DisjointCount(); got != want {
		added := s.reconcile(selected, panelOutline, plane, projected)
		res.Reconciled = added > 0
		if got := selected.DisjointCount(); got != want {
			res.ReconciliationFailed = true
			logf("split: %d of %d islands recovered after reconciliation", got, want)
			res.Comment = fmt.Sprintf("reconciliation failed: %d of %d islands", got, want)
		} else {
			res.Comment = fmt.Sprintf("reconciled %d islands", added)
		}
	}

	in, _ := interiorPoint(selected)
	outline := panelOutline.ToLocal(plane).Corners()
	if !outline.Contains(plane.ToLocal(in)) {
		res.Remainder = append(res.Remainder, selected)
		res.Comment = "result outside panel, discarded"
		return res, nil
	}

	res.Selected = selected
	res.Area, _ = s.Kernel.MeshAreaCentroid(selected)
	return res, nil
}

// reconcile appends islands of projected that lie inside the panel outline
// and are not covered by selected. It returns the number appended.
func (s Splitter) reconcile(selected *geom.Mesh, panelOutline geom.Polyline, plane geom.Plane, projected *geom.Mesh) int {
	hp := HullProjector{Kernel: s.Kernel}
	added := 0
	for _, island := range projected.Weld(s.Tol.MeshSplitTolerance).Components() {
		hull := hp.Hull(island, plane, s.Tol.HullClosureTolerance)
		if Classify(panelOutline, hull, plane, s.Tol.CurveTolerance) != BInsideA {
			continue
		}
		in, ok := interiorPoint(island)
		if !ok || covers(selected, plane, plane.ToLocal(in)) {
			continue
		}
		selected.Append(island)
		added++
	}
	return added
}

// covers reports whether any face of m, flattened into plane, contains q.
func covers(m *geom.Mesh, plane geom.Plane, q r2.Vec) bool {
	for _, f := range m.Faces {
		tri := geom.Ring{
			plane.ToLocal(m.Vertices[f[0]]),
			plane.ToLocal(m.Vertices[f[1]]),
			plane.ToLocal(m.Vertices[f[2]]),
		}
		if tri.Contains(q) {
			return true
		}
	}
	return false
}

// interiorPoint returns a point inside m: the centroid of its largest face.
// It reports false when every face is degenerate.
func interiorPoint(m *geom.Mesh) (r3.Vec, bool) {
	best, bestA := -1, 0.0
	for i := range m.Faces {
		if a := m.FaceArea(i); a > bestA {
			best, bestA = i, a
		}
	}
	if best < 0 {
		return r3.Vec{}, false
	}
	f := m.Faces[best]
	v := m.Vertices
	return r3.Scale(1.0/3, r3.Add(v[f[0]], r3.Add(v[f[1]], v[f[2]]))), true
}
