package analysis

import (
	"context"
	"fmt"

	"github.com/chazu/suntools/pkg/datatree"
	"github.com/chazu/suntools/pkg/geom"
	"github.com/chazu/suntools/pkg/kernel"
	"github.com/chazu/suntools/pkg/solar"
	"gonum.org/v1/gonum/spatial/r3"
)

// Runner evaluates analyses with one kernel and tolerance set.
type Runner struct {
	Kernel kernel.Kernel
	Tol    solar.Tolerances
	// Workers > 1 evaluates cells in parallel. Output order is unchanged.
	Workers int
	Policy  BatchPolicy
	// DebugCutters tessellates the cutter of every mesh cell.
	DebugCutters bool
}

// NewRunner returns a sequential runner with default tolerances.
func NewRunner(k kernel.Kernel) *Runner {
	return &Runner{Kernel: k, Tol: solar.DefaultTolerances()}
}

// ShadeAssess computes the region of req.Panel shaded by each shade mesh for
// each sun vector, along with the exposed area left over.
func (r *Runner) ShadeAssess(ctx context.Context, req ShadeRequest) (*Result, error) {
	const op = "shade-assess"
	if err := r.Tol.Validate(); err != nil {
		return nil, err
	}
	panel, err := panelTarget(r.Kernel, op, req.Panel, r.Tol)
	if err != nil {
		return nil, err
	}
	if err := checkMeshes(op, "shades", req.Shades); err != nil {
		return nil, err
	}
	if err := checkSuns(op, req.Suns); err != nil {
		return nil, err
	}

	var specs []cellSpec
	for i, shade := range req.Shades {
		for j, sun := range req.Suns {
			specs = append(specs, cellSpec{
				path:       datatree.NewPath(i, j),
				kind:       MeshSource,
				target:     panel,
				sourceMesh: shade,
				sun:        sun,
				project:    true,
			})
		}
	}
	cells, err := r.run(ctx, specs)
	if err != nil {
		return nil, err
	}
	return newResult(req.Name, KindShade, cells), nil
}

// GlareAssess projects each source outline onto each wall panel along each
// sun vector and returns the overlap with the panel.
func (r *Runner) GlareAssess(ctx context.Context, req GlareRequest) (*Result, error) {
	const op = "glare-assess"
	if err := r.Tol.Validate(); err != nil {
		return nil, err
	}
	if err := checkMeshes(op, "sources", req.Sources); err != nil {
		return nil, err
	}
	if err := checkMeshes(op, "panels", req.Panels); err != nil {
		return nil, err
	}
	if err := checkSuns(op, req.Suns); err != nil {
		return nil, err
	}
	panels := make([]target, len(req.Panels))
	for j, m := range req.Panels {
		t, err := panelTarget(r.Kernel, op, m, r.Tol)
		if err != nil {
			return nil, err
		}
		panels[j] = t
	}

	var specs []cellSpec
	for i, src := range req.Sources {
		outline, err := sourceOutline(r.Kernel, op, src, r.Tol)
		if err != nil {
			return nil, err
		}
		for j, panel := range panels {
			for k, sun := range req.Suns {
				specs = append(specs, cellSpec{
					path:        datatree.NewPath(i, j, k),
					kind:        CurveSource,
					op:          Intersection,
					target:      panel,
					sourceCurve: outline,
					sourceFirst: true,
					sun:         sun,
					project:     true,
				})
			}
		}
	}
	cells, err := r.run(ctx, specs)
	if err != nil {
		return nil, err
	}
	return newResult(req.Name, KindGlare, cells), nil
}

// ViewAssess subtracts each obstruction, projected along each sun vector,
// from each panel outline.
func (r *Runner) ViewAssess(ctx context.Context, req ViewRequest) (*Result, error) {
	const op = "view-assess"
	if err := r.Tol.Validate(); err != nil {
		return nil, err
	}
	if err := checkMeshes(op, "panels", req.Panels); err != nil {
		return nil, err
	}
	if err := checkCurves(op, "obstructions", req.Obstructions); err != nil {
		return nil, err
	}
	if err := checkSuns(op, req.Suns); err != nil {
		return nil, err
	}

	var specs []cellSpec
	for i, m := range req.Panels {
		panel, err := panelTarget(r.Kernel, op, m, r.Tol)
		if err != nil {
			return nil, err
		}
		for j, obs := range req.Obstructions {
			for k, sun := range req.Suns {
				specs = append(specs, cellSpec{
					path:        datatree.NewPath(i, j, k),
					kind:        CurveSource,
					op:          Difference,
					target:      panel,
					sourceCurve: obs.Closed(r.Tol.CurveTolerance),
					sun:         sun,
					project:     true,
				})
			}
		}
	}
	cells, err := r.run(ctx, specs)
	if err != nil {
		return nil, err
	}
	return newResult(req.Name, KindView, cells), nil
}

// RegionDiff returns A[i] minus B for every curve of A.
func (r *Runner) RegionDiff(ctx context.Context, req RegionRequest) (*Result, error) {
	return r.region(ctx, "region-diff", KindRegionDiff, Difference, req)
}

// RegionInter returns the overlap of A[i] and B for every curve of A.
func (r *Runner) RegionInter(ctx context.Context, req RegionRequest) (*Result, error) {
	return r.region(ctx, "region-inter", KindRegionInter, Intersection, req)
}

func (r *Runner) region(ctx context.Context, op string, kind Kind, o Op, req RegionRequest) (*Result, error) {
	if err := r.Tol.Validate(); err != nil {
		return nil, err
	}
	if err := checkCurves(op, "curves", req.A); err != nil {
		return nil, err
	}
	if len(req.B) < 3 {
		return nil, solar.Invalid(op, "curve B has %d points", len(req.B))
	}
	if r3.Norm(req.Plane.Normal) == 0 {
		return nil, solar.Invalid(op, "plane has no normal")
	}
	t := target{outline: req.B, plane: req.Plane}
	specs := make([]cellSpec, len(req.A))
	for i, a := range req.A {
		specs[i] = cellSpec{
			path:        datatree.NewPath(i),
			kind:        CurveSource,
			op:          o,
			target:      t,
			sourceCurve: a,
			sourceFirst: true,
		}
	}
	cells, err := r.run(ctx, specs)
	if err != nil {
		return nil, err
	}
	return newResult(req.Name, kind, cells), nil
}

// ---------------------------------------------------------------------------
// Cell evaluation
// ---------------------------------------------------------------------------

// cellSpec describes one cell. Curve cells combine the source curve with
// the target outline: source first for glare and region utilities, target
// first for view.
type cellSpec struct {
	path        datatree.Path
	kind        SourceKind
	op          Op
	target      target
	sourceCurve geom.Polyline
	sourceMesh  *geom.Mesh
	sourceFirst bool
	sun         r3.Vec
	project     bool
}

func (r *Runner) evalCell(s cellSpec) (Cell, error) {
	var (
		c   Cell
		err error
	)
	switch s.kind {
	case MeshSource:
		c, err = r.meshCell(s)
	default:
		c, err = r.curveCell(s)
	}
	if err != nil {
		if r.Policy == SkipCell && solar.KindOf(err) != solar.InvalidInputGeometry {
			return Cell{Path: s.path, Skipped: true, Comment: fmt.Sprintf("skipped: %v", err)}, nil
		}
		return Cell{}, fmt.Errorf("analysis: cell %v: %w", s.path, err)
	}
	c.Path = s.path
	return c, nil
}

func degenerateCell(err error) Cell {
	return Cell{Degenerate: true, Comment: fmt.Sprintf("degenerate projection, no result: %v", err)}
}

func (r *Runner) curveCell(s cellSpec) (Cell, error) {
	src := s.sourceCurve
	if s.project {
		tr, err := solar.Oblique(s.target.plane, s.sun, r.Tol.CurveTolerance)
		if err != nil {
			return degenerateCell(err), nil
		}
		src = src.Transform(tr)
	}

	a, b := s.target.outline, src
	if s.sourceFirst {
		a, b = src, s.target.outline
	}
	alg := solar.Algebra{Kernel: r.Kernel, Plane: s.target.plane, Tol: r.Tol.CurveTolerance}
	var res solar.RegionResult
	if s.op == Intersection {
		res = alg.Intersection(a, b)
	} else {
		res = alg.Difference(a, b)
	}

	c := Cell{
		Curves:       res.Curves,
		Area:         res.Area,
		Relationship: res.Relationship,
		Case:         res.Case,
		Comment:      res.Comment,
	}
	// View cells subtract from the panel; what is left is the open view.
	if s.op == Difference && !s.sourceFirst && res.Area != nil {
		exposed := *res.Area
		c.Exposed = &exposed
	}
	return c, nil
}

func (r *Runner) meshCell(s cellSpec) (Cell, error) {
	panel := s.target
	tr, err := solar.Oblique(panel.plane, s.sun, r.Tol.CurveTolerance)
	if err != nil {
		return degenerateCell(err), nil
	}
	projected := s.sourceMesh.Transform(tr)

	hp := solar.HullProjector{Kernel: r.Kernel}
	hull := hp.Hull(projected, panel.plane, r.Tol.HullClosureTolerance)
	rel := solar.Classify(panel.outline, hull, panel.plane, r.Tol.CurveTolerance)

	c := Cell{Relationship: rel}
	shaded := 0.0
	var footprint []geom.Polyline
	switch rel {
	case solar.Disjoint:
		c.Case, c.Comment = "1", "Disjoint, case 1"

	case solar.BInsideA:
		// The whole projection lies on the panel; no split is needed.
		sp := solar.Splitter{Kernel: r.Kernel, Tol: r.Tol}
		footprint = sp.Footprint(projected, panel.plane)
		shaded, _ = r.Kernel.CurveAreaCentroid(footprint, panel.plane)
		c.Mesh = projected
		c.Case, c.Comment = "4", "B Inside A,  the shade module projection is inside the window, case 4"
		if r.DebugCutters && len(footprint) > 0 {
			if cutter, err := r.Kernel.ExtrudeAndThicken(footprint, panel.plane, r.Tol.CutterThickness); err == nil {
				c.Cutter, _ = r.Kernel.ToMesh(cutter)
			}
		}

	default:
		if rel == solar.AInsideB {
			c.Case, c.Comment = "3a", "A Inside B, the window is inside the convex hull of the projected shade module, case 3a"
		} else {
			c.Case, c.Comment = "2", "MutualIntersection, intersection of projected source and wall"
		}
		_, ref := r.Kernel.MeshAreaCentroid(projected)
		sp := solar.Splitter{Kernel: r.Kernel, Tol: r.Tol}
		res, err := sp.Split(panel.mesh, panel.outline, panel.plane, projected, ref)
		if err != nil {
			return Cell{}, err
		}
		c.Mesh = res.Selected
		shaded = res.Area
		if res.Selected != nil {
			footprint, _ = res.Cutter.Outline()
		}
		c.ReconciliationFailed = res.ReconciliationFailed
		if res.Comment != "" {
			c.Comment += "; " + res.Comment
		}
		if r.DebugCutters && res.Cutter != nil {
			m, err := r.Kernel.ToMesh(res.Cutter)
			if err != nil {
				return Cell{}, err
			}
			c.Cutter = m
		}
	}

	alg := solar.Algebra{Kernel: r.Kernel, Plane: panel.plane, Tol: r.Tol.CurveTolerance}
	c.ExposedCurves, _ = alg.Exposed(panel.outline, footprint)

	exposed := panel.area - shaded
	c.Area = &shaded
	c.Exposed = &exposed
	return c, nil
}
