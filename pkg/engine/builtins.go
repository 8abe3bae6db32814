package engine

import (
	"fmt"

	"github.com/chazu/suntools/pkg/analysis"
	"github.com/chazu/suntools/pkg/geom"
	"github.com/chazu/suntools/pkg/scene"
	"github.com/chazu/suntools/pkg/solar"
	zygo "github.com/glycerine/zygomys/zygo"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// builtinFunc matches zygomys user functions.
type builtinFunc = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// registerBuiltins installs all scene DSL builtins into a zygomys
// environment. The builtins populate s during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene) {
	registerGeometry(env)

	// -----------------------------------------------------------------------
	// (defpanel "name" (quad ...)) / (defsource "name" (polyline ...))
	// -----------------------------------------------------------------------
	env.AddFunction("defpanel", defItem("defpanel", scene.RolePanel, s))
	env.AddFunction("defsource", defItem("defsource", scene.RoleSource, s))

	// -----------------------------------------------------------------------
	// (tolerance :curve 0.001 :mesh-split 0.0001 :hull-closure 0.01
	//            :cutter-thickness 1)
	// -----------------------------------------------------------------------
	env.AddFunction("tolerance", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		tol := solar.DefaultTolerances()
		if s.Tol != nil {
			tol = *s.Tol
		}
		fields := []struct {
			kw  string
			dst *float64
		}{
			{"curve", &tol.CurveTolerance},
			{"mesh-split", &tol.MeshSplitTolerance},
			{"hull-closure", &tol.HullClosureTolerance},
			{"cutter-thickness", &tol.CutterThickness},
		}
		for _, f := range fields {
			v, ok := pa.kw[f.kw]
			if !ok {
				continue
			}
			x, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tolerance: %s: %w", f.kw, err)
			}
			*f.dst = x
		}
		s.Tol = &tol
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (shade-assess "name" :panel "window" :shades (list "fin") :suns s)
	// -----------------------------------------------------------------------
	env.AddFunction("shade_assess", defAnalysis("shade-assess", analysis.KindShade, s, map[string]string{
		"panel":  "panels",
		"shades": "sources",
	}))

	// -----------------------------------------------------------------------
	// (glare-assess "name" :panels (list ..) :sources (list ..) :suns s)
	// -----------------------------------------------------------------------
	env.AddFunction("glare_assess", defAnalysis("glare-assess", analysis.KindGlare, s, map[string]string{
		"panels":  "panels",
		"sources": "sources",
	}))

	// -----------------------------------------------------------------------
	// (view-assess "name" :panels (list ..) :obstructions (list ..) :suns s)
	// -----------------------------------------------------------------------
	env.AddFunction("view_assess", defAnalysis("view-assess", analysis.KindView, s, map[string]string{
		"panels":       "panels",
		"obstructions": "sources",
	}))

	// -----------------------------------------------------------------------
	// (region-diff "name" :a (list ..) :b "c" :plane p)
	// (region-inter "name" :a (list ..) :b "c" :plane p)
	// -----------------------------------------------------------------------
	env.AddFunction("region_diff", defAnalysis("region-diff", analysis.KindRegionDiff, s, map[string]string{
		"a": "sources",
		"b": "against",
	}))
	env.AddFunction("region_inter", defAnalysis("region-inter", analysis.KindRegionInter, s, map[string]string{
		"a": "sources",
		"b": "against",
	}))
}

// registerGeometry installs the geometry constructors. They have no side
// effects on the scene.
func registerGeometry(env *zygo.Zlisp) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}

		return &sexpVec3{vec: r3.Vec{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (plane :origin (vec3 0 0 0) :normal (vec3 0 0 1) :x-axis (vec3 1 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("plane", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var origin r3.Vec
		normal := r3.Vec{Z: 1}

		if v, ok := pa.kw["origin"]; ok {
			o, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: origin: %w", err)
			}
			origin = o
		}
		if v, ok := pa.kw["normal"]; ok {
			n, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: normal: %w", err)
			}
			normal = n
		}

		pl, err := geom.NewPlane(origin, normal)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plane: %w", err)
		}
		if v, ok := pa.kw["x-axis"]; ok {
			x, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: x-axis: %w", err)
			}
			if pl, err = geom.NewPlaneFromFrame(origin, x, normal); err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: %w", err)
			}
		}
		return &sexpPlane{plane: pl}, nil
	})

	// -----------------------------------------------------------------------
	// (polyline (vec3 0 0 0) (vec3 1 0 0) (vec3 1 1 0) (vec3 0 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("polyline", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pts, err := toVecs(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polyline: %w", err)
		}
		if len(pts) < 2 {
			return zygo.SexpNull, fmt.Errorf("polyline requires at least 2 points, got %d", len(pts))
		}
		return &sexpCurve{curve: geom.Polyline(pts)}, nil
	})

	// -----------------------------------------------------------------------
	// (rect :plane p :width 2 :height 1)
	//
	// The rectangle starts at the plane origin and spans the plane's X and Y
	// axes. The result is closed.
	// -----------------------------------------------------------------------
	env.AddFunction("rect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		pl := geom.WorldXY

		if v, ok := pa.kw["plane"]; ok {
			p, err := toPlane(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rect: plane: %w", err)
			}
			pl = p
		}
		var w, h float64
		for _, f := range []struct {
			kw  string
			dst *float64
		}{{"width", &w}, {"height", &h}} {
			v, ok := pa.kw[f.kw]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("rect requires :%s", f.kw)
			}
			x, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rect: %s: %w", f.kw, err)
			}
			*f.dst = x
		}
		if w <= 0 || h <= 0 {
			return zygo.SexpNull, fmt.Errorf("rect: width and height must be positive, got %g x %g", w, h)
		}

		corners := []r3.Vec{
			pl.FromLocal(r2.Vec{}),
			pl.FromLocal(r2.Vec{X: w}),
			pl.FromLocal(r2.Vec{X: w, Y: h}),
			pl.FromLocal(r2.Vec{Y: h}),
		}
		return &sexpCurve{curve: geom.Polyline(append(corners, corners[0]))}, nil
	})

	// -----------------------------------------------------------------------
	// (quad a b c d)
	// -----------------------------------------------------------------------
	env.AddFunction("quad", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pts, err := toVecs(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("quad: %w", err)
		}
		if len(pts) != 4 {
			return zygo.SexpNull, fmt.Errorf("quad requires exactly 4 corners, got %d", len(pts))
		}
		return &sexpMesh{mesh: geom.NewQuad(pts[0], pts[1], pts[2], pts[3])}, nil
	})

	// -----------------------------------------------------------------------
	// (mesh :vertices (list (vec3 ..) ..) :faces (list (list 0 1 2) ..))
	//
	// Four-index faces are split into two triangles.
	// -----------------------------------------------------------------------
	env.AddFunction("mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		m := &geom.Mesh{}

		v, ok := pa.kw["vertices"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("mesh requires :vertices")
		}
		items, err := sexpListToSlice(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh: vertices: %w", err)
		}
		if m.Vertices, err = toVecs(items); err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh: vertices: %w", err)
		}

		f, ok := pa.kw["faces"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("mesh requires :faces")
		}
		faces, err := sexpListToSlice(f)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh: faces: %w", err)
		}
		for i, face := range faces {
			idx, err := sexpListToSlice(face)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("mesh: face %d: %w", i, err)
			}
			if len(idx) != 3 && len(idx) != 4 {
				return zygo.SexpNull, fmt.Errorf("mesh: face %d has %d indices, want 3 or 4", i, len(idx))
			}
			ids := make([]int, len(idx))
			for j, x := range idx {
				n, err := toInt(x)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("mesh: face %d: %w", i, err)
				}
				if n < 0 || n >= len(m.Vertices) {
					return zygo.SexpNull, fmt.Errorf("mesh: face %d: index %d out of range", i, n)
				}
				ids[j] = n
			}
			m.Faces = append(m.Faces, [3]int{ids[0], ids[1], ids[2]})
			if len(ids) == 4 {
				m.Faces = append(m.Faces, [3]int{ids[0], ids[2], ids[3]})
			}
		}
		return &sexpMesh{mesh: m}, nil
	})

	// -----------------------------------------------------------------------
	// (suns (vec3 0 0 -1) (vec3 0.3 0 -1) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("suns", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		vecs, err := toVecs(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("suns: %w", err)
		}
		return &sexpSuns{vecs: vecs}, nil
	})
}

// defItem returns the builtin for defpanel/defsource.
func defItem(fn string, role scene.Role, s *scene.Scene) builtinFunc {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("%s requires a name and a geometry expression", fn)
		}
		itemName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: name: %w", fn, err)
		}

		it := &scene.Item{Name: itemName, Role: role}
		switch body := args[1].(type) {
		case *sexpMesh:
			it.Shape = scene.ShapeMesh
			it.Mesh = body.mesh
		case *sexpCurve:
			it.Shape = scene.ShapeCurve
			it.Curve = body.curve
		default:
			return zygo.SexpNull, fmt.Errorf("%s: expected mesh or curve expression, got %T", fn, args[1])
		}
		s.AddItem(it)

		return &sexpItemRef{name: itemName}, nil
	}
}

// defAnalysis returns the builtin for one analysis kind. fields maps the
// keywords the builtin accepts onto Analysis fields: "panels", "sources" or
// "against". :suns and :plane are always accepted.
func defAnalysis(fn string, kind analysis.Kind, s *scene.Scene, fields map[string]string) builtinFunc {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		a := &scene.Analysis{Kind: kind}

		if len(pa.positional) > 0 {
			n, err := toString(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: name: %w", fn, err)
			}
			a.Name = n
		}

		for kw, field := range fields {
			v, ok := pa.kw[kw]
			if !ok {
				continue
			}
			if field == "against" {
				n, err := toName(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: %s: %w", fn, kw, err)
				}
				a.Against = n
				continue
			}
			names, err := toNames(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %s: %w", fn, kw, err)
			}
			if field == "panels" {
				a.Panels = names
			} else {
				a.Sources = names
			}
		}

		if v, ok := pa.kw["suns"]; ok {
			vecs, err := toVecs([]zygo.Sexp{v})
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: suns: %w", fn, err)
			}
			a.Suns = vecs
		}
		if v, ok := pa.kw["plane"]; ok {
			pl, err := toPlane(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: plane: %w", fn, err)
			}
			a.Plane = &pl
		}

		s.AddAnalysis(a)
		return zygo.SexpNull, nil
	}
}
