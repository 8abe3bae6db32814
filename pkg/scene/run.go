package scene

import (
	"context"
	"fmt"

	"github.com/chazu/suntools/pkg/analysis"
	"github.com/chazu/suntools/pkg/geom"
)

// Run evaluates every analysis of the scene in order with r. The scene
// must have passed validation; a reference that cannot be resolved is
// reported as an error rather than skipped.
func (s *Scene) Run(ctx context.Context, r *analysis.Runner) ([]*analysis.Result, error) {
	results := make([]*analysis.Result, 0, len(s.Analyses))
	for i, a := range s.Analyses {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := a.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", a.Kind, i)
		}
		res, err := s.runOne(ctx, r, name, a)
		if err != nil {
			return nil, fmt.Errorf("scene: analysis %q: %w", name, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *Scene) runOne(ctx context.Context, r *analysis.Runner, name string, a *Analysis) (*analysis.Result, error) {
	switch a.Kind {
	case analysis.KindShade:
		panels, err := s.meshes(a.Panels)
		if err != nil {
			return nil, err
		}
		if len(panels) != 1 {
			return nil, fmt.Errorf("shade analysis takes one panel, got %d", len(panels))
		}
		shades, err := s.meshes(a.Sources)
		if err != nil {
			return nil, err
		}
		return r.ShadeAssess(ctx, analysis.ShadeRequest{Name: name, Panel: panels[0], Shades: shades, Suns: a.Suns})

	case analysis.KindGlare:
		panels, err := s.meshes(a.Panels)
		if err != nil {
			return nil, err
		}
		sources, err := s.meshes(a.Sources)
		if err != nil {
			return nil, err
		}
		return r.GlareAssess(ctx, analysis.GlareRequest{Name: name, Panels: panels, Sources: sources, Suns: a.Suns})

	case analysis.KindView:
		panels, err := s.meshes(a.Panels)
		if err != nil {
			return nil, err
		}
		obstructions, err := s.curves(a.Sources)
		if err != nil {
			return nil, err
		}
		return r.ViewAssess(ctx, analysis.ViewRequest{Name: name, Panels: panels, Obstructions: obstructions, Suns: a.Suns})

	case analysis.KindRegionDiff, analysis.KindRegionInter:
		req, err := s.regionRequest(r, name, a)
		if err != nil {
			return nil, err
		}
		if a.Kind == analysis.KindRegionDiff {
			return r.RegionDiff(ctx, req)
		}
		return r.RegionInter(ctx, req)

	default:
		return nil, fmt.Errorf("unknown analysis kind %q", a.Kind)
	}
}

// regionRequest resolves the curves of a region analysis. Without an
// explicit plane the plane is fitted through the B curve.
func (s *Scene) regionRequest(r *analysis.Runner, name string, a *Analysis) (analysis.RegionRequest, error) {
	curves, err := s.curves(append([]string{a.Against}, a.Sources...))
	if err != nil {
		return analysis.RegionRequest{}, err
	}
	b := curves[0]
	req := analysis.RegionRequest{Name: name, A: curves[1:], B: b}
	if a.Plane != nil {
		pl, err := geom.NewPlaneFromFrame(a.Plane.Origin, a.Plane.XAxis, a.Plane.Normal)
		if err != nil {
			return analysis.RegionRequest{}, err
		}
		req.Plane = pl
		return req, nil
	}
	pl, err := r.Kernel.FitPlane(b.Open(r.Tol.CurveTolerance))
	if err != nil {
		return analysis.RegionRequest{}, fmt.Errorf("plane of %q: %w", a.Against, err)
	}
	req.Plane = pl
	return req, nil
}

func (s *Scene) meshes(names []string) ([]*geom.Mesh, error) {
	out := make([]*geom.Mesh, 0, len(names))
	for _, n := range names {
		it := s.Lookup(n)
		if it == nil || it.Shape != ShapeMesh {
			return nil, fmt.Errorf("no mesh named %q", n)
		}
		out = append(out, it.Mesh)
	}
	return out, nil
}

func (s *Scene) curves(names []string) ([]geom.Polyline, error) {
	out := make([]geom.Polyline, 0, len(names))
	for _, n := range names {
		it := s.Lookup(n)
		if it == nil || it.Shape != ShapeCurve {
			return nil, fmt.Errorf("no curve named %q", n)
		}
		out = append(out, it.Curve)
	}
	return out, nil
}

// ContextCurves returns the curve items a refers to, sources first and then
// the against curve. Mesh items and unknown names are left out.
func (s *Scene) ContextCurves(a *Analysis) []geom.Polyline {
	if a == nil {
		return nil
	}
	names := append(append([]string(nil), a.Sources...), a.Against)
	var out []geom.Polyline
	for _, n := range names {
		if it := s.Lookup(n); it != nil && it.Shape == ShapeCurve {
			out = append(out, it.Curve)
		}
	}
	return out
}
