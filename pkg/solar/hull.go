package solar

import (
	"github.com/chazu/suntools/pkg/geom"
	"github.com/chazu/suntools/pkg/kernel"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// HullProjector reduces projected geometry to a convex outline in a plane.
type HullProjector struct {
	Kernel kernel.Kernel
}

// Hull returns the convex outline of m's vertices in plane.
func (h HullProjector) Hull(m *geom.Mesh, plane geom.Plane, tol float64) geom.Polyline {
	if m == nil {
		return nil
	}
	return h.HullPoints(m.Vertices, plane, tol)
}

// HullPoints flattens points into plane's frame, takes their 2D convex hull
// and lifts it back onto the plane. The chain is closed when its ends are
// more than tol apart. Fewer than three hull points give an open, degenerate
// outline.
func (h HullProjector) HullPoints(points []r3.Vec, plane geom.Plane, tol float64) geom.Polyline {
	flat := make([]r2.Vec, len(points))
	for i, p := range points {
		flat[i] = plane.ToLocal(p)
	}
	hull := h.Kernel.ConvexHull2D(flat)
	out := make(geom.Polyline, len(hull))
	for i, q := range hull {
		out[i] = plane.FromLocal(q)
	}
	if len(hull) < 3 {
		return out
	}
	return out.Closed(tol)
}
