package planar

import (
	"math"

	"github.com/chazu/suntools/pkg/geom"
	polyclip "github.com/ctessum/polyclip-go"
)

// sliverArea is the relative area under which a boolean output contour is
// treated as numerical debris and dropped.
const sliverArea = 1e-12

// BooleanDifference returns the loops of a minus b.
func (k *PlanarKernel) BooleanDifference(a, b geom.Polyline, plane geom.Plane) []geom.Polyline {
	return construct(polyclip.DIFFERENCE, plane, []geom.Polyline{a}, []geom.Polyline{b})
}

// BooleanIntersection returns the loops shared by a and b.
func (k *PlanarKernel) BooleanIntersection(a, b geom.Polyline, plane geom.Plane) []geom.Polyline {
	return construct(polyclip.INTERSECTION, plane, []geom.Polyline{a}, []geom.Polyline{b})
}

// BooleanDifferenceAll returns the loops of a minus the even-odd region of
// holes.
func (k *PlanarKernel) BooleanDifferenceAll(a geom.Polyline, holes []geom.Polyline, plane geom.Plane) []geom.Polyline {
	return construct(polyclip.DIFFERENCE, plane, []geom.Polyline{a}, holes)
}

// BooleanUnion merges loops into their combined outline.
func (k *PlanarKernel) BooleanUnion(loops []geom.Polyline, plane geom.Plane) []geom.Polyline {
	var acc polyclip.Polygon
	for _, l := range loops {
		p := toPolygon(toRings([]geom.Polyline{l}, plane))
		if len(p) == 0 {
			continue
		}
		if acc == nil {
			acc = p
			continue
		}
		acc = acc.Construct(polyclip.UNION, p)
	}
	return fromPolygon(acc, plane)
}

func construct(op polyclip.Op, plane geom.Plane, subject, clipping []geom.Polyline) []geom.Polyline {
	s := toPolygon(toRings(subject, plane))
	c := toPolygon(toRings(clipping, plane))
	if len(s) == 0 {
		return nil
	}
	if len(c) == 0 {
		if op == polyclip.INTERSECTION {
			return nil
		}
		return fromPolygon(s, plane)
	}
	return fromPolygon(s.Construct(op, c), plane)
}

// ---------------------------------------------------------------------------
// Conversion
// ---------------------------------------------------------------------------

func toPolygon(rings geom.Rings) polyclip.Polygon {
	out := make(polyclip.Polygon, 0, len(rings))
	for _, r := range rings {
		c := make(polyclip.Contour, len(r))
		for i, q := range r {
			c[i] = polyclip.Point{X: q.X, Y: q.Y}
		}
		out = append(out, c)
	}
	return out
}

func toRing(c polyclip.Contour) geom.Ring {
	r := make(geom.Ring, len(c))
	for i, p := range c {
		r[i].X, r[i].Y = p.X, p.Y
	}
	return r
}

// fromPolygon lifts every non-degenerate contour back onto plane as a closed
// polyline.
func fromPolygon(p polyclip.Polygon, plane geom.Plane) []geom.Polyline {
	if len(p) == 0 {
		return nil
	}
	var total float64
	for _, c := range p {
		total += math.Abs(toRing(c).SignedArea())
	}
	var out []geom.Polyline
	for _, c := range p {
		if len(c) < 3 {
			continue
		}
		r := toRing(c)
		if math.Abs(r.SignedArea()) <= sliverArea*math.Max(total, 1) {
			continue
		}
		out = append(out, r.Lift(plane))
	}
	return out
}
