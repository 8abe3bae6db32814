package solar

import (
	"math"

	"github.com/chazu/suntools/pkg/geom"
)

// Relationship is the topological relationship of two coplanar regions.
type Relationship int

const (
	Disjoint Relationship = iota
	MutualIntersection
	AInsideB
	BInsideA
)

func (r Relationship) String() string {
	switch r {
	case Disjoint:
		return "Disjoint"
	case MutualIntersection:
		return "MutualIntersection"
	case AInsideB:
		return "AInsideB"
	case BInsideA:
		return "BInsideA"
	default:
		return "Unknown"
	}
}

// Swap returns the relationship seen with A and B exchanged.
func (r Relationship) Swap() Relationship {
	switch r {
	case AInsideB:
		return BInsideA
	case BInsideA:
		return AInsideB
	default:
		return r
	}
}

// Relation is a classification together with both outlines in the plane's
// 2D frame, without repeated closing points.
type Relation struct {
	Relationship Relationship
	A, B         geom.Ring
}

// Classify returns the relationship of curves a and b in plane. Both curves
// are treated as closed. Boundaries passing within tol of each other count
// as MutualIntersection, so touching curves intersect. Curves with fewer
// than three corners are Disjoint from everything.
func Classify(a, b geom.Polyline, plane geom.Plane, tol float64) Relationship {
	return Relate(a, b, plane, tol).Relationship
}

// Relate classifies a and b and returns their local outlines.
func Relate(a, b geom.Polyline, plane geom.Plane, tol float64) Relation {
	rel := Relation{
		A: a.ToLocal(plane).Corners(),
		B: b.ToLocal(plane).Corners(),
	}
	rel.Relationship = classifyRings(rel.A, rel.B, tol)
	return rel
}

func classifyRings(ra, rb geom.Ring, tol float64) Relationship {
	if len(ra) < 3 || len(rb) < 3 {
		return Disjoint
	}
	if !boxesTouch(ra, rb, tol) {
		return Disjoint
	}

	for _, sa := range ra.Segments() {
		for _, sb := range rb.Segments() {
			if geom.SegmentDistance(sa[0], sa[1], sb[0], sb[1]) <= tol {
				return MutualIntersection
			}
		}
	}

	// Boundaries are apart, so one vertex decides containment.
	switch {
	case rb.Contains(ra[0]):
		return AInsideB
	case ra.Contains(rb[0]):
		return BInsideA
	default:
		return Disjoint
	}
}

func boxesTouch(ra, rb geom.Ring, tol float64) bool {
	aMinX, aMinY, aMaxX, aMaxY := bounds(ra)
	bMinX, bMinY, bMaxX, bMaxY := bounds(rb)
	return aMinX <= bMaxX+tol && bMinX <= aMaxX+tol &&
		aMinY <= bMaxY+tol && bMinY <= aMaxY+tol
}

func bounds(r geom.Ring) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, q := range r {
		minX, maxX = math.Min(minX, q.X), math.Max(maxX, q.X)
		minY, maxY = math.Min(minY, q.Y), math.Max(maxY, q.Y)
	}
	return minX, minY, maxX, maxY
}
