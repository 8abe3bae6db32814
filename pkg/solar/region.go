package solar

import (
	"fmt"

	"github.com/chazu/suntools/pkg/geom"
	"github.com/chazu/suntools/pkg/kernel"
)

// RegionResult is the outcome of one region operation. Area is nil when the
// area is undefined, as for an open curve found inside the other region.
// Curves may share points with the inputs and must not be modified.
type RegionResult struct {
	Curves       []geom.Polyline
	Area         *float64
	Relationship Relationship
	Case         string
	Comment      string
}

// AreaOr returns the area, or def when it is undefined.
func (r RegionResult) AreaOr(def float64) float64 {
	if r.Area == nil {
		return def
	}
	return *r.Area
}

func areaPtr(a float64) *float64 { return &a }

// Algebra combines coplanar closed curves in one plane.
type Algebra struct {
	Kernel kernel.Kernel
	Plane  geom.Plane
	Tol    float64
}

func (g Algebra) area(loops ...geom.Polyline) float64 {
	a, _ := g.Kernel.CurveAreaCentroid(loops, g.Plane)
	return a
}

// Difference returns a minus b.
//
// When the kernel difference of intersecting curves comes back empty, the
// intersection area decides: below Tol·area(a) the curves only touch and a
// is kept whole; otherwise the result is the pair {b, a} with area
// area(a) − area(b).
func (g Algebra) Difference(a, b geom.Polyline) RegionResult {
	rel := Classify(a, b, g.Plane, g.Tol)
	res := RegionResult{Relationship: rel}

	switch rel {
	case Disjoint:
		res.Curves = []geom.Polyline{a}
		res.Area = areaPtr(g.area(a))
		res.Case, res.Comment = "1", "Disjoint, case 1"

	case MutualIntersection:
		loops := g.Kernel.BooleanDifference(a, b, g.Plane)
		switch len(loops) {
		case 0:
			areaA := g.area(a)
			inter := g.area(g.Kernel.BooleanIntersection(a, b, g.Plane)...)
			if inter < g.Tol*areaA {
				res.Curves = []geom.Polyline{a}
				res.Area = areaPtr(areaA)
				res.Case, res.Comment = "2a_a", "MutualIntersection, line/point intersection, case 2a_a"
			} else {
				res.Curves = []geom.Polyline{b, a}
				res.Area = areaPtr(areaA - g.area(b))
				res.Case, res.Comment = "2a_b", "MutualIntersection, line/point intersection, case 2a_b"
			}
		case 1:
			res.Curves = loops
			res.Area = areaPtr(g.area(loops...))
			res.Case, res.Comment = "2b", "MutualIntersection, 1 resulting closed curve, case 2b"
		default:
			res.Curves = loops
			res.Area = areaPtr(g.area(loops...))
			res.Case = "2c"
			res.Comment = fmt.Sprintf("MutualIntersection, %d resulting closed curves, case 2c", len(loops))
		}

	case AInsideB:
		res.Curves = []geom.Polyline{a}
		if a.IsClosed(g.Tol) {
			res.Area = areaPtr(g.area(a))
			res.Case, res.Comment = "3a", "A Inside B, resulting curve is closed, case 3a"
		} else {
			res.Case, res.Comment = "3b", "A Inside B,  resulting curve is NOT closed, case 3b"
		}

	case BInsideA:
		res.Curves = []geom.Polyline{b, a}
		res.Area = areaPtr(g.area(a) - g.area(b))
		res.Case, res.Comment = "4", "B Inside A,  resulting curve is  closed, case 4"
	}
	return res
}

// Intersection returns the region shared by a and b.
func (g Algebra) Intersection(a, b geom.Polyline) RegionResult {
	rel := Classify(a, b, g.Plane, g.Tol)
	res := RegionResult{Relationship: rel}

	switch rel {
	case Disjoint:
		res.Area = areaPtr(0)
		res.Case, res.Comment = "1", "Disjoint"

	case MutualIntersection:
		loops := g.Kernel.BooleanIntersection(a, b, g.Plane)
		switch len(loops) {
		case 0:
			res.Area = areaPtr(0)
			res.Case, res.Comment = "2a", "MutualIntersection, line intersection"
		case 1:
			res.Curves = loops
			res.Area = areaPtr(g.area(loops...))
			res.Case, res.Comment = "2b", "MutualIntersection, 1 resulting closed curve"
		default:
			res.Curves = loops
			res.Area = areaPtr(g.area(loops...))
			res.Case = "2c"
			res.Comment = fmt.Sprintf("MutualIntersection, %d resulting closed curves", len(loops))
		}

	case AInsideB:
		res.Curves = []geom.Polyline{a}
		if a.IsClosed(g.Tol) {
			res.Area = areaPtr(g.area(a))
			res.Case, res.Comment = "3a", "A Inside B, resulting curve is closed"
		} else {
			res.Case, res.Comment = "3b", "A Inside B,  resulting curve is NOT closed"
		}

	case BInsideA:
		res.Curves = []geom.Polyline{b}
		res.Area = areaPtr(g.area(b))
		res.Case, res.Comment = "4", "B Inside A,  resulting curve is  closed"
	}
	return res
}

// Exposed returns the part of outline not covered by footprint, whose loops
// bound an even-odd region, and its area. A footprint covering outline
// leaves no loops and zero area.
func (g Algebra) Exposed(outline geom.Polyline, footprint []geom.Polyline) ([]geom.Polyline, float64) {
	if len(footprint) == 0 {
		return []geom.Polyline{outline}, g.area(outline)
	}
	loops := g.Kernel.BooleanDifferenceAll(outline, footprint, g.Plane)
	if len(loops) == 0 {
		return nil, 0
	}
	return loops, g.area(loops...)
}
