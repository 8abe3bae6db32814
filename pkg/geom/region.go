package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Rings is a set of loops in one plane frame interpreted with the even-odd
// rule: a loop nested inside an odd number of other loops is a hole.
type Rings []Ring

// Depth returns how many other rings contain ring i.
func (rs Rings) Depth(i int) int {
	c := rs[i].corners()
	if len(c) == 0 {
		return 0
	}
	first := c[0]
	d := 0
	for j, o := range rs {
		if j == i {
			continue
		}
		if o.Contains(first) {
			d++
		}
	}
	return d
}

// Area returns the even-odd area of the ring set.
func (rs Rings) Area() float64 {
	var a float64
	for i, r := range rs {
		ra := math.Abs(r.SignedArea())
		if rs.Depth(i)%2 == 1 {
			a -= ra
		} else {
			a += ra
		}
	}
	return a
}

// Centroid returns the even-odd area centroid of the ring set.
func (rs Rings) Centroid() r2.Vec {
	var sum r2.Vec
	var total float64
	for i, r := range rs {
		ra := math.Abs(r.SignedArea())
		if rs.Depth(i)%2 == 1 {
			ra = -ra
		}
		sum = r2.Add(sum, r2.Scale(ra, r.Centroid()))
		total += ra
	}
	if total == 0 {
		if len(rs) > 0 {
			return rs[0].Centroid()
		}
		return r2.Vec{}
	}
	return r2.Scale(1/total, sum)
}

// Contains applies the even-odd rule across all rings.
func (rs Rings) Contains(q r2.Vec) bool {
	in := false
	for _, r := range rs {
		if r.Contains(q) {
			in = !in
		}
	}
	return in
}
