package geom

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Polyline is an ordered point sequence. A closed polyline repeats its first
// point as its last.
type Polyline []r3.Vec

// IsClosed reports whether the polyline has at least three distinct corners
// and its end points coincide within tol.
func (pl Polyline) IsClosed(tol float64) bool {
	if len(pl) < 4 {
		return false
	}
	return r3.Norm(r3.Sub(pl[0], pl[len(pl)-1])) <= tol
}

// Closed returns a copy with the first point appended when the ends differ
// by more than tol.
func (pl Polyline) Closed(tol float64) Polyline {
	out := append(Polyline(nil), pl...)
	if len(out) > 0 && r3.Norm(r3.Sub(out[0], out[len(out)-1])) > tol {
		out = append(out, out[0])
	}
	return out
}

// Open returns the corner points without a repeated closing point.
func (pl Polyline) Open(tol float64) Polyline {
	if len(pl) > 1 && r3.Norm(r3.Sub(pl[0], pl[len(pl)-1])) <= tol {
		return append(Polyline(nil), pl[:len(pl)-1]...)
	}
	return append(Polyline(nil), pl...)
}

// Transform returns a copy with every point mapped through t.
func (pl Polyline) Transform(t Transform) Polyline {
	out := make(Polyline, len(pl))
	for i, p := range pl {
		out[i] = t.Apply(p)
	}
	return out
}

// Length returns the summed segment length.
func (pl Polyline) Length() float64 {
	var l float64
	for i := 1; i < len(pl); i++ {
		l += r3.Norm(r3.Sub(pl[i], pl[i-1]))
	}
	return l
}

// ToLocal maps every point into the plane's 2D frame.
func (pl Polyline) ToLocal(p Plane) Ring {
	out := make(Ring, len(pl))
	for i, v := range pl {
		out[i] = p.ToLocal(v)
	}
	return out
}

// Ring is a 2D loop in some plane frame. The closing point may or may not be
// repeated; all functions treat the ring as implicitly closed.
type Ring []r2.Vec

// Lift maps the ring back onto the plane as a closed polyline.
func (r Ring) Lift(p Plane) Polyline {
	out := make(Polyline, 0, len(r)+1)
	for _, q := range r {
		out = append(out, p.FromLocal(q))
	}
	if len(r) > 0 && r[0] != r[len(r)-1] {
		out = append(out, p.FromLocal(r[0]))
	}
	return out
}

// corners returns the ring without a repeated closing point.
func (r Ring) corners() Ring {
	if len(r) > 1 && r[0] == r[len(r)-1] {
		return r[:len(r)-1]
	}
	return r
}

// SignedArea returns the shoelace area, positive for counter-clockwise rings.
func (r Ring) SignedArea() float64 {
	c := r.corners()
	var s float64
	for i := range c {
		j := (i + 1) % len(c)
		s += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return s / 2
}

// Centroid returns the area centroid of the ring. Degenerate rings fall back
// to the vertex average.
func (r Ring) Centroid() r2.Vec {
	c := r.corners()
	if len(c) == 0 {
		return r2.Vec{}
	}
	var cx, cy, a float64
	for i := range c {
		j := (i + 1) % len(c)
		cross := c[i].X*c[j].Y - c[j].X*c[i].Y
		a += cross
		cx += (c[i].X + c[j].X) * cross
		cy += (c[i].Y + c[j].Y) * cross
	}
	if a == 0 {
		var sum r2.Vec
		for _, p := range c {
			sum = r2.Add(sum, p)
		}
		return r2.Scale(1/float64(len(c)), sum)
	}
	return r2.Vec{X: cx / (3 * a), Y: cy / (3 * a)}
}

// Contains reports whether q lies strictly inside the ring (even-odd rule).
// Points on the boundary may report either way.
func (r Ring) Contains(q r2.Vec) bool {
	c := r.corners()
	in := false
	for i, j := 0, len(c)-1; i < len(c); j, i = i, i+1 {
		a, b := c[i], c[j]
		if (a.Y > q.Y) != (b.Y > q.Y) {
			x := (b.X-a.X)*(q.Y-a.Y)/(b.Y-a.Y) + a.X
			if q.X < x {
				in = !in
			}
		}
	}
	return in
}

// Segments returns the ring's edges including the closing edge.
func (r Ring) Segments() [][2]r2.Vec {
	c := r.corners()
	segs := make([][2]r2.Vec, 0, len(c))
	for i := range c {
		segs = append(segs, [2]r2.Vec{c[i], c[(i+1)%len(c)]})
	}
	return segs
}

// Corners is the exported form of corners.
func (r Ring) Corners() Ring {
	return append(Ring(nil), r.corners()...)
}
