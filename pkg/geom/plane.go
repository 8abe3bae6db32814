package geom

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrZeroNormal is returned when a plane is built from a zero-length normal.
var ErrZeroNormal = errors.New("geom: plane normal has zero length")

// Plane is an oriented plane with an orthonormal right-handed frame.
// XAxis × YAxis = Normal.
type Plane struct {
	Origin r3.Vec `json:"origin"`
	Normal r3.Vec `json:"normal"`
	XAxis  r3.Vec `json:"x_axis"`
	YAxis  r3.Vec `json:"y_axis"`
}

// WorldXY is the plane z=0 with the world axes as its frame.
var WorldXY = Plane{
	Normal: r3.Vec{Z: 1},
	XAxis:  r3.Vec{X: 1},
	YAxis:  r3.Vec{Y: 1},
}

// NewPlane builds a plane through origin with the given normal. The in-plane
// axes are chosen deterministically: XAxis is the projection of world X (or
// world Y when the normal is close to world X) onto the plane.
func NewPlane(origin, normal r3.Vec) (Plane, error) {
	n := r3.Norm(normal)
	if n == 0 || math.IsNaN(n) {
		return Plane{}, ErrZeroNormal
	}
	normal = r3.Scale(1/n, normal)

	ref := r3.Vec{X: 1}
	if math.Abs(normal.X) > 0.9 {
		ref = r3.Vec{Y: 1}
	}
	x := r3.Sub(ref, r3.Scale(r3.Dot(ref, normal), normal))
	x = r3.Unit(x)
	y := r3.Cross(normal, x)
	return Plane{Origin: origin, Normal: normal, XAxis: x, YAxis: y}, nil
}

// NewPlaneFromFrame builds a plane from an origin and an in-plane X axis hint
// plus a normal. The X axis is re-orthogonalized against the normal.
func NewPlaneFromFrame(origin, xAxis, normal r3.Vec) (Plane, error) {
	pl, err := NewPlane(origin, normal)
	if err != nil {
		return Plane{}, err
	}
	x := r3.Sub(xAxis, r3.Scale(r3.Dot(xAxis, pl.Normal), pl.Normal))
	if r3.Norm(x) < 1e-12 {
		return pl, nil
	}
	pl.XAxis = r3.Unit(x)
	pl.YAxis = r3.Cross(pl.Normal, pl.XAxis)
	return pl, nil
}

// Equation returns (a, b, c, d) such that a·x + b·y + c·z + d = 0 for points
// on the plane, with (a, b, c) the unit normal.
func (p Plane) Equation() (a, b, c, d float64) {
	n := r3.Unit(p.Normal)
	return n.X, n.Y, n.Z, -r3.Dot(n, p.Origin)
}

// Distance returns the signed distance of pt from the plane.
func (p Plane) Distance(pt r3.Vec) float64 {
	return r3.Dot(r3.Sub(pt, p.Origin), p.Normal)
}

// ToLocal expresses pt in the plane's 2D frame, dropping the normal component.
func (p Plane) ToLocal(pt r3.Vec) r2.Vec {
	d := r3.Sub(pt, p.Origin)
	return r2.Vec{X: r3.Dot(d, p.XAxis), Y: r3.Dot(d, p.YAxis)}
}

// FromLocal lifts a 2D frame coordinate back onto the plane.
func (p Plane) FromLocal(q r2.Vec) r3.Vec {
	return r3.Add(p.Origin, r3.Add(r3.Scale(q.X, p.XAxis), r3.Scale(q.Y, p.YAxis)))
}

// Flip returns the plane with reversed normal and Y axis.
func (p Plane) Flip() Plane {
	return Plane{
		Origin: p.Origin,
		Normal: r3.Scale(-1, p.Normal),
		XAxis:  p.XAxis,
		YAxis:  r3.Scale(-1, p.YAxis),
	}
}

// ToLocalTransform returns the change of basis from world coordinates into
// the plane frame (x, y in-plane, z along the normal).
func (p Plane) ToLocalTransform() Transform {
	t := Transform{
		{p.XAxis.X, p.XAxis.Y, p.XAxis.Z, -r3.Dot(p.XAxis, p.Origin)},
		{p.YAxis.X, p.YAxis.Y, p.YAxis.Z, -r3.Dot(p.YAxis, p.Origin)},
		{p.Normal.X, p.Normal.Y, p.Normal.Z, -r3.Dot(p.Normal, p.Origin)},
		{0, 0, 0, 1},
	}
	return t
}

// FromLocalTransform is the inverse of ToLocalTransform.
func (p Plane) FromLocalTransform() Transform {
	return Transform{
		{p.XAxis.X, p.YAxis.X, p.Normal.X, p.Origin.X},
		{p.XAxis.Y, p.YAxis.Y, p.Normal.Y, p.Origin.Y},
		{p.XAxis.Z, p.YAxis.Z, p.Normal.Z, p.Origin.Z},
		{0, 0, 0, 1},
	}
}
