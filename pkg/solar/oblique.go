package solar

import (
	"fmt"
	"math"

	"github.com/chazu/suntools/pkg/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// Oblique returns the affine transform mapping any point to where the line
// through it along dir meets plane. It fails with DegenerateProjection when
// dir is zero or lies within tol of the plane (|n·dir| <= tol·|dir|).
//
// The transform is a projection and has no inverse; projecting back requires
// a new transform built for the reverse plane and direction.
func Oblique(plane geom.Plane, dir r3.Vec, tol float64) (geom.Transform, error) {
	a, b, c, d := plane.Equation()
	dx, dy, dz := dir.X, dir.Y, dir.Z
	D := a*dx + b*dy + c*dz

	n := r3.Norm(dir)
	if n == 0 || math.Abs(D) <= tol*n {
		return geom.Transform{}, &Error{
			Kind: DegenerateProjection,
			Op:   "oblique",
			Err:  fmt.Errorf("direction (%g, %g, %g) is parallel to the plane", dx, dy, dz),
		}
	}

	return geom.Transform{
		{1 - a*dx/D, -b * dx / D, -c * dx / D, -d * dx / D},
		{-a * dy / D, 1 - b*dy/D, -c * dy / D, -d * dy / D},
		{-a * dz / D, -b * dz / D, 1 - c*dz/D, -d * dz / D},
		{0, 0, 0, 1},
	}, nil
}
