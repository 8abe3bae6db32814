package geom

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is a row-major 4x4 affine matrix. The last row is expected to be
// (0, 0, 0, 1); Apply ignores it and never performs a perspective divide.
type Transform [4][4]float64

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Translation returns a transform that moves points by v.
func Translation(v r3.Vec) Transform {
	t := Identity()
	t[0][3] = v.X
	t[1][3] = v.Y
	t[2][3] = v.Z
	return t
}

// Apply maps a point through the transform.
func (t Transform) Apply(p r3.Vec) r3.Vec {
	return r3.Vec{
		X: t[0][0]*p.X + t[0][1]*p.Y + t[0][2]*p.Z + t[0][3],
		Y: t[1][0]*p.X + t[1][1]*p.Y + t[1][2]*p.Z + t[1][3],
		Z: t[2][0]*p.X + t[2][1]*p.Y + t[2][2]*p.Z + t[2][3],
	}
}

// ApplyVector maps a direction through the linear part of the transform.
func (t Transform) ApplyVector(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: t[0][0]*v.X + t[0][1]*v.Y + t[0][2]*v.Z,
		Y: t[1][0]*v.X + t[1][1]*v.Y + t[1][2]*v.Z,
		Z: t[2][0]*v.X + t[2][1]*v.Y + t[2][2]*v.Z,
	}
}

// Mul returns t·u, i.e. u is applied first.
func (t Transform) Mul(u Transform) Transform {
	var out Transform
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var s float64
			for k := 0; k < 4; k++ {
				s += t[i][k] * u[k][j]
			}
			out[i][j] = s
		}
	}
	return out
}

func (t Transform) String() string {
	return fmt.Sprintf("[%v %v %v %v]", t[0], t[1], t[2], t[3])
}
