package solar

import (
	"github.com/chazu/suntools/pkg/geom"
	"github.com/chazu/suntools/pkg/kernel"
	"github.com/chazu/suntools/pkg/kernel/planar"
	"gonum.org/v1/gonum/spatial/r3"
)

const eps = 1e-6

func rect(x0, y0, x1, y1 float64) geom.Polyline {
	return geom.Polyline{
		{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}, {X: x0, Y: y0},
	}
}

func rectMesh(x0, y0, x1, y1, z float64) *geom.Mesh {
	return geom.NewQuad(
		r3.Vec{X: x0, Y: y0, Z: z}, r3.Vec{X: x1, Y: y0, Z: z},
		r3.Vec{X: x1, Y: y1, Z: z}, r3.Vec{X: x0, Y: y1, Z: z},
	)
}

func testKernel() kernel.Kernel {
	return planar.New()
}

// emptyBooleanKernel returns no loops from the difference, as a kernel does
// when its boolean degenerates.
type emptyBooleanKernel struct {
	*planar.PlanarKernel
}

var _ kernel.Kernel = emptyBooleanKernel{}

func (emptyBooleanKernel) BooleanDifference(a, b geom.Polyline, plane geom.Plane) []geom.Polyline {
	return nil
}
