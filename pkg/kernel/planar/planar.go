// Package planar implements the kernel.Kernel interface for planar geometry:
// polygon booleans with github.com/ctessum/polyclip-go, triangulation with
// github.com/hajimehoshi/go-libtess2, least-squares plane fitting with
// gonum/mat, and cutter solids delegated to the sdfx package.
package planar

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/suntools/pkg/geom"
	"github.com/chazu/suntools/pkg/kernel"
	"github.com/chazu/suntools/pkg/kernel/sdfx"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*PlanarKernel)(nil)

// ErrTooFewPoints is returned by FitPlane for fewer than three points.
var ErrTooFewPoints = errors.New("planar: plane fit needs at least three points")

// ErrCollinear is returned by FitPlane when the points do not span a plane.
var ErrCollinear = errors.New("planar: points are collinear")

// weldTol merges mesh vertices before topology queries when the caller passes
// no tolerance.
const weldTol = 1e-9

// PlanarKernel implements kernel.Kernel for geometry lying in planes.
type PlanarKernel struct{}

// New returns a new PlanarKernel.
func New() *PlanarKernel {
	return &PlanarKernel{}
}

// ---------------------------------------------------------------------------
// Plane fitting
// ---------------------------------------------------------------------------

// FitPlane returns the least-squares plane through points. The plane origin
// is the point average; the normal is the right singular vector of the
// centred point matrix with the smallest singular value, oriented to agree
// with the loop's winding when the points form one.
func (k *PlanarKernel) FitPlane(points []r3.Vec) (geom.Plane, error) {
	if len(points) < 3 {
		return geom.Plane{}, ErrTooFewPoints
	}

	var centre r3.Vec
	for _, p := range points {
		centre = r3.Add(centre, p)
	}
	centre = r3.Scale(1/float64(len(points)), centre)

	a := mat.NewDense(len(points), 3, nil)
	for i, p := range points {
		d := r3.Sub(p, centre)
		a.Set(i, 0, d.X)
		a.Set(i, 1, d.Y)
		a.Set(i, 2, d.Z)
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return geom.Plane{}, fmt.Errorf("planar: plane fit: SVD did not converge")
	}
	values := svd.Values(nil)
	if len(values) < 2 || values[1] <= 1e-12*math.Max(values[0], 1) {
		return geom.Plane{}, ErrCollinear
	}
	var v mat.Dense
	svd.VTo(&v)
	normal := r3.Vec{X: v.At(0, 2), Y: v.At(1, 2), Z: v.At(2, 2)}

	// Newell's normal gives the winding direction of an ordered loop.
	if r3.Dot(normal, newellNormal(points)) < 0 {
		normal = r3.Scale(-1, normal)
	}

	pl, err := geom.NewPlane(centre, normal)
	if err != nil {
		return geom.Plane{}, fmt.Errorf("planar: plane fit: %w", err)
	}
	return pl, nil
}

func newellNormal(points []r3.Vec) r3.Vec {
	var n r3.Vec
	for i, p := range points {
		q := points[(i+1)%len(points)]
		n.X += (p.Y - q.Y) * (p.Z + q.Z)
		n.Y += (p.Z - q.Z) * (p.X + q.X)
		n.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	return n
}

// ---------------------------------------------------------------------------
// Mass properties
// ---------------------------------------------------------------------------

// CurveAreaCentroid returns the even-odd area of the loops and its centroid,
// measured in plane.
func (k *PlanarKernel) CurveAreaCentroid(loops []geom.Polyline, plane geom.Plane) (float64, r3.Vec) {
	rings := toRings(loops, plane)
	if len(rings) == 0 {
		return 0, plane.Origin
	}
	return math.Abs(rings.Area()), plane.FromLocal(rings.Centroid())
}

// MeshAreaCentroid returns the summed face area and area centroid.
func (k *PlanarKernel) MeshAreaCentroid(m *geom.Mesh) (float64, r3.Vec) {
	if m == nil || m.IsEmpty() {
		return 0, r3.Vec{}
	}
	return m.Area(), m.Centroid()
}

// ---------------------------------------------------------------------------
// Solids
// ---------------------------------------------------------------------------

// ExtrudeAndThicken builds a cutter slab from outline, centred on plane.
func (k *PlanarKernel) ExtrudeAndThicken(outline []geom.Polyline, plane geom.Plane, thickness float64) (kernel.Solid, error) {
	c, err := sdfx.NewCutter(outline, plane, thickness)
	if err != nil {
		return nil, fmt.Errorf("planar: extrude: %w", err)
	}
	return c, nil
}

// ToMesh tessellates a cutter solid for display.
func (k *PlanarKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	c, ok := s.(*sdfx.Cutter)
	if !ok {
		return nil, fmt.Errorf("planar: ToMesh: unsupported solid %T", s)
	}
	return c.ToMesh()
}

// toRings maps closed loops into plane's frame, dropping loops with fewer
// than three corners.
func toRings(loops []geom.Polyline, plane geom.Plane) geom.Rings {
	var rings geom.Rings
	for _, l := range loops {
		r := l.ToLocal(plane).Corners()
		if len(r) < 3 {
			continue
		}
		rings = append(rings, r)
	}
	return rings
}
