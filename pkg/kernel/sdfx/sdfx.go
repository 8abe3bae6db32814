// Package sdfx builds mesh cutter solids with the github.com/deadsy/sdfx
// SDF-based CAD library. A cutter is a planar outline extruded symmetrically
// about its plane, so it straddles the surface it is meant to split.
package sdfx

import (
	"errors"
	"fmt"

	"github.com/chazu/suntools/pkg/geom"
	"github.com/chazu/suntools/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Compile-time interface check.
var _ kernel.Solid = (*Cutter)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// closeTol is the distance under which a loop's end points are treated as
// the same corner.
const closeTol = 1e-9

// ErrEmptyOutline is returned when no loop of the outline has three corners.
var ErrEmptyOutline = errors.New("sdfx: cutter outline has no usable loop")

// Cutter wraps an sdf.SDF3 built in the plane's local frame.
// Local x/y follow the plane axes and local z follows the plane normal.
type Cutter struct {
	s         sdf.SDF3
	plane     geom.Plane
	outline   []geom.Polyline
	thickness float64
}

// NewCutter extrudes outline loops lying in plane by thickness, centred on the
// plane. Loops nested inside an odd number of other loops become holes.
func NewCutter(outline []geom.Polyline, plane geom.Plane, thickness float64) (*Cutter, error) {
	if thickness <= 0 {
		return nil, fmt.Errorf("sdfx: cutter thickness %g must be positive", thickness)
	}

	var rings geom.Rings
	var loops []geom.Polyline
	for _, loop := range outline {
		r := loop.Open(closeTol).ToLocal(plane)
		if len(r) < 3 {
			continue
		}
		rings = append(rings, r)
		loops = append(loops, loop)
	}
	if len(rings) == 0 {
		return nil, ErrEmptyOutline
	}

	var solids, holes []sdf.SDF2
	for i, r := range rings {
		verts := make([]v2.Vec, len(r))
		for j, q := range r {
			verts[j] = v2.Vec{X: q.X, Y: q.Y}
		}
		s2, err := sdf.Polygon2D(verts)
		if err != nil {
			return nil, fmt.Errorf("sdfx: polygon for loop %d: %w", i, err)
		}
		if rings.Depth(i)%2 == 1 {
			holes = append(holes, s2)
		} else {
			solids = append(solids, s2)
		}
	}

	profile := sdf.Union2D(solids...)
	if len(holes) > 0 {
		profile = sdf.Difference2D(profile, sdf.Union2D(holes...))
	}

	return &Cutter{
		s:         sdf.Extrude3D(profile, thickness),
		plane:     plane,
		outline:   loops,
		thickness: thickness,
	}, nil
}

// toLocal maps a world point into the cutter frame.
func (c *Cutter) toLocal(p r3.Vec) v3.Vec {
	q := c.plane.ToLocal(p)
	return v3.Vec{X: q.X, Y: q.Y, Z: c.plane.Distance(p)}
}

// Contains reports whether p lies inside or on the cutter.
func (c *Cutter) Contains(p r3.Vec) bool {
	return c.s.Evaluate(c.toLocal(p)) <= 0
}

// Distance returns the signed distance estimate from p to the cutter surface.
// Negative values are inside.
func (c *Cutter) Distance(p r3.Vec) float64 {
	return c.s.Evaluate(c.toLocal(p))
}

// Thickness returns the extrusion depth.
func (c *Cutter) Thickness() float64 {
	return c.thickness
}

// Outline returns the loops the cutter was built from and their plane.
func (c *Cutter) Outline() ([]geom.Polyline, geom.Plane) {
	return c.outline, c.plane
}

// BoundingBox returns the world-space axis-aligned bounding box.
func (c *Cutter) BoundingBox() (min, max [3]float64) {
	bb := c.s.BoundingBox()
	toWorld := c.plane.FromLocalTransform()
	first := true
	for _, x := range []float64{bb.Min.X, bb.Max.X} {
		for _, y := range []float64{bb.Min.Y, bb.Max.Y} {
			for _, z := range []float64{bb.Min.Z, bb.Max.Z} {
				w := toWorld.Apply(r3.Vec{X: x, Y: y, Z: z})
				corner := [3]float64{w.X, w.Y, w.Z}
				for i := 0; i < 3; i++ {
					if first || corner[i] < min[i] {
						min[i] = corner[i]
					}
					if first || corner[i] > max[i] {
						max[i] = corner[i]
					}
				}
				first = false
			}
		}
	}
	return min, max
}

// ToMesh converts the cutter to a triangle mesh using marching cubes.
func (c *Cutter) ToMesh() (*kernel.Mesh, error) {
	renderer := render.NewMarchingCubesUniform(defaultMeshCells)
	triangles := render.ToTriangles(c.s, renderer)

	toWorld := c.plane.FromLocalTransform()

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal in world space.
		n := tri.Normal()
		wn := toWorld.ApplyVector(r3.Vec{X: n.X, Y: n.Y, Z: n.Z})
		nx := float32(wn.X)
		ny := float32(wn.Y)
		nz := float32(wn.Z)

		for j := 0; j < 3; j++ {
			v := toWorld.Apply(r3.Vec{X: tri[j].X, Y: tri[j].Y, Z: tri[j].Z})
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
		Label:    "cutter",
	}, nil
}
