package planar

import (
	"fmt"
	"math"

	"github.com/chazu/suntools/pkg/geom"
	"github.com/chazu/suntools/pkg/kernel"
	polyclip "github.com/ctessum/polyclip-go"
	libtess2 "github.com/hajimehoshi/go-libtess2"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// thicknesser is implemented by solids that know their slab depth.
type thicknesser interface {
	Thickness() float64
}

// SplitMeshByMesh splits a planar mesh along the footprint of a cutter slab.
// Pieces inside the cutter come first, then pieces outside; within each group
// pieces are ordered by connected component. A mesh lying outside the slab
// is returned whole.
func (k *PlanarKernel) SplitMeshByMesh(src *geom.Mesh, cutter kernel.Solid) ([]*geom.Mesh, error) {
	if src == nil || src.IsEmpty() {
		return nil, geom.ErrEmptyMesh
	}
	loops, plane := cutter.Outline()

	var offset float64
	for _, v := range src.Vertices {
		offset += plane.Distance(v)
	}
	offset /= float64(len(src.Vertices))
	if t, ok := cutter.(thicknesser); ok && math.Abs(offset) > t.Thickness()/2 {
		return []*geom.Mesh{src.Clone()}, nil
	}

	subject := meshFootprint(src, plane)
	clip := toPolygon(toRings(loops, plane))
	if len(subject) == 0 {
		return nil, fmt.Errorf("planar: split: mesh has no area in the cutter plane")
	}
	if len(clip) == 0 {
		return []*geom.Mesh{src.Clone()}, nil
	}

	var pieces []*geom.Mesh
	for _, op := range []polyclip.Op{polyclip.INTERSECTION, polyclip.DIFFERENCE} {
		m, err := triangulate(subject.Construct(op, clip), plane, offset)
		if err != nil {
			return nil, fmt.Errorf("planar: split: %w", err)
		}
		if m == nil {
			continue
		}
		pieces = append(pieces, m.Weld(weldTol).Components()...)
	}
	return pieces, nil
}

// meshFootprint unions the mesh faces projected into plane's frame.
func meshFootprint(m *geom.Mesh, plane geom.Plane) polyclip.Polygon {
	var acc polyclip.Polygon
	for i, f := range m.Faces {
		if m.FaceArea(i) <= 0 {
			continue
		}
		tri := polyclip.Polygon{polyclip.Contour{
			toPoint(plane.ToLocal(m.Vertices[f[0]])),
			toPoint(plane.ToLocal(m.Vertices[f[1]])),
			toPoint(plane.ToLocal(m.Vertices[f[2]])),
		}}
		if math.Abs(toRing(tri[0]).SignedArea()) <= sliverArea {
			continue
		}
		if acc == nil {
			acc = tri
			continue
		}
		acc = acc.Construct(polyclip.UNION, tri)
	}
	return acc
}

func toPoint(q r2.Vec) polyclip.Point {
	return polyclip.Point{X: q.X, Y: q.Y}
}

// triangulate fills the even-odd region of p and lifts it onto plane shifted
// by offset along the normal. libtess2 works in float32, so output vertices
// are snapped back to the nearest input corner when one is close.
func triangulate(p polyclip.Polygon, plane geom.Plane, offset float64) (*geom.Mesh, error) {
	var contours []libtess2.Contour
	var corners []r2.Vec
	var extent float64
	for _, c := range p {
		if len(c) < 3 {
			continue
		}
		lc := make(libtess2.Contour, len(c))
		for i, pt := range c {
			lc[i] = libtess2.Vertex{X: float32(pt.X), Y: float32(pt.Y)}
			corners = append(corners, r2.Vec{X: pt.X, Y: pt.Y})
			extent = math.Max(extent, math.Max(math.Abs(pt.X), math.Abs(pt.Y)))
		}
		contours = append(contours, lc)
	}
	if len(contours) == 0 {
		return nil, nil
	}

	elems, verts, err := libtess2.Tesselate(contours, libtess2.WindingRuleOdd)
	if err != nil {
		return nil, err
	}
	if len(elems) < 3 {
		return nil, nil
	}

	snapTol := 1e-5 * (1 + extent)
	shift := r3.Scale(offset, plane.Normal)
	m := &geom.Mesh{Vertices: make([]r3.Vec, len(verts))}
	for i, v := range verts {
		q := snap(r2.Vec{X: float64(v.X), Y: float64(v.Y)}, corners, snapTol)
		m.Vertices[i] = r3.Add(plane.FromLocal(q), shift)
	}
	for i := 0; i+2 < len(elems); i += 3 {
		f := [3]int{elems[i], elems[i+1], elems[i+2]}
		if f[0] < 0 || f[1] < 0 || f[2] < 0 {
			continue
		}
		m.Faces = append(m.Faces, f)
		if r3.Dot(m.FaceNormal(len(m.Faces)-1), plane.Normal) < 0 {
			m.Faces[len(m.Faces)-1] = [3]int{f[0], f[2], f[1]}
		}
	}
	if m.IsEmpty() {
		return nil, nil
	}
	return m, nil
}

func snap(q r2.Vec, corners []r2.Vec, tol float64) r2.Vec {
	best, bestD := q, tol
	for _, c := range corners {
		if d := r2.Norm(r2.Sub(q, c)); d <= bestD {
			best, bestD = c, d
		}
	}
	return best
}
