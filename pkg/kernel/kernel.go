// Package kernel defines the abstract geometry kernel interface used by the
// solar analysis engine. Implementations (planar, sdfx) provide the primitive
// operations the engine orchestrates: naked-edge extraction, plane fitting,
// area/centroid computation, planar curve booleans, mesh splitting, convex
// hulls and cutter solid construction. The abstraction keeps the analysis
// code independent of any particular backend.
package kernel

import (
	"github.com/chazu/suntools/pkg/geom"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Solid is an opaque handle to a kernel solid, used as a mesh cutter.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
	// Contains reports whether p lies inside the solid.
	Contains(p r3.Vec) bool
	// Outline returns the planar loops the solid was extruded from and
	// the plane they lie in.
	Outline() ([]geom.Polyline, geom.Plane)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Topology
	NakedEdges(m *geom.Mesh, tol float64) []geom.Polyline
	FitPlane(points []r3.Vec) (geom.Plane, error)

	// Mass properties
	CurveAreaCentroid(loops []geom.Polyline, plane geom.Plane) (float64, r3.Vec)
	MeshAreaCentroid(m *geom.Mesh) (float64, r3.Vec)

	// Planar curve booleans. Results are closed loops; an empty result is
	// legal and is interpreted by the caller.
	BooleanDifference(a, b geom.Polyline, plane geom.Plane) []geom.Polyline
	BooleanIntersection(a, b geom.Polyline, plane geom.Plane) []geom.Polyline
	BooleanUnion(loops []geom.Polyline, plane geom.Plane) []geom.Polyline
	// BooleanDifferenceAll returns a minus the even-odd region bounded by
	// holes, so an annular footprint removes only its ring.
	BooleanDifferenceAll(a geom.Polyline, holes []geom.Polyline, plane geom.Plane) []geom.Polyline

	// Mesh operations
	SplitMeshByMesh(src *geom.Mesh, cutter Solid) ([]*geom.Mesh, error)
	ConvexHull2D(points []r2.Vec) []r2.Vec
	ExtrudeAndThicken(outline []geom.Polyline, plane geom.Plane, thickness float64) (Solid, error)

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
