package kernel

import (
	"testing"

	"github.com/chazu/suntools/pkg/geom"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

func TestFromGeom(t *testing.T) {
	q := geom.NewQuad(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{X: 1, Y: 1}, r3.Vec{Y: 1})
	m := FromGeom(q, "panel")
	if m.TriangleCount() != 2 {
		t.Fatalf("TriangleCount() = %d, want 2", m.TriangleCount())
	}
	if m.VertexCount() != 6 {
		t.Errorf("VertexCount() = %d, want 6", m.VertexCount())
	}
	if len(m.Normals) != len(m.Vertices) {
		t.Errorf("normals length %d != vertices length %d", len(m.Normals), len(m.Vertices))
	}
	// Counter-clockwise quad in XY faces +Z.
	if m.Normals[2] != 1 {
		t.Errorf("normal z = %g, want 1", m.Normals[2])
	}
	if m.Label != "panel" {
		t.Errorf("Label = %q", m.Label)
	}
	if !FromGeom(nil, "x").IsEmpty() {
		t.Error("FromGeom(nil) should be empty")
	}
}

// --- Compile-time interface check with a stub kernel ---

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

func (s *stubSolid) Contains(p r3.Vec) bool {
	return p.X >= s.minBB[0] && p.X <= s.maxBB[0] &&
		p.Y >= s.minBB[1] && p.Y <= s.maxBB[1] &&
		p.Z >= s.minBB[2] && p.Z <= s.maxBB[2]
}

func (s *stubSolid) Outline() ([]geom.Polyline, geom.Plane) { return nil, geom.WorldXY }

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. All methods return trivial results.
type stubKernel struct{}

func (k *stubKernel) NakedEdges(*geom.Mesh, float64) []geom.Polyline { return nil }
func (k *stubKernel) FitPlane([]r3.Vec) (geom.Plane, error)          { return geom.WorldXY, nil }
func (k *stubKernel) CurveAreaCentroid([]geom.Polyline, geom.Plane) (float64, r3.Vec) {
	return 0, r3.Vec{}
}
func (k *stubKernel) MeshAreaCentroid(*geom.Mesh) (float64, r3.Vec) { return 0, r3.Vec{} }
func (k *stubKernel) BooleanDifference(a, _ geom.Polyline, _ geom.Plane) []geom.Polyline {
	return []geom.Polyline{a}
}
func (k *stubKernel) BooleanIntersection(geom.Polyline, geom.Polyline, geom.Plane) []geom.Polyline {
	return nil
}
func (k *stubKernel) BooleanUnion(loops []geom.Polyline, _ geom.Plane) []geom.Polyline { return loops }
func (k *stubKernel) BooleanDifferenceAll(a geom.Polyline, _ []geom.Polyline, _ geom.Plane) []geom.Polyline {
	return []geom.Polyline{a}
}
func (k *stubKernel) SplitMeshByMesh(src *geom.Mesh, _ Solid) ([]*geom.Mesh, error) {
	return []*geom.Mesh{src}, nil
}
func (k *stubKernel) ConvexHull2D(points []r2.Vec) []r2.Vec { return points }
func (k *stubKernel) ExtrudeAndThicken(_ []geom.Polyline, _ geom.Plane, thickness float64) (Solid, error) {
	return &stubSolid{
		minBB: [3]float64{-1, -1, -thickness / 2},
		maxBB: [3]float64{1, 1, thickness / 2},
	}, nil
}
func (k *stubKernel) ToMesh(Solid) (*Mesh, error) { return &Mesh{}, nil }

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelCutterBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	s, err := k.ExtrudeAndThicken(nil, geom.WorldXY, 2)
	if err != nil {
		t.Fatalf("ExtrudeAndThicken() error = %v", err)
	}
	min, max := s.BoundingBox()
	if min != [3]float64{-1, -1, -1} {
		t.Errorf("cutter min = %v, want [-1 -1 -1]", min)
	}
	if max != [3]float64{1, 1, 1} {
		t.Errorf("cutter max = %v, want [1 1 1]", max)
	}
	if !s.Contains(r3.Vec{}) {
		t.Error("cutter should contain the origin")
	}
}

func TestStubKernelToMesh(t *testing.T) {
	var k Kernel = &stubKernel{}
	s, _ := k.ExtrudeAndThicken(nil, geom.WorldXY, 1)
	m, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if m == nil {
		t.Fatal("ToMesh() returned nil mesh")
	}
	if !m.IsEmpty() {
		t.Error("stub ToMesh() should return empty mesh")
	}
}
