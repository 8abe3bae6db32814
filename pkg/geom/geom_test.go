package geom

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func nearVec(a, b r3.Vec) bool { return r3.Norm(r3.Sub(a, b)) < 1e-9 }

// --- Plane ---

func TestNewPlaneZeroNormal(t *testing.T) {
	if _, err := NewPlane(r3.Vec{}, r3.Vec{}); err != ErrZeroNormal {
		t.Fatalf("NewPlane(zero normal) error = %v, want ErrZeroNormal", err)
	}
}

func TestNewPlaneFrameIsOrthonormal(t *testing.T) {
	normals := []r3.Vec{
		{Z: 1}, {X: 1}, {Y: -3}, {X: 1, Y: 2, Z: 3}, {X: -0.2, Y: 0.1, Z: -5},
	}
	for _, n := range normals {
		pl, err := NewPlane(r3.Vec{X: 1, Y: 2, Z: 3}, n)
		if err != nil {
			t.Fatalf("NewPlane(%v): %v", n, err)
		}
		if !near(r3.Norm(pl.Normal), 1) || !near(r3.Norm(pl.XAxis), 1) || !near(r3.Norm(pl.YAxis), 1) {
			t.Errorf("normal %v: frame not unit length: %+v", n, pl)
		}
		if !near(r3.Dot(pl.XAxis, pl.Normal), 0) || !near(r3.Dot(pl.YAxis, pl.XAxis), 0) {
			t.Errorf("normal %v: frame not orthogonal: %+v", n, pl)
		}
		if !nearVec(r3.Cross(pl.XAxis, pl.YAxis), pl.Normal) {
			t.Errorf("normal %v: frame not right-handed", n)
		}
	}
}

func TestPlaneLocalRoundTrip(t *testing.T) {
	pl, _ := NewPlane(r3.Vec{X: 5, Y: -1, Z: 2}, r3.Vec{X: 0.3, Y: 1, Z: 0.2})
	q := r2.Vec{X: 1.5, Y: -2.25}
	p := pl.FromLocal(q)
	if !near(pl.Distance(p), 0) {
		t.Errorf("FromLocal point is %g off the plane", pl.Distance(p))
	}
	back := pl.ToLocal(p)
	if !near(back.X, q.X) || !near(back.Y, q.Y) {
		t.Errorf("ToLocal(FromLocal(%v)) = %v", q, back)
	}
}

func TestPlaneEquation(t *testing.T) {
	pl, _ := NewPlane(r3.Vec{Z: 4}, r3.Vec{Z: 2})
	a, b, c, d := pl.Equation()
	if a != 0 || b != 0 || c != 1 || d != -4 {
		t.Errorf("Equation() = (%g, %g, %g, %g), want (0, 0, 1, -4)", a, b, c, d)
	}
}

func TestPlaneLocalTransformsAreInverse(t *testing.T) {
	pl, _ := NewPlane(r3.Vec{X: 1, Y: 1, Z: 1}, r3.Vec{X: 1, Y: -1, Z: 0.5})
	p := r3.Vec{X: 3, Y: -7, Z: 2}
	got := pl.FromLocalTransform().Apply(pl.ToLocalTransform().Apply(p))
	if !nearVec(got, p) {
		t.Errorf("round trip = %v, want %v", got, p)
	}
}

// --- Transform ---

func TestTransformMul(t *testing.T) {
	a := Translation(r3.Vec{X: 1})
	b := Translation(r3.Vec{Y: 2})
	got := a.Mul(b).Apply(r3.Vec{})
	if !nearVec(got, r3.Vec{X: 1, Y: 2}) {
		t.Errorf("Mul().Apply = %v", got)
	}
	if Identity().Apply(r3.Vec{X: 4, Y: 5, Z: 6}) != (r3.Vec{X: 4, Y: 5, Z: 6}) {
		t.Error("Identity moved a point")
	}
}

// --- Polyline / Ring ---

func square(x0, y0, size float64) Polyline {
	return Polyline{
		{X: x0, Y: y0}, {X: x0 + size, Y: y0}, {X: x0 + size, Y: y0 + size}, {X: x0, Y: y0 + size}, {X: x0, Y: y0},
	}
}

func TestPolylineClosed(t *testing.T) {
	sq := square(0, 0, 1)
	if !sq.IsClosed(1e-6) {
		t.Error("square should be closed")
	}
	open := sq.Open(1e-6)
	if len(open) != 4 || open.IsClosed(1e-6) {
		t.Errorf("Open() = %v", open)
	}
	if re := open.Closed(1e-6); len(re) != 5 || !re.IsClosed(1e-6) {
		t.Errorf("Closed() = %v", re)
	}
	if (Polyline{{}, {X: 1}}).IsClosed(1) {
		t.Error("two-point polyline reported closed")
	}
}

func TestRingArea(t *testing.T) {
	r := square(0, 0, 2).ToLocal(WorldXY)
	if got := r.SignedArea(); !near(got, 4) {
		t.Errorf("SignedArea() = %g, want 4", got)
	}
	c := r.Centroid()
	if !near(c.X, 1) || !near(c.Y, 1) {
		t.Errorf("Centroid() = %v, want (1, 1)", c)
	}
	if !r.Contains(r2.Vec{X: 1, Y: 1}) || r.Contains(r2.Vec{X: 3, Y: 1}) {
		t.Error("Contains() wrong")
	}
}

func TestRingsAreaWithHole(t *testing.T) {
	rs := Rings{
		square(0, 0, 2).ToLocal(WorldXY),
		square(0.5, 0.5, 1).ToLocal(WorldXY),
	}
	if got := rs.Area(); !near(got, 3) {
		t.Errorf("Area() = %g, want 3", got)
	}
	if rs.Contains(r2.Vec{X: 1, Y: 1}) {
		t.Error("hole interior reported inside")
	}
	if !rs.Contains(r2.Vec{X: 0.25, Y: 0.25}) {
		t.Error("solid part reported outside")
	}
}

func TestSegmentDistance(t *testing.T) {
	tests := []struct {
		name       string
		a, b, c, d r2.Vec
		want       float64
	}{
		{"crossing", r2.Vec{X: 0, Y: 0}, r2.Vec{X: 2, Y: 2}, r2.Vec{X: 0, Y: 2}, r2.Vec{X: 2, Y: 0}, 0},
		{"parallel", r2.Vec{X: 0, Y: 0}, r2.Vec{X: 1, Y: 0}, r2.Vec{X: 0, Y: 1}, r2.Vec{X: 1, Y: 1}, 1},
		{"touching end", r2.Vec{X: 0, Y: 0}, r2.Vec{X: 1, Y: 0}, r2.Vec{X: 1, Y: 0}, r2.Vec{X: 1, Y: 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentDistance(tt.a, tt.b, tt.c, tt.d); !near(got, tt.want) {
				t.Errorf("SegmentDistance() = %g, want %g", got, tt.want)
			}
		})
	}
}

// --- Mesh ---

func TestMeshComponents(t *testing.T) {
	m := NewQuad(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{X: 1, Y: 1}, r3.Vec{Y: 1})
	m.Append(NewQuad(r3.Vec{X: 5}, r3.Vec{X: 6}, r3.Vec{X: 6, Y: 1}, r3.Vec{X: 5, Y: 1}))
	if got := m.DisjointCount(); got != 2 {
		t.Fatalf("DisjointCount() = %d, want 2", got)
	}
	comps := m.Components()
	if comps[0].Centroid().X > comps[1].Centroid().X {
		t.Error("components not ordered by first face")
	}
	if !near(m.Area(), 2) {
		t.Errorf("Area() = %g, want 2", m.Area())
	}
}

func TestMeshWeld(t *testing.T) {
	// Two triangles with duplicated shared-edge vertices.
	m := &Mesh{
		Vertices: []r3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {}, {X: 1, Y: 1}, {Y: 1}},
		Faces:    [][3]int{{0, 1, 2}, {3, 4, 5}},
	}
	if m.DisjointCount() != 2 {
		t.Fatalf("unwelded DisjointCount() = %d, want 2", m.DisjointCount())
	}
	w := m.Weld(1e-9)
	if len(w.Vertices) != 4 {
		t.Errorf("welded vertex count = %d, want 4", len(w.Vertices))
	}
	if w.DisjointCount() != 1 {
		t.Errorf("welded DisjointCount() = %d, want 1", w.DisjointCount())
	}
}

func TestMeshTransformPreservesTopology(t *testing.T) {
	m := NewQuad(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{X: 1, Y: 1}, r3.Vec{Y: 1})
	moved := m.Transform(Translation(r3.Vec{Z: 3}))
	if len(moved.Faces) != len(m.Faces) || moved.Faces[1] != m.Faces[1] {
		t.Error("Transform changed faces")
	}
	if moved.Vertices[2].Z != 3 || m.Vertices[2].Z != 0 {
		t.Error("Transform did not copy vertices")
	}
}

func TestMeshValidate(t *testing.T) {
	if err := (&Mesh{}).Validate(); err != ErrEmptyMesh {
		t.Errorf("empty Validate() = %v", err)
	}
	bad := &Mesh{Vertices: []r3.Vec{{}}, Faces: [][3]int{{0, 1, 2}}}
	if err := bad.Validate(); err == nil {
		t.Error("out-of-range face accepted")
	}
	flat := &Mesh{Vertices: []r3.Vec{{}, {X: 1}, {X: 2}}, Faces: [][3]int{{0, 1, 2}}}
	if err := flat.Validate(); err == nil {
		t.Error("degenerate mesh accepted")
	}
	if err := NewQuad(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{X: 1, Y: 1}, r3.Vec{Y: 1}).Validate(); err != nil {
		t.Errorf("quad Validate() = %v", err)
	}
}
