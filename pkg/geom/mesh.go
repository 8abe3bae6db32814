package geom

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrEmptyMesh is returned by Validate for meshes without faces.
var ErrEmptyMesh = errors.New("geom: mesh has no faces")

// Mesh is an indexed triangle mesh. Quads are stored as two triangles.
type Mesh struct {
	Vertices []r3.Vec `json:"vertices"`
	Faces    [][3]int `json:"faces"`
}

// NewQuad returns a two-triangle mesh over the corners a, b, c, d given in
// boundary order.
func NewQuad(a, b, c, d r3.Vec) *Mesh {
	return &Mesh{
		Vertices: []r3.Vec{a, b, c, d},
		Faces:    [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	if m == nil {
		return nil
	}
	return &Mesh{
		Vertices: append([]r3.Vec(nil), m.Vertices...),
		Faces:    append([][3]int(nil), m.Faces...),
	}
}

// IsEmpty reports whether the mesh has no faces.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Faces) == 0
}

// Transform returns a copy with every vertex mapped through t. Connectivity
// is unchanged.
func (m *Mesh) Transform(t Transform) *Mesh {
	out := m.Clone()
	for i, v := range out.Vertices {
		out.Vertices[i] = t.Apply(v)
	}
	return out
}

// Append adds the faces of o to m, reindexing o's vertices.
func (m *Mesh) Append(o *Mesh) {
	if o == nil {
		return
	}
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices, o.Vertices...)
	for _, f := range o.Faces {
		m.Faces = append(m.Faces, [3]int{f[0] + base, f[1] + base, f[2] + base})
	}
}

// Validate checks index ranges and rejects meshes where every face is
// degenerate.
func (m *Mesh) Validate() error {
	if m.IsEmpty() {
		return ErrEmptyMesh
	}
	good := 0
	for i, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(m.Vertices) {
				return fmt.Errorf("geom: face %d references vertex %d of %d", i, idx, len(m.Vertices))
			}
		}
		if m.FaceArea(i) > 0 {
			good++
		}
	}
	for i, v := range m.Vertices {
		if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z) {
			return fmt.Errorf("geom: vertex %d is NaN", i)
		}
	}
	if good == 0 {
		return errors.New("geom: every mesh face is degenerate")
	}
	return nil
}

// FaceNormal returns the unit normal of face i, or the zero vector when the
// face is degenerate.
func (m *Mesh) FaceNormal(i int) r3.Vec {
	f := m.Faces[i]
	a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	l := r3.Norm(n)
	if l == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/l, n)
}

// FaceArea returns the area of face i.
func (m *Mesh) FaceArea(i int) float64 {
	f := m.Faces[i]
	a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
	return r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a))) / 2
}

// Normal returns the unit normal of the first non-degenerate face.
func (m *Mesh) Normal() r3.Vec {
	for i := range m.Faces {
		if n := m.FaceNormal(i); n != (r3.Vec{}) {
			return n
		}
	}
	return r3.Vec{}
}

// Weld merges vertices closer than tol and drops faces that collapse.
func (m *Mesh) Weld(tol float64) *Mesh {
	out := &Mesh{}
	remap := make([]int, len(m.Vertices))
	// Sorting by X keeps the merge close to linear for planar patches.
	order := make([]int, len(m.Vertices))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return m.Vertices[order[a]].X < m.Vertices[order[b]].X })
	for i := range remap {
		remap[i] = -1
	}
	for oi, i := range order {
		if remap[i] >= 0 {
			continue
		}
		remap[i] = len(out.Vertices)
		out.Vertices = append(out.Vertices, m.Vertices[i])
		for _, j := range order[oi+1:] {
			if m.Vertices[j].X-m.Vertices[i].X > tol {
				break
			}
			if remap[j] < 0 && r3.Norm(r3.Sub(m.Vertices[j], m.Vertices[i])) <= tol {
				remap[j] = remap[i]
			}
		}
	}
	for _, f := range m.Faces {
		g := [3]int{remap[f[0]], remap[f[1]], remap[f[2]]}
		if g[0] == g[1] || g[1] == g[2] || g[0] == g[2] {
			continue
		}
		out.Faces = append(out.Faces, g)
	}
	return out
}

// Components splits the mesh into connected components. Faces are connected
// when they share a vertex index; call Weld first for meshes with duplicated
// vertices. Components are returned in order of their lowest face index.
func (m *Mesh) Components() []*Mesh {
	if m.IsEmpty() {
		return nil
	}
	parent := make([]int, len(m.Vertices))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for _, f := range m.Faces {
		for k := 1; k < 3; k++ {
			a, b := find(f[0]), find(f[k])
			if a != b {
				parent[b] = a
			}
		}
	}

	index := make(map[int]int)
	var comps []*Mesh
	var vmaps []map[int]int
	for _, f := range m.Faces {
		root := find(f[0])
		ci, ok := index[root]
		if !ok {
			ci = len(comps)
			index[root] = ci
			comps = append(comps, &Mesh{})
			vmaps = append(vmaps, make(map[int]int))
		}
		var g [3]int
		for k, v := range f {
			nv, ok := vmaps[ci][v]
			if !ok {
				nv = len(comps[ci].Vertices)
				vmaps[ci][v] = nv
				comps[ci].Vertices = append(comps[ci].Vertices, m.Vertices[v])
			}
			g[k] = nv
		}
		comps[ci].Faces = append(comps[ci].Faces, g)
	}
	return comps
}

// DisjointCount returns the number of connected components.
func (m *Mesh) DisjointCount() int {
	return len(m.Components())
}

// Area returns the summed face area.
func (m *Mesh) Area() float64 {
	var a float64
	for i := range m.Faces {
		a += m.FaceArea(i)
	}
	return a
}

// Centroid returns the area-weighted centroid of the faces.
func (m *Mesh) Centroid() r3.Vec {
	var sum r3.Vec
	var total float64
	for i, f := range m.Faces {
		a := m.FaceArea(i)
		c := r3.Scale(1.0/3, r3.Add(m.Vertices[f[0]], r3.Add(m.Vertices[f[1]], m.Vertices[f[2]])))
		sum = r3.Add(sum, r3.Scale(a, c))
		total += a
	}
	if total == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/total, sum)
}
