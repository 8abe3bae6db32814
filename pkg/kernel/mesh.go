package kernel

import "github.com/chazu/suntools/pkg/geom"

// Mesh is a triangle mesh suitable for rendering and JSON output.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Label    string    `json:"label"`    // which analysis cell this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// FromGeom flattens an indexed mesh into render form. Each face gets its own
// three vertices so flat face normals can be stored per vertex.
func FromGeom(g *geom.Mesh, label string) *Mesh {
	out := &Mesh{Label: label}
	if g == nil {
		return out
	}
	out.Vertices = make([]float32, 0, len(g.Faces)*9)
	out.Normals = make([]float32, 0, len(g.Faces)*9)
	out.Indices = make([]uint32, 0, len(g.Faces)*3)
	for i, f := range g.Faces {
		n := g.FaceNormal(i)
		for j, vi := range f {
			v := g.Vertices[vi]
			out.Vertices = append(out.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			out.Normals = append(out.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			out.Indices = append(out.Indices, uint32(i*3+j))
		}
	}
	return out
}
