package planar

import (
	"sort"

	"github.com/chazu/suntools/pkg/geom"
)

type edge struct{ a, b int }

// NakedEdges returns the boundary loops of m: chains of edges used by exactly
// one face. Vertices within tol are merged first. Each loop is closed and
// follows the face winding. Loops are ordered by their lowest vertex index.
func (k *PlanarKernel) NakedEdges(m *geom.Mesh, tol float64) []geom.Polyline {
	if m == nil || m.IsEmpty() {
		return nil
	}
	if tol <= 0 {
		tol = weldTol
	}
	w := m.Weld(tol)

	count := make(map[edge]int)
	for _, f := range w.Faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			count[edge{a, b}]++
		}
	}

	// Directed boundary edges keyed by start vertex.
	next := make(map[int][]int)
	var starts []int
	for _, f := range w.Faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			key := edge{a, b}
			if a > b {
				key = edge{b, a}
			}
			if count[key] != 1 {
				continue
			}
			if len(next[a]) == 0 {
				starts = append(starts, a)
			}
			next[a] = append(next[a], b)
		}
	}
	sort.Ints(starts)

	var loops []geom.Polyline
	for _, s := range starts {
		for len(next[s]) > 0 {
			loop := geom.Polyline{w.Vertices[s]}
			cur := s
			for {
				outs := next[cur]
				if len(outs) == 0 {
					break
				}
				nv := outs[0]
				next[cur] = outs[1:]
				loop = append(loop, w.Vertices[nv])
				cur = nv
				if cur == s {
					break
				}
			}
			if len(loop) >= 4 && cur == s {
				loops = append(loops, loop)
			}
		}
	}
	return loops
}
