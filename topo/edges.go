package topo

import (
	"github.com/katalvlaran/voxelmesh/mesh"
)

// EdgeKey packs an undirected edge into a map key, lesser index high.
func EdgeKey(u, v uint32) uint64 {
	if u > v {
		u, v = v, u
	}

	return uint64(u)<<32 | uint64(v)
}

// KeyEdge unpacks an EdgeKey.
func KeyEdge(k uint64) (uint32, uint32) {
	return uint32(k >> 32), uint32(k)
}

// EdgeMap indexes every undirected edge of a triangle mesh to the
// triangles that use it. It is the shared backbone of boundary detection,
// genus computation, and the validator's manifold checks.
type EdgeMap struct {
	faces map[uint64][]uint32
}

// BuildEdgeMap scans the index list once. Complexity: O(T) expected.
func BuildEdgeMap(m *mesh.Mesh) *EdgeMap {
	em := &EdgeMap{faces: make(map[uint64][]uint32, len(m.Indices))}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		tri := uint32(i / 3)
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		em.faces[EdgeKey(a, b)] = append(em.faces[EdgeKey(a, b)], tri)
		em.faces[EdgeKey(b, c)] = append(em.faces[EdgeKey(b, c)], tri)
		em.faces[EdgeKey(c, a)] = append(em.faces[EdgeKey(c, a)], tri)
	}

	return em
}

// EdgeCount returns the number of unique edges.
func (em *EdgeMap) EdgeCount() int { return len(em.faces) }

// Faces returns the triangles adjacent to edge (u,v), nil when absent.
func (em *EdgeMap) Faces(u, v uint32) []uint32 {
	return em.faces[EdgeKey(u, v)]
}

// BoundaryEdges returns every edge with exactly one adjacent triangle.
func (em *EdgeMap) BoundaryEdges() [][2]uint32 {
	var out [][2]uint32
	for k, fs := range em.faces {
		if len(fs) == 1 {
			u, v := KeyEdge(k)
			out = append(out, [2]uint32{u, v})
		}
	}

	return out
}

// NonManifoldCount returns the number of edges with more than two
// adjacent triangles.
func (em *EdgeMap) NonManifoldCount() int {
	var n int
	for _, fs := range em.faces {
		if len(fs) > 2 {
			n++
		}
	}

	return n
}

// Watertight reports whether every edge has exactly two adjacent
// triangles.
func (em *EdgeMap) Watertight() bool {
	if len(em.faces) == 0 {
		return false
	}
	for _, fs := range em.faces {
		if len(fs) != 2 {
			return false
		}
	}

	return true
}

// Each visits every edge with its adjacent triangle list until fn returns
// false. Iteration order is unspecified.
func (em *EdgeMap) Each(fn func(u, v uint32, faces []uint32) bool) {
	for k, fs := range em.faces {
		u, v := KeyEdge(k)
		if !fn(u, v, fs) {
			return
		}
	}
}
