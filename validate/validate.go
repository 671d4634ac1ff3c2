package validate

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/katalvlaran/voxelmesh/mesh"
	"github.com/katalvlaran/voxelmesh/topo"
)

// Validate runs the full check suite against m with the given minimum
// feature threshold (world units; pass 0 to skip the feature warning).
// An empty mesh is trivially valid. Complexity: O(V + E + T) plus the
// bounded intersection sweep.
func Validate(m *mesh.Mesh, minFeature float32) Result {
	res := Result{IsValid: true}
	if m == nil || m.IsEmpty() {
		return res
	}

	// Structural invariants first; a broken index buffer poisons every
	// later check.
	if err := m.Validate(); err != nil {
		res.IsValid = false
		res.Errors = append(res.Errors, err.Error())

		return res
	}

	em := topo.BuildEdgeMap(m)

	// Watertight / manifold via edge incidence.
	res.Watertight = em.Watertight()
	res.NonManifoldEdges = em.NonManifoldCount()
	res.Manifold = res.NonManifoldEdges == 0
	res.HoleCount = len(boundaryLoops(em))
	if !res.Watertight {
		res.Errors = append(res.Errors,
			fmt.Sprintf("mesh is not watertight: %d hole(s)", res.HoleCount))
	}
	if !res.Manifold {
		res.Errors = append(res.Errors,
			fmt.Sprintf("mesh has %d non-manifold edge(s)", res.NonManifoldEdges))
	}

	// Degenerate triangles are repairable: warn only.
	res.DegenerateTriangles = len(DegenerateTriangles(m))
	if res.DegenerateTriangles > 0 {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("%d degenerate triangle(s)", res.DegenerateTriangles))
	}

	// Orientation: global sign plus per-edge winding consistency.
	res.FlippedFaces = windingConflicts(m, em)
	res.CorrectOrientation = m.SignedVolume() >= 0
	if !res.CorrectOrientation {
		res.Errors = append(res.Errors, "mesh is inside-out (negative signed volume)")
	}

	// Minimum feature: a warning threshold, never an error.
	res.MinFeatureSize = minEdgeLength(m, em)
	res.HasMinimumFeature = minFeature <= 0 || res.MinFeatureSize >= minFeature
	if !res.HasMinimumFeature {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("smallest feature %.4f below threshold %.4f",
				res.MinFeatureSize, minFeature))
	}

	// Bounded self-intersection sweep.
	res.SelfIntersecting = selfIntersects(m, intersectionPairBudget)
	if res.SelfIntersecting {
		res.Errors = append(res.Errors, "mesh self-intersects")
	}

	res.IsValid = len(res.Errors) == 0

	return res
}

// DegenerateTriangles returns the triangle ordinals whose area falls
// below 1e-6.
func DegenerateTriangles(m *mesh.Mesh) []int {
	var out []int
	for i := 0; i+2 < len(m.Indices); i += 3 {
		v0 := m.Vertices[m.Indices[i]]
		v1 := m.Vertices[m.Indices[i+1]]
		v2 := m.Vertices[m.Indices[i+2]]
		if v1.Sub(v0).Cross(v2.Sub(v0)).Len()*0.5 < degenerateAreaEps {
			out = append(out, i/3)
		}
	}

	return out
}

// minEdgeLength returns the shortest unique edge, or 0 for edgeless input.
func minEdgeLength(m *mesh.Mesh, em *topo.EdgeMap) float32 {
	shortest := float32(math32.MaxFloat32)
	found := false
	em.Each(func(u, v uint32, _ []uint32) bool {
		if l := m.Vertices[u].Sub(m.Vertices[v]).Len(); l < shortest {
			shortest = l
		}
		found = true

		return true
	})
	if !found {
		return 0
	}

	return shortest
}

// windingConflicts counts interior edges whose two triangles traverse
// them in the same direction, which means one of the windings is flipped
// relative to its neighbor.
func windingConflicts(m *mesh.Mesh, em *topo.EdgeMap) int {
	// Count directed traversals per undirected edge.
	type dirCount struct{ forward, backward int }
	dirs := make(map[uint64]*dirCount, em.EdgeCount())

	note := func(a, b uint32) {
		k := topo.EdgeKey(a, b)
		dc := dirs[k]
		if dc == nil {
			dc = &dirCount{}
			dirs[k] = dc
		}
		if a < b {
			dc.forward++
		} else {
			dc.backward++
		}
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		note(a, b)
		note(b, c)
		note(c, a)
	}

	var conflicts int
	for _, dc := range dirs {
		// Consistent neighbors traverse a shared edge once each way.
		if dc.forward > 1 || dc.backward > 1 {
			conflicts++
		}
	}

	return conflicts
}

// boundaryLoops groups boundary edges into maximal loops; each group is
// one hole.
func boundaryLoops(em *topo.EdgeMap) [][]uint32 {
	boundary := em.BoundaryEdges()
	if len(boundary) == 0 {
		return nil
	}
	adj := make(map[uint32][]uint32, len(boundary))
	for _, e := range boundary {
		adj[e[0]] = append(adj[e[0]], e[1])
		adj[e[1]] = append(adj[e[1]], e[0])
	}
	visited := make(map[uint32]bool, len(adj))
	var loops [][]uint32
	for v := range adj {
		if visited[v] {
			continue
		}
		// Flood the connected boundary component.
		stack := []uint32{v}
		var loop []uint32
		visited[v] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			loop = append(loop, cur)
			for _, n := range adj[cur] {
				if !visited[n] {
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}
		loops = append(loops, loop)
	}

	return loops
}

// Statistics summarizes m. Complexity: O(V + E + T).
func Statistics(m *mesh.Mesh) Stats {
	st := Stats{
		VertexCount:   m.VertexCount(),
		TriangleCount: m.TriangleCount(),
	}
	if m.IsEmpty() {
		return st
	}
	em := topo.BuildEdgeMap(m)
	st.EdgeCount = em.EdgeCount()
	st.SurfaceArea = m.SurfaceArea()
	st.Volume = m.SignedVolume()
	st.Genus = topo.Genus(m)

	var sum [3]float32
	for _, v := range m.Vertices {
		sum[0] += v.X()
		sum[1] += v.Y()
		sum[2] += v.Z()
	}
	inv := 1 / float32(m.VertexCount())
	st.CenterOfMass[0] = sum[0] * inv
	st.CenterOfMass[1] = sum[1] * inv
	st.CenterOfMass[2] = sum[2] * inv

	st.ConnectedComponents = countComponents(m, em)

	return st
}

// countComponents unions vertices across edges and counts referenced
// roots.
func countComponents(m *mesh.Mesh, em *topo.EdgeMap) int {
	parent := make([]uint32, m.VertexCount())
	for i := range parent {
		parent[i] = uint32(i)
	}
	var find func(uint32) uint32
	find = func(x uint32) uint32 {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}

		return x
	}
	em.Each(func(u, v uint32, _ []uint32) bool {
		ru, rv := find(u), find(v)
		if ru != rv {
			parent[ru] = rv
		}

		return true
	})

	used := make(map[uint32]bool)
	for _, idx := range m.Indices {
		used[find(idx)] = true
	}

	return len(used)
}
