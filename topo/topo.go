package topo

import (
	"sort"

	"github.com/katalvlaran/voxelmesh/mesh"
)

// holeImportanceScale saturates hole importance at 20 boundary vertices.
const holeImportanceScale = 20.0

// Analyze inspects a mesh snapshot and returns the features a smoothing
// pass must respect: one Hole feature per boundary loop and, when the
// surface has positive genus, a single Loop feature listing every vertex
// as critical. Complexity: O(V + E + T).
func Analyze(m *mesh.Mesh) []Feature {
	if m == nil || m.TriangleCount() == 0 {
		return nil
	}
	em := BuildEdgeMap(m)

	features := detectHoles(em)
	if g := genusFrom(m, em); g > 0 {
		loop := Feature{
			Kind:             Loop,
			CriticalVertices: make([]uint32, m.VertexCount()),
			Importance:       1.0,
		}
		for i := range loop.CriticalVertices {
			loop.CriticalVertices[i] = uint32(i)
		}
		features = append(features, loop)
	}

	return features
}

// detectHoles traces each maximal boundary loop by always walking to the
// neighbor that is not the previous vertex.
func detectHoles(em *EdgeMap) []Feature {
	boundary := em.BoundaryEdges()
	if len(boundary) == 0 {
		return nil
	}

	// Adjacency restricted to boundary vertices.
	adj := make(map[uint32][]uint32, len(boundary))
	for _, e := range boundary {
		adj[e[0]] = append(adj[e[0]], e[1])
		adj[e[1]] = append(adj[e[1]], e[0])
	}

	// Deterministic starting order keeps repeated runs identical.
	starts := make([]uint32, 0, len(adj))
	for v := range adj {
		starts = append(starts, v)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	visited := make(map[uint32]bool, len(adj))
	var features []Feature
	for _, start := range starts {
		if visited[start] {
			continue
		}
		loop := traceLoop(start, adj, visited)
		if len(loop) < 3 {
			continue
		}
		f := Feature{
			Kind:             Hole,
			CriticalVertices: loop,
			Importance:       minf(1, float32(len(loop))/holeImportanceScale),
		}
		for i := range loop {
			f.CriticalEdges = append(f.CriticalEdges, [2]uint32{loop[i], loop[(i+1)%len(loop)]})
		}
		features = append(features, f)
	}

	return features
}

// traceLoop walks from start until it returns to start or dead-ends.
func traceLoop(start uint32, adj map[uint32][]uint32, visited map[uint32]bool) []uint32 {
	loop := []uint32{start}
	visited[start] = true
	prev := start
	curr := adj[start][0]
	for curr != start {
		if visited[curr] {
			// Figure-eight junction: stop rather than revisit.
			return loop
		}
		loop = append(loop, curr)
		visited[curr] = true

		next, ok := stepAway(adj[curr], prev)
		if !ok {
			return loop
		}
		prev, curr = curr, next
	}

	return loop
}

// stepAway picks a neighbor different from prev.
func stepAway(neighbors []uint32, prev uint32) (uint32, bool) {
	for _, n := range neighbors {
		if n != prev {
			return n, true
		}
	}

	return 0, false
}

// EulerCharacteristic computes χ = V - E + F on unique edges.
func EulerCharacteristic(m *mesh.Mesh) int {
	if m == nil || m.TriangleCount() == 0 {
		return 0
	}

	return m.VertexCount() - BuildEdgeMap(m).EdgeCount() + m.TriangleCount()
}

// Genus returns max(0, (2-χ)/2): 0 for sphere-like surfaces, 1 for a
// torus, and so on. Complexity: O(T).
func Genus(m *mesh.Mesh) int {
	if m == nil || m.TriangleCount() == 0 {
		return 0
	}

	return genusFrom(m, BuildEdgeMap(m))
}

func genusFrom(m *mesh.Mesh, em *EdgeMap) int {
	chi := m.VertexCount() - em.EdgeCount() + m.TriangleCount()
	g := (2 - chi) / 2
	if g < 0 {
		return 0
	}

	return g
}

// Synthesize folds features into smoothing constraints: hole rims lock
// when importance exceeds 0.8 and limit otherwise; loop vertices limit.
// Kinds whose preserve flag is off contribute nothing.
// Complexity: O(total critical vertices).
func Synthesize(features []Feature) Constraints {
	cons := DefaultConstraints()
	for _, f := range features {
		switch f.Kind {
		case Hole:
			if !cons.PreserveHoles {
				continue
			}
			if f.Importance > lockImportance {
				cons.LockAll(f.CriticalVertices)
			} else {
				cons.LimitAll(f.CriticalVertices)
			}
		case Loop, Handle:
			if (f.Kind == Loop && !cons.PreserveLoops) || (f.Kind == Handle && !cons.PreserveHandles) {
				continue
			}
			cons.LimitAll(f.CriticalVertices)
		case Boundary:
			cons.LockAll(f.CriticalVertices)
		case Bridge:
			cons.LimitAll(f.CriticalVertices)
		}
	}

	return cons
}

// BoundaryVertices returns the bitset-ready list of vertices on boundary
// edges, used by the smoother's preserve-boundaries lock.
func BoundaryVertices(m *mesh.Mesh) []uint32 {
	em := BuildEdgeMap(m)
	seen := make(map[uint32]bool)
	var out []uint32
	for _, e := range em.BoundaryEdges() {
		for _, v := range e {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Preserved verifies a smoothing pass kept topology: vertex and triangle
// counts match exactly and the genus is unchanged.
func Preserved(before, after *mesh.Mesh) bool {
	if before.VertexCount() != after.VertexCount() {
		return false
	}
	if before.TriangleCount() != after.TriangleCount() {
		return false
	}

	return Genus(before) == Genus(after)
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}

	return b
}
