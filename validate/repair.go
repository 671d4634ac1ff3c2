package validate

import (
	"github.com/katalvlaran/voxelmesh/mesh"
)

// Repair runs the pipeline's small fix-up pass in place: degenerate
// triangles go away and a globally inside-out mesh is flipped. It reports
// whether anything changed; a second run on the same mesh is always a
// no-op, which makes the pass idempotent.
func Repair(m *mesh.Mesh) bool {
	if m == nil || m.IsEmpty() {
		return false
	}
	removed := RemoveDegenerateTriangles(m)
	flipped := FixOrientation(m)

	return removed > 0 || flipped > 0
}

// RemoveDegenerateTriangles drops triangles with area below 1e-6 and
// returns how many were removed. Vertices are left in place; downstream
// consumers tolerate isolated vertices and the index buffer stays
// compact. Complexity: O(T).
func RemoveDegenerateTriangles(m *mesh.Mesh) int {
	bad := DegenerateTriangles(m)
	if len(bad) == 0 {
		return 0
	}

	isBad := make(map[int]bool, len(bad))
	for _, t := range bad {
		isBad[t] = true
	}
	kept := m.Indices[:0]
	for i := 0; i+2 < len(m.Indices); i += 3 {
		if isBad[i/3] {
			continue
		}
		kept = append(kept, m.Indices[i], m.Indices[i+1], m.Indices[i+2])
	}
	m.Indices = kept

	return len(bad)
}

// FixOrientation flips every triangle when the total signed volume is
// negative, returning the number of flipped faces. Applying it twice
// yields identical index buffers: after one flip the volume is positive
// and the second call does nothing.
func FixOrientation(m *mesh.Mesh) int {
	if m.TriangleCount() == 0 || m.SignedVolume() >= 0 {
		return 0
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		m.Indices[i+1], m.Indices[i+2] = m.Indices[i+2], m.Indices[i+1]
	}

	return m.TriangleCount()
}
