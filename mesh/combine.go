package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Combine concatenates meshes into one, offsetting indices per part.
// Attribute arrays are kept only when every part carries them; a part
// with normals merged against one without would leave ragged arrays
// otherwise. Bounds are recomputed. Complexity: O(total V + total T).
func Combine(parts ...*Mesh) *Mesh {
	out := New()
	if len(parts) == 0 {
		out.ComputeBounds()

		return out
	}

	allNormals, allUVs := true, true
	total := 0
	totalIdx := 0
	for _, p := range parts {
		if p == nil || p.IsEmpty() {
			continue
		}
		total += len(p.Vertices)
		totalIdx += len(p.Indices)
		allNormals = allNormals && len(p.Normals) == len(p.Vertices)
		allUVs = allUVs && len(p.UVs) == len(p.Vertices)
	}
	out.Vertices = make([]mgl32.Vec3, 0, total)
	out.Indices = make([]uint32, 0, totalIdx)
	if allNormals {
		out.Normals = make([]mgl32.Vec3, 0, total)
	}
	if allUVs {
		out.UVs = make([]mgl32.Vec2, 0, total)
	}

	for _, p := range parts {
		if p == nil || p.IsEmpty() {
			continue
		}
		base := uint32(len(out.Vertices))
		out.Vertices = append(out.Vertices, p.Vertices...)
		if allNormals {
			out.Normals = append(out.Normals, p.Normals...)
		}
		if allUVs {
			out.UVs = append(out.UVs, p.UVs...)
		}
		for _, idx := range p.Indices {
			out.Indices = append(out.Indices, base+idx)
		}
	}
	out.ComputeBounds()

	return out
}

// Translate moves every vertex by offset and shifts the bounds without a
// full recompute. Complexity: O(V).
func (m *Mesh) Translate(offset mgl32.Vec3) {
	for i := range m.Vertices {
		m.Vertices[i] = m.Vertices[i].Add(offset)
	}
	m.Bounds.Min = m.Bounds.Min.Add(offset)
	m.Bounds.Max = m.Bounds.Max.Add(offset)
}

// Scale multiplies every vertex by a uniform factor about the origin.
// Normals are direction-only and survive uniform scaling untouched.
// Complexity: O(V).
func (m *Mesh) Scale(factor float32) {
	for i := range m.Vertices {
		m.Vertices[i] = m.Vertices[i].Mul(factor)
	}
	m.ComputeBounds()
}

// Center translates the mesh so its bounds midpoint lands on the origin
// and returns the offset that was applied. Complexity: O(V).
func (m *Mesh) Center() mgl32.Vec3 {
	if len(m.Vertices) == 0 {
		return mgl32.Vec3{}
	}
	offset := m.Bounds.Center().Mul(-1)
	m.Translate(offset)

	return offset
}
