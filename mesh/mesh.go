package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// New returns an empty mesh with inverted bounds.
func New() *Mesh {
	return &Mesh{Bounds: EmptyBounds()}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// IsEmpty reports whether the mesh holds no geometry.
func (m *Mesh) IsEmpty() bool { return len(m.Vertices) == 0 && len(m.Indices) == 0 }

// Clone deep-copies every array so the result can be mutated freely.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{Bounds: m.Bounds}
	if len(m.Vertices) > 0 {
		out.Vertices = append([]mgl32.Vec3(nil), m.Vertices...)
	}
	if len(m.Normals) > 0 {
		out.Normals = append([]mgl32.Vec3(nil), m.Normals...)
	}
	if len(m.UVs) > 0 {
		out.UVs = append([]mgl32.Vec2(nil), m.UVs...)
	}
	if len(m.Indices) > 0 {
		out.Indices = append([]uint32(nil), m.Indices...)
	}

	return out
}

// Validate checks the universal mesh invariants and returns the first
// violation. An empty mesh is valid. Complexity: O(V + T).
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return ErrNotTriangles
	}
	n := uint32(len(m.Vertices))
	for _, idx := range m.Indices {
		if idx >= n {
			return ErrIndexRange
		}
	}
	if len(m.Normals) != 0 && len(m.Normals) != len(m.Vertices) {
		return ErrRaggedAttributes
	}
	if len(m.UVs) != 0 && len(m.UVs) != len(m.Vertices) {
		return ErrRaggedAttributes
	}

	return nil
}

// ComputeBounds recomputes the axis-aligned bounds from vertex positions.
// An empty mesh gets a degenerate zero box. Complexity: O(V).
func (m *Mesh) ComputeBounds() {
	if len(m.Vertices) == 0 {
		m.Bounds = Bounds{}

		return
	}
	b := EmptyBounds()
	for _, v := range m.Vertices {
		b.Extend(v)
	}
	m.Bounds = b
}

// ComputeNormals rebuilds per-vertex normals by accumulating area-weighted
// face normals on the three incident vertices of every triangle and
// normalizing. Vertices whose accumulation cancels receive DefaultUp.
// Complexity: O(V + T).
func (m *Mesh) ComputeNormals() {
	m.Normals = make([]mgl32.Vec3, len(m.Vertices))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		v0, v1, v2 := m.Vertices[i0], m.Vertices[i1], m.Vertices[i2]
		// The raw cross product carries twice the triangle area, which is
		// exactly the weighting we want.
		face := v1.Sub(v0).Cross(v2.Sub(v0))
		m.Normals[i0] = m.Normals[i0].Add(face)
		m.Normals[i1] = m.Normals[i1].Add(face)
		m.Normals[i2] = m.Normals[i2].Add(face)
	}
	for i, n := range m.Normals {
		length := n.Len()
		if length > 1e-6 {
			m.Normals[i] = n.Mul(1 / length)
		} else {
			m.Normals[i] = DefaultUp
		}
	}
}

// Transform applies an affine matrix to positions, transforms normals by
// the upper 3x3 and renormalizes. Non-uniform scale is tolerated with
// visible error rather than computing the inverse transpose. Bounds are
// recomputed. Complexity: O(V).
func (m *Mesh) Transform(mat mgl32.Mat4) {
	for i, v := range m.Vertices {
		m.Vertices[i] = mat.Mul4x1(v.Vec4(1)).Vec3()
	}
	if len(m.Normals) > 0 {
		rot := mat.Mat3()
		for i, n := range m.Normals {
			t := rot.Mul3x1(n)
			length := t.Len()
			if length > 1e-6 {
				m.Normals[i] = t.Mul(1 / length)
			} else {
				m.Normals[i] = DefaultUp
			}
		}
	}
	m.ComputeBounds()
}

// MemoryUsage estimates the heap bytes held by the mesh arrays, used for
// cache accounting. Complexity: O(1).
func (m *Mesh) MemoryUsage() int {
	const vec3Size, vec2Size, idxSize = 12, 8, 4

	return len(m.Vertices)*vec3Size +
		len(m.Normals)*vec3Size +
		len(m.UVs)*vec2Size +
		len(m.Indices)*idxSize
}

// SurfaceArea sums triangle areas. Complexity: O(T).
func (m *Mesh) SurfaceArea() float32 {
	var area float32
	for i := 0; i+2 < len(m.Indices); i += 3 {
		v0 := m.Vertices[m.Indices[i]]
		v1 := m.Vertices[m.Indices[i+1]]
		v2 := m.Vertices[m.Indices[i+2]]
		area += v1.Sub(v0).Cross(v2.Sub(v0)).Len() * 0.5
	}

	return area
}

// SignedVolume returns (1/6) Σ v0 · (v1 × v2); positive for outward-facing
// closed meshes. Complexity: O(T).
func (m *Mesh) SignedVolume() float32 {
	var vol float32
	for i := 0; i+2 < len(m.Indices); i += 3 {
		v0 := m.Vertices[m.Indices[i]]
		v1 := m.Vertices[m.Indices[i+1]]
		v2 := m.Vertices[m.Indices[i+2]]
		vol += v0.Dot(v1.Cross(v2))
	}

	return vol / 6
}

// GenerateBoxUVs assigns texture coordinates by projecting each vertex
// onto the box face its normal leans toward, scaled by scale. Normals are
// computed first when absent. Complexity: O(V + T).
func (m *Mesh) GenerateBoxUVs(scale float32) {
	if len(m.Normals) != len(m.Vertices) {
		m.ComputeNormals()
	}
	if scale == 0 {
		scale = 1
	}
	m.UVs = make([]mgl32.Vec2, len(m.Vertices))
	for i, v := range m.Vertices {
		n := m.Normals[i]
		ax, ay, az := math32.Abs(n.X()), math32.Abs(n.Y()), math32.Abs(n.Z())
		switch {
		case ax >= ay && ax >= az:
			m.UVs[i] = mgl32.Vec2{v.Z() * scale, v.Y() * scale}
		case ay >= az:
			m.UVs[i] = mgl32.Vec2{v.X() * scale, v.Z() * scale}
		default:
			m.UVs[i] = mgl32.Vec2{v.X() * scale, v.Y() * scale}
		}
	}
}
