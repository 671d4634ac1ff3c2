package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// unitQuadMesh builds two triangles covering the unit square in the XZ
// plane, facing +y.
func unitQuadMesh() *Mesh {
	m := &Mesh{
		Vertices: []mgl32.Vec3{
			{0, 0, 0}, {0, 0, 1}, {1, 0, 1}, {1, 0, 0},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
	m.ComputeBounds()

	return m
}

// TestValidate covers the universal invariants.
func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Mesh)
		want error
	}{
		{"Valid", func(*Mesh) {}, nil},
		{"IndexRange", func(m *Mesh) { m.Indices[0] = 99 }, ErrIndexRange},
		{"NotTriangles", func(m *Mesh) { m.Indices = m.Indices[:5] }, ErrNotTriangles},
		{"RaggedNormals", func(m *Mesh) { m.Normals = make([]mgl32.Vec3, 2) }, ErrRaggedAttributes},
		{"RaggedUVs", func(m *Mesh) { m.UVs = make([]mgl32.Vec2, 1) }, ErrRaggedAttributes},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := unitQuadMesh()
			tc.mut(m)
			if err := m.Validate(); err != tc.want {
				t.Errorf("Validate() = %v; want %v", err, tc.want)
			}
		})
	}

	if err := New().Validate(); err != nil {
		t.Errorf("empty mesh Validate() = %v; want nil", err)
	}
}

// TestComputeNormals checks the planar case and the zero-accumulation
// fallback.
func TestComputeNormals(t *testing.T) {
	m := unitQuadMesh()
	m.ComputeNormals()

	if len(m.Normals) != len(m.Vertices) {
		t.Fatalf("normals length %d; want %d", len(m.Normals), len(m.Vertices))
	}
	for i, n := range m.Normals {
		if !vecNear(n, mgl32.Vec3{0, 1, 0}, 1e-5) {
			t.Errorf("normal %d = %v; want +y", i, n)
		}
	}

	// Isolated vertex with no incident triangle falls back to DefaultUp.
	m.Vertices = append(m.Vertices, mgl32.Vec3{9, 9, 9})
	m.ComputeNormals()
	if got := m.Normals[len(m.Normals)-1]; got != DefaultUp {
		t.Errorf("isolated vertex normal = %v; want DefaultUp", got)
	}
}

// TestComputeBounds pins the axis-aligned min and max.
func TestComputeBounds(t *testing.T) {
	m := unitQuadMesh()
	if !vecNear(m.Bounds.Min, mgl32.Vec3{0, 0, 0}, 0) || !vecNear(m.Bounds.Max, mgl32.Vec3{1, 0, 1}, 0) {
		t.Errorf("bounds = %v; want unit square", m.Bounds)
	}
	if !m.Bounds.Valid() {
		t.Error("bounds should be valid")
	}

	empty := New()
	empty.ComputeBounds()
	if !empty.Bounds.Valid() {
		t.Error("empty mesh bounds should degrade to a valid zero box")
	}
}

// TestBoundsIntersects exercises overlap, touch, and separation.
func TestBoundsIntersects(t *testing.T) {
	a := Bounds{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}
	cases := []struct {
		name string
		b    Bounds
		want bool
	}{
		{"Inside", Bounds{Min: mgl32.Vec3{0.2, 0.2, 0.2}, Max: mgl32.Vec3{0.8, 0.8, 0.8}}, true},
		{"Touching", Bounds{Min: mgl32.Vec3{1, 0, 0}, Max: mgl32.Vec3{2, 1, 1}}, true},
		{"Separate", Bounds{Min: mgl32.Vec3{2, 2, 2}, Max: mgl32.Vec3{3, 3, 3}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.Intersects(tc.b); got != tc.want {
				t.Errorf("Intersects = %v; want %v", got, tc.want)
			}
		})
	}
}

// TestTransform verifies translation of positions, rotation of normals,
// and bounds refresh.
func TestTransform(t *testing.T) {
	m := unitQuadMesh()
	m.ComputeNormals()

	m.Transform(mgl32.Translate3D(1, 2, 3))
	if !vecNear(m.Vertices[0], mgl32.Vec3{1, 2, 3}, 1e-6) {
		t.Errorf("translated vertex = %v; want (1,2,3)", m.Vertices[0])
	}
	if !vecNear(m.Normals[0], mgl32.Vec3{0, 1, 0}, 1e-5) {
		t.Errorf("normal changed under translation: %v", m.Normals[0])
	}
	if !vecNear(m.Bounds.Min, mgl32.Vec3{1, 2, 3}, 1e-6) {
		t.Errorf("bounds not refreshed: %v", m.Bounds)
	}

	// Rotate 90 degrees about x: +y normals become +z.
	m2 := unitQuadMesh()
	m2.ComputeNormals()
	m2.Transform(mgl32.HomogRotate3DX(mgl32.DegToRad(90)))
	if !vecNear(m2.Normals[0], mgl32.Vec3{0, 0, 1}, 1e-5) {
		t.Errorf("rotated normal = %v; want +z", m2.Normals[0])
	}
}

// TestSignedVolume uses a unit tetrahedron with known volume 1/6.
func TestSignedVolume(t *testing.T) {
	m := &Mesh{
		Vertices: []mgl32.Vec3{
			{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1},
		},
		// Outward-facing windings.
		Indices: []uint32{
			0, 2, 1,
			0, 1, 3,
			0, 3, 2,
			1, 2, 3,
		},
	}
	vol := m.SignedVolume()
	if vol < 0.16 || vol > 0.17 {
		t.Errorf("SignedVolume = %v; want ~1/6", vol)
	}
}

// TestCloneIndependence checks deep copies.
func TestCloneIndependence(t *testing.T) {
	m := unitQuadMesh()
	c := m.Clone()
	c.Vertices[0] = mgl32.Vec3{9, 9, 9}
	c.Indices[0] = 3
	if m.Vertices[0] == c.Vertices[0] || m.Indices[0] == c.Indices[0] {
		t.Error("Clone shares storage with the original")
	}
}

// TestMemoryUsage pins the accounting formula.
func TestMemoryUsage(t *testing.T) {
	m := unitQuadMesh()
	want := 4*12 + 6*4
	if got := m.MemoryUsage(); got != want {
		t.Errorf("MemoryUsage = %d; want %d", got, want)
	}
}

// TestGenerateBoxUVs checks the dominant-axis projection.
func TestGenerateBoxUVs(t *testing.T) {
	m := unitQuadMesh()
	m.GenerateBoxUVs(1)
	if len(m.UVs) != len(m.Vertices) {
		t.Fatalf("uv length %d; want %d", len(m.UVs), len(m.Vertices))
	}
	// +y facing quad projects (x,z).
	if got := m.UVs[2]; got != (mgl32.Vec2{1, 1}) {
		t.Errorf("UV[2] = %v; want (1,1)", got)
	}
}

func vecNear(a, b mgl32.Vec3, eps float32) bool {
	for i := 0; i < 3; i++ {
		d := a[i] - b[i]
		if d < -eps || d > eps {
			return false
		}
	}

	return true
}
