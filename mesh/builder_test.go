package mesh

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

// TestBuilderDedup verifies that re-added positions collapse to the same
// index within the tolerance and stay distinct beyond it.
func TestBuilderDedup(t *testing.T) {
	b := NewBuilder()

	i0 := b.AddVertex(mgl32.Vec3{0, 0, 0})
	i1 := b.AddVertex(mgl32.Vec3{1, 0, 0})
	i2 := b.AddVertex(mgl32.Vec3{0, 0, 0})
	require.Equal(t, i0, i2, "identical positions must dedup")
	require.NotEqual(t, i0, i1)

	i3 := b.AddVertex(mgl32.Vec3{1, 0.01, 0})
	require.NotEqual(t, i1, i3, "0.01 apart exceeds the 0.1mm tolerance")

	require.Equal(t, 3, b.VertexCount())
}

// TestBuilderDedupAttributes requires matching normals for shared indices.
func TestBuilderDedupAttributes(t *testing.T) {
	b := NewBuilder()

	i0 := b.AddVertexN(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	i1 := b.AddVertexN(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	require.Equal(t, i0, i1, "same position and normal must dedup")

	i2 := b.AddVertexN(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0})
	require.NotEqual(t, i0, i2, "different normals must stay distinct")
}

// TestBuilderQuadSplit pins the fixed (v0,v2) diagonal.
func TestBuilderQuadSplit(t *testing.T) {
	b := NewBuilder()
	v0 := b.AddVertex(mgl32.Vec3{0, 0, 0})
	v1 := b.AddVertex(mgl32.Vec3{1, 0, 0})
	v2 := b.AddVertex(mgl32.Vec3{1, 1, 0})
	v3 := b.AddVertex(mgl32.Vec3{0, 1, 0})
	b.AddQuad(v0, v1, v2, v3)

	m := b.Build()
	require.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Indices)
	require.NoError(t, m.Validate())
}

// TestBuilderDegenerateTriangles drops triangles with repeated corners,
// as produced by quads whose cells collapsed to a shared vertex.
func TestBuilderDegenerateTriangles(t *testing.T) {
	b := NewBuilder()
	v0 := b.AddVertex(mgl32.Vec3{0, 0, 0})
	v1 := b.AddVertex(mgl32.Vec3{1, 0, 0})
	b.AddTriangle(v0, v0, v1)
	require.Equal(t, 0, b.TriangleCount())

	b.AddQuad(v0, v1, v1, v0)
	require.Equal(t, 0, b.TriangleCount())
}

// TestBuilderBuildBounds checks bounds finalization and builder reuse.
func TestBuilderBuildBounds(t *testing.T) {
	b := NewBuilder()
	b.AddVertex(mgl32.Vec3{-1, 0, 2})
	b.AddVertex(mgl32.Vec3{3, 1, -2})
	m := b.Build()

	require.Equal(t, mgl32.Vec3{-1, 0, -2}, m.Bounds.Min)
	require.Equal(t, mgl32.Vec3{3, 1, 2}, m.Bounds.Max)

	b.Reset()
	require.Equal(t, 0, b.VertexCount())
}

// TestWriteSTLLayout checks the binary layout byte for byte on a single
// triangle in millimeter units.
func TestWriteSTLLayout(t *testing.T) {
	m := &Mesh{
		Vertices: []mgl32.Vec3{{0, 0, 0}, {0.001, 0, 0}, {0, 0.001, 0}},
		Indices:  []uint32{0, 1, 2},
	}
	m.ComputeBounds()

	var buf bytes.Buffer
	require.NoError(t, WriteSTL(&buf, m, STLMillimeters))

	data := buf.Bytes()
	require.Len(t, data, 80+4+50)

	count := binary.LittleEndian.Uint32(data[80:84])
	require.Equal(t, uint32(1), count)

	// Normal: +z for this counterclockwise triangle.
	nz := readF32(data, 84+8)
	require.InDelta(t, 1.0, float64(nz), 1e-6)

	// First vertex after the normal: origin. Second vertex x: 1mm.
	require.InDelta(t, 0.0, float64(readF32(data, 84+12)), 1e-9)
	require.InDelta(t, 1.0, float64(readF32(data, 84+24)), 1e-6)

	// Attribute byte count zero.
	require.Equal(t, uint16(0), binary.LittleEndian.Uint16(data[132:134]))
}

// TestWriteSTLErrors rejects empty meshes.
func TestWriteSTLErrors(t *testing.T) {
	var buf bytes.Buffer
	require.ErrorIs(t, WriteSTL(&buf, New(), STLMeters), ErrEmptyMesh)
	require.ErrorIs(t, WriteSTL(&buf, nil, STLMeters), ErrEmptyMesh)
}

func readF32(data []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
}
