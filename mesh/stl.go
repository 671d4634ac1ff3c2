package mesh

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// STLUnit selects the length unit written into a binary STL stream. STL
// carries no unit metadata, so slicers conventionally assume millimeters.
type STLUnit int

const (
	// STLMeters writes coordinates unscaled.
	STLMeters STLUnit = iota
	// STLMillimeters scales coordinates by 1000, the slicer convention.
	STLMillimeters
)

// stlTriangleSize is the fixed on-disk footprint of one triangle:
// 12 floats plus the u16 attribute count.
const stlTriangleSize = 50

// WriteSTL emits m as binary STL: an 80-byte zero-padded header, a u32
// little-endian triangle count, then per triangle three f32 normal
// components, nine f32 vertex components, and a zero u16 attribute byte
// count. Face normals are recomputed from the winding so the stream stays
// consistent with the index order even when vertex normals are absent.
// Returns ErrEmptyMesh for meshes without triangles.
// Complexity: O(T) time, O(1) memory.
func WriteSTL(w io.Writer, m *Mesh, unit STLUnit) error {
	if m == nil || m.TriangleCount() == 0 {
		return ErrEmptyMesh
	}
	if err := m.Validate(); err != nil {
		return err
	}

	scale := float32(1)
	if unit == STLMillimeters {
		scale = 1000
	}

	var header [80]byte
	copy(header[:], "voxelmesh binary STL")
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(m.TriangleCount())); err != nil {
		return err
	}

	var record [stlTriangleSize]byte
	for i := 0; i+2 < len(m.Indices); i += 3 {
		v0 := m.Vertices[m.Indices[i]]
		v1 := m.Vertices[m.Indices[i+1]]
		v2 := m.Vertices[m.Indices[i+2]]

		n := v1.Sub(v0).Cross(v2.Sub(v0))
		if length := n.Len(); length > 1e-12 {
			n = n.Mul(1 / length)
		}

		putVec3(record[0:], n)
		putVec3(record[12:], v0.Mul(scale))
		putVec3(record[24:], v1.Mul(scale))
		putVec3(record[36:], v2.Mul(scale))
		record[48], record[49] = 0, 0

		if _, err := w.Write(record[:]); err != nil {
			return err
		}
	}

	return nil
}

func putVec3(dst []byte, v mgl32.Vec3) {
	binary.LittleEndian.PutUint32(dst[0:], math.Float32bits(v.X()))
	binary.LittleEndian.PutUint32(dst[4:], math.Float32bits(v.Y()))
	binary.LittleEndian.PutUint32(dst[8:], math.Float32bits(v.Z()))
}
