package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DedupEpsilon is the default positional tolerance under which two added
// vertices collapse to one index: 0.1 mm in world units.
const DedupEpsilon = 1e-4

// quantKey buckets a vertex for the dedup hash map. Two vertices within
// DedupEpsilon always land in the same or an adjacent bucket; the builder
// probes the home bucket only, which is exact for extraction output where
// duplicates are bit-identical across quads.
type quantKey struct {
	x, y, z int32
}

// Builder assembles a Mesh from incremental vertex and face additions,
// deduplicating vertices as they arrive. Not safe for concurrent use; a
// builder belongs to one extraction call frame.
type Builder struct {
	verts   []mgl32.Vec3
	normals []mgl32.Vec3
	uvs     []mgl32.Vec2
	indices []uint32
	eps     float32
	buckets map[quantKey][]uint32
}

// NewBuilder returns a builder using DedupEpsilon.
func NewBuilder() *Builder { return NewBuilderEps(DedupEpsilon) }

// NewBuilderEps returns a builder with a custom dedup tolerance;
// eps <= 0 disables deduplication entirely.
func NewBuilderEps(eps float32) *Builder {
	return &Builder{
		eps:     eps,
		buckets: make(map[quantKey][]uint32),
	}
}

// AddVertex inserts a position-only vertex and returns its index, reusing
// an existing index when a previously added vertex lies within the dedup
// tolerance. Complexity: O(1) expected.
func (b *Builder) AddVertex(pos mgl32.Vec3) uint32 {
	return b.add(pos, mgl32.Vec3{}, mgl32.Vec2{}, false, false)
}

// AddVertexN inserts a vertex with a normal; deduplication then requires
// both position and normal to agree within the tolerance.
func (b *Builder) AddVertexN(pos, normal mgl32.Vec3) uint32 {
	return b.add(pos, normal, mgl32.Vec2{}, true, false)
}

// AddVertexNUV inserts a fully attributed vertex.
func (b *Builder) AddVertexNUV(pos, normal mgl32.Vec3, uv mgl32.Vec2) uint32 {
	return b.add(pos, normal, uv, true, true)
}

func (b *Builder) add(pos, normal mgl32.Vec3, uv mgl32.Vec2, hasN, hasUV bool) uint32 {
	if b.eps > 0 {
		key := b.quantize(pos)
		for _, idx := range b.buckets[key] {
			if !b.near3(b.verts[idx], pos) {
				continue
			}
			if hasN && !b.near3(b.normals[idx], normal) {
				continue
			}
			if hasUV && !b.near2(b.uvs[idx], uv) {
				continue
			}

			return idx
		}
		idx := b.push(pos, normal, uv, hasN, hasUV)
		b.buckets[key] = append(b.buckets[key], idx)

		return idx
	}

	return b.push(pos, normal, uv, hasN, hasUV)
}

func (b *Builder) push(pos, normal mgl32.Vec3, uv mgl32.Vec2, hasN, hasUV bool) uint32 {
	idx := uint32(len(b.verts))
	b.verts = append(b.verts, pos)
	if hasN {
		b.normals = append(b.normals, normal)
	}
	if hasUV {
		b.uvs = append(b.uvs, uv)
	}

	return idx
}

// AddTriangle appends one triangle, dropping it when any two corners
// collapsed to the same index.
func (b *Builder) AddTriangle(v0, v1, v2 uint32) {
	if v0 == v1 || v1 == v2 || v0 == v2 {
		return
	}
	b.indices = append(b.indices, v0, v1, v2)
}

// AddQuad splits (v0,v1,v2,v3) into (v0,v1,v2) and (v0,v2,v3). The fixed
// diagonal keeps the split identical for every face, which avoids
// direction-dependent shading seams on the blocky extraction output.
func (b *Builder) AddQuad(v0, v1, v2, v3 uint32) {
	b.AddTriangle(v0, v1, v2)
	b.AddTriangle(v0, v2, v3)
}

// VertexCount returns the number of unique vertices added so far.
func (b *Builder) VertexCount() int { return len(b.verts) }

// TriangleCount returns the number of triangles added so far.
func (b *Builder) TriangleCount() int { return len(b.indices) / 3 }

// Build finalizes the mesh, computing bounds. The mesh takes over the
// builder's arrays without copying; call Reset before reusing the builder.
func (b *Builder) Build() *Mesh {
	m := &Mesh{
		Vertices: b.verts,
		Indices:  b.indices,
	}
	if len(b.normals) == len(b.verts) {
		m.Normals = b.normals
	}
	if len(b.uvs) == len(b.verts) {
		m.UVs = b.uvs
	}
	m.ComputeBounds()

	return m
}

// Reset clears the builder for reuse. It drops its arrays instead of
// truncating them, because Build handed them to the returned mesh.
func (b *Builder) Reset() {
	b.verts = nil
	b.normals = nil
	b.uvs = nil
	b.indices = nil
	b.buckets = make(map[quantKey][]uint32)
}

func (b *Builder) quantize(p mgl32.Vec3) quantKey {
	inv := 1 / b.eps

	return quantKey{
		x: int32(math32.Floor(p.X()*inv + 0.5)),
		y: int32(math32.Floor(p.Y()*inv + 0.5)),
		z: int32(math32.Floor(p.Z()*inv + 0.5)),
	}
}

func (b *Builder) near3(a, c mgl32.Vec3) bool {
	return math32.Abs(a.X()-c.X()) <= b.eps &&
		math32.Abs(a.Y()-c.Y()) <= b.eps &&
		math32.Abs(a.Z()-c.Z()) <= b.eps
}

func (b *Builder) near2(a, c mgl32.Vec2) bool {
	return math32.Abs(a.X()-c.X()) <= b.eps &&
		math32.Abs(a.Y()-c.Y()) <= b.eps
}
