// Package mesh defines the Mesh value, its bounds, and sentinel errors for
// the mesh subpackage of github.com/katalvlaran/voxelmesh.
package mesh

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// Sentinel errors for mesh validation and export.
var (
	// ErrIndexRange indicates an index referencing a vertex past the array.
	ErrIndexRange = errors.New("mesh: index out of vertex range")

	// ErrRaggedAttributes indicates normals or UVs whose length is neither
	// zero nor the vertex count.
	ErrRaggedAttributes = errors.New("mesh: attribute arrays must be empty or match vertex count")

	// ErrNotTriangles indicates an index count that is not a multiple of 3.
	ErrNotTriangles = errors.New("mesh: index count must be a multiple of three")

	// ErrEmptyMesh indicates an export of a mesh without triangles.
	ErrEmptyMesh = errors.New("mesh: mesh has no triangles")
)

// DefaultUp is the substitute normal for vertices whose accumulated face
// normals cancel to zero length.
var DefaultUp = mgl32.Vec3{0, 1, 0}

// Bounds is an axis-aligned bounding box in world space.
type Bounds struct {
	Min, Max mgl32.Vec3
}

// EmptyBounds returns an inverted box that any Extend call will replace.
func EmptyBounds() Bounds {
	const big = 3.4e38

	return Bounds{
		Min: mgl32.Vec3{big, big, big},
		Max: mgl32.Vec3{-big, -big, -big},
	}
}

// Extend grows b to contain p.
func (b *Bounds) Extend(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Union returns the smallest box containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	out := b
	out.Extend(o.Min)
	out.Extend(o.Max)

	return out
}

// Intersects reports whether b and o overlap (touching counts).
func (b Bounds) Intersects(o Bounds) bool {
	for i := 0; i < 3; i++ {
		if b.Max[i] < o.Min[i] || o.Max[i] < b.Min[i] {
			return false
		}
	}

	return true
}

// Valid reports Min <= Max componentwise.
func (b Bounds) Valid() bool {
	for i := 0; i < 3; i++ {
		if b.Min[i] > b.Max[i] {
			return false
		}
	}

	return true
}

// Size returns the extent on each axis.
func (b Bounds) Size() mgl32.Vec3 { return b.Max.Sub(b.Min) }

// Center returns the box midpoint.
func (b Bounds) Center() mgl32.Vec3 { return b.Min.Add(b.Max).Mul(0.5) }

// Mesh is the triangle mesh exchanged between every stage of the pipeline:
// parallel attribute arrays, a flat index list (three indices per
// triangle), and cached bounds. Collaborators receive read-only views of
// these slices; stages that mutate work on their own copy.
type Mesh struct {
	Vertices []mgl32.Vec3
	Normals  []mgl32.Vec3
	UVs      []mgl32.Vec2
	Indices  []uint32
	Bounds   Bounds
}
