// Package voxel defines core types, the grid collaborator interface, and
// sentinel errors for the voxel subpackage of github.com/katalvlaran/voxelmesh.
package voxel

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// Sentinel errors for grid construction and LOD selection.
var (
	// ErrInvalidWorkspace indicates a workspace extent that is zero or
	// negative on at least one axis.
	ErrInvalidWorkspace = errors.New("voxel: workspace extent must be positive on every axis")

	// ErrBelowGround indicates an attempt to occupy a cell with y < 0.
	ErrBelowGround = errors.New("voxel: cells below the ground plane are invalid")

	// ErrOutsideWorkspace indicates a cell whose world extent lies outside
	// the workspace bounds.
	ErrOutsideWorkspace = errors.New("voxel: cell outside workspace bounds")

	// ErrInvalidLOD indicates a level-of-detail outside the supported 0..4.
	ErrInvalidLOD = errors.New("voxel: LOD level must be in 0..4")
)

// Coord is an integer cell coordinate in the centered convention:
// (0,0,0) indexes the cell at the workspace center, the ground plane is
// y=0, and coordinates with Y < 0 never hold occupancy.
type Coord struct {
	X, Y, Z int32
}

// C is shorthand for constructing a Coord.
func C(x, y, z int32) Coord { return Coord{X: x, Y: y, Z: z} }

// Add returns c translated by d.
func (c Coord) Add(d Coord) Coord {
	return Coord{X: c.X + d.X, Y: c.Y + d.Y, Z: c.Z + d.Z}
}

// Offset returns c translated by (dx,dy,dz).
func (c Coord) Offset(dx, dy, dz int32) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz}
}

// Less reports whether c precedes o in lexicographic (X,Y,Z) order.
func (c Coord) Less(o Coord) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	if c.Y != o.Y {
		return c.Y < o.Y
	}

	return c.Z < o.Z
}

// Coordinate packing: three 20-bit fields biased by 1<<19, mirroring the
// octree tables of the source editor. Coordinates outside ±(1<<19 - 1)
// cannot occur in any supported workspace.
const (
	packBits = 20
	packMask = (1 << packBits) - 1
	packBias = 1 << (packBits - 1)
)

// Key packs c into a 64-bit map key. Complexity: O(1).
func (c Coord) Key() uint64 {
	x := uint64(c.X+packBias) & packMask
	y := uint64(c.Y+packBias) & packMask
	z := uint64(c.Z+packBias) & packMask

	return x<<(2*packBits) | y<<packBits | z
}

// KeyCoord unpacks a key produced by Coord.Key. Complexity: O(1).
func KeyCoord(k uint64) Coord {
	return Coord{
		X: int32(k>>(2*packBits)&packMask) - packBias,
		Y: int32(k>>packBits&packMask) - packBias,
		Z: int32(k&packMask) - packBias,
	}
}

// Resolution enumerates the power-of-two cell sizes supported by the grid,
// from 1 cm up to 512 cm. It is recorded into cache keys but never
// interpreted by the extraction algorithms beyond CellSize.
type Resolution int

const (
	// Res1cm is a 1-centimeter cell.
	Res1cm Resolution = iota
	// Res2cm is a 2-centimeter cell.
	Res2cm
	// Res4cm is a 4-centimeter cell.
	Res4cm
	// Res8cm is an 8-centimeter cell.
	Res8cm
	// Res16cm is a 16-centimeter cell.
	Res16cm
	// Res32cm is a 32-centimeter cell, the default working size.
	Res32cm
	// Res64cm is a 64-centimeter cell.
	Res64cm
	// Res128cm is a 128-centimeter cell.
	Res128cm
	// Res256cm is a 256-centimeter cell.
	Res256cm
	// Res512cm is a 512-centimeter cell.
	Res512cm

	resolutionCount
)

// CellSize returns the cell edge length in meters.
func (r Resolution) CellSize() float32 {
	return 0.01 * float32(int32(1)<<uint(r))
}

// Valid reports whether r names a supported resolution.
func (r Resolution) Valid() bool { return r >= Res1cm && r < resolutionCount }

// String implements fmt.Stringer.
func (r Resolution) String() string {
	names := [...]string{"1cm", "2cm", "4cm", "8cm", "16cm", "32cm", "64cm", "128cm", "256cm", "512cm"}
	if !r.Valid() {
		return "invalid"
	}

	return names[r]
}

// Grid is the read-only occupancy interface the core consumes. All
// operations must be O(log n) or better; implementations must not be
// mutated while a generation is in flight.
type Grid interface {
	// IsOccupied reports whether the cell at c holds a voxel. Queries
	// outside the valid region (below ground, outside the workspace)
	// report false.
	IsOccupied(c Coord) bool

	// EachOccupied visits every occupied cell in unspecified order until
	// fn returns false.
	EachOccupied(fn func(Coord) bool)

	// OccupiedCount returns the number of occupied cells.
	OccupiedCount() int

	// Resolution returns the cell size class; extraction derives cell
	// extents from its CellSize, and cache keys record it.
	Resolution() Resolution

	// WorkspaceSize returns the world-space extent of the workspace in
	// meters.
	WorkspaceSize() mgl32.Vec3

	// CellBounds returns the world-space extent of a single cell.
	CellBounds(c Coord) (min, max mgl32.Vec3)

	// CoordToWorld returns the world-space center of the cell at c.
	CoordToWorld(c Coord) mgl32.Vec3
}
