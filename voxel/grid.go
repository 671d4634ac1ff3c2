package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
)

// SparseGrid is the reference Grid implementation: a hash set of packed
// coordinates. It is the storage used by every test in this module and a
// reasonable default for interactive edits up to a few million cells.
//
// The zero value is not usable; construct with NewSparseGrid.
type SparseGrid struct {
	cells      map[uint64]struct{}
	resolution Resolution
	workspace  mgl32.Vec3
}

// NewSparseGrid constructs an empty grid with the given cell size class and
// workspace extent. Returns ErrInvalidWorkspace if any extent is not
// positive. Complexity: O(1).
func NewSparseGrid(res Resolution, workspace mgl32.Vec3) (*SparseGrid, error) {
	if !res.Valid() {
		return nil, ErrInvalidWorkspace
	}
	if workspace.X() <= 0 || workspace.Y() <= 0 || workspace.Z() <= 0 {
		return nil, ErrInvalidWorkspace
	}

	return &SparseGrid{
		cells:      make(map[uint64]struct{}),
		resolution: res,
		workspace:  workspace,
	}, nil
}

// Set marks the cell at c occupied. Returns ErrBelowGround for y < 0 and
// ErrOutsideWorkspace when the cell extent leaves the workspace.
// Complexity: O(1).
func (g *SparseGrid) Set(c Coord) error {
	if c.Y < 0 {
		return ErrBelowGround
	}
	if !g.inWorkspace(c) {
		return ErrOutsideWorkspace
	}
	g.cells[c.Key()] = struct{}{}

	return nil
}

// Clear removes the voxel at c if present. Complexity: O(1).
func (g *SparseGrid) Clear(c Coord) {
	delete(g.cells, c.Key())
}

// Fill marks every listed cell occupied, stopping at the first error.
func (g *SparseGrid) Fill(coords ...Coord) error {
	for _, c := range coords {
		if err := g.Set(c); err != nil {
			return err
		}
	}

	return nil
}

// IsOccupied implements Grid. Complexity: O(1).
func (g *SparseGrid) IsOccupied(c Coord) bool {
	if c.Y < 0 {
		return false
	}
	_, ok := g.cells[c.Key()]

	return ok
}

// EachOccupied implements Grid. Iteration order is unspecified.
func (g *SparseGrid) EachOccupied(fn func(Coord) bool) {
	for k := range g.cells {
		if !fn(KeyCoord(k)) {
			return
		}
	}
}

// OccupiedCount implements Grid. Complexity: O(1).
func (g *SparseGrid) OccupiedCount() int { return len(g.cells) }

// Resolution implements Grid.
func (g *SparseGrid) Resolution() Resolution { return g.resolution }

// WorkspaceSize implements Grid.
func (g *SparseGrid) WorkspaceSize() mgl32.Vec3 { return g.workspace }

// CellBounds implements Grid. The centered convention places the cell
// (0,0,0) spanning x,z in ±s/2 and y in [0,s] for cell size s.
func (g *SparseGrid) CellBounds(c Coord) (mgl32.Vec3, mgl32.Vec3) {
	return CellBounds(c, g.resolution)
}

// CoordToWorld implements Grid, returning the cell center.
func (g *SparseGrid) CoordToWorld(c Coord) mgl32.Vec3 {
	return CellCenter(c, g.resolution)
}

// inWorkspace reports whether the cell extent lies inside the workspace.
func (g *SparseGrid) inWorkspace(c Coord) bool {
	lo, hi := CellBounds(c, g.resolution)
	halfX := g.workspace.X() * 0.5
	halfZ := g.workspace.Z() * 0.5

	return lo.X() >= -halfX && hi.X() <= halfX &&
		lo.Z() >= -halfZ && hi.Z() <= halfZ &&
		lo.Y() >= 0 && hi.Y() <= g.workspace.Y()
}

// CellBounds returns the world extent of cell c at resolution res, shared
// by every Grid implementation that follows the centered convention.
func CellBounds(c Coord, res Resolution) (mgl32.Vec3, mgl32.Vec3) {
	s := res.CellSize()
	lo := mgl32.Vec3{
		(float32(c.X) - 0.5) * s,
		float32(c.Y) * s,
		(float32(c.Z) - 0.5) * s,
	}
	hi := mgl32.Vec3{
		(float32(c.X) + 0.5) * s,
		(float32(c.Y) + 1) * s,
		(float32(c.Z) + 0.5) * s,
	}

	return lo, hi
}

// CellCenter returns the world-space center of cell c at resolution res.
func CellCenter(c Coord, res Resolution) mgl32.Vec3 {
	s := res.CellSize()

	return mgl32.Vec3{
		float32(c.X) * s,
		(float32(c.Y) + 0.5) * s,
		float32(c.Z) * s,
	}
}
