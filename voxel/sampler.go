package voxel

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Iso is the fixed isovalue separating occupied from empty cells. With
// binary samples {0,1} every occupancy boundary crosses it.
const Iso = 0.5

// gradientZeroEps is the length below which a central-difference gradient
// is reported as the zero vector.
const gradientZeroEps = 1e-4

// Sampler provides point queries and finite-difference gradients over a
// borrowed Grid. It holds no state beyond the grid reference and is safe
// for concurrent use as long as the grid is not mutated.
type Sampler struct {
	grid Grid
}

// NewSampler wraps g. The grid is borrowed, never copied.
func NewSampler(g Grid) Sampler { return Sampler{grid: g} }

// Sample returns 1 where the cell is occupied and 0 otherwise, clamped to
// 0 outside the valid region. Complexity: one grid query.
func (s Sampler) Sample(c Coord) float32 {
	if s.grid != nil && s.grid.IsOccupied(c) {
		return 1
	}

	return 0
}

// IsInside reports Sample(c) > Iso.
func (s Sampler) IsInside(c Coord) bool {
	return s.Sample(c) > Iso
}

// Gradient computes central differences of Sample along the three axes,
// normalized when its length exceeds 1e-4, else the zero vector.
// Complexity: six grid queries.
func (s Sampler) Gradient(c Coord) mgl32.Vec3 {
	dx := s.Sample(c.Offset(1, 0, 0)) - s.Sample(c.Offset(-1, 0, 0))
	dy := s.Sample(c.Offset(0, 1, 0)) - s.Sample(c.Offset(0, -1, 0))
	dz := s.Sample(c.Offset(0, 0, 1)) - s.Sample(c.Offset(0, 0, -1))

	g := mgl32.Vec3{dx * 0.5, dy * 0.5, dz * 0.5}
	length := math32.Sqrt(g.X()*g.X() + g.Y()*g.Y() + g.Z()*g.Z())
	if length > gradientZeroEps {
		return g.Mul(1 / length)
	}

	return mgl32.Vec3{}
}

// World returns the world-space position of the sample point at c, which
// is the cell center under the centered convention.
func (s Sampler) World(c Coord) mgl32.Vec3 {
	return s.grid.CoordToWorld(c)
}
