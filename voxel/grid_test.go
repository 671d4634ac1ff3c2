package voxel

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// defaultWorkspace is a 5m cube, matching the editor's default extent.
var defaultWorkspace = mgl32.Vec3{5, 5, 5}

// TestCoordKeyRoundTrip verifies packing and unpacking across the centered
// range, including negative coordinates.
func TestCoordKeyRoundTrip(t *testing.T) {
	cases := []Coord{
		{0, 0, 0},
		{1, 2, 3},
		{-1, 0, -1},
		{-250, 0, 250},
		{-524287, 0, 524287},
	}
	for _, c := range cases {
		if got := KeyCoord(c.Key()); got != c {
			t.Errorf("KeyCoord(Key(%v)) = %v; want identity", c, got)
		}
	}
}

// TestCoordKeyOrder checks that distinct coordinates produce distinct keys
// on a dense block around the origin.
func TestCoordKeyOrder(t *testing.T) {
	seen := make(map[uint64]Coord)
	var x, y, z int32
	for x = -4; x <= 4; x++ {
		for y = 0; y <= 4; y++ {
			for z = -4; z <= 4; z++ {
				c := Coord{x, y, z}
				if prev, dup := seen[c.Key()]; dup {
					t.Fatalf("key collision between %v and %v", prev, c)
				}
				seen[c.Key()] = c
			}
		}
	}
}

// TestCoordLess verifies lexicographic ordering on representative pairs.
func TestCoordLess(t *testing.T) {
	cases := []struct {
		a, b Coord
		want bool
	}{
		{Coord{0, 0, 0}, Coord{1, 0, 0}, true},
		{Coord{0, 1, 0}, Coord{0, 0, 9}, false},
		{Coord{0, 0, 1}, Coord{0, 0, 2}, true},
		{Coord{2, 0, 0}, Coord{1, 9, 9}, false},
		{Coord{0, 0, 0}, Coord{0, 0, 0}, false},
	}
	for _, tc := range cases {
		if got := tc.a.Less(tc.b); got != tc.want {
			t.Errorf("(%v).Less(%v) = %v; want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

// TestResolutionCellSize checks the power-of-two size ladder.
func TestResolutionCellSize(t *testing.T) {
	if got := Res1cm.CellSize(); got != 0.01 {
		t.Errorf("Res1cm.CellSize() = %v; want 0.01", got)
	}
	if got := Res32cm.CellSize(); got != 0.32 {
		t.Errorf("Res32cm.CellSize() = %v; want 0.32", got)
	}
	if got := Res512cm.CellSize(); got != 5.12 {
		t.Errorf("Res512cm.CellSize() = %v; want 5.12", got)
	}
}

// TestNewSparseGridErrors rejects degenerate workspaces.
func TestNewSparseGridErrors(t *testing.T) {
	cases := []struct {
		name string
		ws   mgl32.Vec3
	}{
		{"ZeroX", mgl32.Vec3{0, 5, 5}},
		{"NegativeY", mgl32.Vec3{5, -1, 5}},
		{"ZeroAll", mgl32.Vec3{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewSparseGrid(Res32cm, tc.ws); err != ErrInvalidWorkspace {
				t.Errorf("NewSparseGrid(%v) error = %v; want ErrInvalidWorkspace", tc.ws, err)
			}
		})
	}
}

// TestSparseGridSetQuery exercises occupancy round trips and the ground
// plane rule.
func TestSparseGridSetQuery(t *testing.T) {
	g, err := NewSparseGrid(Res32cm, defaultWorkspace)
	if err != nil {
		t.Fatalf("NewSparseGrid: %v", err)
	}

	if err = g.Set(C(0, 0, 0)); err != nil {
		t.Fatalf("Set origin: %v", err)
	}
	if !g.IsOccupied(C(0, 0, 0)) {
		t.Error("origin should be occupied")
	}
	if g.IsOccupied(C(1, 0, 0)) {
		t.Error("neighbor should be empty")
	}

	if err = g.Set(C(0, -1, 0)); err != ErrBelowGround {
		t.Errorf("Set below ground error = %v; want ErrBelowGround", err)
	}
	if g.IsOccupied(C(0, -1, 0)) {
		t.Error("cells below ground must read unoccupied")
	}

	if err = g.Set(C(100, 0, 0)); err != ErrOutsideWorkspace {
		t.Errorf("Set outside workspace error = %v; want ErrOutsideWorkspace", err)
	}

	g.Clear(C(0, 0, 0))
	if g.IsOccupied(C(0, 0, 0)) || g.OccupiedCount() != 0 {
		t.Error("Clear should empty the grid")
	}
}

// TestSparseGridCellBounds pins the centered convention: the origin cell
// spans ±s/2 in x,z and [0,s] in y.
func TestSparseGridCellBounds(t *testing.T) {
	g, _ := NewSparseGrid(Res32cm, defaultWorkspace)

	lo, hi := g.CellBounds(C(0, 0, 0))
	want := [2]mgl32.Vec3{{-0.16, 0, -0.16}, {0.16, 0.32, 0.16}}
	if !vecNear(lo, want[0], 1e-6) || !vecNear(hi, want[1], 1e-6) {
		t.Errorf("CellBounds(origin) = %v..%v; want %v..%v", lo, hi, want[0], want[1])
	}

	center := g.CoordToWorld(C(0, 0, 0))
	if !vecNear(center, mgl32.Vec3{0, 0.16, 0}, 1e-6) {
		t.Errorf("CoordToWorld(origin) = %v; want (0,0.16,0)", center)
	}

	center = g.CoordToWorld(C(1, 0, 0))
	if !vecNear(center, mgl32.Vec3{0.32, 0.16, 0}, 1e-6) {
		t.Errorf("CoordToWorld(1,0,0) = %v; want (0.32,0.16,0)", center)
	}
}

// vecNear reports componentwise closeness within eps.
func vecNear(a, b mgl32.Vec3, eps float32) bool {
	for i := 0; i < 3; i++ {
		d := a[i] - b[i]
		if d < -eps || d > eps {
			return false
		}
	}

	return true
}
