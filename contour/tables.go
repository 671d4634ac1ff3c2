package contour

import "github.com/katalvlaran/voxelmesh/voxel"

// Cell edge tables. Every edge is stored as (lesser corner, positive
// axis), so the twelve edges group into three runs of four: X edges 0-3,
// Y edges 4-7, Z edges 8-11. Keeping edges canonical means two cells that
// share an edge always sample it identically.
var edgeStarts = [12]voxel.Coord{
	// X edges
	{X: 0, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 1},
	// Y edges
	{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1},
	// Z edges
	{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0},
}

// axisUnits are the positive edge directions per axis index.
var axisUnits = [3]voxel.Coord{
	{X: 1, Y: 0, Z: 0},
	{X: 0, Y: 1, Z: 0},
	{X: 0, Y: 0, Z: 1},
}

// edgeAxis maps an edge index to its axis.
func edgeAxis(e int) int { return e / 4 }

// ownedEdges are the three edges whose four-cell fans elect the current
// cell as lexicographic minimum: the X edge through the (0,1,1) corner,
// the Y edge through (1,0,1), and the Z edge through (1,1,0). Emitting
// quads only for owned edges produces each face exactly once.
var ownedEdges = [3]int{3, 7, 11}

// quadCellOffsets[axis] lists, relative to the edge's lesser endpoint, the
// min corners of the four cells sharing an edge of that axis, in cyclic
// order around the positive axis (right-hand rule). A quad wound in this
// order faces the positive axis; emission reverses it when the occupied
// side is positive.
var quadCellOffsets = [3][4]voxel.Coord{
	// X axis: rotate y into z.
	{
		{X: 0, Y: -1, Z: -1}, {X: 0, Y: 0, Z: -1}, {X: 0, Y: 0, Z: 0}, {X: 0, Y: -1, Z: 0},
	},
	// Y axis: rotate z into x.
	{
		{X: -1, Y: 0, Z: -1}, {X: -1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: -1},
	},
	// Z axis: rotate x into y.
	{
		{X: -1, Y: -1, Z: 0}, {X: 0, Y: -1, Z: 0}, {X: 0, Y: 0, Z: 0}, {X: -1, Y: 0, Z: 0},
	},
}
