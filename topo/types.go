// Package topo defines feature and constraint types for the topology
// subpackage of github.com/katalvlaran/voxelmesh.
package topo

import (
	"github.com/kelindar/bitmap"
)

// Kind classifies a topological feature.
type Kind int

const (
	// Hole is a boundary loop in the mesh surface.
	Hole Kind = iota
	// Loop is a tunnel through the mesh (positive genus).
	Loop
	// Handle is a handle-like protrusion.
	Handle
	// Boundary is an open mesh border.
	Boundary
	// Bridge is a thin connection between mesh parts.
	Bridge
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Hole:
		return "hole"
	case Loop:
		return "loop"
	case Handle:
		return "handle"
	case Boundary:
		return "boundary"
	case Bridge:
		return "bridge"
	default:
		return "unknown"
	}
}

// Feature is one topological property of a mesh snapshot, discarded after
// the smoothing pass it constrains.
type Feature struct {
	Kind             Kind
	CriticalVertices []uint32
	CriticalEdges    [][2]uint32
	// Importance in [0,1] ranks preservation priority.
	Importance float32
}

// DefaultMaxMove is the displacement budget for limited vertices, in
// world units.
const DefaultMaxMove = 0.1

// lockImportance is the importance above which hole vertices lock rather
// than limit.
const lockImportance = 0.8

// Constraints is the read-only contract between topology analysis and the
// smoother: locked vertices never move, limited vertices move at most
// MaxMove from their pre-smoothing position. The index bitsets are sized
// by the vertex array.
type Constraints struct {
	Locked  bitmap.Bitmap
	Limited bitmap.Bitmap
	MaxMove float32

	PreserveHoles   bool
	PreserveLoops   bool
	PreserveHandles bool
}

// DefaultConstraints returns an empty constraint set preserving every
// feature kind with the default movement budget.
func DefaultConstraints() Constraints {
	return Constraints{
		MaxMove:         DefaultMaxMove,
		PreserveHoles:   true,
		PreserveLoops:   true,
		PreserveHandles: true,
	}
}

// IsLocked reports whether vertex v may not move.
func (c *Constraints) IsLocked(v uint32) bool { return c.Locked.Contains(v) }

// IsLimited reports whether vertex v is displacement-limited.
func (c *Constraints) IsLimited(v uint32) bool { return c.Limited.Contains(v) }

// Empty reports whether no vertex is constrained.
func (c *Constraints) Empty() bool {
	return c.Locked.Count() == 0 && c.Limited.Count() == 0
}

// LockAll adds every index in vs to the locked set.
func (c *Constraints) LockAll(vs []uint32) {
	for _, v := range vs {
		c.Locked.Set(v)
	}
}

// LimitAll adds every index in vs to the limited set.
func (c *Constraints) LimitAll(vs []uint32) {
	for _, v := range vs {
		c.Limited.Set(v)
	}
}
