// Package contour defines option and data types plus sentinel errors for
// the Dual Contouring extractor of github.com/katalvlaran/voxelmesh.
package contour

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/katalvlaran/voxelmesh/voxel"
)

// Sentinel errors for extraction.
var (
	// ErrNilGrid indicates a nil grid reference.
	ErrNilGrid = errors.New("contour: grid reference is nil")

	// ErrCancelled indicates the progress callback requested a stop.
	// Callers treat it as a flag, not a failure.
	ErrCancelled = errors.New("contour: extraction cancelled")

	// ErrBadOptions indicates out-of-range extraction options.
	ErrBadOptions = errors.New("contour: invalid options")

	// ErrInternal indicates the solver produced a non-finite vertex.
	ErrInternal = errors.New("contour: non-finite vertex from QEF solve")
)

// Numeric guards fixed by the surface contract.
const (
	// signChangeEps: sample deltas below this are no intersection.
	signChangeEps = 1e-6
	// normalZeroEps: Hermite normals shorter than this use the edge axis.
	normalZeroEps = 1e-4
	// sharpnessBlend: weight pulling sharp-feature vertices toward the
	// mean intersection position.
	sharpnessBlend = 0.7
)

// Hermite is the sample on one cell edge: the interpolated world-space
// crossing and the gradient there, unit length whenever Intersects.
type Hermite struct {
	Position   mgl32.Vec3
	Normal     mgl32.Vec3
	Value      float32
	Intersects bool
}

// Options tunes one extraction call.
//
// Fields:
//
//	AdaptiveError         - distance past the cell extent at which a QEF
//	                        solution is distrusted and replaced by the
//	                        mass point (world units).
//	PreserveSharpFeatures - bias vertices toward edge intersections where
//	                        incident edge normals diverge.
//	SharpFeatureAngle     - divergence threshold in degrees.
//	Progress              - optional callback with the extraction fraction;
//	                        returning false cancels.
//	Cancel                - optional poll hook checked inside cell loops;
//	                        returning true cancels.
type Options struct {
	AdaptiveError         float32
	PreserveSharpFeatures bool
	SharpFeatureAngle     float32
	Progress              func(fraction float32) bool
	Cancel                func() bool
}

// DefaultOptions returns the extraction defaults:
//
//	AdaptiveError:         0.01  // 1 cm of slack before mass-point fallback
//	PreserveSharpFeatures: false // the bias chamfers corners; export passes opt in
//	SharpFeatureAngle:     30
func DefaultOptions() Options {
	return Options{
		AdaptiveError:         0.01,
		PreserveSharpFeatures: false,
		SharpFeatureAngle:     30,
	}
}

// Validate checks field ranges. Returns ErrBadOptions when AdaptiveError
// is negative or the sharp angle leaves (0, 180].
func (o *Options) Validate() error {
	if o.AdaptiveError < 0 {
		return ErrBadOptions
	}
	if o.SharpFeatureAngle <= 0 || o.SharpFeatureAngle > 180 {
		return ErrBadOptions
	}

	return nil
}

// QuadMesh is the raw extraction output: one position per surface cell and
// four indices per quad. Deduplication, triangulation, and normals happen
// in the mesh package.
type QuadMesh struct {
	Vertices []mgl32.Vec3
	Quads    []uint32
}

// QuadCount returns the number of emitted quads.
func (q *QuadMesh) QuadCount() int { return len(q.Quads) / 4 }

// IsEmpty reports whether extraction produced no geometry.
func (q *QuadMesh) IsEmpty() bool { return len(q.Vertices) == 0 }

// Extractor is the single trait behind every extraction variant.
type Extractor interface {
	// Extract produces the raw quad mesh for g. A nil grid is ErrNilGrid;
	// an empty grid is an empty mesh with no error; cancellation is
	// ErrCancelled with a nil mesh.
	Extract(g voxel.Grid, opts Options) (*QuadMesh, error)
}

// cellRecord is the per-cell working state, alive only during one
// extraction call. The invariant, enforced by the solver clamp: hasVertex
// implies vertex lies within the cell extent and above the ground plane.
type cellRecord struct {
	coord       voxel.Coord
	edges       [12]Hermite
	vertex      mgl32.Vec3
	vertexIndex uint32
	hasVertex   bool
}
