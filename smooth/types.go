// Package smooth defines algorithm selection, options, and sentinel errors
// for the smoothing subpackage of github.com/katalvlaran/voxelmesh.
package smooth

import "errors"

// Sentinel errors for smoothing runs.
var (
	// ErrBadOptions indicates an invalid option combination.
	ErrBadOptions = errors.New("smooth: invalid options")

	// ErrCancelled indicates the progress callback requested a stop.
	ErrCancelled = errors.New("smooth: smoothing cancelled")
)

// MaxLevel is the highest supported smoothing level.
const MaxLevel = 15

// Algorithm selects the smoothing filter.
type Algorithm int

const (
	// Auto derives the algorithm from the smoothing level.
	Auto Algorithm = iota
	// None disables smoothing; the mesh passes through untouched.
	None
	// Laplacian is the plain umbrella-operator filter (levels 1-3).
	Laplacian
	// Taubin is the shrink-suppressing λ-µ filter (levels 4-7).
	Taubin
	// BiLaplacian runs two Laplacian passes per iteration (levels 8+).
	BiLaplacian
)

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	switch a {
	case Auto:
		return "auto"
	case None:
		return "none"
	case Laplacian:
		return "laplacian"
	case Taubin:
		return "taubin"
	case BiLaplacian:
		return "bilaplacian"
	default:
		return "unknown"
	}
}

// PreviewQuality trades smoothing fidelity for latency during
// interactive preview.
type PreviewQuality int

const (
	// PreviewDisabled applies the full iteration count.
	PreviewDisabled PreviewQuality = iota
	// PreviewFast divides iterations by 4 and forces Laplacian.
	PreviewFast
	// PreviewBalanced divides iterations by 3.
	PreviewBalanced
	// PreviewHighQuality divides iterations by 2.
	PreviewHighQuality
)

// String implements fmt.Stringer.
func (q PreviewQuality) String() string {
	switch q {
	case PreviewDisabled:
		return "disabled"
	case PreviewFast:
		return "fast"
	case PreviewBalanced:
		return "balanced"
	case PreviewHighQuality:
		return "high-quality"
	default:
		return "unknown"
	}
}

// Options configures one smoothing run.
//
// Fields:
//
//	Level              - 0..15; 0 disables smoothing entirely.
//	Algorithm          - filter choice; Auto picks from Level.
//	Lambda             - positive smoothing factor, typically 0.5.
//	Mu                 - negative Taubin factor; must stay below -Lambda
//	                     for the shrink suppression to hold.
//	PreserveTopology   - derive constraints from topology analysis when
//	                     none are supplied.
//	PreserveBoundaries - lock vertices on boundary edges.
//	MinFeatureSize     - carried for the validator's warning threshold;
//	                     the smoother itself never repairs below-size
//	                     features.
//	Preview            - iteration divisor for interactive preview.
//	Progress           - per-iteration callback; returning false cancels.
//	Cancel             - external cancel poll checked inside loops.
type Options struct {
	Level              int
	Algorithm          Algorithm
	Lambda             float32
	Mu                 float32
	PreserveTopology   bool
	PreserveBoundaries bool
	MinFeatureSize     float32
	Preview            PreviewQuality
	Progress           func(fraction float32) bool
	Cancel             func() bool
}

// DefaultOptions returns the smoothing defaults:
//
//	Level:              0           // disabled until a caller raises it
//	Algorithm:          Auto
//	Lambda:             0.5
//	Mu:                 -0.53       // below -Lambda, suppressing shrink
//	PreserveTopology:   true
//	PreserveBoundaries: true
//	Preview:            PreviewDisabled
func DefaultOptions() Options {
	return Options{
		Algorithm:          Auto,
		Lambda:             0.5,
		Mu:                 -0.53,
		PreserveTopology:   true,
		PreserveBoundaries: true,
	}
}

// Validate checks option ranges: Level in 0..15, Lambda in [0,1], Mu
// non-positive, and a known preview quality.
func (o *Options) Validate() error {
	if o.Level < 0 || o.Level > MaxLevel {
		return ErrBadOptions
	}
	if o.Lambda < 0 || o.Lambda > 1 {
		return ErrBadOptions
	}
	if o.Mu > 0 {
		return ErrBadOptions
	}
	if o.Preview < PreviewDisabled || o.Preview > PreviewHighQuality {
		return ErrBadOptions
	}
	if o.Algorithm < Auto || o.Algorithm > BiLaplacian {
		return ErrBadOptions
	}

	return nil
}

// AlgorithmForLevel returns the Auto mapping of the level table.
func AlgorithmForLevel(level int) Algorithm {
	switch {
	case level <= 0:
		return None
	case level <= 3:
		return Laplacian
	case level <= 7:
		return Taubin
	default:
		return BiLaplacian
	}
}

// IterationsForLevel returns the iteration count for a level under a
// specific algorithm, clamping the level into the algorithm's natural
// band so explicit algorithm overrides still get sane counts.
func IterationsForLevel(level int, algo Algorithm) int {
	if level <= 0 {
		return 0
	}
	switch algo {
	case Laplacian:
		if level > 3 {
			level = 3
		}

		return 2 * level
	case Taubin:
		if level < 4 {
			level = 4
		}
		if level > 7 {
			level = 7
		}

		return 1 + 2*(level-3)
	case BiLaplacian:
		if level < 8 {
			level = 8
		}

		return 2 + 2*(level-7)
	default:
		return 0
	}
}

// previewIterations applies the preview divisor: 4, 3, or 2 with a floor
// of one iteration.
func previewIterations(iterations int, q PreviewQuality) int {
	var div int
	switch q {
	case PreviewFast:
		div = 4
	case PreviewBalanced:
		div = 3
	case PreviewHighQuality:
		div = 2
	default:
		return iterations
	}
	out := iterations / div
	if out < 1 {
		out = 1
	}

	return out
}
