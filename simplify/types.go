// Package simplify defines options and sentinel errors for the decimation
// subpackage of github.com/katalvlaran/voxelmesh.
package simplify

import "errors"

// Sentinel errors for decimation runs.
var (
	// ErrBadOptions indicates an out-of-range option value.
	ErrBadOptions = errors.New("simplify: invalid options")

	// ErrCancelled indicates the progress callback requested a stop.
	ErrCancelled = errors.New("simplify: simplification cancelled")
)

// Options configures one decimation run.
//
// Fields:
//
//	TargetRatio      - surviving triangle fraction in (0,1]; 1 is a no-op.
//	MaxError         - collapse-cost ceiling; 0 disables the ceiling and
//	                   the run is purely count-driven.
//	PreserveBoundary - edges touching a boundary vertex become
//	                   uncollapsible.
//	PreserveTopology - reject collapses that break the link condition or
//	                   flip a surviving triangle.
//	Progress         - optional callback, polled while the count of removed
//	                   triangles is a multiple of 64; returning false
//	                   cancels.
//	Cancel           - external cancel poll.
type Options struct {
	TargetRatio      float32
	MaxError         float64
	PreserveBoundary bool
	PreserveTopology bool
	Progress         func(fraction float32) bool
	Cancel           func() bool
}

// DefaultOptions returns conservative decimation defaults:
//
//	TargetRatio:      0.5
//	MaxError:         0      // count-driven
//	PreserveBoundary: true
//	PreserveTopology: true
func DefaultOptions() Options {
	return Options{
		TargetRatio:      0.5,
		PreserveBoundary: true,
		PreserveTopology: true,
	}
}

// Validate checks the field ranges.
func (o *Options) Validate() error {
	if o.TargetRatio <= 0 || o.TargetRatio > 1 {
		return ErrBadOptions
	}
	if o.MaxError < 0 {
		return ErrBadOptions
	}

	return nil
}
