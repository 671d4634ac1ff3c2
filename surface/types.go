// Package surface defines the Settings value, sentinel errors, and
// callback types for the coordinator subpackage of
// github.com/katalvlaran/voxelmesh.
package surface

import (
	"encoding/binary"
	"errors"
	"hash/fnv"
	"math"

	"github.com/katalvlaran/voxelmesh/smooth"
	"github.com/katalvlaran/voxelmesh/voxel"
)

// Sentinel errors surfaced by the coordinator.
var (
	// ErrInvalidSettings indicates contradictory or out-of-range options.
	ErrInvalidSettings = errors.New("surface: invalid settings")

	// ErrGridUnavailable indicates a nil grid reference.
	ErrGridUnavailable = errors.New("surface: grid unavailable")

	// ErrCancelled indicates cancellation observed during a stage. It is
	// a flag, never logged as a failure.
	ErrCancelled = errors.New("surface: generation cancelled")

	// ErrValidationFailed indicates the validator reported errors on the
	// final mesh. The mesh is returned alongside; the caller decides.
	ErrValidationFailed = errors.New("surface: mesh validation failed")

	// ErrInternal indicates contract-violating state such as a
	// non-finite QEF vertex. Nothing is cached.
	ErrInternal = errors.New("surface: internal error")
)

// ProgressFunc receives the pipeline fraction in [0,1] and a short status
// string at each stage boundary. Returning false cancels the run. A
// panicking callback is treated as cancellation.
type ProgressFunc func(fraction float32, status string) bool

// Settings is the one configuration value accepted per generation call.
// It is a plain value type with stable equality; Hash never includes
// pointers or addresses, so identical settings hash identically across
// runs.
type Settings struct {
	// SmoothingLevel 0..15; 0 disables smoothing.
	SmoothingLevel int
	// SmoothingAlgorithm picks the filter; Auto derives from the level.
	SmoothingAlgorithm smooth.Algorithm
	// PreserveTopology makes the smoother respect topology constraints.
	PreserveTopology bool
	// PreserveBoundaries locks vertices on boundary edges.
	PreserveBoundaries bool
	// PreserveSharpFeatures biases extraction vertices toward edge
	// intersections where normals diverge past SharpFeatureAngle.
	PreserveSharpFeatures bool
	// SharpFeatureAngle is the divergence threshold in degrees.
	SharpFeatureAngle float32
	// MinFeatureSize is the validator warning threshold in millimeters.
	MinFeatureSize float32
	// AdaptiveError is the QEF fallback tolerance in world units.
	AdaptiveError float32
	// GenerateNormals requests per-vertex normals on the final mesh.
	GenerateNormals bool
	// GenerateUVs requests box-projected texture coordinates.
	GenerateUVs bool
	// SimplificationRatio is the surviving triangle fraction; both 0 and
	// 1 disable decimation.
	SimplificationRatio float32
	// PreviewQuality divides smoothing iterations for interactive use.
	PreviewQuality smooth.PreviewQuality
	// LOD 0..4 downsamples the grid by 2^level before extraction.
	LOD int
}

// DefaultSettings returns the interactive defaults: raw blocky surface,
// normals on, no decimation, full resolution.
func DefaultSettings() Settings {
	return Settings{
		SmoothingAlgorithm:  smooth.Auto,
		PreserveTopology:    true,
		PreserveBoundaries:  true,
		SharpFeatureAngle:   30,
		MinFeatureSize:      1,
		AdaptiveError:       0.01,
		GenerateNormals:     true,
		SimplificationRatio: 1,
	}
}

// PreviewSettings returns fast-turnaround settings: one LOD step down,
// balanced preview smoothing at a moderate level.
func PreviewSettings() Settings {
	s := DefaultSettings()
	s.LOD = 1
	s.SmoothingLevel = 3
	s.PreviewQuality = smooth.PreviewBalanced

	return s
}

// ExportSettings returns fabrication-quality settings: sharp features
// preserved, full resolution, smoothing left to the caller.
func ExportSettings() Settings {
	s := DefaultSettings()
	s.PreserveSharpFeatures = true

	return s
}

// Validate checks every field range and returns ErrInvalidSettings on the
// first violation.
func (s *Settings) Validate() error {
	if s.SmoothingLevel < 0 || s.SmoothingLevel > smooth.MaxLevel {
		return ErrInvalidSettings
	}
	if s.SmoothingAlgorithm < smooth.Auto || s.SmoothingAlgorithm > smooth.BiLaplacian {
		return ErrInvalidSettings
	}
	if s.SharpFeatureAngle <= 0 || s.SharpFeatureAngle > 180 {
		return ErrInvalidSettings
	}
	if s.MinFeatureSize < 0 || s.AdaptiveError < 0 {
		return ErrInvalidSettings
	}
	if s.SimplificationRatio < 0 || s.SimplificationRatio > 1 {
		return ErrInvalidSettings
	}
	if s.PreviewQuality < smooth.PreviewDisabled || s.PreviewQuality > smooth.PreviewHighQuality {
		return ErrInvalidSettings
	}
	if s.LOD < 0 || s.LOD > voxel.MaxLOD {
		return ErrInvalidSettings
	}

	return nil
}

// Hash digests every field in a fixed order through FNV-1a. Stable across
// runs and processes.
func (s *Settings) Hash() uint64 {
	h := fnv.New64a()
	var buf [4]byte

	writeInt := func(v int) {
		binary.LittleEndian.PutUint32(buf[:], uint32(int32(v)))
		_, _ = h.Write(buf[:])
	}
	writeFloat := func(v float32) {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
		_, _ = h.Write(buf[:])
	}
	writeBool := func(v bool) {
		buf[0] = 0
		if v {
			buf[0] = 1
		}
		_, _ = h.Write(buf[:1])
	}

	writeInt(s.SmoothingLevel)
	writeInt(int(s.SmoothingAlgorithm))
	writeBool(s.PreserveTopology)
	writeBool(s.PreserveBoundaries)
	writeBool(s.PreserveSharpFeatures)
	writeFloat(s.SharpFeatureAngle)
	writeFloat(s.MinFeatureSize)
	writeFloat(s.AdaptiveError)
	writeBool(s.GenerateNormals)
	writeBool(s.GenerateUVs)
	writeFloat(s.SimplificationRatio)
	writeInt(int(s.PreviewQuality))
	writeInt(s.LOD)

	return h.Sum64()
}

// Equal reports field-for-field equality.
func (s Settings) Equal(o Settings) bool { return s == o }
