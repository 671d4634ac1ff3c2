package contour_test

import (
	"sort"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/voxelmesh/contour"
	"github.com/katalvlaran/voxelmesh/voxel"
)

// newGrid builds a 5m workspace grid at 32cm cells with the given cells
// occupied.
func newGrid(t *testing.T, coords ...voxel.Coord) *voxel.SparseGrid {
	t.Helper()
	g, err := voxel.NewSparseGrid(voxel.Res32cm, mgl32.Vec3{5, 5, 5})
	require.NoError(t, err)
	require.NoError(t, g.Fill(coords...))

	return g
}

// TestExtractEmptyGrid short-circuits to an empty mesh without error.
func TestExtractEmptyGrid(t *testing.T) {
	g := newGrid(t)
	qm, err := contour.New().Extract(g, contour.DefaultOptions())
	require.NoError(t, err)
	require.True(t, qm.IsEmpty())
	require.Zero(t, qm.QuadCount())
}

// TestExtractNilGrid surfaces ErrNilGrid.
func TestExtractNilGrid(t *testing.T) {
	_, err := contour.New().Extract(nil, contour.DefaultOptions())
	require.ErrorIs(t, err, contour.ErrNilGrid)
}

// TestExtractOptionsValidation rejects out-of-range options.
func TestExtractOptionsValidation(t *testing.T) {
	g := newGrid(t, voxel.C(0, 0, 0))

	opts := contour.DefaultOptions()
	opts.SharpFeatureAngle = -5
	_, err := contour.New().Extract(g, opts)
	require.ErrorIs(t, err, contour.ErrBadOptions)

	opts = contour.DefaultOptions()
	opts.AdaptiveError = -1
	_, err = contour.New().Extract(g, opts)
	require.ErrorIs(t, err, contour.ErrBadOptions)
}

// TestExtractSingleCell produces the eight-vertex, six-quad cube around
// one occupied cell, clamped above the ground plane.
func TestExtractSingleCell(t *testing.T) {
	g := newGrid(t, voxel.C(0, 0, 0))
	qm, err := contour.New().Extract(g, contour.DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, 8, len(qm.Vertices))
	require.Equal(t, 6, qm.QuadCount())

	// Bounds of the extracted corners: ±0.16 in x,z and 0..0.32 in y.
	lo := mgl32.Vec3{99, 99, 99}
	hi := mgl32.Vec3{-99, -99, -99}
	for _, v := range qm.Vertices {
		for i := 0; i < 3; i++ {
			if v[i] < lo[i] {
				lo[i] = v[i]
			}
			if v[i] > hi[i] {
				hi[i] = v[i]
			}
		}
		require.GreaterOrEqual(t, v.Y(), float32(0), "no vertex below ground")
	}
	requireVecNear(t, mgl32.Vec3{-0.16, 0, -0.16}, lo, 0.02)
	requireVecNear(t, mgl32.Vec3{0.16, 0.32, 0.16}, hi, 0.02)
}

// TestExtractTwoCells shares the interior face away: ten quads rather
// than twelve.
func TestExtractTwoCells(t *testing.T) {
	g := newGrid(t, voxel.C(0, 0, 0), voxel.C(1, 0, 0))
	qm, err := contour.New().Extract(g, contour.DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, 12, len(qm.Vertices))
	require.Equal(t, 10, qm.QuadCount())

	var maxX float32
	for _, v := range qm.Vertices {
		if v.X() > maxX {
			maxX = v.X()
		}
	}
	require.InDelta(t, 0.48, float64(maxX), 0.02)
}

// TestExtractDeterministic re-runs extraction and compares vertex sets.
func TestExtractDeterministic(t *testing.T) {
	g := newGrid(t, voxel.C(0, 0, 0), voxel.C(1, 0, 0), voxel.C(0, 1, 0))

	a, err := contour.New().Extract(g, contour.DefaultOptions())
	require.NoError(t, err)
	b, err := contour.New().Extract(g, contour.DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, a.Vertices, b.Vertices)
	require.Equal(t, a.Quads, b.Quads)
}

// TestExtractSparseMatchesReference compares the cached variant with the
// reference up to vertex ordering.
func TestExtractSparseMatchesReference(t *testing.T) {
	g := newGrid(t,
		voxel.C(0, 0, 0), voxel.C(1, 0, 0), voxel.C(1, 1, 0),
		voxel.C(0, 0, 1), voxel.C(2, 0, 0),
	)

	ref, err := contour.New().Extract(g, contour.DefaultOptions())
	require.NoError(t, err)
	sp, err := contour.NewSparse().Extract(g, contour.DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, len(ref.Vertices), len(sp.Vertices))
	require.Equal(t, ref.QuadCount(), sp.QuadCount())
	require.Equal(t, sortedPositions(ref.Vertices), sortedPositions(sp.Vertices))
}

// TestExtractCancellation returns ErrCancelled from the progress callback.
func TestExtractCancellation(t *testing.T) {
	g := newGrid(t, voxel.C(0, 0, 0))

	opts := contour.DefaultOptions()
	opts.Progress = func(float32) bool { return false }
	_, err := contour.New().Extract(g, opts)
	require.ErrorIs(t, err, contour.ErrCancelled)

	opts = contour.DefaultOptions()
	opts.Cancel = func() bool { return true }
	_, err = contour.New().Extract(g, opts)
	require.ErrorIs(t, err, contour.ErrCancelled)
}

// TestExtractPanickingProgress treats a throwing callback as cancellation.
func TestExtractPanickingProgress(t *testing.T) {
	g := newGrid(t, voxel.C(0, 0, 0))

	opts := contour.DefaultOptions()
	opts.Progress = func(float32) bool { panic("listener failure") }
	_, err := contour.New().Extract(g, opts)
	require.ErrorIs(t, err, contour.ErrCancelled)
}

// TestExtractProgressMonotonic checks nondecreasing fractions in [0,1].
func TestExtractProgressMonotonic(t *testing.T) {
	g := newGrid(t, voxel.C(0, 0, 0), voxel.C(1, 0, 0))

	last := float32(-1)
	opts := contour.DefaultOptions()
	opts.Progress = func(f float32) bool {
		require.GreaterOrEqual(t, f, last)
		require.LessOrEqual(t, f, float32(1))
		last = f

		return true
	}
	_, err := contour.New().Extract(g, opts)
	require.NoError(t, err)
	require.InDelta(t, 1.0, float64(last), 1e-6)
}

// TestExtractSharpFeatureToggle: enabling the bias blends corner vertices
// toward the mean intersection position, pulling them strictly inside the
// plain QEF corners while keeping the topology unchanged.
func TestExtractSharpFeatureToggle(t *testing.T) {
	g := newGrid(t, voxel.C(0, 0, 0))

	opts := contour.DefaultOptions()
	plain, err := contour.New().Extract(g, opts)
	require.NoError(t, err)

	opts.PreserveSharpFeatures = true
	sharp, err := contour.New().Extract(g, opts)
	require.NoError(t, err)

	require.Equal(t, len(plain.Vertices), len(sharp.Vertices))
	require.Equal(t, plain.QuadCount(), sharp.QuadCount())

	// The blended cube is strictly narrower on x.
	require.Less(t, float64(maxAbsX(sharp.Vertices)), float64(maxAbsX(plain.Vertices)))
}

func maxAbsX(vs []mgl32.Vec3) float32 {
	var m float32
	for _, v := range vs {
		x := v.X()
		if x < 0 {
			x = -x
		}
		if x > m {
			m = x
		}
	}

	return m
}

func sortedPositions(vs []mgl32.Vec3) []mgl32.Vec3 {
	out := append([]mgl32.Vec3(nil), vs...)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		for k := 0; k < 3; k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}

		return false
	})

	return out
}

func requireVecNear(t *testing.T, want, got mgl32.Vec3, eps float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		require.InDelta(t, float64(want[i]), float64(got[i]), eps)
	}
}
