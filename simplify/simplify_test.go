package simplify

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/voxelmesh/mesh"
	"github.com/katalvlaran/voxelmesh/topo"
	"github.com/katalvlaran/voxelmesh/validate"
)

// gridMesh builds an n x n vertex sheet in the XZ plane, two triangles
// per quad.
func gridMesh(n int) *mesh.Mesh {
	m := &mesh.Mesh{}
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			m.Vertices = append(m.Vertices, mgl32.Vec3{float32(x), 0, float32(z)})
		}
	}
	idx := func(x, z int) uint32 { return uint32(z*n + x) }
	for z := 0; z+1 < n; z++ {
		for x := 0; x+1 < n; x++ {
			a, b := idx(x, z), idx(x+1, z)
			c, d := idx(x+1, z+1), idx(x, z+1)
			m.Indices = append(m.Indices, a, b, c, a, c, d)
		}
	}
	m.ComputeBounds()

	return m
}

// TestSimplifyIdentityRatio: ratio 1.0 keeps the triangle count.
func TestSimplifyIdentityRatio(t *testing.T) {
	m := gridMesh(6)
	opts := DefaultOptions()
	opts.TargetRatio = 1.0

	out, err := Simplify(m, opts)
	require.NoError(t, err)
	require.Equal(t, m.TriangleCount(), out.TriangleCount())
	require.Equal(t, m.Indices, out.Indices)
}

// TestSimplifyReducesGrid halves a flat sheet while keeping it a valid
// mesh with its boundary pinned.
func TestSimplifyReducesGrid(t *testing.T) {
	m := gridMesh(10)
	original := m.TriangleCount()

	opts := DefaultOptions()
	opts.TargetRatio = 0.5
	out, err := Simplify(m, opts)
	require.NoError(t, err)

	require.Less(t, out.TriangleCount(), original)
	require.NoError(t, out.Validate())

	// Boundary corners survive in place.
	corners := []mgl32.Vec3{
		{0, 0, 0}, {9, 0, 0}, {0, 0, 9}, {9, 0, 9},
	}
	for _, want := range corners {
		found := false
		for _, v := range out.Vertices {
			if v == want {
				found = true

				break
			}
		}
		require.True(t, found, "boundary corner %v must survive", want)
	}
}

// TestSimplifyTargetReached: the collapse loop stops within one collapse
// of the requested count on a mesh with ample safe collapses.
func TestSimplifyTargetReached(t *testing.T) {
	m := gridMesh(12)
	original := m.TriangleCount()
	target := original / 2

	opts := DefaultOptions()
	opts.TargetRatio = 0.5
	out, err := Simplify(m, opts)
	require.NoError(t, err)
	require.GreaterOrEqual(t, out.TriangleCount(), target-2)
	require.LessOrEqual(t, out.TriangleCount(), target+2)
}

// TestSimplifyPreservesTopologyGenus keeps the torus a torus.
func TestSimplifyPreservesTopologyGenus(t *testing.T) {
	m := torusMesh(16, 12)
	require.Equal(t, 1, topo.Genus(m))

	opts := DefaultOptions()
	opts.TargetRatio = 0.6
	opts.PreserveBoundary = false
	out, err := Simplify(m, opts)
	require.NoError(t, err)

	require.Less(t, out.TriangleCount(), m.TriangleCount())
	require.Equal(t, 1, topo.Genus(out), "decimation must not change genus")
	require.True(t, validate.Validate(out, 0).Watertight)
}

// TestSimplifyErrorCeiling stops before the count when costs exceed the
// ceiling.
func TestSimplifyErrorCeiling(t *testing.T) {
	m := torusMesh(16, 12)
	opts := DefaultOptions()
	opts.TargetRatio = 0.1
	opts.PreserveBoundary = false
	opts.MaxError = 1e-12

	out, err := Simplify(m, opts)
	require.NoError(t, err)
	// A curved surface has no zero-cost collapse: nothing happens.
	require.Equal(t, m.TriangleCount(), out.TriangleCount())
}

// TestSimplifyOptionValidation rejects bad ratios and ceilings.
func TestSimplifyOptionValidation(t *testing.T) {
	m := gridMesh(4)
	for _, mut := range []func(*Options){
		func(o *Options) { o.TargetRatio = 0 },
		func(o *Options) { o.TargetRatio = 1.5 },
		func(o *Options) { o.MaxError = -1 },
	} {
		opts := DefaultOptions()
		mut(&opts)
		_, err := Simplify(m, opts)
		require.ErrorIs(t, err, ErrBadOptions)
	}
}

// TestSimplifyCancellation surfaces ErrCancelled.
func TestSimplifyCancellation(t *testing.T) {
	m := gridMesh(12)
	opts := DefaultOptions()
	opts.TargetRatio = 0.3
	opts.Progress = func(float32) bool { return false }
	_, err := Simplify(m, opts)
	require.ErrorIs(t, err, ErrCancelled)
}

// torusMesh builds a closed torus grid (genus 1).
func torusMesh(nu, nv int) *mesh.Mesh {
	m := &mesh.Mesh{}
	const major, minor = 1.0, 0.3
	for i := 0; i < nu; i++ {
		u := 2 * math.Pi * float64(i) / float64(nu)
		for j := 0; j < nv; j++ {
			v := 2 * math.Pi * float64(j) / float64(nv)
			ring := major + minor*math.Cos(v)
			m.Vertices = append(m.Vertices, mgl32.Vec3{
				float32(ring * math.Cos(u)),
				float32(minor*math.Sin(v) + 1),
				float32(ring * math.Sin(u)),
			})
		}
	}
	idx := func(i, j int) uint32 { return uint32(((i%nu)+nu)%nu*nv + ((j%nv)+nv)%nv) }
	for i := 0; i < nu; i++ {
		for j := 0; j < nv; j++ {
			a, b := idx(i, j), idx(i+1, j)
			c, d := idx(i+1, j+1), idx(i, j+1)
			m.Indices = append(m.Indices, a, b, c, a, c, d)
		}
	}
	m.ComputeBounds()

	return m
}
