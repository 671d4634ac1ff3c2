package contour

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// TestQEFCornerSolve intersects three orthogonal planes: the minimizer is
// their common corner.
func TestQEFCornerSolve(t *testing.T) {
	var q qefSolver
	q.add(mgl32.Vec3{1, 0.5, 0.5}, mgl32.Vec3{1, 0, 0})
	q.add(mgl32.Vec3{0.5, 2, 0.5}, mgl32.Vec3{0, 1, 0})
	q.add(mgl32.Vec3{0.5, 0.5, 3}, mgl32.Vec3{0, 0, 1})

	pos, direct := q.solve()
	if !direct {
		t.Fatal("three orthogonal planes must solve directly")
	}
	want := mgl32.Vec3{1, 2, 3}
	if pos.Sub(want).Len() > 1e-4 {
		t.Errorf("solve = %v; want %v", pos, want)
	}
}

// TestQEFSingularFallsBack uses parallel planes: rank-1 system, mass-point
// fallback.
func TestQEFSingularFallsBack(t *testing.T) {
	var q qefSolver
	q.add(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, 0})
	q.add(mgl32.Vec3{2, 1, 2}, mgl32.Vec3{0, 1, 0})

	pos, direct := q.solve()
	if direct {
		t.Error("parallel planes must not solve directly")
	}
	want := mgl32.Vec3{1, 1, 1}
	if pos.Sub(want).Len() > 1e-5 {
		t.Errorf("fallback = %v; want mass point %v", pos, want)
	}
}

// TestQEFEmpty returns the origin without a direct solve.
func TestQEFEmpty(t *testing.T) {
	var q qefSolver
	pos, direct := q.solve()
	if direct || pos != (mgl32.Vec3{}) {
		t.Errorf("empty solve = (%v,%v); want origin, false", pos, direct)
	}
}

// TestQEFReset clears accumulated state.
func TestQEFReset(t *testing.T) {
	var q qefSolver
	q.add(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 0, 0})
	q.reset()
	if q.count != 0 || q.massPoint() != (mgl32.Vec3{}) {
		t.Error("reset left state behind")
	}
}
