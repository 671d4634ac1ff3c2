package simplify

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// quadric is a symmetric 4x4 error matrix stored as its upper triangle:
// a11 a12 a13 a14 a22 a23 a24 a33 a34 a44.
type quadric struct {
	m [10]float64
}

// addPlane accumulates the plane quadric of n·x + d = 0 with unit n.
func (q *quadric) addPlane(n mgl32.Vec3, d float64) {
	a, b, c := float64(n.X()), float64(n.Y()), float64(n.Z())
	q.m[0] += a * a
	q.m[1] += a * b
	q.m[2] += a * c
	q.m[3] += a * d
	q.m[4] += b * b
	q.m[5] += b * c
	q.m[6] += b * d
	q.m[7] += c * c
	q.m[8] += c * d
	q.m[9] += d * d
}

// add sums another quadric into q.
func (q *quadric) add(o *quadric) {
	for i := range q.m {
		q.m[i] += o.m[i]
	}
}

// sum returns q + o without mutating either.
func (q quadric) sum(o *quadric) quadric {
	q.add(o)

	return q
}

// evaluate computes vᵀ·Q·v at the homogeneous point (x,y,z,1).
func (q *quadric) evaluate(v mgl32.Vec3) float64 {
	x, y, z := float64(v.X()), float64(v.Y()), float64(v.Z())

	return q.m[0]*x*x + 2*q.m[1]*x*y + 2*q.m[2]*x*z + 2*q.m[3]*x +
		q.m[4]*y*y + 2*q.m[5]*y*z + 2*q.m[6]*y +
		q.m[7]*z*z + 2*q.m[8]*z +
		q.m[9]
}

// minimizerEps rejects near-singular leading systems.
const minimizerEps = 1e-10

// minimize solves the 3x3 leading system ∇(vᵀQv) = 0 for the point of
// minimum error. The second result is false when the system is singular
// and the caller should fall back to an endpoint or the midpoint.
func (q *quadric) minimize() (mgl32.Vec3, bool) {
	a11, a12, a13 := q.m[0], q.m[1], q.m[2]
	a22, a23 := q.m[4], q.m[5]
	a33 := q.m[7]
	b1, b2, b3 := -q.m[3], -q.m[6], -q.m[8]

	det := a11*(a22*a33-a23*a23) - a12*(a12*a33-a23*a13) + a13*(a12*a23-a22*a13)
	if math.Abs(det) < minimizerEps {
		return mgl32.Vec3{}, false
	}
	inv := 1 / det
	x := (b1*(a22*a33-a23*a23) - a12*(b2*a33-a23*b3) + a13*(b2*a23-a22*b3)) * inv
	y := (a11*(b2*a33-a23*b3) - b1*(a12*a33-a23*a13) + a13*(a12*b3-b2*a13)) * inv
	z := (a11*(a22*b3-b2*a23) - a12*(a12*b3-b2*a13) + b1*(a12*a23-a22*a13)) * inv
	if math.IsNaN(x) || math.IsNaN(y) || math.IsNaN(z) {
		return mgl32.Vec3{}, false
	}

	return mgl32.Vec3{float32(x), float32(y), float32(z)}, true
}
