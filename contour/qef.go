package contour

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// choleskyEps guards the decomposition against indefinite systems.
const choleskyEps = 1e-6

// qefSolver accumulates the symmetric 3x3 system A = Σ n·nᵀ,
// b = Σ (n·p)·n over the crossing planes of one cell. The solver is a
// value type reset per cell; it never allocates.
type qefSolver struct {
	// ata holds the upper triangle: [xx xy xz yy yz zz].
	ata [6]float32
	atb [3]float32
	// massSum accumulates intersection positions for the fallback.
	massSum mgl32.Vec3
	count   int
}

// add accumulates one plane through p with unit normal n.
func (q *qefSolver) add(p, n mgl32.Vec3) {
	q.ata[0] += n.X() * n.X()
	q.ata[1] += n.X() * n.Y()
	q.ata[2] += n.X() * n.Z()
	q.ata[3] += n.Y() * n.Y()
	q.ata[4] += n.Y() * n.Z()
	q.ata[5] += n.Z() * n.Z()

	d := n.Dot(p)
	q.atb[0] += n.X() * d
	q.atb[1] += n.Y() * d
	q.atb[2] += n.Z() * d

	q.massSum = q.massSum.Add(p)
	q.count++
}

// massPoint returns the average intersection position.
func (q *qefSolver) massPoint() mgl32.Vec3 {
	if q.count == 0 {
		return mgl32.Vec3{}
	}

	return q.massSum.Mul(1 / float32(q.count))
}

// solve minimizes the accumulated QEF. On a singular system (any pivot
// falling below choleskyEps after decomposition) it returns the mass
// point. The second result reports whether the direct solve succeeded.
func (q *qefSolver) solve() (mgl32.Vec3, bool) {
	if q.count == 0 {
		return mgl32.Vec3{}, false
	}

	// Cholesky decomposition of [0 1 2; 1 3 4; 2 4 5].
	var l [6]float32
	if q.ata[0] < choleskyEps {
		return q.massPoint(), false
	}
	l[0] = math32.Sqrt(q.ata[0])
	l[1] = q.ata[1] / l[0]
	l[2] = q.ata[2] / l[0]

	t := q.ata[3] - l[1]*l[1]
	if t < choleskyEps {
		return q.massPoint(), false
	}
	l[3] = math32.Sqrt(t)
	l[4] = (q.ata[4] - l[1]*l[2]) / l[3]

	t = q.ata[5] - l[2]*l[2] - l[4]*l[4]
	if t < choleskyEps {
		return q.massPoint(), false
	}
	l[5] = math32.Sqrt(t)

	// Forward substitution L·y = b.
	var y [3]float32
	y[0] = q.atb[0] / l[0]
	y[1] = (q.atb[1] - l[1]*y[0]) / l[3]
	y[2] = (q.atb[2] - l[2]*y[0] - l[4]*y[1]) / l[5]

	// Back substitution Lᵀ·x = y.
	var x [3]float32
	x[2] = y[2] / l[5]
	x[1] = (y[1] - l[4]*x[2]) / l[3]
	x[0] = (y[0] - l[1]*x[1] - l[2]*x[2]) / l[0]

	return mgl32.Vec3{x[0], x[1], x[2]}, true
}

// reset clears the accumulator for the next cell.
func (q *qefSolver) reset() {
	*q = qefSolver{}
}

// finite reports whether every component of v is a finite number.
func finite(v mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if math32.IsNaN(v[i]) || math32.IsInf(v[i], 0) {
			return false
		}
	}

	return true
}
