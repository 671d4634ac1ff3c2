package validate

import (
	"github.com/chewxy/math32"
	"github.com/dhconnelly/rtreego"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/katalvlaran/voxelmesh/mesh"
)

// triBox is a triangle's bounding box registered in the sweep tree.
type triBox struct {
	rect *rtreego.Rect
	tri  int
}

// Bounds implements rtreego.Spatial.
func (t *triBox) Bounds() *rtreego.Rect { return t.rect }

// selfIntersects runs the budget-bounded sweep: triangle boxes go into an
// R-tree, each triangle tests only the boxes it overlaps, pairs sharing a
// vertex are skipped, and the whole scan stops once the pair budget is
// spent. Within the budget, "none found" reports false by contract.
func selfIntersects(m *mesh.Mesh, budget int) bool {
	n := m.TriangleCount()
	if n < 2 {
		return false
	}

	tree := rtreego.NewTree(3, 4, 16)
	boxes := make([]*triBox, n)
	for i := 0; i < n; i++ {
		boxes[i] = &triBox{rect: triRect(m, i), tri: i}
		tree.Insert(boxes[i])
	}

	pairs := 0
	for i := 0; i < n && pairs < budget; i++ {
		a0, a1, a2 := triVerts(m, i)
		for _, hit := range tree.SearchIntersect(boxes[i].rect) {
			j := hit.(*triBox).tri
			if j <= i {
				continue
			}
			if sharesVertex(m, i, j) {
				continue
			}
			pairs++
			b0, b1, b2 := triVerts(m, j)
			if trianglesIntersect(a0, a1, a2, b0, b1, b2) {
				return true
			}
			if pairs >= budget {
				break
			}
		}
	}

	return false
}

// triRect builds the fattened world box of triangle i; rtreego requires
// strictly positive extents.
func triRect(m *mesh.Mesh, i int) *rtreego.Rect {
	v0, v1, v2 := triVerts(m, i)
	lo := [3]float64{}
	hi := [3]float64{}
	for a := 0; a < 3; a++ {
		lo[a] = float64(math32.Min(v0[a], math32.Min(v1[a], v2[a]))) - 1e-6
		hi[a] = float64(math32.Max(v0[a], math32.Max(v1[a], v2[a]))) + 1e-6
	}
	rect, err := rtreego.NewRect(
		rtreego.Point{lo[0], lo[1], lo[2]},
		[]float64{hi[0] - lo[0], hi[1] - lo[1], hi[2] - lo[2]},
	)
	if err != nil {
		// Extents are fattened above; an error here is unreachable.
		panic(err)
	}

	return rect
}

func triVerts(m *mesh.Mesh, i int) (mgl32.Vec3, mgl32.Vec3, mgl32.Vec3) {
	return m.Vertices[m.Indices[3*i]],
		m.Vertices[m.Indices[3*i+1]],
		m.Vertices[m.Indices[3*i+2]]
}

func sharesVertex(m *mesh.Mesh, i, j int) bool {
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			if m.Indices[3*i+a] == m.Indices[3*j+b] {
				return true
			}
		}
	}

	return false
}

// trianglesIntersect tests whether any edge of one triangle pierces the
// other's interior. Coplanar overlap is intentionally not detected; the
// sweep is a bounded screen, not an exact arrangement.
func trianglesIntersect(a0, a1, a2, b0, b1, b2 mgl32.Vec3) bool {
	return edgePierces(a0, a1, b0, b1, b2) ||
		edgePierces(a1, a2, b0, b1, b2) ||
		edgePierces(a2, a0, b0, b1, b2) ||
		edgePierces(b0, b1, a0, a1, a2) ||
		edgePierces(b1, b2, a0, a1, a2) ||
		edgePierces(b2, b0, a0, a1, a2)
}

// edgePierces intersects segment (p,q) with triangle (t0,t1,t2) using the
// plane-parameter plus barycentric containment test.
func edgePierces(p, q, t0, t1, t2 mgl32.Vec3) bool {
	e1 := t1.Sub(t0)
	e2 := t2.Sub(t0)
	n := e1.Cross(e2)
	if n.Len() < 1e-12 {
		return false
	}

	dir := q.Sub(p)
	denom := n.Dot(dir)
	if math32.Abs(denom) < 1e-12 {
		// Parallel to the plane.
		return false
	}
	t := n.Dot(t0.Sub(p)) / denom
	if t <= 1e-6 || t >= 1-1e-6 {
		return false
	}
	hit := p.Add(dir.Mul(t))

	// Barycentric containment.
	v0 := e1
	v1 := e2
	v2 := hit.Sub(t0)
	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)
	det := d00*d11 - d01*d01
	if math32.Abs(det) < 1e-12 {
		return false
	}
	bv := (d11*d20 - d01*d21) / det
	bw := (d00*d21 - d01*d20) / det

	return bv > 1e-6 && bw > 1e-6 && bv+bw < 1-1e-6
}
