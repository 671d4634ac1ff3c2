package simplify

import (
	"container/heap"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/katalvlaran/voxelmesh/mesh"
	"github.com/katalvlaran/voxelmesh/topo"
)

// Simplify decimates m to opts.TargetRatio of its triangle count and
// returns a new mesh; the input is never mutated. A ratio of 1 (or a mesh
// already at or below the target) returns a clone. Normals are recomputed
// when the input carried them; UVs are dropped because collapse targets
// have no canonical texture coordinate.
func Simplify(m *mesh.Mesh, opts Options) (*mesh.Mesh, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}

	original := m.TriangleCount()
	target := int(float64(original) * float64(opts.TargetRatio))
	if opts.TargetRatio >= 1 || original <= target || original == 0 {
		return m.Clone(), nil
	}

	a := newArena(m, opts)
	a.computeQuadrics()
	a.buildQueue()

	// Collapse loop: cheapest first, stale entries dropped by generation.
	needed := original - target
	for a.aliveTris > target && a.queue.Len() > 0 {
		done := original - a.aliveTris
		if done%64 == 0 {
			if !progressOK(opts, float32(done)/float32(needed)) || pollCancel(opts) {
				return nil, ErrCancelled
			}
		}

		entry := heap.Pop(&a.queue).(queueEntry)
		e := &a.edges[entry.edge]
		if e.removed || entry.gen != e.gen {
			continue
		}
		if opts.MaxError > 0 && entry.cost > opts.MaxError {
			// Error ceiling reached; everything left is costlier.
			break
		}
		if opts.PreserveTopology && !a.collapseSafe(e) {
			continue
		}
		a.collapse(entry.edge)
	}
	progressOK(opts, 1)

	out := a.compact()
	if len(m.Normals) > 0 {
		out.ComputeNormals()
	}
	out.ComputeBounds()

	return out, nil
}

// queueEntry is one (cost, edge, generation) heap record.
type queueEntry struct {
	cost float64
	edge int
	gen  int
}

// costHeap implements container/heap over queue entries.
type costHeap []queueEntry

func (h costHeap) Len() int            { return len(h) }
func (h costHeap) Less(i, j int) bool  { return h[i].cost < h[j].cost }
func (h costHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *costHeap) Push(x interface{}) { *h = append(*h, x.(queueEntry)) }
func (h *costHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]

	return e
}

// arena holds the three index-addressed record pools of one run.
type arena struct {
	verts     []simpVertex
	tris      []simpTri
	edges     []simpEdge
	edgeIndex map[uint64]int
	queue     costHeap
	aliveTris int
	opts      Options
}

type simpVertex struct {
	pos      mgl32.Vec3
	q        quadric
	tris     []int
	edges    []int
	boundary bool
	removed  bool
}

type simpTri struct {
	v       [3]int
	removed bool
}

type simpEdge struct {
	u, v    int
	cost    float64
	target  mgl32.Vec3
	gen     int
	removed bool
}

func (e *simpEdge) other(x int) int {
	if e.u == x {
		return e.v
	}

	return e.u
}

// newArena ingests the mesh into flat records.
func newArena(m *mesh.Mesh, opts Options) *arena {
	a := &arena{
		verts:     make([]simpVertex, m.VertexCount()),
		tris:      make([]simpTri, 0, m.TriangleCount()),
		edgeIndex: make(map[uint64]int, len(m.Indices)),
		aliveTris: m.TriangleCount(),
		opts:      opts,
	}
	for i, p := range m.Vertices {
		a.verts[i].pos = p
	}
	if opts.PreserveBoundary {
		for _, v := range topo.BoundaryVertices(m) {
			a.verts[v].boundary = true
		}
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		t := len(a.tris)
		tri := simpTri{v: [3]int{int(m.Indices[i]), int(m.Indices[i+1]), int(m.Indices[i+2])}}
		a.tris = append(a.tris, tri)
		for k := 0; k < 3; k++ {
			a.verts[tri.v[k]].tris = append(a.verts[tri.v[k]].tris, t)
			a.ensureEdge(tri.v[k], tri.v[(k+1)%3])
		}
	}

	return a
}

// ensureEdge registers the undirected edge once and links it from both
// endpoints.
func (a *arena) ensureEdge(u, v int) {
	key := topo.EdgeKey(uint32(u), uint32(v))
	if _, ok := a.edgeIndex[key]; ok {
		return
	}
	idx := len(a.edges)
	a.edges = append(a.edges, simpEdge{u: u, v: v})
	a.edgeIndex[key] = idx
	a.verts[u].edges = append(a.verts[u].edges, idx)
	a.verts[v].edges = append(a.verts[v].edges, idx)
}

// computeQuadrics sums each incident triangle's plane quadric onto its
// three vertices.
func (a *arena) computeQuadrics() {
	for i := range a.tris {
		t := &a.tris[i]
		p0 := a.verts[t.v[0]].pos
		p1 := a.verts[t.v[1]].pos
		p2 := a.verts[t.v[2]].pos
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		length := n.Len()
		if length < 1e-12 {
			continue
		}
		n = n.Mul(1 / length)
		d := -float64(n.Dot(p0))
		for k := 0; k < 3; k++ {
			a.verts[t.v[k]].q.addPlane(n, d)
		}
	}
}

// buildQueue scores every edge and heapifies.
func (a *arena) buildQueue() {
	a.queue = make(costHeap, 0, len(a.edges))
	for i := range a.edges {
		a.scoreEdge(i)
		if !math.IsInf(a.edges[i].cost, 1) {
			a.queue = append(a.queue, queueEntry{cost: a.edges[i].cost, edge: i, gen: a.edges[i].gen})
		}
	}
	heap.Init(&a.queue)
}

// scoreEdge computes the collapse target and cost for edge i.
func (a *arena) scoreEdge(i int) {
	e := &a.edges[i]
	vu, vv := &a.verts[e.u], &a.verts[e.v]
	if a.opts.PreserveBoundary && (vu.boundary || vv.boundary) {
		e.cost = math.Inf(1)

		return
	}

	q := vu.q.sum(&vv.q)
	target, ok := q.minimize()
	if !ok {
		// Singular: cheapest of the endpoints and the midpoint.
		mid := vu.pos.Add(vv.pos).Mul(0.5)
		target = vu.pos
		best := q.evaluate(vu.pos)
		if c := q.evaluate(vv.pos); c < best {
			best, target = c, vv.pos
		}
		if c := q.evaluate(mid); c < best {
			target = mid
		}
	}
	e.target = target
	e.cost = q.evaluate(target)
	if e.cost < 0 {
		// Quadrics are positive semidefinite; tiny negatives are float
		// round-off.
		e.cost = 0
	}
}

// collapseSafe applies the topology guards: the link condition (common
// neighbors must all come from shared triangles) and the normal-flip
// test on every surviving triangle.
func (a *arena) collapseSafe(e *simpEdge) bool {
	shared := a.sharedTriangles(e.u, e.v)

	common := 0
	seen := make(map[int]bool)
	for _, ei := range a.verts[e.u].edges {
		if !a.edges[ei].removed {
			seen[a.edges[ei].other(e.u)] = true
		}
	}
	for _, ei := range a.verts[e.v].edges {
		if !a.edges[ei].removed && seen[a.edges[ei].other(e.v)] {
			common++
		}
	}
	if common != shared {
		return false
	}

	return !a.wouldFlip(e.u, e.v, e.target) && !a.wouldFlip(e.v, e.u, e.target)
}

// sharedTriangles counts alive triangles containing both u and v.
func (a *arena) sharedTriangles(u, v int) int {
	n := 0
	for _, t := range a.verts[u].tris {
		tri := &a.tris[t]
		if tri.removed {
			continue
		}
		if tri.has(v) {
			n++
		}
	}

	return n
}

func (t *simpTri) has(v int) bool {
	return t.v[0] == v || t.v[1] == v || t.v[2] == v
}

// wouldFlip reports whether moving `moved` to target flips any surviving
// triangle incident to it (triangles also containing the collapse partner
// disappear and are exempt).
func (a *arena) wouldFlip(moved, partner int, target mgl32.Vec3) bool {
	for _, t := range a.verts[moved].tris {
		tri := &a.tris[t]
		if tri.removed || tri.has(partner) {
			continue
		}
		var before, after [3]mgl32.Vec3
		for k := 0; k < 3; k++ {
			before[k] = a.verts[tri.v[k]].pos
			after[k] = before[k]
			if tri.v[k] == moved {
				after[k] = target
			}
		}
		n0 := before[1].Sub(before[0]).Cross(before[2].Sub(before[0]))
		n1 := after[1].Sub(after[0]).Cross(after[2].Sub(after[0]))
		if n0.Dot(n1) <= 0 {
			return true
		}
	}

	return false
}

// collapse merges edge i's v endpoint into u at the precomputed target,
// tombstoning dead records and rescoring the surviving neighborhood.
func (a *arena) collapse(i int) {
	e := &a.edges[i]
	u, v := e.u, e.v
	e.removed = true
	delete(a.edgeIndex, topo.EdgeKey(uint32(u), uint32(v)))

	vu, vv := &a.verts[u], &a.verts[v]
	vu.pos = e.target
	vu.q.add(&vv.q)
	vu.boundary = vu.boundary || vv.boundary
	vv.removed = true

	// Retarget or drop the triangles around v.
	for _, t := range vv.tris {
		tri := &a.tris[t]
		if tri.removed {
			continue
		}
		if tri.has(u) {
			tri.removed = true
			a.aliveTris--

			continue
		}
		for k := 0; k < 3; k++ {
			if tri.v[k] == v {
				tri.v[k] = u
			}
		}
		vu.tris = append(vu.tris, t)
	}
	vv.tris = nil

	// Rewrite v's edges onto u, merging duplicates.
	for _, ei := range vv.edges {
		ed := &a.edges[ei]
		if ed.removed {
			continue
		}
		other := ed.other(v)
		if other == u {
			ed.removed = true

			continue
		}
		oldKey := topo.EdgeKey(uint32(v), uint32(other))
		delete(a.edgeIndex, oldKey)
		newKey := topo.EdgeKey(uint32(u), uint32(other))
		if _, dup := a.edgeIndex[newKey]; dup {
			ed.removed = true

			continue
		}
		ed.u, ed.v = u, other
		a.edgeIndex[newKey] = ei
		vu.edges = append(vu.edges, ei)
	}
	vv.edges = nil

	// Rescore the surviving star of u; generation bumps invalidate every
	// stale queue entry.
	for _, ei := range vu.edges {
		ed := &a.edges[ei]
		if ed.removed {
			continue
		}
		ed.gen++
		a.scoreEdge(ei)
		if !math.IsInf(ed.cost, 1) {
			heap.Push(&a.queue, queueEntry{cost: ed.cost, edge: ei, gen: ed.gen})
		}
	}
}

// compact rebuilds a dense mesh from the alive records.
func (a *arena) compact() *mesh.Mesh {
	out := &mesh.Mesh{}
	remap := make([]uint32, len(a.verts))
	for i := range a.verts {
		if a.verts[i].removed {
			continue
		}
		remap[i] = uint32(len(out.Vertices))
		out.Vertices = append(out.Vertices, a.verts[i].pos)
	}
	for i := range a.tris {
		tri := &a.tris[i]
		if tri.removed {
			continue
		}
		out.Indices = append(out.Indices,
			remap[tri.v[0]], remap[tri.v[1]], remap[tri.v[2]])
	}

	return out
}

func progressOK(opts Options, fraction float32) (ok bool) {
	if opts.Progress == nil {
		return true
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	return opts.Progress(fraction)
}

func pollCancel(opts Options) bool {
	return opts.Cancel != nil && opts.Cancel()
}
