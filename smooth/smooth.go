package smooth

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/kelindar/bitmap"

	"github.com/katalvlaran/voxelmesh/mesh"
	"github.com/katalvlaran/voxelmesh/topo"
)

// Smooth returns a relaxed copy of m. Connectivity, vertex count, and
// attribute layout are identical to the input; only positions change (and
// normals are recomputed when present). A nil cons with PreserveTopology
// set derives constraints from topology analysis of m itself.
//
// Cancellation returns (nil, ErrCancelled); callers treat it as a flag.
// Complexity: O(iterations · (V + T)).
func Smooth(m *mesh.Mesh, opts Options, cons *topo.Constraints) (*mesh.Mesh, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}

	// Level 0 or None is the identity.
	algo := opts.Algorithm
	if algo == Auto {
		algo = AlgorithmForLevel(opts.Level)
	}
	if opts.Level == 0 || algo == None {
		return m.Clone(), nil
	}

	iterations := previewIterations(IterationsForLevel(opts.Level, algo), opts.Preview)
	if opts.Preview == PreviewFast {
		algo = Laplacian
	}
	if iterations == 0 || m.VertexCount() == 0 {
		return m.Clone(), nil
	}

	// Topology constraints: supplied, derived, or absent.
	var constraints topo.Constraints
	switch {
	case cons != nil:
		constraints = *cons
	case opts.PreserveTopology:
		constraints = topo.Synthesize(topo.Analyze(m))
	default:
		constraints = topo.DefaultConstraints()
	}

	// Boundary lock: an indicator bitset the size of the vertex array.
	var boundary bitmap.Bitmap
	if opts.PreserveBoundaries {
		for _, v := range topo.BoundaryVertices(m) {
			boundary.Set(v)
		}
	}

	st := &state{
		neighbors: vertexNeighbors(m),
		cons:      &constraints,
		boundary:  boundary,
		orig:      append([]mgl32.Vec3(nil), m.Vertices...),
		curr:      append([]mgl32.Vec3(nil), m.Vertices...),
		next:      make([]mgl32.Vec3, m.VertexCount()),
	}

	for iter := 0; iter < iterations; iter++ {
		if !reportProgress(opts, float32(iter)/float32(iterations)) || isCancelled(opts) {
			return nil, ErrCancelled
		}
		switch algo {
		case Taubin:
			// λ on even passes, µ on odd ones.
			factor := opts.Lambda
			if iter%2 == 1 {
				factor = opts.Mu
			}
			st.pass(factor)
		case BiLaplacian:
			st.pass(opts.Lambda)
			st.pass(opts.Lambda)
		default:
			st.pass(opts.Lambda)
		}
	}
	reportProgress(opts, 1)

	out := m.Clone()
	out.Vertices = st.curr
	if len(out.Normals) > 0 {
		out.ComputeNormals()
	}
	out.ComputeBounds()

	return out, nil
}

// state carries the double-buffered positions of one smoothing run.
type state struct {
	neighbors [][]uint32
	cons      *topo.Constraints
	boundary  bitmap.Bitmap
	// orig is the pre-smoothing snapshot limiting total displacement.
	orig []mgl32.Vec3
	curr []mgl32.Vec3
	next []mgl32.Vec3
}

// pass applies one umbrella-operator step with the given factor, reading
// curr and writing next, then swaps the buffers.
func (s *state) pass(factor float32) {
	for v := range s.curr {
		vid := uint32(v)
		p := s.curr[v]

		// Locked vertices and boundary vertices discard the move.
		if s.cons.IsLocked(vid) || s.boundary.Contains(vid) {
			s.next[v] = p

			continue
		}
		nb := s.neighbors[v]
		if len(nb) == 0 {
			s.next[v] = p

			continue
		}

		var avg mgl32.Vec3
		for _, n := range nb {
			avg = avg.Add(s.curr[n])
		}
		avg = avg.Mul(1 / float32(len(nb)))
		proposed := p.Add(avg.Sub(p).Mul(factor))

		// Limited vertices clamp their total displacement from the
		// pre-smoothing position.
		if s.cons.IsLimited(vid) {
			delta := proposed.Sub(s.orig[v])
			if length := delta.Len(); length > s.cons.MaxMove && length > 0 {
				proposed = s.orig[v].Add(delta.Mul(s.cons.MaxMove / length))
			}
		}
		s.next[v] = proposed
	}
	s.curr, s.next = s.next, s.curr
}

// vertexNeighbors derives the adjacency from the triangle list: two
// vertices are neighbors when they share a triangle edge. Complexity:
// O(T) expected, with per-vertex dedup through a shared set.
func vertexNeighbors(m *mesh.Mesh) [][]uint32 {
	neighbors := make([][]uint32, m.VertexCount())
	seen := make(map[uint64]struct{}, len(m.Indices))

	link := func(a, b uint32) {
		k := topo.EdgeKey(a, b)
		if _, dup := seen[k]; dup {
			return
		}
		seen[k] = struct{}{}
		neighbors[a] = append(neighbors[a], b)
		neighbors[b] = append(neighbors[b], a)
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		link(a, b)
		link(b, c)
		link(c, a)
	}

	return neighbors
}

// reportProgress forwards the fraction; a panicking callback counts as a
// stop request.
func reportProgress(opts Options, fraction float32) (ok bool) {
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

func isCancelled(opts Options) bool {
	return opts.Cancel != nil && opts.Cancel()
}
