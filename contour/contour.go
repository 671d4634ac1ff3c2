package contour

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/katalvlaran/voxelmesh/voxel"
)

// New returns the reference extractor. It re-samples shared edges per
// cell, which keeps memory at one record per active cell.
func New() Extractor { return &extractor{} }

// NewSparse returns the sparse variant: identical output, but Hermite data
// is cached per canonical edge so each edge is sampled once instead of up
// to four times. Worth it from a few thousand occupied cells up.
func NewSparse() Extractor { return &extractor{cacheEdges: true} }

// extractor implements Extractor. The zero value is the reference variant.
type extractor struct {
	cacheEdges bool
}

// run is the per-call working state, released when Extract returns.
type run struct {
	sampler voxel.Sampler
	opts    Options
	cells   []cellRecord
	index   map[uint64]int
	// edgeCache holds canonical-edge Hermite data for the sparse variant,
	// keyed by packed lesser endpoint and axis.
	edgeCache map[uint64]Hermite
	cosSharp  float32
	verts     []mgl32.Vec3
	quads     []uint32
}

// Extract implements Extractor.
func (ex *extractor) Extract(g voxel.Grid, opts Options) (*QuadMesh, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrNilGrid
	}

	// 1) Active set: dilation of the occupancy by one in 27 directions.
	active := voxel.ActiveCells(g)
	if len(active) == 0 {
		return &QuadMesh{}, nil
	}
	if cancelled(opts) {
		return nil, ErrCancelled
	}

	r := &run{
		sampler:  voxel.NewSampler(g),
		opts:     opts,
		cells:    make([]cellRecord, len(active)),
		index:    make(map[uint64]int, len(active)),
		cosSharp: math32.Cos(mgl32.DegToRad(opts.SharpFeatureAngle)),
	}
	if ex.cacheEdges {
		r.edgeCache = make(map[uint64]Hermite, len(active)*3)
	}
	for i, c := range active {
		r.cells[i].coord = c
		r.index[c.Key()] = i
	}

	// 2) Edge intersections per cell.
	if err := r.extractEdges(); err != nil {
		return nil, err
	}
	// 3) + 4) Per-cell vertices by QEF with sharp-feature bias.
	if err := r.solveVertices(g.Resolution()); err != nil {
		return nil, err
	}
	// 5) Quad emission on owned edges.
	if err := r.emitQuads(); err != nil {
		return nil, err
	}
	report(r.opts, 1)

	return &QuadMesh{Vertices: r.verts, Quads: r.quads}, nil
}

// extractEdges fills the Hermite data of every cell. Progress spans the
// first third of the extraction.
func (r *run) extractEdges() error {
	for i := range r.cells {
		if i%1024 == 0 {
			if !report(r.opts, float32(i)/float32(len(r.cells))*0.33) || cancelled(r.opts) {
				return ErrCancelled
			}
		}
		cell := &r.cells[i]
		for e := 0; e < 12; e++ {
			p := cell.coord.Add(edgeStarts[e])
			cell.edges[e] = r.hermite(p, edgeAxis(e))
		}
	}

	return nil
}

// hermite samples the canonical edge starting at p along axis, consulting
// the edge cache when the sparse variant enabled it.
func (r *run) hermite(p voxel.Coord, axis int) Hermite {
	if r.edgeCache != nil {
		key := p.Key()<<2 | uint64(axis)
		if h, ok := r.edgeCache[key]; ok {
			return h
		}
		h := r.sampleEdge(p, axis)
		r.edgeCache[key] = h

		return h
	}

	return r.sampleEdge(p, axis)
}

// sampleEdge builds Hermite data for one edge, or a non-intersecting
// record when the edge carries no crossing.
func (r *run) sampleEdge(p voxel.Coord, axis int) Hermite {
	q := p.Add(axisUnits[axis])
	// Edges entirely below the ground plane never carry surface.
	if p.Y < 0 && q.Y < 0 {
		return Hermite{}
	}

	s0 := r.sampler.Sample(p)
	s1 := r.sampler.Sample(q)
	delta := s1 - s0
	if (s0-voxel.Iso)*(s1-voxel.Iso) >= 0 || math32.Abs(delta) < signChangeEps {
		return Hermite{}
	}

	t := (voxel.Iso - s0) / delta
	t = math32.Min(1, math32.Max(0, t))

	w0 := r.sampler.World(p)
	w1 := r.sampler.World(q)
	pos := w0.Add(w1.Sub(w0).Mul(t))

	n0 := r.sampler.Gradient(p)
	n1 := r.sampler.Gradient(q)
	normal := n0.Add(n1.Sub(n0).Mul(t))
	if length := normal.Len(); length > normalZeroEps {
		normal = normal.Mul(1 / length)
	} else {
		// Degenerate gradient: use the signed edge direction, pointing
		// toward the occupied endpoint like the gradient would.
		var axisDir mgl32.Vec3
		axisDir[axis] = 1
		if delta < 0 {
			axisDir[axis] = -1
		}
		normal = axisDir
	}

	return Hermite{Position: pos, Normal: normal, Value: voxel.Iso, Intersects: true}
}

// solveVertices places one vertex in every cell with at least one
// crossing edge. Progress spans the middle third.
func (r *run) solveVertices(res voxel.Resolution) error {
	var qef qefSolver
	for i := range r.cells {
		if i%1024 == 0 {
			if !report(r.opts, 0.33+float32(i)/float32(len(r.cells))*0.33) || cancelled(r.opts) {
				return ErrCancelled
			}
		}
		cell := &r.cells[i]

		qef.reset()
		for e := 0; e < 12; e++ {
			if cell.edges[e].Intersects {
				qef.add(cell.edges[e].Position, cell.edges[e].Normal)
			}
		}
		if qef.count == 0 {
			continue
		}

		pos, direct := qef.solve()
		if !finite(pos) {
			return ErrInternal
		}

		// Cell extent in world space: from this sample point to the
		// diagonally opposite one.
		lo := voxel.CellCenter(cell.coord, res)
		hi := voxel.CellCenter(cell.coord.Offset(1, 1, 1), res)

		// A direct solution far outside the cell means the system was
		// ill-conditioned despite passing the pivot guard; distrust it.
		if direct && outsideBy(pos, lo, hi) > r.opts.AdaptiveError {
			pos = qef.massPoint()
		}

		// Sharp-feature bias before clamping, so corners stay crisp.
		if r.opts.PreserveSharpFeatures && r.isSharp(cell) {
			pos = pos.Mul(1 - sharpnessBlend).Add(qef.massPoint().Mul(sharpnessBlend))
		}

		pos = clampVec(pos, lo, hi)
		if pos.Y() < 0 {
			pos[1] = 0
		}

		cell.vertex = pos
		cell.vertexIndex = uint32(len(r.verts))
		cell.hasVertex = true
		r.verts = append(r.verts, pos)
	}

	return nil
}

// isSharp reports whether any two crossing-edge normals of the cell span
// more than the configured angle.
func (r *run) isSharp(cell *cellRecord) bool {
	for i := 0; i < 12; i++ {
		if !cell.edges[i].Intersects {
			continue
		}
		for j := i + 1; j < 12; j++ {
			if !cell.edges[j].Intersects {
				continue
			}
			if cell.edges[i].Normal.Dot(cell.edges[j].Normal) < r.cosSharp {
				return true
			}
		}
	}

	return false
}

// emitQuads walks every cell's owned edges and emits one quad per
// crossing, wound so triangle normals point from occupied to empty.
// Progress spans the final third.
func (r *run) emitQuads() error {
	for i := range r.cells {
		if i%1024 == 0 {
			if !report(r.opts, 0.66+float32(i)/float32(len(r.cells))*0.33) || cancelled(r.opts) {
				return ErrCancelled
			}
		}
		cell := &r.cells[i]

		for _, e := range ownedEdges {
			if !cell.edges[e].Intersects {
				continue
			}
			axis := edgeAxis(e)
			p := cell.coord.Add(edgeStarts[e])

			var idx [4]uint32
			complete := true
			for k, off := range quadCellOffsets[axis] {
				n, ok := r.index[p.Add(off).Key()]
				if !ok || !r.cells[n].hasVertex {
					// Domain boundary: quads need their full four-cell
					// neighborhood.
					complete = false

					break
				}
				idx[k] = r.cells[n].vertexIndex
			}
			if !complete {
				continue
			}

			// The cyclic offsets face the positive axis; flip when the
			// occupied side sits at the positive endpoint.
			if r.sampler.IsInside(p) {
				r.quads = append(r.quads, idx[0], idx[1], idx[2], idx[3])
			} else {
				r.quads = append(r.quads, idx[3], idx[2], idx[1], idx[0])
			}
		}
	}

	return nil
}

// outsideBy returns how far v lies outside the box [lo,hi], zero inside.
func outsideBy(v, lo, hi mgl32.Vec3) float32 {
	var worst float32
	for i := 0; i < 3; i++ {
		if d := lo[i] - v[i]; d > worst {
			worst = d
		}
		if d := v[i] - hi[i]; d > worst {
			worst = d
		}
	}

	return worst
}

// clampVec clamps v into [lo,hi] componentwise.
func clampVec(v, lo, hi mgl32.Vec3) mgl32.Vec3 {
	for i := 0; i < 3; i++ {
		v[i] = math32.Min(hi[i], math32.Max(lo[i], v[i]))
	}

	return v
}

// report forwards progress, treating a false return as cancellation. A
// panicking callback also cancels rather than unwinding the extraction.
func report(opts Options, fraction float32) (ok bool) {
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

// cancelled polls the external cancel hook.
func cancelled(opts Options) bool {
	return opts.Cancel != nil && opts.Cancel()
}
