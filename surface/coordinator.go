package surface

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/katalvlaran/voxelmesh/contour"
	"github.com/katalvlaran/voxelmesh/mesh"
	"github.com/katalvlaran/voxelmesh/simplify"
	"github.com/katalvlaran/voxelmesh/smooth"
	"github.com/katalvlaran/voxelmesh/validate"
	"github.com/katalvlaran/voxelmesh/voxel"
)

// Coordinator owns the pipeline and its two caches. Construct with New;
// the zero value is not usable. Safe for concurrent use: stages share no
// mutable state beyond the caches, each behind its own lock.
type Coordinator struct {
	extractor    contour.Extractor
	cache        *meshCache
	progressive  *progressiveCache
	cacheEnabled bool

	// genMu guards the active asynchronous generation list.
	genMu  sync.Mutex
	active []*Generation
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithExtractor swaps the extraction variant (reference by default).
func WithExtractor(e contour.Extractor) Option {
	return func(c *Coordinator) { c.extractor = e }
}

// WithCacheLimit sets the final-mesh cache budget in bytes.
func WithCacheLimit(bytes int) Option {
	return func(c *Coordinator) { c.cache = newMeshCache(bytes) }
}

// WithProgressiveLimit sets the progressive cache budget in bytes.
func WithProgressiveLimit(bytes int) Option {
	return func(c *Coordinator) { c.progressive = newProgressiveCache(bytes) }
}

// WithoutCache disables the final-mesh cache entirely.
func WithoutCache() Option {
	return func(c *Coordinator) { c.cacheEnabled = false }
}

// New builds a Coordinator with the reference extractor and default
// cache budgets.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		extractor:    contour.New(),
		cache:        newMeshCache(DefaultCacheLimit),
		progressive:  newProgressiveCache(DefaultProgressiveLimit),
		cacheEnabled: true,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Generate runs the full pipeline synchronously and returns the finished
// mesh. See the package documentation for stage fractions. An empty grid
// yields an empty valid mesh; cancellation yields an empty mesh with
// ErrCancelled; validation errors yield the mesh plus ErrValidationFailed
// (not cached).
func (c *Coordinator) Generate(g voxel.Grid, s Settings, progress ProgressFunc) (*mesh.Mesh, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGridUnavailable
	}

	run := &pipelineRun{progress: progress}

	// Stage 1: cache lookup.
	if !run.report(0, "cache lookup") {
		return mesh.New(), ErrCancelled
	}
	key := cacheKey{grid: voxel.ContentHash(g), settings: s.Hash(), lod: s.LOD}
	if c.cacheEnabled {
		if cached, ok := c.cache.get(key); ok {
			run.report(1, "cache hit")

			return cached, nil
		}
	}

	out, err := c.generateInternal(g, s, run)
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			return mesh.New(), ErrCancelled
		}

		return out, err
	}

	// Final validation: errors surface with the mesh and skip the cache.
	res := validate.Validate(out, s.MinFeatureSize/1000)
	if !res.IsValid {
		return out, fmt.Errorf("%w: %s", ErrValidationFailed, strings.Join(res.Errors, "; "))
	}

	if c.cacheEnabled {
		c.cache.put(key, out)
	}
	run.report(1, "complete")

	return out, nil
}

// generateInternal runs stages 2-7 without cache interaction.
func (c *Coordinator) generateInternal(g voxel.Grid, s Settings, run *pipelineRun) (*mesh.Mesh, error) {
	// Stage 2: LOD selection and active-set construction.
	if !run.report(0.05, "building active cell set") {
		return nil, ErrCancelled
	}
	grid := g
	if s.LOD > 0 {
		var err error
		grid, err = voxel.Downsample(g, s.LOD)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
		}
	}

	// Stage 3: extraction, mapped into 0.10-0.60.
	qm, err := c.extract(grid, s, run)
	if err != nil {
		return nil, err
	}

	// Stage 4: mesh assembly, 0.60-0.80.
	if !run.report(0.60, "building mesh") {
		return nil, ErrCancelled
	}
	m := buildMesh(qm, s)
	if !run.report(0.80, "mesh built") {
		return nil, ErrCancelled
	}

	// Stage 5: smoothing, 0.80-0.95.
	if s.SmoothingLevel > 0 && !m.IsEmpty() {
		m, err = c.smoothStage(m, s, run)
		if err != nil {
			return nil, err
		}
	}

	// Stage 6: decimation, 0.95-0.98.
	if s.SimplificationRatio > 0 && s.SimplificationRatio < 1 && !m.IsEmpty() {
		if !run.report(0.95, "simplifying") {
			return nil, ErrCancelled
		}
		m, err = c.simplifyStage(m, s, run)
		if err != nil {
			return nil, err
		}
	}

	// Stage 7: repair pass, 0.98-1.00.
	if !run.report(0.98, "repairing") {
		return nil, ErrCancelled
	}
	validate.Repair(m)

	return m, nil
}

// extract maps the extractor's internal fractions into 0.10-0.60.
func (c *Coordinator) extract(grid voxel.Grid, s Settings, run *pipelineRun) (*contour.QuadMesh, error) {
	opts := contour.DefaultOptions()
	opts.AdaptiveError = s.AdaptiveError
	opts.PreserveSharpFeatures = s.PreserveSharpFeatures
	opts.SharpFeatureAngle = s.SharpFeatureAngle
	opts.Progress = func(f float32) bool {
		return run.report(0.10+f*0.50, "extracting surface")
	}

	qm, err := c.extractor.Extract(grid, opts)
	switch {
	case errors.Is(err, contour.ErrCancelled):
		return nil, ErrCancelled
	case errors.Is(err, contour.ErrInternal):
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	case errors.Is(err, contour.ErrNilGrid):
		return nil, ErrGridUnavailable
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	return qm, nil
}

// buildMesh deduplicates extraction output, triangulates quads, and adds
// requested attributes.
func buildMesh(qm *contour.QuadMesh, s Settings) *mesh.Mesh {
	b := mesh.NewBuilder()
	remap := make([]uint32, len(qm.Vertices))
	for i, v := range qm.Vertices {
		remap[i] = b.AddVertex(v)
	}
	for i := 0; i+3 < len(qm.Quads); i += 4 {
		b.AddQuad(
			remap[qm.Quads[i]],
			remap[qm.Quads[i+1]],
			remap[qm.Quads[i+2]],
			remap[qm.Quads[i+3]],
		)
	}
	m := b.Build()
	if s.GenerateNormals {
		m.ComputeNormals()
	}
	if s.GenerateUVs {
		m.GenerateBoxUVs(1)
	}

	return m
}

// smoothStage maps smoothing progress into 0.80-0.95.
func (c *Coordinator) smoothStage(m *mesh.Mesh, s Settings, run *pipelineRun) (*mesh.Mesh, error) {
	opts := smooth.DefaultOptions()
	opts.Level = s.SmoothingLevel
	opts.Algorithm = s.SmoothingAlgorithm
	opts.PreserveTopology = s.PreserveTopology
	opts.PreserveBoundaries = s.PreserveBoundaries
	opts.MinFeatureSize = s.MinFeatureSize
	opts.Preview = s.PreviewQuality
	opts.Progress = func(f float32) bool {
		return run.report(0.80+f*0.15, "smoothing")
	}

	out, err := smooth.Smooth(m, opts, nil)
	switch {
	case errors.Is(err, smooth.ErrCancelled):
		return nil, ErrCancelled
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	return out, nil
}

// simplifyStage maps decimation progress into 0.95-0.98.
func (c *Coordinator) simplifyStage(m *mesh.Mesh, s Settings, run *pipelineRun) (*mesh.Mesh, error) {
	opts := simplify.DefaultOptions()
	opts.TargetRatio = s.SimplificationRatio
	opts.PreserveBoundary = s.PreserveBoundaries
	opts.PreserveTopology = s.PreserveTopology
	opts.Progress = func(f float32) bool {
		return run.report(0.95+f*0.03, "simplifying")
	}

	out, err := simplify.Simplify(m, opts)
	switch {
	case errors.Is(err, simplify.ErrCancelled):
		return nil, ErrCancelled
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	return out, nil
}

// InvalidateRegion drops cached meshes (final and progressive) whose
// bounds intersect the world-space region.
func (c *Coordinator) InvalidateRegion(region mesh.Bounds) {
	c.cache.invalidateRegion(region)
	c.progressive.invalidateRegion(region)
}

// ClearCache empties both caches.
func (c *Coordinator) ClearCache() {
	c.cache.clear()
	c.progressive.clear()
}

// CacheStats snapshots the final-mesh cache counters.
func (c *Coordinator) CacheStats() CacheStats { return c.cache.stats() }

// pipelineRun tracks per-call progress state: fractions are forced
// nondecreasing and a panicking callback turns into cancellation.
type pipelineRun struct {
	progress ProgressFunc
	last     float32
}

func (r *pipelineRun) report(fraction float32, status string) (ok bool) {
	if fraction < r.last {
		fraction = r.last
	}
	r.last = fraction
	if r.progress == nil {
		return true
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	return r.progress(fraction, status)
}
