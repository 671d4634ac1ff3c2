package surface

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/voxelmesh/mesh"
	"github.com/katalvlaran/voxelmesh/smooth"
	"github.com/katalvlaran/voxelmesh/voxel"
)

// progKey identifies one progressive result: the base generation key plus
// the smoothing level the partial mesh reached and the preview quality it
// was produced under.
type progKey struct {
	base    cacheKey
	level   int
	quality smooth.PreviewQuality
}

// progEntry is one cached partial mesh.
type progEntry struct {
	key        progKey
	run        string
	mesh       *mesh.Mesh
	bounds     mesh.Bounds
	bytes      int
	lastAccess time.Time
}

// progressiveCache holds partial smoothing results under its own lock,
// independent of the final-mesh cache, with the same oldest-access
// eviction.
type progressiveCache struct {
	mu      sync.Mutex
	entries map[progKey]*progEntry
	total   int
	limit   int
	clock   func() time.Time
}

func newProgressiveCache(limit int) *progressiveCache {
	return &progressiveCache{
		entries: make(map[progKey]*progEntry),
		limit:   limit,
		clock:   time.Now,
	}
}

func (c *progressiveCache) get(key progKey) (*mesh.Mesh, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	e.lastAccess = c.clock()

	return e.mesh.Clone(), true
}

func (c *progressiveCache) put(key progKey, runID string, m *mesh.Mesh) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		c.total -= old.bytes
	}
	e := &progEntry{
		key:        key,
		run:        runID,
		mesh:       m.Clone(),
		bounds:     m.Bounds,
		bytes:      m.MemoryUsage(),
		lastAccess: c.clock(),
	}
	c.entries[key] = e
	c.total += e.bytes

	for c.total > c.limit && len(c.entries) > 1 {
		var oldest *progEntry
		for _, cur := range c.entries {
			if oldest == nil || cur.lastAccess.Before(oldest.lastAccess) {
				oldest = cur
			}
		}
		delete(c.entries, oldest.key)
		c.total -= oldest.bytes
	}
}

// dropRun removes every entry a cancelled run produced.
func (c *progressiveCache) dropRun(runID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if e.run == runID {
			delete(c.entries, k)
			c.total -= e.bytes
		}
	}
}

func (c *progressiveCache) invalidateRegion(region mesh.Bounds) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if e.bounds.Intersects(region) {
			delete(c.entries, k)
			c.total -= e.bytes
		}
	}
}

func (c *progressiveCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[progKey]*progEntry)
	c.total = 0
}

// Progressive is the handle of one background preview job. Poll Best for
// the best-so-far mesh while the job climbs smoothing levels; Cancel
// halts the work and clears the run's cache entries.
type Progressive struct {
	id   string
	done chan struct{}

	mu    sync.Mutex
	best  *mesh.Mesh
	level int
	err   error

	cancelled atomic.Bool
}

// ID returns the run identifier.
func (p *Progressive) ID() string { return p.id }

// Best returns a copy of the best-so-far mesh, or nil before the first
// level lands.
func (p *Progressive) Best() *mesh.Mesh {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.best == nil {
		return nil
	}

	return p.best.Clone()
}

// Level returns the smoothing level of the current best mesh.
func (p *Progressive) Level() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.level
}

// Err returns the terminal error, if any, once the job is done.
func (p *Progressive) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.err
}

// Done reports completion without blocking.
func (p *Progressive) Done() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the job exits.
func (p *Progressive) Wait() { <-p.done }

// Cancel halts the background work; the job clears its own cache entries
// on the way out.
func (p *Progressive) Cancel() { p.cancelled.Store(true) }

// IsCancelled reports whether Cancel was observed.
func (p *Progressive) IsCancelled() bool { return p.cancelled.Load() }

// StartProgressive launches one background job that extracts the base
// mesh, then re-smooths it level by level up to the settings' target,
// publishing each intermediate into the progressive cache and the handle.
// Jobs are independent: one goroutine per handle, no cross-job state.
func (c *Coordinator) StartProgressive(g voxel.Grid, s Settings) (*Progressive, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGridUnavailable
	}

	p := &Progressive{
		id:   uuid.NewString(),
		done: make(chan struct{}),
	}
	base := cacheKey{grid: voxel.ContentHash(g), settings: s.Hash(), lod: s.LOD}

	go c.runProgressive(p, g, s, base)

	return p, nil
}

func (c *Coordinator) runProgressive(p *Progressive, g voxel.Grid, s Settings, base cacheKey) {
	defer close(p.done)

	cancelPoll := func() bool { return p.cancelled.Load() }

	// Base extraction at level 0 through the regular stages, without
	// touching the final cache.
	raw := s
	raw.SmoothingLevel = 0
	run := &pipelineRun{progress: func(float32, string) bool { return !cancelPoll() }}
	baseMesh, err := c.generateInternal(g, raw, run)
	if err != nil {
		c.finishProgressive(p, err)

		return
	}
	p.publish(baseMesh, 0)
	c.progressive.put(progKey{base: base, level: 0, quality: s.PreviewQuality}, p.id, baseMesh)

	// Climb the smoothing levels, each from the same base so constraint
	// analysis sees the unsmoothed topology.
	for level := 1; level <= s.SmoothingLevel; level++ {
		if cancelPoll() {
			c.progressive.dropRun(p.id)
			c.finishProgressive(p, ErrCancelled)

			return
		}

		opts := smooth.DefaultOptions()
		opts.Level = level
		opts.Algorithm = s.SmoothingAlgorithm
		opts.PreserveTopology = s.PreserveTopology
		opts.PreserveBoundaries = s.PreserveBoundaries
		opts.Preview = s.PreviewQuality
		opts.Cancel = cancelPoll

		smoothed, err := smooth.Smooth(baseMesh, opts, nil)
		if err != nil {
			if p.cancelled.Load() {
				c.progressive.dropRun(p.id)
			}
			c.finishProgressive(p, err)

			return
		}
		p.publish(smoothed, level)
		c.progressive.put(progKey{base: base, level: level, quality: s.PreviewQuality}, p.id, smoothed)
	}

	c.finishProgressive(p, nil)
}

func (p *Progressive) publish(m *mesh.Mesh, level int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.best = m
	p.level = level
}

func (c *Coordinator) finishProgressive(p *Progressive, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil && !p.cancelled.Load() {
		p.err = err
	}
}

// ProgressiveResult fetches a cached partial mesh for the given base
// settings and smoothing level, if a progressive job produced one.
func (c *Coordinator) ProgressiveResult(g voxel.Grid, s Settings, level int) (*mesh.Mesh, bool) {
	if g == nil {
		return nil, false
	}
	base := cacheKey{grid: voxel.ContentHash(g), settings: s.Hash(), lod: s.LOD}

	return c.progressive.get(progKey{base: base, level: level, quality: s.PreviewQuality})
}
