package surface

import (
	"sync"
	"time"

	"github.com/dhconnelly/rtreego"

	"github.com/katalvlaran/voxelmesh/mesh"
)

// DefaultCacheLimit bounds the final-mesh cache at 256 MiB.
const DefaultCacheLimit = 256 << 20

// DefaultProgressiveLimit bounds the progressive cache at 64 MiB.
const DefaultProgressiveLimit = 64 << 20

// cacheKey identifies one finished mesh: grid content, settings, LOD.
type cacheKey struct {
	grid     uint64
	settings uint64
	lod      int
}

// cacheEntry is one cached mesh with its accounting metadata.
type cacheEntry struct {
	key        cacheKey
	mesh       *mesh.Mesh
	lastAccess time.Time
	bytes      int
	bounds     mesh.Bounds
	rect       *rtreego.Rect
}

// Bounds implements rtreego.Spatial so entries can live in the region
// index.
func (e *cacheEntry) Bounds() *rtreego.Rect { return e.rect }

// CacheStats reports hit/miss counters and current occupancy.
type CacheStats struct {
	Hits    int
	Misses  int
	Entries int
	Bytes   int
}

// HitRate returns hits / (hits + misses), zero before any lookup.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// meshCache is the final-mesh LRU: a map for lookup, an R-tree over entry
// bounds for region invalidation, byte-budget eviction by oldest access.
// All methods are safe for concurrent use; the lock is never held while a
// pipeline stage runs.
type meshCache struct {
	mu       sync.Mutex
	entries  map[cacheKey]*cacheEntry
	tree     *rtreego.Rtree
	total    int
	limit    int
	hits     int
	misses   int
	// clock is stubbed in tests to drive eviction order.
	clock func() time.Time
}

func newMeshCache(limit int) *meshCache {
	return &meshCache{
		entries: make(map[cacheKey]*cacheEntry),
		tree:    rtreego.NewTree(3, 4, 16),
		limit:   limit,
		clock:   time.Now,
	}
}

// get returns a deep copy of the cached mesh, bumping its access time.
func (c *meshCache) get(key cacheKey) (*mesh.Mesh, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++

		return nil, false
	}
	c.hits++
	e.lastAccess = c.clock()

	return e.mesh.Clone(), true
}

// put stores a copy of m under key, overwriting any previous entry
// (last-writer-wins) and evicting oldest entries past the byte budget.
func (c *meshCache) put(key cacheKey, m *mesh.Mesh) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		c.removeLocked(old)
	}
	e := &cacheEntry{
		key:        key,
		mesh:       m.Clone(),
		lastAccess: c.clock(),
		bytes:      m.MemoryUsage(),
		bounds:     m.Bounds,
		rect:       boundsRect(m.Bounds),
	}
	c.entries[key] = e
	c.tree.Insert(e)
	c.total += e.bytes

	for c.total > c.limit && len(c.entries) > 1 {
		c.evictOldestLocked()
	}
}

// invalidateRegion drops every entry whose bounds intersect region.
func (c *meshCache) invalidateRegion(region mesh.Bounds) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hits := c.tree.SearchIntersect(boundsRect(region))
	for _, h := range hits {
		e := h.(*cacheEntry)
		if e.bounds.Intersects(region) {
			c.removeLocked(e)
		}
	}
}

// clear drops everything.
func (c *meshCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[cacheKey]*cacheEntry)
	c.tree = rtreego.NewTree(3, 4, 16)
	c.total = 0
}

// stats snapshots the counters.
func (c *meshCache) stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Hits:    c.hits,
		Misses:  c.misses,
		Entries: len(c.entries),
		Bytes:   c.total,
	}
}

func (c *meshCache) removeLocked(e *cacheEntry) {
	delete(c.entries, e.key)
	c.tree.Delete(e)
	c.total -= e.bytes
}

func (c *meshCache) evictOldestLocked() {
	var oldest *cacheEntry
	for _, e := range c.entries {
		if oldest == nil || e.lastAccess.Before(oldest.lastAccess) {
			oldest = e
		}
	}
	if oldest != nil {
		c.removeLocked(oldest)
	}
}

// boundsRect converts mesh bounds into a strictly-positive-extent R-tree
// rectangle.
func boundsRect(b mesh.Bounds) *rtreego.Rect {
	const fat = 1e-6
	lengths := make([]float64, 3)
	point := make(rtreego.Point, 3)
	for i := 0; i < 3; i++ {
		point[i] = float64(b.Min[i]) - fat
		lengths[i] = float64(b.Max[i]-b.Min[i]) + 2*fat
	}
	rect, err := rtreego.NewRect(point, lengths)
	if err != nil {
		// Extents are fattened; an error is unreachable.
		panic(err)
	}

	return rect
}
