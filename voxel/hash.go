package voxel

import (
	"encoding/binary"
	"hash/fnv"
)

// hashSampleCap is the divisor of ContentHash's sampling stride.
const hashSampleCap = 1000

// ContentHash returns a stable 64-bit digest of grid content for cache
// keying. It combines the resolution and workspace extent with a
// content-deterministic subset of occupied cells: every cell while the
// grid holds fewer than 2000 occupied cells, otherwise the cells whose
// digest is divisible by n/1000 (integer division), about 1000 to 2000
// cells on average. The subset size is not a hard limit, and every
// occupied cell is still visited and digested. The per-cell digests are
// XOR-combined, making the result independent of iteration order.
//
// Collisions only cost redundant work: the cache producer always
// overwrites with a fresh mesh. Complexity: O(n) time, O(1) memory.
func ContentHash(g Grid) uint64 {
	if g == nil {
		return 0
	}

	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(g.Resolution()))
	_, _ = h.Write(buf[:])
	ws := g.WorkspaceSize()
	binary.LittleEndian.PutUint32(buf[:4], uint32(int32(ws.X()*1000)))
	_, _ = h.Write(buf[:4])
	binary.LittleEndian.PutUint32(buf[:4], uint32(int32(ws.Y()*1000)))
	_, _ = h.Write(buf[:4])
	binary.LittleEndian.PutUint32(buf[:4], uint32(int32(ws.Z()*1000)))
	_, _ = h.Write(buf[:4])
	base := h.Sum64()

	// Sampling stride: every cell when the grid is small, otherwise a
	// deterministic 1-in-step subset chosen by the cell's own digest so
	// the same content always selects the same cells regardless of
	// iteration order.
	n := g.OccupiedCount()
	step := uint64(1)
	if n > hashSampleCap {
		step = uint64(n / hashSampleCap)
	}

	var acc uint64
	g.EachOccupied(func(c Coord) bool {
		k := cellDigest(c.Key())
		if step > 1 && k%step != 0 {
			return true
		}
		acc ^= k

		return true
	})

	return base ^ acc
}

// cellDigest hashes one packed coordinate through FNV-1a.
func cellDigest(key uint64) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key)
	_, _ = h.Write(buf[:])

	return h.Sum64()
}
