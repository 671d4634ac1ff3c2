package voxel

import "sort"

// ActiveCells returns the dilation of the occupied set by one cell in each
// of the 27 axis and diagonal directions, sorted by packed key so callers
// observe a deterministic order. An empty grid yields a nil slice.
//
// The result is the extraction working set: every cell that can contain a
// sign-changing edge has an occupied cell within its 26-neighborhood.
// Complexity: O(27·n + m·log m) for n occupied cells and m active cells.
func ActiveCells(g Grid) []Coord {
	if g == nil || g.OccupiedCount() == 0 {
		return nil
	}

	active := make(map[uint64]struct{}, g.OccupiedCount()*8)
	g.EachOccupied(func(c Coord) bool {
		var dx, dy, dz int32
		for dx = -1; dx <= 1; dx++ {
			for dy = -1; dy <= 1; dy++ {
				for dz = -1; dz <= 1; dz++ {
					n := c.Offset(dx, dy, dz)
					// One layer below ground participates so that bottom
					// faces at y=0 are detected; deeper cells cannot carry
					// a crossing.
					if n.Y < -1 {
						continue
					}
					active[n.Key()] = struct{}{}
				}
			}
		}

		return true
	})

	keys := make([]uint64, 0, len(active))
	for k := range active {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	cells := make([]Coord, len(keys))
	for i, k := range keys {
		cells[i] = KeyCoord(k)
	}

	return cells
}
