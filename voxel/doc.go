// Package voxel defines the occupancy-grid collaborator interface consumed
// by the surface generation core, together with the point sampler that turns
// a binary grid into a scalar field.
//
// What:
//
//   - Grid is the minimal read-only interface the core requires from any
//     voxel storage (the reference SparseGrid is map-backed; callers may
//     plug an octree or anything else with O(log) point queries).
//   - Coord is an integer cell coordinate in the centered convention:
//     (0,0,0) is the workspace center, the ground plane is y=0, and cells
//     below the ground are invalid.
//   - Sampler exposes sample / isInside / gradient over a borrowed Grid,
//     with iso fixed at 0.5 so sign changes occur across the occupancy
//     boundary.
//   - ActiveCells dilates the occupied set by one cell in all 27 axis and
//     diagonal directions, producing the extraction working set.
//   - Downsample builds a level-of-detail grid by majority vote over
//     2^level cubes.
//   - ContentHash computes a run-stable hash of grid content for cache keys.
//
// Why:
//
//   - Isosurface extraction: the Sampler is the only view DualContouring
//     has of the grid.
//   - Cache keying: ContentHash XORs the digests of a content-chosen
//     subset of occupied cells (about 1000 to 2000 on large grids, not a
//     hard cap); collisions cost redundant work, never correctness.
//
// Complexity:
//
//   - Sampler queries: O(1) on SparseGrid, O(log n) on tree-backed grids.
//   - ActiveCells: O(27·n + m·log m) time, O(m) memory for n occupied
//     cells and m active cells.
//   - Downsample:  O(n) time, O(n / 8^level) memory.
//   - ContentHash: O(n) time, O(1) memory beyond the hash state.
//
// Errors:
//
//   - ErrInvalidWorkspace: workspace extent is non-positive on some axis.
//   - ErrBelowGround: a cell with y < 0 was passed to a mutating operation.
//   - ErrInvalidLOD: requested downsampling level is outside 0..4.
package voxel
