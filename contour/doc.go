// Package contour extracts an isosurface from a binary occupancy grid by
// Dual Contouring: one vertex per surface-crossing cell, placed by QEF
// minimization over the cell's Hermite edge data, and one quad per
// sign-changing edge shared by four such cells.
//
// What:
//
//   - Extractor is the single variant trait; New returns the reference
//     implementation, NewSparse an edge-cached variant that avoids
//     re-sampling shared edges. Both produce identical meshes up to
//     vertex ordering.
//   - Hermite carries the interpolated crossing position and the
//     gradient-derived normal of one cell edge.
//   - QuadMesh is the raw extraction output (positions plus quad index
//     fans); the mesh package deduplicates and triangulates it.
//
// Algorithm (per extraction):
//
//  1. Enumerate active cells: the occupied set dilated by one in all 27
//     directions. Empty grids short-circuit to an empty result.
//  2. For each of the 12 edges of each active cell, detect sign changes of
//     (sample - iso) and build Hermite data; edges are evaluated from the
//     lesser-indexed endpoint so shared edges agree across cells.
//  3. Solve the per-cell QEF (A = Σ n·nᵀ, b = Σ (n·p)·n) by Cholesky with
//     ε = 1e-6; singular systems fall back to the mass point. Solutions
//     are clamped into the cell extent and above the ground plane.
//  4. When sharp features are enabled and incident edge normals diverge
//     past the configured angle, the solution is blended toward the mean
//     intersection position to keep convex corners crisp.
//  5. Each sign-changing edge contributes one quad, emitted exactly once
//     by the cell that is the lexicographic minimum of the four sharing
//     cells; winding follows the occupancy sign so normals point from
//     occupied to empty.
//
// Numerical policy:
//
//   - Sample deltas below 1e-6 are treated as no intersection.
//   - Hermite normals shorter than 1e-4 are replaced by the signed edge
//     axis direction.
//   - QEF solutions outside the cell extent by more than AdaptiveError
//     distrust the solve and fall back to the mass point.
//
// Complexity: O(c) cells with O(1) work per cell; the quad pass is O(c).
// Cancellation is polled between steps and inside every cell loop.
//
// Errors:
//
//   - ErrNilGrid: the grid reference is nil.
//   - ErrCancelled: the progress callback requested a stop; the partial
//     result is discarded.
//   - ErrInternal: the solver produced a non-finite vertex (contract
//     violation; never cached by callers).
package contour
