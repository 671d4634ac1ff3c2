// Package smooth relaxes blocky extraction meshes through iterative
// Laplacian-family filters while honoring topology constraints. Only
// vertex positions move; connectivity is never touched.
//
// What:
//
//   - Laplacian: p' = p + λ·(avg(neighbors) - p), the workhorse for low
//     smoothing levels.
//   - Taubin λ-µ: alternating positive and negative passes (µ < -λ) that
//     relax without the shrinkage plain Laplacian causes.
//   - BiLaplacian: two sequential Laplacian passes per outer iteration for
//     aggressive organic smoothing.
//   - AlgorithmForLevel / IterationsForLevel encode the authoritative
//     level table: levels 1-3 run Laplacian at 2·level iterations, 4-7
//     Taubin at 1+2·(level-3), 8+ BiLaplacian at 2+2·(level-7).
//   - Preview qualities divide iterations by 4/3/2 (floor, minimum 1);
//     Fast additionally forces Laplacian.
//
// Constraint application, per vertex and iteration: locked vertices
// discard the move, limited vertices clamp their total displacement from
// the pre-smoothing position to MaxMove, everything else applies freely.
// Constraints arrive from the topo package when preserve-topology is on;
// boundary vertices also lock when preserve-boundaries is on.
//
// Complexity: O(iterations · (V + T)); neighbor adjacency is built once
// per call from the triangle list. Progress is reported at the start of
// each iteration and the callback's continue flag cancels mid-run.
//
// Errors:
//
//   - ErrBadOptions: level, λ, µ, or preview quality out of range.
//   - ErrCancelled: the progress callback stopped the run; treated by
//     callers as a flag, never a failure.
package smooth
