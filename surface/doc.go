// Package surface orchestrates the full voxel-to-mesh pipeline: cache
// lookup, level-of-detail selection, Dual Contouring extraction, mesh
// assembly, topology-aware smoothing, optional decimation, and the final
// repair pass, with progress reporting at every stage boundary and
// cancellation polled inside every inner loop.
//
// What:
//
//   - Settings is the single configuration value per call; it has stable
//     equality and a stable hash, both feeding the cache key together
//     with the grid content hash and the LOD level.
//   - Coordinator runs the synchronous pipeline (Generate), the
//     asynchronous variant (GenerateAsync returning a waitable
//     Generation), and progressive preview jobs (StartProgressive).
//   - The mesh cache and the progressive cache are independent LRU maps
//     under their own locks, evicting oldest-access entries until the
//     byte budget holds. InvalidateRegion drops any entry whose mesh
//     bounds intersect a world region; the mesh cache finds them through
//     an R-tree over entry bounds, the progressive cache by a scan of its
//     entries.
//
// Stage fractions reported through the progress callback:
//
//	0.00        cache lookup (a hit jumps to 1.00)
//	0.05        dilation and active-cell set
//	0.10 - 0.60 extraction
//	0.60 - 0.80 mesh build: dedup, triangulate, normals
//	0.80 - 0.95 smoothing under topology constraints
//	0.95 - 0.98 decimation
//	0.98 - 1.00 repair pass
//
// Concurrency: multiple Generate calls may run at once; they share only
// the grid (read-only) and the caches (locked). Identical concurrent
// inputs may both miss and redo work; insertion is last-writer-wins.
// Cancellation is not an error: the asynchronous handle resolves with an
// empty mesh and IsCancelled reporting true, while the synchronous call
// surfaces the ErrCancelled sentinel for callers that want to branch.
//
// Errors:
//
//   - ErrInvalidSettings: contradictory or out-of-range options.
//   - ErrGridUnavailable: nil grid reference.
//   - ErrCancelled: cancellation observed during a stage.
//   - ErrValidationFailed: the validator reports errors on the final
//     mesh; the mesh is returned alongside so the caller decides.
//   - ErrInternal: contract-violating state (never cached).
package surface
