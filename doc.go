// Package voxelmesh turns sparse voxel occupancy grids into triangle
// meshes ready for preview, smoothing, validation, and export.
//
// 🚀 What is voxelmesh?
//
//	A surface-generation core built around Dual Contouring:
//
//	  • Extraction: one vertex per surface cell by QEF minimization,
//	    quads across sign-changing edges, sharp features preserved
//	  • Assembly: vertex deduplication, normals, bounds, binary STL
//	  • Smoothing: Laplacian / Taubin λ-µ / BiLaplacian under topology
//	    constraints that keep holes and tunnels intact
//	  • Validation: watertight, manifold, orientation, feature size
//	  • Decimation: quadric edge collapse to a target triangle count
//	  • Caching: content-addressed LRU with world-region invalidation
//
// ✨ Why choose voxelmesh?
//
//   - Deterministic          — identical input, identical mesh, stable hashes
//   - Interactive            — progress at every stage, cancel inside every loop
//   - Topology-safe          — constraints pin holes and tunnels while smoothing;
//     topo.Preserved compares genus and counts before and after (the
//     pipeline does not call it)
//   - Storage-agnostic       — any grid behind a seven-method interface
//
// Everything is organized under eight subpackages:
//
//	voxel/     — grid interface, sampler, active set, LOD, content hash
//	contour/   — Dual Contouring extraction (reference and sparse variants)
//	mesh/      — mesh value, deduplicating builder, transforms, STL writer
//	topo/      — edge maps, boundary loops, genus, smoothing constraints
//	smooth/    — Laplacian-family filters with the level table
//	simplify/  — quadric-error edge-collapse decimation
//	validate/  — printability checks and the repair pass
//	surface/   — the coordinator: pipeline, caches, async, progressive
//
// Quick ASCII example:
//
//	    voxels                mesh
//	    ┌─┬─┐
//	    │█│█│      ──►      ▛▀▀▀▜
//	    └─┴─┘               ▙▄▄▄▟
//
//	two occupied cells become one watertight box with the shared
//	interior face removed.
//
// Start with surface.New and surface.DefaultSettings; see the package
// examples for the three-line happy path.
//
//	go get github.com/katalvlaran/voxelmesh
package voxelmesh
