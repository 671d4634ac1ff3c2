// Package simplify decimates triangle meshes by quadric-error edge
// collapse until a target triangle count (or an error ceiling) is reached.
//
// What:
//
//   - Every vertex carries a 4x4 symmetric error quadric summed from the
//     plane quadrics of its incident triangles.
//   - Every edge's collapse candidate minimizes the combined quadric by
//     solving the 3x3 leading system; singular systems fall back to the
//     cheaper of the endpoints or the midpoint.
//   - A priority queue keyed by collapse cost drives the loop. Entries are
//     stamped with the edge's generation; collapses bump generations, so
//     stale queue entries are recognized and dropped instead of being
//     hunted down.
//   - Vertices, triangles, and edges live in three flat arenas addressed
//     by index, with tombstone flags for deletion and one compaction pass
//     at the end. No record points at another record.
//
// Guards:
//
//   - Preserve-boundary assigns infinite cost to any edge touching a
//     boundary vertex.
//   - Preserve-topology skips collapses that would create a non-manifold
//     edge (link condition) or flip a surviving triangle's normal.
//
// Observable result: a mesh with fewer triangles whose visual error is
// bounded by the last accepted collapse cost. A target ratio of 1 returns
// a clone with the triangle count untouched.
//
// Complexity: O(E log E) for the queue plus O(V + T) setup and
// compaction.
//
// Errors:
//
//   - ErrBadOptions: ratio outside (0,1] or a negative error ceiling.
//   - ErrCancelled: the progress callback stopped the run.
package simplify
