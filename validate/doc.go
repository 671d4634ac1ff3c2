// Package validate certifies meshes for fabrication: watertightness,
// manifoldness, orientation, minimum feature size, degenerate faces, and
// a budget-bounded self-intersection sweep. It also carries the small
// repair pass the pipeline runs before returning a mesh.
//
// What:
//
//   - Validate runs every check and returns a Result with per-property
//     booleans, counts, and human-readable error and warning lists;
//     errors clear IsValid.
//   - Watertight means every edge borders exactly two triangles; more
//     than two is non-manifold. The vertex-fan condition is approximated
//     by the edge test.
//   - Orientation uses the total signed volume; negative means the mesh
//     is inside-out. Per-face winding inconsistencies (a shared edge
//     traversed twice in the same direction) are counted but not
//     individually repaired.
//   - The self-intersection sweep prunes candidate pairs through an
//     R-tree over triangle boxes and stops after a fixed pair budget:
//     "no intersection found within the budget" legitimately reports
//     false.
//   - Repair removes degenerate triangles (area < 1e-6) and flips the
//     global orientation when the signed volume is negative; running it
//     twice yields the identical mesh the second time.
//   - Stats summarizes counts, surface area, volume, center of mass,
//     connected components, and genus.
//
// Why:
//
//   - A printable mesh must bound a solid: open edges, fold-backs, and
//     intersecting shells all break slicing. The checks mirror what
//     slicers reject, with feature size surfaced as a warning so callers
//     can still export.
//
// Complexity: all checks are O(V + E + T) except the sweep, which is
// O(T log T) for tree construction plus the constant pair budget.
package validate
