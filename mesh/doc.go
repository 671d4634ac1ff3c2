// Package mesh holds the triangle mesh representation shared by the whole
// surface generation core, the deduplicating builder that assembles meshes
// from raw extraction output, and the binary STL writer.
//
// What:
//
//   - Mesh stores three parallel vertex attribute arrays (positions,
//     optional normals, optional UVs), a flat uint32 triangle index list,
//     and axis-aligned bounds.
//   - Builder deduplicates vertices by quantized position (0.1 mm buckets)
//     plus optional normal and UV, splits quads into two triangles on a
//     fixed diagonal, and finalizes bounds.
//   - ComputeNormals accumulates area-weighted face normals per vertex;
//     GenerateBoxUVs projects box UVs for callers that request texture
//     coordinates.
//   - Transform applies an affine matrix to positions and the upper 3x3 to
//     normals, renormalizing afterwards.
//   - WriteSTL emits the 80-byte-header binary STL layout with selectable
//     meter or millimeter units.
//
// Invariants:
//
//   - every index < len(Vertices); len(Indices) % 3 == 0
//   - len(Normals) is 0 or len(Vertices); each normal is unit length or the
//     default up vector
//   - Bounds.Min <= Bounds.Max componentwise
//
// Mesh.Validate checks the index rules and the attribute lengths (normals
// and UVs); it does not check normal lengths or the bounds.
//
// Complexity:
//
//   - Builder.AddVertex: O(1) expected (hash bucket probe).
//   - ComputeNormals / ComputeBounds / Transform: O(V + T).
//   - WriteSTL: O(T) with a constant 50 bytes per triangle.
//
// Errors:
//
//   - ErrIndexRange: an index references a missing vertex.
//   - ErrRaggedAttributes: normals or UVs present with mismatched length.
//   - ErrNotTriangles: index count is not a multiple of three.
//   - ErrEmptyMesh: STL export of a mesh with no triangles.
package mesh
