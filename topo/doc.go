// Package topo analyzes mesh topology ahead of smoothing and synthesizes
// the vertex-motion constraints that keep holes, tunnels, and boundaries
// intact while positions relax.
//
// What:
//
//   - EdgeMap indexes every undirected edge to its adjacent triangles;
//     boundary edges have one, manifold interior edges two, anything else
//     is non-manifold.
//   - Analyze walks the edge map and reports Features: boundary loops as
//     Hole features (importance grows with loop size, saturating at 20
//     vertices) and positive genus as a single Loop feature marking every
//     vertex critical.
//   - Genus derives from the Euler characteristic χ = V - E + F as
//     g = max(0, (2-χ)/2).
//   - Synthesize folds Features into Constraints: hole boundaries lock
//     (importance > 0.8) or limit, loop vertices limit, with the locked
//     and limited sets stored as dense index bitsets.
//   - Preserved re-checks genus and exact vertex/triangle counts after
//     smoothing.
//
// Why:
//
//   - The smoother only moves positions, yet unconstrained relaxation can
//     collapse thin handles and shrink hole rims until downstream
//     validation fails. Constraints pin exactly the vertices that define
//     those features.
//
// Complexity:
//
//   - BuildEdgeMap: O(T) expected.
//   - Analyze: O(V + E + T); loop tracing touches each boundary vertex once.
//   - Synthesize: O(total critical vertices).
//
// The genus feature intentionally does not localize tunnels: every vertex
// becomes critical, trading smoothing freedom for a guarantee.
package topo
