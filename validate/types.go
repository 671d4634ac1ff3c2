// Package validate defines the validation result types for the validator
// subpackage of github.com/katalvlaran/voxelmesh.
package validate

import (
	"github.com/go-gl/mathgl/mgl32"
)

// degenerateAreaEps flags triangles below this area as degenerate.
const degenerateAreaEps = 1e-6

// intersectionPairBudget caps the number of triangle pairs the
// self-intersection sweep examines. The cap is part of the contract:
// within budget, "none found" reports false.
const intersectionPairBudget = 1000

// Result carries everything the validator learned about one mesh.
// Entries in Errors clear IsValid; Warnings never do.
type Result struct {
	IsValid            bool
	Watertight         bool
	Manifold           bool
	CorrectOrientation bool
	HasMinimumFeature  bool
	SelfIntersecting   bool

	// MinFeatureSize is the smallest triangle-edge length found, in
	// world units.
	MinFeatureSize float32

	HoleCount           int
	NonManifoldEdges    int
	DegenerateTriangles int
	// FlippedFaces counts shared edges traversed twice in the same
	// direction by their two triangles.
	FlippedFaces int

	Errors   []string
	Warnings []string
}

// Stats summarizes mesh geometry for reporting.
type Stats struct {
	VertexCount         int
	TriangleCount       int
	EdgeCount           int
	SurfaceArea         float32
	Volume              float32
	CenterOfMass        mgl32.Vec3
	ConnectedComponents int
	Genus               int
}
