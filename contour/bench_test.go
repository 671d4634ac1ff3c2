package contour_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/katalvlaran/voxelmesh/contour"
	"github.com/katalvlaran/voxelmesh/voxel"
)

// benchGrid fills an n x n x n solid block.
func benchGrid(b *testing.B, n int32) *voxel.SparseGrid {
	b.Helper()
	g, err := voxel.NewSparseGrid(voxel.Res32cm, mgl32.Vec3{20, 20, 20})
	if err != nil {
		b.Fatalf("NewSparseGrid: %v", err)
	}
	var x, y, z int32
	for x = 0; x < n; x++ {
		for y = 0; y < n; y++ {
			for z = 0; z < n; z++ {
				if err = g.Set(voxel.C(x, y, z)); err != nil {
					b.Fatalf("Set: %v", err)
				}
			}
		}
	}

	return g
}

// benchmarkExtract runs one extractor over the block grid.
func benchmarkExtract(b *testing.B, ex contour.Extractor, n int32) {
	g := benchGrid(b, n)
	opts := contour.DefaultOptions()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ex.Extract(g, opts); err != nil {
			b.Fatalf("Extract: %v", err)
		}
	}
}

// BenchmarkExtractReference8 measures the reference variant on an 8-cube.
func BenchmarkExtractReference8(b *testing.B) {
	benchmarkExtract(b, contour.New(), 8)
}

// BenchmarkExtractSparse8 measures the edge-cached variant on an 8-cube.
func BenchmarkExtractSparse8(b *testing.B) {
	benchmarkExtract(b, contour.NewSparse(), 8)
}

// BenchmarkExtractReference16 measures the reference variant on a
// 16-cube.
func BenchmarkExtractReference16(b *testing.B) {
	benchmarkExtract(b, contour.New(), 16)
}

// BenchmarkExtractSparse16 measures the edge-cached variant on a 16-cube.
func BenchmarkExtractSparse16(b *testing.B) {
	benchmarkExtract(b, contour.NewSparse(), 16)
}
