package sampling

import (
	"math"
	"testing"

	"github.com/achilleasa/go-daylight/types"
	"gonum.org/v1/gonum/stat"
)

func TestCosineHemisphere(t *testing.T) {
	rng := NewRNG(42, 0)

	n := 20000
	cosines := make([]float64, n)
	for i := 0; i < n; i++ {
		d := CosineHemisphere(rng)
		if math.Abs(d.Len()-1) > 1e-9 {
			t.Fatalf("expected unit direction; got length %f", d.Len())
		}
		if d[2] < 0 {
			t.Fatalf("expected direction in upper hemisphere; got %v", d)
		}
		cosines[i] = d[2]
	}

	// E[cos] under a cos/pi density is 2/3
	if mean := stat.Mean(cosines, nil); math.Abs(mean-2.0/3.0) > 0.01 {
		t.Fatalf("expected mean cosine to be close to 2/3; got %f", mean)
	}
}

func TestUniformCone(t *testing.T) {
	rng := NewRNG(7, 1)
	cosMax := math.Cos(0.1)
	for i := 0; i < 1000; i++ {
		d := UniformCone(rng, cosMax)
		if d[2] < cosMax-1e-12 {
			t.Fatalf("expected direction inside cone; got cos %f < %f", d[2], cosMax)
		}
	}

	expPDF := 1 / (2 * math.Pi * (1 - cosMax))
	if pdf := UniformConePDF(cosMax); math.Abs(pdf-expPDF) > 1e-9 {
		t.Fatalf("expected pdf %f; got %f", expPDF, pdf)
	}
}

func TestIndependentStreams(t *testing.T) {
	a := NewRNG(1, 0)
	b := NewRNG(1, 1)
	same := 0
	for i := 0; i < 100; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	if same != 0 {
		t.Fatalf("expected independent streams; got %d identical values", same)
	}
}

func TestFrameToWorld(t *testing.T) {
	n := types.Vec3{1, 2, 3}.Normalize()
	f := types.NewFrame(n, types.Vec3{1, 0, 0})
	if !f.IsOrthonormal(1e-9) {
		t.Fatalf("expected orthonormal frame; got %+v", f)
	}
	if got := f.ToWorld(types.Vec3{0, 0, 1}); !types.ApproxEqual(got, n, 1e-12) {
		t.Fatalf("expected local z to map to the normal %v; got %v", n, got)
	}
}
