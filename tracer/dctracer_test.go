package tracer

import (
	"math"
	"testing"

	"github.com/achilleasa/go-daylight/geometry"
	"github.com/achilleasa/go-daylight/material"
	"github.com/achilleasa/go-daylight/sampling"
	"github.com/achilleasa/go-daylight/scene"
	"github.com/achilleasa/go-daylight/sky"
	"github.com/achilleasa/go-daylight/types"
)

func sumBins(acc []types.Spectrum) types.Spectrum {
	var out types.Spectrum
	for _, s := range acc {
		out = out.Add(s)
	}
	return out
}

// A large horizontal ceiling at z = 1 using the same material on both sides.
func ceilingScene(t *testing.T, m material.Material) *scene.Scene {
	return newTestScene(t, func(sc *scene.Scene) error {
		idx := sc.PushMaterial(m)
		const size = 1000
		quad := [][3]types.Vec3{
			{{-size, -size, 1}, {size, -size, 1}, {size, size, 1}},
			{{-size, -size, 1}, {size, size, 1}, {-size, size, 1}},
		}
		for _, tri := range quad {
			if _, err := sc.PushObject(&geometry.Triangle{A: tri[0], B: tri[1], C: tri[2]}, idx, idx); err != nil {
				return err
			}
		}
		return nil
	})
}

func TestDCUnobstructedSensor(t *testing.T) {
	skyModel, _ := sky.NewReinhart(1)
	sc := newTestScene(t, func(*scene.Scene) error { return nil })

	opts := DefaultDCOptions()
	opts.NAmbientSamples = 20000
	dc := NewDCTracer(sc, opts, skyModel)
	rng := sampling.NewRNG(7, 0)
	scratch := NewScratch()

	// upward sensor: all the weight ends up in the sky bins
	acc := make([]types.Spectrum, skyModel.NBins())
	dc.TraceSensor(geometry.Ray{Direction: types.Vec3{0, 0, 1}}, rng, scratch, acc)
	if total := sumBins(acc); math.Abs(total[0]-math.Pi) > 1e-9 {
		t.Fatalf("expected coefficients to sum to pi; got %v", total)
	}
	if !acc[0].IsBlack() {
		t.Fatalf("expected no ground contribution for an upward sensor; got %v", acc[0])
	}

	// vertical sensor: half of the cosine lobe points at the ground
	acc = make([]types.Spectrum, skyModel.NBins())
	dc.TraceSensor(geometry.Ray{Direction: types.Vec3{1, 0, 0}}, rng, scratch, acc)
	if ground := acc[0][0]; math.Abs(ground-math.Pi/2) > 0.05 {
		t.Fatalf("expected ground coefficient close to pi/2; got %f", ground)
	}
}

func TestDCCeilingReflections(t *testing.T) {
	skyModel, _ := sky.NewReinhart(1)

	type spec struct {
		m         material.Material
		maxDepth  int
		expGround float64
	}
	specs := []spec{
		// opaque ceiling without bounces blocks everything
		{material.NewPlastic(types.Gray(0.5), 0, 0), 0, 0},
		// a single diffuse bounce sends albedo*pi to the ground
		{material.NewPlastic(types.Gray(0.5), 0, 0), 1, 0.5 * math.Pi},
		// specular reflections reach the ground regardless of depth
		{&material.Mirror{Reflectance: types.Gray(0.8)}, 0, 0.8 * math.Pi},
		// emitters absorb
		{&material.Light{Radiance: types.Gray(1)}, 1, 0},
	}

	for index, s := range specs {
		sc := ceilingScene(t, s.m)
		opts := DefaultDCOptions()
		opts.MaxDepth = s.maxDepth
		opts.NAmbientSamples = 200
		opts.LimitWeight = 0
		dc := NewDCTracer(sc, opts, skyModel)

		acc := make([]types.Spectrum, skyModel.NBins())
		dc.TraceSensor(geometry.Ray{Direction: types.Vec3{0, 0, 1}}, sampling.NewRNG(9, uint64(index)), NewScratch(), acc)

		if total := sumBins(acc); math.Abs(total[0]-s.expGround) > 1e-3 {
			t.Fatalf("[spec %d] expected total coefficient %f; got %f", index, s.expGround, total[0])
		}
		if math.Abs(acc[0][0]-s.expGround) > 1e-3 {
			t.Fatalf("[spec %d] expected ground coefficient %f; got %f", index, s.expGround, acc[0][0])
		}
	}
}
