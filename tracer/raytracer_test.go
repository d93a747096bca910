package tracer

import (
	"math"
	"testing"

	"github.com/achilleasa/go-daylight/demo"
	"github.com/achilleasa/go-daylight/geometry"
	"github.com/achilleasa/go-daylight/material"
	"github.com/achilleasa/go-daylight/ray"
	"github.com/achilleasa/go-daylight/sampling"
	"github.com/achilleasa/go-daylight/scene"
	"github.com/achilleasa/go-daylight/types"
	"gonum.org/v1/gonum/stat"
)

func TestSunlitPlaneRadiance(t *testing.T) {
	const (
		albedo      = 0.5
		sunRadiance = 1e5
		samples     = 1000
	)
	sunDir := demo.SunDirection(40, 120)
	sc, err := demo.SunlitPlane(albedo, sunDir, sunRadiance)
	if err != nil {
		t.Fatal(err)
	}
	if err = sc.Build(); err != nil {
		t.Fatal(err)
	}

	d, _ := demo.Lookup("plane")
	cam, err := d.Camera(4, 3)
	if err != nil {
		t.Fatal(err)
	}

	opts := DefaultImageOptions()
	opts.MaxDepth = 0
	rt := NewRayTracer(sc, opts)
	scratch := NewScratch()

	omega := (&geometry.DistantSource{Direction: sunDir, Angle: demo.SunAngle}).Omega()
	expL := sunRadiance * omega * sunDir[2] * albedo / math.Pi

	for py := 0; py < cam.Height; py++ {
		for px := 0; px < cam.Width; px++ {
			rng := sampling.NewRNG(11, uint64(py*cam.Width+px))
			values := make([]float64, samples)
			for s := range values {
				r := ray.New(cam.Ray(px, py, rng.Float64(), rng.Float64()))
				values[s] = rt.Trace(&r, rng, scratch).Radiance()
			}
			if got := stat.Mean(values, nil); math.Abs(got-expL)/expL > 0.05 {
				t.Fatalf("expected pixel (%d, %d) radiance %f; got %f", px, py, expL, got)
			}
		}
	}
}

func newTestScene(t *testing.T, build func(sc *scene.Scene) error) *scene.Scene {
	t.Helper()
	sc := scene.New()
	if err := build(sc); err != nil {
		t.Fatal(err)
	}
	if err := sc.Build(); err != nil {
		t.Fatal(err)
	}
	return sc
}

func TestEmptySceneIsBlack(t *testing.T) {
	sc := newTestScene(t, func(*scene.Scene) error { return nil })
	rt := NewRayTracer(sc, DefaultImageOptions())

	r := ray.New(geometry.Ray{Direction: types.Vec3{0, 0, 1}})
	if got := rt.Trace(&r, sampling.NewRNG(1, 0), NewScratch()); !got.IsBlack() {
		t.Fatalf("expected black radiance; got %v", got)
	}
}

func TestVisibleEmitters(t *testing.T) {
	sc := newTestScene(t, func(sc *scene.Scene) error {
		light := sc.PushMaterial(&material.Light{Radiance: types.Spectrum{1, 2, 3}})
		sun := sc.PushMaterial(&material.Light{Radiance: types.Gray(100)})
		if _, err := sc.PushObject(&geometry.Sphere{Centre: types.Vec3{0, 5, 0}, Radius: 1}, light, light); err != nil {
			return err
		}
		_, err := sc.PushObject(&geometry.DistantSource{Direction: types.Vec3{0, 0, 1}, Angle: 0.1}, sun, sun)
		return err
	})
	rt := NewRayTracer(sc, DefaultImageOptions())
	rng := sampling.NewRNG(1, 0)
	scratch := NewScratch()

	type spec struct {
		dir types.Vec3
		exp types.Spectrum
	}
	specs := []spec{
		{types.Vec3{0, 1, 0}, types.Spectrum{1, 2, 3}},
		{types.Vec3{0, 0, 1}, types.Gray(100)},
		{types.Vec3{1, 0, 0}, types.Spectrum{}},
	}
	for index, s := range specs {
		r := ray.New(geometry.Ray{Direction: s.dir})
		if got := rt.Trace(&r, rng, scratch); got != s.exp {
			t.Fatalf("[spec %d] expected radiance %v; got %v", index, s.exp, got)
		}
	}
}

func TestMirrorReflectsSun(t *testing.T) {
	sc := newTestScene(t, func(sc *scene.Scene) error {
		mirror := sc.PushMaterial(&material.Mirror{Reflectance: types.Gray(0.8)})
		sun := sc.PushMaterial(&material.Light{Radiance: types.Gray(100)})
		const size = 100
		quad := [][3]types.Vec3{
			{{-size, -size, 0}, {size, -size, 0}, {size, size, 0}},
			{{-size, -size, 0}, {size, size, 0}, {-size, size, 0}},
		}
		for _, tri := range quad {
			if _, err := sc.PushObject(&geometry.Triangle{A: tri[0], B: tri[1], C: tri[2]}, mirror, mirror); err != nil {
				return err
			}
		}
		_, err := sc.PushObject(&geometry.DistantSource{Direction: types.Vec3{0, 1, 1}.Normalize(), Angle: 0.1}, sun, sun)
		return err
	})
	rt := NewRayTracer(sc, DefaultImageOptions())
	rng := sampling.NewRNG(5, 0)
	scratch := NewScratch()

	// the only way to see the sun is through the mirror
	r := ray.New(geometry.Ray{Origin: types.Vec3{0, -1, 1}, Direction: types.Vec3{0, 1, -1}.Normalize()})
	got := rt.Trace(&r, rng, scratch)
	if math.Abs(got.Radiance()-80) > 1e-9 {
		t.Fatalf("expected reflected sun radiance 80; got %v", got)
	}
}

func TestAmbientBudgetStopsAtMaxDepth(t *testing.T) {
	sc := newTestScene(t, func(*scene.Scene) error { return nil })

	type spec struct {
		maxDepth int
		depth    int
		exp      int
	}
	specs := []spec{
		{2, 0, 10},
		{2, 1, 3},
		{2, 2, 0},
		{2, 3, 0},
		{1, 1, 0},
		{0, 0, 0},
	}
	for index, s := range specs {
		opts := DefaultImageOptions()
		opts.MaxDepth = s.maxDepth
		rt := NewRayTracer(sc, opts)

		r := ray.New(geometry.Ray{Direction: types.Vec3{0, 0, 1}})
		r.Depth = s.depth
		if got := rt.ambientBudget(&r); got != s.exp {
			t.Fatalf("[spec %d] expected %d ambient rays at depth %d (max %d); got %d", index, s.exp, s.depth, s.maxDepth, got)
		}
	}
}
