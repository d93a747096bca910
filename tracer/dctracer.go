package tracer

import (
	"math"
	"math/rand/v2"

	"github.com/achilleasa/go-daylight/geometry"
	"github.com/achilleasa/go-daylight/material"
	"github.com/achilleasa/go-daylight/ray"
	"github.com/achilleasa/go-daylight/sampling"
	"github.com/achilleasa/go-daylight/scene"
	"github.com/achilleasa/go-daylight/sky"
	"github.com/achilleasa/go-daylight/types"
)

// DCTracer computes daylight coefficients: the contribution of every sky
// bin to the irradiance received by a sensor. Paths that escape the scene
// deposit their weight into the bin they leave through; emitters inside the
// scene absorb.
type DCTracer struct {
	scene *scene.Scene
	opts  Options
	sky   *sky.Reinhart
}

func NewDCTracer(sc *scene.Scene, opts Options, skyModel *sky.Reinhart) *DCTracer {
	return &DCTracer{scene: sc, opts: opts, sky: skyModel}
}

func (t *DCTracer) Options() Options {
	return t.opts
}

func (t *DCTracer) Sky() *sky.Reinhart {
	return t.sky
}

// Trace NAmbientSamples cosine-distributed rays over the hemisphere around
// the sensor direction and accumulate their coefficients into acc, which
// must hold one entry per sky bin. Relighting the result with a uniform sky
// of radiance L yields an irradiance of pi*L for an unobstructed sensor.
func (t *DCTracer) TraceSensor(sensor geometry.Ray, rng *rand.Rand, scratch *Scratch, acc []types.Spectrum) {
	n := t.opts.NAmbientSamples
	if n == 0 {
		return
	}

	frame := types.NewFrame(sensor.Direction, sensor.Direction.Perpendicular())
	weight := types.Gray(math.Pi / float64(n))
	for i := 0; i < n; i++ {
		dir := frame.ToWorld(sampling.CosineHemisphere(rng)).Normalize()
		r := ray.New(geometry.Ray{Origin: sensor.Origin, Direction: dir})
		r.Throughput = weight
		t.Trace(&r, rng, scratch, acc)
	}
}

// Follow a ray through the scene, adding its throughput to the sky bin it
// escapes through.
func (t *DCTracer) Trace(r *ray.Ray, rng *rand.Rand, scratch *Scratch, acc []types.Spectrum) {
	if !t.scene.Intersect(r, scratch.stack) {
		bin := t.sky.DirToBin(r.Geometry.Direction)
		acc[bin] = acc[bin].Add(r.Throughput)
		return
	}

	if r.Depth > t.opts.MaxDepth {
		return
	}
	m, ok := t.scene.MaterialAt(r.Interaction)
	if !ok || m.EmitsDirectLight() {
		return
	}

	it := r.Interaction
	if m.SpecularOnly() {
		paths, n := m.(material.SpecularBSDF).PossiblePaths(it.Frame, it.Point, r)
		for _, path := range paths[:n] {
			child := ray.Ray{
				Geometry:        path.Ray,
				RefractionIndex: path.RefractionIndex,
				Throughput:      r.Throughput.Mul(path.Weight),
				Depth:           t.opts.specularDepth(r.Depth, rng),
			}
			if t.reweight(&child, rng) {
				t.Trace(&child, rng, scratch, acc)
			}
		}
		return
	}

	n := t.opts.ambientCount(r.Depth, r.Throughput.Radiance())
	if n == 0 {
		return
	}

	bsdf := material.AsBSDF(m)
	base := *r
	invN := 1 / float64(n)
	for i := 0; i < n; i++ {
		child := base
		s := bsdf.Sample(it.Frame, it.Point, &child, rng)
		if !(s.PDF > 0) {
			continue
		}
		cos := math.Abs(child.Geometry.Direction.Dot(it.Frame.Normal))
		child.Throughput = base.Throughput.Mul(s.Value).Scale(cos / s.PDF * invN)
		child.Depth = base.Depth + 1
		if t.reweight(&child, rng) {
			t.Trace(&child, rng, scratch, acc)
		}
	}
}

// Apply russian roulette to a child path; returns false if the path was
// terminated.
func (t *DCTracer) reweight(child *ray.Ray, rng *rand.Rand) bool {
	k := t.opts.survival(child.Throughput, rng)
	if k == 0 {
		return false
	}
	child.Throughput = child.Throughput.Scale(k)
	return true
}
