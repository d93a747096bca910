package tracer

import (
	"math"
	"math/rand/v2"

	"github.com/achilleasa/go-daylight/geometry"
	"github.com/achilleasa/go-daylight/material"
	"github.com/achilleasa/go-daylight/ray"
	"github.com/achilleasa/go-daylight/scene"
	"github.com/achilleasa/go-daylight/types"
)

// Offset applied to shadow ray origins.
const shadowRayOffset = 1e-5

// RayTracer estimates the radiance arriving along camera rays.
//
// Lights are accounted for by next-event estimation at every diffuse or
// glossy hit. Emitters and distant sources reached by a path only
// contribute when the path comes straight from the camera or from a
// specular bounce, as those are the paths that light sampling cannot
// reproduce.
type RayTracer struct {
	scene *scene.Scene
	opts  Options
}

// Create a ray tracer for a built scene.
func NewRayTracer(sc *scene.Scene, opts Options) *RayTracer {
	return &RayTracer{scene: sc, opts: opts}
}

func (rt *RayTracer) Options() Options {
	return rt.opts
}

// Estimate the radiance travelling towards the ray origin. The ray
// throughput is the weight of this estimate in the final result and only
// steers the adaptive sample counts.
func (rt *RayTracer) Trace(r *ray.Ray, rng *rand.Rand, scratch *Scratch) types.Spectrum {
	return rt.trace(r, rng, scratch, true)
}

func (rt *RayTracer) trace(r *ray.Ray, rng *rand.Rand, scratch *Scratch, countEmitters bool) types.Spectrum {
	if !rt.scene.Intersect(r, scratch.stack) {
		if !countEmitters {
			return types.Spectrum{}
		}
		return rt.distantRadiance(r.Geometry.Direction)
	}

	m, ok := rt.scene.MaterialAt(r.Interaction)
	if !ok {
		return types.Spectrum{}
	}
	if m.EmitsLight() {
		if countEmitters {
			return m.Colour()
		}
		return types.Spectrum{}
	}
	if r.Depth > rt.opts.MaxDepth {
		return types.Spectrum{}
	}

	if m.SpecularOnly() {
		return rt.traceSpecular(m.(material.SpecularBSDF), r, rng, scratch)
	}

	bsdf := material.AsBSDF(m)
	local := rt.directLight(bsdf, r, rng, scratch)

	n := rt.ambientBudget(r)
	if n == 0 {
		return local
	}
	return local.Add(rt.ambient(bsdf, r, n, rng, scratch))
}

// Number of ambient rays to spawn at a diffuse hit. Children of a hit at
// MaxDepth cannot contribute: misses and emitters are not counted for them
// and any hit is past the depth limit.
func (rt *RayTracer) ambientBudget(r *ray.Ray) int {
	if r.Depth >= rt.opts.MaxDepth {
		return 0
	}
	return rt.opts.ambientCount(r.Depth, r.Throughput.Radiance())
}

func (rt *RayTracer) traceSpecular(m material.SpecularBSDF, r *ray.Ray, rng *rand.Rand, scratch *Scratch) types.Spectrum {
	it := r.Interaction
	paths, n := m.PossiblePaths(it.Frame, it.Point, r)

	var li types.Spectrum
	for _, path := range paths[:n] {
		child := ray.Ray{
			Geometry:        path.Ray,
			RefractionIndex: path.RefractionIndex,
			Throughput:      r.Throughput.Mul(path.Weight),
			Depth:           rt.opts.specularDepth(r.Depth, rng),
		}
		k := rt.opts.survival(child.Throughput, rng)
		if k == 0 {
			continue
		}
		child.Throughput = child.Throughput.Scale(k)
		li = li.Add(path.Weight.Mul(rt.trace(&child, rng, scratch, true)).Scale(k))
	}
	return li
}

// Indirect illumination estimated with n sampled directions.
func (rt *RayTracer) ambient(bsdf material.BSDF, r *ray.Ray, n int, rng *rand.Rand, scratch *Scratch) types.Spectrum {
	it := r.Interaction
	base := *r
	invN := 1 / float64(n)

	var sum types.Spectrum
	for i := 0; i < n; i++ {
		child := base
		s := bsdf.Sample(it.Frame, it.Point, &child, rng)
		if !(s.PDF > 0) {
			continue
		}
		cos := math.Abs(child.Geometry.Direction.Dot(it.Frame.Normal))
		weight := s.Value.Scale(cos / s.PDF)

		child.Throughput = base.Throughput.Mul(weight).Scale(invN)
		child.Depth = base.Depth + 1
		k := rt.opts.survival(child.Throughput, rng)
		if k == 0 {
			continue
		}
		child.Throughput = child.Throughput.Scale(k)
		sum = sum.Add(weight.Mul(rt.trace(&child, rng, scratch, false)).Scale(k))
	}
	return sum.Scale(invN)
}

// Next-event estimation over the scene lights and the distant lights.
func (rt *RayTracer) directLight(bsdf material.BSDF, r *ray.Ray, rng *rand.Rand, scratch *Scratch) types.Spectrum {
	nShadow := 1
	if r.Depth == 0 {
		nShadow = rt.opts.NShadowSamples
	}
	if nShadow == 0 {
		return types.Spectrum{}
	}

	it := r.Interaction
	origin := it.Point.Add(it.Frame.Normal.Mul(shadowRayOffset))
	invN := 1 / float64(nShadow)

	var total types.Spectrum
	for li, objIndex := range rt.scene.Lights {
		prim := rt.scene.Objects[objIndex].Primitive
		for s := 0; s < nShadow; s++ {
			dir, pdf, ok := prim.SampleDirection(rng, origin)
			if !ok || !(pdf > 0) {
				continue
			}
			cos := dir.Dot(it.Frame.Normal)
			if cos <= 0 {
				continue
			}
			g := geometry.Ray{Origin: origin, Direction: dir}
			le, dist2, ok := rt.scene.LightRadianceAlong(li, g)
			if !ok || !rt.scene.Unobstructed(g, dist2, scratch.stack) {
				continue
			}
			f := bsdf.Evaluate(it.Frame, r, dir)
			total = total.Add(le.Mul(f).Scale(cos / pdf * invN))
		}
	}

	for li, obj := range rt.scene.DistantLights {
		le, ok := rt.scene.DistantLightRadiance(li)
		if !ok {
			continue
		}
		for s := 0; s < nShadow; s++ {
			dir, pdf, ok := obj.Primitive.SampleDirection(rng, origin)
			if !ok || !(pdf > 0) {
				continue
			}
			cos := dir.Dot(it.Frame.Normal)
			if cos <= 0 {
				continue
			}
			g := geometry.Ray{Origin: origin, Direction: dir}
			if !rt.scene.Unobstructed(g, math.Inf(1), scratch.stack) {
				continue
			}
			f := bsdf.Evaluate(it.Frame, r, dir)
			total = total.Add(le.Mul(f).Scale(cos / pdf * invN))
		}
	}
	return total
}

// Radiance of the distant lights visible along dir.
func (rt *RayTracer) distantRadiance(dir types.Vec3) types.Spectrum {
	var out types.Spectrum
	for li, obj := range rt.scene.DistantLights {
		src := obj.Primitive.(*geometry.DistantSource)
		if !src.Contains(dir) {
			continue
		}
		if le, ok := rt.scene.DistantLightRadiance(li); ok {
			out = out.Add(le)
		}
	}
	return out
}
