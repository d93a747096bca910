// Package material implements the scattering models supported by the tracer.
//
// Every material implements Material. Materials that scatter light also
// implement BSDF; materials whose lobes are Dirac deltas additionally
// implement SpecularBSDF. Light only implements Material, so sampling or
// evaluating an emitter cannot be expressed without going through AsBSDF,
// which panics.
package material

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/achilleasa/go-daylight/geometry"
	"github.com/achilleasa/go-daylight/ray"
	"github.com/achilleasa/go-daylight/types"
)

// Distance used for offsetting scattered ray origins away from the surface.
const surfaceOffset = 1e-5

var ErrNoBSDF = errors.New("material: emitters do not scatter light")

type Material interface {
	Kind() string
	Colour() types.Spectrum

	// Terminal emitters.
	EmitsLight() bool
	EmitsDirectLight() bool

	// True if all lobes are Dirac deltas; PossiblePaths must be used
	// instead of Evaluate.
	SpecularOnly() bool

	isMaterial()
}

// The outcome of sampling a BSDF. An unbiased estimate of the scattered
// radiance is Value * |cos(wo, n)| / PDF times the incoming radiance.
type Sample struct {
	Value types.Spectrum

	// Solid angle density for smooth lobes; discrete selection
	// probability for delta lobes.
	PDF float64

	Specular bool
}

type BSDF interface {
	Material

	// Sample an outgoing direction. The ray origin and direction are
	// replaced with the scattered ray. The frame normal must face the
	// incoming ray.
	Sample(f types.Frame, point types.Vec3, r *ray.Ray, rng *rand.Rand) Sample

	// Evaluate the BSDF for the incoming ray direction and the outgoing
	// (away from the surface) direction wo.
	Evaluate(f types.Frame, r *ray.Ray, wo types.Vec3) types.Spectrum
}

// A deterministic scattering branch of a delta lobe.
type Path struct {
	Ray             geometry.Ray
	RefractionIndex float64
	Weight          types.Spectrum
}

type SpecularBSDF interface {
	BSDF

	// Enumerate the reflection and, if present, transmission branches.
	PossiblePaths(f types.Frame, point types.Vec3, r *ray.Ray) (paths [2]Path, n int)
}

// Get the BSDF view of a material. Emitters are never sampled by a correct
// integrator so asking for their BSDF panics.
func AsBSDF(m Material) BSDF {
	b, ok := m.(BSDF)
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrNoBSDF, m.Kind()))
	}
	return b
}

func offsetRay(point, normal, dir types.Vec3, sign float64) geometry.Ray {
	return geometry.Ray{Origin: point.Add(normal.Mul(sign * surfaceOffset)), Direction: dir}
}
