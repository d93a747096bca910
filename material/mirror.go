package material

import (
	"math"
	"math/rand/v2"

	"github.com/achilleasa/go-daylight/ray"
	"github.com/achilleasa/go-daylight/types"
)

// Directions whose cosine with the mirror direction exceeds this value are
// considered to be the mirror direction.
const deltaTolerance = 1 - 1e-6

// A perfect specular reflector.
type Mirror struct {
	Reflectance types.Spectrum
}

func (m *Mirror) Kind() string           { return "mirror" }
func (m *Mirror) Colour() types.Spectrum { return m.Reflectance }
func (m *Mirror) EmitsLight() bool       { return false }
func (m *Mirror) EmitsDirectLight() bool { return false }
func (m *Mirror) SpecularOnly() bool     { return true }
func (m *Mirror) isMaterial()            {}

func (m *Mirror) Sample(f types.Frame, point types.Vec3, r *ray.Ray, _ *rand.Rand) Sample {
	d := r.Geometry.Direction
	cos := -d.Dot(f.Normal)
	r.Geometry = offsetRay(point, f.Normal, d.Reflect(f.Normal), 1)
	return Sample{Value: m.Reflectance.Scale(1 / cos), PDF: 1, Specular: true}
}

// Returns Reflectance/cos(theta) in the mirror direction and zero anywhere else.
func (m *Mirror) Evaluate(f types.Frame, r *ray.Ray, wo types.Vec3) types.Spectrum {
	d := r.Geometry.Direction
	if wo.Dot(d.Reflect(f.Normal)) < deltaTolerance {
		return types.Spectrum{}
	}
	return m.Reflectance.Scale(1 / math.Abs(d.Dot(f.Normal)))
}

func (m *Mirror) PossiblePaths(f types.Frame, point types.Vec3, r *ray.Ray) (paths [2]Path, n int) {
	d := r.Geometry.Direction
	paths[0] = Path{
		Ray:             offsetRay(point, f.Normal, d.Reflect(f.Normal), 1),
		RefractionIndex: r.RefractionIndex,
		Weight:          m.Reflectance,
	}
	return paths, 1
}
