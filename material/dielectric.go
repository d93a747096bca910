package material

import (
	"math"
	"math/rand/v2"

	"github.com/achilleasa/go-daylight/ray"
	"github.com/achilleasa/go-daylight/types"
)

// A smooth interface between two media (e.g. the surface of a solid glass
// object). Rays crossing the interface carry the new refraction index.
//
// Transmitted radiance is scaled by (n1/n2)^2 where n1 is the index on the
// side of the incoming ray; the factor cancels out for rays that enter and
// leave the same object.
type Dielectric struct {
	Transmittance   types.Spectrum
	RefractionIndex float64
}

func (m *Dielectric) Kind() string           { return "dielectric" }
func (m *Dielectric) Colour() types.Spectrum { return m.Transmittance }
func (m *Dielectric) EmitsLight() bool       { return false }
func (m *Dielectric) EmitsDirectLight() bool { return false }
func (m *Dielectric) SpecularOnly() bool     { return true }
func (m *Dielectric) isMaterial()            {}

type dielectricLobes struct {
	n1, n2     float64
	cos1, cos2 float64
	refl       float64
	trans      float64
	reflDir    types.Vec3
	transDir   types.Vec3
	tir        bool
}

func (m *Dielectric) lobes(f types.Frame, r *ray.Ray) dielectricLobes {
	d := r.Geometry.Direction
	l := dielectricLobes{cos1: -d.Dot(f.Normal), reflDir: d.Reflect(f.Normal)}
	l.n1, l.n2 = interfaceIndices(r.RefractionIndex, m.RefractionIndex)

	var ok bool
	if l.cos2, ok = transmittedCos(l.n1, l.cos1, l.n2); !ok {
		l.tir = true
		l.refl = 1
		return l
	}

	te, tm := fresnelCoefficients(l.n1, l.cos1, l.n2, l.cos2)
	l.refl = 0.5 * (te*te + tm*tm)
	ratio := l.n1 / l.n2
	l.trans = (1 - l.refl) * ratio * ratio
	l.transDir = d.Mul(ratio).Add(f.Normal.Mul(ratio*l.cos1 - l.cos2)).Normalize()
	return l
}

func (m *Dielectric) PossiblePaths(f types.Frame, point types.Vec3, r *ray.Ray) (paths [2]Path, n int) {
	l := m.lobes(f, r)
	paths[0] = Path{
		Ray:             offsetRay(point, f.Normal, l.reflDir, 1),
		RefractionIndex: l.n1,
		Weight:          m.Transmittance.Scale(l.refl),
	}
	if l.tir {
		return paths, 1
	}
	paths[1] = Path{
		Ray:             offsetRay(point, f.Normal, l.transDir, -1),
		RefractionIndex: l.n2,
		Weight:          m.Transmittance.Scale(l.trans),
	}
	return paths, 2
}

// Pick the reflection branch with probability equal to the Fresnel reflectance.
func (m *Dielectric) Sample(f types.Frame, point types.Vec3, r *ray.Ray, rng *rand.Rand) Sample {
	l := m.lobes(f, r)
	if l.tir || rng.Float64() < l.refl {
		r.Geometry = offsetRay(point, f.Normal, l.reflDir, 1)
		r.RefractionIndex = l.n1
		return Sample{Value: m.Transmittance.Scale(l.refl / l.cos1), PDF: l.refl, Specular: true}
	}

	r.Geometry = offsetRay(point, f.Normal, l.transDir, -1)
	r.RefractionIndex = l.n2
	return Sample{Value: m.Transmittance.Scale(l.trans / l.cos2), PDF: 1 - l.refl, Specular: true}
}

func (m *Dielectric) Evaluate(f types.Frame, r *ray.Ray, wo types.Vec3) types.Spectrum {
	l := m.lobes(f, r)
	switch {
	case wo.Dot(l.reflDir) >= deltaTolerance:
		return m.Transmittance.Scale(l.refl / l.cos1)
	case !l.tir && wo.Dot(l.transDir) >= deltaTolerance:
		return m.Transmittance.Scale(l.trans / math.Abs(l.cos2))
	}
	return types.Spectrum{}
}
