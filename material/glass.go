package material

import (
	"math"
	"math/rand/v2"

	"github.com/achilleasa/go-daylight/ray"
	"github.com/achilleasa/go-daylight/types"
)

// A thin pane of glass. Light is transmitted without deviation and the
// multiple reflections inside the pane are accounted for analytically.
// Transmittance is the per-pass transmissivity at normal incidence.
type Glass struct {
	Transmittance   types.Spectrum
	RefractionIndex float64
}

func (m *Glass) Kind() string           { return "glass" }
func (m *Glass) Colour() types.Spectrum { return m.Transmittance }
func (m *Glass) EmitsLight() bool       { return false }
func (m *Glass) EmitsDirectLight() bool { return false }
func (m *Glass) SpecularOnly() bool     { return true }
func (m *Glass) isMaterial()            {}

// Reflected and transmitted fractions per channel.
func (m *Glass) split(f types.Frame, r *ray.Ray) (refl, trans types.Spectrum, cos1 float64) {
	cos1 = -r.Geometry.Direction.Dot(f.Normal)
	n1, n2 := interfaceIndices(r.RefractionIndex, m.RefractionIndex)
	cos2, ok := transmittedCos(n1, cos1, n2)
	if !ok {
		return types.Gray(1), types.Spectrum{}, cos1
	}

	te, tm := fresnelCoefficients(n1, cos1, n2, cos2)
	rte, rtm := te*te, tm*tm
	for c := range refl {
		// path length through the pane grows with 1/cos2
		tau := math.Pow(math.Max(m.Transmittance[c], 0), 1/cos2)
		tau2 := tau * tau
		trans[c] = 0.5 * tau * ((1-rte)*(1-rte)/(1-rte*rte*tau2) + (1-rtm)*(1-rtm)/(1-rtm*rtm*tau2))
		refl[c] = 0.5 * (rte*(1+(1-2*rte)*tau2)/(1-rte*rte*tau2) + rtm*(1+(1-2*rtm)*tau2)/(1-rtm*rtm*tau2))
	}
	return refl, trans, cos1
}

func (m *Glass) PossiblePaths(f types.Frame, point types.Vec3, r *ray.Ray) (paths [2]Path, n int) {
	refl, trans, _ := m.split(f, r)
	d := r.Geometry.Direction
	paths[0] = Path{
		Ray:             offsetRay(point, f.Normal, d.Reflect(f.Normal), 1),
		RefractionIndex: r.RefractionIndex,
		Weight:          refl,
	}
	if trans.IsBlack() {
		return paths, 1
	}
	paths[1] = Path{
		Ray:             offsetRay(point, f.Normal, d, -1),
		RefractionIndex: r.RefractionIndex,
		Weight:          trans,
	}
	return paths, 2
}

func (m *Glass) Sample(f types.Frame, point types.Vec3, r *ray.Ray, rng *rand.Rand) Sample {
	refl, trans, cos1 := m.split(f, r)
	d := r.Geometry.Direction

	pRefl := 1.0
	if total := refl.Radiance() + trans.Radiance(); total > 0 {
		pRefl = refl.Radiance() / total
	}

	if rng.Float64() < pRefl {
		r.Geometry = offsetRay(point, f.Normal, d.Reflect(f.Normal), 1)
		return Sample{Value: refl.Scale(1 / cos1), PDF: pRefl, Specular: true}
	}
	r.Geometry = offsetRay(point, f.Normal, d, -1)
	return Sample{Value: trans.Scale(1 / cos1), PDF: 1 - pRefl, Specular: true}
}

func (m *Glass) Evaluate(f types.Frame, r *ray.Ray, wo types.Vec3) types.Spectrum {
	refl, trans, cos1 := m.split(f, r)
	d := r.Geometry.Direction
	switch {
	case wo.Dot(d.Reflect(f.Normal)) >= deltaTolerance:
		return refl.Scale(1 / cos1)
	case wo.Dot(d) >= deltaTolerance:
		return trans.Scale(1 / cos1)
	}
	return types.Spectrum{}
}
