package material

import (
	"math/rand/v2"

	"github.com/achilleasa/go-daylight/ray"
	"github.com/achilleasa/go-daylight/types"
)

// A diffuse surface with an uncoloured glossy coating.
type Plastic struct {
	Reflectance types.Spectrum
	Specularity float64

	// Roughness along the two tangent directions. Equal values give an
	// isotropic lobe.
	RoughnessU float64
	RoughnessV float64
}

// Create an isotropic plastic.
func NewPlastic(colour types.Spectrum, specularity, roughness float64) *Plastic {
	return &Plastic{Reflectance: colour, Specularity: specularity, RoughnessU: roughness, RoughnessV: roughness}
}

func (m *Plastic) Kind() string           { return "plastic" }
func (m *Plastic) Colour() types.Spectrum { return m.Reflectance }
func (m *Plastic) EmitsLight() bool       { return false }
func (m *Plastic) EmitsDirectLight() bool { return false }
func (m *Plastic) SpecularOnly() bool     { return false }
func (m *Plastic) isMaterial()            {}

func (m *Plastic) lobes() ward {
	return ward{
		diffuse:     m.Reflectance.Scale(1 - m.Specularity),
		specular:    types.Gray(m.Specularity),
		specularity: m.Specularity,
		alpha:       m.RoughnessU,
		beta:        m.RoughnessV,
	}
}

func (m *Plastic) Sample(f types.Frame, point types.Vec3, r *ray.Ray, rng *rand.Rand) Sample {
	w := m.lobes()
	return w.sample(f, point, r, rng)
}

func (m *Plastic) Evaluate(f types.Frame, r *ray.Ray, wo types.Vec3) types.Spectrum {
	w := m.lobes()
	return w.evaluate(f, r.Geometry.Direction.Neg(), wo)
}

// Same as Plastic except that the specular lobe is tinted by the colour.
type Metal struct {
	Reflectance types.Spectrum
	Specularity float64
	RoughnessU  float64
	RoughnessV  float64
}

// Create an isotropic metal.
func NewMetal(colour types.Spectrum, specularity, roughness float64) *Metal {
	return &Metal{Reflectance: colour, Specularity: specularity, RoughnessU: roughness, RoughnessV: roughness}
}

func (m *Metal) Kind() string           { return "metal" }
func (m *Metal) Colour() types.Spectrum { return m.Reflectance }
func (m *Metal) EmitsLight() bool       { return false }
func (m *Metal) EmitsDirectLight() bool { return false }
func (m *Metal) SpecularOnly() bool     { return false }
func (m *Metal) isMaterial()            {}

func (m *Metal) lobes() ward {
	return ward{
		diffuse:     m.Reflectance.Scale(1 - m.Specularity),
		specular:    m.Reflectance.Scale(m.Specularity),
		specularity: m.Specularity,
		alpha:       m.RoughnessU,
		beta:        m.RoughnessV,
	}
}

func (m *Metal) Sample(f types.Frame, point types.Vec3, r *ray.Ray, rng *rand.Rand) Sample {
	w := m.lobes()
	return w.sample(f, point, r, rng)
}

func (m *Metal) Evaluate(f types.Frame, r *ray.Ray, wo types.Vec3) types.Spectrum {
	w := m.lobes()
	return w.evaluate(f, r.Geometry.Direction.Neg(), wo)
}
