package types

import "math"

// Luminous efficacy (lm/W) used to convert Radiance() values into luminance.
const WhiteEfficacy = 179.0

// A 3-channel radiometric quantity.
type Spectrum [3]float64

// Spectrum with all channels set to v.
func Gray(v float64) Spectrum {
	return Spectrum{v, v, v}
}

// Add a spectrum.
func (s Spectrum) Add(s2 Spectrum) Spectrum {
	return Spectrum{s[0] + s2[0], s[1] + s2[1], s[2] + s2[2]}
}

// Channel-wise product.
func (s Spectrum) Mul(s2 Spectrum) Spectrum {
	return Spectrum{s[0] * s2[0], s[1] * s2[1], s[2] * s2[2]}
}

// Scale all channels.
func (s Spectrum) Scale(v float64) Spectrum {
	return Spectrum{s[0] * v, s[1] * v, s[2] * v}
}

// Largest channel.
func (s Spectrum) Max() float64 {
	return math.Max(s[0], math.Max(s[1], s[2]))
}

// Scalar radiance reduction.
func (s Spectrum) Radiance() float64 {
	return 0.265*s[0] + 0.670*s[1] + 0.065*s[2]
}

// Photometric luminance.
func (s Spectrum) Luminance() float64 {
	return WhiteEfficacy * s.Radiance()
}

func (s Spectrum) IsBlack() bool {
	return s[0] == 0 && s[1] == 0 && s[2] == 0
}

// Returns true if every channel is finite and non-negative.
func (s Spectrum) IsValid() bool {
	for _, c := range s {
		if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
			return false
		}
	}
	return true
}
