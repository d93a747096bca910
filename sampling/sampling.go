// Package sampling provides the random number generators and the warping
// functions used by the integrators and the light samplers.
package sampling

import (
	"math"
	"math/rand/v2"

	"github.com/achilleasa/go-daylight/types"
)

// Create an independent generator. Workers derive the stream from their task
// index so that results do not depend on scheduling order.
func NewRNG(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream*0x9e3779b97f4a7c15+1))
}

// Map two uniform numbers onto the unit disc (concentric mapping).
func UniformDisc(u1, u2 float64) (x, y float64) {
	ox, oy := 2*u1-1, 2*u2-1
	if ox == 0 && oy == 0 {
		return 0, 0
	}

	var r, theta float64
	if math.Abs(ox) > math.Abs(oy) {
		r = ox
		theta = math.Pi / 4 * (oy / ox)
	} else {
		r = oy
		theta = math.Pi/2 - math.Pi/4*(ox/oy)
	}
	return r * math.Cos(theta), r * math.Sin(theta)
}

// Cosine-weighted direction in local coordinates (z is the normal). The
// density is cos(theta)/pi.
func CosineHemisphere(rng *rand.Rand) types.Vec3 {
	x, y := UniformDisc(rng.Float64(), rng.Float64())
	z := math.Sqrt(math.Max(0, 1-x*x-y*y))
	return types.Vec3{x, y, z}
}

// Uniform direction inside a cone around local z with the given cosine of
// the half angle.
func UniformCone(rng *rand.Rand, cosMax float64) types.Vec3 {
	cosTheta := 1 - rng.Float64()*(1-cosMax)
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * rng.Float64()
	return types.Vec3{sinTheta * math.Cos(phi), sinTheta * math.Sin(phi), cosTheta}
}

// Solid-angle density of UniformCone.
func UniformConePDF(cosMax float64) float64 {
	return 1 / (2 * math.Pi * (1 - cosMax))
}

// Uniform barycentric coordinates over a triangle.
func UniformTriangle(rng *rand.Rand) (b0, b1 float64) {
	su := math.Sqrt(rng.Float64())
	return 1 - su, rng.Float64() * su
}
