package tracer

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/achilleasa/go-daylight/types"
)

var ErrInvalidOptions = errors.New("tracer: invalid options")

// Integrator options.
type Options struct {
	// Maximum number of diffuse bounces. Zero disables indirect lighting.
	MaxDepth int

	// Number of shadow rays per light at the first bounce. Deeper bounces
	// use a single shadow ray.
	NShadowSamples int

	// Number of ambient rays at the first bounce. Deeper bounces use an
	// adaptive count derived from the path weight.
	NAmbientSamples int

	// Paths whose weight falls below this value are subject to russian
	// roulette.
	LimitWeight float64

	// Probability that a specular bounce counts towards MaxDepth.
	CountSpecularBounce float64
}

// Defaults for image rendering.
func DefaultImageOptions() Options {
	return Options{
		MaxDepth:            2,
		NShadowSamples:      10,
		NAmbientSamples:     10,
		LimitWeight:         1e-3,
		CountSpecularBounce: 0.3,
	}
}

// Defaults for daylight coefficient calculations. NShadowSamples is unused
// as the sky is only reached through ambient rays.
func DefaultDCOptions() Options {
	return Options{
		MaxDepth:            0,
		NAmbientSamples:     10,
		LimitWeight:         1e-4,
		CountSpecularBounce: 0.5,
	}
}

func (o Options) Validate() error {
	switch {
	case o.MaxDepth < 0:
		return fmt.Errorf("%w: max depth must be >= 0; got %d", ErrInvalidOptions, o.MaxDepth)
	case o.NShadowSamples < 0:
		return fmt.Errorf("%w: shadow samples must be >= 0; got %d", ErrInvalidOptions, o.NShadowSamples)
	case o.NAmbientSamples < 0:
		return fmt.Errorf("%w: ambient samples must be >= 0; got %d", ErrInvalidOptions, o.NAmbientSamples)
	case !(o.LimitWeight >= 0):
		return fmt.Errorf("%w: limit weight must be >= 0; got %g", ErrInvalidOptions, o.LimitWeight)
	case !(o.CountSpecularBounce >= 0 && o.CountSpecularBounce <= 1):
		return fmt.Errorf("%w: specular bounce probability must be in [0, 1]; got %g", ErrInvalidOptions, o.CountSpecularBounce)
	}
	return nil
}

// Number of ambient rays to spawn at a diffuse hit. The count shrinks with
// depth and with the path weight w (Radiance's samp_hemi rule).
func (o Options) ambientCount(depth int, w float64) int {
	if o.MaxDepth == 0 || o.NAmbientSamples == 0 {
		return 0
	}
	if depth == 0 {
		return o.NAmbientSamples
	}

	n := float64(o.NAmbientSamples)
	if o.LimitWeight > 0 {
		if d := 0.8 * w * w / n / o.LimitWeight; w > d {
			w = d
		}
	}
	count := int(math.Sqrt(n*w) + 0.5)
	if count < 1 {
		return 1
	}
	return count
}

// Russian roulette on a child path weight. Returns 0 if the path is
// terminated, otherwise the factor that compensates for the terminated
// paths.
func (o Options) survival(throughput types.Spectrum, rng *rand.Rand) float64 {
	w := throughput.Radiance()
	if !(w > 0) {
		return 0
	}
	if o.LimitWeight <= 0 || w >= o.LimitWeight {
		return 1
	}
	q := w / o.LimitWeight
	if rng.Float64() >= q {
		return 0
	}
	return 1 / q
}

// Advance the depth of a specular child path with probability
// CountSpecularBounce.
func (o Options) specularDepth(depth int, rng *rand.Rand) int {
	if rng.Float64() < o.CountSpecularBounce {
		return depth + 1
	}
	return depth
}
