package renderer

import (
	"fmt"

	"github.com/achilleasa/go-daylight/tracer"
)

// Image render options.
type Options struct {
	Tracer tracer.Options

	// Number of samples per pixel.
	SamplesPerPixel int

	// Samples are split across this many passes. The block scheduler
	// rebalances rows between tracers after every pass.
	Passes int

	// Number of tracers. Zero selects one tracer per logical cpu.
	Workers int

	// Seed for the per-row random number generators. Renders with the same
	// seed are identical regardless of the number of workers.
	Seed uint64
}

func DefaultOptions() Options {
	return Options{
		Tracer:          tracer.DefaultImageOptions(),
		SamplesPerPixel: 1,
		Passes:          1,
		Seed:            1,
	}
}

func (o Options) Validate() error {
	if err := o.Tracer.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	switch {
	case o.SamplesPerPixel < 1:
		return fmt.Errorf("%w: samples per pixel must be >= 1; got %d", ErrInvalidOptions, o.SamplesPerPixel)
	case o.Passes < 1 || o.Passes > o.SamplesPerPixel:
		return fmt.Errorf("%w: passes must be in [1, %d]; got %d", ErrInvalidOptions, o.SamplesPerPixel, o.Passes)
	case o.Workers < 0:
		return fmt.Errorf("%w: workers must be >= 0; got %d", ErrInvalidOptions, o.Workers)
	}
	return nil
}

// Number of samples traced in the given pass. Leftover samples go to the
// first passes.
func (o Options) samplesInPass(pass int) int {
	spp := o.SamplesPerPixel / o.Passes
	if pass < o.SamplesPerPixel%o.Passes {
		spp++
	}
	return spp
}

// Daylight coefficient options.
type DCOptions struct {
	Tracer tracer.Options

	// Reinhart sky subdivision factor.
	SkySubdivisions int

	// Number of tracers. Zero selects one tracer per logical cpu.
	Workers int

	// Seed for the per-sensor random number generators.
	Seed uint64
}

func DefaultDCOptions() DCOptions {
	return DCOptions{
		Tracer:          tracer.DefaultDCOptions(),
		SkySubdivisions: 1,
		Seed:            1,
	}
}

func (o DCOptions) Validate() error {
	if err := o.Tracer.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	switch {
	case o.SkySubdivisions < 1:
		return fmt.Errorf("%w: sky subdivisions must be >= 1; got %d", ErrInvalidOptions, o.SkySubdivisions)
	case o.Workers < 0:
		return fmt.Errorf("%w: workers must be >= 0; got %d", ErrInvalidOptions, o.Workers)
	}
	return nil
}
