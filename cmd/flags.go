package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/achilleasa/go-daylight/tracer"
	"github.com/achilleasa/go-daylight/types"
	"github.com/urfave/cli"
)

// Flags for tuning the integrator. Defaults differ between image and
// daylight coefficient calculations.
func TracerFlags(defaults tracer.Options) []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:   "max-depth",
			Value:  defaults.MaxDepth,
			Usage:  "maximum number of diffuse bounces",
			EnvVar: "DAYLIGHT_MAX_DEPTH",
		},
		cli.IntFlag{
			Name:   "shadow-samples",
			Value:  defaults.NShadowSamples,
			Usage:  "shadow rays per light for camera hits",
			EnvVar: "DAYLIGHT_SHADOW_SAMPLES",
		},
		cli.IntFlag{
			Name:   "ambient-samples",
			Value:  defaults.NAmbientSamples,
			Usage:  "ambient rays spawned by the first diffuse hit",
			EnvVar: "DAYLIGHT_AMBIENT_SAMPLES",
		},
		cli.Float64Flag{
			Name:   "limit-weight",
			Value:  defaults.LimitWeight,
			Usage:  "throughput below which paths are subject to russian roulette (0 disables it)",
			EnvVar: "DAYLIGHT_LIMIT_WEIGHT",
		},
		cli.Float64Flag{
			Name:   "specular-bounce",
			Value:  defaults.CountSpecularBounce,
			Usage:  "probability of a specular bounce counting towards max-depth",
			EnvVar: "DAYLIGHT_SPECULAR_BOUNCE",
		},
	}
}

// Flags shared by all commands that spawn tracers.
func WorkerFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:   "workers, w",
			Usage:  "number of tracers (0 selects one per logical cpu)",
			EnvVar: "DAYLIGHT_WORKERS",
		},
		cli.Uint64Flag{
			Name:   "seed",
			Value:  1,
			Usage:  "random generator seed",
			EnvVar: "DAYLIGHT_SEED",
		},
	}
}

func tracerOptions(ctx *cli.Context) tracer.Options {
	return tracer.Options{
		MaxDepth:            ctx.Int("max-depth"),
		NShadowSamples:      ctx.Int("shadow-samples"),
		NAmbientSamples:     ctx.Int("ambient-samples"),
		LimitWeight:         ctx.Float64("limit-weight"),
		CountSpecularBounce: ctx.Float64("specular-bounce"),
	}
}

// Parse a comma separated "x,y,z" vector.
func parseVec3(text string) (types.Vec3, error) {
	var v types.Vec3
	fields := strings.Split(text, ",")
	if len(fields) != 3 {
		return v, fmt.Errorf("expected a vector in x,y,z format; got %q", text)
	}
	for idx, field := range fields {
		val, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return v, fmt.Errorf("invalid vector component %q: %w", field, err)
		}
		v[idx] = val
	}
	return v, nil
}
