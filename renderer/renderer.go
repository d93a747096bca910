// Package renderer drives a pool of cpu tracers over an image frame or a
// list of daylight sensors.
package renderer

import (
	"fmt"
	"time"

	"github.com/achilleasa/go-daylight/camera"
	"github.com/achilleasa/go-daylight/film"
	"github.com/achilleasa/go-daylight/geometry"
	"github.com/achilleasa/go-daylight/log"
	"github.com/achilleasa/go-daylight/ray"
	"github.com/achilleasa/go-daylight/sampling"
	"github.com/achilleasa/go-daylight/scene"
	"github.com/achilleasa/go-daylight/sky"
	"github.com/achilleasa/go-daylight/tracer"
	"github.com/achilleasa/go-daylight/types"
)

var logger = log.New("renderer")

// An image renderer splits the frame rows between a pool of tracers and
// accumulates the samples of each pass.
type ImageRenderer struct {
	scene  *scene.Scene
	camera *camera.Pinhole
	opts   Options

	tracer    *tracer.RayTracer
	pool      tracerPool
	scheduler tracer.BlockScheduler

	accumulator []types.Spectrum
	stats       FrameStats
}

// Create an image renderer. The scene must already be built.
func NewImageRenderer(sc *scene.Scene, cam *camera.Pinhole, opts Options) (*ImageRenderer, error) {
	switch {
	case sc == nil:
		return nil, ErrSceneNotDefined
	case cam == nil:
		return nil, ErrCameraNotDefined
	case !sc.IsBuilt():
		return nil, scene.ErrNotBuilt
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	r := &ImageRenderer{
		scene:       sc,
		camera:      cam,
		opts:        opts,
		tracer:      tracer.NewRayTracer(sc, opts.Tracer),
		scheduler:   tracer.NewPerfectScheduler(),
		accumulator: make([]types.Spectrum, cam.Width*cam.Height),
	}
	r.pool = newTracerPool(opts.Workers, r.renderBlock)
	return r, nil
}

// Shutdown the tracer pool.
func (r *ImageRenderer) Close() {
	r.pool.Close()
}

func (r *ImageRenderer) Stats() FrameStats {
	return r.stats
}

// Trace all passes and return the averaged frame.
func (r *ImageRenderer) Render() (*film.Image, error) {
	frameH := r.camera.Height
	start := time.Now()
	clear(r.accumulator)

	var blockAssignment []int
	for pass := 0; pass < r.opts.Passes; pass++ {
		blockAssignment = r.scheduler.Schedule(r.pool, frameH)
		if err := r.pool.runPass(blockAssignment, pass, r.opts.samplesInPass(pass), r.opts.Seed); err != nil {
			return nil, err
		}
	}

	img := film.NewImage(r.camera.Width, frameH)
	scale := 1 / float64(r.opts.SamplesPerPixel)
	for idx, sum := range r.accumulator {
		img.Pix[idx] = sum.Scale(scale)
	}

	r.stats = FrameStats{
		Tracers:         r.pool.stats(blockAssignment, frameH),
		Passes:          r.opts.Passes,
		SamplesPerPixel: r.opts.SamplesPerPixel,
		RenderTime:      time.Since(start),
	}
	logger.Noticef(
		"rendered %dx%d frame (%d spp, %d passes) in %s",
		r.camera.Width, frameH, r.opts.SamplesPerPixel, r.opts.Passes, r.stats.RenderTime,
	)
	return img, nil
}

// Tracer stage for a block of frame rows. Each row owns its random stream
// so the output does not depend on how rows are split between tracers.
func (r *ImageRenderer) renderBlock(blockReq *tracer.BlockRequest, scratch *tracer.Scratch) error {
	frameW := r.camera.Width
	jitter := r.opts.SamplesPerPixel > 1
	for y := blockReq.BlockY; y < blockReq.BlockY+blockReq.BlockH; y++ {
		rng := sampling.NewRNG(blockReq.Seed, uint64(blockReq.Pass)<<32|uint64(y))
		for x := 0; x < frameW; x++ {
			var sum types.Spectrum
			for s := 0; s < blockReq.SamplesPerPixel; s++ {
				jx, jy := 0.5, 0.5
				if jitter {
					jx, jy = rng.Float64(), rng.Float64()
				}
				primary := ray.New(r.camera.Ray(x, y, jx, jy))
				sum = sum.Add(r.tracer.Trace(&primary, rng, scratch))
			}
			r.accumulator[y*frameW+x] = r.accumulator[y*frameW+x].Add(sum)
		}
	}
	return nil
}

// Render a single frame using a temporary image renderer.
func Render(sc *scene.Scene, cam *camera.Pinhole, opts Options) (*film.Image, FrameStats, error) {
	r, err := NewImageRenderer(sc, cam, opts)
	if err != nil {
		return nil, FrameStats{}, err
	}
	defer r.Close()

	img, err := r.Render()
	if err != nil {
		return nil, FrameStats{}, err
	}
	return img, r.Stats(), nil
}

// Calculate the daylight coefficient matrix for a list of sensors. Row i of
// the returned matrix holds the contribution of each sky bin to sensor i.
// Sensor directions are normalized.
func CalcDC(sensors []geometry.Ray, sc *scene.Scene, opts DCOptions) (*film.ColourMatrix, DCStats, error) {
	switch {
	case sc == nil:
		return nil, DCStats{}, ErrSceneNotDefined
	case len(sensors) == 0:
		return nil, DCStats{}, ErrNoSensors
	case !sc.IsBuilt():
		return nil, DCStats{}, scene.ErrNotBuilt
	}
	if err := opts.Validate(); err != nil {
		return nil, DCStats{}, err
	}

	rays := make([]geometry.Ray, len(sensors))
	for idx, sensor := range sensors {
		if sensor.Direction.IsZero() || !sensor.Direction.IsFinite() || !sensor.Origin.IsFinite() {
			return nil, DCStats{}, fmt.Errorf("%w: sensor %d", ErrInvalidSensor, idx)
		}
		rays[idx] = geometry.Ray{Origin: sensor.Origin, Direction: sensor.Direction.Normalize()}
	}

	skyModel, err := sky.NewReinhart(opts.SkySubdivisions)
	if err != nil {
		return nil, DCStats{}, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	dc := tracer.NewDCTracer(sc, opts.Tracer, skyModel)
	out := film.NewColourMatrix(len(rays), skyModel.NBins())

	// Rows of out are disjoint so tracers may fill them concurrently.
	stage := func(blockReq *tracer.BlockRequest, scratch *tracer.Scratch) error {
		acc := make([]types.Spectrum, skyModel.NBins())
		for idx := blockReq.BlockY; idx < blockReq.BlockY+blockReq.BlockH; idx++ {
			clear(acc)
			rng := sampling.NewRNG(blockReq.Seed, uint64(idx))
			dc.TraceSensor(rays[idx], rng, scratch, acc)
			out.SetRow(idx, acc)
		}
		return nil
	}

	pool := newTracerPool(opts.Workers, stage)
	defer pool.Close()

	start := time.Now()
	blockAssignment := tracer.NewNaiveScheduler().Schedule(pool, len(rays))
	if err := pool.runPass(blockAssignment, 0, 1, opts.Seed); err != nil {
		return nil, DCStats{}, err
	}

	stats := DCStats{
		Tracers:    pool.stats(blockAssignment, len(rays)),
		Sensors:    len(rays),
		Bins:       skyModel.NBins(),
		RenderTime: time.Since(start),
	}
	logger.Noticef("calculated %dx%d daylight coefficients in %s", stats.Sensors, stats.Bins, stats.RenderTime)
	return out, stats, nil
}
