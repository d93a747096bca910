package cmd

import (
	"os"

	"github.com/achilleasa/go-daylight/camera"
	"github.com/achilleasa/go-daylight/demo"
	"github.com/achilleasa/go-daylight/renderer"
	"github.com/achilleasa/go-daylight/types"
	"github.com/urfave/cli"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	opts := renderer.Options{
		Tracer:          tracerOptions(ctx),
		SamplesPerPixel: ctx.Int("spp"),
		Passes:          ctx.Int("passes"),
		Workers:         ctx.Int("workers"),
		Seed:            ctx.Uint64("seed"),
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	sc, d, err := loadScene(ctx)
	if err != nil {
		return err
	}

	cam, err := setupCamera(ctx, d)
	if err != nil {
		return err
	}

	img, stats, err := renderer.Render(sc, cam, opts)
	if err != nil {
		return err
	}

	// Display stats
	logger.Noticef("frame statistics\n%s", stats.Table())

	imgFile := ctx.String("out")
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	if err = img.WritePNG(f, ctx.Float64("exposure")); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", imgFile)
	return nil
}

// Setup the camera. Demo scenes provide a default camera which is replaced
// when the eye flag is set; archive scenes always need the eye flag.
func setupCamera(ctx *cli.Context, d *demo.Demo) (*camera.Pinhole, error) {
	width, height := ctx.Int("width"), ctx.Int("height")
	if d != nil && !ctx.IsSet("eye") {
		return d.Camera(width, height)
	}

	if !ctx.IsSet("eye") {
		return nil, renderer.ErrCameraNotDefined
	}
	eye, err := parseVec3(ctx.String("eye"))
	if err != nil {
		return nil, err
	}
	look := types.Vec3{0, 1, 0}
	if ctx.IsSet("look") {
		if look, err = parseVec3(ctx.String("look")); err != nil {
			return nil, err
		}
	}
	up, err := parseVec3(ctx.String("up"))
	if err != nil {
		return nil, err
	}
	return camera.NewPinhole(eye, look, up, ctx.Float64("fov"), width, height)
}
