package main

import (
	"os"

	"github.com/achilleasa/go-daylight/cmd"
	"github.com/achilleasa/go-daylight/log"
	"github.com/achilleasa/go-daylight/tracer"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "daylight"
	app.Usage = "render images and calculate daylight coefficients using ray tracing"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}

	renderFlags := []cli.Flag{
		cli.IntFlag{
			Name:   "width",
			Value:  512,
			Usage:  "frame width",
			EnvVar: "DAYLIGHT_WIDTH",
		},
		cli.IntFlag{
			Name:   "height",
			Value:  512,
			Usage:  "frame height",
			EnvVar: "DAYLIGHT_HEIGHT",
		},
		cli.IntFlag{
			Name:   "spp",
			Value:  16,
			Usage:  "samples per pixel",
			EnvVar: "DAYLIGHT_SPP",
		},
		cli.IntFlag{
			Name:   "passes",
			Value:  1,
			Usage:  "split samples into passes and rebalance tracer work after each one",
			EnvVar: "DAYLIGHT_PASSES",
		},
		cli.Float64Flag{
			Name:   "exposure",
			Value:  1.0,
			Usage:  "camera exposure for tone-mapping",
			EnvVar: "DAYLIGHT_EXPOSURE",
		},
		cli.StringFlag{
			Name:  "eye",
			Usage: "camera position as x,y,z (required for scene archives)",
		},
		cli.StringFlag{
			Name:  "look",
			Usage: "camera view direction as x,y,z",
		},
		cli.StringFlag{
			Name:  "up",
			Value: "0,0,1",
			Usage: "camera up vector as x,y,z",
		},
		cli.Float64Flag{
			Name:  "fov",
			Value: 60,
			Usage: "camera field of view in degrees",
		},
		cli.StringFlag{
			Name:  "out, o",
			Value: "frame.png",
			Usage: "image filename for the rendered frame",
		},
	}
	renderFlags = append(renderFlags, cmd.TracerFlags(tracer.DefaultImageOptions())...)
	renderFlags = append(renderFlags, cmd.WorkerFlags()...)

	dcFlags := []cli.Flag{
		cli.IntFlag{
			Name:   "mf",
			Value:  1,
			Usage:  "reinhart sky subdivision factor",
			EnvVar: "DAYLIGHT_MF",
		},
		cli.StringFlag{
			Name:  "sensors, s",
			Usage: "sensor file or URL with one 'ox oy oz dx dy dz' sensor per line (demo scenes provide a default grid)",
		},
		cli.Float64Flag{
			Name:  "relight",
			Usage: "display sensor illuminance under a uniform sky of this radiance",
		},
		cli.StringFlag{
			Name:  "out, o",
			Value: "dc.txt",
			Usage: "filename for the daylight coefficient matrix",
		},
	}
	dcFlags = append(dcFlags, cmd.TracerFlags(tracer.DefaultDCOptions())...)
	dcFlags = append(dcFlags, cmd.WorkerFlags()...)

	app.Commands = []cli.Command{
		{
			Name:  "compile",
			Usage: "write demo scenes into scene archives",
			Description: `
Assemble one or more demo scenes and write each one to a <name>.zip scene
archive which can be supplied as an argument to the render and dc commands.`,
			ArgsUsage: "demo_scene1 demo_scene2 ...",
			Action:    cmd.CompileScene,
		},
		{
			Name:      "scene-info",
			Usage:     "display scene statistics",
			ArgsUsage: "demo_scene|scene_archive",
			Action:    cmd.ShowSceneInfo,
		},
		{
			Name:   "list-devices",
			Usage:  "list the cpus available for tracing",
			Action: cmd.ListDevices,
		},
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Render a single frame of a demo scene or scene archive and save it as a
tone-mapped png image.`,
			ArgsUsage: "demo_scene|scene_archive",
			Flags:     renderFlags,
			Action:    cmd.RenderFrame,
		},
		{
			Name:  "dc",
			Usage: "calculate daylight coefficients",
			Description: `
Calculate the contribution of each Reinhart sky patch to a set of upward
facing sensors. The matrix is written as text with one line per sensor and
one tab-separated "r g b" cell per sky patch. Patch 0 is the ground.`,
			ArgsUsage: "demo_scene|scene_archive",
			Flags:     dcFlags,
			Action:    cmd.CalcDC,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New("daylight").Error(err)
		os.Exit(1)
	}
}
