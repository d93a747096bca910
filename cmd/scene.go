package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/achilleasa/go-daylight/asset"
	"github.com/achilleasa/go-daylight/demo"
	"github.com/achilleasa/go-daylight/scene"
	"github.com/urfave/cli"
)

// Load the scene named by the first command argument. Demo scene names take
// precedence; anything else is treated as a scene archive path or URL. The
// returned scene is built. The demo is nil for archive scenes.
func loadScene(ctx *cli.Context) (*scene.Scene, *demo.Demo, error) {
	if ctx.NArg() != 1 {
		return nil, nil, fmt.Errorf("missing scene argument; use a scene archive or one of the demo scenes %v", demo.Names())
	}

	sc, d, err := readScene(ctx.Args().First())
	if err != nil {
		return nil, nil, err
	}
	if err = sc.Build(); err != nil {
		return nil, nil, err
	}
	return sc, d, nil
}

func readScene(name string) (*scene.Scene, *demo.Demo, error) {
	d, err := demo.Lookup(name)
	if err == nil {
		logger.Infof("assembling demo scene %q", name)
		sc, err := d.Scene()
		return sc, &d, err
	}

	res, err := asset.Open(context.Background(), name)
	if err != nil {
		return nil, nil, err
	}
	defer res.Close()

	logger.Infof("reading scene archive %s", res.Path())
	sc, err := scene.ReadArchive(res)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", res.Path(), err)
	}
	return sc, nil, nil
}

// Display scene info.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, _, err := loadScene(ctx)
	if err != nil {
		return err
	}

	logger.Noticef("scene information:\n%s", sc.Stats())
	return nil
}

// Write demo scenes into scene archives that can be supplied as an argument
// to the render and dc commands.
func CompileScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		return errors.New("missing demo scene arguments")
	}

	for idx := 0; idx < ctx.NArg(); idx++ {
		name := ctx.Args().Get(idx)
		d, err := demo.Lookup(name)
		if err != nil {
			return err
		}

		sc, err := d.Scene()
		if err != nil {
			return err
		}

		zipFile := name + ".zip"
		if err = writeArchive(sc, zipFile); err != nil {
			return err
		}
		logger.Noticef("wrote scene %q to %s", name, zipFile)
	}

	return nil
}

func writeArchive(sc *scene.Scene, zipFile string) error {
	f, err := os.Create(zipFile)
	if err != nil {
		return err
	}
	if err = scene.WriteArchive(f, sc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
