package cmd

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/achilleasa/go-daylight/asset"
	"github.com/achilleasa/go-daylight/film"
	"github.com/achilleasa/go-daylight/geometry"
	"github.com/achilleasa/go-daylight/renderer"
	"github.com/achilleasa/go-daylight/types"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Calculate the daylight coefficients for a set of sensors.
func CalcDC(ctx *cli.Context) error {
	setupLogging(ctx)

	opts := renderer.DCOptions{
		Tracer:          tracerOptions(ctx),
		SkySubdivisions: ctx.Int("mf"),
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

	var sensors []geometry.Ray
	switch {
	case ctx.IsSet("sensors"):
		if sensors, err = loadSensors(ctx.String("sensors")); err != nil {
			return err
		}
	case d != nil:
		sensors = d.Sensors()
	default:
		return renderer.ErrNoSensors
	}

	dc, stats, err := renderer.CalcDC(sensors, sc, opts)
	if err != nil {
		return err
	}
	logger.Noticef("daylight coefficient statistics\n%s", stats.Table())

	outFile := ctx.String("out")
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if _, err = dc.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	logger.Noticef("wrote %dx%d daylight coefficient matrix to %s", stats.Sensors, stats.Bins, outFile)

	if ctx.IsSet("relight") {
		return displayRelight(dc, stats.Bins, ctx.Float64("relight"))
	}
	return nil
}

// Relight the sensors with a uniform sky of the given radiance and display
// the resulting irradiance and illuminance.
func displayRelight(dc *film.ColourMatrix, bins int, skyRadiance float64) error {
	sky := make([]types.Spectrum, bins)
	for bin := 1; bin < bins; bin++ {
		sky[bin] = types.Gray(skyRadiance)
	}
	irradiance, err := dc.Apply(sky)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Sensor", "Irradiance (r, g, b)", "Illuminance (lx)"})
	for idx, e := range irradiance {
		table.Append([]string{
			fmt.Sprint(idx),
			fmt.Sprintf("%.3f, %.3f, %.3f", e[0], e[1], e[2]),
			fmt.Sprintf("%.1f", e.Luminance()),
		})
	}
	table.Render()
	logger.Noticef("uniform sky relight (radiance %g)\n%s", skyRadiance, buf.String())
	return nil
}

// Load sensors from a local or remote file. Each non-empty line holds the
// sensor origin and direction as six whitespace separated numbers. Lines
// starting with '#' are ignored.
func loadSensors(pathToFile string) ([]geometry.Ray, error) {
	res, err := asset.Open(context.Background(), pathToFile)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	sensors, err := parseSensors(res)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", res.Path(), err)
	}
	return sensors, nil
}

func parseSensors(r io.Reader) ([]geometry.Ray, error) {
	var sensors []geometry.Ray
	scanner := bufio.NewScanner(r)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 6 {
			return nil, fmt.Errorf("line %d: expected 6 values; got %d", lineNum, len(fields))
		}
		var vals [6]float64
		for idx, field := range fields {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			vals[idx] = val
		}
		sensors = append(sensors, geometry.Ray{
			Origin:    types.Vec3{vals[0], vals[1], vals[2]},
			Direction: types.Vec3{vals[3], vals[4], vals[5]},
		})
	}
	return sensors, scanner.Err()
}
