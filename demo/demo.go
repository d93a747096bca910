// Package demo provides hand-built scenes for the command line tools and
// for end-to-end tests. Z points up in every scene.
package demo

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/achilleasa/go-daylight/camera"
	"github.com/achilleasa/go-daylight/geometry"
	"github.com/achilleasa/go-daylight/scene"
	"github.com/achilleasa/go-daylight/types"
)

var ErrUnknownScene = errors.New("demo: unknown scene")

// Apparent angle of the sun in radians.
const SunAngle = 0.533 * math.Pi / 180

// A Demo bundles a scene with a matching camera and a sensor grid.
type Demo struct {
	Name        string
	Description string

	// Assemble the scene. The returned scene is not built.
	Scene func() (*scene.Scene, error)

	// Camera for image renders.
	Camera func(width, height int) (*camera.Pinhole, error)

	// Upward-facing sensors for daylight coefficient calculations.
	Sensors func() []geometry.Ray
}

var registry = map[string]Demo{}

func register(d Demo) {
	registry[d.Name] = d
}

// Names of the available demo scenes.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Lookup(name string) (Demo, error) {
	d, ok := registry[name]
	if !ok {
		return Demo{}, fmt.Errorf("%w: %q (available: %v)", ErrUnknownScene, name, Names())
	}
	return d, nil
}

// Push the quad abcd as two triangles. The front side sees the vertices in
// counter-clockwise order.
func pushQuad(sc *scene.Scene, a, b, c, d types.Vec3, front, back int) error {
	if _, err := sc.PushObject(&geometry.Triangle{A: a, B: b, C: c}, front, back); err != nil {
		return err
	}
	_, err := sc.PushObject(&geometry.Triangle{A: a, B: c, C: d}, front, back)
	return err
}

// A grid of upward-facing sensors covering the rectangle [x0, x1]x[y0, y1]
// at height z.
func sensorGrid(x0, y0, x1, y1, z float64, nx, ny int) []geometry.Ray {
	rays := make([]geometry.Ray, 0, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			x := x0 + (x1-x0)*(float64(i)+0.5)/float64(nx)
			y := y0 + (y1-y0)*(float64(j)+0.5)/float64(ny)
			rays = append(rays, geometry.Ray{Origin: types.Vec3{x, y, z}, Direction: types.Vec3{0, 0, 1}})
		}
	}
	return rays
}
