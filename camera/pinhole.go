// Package camera generates primary rays for image renders.
package camera

import (
	"errors"
	"fmt"
	"math"

	"github.com/achilleasa/go-daylight/geometry"
	"github.com/achilleasa/go-daylight/types"
)

var ErrInvalidCamera = errors.New("camera: invalid camera setup")

// A Pinhole camera maps film pixels to rays leaving a single view point.
type Pinhole struct {
	ViewPoint types.Vec3

	// Horizontal field of view in degrees.
	FOV float64

	Width  int
	Height int

	view         types.Vec3
	up           types.Vec3
	u            types.Vec3
	filmDistance float64
}

// Create a pinhole camera. The up vector is re-orthogonalized against the
// view direction.
func NewPinhole(viewPoint, viewDir, up types.Vec3, fov float64, width, height int) (*Pinhole, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: film dimensions must be positive; got %dx%d", ErrInvalidCamera, width, height)
	}
	if !(fov > 0 && fov < 180) {
		return nil, fmt.Errorf("%w: field of view must be in (0, 180); got %g", ErrInvalidCamera, fov)
	}

	view := viewDir.Normalize()
	u := view.Cross(up).Normalize()
	if view.IsZero() || u.IsZero() {
		return nil, fmt.Errorf("%w: view direction must be non-zero and not parallel to up", ErrInvalidCamera)
	}

	return &Pinhole{
		ViewPoint:    viewPoint,
		FOV:          fov,
		Width:        width,
		Height:       height,
		view:         view,
		up:           u.Cross(view),
		u:            u,
		filmDistance: 1 / math.Tan(fov*math.Pi/360),
	}, nil
}

// Generate the ray through film position (px + jx, py + jy). Jitter values
// lie in [0, 1); (0.5, 0.5) passes through the pixel centre. Row 0 is the
// top of the image.
func (c *Pinhole) Ray(px, py int, jx, jy float64) geometry.Ray {
	dx := 2 / float64(c.Width)
	aspect := float64(c.Height) / float64(c.Width)
	x := (float64(px)+jx)*dx - 1
	y := ((float64(py)+jy)*2/float64(c.Height) - 1) * aspect

	dir := c.view.Mul(c.filmDistance).Add(c.u.Mul(x)).Sub(c.up.Mul(y))
	return geometry.Ray{Origin: c.ViewPoint, Direction: dir.Normalize()}
}
