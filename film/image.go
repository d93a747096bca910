// Package film contains the sinks that integrators accumulate into.
package film

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/achilleasa/go-daylight/types"
)

const displayGamma = 2.2

// An Image stores one spectrum per pixel in row-major order. Row 0 is the
// top of the image.
type Image struct {
	Width  int
	Height int
	Pix    []types.Spectrum
}

func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]types.Spectrum, width*height),
	}
}

func (img *Image) At(x, y int) types.Spectrum {
	return img.Pix[y*img.Width+x]
}

func (img *Image) Set(x, y int, s types.Spectrum) {
	img.Pix[y*img.Width+x] = s
}

// Per-pixel scalar radiance.
func (img *Image) Radiance() []float64 {
	out := make([]float64, len(img.Pix))
	for idx, s := range img.Pix {
		out[idx] = s.Radiance()
	}
	return out
}

// Tone-map the image into an 8-bit RGBA image by scaling with the exposure,
// clamping and applying display gamma.
func (img *Image) ToRGBA(exposure float64) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			s := img.At(x, y).Scale(exposure)
			out.SetRGBA(x, y, color.RGBA{
				R: toByte(s[0]),
				G: toByte(s[1]),
				B: toByte(s[2]),
				A: 255,
			})
		}
	}
	return out
}

// Encode the tone-mapped image as PNG.
func (img *Image) WritePNG(w io.Writer, exposure float64) error {
	return png.Encode(w, img.ToRGBA(exposure))
}

func toByte(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Pow(v, 1/displayGamma)*255 + 0.5)
}
