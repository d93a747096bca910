package film

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/achilleasa/go-daylight/types"
	"gonum.org/v1/gonum/stat"
)

func TestImageToneMapping(t *testing.T) {
	img := NewImage(3, 2)
	img.Set(0, 0, types.Gray(-1))
	img.Set(1, 0, types.Gray(0.25))
	img.Set(2, 0, types.Gray(10))
	img.Set(0, 1, types.Spectrum{1, 0, 0})

	rgba := img.ToRGBA(1)
	type spec struct {
		x, y int
		exp  [3]uint8
	}
	specs := []spec{
		{0, 0, [3]uint8{0, 0, 0}},
		{1, 0, [3]uint8{136, 136, 136}},
		{2, 0, [3]uint8{255, 255, 255}},
		{0, 1, [3]uint8{255, 0, 0}},
		{1, 1, [3]uint8{0, 0, 0}},
	}
	for index, s := range specs {
		c := rgba.RGBAAt(s.x, s.y)
		got := [3]uint8{c.R, c.G, c.B}
		if got != s.exp || c.A != 255 {
			t.Fatalf("[spec %d] expected pixel (%d, %d) to be %v; got %v", index, s.x, s.y, s.exp, got)
		}
	}

	var buf bytes.Buffer
	if err := img.WritePNG(&buf, 1); err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := decoded.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("expected decoded image to be 3x2; got %v", b)
	}
}

func TestImageRadiance(t *testing.T) {
	img := NewImage(2, 2)
	for idx := range img.Pix {
		img.Pix[idx] = types.Gray(float64(idx))
	}
	if mean := stat.Mean(img.Radiance(), nil); math.Abs(mean-1.5) > 1e-12 {
		t.Fatalf("expected mean radiance 1.5; got %f", mean)
	}
}

func TestColourMatrixApply(t *testing.T) {
	m := NewColourMatrix(2, 3)
	m.SetRow(0, []types.Spectrum{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	m.Set(1, 2, types.Gray(2))

	sky := []types.Spectrum{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	out, err := m.Apply(sky)
	if err != nil {
		t.Fatal(err)
	}

	exp := []types.Spectrum{{1, 5, 9}, {14, 16, 18}}
	for row := range exp {
		if out[row] != exp[row] {
			t.Fatalf("expected row %d to be %v; got %v", row, exp[row], out[row])
		}
	}

	if sum := m.RowSum(0); sum != types.Gray(1) {
		t.Fatalf("expected row sum of 1 per channel; got %v", sum)
	}

	if _, err = m.Apply(sky[:2]); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch; got %v", err)
	}
}

func TestColourMatrixText(t *testing.T) {
	m := NewColourMatrix(2, 2)
	m.Set(0, 1, types.Spectrum{0.5, 1, 2})

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}

	exp := "0 0 0\t0.5 1 2\n0 0 0\t0 0 0\n"
	if got := buf.String(); got != exp {
		t.Fatalf("expected:\n%q\ngot:\n%q", exp, got)
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Fatal("expected one line per row")
	}
}
