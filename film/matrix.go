package film

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/achilleasa/go-daylight/types"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var ErrDimensionMismatch = errors.New("film: dimension mismatch")

// A ColourMatrix stores one spectrum per (row, column) cell as three dense
// per-channel matrices. Daylight coefficient calculations produce one row
// per sensor and one column per sky bin.
type ColourMatrix struct {
	channels [3]*mat.Dense
}

// Allocate a zeroed matrix. Both dimensions must be positive.
func NewColourMatrix(rows, cols int) *ColourMatrix {
	m := &ColourMatrix{}
	for c := range m.channels {
		m.channels[c] = mat.NewDense(rows, cols, nil)
	}
	return m
}

func (m *ColourMatrix) Dims() (rows, cols int) {
	return m.channels[0].Dims()
}

func (m *ColourMatrix) At(row, col int) types.Spectrum {
	return types.Spectrum{
		m.channels[0].At(row, col),
		m.channels[1].At(row, col),
		m.channels[2].At(row, col),
	}
}

func (m *ColourMatrix) Set(row, col int, s types.Spectrum) {
	for c, ch := range m.channels {
		ch.Set(row, col, s[c])
	}
}

// Copy a full row of spectra. The row length must match the column count.
func (m *ColourMatrix) SetRow(row int, values []types.Spectrum) {
	for col, s := range values {
		m.Set(row, col, s)
	}
}

// Read-only view of a single channel.
func (m *ColourMatrix) Channel(c int) mat.Matrix {
	return m.channels[c]
}

// Sum of all cells in a row.
func (m *ColourMatrix) RowSum(row int) types.Spectrum {
	var out types.Spectrum
	for c, ch := range m.channels {
		out[c] = floats.Sum(ch.RawRowView(row))
	}
	return out
}

// Relight the matrix with a per-column sky vector, returning one spectrum
// per row. Each channel is multiplied independently.
func (m *ColourMatrix) Apply(sky []types.Spectrum) ([]types.Spectrum, error) {
	rows, cols := m.Dims()
	if len(sky) != cols {
		return nil, fmt.Errorf("%w: sky vector has %d entries; matrix has %d columns", ErrDimensionMismatch, len(sky), cols)
	}

	out := make([]types.Spectrum, rows)
	skyCh := make([]float64, cols)
	var res mat.VecDense
	for c, ch := range m.channels {
		for col, s := range sky {
			skyCh[col] = s[c]
		}
		res.MulVec(ch, mat.NewVecDense(cols, skyCh))
		for row := 0; row < rows; row++ {
			out[row][c] = res.AtVec(row)
		}
	}
	return out, nil
}

// Write the matrix as text: one line per row with tab-separated
// "r g b" cells.
func (m *ColourMatrix) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	rows, cols := m.Dims()
	var written int64
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			sep := "\t"
			if col == cols-1 {
				sep = "\n"
			}
			s := m.At(row, col)
			n, err := fmt.Fprintf(bw, "%g %g %g%s", s[0], s[1], s[2], sep)
			written += int64(n)
			if err != nil {
				return written, err
			}
		}
	}
	return written, bw.Flush()
}
