// Package sky implements the Reinhart subdivision of the sky dome used to
// bin daylight coefficients.
//
// Bin 0 is the ground (every direction with a negative Z component). The
// sky is split into 7*MF altitude rows of equal angular height followed by a
// single zenith cap. At MF = 1 the rows hold 30, 30, 24, 24, 18, 12 and 6
// patches (the Tregenza sky), giving 146 bins. Larger subdivision factors
// split every Tregenza row into MF rows of MF times as many patches.
//
// Z points up and azimuth is measured from +Y towards +X. The first patch
// of every row is centred on azimuth 0.
package sky

import (
	"fmt"
	"math"

	"github.com/achilleasa/go-daylight/types"
)

var tregenzaPatches = [7]int{30, 30, 24, 24, 18, 12, 6}

type row struct {
	// Number of patches in the row.
	count int

	// Index of the first bin in the row.
	first int
}

type Reinhart struct {
	mf int

	// Row angular height in radians.
	alpha float64
	rows  []row
	nBins int
}

func NewReinhart(mf int) (*Reinhart, error) {
	if mf < 1 {
		return nil, fmt.Errorf("sky: subdivision factor must be >= 1; got %d", mf)
	}

	nRows := 7 * mf
	s := &Reinhart{
		mf:    mf,
		alpha: (math.Pi / 2) / (float64(nRows) + 0.5),
		rows:  make([]row, nRows+1),
	}

	next := 1
	for r := 0; r < nRows; r++ {
		s.rows[r] = row{count: mf * tregenzaPatches[r/mf], first: next}
		next += s.rows[r].count
	}
	s.rows[nRows] = row{count: 1, first: next}
	s.nBins = next + 1
	return s, nil
}

// Subdivision factor.
func (s *Reinhart) MF() int {
	return s.mf
}

// Total number of bins including the ground.
func (s *Reinhart) NBins() int {
	return s.nBins
}

// Find the bin containing the unit direction dir.
func (s *Reinhart) DirToBin(dir types.Vec3) int {
	if dir[2] < 0 {
		return 0
	}

	alt := math.Asin(math.Min(dir[2], 1))
	r := int(alt / s.alpha)
	if r >= len(s.rows)-1 {
		return s.nBins - 1
	}

	az := math.Atan2(dir[0], dir[1])
	if az < 0 {
		az += 2 * math.Pi
	}
	count := s.rows[r].count
	col := int(math.Floor(az/(2*math.Pi/float64(count))+0.5)) % count
	return s.rows[r].first + col
}

func (s *Reinhart) locate(bin int) (r, col int) {
	r = len(s.rows) - 1
	for r > 0 && s.rows[r].first > bin {
		r--
	}
	return r, bin - s.rows[r].first
}

// Unit direction through the centre of a bin. The ground bin maps to -Z.
func (s *Reinhart) BinDir(bin int) types.Vec3 {
	if bin <= 0 {
		return types.Vec3{0, 0, -1}
	}
	if bin >= s.nBins-1 {
		return types.Vec3{0, 0, 1}
	}

	r, col := s.locate(bin)
	alt := (float64(r) + 0.5) * s.alpha
	az := float64(col) * 2 * math.Pi / float64(s.rows[r].count)
	return types.Vec3{
		math.Cos(alt) * math.Sin(az),
		math.Cos(alt) * math.Cos(az),
		math.Sin(alt),
	}
}

// Solid angle of a bin in steradians.
func (s *Reinhart) BinSolidAngle(bin int) float64 {
	if bin <= 0 {
		return 2 * math.Pi
	}
	if bin >= s.nBins-1 {
		capStart := float64(len(s.rows)-1) * s.alpha
		return 2 * math.Pi * (1 - math.Sin(capStart))
	}

	r, _ := s.locate(bin)
	lo, hi := float64(r)*s.alpha, float64(r+1)*s.alpha
	return 2 * math.Pi / float64(s.rows[r].count) * (math.Sin(hi) - math.Sin(lo))
}
