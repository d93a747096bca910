package material

import "github.com/achilleasa/go-daylight/types"

// An emitting surface. Radiance is returned by Colour().
type Light struct {
	Radiance types.Spectrum
}

func (l *Light) Kind() string           { return "light" }
func (l *Light) Colour() types.Spectrum { return l.Radiance }
func (l *Light) EmitsLight() bool       { return true }
func (l *Light) EmitsDirectLight() bool { return true }
func (l *Light) SpecularOnly() bool     { return false }
func (l *Light) isMaterial()            {}
