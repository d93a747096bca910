package geometry

import (
	"math"
	"math/rand/v2"

	"github.com/achilleasa/go-daylight/sampling"
	"github.com/achilleasa/go-daylight/types"
)

type Sphere struct {
	Centre types.Vec3
	Radius float64
}

func (s *Sphere) Kind() string { return "sphere" }
func (s *Sphere) isPrimitive() {}

func (s *Sphere) BBox() types.BBox {
	r := types.Vec3{s.Radius, s.Radius, s.Radius}
	return types.BBox{Min: s.Centre.Sub(r), Max: s.Centre.Add(r)}
}

// Returns the nearest root beyond minT.
func (s *Sphere) hitDistance(r Ray) (float64, bool) {
	oc := r.Origin.Sub(s.Centre)
	b := oc.Dot(r.Direction)
	c := oc.LenSq() - s.Radius*s.Radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	if t := -b - sq; t > minT {
		return t, true
	}
	if t := -b + sq; t > minT {
		return t, true
	}
	return 0, false
}

func (s *Sphere) Intersect(r Ray) (Intersection, bool) {
	t, ok := s.hitDistance(r)
	if !ok {
		return Intersection{}, false
	}
	p := r.At(t)
	ng := p.Sub(s.Centre).Normalize()
	frame, side := orient(r.Direction, ng, types.Vec3{0, 0, 1}.Cross(ng))
	return Intersection{T: t, Point: p, Frame: frame, Side: side}, true
}

func (s *Sphere) IntersectPoint(r Ray) (types.Vec3, bool) {
	t, ok := s.hitDistance(r)
	if !ok {
		return types.Vec3{}, false
	}
	return r.At(t), true
}

// Samples the cone subtended by the sphere.
func (s *Sphere) SampleDirection(rng *rand.Rand, from types.Vec3) (types.Vec3, float64, bool) {
	toCentre := s.Centre.Sub(from)
	dist2 := toCentre.LenSq()
	r2 := s.Radius * s.Radius
	if dist2 <= r2 {
		return types.Vec3{}, 0, false
	}

	cosMax := math.Sqrt(1 - r2/dist2)
	frame := types.NewFrame(toCentre.Mul(1/math.Sqrt(dist2)), types.Vec3{1, 0, 0})
	dir := frame.ToWorld(sampling.UniformCone(rng, cosMax)).Normalize()
	return dir, sampling.UniformConePDF(cosMax), true
}

// Solid angle subtended by the sphere as seen from p.
func (s *Sphere) Omega(p types.Vec3) float64 {
	dist2 := s.Centre.Sub(p).LenSq()
	r2 := s.Radius * s.Radius
	if dist2 <= r2 {
		return 2 * math.Pi
	}
	return 2 * math.Pi * (1 - math.Sqrt(1-r2/dist2))
}
