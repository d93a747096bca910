package geometry

import (
	"math"
	"math/rand/v2"

	"github.com/achilleasa/go-daylight/sampling"
	"github.com/achilleasa/go-daylight/types"
)

// A source at infinity (e.g. the sun) seen under a small apparent angle.
// Distant sources are unbounded and never stored in the BVH.
type DistantSource struct {
	// Unit direction pointing towards the source.
	Direction types.Vec3

	// Full apparent angle in radians.
	Angle float64
}

func (d *DistantSource) Kind() string { return "distant" }
func (d *DistantSource) isPrimitive() {}

func (d *DistantSource) cosHalfAngle() float64 {
	return math.Cos(d.Angle / 2)
}

// Distant sources are unbounded.
func (d *DistantSource) BBox() types.BBox {
	inf := math.Inf(1)
	return types.BBox{Min: types.Vec3{-inf, -inf, -inf}, Max: types.Vec3{inf, inf, inf}}
}

// Solid angle of the source.
func (d *DistantSource) Omega() float64 {
	return 2 * math.Pi * (1 - d.cosHalfAngle())
}

// Returns true if dir points inside the source cone.
func (d *DistantSource) Contains(dir types.Vec3) bool {
	return dir.Dot(d.Direction) >= d.cosHalfAngle()
}

// Hits are reported at infinite distance.
func (d *DistantSource) Intersect(r Ray) (Intersection, bool) {
	if !d.Contains(r.Direction) {
		return Intersection{}, false
	}
	return Intersection{
		T:     math.Inf(1),
		Point: r.At(math.MaxFloat32),
		Frame: types.NewFrame(r.Direction.Neg(), types.Vec3{0, 0, 1}),
		Side:  SideFront,
	}, true
}

func (d *DistantSource) IntersectPoint(r Ray) (types.Vec3, bool) {
	if !d.Contains(r.Direction) {
		return types.Vec3{}, false
	}
	return r.At(math.MaxFloat32), true
}

func (d *DistantSource) SampleDirection(rng *rand.Rand, _ types.Vec3) (types.Vec3, float64, bool) {
	cosMax := d.cosHalfAngle()
	if cosMax >= 1 {
		return types.Vec3{}, 0, false
	}
	frame := types.NewFrame(d.Direction, types.Vec3{0, 0, 1})
	dir := frame.ToWorld(sampling.UniformCone(rng, cosMax)).Normalize()
	return dir, sampling.UniformConePDF(cosMax), true
}
