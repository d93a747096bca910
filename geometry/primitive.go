package geometry

import (
	"math"
	"math/rand/v2"

	"github.com/achilleasa/go-daylight/types"
)

// Hits closer than this (squared) distance to the ray origin are treated as
// self-intersections and discarded.
const MinDistanceSquared = 1e-7

var minT = math.Sqrt(MinDistanceSquared)

// Rays hitting a surface with |cos| below this threshold are edge-on and
// have no determinable side.
const edgeOnCos = 1e-9

// A geometric ray. Direction is unit length.
type Ray struct {
	Origin    types.Vec3
	Direction types.Vec3
}

// Point along the ray.
func (r Ray) At(t float64) types.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// The side of a surface that a ray hits.
type Side uint8

const (
	SideFront Side = iota
	SideBack
	// Edge-on hit; no material can be resolved.
	SideUndefined
)

func (s Side) String() string {
	switch s {
	case SideFront:
		return "front"
	case SideBack:
		return "back"
	}
	return "undefined"
}

// The result of an exact ray/primitive intersection. The frame normal is
// oriented against the incoming ray.
type Intersection struct {
	T     float64
	Point types.Vec3
	Frame types.Frame
	Side  Side
}

// Primitive is the closed set of shapes supported by the tracer: *Sphere,
// *Triangle, *Cylinder and *DistantSource.
type Primitive interface {
	// A short name for the primitive type.
	Kind() string

	// World-space bounds.
	BBox() types.BBox

	// Nearest intersection with the ray.
	Intersect(r Ray) (Intersection, bool)

	// Cheap intersection that only reports the hit point. Used for
	// occlusion tests.
	IntersectPoint(r Ray) (types.Vec3, bool)

	// Sample a direction from point towards the primitive for direct light
	// estimation. The returned pdf is expressed per unit solid angle.
	SampleDirection(rng *rand.Rand, from types.Vec3) (dir types.Vec3, pdf float64, ok bool)

	isPrimitive()
}

// Orient the outward geometric normal ng against the ray direction and build
// the shading frame.
func orient(dir, ng, tangentHint types.Vec3) (types.Frame, Side) {
	c := dir.Dot(ng)
	side := SideFront
	switch {
	case c > edgeOnCos:
		side = SideBack
		ng = ng.Neg()
	case c > -edgeOnCos:
		side = SideUndefined
	}
	return types.NewFrame(ng, tangentHint), side
}

// Convert an area density at point p with unit normal n into a solid angle
// density as seen from 'from'.
func areaToSolidAngle(from, p, n types.Vec3, area float64) (types.Vec3, float64, bool) {
	d := p.Sub(from)
	dist2 := d.LenSq()
	if dist2 < MinDistanceSquared || area <= 0 {
		return types.Vec3{}, 0, false
	}
	dir := d.Mul(1 / math.Sqrt(dist2))
	cos := math.Abs(n.Dot(dir))
	if cos < edgeOnCos {
		return types.Vec3{}, 0, false
	}
	return dir, dist2 / (cos * area), true
}
