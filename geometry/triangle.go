package geometry

import (
	"math"
	"math/rand/v2"

	"github.com/achilleasa/go-daylight/sampling"
	"github.com/achilleasa/go-daylight/types"
)

// A triangle. The front side is the one that sees the vertices in
// counter-clockwise order.
type Triangle struct {
	A, B, C types.Vec3
}

func (tr *Triangle) Kind() string { return "triangle" }
func (tr *Triangle) isPrimitive() {}

func (tr *Triangle) BBox() types.BBox {
	return types.EmptyBBox().UnionPoint(tr.A).UnionPoint(tr.B).UnionPoint(tr.C)
}

func (tr *Triangle) Area() float64 {
	return 0.5 * tr.B.Sub(tr.A).Cross(tr.C.Sub(tr.A)).Len()
}

func (tr *Triangle) Normal() types.Vec3 {
	return tr.B.Sub(tr.A).Cross(tr.C.Sub(tr.A)).Normalize()
}

// Möller-Trumbore.
func (tr *Triangle) hitDistance(r Ray) (float64, bool) {
	e1 := tr.B.Sub(tr.A)
	e2 := tr.C.Sub(tr.A)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < 1e-14 {
		return 0, false
	}
	invDet := 1 / det

	s := r.Origin.Sub(tr.A)
	u := s.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * invDet
	if t <= minT {
		return 0, false
	}
	return t, true
}

func (tr *Triangle) Intersect(r Ray) (Intersection, bool) {
	t, ok := tr.hitDistance(r)
	if !ok {
		return Intersection{}, false
	}
	frame, side := orient(r.Direction, tr.Normal(), tr.B.Sub(tr.A))
	return Intersection{T: t, Point: r.At(t), Frame: frame, Side: side}, true
}

func (tr *Triangle) IntersectPoint(r Ray) (types.Vec3, bool) {
	t, ok := tr.hitDistance(r)
	if !ok {
		return types.Vec3{}, false
	}
	return r.At(t), true
}

// Samples a uniformly distributed point on the triangle.
func (tr *Triangle) SampleDirection(rng *rand.Rand, from types.Vec3) (types.Vec3, float64, bool) {
	b0, b1 := sampling.UniformTriangle(rng)
	p := tr.A.Mul(b0).Add(tr.B.Mul(b1)).Add(tr.C.Mul(1 - b0 - b1))
	return areaToSolidAngle(from, p, tr.Normal(), tr.Area())
}
