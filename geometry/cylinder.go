package geometry

import (
	"math"
	"math/rand/v2"

	"github.com/achilleasa/go-daylight/types"
)

// An open cylinder (no caps) between the centres of its two ends.
type Cylinder struct {
	Base   types.Vec3
	Top    types.Vec3
	Radius float64
}

func (c *Cylinder) Kind() string { return "cylinder" }
func (c *Cylinder) isPrimitive() {}

func (c *Cylinder) axis() (types.Vec3, float64) {
	a := c.Top.Sub(c.Base)
	h := a.Len()
	return a.Mul(1 / h), h
}

func (c *Cylinder) BBox() types.BBox {
	a, _ := c.axis()
	var pad types.Vec3
	for i := 0; i < 3; i++ {
		pad[i] = c.Radius * math.Sqrt(math.Max(0, 1-a[i]*a[i]))
	}
	return types.EmptyBBox().
		UnionPoint(c.Base.Sub(pad)).UnionPoint(c.Base.Add(pad)).
		UnionPoint(c.Top.Sub(pad)).UnionPoint(c.Top.Add(pad))
}

func (c *Cylinder) hitDistance(r Ray) (float64, bool) {
	a, h := c.axis()
	o := r.Origin.Sub(c.Base)
	dPerp := r.Direction.Sub(a.Mul(r.Direction.Dot(a)))
	oPerp := o.Sub(a.Mul(o.Dot(a)))

	qa := dPerp.LenSq()
	if qa < 1e-14 {
		// parallel to the axis
		return 0, false
	}
	qb := 2 * dPerp.Dot(oPerp)
	qc := oPerp.LenSq() - c.Radius*c.Radius
	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	for _, t := range [2]float64{(-qb - sq) / (2 * qa), (-qb + sq) / (2 * qa)} {
		if t <= minT {
			continue
		}
		z := o.Add(r.Direction.Mul(t)).Dot(a)
		if z >= 0 && z <= h {
			return t, true
		}
	}
	return 0, false
}

func (c *Cylinder) outwardNormal(p types.Vec3) types.Vec3 {
	a, _ := c.axis()
	q := p.Sub(c.Base)
	return q.Sub(a.Mul(q.Dot(a))).Normalize()
}

func (c *Cylinder) Intersect(r Ray) (Intersection, bool) {
	t, ok := c.hitDistance(r)
	if !ok {
		return Intersection{}, false
	}
	p := r.At(t)
	a, _ := c.axis()
	frame, side := orient(r.Direction, c.outwardNormal(p), a)
	return Intersection{T: t, Point: p, Frame: frame, Side: side}, true
}

func (c *Cylinder) IntersectPoint(r Ray) (types.Vec3, bool) {
	t, ok := c.hitDistance(r)
	if !ok {
		return types.Vec3{}, false
	}
	return r.At(t), true
}

// Samples a uniformly distributed point on the lateral surface.
func (c *Cylinder) SampleDirection(rng *rand.Rand, from types.Vec3) (types.Vec3, float64, bool) {
	a, h := c.axis()
	e1 := a.Perpendicular()
	e2 := a.Cross(e1)
	phi := 2 * math.Pi * rng.Float64()
	n := e1.Mul(math.Cos(phi)).Add(e2.Mul(math.Sin(phi)))
	p := c.Base.Add(a.Mul(h * rng.Float64())).Add(n.Mul(c.Radius))
	return areaToSolidAngle(from, p, n, 2*math.Pi*c.Radius*h)
}
