package types

import "math"

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis
)

// An axis-aligned bounding box.
type BBox struct {
	Min Vec3
	Max Vec3
}

// Create an empty (inverted) bounding box that can be grown via Union calls.
func EmptyBBox() BBox {
	inf := math.Inf(1)
	return BBox{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// Returns true if the box has not been grown yet.
func (b BBox) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Union of two boxes.
func (b BBox) Union(b2 BBox) BBox {
	return BBox{Min: MinVec3(b.Min, b2.Min), Max: MaxVec3(b.Max, b2.Max)}
}

// Grow box to include a point.
func (b BBox) UnionPoint(p Vec3) BBox {
	return BBox{Min: MinVec3(b.Min, p), Max: MaxVec3(b.Max, p)}
}

// Box center.
func (b BBox) Centroid() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Box side lengths.
func (b BBox) Extent() Vec3 {
	return b.Max.Sub(b.Min)
}

// Axis with the largest side length.
func (b BBox) MaxExtent() Axis {
	d := b.Extent()
	if d[0] > d[1] && d[0] > d[2] {
		return XAxis
	} else if d[1] > d[2] {
		return YAxis
	}
	return ZAxis
}

// Total surface area; zero for empty boxes.
func (b BBox) SurfaceArea() float64 {
	if b.IsEmpty() {
		return 0
	}
	d := b.Extent()
	return 2 * (d[0]*d[1] + d[1]*d[2] + d[0]*d[2])
}

// Returns true if b fully contains b2 (within eps).
func (b BBox) Contains(b2 BBox, eps float64) bool {
	for i := 0; i < 3; i++ {
		if b2.Min[i] < b.Min[i]-eps || b2.Max[i] > b.Max[i]+eps {
			return false
		}
	}
	return true
}

// Slab test against a ray given by its origin and precomputed inverse
// direction. Only hits closer than tMax are reported. Axis-parallel rays
// yield infinite inverse components; the NaN produced when such a ray starts
// on a slab plane is ignored.
func (b BBox) IntersectRay(origin, invDir Vec3, tMax float64) bool {
	tNear, tFar := 0.0, tMax
	for a := 0; a < 3; a++ {
		t0 := (b.Min[a] - origin[a]) * invDir[a]
		t1 := (b.Max[a] - origin[a]) * invDir[a]
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		// pad the far distance so that grazing rays are not lost to rounding
		t1 *= 1 + 1e-9
		if t0 > tNear {
			tNear = t0
		}
		if t1 < tFar {
			tFar = t1
		}
		if tNear > tFar {
			return false
		}
	}
	return true
}
