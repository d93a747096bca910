package types

import "math"

// An orthonormal shading frame. Normal, E1 and E2 are unit length and
// mutually orthogonal.
type Frame struct {
	Normal Vec3
	E1     Vec3
	E2     Vec3
}

// Build a frame around the unit normal n. If hint is not (nearly) parallel to
// n it is projected onto the tangent plane and used as E1.
func NewFrame(n, hint Vec3) Frame {
	e1 := hint.Sub(n.Mul(hint.Dot(n)))
	if e1.LenSq() < 1e-12 {
		e1 = n.Perpendicular()
	} else {
		e1 = e1.Normalize()
	}
	return Frame{Normal: n, E1: e1, E2: n.Cross(e1)}
}

// Convert a vector expressed in (E1, E2, Normal) coordinates to world space.
func (f Frame) ToWorld(local Vec3) Vec3 {
	return f.E1.Mul(local[0]).Add(f.E2.Mul(local[1])).Add(f.Normal.Mul(local[2]))
}

// Flip the frame so that the normal points the other way. E2 is negated to
// keep the frame right-handed.
func (f Frame) Flip() Frame {
	return Frame{Normal: f.Normal.Neg(), E1: f.E1, E2: f.E2.Neg()}
}

// Returns true if the frame is orthonormal within eps.
func (f Frame) IsOrthonormal(eps float64) bool {
	return math.Abs(f.Normal.Len()-1) < eps &&
		math.Abs(f.E1.Len()-1) < eps &&
		math.Abs(f.E2.Len()-1) < eps &&
		math.Abs(f.Normal.Dot(f.E1)) < eps &&
		math.Abs(f.Normal.Dot(f.E2)) < eps &&
		math.Abs(f.E1.Dot(f.E2)) < eps
}
