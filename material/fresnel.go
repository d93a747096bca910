package material

import "math"

// Indices closer than this are considered equal.
const matchedIndexEpsilon = 1e-7

// TE and TM amplitude coefficients for an interface between media n1 and
// n2. cos1 is the cosine of the incident angle and cos2 of the transmitted one.
func fresnelCoefficients(n1, cos1, n2, cos2 float64) (te, tm float64) {
	te = (n1*cos1 - n2*cos2) / (n1*cos1 + n2*cos2)
	tm = (n2*cos1 - n1*cos2) / (n2*cos1 + n1*cos2)
	return te, tm
}

// Cosine of the transmitted angle. ok is false under total internal
// reflection.
func transmittedCos(n1, cos1, n2 float64) (cos2 float64, ok bool) {
	ratio := n1 / n2
	sin2Sq := ratio * ratio * (1 - cos1*cos1)
	if sin2Sq >= 1 {
		return 0, false
	}
	return math.Sqrt(1 - sin2Sq), true
}

// Resolve the media on both sides of a surface. A ray already travelling
// inside a material with the same index is leaving it.
func interfaceIndices(rayIndex, materialIndex float64) (n1, n2 float64) {
	n1, n2 = rayIndex, materialIndex
	if math.Abs(n1-n2) < matchedIndexEpsilon {
		n2 = 1
	}
	return n1, n2
}
