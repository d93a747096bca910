package material

import (
	"errors"
	"math"
	"testing"

	"github.com/achilleasa/go-daylight/geometry"
	"github.com/achilleasa/go-daylight/ray"
	"github.com/achilleasa/go-daylight/sampling"
	"github.com/achilleasa/go-daylight/types"
	"gonum.org/v1/gonum/stat"
)

// Build an incoming ray hitting a surface with normal n at angle theta
// (radians) from the normal.
func incidentRay(n types.Vec3, theta float64) (types.Frame, ray.Ray) {
	f := types.NewFrame(n, types.Vec3{1, 0, 0})
	dir := f.E1.Mul(math.Sin(theta)).Sub(n.Mul(math.Cos(theta))).Normalize()
	return f, ray.New(geometry.Ray{Direction: dir})
}

func randomUnit(rng interface{ Float64() float64 }) types.Vec3 {
	for {
		v := types.Vec3{2*rng.Float64() - 1, 2*rng.Float64() - 1, 2*rng.Float64() - 1}
		if l := v.LenSq(); l > 1e-6 && l <= 1 {
			return v.Normalize()
		}
	}
}

func TestGlossySampleIsWellFormed(t *testing.T) {
	materials := []BSDF{
		NewPlastic(types.Spectrum{0.5, 0.4, 0.3}, 0.05, 0.1),
		NewMetal(types.Spectrum{0.9, 0.7, 0.2}, 0.9, 0.05),
		&Plastic{Reflectance: types.Gray(0.8), Specularity: 0.3, RoughnessU: 0.02, RoughnessV: 0.3},
		NewPlastic(types.Gray(0.6), 0, 0),
	}
	rng := sampling.NewRNG(42, 0)

	for index, m := range materials {
		for i := 0; i < 10000; i++ {
			n := randomUnit(rng)
			d := randomUnit(rng)
			if d.Dot(n) > 0 {
				d = d.Neg()
			}
			if d.Dot(n) > -1e-3 {
				continue
			}
			f := types.NewFrame(n, randomUnit(rng))
			r := ray.New(geometry.Ray{Direction: d})
			in := r

			s := m.Sample(f, types.Vec3{}, &r, rng)
			wo := r.Geometry.Direction
			if math.Abs(wo.Len()-1) > 1e-9 {
				t.Fatalf("[mat %d] expected unit sampled direction; got length %f", index, wo.Len())
			}
			if s.PDF > 0 && wo.Dot(n) < 0 {
				t.Fatalf("[mat %d] expected weighted sample above the surface; got cos %f", index, wo.Dot(n))
			}
			if wo.Dot(n) < minCosOut && (s.PDF != 0 || !s.Value.IsBlack()) {
				t.Fatalf("[mat %d] expected zero weight for a direction below the surface; got %+v", index, s)
			}
			if !s.Value.IsValid() || math.IsNaN(s.PDF) || math.IsInf(s.PDF, 0) || s.PDF < 0 {
				t.Fatalf("[mat %d] expected finite non-negative sample; got %+v", index, s)
			}

			v := m.Evaluate(f, &in, randomUnit(rng))
			if !v.IsValid() {
				t.Fatalf("[mat %d] expected finite non-negative evaluation; got %v", index, v)
			}
		}
	}
}

func TestLambertianEstimatorIsExact(t *testing.T) {
	m := NewPlastic(types.Gray(0.5), 0, 0)
	rng := sampling.NewRNG(1, 0)
	f, in := incidentRay(types.Vec3{0, 0, 1}, 0.3)

	for i := 0; i < 100; i++ {
		r := in
		s := m.Sample(f, types.Vec3{}, &r, rng)
		w := s.Value[0] * r.Geometry.Direction.Dot(f.Normal) / s.PDF
		if math.Abs(w-0.5) > 1e-9 {
			t.Fatalf("expected sample weight to equal the albedo 0.5; got %f", w)
		}
	}
}

// The mean sampled weight must match the directional albedo obtained by
// integrating Evaluate over the hemisphere, including at grazing angles
// where many specular draws end up below the surface.
func TestWardSampleMatchesEvaluate(t *testing.T) {
	type spec struct {
		m     BSDF
		theta float64
	}
	isotropic := NewMetal(types.Gray(1), 1, 0.4)
	anisotropic := &Metal{Reflectance: types.Gray(1), Specularity: 1, RoughnessU: 0.2, RoughnessV: 0.5}
	mixed := &Plastic{Reflectance: types.Gray(0.9), Specularity: 0.4, RoughnessU: 0.3, RoughnessV: 0.3}

	var specs []spec
	for _, theta := range []float64{0.1, 0.6, 1.0, 1.3, 1.45} {
		specs = append(specs, spec{isotropic, theta}, spec{anisotropic, theta})
	}
	specs = append(specs, spec{mixed, 1.3})

	const samples = 200000
	for index, s := range specs {
		rng := sampling.NewRNG(7, uint64(index))
		f, in := incidentRay(types.Vec3{0, 0, 1}, s.theta)

		sampled := make([]float64, samples)
		for i := range sampled {
			r := in
			smp := s.m.Sample(f, types.Vec3{}, &r, rng)
			if smp.PDF > 0 {
				sampled[i] = smp.Value[0] * r.Geometry.Direction.Dot(f.Normal) / smp.PDF
			}
		}

		got, exp := stat.Mean(sampled, nil), directionalAlbedo(s.m, f, in)
		if math.Abs(got-exp) > 0.04*exp {
			t.Fatalf("[spec %d] expected mean sample weight %f at theta %f; got %f", index, exp, s.theta, got)
		}
		if got > 1.02 {
			t.Fatalf("[spec %d] expected directional albedo <= 1 at theta %f; got %f", index, s.theta, got)
		}
	}
}

// Midpoint quadrature of the integral of Evaluate*cos over the hemisphere.
func directionalAlbedo(m BSDF, f types.Frame, in ray.Ray) float64 {
	const nTheta, nPhi = 500, 1000
	dTheta, dPhi := 0.5*math.Pi/nTheta, 2*math.Pi/nPhi

	var sum float64
	for i := 0; i < nTheta; i++ {
		sinT, cosT := math.Sincos((float64(i) + 0.5) * dTheta)
		for j := 0; j < nPhi; j++ {
			sinP, cosP := math.Sincos((float64(j) + 0.5) * dPhi)
			wo := f.ToWorld(types.Vec3{sinT * cosP, sinT * sinP, cosT})
			sum += m.Evaluate(f, &in, wo)[0] * cosT * sinT
		}
	}
	return sum * dTheta * dPhi
}

func TestMirrorEvaluate(t *testing.T) {
	m := &Mirror{Reflectance: types.Gray(1)}
	for _, theta := range []float64{0, 0.2, 0.7, 1.2, 1.5} {
		f, r := incidentRay(types.Vec3{0, 1, 0}, theta)
		mirrorDir := r.Geometry.Direction.Reflect(f.Normal)

		exp := 1 / math.Cos(theta)
		if v := m.Evaluate(f, &r, mirrorDir); math.Abs(v[0]-exp) > 1e-9*exp {
			t.Fatalf("[theta %f] expected mirror evaluation %f; got %f", theta, exp, v[0])
		}
		if v := m.Evaluate(f, &r, f.Normal.Add(f.E1).Normalize()); !v.IsBlack() {
			t.Fatalf("[theta %f] expected zero for non-mirror direction; got %v", theta, v)
		}

		paths, n := m.PossiblePaths(f, types.Vec3{}, &r)
		if n != 1 || !types.ApproxEqual(paths[0].Ray.Direction, mirrorDir, 1e-12) {
			t.Fatalf("[theta %f] expected a single mirror path; got %d %+v", theta, n, paths[0])
		}
	}
}

func TestMatchedIndexNormalIncidence(t *testing.T) {
	materials := []SpecularBSDF{
		&Dielectric{Transmittance: types.Gray(1), RefractionIndex: 1},
		&Glass{Transmittance: types.Gray(1), RefractionIndex: 1},
	}

	for index, m := range materials {
		f, r := incidentRay(types.Vec3{0, 0, 1}, 0)
		paths, n := m.PossiblePaths(f, types.Vec3{}, &r)
		if n != 2 {
			t.Fatalf("[mat %d] expected 2 paths; got %d", index, n)
		}
		if refl := paths[0].Weight.Max(); refl > 1e-6 {
			t.Fatalf("[mat %d] expected reflectance ~0; got %g", index, refl)
		}
		if trans := paths[1].Weight; math.Abs(trans[0]-1) > 1e-6 {
			t.Fatalf("[mat %d] expected full transmittance; got %v", index, trans)
		}
		if !types.ApproxEqual(paths[1].Ray.Direction, r.Geometry.Direction, 1e-9) {
			t.Fatalf("[mat %d] expected undeviated transmission; got %v", index, paths[1].Ray.Direction)
		}
	}
}

func TestDielectricTotalInternalReflection(t *testing.T) {
	m := &Dielectric{Transmittance: types.Gray(1), RefractionIndex: 1.5}
	critical := math.Asin(1 / 1.5)

	for theta := critical + 1e-3; theta < math.Pi/2; theta += 0.01 {
		f, r := incidentRay(types.Vec3{0, 0, 1}, theta)
		// travelling inside the dielectric towards air
		r.RefractionIndex = 1.5

		paths, n := m.PossiblePaths(f, types.Vec3{}, &r)
		if n != 1 {
			t.Fatalf("[theta %f] expected only a reflection path past the critical angle; got %d", theta, n)
		}
		if paths[0].Weight[0] != 1 {
			t.Fatalf("[theta %f] expected full reflection; got %v", theta, paths[0].Weight)
		}
	}

	// just below the critical angle both branches exist
	f, r := incidentRay(types.Vec3{0, 0, 1}, critical-1e-3)
	r.RefractionIndex = 1.5
	if _, n := m.PossiblePaths(f, types.Vec3{}, &r); n != 2 {
		t.Fatalf("expected 2 paths below the critical angle; got %d", n)
	}
}

func TestDielectricEnergyBalance(t *testing.T) {
	m := &Dielectric{Transmittance: types.Gray(1), RefractionIndex: 1.5}
	for _, theta := range []float64{0, 0.3, 0.9, 1.4} {
		f, r := incidentRay(types.Vec3{0, 0, 1}, theta)
		paths, n := m.PossiblePaths(f, types.Vec3{}, &r)
		if n != 2 {
			t.Fatalf("[theta %f] expected 2 paths; got %d", theta, n)
		}
		// undo the radiance compression
		total := paths[0].Weight[0] + paths[1].Weight[0]*1.5*1.5
		if math.Abs(total-1) > 1e-9 {
			t.Fatalf("[theta %f] expected R+T to be 1; got %f", theta, total)
		}
		if paths[1].RefractionIndex != 1.5 {
			t.Fatalf("[theta %f] expected transmitted ray to carry index 1.5; got %f", theta, paths[1].RefractionIndex)
		}
		if paths[1].Ray.Direction.Dot(f.Normal) >= 0 {
			t.Fatalf("[theta %f] expected transmitted ray to enter the surface", theta)
		}
	}
}

func TestGlassIsEnergyConserving(t *testing.T) {
	m := &Glass{Transmittance: types.Spectrum{0.9, 0.8, 0.5}, RefractionIndex: 1.52}
	for _, theta := range []float64{0, 0.4, 0.8, 1.2, 1.5} {
		f, r := incidentRay(types.Vec3{0, 0, 1}, theta)
		paths, _ := m.PossiblePaths(f, types.Vec3{}, &r)
		for c := 0; c < 3; c++ {
			if sum := paths[0].Weight[c] + paths[1].Weight[c]; sum > 1+1e-9 || sum < 0 {
				t.Fatalf("[theta %f] expected R+T <= 1 on channel %d; got %f", theta, c, sum)
			}
		}
	}
}

func TestEmitterHasNoBSDF(t *testing.T) {
	defer func() {
		rec := recover()
		err, ok := rec.(error)
		if !ok || !errors.Is(err, ErrNoBSDF) {
			t.Fatalf("expected panic with ErrNoBSDF; got %v", rec)
		}
	}()
	AsBSDF(&Light{Radiance: types.Gray(1)})
}
