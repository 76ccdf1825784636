package geom

import v3 "github.com/solidtype/kernel/vec/v3"

// SubCurve3 restricts a uniform-speed base curve to the sub-range
// [t0,t1], re-parameterised over [0,1]. It is used to carve meridian
// seams (e.g. a sphere's north-to-south seam) out of a full-turn curve
// like Circle3D.
type SubCurve3 struct {
	Base   Curve3
	T0, T1 float64
}

func (s SubCurve3) remap(t float64) float64 { return s.T0 + (s.T1-s.T0)*t }

// Eval implements Curve3.
func (s SubCurve3) Eval(t float64) v3.Vec { return s.Base.Eval(s.remap(t)) }

// Tangent implements Curve3.
func (s SubCurve3) Tangent(t float64) v3.Vec { return s.Base.Tangent(s.remap(t)) }

// Length implements Curve3, exact for uniform-speed base curves such as
// Circle3D.
func (s SubCurve3) Length() float64 {
	frac := s.T1 - s.T0
	if frac < 0 {
		frac = -frac
	}
	return s.Base.Length() * frac
}

// ClosestPoint implements Curve3 by delegating to the base curve and
// clamping the result back into [0,1] of this sub-range.
func (s SubCurve3) ClosestPoint(q v3.Vec) (float64, v3.Vec) {
	bt, _ := s.Base.ClosestPoint(q)
	t := (bt - s.T0) / (s.T1 - s.T0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t, s.Eval(t)
}
