package geom

import v3 "github.com/solidtype/kernel/vec/v3"

// TranslatedCurve3 offsets a base curve by a constant vector, used to
// derive an extrusion's top edges from its bottom edges without
// re-deriving each curve type's own geometry.
type TranslatedCurve3 struct {
	Base   Curve3
	Offset v3.Vec
}

// Eval implements Curve3.
func (t TranslatedCurve3) Eval(s float64) v3.Vec { return t.Base.Eval(s).Add(t.Offset) }

// Tangent implements Curve3.
func (t TranslatedCurve3) Tangent(s float64) v3.Vec { return t.Base.Tangent(s) }

// Length implements Curve3.
func (t TranslatedCurve3) Length() float64 { return t.Base.Length() }

// ClosestPoint implements Curve3.
func (t TranslatedCurve3) ClosestPoint(q v3.Vec) (float64, v3.Vec) {
	s, p := t.Base.ClosestPoint(q.Sub(t.Offset))
	return s, p.Add(t.Offset)
}
