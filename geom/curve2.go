// Package geom implements the parametric curves (2D and 3D) and analytic
// surfaces of spec §3 "Curves (parametric)" / "Surfaces (analytic)", plus
// the 2D intersection routines of spec §4.2.
package geom

import (
	"math"

	"github.com/solidtype/kernel/numeric"
	v2 "github.com/solidtype/kernel/vec/v2"
)

// Curve2 is a parametric curve in 2D, evaluated over t in [0,1] (spec §3).
type Curve2 interface {
	Eval(t float64) v2.Vec
	Tangent(t float64) v2.Vec
	Length() float64
	ClosestPoint(q v2.Vec) (t float64, point v2.Vec)
}

// Line2D is a straight segment from P0 to P1.
type Line2D struct {
	P0, P1 v2.Vec
}

// Eval implements Curve2.
func (l Line2D) Eval(t float64) v2.Vec { return l.P0.Lerp(l.P1, t) }

// Tangent implements Curve2; returns the zero vector for a degenerate
// (zero-length) line.
func (l Line2D) Tangent(t float64) v2.Vec { return l.P1.Sub(l.P0).Normalize() }

// Length implements Curve2.
func (l Line2D) Length() float64 { return l.P1.Distance(l.P0) }

// ClosestPoint implements Curve2, clamping the projected parameter to
// [0,1].
func (l Line2D) ClosestPoint(q v2.Vec) (float64, v2.Vec) {
	d := l.P1.Sub(l.P0)
	len2 := d.Length2()
	if len2 == 0 {
		return 0, l.P0
	}
	t := q.Sub(l.P0).Dot(d) / len2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t, l.Eval(t)
}

// Arc2D is a circular arc from startAngle to endAngle around center with
// the given radius, traversed CCW if CCW is true.
type Arc2D struct {
	Center             v2.Vec
	Radius             float64
	StartAngle, EndAngle float64
	CCW                bool
}

// sweepAngle returns the total angular sweep of the arc, always >= 0.
func (a Arc2D) sweepAngle() float64 {
	const twoPi = 2 * math.Pi
	if a.CCW {
		d := a.EndAngle - a.StartAngle
		for d < 0 {
			d += twoPi
		}
		return d
	}
	d := a.StartAngle - a.EndAngle
	for d < 0 {
		d += twoPi
	}
	return d
}

// angleAt returns the angle at parameter t in [0,1].
func (a Arc2D) angleAt(t float64) float64 {
	sweep := a.sweepAngle()
	if a.CCW {
		return a.StartAngle + sweep*t
	}
	return a.StartAngle - sweep*t
}

// Eval implements Curve2.
func (a Arc2D) Eval(t float64) v2.Vec {
	theta := a.angleAt(t)
	return v2.Vec{
		X: a.Center.X + a.Radius*math.Cos(theta),
		Y: a.Center.Y + a.Radius*math.Sin(theta),
	}
}

// Tangent implements Curve2.
func (a Arc2D) Tangent(t float64) v2.Vec {
	theta := a.angleAt(t)
	dir := v2.Vec{X: -math.Sin(theta), Y: math.Cos(theta)}
	if !a.CCW {
		dir = dir.MulScalar(-1)
	}
	return dir.Normalize()
}

// Length implements Curve2.
func (a Arc2D) Length() float64 { return a.Radius * a.sweepAngle() }

// ClosestPoint implements Curve2 by projecting q's angle onto the arc's
// range, clamping to the nearer endpoint outside the range.
func (a Arc2D) ClosestPoint(q v2.Vec) (float64, v2.Vec) {
	d := q.Sub(a.Center)
	if d.Length() == 0 {
		return 0, a.Eval(0)
	}
	theta := math.Atan2(d.Y, d.X)
	sweep := a.sweepAngle()
	var delta float64
	if a.CCW {
		delta = normalizeToRange(theta - a.StartAngle)
	} else {
		delta = normalizeToRange(a.StartAngle - theta)
	}
	var t float64
	if sweep == 0 {
		t = 0
	} else {
		t = delta / sweep
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t, a.Eval(t)
}

// normalizeToRange reduces an angle delta into [0, 2*pi).
func normalizeToRange(d float64) float64 {
	const twoPi = 2 * math.Pi
	d = math.Mod(d, twoPi)
	if d < 0 {
		d += twoPi
	}
	return d
}

// InAngularRange reports whether angle theta lies within the arc's swept
// range (spec §4.2 "test angular inclusion... with the canonical
// [0,2*pi) normalisation").
func (a Arc2D) InAngularRange(theta float64, ctx numeric.Context) bool {
	sweep := a.sweepAngle()
	var delta float64
	if a.CCW {
		delta = normalizeToRange(theta - a.StartAngle)
	} else {
		delta = normalizeToRange(a.StartAngle - theta)
	}
	return delta <= sweep+ctx.AngleTol
}
