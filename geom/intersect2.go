package geom

import (
	"math"

	"github.com/solidtype/kernel/numeric"
	v2 "github.com/solidtype/kernel/vec/v2"
)

// IntersectLineLine2D handles both crossing and collinear-overlap cases,
// returning 1 or 2 points (spec §4.2).
func IntersectLineLine2D(ctx numeric.Context, a, b Line2D) []v2.Vec {
	return ctx.Segment2DIntersect(a.P0, a.P1, b.P0, b.P1)
}

// IntersectLineArc2D solves for the intersection(s) of an infinite line
// (clamped to the segment's [0,1] range) and an arc, testing angular
// inclusion against the arc's swept range (spec §4.2).
func IntersectLineArc2D(ctx numeric.Context, l Line2D, a Arc2D) []v2.Vec {
	d := l.P1.Sub(l.P0)
	len2 := d.Length2()
	if len2 == 0 {
		return nil
	}
	// Solve |P0 + t*d - center|^2 = r^2 for t.
	f := l.P0.Sub(a.Center)
	aCoef := len2
	bCoef := 2 * f.Dot(d)
	cCoef := f.Length2() - a.Radius*a.Radius

	disc := bCoef*bCoef - 4*aCoef*cCoef
	if disc < 0 {
		return nil
	}
	sqrtDisc := math.Sqrt(disc)
	ts := []float64{(-bCoef + sqrtDisc) / (2 * aCoef)}
	if disc > 1e-15 {
		ts = append(ts, (-bCoef-sqrtDisc)/(2*aCoef))
	}

	var out []v2.Vec
	for _, t := range ts {
		if t < -1e-9 || t > 1+1e-9 {
			continue
		}
		t = clamp01t(t)
		pt := l.Eval(t)
		theta := math.Atan2(pt.Y-a.Center.Y, pt.X-a.Center.X)
		if a.InAngularRange(theta, ctx) {
			out = append(out, pt)
		}
	}
	return out
}

func clamp01t(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// IntersectArcArc2D solves the law-of-cosines circle-circle intersection
// and filters by both arcs' angular ranges (spec §4.2).
func IntersectArcArc2D(ctx numeric.Context, a1, a2 Arc2D) []v2.Vec {
	d := a1.Center.Distance(a2.Center)
	r1, r2 := a1.Radius, a2.Radius
	if d > r1+r2+ctx.LengthTol || d < math.Abs(r1-r2)-ctx.LengthTol {
		return nil
	}
	if d == 0 {
		return nil // concentric, either no intersection or infinite
	}
	// Distance from center1 to the radical line, and half-chord length.
	aDist := (d*d + r1*r1 - r2*r2) / (2 * d)
	h2 := r1*r1 - aDist*aDist
	if h2 < 0 {
		h2 = 0
	}
	h := math.Sqrt(h2)

	dir := a2.Center.Sub(a1.Center).Normalize()
	perp := dir.Perp()
	mid := a1.Center.Add(dir.MulScalar(aDist))

	candidates := []v2.Vec{mid.Add(perp.MulScalar(h))}
	if h > 1e-12 {
		candidates = append(candidates, mid.Sub(perp.MulScalar(h)))
	}

	var out []v2.Vec
	for _, pt := range candidates {
		theta1 := math.Atan2(pt.Y-a1.Center.Y, pt.X-a1.Center.X)
		theta2 := math.Atan2(pt.Y-a2.Center.Y, pt.X-a2.Center.X)
		if a1.InAngularRange(theta1, ctx) && a2.InAngularRange(theta2, ctx) {
			out = append(out, pt)
		}
	}
	return out
}
