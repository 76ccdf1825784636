package numeric

import (
	"math"

	v2 "github.com/solidtype/kernel/vec/v2"
	v3 "github.com/solidtype/kernel/vec/v3"
)

// Orient2D returns a signed real whose sign indicates the turn direction
// of a->b->c: positive for counter-clockwise, negative for clockwise, zero
// (clamped) for collinear. Magnitudes below LengthTol^2 are clamped to
// exactly zero so that near-collinear triples compare as equal (spec §4.1
// "Orientation predicates").
func (c Context) Orient2D(a, b, p v2.Vec) float64 {
	v := b.Sub(a).Cross(p.Sub(a))
	if math.Abs(v) <= c.LengthTol*c.LengthTol {
		return 0
	}
	return v
}

// Orient3D returns the signed volume of the tetrahedron (a,b,c,d); its
// sign indicates which side of the plane through a,b,c the point d lies
// on. Magnitudes below LengthTol^3 are clamped to zero.
func (c Context) Orient3D(a, b, cc, d v3.Vec) float64 {
	ab := b.Sub(a)
	ac := cc.Sub(a)
	ad := d.Sub(a)
	vol := ab.Cross(ac).Dot(ad)
	if math.Abs(vol) <= c.LengthTol*c.LengthTol*c.LengthTol {
		return 0
	}
	return vol
}

// Segment2DIntersect computes the intersection of segments p1p2 and p3p4,
// snapped to the integer grid once computed (spec §4.1). It returns the
// snapped points and how many there are: 0 (no intersection / parallel
// non-collinear), 1 (a single crossing or touching point), or 2 (the
// snapped endpoints of a collinear overlap interval).
func (c Context) Segment2DIntersect(p1, p2, p3, p4 v2.Vec) []v2.Vec {
	const eps = 1e-9
	d1 := p2.Sub(p1)
	d2 := p4.Sub(p3)
	denom := d1.Cross(d2)

	if math.Abs(denom) <= eps {
		// Parallel. Check collinearity via cross of (p3-p1) with d1.
		if math.Abs(p3.Sub(p1).Cross(d1)) > c.LengthTol {
			return nil // parallel, not collinear
		}
		return c.collinearOverlap(p1, p2, p3, p4)
	}

	t := p3.Sub(p1).Cross(d2) / denom
	u := p3.Sub(p1).Cross(d1) / denom

	const margin = eps
	if t < -margin || t > 1+margin || u < -margin || u > 1+margin {
		return nil
	}
	pt := p1.Lerp(p2, clamp01(t))
	snapped := Unsnap2(Snap2(pt))
	return []v2.Vec{snapped}
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// collinearOverlap projects both segments onto their shared direction and
// returns the snapped endpoints of the overlapping interval, if any.
func (c Context) collinearOverlap(p1, p2, p3, p4 v2.Vec) []v2.Vec {
	dir := p2.Sub(p1)
	len2 := dir.Length2()
	if len2 == 0 {
		return nil
	}
	project := func(p v2.Vec) float64 { return p.Sub(p1).Dot(dir) / len2 }

	a0, a1 := 0.0, 1.0
	b0, b1 := project(p3), project(p4)
	if b0 > b1 {
		b0, b1 = b1, b0
	}
	lo := math.Max(a0, b0)
	hi := math.Min(a1, b1)
	if lo > hi+1e-9 {
		return nil
	}
	loPt := Unsnap2(Snap2(p1.Lerp(p2, clamp01(lo))))
	hiPt := Unsnap2(Snap2(p1.Lerp(p2, clamp01(hi))))
	if loPt.Equals(hiPt, 0) {
		return []v2.Vec{loPt}
	}
	return []v2.Vec{loPt, hiPt}
}

// ClosestPointLines3D returns the single snapped point closest to both of
// two 3D lines (p1,d1) and (p2,d2) — the midpoint of the shared
// perpendicular segment, snapped once per spec §4.1 ("returns one snapped
// point, not two"). ok is false for parallel lines.
func (c Context) ClosestPointLines3D(p1, d1, p2, d2 v3.Vec) (pt v3.Vec, ok bool) {
	d1 = d1.Normalize()
	d2 = d2.Normalize()
	r := p1.Sub(p2)
	a := d1.Dot(d1)
	b := d1.Dot(d2)
	e := d2.Dot(d2)
	denom := a*e - b*b
	if math.Abs(denom) <= 1e-12 {
		return v3.Vec{}, false
	}
	cc := d1.Dot(r)
	f := d2.Dot(r)
	s := (b*f - cc*e) / denom
	t := (a*f - b*cc) / denom
	c1 := p1.Add(d1.MulScalar(s))
	c2 := p2.Add(d2.MulScalar(t))
	mid := c1.Lerp(c2, 0.5)
	return Unsnap3(Snap3(mid)), true
}

// PlanePlaneIntersect returns the line of intersection (a point on the
// line, snapped, plus its direction) of two planes, or ok=false if the
// planes are parallel. The chosen point is the one closest to the origin
// before snapping (spec §4.1).
func (c Context) PlanePlaneIntersect(p1Origin, n1, p2Origin, n2 v3.Vec) (pt, dir v3.Vec, ok bool) {
	dir = n1.Cross(n2)
	if dir.Length() <= 1e-12 {
		return v3.Vec{}, v3.Vec{}, false
	}
	dir = dir.Normalize()

	// Solve for the point on the line closest to the origin using the two
	// plane equations and the direction constraint, via a 3x3 linear
	// system built from n1, n2, dir as rows (a standard closed form).
	d1 := n1.Dot(p1Origin)
	d2 := n2.Dot(p2Origin)
	n3 := dir
	d3 := n3.Dot(v3.Vec{})

	det := n1.Dot(n2.Cross(n3))
	if math.Abs(det) <= 1e-12 {
		return v3.Vec{}, v3.Vec{}, false
	}
	num := n2.Cross(n3).MulScalar(d1).
		Add(n3.Cross(n1).MulScalar(d2)).
		Add(n1.Cross(n2).MulScalar(d3))
	p := num.DivScalar(det)
	return Unsnap3(Snap3(p)), dir, true
}
