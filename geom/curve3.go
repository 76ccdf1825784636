package geom

import (
	"math"

	v3 "github.com/solidtype/kernel/vec/v3"
)

// Curve3 is a parametric curve in 3D, evaluated over t in [0,1].
type Curve3 interface {
	Eval(t float64) v3.Vec
	Tangent(t float64) v3.Vec
	Length() float64
	ClosestPoint(q v3.Vec) (t float64, point v3.Vec)
}

// Line3D is a straight segment from P0 to P1.
type Line3D struct {
	P0, P1 v3.Vec
}

// Eval implements Curve3.
func (l Line3D) Eval(t float64) v3.Vec { return l.P0.Lerp(l.P1, t) }

// Tangent implements Curve3.
func (l Line3D) Tangent(t float64) v3.Vec { return l.P1.Sub(l.P0).Normalize() }

// Length implements Curve3.
func (l Line3D) Length() float64 { return l.P1.Distance(l.P0) }

// ClosestPoint implements Curve3, clamped to [0,1].
func (l Line3D) ClosestPoint(q v3.Vec) (float64, v3.Vec) {
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

// Circle3D is a full circle of the given radius, centered at Center, lying
// in the plane with the given Normal. UDir, if non-zero, fixes the t=0
// direction; otherwise an arbitrary perpendicular is chosen.
type Circle3D struct {
	Center v3.Vec
	Radius float64
	Normal v3.Vec
	UDir   v3.Vec
}

// axes returns an orthonormal (u,v) basis in the circle's plane.
func (c Circle3D) axes() (u, v v3.Vec) {
	n := c.Normal.Normalize()
	u = c.UDir
	if u.Length() < 1e-12 {
		// pick an arbitrary vector not parallel to n
		ref := v3.Vec{X: 1, Y: 0, Z: 0}
		if math.Abs(n.Dot(ref)) > 0.9 {
			ref = v3.Vec{X: 0, Y: 1, Z: 0}
		}
		u = n.Cross(ref).Normalize()
	} else {
		u = u.Normalize()
	}
	v = n.Cross(u).Normalize()
	return u, v
}

// Eval implements Curve3, parameterising the full turn over t in [0,1].
func (c Circle3D) Eval(t float64) v3.Vec {
	u, v := c.axes()
	theta := 2 * math.Pi * t
	return c.Center.Add(u.MulScalar(c.Radius * math.Cos(theta))).Add(v.MulScalar(c.Radius * math.Sin(theta)))
}

// Tangent implements Curve3.
func (c Circle3D) Tangent(t float64) v3.Vec {
	u, v := c.axes()
	theta := 2 * math.Pi * t
	return u.MulScalar(-math.Sin(theta)).Add(v.MulScalar(math.Cos(theta))).Normalize()
}

// Length implements Curve3.
func (c Circle3D) Length() float64 { return 2 * math.Pi * c.Radius }

// ClosestPoint implements Curve3 by projecting q into the circle's plane
// and finding the nearest angle.
func (c Circle3D) ClosestPoint(q v3.Vec) (float64, v3.Vec) {
	u, v := c.axes()
	d := q.Sub(c.Center)
	pu := d.Dot(u)
	pv := d.Dot(v)
	if pu == 0 && pv == 0 {
		return 0, c.Eval(0)
	}
	theta := math.Atan2(pv, pu)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	t := theta / (2 * math.Pi)
	return t, c.Eval(t)
}
