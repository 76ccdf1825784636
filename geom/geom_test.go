package geom

import (
	"math"
	"testing"

	"github.com/solidtype/kernel/numeric"
	v2 "github.com/solidtype/kernel/vec/v2"
	v3 "github.com/solidtype/kernel/vec/v3"
)

func TestLine2DEval(t *testing.T) {
	l := Line2D{P0: v2.Vec{X: 0, Y: 0}, P1: v2.Vec{X: 10, Y: 0}}
	mid := l.Eval(0.5)
	if !mid.Equals(v2.Vec{X: 5, Y: 0}, 1e-9) {
		t.Errorf("expected midpoint (5,0), got %v", mid)
	}
	if l.Length() != 10 {
		t.Errorf("expected length 10, got %f", l.Length())
	}
}

func TestArc2DFullCircle(t *testing.T) {
	a := Arc2D{Center: v2.Vec{}, Radius: 5, StartAngle: 0, EndAngle: 2 * math.Pi, CCW: true}
	p0 := a.Eval(0)
	p1 := a.Eval(1)
	if !p0.Equals(v2.Vec{X: 5, Y: 0}, 1e-9) {
		t.Errorf("expected start at (5,0), got %v", p0)
	}
	if !p1.Equals(v2.Vec{X: 5, Y: 0}, 1e-6) {
		t.Errorf("expected end back at (5,0), got %v", p1)
	}
}

func TestIntersectLineArc2D(t *testing.T) {
	ctx := numeric.DefaultContext()
	l := Line2D{P0: v2.Vec{X: -10, Y: 0}, P1: v2.Vec{X: 10, Y: 0}}
	a := Arc2D{Center: v2.Vec{}, Radius: 5, StartAngle: 0, EndAngle: 2 * math.Pi, CCW: true}
	pts := IntersectLineArc2D(ctx, l, a)
	if len(pts) != 2 {
		t.Fatalf("expected 2 intersections, got %d", len(pts))
	}
}

func TestIntersectArcArc2D(t *testing.T) {
	ctx := numeric.DefaultContext()
	a1 := Arc2D{Center: v2.Vec{X: -3, Y: 0}, Radius: 5, StartAngle: 0, EndAngle: 2 * math.Pi, CCW: true}
	a2 := Arc2D{Center: v2.Vec{X: 3, Y: 0}, Radius: 5, StartAngle: 0, EndAngle: 2 * math.Pi, CCW: true}
	pts := IntersectArcArc2D(ctx, a1, a2)
	if len(pts) != 2 {
		t.Fatalf("expected 2 intersections, got %d", len(pts))
	}
	for _, p := range pts {
		if !numeric.DefaultContext().EqualLength(p.Distance(a1.Center), 5) {
			t.Errorf("expected point on circle 1, got distance %f", p.Distance(a1.Center))
		}
	}
}

func TestPlaneEvalInverseRoundTrip(t *testing.T) {
	p := NewPlane(v3.Vec{X: 1, Y: 2, Z: 3}, v3.Vec{X: 0, Y: 0, Z: 1}, v3.Vec{X: 1, Y: 0, Z: 0})
	pt := p.Eval(3.5, -2.1)
	u, v := p.Inverse(pt)
	if math.Abs(u-3.5) > 1e-9 || math.Abs(v+2.1) > 1e-9 {
		t.Errorf("expected (3.5,-2.1), got (%f,%f)", u, v)
	}
}

func TestCylinderEvalInverseRoundTrip(t *testing.T) {
	c := Cylinder{Origin: v3.Vec{}, Axis: v3.Vec{X: 0, Y: 0, Z: 1}, Radius: 4}
	pt := c.Eval(2.0, 1.2)
	u, v := c.Inverse(pt)
	if math.Abs(u-2.0) > 1e-9 || math.Abs(v-1.2) > 1e-9 {
		t.Errorf("expected (2.0,1.2), got (%f,%f)", u, v)
	}
	if !numeric.DefaultContext().EqualLength(c.NormalAt(u, v).Length(), 1) {
		t.Errorf("expected unit normal")
	}
}

func TestSphereEvalInverseRoundTrip(t *testing.T) {
	s := Sphere{Center: v3.Vec{}, Radius: 3}
	u, v := 1.1, 4.0
	pt := s.Eval(u, v)
	gu, gv := s.Inverse(pt)
	if math.Abs(gu-u) > 1e-6 || math.Abs(gv-v) > 1e-6 {
		t.Errorf("expected (%f,%f), got (%f,%f)", u, v, gu, gv)
	}
}

func TestUnwrapLoopAngles(t *testing.T) {
	vs := []float64{6.2, 0.1, 0.2} // wraps across the seam near 2*pi/0
	out := UnwrapLoopAngles(vs)
	for i := 1; i < len(out); i++ {
		if math.Abs(out[i]-out[i-1]) > math.Pi {
			t.Errorf("expected each unwrapped step <= pi, got %v -> %v", out[i-1], out[i])
		}
	}
}
