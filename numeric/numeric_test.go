//-----------------------------------------------------------------------------
/*

Numeric Context Testing

*/
//-----------------------------------------------------------------------------

package numeric

import (
	"math"
	"testing"

	v2 "github.com/solidtype/kernel/vec/v2"
)

func equalFloat64(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSegment2DIntersect_Crossing(t *testing.T) {
	c := DefaultContext()
	testSet := []struct {
		p1, p2, p3, p4 v2.Vec
		want           v2.Vec
	}{
		{v2.Vec{X: 0, Y: 0}, v2.Vec{X: 10, Y: 10}, v2.Vec{X: 0, Y: 10}, v2.Vec{X: 10, Y: 0}, v2.Vec{X: 5, Y: 5}},
		{v2.Vec{X: -1, Y: 0}, v2.Vec{X: 1, Y: 0}, v2.Vec{X: 0, Y: -1}, v2.Vec{X: 0, Y: 1}, v2.Vec{X: 0, Y: 0}},
	}
	for i, test := range testSet {
		got := c.Segment2DIntersect(test.p1, test.p2, test.p3, test.p4)
		if len(got) != 1 {
			t.Fatalf("test %d: expected 1 intersection, got %d", i, len(got))
		}
		if !got[0].Equals(test.want, 1e-6) {
			t.Errorf("test %d: expected %v, got %v", i, test.want, got[0])
		}
	}
}

func TestSegment2DIntersect_DualComputation(t *testing.T) {
	c := DefaultContext()
	p1, p2 := v2.Vec{X: 1, Y: 2}, v2.Vec{X: 9, Y: -3}
	p3, p4 := v2.Vec{X: 0, Y: -5}, v2.Vec{X: 6, Y: 8}

	ab := c.Segment2DIntersect(p1, p2, p3, p4)
	ba := c.Segment2DIntersect(p3, p4, p1, p2)

	if len(ab) != len(ba) {
		t.Fatalf("expected same intersection count, got %d vs %d", len(ab), len(ba))
	}
	for i := range ab {
		if ab[i] != ba[i] {
			t.Errorf("dual computation mismatch: %v vs %v", ab[i], ba[i])
		}
	}
}

func TestSegment2DIntersect_ParallelNonCollinear(t *testing.T) {
	c := DefaultContext()
	got := c.Segment2DIntersect(
		v2.Vec{X: 0, Y: 0}, v2.Vec{X: 10, Y: 0},
		v2.Vec{X: 0, Y: 5}, v2.Vec{X: 10, Y: 5},
	)
	if got != nil {
		t.Errorf("expected no intersection for parallel segments, got %v", got)
	}
}

func TestSegment2DIntersect_CollinearOverlap(t *testing.T) {
	c := DefaultContext()
	got := c.Segment2DIntersect(
		v2.Vec{X: 0, Y: 0}, v2.Vec{X: 10, Y: 0},
		v2.Vec{X: 5, Y: 0}, v2.Vec{X: 15, Y: 0},
	)
	if len(got) != 2 {
		t.Fatalf("expected 2 endpoints for collinear overlap, got %d", len(got))
	}
}

func TestSnapRoundTrip(t *testing.T) {
	p := v2.Vec{X: 12.3456789, Y: -0.0000001}
	snapped := Unsnap2(Snap2(p))
	if !equalFloat64(snapped.X, p.X, 1e-6) {
		t.Errorf("expected %f, got %f", p.X, snapped.X)
	}
}

func TestHybridFallsBackToBisection(t *testing.T) {
	c := DefaultContext()
	// f has a derivative-zero point at x=0 that Newton alone would stall on.
	f := func(x float64) float64 { return x*x*x - 2 }
	fPrime := func(x float64) float64 {
		if equalFloat64(x, 0, 1e-9) {
			return 0
		}
		return 3 * x * x
	}
	root, ok := c.Hybrid(f, fPrime, 0, 0, 2, 50)
	if !ok {
		t.Fatal("expected convergence")
	}
	want := math.Cbrt(2)
	if !equalFloat64(root, want, 1e-4) {
		t.Errorf("expected root near %f, got %f", want, root)
	}
}

func TestOrient2DClampsNearZero(t *testing.T) {
	c := NewContext(1e-3, 1e-8)
	v := c.Orient2D(v2.Vec{X: 0, Y: 0}, v2.Vec{X: 1, Y: 0}, v2.Vec{X: 0.5, Y: 1e-9})
	if v != 0 {
		t.Errorf("expected clamp to zero, got %v", v)
	}
}
