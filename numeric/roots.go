package numeric

import "math"

// DefaultMaxIter bounds Newton/bisection iterations (spec §4.1).
const DefaultMaxIter = 100

// Newton finds a root of f near x0 using Newton's method with analytic
// derivative fPrime, for at most maxIter iterations. ok is false if the
// derivative vanishes or the iteration does not converge to within
// LengthTol of zero.
func (c Context) Newton(f, fPrime func(float64) float64, x0 float64, maxIter int) (root float64, ok bool) {
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	x := x0
	for i := 0; i < maxIter; i++ {
		fx := f(x)
		if c.ZeroLength(fx) {
			return x, true
		}
		d := fPrime(x)
		if d == 0 {
			return x, false
		}
		x -= fx / d
	}
	return x, c.ZeroLength(f(x))
}

// Bisection finds a root of f in [a,b], requiring f(a)*f(b) <= 0.
func (c Context) Bisection(f func(float64) float64, a, b float64, maxIter int) (root float64, ok bool) {
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	fa, fb := f(a), f(b)
	if fa*fb > 0 {
		return 0, false
	}
	for i := 0; i < maxIter; i++ {
		mid := 0.5 * (a + b)
		fm := f(mid)
		if c.ZeroLength(fm) || (b-a)/2 < c.LengthTol {
			return mid, true
		}
		if fa*fm <= 0 {
			b, fb = mid, fm
		} else {
			a, fa = mid, fm
		}
	}
	return 0.5 * (a + b), true
}

// Hybrid runs Newton's method, falling back to bisection over [a,b] when
// the derivative vanishes or Newton overruns maxIter without converging
// (spec §4.1 "hybrid").
func (c Context) Hybrid(f, fPrime func(float64) float64, x0, a, b float64, maxIter int) (root float64, ok bool) {
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	x := x0
	for i := 0; i < maxIter; i++ {
		fx := f(x)
		if c.ZeroLength(fx) {
			return x, true
		}
		d := fPrime(x)
		if d != 0 {
			nx := x - fx/d
			if !math.IsNaN(nx) && !math.IsInf(nx, 0) {
				x = nx
				continue
			}
		}
		break
	}
	return c.Bisection(f, a, b, maxIter)
}
