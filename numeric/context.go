// Package numeric provides the tolerance context, robust predicates,
// integer-grid snapping, and root-finders that every other kernel package
// builds on (spec §3 "Numeric context", §3 "Integer grid", §4.1).
package numeric

import "math"

// DefaultLengthTol is 1 micrometre in the CAD's chosen unit (millimetres).
const DefaultLengthTol = 1e-3

// DefaultAngleTol is the default angular tolerance in radians.
const DefaultAngleTol = 1e-8

// nmPerUnit is the integer-grid scale: 1mm = 1e6 nanometres.
const nmPerUnit = 1e6

// Context carries the length and angle tolerances used by every equality,
// zero-check, and ordering predicate in the kernel. A session owns exactly
// one Context; there is no global tolerance state (spec §9 "Global state").
type Context struct {
	LengthTol float64
	AngleTol  float64
}

// DefaultContext returns a Context with the spec's default tolerances.
func DefaultContext() Context {
	return Context{LengthTol: DefaultLengthTol, AngleTol: DefaultAngleTol}
}

// NewContext returns a Context with explicit tolerances. A non-positive
// value falls back to the corresponding default.
func NewContext(lengthTol, angleTol float64) Context {
	c := DefaultContext()
	if lengthTol > 0 {
		c.LengthTol = lengthTol
	}
	if angleTol > 0 {
		c.AngleTol = angleTol
	}
	return c
}

// EqualLength reports whether a and b are equal within LengthTol.
func (c Context) EqualLength(a, b float64) bool {
	return math.Abs(a-b) <= c.LengthTol
}

// ZeroLength reports whether a is zero within LengthTol.
func (c Context) ZeroLength(a float64) bool {
	return math.Abs(a) <= c.LengthTol
}

// LessLength reports whether a < b outside of LengthTol (a strict,
// tolerance-aware ordering).
func (c Context) LessLength(a, b float64) bool {
	return b-a > c.LengthTol
}

// normalizeAngle reduces theta into [0, 2*pi).
func normalizeAngle(theta float64) float64 {
	const twoPi = 2 * math.Pi
	theta = math.Mod(theta, twoPi)
	if theta < 0 {
		theta += twoPi
	}
	return theta
}

// EqualAngle reports whether a and b are equal modulo 2*pi, within
// AngleTol.
func (c Context) EqualAngle(a, b float64) bool {
	na, nb := normalizeAngle(a), normalizeAngle(b)
	d := math.Abs(na - nb)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d <= c.AngleTol
}

// ZeroAngle reports whether a is zero modulo 2*pi, within AngleTol.
func (c Context) ZeroAngle(a float64) bool {
	return c.EqualAngle(a, 0)
}

// SnapCoord maps a real coordinate to the integer nanometre grid used
// exclusively inside the boolean engine (spec §3 "Integer grid").
func SnapCoord(x float64) int64 {
	return int64(math.Round(x * nmPerUnit))
}

// UnsnapCoord maps an integer nanometre-grid coordinate back to a real
// coordinate in the CAD's working unit.
func UnsnapCoord(n int64) float64 {
	return float64(n) / nmPerUnit
}
