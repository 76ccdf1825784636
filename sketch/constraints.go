package sketch

import (
	"math"

	v2 "github.com/solidtype/kernel/vec/v2"
)

// Constraint is one row-group contributor to the sketch's residual
// vector: spec §4.4 catalogues coincident, horizontal/vertical,
// parallel/perpendicular, distance/angle, tangent, point-on-arc,
// equal-length/radius, concentric, midpoint, symmetric, radius
// dimension, and point-to-line-distance. Each constraint knows how many
// residuals it contributes and how to evaluate them at a given point
// placement; the solver differentiates Residuals numerically to build
// the Jacobian (see solver.go), which keeps every constraint kind here
// to a single formula instead of a hand-derived partial-derivative pair
// per kind.
type Constraint interface {
	Points() []PointId
	NumResiduals() int
	Residuals(pos map[PointId]v2.Vec) []float64
	// Weight scales this constraint's residuals before assembly, used to
	// approximate an "infinite weight" pull for a driven (dragged) point
	// without giving it a literally-infinite matrix entry.
	Weight() float64
}

// unitWeight gives Weight() == 1 to every constraint that embeds it.
type unitWeight struct{}

func (unitWeight) Weight() float64 { return 1 }

// Coincident forces A and B to the same position.
type Coincident struct {
	unitWeight
	A, B PointId
}

func (c Coincident) Points() []PointId { return []PointId{c.A, c.B} }
func (c Coincident) NumResiduals() int { return 2 }
func (c Coincident) Residuals(pos map[PointId]v2.Vec) []float64 {
	d := pos[c.A].Sub(pos[c.B])
	return []float64{d.X, d.Y}
}

// Horizontal forces the segment A-B to have zero Y difference.
type Horizontal struct {
	unitWeight
	A, B PointId
}

func (c Horizontal) Points() []PointId { return []PointId{c.A, c.B} }
func (c Horizontal) NumResiduals() int { return 1 }
func (c Horizontal) Residuals(pos map[PointId]v2.Vec) []float64 {
	return []float64{pos[c.A].Y - pos[c.B].Y}
}

// Vertical forces the segment A-B to have zero X difference.
type Vertical struct {
	unitWeight
	A, B PointId
}

func (c Vertical) Points() []PointId { return []PointId{c.A, c.B} }
func (c Vertical) NumResiduals() int { return 1 }
func (c Vertical) Residuals(pos map[PointId]v2.Vec) []float64 {
	return []float64{pos[c.A].X - pos[c.B].X}
}

// Parallel forces two lines' direction vectors to have zero cross
// product.
type Parallel struct {
	unitWeight
	L1, L2 Line
}

func (c Parallel) Points() []PointId {
	return []PointId{c.L1.P0, c.L1.P1, c.L2.P0, c.L2.P1}
}
func (c Parallel) NumResiduals() int { return 1 }
func (c Parallel) Residuals(pos map[PointId]v2.Vec) []float64 {
	d1, d2 := lineDir(pos, c.L1), lineDir(pos, c.L2)
	return []float64{d1.Cross(d2)}
}

// posMap is the convenience a constraint uses when it only needs raw
// v2.Vec positions rather than the full Sketch; lineDir in model.go
// expects this shape.
type posMap = map[PointId]v2.Vec

// Perpendicular forces two lines' direction vectors to have zero dot
// product.
type Perpendicular struct {
	unitWeight
	L1, L2 Line
}

func (c Perpendicular) Points() []PointId {
	return []PointId{c.L1.P0, c.L1.P1, c.L2.P0, c.L2.P1}
}
func (c Perpendicular) NumResiduals() int { return 1 }
func (c Perpendicular) Residuals(pos posMap) []float64 {
	d1, d2 := lineDir(pos, c.L1), lineDir(pos, c.L2)
	return []float64{d1.Dot(d2)}
}

// Distance forces |A-B| == D.
type Distance struct {
	unitWeight
	A, B PointId
	D    float64
}

func (c Distance) Points() []PointId { return []PointId{c.A, c.B} }
func (c Distance) NumResiduals() int { return 1 }
func (c Distance) Residuals(pos posMap) []float64 {
	return []float64{pos[c.A].Distance(pos[c.B]) - c.D}
}

// Angle forces the signed angle between two lines' directions to equal
// Theta (radians). Using atan2(cross, dot) rather than
// acos(dot/(|d1||d2|)) - Theta avoids the acos derivative singularity at
// parallel/antiparallel directions and naturally carries sign, an
// equivalent but numerically smoother reformulation of the same
// constraint.
type Angle struct {
	unitWeight
	L1, L2 Line
	Theta  float64
}

func (c Angle) Points() []PointId {
	return []PointId{c.L1.P0, c.L1.P1, c.L2.P0, c.L2.P1}
}
func (c Angle) NumResiduals() int { return 1 }
func (c Angle) Residuals(pos posMap) []float64 {
	d1, d2 := lineDir(pos, c.L1), lineDir(pos, c.L2)
	return []float64{math.Atan2(d1.Cross(d2), d1.Dot(d2)) - c.Theta}
}

// pointLineDistance returns the signed perpendicular distance of p from
// the infinite line through a,b (positive on the left of a->b).
func pointLineDistance(a, b, p v2.Vec) float64 {
	d := b.Sub(a)
	l := d.Length()
	if l == 0 {
		return p.Sub(a).Length()
	}
	return d.Cross(p.Sub(a)) / l
}

// Tangent forces the line L to be tangent to the circle through
// (Center, Rim): the perpendicular distance from Center to L equals the
// circle's radius |Rim-Center|.
type Tangent struct {
	unitWeight
	L              Line
	Center, Rim PointId
}

func (c Tangent) Points() []PointId {
	return []PointId{c.L.P0, c.L.P1, c.Center, c.Rim}
}
func (c Tangent) NumResiduals() int { return 1 }
func (c Tangent) Residuals(pos posMap) []float64 {
	radius := pos[c.Rim].Distance(pos[c.Center])
	dist := math.Abs(pointLineDistance(pos[c.L.P0], pos[c.L.P1], pos[c.Center]))
	return []float64{dist - radius}
}

// PointOnArc forces P onto the circle through (Center, Rim).
type PointOnArc struct {
	unitWeight
	P, Center, Rim PointId
}

func (c PointOnArc) Points() []PointId { return []PointId{c.P, c.Center, c.Rim} }
func (c PointOnArc) NumResiduals() int { return 1 }
func (c PointOnArc) Residuals(pos posMap) []float64 {
	radius := pos[c.Rim].Distance(pos[c.Center])
	return []float64{pos[c.P].Distance(pos[c.Center]) - radius}
}

// EqualLength forces |L1| == |L2|.
type EqualLength struct {
	unitWeight
	L1, L2 Line
}

func (c EqualLength) Points() []PointId {
	return []PointId{c.L1.P0, c.L1.P1, c.L2.P0, c.L2.P1}
}
func (c EqualLength) NumResiduals() int { return 1 }
func (c EqualLength) Residuals(pos posMap) []float64 {
	l1 := pos[c.L1.P0].Distance(pos[c.L1.P1])
	l2 := pos[c.L2.P0].Distance(pos[c.L2.P1])
	return []float64{l1 - l2}
}

// EqualRadius forces two (center, rim) circle pairs to share a radius.
type EqualRadius struct {
	unitWeight
	Center1, Rim1 PointId
	Center2, Rim2 PointId
}

func (c EqualRadius) Points() []PointId {
	return []PointId{c.Center1, c.Rim1, c.Center2, c.Rim2}
}
func (c EqualRadius) NumResiduals() int { return 1 }
func (c EqualRadius) Residuals(pos posMap) []float64 {
	r1 := pos[c.Rim1].Distance(pos[c.Center1])
	r2 := pos[c.Rim2].Distance(pos[c.Center2])
	return []float64{r1 - r2}
}

// Concentric forces two circle/arc centers to coincide.
type Concentric struct {
	unitWeight
	Center1, Center2 PointId
}

func (c Concentric) Points() []PointId { return []PointId{c.Center1, c.Center2} }
func (c Concentric) NumResiduals() int { return 2 }
func (c Concentric) Residuals(pos posMap) []float64 {
	d := pos[c.Center1].Sub(pos[c.Center2])
	return []float64{d.X, d.Y}
}

// Midpoint forces M to sit at the midpoint of A and B.
type Midpoint struct {
	unitWeight
	M, A, B PointId
}

func (c Midpoint) Points() []PointId { return []PointId{c.M, c.A, c.B} }
func (c Midpoint) NumResiduals() int { return 2 }
func (c Midpoint) Residuals(pos posMap) []float64 {
	mid := pos[c.A].Lerp(pos[c.B], 0.5)
	d := pos[c.M].Sub(mid)
	return []float64{d.X, d.Y}
}

// Symmetric forces A and B to be mirror images of each other across the
// line (LineP0, LineP1).
type Symmetric struct {
	unitWeight
	A, B           PointId
	LineP0, LineP1 PointId
}

func (c Symmetric) Points() []PointId {
	return []PointId{c.A, c.B, c.LineP0, c.LineP1}
}
func (c Symmetric) NumResiduals() int { return 2 }
func (c Symmetric) Residuals(pos posMap) []float64 {
	p0, p1 := pos[c.LineP0], pos[c.LineP1]
	axis := p1.Sub(p0).Normalize()
	rel := pos[c.A].Sub(p0)
	reflected := p0.Add(axis.MulScalar(2 * rel.Dot(axis)).Sub(rel))
	d := reflected.Sub(pos[c.B])
	return []float64{d.X, d.Y}
}

// RadiusDimension forces |Rim-Center| == R.
type RadiusDimension struct {
	unitWeight
	Center, Rim PointId
	R           float64
}

func (c RadiusDimension) Points() []PointId { return []PointId{c.Center, c.Rim} }
func (c RadiusDimension) NumResiduals() int { return 1 }
func (c RadiusDimension) Residuals(pos posMap) []float64 {
	return []float64{pos[c.Rim].Distance(pos[c.Center]) - c.R}
}

// PointToLineDistance forces the perpendicular distance from P to the
// line (LineP0, LineP1) to equal D.
type PointToLineDistance struct {
	unitWeight
	P              PointId
	LineP0, LineP1 PointId
	D              float64
}

func (c PointToLineDistance) Points() []PointId {
	return []PointId{c.P, c.LineP0, c.LineP1}
}
func (c PointToLineDistance) NumResiduals() int { return 1 }
func (c PointToLineDistance) Residuals(pos posMap) []float64 {
	dist := math.Abs(pointLineDistance(pos[c.LineP0], pos[c.LineP1], pos[c.P]))
	return []float64{dist - c.D}
}

// drivenWeight approximates the "infinite weight" spec §4.4 assigns a
// dragged point's target residual: large enough that the solver treats
// it as effectively hard while staying a finite, well-conditioned
// matrix entry.
const drivenWeight = 1e4

// DrivenPoint pulls P toward Target with a high weight, modelling a
// drag-to-solve interaction rather than a user-authored constraint.
type DrivenPoint struct {
	P      PointId
	Target v2.Vec
}

func (c DrivenPoint) Points() []PointId      { return []PointId{c.P} }
func (c DrivenPoint) NumResiduals() int      { return 2 }
func (c DrivenPoint) Weight() float64        { return drivenWeight }
func (c DrivenPoint) Residuals(pos posMap) []float64 {
	d := pos[c.P].Sub(c.Target)
	return []float64{d.X, d.Y}
}
