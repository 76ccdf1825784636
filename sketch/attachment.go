package sketch

import (
	"math"

	"github.com/solidtype/kernel/geom"
	"github.com/solidtype/kernel/topo"
	v2 "github.com/solidtype/kernel/vec/v2"
)

// Attachment pins a sketch point to a location on external 3D topology,
// per spec §4.4: "a sketch point may be attached to an edge at a
// parameter, or to an edge endpoint." The edge curve is projected into
// the sketch plane (Surf) to compare against the point's 2D position.
type Attachment struct {
	Point PointId
	Edge  topo.EdgeId
	// Param fixes the edge curve parameter this point tracks (0 or 1 for
	// an endpoint attachment). A negative Param instead re-projects onto
	// whichever curve parameter is currently closest to the point, so
	// the attachment tracks the point rather than a frozen location.
	Param float64
}

func (a Attachment) project(store *topo.Store, surf geom.Surface, cur v2.Vec) v2.Vec {
	curve := store.GetEdgeCurve(a.Edge)
	t := a.Param
	if t < 0 {
		t = closestParam(curve, surf, cur)
	}
	u, v := surf.Inverse(curve.Eval(t))
	return v2.Vec{X: u, Y: v}
}

// closestParam locates the curve parameter whose sketch-plane
// projection is nearest cur by coarse sampling followed by a ternary
// refine. The line/arc curve family this kernel supports has no
// closed-form UV-space closest point in general, so a sampled search is
// the same practical approach mesh/tessellate.go's curve handling takes.
func closestParam(curve geom.Curve3, surf geom.Surface, cur v2.Vec) float64 {
	const samples = 64
	bestT, bestD := 0.0, math.MaxFloat64
	for i := 0; i <= samples; i++ {
		t := float64(i) / samples
		if d := paramDist(curve, surf, cur, t); d < bestD {
			bestD, bestT = d, t
		}
	}
	lo := math.Max(0, bestT-1.0/samples)
	hi := math.Min(1, bestT+1.0/samples)
	for iter := 0; iter < 24; iter++ {
		m1 := lo + (hi-lo)/3
		m2 := hi - (hi-lo)/3
		if paramDist(curve, surf, cur, m1) < paramDist(curve, surf, cur, m2) {
			hi = m2
		} else {
			lo = m1
		}
	}
	return (lo + hi) / 2
}

func paramDist(curve geom.Curve3, surf geom.Surface, cur v2.Vec, t float64) float64 {
	u, v := surf.Inverse(curve.Eval(t))
	return (v2.Vec{X: u, Y: v}).Distance(cur)
}

// AttachmentConstraint is the soft residual spec §4.4 gives an attached
// point: the gap between its sketch-plane position and its current
// projection onto the referenced edge. It carries unit weight, unlike a
// DrivenPoint's hard pull, since an attachment should settle alongside
// the sketch's authored constraints rather than override them.
type AttachmentConstraint struct {
	Attach Attachment
	Store  *topo.Store
	Surf   geom.Surface
}

func (c AttachmentConstraint) Points() []PointId { return []PointId{c.Attach.Point} }
func (c AttachmentConstraint) NumResiduals() int { return 2 }
func (c AttachmentConstraint) Weight() float64   { return 1 }
func (c AttachmentConstraint) Residuals(pos posMap) []float64 {
	target := c.Attach.project(c.Store, c.Surf, pos[c.Attach.Point])
	d := pos[c.Attach.Point].Sub(target)
	return []float64{d.X, d.Y}
}

// Attach adds an attachment constraint binding point id to edge at the
// given fixed parameter (or nearest point, if param < 0), wiring it into
// the sketch's constraint set so Partition and Solve treat it like any
// other constraint.
func (s *Sketch) Attach(point PointId, store *topo.Store, surf geom.Surface, edge topo.EdgeId, param float64) {
	s.AddConstraint(AttachmentConstraint{
		Attach: Attachment{Point: point, Edge: edge, Param: param},
		Store:  store,
		Surf:   surf,
	})
}
