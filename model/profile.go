package model

import (
	"fmt"
	"math"

	"github.com/solidtype/kernel/geom"
	"github.com/solidtype/kernel/numeric"
)

// ProfileLoop is a single closed loop of 2D curves, traversed start-to-end
// curve by curve with each curve's end matching the next curve's start.
type ProfileLoop struct {
	Curves []geom.Curve2
}

// signedArea returns the loop's signed area via the shoelace formula over
// curve endpoints, with an added circular-segment correction for arcs
// (straight chords alone would under/over-count the area they bound).
func (l ProfileLoop) signedArea() float64 {
	var area float64
	for _, c := range l.Curves {
		p0 := c.Eval(0)
		p1 := c.Eval(1)
		area += p0.X*p1.Y - p1.X*p0.Y
		if arc, ok := c.(geom.Arc2D); ok {
			sweep := arcSweep(arc)
			segArea := 0.5 * arc.Radius * arc.Radius * (sweep - math.Sin(sweep))
			if !arc.CCW {
				segArea = -segArea
			}
			area += 2 * segArea
		}
	}
	return area / 2
}

func arcSweep(a geom.Arc2D) float64 {
	d := a.EndAngle - a.StartAngle
	if !a.CCW {
		d = a.StartAngle - a.EndAngle
	}
	const twoPi = 2 * math.Pi
	for d < 0 {
		d += twoPi
	}
	return d
}

// reversed returns the loop with curve order and each curve's direction
// flipped, used to re-orient a loop to the opposite winding.
func (l ProfileLoop) reversed() ProfileLoop {
	out := make([]geom.Curve2, len(l.Curves))
	for i, c := range l.Curves {
		out[len(l.Curves)-1-i] = reverseCurve2(c)
	}
	return ProfileLoop{Curves: out}
}

func reverseCurve2(c geom.Curve2) geom.Curve2 {
	switch v := c.(type) {
	case geom.Line2D:
		return geom.Line2D{P0: v.P1, P1: v.P0}
	case geom.Arc2D:
		return geom.Arc2D{Center: v.Center, Radius: v.Radius, StartAngle: v.EndAngle, EndAngle: v.StartAngle, CCW: !v.CCW}
	default:
		return c
	}
}

// Profile is a planar sketch resolved into nested closed loops on a datum
// plane: the first loop is the outer boundary (CCW), the rest are holes
// (CW), per spec §4.5 "Profile".
type Profile struct {
	Plane DatumPlane
	Loops []ProfileLoop
}

// profileNode is one curve of the flat set passed to SketchToProfile,
// keyed by its snapped endpoints for adjacency lookup.
type profileNode struct {
	curve      geom.Curve2
	start, end numeric.Point2I
	used       bool
}

// SketchToProfile topologically sorts a flat set of 2D curves into closed
// loops using an endpoint adjacency graph, then classifies the loop with
// the largest absolute area as the outer boundary (re-oriented CCW) and
// every other loop as a hole (re-oriented CW), per spec §4.5.
func SketchToProfile(plane DatumPlane, curves []geom.Curve2, ctx numeric.Context) (Profile, error) {
	if len(curves) == 0 {
		return Profile{}, fmt.Errorf("model: profile requires at least one curve")
	}

	nodes := make([]*profileNode, len(curves))
	adjacency := make(map[numeric.Point2I][]*profileNode)
	for i, c := range curves {
		s, e := c.Eval(0), c.Eval(1)
		n := &profileNode{curve: c, start: numeric.Snap2(s), end: numeric.Snap2(e)}
		nodes[i] = n
		adjacency[n.start] = append(adjacency[n.start], n)
	}

	var loops []ProfileLoop
	for _, start := range nodes {
		if start.used {
			continue
		}
		var loopCurves []geom.Curve2
		cur := start
		for {
			cur.used = true
			loopCurves = append(loopCurves, cur.curve)
			next := findNextProfileNode(adjacency, cur.end, start.start)
			if next == nil {
				return Profile{}, fmt.Errorf("model: profile curve set does not close into loops (dangling endpoint)")
			}
			if next == start {
				break
			}
			cur = next
		}
		loops = append(loops, ProfileLoop{Curves: loopCurves})
	}

	if len(loops) == 0 {
		return Profile{}, fmt.Errorf("model: profile curve set produced no closed loops")
	}

	outerIdx := 0
	bestArea := 0.0
	areas := make([]float64, len(loops))
	for i, l := range loops {
		a := l.signedArea()
		areas[i] = a
		if absf(a) > bestArea {
			bestArea = absf(a)
			outerIdx = i
		}
	}
	if bestArea <= ctx.LengthTol*ctx.LengthTol {
		return Profile{}, fmt.Errorf("model: profile outer loop has zero area")
	}

	ordered := make([]ProfileLoop, 0, len(loops))
	outer := loops[outerIdx]
	if areas[outerIdx] < 0 {
		outer = outer.reversed()
	}
	ordered = append(ordered, outer)
	for i, l := range loops {
		if i == outerIdx {
			continue
		}
		if areas[i] > 0 {
			l = l.reversed()
		}
		ordered = append(ordered, l)
	}

	return Profile{Plane: plane, Loops: ordered}, nil
}

// findNextProfileNode returns the unused node starting at point p,
// preferring one that is not the loop's own start node unless it is the
// only option (closing the loop). Returns nil if no matching node exists.
func findNextProfileNode(adjacency map[numeric.Point2I][]*profileNode, p, loopStart numeric.Point2I) *profileNode {
	candidates := adjacency[p]
	var fallback *profileNode
	for _, n := range candidates {
		if n.used {
			if n.start == loopStart {
				fallback = n
			}
			continue
		}
		return n
	}
	return fallback
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
