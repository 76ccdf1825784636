package sketch

import (
	"testing"

	v2 "github.com/solidtype/kernel/vec/v2"
	"github.com/stretchr/testify/require"
)

func TestSolveDistanceConstraint(t *testing.T) {
	s := NewSketch()
	a := s.AddPoint(v2.Vec{X: 0, Y: 0})
	b := s.AddPoint(v2.Vec{X: 1, Y: 0})
	s.Fix(a)
	s.AddConstraint(Distance{A: a, B: b, D: 5})

	result := Solve(s)
	require.Equal(t, SolveConverged, result.Status)
	require.InDelta(t, 5.0, s.Points[a].Pos.Distance(s.Points[b].Pos), 1e-4)
}

func TestSolveHorizontalAndDistance(t *testing.T) {
	s := NewSketch()
	a := s.AddPoint(v2.Vec{X: 0, Y: 0})
	b := s.AddPoint(v2.Vec{X: 3, Y: 2})
	s.Fix(a)
	s.AddConstraint(Horizontal{A: a, B: b})
	s.AddConstraint(Distance{A: a, B: b, D: 4})

	result := Solve(s)
	require.Equal(t, SolveConverged, result.Status)
	require.InDelta(t, 0.0, s.Points[b].Pos.Y, 1e-4)
	require.InDelta(t, 4.0, s.Points[a].Pos.Distance(s.Points[b].Pos), 1e-4)
}

func TestSolvePerpendicularLines(t *testing.T) {
	s := NewSketch()
	a := s.AddPoint(v2.Vec{X: 0, Y: 0})
	b := s.AddPoint(v2.Vec{X: 2, Y: 0})
	c := s.AddPoint(v2.Vec{X: 2, Y: 0})
	d := s.AddPoint(v2.Vec{X: 2.5, Y: 1.8})
	s.Fix(a)
	s.Fix(b)
	s.Fix(c)
	l1 := Line{P0: a, P1: b}
	l2 := Line{P0: c, P1: d}
	s.AddConstraint(Perpendicular{L1: l1, L2: l2})
	s.AddConstraint(Distance{A: c, B: d, D: 1.8})

	result := Solve(s)
	require.Equal(t, SolveConverged, result.Status)
	dir1 := lineDir(pointPositions(s), l1)
	dir2 := lineDir(pointPositions(s), l2)
	require.InDelta(t, 0.0, dir1.Dot(dir2), 1e-3)
}

func pointPositions(s *Sketch) map[PointId]v2.Vec {
	out := make(map[PointId]v2.Vec, len(s.Points))
	for id, p := range s.Points {
		out[id] = p.Pos
	}
	return out
}

func TestPartitionSeparatesDisjointComponents(t *testing.T) {
	s := NewSketch()
	a := s.AddPoint(v2.Vec{})
	b := s.AddPoint(v2.Vec{X: 1})
	s.AddConstraint(Horizontal{A: a, B: b})

	c := s.AddPoint(v2.Vec{X: 5})
	d := s.AddPoint(v2.Vec{X: 6})
	s.AddConstraint(Vertical{A: c, B: d})

	comps := Partition(s)
	require.Len(t, comps, 2)
	sizes := map[int]bool{len(comps[0].Points): true, len(comps[1].Points): true}
	require.True(t, sizes[2])
}

func TestOverconstrainedComponentDetected(t *testing.T) {
	s := NewSketch()
	a := s.AddPoint(v2.Vec{X: 0, Y: 0})
	b := s.AddPoint(v2.Vec{X: 1, Y: 0})
	s.Fix(a)
	// b has 2 DOF but three constraints pin it
	// past determinacy: horizontal, vertical, and a distance all at once
	// leaves DOF = 2 - 3 = -1.
	s.AddConstraint(Horizontal{A: a, B: b})
	s.AddConstraint(Vertical{A: a, B: b})
	s.AddConstraint(Distance{A: a, B: b, D: 3})

	result := Solve(s)
	require.Len(t, result.Components, 1)
	require.Equal(t, ComponentOverconstrained, result.Components[0].Status)
	require.Equal(t, -1, result.Components[0].DOF.DOF)
	require.NotEmpty(t, result.Components[0].Redundant)
}

func TestDrivenPointPullsTowardTarget(t *testing.T) {
	s := NewSketch()
	a := s.AddPoint(v2.Vec{X: 0, Y: 0})
	s.AddConstraint(DrivenPoint{P: a, Target: v2.Vec{X: 7, Y: -3}})

	result := Solve(s)
	require.Equal(t, SolveConverged, result.Status)
	require.InDelta(t, 7.0, s.Points[a].Pos.X, 1e-3)
	require.InDelta(t, -3.0, s.Points[a].Pos.Y, 1e-3)
}

func TestConcentricAndEqualRadius(t *testing.T) {
	s := NewSketch()
	c1 := s.AddPoint(v2.Vec{X: 0, Y: 0})
	r1 := s.AddPoint(v2.Vec{X: 2, Y: 0})
	c2 := s.AddPoint(v2.Vec{X: 5, Y: 5})
	r2 := s.AddPoint(v2.Vec{X: 6, Y: 6})
	s.Fix(c1)
	s.Fix(r1)
	s.AddConstraint(Concentric{Center1: c1, Center2: c2})
	s.AddConstraint(EqualRadius{Center1: c1, Rim1: r1, Center2: c2, Rim2: r2})

	result := Solve(s)
	require.Equal(t, SolveConverged, result.Status)
	require.InDelta(t, 0.0, s.Points[c1].Pos.Distance(s.Points[c2].Pos), 1e-3)
	radius1 := s.Points[c1].Pos.Distance(s.Points[r1].Pos)
	radius2 := s.Points[c2].Pos.Distance(s.Points[r2].Pos)
	require.InDelta(t, radius1, radius2, 1e-3)
}
