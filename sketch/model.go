// Package sketch implements the 2D constraint-based sketch solver of
// spec §4.4: a point/constraint graph, connected-component partitioning,
// DOF auditing, and a Levenberg-Marquardt solver.
package sketch

import (
	v2 "github.com/solidtype/kernel/vec/v2"
)

// PointId indexes a sketch point.
type PointId int

// Point is one 2D sketch point, optionally fixed (spec §4.4: "the state
// vector x be the concatenation of non-fixed point coordinates").
type Point struct {
	Pos   v2.Vec
	Fixed bool
}

// Line is a straight entity between two sketch points.
type Line struct {
	P0, P1 PointId
}

// Arc is a circular-arc entity: Center plus two points on the circle
// marking the start and end of the swept arc; its radius is derived as
// |Start-Center|. The solver adds no implicit relation keeping
// |End-Center| equal to it; that takes an explicit constraint (for
// example PointOnArc or EqualRadius).
type Arc struct {
	Center, Start, End PointId
}

// Circle is a full circle: a center point and one point on its rim.
type Circle struct {
	Center, Rim PointId
}

// Sketch is the complete 2D sketch entity collection plus its
// constraint set, keyed by PointId, the unit the solver operates on.
type Sketch struct {
	Points      map[PointId]*Point
	Lines       []Line
	Arcs        []Arc
	Circles     []Circle
	Constraints []Constraint
}

// NewSketch returns an empty sketch.
func NewSketch() *Sketch {
	return &Sketch{Points: make(map[PointId]*Point)}
}

// AddPoint inserts a new point at p and returns its id.
func (s *Sketch) AddPoint(p v2.Vec) PointId {
	id := PointId(len(s.Points))
	for {
		if _, exists := s.Points[id]; !exists {
			break
		}
		id++
	}
	s.Points[id] = &Point{Pos: p}
	return id
}

// Fix marks point id as fixed (excluded from the solver's free state
// vector).
func (s *Sketch) Fix(id PointId) {
	if p, ok := s.Points[id]; ok {
		p.Fixed = true
	}
}

// AddConstraint appends c to the sketch's constraint set.
func (s *Sketch) AddConstraint(c Constraint) {
	s.Constraints = append(s.Constraints, c)
}

// lineDir returns the direction vector B-A for a line's two points.
func lineDir(pos map[PointId]v2.Vec, l Line) v2.Vec {
	return pos[l.P1].Sub(pos[l.P0])
}
