package model

import (
	"testing"

	"github.com/solidtype/kernel/geom"
	"github.com/solidtype/kernel/numeric"
	"github.com/solidtype/kernel/topo"
	v2 "github.com/solidtype/kernel/vec/v2"
	v3 "github.com/solidtype/kernel/vec/v3"
)

// TestRevolveFullTurnCylinderEquivalent revolves a rectangle offset from
// the Z axis by a full turn, which should produce a cylinder-like solid
// with no start/end caps (the profile's own rectangle ends become the
// top/bottom caps instead).
func TestRevolveFullTurnCylinderEquivalent(t *testing.T) {
	store := topo.NewStore()
	curves := []geom.Curve2{
		geom.Line2D{P0: v2.Vec{X: 1, Y: 0}, P1: v2.Vec{X: 1, Y: 2}},
		geom.Line2D{P0: v2.Vec{X: 1, Y: 2}, P1: v2.Vec{X: 2, Y: 2}},
		geom.Line2D{P0: v2.Vec{X: 2, Y: 2}, P1: v2.Vec{X: 2, Y: 0}},
		geom.Line2D{P0: v2.Vec{X: 2, Y: 0}, P1: v2.Vec{X: 1, Y: 0}},
	}
	profile, err := SketchToProfile(PlaneXY, curves, numeric.DefaultContext())
	if err != nil {
		t.Fatalf("SketchToProfile: %v", err)
	}

	res, err := Revolve(store, numeric.DefaultContext(), profile, RevolveOptions{
		Axis: RevolveAxis{Origin: v3.Vec{}, Direction: v3.Vec{Y: 1}},
	})
	if err != nil {
		t.Fatalf("Revolve: %v", err)
	}
	if len(res.Faces) == 0 {
		t.Fatalf("expected faces")
	}
	stats := store.ComputeStats()
	if stats.Bodies != 1 || stats.Shells != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestRevolveAxisTouchingVertexProducesCone revolves a right-triangle
// profile with one vertex on the axis through a partial angle, exercising
// the degenerate-vertex / triangular-face path.
func TestRevolveAxisTouchingVertexProducesCone(t *testing.T) {
	store := topo.NewStore()
	curves := []geom.Curve2{
		geom.Line2D{P0: v2.Vec{X: 0, Y: 0}, P1: v2.Vec{X: 2, Y: 0}},
		geom.Line2D{P0: v2.Vec{X: 2, Y: 0}, P1: v2.Vec{X: 2, Y: 3}},
		geom.Line2D{P0: v2.Vec{X: 2, Y: 3}, P1: v2.Vec{X: 0, Y: 0}},
	}
	profile, err := SketchToProfile(PlaneXY, curves, numeric.DefaultContext())
	if err != nil {
		t.Fatalf("SketchToProfile: %v", err)
	}

	res, err := Revolve(store, numeric.DefaultContext(), profile, RevolveOptions{
		Axis:  RevolveAxis{Origin: v3.Vec{}, Direction: v3.Vec{Y: 1}},
		Angle: 3.14159265358979,
	})
	if err != nil {
		t.Fatalf("Revolve: %v", err)
	}
	if len(res.Faces) == 0 {
		t.Fatalf("expected faces")
	}
	stats := store.ComputeStats()
	if stats.Bodies != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestRevolveRejectsArcProfileEdge(t *testing.T) {
	store := topo.NewStore()
	curves := []geom.Curve2{
		geom.Arc2D{Center: v2.Vec{}, Radius: 1, StartAngle: 0, EndAngle: 3.14159265358979, CCW: true},
		geom.Line2D{P0: v2.Vec{X: -1, Y: 0}, P1: v2.Vec{X: 1, Y: 0}},
	}
	profile, err := SketchToProfile(PlaneXY, curves, numeric.DefaultContext())
	if err != nil {
		t.Fatalf("SketchToProfile: %v", err)
	}
	if _, err := Revolve(store, numeric.DefaultContext(), profile, RevolveOptions{Axis: RevolveAxis{Origin: v3.Vec{}, Direction: v3.Vec{Y: 1}}}); err == nil {
		t.Fatalf("expected unsupported-arc error")
	}
}
