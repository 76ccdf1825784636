package model

import (
	"math"
	"testing"

	"github.com/solidtype/kernel/geom"
	"github.com/solidtype/kernel/numeric"
	"github.com/solidtype/kernel/topo"
	v2 "github.com/solidtype/kernel/vec/v2"
	v3 "github.com/solidtype/kernel/vec/v3"
)

func squareProfile(t *testing.T) Profile {
	t.Helper()
	curves := []geom.Curve2{
		geom.Line2D{P0: v2.Vec{X: -1, Y: -1}, P1: v2.Vec{X: 1, Y: -1}},
		geom.Line2D{P0: v2.Vec{X: 1, Y: 1}, P1: v2.Vec{X: -1, Y: 1}},
		geom.Line2D{P0: v2.Vec{X: -1, Y: 1}, P1: v2.Vec{X: -1, Y: -1}},
		geom.Line2D{P0: v2.Vec{X: 1, Y: -1}, P1: v2.Vec{X: 1, Y: 1}},
	}
	profile, err := SketchToProfile(PlaneXY, curves, numeric.DefaultContext())
	if err != nil {
		t.Fatalf("SketchToProfile: %v", err)
	}
	return profile
}

// TestExtrudeRectangleScenario covers spec scenario B: a 2x2 square
// extruded by 3 on XY should produce 6 faces (4 side, 2 caps), a bounding
// box of (-1,-1,0)-(1,1,3), and total surface area 32.
func TestExtrudeRectangleScenario(t *testing.T) {
	store := topo.NewStore()
	profile := squareProfile(t)

	res, err := Extrude(store, profile, ExtrudeOptions{Distance: 3, Direction: DirectionNormal})
	if err != nil {
		t.Fatalf("Extrude: %v", err)
	}
	if len(res.Faces) != 6 {
		t.Fatalf("expected 6 faces, got %d: %v", len(res.Faces), res.Faces)
	}

	stats := store.ComputeStats()
	if stats.Bodies != 1 || stats.Shells != 1 || stats.Faces != 6 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	var box v3.Box
	first := true
	for i := 0; i < store.NumVertices(); i++ {
		vid := topo.VertexId(i)
		if store.VertexDeleted(vid) {
			continue
		}
		p := store.GetVertexPosition(vid)
		if first {
			box = v3.NewBox(p, p)
			first = false
		} else {
			box = box.Extend(p)
		}
	}
	want := v3.Box{Min: v3.Vec{X: -1, Y: -1, Z: 0}, Max: v3.Vec{X: 1, Y: 1, Z: 3}}
	if !box.Min.Equals(want.Min, 1e-9) || !box.Max.Equals(want.Max, 1e-9) {
		t.Fatalf("unexpected bounding box: %+v", box)
	}

	var totalArea float64
	for _, f := range res.Faces {
		a, err := store.FaceOuterLoopUVArea(f)
		if err != nil {
			t.Fatalf("FaceOuterLoopUVArea: %v", err)
		}
		totalArea += math.Abs(a)
	}
	if math.Abs(totalArea-32) > 1e-6 {
		t.Fatalf("expected total area 32, got %v", totalArea)
	}

	validation := store.Validate(numeric.DefaultContext())
	if validation.ErrorCount != 0 {
		t.Fatalf("unexpected validation errors: %+v", validation.Issues)
	}
}

func TestExtrudeRejectsNonPositiveDistance(t *testing.T) {
	store := topo.NewStore()
	profile := squareProfile(t)
	if _, err := Extrude(store, profile, ExtrudeOptions{Distance: 0}); err == nil {
		t.Fatalf("expected error for zero distance")
	}
}
