package topo

import (
	"testing"

	"github.com/solidtype/kernel/geom"
	"github.com/solidtype/kernel/numeric"
	v3 "github.com/solidtype/kernel/vec/v3"
)

// buildTriangleFace builds a single planar triangular face as a minimal
// closed loop, with no twins and no shell (its one-sided edges are
// reported as boundary warnings, not errors, since no closed shell owns
// the face).
func buildTriangleFace(s *Store) FaceId {
	v0 := s.AddVertex(v3.Vec{X: 0, Y: 0, Z: 0})
	v1 := s.AddVertex(v3.Vec{X: 1, Y: 0, Z: 0})
	v2 := s.AddVertex(v3.Vec{X: 0, Y: 1, Z: 0})

	e0 := s.AddEdge(geom.Line3D{P0: v3.Vec{X: 0, Y: 0, Z: 0}, P1: v3.Vec{X: 1, Y: 0, Z: 0}})
	e1 := s.AddEdge(geom.Line3D{P0: v3.Vec{X: 1, Y: 0, Z: 0}, P1: v3.Vec{X: 0, Y: 1, Z: 0}})
	e2 := s.AddEdge(geom.Line3D{P0: v3.Vec{X: 0, Y: 1, Z: 0}, P1: v3.Vec{X: 0, Y: 0, Z: 0}})

	h0 := s.AddHalfEdge(v0, e0)
	h1 := s.AddHalfEdge(v1, e1)
	h2 := s.AddHalfEdge(v2, e2)
	s.SetEdgeHalfEdge(e0, 0, h0)
	s.SetEdgeHalfEdge(e1, 0, h1)
	s.SetEdgeHalfEdge(e2, 0, h2)
	s.SetHalfEdgeNext(h0, h1)
	s.SetHalfEdgeNext(h1, h2)
	s.SetHalfEdgeNext(h2, h0)

	loop := s.AddLoop(h0)
	s.SetHalfEdgeLoop(h0, loop)
	s.SetHalfEdgeLoop(h1, loop)
	s.SetHalfEdgeLoop(h2, loop)

	plane := geom.NewPlane(v3.Vec{}, v3.Vec{X: 0, Y: 0, Z: 1}, v3.Vec{X: 1, Y: 0, Z: 0})
	return s.AddFace(plane, loop)
}

func TestIterateLoopHalfEdgesCloses(t *testing.T) {
	s := NewStore()
	f := buildTriangleFace(s)
	loops := s.GetFaceLoops(f)
	hes, err := s.IterateLoopHalfEdges(loops[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hes) != 3 {
		t.Fatalf("expected 3 half-edges, got %d", len(hes))
	}
}

func TestFaceOuterLoopUVArea(t *testing.T) {
	s := NewStore()
	f := buildTriangleFace(s)
	area, err := s.FaceOuterLoopUVArea(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if area < 0 {
		area = -area
	}
	if !numeric.DefaultContext().EqualLength(area, 0.5) {
		t.Errorf("expected area 0.5, got %f", area)
	}
}

func TestWeldVertices(t *testing.T) {
	s := NewStore()
	ctx := numeric.DefaultContext()
	v0 := s.AddVertex(v3.Vec{X: 0, Y: 0, Z: 0})
	v1 := s.AddVertex(v3.Vec{X: 1e-7, Y: 0, Z: 0})
	e := s.AddEdge(geom.Line3D{P0: v3.Vec{}, P1: v3.Vec{X: 1, Y: 0, Z: 0}})
	h := s.AddHalfEdge(v1, e)
	merged := s.weldVertices(ctx)
	if merged != 1 {
		t.Fatalf("expected 1 vertex merged, got %d", merged)
	}
	if s.GetHalfEdgeOrigin(h) != v0 && s.GetHalfEdgeOrigin(h) != v1 {
		t.Errorf("expected origin rewritten to surviving representative")
	}
}

func TestValidateZeroAreaFace(t *testing.T) {
	s := NewStore()
	ctx := numeric.DefaultContext()
	v0 := s.AddVertex(v3.Vec{X: 0, Y: 0, Z: 0})
	v1 := s.AddVertex(v3.Vec{X: 1, Y: 0, Z: 0})
	v2 := s.AddVertex(v3.Vec{X: 2, Y: 0, Z: 0}) // collinear -> zero area

	e0 := s.AddEdge(geom.Line3D{P0: v3.Vec{X: 0, Y: 0, Z: 0}, P1: v3.Vec{X: 1, Y: 0, Z: 0}})
	e1 := s.AddEdge(geom.Line3D{P0: v3.Vec{X: 1, Y: 0, Z: 0}, P1: v3.Vec{X: 2, Y: 0, Z: 0}})
	e2 := s.AddEdge(geom.Line3D{P0: v3.Vec{X: 2, Y: 0, Z: 0}, P1: v3.Vec{X: 0, Y: 0, Z: 0}})

	h0 := s.AddHalfEdge(v0, e0)
	h1 := s.AddHalfEdge(v1, e1)
	h2 := s.AddHalfEdge(v2, e2)
	s.SetHalfEdgeNext(h0, h1)
	s.SetHalfEdgeNext(h1, h2)
	s.SetHalfEdgeNext(h2, h0)
	loop := s.AddLoop(h0)
	s.SetHalfEdgeLoop(h0, loop)
	s.SetHalfEdgeLoop(h1, loop)
	s.SetHalfEdgeLoop(h2, loop)
	plane := geom.NewPlane(v3.Vec{}, v3.Vec{X: 0, Y: 0, Z: 1}, v3.Vec{X: 1, Y: 0, Z: 0})
	s.AddFace(plane, loop)

	report := s.Validate(ctx)
	found := false
	for _, iss := range report.Issues {
		if iss.Kind == ZeroAreaFace {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a zeroAreaFace issue, got %+v", report.Issues)
	}
}
