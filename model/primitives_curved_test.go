package model

import (
	"testing"

	"github.com/solidtype/kernel/topo"
	v3 "github.com/solidtype/kernel/vec/v3"
)

func TestCreateSphereTopology(t *testing.T) {
	store := topo.NewStore()
	res, err := CreateSphere(store, 2.0, v3.Vec{})
	if err != nil {
		t.Fatalf("CreateSphere: %v", err)
	}
	if _, ok := res.Faces["sphere.surface"]; !ok {
		t.Fatalf("expected sphere.surface face")
	}
	stats := store.ComputeStats()
	if stats.Bodies != 1 || stats.Shells != 1 || stats.Faces != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Vertices != 2 {
		t.Fatalf("expected 2 pole vertices, got %d", stats.Vertices)
	}
}

func TestCreateSphereRejectsNonPositiveRadius(t *testing.T) {
	store := topo.NewStore()
	if _, err := CreateSphere(store, 0, v3.Vec{}); err == nil {
		t.Fatalf("expected error for zero radius")
	}
}

func TestCreateConeTopology(t *testing.T) {
	store := topo.NewStore()
	res, err := CreateCone(store, 3.0, 1.5)
	if err != nil {
		t.Fatalf("CreateCone: %v", err)
	}
	if _, ok := res.Faces["cone.side"]; !ok {
		t.Fatalf("expected cone.side face")
	}
	if _, ok := res.Faces["cone.base"]; !ok {
		t.Fatalf("expected cone.base face")
	}
	stats := store.ComputeStats()
	if stats.Faces != 2 {
		t.Fatalf("expected 2 faces, got %d", stats.Faces)
	}
	if stats.Bodies != 1 || stats.Shells != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestCreateTorusTopology(t *testing.T) {
	store := topo.NewStore()
	res, err := CreateTorus(store, 4.0, 1.0, v3.Vec{})
	if err != nil {
		t.Fatalf("CreateTorus: %v", err)
	}
	if _, ok := res.Faces["torus.surface"]; !ok {
		t.Fatalf("expected torus.surface face")
	}
	stats := store.ComputeStats()
	if stats.Faces != 1 || stats.Vertices != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestCreateTorusRejectsDegenerateRadii(t *testing.T) {
	store := topo.NewStore()
	if _, err := CreateTorus(store, 1.0, 1.0, v3.Vec{}); err == nil {
		t.Fatalf("expected error when minorRadius >= majorRadius")
	}
}
