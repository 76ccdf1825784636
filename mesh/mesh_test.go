package mesh

import (
	"bytes"
	"testing"

	"github.com/solidtype/kernel/model"
	"github.com/solidtype/kernel/numeric"
	"github.com/solidtype/kernel/topo"
	v2 "github.com/solidtype/kernel/vec/v2"
	v3 "github.com/solidtype/kernel/vec/v3"
)

// TestTessellateUnitCubeScenario covers spec scenario A: a unit cube
// tessellates into 6 faces of 2 triangles each. The mesh is a flat-shaded
// triangle soup, so every triangle carries its own copy of its three
// corners (12 triangles * 3 = 36 vertex copies) over the cube's 8 distinct
// corner positions; see DESIGN.md.
func TestTessellateUnitCubeScenario(t *testing.T) {
	store := topo.NewStore()
	res, err := model.CreateBox(store, 1, 1, 1, v3.Vec{})
	if err != nil {
		t.Fatalf("CreateBox: %v", err)
	}

	ctx := numeric.DefaultContext()
	mesh, _, err := TessellateBody(store, ctx, res.Body)
	if err != nil {
		t.Fatalf("TessellateBody: %v", err)
	}

	if len(mesh.Triangles) != 12 {
		t.Fatalf("expected 12 triangles, got %d", len(mesh.Triangles))
	}

	nVerts := 0
	nIndices := 0
	for _, tri := range mesh.Triangles {
		nVerts += 3
		nIndices += 3
		if tri.Normal.Length2() < 0.99 || tri.Normal.Length2() > 1.01 {
			t.Fatalf("triangle normal not unit length: %+v", tri.Normal)
		}
	}
	if nVerts != 36 || nIndices != 36 {
		t.Fatalf("expected 36 flat-shaded vertex copies, got %d", nVerts)
	}

	distinct := map[v3.Vec]bool{}
	for _, tri := range mesh.Triangles {
		distinct[tri.V0] = true
		distinct[tri.V1] = true
		distinct[tri.V2] = true
	}
	if len(distinct) != 8 {
		t.Fatalf("expected 8 distinct corner positions, got %d", len(distinct))
	}
}

// TestBinarySTLSizeScenario covers spec scenario F: the unit cube's
// binary STL export is exactly 684 bytes (80-byte header + 4-byte count +
// 12 * 50-byte triangle records).
func TestBinarySTLSizeScenario(t *testing.T) {
	store := topo.NewStore()
	res, err := model.CreateBox(store, 1, 1, 1, v3.Vec{})
	if err != nil {
		t.Fatalf("CreateBox: %v", err)
	}
	ctx := numeric.DefaultContext()
	mesh, _, err := TessellateBody(store, ctx, res.Body)
	if err != nil {
		t.Fatalf("TessellateBody: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteBinarySTL(&buf, mesh, ""); err != nil {
		t.Fatalf("WriteBinarySTL: %v", err)
	}
	if buf.Len() != 684 {
		t.Fatalf("expected 684 bytes, got %d", buf.Len())
	}
	if got := BinarySTLSize(len(mesh.Triangles)); got != 684 {
		t.Fatalf("BinarySTLSize mismatch: %d", got)
	}
}

func TestEarClipSquare(t *testing.T) {
	ctx := numeric.DefaultContext()
	square := []v2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	tris, verts, err := EarClip(ctx, square, nil)
	if err != nil {
		t.Fatalf("EarClip: %v", err)
	}
	if len(tris) != 2 {
		t.Fatalf("expected 2 triangles, got %d", len(tris))
	}
	if len(verts) != 4 {
		t.Fatalf("expected 4 verts, got %d", len(verts))
	}
}

func TestEarClipSquareWithHole(t *testing.T) {
	ctx := numeric.DefaultContext()
	outer := []v2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	hole := []v2.Vec{{X: 4, Y: 6}, {X: 4, Y: 4}, {X: 6, Y: 4}, {X: 6, Y: 6}}
	tris, _, err := EarClip(ctx, outer, [][]v2.Vec{hole})
	if err != nil {
		t.Fatalf("EarClip: %v", err)
	}
	if len(tris) != 8 {
		t.Fatalf("expected 8 triangles for a square with one square hole, got %d", len(tris))
	}
}

func TestEarClipRejectsDegenerate(t *testing.T) {
	ctx := numeric.DefaultContext()
	_, _, err := EarClip(ctx, []v2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}}, nil)
	if err == nil {
		t.Fatalf("expected error for a 2-point polygon")
	}
}

func TestTessellateCylinderCaps(t *testing.T) {
	store := topo.NewStore()
	res, err := model.CreateCylinder(store, 2, 1)
	if err != nil {
		t.Fatalf("CreateCylinder: %v", err)
	}
	ctx := numeric.DefaultContext()
	mesh, skipped, err := TessellateBody(store, ctx, res.Body)
	if err != nil {
		t.Fatalf("TessellateBody: %v", err)
	}
	if len(mesh.Triangles) == 0 {
		t.Fatalf("expected a non-empty mesh for a cylinder with single-vertex cap loops")
	}
	if len(skipped) != 1 {
		t.Fatalf("expected exactly 1 skipped curved face (the cylindrical side), got %d", len(skipped))
	}
	if skipped[0] != res.Faces["cylinder.side"] {
		t.Fatalf("expected the skipped face to be cylinder.side")
	}
}

func TestWriteASCIISTLRoundTripShape(t *testing.T) {
	store := topo.NewStore()
	res, err := model.CreateBox(store, 1, 1, 1, v3.Vec{})
	if err != nil {
		t.Fatalf("CreateBox: %v", err)
	}
	ctx := numeric.DefaultContext()
	mesh, _, err := TessellateBody(store, ctx, res.Body)
	if err != nil {
		t.Fatalf("TessellateBody: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteASCIISTL(&buf, mesh, "cube"); err != nil {
		t.Fatalf("WriteASCIISTL: %v", err)
	}
	s := buf.String()
	if !bytes.HasPrefix(buf.Bytes(), []byte("solid cube\n")) {
		t.Fatalf("missing solid header: %q", s[:20])
	}
	if !bytes.HasSuffix(buf.Bytes(), []byte("endsolid cube\n")) {
		t.Fatalf("missing endsolid trailer")
	}
}
