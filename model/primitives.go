package model

import (
	"fmt"
	"math"

	"github.com/solidtype/kernel/geom"
	"github.com/solidtype/kernel/numeric"
	"github.com/solidtype/kernel/topo"
	v3 "github.com/solidtype/kernel/vec/v3"
)

// vertexCache deduplicates vertex positions within a single primitive or
// feature build (spec §3 "Integer grid" identity: two points are exactly
// equal iff their snapped integer triples are identical).
type vertexCache struct {
	store *topo.Store
	byPos map[numeric.Point3I]topo.VertexId
}

func newVertexCache(store *topo.Store) *vertexCache {
	return &vertexCache{store: store, byPos: make(map[numeric.Point3I]topo.VertexId)}
}

func (vc *vertexCache) get(p v3.Vec) topo.VertexId {
	key := numeric.Snap3(p)
	if id, ok := vc.byPos[key]; ok {
		return id
	}
	id := vc.store.AddVertex(p)
	vc.byPos[key] = id
	return id
}

// PrimitiveResult is the output of a primitive constructor: the new body
// plus a local-selector -> face map that the naming layer records
// per-feature (spec §4.5 "register a naming record per face using a
// primitive-face selector").
type PrimitiveResult struct {
	Body  topo.BodyId
	Faces map[string]topo.FaceId
}

// rectFaceSpec describes one planar rectangular face of a box in terms of
// its center and an (u,v) in-plane orthonormal basis whose cross product
// u x v is the outward normal.
type rectFaceSpec struct {
	selector   string
	center     v3.Vec
	u, v       v3.Vec
	halfU, halfV float64
}

func buildRectFace(store *topo.Store, vc *vertexCache, eb *edgeBuilder, spec rectFaceSpec) topo.FaceId {
	corners := [4]v3.Vec{
		spec.center.Sub(spec.u.MulScalar(spec.halfU)).Sub(spec.v.MulScalar(spec.halfV)),
		spec.center.Add(spec.u.MulScalar(spec.halfU)).Sub(spec.v.MulScalar(spec.halfV)),
		spec.center.Add(spec.u.MulScalar(spec.halfU)).Add(spec.v.MulScalar(spec.halfV)),
		spec.center.Sub(spec.u.MulScalar(spec.halfU)).Add(spec.v.MulScalar(spec.halfV)),
	}
	verts := [4]topo.VertexId{}
	for i, c := range corners {
		verts[i] = vc.get(c)
	}
	hes := make([]topo.HalfEdgeId, 4)
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		hes[i] = eb.halfEdge(verts[i], verts[j], geom.Line3D{P0: corners[i], P1: corners[j]})
	}
	loop := wireLoop(store, hes)
	normal := spec.u.Cross(spec.v).Normalize()
	plane := geom.NewPlane(spec.center, normal, spec.u)
	return store.AddFace(plane, loop)
}

// CreateBox builds a rectangular box of the given width (X), depth (Y),
// and height (Z), centered at center (spec §4.5 "Primitives",
// spec §8 scenario A).
func CreateBox(store *topo.Store, width, depth, height float64, center v3.Vec) (PrimitiveResult, error) {
	if width <= 0 || depth <= 0 || height <= 0 {
		return PrimitiveResult{}, fmt.Errorf("model: box dimensions must be positive, got %g x %g x %g", width, depth, height)
	}
	hw, hd, hh := width/2, depth/2, height/2
	x := v3.Vec{X: 1, Y: 0, Z: 0}
	y := v3.Vec{X: 0, Y: 1, Z: 0}
	z := v3.Vec{X: 0, Y: 0, Z: 1}

	specs := []rectFaceSpec{
		{"box.facePosX", center.Add(v3.Vec{X: hw}), y, z, hd, hh},
		{"box.faceNegX", center.Sub(v3.Vec{X: hw}), z, y, hh, hd},
		{"box.facePosY", center.Add(v3.Vec{Y: hd}), z, x, hh, hw},
		{"box.faceNegY", center.Sub(v3.Vec{Y: hd}), x, z, hw, hh},
		{"box.facePosZ", center.Add(v3.Vec{Z: hh}), x, y, hw, hd},
		{"box.faceNegZ", center.Sub(v3.Vec{Z: hh}), y, x, hd, hw},
	}

	vc := newVertexCache(store)
	eb := newEdgeBuilder(store)
	faces := make(map[string]topo.FaceId, len(specs))
	var faceIds []topo.FaceId
	for _, spec := range specs {
		f := buildRectFace(store, vc, eb, spec)
		faces[spec.selector] = f
		faceIds = append(faceIds, f)
	}
	if len(eb.unpairedHalfEdges()) > 0 {
		return PrimitiveResult{}, fmt.Errorf("model: box construction left %d unpaired half-edges", len(eb.unpairedHalfEdges()))
	}

	shell := store.AddShell(faceIds, true)
	body := store.AddBody([]topo.ShellId{shell})
	return PrimitiveResult{Body: body, Faces: faces}, nil
}

// CreateCylinder builds a right circular cylinder of the given height and
// radius, centered on the Z axis with its base at z=0 (spec §4.5).
// The side is a single analytic cylindrical face; the function takes no
// facet-count parameter.
func CreateCylinder(store *topo.Store, height, radius float64) (PrimitiveResult, error) {
	if height <= 0 || radius <= 0 {
		return PrimitiveResult{}, fmt.Errorf("model: cylinder height/radius must be positive")
	}
	vc := newVertexCache(store)

	axisZ := v3.Vec{X: 0, Y: 0, Z: 1}
	bottomCenter := v3.Vec{}
	topCenter := v3.Vec{Z: height}

	bottomCircle := geom.Circle3D{Center: bottomCenter, Radius: radius, Normal: axisZ.MulScalar(-1)}
	topCircle := geom.Circle3D{Center: topCenter, Radius: radius, Normal: axisZ}

	bottomVert := vc.get(bottomCircle.Eval(0))
	topVert := vc.get(topCircle.Eval(0))

	// Side face: cylindrical surface bounded by a single seam edge run
	// bottom->top, traversed twice (there and back) to close the loop,
	// matching how a single-seam analytic side is represented in BREP.
	seamEdge := store.AddEdge(geom.Line3D{P0: bottomCircle.Eval(0), P1: topCircle.Eval(0)})
	hSeamUp := store.AddHalfEdge(bottomVert, seamEdge)
	hSeamDown := store.AddHalfEdge(topVert, seamEdge)
	store.SetEdgeHalfEdge(seamEdge, 0, hSeamUp)
	store.SetEdgeHalfEdge(seamEdge, 1, hSeamDown)
	store.SetHalfEdgeTwin(hSeamUp, hSeamDown)

	bottomRimEdge := store.AddEdge(bottomCircle)
	hBottomRim := store.AddHalfEdge(bottomVert, bottomRimEdge)
	store.SetEdgeHalfEdge(bottomRimEdge, 0, hBottomRim)

	topRimEdge := store.AddEdge(topCircle)
	hTopRim := store.AddHalfEdge(topVert, topRimEdge)
	store.SetEdgeHalfEdge(topRimEdge, 0, hTopRim)

	sideLoop := wireLoop(store, []topo.HalfEdgeId{hSeamUp, hTopRim, hSeamDown, hBottomRim})
	cylSurf := geom.Cylinder{Origin: bottomCenter, Axis: axisZ, Radius: radius}
	sideFace := store.AddFace(cylSurf, sideLoop)
	attachCylinderPCurves(store, cylSurf, hSeamUp, hTopRim, hSeamDown, hBottomRim, height)

	// Bottom cap: single circular loop, reversed (seen from below, normal
	// -Z) so the half-edge direction matches the cap's own outward plane.
	hBottomCap := store.AddHalfEdge(bottomVert, store.AddEdge(geom.Circle3D{Center: bottomCenter, Radius: radius, Normal: axisZ.MulScalar(-1)}))
	store.SetHalfEdgeNext(hBottomCap, hBottomCap)
	bottomLoop := store.AddLoop(hBottomCap)
	store.SetHalfEdgeLoop(hBottomCap, bottomLoop)
	bottomPlane := geom.NewPlane(bottomCenter, axisZ.MulScalar(-1), v3.Vec{X: 1})
	bottomFace := store.AddFace(bottomPlane, bottomLoop)
	store.SetFaceReversed(bottomFace, true)

	hTopCap := store.AddHalfEdge(topVert, store.AddEdge(geom.Circle3D{Center: topCenter, Radius: radius, Normal: axisZ}))
	store.SetHalfEdgeNext(hTopCap, hTopCap)
	topLoop := store.AddLoop(hTopCap)
	store.SetHalfEdgeLoop(hTopCap, topLoop)
	topPlane := geom.NewPlane(topCenter, axisZ, v3.Vec{X: 1})
	topFace := store.AddFace(topPlane, topLoop)

	faces := map[string]topo.FaceId{
		"cylinder.side":   sideFace,
		"cylinder.bottom": bottomFace,
		"cylinder.top":    topFace,
	}
	shell := store.AddShell([]topo.FaceId{sideFace, bottomFace, topFace}, true)
	body := store.AddBody([]topo.ShellId{shell})
	return PrimitiveResult{Body: body, Faces: faces}, nil
}

// attachCylinderPCurves attaches p-curves in the cylinder surface's
// (u,v)=(axial,angle) space for the side loop's four half-edges.
func attachCylinderPCurves(store *topo.Store, surf geom.Cylinder, hUp, hTopRim, hDown, hBottomRim topo.HalfEdgeId, height float64) {
	store.SetHalfEdgePCurve(hUp, geom.Line2D{P0: v2XY(0, 0), P1: v2XY(height, 0)})
	store.SetHalfEdgePCurve(hTopRim, geom.Line2D{P0: v2XY(height, 0), P1: v2XY(height, 2*math.Pi)})
	store.SetHalfEdgePCurve(hDown, geom.Line2D{P0: v2XY(height, 2*math.Pi), P1: v2XY(0, 2*math.Pi)})
	store.SetHalfEdgePCurve(hBottomRim, geom.Line2D{P0: v2XY(0, 2*math.Pi), P1: v2XY(0, 0)})
}
