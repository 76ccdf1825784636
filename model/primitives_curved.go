package model

import (
	"fmt"
	"math"

	"github.com/solidtype/kernel/geom"
	"github.com/solidtype/kernel/topo"
	v2 "github.com/solidtype/kernel/vec/v2"
	v3 "github.com/solidtype/kernel/vec/v3"
)

// CreateSphere builds a sphere of the given radius centered at center, as
// a single analytic spherical face with a seam meridian and two pole
// vertices (spec §4.5 "Primitives", §3 "Surfaces").
func CreateSphere(store *topo.Store, radius float64, center v3.Vec) (PrimitiveResult, error) {
	if radius <= 0 {
		return PrimitiveResult{}, fmt.Errorf("model: sphere radius must be positive")
	}
	axis := v3.Vec{X: 0, Y: 0, Z: 1}
	xDir := v3.Vec{X: 1, Y: 0, Z: 0}
	surf := geom.Sphere{Center: center, Radius: radius, Axis: axis, XDir: xDir}

	north := store.AddVertex(surf.Eval(0, 0))
	south := store.AddVertex(surf.Eval(math.Pi, 0))

	meridian := geom.Circle3D{Center: center, Radius: radius, Normal: xDir.Cross(axis).Normalize(), UDir: axis}
	seamDown := geom.SubCurve3{Base: meridian, T0: 0, T1: 0.5}
	seamUp := geom.SubCurve3{Base: meridian, T0: 0.5, T1: 1}

	edgeDown := store.AddEdge(seamDown)
	hDown := store.AddHalfEdge(north, edgeDown)
	store.SetEdgeHalfEdge(edgeDown, 0, hDown)

	edgeUp := store.AddEdge(seamUp)
	hUp := store.AddHalfEdge(south, edgeUp)
	store.SetEdgeHalfEdge(edgeUp, 0, hUp)

	loop := wireLoop(store, []topo.HalfEdgeId{hDown, hUp})
	store.SetHalfEdgePCurve(hDown, geom.Line2D{P0: v2.Vec{X: 0, Y: 0}, P1: v2.Vec{X: math.Pi, Y: 0}})
	store.SetHalfEdgePCurve(hUp, geom.Line2D{P0: v2.Vec{X: math.Pi, Y: math.Pi}, P1: v2.Vec{X: 0, Y: math.Pi}})

	face := store.AddFace(surf, loop)
	shell := store.AddShell([]topo.FaceId{face}, true)
	body := store.AddBody([]topo.ShellId{shell})
	return PrimitiveResult{Body: body, Faces: map[string]topo.FaceId{"sphere.surface": face}}, nil
}

// CreateCone builds a finite right circular cone of the given height,
// base radius, and half-angle derived from height/radius, with its apex
// on the +Z axis above a circular base at z=0 (spec §4.5 "Primitives").
func CreateCone(store *topo.Store, height, baseRadius float64) (PrimitiveResult, error) {
	if height <= 0 || baseRadius <= 0 {
		return PrimitiveResult{}, fmt.Errorf("model: cone height/radius must be positive")
	}
	halfAngle := math.Atan2(baseRadius, height)
	apex := v3.Vec{Z: height}
	axis := v3.Vec{X: 0, Y: 0, Z: -1}
	surf := geom.Cone{Apex: apex, Axis: axis, HalfAngle: halfAngle, XDir: v3.Vec{X: 1}}

	apexVert := store.AddVertex(apex)
	baseCircle := geom.Circle3D{Center: v3.Vec{}, Radius: baseRadius, Normal: v3.Vec{X: 0, Y: 0, Z: -1}, UDir: v3.Vec{X: 1}}
	baseVert := store.AddVertex(baseCircle.Eval(0))

	seamEdge := store.AddEdge(geom.Line3D{P0: apex, P1: baseCircle.Eval(0)})
	hSeamDown := store.AddHalfEdge(apexVert, seamEdge)
	hSeamUp := store.AddHalfEdge(baseVert, seamEdge)
	store.SetEdgeHalfEdge(seamEdge, 0, hSeamDown)
	store.SetEdgeHalfEdge(seamEdge, 1, hSeamUp)
	store.SetHalfEdgeTwin(hSeamDown, hSeamUp)

	baseRimEdge := store.AddEdge(baseCircle)
	hBaseRim := store.AddHalfEdge(baseVert, baseRimEdge)
	store.SetEdgeHalfEdge(baseRimEdge, 0, hBaseRim)

	sideLoop := wireLoop(store, []topo.HalfEdgeId{hSeamDown, hBaseRim, hSeamUp})
	slantLen := math.Hypot(height, baseRadius)
	store.SetHalfEdgePCurve(hSeamDown, geom.Line2D{P0: v2.Vec{X: 0, Y: 0}, P1: v2.Vec{X: slantLen, Y: 0}})
	store.SetHalfEdgePCurve(hBaseRim, geom.Line2D{P0: v2.Vec{X: slantLen, Y: 0}, P1: v2.Vec{X: slantLen, Y: 2 * math.Pi}})
	store.SetHalfEdgePCurve(hSeamUp, geom.Line2D{P0: v2.Vec{X: slantLen, Y: 2 * math.Pi}, P1: v2.Vec{X: 0, Y: 2 * math.Pi}})
	sideFace := store.AddFace(surf, sideLoop)

	hBaseCap := store.AddHalfEdge(baseVert, store.AddEdge(baseCircle))
	store.SetHalfEdgeNext(hBaseCap, hBaseCap)
	baseLoop := store.AddLoop(hBaseCap)
	store.SetHalfEdgeLoop(hBaseCap, baseLoop)
	basePlane := geom.NewPlane(v3.Vec{}, v3.Vec{X: 0, Y: 0, Z: -1}, v3.Vec{X: 1})
	baseFace := store.AddFace(basePlane, baseLoop)
	store.SetFaceReversed(baseFace, true)

	shell := store.AddShell([]topo.FaceId{sideFace, baseFace}, true)
	body := store.AddBody([]topo.ShellId{shell})
	return PrimitiveResult{Body: body, Faces: map[string]topo.FaceId{
		"cone.side": sideFace, "cone.base": baseFace,
	}}, nil
}

// CreateTorus builds a torus of the given major and minor radii, centered
// at center on the Z axis (spec §4.5 "Primitives").
func CreateTorus(store *topo.Store, majorRadius, minorRadius float64, center v3.Vec) (PrimitiveResult, error) {
	if majorRadius <= 0 || minorRadius <= 0 || minorRadius >= majorRadius {
		return PrimitiveResult{}, fmt.Errorf("model: torus requires 0 < minorRadius < majorRadius")
	}
	axis := v3.Vec{X: 0, Y: 0, Z: 1}
	surf := geom.Torus{Center: center, Axis: axis, MajorRadius: majorRadius, MinorRadius: minorRadius, XDir: v3.Vec{X: 1}}

	seamVert := store.AddVertex(surf.Eval(0, 0))
	// The tube circle at u=0 lies in the plane spanned by the radial
	// direction (+X at u=0) and the torus axis, matching the surface's
	// own (u,v) basis so the seam edge coincides with the v=0 meridian.
	tubeCircle := geom.Circle3D{
		Center: center.Add(v3.Vec{X: majorRadius}),
		Radius: minorRadius,
		Normal: v3.Vec{Y: -1},
		UDir:   v3.Vec{X: 1},
	}
	uSeamEdge := store.AddEdge(tubeCircle)
	hUSeam := store.AddHalfEdge(seamVert, uSeamEdge)
	store.SetEdgeHalfEdge(uSeamEdge, 0, hUSeam)
	store.SetHalfEdgeNext(hUSeam, hUSeam)
	loop := store.AddLoop(hUSeam)
	store.SetHalfEdgeLoop(hUSeam, loop)
	store.SetHalfEdgePCurve(hUSeam, geom.Line2D{P0: v2.Vec{X: 0, Y: 0}, P1: v2.Vec{X: 2 * math.Pi, Y: 2 * math.Pi}})

	face := store.AddFace(surf, loop)
	shell := store.AddShell([]topo.FaceId{face}, true)
	body := store.AddBody([]topo.ShellId{shell})
	return PrimitiveResult{Body: body, Faces: map[string]topo.FaceId{"torus.surface": face}}, nil
}
