package model

import (
	"fmt"
	"math"

	"github.com/solidtype/kernel/geom"
	"github.com/solidtype/kernel/topo"
	v2 "github.com/solidtype/kernel/vec/v2"
	v3 "github.com/solidtype/kernel/vec/v3"
)

// ExtrudeDirection selects which way the extrusion vector points relative
// to the profile's host plane (spec §4.5 "Extrude").
type ExtrudeDirection int

const (
	// DirectionNormal extrudes along the plane's +normal.
	DirectionNormal ExtrudeDirection = iota
	// DirectionReverse extrudes along the plane's -normal.
	DirectionReverse
	// DirectionSymmetric extrudes distance/2 on each side of the plane.
	DirectionSymmetric
)

// ExtrudeOptions configures an extrude feature (spec §4.5 "Extrude").
type ExtrudeOptions struct {
	Distance  float64
	Direction ExtrudeDirection
}

// ExtrudeResult mirrors PrimitiveResult with extrude-specific naming
// selectors (spec §4.5 "Register naming records").
type ExtrudeResult struct {
	Body  topo.BodyId
	Faces map[string]topo.FaceId
}

// map2Dto3DOnPlane lifts a 2D profile curve into a 3D curve lying on the
// given plane, offset by the given translation.
func map2Dto3DOnPlane(plane DatumPlane, c geom.Curve2, offset v3.Vec) geom.Curve3 {
	switch v := c.(type) {
	case geom.Line2D:
		return geom.Line3D{
			P0: plane.PlaneToWorld(v.P0.X, v.P0.Y).Add(offset),
			P1: plane.PlaneToWorld(v.P1.X, v.P1.Y).Add(offset),
		}
	case geom.Arc2D:
		center3D := plane.PlaneToWorld(v.Center.X, v.Center.Y).Add(offset)
		circle := geom.Circle3D{Center: center3D, Radius: v.Radius, Normal: plane.Normal, UDir: plane.XDir}
		t0 := v.StartAngle / (2 * math.Pi)
		if v.CCW {
			return geom.SubCurve3{Base: circle, T0: t0, T1: t0 + sweepFrac(v)}
		}
		return geom.SubCurve3{Base: circle, T0: t0, T1: t0 - sweepFrac(v)}
	default:
		return geom.Line3D{P0: plane.PlaneToWorld(c.Eval(0).X, c.Eval(0).Y).Add(offset), P1: plane.PlaneToWorld(c.Eval(1).X, c.Eval(1).Y).Add(offset)}
	}
}

func sweepFrac(a geom.Arc2D) float64 {
	d := a.EndAngle - a.StartAngle
	if !a.CCW {
		d = a.StartAngle - a.EndAngle
	}
	const twoPi = 2 * math.Pi
	for d < 0 {
		d += twoPi
	}
	return d / twoPi
}

// rotate90CW rotates a 2D vector -90 degrees (clockwise), used to derive
// the outward in-plane normal from an edge's travel direction: for a CCW
// loop this points away from the loop's interior; the same formula self
// corrects for CW (hole) loops (spec §4.5 "winding CCW outward").
func rotate90CW(t v2.Vec) v2.Vec { return v2.Vec{X: t.Y, Y: -t.X} }

type extrudeBuild struct {
	store *topo.Store
	vc    *vertexCache
	eb    *edgeBuilder
	plane DatumPlane
}

// buildLoopRing computes, for one profile loop, the bottom and top vertex
// handles (sharing positions across adjacent loops/faces via vc) and
// builds every side face for that loop's curves.
func (xb *extrudeBuild) buildLoopRing(loop ProfileLoop, bottomOffset, extrusionVec v3.Vec, selectorPrefix string, faces map[string]topo.FaceId) ([]topo.VertexId, []topo.VertexId, error) {
	n := len(loop.Curves)
	if n == 0 {
		return nil, nil, fmt.Errorf("model: extrude loop has no curves")
	}
	uvStarts := make([]v2.Vec, n)
	for i, c := range loop.Curves {
		uvStarts[i] = c.Eval(0)
	}
	vb := make([]topo.VertexId, n)
	vt := make([]topo.VertexId, n)
	for i, p := range uvStarts {
		bottom3D := xb.plane.PlaneToWorld(p.X, p.Y).Add(bottomOffset)
		vb[i] = xb.vc.get(bottom3D)
		vt[i] = xb.vc.get(bottom3D.Add(extrusionVec))
	}

	for i, c := range loop.Curves {
		j := (i + 1) % n
		bottomCurve := map2Dto3DOnPlane(xb.plane, c, bottomOffset)
		topCurve := geom.TranslatedCurve3{Base: bottomCurve, Offset: extrusionVec}

		hBottom := xb.eb.halfEdge(vb[i], vb[j], bottomCurve)
		hVertJ := xb.eb.halfEdge(vb[j], vt[j], geom.Line3D{P0: xb.store.GetVertexPosition(vb[j]), P1: xb.store.GetVertexPosition(vt[j])})
		hTopRev := xb.eb.halfEdge(vt[j], vt[i], reverseCurve3(topCurve))
		hVertI := xb.eb.halfEdge(vt[i], vb[i], geom.Line3D{P0: xb.store.GetVertexPosition(vt[i]), P1: xb.store.GetVertexPosition(vb[i])})

		loopId := wireLoop(xb.store, []topo.HalfEdgeId{hBottom, hVertJ, hTopRev, hVertI})

		var surf geom.Surface
		mid := c.Eval(0.5)
		tangent2D := c.Tangent(0.5)
		outward2D := rotate90CW(tangent2D)
		outward3D := xb.plane.XDir.MulScalar(outward2D.X).Add(xb.plane.YDir.MulScalar(outward2D.Y)).Normalize()
		switch v := c.(type) {
		case geom.Arc2D:
			center3D := xb.plane.PlaneToWorld(v.Center.X, v.Center.Y).Add(bottomOffset)
			cyl := geom.Cylinder{Origin: center3D, Axis: extrusionVec.Normalize(), Radius: v.Radius, XDir: xb.plane.XDir}
			surf = cyl
		default:
			edgeDir := xb.plane.XDir.MulScalar(c.Tangent(0).X).Add(xb.plane.YDir.MulScalar(c.Tangent(0).Y))
			midWorld := xb.plane.PlaneToWorld(mid.X, mid.Y).Add(bottomOffset)
			surf = geom.NewPlane(midWorld, outward3D, edgeDir)
		}

		face := xb.store.AddFace(surf, loopId)
		sampleNormal := surf.NormalAt(surf.Inverse(xb.store.GetVertexPosition(vb[i])))
		if sampleNormal.Dot(outward3D) < 0 {
			xb.store.SetFaceReversed(face, true)
		}
		attachRuledPCurves(xb.store, surf, []topo.HalfEdgeId{hBottom, hVertJ, hTopRev, hVertI},
			[]v3.Vec{
				xb.store.GetVertexPosition(vb[i]), xb.store.GetVertexPosition(vb[j]),
				xb.store.GetVertexPosition(vb[j]), xb.store.GetVertexPosition(vt[j]),
				xb.store.GetVertexPosition(vt[j]), xb.store.GetVertexPosition(vt[i]),
				xb.store.GetVertexPosition(vt[i]), xb.store.GetVertexPosition(vb[i]),
			})
		faces[fmt.Sprintf("%s.side(profileEdge=%d)", selectorPrefix, i)] = face
	}
	return vb, vt, nil
}

func reverseCurve3(c geom.Curve3) geom.Curve3 {
	switch v := c.(type) {
	case geom.Line3D:
		return geom.Line3D{P0: v.P1, P1: v.P0}
	case geom.TranslatedCurve3:
		return geom.TranslatedCurve3{Base: reverseCurve3(v.Base), Offset: v.Offset}
	case geom.SubCurve3:
		return geom.SubCurve3{Base: v.Base, T0: v.T1, T1: v.T0}
	default:
		return c
	}
}

// attachRuledPCurves attaches straight p-curve segments between the
// surface-space images of each half-edge's endpoints, computed via the
// surface's own Inverse (exact for planes; a ruled approximation for
// cylindrical side faces, matching how the cylinder primitive's side loop
// is p-curved).
func attachRuledPCurves(store *topo.Store, surf geom.Surface, hes []topo.HalfEdgeId, endpoints []v3.Vec) {
	for i, h := range hes {
		u0, v0 := surf.Inverse(endpoints[2*i])
		u1, v1 := surf.Inverse(endpoints[2*i+1])
		store.SetHalfEdgePCurve(h, geom.Line2D{P0: v2.Vec{X: u0, Y: v0}, P1: v2.Vec{X: u1, Y: v1}})
	}
}

// buildCap builds one end cap (bottom or top) of an extrusion from the
// profile's loops. forward selects the profile's own curve order (used
// for the top cap); the bottom cap passes forward=false so its loops
// traverse in the opposite sense, giving the solid a consistent boundary.
func (xb *extrudeBuild) buildCap(profile Profile, rings [][2][]topo.VertexId, ringIndex int, offset v3.Vec, forward bool, desiredOutward v3.Vec, selectorPrefix string) topo.FaceId {
	capOrigin := xb.plane.PlaneToWorld(0, 0).Add(offset)
	plane := geom.Plane{Origin: capOrigin, Normal: xb.plane.Normal, XDir: xb.plane.XDir, YDir: xb.plane.YDir}

	var outerLoop topo.LoopId
	var innerLoops []topo.LoopId
	for li := range profile.Loops {
		var verts []topo.VertexId
		if forward {
			verts = append(verts, rings[li][ringIndex]...)
		} else {
			n := len(rings[li][ringIndex])
			for k := 0; k < n; k++ {
				verts = append(verts, rings[li][ringIndex][(n-k)%n])
			}
		}
		n := len(verts)
		hes := make([]topo.HalfEdgeId, n)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			fallback := geom.Line3D{P0: xb.store.GetVertexPosition(verts[i]), P1: xb.store.GetVertexPosition(verts[j])}
			hes[i] = xb.eb.halfEdge(verts[i], verts[j], fallback)
		}
		loopId := wireLoop(xb.store, hes)
		if li == 0 {
			outerLoop = loopId
		} else {
			innerLoops = append(innerLoops, loopId)
		}
	}

	face := xb.store.AddFace(plane, outerLoop)
	for _, il := range innerLoops {
		xb.store.AddInnerLoop(face, il)
	}
	if plane.Normal.Dot(desiredOutward) < 0 {
		xb.store.SetFaceReversed(face, true)
	}
	return face
}

// Extrude builds an extruded solid from a profile (spec §4.5 "Extrude").
func Extrude(store *topo.Store, profile Profile, opts ExtrudeOptions) (ExtrudeResult, error) {
	if opts.Distance <= 0 {
		return ExtrudeResult{}, fmt.Errorf("model: extrude distance must be positive")
	}
	if len(profile.Loops) == 0 {
		return ExtrudeResult{}, fmt.Errorf("model: extrude requires a non-empty profile")
	}

	var bottomOffset, extrusionVec v3.Vec
	switch opts.Direction {
	case DirectionNormal:
		extrusionVec = profile.Plane.Normal.MulScalar(opts.Distance)
	case DirectionReverse:
		extrusionVec = profile.Plane.Normal.MulScalar(-opts.Distance)
	case DirectionSymmetric:
		bottomOffset = profile.Plane.Normal.MulScalar(-opts.Distance / 2)
		extrusionVec = profile.Plane.Normal.MulScalar(opts.Distance)
	default:
		return ExtrudeResult{}, fmt.Errorf("model: unknown extrude direction %v", opts.Direction)
	}

	xb := &extrudeBuild{store: store, vc: newVertexCache(store), eb: newEdgeBuilder(store), plane: profile.Plane}
	faces := make(map[string]topo.FaceId)
	rings := make([][2][]topo.VertexId, len(profile.Loops))
	for li, loop := range profile.Loops {
		vb, vt, err := xb.buildLoopRing(loop, bottomOffset, extrusionVec, "extrude", faces)
		if err != nil {
			return ExtrudeResult{}, err
		}
		rings[li] = [2][]topo.VertexId{vb, vt}
	}

	bottomFace := xb.buildCap(profile, rings, 0, bottomOffset, false, extrusionVec.MulScalar(-1), "extrude.bottomCap")
	faces["extrude.bottomCap"] = bottomFace
	topFace := xb.buildCap(profile, rings, 1, bottomOffset.Add(extrusionVec), true, extrusionVec, "extrude.topCap")
	faces["extrude.topCap"] = topFace

	if unpaired := xb.eb.unpairedHalfEdges(); len(unpaired) > 0 {
		return ExtrudeResult{}, fmt.Errorf("model: extrude left %d unpaired half-edges", len(unpaired))
	}

	var allFaces []topo.FaceId
	for _, f := range faces {
		allFaces = append(allFaces, f)
	}
	shell := store.AddShell(allFaces, true)
	body := store.AddBody([]topo.ShellId{shell})
	return ExtrudeResult{Body: body, Faces: faces}, nil
}
