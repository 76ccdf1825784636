package model

import (
	"fmt"
	"math"

	"github.com/solidtype/kernel/geom"
	"github.com/solidtype/kernel/numeric"
	"github.com/solidtype/kernel/topo"
	v3 "github.com/solidtype/kernel/vec/v3"
)

// RevolveAxis is a 3D line about which a profile is swept (spec §4.5
// "Revolve").
type RevolveAxis struct {
	Origin, Direction v3.Vec
}

// RevolveOptions configures a revolve feature (spec §4.5 "Revolve").
type RevolveOptions struct {
	Axis     RevolveAxis
	Angle    float64 // radians; 0 means a full 2*pi turn
	Segments int     // 0 means adaptive
}

// RevolveResult mirrors ExtrudeResult with revolve-specific selectors.
type RevolveResult struct {
	Body  topo.BodyId
	Faces map[string]topo.FaceId
}

const fullTurnTol = 1e-9

func (o RevolveOptions) resolvedAngle() float64 {
	if o.Angle == 0 {
		return 2 * math.Pi
	}
	return o.Angle
}

func (o RevolveOptions) resolvedSegments() int {
	angle := math.Abs(o.resolvedAngle())
	if o.Segments > 0 {
		return o.Segments
	}
	n := int(math.Ceil(angle / (math.Pi / 12)))
	if angle >= 2*math.Pi-fullTurnTol && n < 8 {
		n = 8
	}
	if n < 1 {
		n = 1
	}
	return n
}

// distanceToAxis returns a point's perpendicular distance to the axis
// line, and its signed coordinate along the axis direction.
func distanceToAxis(axis RevolveAxis, p v3.Vec) (dist, axial float64) {
	dir := axis.Direction.Normalize()
	d := p.Sub(axis.Origin)
	axial = d.Dot(dir)
	radial := d.Sub(dir.MulScalar(axial))
	return radial.Length(), axial
}

func rotateAroundAxis(axis RevolveAxis, p v3.Vec, angle float64) v3.Vec {
	m := v3.RotateAxis(axis.Direction, angle)
	rel := p.Sub(axis.Origin)
	return axis.Origin.Add(m.MulVec(rel))
}

// Revolve sweeps a profile of straight edges about an axis (spec §4.5
// "Revolve"). Circular-arc profile edges are not supported: a true
// surface of revolution over an arc is a higher-order quartic patch, out
// of scope for the analytic surface set of spec §3.
func Revolve(store *topo.Store, ctx numeric.Context, profile Profile, opts RevolveOptions) (RevolveResult, error) {
	if opts.Axis.Direction.Length2() == 0 {
		return RevolveResult{}, fmt.Errorf("model: revolve axis direction must be non-zero")
	}
	angle := opts.resolvedAngle()
	if angle == 0 {
		return RevolveResult{}, fmt.Errorf("model: revolve angle must be non-zero")
	}
	segments := opts.resolvedSegments()
	fullTurn := math.Abs(angle) >= 2*math.Pi-fullTurnTol
	ringCount := segments + 1
	if fullTurn {
		ringCount = segments
	}

	for _, loop := range profile.Loops {
		for _, c := range loop.Curves {
			if _, ok := c.(geom.Line2D); !ok {
				return RevolveResult{}, fmt.Errorf("model: revolve only supports straight profile edges, got %T", c)
			}
		}
	}

	vc := newVertexCache(store)
	eb := newEdgeBuilder(store)
	faces := make(map[string]topo.FaceId)

	type ring struct {
		verts []topo.VertexId
	}

	for li, loop := range profile.Loops {
		n := len(loop.Curves)
		basePts := make([]v3.Vec, n)
		for i, c := range loop.Curves {
			uv := c.Eval(0)
			basePts[i] = profile.Plane.PlaneToWorld(uv.X, uv.Y)
			if dist, axial := distanceToAxis(opts.Axis, basePts[i]); dist < ctx.LengthTol {
				// snap exactly onto the axis so every ring dedups to one vertex
				basePts[i] = opts.Axis.Origin.Add(opts.Axis.Direction.Normalize().MulScalar(axial))
			}
		}

		rings := make([]ring, ringCount)
		for k := 0; k < ringCount; k++ {
			theta := angle * float64(k) / float64(segments)
			verts := make([]topo.VertexId, n)
			for i, p := range basePts {
				verts[i] = vc.get(rotateAroundAxis(opts.Axis, p, theta))
			}
			rings[k] = ring{verts: verts}
		}

		quadRingCount := ringCount
		if !fullTurn {
			quadRingCount = ringCount - 1
		}
		for k := 0; k < quadRingCount; k++ {
			k2 := (k + 1) % ringCount
			for i := 0; i < n; i++ {
				j := (i + 1) % n
				a := rings[k].verts[i]
				b := rings[k].verts[j]
				c := rings[k2].verts[j]
				d := rings[k2].verts[i]
				selector := fmt.Sprintf("revolve.loop%d.ring%d.edge%d", li, k, i)
				face, err := buildRevolveQuad(store, eb, opts.Axis, a, b, c, d, selector)
				if err != nil {
					return RevolveResult{}, err
				}
				faces[selector] = face
			}
		}

		if !fullTurn {
			startCapOrigin := profile.Plane.PlaneToWorld(0, 0)
			endCapOrigin := rotateAroundAxis(opts.Axis, startCapOrigin, angle)
			startPlane := geom.Plane{Origin: startCapOrigin, Normal: profile.Plane.Normal.MulScalar(-1), XDir: profile.Plane.XDir, YDir: profile.Plane.YDir.MulScalar(-1)}
			endNormalDir := v3.RotateAxis(opts.Axis.Direction, angle).MulDir(profile.Plane.Normal)
			endXDir := v3.RotateAxis(opts.Axis.Direction, angle).MulDir(profile.Plane.XDir)
			endYDir := v3.RotateAxis(opts.Axis.Direction, angle).MulDir(profile.Plane.YDir)
			endPlane := geom.Plane{Origin: endCapOrigin, Normal: endNormalDir, XDir: endXDir, YDir: endYDir}

			startHes := make([]topo.HalfEdgeId, n)
			endHes := make([]topo.HalfEdgeId, n)
			for i := 0; i < n; i++ {
				j := (i + 1) % n
				av, bv := rings[0].verts[i], rings[0].verts[j]
				startHes[i] = eb.halfEdge(bv, av, geom.Line3D{P0: store.GetVertexPosition(bv), P1: store.GetVertexPosition(av)})
				av2, bv2 := rings[ringCount-1].verts[i], rings[ringCount-1].verts[j]
				endHes[i] = eb.halfEdge(av2, bv2, geom.Line3D{P0: store.GetVertexPosition(av2), P1: store.GetVertexPosition(bv2)})
			}
			startLoop := wireLoop(store, reverseHalfEdgeHandles(startHes))
			startFace := store.AddFace(startPlane, startLoop)
			faces[fmt.Sprintf("revolve.loop%d.startCap", li)] = startFace

			endLoop := wireLoop(store, endHes)
			endFace := store.AddFace(endPlane, endLoop)
			faces[fmt.Sprintf("revolve.loop%d.endCap", li)] = endFace
		}
	}

	if unpaired := eb.unpairedHalfEdges(); len(unpaired) > 0 {
		return RevolveResult{}, fmt.Errorf("model: revolve left %d unpaired half-edges", len(unpaired))
	}

	var allFaces []topo.FaceId
	for _, f := range faces {
		allFaces = append(allFaces, f)
	}
	shell := store.AddShell(allFaces, true)
	body := store.AddBody([]topo.ShellId{shell})
	return RevolveResult{Body: body, Faces: faces}, nil
}

// reverseHalfEdgeHandles reverses the order of a half-edge slice so
// wireLoop links them in the opposite traversal sense; it does not touch
// the half-edges themselves, which were already built in the reversed
// direction by the caller.
func reverseHalfEdgeHandles(hes []topo.HalfEdgeId) []topo.HalfEdgeId {
	out := make([]topo.HalfEdgeId, len(hes))
	for i, h := range hes {
		out[len(hes)-1-i] = h
	}
	return out
}

// buildRevolveQuad builds one ruled face between two adjacent rings for a
// single profile edge, as a triangle if a or d (or b or c) degenerate to
// a shared axis vertex, classifying the straight edge's swept surface as
// planar (radial), cylindrical (axis-parallel), or conical (oblique).
func buildRevolveQuad(store *topo.Store, eb *edgeBuilder, axis RevolveAxis, a, b, c, d topo.VertexId, selector string) (topo.FaceId, error) {
	pa, pb := store.GetVertexPosition(a), store.GetVertexPosition(b)
	ra, aa := distanceToAxis(axis, pa)
	rb, ab := distanceToAxis(axis, pb)

	var surf geom.Surface
	switch {
	case math.Abs(ra-rb) < 1e-6:
		surf = geom.Cylinder{Origin: axis.Origin, Axis: axis.Direction.Normalize(), Radius: ra, XDir: pa.Sub(axis.Origin).Sub(axis.Direction.Normalize().MulScalar(aa))}
	case math.Abs(aa-ab) < 1e-9:
		n := axis.Direction.Normalize()
		surf = geom.NewPlane(axis.Origin.Add(n.MulScalar(aa)), n, pa.Sub(axis.Origin).Sub(n.MulScalar(aa)))
	default:
		n := axis.Direction.Normalize()
		slope := (rb - ra) / (ab - aa)
		apexAxial := aa - ra/slope
		apex := axis.Origin.Add(n.MulScalar(apexAxial))
		halfAngle := math.Atan(math.Abs(slope))
		coneAxis := n
		if ab < aa {
			coneAxis = n.MulScalar(-1)
		}
		surf = geom.Cone{Apex: apex, Axis: coneAxis, HalfAngle: halfAngle, XDir: pa.Sub(axis.Origin).Sub(n.MulScalar(aa))}
	}

	var hes []topo.HalfEdgeId
	fallbackAB := geom.Line3D{P0: pa, P1: store.GetVertexPosition(b)}
	hAB := eb.halfEdge(a, b, fallbackAB)
	hes = append(hes, hAB)
	if b != c {
		hes = append(hes, eb.halfEdge(b, c, geom.Line3D{P0: store.GetVertexPosition(b), P1: store.GetVertexPosition(c)}))
	}
	hCD := eb.halfEdge(c, d, geom.Line3D{P0: store.GetVertexPosition(c), P1: store.GetVertexPosition(d)})
	hes = append(hes, hCD)
	if d != a {
		hes = append(hes, eb.halfEdge(d, a, geom.Line3D{P0: store.GetVertexPosition(d), P1: pa}))
	}
	if len(hes) < 3 {
		return topo.NullID, fmt.Errorf("model: revolve quad %s degenerated below a triangle", selector)
	}

	loop := wireLoop(store, hes)
	face := store.AddFace(surf, loop)

	mid := store.GetVertexPosition(a).Lerp(store.GetVertexPosition(c), 0.5)
	outward := mid.Sub(axis.Origin)
	outward = outward.Sub(axis.Direction.Normalize().MulScalar(outward.Dot(axis.Direction.Normalize()))).Normalize()
	u, v := surf.Inverse(mid)
	if surf.NormalAt(u, v).Dot(outward) < 0 {
		store.SetFaceReversed(face, true)
	}
	return face, nil
}
