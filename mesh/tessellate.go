package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/solidtype/kernel/geom"
	"github.com/solidtype/kernel/numeric"
	"github.com/solidtype/kernel/topo"
	v2 "github.com/solidtype/kernel/vec/v2"
	v3 "github.com/solidtype/kernel/vec/v3"
)

// ErrCurvedSurfaceUnsupported is returned by TessellateFace for a face
// whose surface is not a plane (spec §4.8).
var ErrCurvedSurfaceUnsupported = errors.New("mesh: curved surface tessellation not implemented")

// Triangle is one flat-shaded mesh facet: three vertices in CCW winding
// (seen from outside the body) plus a single face normal, per spec §4.8
// "Tessellation" ("the exported mesh is facetted, flat-shaded: every
// triangle carries its own copy of its three vertices and one normal").
type Triangle struct {
	V0, V1, V2 v3.Vec
	Normal     v3.Vec
}

// Mesh is a flat-shaded triangle soup (spec §4.8): every triangle owns
// private copies of its vertices, so coincident positions across
// triangles are never deduplicated.
type Mesh struct {
	Triangles []Triangle
}

// curveSampleCount controls how many interior points are sampled along a
// curved 3D edge when it is walked into a polygon boundary; spec §4.8
// leaves the exact sampling density unspecified beyond "fine enough that
// the chordal deviation stays within tolerance", so this is a fixed
// per-edge count tied to LengthTol via chord-height rather than a
// constant, to keep large arcs from faceting too coarsely.
func curveSampleCount(ctx numeric.Context, c geom.Curve3) int {
	switch cv := c.(type) {
	case geom.Circle3D:
		return samplesForRadius(ctx, cv.Radius, 2*math.Pi)
	case geom.SubCurve3:
		if circ, ok := cv.Base.(geom.Circle3D); ok {
			sweep := (cv.T1 - cv.T0) * 2 * math.Pi
			if sweep < 0 {
				sweep = -sweep
			}
			return samplesForRadius(ctx, circ.Radius, sweep)
		}
		return 1
	case geom.TranslatedCurve3:
		return curveSampleCount(ctx, cv.Base)
	default:
		return 1 // straight edges (Line3D) need only their origin vertex
	}
}

func samplesForRadius(ctx numeric.Context, radius, sweep float64) int {
	if radius <= 0 || sweep <= 0 {
		return 1
	}
	// chord height h = r(1-cos(theta/2)); solve theta for h = LengthTol.
	tol := ctx.LengthTol
	if tol <= 0 {
		tol = numeric.DefaultLengthTol
	}
	ratio := 1 - tol/radius
	if ratio < -1 {
		ratio = -1
	}
	maxStep := 2 * math.Acos(ratio)
	if maxStep <= 0 {
		maxStep = sweep
	}
	n := int(math.Ceil(sweep / maxStep))
	if n < 3 {
		n = 3
	}
	if n > 256 {
		n = 256
	}
	return n
}

// sampleHalfEdge walks half-edge h's owning 3D edge curve from h's origin
// to its destination, returning the origin vertex followed by any
// interior samples needed to approximate a curved edge (spec §4.8: "face
// tessellation collects loop vertex positions ... walking each boundary
// edge's own curve where it is not straight, not merely its two
// endpoints" — necessary because single-vertex loops, such as a
// cylinder's cap, carry their entire boundary on one self-referencing
// curved edge with no intermediate vertices at all).
func sampleHalfEdge(store *topo.Store, ctx numeric.Context, h topo.HalfEdgeId) []v3.Vec {
	origin := store.GetVertexPosition(store.GetHalfEdgeOrigin(h))
	edge := store.GetHalfEdgeEdge(h)
	curve := store.GetEdgeCurve(edge)
	n := curveSampleCount(ctx, curve)
	if n <= 1 {
		return []v3.Vec{origin}
	}

	// The curve's own t=0..1 direction need not match this half-edge's
	// traversal direction (its twin walks the same curve the other way);
	// pick whichever end is closer to this half-edge's origin.
	reversed := curve.Eval(0).Distance(origin) > curve.Eval(1).Distance(origin)

	out := make([]v3.Vec, 0, n)
	out = append(out, origin)
	for i := 1; i < n; i++ {
		t := float64(i) / float64(n)
		if reversed {
			t = 1 - t
		}
		out = append(out, curve.Eval(t))
	}
	return out
}

// loopPolygon3D walks every half-edge of loop l, sampling curved edges,
// and returns the resulting ordered boundary polygon in 3D.
func loopPolygon3D(store *topo.Store, ctx numeric.Context, l topo.LoopId) ([]v3.Vec, error) {
	hes, err := store.IterateLoopHalfEdges(l)
	if err != nil {
		return nil, err
	}
	var pts []v3.Vec
	for _, h := range hes {
		pts = append(pts, sampleHalfEdge(store, ctx, h)...)
	}
	return pts, nil
}

// canonicalWinding2And3 reorders a loop's 2D and 3D point lists together
// (keeping them in correspondence) so the 2D polygon's signed area has
// the sign EarClip expects; this must happen before calling EarClip
// rather than inside it, since EarClip's own index output only makes
// sense relative to the vertex order it was actually given.
func canonicalWinding2And3(pts2 []v2.Vec, pts3 []v3.Vec, ccw bool) ([]v2.Vec, []v3.Vec) {
	if (ccw && shoelaceArea(pts2) >= 0) || (!ccw && shoelaceArea(pts2) <= 0) {
		return pts2, pts3
	}
	out2 := make([]v2.Vec, len(pts2))
	out3 := make([]v3.Vec, len(pts3))
	for i := range pts2 {
		out2[len(pts2)-1-i] = pts2[i]
		out3[len(pts3)-1-i] = pts3[i]
	}
	return out2, out3
}

// TessellateFace triangulates a single face's outer loop (minus any
// inner hole loops) into flat-shaded triangles, per spec §4.8.
//
// Only planar faces are tessellated; a face on a curved surface (cylinder,
// cone, sphere, torus) returns ErrCurvedSurfaceUnsupported, per spec §4.8
// ("curved surfaces are out of scope for this spec's triangulation: a
// documented not-implemented path, but surfaces do exist in the
// topology"). A circular or otherwise curved *boundary* on an otherwise
// planar face (a cylinder's disc cap, say) is unaffected by this
// restriction and tessellates normally.
func TessellateFace(store *topo.Store, ctx numeric.Context, f topo.FaceId) ([]Triangle, error) {
	surf := store.GetFaceSurface(f)
	if surf.Kind() != geom.SurfacePlane {
		return nil, fmt.Errorf("mesh: face %d: %w (%s)", f, ErrCurvedSurfaceUnsupported, surf.Kind())
	}
	loops := store.GetFaceLoops(f)
	if len(loops) == 0 {
		return nil, fmt.Errorf("mesh: face %d has no loops", f)
	}

	outerPts3, err := loopPolygon3D(store, ctx, loops[0])
	if err != nil {
		return nil, fmt.Errorf("mesh: face %d outer loop: %w", f, err)
	}
	if len(outerPts3) < 3 {
		return nil, fmt.Errorf("mesh: face %d outer loop has fewer than 3 points", f)
	}

	outer2 := make([]v2.Vec, len(outerPts3))
	for i, p := range outerPts3 {
		u, v := surf.Inverse(p)
		outer2[i] = v2.Vec{X: u, Y: v}
	}
	outer2, outerPts3 = canonicalWinding2And3(outer2, outerPts3, true)

	var holes2 [][]v2.Vec
	var holePts3 [][]v3.Vec
	for _, l := range loops[1:] {
		pts3, err := loopPolygon3D(store, ctx, l)
		if err != nil {
			return nil, fmt.Errorf("mesh: face %d inner loop: %w", f, err)
		}
		if len(pts3) < 3 {
			continue
		}
		pts2 := make([]v2.Vec, len(pts3))
		for i, p := range pts3 {
			u, v := surf.Inverse(p)
			pts2[i] = v2.Vec{X: u, Y: v}
		}
		pts2, pts3 = canonicalWinding2And3(pts2, pts3, false)
		holes2 = append(holes2, pts2)
		holePts3 = append(holePts3, pts3)
	}

	allPts3 := append([]v3.Vec{}, outerPts3...)
	for _, hp := range holePts3 {
		allPts3 = append(allPts3, hp...)
	}

	tris2idx, _, err := EarClip(ctx, outer2, holes2)
	if err != nil {
		return nil, fmt.Errorf("mesh: face %d: %w", f, err)
	}

	reversed := store.FaceReversed(f)
	var out []Triangle
	for _, tri := range tris2idx {
		p0, p1, p2 := allPts3[tri[0]], allPts3[tri[1]], allPts3[tri[2]]
		if reversed {
			p1, p2 = p2, p1
		}
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		if n.Length2() == 0 {
			continue // degenerate triangle from a coincident sample; drop it
		}
		n = n.Normalize()
		out = append(out, Triangle{V0: p0, V1: p1, V2: p2, Normal: n})
	}
	return out, nil
}

// TessellateBody tessellates every face of every shell in body b. Faces on
// a curved surface are skipped rather than failing the whole body (spec
// §4.8's not-implemented path); their face ids are returned separately so
// a caller can surface them as warnings.
func TessellateBody(store *topo.Store, ctx numeric.Context, b topo.BodyId) (Mesh, []topo.FaceId, error) {
	var mesh Mesh
	var skipped []topo.FaceId
	for _, sh := range store.GetBodyShells(b) {
		if store.ShellDeleted(sh) {
			continue
		}
		for _, f := range store.GetShellFaces(sh) {
			if store.FaceDeleted(f) {
				continue
			}
			tris, err := TessellateFace(store, ctx, f)
			if err != nil {
				if errors.Is(err, ErrCurvedSurfaceUnsupported) {
					skipped = append(skipped, f)
					continue
				}
				return Mesh{}, nil, err
			}
			mesh.Triangles = append(mesh.Triangles, tris...)
		}
	}
	return mesh, skipped, nil
}
