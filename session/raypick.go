package session

import (
	"math"

	"github.com/solidtype/kernel/boolean"
	"github.com/solidtype/kernel/geom"
	"github.com/solidtype/kernel/naming"
	"github.com/solidtype/kernel/topo"
	v2 "github.com/solidtype/kernel/vec/v2"
	v3 "github.com/solidtype/kernel/vec/v3"
)

// Ray is a pick ray in world space (spec §6 "Ray-pick").
type Ray struct {
	Origin, Direction v3.Vec
}

// PickResult is the nearest face a ray hits (spec §6: "face, persistent
// ref, hit point, distance").
type PickResult struct {
	Hit      bool
	Body     topo.BodyId
	Face     topo.FaceId
	Ref      naming.PersistentRef
	HasRef   bool
	Point    v3.Vec
	Distance float64
}

// maxPickDistance bounds the r-tree query box; a ray picking surface in a
// modeled part never needs to reach further than this (spec §6's ray-pick
// is planar-only, so a session-scoped part is always finite).
const maxPickDistance = 1e6

// RayPick returns the nearest planar face in body that ray hits, using
// spec §6's "standard crossings algorithm" for the 2D-in-polygon test and
// the r-tree built for boolean face-pair selection to prune candidates
// (SPEC_FULL.md §C "Ray-pick... implemented against the r-tree built for
// boolean face-pair selection, not a separate linear scan"). Only planar
// faces are supported in this spec (§6 "planar-only in this spec").
func (s *Session) RayPick(body topo.BodyId, ray Ray) PickResult {
	idx := boolean.BuildFaceIndex(s.Store, body)
	candidates := idx.RayCandidates(ray.Origin, ray.Direction, maxPickDistance)

	best := PickResult{}
	bestDist := math.Inf(1)
	dir := ray.Direction.Normalize()
	if dir == (v3.Vec{}) {
		return best
	}

	for _, f := range candidates {
		surf := s.Store.GetFaceSurface(f)
		plane, ok := surf.(geom.Plane)
		if !ok {
			continue
		}
		denom := plane.Normal.Dot(dir)
		if math.Abs(denom) < s.Ctx.LengthTol {
			continue
		}
		t := plane.Normal.Dot(plane.Origin.Sub(ray.Origin)) / denom
		if t <= 0 || t >= bestDist {
			continue
		}
		hit := ray.Origin.Add(dir.MulScalar(t))
		u, v := plane.Inverse(hit)
		if !pointInFacePolygon(s.Store, f, plane, v2.Vec{X: u, Y: v}) {
			continue
		}
		best = PickResult{Hit: true, Body: body, Face: f, Point: hit, Distance: t}
		bestDist = t
	}
	if best.Hit {
		if ref, ok := s.FaceRef(best.Face); ok {
			best.Ref, best.HasRef = ref, true
		}
	}
	return best
}

// pointInFacePolygon tests a UV point against f's outer/inner loops with
// the standard ray-crossings algorithm (spec §6): outer loop containment
// minus any hole containment.
func pointInFacePolygon(store *topo.Store, f topo.FaceId, plane geom.Plane, p v2.Vec) bool {
	loops := store.GetFaceLoops(f)
	if len(loops) == 0 {
		return false
	}
	inOuter := polygonContains(loopUVPoints(store, plane, loops[0]), p)
	if !inOuter {
		return false
	}
	for _, hole := range loops[1:] {
		if polygonContains(loopUVPoints(store, plane, hole), p) {
			return false
		}
	}
	return true
}

func loopUVPoints(store *topo.Store, plane geom.Plane, l topo.LoopId) []v2.Vec {
	hes, err := store.IterateLoopHalfEdges(l)
	if err != nil {
		return nil
	}
	pts := make([]v2.Vec, 0, len(hes))
	for _, h := range hes {
		pos := store.GetVertexPosition(store.GetHalfEdgeOrigin(h))
		u, v := plane.Inverse(pos)
		pts = append(pts, v2.Vec{X: u, Y: v})
	}
	return pts
}

// polygonContains is the standard crossings-number point-in-polygon test
// (spec §6: "The 2D-in-polygon test uses the standard crossings
// algorithm.").
func polygonContains(poly []v2.Vec, p v2.Vec) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			xIntersect := (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if p.X < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}
