package boolean

import (
	"math"
	"sort"

	"github.com/solidtype/kernel/geom"
	"github.com/solidtype/kernel/numeric"
	"github.com/solidtype/kernel/topo"
	v2 "github.com/solidtype/kernel/vec/v2"
	v3 "github.com/solidtype/kernel/vec/v3"
)

// segment is one 2D boundary or intersection segment collected for a
// single face's DCEL build, in that face's own UV space (spec §4.6.1 step
// 2c / step 3 "Tag the resulting segments").
type segment struct {
	a, b          v2.Vec
	isIntersection bool
}

type pairSegments struct {
	a, b []segment
}

// planeOf returns f's surface as a geom.Plane; callers must have already
// checked the body is all-planar via planarFaces.
func planeOf(store *topo.Store, f topo.FaceId) geom.Plane {
	return store.GetFaceSurface(f).(geom.Plane)
}

// intersectFacePair implements spec §4.6.1 step 2: the plane-plane
// intersection line is computed once in world space; each face's UV
// -space clip against its own polygon is derived from that single line by
// projecting the line's point and (already in-plane, unit-length)
// direction through the face's own orthonormal basis, so the clip
// parameter t is identical, bit for bit, in both UV spaces and in world
// space. ok is false if the planes are parallel (coincident handling is a
// documented extension point, not implemented: spec §4.6.1 step 2a only
// requires "if coincident and the operation requires overlap handling,
// emit the polygon of intersection in 2D", and no seed scenario in spec
// §8 requires a flush coincident face pair to contribute new edges beyond
// its own already-shared boundary).
func intersectFacePair(store *topo.Store, ctx numeric.Context, fa, fb topo.FaceId) (pairSegments, bool) {
	pa, pb := planeOf(store, fa), planeOf(store, fb)

	pt, dir, ok := ctx.PlanePlaneIntersect(pa.Origin, pa.Normal, pb.Origin, pb.Normal)
	if !ok {
		return pairSegments{}, false
	}

	polyA, err := facePolygonUV(store, ctx, fa, pa)
	if err != nil || len(polyA) < 3 {
		return pairSegments{}, false
	}
	polyB, err := facePolygonUV(store, ctx, fb, pb)
	if err != nil || len(polyB) < 3 {
		return pairSegments{}, false
	}

	uvPtA := v2.Vec{X: pt.Sub(pa.Origin).Dot(pa.XDir), Y: pt.Sub(pa.Origin).Dot(pa.YDir)}
	uvDirA := v2.Vec{X: dir.Dot(pa.XDir), Y: dir.Dot(pa.YDir)}
	uvPtB := v2.Vec{X: pt.Sub(pb.Origin).Dot(pb.XDir), Y: pt.Sub(pb.Origin).Dot(pb.YDir)}
	uvDirB := v2.Vec{X: dir.Dot(pb.XDir), Y: dir.Dot(pb.YDir)}

	intervalsA := clipLineAgainstPolygon(ctx, uvPtA, uvDirA, polyA)
	if len(intervalsA) == 0 {
		return pairSegments{}, false
	}
	intervalsB := clipLineAgainstPolygon(ctx, uvPtB, uvDirB, polyB)
	if len(intervalsB) == 0 {
		return pairSegments{}, false
	}

	combined := intersectIntervals(intervalsA, intervalsB)
	if len(combined) == 0 {
		return pairSegments{}, false
	}

	var out pairSegments
	for _, iv := range combined {
		if iv.hi-iv.lo < 2*ctx.LengthTol {
			continue
		}
		out.a = append(out.a, segment{a: uvPtA.Add(uvDirA.MulScalar(iv.lo)), b: uvPtA.Add(uvDirA.MulScalar(iv.hi)), isIntersection: true})
		out.b = append(out.b, segment{a: uvPtB.Add(uvDirB.MulScalar(iv.lo)), b: uvPtB.Add(uvDirB.MulScalar(iv.hi)), isIntersection: true})
	}
	if len(out.a) == 0 {
		return pairSegments{}, false
	}
	return out, true
}

// facePolygonUV returns face f's outer loop vertex positions projected
// into its own plane's UV space, in traversal order.
func facePolygonUV(store *topo.Store, ctx numeric.Context, f topo.FaceId, p geom.Plane) ([]v2.Vec, error) {
	loops := store.GetFaceLoops(f)
	if len(loops) == 0 {
		return nil, errEmptyFace
	}
	hes, err := store.IterateLoopHalfEdges(loops[0])
	if err != nil {
		return nil, err
	}
	out := make([]v2.Vec, 0, len(hes))
	for _, h := range hes {
		pos := store.GetVertexPosition(store.GetHalfEdgeOrigin(h))
		u, v := p.Inverse(pos)
		out = append(out, v2.Vec{X: u, Y: v})
	}
	return out, nil
}

// faceBoundarySegments returns face f's own boundary edges (outer plus
// every inner/hole loop) as UV segments tagged isIntersection:false (spec
// §4.6.1 step 3).
func faceBoundarySegments(store *topo.Store, f topo.FaceId) ([]segment, error) {
	p := planeOf(store, f)
	var out []segment
	for _, l := range store.GetFaceLoops(f) {
		hes, err := store.IterateLoopHalfEdges(l)
		if err != nil {
			return nil, err
		}
		n := len(hes)
		pts := make([]v2.Vec, n)
		for i, h := range hes {
			pos := store.GetVertexPosition(store.GetHalfEdgeOrigin(h))
			u, v := p.Inverse(pos)
			pts[i] = v2.Vec{X: u, Y: v}
		}
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			out = append(out, segment{a: pts[i], b: pts[j]})
		}
	}
	return out, nil
}

// interval is a closed [lo,hi] parameter range along a 2D line.
type interval struct{ lo, hi float64 }

// clipLineAgainstPolygon finds every parameter interval along the line
// pt+t*dir for which the point lies inside polygon poly, per spec §4.6.1
// step 2b "Clip the intersection line against each face's 2D polygon".
// It works for any simple polygon (convex or not): every polygon-edge
// crossing of the infinite line is a potential entry/exit, and each
// resulting candidate interval's midpoint is tested with the standard
// crossing-number point-in-polygon rule (spec §6).
func clipLineAgainstPolygon(ctx numeric.Context, pt, dir v2.Vec, poly []v2.Vec) []interval {
	if dir.Length2() == 0 {
		return nil
	}
	n := len(poly)
	ts := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		e0, e1 := poly[i], poly[(i+1)%n]
		ed := e1.Sub(e0)
		denom := dir.Cross(ed)
		if math.Abs(denom) <= 1e-12 {
			continue
		}
		t := e0.Sub(pt).Cross(ed) / denom
		s := e0.Sub(pt).Cross(dir) / denom
		if s < -1e-9 || s > 1+1e-9 {
			continue
		}
		ts = append(ts, t)
	}
	if len(ts) == 0 {
		return nil
	}
	sort.Float64s(ts)
	ts = dedupeSorted(ts, ctx.LengthTol)
	if len(ts) < 2 {
		return nil
	}

	var out []interval
	for i := 0; i < len(ts)-1; i++ {
		lo, hi := ts[i], ts[i+1]
		mid := pt.Add(dir.MulScalar((lo + hi) / 2))
		if pointInPolygon(mid, poly) {
			out = append(out, interval{lo: lo, hi: hi})
		}
	}
	return mergeIntervals(out)
}

func dedupeSorted(ts []float64, tol float64) []float64 {
	out := ts[:0:0]
	out = append(out, ts[0])
	for _, t := range ts[1:] {
		if t-out[len(out)-1] > tol {
			out = append(out, t)
		}
	}
	return out
}

func mergeIntervals(ivs []interval) []interval {
	if len(ivs) == 0 {
		return nil
	}
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].lo < ivs[j].lo })
	out := []interval{ivs[0]}
	for _, iv := range ivs[1:] {
		last := &out[len(out)-1]
		if iv.lo <= last.hi {
			if iv.hi > last.hi {
				last.hi = iv.hi
			}
		} else {
			out = append(out, iv)
		}
	}
	return out
}

// intersectIntervals returns the overlap of two sorted, disjoint interval
// sets (spec §4.6.1 step 2b: "kept only if both faces contribute a
// non-empty clip").
func intersectIntervals(a, b []interval) []interval {
	var out []interval
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		lo := math.Max(a[i].lo, b[j].lo)
		hi := math.Min(a[i].hi, b[j].hi)
		if lo < hi {
			out = append(out, interval{lo: lo, hi: hi})
		}
		if a[i].hi < b[j].hi {
			i++
		} else {
			j++
		}
	}
	return out
}

// pointInPolygon implements the standard crossings (ray-casting) test for
// a simple polygon, per spec §6 "The 2D-in-polygon test uses the standard
// crossings algorithm."
func pointInPolygon(p v2.Vec, poly []v2.Vec) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			xIntersect := pi.X + (p.Y-pi.Y)/(pj.Y-pi.Y)*(pj.X-pi.X)
			if p.X < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}

func polygonCentroid(poly []v2.Vec) v2.Vec {
	var sum v2.Vec
	for _, p := range poly {
		sum = sum.Add(p)
	}
	return sum.MulScalar(1 / float64(len(poly)))
}

// worldPoint maps a UV point on planar surface p back to world space.
func worldPoint(p geom.Plane, uv v2.Vec) v3.Vec { return p.Eval(uv.X, uv.Y) }
