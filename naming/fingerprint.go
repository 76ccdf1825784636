// Package naming implements persistent subshape references (spec §4.7
// "Naming"): fingerprint-based identity for faces and edges that
// survives topology renumbering across rebuilds, plus evolution-mapping
// based and fingerprint-distance-based resolution.
package naming

import (
	"math"
	"sort"

	"github.com/solidtype/kernel/geom"
	"github.com/solidtype/kernel/numeric"
	"github.com/solidtype/kernel/topo"
	v3 "github.com/solidtype/kernel/vec/v3"
)

// SubshapeKind tags whether a PersistentRef names a face or an edge.
type SubshapeKind int

const (
	SubshapeFace SubshapeKind = iota
	SubshapeEdge
)

func (k SubshapeKind) String() string {
	if k == SubshapeFace {
		return "face"
	}
	return "edge"
}

// CurveKind mirrors geom.SurfaceKind's role but for the edge curve
// variants of spec §3, used only inside an edge's fingerprint.
type CurveKind int

const (
	CurveLine CurveKind = iota
	CurveCircle
	CurveOther
)

func curveKindOf(c geom.Curve3) CurveKind {
	switch v := c.(type) {
	case geom.Line3D:
		return CurveLine
	case geom.Circle3D:
		return CurveCircle
	case geom.TranslatedCurve3:
		return curveKindOf(v.Base)
	case geom.SubCurve3:
		return curveKindOf(v.Base)
	default:
		return CurveOther
	}
}

// Fingerprint is the canonicalised, deterministic bundle spec §4.7 and
// §4.6 "Persistent ref fingerprinting with floating data" describe:
// surface/curve kind, rounded orientation and position, centroid,
// boundary size, and an adjacent-surface-kind multiset. All floating
// fields are pre-rounded to the nanometre grid so that two fingerprints
// built from bit-different but geometrically identical data compare
// equal.
type Fingerprint struct {
	Kind            SubshapeKind
	SurfaceKind     geom.SurfaceKind
	CurveKind       CurveKind
	OrientationGrid numeric.Point3I   // canonicalised normal/tangent direction
	OffsetGrid      int64             // canonicalised scalar offset along OrientationGrid, in snapped units
	Centroid        numeric.Point3I
	BoundarySize    int               // loop vertex count (face) or 2 endpoints (edge)
	NeighborKinds   []geom.SurfaceKind // sorted multiset of adjacent face surface kinds
	EndpointGrid    [2]numeric.Point3I // edge only; zero value for a face fingerprint
}

// canonicalizeDirection applies the lexicographic sign rule of spec §4.6:
// the first non-zero rounded component of a direction is forced
// positive, so a direction and its negation fingerprint identically.
func canonicalizeDirection(d v3.Vec) v3.Vec {
	g := numeric.Snap3(d)
	flip := false
	switch {
	case g.X != 0:
		flip = g.X < 0
	case g.Y != 0:
		flip = g.Y < 0
	case g.Z != 0:
		flip = g.Z < 0
	}
	if flip {
		return d.MulScalar(-1)
	}
	return d
}

// FingerprintFace builds the canonical fingerprint of face f, per spec
// §4.7: "surface kind, canonical plane parameters rounded to tolerance,
// centroid rounded, loop-vertex count, and for each boundary edge the
// adjacent-face surface-kind multiset." The orientation/offset pair
// generalises "plane parameters" to any analytic surface: it is the
// surface's own normal and its signed offset evaluated at the face
// centroid, which degenerates to the plane's (normal, d) for a Plane
// surface and gives a comparable local descriptor for curved surfaces.
func FingerprintFace(store *topo.Store, ctx numeric.Context, f topo.FaceId) Fingerprint {
	surf := store.GetFaceSurface(f)
	loops := store.GetFaceLoops(f)

	var positions []v3.Vec
	var neighborKinds []geom.SurfaceKind
	boundarySize := 0
	for _, l := range loops {
		hes, err := store.IterateLoopHalfEdges(l)
		if err != nil {
			continue
		}
		for _, h := range hes {
			positions = append(positions, store.GetVertexPosition(store.GetHalfEdgeOrigin(h)))
			boundarySize++
			twin := store.GetHalfEdgeTwin(h)
			if twin == topo.NullID {
				continue
			}
			twinLoop := store.GetHalfEdgeLoop(twin)
			if twinLoop == topo.NullID {
				continue
			}
			twinFace := store.GetLoopFace(twinLoop)
			if twinFace == topo.NullID {
				continue
			}
			neighborKinds = append(neighborKinds, store.GetFaceSurface(twinFace).Kind())
		}
	}
	sort.Slice(neighborKinds, func(i, j int) bool { return neighborKinds[i] < neighborKinds[j] })

	centroid := averagePosition(positions)
	u, v := surf.Inverse(centroid)
	normal := canonicalizeDirection(surf.NormalAt(u, v))
	offset := centroid.Dot(normal)

	return Fingerprint{
		Kind:            SubshapeFace,
		SurfaceKind:     surf.Kind(),
		OrientationGrid: numeric.Snap3(normal),
		OffsetGrid:      snapScalar(offset),
		Centroid:        numeric.Snap3(centroid),
		BoundarySize:    boundarySize,
		NeighborKinds:   neighborKinds,
	}
}

// FingerprintEdge builds the canonical fingerprint of edge e, per spec
// §4.7: "curve kind, endpoint fingerprints, adjacent-face fingerprints."
// Endpoint positions are sorted into a canonical order (lexicographic on
// their snapped grid coordinates) so an edge fingerprints identically
// regardless of which half-edge's traversal direction produced it.
// Adjacent faces contribute only their surface kinds (NeighborKinds), not
// their full fingerprints.
func FingerprintEdge(store *topo.Store, ctx numeric.Context, e topo.EdgeId) Fingerprint {
	curve := store.GetEdgeCurve(e)
	hes := store.GetEdgeHalfEdges(e)

	var endpoints [2]v3.Vec
	endpoints[0] = curve.Eval(0)
	endpoints[1] = curve.Eval(1)
	g0, g1 := numeric.Snap3(endpoints[0]), numeric.Snap3(endpoints[1])
	if pointLess(g1, g0) {
		g0, g1 = g1, g0
	}

	var neighborKinds []geom.SurfaceKind
	for _, h := range hes {
		if h == topo.NullID {
			continue
		}
		l := store.GetHalfEdgeLoop(h)
		if l == topo.NullID {
			continue
		}
		fid := store.GetLoopFace(l)
		if fid == topo.NullID {
			continue
		}
		neighborKinds = append(neighborKinds, store.GetFaceSurface(fid).Kind())
	}
	sort.Slice(neighborKinds, func(i, j int) bool { return neighborKinds[i] < neighborKinds[j] })

	centroid := endpoints[0].Lerp(endpoints[1], 0.5)

	return Fingerprint{
		Kind:          SubshapeEdge,
		CurveKind:     curveKindOf(curve),
		Centroid:      numeric.Snap3(centroid),
		BoundarySize:  2,
		NeighborKinds: neighborKinds,
		EndpointGrid:  [2]numeric.Point3I{g0, g1},
	}
}

func pointLess(a, b numeric.Point3I) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}

func averagePosition(pts []v3.Vec) v3.Vec {
	if len(pts) == 0 {
		return v3.Vec{}
	}
	var sum v3.Vec
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.MulScalar(1 / float64(len(pts)))
}

// snapScalar rounds a scalar length onto the same integer nanometre grid
// as Snap3/SnapCoord, so it is safe to Unsnap alongside the other grid
// fields in Distance.
func snapScalar(x float64) int64 {
	return numeric.SnapCoord(x)
}

// Distance computes the weighted fingerprint-mismatch score spec §4.7
// describes ("a weighted sum of mismatches in surface kind [hard], plane
// parameters, centroid distance, boundary loop count, neighbour-surface
// multiset"). A kind mismatch (face vs edge, or differing surface/curve
// kind) is scored as an effectively-infinite hard mismatch so it can
// never win a fingerprint match against a same-kind candidate.
func (fp Fingerprint) Distance(other Fingerprint) float64 {
	const hardMismatch = 1e9
	if fp.Kind != other.Kind {
		return hardMismatch
	}
	if fp.Kind == SubshapeFace && fp.SurfaceKind != other.SurfaceKind {
		return hardMismatch
	}
	if fp.Kind == SubshapeEdge && fp.CurveKind != other.CurveKind {
		return hardMismatch
	}

	// Grid fields are nanometre-scale integers; convert back to the
	// model's own length units before weighting, so the weights below
	// operate on physically meaningful distances rather than raw nm
	// counts (which would make even a sub-micrometre drift dominate the
	// threshold by six orders of magnitude).
	var d float64
	d += 50 * point3IDistance(fp.OrientationGrid, other.OrientationGrid)
	d += 10 * math.Abs(numeric.UnsnapCoord(fp.OffsetGrid)-numeric.UnsnapCoord(other.OffsetGrid))
	d += 5 * point3IDistance(fp.Centroid, other.Centroid)
	d += 2 * math.Abs(float64(fp.BoundarySize-other.BoundarySize))
	d += multisetDistance(fp.NeighborKinds, other.NeighborKinds)
	if fp.Kind == SubshapeEdge {
		d += point3IDistance(fp.EndpointGrid[0], other.EndpointGrid[0])
		d += point3IDistance(fp.EndpointGrid[1], other.EndpointGrid[1])
	}
	return d
}

func point3IDistance(a, b numeric.Point3I) float64 {
	pa, pb := numeric.Unsnap3(a), numeric.Unsnap3(b)
	return pa.Distance(pb)
}

func multisetDistance(a, b []geom.SurfaceKind) float64 {
	counts := make(map[geom.SurfaceKind]int)
	for _, k := range a {
		counts[k]++
	}
	for _, k := range b {
		counts[k]--
	}
	var mismatches int
	for _, c := range counts {
		if c < 0 {
			c = -c
		}
		mismatches += c
	}
	return float64(mismatches)
}
