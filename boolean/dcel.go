package boolean

import (
	"math"
	"sort"

	"github.com/solidtype/kernel/numeric"
	"github.com/solidtype/kernel/topo"
	v2 "github.com/solidtype/kernel/vec/v2"
)

// pieceClass is a piece's relationship to the other body, decided in
// classify.go (spec §4.6.3 "Piece classification").
type pieceClass int

const (
	classOutside pieceClass = iota
	classInside
	classOnSame
	classOnOpposite
)

// piece is one polygon produced by subdividing a single original face's UV
// plane along every boundary and intersection segment collected for it
// (spec §4.6.2 "DCEL build" / §4.6.1 step 4).
type piece struct {
	face      topo.FaceId
	loop      []v2.Vec
	fromBodyA bool
	class     pieceClass
	flip      bool // reverse winding/normal when stitched (subtract's B pieces)
}

type dcelHalfEdge struct {
	origin, dest int
	twin, next   int
	visited      bool
}

// buildFacePieces rebuilds face f's UV plane as a planar straight-line
// graph from segs (its own boundary plus every intersection segment found
// against the other body) and extracts its bounded faces, per spec
// §4.6.2: "split at intersections, snap and dedupe vertices onto the
// tolerance grid, build half-edges and twin them, sort outgoing edges at
// each vertex by angle, link next/prev with a turn-left rule, and extract
// faces by walking cycles; a face's sign under the shoelace formula tells
// outer boundary from hole."
func buildFacePieces(store *topo.Store, ctx numeric.Context, f topo.FaceId, segs []segment) ([]piece, error) {
	if len(segs) == 0 {
		return nil, nil
	}
	segs = splitAllCrossings(ctx, segs)

	vtIndex := make(map[numeric.Point2I]int)
	var vtPos []v2.Vec
	vid := func(p v2.Vec) int {
		g := numeric.Snap2(p)
		if i, ok := vtIndex[g]; ok {
			return i
		}
		i := len(vtPos)
		vtIndex[g] = i
		vtPos = append(vtPos, numeric.Unsnap2(g))
		return i
	}

	var hes []dcelHalfEdge
	outgoing := make(map[int][]int)
	for _, s := range segs {
		a, b := vid(s.a), vid(s.b)
		if a == b {
			continue
		}
		i0, i1 := len(hes), len(hes)+1
		hes = append(hes, dcelHalfEdge{origin: a, dest: b, twin: i1}, dcelHalfEdge{origin: b, dest: a, twin: i0})
		outgoing[a] = append(outgoing[a], i0)
		outgoing[b] = append(outgoing[b], i1)
	}
	if len(hes) == 0 {
		return nil, nil
	}

	angleOf := func(hi int) float64 {
		o, d := vtPos[hes[hi].origin], vtPos[hes[hi].dest]
		return math.Atan2(d.Y-o.Y, d.X-o.X)
	}
	posInSorted := make([]int, len(hes))
	for v, list := range outgoing {
		sort.Slice(list, func(i, j int) bool { return angleOf(list[i]) < angleOf(list[j]) })
		outgoing[v] = list
		for i, hi := range list {
			posInSorted[hi] = i
		}
	}
	// Turn-left rule: next(h) is the edge immediately clockwise from
	// twin(h) in the angularly sorted order around dest(h), which traces
	// bounded faces with positive (counterclockwise) shoelace area.
	for hi := range hes {
		list := outgoing[hes[hi].dest]
		n := len(list)
		twinPos := posInSorted[hes[hi].twin]
		hes[hi].next = list[(twinPos-1+n)%n]
	}

	const maxWalk = 1 << 16
	var pieces []piece
	for start := range hes {
		if hes[start].visited {
			continue
		}
		var loop []v2.Vec
		cur := start
		for steps := 0; ; steps++ {
			if steps > maxWalk {
				return nil, errUnclosedPiece
			}
			hes[cur].visited = true
			loop = append(loop, vtPos[hes[cur].origin])
			cur = hes[cur].next
			if cur == start {
				break
			}
		}
		if len(loop) < 3 {
			continue
		}
		if shoelace(loop) <= ctx.LengthTol*ctx.LengthTol {
			// Non-positive area: either a zero-area cycle from a
			// dangling bridge edge (an intersection chord with no
			// matching return path), or the clockwise mirror traversal
			// of a real bounded face. Spec §4.6.2 "Face extraction": "a
			// negative area is an unbounded or hole cycle and is
			// excluded from the bounded-piece set."
			continue
		}
		pieces = append(pieces, piece{face: f, loop: loop})
	}
	return pieces, nil
}

// splitAllCrossings finds every pairwise proper crossing among segs (via
// the same robust segment intersector the rest of the kernel uses) and
// breaks each segment at its interior crossing points. Because subdivision
// only shortens existing segments, a single pairwise pass is sufficient:
// no new crossings can appear among the resulting pieces that weren't
// already found between their parents.
func splitAllCrossings(ctx numeric.Context, segs []segment) []segment {
	type splitPt struct {
		t float64
		p v2.Vec
	}
	splits := make([][]splitPt, len(segs))
	for i, s := range segs {
		splits[i] = []splitPt{{0, s.a}, {1, s.b}}
	}
	for i := 0; i < len(segs); i++ {
		for j := i + 1; j < len(segs); j++ {
			pts := ctx.Segment2DIntersect(segs[i].a, segs[i].b, segs[j].a, segs[j].b)
			for _, p := range pts {
				if ti := paramAlong(segs[i], p); ti > 1e-9 && ti < 1-1e-9 {
					splits[i] = append(splits[i], splitPt{ti, p})
				}
				if tj := paramAlong(segs[j], p); tj > 1e-9 && tj < 1-1e-9 {
					splits[j] = append(splits[j], splitPt{tj, p})
				}
			}
		}
	}

	var out []segment
	for i, s := range segs {
		list := splits[i]
		sort.Slice(list, func(a, b int) bool { return list[a].t < list[b].t })
		for k := 0; k+1 < len(list); k++ {
			a, b := list[k].p, list[k+1].p
			if a.Distance(b) < 1e-9 {
				continue
			}
			out = append(out, segment{a: a, b: b, isIntersection: s.isIntersection})
		}
	}
	return out
}

func paramAlong(s segment, p v2.Vec) float64 {
	d := s.b.Sub(s.a)
	len2 := d.Length2()
	if len2 == 0 {
		return 0
	}
	return p.Sub(s.a).Dot(d) / len2
}

func shoelace(loop []v2.Vec) float64 {
	var sum float64
	n := len(loop)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += loop[i].X*loop[j].Y - loop[j].X*loop[i].Y
	}
	return sum / 2
}
