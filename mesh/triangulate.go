// Package mesh implements the planar ear-clip triangulator, face/body
// tessellation, and bit-exact STL emitter of spec §4.8 "Mesh (Ms)".
package mesh

import (
	"errors"
	"math"

	"github.com/solidtype/kernel/numeric"
	v2 "github.com/solidtype/kernel/vec/v2"
)

// ErrSelfTouchingLoop is returned by EarClip when the input polygon
// touches itself (a non-adjacent vertex pair within tolerance) without
// crossing — spec §9 Open Question: "the ear-clip triangulator's
// behaviour on self-touching (but not self-crossing) loops is undefined
// in the source; spec requires rejecting such input with invalidInput".
var ErrSelfTouchingLoop = errors.New("mesh: self-touching polygon loop")

// ErrDegeneratePolygon is returned when fewer than 3 distinct vertices
// remain to triangulate.
var ErrDegeneratePolygon = errors.New("mesh: polygon has fewer than 3 vertices")

// EarClip triangulates a simple polygon (outer, CCW) with zero or more
// holes (CW), per spec §4.8 "Planar triangulation". Holes are bridged
// into the outer loop with a zero-length visibility edge before ear
// clipping. It returns triangles as index triples into the combined
// vertex list it returns (outer vertices first, in order, followed by
// each hole's vertices in order; bridge vertices are duplicates of
// existing ones and share their index, never appended separately).
func EarClip(ctx numeric.Context, outer []v2.Vec, holes [][]v2.Vec) ([][3]int, []v2.Vec, error) {
	if len(outer) < 3 {
		return nil, nil, ErrDegeneratePolygon
	}
	// The caller's boundary walk direction is not guaranteed to be CCW
	// (it depends on the surface's own (u,v) handedness and an edge
	// curve's arbitrary start point), so normalize winding here rather
	// than require every caller to pre-orient its polygons.
	outer = canonicalWinding(outer, true)
	verts := append([]v2.Vec{}, outer...)
	poly := makeRing(verts, 0)

	for _, hole := range holes {
		if len(hole) < 3 {
			continue
		}
		hole = canonicalWinding(hole, false)
		holeStart := len(verts)
		verts = append(verts, hole...)
		holeRing := makeRing(verts, holeStart)
		poly = bridgeHole(ctx, verts, poly, holeRing)
	}

	tris, err := earClipRing(ctx, verts, poly)
	if err != nil {
		return nil, nil, err
	}
	return tris, verts, nil
}

// canonicalWinding returns pts reordered so its shoelace signed area has
// the requested sign: positive (CCW) for an outer boundary, negative (CW)
// for a hole.
func canonicalWinding(pts []v2.Vec, ccw bool) []v2.Vec {
	area := shoelaceArea(pts)
	if (ccw && area >= 0) || (!ccw && area <= 0) {
		return pts
	}
	out := make([]v2.Vec, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

func shoelaceArea(pts []v2.Vec) float64 {
	var area float64
	n := len(pts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return area / 2
}

// ring is a circular doubly-linked list of vertex indices describing one
// simple-polygon traversal (outer loop with holes already bridged in).
type ringNode struct {
	idx        int
	prev, next *ringNode
}

func makeRing(verts []v2.Vec, start int) *ringNode {
	n := len(verts) - start
	nodes := make([]*ringNode, n)
	for i := 0; i < n; i++ {
		nodes[i] = &ringNode{idx: start + i}
	}
	for i := 0; i < n; i++ {
		nodes[i].next = nodes[(i+1)%n]
		nodes[i].prev = nodes[(i-1+n)%n]
	}
	return nodes[0]
}

// bridgeHole splices holeRing into outerRing via a pair of coincident
// "bridge" edges from the hole's rightmost vertex to a mutually visible
// outer vertex (spec §4.8 "Holes are bridged into the outer loop by
// inserting a mutually visible zero-length bridge edge").
func bridgeHole(ctx numeric.Context, verts []v2.Vec, outerRing, holeRing *ringNode) *ringNode {
	// Find the hole vertex with maximum X (guaranteed visible to *some*
	// outer vertex via a rightward ray).
	rightmost := holeRing
	cur := holeRing.next
	for cur != holeRing {
		if verts[cur.idx].X > verts[rightmost.idx].X {
			rightmost = cur
		}
		cur = cur.next
	}

	target := findVisibleOuterVertex(ctx, verts, outerRing, rightmost)

	// Splice: ... target, rightmost, hole..., rightmost(again), target, outer continues ...
	bridgeA := &ringNode{idx: target.idx}
	bridgeB := &ringNode{idx: rightmost.idx}

	afterTarget := target.next
	lastHole := rightmost.prev
	target.next = rightmost
	rightmost.prev = target

	// walk the hole ring back around to rightmost (it is already a full
	// cycle); insert the bridge-back nodes after completing the hole.

	lastHole.next = bridgeB
	bridgeB.prev = lastHole
	bridgeB.next = bridgeA
	bridgeA.prev = bridgeB
	bridgeA.next = afterTarget
	afterTarget.prev = bridgeA

	return outerRing
}

// findVisibleOuterVertex returns the outer-ring node that is mutually
// visible from the hole vertex h, preferring the outer vertex closest to
// h's rightward ray crossing of the outer boundary.
func findVisibleOuterVertex(ctx numeric.Context, verts []v2.Vec, outerRing, h *ringNode) *ringNode {
	p := verts[h.idx]
	var best *ringNode
	bestDist := math.Inf(1)

	// Cast a ray in +X from p; find the nearest outer edge crossing, then
	// the outer endpoint of that edge nearer to p's angle is the
	// candidate visible vertex (classic Held/FIST bridging heuristic).
	cur := outerRing
	for {
		a := verts[cur.idx]
		b := verts[cur.next.idx]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			t := (p.Y - a.Y) / (b.Y - a.Y)
			x := a.X + t*(b.X-a.X)
			if x >= p.X {
				d := x - p.X
				if d < bestDist {
					bestDist = d
					if a.X > b.X {
						best = cur
					} else {
						best = cur.next
					}
				}
			}
		}
		cur = cur.next
		if cur == outerRing {
			break
		}
	}
	if best == nil {
		// Degenerate fallback: pick the outer vertex nearest to p.
		cur = outerRing
		bestDist = math.Inf(1)
		for {
			d := verts[cur.idx].Distance(p)
			if d < bestDist {
				bestDist = d
				best = cur
			}
			cur = cur.next
			if cur == outerRing {
				break
			}
		}
	}
	return best
}

// earClipRing repeatedly clips ears from the circular list until three
// vertices remain, per spec §4.8.
func earClipRing(ctx numeric.Context, verts []v2.Vec, ring *ringNode) ([][3]int, error) {
	count := 0
	for n := ring; ; n = n.next {
		count++
		if n.next == ring {
			break
		}
	}
	if count < 3 {
		return nil, ErrDegeneratePolygon
	}

	var tris [][3]int
	cur := ring
	guard := 0
	maxGuard := count*count + 16
	for count > 3 {
		guard++
		if guard > maxGuard {
			return nil, ErrSelfTouchingLoop
		}
		if isEar(ctx, verts, cur, ring, count) {
			tris = append(tris, [3]int{cur.prev.idx, cur.idx, cur.next.idx})
			cur.prev.next = cur.next
			cur.next.prev = cur.prev
			if ring == cur {
				ring = cur.next
			}
			cur = cur.next
			count--
			guard = 0
			continue
		}
		cur = cur.next
	}
	tris = append(tris, [3]int{cur.prev.idx, cur.idx, cur.next.idx})
	return tris, nil
}

// isEar reports whether the triangle at n (prev,n,next) is a valid ear:
// a convex (CCW) corner whose triangle contains no other active vertex,
// and which is not degenerate via a non-adjacent vertex lying on its
// boundary (a self-touching loop, spec §9 Open Question 3).
func isEar(ctx numeric.Context, verts []v2.Vec, n, ring *ringNode, count int) bool {
	a, b, c := verts[n.prev.idx], verts[n.idx], verts[n.next.idx]
	area := ctx.Orient2D(a, b, c)
	if area <= 0 {
		return false // reflex or collinear
	}
	p := n.next.next
	for i := 0; i < count-3; i++ {
		if p.idx == n.prev.idx || p.idx == n.idx || p.idx == n.next.idx {
			// a bridge duplicate of one of the ear's own corners
			p = p.next
			continue
		}
		q := verts[p.idx]
		loc := pointInTriangle(ctx, a, b, c, q)
		if loc == inside {
			return false
		}
		if loc == onBoundary {
			return false // self-touching: refuse this ear (spec §9)
		}
		p = p.next
	}
	return true
}

type pointLoc int

const (
	outside pointLoc = iota
	inside
	onBoundary
)

func pointInTriangle(ctx numeric.Context, a, b, c, q v2.Vec) pointLoc {
	d1 := ctx.Orient2D(a, b, q)
	d2 := ctx.Orient2D(b, c, q)
	d3 := ctx.Orient2D(c, a, q)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	if hasNeg && hasPos {
		return outside
	}
	if d1 == 0 || d2 == 0 || d3 == 0 {
		return onBoundary
	}
	return inside
}
