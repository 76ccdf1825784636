package model

import (
	"github.com/solidtype/kernel/geom"
	"github.com/solidtype/kernel/topo"
)

// edgeBuilder shares edges between adjacent faces while a primitive or
// feature is under construction: the first face to traverse a vertex
// pair creates the edge and its first half-edge; the second face that
// traverses the same pair in the opposite direction reuses the edge and
// becomes its twin. This is what keeps spec §8 scenario A's unit cube at
// 8 vertices / 12 edges / 24 half-edges instead of one disjoint quad per
// face.
type edgeBuilder struct {
	store *topo.Store
	seen  map[edgeKey]pendingEdge
}

type edgeKey struct {
	a, b topo.VertexId
}

func canonKey(a, b topo.VertexId) edgeKey {
	if a <= b {
		return edgeKey{a, b}
	}
	return edgeKey{b, a}
}

type pendingEdge struct {
	edge topo.EdgeId
	half topo.HalfEdgeId // the half-edge going a->b where (a,b) was the first-seen direction
	from topo.VertexId
}

func newEdgeBuilder(store *topo.Store) *edgeBuilder {
	return &edgeBuilder{store: store, seen: make(map[edgeKey]pendingEdge)}
}

// halfEdge returns a half-edge from a to b, with curve c describing that
// direction. If the mirror half-edge (b to a) was already built, the two
// are wired as twins sharing one edge; curve c is only used the first
// time a vertex pair is seen (both directions describe the same 3D
// curve).
func (eb *edgeBuilder) halfEdge(a, b topo.VertexId, c geom.Curve3) topo.HalfEdgeId {
	key := canonKey(a, b)
	if pending, ok := eb.seen[key]; ok {
		h := eb.store.AddHalfEdge(a, pending.edge)
		eb.store.SetHalfEdgeTwin(pending.half, h)
		eb.store.SetEdgeHalfEdge(pending.edge, 1, h)
		delete(eb.seen, key)
		return h
	}
	e := eb.store.AddEdge(c)
	h := eb.store.AddHalfEdge(a, e)
	eb.store.SetEdgeHalfEdge(e, 0, h)
	eb.seen[key] = pendingEdge{edge: e, half: h, from: a}
	return h
}

// wireLoop links next/prev for a cyclic sequence of half-edges and
// returns the new loop id with the first half-edge set.
func wireLoop(store *topo.Store, hes []topo.HalfEdgeId) topo.LoopId {
	n := len(hes)
	for i := 0; i < n; i++ {
		store.SetHalfEdgeNext(hes[i], hes[(i+1)%n])
	}
	loop := store.AddLoop(hes[0])
	for _, h := range hes {
		store.SetHalfEdgeLoop(h, loop)
	}
	return loop
}

// unpairedHalfEdges returns every half-edge left without a twin after an
// edgeBuilder session, as a diagnostic for callers (spec §4.5 "Unbalanced
// groups are diagnostic").
func (eb *edgeBuilder) unpairedHalfEdges() []topo.HalfEdgeId {
	var out []topo.HalfEdgeId
	for _, p := range eb.seen {
		out = append(out, p.half)
	}
	return out
}
