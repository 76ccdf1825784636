package boolean

import (
	"fmt"

	"github.com/solidtype/kernel/geom"
	"github.com/solidtype/kernel/numeric"
	"github.com/solidtype/kernel/topo"
	v2 "github.com/solidtype/kernel/vec/v2"
	v3 "github.com/solidtype/kernel/vec/v3"
)

// stitchVertexCache deduplicates vertex positions across every stitched
// piece (spec §3 "Integer grid" identity: two points are exactly equal
// iff their snapped integer triples are identical), the same shape as
// model's own vertexCache but kept local to this package since model
// already imports boolean (AddBoolean) and the reverse import would
// cycle.
type stitchVertexCache struct {
	store *topo.Store
	byPos map[numeric.Point3I]topo.VertexId
}

func newStitchVertexCache(store *topo.Store) *stitchVertexCache {
	return &stitchVertexCache{store: store, byPos: make(map[numeric.Point3I]topo.VertexId)}
}

func (vc *stitchVertexCache) get(p v3.Vec) topo.VertexId {
	key := numeric.Snap3(p)
	if id, ok := vc.byPos[key]; ok {
		return id
	}
	id := vc.store.AddVertex(p)
	vc.byPos[key] = id
	return id
}

// stitchEdgeBuilder shares an edge (and twins its two half-edges) between
// the two pieces that produced it, exactly as model's edgeBuilder does
// for extrude/revolve/primitives: the first piece to traverse a vertex
// pair creates the edge, the second traversing it in the opposite
// direction reuses it and becomes its twin. Per spec §4.6.1 step 7
// ("share every new intersection edge between the two faces that
// produced it... exact integer match guarantees this"), every
// intersection edge is walked by exactly two surviving pieces in
// opposite directions, so this is sufficient to pair them without any
// special-casing of intersection vs. original-boundary edges.
type stitchEdgeBuilder struct {
	store *topo.Store
	seen  map[stitchEdgeKey]stitchPendingEdge
}

type stitchEdgeKey struct {
	a, b topo.VertexId
}

func stitchCanonKey(a, b topo.VertexId) stitchEdgeKey {
	if a <= b {
		return stitchEdgeKey{a, b}
	}
	return stitchEdgeKey{b, a}
}

type stitchPendingEdge struct {
	edge topo.EdgeId
	half topo.HalfEdgeId
}

func newStitchEdgeBuilder(store *topo.Store) *stitchEdgeBuilder {
	return &stitchEdgeBuilder{store: store, seen: make(map[stitchEdgeKey]stitchPendingEdge)}
}

func (eb *stitchEdgeBuilder) halfEdge(a, b topo.VertexId, c geom.Curve3) topo.HalfEdgeId {
	key := stitchCanonKey(a, b)
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
	eb.seen[key] = stitchPendingEdge{edge: e, half: h}
	return h
}

func (eb *stitchEdgeBuilder) unpairedHalfEdges() []topo.HalfEdgeId {
	var out []topo.HalfEdgeId
	for _, p := range eb.seen {
		out = append(out, p.half)
	}
	return out
}

func stitchWireLoop(store *topo.Store, hes []topo.HalfEdgeId) topo.LoopId {
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

// stitch implements spec §4.6.1 step 7 ("Stitch"): every surviving piece
// becomes a face on its own original plane (a piece is already an atomic,
// hole-free polygon after DCEL extraction), shared edges are twinned by
// stitchEdgeBuilder, and the resulting faces are gathered into one closed
// shell and one body. A piece tagged flip (subtract's inside-B faces,
// spec §4.6.1 step 6) is walked in reverse so its winding — and so its
// outward side — flips without needing a separate reversed-surface case.
func stitch(store *topo.Store, ctx numeric.Context, pieces []piece) (topo.BodyId, error) {
	if len(pieces) == 0 {
		return 0, fmt.Errorf("boolean: no pieces survived selection")
	}

	vc := newStitchVertexCache(store)
	eb := newStitchEdgeBuilder(store)

	var faces []topo.FaceId
	for _, p := range pieces {
		plane := planeOf(store, p.face)

		loop := p.loop
		if p.flip {
			loop = reversePolygon(loop)
		}
		n := len(loop)
		verts := make([]topo.VertexId, n)
		for i, uv := range loop {
			verts[i] = vc.get(worldPoint(plane, uv))
		}

		hes := make([]topo.HalfEdgeId, n)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			curve := geom.Line3D{P0: store.GetVertexPosition(verts[i]), P1: store.GetVertexPosition(verts[j])}
			hes[i] = eb.halfEdge(verts[i], verts[j], curve)
		}
		loopId := stitchWireLoop(store, hes)
		for i, h := range hes {
			j := (i + 1) % n
			store.SetHalfEdgePCurve(h, geom.Line2D{P0: loop[i], P1: loop[j]})
		}

		face := store.AddFace(plane, loopId)
		faces = append(faces, face)
	}

	if unpaired := eb.unpairedHalfEdges(); len(unpaired) > 0 {
		return 0, fmt.Errorf("boolean: stitch left %d unpaired half-edge(s): %v", len(unpaired), unpaired)
	}

	shell := store.AddShell(faces, true)
	body := store.AddBody([]topo.ShellId{shell})
	return body, nil
}

func reversePolygon(loop []v2.Vec) []v2.Vec {
	out := make([]v2.Vec, len(loop))
	n := len(loop)
	for i, p := range loop {
		out[n-1-i] = p
	}
	return out
}
