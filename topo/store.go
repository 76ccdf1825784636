package topo

import (
	"github.com/solidtype/kernel/geom"
	v3 "github.com/solidtype/kernel/vec/v3"
)

type vertexRec struct {
	pos     v3.Vec
	name    string
	deleted bool
}

type edgeRec struct {
	curve3     geom.Curve3
	halfEdges  [2]HalfEdgeId
	deleted    bool
}

type halfEdgeRec struct {
	origin  VertexId
	twin    HalfEdgeId
	next    HalfEdgeId
	prev    HalfEdgeId
	loop    LoopId
	edge    EdgeId
	pcurve  geom.Curve2 // nil if none attached
	deleted bool
}

type loopRec struct {
	first   HalfEdgeId
	face    FaceId
	deleted bool
}

type faceRec struct {
	surface   geom.Surface
	outerLoop LoopId
	innerLoops []LoopId
	reversed  bool
	shell     ShellId
	deleted   bool
}

type shellRec struct {
	faces   []FaceId
	closed  bool
	body    BodyId
	deleted bool
}

type bodyRec struct {
	shells  []ShellId
	deleted bool
}

// Store is the single in-memory BREP store for one session's model
// (spec §5 "the topology store owns all entities; it is the single
// writer"). It is addressed exclusively through branded integer handles
// and never exposes pointers across package boundaries.
type Store struct {
	vertices  []vertexRec
	edges     []edgeRec
	halfEdges []halfEdgeRec
	loops     []loopRec
	faces     []faceRec
	shells    []shellRec
	bodies    []bodyRec

	// Version is bumped on every structural mutation so iterators can
	// detect invalidation and fail fast (spec §5).
	Version int
}

// NewStore returns an empty topology store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) bump() { s.Version++ }

// AddVertex creates a new vertex at the given position.
func (s *Store) AddVertex(p v3.Vec) VertexId {
	s.vertices = append(s.vertices, vertexRec{pos: p})
	s.bump()
	return VertexId(len(s.vertices) - 1)
}

// GetVertexPosition returns the position of v.
func (s *Store) GetVertexPosition(v VertexId) v3.Vec {
	return s.vertices[v].pos
}

// SetVertexPosition updates the position of v (used by healing/welding).
func (s *Store) SetVertexPosition(v VertexId, p v3.Vec) {
	s.vertices[v].pos = p
	s.bump()
}

// VertexDeleted reports whether v has been marked deleted.
func (s *Store) VertexDeleted(v VertexId) bool { return s.vertices[v].deleted }

// DeleteVertex marks v deleted; its slot remains but iterators skip it.
func (s *Store) DeleteVertex(v VertexId) {
	s.vertices[v].deleted = true
	s.bump()
}

// NumVertices returns the total vertex pool size, including deleted slots.
func (s *Store) NumVertices() int { return len(s.vertices) }

// AddEdge creates a new edge with the given 3D curve and no half-edges
// yet attached (use AddHalfEdge + SetEdgeHalfEdge to wire them).
func (s *Store) AddEdge(curve geom.Curve3) EdgeId {
	s.edges = append(s.edges, edgeRec{curve3: curve, halfEdges: [2]HalfEdgeId{NullID, NullID}})
	s.bump()
	return EdgeId(len(s.edges) - 1)
}

// GetEdgeCurve returns the 3D curve carried by edge e.
func (s *Store) GetEdgeCurve(e EdgeId) geom.Curve3 { return s.edges[e].curve3 }

// GetEdgeHalfEdges returns the two half-edges of e (NullID if unset).
func (s *Store) GetEdgeHalfEdges(e EdgeId) [2]HalfEdgeId { return s.edges[e].halfEdges }

// SetEdgeHalfEdge assigns half-edge h to side (0 or 1) of edge e.
func (s *Store) SetEdgeHalfEdge(e EdgeId, side int, h HalfEdgeId) {
	s.edges[e].halfEdges[side] = h
	s.bump()
}

// DeleteEdge marks e deleted.
func (s *Store) DeleteEdge(e EdgeId) {
	s.edges[e].deleted = true
	s.bump()
}

// EdgeDeleted reports whether e has been marked deleted.
func (s *Store) EdgeDeleted(e EdgeId) bool { return s.edges[e].deleted }

// NumEdges returns the total edge pool size, including deleted slots.
func (s *Store) NumEdges() int { return len(s.edges) }

// AddHalfEdge creates a new half-edge with the given origin vertex and
// owning edge; next/prev/loop start unset (NullID).
func (s *Store) AddHalfEdge(origin VertexId, edge EdgeId) HalfEdgeId {
	s.halfEdges = append(s.halfEdges, halfEdgeRec{
		origin: origin, edge: edge,
		twin: NullID, next: NullID, prev: NullID, loop: NullID,
	})
	s.bump()
	return HalfEdgeId(len(s.halfEdges) - 1)
}

// GetHalfEdgeOrigin returns h's origin vertex.
func (s *Store) GetHalfEdgeOrigin(h HalfEdgeId) VertexId { return s.halfEdges[h].origin }

// GetHalfEdgeTwin returns h's twin half-edge (the edge's other side).
func (s *Store) GetHalfEdgeTwin(h HalfEdgeId) HalfEdgeId { return s.halfEdges[h].twin }

// SetHalfEdgeTwin sets a's twin to b and b's twin to a.
func (s *Store) SetHalfEdgeTwin(a, b HalfEdgeId) {
	s.halfEdges[a].twin = b
	s.halfEdges[b].twin = a
	s.bump()
}

// GetHalfEdgeEdge returns h's owning edge.
func (s *Store) GetHalfEdgeEdge(h HalfEdgeId) EdgeId { return s.halfEdges[h].edge }

// GetHalfEdgeNext returns the next half-edge around h's loop.
func (s *Store) GetHalfEdgeNext(h HalfEdgeId) HalfEdgeId { return s.halfEdges[h].next }

// GetHalfEdgePrev returns the previous half-edge around h's loop.
func (s *Store) GetHalfEdgePrev(h HalfEdgeId) HalfEdgeId { return s.halfEdges[h].prev }

// SetHalfEdgeNext links a.next = b and b.prev = a.
func (s *Store) SetHalfEdgeNext(a, b HalfEdgeId) {
	s.halfEdges[a].next = b
	s.halfEdges[b].prev = a
	s.bump()
}

// GetHalfEdgeLoop returns h's owning loop.
func (s *Store) GetHalfEdgeLoop(h HalfEdgeId) LoopId { return s.halfEdges[h].loop }

// SetHalfEdgeLoop assigns h to loop l.
func (s *Store) SetHalfEdgeLoop(h HalfEdgeId, l LoopId) {
	s.halfEdges[h].loop = l
	s.bump()
}

// GetHalfEdgePCurve returns h's attached p-curve, or nil if none.
func (s *Store) GetHalfEdgePCurve(h HalfEdgeId) geom.Curve2 { return s.halfEdges[h].pcurve }

// SetHalfEdgePCurve attaches a p-curve to h.
func (s *Store) SetHalfEdgePCurve(h HalfEdgeId, c geom.Curve2) {
	s.halfEdges[h].pcurve = c
	s.bump()
}

// DeleteHalfEdge marks h deleted.
func (s *Store) DeleteHalfEdge(h HalfEdgeId) {
	s.halfEdges[h].deleted = true
	s.bump()
}

// HalfEdgeDeleted reports whether h has been marked deleted.
func (s *Store) HalfEdgeDeleted(h HalfEdgeId) bool { return s.halfEdges[h].deleted }

// NumHalfEdges returns the total half-edge pool size, including deleted.
func (s *Store) NumHalfEdges() int { return len(s.halfEdges) }

// HalfEdgeDestination returns the vertex at the far end of h (the origin
// of its twin).
func (s *Store) HalfEdgeDestination(h HalfEdgeId) VertexId {
	t := s.halfEdges[h].twin
	if t == NullID {
		// fall back to walking next, which must exist on a closed loop
		return s.halfEdges[s.halfEdges[h].next].origin
	}
	return s.halfEdges[t].origin
}

// AddLoop creates a new loop starting at half-edge first.
func (s *Store) AddLoop(first HalfEdgeId) LoopId {
	s.loops = append(s.loops, loopRec{first: first, face: NullID})
	s.bump()
	return LoopId(len(s.loops) - 1)
}

// GetLoopFirst returns l's first half-edge.
func (s *Store) GetLoopFirst(l LoopId) HalfEdgeId { return s.loops[l].first }

// GetLoopFace returns the face owning loop l.
func (s *Store) GetLoopFace(l LoopId) FaceId { return s.loops[l].face }

// SetLoopFace assigns loop l to face f.
func (s *Store) SetLoopFace(l LoopId, f FaceId) {
	s.loops[l].face = f
	s.bump()
}

// DeleteLoop marks l deleted.
func (s *Store) DeleteLoop(l LoopId) {
	s.loops[l].deleted = true
	s.bump()
}

// LoopDeleted reports whether l has been marked deleted.
func (s *Store) LoopDeleted(l LoopId) bool { return s.loops[l].deleted }

// MaxLoopWalk bounds IterateLoopHalfEdges' safety iteration count.
const MaxLoopWalk = 1 << 20

// IterateLoopHalfEdges returns, eagerly, the half-edges around loop l in
// order, starting from its first half-edge, up to a safety bound (spec
// §4.3 "iterateLoopHalfEdges ... a lazy finite sequence ... with a safety
// bound"). It returns an error if the loop does not close within the
// bound.
func (s *Store) IterateLoopHalfEdges(l LoopId) ([]HalfEdgeId, error) {
	start := s.loops[l].first
	if start == NullID {
		return nil, nil
	}
	var out []HalfEdgeId
	h := start
	for i := 0; i < MaxLoopWalk; i++ {
		out = append(out, h)
		h = s.halfEdges[h].next
		if h == start {
			return out, nil
		}
		if h == NullID {
			return out, errUnclosedLoop
		}
	}
	return out, errLoopWalkOverflow
}

// AddFace creates a new face on the given surface with the given outer
// loop; inner loops (holes) may be added via AddInnerLoop.
func (s *Store) AddFace(surface geom.Surface, outer LoopId) FaceId {
	s.faces = append(s.faces, faceRec{surface: surface, outerLoop: outer, shell: NullID})
	fid := FaceId(len(s.faces) - 1)
	s.loops[outer].face = fid
	s.bump()
	return fid
}

// AddInnerLoop attaches an additional (hole) loop to face f.
func (s *Store) AddInnerLoop(f FaceId, inner LoopId) {
	s.faces[f].innerLoops = append(s.faces[f].innerLoops, inner)
	s.loops[inner].face = f
	s.bump()
}

// GetFaceLoops returns the outer loop followed by all inner (hole) loops
// of face f (spec §3 "the first is the outer loop, the rest are inner").
func (s *Store) GetFaceLoops(f FaceId) []LoopId {
	out := make([]LoopId, 0, 1+len(s.faces[f].innerLoops))
	out = append(out, s.faces[f].outerLoop)
	out = append(out, s.faces[f].innerLoops...)
	return out
}

// GetFaceSurface returns the surface hosting face f.
func (s *Store) GetFaceSurface(f FaceId) geom.Surface { return s.faces[f].surface }

// GetFaceShell returns the shell owning face f.
func (s *Store) GetFaceShell(f FaceId) ShellId { return s.faces[f].shell }

// SetFaceShell assigns face f to shell sh.
func (s *Store) SetFaceShell(f FaceId, sh ShellId) {
	s.faces[f].shell = sh
	s.bump()
}

// FaceReversed reports whether face f's boundary winding is flipped
// relative to its surface's natural orientation.
func (s *Store) FaceReversed(f FaceId) bool { return s.faces[f].reversed }

// SetFaceReversed sets face f's reversed flag.
func (s *Store) SetFaceReversed(f FaceId, reversed bool) {
	s.faces[f].reversed = reversed
	s.bump()
}

// DeleteFace marks f deleted.
func (s *Store) DeleteFace(f FaceId) {
	s.faces[f].deleted = true
	s.bump()
}

// FaceDeleted reports whether f has been marked deleted.
func (s *Store) FaceDeleted(f FaceId) bool { return s.faces[f].deleted }

// NumFaces returns the total face pool size, including deleted slots.
func (s *Store) NumFaces() int { return len(s.faces) }

// AddShell creates a new shell from the given faces.
func (s *Store) AddShell(faces []FaceId, closed bool) ShellId {
	s.shells = append(s.shells, shellRec{faces: append([]FaceId{}, faces...), closed: closed})
	sid := ShellId(len(s.shells) - 1)
	for _, f := range faces {
		s.faces[f].shell = sid
	}
	s.bump()
	return sid
}

// GetShellFaces returns the faces owned by shell sh.
func (s *Store) GetShellFaces(sh ShellId) []FaceId { return s.shells[sh].faces }

// ShellClosed reports whether shell sh is declared manifold-closed.
func (s *Store) ShellClosed(sh ShellId) bool { return s.shells[sh].closed }

// GetShellBody returns the body owning shell sh.
func (s *Store) GetShellBody(sh ShellId) BodyId { return s.shells[sh].body }

// DeleteShell marks sh deleted.
func (s *Store) DeleteShell(sh ShellId) {
	s.shells[sh].deleted = true
	s.bump()
}

// ShellDeleted reports whether sh has been marked deleted.
func (s *Store) ShellDeleted(sh ShellId) bool { return s.shells[sh].deleted }

// AddBody creates a new body from the given shells.
func (s *Store) AddBody(shells []ShellId) BodyId {
	s.bodies = append(s.bodies, bodyRec{shells: append([]ShellId{}, shells...)})
	bid := BodyId(len(s.bodies) - 1)
	for _, sh := range shells {
		s.shells[sh].body = bid
	}
	s.bump()
	return bid
}

// GetBodyShells returns the shells owned by body b.
func (s *Store) GetBodyShells(b BodyId) []ShellId { return s.bodies[b].shells }

// DeleteBody marks b deleted.
func (s *Store) DeleteBody(b BodyId) {
	s.bodies[b].deleted = true
	s.bump()
}

// BodyDeleted reports whether b has been marked deleted.
func (s *Store) BodyDeleted(b BodyId) bool { return s.bodies[b].deleted }

// NumBodies returns the total body pool size, including deleted slots.
func (s *Store) NumBodies() int { return len(s.bodies) }

// Bodies returns the handles of all non-deleted bodies.
func (s *Store) Bodies() []BodyId {
	var out []BodyId
	for i, b := range s.bodies {
		if !b.deleted {
			out = append(out, BodyId(i))
		}
	}
	return out
}

// Stats summarises the store's live (non-deleted) entity counts, as used
// by the seed tests of spec §8 scenario A.
type Stats struct {
	Bodies, Shells, Faces, Loops, Edges, Vertices, HalfEdges int
}

// ComputeStats returns live entity counts across the whole store.
func (s *Store) ComputeStats() Stats {
	var st Stats
	for _, b := range s.bodies {
		if !b.deleted {
			st.Bodies++
		}
	}
	for _, sh := range s.shells {
		if !sh.deleted {
			st.Shells++
		}
	}
	for _, f := range s.faces {
		if !f.deleted {
			st.Faces++
		}
	}
	for _, l := range s.loops {
		if !l.deleted {
			st.Loops++
		}
	}
	for _, e := range s.edges {
		if !e.deleted {
			st.Edges++
		}
	}
	for _, v := range s.vertices {
		if !v.deleted {
			st.Vertices++
		}
	}
	for _, h := range s.halfEdges {
		if !h.deleted {
			st.HalfEdges++
		}
	}
	return st
}
