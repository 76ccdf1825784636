package topo

import (
	"github.com/solidtype/kernel/numeric"
)

// unionFind is a small array-based disjoint-set structure used by vertex
// welding (spec §4.3 "vertex welding — union-find over vertices").
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
}

// HealingResult summarises the healing pass's effect (spec §4.3).
type HealingResult struct {
	VertsMerged  int
	EdgesMerged  int
	FacesCulled  int
	StillInvalid bool
}

// Heal runs, in order: vertex welding, colinear-edge merging, sliver-face
// culling, and re-validation (spec §4.3 "Healing").
func (s *Store) Heal(ctx numeric.Context) HealingResult {
	var result HealingResult
	result.VertsMerged = s.weldVertices(ctx)
	result.EdgesMerged = s.mergeColinearEdges(ctx)
	result.FacesCulled = s.cullSliverFaces(ctx)
	report := s.Validate(ctx)
	result.StillInvalid = report.ErrorCount > 0
	return result
}

// weldVertices unions vertices within LengthTol of each other and
// rewrites every half-edge's origin to the union's representative,
// returning the number of vertices merged away.
func (s *Store) weldVertices(ctx numeric.Context) int {
	n := len(s.vertices)
	uf := newUnionFind(n)
	for i := 0; i < n; i++ {
		if s.vertices[i].deleted {
			continue
		}
		for j := i + 1; j < n; j++ {
			if s.vertices[j].deleted {
				continue
			}
			if s.vertices[i].pos.Equals(s.vertices[j].pos, ctx.LengthTol) {
				uf.union(i, j)
			}
		}
	}

	merged := 0
	repOf := make([]int, n)
	for i := 0; i < n; i++ {
		repOf[i] = uf.find(i)
		if repOf[i] != i {
			merged++
		}
	}

	if merged == 0 {
		return 0
	}

	for hi := range s.halfEdges {
		if s.halfEdges[hi].deleted {
			continue
		}
		orig := int(s.halfEdges[hi].origin)
		rep := repOf[orig]
		if rep != orig {
			s.halfEdges[hi].origin = VertexId(rep)
		}
	}
	for i := 0; i < n; i++ {
		if repOf[i] != i {
			s.vertices[i].deleted = true
		}
	}
	s.bump()
	return merged
}

// mergeColinearEdges merges adjacent edges in every loop whose turn
// cosine exceeds 1 - AngleTol, i.e. whose shared vertex is effectively
// straight (spec §4.3 step 2). Every edge is tested the same way, by the
// chord directions colinearTurn compares, whether its curve is straight
// or curved.
func (s *Store) mergeColinearEdges(ctx numeric.Context) int {
	merged := 0
	for li := range s.loops {
		if s.loops[li].deleted {
			continue
		}
		hes, err := s.IterateLoopHalfEdges(LoopId(li))
		if err != nil || len(hes) < 3 {
			continue
		}
		for idx := 0; idx < len(hes); idx++ {
			h1 := hes[idx]
			h2 := hes[(idx+1)%len(hes)]
			if s.halfEdges[h1].deleted || s.halfEdges[h2].deleted {
				continue
			}
			if s.colinearTurn(ctx, h1, h2) {
				s.mergeHalfEdgePair(h1, h2)
				merged++
			}
		}
	}
	return merged
}

// colinearTurn reports whether the turn at the shared vertex of h1->h2
// is within AngleTol of straight, using each half-edge's chord direction
// (endpoint-to-endpoint), which is exact for straight edges and a
// reasonable proxy near the shared vertex for curved ones.
func (s *Store) colinearTurn(ctx numeric.Context, h1, h2 HalfEdgeId) bool {
	o1 := s.vertices[s.halfEdges[h1].origin].pos
	d1 := s.vertices[s.HalfEdgeDestination(h1)].pos
	d2 := s.vertices[s.HalfEdgeDestination(h2)].pos
	v1 := d1.Sub(o1).Normalize()
	v2 := d2.Sub(d1).Normalize()
	if v1.Length() == 0 || v2.Length() == 0 {
		return false
	}
	cosTurn := v1.Dot(v2)
	return cosTurn > 1-ctx.AngleTol
}

// mergeHalfEdgePair splices h2 out of the loop by extending h1 to h2's
// destination and removing h2 (and its twin on the other side, if any).
func (s *Store) mergeHalfEdgePair(h1, h2 HalfEdgeId) {
	next := s.halfEdges[h2].next
	s.halfEdges[h1].next = next
	s.halfEdges[next].prev = h1
	s.halfEdges[h2].deleted = true
	s.edges[s.halfEdges[h2].edge].deleted = true
	s.bump()
}

// cullSliverFaces deletes faces whose outer-loop UV area is below
// LengthTol^2 (spec §4.3 step 3).
func (s *Store) cullSliverFaces(ctx numeric.Context) int {
	culled := 0
	for fi, f := range s.faces {
		if f.deleted {
			continue
		}
		area, err := s.FaceOuterLoopUVArea(FaceId(fi))
		if err != nil {
			continue
		}
		if area < 0 {
			area = -area
		}
		if area < ctx.LengthTol*ctx.LengthTol {
			s.faces[fi].deleted = true
			culled++
		}
	}
	if culled > 0 {
		s.bump()
	}
	return culled
}
