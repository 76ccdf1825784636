package boolean

import (
	"github.com/dhconnelly/rtreego"

	"github.com/solidtype/kernel/topo"
	v3 "github.com/solidtype/kernel/vec/v3"
)

// rtree branching factors; the teacher's manifest pins rtreego for exactly
// this kind of spatial-overlap query (SPEC_FULL.md §B).
const (
	rtreeMinChildren = 2
	rtreeMaxChildren = 8
	rtreeDim         = 3
)

// boxMargin is the minimum extent rtreego.NewRect tolerates along any
// axis; a face's bounding box can be degenerate along its own normal.
const boxMargin = 1e-9

type faceLeaf struct {
	face  topo.FaceId
	rect  *rtreego.Rect
	world v3.Box
}

// Bounds implements rtreego.Spatial.
func (l *faceLeaf) Bounds() *rtreego.Rect { return l.rect }

// FaceIndex is an r-tree over one body's faces' world-space bounding
// boxes, shared by the boolean pipeline's candidate-pair selection (spec
// §4.6.1 step 1) and session's ray-pick (spec §6), per SPEC_FULL.md §C.
type FaceIndex struct {
	tree  *rtreego.Tree
	boxes map[topo.FaceId]v3.Box
}

func boxToRect(b v3.Box) *rtreego.Rect {
	size := b.Size()
	lengths := []float64{size.X, size.Y, size.Z}
	for i := range lengths {
		if lengths[i] < boxMargin {
			lengths[i] = boxMargin
		}
	}
	rect, err := rtreego.NewRect(rtreego.Point{b.Min.X, b.Min.Y, b.Min.Z}, lengths)
	if err != nil {
		// A non-positive length after the margin clamp above cannot
		// happen; rtreego only rejects degenerate input.
		panic(err)
	}
	return rect
}

// faceBoundingBox returns the world-space AABB of face f, computed from
// every vertex reachable from its outer and inner loops.
func faceBoundingBox(store *topo.Store, f topo.FaceId) (v3.Box, bool) {
	var box v3.Box
	first := true
	for _, l := range store.GetFaceLoops(f) {
		hes, err := store.IterateLoopHalfEdges(l)
		if err != nil {
			continue
		}
		for _, h := range hes {
			p := store.GetVertexPosition(store.GetHalfEdgeOrigin(h))
			if first {
				box = v3.Box{Min: p, Max: p}
				first = false
			} else {
				box = box.Extend(p)
			}
		}
	}
	return box, !first
}

// BuildFaceIndex indexes every live face of body's shells by world-space
// bounding box.
func BuildFaceIndex(store *topo.Store, body topo.BodyId) *FaceIndex {
	idx := &FaceIndex{
		tree:  rtreego.NewTree(rtreeDim, rtreeMinChildren, rtreeMaxChildren),
		boxes: make(map[topo.FaceId]v3.Box),
	}
	for _, sh := range store.GetBodyShells(body) {
		if store.ShellDeleted(sh) {
			continue
		}
		for _, f := range store.GetShellFaces(sh) {
			if store.FaceDeleted(f) {
				continue
			}
			box, ok := faceBoundingBox(store, f)
			if !ok {
				continue
			}
			idx.boxes[f] = box
			idx.tree.Insert(&faceLeaf{face: f, rect: boxToRect(box), world: box})
		}
	}
	return idx
}

// Overlapping returns every face in other whose padded bounding box
// overlaps f's bounding box in this index (spec §4.6.1 step 1).
func (idx *FaceIndex) Overlapping(other *FaceIndex, f topo.FaceId, pad float64) []topo.FaceId {
	box, ok := idx.boxes[f]
	if !ok {
		return nil
	}
	hits := other.tree.SearchIntersect(boxToRect(box.Pad(pad)))
	out := make([]topo.FaceId, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(*faceLeaf).face)
	}
	return out
}

// Faces returns every face handle currently indexed.
func (idx *FaceIndex) Faces() []topo.FaceId {
	out := make([]topo.FaceId, 0, len(idx.boxes))
	for f := range idx.boxes {
		out = append(out, f)
	}
	return out
}

// Box returns f's indexed bounding box.
func (idx *FaceIndex) Box(f topo.FaceId) (v3.Box, bool) {
	b, ok := idx.boxes[f]
	return b, ok
}

// RayCandidates returns every face whose bounding box the ray (origin,
// dir) could plausibly hit, found by querying the r-tree with a box built
// from the ray's parametric span up to maxDist (spec §6 "Ray-pick",
// SPEC_FULL.md §C: "implemented against the r-tree built for boolean
// face-pair selection").
func (idx *FaceIndex) RayCandidates(origin, dir v3.Vec, maxDist float64) []topo.FaceId {
	end := origin.Add(dir.Normalize().MulScalar(maxDist))
	box := v3.NewBox(origin, end).Pad(boxMargin)
	hits := idx.tree.SearchIntersect(boxToRect(box))
	out := make([]topo.FaceId, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(*faceLeaf).face)
	}
	return out
}
