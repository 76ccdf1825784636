package boolean

import (
	"math"

	"github.com/solidtype/kernel/geom"
	"github.com/solidtype/kernel/numeric"
	"github.com/solidtype/kernel/topo"
	v2 "github.com/solidtype/kernel/vec/v2"
	v3 "github.com/solidtype/kernel/vec/v3"
)

// classifyPiece decides piece p's relationship to other, per spec §4.6.3
// "Piece classification": coincident-plane pieces are tagged on_same or
// on_opposite by comparing face normals; every other piece is classified
// by a stabbing ray cast from its centroid, with parity giving
// inside/outside. A ray that passes too close to another face's edge or
// vertex is ambiguous and is retried, up to maxRetries times, along a
// slightly rotated direction (spec §4.6.4 "up to 3 retries before
// declaring ambiguity").
func classifyPiece(store *topo.Store, ctx numeric.Context, p piece, other topo.BodyId, maxRetries int) (pieceClass, bool) {
	plane := planeOf(store, p.face)
	centroid3D := worldPoint(plane, polygonCentroid(p.loop))

	if cls, found := coincidentClass(store, ctx, plane, centroid3D, other); found {
		return cls, false
	}

	dir := plane.Normal
	for attempt := 0; attempt <= maxRetries; attempt++ {
		inside, ambiguous := stabInside(store, ctx, centroid3D, dir, other)
		if !ambiguous {
			if inside {
				return classInside, false
			}
			return classOutside, false
		}
		dir = nudgeDirection(dir, attempt)
	}
	return classOutside, true
}

// otherFaces lists every live face of body; callers have already verified
// (via planarFaces, at the top of Boolean) that the body is all-planar.
func otherFaces(store *topo.Store, body topo.BodyId) []topo.FaceId {
	var out []topo.FaceId
	for _, sh := range store.GetBodyShells(body) {
		if store.ShellDeleted(sh) {
			continue
		}
		for _, f := range store.GetShellFaces(sh) {
			if store.FaceDeleted(f) {
				continue
			}
			out = append(out, f)
		}
	}
	return out
}

// coincidentClass checks whether centroid3D lies on a face of other whose
// plane coincides with plane (same origin offset along a parallel
// normal), resolving the documented on_same/on_opposite tie per spec
// §4.6.3.
func coincidentClass(store *topo.Store, ctx numeric.Context, plane geom.Plane, centroid3D v3.Vec, other topo.BodyId) (pieceClass, bool) {
	for _, g := range otherFaces(store, other) {
		gp := planeOf(store, g)
		if gp.Normal.Cross(plane.Normal).Length() > ctx.AngleTol {
			continue
		}
		offsetDiff := gp.Origin.Sub(plane.Origin).Dot(plane.Normal)
		if !ctx.ZeroLength(offsetDiff) {
			continue
		}
		poly, err := facePolygonUV(store, ctx, g, gp)
		if err != nil || len(poly) < 3 {
			continue
		}
		u, v := gp.Inverse(centroid3D)
		p2 := v2.Vec{X: u, Y: v}
		if polygonBoundaryDistance(p2, poly) < ctx.LengthTol {
			continue
		}
		if !pointInPolygon(p2, poly) {
			continue
		}
		if gp.Normal.Dot(plane.Normal) > 0 {
			return classOnSame, true
		}
		return classOnOpposite, true
	}
	return classOutside, false
}

// stabInside casts a ray from origin along dir and counts parity
// crossings with other's faces. A hit landing within LengthTol of a
// face's boundary is reported ambiguous rather than risking a missed or
// double count.
func stabInside(store *topo.Store, ctx numeric.Context, origin, dir v3.Vec, body topo.BodyId) (inside bool, ambiguous bool) {
	count := 0
	for _, g := range otherFaces(store, body) {
		gp := planeOf(store, g)
		denom := dir.Dot(gp.Normal)
		if math.Abs(denom) < 1e-9 {
			continue
		}
		t := gp.Origin.Sub(origin).Dot(gp.Normal) / denom
		if t <= ctx.LengthTol {
			continue
		}
		hit := origin.Add(dir.MulScalar(t))
		poly, err := facePolygonUV(store, ctx, g, gp)
		if err != nil || len(poly) < 3 {
			continue
		}
		u, v := gp.Inverse(hit)
		p2 := v2.Vec{X: u, Y: v}
		if polygonBoundaryDistance(p2, poly) < ctx.LengthTol {
			return false, true
		}
		if pointInPolygon(p2, poly) {
			count++
		}
	}
	return count%2 == 1, false
}

func polygonBoundaryDistance(p v2.Vec, poly []v2.Vec) float64 {
	best := math.MaxFloat64
	n := len(poly)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		if d := pointSegmentDistance(p, poly[i], poly[j]); d < best {
			best = d
		}
	}
	return best
}

func pointSegmentDistance(p, a, b v2.Vec) float64 {
	ab := b.Sub(a)
	len2 := ab.Length2()
	if len2 == 0 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / len2
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return p.Distance(a.Add(ab.MulScalar(t)))
}

// nudgeDirection rotates dir by a small, attempt-dependent angle about an
// axis not parallel to it, used to retry an ambiguous stabbing ray.
func nudgeDirection(dir v3.Vec, attempt int) v3.Vec {
	axis := v3.Vec{X: 0, Y: 0, Z: 1}
	if math.Abs(dir.Normalize().Dot(axis)) > 0.9 {
		axis = v3.Vec{X: 0, Y: 1, Z: 0}
	}
	angle := float64(attempt+1) * 0.017
	return v3.RotateAxis(axis, angle).MulDir(dir).Normalize()
}

// resolveOnSameTies implements spec §4.6.3's documented tie-break for
// coincident on_same faces: when both bodies contribute an on_same piece
// at the same location, only the piece from the smaller body id survives
// as on_same; the other is demoted to on_opposite, a class no operation's
// selection formula keeps, so it is dropped rather than duplicated in the
// result.
func resolveOnSameTies(pieces []piece, a, b topo.BodyId) []piece {
	keep := a
	if b < a {
		keep = b
	}
	for i := range pieces {
		if pieces[i].class != classOnSame {
			continue
		}
		bodyOfPiece := a
		if !pieces[i].fromBodyA {
			bodyOfPiece = b
		}
		if bodyOfPiece != keep {
			pieces[i].class = classOnOpposite
		}
	}
	return pieces
}

// selectPieces applies the boolean formula for op over every classified
// piece, per spec §4.6.1 step 6 "Operations":
//
//	union:     outside(A) ∪ outside(B) ∪ on_same
//	subtract:  outside(A) ∪ inside(B)   [B's outside and on_* dropped]
//	intersect: inside(A) ∪ inside(B) ∪ on_same
func selectPieces(pieces []piece, op Op) []piece {
	var out []piece
	for _, p := range pieces {
		switch op {
		case Union:
			if p.class == classOutside || p.class == classOnSame {
				out = append(out, p)
			}
		case Subtract:
			if p.fromBodyA && p.class == classOutside {
				out = append(out, p)
			}
			if !p.fromBodyA && p.class == classInside {
				// B's faces inside A become part of the result's
				// boundary but must face outward from the remaining
				// solid, opposite their original orientation.
				p.flip = true
				out = append(out, p)
			}
		case Intersect:
			if p.class == classInside || p.class == classOnSame {
				out = append(out, p)
			}
		}
	}
	return out
}
