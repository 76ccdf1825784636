// Package boolean implements the planar boolean engine of spec §4.6: face
// -pair candidate selection, face-face intersection, a per-face DCEL
// rebuild, piece classification against the other body, and stitching the
// surviving pieces into a new published body.
//
// Scope, per spec §4.6 "Boolean (B)": only bodies whose faces are all
// planes are supported; if either input body has a face of any other
// surface kind, the whole operation is reported as Unsupported rather than
// silently mishandled.
package boolean

import (
	"fmt"

	"github.com/solidtype/kernel/geom"
	"github.com/solidtype/kernel/numeric"
	"github.com/solidtype/kernel/topo"
)

// Op selects the boolean operation (spec §4.6 "Operations").
type Op int

const (
	Union Op = iota
	Subtract
	Intersect
)

func (o Op) String() string {
	switch o {
	case Union:
		return "union"
	case Subtract:
		return "subtract"
	case Intersect:
		return "intersect"
	default:
		return "unknown"
	}
}

// Status is the boolean's outcome classification (spec §4.6.4 "Failure
// semantics": "ok | degenerate | nonManifold | bug").
type Status int

const (
	StatusOK Status = iota
	StatusDegenerate
	StatusNonManifold
	StatusBug
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDegenerate:
		return "degenerate"
	case StatusNonManifold:
		return "nonManifold"
	default:
		return "bug"
	}
}

// Result is Boolean's return value. A non-OK Status never has Body set;
// per spec §4.6.4 "never publish an invalid body."
type Result struct {
	Status Status
	Body   topo.BodyId
	Report topo.ValidationReport
	Err    error
}

// ErrNonPlanarFace is returned (wrapped into a StatusBug-free "unsupported"
// condition at the session layer) when either input body has a face whose
// surface is not a plane; spec §4.6 documents only a hook for future curved
// -surface support, not an implementation.
var ErrNonPlanarFace = fmt.Errorf("boolean: only planar faces are supported by this engine")

// maxAmbiguityRetries bounds the offset-and-retry loop of spec §4.6.4: "up
// to 3 retries before declaring ambiguity."
const maxAmbiguityRetries = 3

// Boolean runs the full pipeline of spec §4.6.1 over bodies a and b,
// producing a new body in store for a union/subtract/intersect operation.
func Boolean(store *topo.Store, ctx numeric.Context, a, b topo.BodyId, op Op) Result {
	facesA, err := planarFaces(store, a)
	if err != nil {
		return Result{Status: StatusBug, Err: err}
	}
	facesB, err := planarFaces(store, b)
	if err != nil {
		return Result{Status: StatusBug, Err: err}
	}

	idxA := BuildFaceIndex(store, a)
	idxB := BuildFaceIndex(store, b)

	// Step 1: face-pair candidate selection via r-tree box overlap.
	segByFace := make(map[topo.FaceId][]segment)
	for _, fa := range facesA {
		for _, fb := range idxA.Overlapping(idxB, fa, ctx.LengthTol) {
			// Step 2: face-face intersection.
			pairSegs, ok := intersectFacePair(store, ctx, fa, fb)
			if !ok {
				continue
			}
			segByFace[fa] = append(segByFace[fa], pairSegs.a...)
			segByFace[fb] = append(segByFace[fb], pairSegs.b...)
		}
	}

	// Step 3: collect each face's own boundary segments alongside the
	// intersection segments produced against the other body.
	allFaces := append(append([]topo.FaceId{}, facesA...), facesB...)
	for _, f := range allFaces {
		boundary, err := faceBoundarySegments(store, f)
		if err != nil {
			return Result{Status: StatusBug, Err: err}
		}
		segByFace[f] = append(segByFace[f], boundary...)
	}

	// Step 4+5: DCEL build and piece classification, per face.
	var allPieces []piece
	for _, f := range allFaces {
		fromA := containsFace(facesA, f)
		other := b
		if !fromA {
			other = a
		}
		pieces, err := buildFacePieces(store, ctx, f, segByFace[f])
		if err != nil {
			return Result{Status: StatusDegenerate, Err: err}
		}
		for i := range pieces {
			pieces[i].fromBodyA = fromA
			cls, ambiguous := classifyPiece(store, ctx, pieces[i], other, maxAmbiguityRetries)
			if ambiguous {
				return Result{Status: StatusDegenerate, Err: fmt.Errorf("boolean: face %d: classification ambiguous after %d retries", f, maxAmbiguityRetries)}
			}
			pieces[i].class = cls
		}
		allPieces = append(allPieces, pieces...)
	}

	// Tie-break for on_same coincident faces: keep the piece from the
	// smaller body id (spec §4.6.3).
	allPieces = resolveOnSameTies(allPieces, a, b)

	// Step 6: piece selection per operation.
	selected := selectPieces(allPieces, op)

	// Step 7: stitch.
	body, err := stitch(store, ctx, selected)
	if err != nil {
		return Result{Status: StatusNonManifold, Err: err}
	}

	// Step 8: heal & validate.
	healing := store.Heal(ctx)
	report := store.Validate(ctx)
	if healing.StillInvalid || report.ErrorCount > 0 {
		deleteBodyCascade(store, body)
		return Result{Status: StatusNonManifold, Report: report, Err: fmt.Errorf("boolean: result failed validation with %d error(s)", report.ErrorCount)}
	}

	return Result{Status: StatusOK, Body: body, Report: report}
}

func containsFace(fs []topo.FaceId, f topo.FaceId) bool {
	for _, x := range fs {
		if x == f {
			return true
		}
	}
	return false
}

func planarFaces(store *topo.Store, body topo.BodyId) ([]topo.FaceId, error) {
	var out []topo.FaceId
	for _, sh := range store.GetBodyShells(body) {
		if store.ShellDeleted(sh) {
			continue
		}
		for _, f := range store.GetShellFaces(sh) {
			if store.FaceDeleted(f) {
				continue
			}
			if store.GetFaceSurface(f).Kind() != geom.SurfacePlane {
				return nil, fmt.Errorf("%w: body %d face %d is %s", ErrNonPlanarFace, body, f, store.GetFaceSurface(f).Kind())
			}
			out = append(out, f)
		}
	}
	return out, nil
}

// deleteBodyCascade removes a body (and its shells/faces) that failed
// post-stitch validation, so nothing invalid remains reachable in the
// store (spec §4.6.4 "never publish an invalid body").
func deleteBodyCascade(store *topo.Store, b topo.BodyId) {
	for _, sh := range store.GetBodyShells(b) {
		for _, f := range store.GetShellFaces(sh) {
			store.DeleteFace(f)
		}
		store.DeleteShell(sh)
	}
	store.DeleteBody(b)
}
