package topo

import (
	"github.com/solidtype/kernel/numeric"
)

// IssueKind tags a single validation finding (spec §4.3 "Validation").
type IssueKind int

const (
	ZeroLengthEdge IssueKind = iota
	ShortEdge
	ZeroAreaFace
	SliverFace
	NonManifoldEdge
	BoundaryEdge
	Crack
	DuplicateVertex
	PCurveDeviation
)

func (k IssueKind) String() string {
	switch k {
	case ZeroLengthEdge:
		return "zeroLengthEdge"
	case ShortEdge:
		return "shortEdge"
	case ZeroAreaFace:
		return "zeroAreaFace"
	case SliverFace:
		return "sliverFace"
	case NonManifoldEdge:
		return "nonManifoldEdge"
	case BoundaryEdge:
		return "boundaryEdge"
	case Crack:
		return "crack"
	case DuplicateVertex:
		return "duplicateVertex"
	case PCurveDeviation:
		return "pcurveDeviation"
	default:
		return "unknown"
	}
}

// Severity classifies a validation issue.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// Issue is a single validation finding, with the subshape handles it
// concerns stored as a generic []int (callers know the kind-specific
// meaning: vertex/edge/face indices).
type Issue struct {
	Kind     IssueKind
	Severity Severity
	Subjects []int
}

// ValidationReport is the result of Validate (spec §4.3).
type ValidationReport struct {
	Issues       []Issue
	ErrorCount   int
	WarningCount int
}

func (r *ValidationReport) add(kind IssueKind, sev Severity, subjects ...int) {
	r.Issues = append(r.Issues, Issue{Kind: kind, Severity: sev, Subjects: subjects})
	if sev == SeverityError {
		r.ErrorCount++
	} else {
		r.WarningCount++
	}
}

// shortEdgeFactor: edges shorter than lengthTol*shortEdgeFactor but longer
// than lengthTol are "short" warnings rather than zero-length errors.
const shortEdgeFactor = 10

// sameParamSamples is n in spec §4.3 "Same-parameter check" (n>=5) and
// the stronger testable property of spec §8 invariant 3 (n=8); validation
// uses the spec §4.3 minimum.
const sameParamSamples = 5

// Validate walks every body in the store and produces a ValidationReport
// per spec §4.3. errorCount == 0 is the minimum bar for a published body.
func (s *Store) Validate(ctx numeric.Context) ValidationReport {
	var report ValidationReport

	s.validateManifold(ctx, &report)
	s.validateEdgeLengths(ctx, &report)
	s.validateFaceAreas(ctx, &report)
	s.validateDuplicateVertices(ctx, &report)
	s.validatePCurves(ctx, &report)

	return report
}

// validateManifold checks that every edge in a closed shell has exactly
// two half-edges, and flags unreferenced ("boundary") edges otherwise
// (spec §4.3, testable property 1).
func (s *Store) validateManifold(ctx numeric.Context, report *ValidationReport) {
	for ei, e := range s.edges {
		if e.deleted {
			continue
		}
		count := 0
		for _, h := range e.halfEdges {
			if h != NullID && !s.halfEdges[h].deleted {
				count++
			}
		}
		switch count {
		case 2:
			// ok
		case 1:
			// boundary edge: a warning unless its face's shell claims closed
			faceClosed := false
			for _, h := range e.halfEdges {
				if h == NullID || s.halfEdges[h].deleted {
					continue
				}
				l := s.halfEdges[h].loop
				if l == NullID {
					continue
				}
				f := s.loops[l].face
				if f == NullID {
					continue
				}
				sh := s.faces[f].shell
				if sh != NullID && s.shells[sh].closed {
					faceClosed = true
				}
			}
			if faceClosed {
				report.add(NonManifoldEdge, SeverityError, ei)
			} else {
				report.add(BoundaryEdge, SeverityWarning, ei)
			}
		default:
			report.add(NonManifoldEdge, SeverityError, ei)
		}
	}
}

// validateEdgeLengths flags zero-length and short edges.
func (s *Store) validateEdgeLengths(ctx numeric.Context, report *ValidationReport) {
	for ei, e := range s.edges {
		if e.deleted || e.curve3 == nil {
			continue
		}
		l := e.curve3.Length()
		if ctx.ZeroLength(l) {
			report.add(ZeroLengthEdge, SeverityError, ei)
		} else if l < ctx.LengthTol*shortEdgeFactor {
			report.add(ShortEdge, SeverityWarning, ei)
		}
	}
}

// validateFaceAreas flags zero-area and sliver faces by projecting each
// face's outer loop into the surface's (u,v) space and computing the
// shoelace area (spec §4.3, §4.6.2).
func (s *Store) validateFaceAreas(ctx numeric.Context, report *ValidationReport) {
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
			report.add(ZeroAreaFace, SeverityError, fi)
		} else if area < ctx.LengthTol*ctx.LengthTol*shortEdgeFactor {
			report.add(SliverFace, SeverityWarning, fi)
		}
	}
}

// FaceOuterLoopUVArea returns the signed shoelace area of face f's outer
// loop in its surface's (u,v) space.
func (s *Store) FaceOuterLoopUVArea(f FaceId) (float64, error) {
	loop := s.faces[f].outerLoop
	hes, err := s.IterateLoopHalfEdges(loop)
	if err != nil {
		return 0, err
	}
	surf := s.faces[f].surface
	var area float64
	n := len(hes)
	pts := make([][2]float64, n)
	for i, h := range hes {
		v := s.vertices[s.halfEdges[h].origin].pos
		u, vv := surf.Inverse(v)
		pts[i] = [2]float64{u, vv}
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += pts[i][0]*pts[j][1] - pts[j][0]*pts[i][1]
	}
	return area / 2, nil
}

// validateDuplicateVertices flags vertex pairs closer than LengthTol that
// healing's welding pass would merge (reported before healing runs).
func (s *Store) validateDuplicateVertices(ctx numeric.Context, report *ValidationReport) {
	for i := 0; i < len(s.vertices); i++ {
		if s.vertices[i].deleted {
			continue
		}
		for j := i + 1; j < len(s.vertices); j++ {
			if s.vertices[j].deleted {
				continue
			}
			if s.vertices[i].pos.Equals(s.vertices[j].pos, ctx.LengthTol) {
				report.add(DuplicateVertex, SeverityWarning, i, j)
			}
		}
	}
}

// validatePCurves samples each p-curved half-edge at sameParamSamples
// uniform parameters and verifies the "same-parameter" invariant of
// spec §3/§4.3: surface.eval(pcurve.eval(t)) == edge.eval(t) within
// LengthTol.
func (s *Store) validatePCurves(ctx numeric.Context, report *ValidationReport) {
	for hi, he := range s.halfEdges {
		if he.deleted || he.pcurve == nil {
			continue
		}
		l := he.loop
		if l == NullID {
			continue
		}
		f := s.loops[l].face
		if f == NullID {
			continue
		}
		surf := s.faces[f].surface
		edgeCurve := s.edges[he.edge].curve3
		if edgeCurve == nil {
			continue
		}
		for i := 0; i < sameParamSamples; i++ {
			t := float64(i) / float64(sameParamSamples-1)
			uv := he.pcurve.Eval(t)
			p3 := surf.Eval(uv.X, uv.Y)
			q3 := edgeCurve.Eval(t)
			if p3.Distance(q3) > ctx.LengthTol {
				report.add(PCurveDeviation, SeverityError, hi)
				break
			}
		}
	}
}
