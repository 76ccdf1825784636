package model

import (
	"fmt"

	"github.com/solidtype/kernel/boolean"
	"github.com/solidtype/kernel/numeric"
	"github.com/solidtype/kernel/topo"
	v3 "github.com/solidtype/kernel/vec/v3"
)

// FeatureKind tags which operation a Feature record represents (spec §3
// "Features and checkpoints").
type FeatureKind int

const (
	FeatureCreateBox FeatureKind = iota
	FeatureCreateCylinder
	FeatureCreateSphere
	FeatureCreateCone
	FeatureCreateTorus
	FeatureExtrude
	FeatureRevolve
	FeatureBoolean
)

func (k FeatureKind) String() string {
	switch k {
	case FeatureCreateBox:
		return "createBox"
	case FeatureCreateCylinder:
		return "createCylinder"
	case FeatureCreateSphere:
		return "createSphere"
	case FeatureCreateCone:
		return "createCone"
	case FeatureCreateTorus:
		return "createTorus"
	case FeatureExtrude:
		return "extrude"
	case FeatureRevolve:
		return "revolve"
	case FeatureBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// FeatureId identifies a feature within a single model's feature list.
// Stable within one rebuild; a rebuild may renumber nothing (ids are
// assigned once, at append time) but the handles it produces can shift
// across rebuilds, which is why persistent naming exists (spec §5).
type FeatureId int

// FeatureOutput is the common shape every feature operation produces: the
// bodies it added or replaced, plus a local-selector -> face map the
// naming layer records per feature (spec §4.5, §6 "FeatureOutput").
type FeatureOutput struct {
	Bodies []topo.BodyId
	Faces  map[string]topo.FaceId
}

// featureExecutor runs one feature's geometry construction against the
// shared store, returning its output, any non-fatal warnings, and an
// error if the feature could not be built at all.
type featureExecutor func(store *topo.Store) (FeatureOutput, []string, error)

// Feature is an operation record: kind, id, the bodies it consumes, and
// the parameters it was built with (spec §3). Params is kept as the
// concrete options/value struct the caller passed (e.g. ExtrudeOptions)
// so a future editor UI can read back and re-edit them; execute is the
// closure bound at append time that actually performs the operation.
type Feature struct {
	Kind    FeatureKind
	ID      FeatureId
	Inputs  []topo.BodyId
	Params  interface{}
	execute featureExecutor
}

// SubshapeRef is a feature-local face reference recorded in a checkpoint,
// the raw material persistent naming (spec §5) builds fingerprints from.
type SubshapeRef struct {
	FeatureID FeatureId
	Selector  string
	Face      topo.FaceId
}

// Checkpoint records, post-execution, everything spec §3 names: whether
// the feature succeeded, the bodies it produced, the subshape refs it
// created, any diagnostics (healing summary, warnings), and errors.
type Checkpoint struct {
	FeatureID           FeatureId
	Success             bool
	ProducedBodies      []topo.BodyId
	CreatedSubshapeRefs []SubshapeRef
	Diagnostics         []string
	Errors              []error
}

// HealingFailedError reports that Heal ran after a feature but the
// resulting topology still fails validation (spec §7 category
// "healingError"). Report is the post-heal validation report.
type HealingFailedError struct {
	Healing topo.HealingResult
	Report  topo.ValidationReport
}

func (e *HealingFailedError) Error() string {
	return fmt.Sprintf("model: healing left %d validation error(s) (welded %d verts, merged %d edges, culled %d faces)",
		e.Report.ErrorCount, e.Healing.VertsMerged, e.Healing.EdgesMerged, e.Healing.FacesCulled)
}

// YieldSignal is returned by a caller-supplied ShouldYieldFunc between
// features (spec §5 "Suspension points").
type YieldSignal int

const (
	YieldContinue YieldSignal = iota
	YieldPause
	YieldCancel
)

// ShouldYieldFunc lets a host scheduler interleave other work between
// feature executions, or cancel a rebuild in progress.
type ShouldYieldFunc func() YieldSignal

// RebuildStatus reports how a Pipeline.Run call ended.
type RebuildStatus int

const (
	RebuildCompleted RebuildStatus = iota
	RebuildPaused
	RebuildCancelled
)

// ResumeState is the resumable state object spec §5 describes: calling
// Run again on the same Pipeline continues from NextIndex.
type ResumeState struct {
	NextIndex int
}

// RebuildResult is Pipeline.Run's return value.
type RebuildResult struct {
	Status      RebuildStatus
	Resume      *ResumeState
	Checkpoints []Checkpoint
}

// Pipeline is a model's feature list plus its execution history (spec §3
// "Features and checkpoints"). It owns no geometry directly; Store does.
// The kernel runs single-threaded within one model instance (spec §5),
// so Pipeline has no internal synchronization.
type Pipeline struct {
	Store       *topo.Store
	Ctx         numeric.Context
	Features    []Feature
	Checkpoints []Checkpoint

	// Verbose prints feature-list stage transitions (SPEC_FULL.md §A.1
	// "a handful of fmt.Printf progress lines in the long pipelines that
	// benefit from them"); off by default, same convention as
	// session.Session.Verbose, which sets this before every Run so a
	// caller only has to toggle one flag.
	Verbose bool

	cursor              int
	lastValidCheckpoint int // index into Checkpoints, -1 if none yet
	nextFeatureID       FeatureId
}

// NewPipeline creates an empty feature list over an existing store, using
// ctx (or numeric.DefaultContext() if none is given) for every
// tolerance-dependent operation the pipeline itself drives: post-feature
// healing/validation and the boolean feature's own solve (spec §6
// "Session::new(tol?)" — the session's configured tolerance must reach
// every downstream geometric operation, not just the ones invoked
// directly against the store).
func NewPipeline(store *topo.Store, ctx ...numeric.Context) *Pipeline {
	c := numeric.DefaultContext()
	if len(ctx) > 0 {
		c = ctx[0]
	}
	return &Pipeline{Store: store, Ctx: c, lastValidCheckpoint: -1}
}

// LastValidCheckpoint returns the most recent successful checkpoint and
// true, or the zero value and false if none has succeeded yet.
func (p *Pipeline) LastValidCheckpoint() (Checkpoint, bool) {
	if p.lastValidCheckpoint < 0 {
		return Checkpoint{}, false
	}
	return p.Checkpoints[p.lastValidCheckpoint], true
}

func (p *Pipeline) append(kind FeatureKind, inputs []topo.BodyId, params interface{}, exec featureExecutor) Feature {
	f := Feature{Kind: kind, ID: p.nextFeatureID, Inputs: inputs, Params: params, execute: exec}
	p.nextFeatureID++
	p.Features = append(p.Features, f)
	return f
}

// AddCreateBox appends a box-primitive feature.
func (p *Pipeline) AddCreateBox(width, depth, height float64, center v3.Vec) Feature {
	params := struct {
		Width, Depth, Height float64
		Center               v3.Vec
	}{width, depth, height, center}
	return p.append(FeatureCreateBox, nil, params, func(store *topo.Store) (FeatureOutput, []string, error) {
		res, err := CreateBox(store, width, depth, height, center)
		if err != nil {
			return FeatureOutput{}, nil, err
		}
		return FeatureOutput{Bodies: []topo.BodyId{res.Body}, Faces: res.Faces}, nil, nil
	})
}

// AddCreateCylinder appends a cylinder-primitive feature.
func (p *Pipeline) AddCreateCylinder(height, radius float64) Feature {
	params := struct{ Height, Radius float64 }{height, radius}
	return p.append(FeatureCreateCylinder, nil, params, func(store *topo.Store) (FeatureOutput, []string, error) {
		res, err := CreateCylinder(store, height, radius)
		if err != nil {
			return FeatureOutput{}, nil, err
		}
		return FeatureOutput{Bodies: []topo.BodyId{res.Body}, Faces: res.Faces}, nil, nil
	})
}

// AddCreateSphere appends a sphere-primitive feature.
func (p *Pipeline) AddCreateSphere(radius float64, center v3.Vec) Feature {
	params := struct {
		Radius float64
		Center v3.Vec
	}{radius, center}
	return p.append(FeatureCreateSphere, nil, params, func(store *topo.Store) (FeatureOutput, []string, error) {
		res, err := CreateSphere(store, radius, center)
		if err != nil {
			return FeatureOutput{}, nil, err
		}
		return FeatureOutput{Bodies: []topo.BodyId{res.Body}, Faces: res.Faces}, nil, nil
	})
}

// AddCreateCone appends a cone-primitive feature.
func (p *Pipeline) AddCreateCone(height, baseRadius float64) Feature {
	params := struct{ Height, BaseRadius float64 }{height, baseRadius}
	return p.append(FeatureCreateCone, nil, params, func(store *topo.Store) (FeatureOutput, []string, error) {
		res, err := CreateCone(store, height, baseRadius)
		if err != nil {
			return FeatureOutput{}, nil, err
		}
		return FeatureOutput{Bodies: []topo.BodyId{res.Body}, Faces: res.Faces}, nil, nil
	})
}

// AddCreateTorus appends a torus-primitive feature.
func (p *Pipeline) AddCreateTorus(majorRadius, minorRadius float64, center v3.Vec) Feature {
	params := struct {
		MajorRadius, MinorRadius float64
		Center                   v3.Vec
	}{majorRadius, minorRadius, center}
	return p.append(FeatureCreateTorus, nil, params, func(store *topo.Store) (FeatureOutput, []string, error) {
		res, err := CreateTorus(store, majorRadius, minorRadius, center)
		if err != nil {
			return FeatureOutput{}, nil, err
		}
		return FeatureOutput{Bodies: []topo.BodyId{res.Body}, Faces: res.Faces}, nil, nil
	})
}

// AddExtrude appends an extrude feature over a profile that was built
// independently of the feature list (sketches are not yet modeling-tree
// inputs in this kernel; see spec §4.4).
func (p *Pipeline) AddExtrude(profile Profile, opts ExtrudeOptions) Feature {
	return p.append(FeatureExtrude, nil, opts, func(store *topo.Store) (FeatureOutput, []string, error) {
		res, err := Extrude(store, profile, opts)
		if err != nil {
			return FeatureOutput{}, nil, err
		}
		return FeatureOutput{Bodies: []topo.BodyId{res.Body}, Faces: res.Faces}, nil, nil
	})
}

// AddRevolve appends a revolve feature over a profile.
func (p *Pipeline) AddRevolve(profile Profile, opts RevolveOptions) Feature {
	return p.append(FeatureRevolve, nil, opts, func(store *topo.Store) (FeatureOutput, []string, error) {
		res, err := Revolve(store, p.Ctx, profile, opts)
		if err != nil {
			return FeatureOutput{}, nil, err
		}
		return FeatureOutput{Bodies: []topo.BodyId{res.Body}, Faces: res.Faces}, nil, nil
	})
}

// AddBoolean appends a boolean feature consuming bodies a and b (spec
// §4.6, §6 "boolean(a, b, op)"). The produced FeatureOutput names each
// surviving face by its own (stable-within-this-rebuild) face id, since
// the boolean engine does not expose which input body a stitched face's
// geometry traces back to once pieces have been merged into one shell.
func (p *Pipeline) AddBoolean(a, b topo.BodyId, op boolean.Op) Feature {
	params := struct {
		A, B topo.BodyId
		Op   boolean.Op
	}{a, b, op}
	return p.append(FeatureBoolean, []topo.BodyId{a, b}, params, func(store *topo.Store) (FeatureOutput, []string, error) {
		res := boolean.Boolean(store, p.Ctx, a, b, op)
		if res.Status != boolean.StatusOK {
			return FeatureOutput{}, nil, fmt.Errorf("model: boolean %s failed: %w", op, res.Err)
		}
		faces := make(map[string]topo.FaceId)
		for _, sh := range store.GetBodyShells(res.Body) {
			for _, f := range store.GetShellFaces(sh) {
				faces[fmt.Sprintf("boolean.face(%d)", f)] = f
			}
		}
		return FeatureOutput{Bodies: []topo.BodyId{res.Body}, Faces: faces}, nil, nil
	})
}

// Run executes pending features (those at or after the current cursor)
// in feature-list order, invoking shouldYield between features so a host
// scheduler can interleave other work or cancel (spec §5 "Suspension
// points"). Re-running with an unchanged feature list from the start is
// bit-exact deterministic, since every feature closure only reads its
// own captured params and the shared store.
func (p *Pipeline) Run(shouldYield ShouldYieldFunc) RebuildResult {
	start := p.cursor
	for p.cursor < len(p.Features) {
		if p.cursor > start && shouldYield != nil {
			switch shouldYield() {
			case YieldCancel:
				return RebuildResult{Status: RebuildCancelled, Checkpoints: p.Checkpoints}
			case YieldPause:
				return RebuildResult{Status: RebuildPaused, Resume: &ResumeState{NextIndex: p.cursor}, Checkpoints: p.Checkpoints}
			}
		}
		f := p.Features[p.cursor]
		cp := p.runOne(f)
		p.Checkpoints = append(p.Checkpoints, cp)
		if cp.Success {
			p.lastValidCheckpoint = len(p.Checkpoints) - 1
		}
		p.cursor++
	}
	return RebuildResult{Status: RebuildCompleted, Checkpoints: p.Checkpoints}
}

// runOne executes a single feature, then automatically heals and
// validates the store (spec §4.6.1 step 8, carried to every
// topology-producing feature per SPEC_FULL.md's healing supplement, not
// only the boolean pipeline). On any failure the feature's own output is
// rolled back so the store returns to its pre-feature checkpoint.
func (p *Pipeline) runOne(f Feature) Checkpoint {
	cp := Checkpoint{FeatureID: f.ID}

	if p.Verbose {
		fmt.Printf("model: feature %d (%s) executing\n", f.ID, f.Kind)
	}
	out, warnings, err := f.execute(p.Store)
	if err != nil {
		cp.Errors = append(cp.Errors, err)
		p.rollback(out)
		return cp
	}

	if p.Verbose {
		fmt.Printf("model: feature %d (%s) healing\n", f.ID, f.Kind)
	}
	healing := p.Store.Heal(p.Ctx)
	cp.Diagnostics = append(cp.Diagnostics,
		fmt.Sprintf("healed: welded %d vertices, merged %d edges, culled %d faces",
			healing.VertsMerged, healing.EdgesMerged, healing.FacesCulled))
	for _, w := range warnings {
		cp.Diagnostics = append(cp.Diagnostics, w)
	}

	if healing.StillInvalid {
		report := p.Store.Validate(p.Ctx)
		cp.Errors = append(cp.Errors, &HealingFailedError{Healing: healing, Report: report})
		p.rollback(out)
		return cp
	}

	cp.Success = true
	cp.ProducedBodies = out.Bodies
	for selector, face := range out.Faces {
		cp.CreatedSubshapeRefs = append(cp.CreatedSubshapeRefs, SubshapeRef{FeatureID: f.ID, Selector: selector, Face: face})
	}
	return cp
}

// rollback deletes the bodies (and their shells and faces) a failed
// feature had already written, returning the store to its pre-feature
// checkpoint for entity visibility. Vertices and edges allocated along
// the way are left in the pool as unreferenced, never-deleted slots:
// the store is append-only by design (spec §5 "the topology store owns
// all entities"), and no live face or body can reach them.
func (p *Pipeline) rollback(out FeatureOutput) {
	for _, b := range out.Bodies {
		for _, sh := range p.Store.GetBodyShells(b) {
			for _, f := range p.Store.GetShellFaces(sh) {
				p.Store.DeleteFace(f)
			}
			p.Store.DeleteShell(sh)
		}
		p.Store.DeleteBody(b)
	}
}
