package naming

import (
	"github.com/solidtype/kernel/numeric"
	"github.com/solidtype/kernel/topo"
)

// PersistentRef is a stable handle for a subshape whose volatile
// topology index changes across edits (spec §4.7): "{featureId,
// localSelector, fingerprint}".
type PersistentRef struct {
	FeatureId     string
	LocalSelector string
	Kind          SubshapeKind
	Fingerprint   Fingerprint
}

// EvolutionKind tags one step's effect on a tracked subshape.
type EvolutionKind int

const (
	EvolutionBirth EvolutionKind = iota
	EvolutionDeath
	EvolutionModify
	EvolutionSplit
)

// StepId indexes a single feature execution in the pipeline's history.
type StepId int

// EvolutionMapping records one step's effect on a ref, per spec §4.7:
// "created by the producing feature; mutated only through mapping
// recordings; destroyed when its feature is deleted."
type EvolutionMapping struct {
	Kind        EvolutionKind
	Step        StepId
	Predecessor *PersistentRef
	Successors  []PersistentRef
}

// ResolveStatus is the outcome of resolving a PersistentRef against the
// current topology (spec §4.7 "resolve(ref, model)").
type ResolveStatus int

const (
	ResolveFound ResolveStatus = iota
	ResolveNotFound
	ResolveAmbiguous
)

func (s ResolveStatus) String() string {
	switch s {
	case ResolveFound:
		return "found"
	case ResolveAmbiguous:
		return "ambiguous"
	default:
		return "notFound"
	}
}

// ResolveResult is resolve's output: the live entity a ref currently
// names, if any.
type ResolveResult struct {
	Status ResolveStatus
	Face   topo.FaceId // valid iff Status == ResolveFound && Kind == SubshapeFace
	Edge   topo.EdgeId // valid iff Status == ResolveFound && Kind == SubshapeEdge
}

type trackedEntry struct {
	ref          PersistentRef
	faceId       topo.FaceId
	edgeId       topo.EdgeId
	supersededBy []*trackedEntry
}

func (e *trackedEntry) live(store *topo.Store) bool {
	switch e.ref.Kind {
	case SubshapeFace:
		return e.faceId != topo.NullID && !store.FaceDeleted(e.faceId)
	default:
		return e.edgeId != topo.NullID && !store.EdgeDeleted(e.edgeId)
	}
}

// Registry is the default naming strategy of spec §4.7: it stores a
// PersistentRef per created face/edge keyed by (featureId, localSelector)
// and an EvolutionMapping per modification, and implements resolve via
// forward-trace followed by fingerprint-distance fallback.
type Registry struct {
	store    *topo.Store
	ctx      numeric.Context
	entries  map[string]*trackedEntry
	mappings []EvolutionMapping
	nextStep StepId
}

// NewRegistry returns an empty naming registry bound to store.
func NewRegistry(store *topo.Store, ctx numeric.Context) *Registry {
	return &Registry{store: store, ctx: ctx, entries: make(map[string]*trackedEntry)}
}

func entryKey(featureId, selector string) string { return featureId + "\x00" + selector }

// FaceBirth names a newly created face under a fresh (featureId,
// selector) pair.
type FaceBirth struct {
	Selector string
	Face     topo.FaceId
}

// FaceModification links a previously registered face ref to the new
// face that replaces it in this step's output.
type FaceModification struct {
	PredecessorFeatureId string
	PredecessorSelector  string
	Selector             string
	Face                 topo.FaceId
}

// FaceRemoval marks a previously registered face ref as dead.
type FaceRemoval struct {
	FeatureId string
	Selector  string
}

// RecordFaces implements spec §4.7's
// "namingStrategy.record(feature, step, created, modified, removed)" for
// faces: it fingerprints every newly created or modified face against
// the store's current state and appends the corresponding evolution
// mappings.
func (r *Registry) RecordFaces(featureId string, created []FaceBirth, modified []FaceModification, removed []FaceRemoval) StepId {
	step := r.nextStep
	r.nextStep++

	for _, c := range created {
		ref := PersistentRef{FeatureId: featureId, LocalSelector: c.Selector, Kind: SubshapeFace,
			Fingerprint: FingerprintFace(r.store, r.ctx, c.Face)}
		entry := &trackedEntry{ref: ref, faceId: c.Face, edgeId: topo.NullID}
		r.entries[entryKey(featureId, c.Selector)] = entry
		r.mappings = append(r.mappings, EvolutionMapping{Kind: EvolutionBirth, Step: step, Successors: []PersistentRef{ref}})
	}

	for _, m := range modified {
		newRef := PersistentRef{FeatureId: featureId, LocalSelector: m.Selector, Kind: SubshapeFace,
			Fingerprint: FingerprintFace(r.store, r.ctx, m.Face)}
		newEntry := &trackedEntry{ref: newRef, faceId: m.Face, edgeId: topo.NullID}
		r.entries[entryKey(featureId, m.Selector)] = newEntry

		mapping := EvolutionMapping{Kind: EvolutionModify, Step: step, Successors: []PersistentRef{newRef}}
		if pred, ok := r.entries[entryKey(m.PredecessorFeatureId, m.PredecessorSelector)]; ok {
			pred.supersededBy = append(pred.supersededBy, newEntry)
			predRef := pred.ref
			mapping.Predecessor = &predRef
			if len(pred.supersededBy) > 1 {
				mapping.Kind = EvolutionSplit
			}
		}
		r.mappings = append(r.mappings, mapping)
	}

	for _, rem := range removed {
		if entry, ok := r.entries[entryKey(rem.FeatureId, rem.Selector)]; ok {
			predRef := entry.ref
			r.mappings = append(r.mappings, EvolutionMapping{Kind: EvolutionDeath, Step: step, Predecessor: &predRef})
		}
	}

	return step
}

// resolutionMargin and resolutionThreshold bound how confidently a
// fingerprint match must win to be accepted, per spec §4.7: "accept the
// minimum if it beats the second-best by a margin and is below an
// absolute threshold. Ties -> ambiguous."
const (
	resolutionMargin    = 1.5
	resolutionThreshold = 100.0
)

// Resolve implements spec §4.7's two-step resolve algorithm: forward
// trace through recorded evolution mappings, falling back to fingerprint
// distance matching across all live subshapes of the same kind when the
// trace yields zero or more than one live candidate.
func (r *Registry) Resolve(ref PersistentRef) ResolveResult {
	entry, ok := r.entries[entryKey(ref.FeatureId, ref.LocalSelector)]
	if !ok {
		return r.fingerprintFallback(ref)
	}

	leaves := forwardLeaves(entry, r.store, make(map[*trackedEntry]bool))
	if len(leaves) == 1 {
		return resultFor(leaves[0])
	}
	if len(leaves) == 0 && entry.live(r.store) && len(entry.supersededBy) == 0 {
		return resultFor(entry)
	}
	return r.fingerprintFallback(ref)
}

// forwardLeaves walks the supersededBy chain from entry, collecting the
// live terminal entries (those with no further successor, or whose
// successors are all dead).
func forwardLeaves(entry *trackedEntry, store *topo.Store, seen map[*trackedEntry]bool) []*trackedEntry {
	if seen[entry] {
		return nil
	}
	seen[entry] = true
	if len(entry.supersededBy) == 0 {
		if entry.live(store) {
			return []*trackedEntry{entry}
		}
		return nil
	}
	var out []*trackedEntry
	for _, next := range entry.supersededBy {
		out = append(out, forwardLeaves(next, store, seen)...)
	}
	return out
}

func resultFor(entry *trackedEntry) ResolveResult {
	if entry.ref.Kind == SubshapeFace {
		return ResolveResult{Status: ResolveFound, Face: entry.faceId}
	}
	return ResolveResult{Status: ResolveFound, Edge: entry.edgeId}
}

// fingerprintFallback scores every live face in the store against ref's
// fingerprint and accepts the best match if it is unambiguous, per spec
// §4.7 step 2. Only face resolution is implemented: this registry does
// not yet track a live edge enumeration (the edge pool carries no kind
// filter analogous to a face's surface kind), so an edge ref that misses
// forward-trace falls through to notFound rather than ambiguous.
func (r *Registry) fingerprintFallback(ref PersistentRef) ResolveResult {
	if ref.Kind != SubshapeFace {
		return ResolveResult{Status: ResolveNotFound}
	}

	type scored struct {
		face topo.FaceId
		dist float64
	}
	var candidates []scored
	for i := 0; i < r.store.NumFaces(); i++ {
		fid := topo.FaceId(i)
		if r.store.FaceDeleted(fid) {
			continue
		}
		fp := FingerprintFace(r.store, r.ctx, fid)
		if fp.SurfaceKind != ref.Fingerprint.SurfaceKind {
			continue
		}
		candidates = append(candidates, scored{face: fid, dist: ref.Fingerprint.Distance(fp)})
	}
	if len(candidates) == 0 {
		return ResolveResult{Status: ResolveNotFound}
	}

	best, second := candidates[0], (*scored)(nil)
	for i := 1; i < len(candidates); i++ {
		c := candidates[i]
		if c.dist < best.dist {
			s := best
			second = &s
			best = c
		} else if second == nil || c.dist < second.dist {
			s := c
			second = &s
		}
	}
	if best.dist > resolutionThreshold {
		return ResolveResult{Status: ResolveNotFound}
	}
	if second != nil && second.dist-best.dist < resolutionMargin {
		return ResolveResult{Status: ResolveAmbiguous}
	}
	return ResolveResult{Status: ResolveFound, Face: best.face}
}
