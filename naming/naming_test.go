package naming

import (
	"testing"

	"github.com/solidtype/kernel/model"
	"github.com/solidtype/kernel/numeric"
	"github.com/solidtype/kernel/topo"
	v3 "github.com/solidtype/kernel/vec/v3"
	"github.com/stretchr/testify/require"
)

func TestFingerprintFaceStableAcrossRebuild(t *testing.T) {
	ctx := numeric.DefaultContext()

	build := func() (*topo.Store, topo.FaceId) {
		store := topo.NewStore()
		res, err := model.CreateBox(store, 2, 2, 2, v3.Vec{})
		require.NoError(t, err)
		return store, res.Faces["box.facePosX"]
	}

	store1, f1 := build()
	store2, f2 := build()

	fp1 := FingerprintFace(store1, ctx, f1)
	fp2 := FingerprintFace(store2, ctx, f2)
	require.Equal(t, fp1, fp2, "identical rebuilds must fingerprint identically")
}

func TestFingerprintFaceDiffersAcrossFaces(t *testing.T) {
	ctx := numeric.DefaultContext()
	store := topo.NewStore()
	res, err := model.CreateBox(store, 2, 2, 2, v3.Vec{})
	require.NoError(t, err)

	fpX := FingerprintFace(store, ctx, res.Faces["box.facePosX"])
	fpY := FingerprintFace(store, ctx, res.Faces["box.facePosY"])
	require.NotEqual(t, fpX, fpY)
	require.Greater(t, fpX.Distance(fpY), 0.0)
}

func TestRegistryRecordAndResolveBirth(t *testing.T) {
	ctx := numeric.DefaultContext()
	store := topo.NewStore()
	res, err := model.CreateBox(store, 2, 2, 2, v3.Vec{})
	require.NoError(t, err)

	reg := NewRegistry(store, ctx)
	var births []FaceBirth
	for sel, fid := range res.Faces {
		births = append(births, FaceBirth{Selector: sel, Face: fid})
	}
	reg.RecordFaces("feature1", births, nil, nil)

	ref := PersistentRef{FeatureId: "feature1", LocalSelector: "box.facePosX", Kind: SubshapeFace,
		Fingerprint: FingerprintFace(store, ctx, res.Faces["box.facePosX"])}
	result := reg.Resolve(ref)
	require.Equal(t, ResolveFound, result.Status)
	require.Equal(t, res.Faces["box.facePosX"], result.Face)
}

func TestRegistryResolveUnknownRefNotFound(t *testing.T) {
	ctx := numeric.DefaultContext()
	store := topo.NewStore()
	_, err := model.CreateBox(store, 2, 2, 2, v3.Vec{})
	require.NoError(t, err)

	reg := NewRegistry(store, ctx)
	result := reg.Resolve(PersistentRef{FeatureId: "ghost", LocalSelector: "nope", Kind: SubshapeFace})
	require.Equal(t, ResolveNotFound, result.Status)
}

func TestRegistryModifyChainResolvesToLatest(t *testing.T) {
	ctx := numeric.DefaultContext()
	store := topo.NewStore()
	res, err := model.CreateBox(store, 2, 2, 2, v3.Vec{})
	require.NoError(t, err)

	reg := NewRegistry(store, ctx)
	var births []FaceBirth
	for sel, fid := range res.Faces {
		births = append(births, FaceBirth{Selector: sel, Face: fid})
	}
	reg.RecordFaces("feature1", births, nil, nil)

	// Simulate a second feature that "modifies" facePosX in place (same
	// live face, new fingerprint recorded under a new feature step).
	reg.RecordFaces("feature2", nil, []FaceModification{
		{PredecessorFeatureId: "feature1", PredecessorSelector: "box.facePosX",
			Selector: "box.facePosX", Face: res.Faces["box.facePosX"]},
	}, nil)

	origRef := PersistentRef{FeatureId: "feature1", LocalSelector: "box.facePosX", Kind: SubshapeFace,
		Fingerprint: FingerprintFace(store, ctx, res.Faces["box.facePosX"])}
	result := reg.Resolve(origRef)
	require.Equal(t, ResolveFound, result.Status)
	require.Equal(t, res.Faces["box.facePosX"], result.Face)
}

func TestRegistryRemovalMakesRefDead(t *testing.T) {
	ctx := numeric.DefaultContext()
	store := topo.NewStore()
	res, err := model.CreateBox(store, 2, 2, 2, v3.Vec{})
	require.NoError(t, err)

	reg := NewRegistry(store, ctx)
	var births []FaceBirth
	for sel, fid := range res.Faces {
		births = append(births, FaceBirth{Selector: sel, Face: fid})
	}
	reg.RecordFaces("feature1", births, nil, nil)

	fid := res.Faces["box.facePosX"]
	store.DeleteFace(fid)
	reg.RecordFaces("feature2", nil, nil, []FaceRemoval{{FeatureId: "feature1", Selector: "box.facePosX"}})

	ref := PersistentRef{FeatureId: "feature1", LocalSelector: "box.facePosX", Kind: SubshapeFace,
		Fingerprint: FingerprintFace(store, ctx, fid)}
	// the face is gone and no successor exists; fingerprint fallback also
	// finds nothing resembling a deleted face, so this must not resolve.
	result := reg.Resolve(ref)
	require.NotEqual(t, ResolveFound, result.Status)
}
