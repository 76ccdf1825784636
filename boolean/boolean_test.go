package boolean

import (
	"testing"

	"github.com/solidtype/kernel/model"
	"github.com/solidtype/kernel/numeric"
	"github.com/solidtype/kernel/topo"
	v3 "github.com/solidtype/kernel/vec/v3"
	"github.com/stretchr/testify/require"
)

// twoOverlappingBoxes builds two axis-aligned 2-unit cubes whose centres
// are offset by 1 unit along X, so each cube overlaps the other by
// exactly half its volume — the standard fixture for exercising all
// three boolean operations (spec §4.6, §8 scenario C).
func twoOverlappingBoxes(t *testing.T) (*topo.Store, topo.BodyId, topo.BodyId) {
	t.Helper()
	store := topo.NewStore()
	a, err := model.CreateBox(store, 2, 2, 2, v3.Vec{})
	require.NoError(t, err)
	b, err := model.CreateBox(store, 2, 2, 2, v3.Vec{X: 1})
	require.NoError(t, err)
	return store, a.Body, b.Body
}

func TestBooleanUnionProducesValidBody(t *testing.T) {
	store, a, b := twoOverlappingBoxes(t)
	ctx := numeric.DefaultContext()

	res := Boolean(store, ctx, a, b, Union)
	require.Equal(t, StatusOK, res.Status, "union should succeed: %v", res.Err)
	require.Zero(t, res.Report.ErrorCount)

	report := store.Validate(ctx)
	require.Zero(t, report.ErrorCount, "published body must validate cleanly: %+v", report.Issues)
}

func TestBooleanSubtractProducesValidBody(t *testing.T) {
	store, a, b := twoOverlappingBoxes(t)
	ctx := numeric.DefaultContext()

	res := Boolean(store, ctx, a, b, Subtract)
	require.Equal(t, StatusOK, res.Status, "subtract should succeed: %v", res.Err)

	report := store.Validate(ctx)
	require.Zero(t, report.ErrorCount, "published body must validate cleanly: %+v", report.Issues)
}

func TestBooleanIntersectProducesValidBody(t *testing.T) {
	store, a, b := twoOverlappingBoxes(t)
	ctx := numeric.DefaultContext()

	res := Boolean(store, ctx, a, b, Intersect)
	require.Equal(t, StatusOK, res.Status, "intersect should succeed: %v", res.Err)

	report := store.Validate(ctx)
	require.Zero(t, report.ErrorCount, "published body must validate cleanly: %+v", report.Issues)
}

func TestBooleanNonOverlappingSubtractIsNoOp(t *testing.T) {
	store := topo.NewStore()
	ctx := numeric.DefaultContext()

	a, err := model.CreateBox(store, 2, 2, 2, v3.Vec{})
	require.NoError(t, err)
	b, err := model.CreateBox(store, 2, 2, 2, v3.Vec{X: 10})
	require.NoError(t, err)

	res := Boolean(store, ctx, a.Body, b.Body, Subtract)
	require.Equal(t, StatusOK, res.Status, "disjoint subtract should still succeed: %v", res.Err)
}

func TestOpString(t *testing.T) {
	require.Equal(t, "union", Union.String())
	require.Equal(t, "subtract", Subtract.String())
	require.Equal(t, "intersect", Intersect.String())
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "ok", StatusOK.String())
	require.Equal(t, "degenerate", StatusDegenerate.String())
	require.Equal(t, "nonManifold", StatusNonManifold.String())
	require.Equal(t, "bug", StatusBug.String())
}
