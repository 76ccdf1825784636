package session

import (
	"bytes"
	"testing"

	"github.com/solidtype/kernel/boolean"
	"github.com/solidtype/kernel/naming"
	v3 "github.com/solidtype/kernel/vec/v3"
	"github.com/stretchr/testify/require"
)

func TestSessionCreateBoxProducesOneValidBody(t *testing.T) {
	s := New()

	res, mErr := s.CreateBox(2, 2, 2, v3.Vec{})
	require.Nil(t, mErr)
	require.Len(t, res.Bodies, 1)

	report := s.Validate()
	require.Zero(t, report.ErrorCount, "%+v", report.Issues)

	stats := s.Stats()
	require.Equal(t, 1, stats.Bodies)
	require.Equal(t, 6, stats.Faces)
}

func TestSessionCreateBoxRejectsNonPositiveDimension(t *testing.T) {
	s := New()

	_, mErr := s.CreateBox(0, 2, 2, v3.Vec{})
	require.NotNil(t, mErr)
	require.Equal(t, CategoryInvalidInput, mErr.Category)
}

func TestSessionBooleanSubtractCavity(t *testing.T) {
	s := New()

	outer, mErr := s.CreateBox(2, 2, 2, v3.Vec{})
	require.Nil(t, mErr)
	cavity, mErr := s.CreateBox(1, 1, 1, v3.Vec{})
	require.Nil(t, mErr)

	cut, mErr := s.Boolean(outer.Bodies[0], cavity.Bodies[0], boolean.Subtract)
	require.Nil(t, mErr)
	require.Len(t, cut.Bodies, 1)

	report := s.Validate()
	require.Zero(t, report.ErrorCount, "%+v", report.Issues)
}

func TestSessionFaceRefRecordedAfterPrimitive(t *testing.T) {
	s := New()

	res, mErr := s.CreateBox(2, 2, 2, v3.Vec{})
	require.Nil(t, mErr)

	faces := s.Faces(res.Bodies[0])
	require.Len(t, faces, 6)
	for _, f := range faces {
		ref, ok := s.FaceRef(f)
		require.True(t, ok, "every box face should have a recorded persistent ref")
		require.Equal(t, naming.SubshapeFace, ref.Kind)
	}
}

func TestSessionWriteSTLBinaryRoundTripsSize(t *testing.T) {
	s := New()
	res, mErr := s.CreateBox(2, 2, 2, v3.Vec{})
	require.Nil(t, mErr)

	var buf bytes.Buffer
	mErr = s.WriteSTL(&buf, res.Bodies[0], STLOptions{Binary: true, Header: "test"})
	require.Nil(t, mErr)
	require.Equal(t, 84+50*12, buf.Len())
}

func TestSessionRayPickHitsTopFace(t *testing.T) {
	s := New()
	res, mErr := s.CreateBox(2, 2, 2, v3.Vec{})
	require.Nil(t, mErr)

	pick := s.RayPick(res.Bodies[0], Ray{Origin: v3.Vec{Z: 10}, Direction: v3.Vec{Z: -1}})
	require.True(t, pick.Hit)
	require.InDelta(t, 9, pick.Distance, 1e-6)
}
