package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunLifecycle(t *testing.T) {
	s := setupStore(t)

	runID, err := s.BeginRun("/data/cdl")
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	require.NoError(t, s.FinishRun(runID, 1_000_000, 3))

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].RunID)
	assert.Equal(t, "/data/cdl", runs[0].InputDir)
	assert.Equal(t, 1_000_000, runs[0].Pixels)
	assert.Equal(t, 3, runs[0].ErrorPixels)
	assert.False(t, runs[0].StartedAt.IsZero())
	assert.False(t, runs[0].FinishedAt.IsZero())
}

func TestFinishUnknownRun(t *testing.T) {
	s := setupStore(t)
	assert.Error(t, s.FinishRun("no-such-run", 0, 0))
}

func TestClassCountsRoundtrip(t *testing.T) {
	s := setupStore(t)
	runID, err := s.BeginRun("/data/cdl")
	require.NoError(t, err)

	want := map[uint8]int{1: 900, 4: 80, 254: 20}
	require.NoError(t, s.SaveClassCounts(runID, 2020, want))

	got, err := s.ClassCounts(runID, 2020)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Other years stay empty.
	other, err := s.ClassCounts(runID, 2021)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestTrajectoriesRoundtrip(t *testing.T) {
	s := setupStore(t)
	runID, err := s.BeginRun("/data/cdl")
	require.NoError(t, err)

	want := map[string]int{
		"crops → developed": 42,
		"forest → crops":    7,
	}
	require.NoError(t, s.SaveTrajectories(runID, want))

	got, err := s.Trajectories(runID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCatalogPersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	require.NoError(t, err)
	runID, err := s1.BeginRun("/data/a")
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()

	runs, err := s2.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].RunID)
}
