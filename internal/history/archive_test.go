package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teppoaland/sbsaa/internal/runner"
	"github.com/teppoaland/sbsaa/internal/syncer"
	"github.com/teppoaland/sbsaa/pkg/types"
)

func openArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestArchiveRunLifecycle(t *testing.T) {
	a := openArchive(t)

	session := runner.NewSession()
	session.RecordAppVersion("4.12.1")

	a.SessionStarted(session)
	a.SessionFinished(session, runner.Summary{Total: 3, Passed: 2, Failed: 1})

	runs, err := a.Runs(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, session.RunID, run.RunID)
	assert.Equal(t, "4.12.1", run.AppVersion)
	assert.Equal(t, 3, run.Total)
	assert.Equal(t, 2, run.Passed)
	assert.Equal(t, 1, run.Failed)
	assert.False(t, run.FinishedAt.IsZero())
}

func TestArchiveRecordsDispositions(t *testing.T) {
	a := openArchive(t)
	session := runner.NewSession()
	a.SessionStarted(session)

	a.RecordResult(session, syncer.Disposition{
		TestID:     "test_login",
		Outcome:    types.OutcomeFailed,
		WorkItemID: 42,
		BugID:      900,
		State:      syncer.StateDone,
		Duration:   3200 * time.Millisecond,
	})
	a.RecordResult(session, syncer.Disposition{
		TestID:  "test_new_feature",
		Outcome: types.OutcomePassed,
		State:   syncer.StateSkippedNoMapping,
	})

	results, err := a.Results(session.RunID)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Ordered by test id.
	assert.Equal(t, "test_login", results[0].TestID)
	assert.Equal(t, 42, results[0].WorkItemID)
	assert.Equal(t, 900, results[0].BugID)
	assert.Equal(t, syncer.StateDone, results[0].SyncState)
	assert.Equal(t, 3200*time.Millisecond, results[0].Duration)

	assert.Equal(t, "test_new_feature", results[1].TestID)
	assert.Equal(t, syncer.StateSkippedNoMapping, results[1].SyncState)
	assert.Zero(t, results[1].WorkItemID)
}

func TestArchiveResultOverwriteWithinRun(t *testing.T) {
	a := openArchive(t)
	session := runner.NewSession()
	a.SessionStarted(session)

	d := syncer.Disposition{TestID: "test_login", Outcome: types.OutcomePassed, State: syncer.StateDone}
	a.RecordResult(session, d)
	a.RecordResult(session, d)

	results, err := a.Results(session.RunID)
	require.NoError(t, err)
	assert.Len(t, results, 1, "one row per test per run")
}

func TestArchiveRunsNewestFirst(t *testing.T) {
	a := openArchive(t)

	old := runner.NewSession()
	old.StartedAt = time.Now().Add(-time.Hour)
	a.SessionStarted(old)

	recent := runner.NewSession()
	a.SessionStarted(recent)

	runs, err := a.Runs(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, recent.RunID, runs[0].RunID)
	assert.Equal(t, old.RunID, runs[1].RunID)
}

func TestArchiveReopens(t *testing.T) {
	dir := t.TempDir()

	a, err := Open(dir, zap.NewNop())
	require.NoError(t, err)
	session := runner.NewSession()
	a.SessionStarted(session)
	require.NoError(t, a.Close())

	a2, err := Open(dir, zap.NewNop())
	require.NoError(t, err)
	defer a2.Close()

	runs, err := a2.Runs(10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
