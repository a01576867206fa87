// Package history keeps a local SQLite archive of executed runs and their
// synchronization dispositions. The archive is informational only: it is
// written best-effort during a run and queried by the CLI afterwards, and a
// missing or broken archive never affects test execution.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/teppoaland/sbsaa/internal/runner"
	"github.com/teppoaland/sbsaa/internal/syncer"
	"github.com/teppoaland/sbsaa/pkg/types"
)

// DBFileName is the archive database inside the data directory.
const DBFileName = "history.db"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	started_at  TEXT NOT NULL,
	finished_at TEXT,
	app_version TEXT NOT NULL DEFAULT '',
	total       INTEGER NOT NULL DEFAULT 0,
	passed      INTEGER NOT NULL DEFAULT 0,
	failed      INTEGER NOT NULL DEFAULT 0,
	skipped     INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS results (
	run_id       TEXT NOT NULL,
	test_id      TEXT NOT NULL,
	outcome      TEXT NOT NULL,
	duration_ms  INTEGER NOT NULL,
	work_item_id INTEGER NOT NULL,
	bug_id       INTEGER NOT NULL,
	sync_state   TEXT NOT NULL,
	sync_error   TEXT NOT NULL DEFAULT '',
	recorded_at  TEXT NOT NULL,
	PRIMARY KEY (run_id, test_id)
);
`

// Run is one archived test run.
type Run struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time // zero when the run never finished cleanly
	AppVersion string
	Total      int
	Passed     int
	Failed     int
	Skipped    int
}

// Result is one archived per-test synchronization disposition.
type Result struct {
	RunID      string
	TestID     string
	Outcome    types.Outcome
	Duration   time.Duration
	WorkItemID int
	BugID      int
	SyncState  string
	SyncError  string
	RecordedAt time.Time
}

// Compile-time interface checks.
var (
	_ runner.Subscriber      = (*Archive)(nil)
	_ syncer.DispositionSink = (*Archive)(nil)
)

// Archive wraps the history database. It doubles as a runner subscriber
// (run bookkeeping) and as the synchronizer's disposition sink (per-test
// rows).
type Archive struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the archive in dataDir.
func Open(dataDir string, logger *zap.Logger) (*Archive, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, DBFileName))
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	return &Archive{db: db, logger: logger}, nil
}

// Close releases the database handle.
func (a *Archive) Close() error {
	return a.db.Close()
}

// SessionStarted inserts the run row.
func (a *Archive) SessionStarted(session *runner.Session) {
	_, err := a.db.Exec(
		"INSERT OR REPLACE INTO runs (run_id, started_at) VALUES (?, ?)",
		session.RunID, session.StartedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		a.logger.Warn("could not archive run start", zap.Error(err))
	}
}

// CollectionFinished is a no-op; the archive only records executed results.
func (a *Archive) CollectionFinished(*runner.Session, []string) {}

// TestFinished is a no-op; per-test rows arrive through RecordResult with
// the synchronization disposition included.
func (a *Archive) TestFinished(*runner.Session, types.ExecutionReport) {}

// SessionFinished completes the run row with totals and the app version
// captured during the run.
func (a *Archive) SessionFinished(session *runner.Session, summary runner.Summary) {
	_, err := a.db.Exec(
		`UPDATE runs SET finished_at = ?, app_version = ?, total = ?, passed = ?, failed = ?, skipped = ?
		 WHERE run_id = ?`,
		time.Now().UTC().Format(time.RFC3339), session.AppVersion(),
		summary.Total, summary.Passed, summary.Failed, summary.Skipped,
		session.RunID,
	)
	if err != nil {
		a.logger.Warn("could not archive run summary", zap.Error(err))
	}
}

// RecordResult archives one synchronization disposition. Errors are logged
// and swallowed; local bookkeeping must not interfere with the run.
func (a *Archive) RecordResult(session *runner.Session, d syncer.Disposition) {
	_, err := a.db.Exec(
		`INSERT OR REPLACE INTO results
		 (run_id, test_id, outcome, duration_ms, work_item_id, bug_id, sync_state, sync_error, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.RunID, d.TestID, string(d.Outcome), d.Duration.Milliseconds(),
		d.WorkItemID, d.BugID, d.State, d.SyncError,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		a.logger.Warn("could not archive test result",
			zap.String("test_id", d.TestID), zap.Error(err))
	}
}

// Runs returns the most recent runs, newest first.
func (a *Archive) Runs(limit int) ([]Run, error) {
	rows, err := a.db.Query(
		`SELECT run_id, started_at, COALESCE(finished_at, ''), app_version, total, passed, failed, skipped
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.RunID, &started, &finished, &r.AppVersion,
			&r.Total, &r.Passed, &r.Failed, &r.Skipped); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		if finished != "" {
			r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Results returns the archived results of one run, ordered by test id.
func (a *Archive) Results(runID string) ([]Result, error) {
	rows, err := a.db.Query(
		`SELECT run_id, test_id, outcome, duration_ms, work_item_id, bug_id, sync_state, sync_error, recorded_at
		 FROM results WHERE run_id = ? ORDER BY test_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var outcome, recorded string
		var durationMS int64
		if err := rows.Scan(&r.RunID, &r.TestID, &outcome, &durationMS,
			&r.WorkItemID, &r.BugID, &r.SyncState, &r.SyncError, &recorded); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Outcome = types.Outcome(outcome)
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.RecordedAt, _ = time.Parse(time.RFC3339, recorded)
		results = append(results, r)
	}
	return results, rows.Err()
}
