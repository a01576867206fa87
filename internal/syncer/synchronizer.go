// Package syncer pushes test outcomes into Azure DevOps after each test's
// execution phase. The whole path is fail-open: a tracking service outage
// surfaces only as log lines and never affects the test run's own result.
package syncer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/teppoaland/sbsaa/internal/runner"
	"github.com/teppoaland/sbsaa/pkg/types"
)

// Synchronization states a single test's report moves through.
const (
	StatePending          = "pending"
	StateResolvingID      = "resolving_id"
	StateSkippedNoMapping = "skipped_no_mapping"
	StateSyncing          = "syncing"
	StateDone             = "done"
)

// MappingSource resolves a test identifier to a work item id. The mapping
// store satisfies this.
type MappingSource interface {
	Get(testID string) (int, bool)
}

// TrackerClient is the subset of the Azure DevOps client the synchronizer
// drives.
type TrackerClient interface {
	UpdateResult(workItemID int, outcome types.Outcome, detail string) error
	CreateBugFromFailure(testID, errorDetail, testLocation string, linkedID int) (int, error)
}

// Disposition records how one report was handled, for the session summary
// and the local run history.
type Disposition struct {
	TestID     string
	Outcome    types.Outcome
	WorkItemID int // 0 when no mapping resolved
	BugID      int // 0 unless a defect was created
	State      string
	SyncError  string // logged error text, empty on clean sync
	Duration   time.Duration
}

// DispositionSink receives the final disposition of each synchronized
// report. The run history recorder satisfies this; nil drops dispositions.
type DispositionSink interface {
	RecordResult(session *runner.Session, d Disposition)
}

// Synchronizer is the runner subscriber that pushes each completed test's
// outcome to the tracking service. Resolution order is mapping store first,
// static registry second; a test with neither is skipped, not failed.
type Synchronizer struct {
	store    MappingSource
	registry *Registry
	client   TrackerClient
	sink     DispositionSink
	logger   *zap.Logger

	orgURL  string
	project string
}

// New creates a synchronizer. sink may be nil.
func New(store MappingSource, registry *Registry, client TrackerClient, sink DispositionSink, orgURL, project string, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{
		store:    store,
		registry: registry,
		client:   client,
		sink:     sink,
		logger:   logger,
		orgURL:   orgURL,
		project:  project,
	}
}

// SessionStarted reports integration status at the top of the run.
func (s *Synchronizer) SessionStarted(session *runner.Session) {
	s.logger.Info("azure devops integration active",
		zap.String("run_id", session.RunID),
		zap.String("organization", s.orgURL),
		zap.String("project", s.project))
}

// CollectionFinished pre-flight-checks that every discovered test has a
// resolvable mapping. Unmapped tests are reported, not rejected; absence of
// a mapping is expected for newly written tests.
func (s *Synchronizer) CollectionFinished(_ *runner.Session, testIDs []string) {
	var unmapped []string
	for _, testID := range testIDs {
		if _, _, ok := s.resolve(testID); !ok {
			unmapped = append(unmapped, testID)
		}
	}

	s.logger.Info("validated collected tests",
		zap.Int("collected", len(testIDs)),
		zap.Int("mapped", len(testIDs)-len(unmapped)))
	if len(unmapped) > 0 {
		s.logger.Info("tests without work item mapping", zap.Strings("tests", unmapped))
	}
}

// TestFinished synchronizes one execution report. Every failure inside this
// hook is logged and swallowed; the authoritative test outcome is always
// determined solely by the test's own assertions.
func (s *Synchronizer) TestFinished(session *runner.Session, report types.ExecutionReport) {
	d := Disposition{
		TestID:   report.TestID,
		Outcome:  report.Outcome,
		State:    StatePending,
		Duration: report.Duration,
	}
	defer func() {
		if s.sink != nil {
			s.sink.RecordResult(session, d)
		}
	}()

	d.State = StateResolvingID
	workItemID, source, ok := s.resolve(report.TestID)
	if !ok {
		d.State = StateSkippedNoMapping
		s.logger.Info("no work item mapping, skipping sync", zap.String("test_id", report.TestID))
		return
	}
	d.WorkItemID = workItemID

	d.State = StateSyncing
	s.logger.Info("syncing test result",
		zap.String("test_id", report.TestID),
		zap.Int("work_item_id", workItemID),
		zap.String("mapping_source", source),
		zap.String("outcome", string(report.Outcome)))

	detail := composeDetail(report)
	if err := s.client.UpdateResult(workItemID, report.Outcome, detail); err != nil {
		d.SyncError = err.Error()
		s.logger.Error("work item update failed, test result unaffected",
			zap.String("test_id", report.TestID),
			zap.Int("work_item_id", workItemID),
			zap.Error(err))
	}

	if report.Outcome == types.OutcomeFailed {
		bugID, err := s.client.CreateBugFromFailure(report.TestID, report.ErrorDetail, report.Location, workItemID)
		if err != nil {
			// A lost defect entry is recoverable by hand; the sync step
			// still completes.
			s.logger.Error("bug creation failed",
				zap.String("test_id", report.TestID), zap.Error(err))
		} else {
			d.BugID = bugID
		}
	}

	d.State = StateDone
}

// SessionFinished logs the integration summary for the run.
func (s *Synchronizer) SessionFinished(session *runner.Session, summary runner.Summary) {
	s.logger.Info("azure devops integration finished",
		zap.String("run_id", session.RunID),
		zap.Int("tests", summary.Total),
		zap.Int("failed", summary.Failed),
		zap.String("organization", s.orgURL),
		zap.String("project", s.project))
}

// resolve returns the work item id for a test: mapping store first, static
// association second.
func (s *Synchronizer) resolve(testID string) (workItemID int, source string, ok bool) {
	if id, ok := s.store.Get(testID); ok {
		return id, "store", true
	}
	if id, ok := s.registry.Lookup(testID); ok {
		return id, "static", true
	}
	return 0, "", false
}

// composeDetail renders the fixed-format execution summary appended to the
// work item history.
func composeDetail(report types.ExecutionReport) string {
	detail := fmt.Sprintf("Test executed on %s<br/>Duration: %.2f seconds<br/>Test: %s",
		report.StartedAt.Format(time.RFC3339),
		report.Duration.Seconds(),
		qualifiedPath(report))
	if report.Outcome == types.OutcomeFailed && report.ErrorDetail != "" {
		detail += "<br/><br/>Error Details:<br/><pre>" + report.ErrorDetail + "</pre>"
	}
	return detail
}

func qualifiedPath(report types.ExecutionReport) string {
	if report.Location == "" {
		return report.TestID
	}
	return report.Location + "::" + report.TestID
}
