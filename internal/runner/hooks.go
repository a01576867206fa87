// Package runner models the lifecycle hook surface of the UI test runner as
// explicit event subscriptions. The runner itself is an external
// collaborator; this package only defines the dispatch points it drives and
// the subscriber contract the synchronization engine plugs into.
package runner

import (
	"go.uber.org/zap"

	"github.com/teppoaland/sbsaa/pkg/types"
)

// Subscriber receives lifecycle events. All callbacks are invoked
// synchronously, in registration order.
type Subscriber interface {
	// SessionStarted fires once before any test runs.
	SessionStarted(session *Session)

	// CollectionFinished fires after test discovery with every discovered
	// test identifier, before the first test executes.
	CollectionFinished(session *Session, testIDs []string)

	// TestFinished fires after a test's execution phase completes, exactly
	// once per test per run.
	TestFinished(session *Session, report types.ExecutionReport)

	// SessionFinished fires once after the last test.
	SessionFinished(session *Session, summary Summary)
}

// Summary tallies the outcomes of one run.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// Hooks dispatches runner lifecycle events to subscribers. Tests run
// sequentially in one process, so dispatch needs no locking; ordering per
// test follows the runner's own phase ordering.
type Hooks struct {
	logger  *zap.Logger
	subs    []Subscriber
	session *Session
	summary Summary
}

// NewHooks creates an empty dispatcher.
func NewHooks(logger *zap.Logger) *Hooks {
	return &Hooks{logger: logger}
}

// Subscribe appends a subscriber. Order of registration is the order of
// dispatch.
func (h *Hooks) Subscribe(sub Subscriber) {
	h.subs = append(h.subs, sub)
}

// SubscriberCount returns the number of registered subscribers.
func (h *Hooks) SubscriberCount() int {
	return len(h.subs)
}

// StartSession creates the run session and notifies subscribers.
func (h *Hooks) StartSession() *Session {
	h.session = NewSession()
	h.summary = Summary{}
	h.logger.Info("test session started", zap.String("run_id", h.session.RunID))
	for _, sub := range h.subs {
		sub.SessionStarted(h.session)
	}
	return h.session
}

// CollectionFinished announces the discovered test identifiers for
// pre-flight validation.
func (h *Hooks) CollectionFinished(testIDs []string) {
	for _, sub := range h.subs {
		sub.CollectionFinished(h.session, testIDs)
	}
}

// TestFinished tallies the report and dispatches it. Reports with an
// unrecognized outcome are dropped with a warning rather than passed on.
func (h *Hooks) TestFinished(report types.ExecutionReport) {
	if !report.Outcome.Valid() {
		h.logger.Warn("dropping report with unrecognized outcome",
			zap.String("test_id", report.TestID), zap.String("outcome", string(report.Outcome)))
		return
	}

	h.summary.Total++
	switch report.Outcome {
	case types.OutcomePassed:
		h.summary.Passed++
	case types.OutcomeFailed:
		h.summary.Failed++
	case types.OutcomeSkipped:
		h.summary.Skipped++
	}

	for _, sub := range h.subs {
		sub.TestFinished(h.session, report)
	}
}

// FinishSession dispatches the final summary and returns it.
func (h *Hooks) FinishSession() Summary {
	h.logger.Info("test session finished",
		zap.Int("total", h.summary.Total),
		zap.Int("passed", h.summary.Passed),
		zap.Int("failed", h.summary.Failed),
		zap.Int("skipped", h.summary.Skipped))
	for _, sub := range h.subs {
		sub.SessionFinished(h.session, h.summary)
	}
	return h.summary
}
