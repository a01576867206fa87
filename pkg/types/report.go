package types

import "time"

// Test outcomes as classified after the execution phase of a test.
const (
	OutcomePassed  Outcome = "PASSED"
	OutcomeFailed  Outcome = "FAILED"
	OutcomeSkipped Outcome = "SKIPPED"
)

// Outcome is the result classification of a single test execution.
type Outcome string

// validOutcomes is the set of recognized outcome values.
var validOutcomes = map[Outcome]bool{
	OutcomePassed:  true,
	OutcomeFailed:  true,
	OutcomeSkipped: true,
}

// Valid reports whether the outcome is one of the recognized values.
func (o Outcome) Valid() bool {
	return validOutcomes[o]
}

// ExecutionReport describes one completed test execution. It is produced by
// the test runner after the execution phase, consumed once by the result
// synchronizer, and then discarded.
type ExecutionReport struct {
	TestID      string        // Qualified test identifier, e.g. "test_oulu_search".
	Outcome     Outcome       // PASSED, FAILED, or SKIPPED.
	Duration    time.Duration // Wall-clock duration of the execution phase.
	StartedAt   time.Time     // Timestamp when the execution phase began.
	Location    string        // Source file of the test, when known.
	ErrorDetail string        // Raw error text; empty unless Outcome is FAILED.
}
