package runner

import (
	"time"

	"github.com/google/uuid"
)

// Session is the run-scoped context object. It is created once per run by
// the hooks and handed to every subscriber; its lifecycle is bounded by the
// run, not by package-level state.
type Session struct {
	RunID     string
	StartedAt time.Time

	appVersion string
}

// NewSession creates a fresh session for one test run.
func NewSession() *Session {
	return &Session{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
}

// RecordAppVersion stores the version of the application under test. The
// version is fetched from the device once per run; later calls are ignored
// so the first capture wins.
func (s *Session) RecordAppVersion(version string) {
	if s.appVersion == "" {
		s.appVersion = version
	}
}

// AppVersion returns the recorded application version, or "" when none was
// captured this run.
func (s *Session) AppVersion() string {
	return s.appVersion
}
