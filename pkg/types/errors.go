package types

import (
	"errors"
	"fmt"
	"strings"
)

// Mapping store conditions. A corrupt mapping file is recovered by treating
// the store as empty; the sentinel exists so callers can distinguish the
// recovery path in logs and tests.
var (
	ErrNoMapping      = errors.New("no work item mapping for test")
	ErrMappingCorrupt = errors.New("mapping file is unreadable")
)

// ConfigError reports mandatory configuration keys that are still empty
// after the defaults, local file, and environment layers have been merged.
// It is fatal at startup of any component that talks to the tracking
// service; mandatory keys are never silently defaulted.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "missing required Azure DevOps configuration: %s\n", strings.Join(e.Missing, ", "))
	b.WriteString("supply the missing values via one of:\n")
	b.WriteString("  1. environment variables: AZURE_DEVOPS_ORG_URL, AZURE_DEVOPS_PROJECT, AZURE_DEVOPS_PAT\n")
	b.WriteString("  2. local override file (gitignored): config/azure_local.json\n")
	b.WriteString("  3. CI secret store: add AZURE_DEVOPS_PAT as a pipeline secret")
	return b.String()
}

// ServiceError reports a failed remote call against the tracking service.
// It is always caught at the synchronization boundary and logged; a tracking
// service outage must never fail the test run itself.
type ServiceError struct {
	Op     string // Operation that failed, e.g. "create work item".
	Status int    // HTTP status code, 0 when the request never completed.
	Body   string // Response body excerpt for manual retry context.
	Err    error  // Underlying transport error, if any.
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("azure devops: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("azure devops: %s: status %d: %s", e.Op, e.Status, e.Body)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
