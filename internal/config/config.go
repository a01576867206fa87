// Package config resolves the Azure DevOps operating configuration from
// layered sources: public defaults, an optional local override file, and
// the process environment.
package config

import "fmt"

// Configuration keys. The same names appear in the local override file.
const (
	KeyOrganizationURL = "organization_url"
	KeyProject         = "project"
	KeyPAT             = "personal_access_token"
	KeyDefaultAssignee = "default_assignee"
	KeyBugPriority     = "default_bug_priority"
	KeyBugSeverity     = "default_bug_severity"
)

// Environment variable names. Environment values always take precedence
// over file-based configuration.
const (
	EnvOrganizationURL = "AZURE_DEVOPS_ORG_URL"
	EnvProject         = "AZURE_DEVOPS_PROJECT"
	EnvPAT             = "AZURE_DEVOPS_PAT"
	EnvDefaultAssignee = "AZURE_DEVOPS_DEFAULT_ASSIGNEE"
)

// LocalFileName is the gitignored override file read from the config
// directory. It is never required to exist.
const LocalFileName = "azure_local.json"

// Config is the resolved operating configuration for reaching the tracking
// service. The three mandatory fields are guaranteed non-empty by Resolve.
type Config struct {
	OrganizationURL     string
	Project             string
	PersonalAccessToken string
	DefaultAssignee     string
	BugPriority         string
	BugSeverity         string
}

// WorkItemURL returns the canonical browser URL for a work item in the
// configured project.
func (c *Config) WorkItemURL(workItemID int) string {
	return fmt.Sprintf("%s/%s/_workitems/edit/%d", c.OrganizationURL, c.Project, workItemID)
}
