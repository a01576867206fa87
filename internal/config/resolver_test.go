package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teppoaland/sbsaa/pkg/types"
)

// clearAzureEnv unsets every recognized environment variable for the
// duration of the test.
func clearAzureEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{EnvOrganizationURL, EnvProject, EnvPAT, EnvDefaultAssignee} {
		t.Setenv(env, "")
	}
}

func writeLocalFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, LocalFileName), []byte(content), 0o644))
}

func TestResolveEnvironmentWins(t *testing.T) {
	dir := t.TempDir()
	clearAzureEnv(t)
	writeLocalFile(t, dir, `{
		"personal_access_token": "file-token",
		"organization_url": "https://dev.azure.com/from-file"
	}`)
	t.Setenv(EnvPAT, "env-token")

	cfg, err := Resolve(dir, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.PersonalAccessToken, "environment beats the override file")
	assert.Equal(t, "https://dev.azure.com/from-file", cfg.OrganizationURL, "file beats the public default")
	assert.Equal(t, "test-automation-framework", cfg.Project, "public default fills the rest")
}

func TestResolveLocalFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	clearAzureEnv(t)
	writeLocalFile(t, dir, `{
		"personal_access_token": "local-token",
		"project": "sandbox",
		"default_assignee": "dev@example.com"
	}`)

	cfg, err := Resolve(dir, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "local-token", cfg.PersonalAccessToken)
	assert.Equal(t, "sandbox", cfg.Project)
	assert.Equal(t, "dev@example.com", cfg.DefaultAssignee)
	assert.Equal(t, "2", cfg.BugPriority)
	assert.Equal(t, "3 - Medium", cfg.BugSeverity)
}

func TestResolveMissingCredential(t *testing.T) {
	dir := t.TempDir()
	clearAzureEnv(t)

	cfg, err := Resolve(dir, zap.NewNop())
	require.Error(t, err)
	assert.Nil(t, cfg)

	var cfgErr *types.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{KeyPAT}, cfgErr.Missing)
}

func TestResolveMalformedLocalFileSkipped(t *testing.T) {
	dir := t.TempDir()
	clearAzureEnv(t)
	writeLocalFile(t, dir, `{not json`)
	t.Setenv(EnvPAT, "env-token")

	cfg, err := Resolve(dir, zap.NewNop())
	require.NoError(t, err, "malformed override file is skipped, not fatal")
	assert.Equal(t, "env-token", cfg.PersonalAccessToken)
}

func TestResolveAbsentLocalFile(t *testing.T) {
	dir := t.TempDir()
	clearAzureEnv(t)
	t.Setenv(EnvPAT, "env-token")

	cfg, err := Resolve(dir, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.PersonalAccessToken)
}

func TestResolvePublicWithoutCredential(t *testing.T) {
	dir := t.TempDir()
	clearAzureEnv(t)

	cfg := ResolvePublic(dir, zap.NewNop())
	assert.Empty(t, cfg.PersonalAccessToken)
	assert.Equal(t, "https://dev.azure.com/ttapani-solutions", cfg.OrganizationURL)
	assert.Equal(t, "test-automation-framework", cfg.Project)
	assert.Equal(t,
		"https://dev.azure.com/ttapani-solutions/test-automation-framework/_workitems/edit/9",
		cfg.WorkItemURL(9), "public settings are enough for work item URLs")
}

func TestCredentialPresent(t *testing.T) {
	dir := t.TempDir()
	clearAzureEnv(t)
	assert.False(t, CredentialPresent(dir, zap.NewNop()))

	t.Setenv(EnvPAT, "token")
	assert.True(t, CredentialPresent(dir, zap.NewNop()))
}

func TestMergeFirstNonEmptyWins(t *testing.T) {
	high := provider{name: "high", lookup: func(key string) string {
		if key == KeyProject {
			return "high-project"
		}
		return ""
	}}
	low := provider{name: "low", lookup: func(key string) string {
		switch key {
		case KeyProject:
			return "low-project"
		case KeyOrganizationURL:
			return "low-org"
		}
		return ""
	}}

	merged := merge([]provider{high, low})
	assert.Equal(t, "high-project", merged[KeyProject])
	assert.Equal(t, "low-org", merged[KeyOrganizationURL])
	assert.Empty(t, merged[KeyPAT])
}

func TestWorkItemURL(t *testing.T) {
	cfg := &Config{
		OrganizationURL: "https://dev.azure.com/acme",
		Project:         "weather",
	}
	assert.Equal(t, "https://dev.azure.com/acme/weather/_workitems/edit/42", cfg.WorkItemURL(42))
}
