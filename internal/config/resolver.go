package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/teppoaland/sbsaa/pkg/types"
)

// mandatoryKeys must be non-empty after the merge or Resolve fails before
// any network call is made.
var mandatoryKeys = []string{KeyOrganizationURL, KeyProject, KeyPAT}

// envTable maps environment variable names to configuration keys.
var envTable = map[string]string{
	EnvOrganizationURL: KeyOrganizationURL,
	EnvProject:         KeyProject,
	EnvPAT:             KeyPAT,
	EnvDefaultAssignee: KeyDefaultAssignee,
}

// provider is one configuration source. Lookup returns the value for a key,
// or "" when the source does not supply it.
type provider struct {
	name   string
	lookup func(key string) string
}

// publicDefaults are safe to commit: they contain no secrets. The credential
// has no default on purpose.
func publicDefaults() map[string]string {
	return map[string]string{
		KeyOrganizationURL: "https://dev.azure.com/ttapani-solutions",
		KeyProject:         "test-automation-framework",
		KeyBugPriority:     "2",
		KeyBugSeverity:     "3 - Medium",
	}
}

// Resolve merges configuration from public defaults, the optional local
// override file in configDir, and the process environment, in that order of
// increasing priority. It returns a *types.ConfigError naming every missing
// mandatory key; no network I/O happens here.
func Resolve(configDir string, logger *zap.Logger) (*Config, error) {
	// A .env file in the working directory feeds the environment provider.
	// Absence is the normal case.
	_ = godotenv.Load()

	merged := merge(resolutionOrder(configDir, logger))

	var missing []string
	for _, key := range mandatoryKeys {
		if merged[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &types.ConfigError{Missing: missing}
	}

	return fromMerged(merged), nil
}

// ResolvePublic merges the same layers as Resolve but skips the mandatory
// key checks. The organization URL and project carry public defaults, so
// callers that run without a credential, such as report link construction,
// still get usable addressing settings.
func ResolvePublic(configDir string, logger *zap.Logger) *Config {
	_ = godotenv.Load()
	return fromMerged(merge(resolutionOrder(configDir, logger)))
}

func fromMerged(merged map[string]string) *Config {
	return &Config{
		OrganizationURL:     merged[KeyOrganizationURL],
		Project:             merged[KeyProject],
		PersonalAccessToken: merged[KeyPAT],
		DefaultAssignee:     merged[KeyDefaultAssignee],
		BugPriority:         merged[KeyBugPriority],
		BugSeverity:         merged[KeyBugSeverity],
	}
}

// CredentialPresent reports whether a credential token is available from any
// source. When it is not, the synchronization path is skipped by design;
// this is the normal state for local development.
func CredentialPresent(configDir string, logger *zap.Logger) bool {
	_ = godotenv.Load()
	return merge(resolutionOrder(configDir, logger))[KeyPAT] != ""
}

// resolutionOrder returns the providers ordered highest priority first.
func resolutionOrder(configDir string, logger *zap.Logger) []provider {
	return []provider{
		envProvider(),
		fileProvider(filepath.Join(configDir, LocalFileName), logger),
		defaultsProvider(),
	}
}

// merge queries providers in priority order; the first non-empty value wins
// per key. Pure with respect to its inputs, which keeps the layering
// testable in isolation.
func merge(providers []provider) map[string]string {
	keys := []string{
		KeyOrganizationURL, KeyProject, KeyPAT,
		KeyDefaultAssignee, KeyBugPriority, KeyBugSeverity,
	}

	merged := make(map[string]string, len(keys))
	for _, key := range keys {
		for _, p := range providers {
			if v := p.lookup(key); v != "" {
				merged[key] = v
				break
			}
		}
	}
	return merged
}

func defaultsProvider() provider {
	defaults := publicDefaults()
	return provider{
		name:   "defaults",
		lookup: func(key string) string { return defaults[key] },
	}
}

// fileProvider reads the flat JSON override file at path. A missing file
// yields an empty provider; a malformed file is logged and skipped, never
// fatal.
func fileProvider(path string, logger *zap.Logger) provider {
	empty := provider{name: "local file", lookup: func(string) string { return "" }}

	if _, err := os.Stat(path); err != nil {
		return empty
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		logger.Warn("could not read local override file, skipping",
			zap.String("path", path), zap.Error(err))
		return empty
	}

	return provider{
		name:   "local file",
		lookup: v.GetString,
	}
}

func envProvider() provider {
	keyToEnv := make(map[string]string, len(envTable))
	for env, key := range envTable {
		keyToEnv[key] = env
	}
	return provider{
		name: "environment",
		lookup: func(key string) string {
			if env, ok := keyToEnv[key]; ok {
				return os.Getenv(env)
			}
			return ""
		},
	}
}
