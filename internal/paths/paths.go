// Package paths resolves the configuration and data directory locations
// used by the synchronization engine.
package paths

import (
	"os"
	"path/filepath"
)

// CWD-relative directory names. The config directory matches the repository
// layout the test suite ships with (config/ holds the local override file
// and the mapping file); the data directory holds the local run history.
const (
	DefaultConfigDirName = "config"
	DefaultDataDirName   = ".sbsaa-history"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "SBSAA_CONFIG_DIR"
	EnvDataDir   = "SBSAA_DATA_DIR"
)

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > SBSAA_CONFIG_DIR env > $(CWD)/config.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultConfigDirName), nil
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > SBSAA_DATA_DIR env > $(CWD)/.sbsaa-history.
func ResolveDataDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
