package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teppoaland/sbsaa/internal/config"
	"github.com/teppoaland/sbsaa/internal/paths"
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
)

// logger is initialized once by PersistentPreRunE and shared by all
// subcommands.
var logger *zap.Logger

var rootCmd = &cobra.Command{
	Use:   "azsync",
	Short: "azsync manages the Azure DevOps integration of the Saa app test suite",
	Long: `azsync creates Azure DevOps work items for the Saa app UI test suite,
maintains the test-to-work-item mapping file, and inspects the local run
history. Test results themselves are synchronized automatically by the
runner hooks; azsync covers the one-time setup and registration steps.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/config)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "run history directory (default: $(CWD)/.sbsaa-history)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(addCaseCmd)
	rootCmd.AddCommand(mappingsCmd)
	rootCmd.AddCommand(historyCmd)
}

// resolveConfigDir returns the configuration directory following the
// flag > env > default precedence.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// resolveConfig resolves the configuration directory and the full operating
// configuration. A ConfigError from here carries its own remediation text.
func resolveConfig() (string, *config.Config, error) {
	configDir, err := resolveConfigDir()
	if err != nil {
		return "", nil, fmt.Errorf("resolve config dir: %w", err)
	}

	cfg, err := config.Resolve(configDir, logger)
	if err != nil {
		return "", nil, err
	}
	return configDir, cfg, nil
}
