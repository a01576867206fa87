package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teppoaland/sbsaa/internal/azure"
	"github.com/teppoaland/sbsaa/internal/mapping"
	"github.com/teppoaland/sbsaa/pkg/types"
)

var (
	flagCaseFunction string
	flagCaseTitle    string
	flagCaseDesc     string
	flagCaseSteps    []string
	flagCaseParent   int
)

var addCaseCmd = &cobra.Command{
	Use:   "add-case",
	Short: "Create one Test Case work item and register its mapping",
	Long: `Add-case creates a single Test Case work item for a new test function
and records the test-to-work-item mapping. Steps are given as repeated
--step flags in "action|expected result" form; the expected part may be
omitted.

Example:
  azsync add-case --function test_tampere_search \
    --title "Saa App - Tampere Weather Station Search" \
    --step "Tap the search field|Keyboard appears" \
    --step "Enter Tampere|Results list Tampere stations"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		function := normalizeFunction(flagCaseFunction)
		if function == "" {
			return &usageError{"--function is required"}
		}
		if flagCaseTitle == "" {
			return &usageError{"--title is required"}
		}

		configDir, cfg, err := resolveConfig()
		if err != nil {
			return err
		}

		client := azure.New(cfg, logger)
		if !client.TestConnection() {
			return fmt.Errorf("cannot reach Azure DevOps")
		}

		id, err := client.CreateTestCase(flagCaseTitle, flagCaseDesc, parseSteps(flagCaseSteps), flagCaseParent)
		if err != nil {
			return fmt.Errorf("create test case: %w", err)
		}

		store := mapping.NewStore(configDir, cfg, logger)
		if err := store.Add(function, id, types.WorkItemTestCase); err != nil {
			return fmt.Errorf("register mapping: %w", err)
		}

		fmt.Printf("Created Test Case %d, mapped to %s\n", id, function)
		fmt.Printf("  %s\n", cfg.WorkItemURL(id))
		return nil
	},
}

func init() {
	addCaseCmd.Flags().StringVar(&flagCaseFunction, "function", "", "test function name, e.g. test_tampere_search")
	addCaseCmd.Flags().StringVar(&flagCaseTitle, "title", "", "work item title")
	addCaseCmd.Flags().StringVar(&flagCaseDesc, "description", "", "work item description (HTML allowed)")
	addCaseCmd.Flags().StringArrayVar(&flagCaseSteps, "step", nil, `test step as "action|expected result", repeatable`)
	addCaseCmd.Flags().IntVar(&flagCaseParent, "parent", 0, "parent work item id")
}

// normalizeFunction trims the given name and enforces the test_ prefix the
// runner uses for discovery.
func normalizeFunction(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if !strings.HasPrefix(name, "test_") {
		name = "test_" + name
	}
	return name
}

// parseSteps splits each "action|expected" flag value into a TestStep.
// A value without a separator becomes an action with no expected result.
func parseSteps(raw []string) []types.TestStep {
	steps := make([]types.TestStep, 0, len(raw))
	for _, r := range raw {
		action, expected, _ := strings.Cut(r, "|")
		steps = append(steps, types.TestStep{
			Action:   strings.TrimSpace(action),
			Expected: strings.TrimSpace(expected),
		})
	}
	return steps
}
