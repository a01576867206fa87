package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teppoaland/sbsaa/internal/azure"
	"github.com/teppoaland/sbsaa/internal/mapping"
	"github.com/teppoaland/sbsaa/pkg/types"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the initial work items and mappings for the Saa app suite",
	Long: `Setup is the one-time bootstrap: it creates a feature Issue for the
search functionality, one Test Case work item per automated UI test, and
registers every test-to-work-item mapping in the mapping file.

The connection is probed first; nothing is created when the probe fails, so
a bad credential never leaves a partial batch behind.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, cfg, err := resolveConfig()
		if err != nil {
			return err
		}

		client := azure.New(cfg, logger)
		if !client.TestConnection() {
			return fmt.Errorf("cannot reach Azure DevOps, aborting before any work item is created")
		}

		store := mapping.NewStore(configDir, cfg, logger)

		fmt.Println("Creating feature Issue for search functionality...")
		storyID, err := client.CreateIssue(
			"Saa App - Weather Station Search Functionality",
			"<p><strong>As a</strong> user of the Saa weather application "+
				"<strong>I want to</strong> search for weather stations by city name "+
				"<strong>so that</strong> I can quickly find weather information for my location.</p>",
			"<ul><li>Search field accepts text input and shows the keyboard</li>"+
				"<li>Finnish city names such as Oulu return matching stations</li>"+
				"<li>Results display weather station information</li></ul>",
		)
		if err != nil {
			return fmt.Errorf("create feature issue: %w", err)
		}
		fmt.Printf("  Created Issue %d\n", storyID)

		fmt.Printf("Creating %d Test Cases...\n", len(saaSuite))
		for _, tc := range saaSuite {
			id, err := client.CreateTestCase(tc.Title, tc.Description, tc.Steps, storyID)
			if err != nil {
				return fmt.Errorf("create test case for %s: %w", tc.Function, err)
			}
			if err := store.Add(tc.Function, id, types.WorkItemTestCase); err != nil {
				return fmt.Errorf("register mapping for %s: %w", tc.Function, err)
			}
			fmt.Printf("  Created Test Case %d for %s\n", id, tc.Function)
		}

		fmt.Printf("\nDone: %d test cases mapped in %s/%s\n", len(saaSuite), configDir, mapping.FileName)
		return nil
	},
}
