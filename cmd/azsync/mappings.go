package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/teppoaland/sbsaa/internal/mapping"
)

var flagMappingsJSON bool

var mappingsCmd = &cobra.Command{
	Use:   "mappings [test-function...]",
	Short: "List or verify the test-to-work-item mappings",
	Long: `Without arguments, mappings lists every registered mapping. With test
function names as arguments it verifies each one and reports the functions
that have no work item mapping; unmapped functions make the command fail so
CI can catch an incomplete registration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, cfg, err := resolveConfig()
		if err != nil {
			return err
		}
		store := mapping.NewStore(configDir, cfg, logger)

		if len(args) > 0 {
			return verifyMappings(store, args)
		}

		all := store.All()
		if flagMappingsJSON {
			return json.NewEncoder(os.Stdout).Encode(all)
		}

		testIDs := make([]string, 0, len(all))
		for testID := range all {
			testIDs = append(testIDs, testID)
		}
		sort.Strings(testIDs)

		for _, testID := range testIDs {
			entry := all[testID]
			fmt.Printf("%-30s -> %s %d  %s\n", testID, entry.WorkItemType, entry.WorkItemID, entry.URL)
		}
		fmt.Printf("%d mappings\n", len(all))
		return nil
	},
}

func init() {
	mappingsCmd.Flags().BoolVar(&flagMappingsJSON, "json", false, "output as JSON")
}

func verifyMappings(store *mapping.Store, testIDs []string) error {
	var unmapped []string
	for _, testID := range testIDs {
		entry, err := store.Require(testID)
		if err != nil {
			fmt.Printf("MISS %s has no work item mapping\n", testID)
			unmapped = append(unmapped, testID)
			continue
		}
		fmt.Printf("ok   %s -> work item %d\n", testID, entry.WorkItemID)
	}

	if len(unmapped) > 0 {
		return fmt.Errorf("%d of %d tests have no mapping", len(unmapped), len(testIDs))
	}
	fmt.Printf("all %d tests mapped\n", len(testIDs))
	return nil
}
