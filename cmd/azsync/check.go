package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teppoaland/sbsaa/internal/azure"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify Azure DevOps configuration and connectivity",
	Long: `Check resolves the operating configuration and probes the project
metadata endpoint with a read-only request. Run this before setup to verify
the PAT token, organization URL, and project name without creating anything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := resolveConfig()
		if err != nil {
			return err
		}

		client := azure.New(cfg, logger)
		if !client.TestConnection() {
			fmt.Println("Azure DevOps connection failed")
			fmt.Println("Troubleshooting:")
			fmt.Println("  1. Verify the PAT token has work item read/write permissions")
			fmt.Println("  2. Check the organization URL and project name")
			fmt.Println("  3. Ensure the PAT token has not expired")
			return fmt.Errorf("connection probe to %s failed", cfg.OrganizationURL)
		}

		fmt.Println("Successfully connected to Azure DevOps")
		fmt.Printf("  Organization: %s\n", cfg.OrganizationURL)
		fmt.Printf("  Project:      %s\n", cfg.Project)
		return nil
	},
}
