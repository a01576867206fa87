package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version of the azsync tool.
const Version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("azsync v" + Version)
	},
}
