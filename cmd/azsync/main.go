// Package main provides the azsync CLI: setup, registration, and inspection
// tooling for the Azure DevOps test synchronization of the Saa app suite.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/teppoaland/sbsaa/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode classifies a command failure: configuration and invocation
// mistakes are user errors, everything else is a system error.
func exitCode(err error) int {
	var cfgErr *types.ConfigError
	var usgErr *usageError
	if errors.As(err, &cfgErr) || errors.As(err, &usgErr) {
		return exitUserError
	}
	return exitSysError
}

// usageError reports a command invocation mistake, such as a missing
// required flag.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}
