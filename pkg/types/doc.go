// Package types defines the execution report, work item, and mapping entity
// types plus the standard error types shared by the Azure DevOps
// synchronization packages.
package types
