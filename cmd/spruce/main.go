// Package main provides the entry point for the Spruce CLI.
//
// Spruce audits a fleet-management server's catalog for cruft: unused
// packages, scripts, and printers, unscoped policies and profiles, empty
// and unreferenced device groups, and stale or orphaned devices.
//
// Usage:
//
//	spruce report
//	spruce report --packages --scripts -o removals.yaml
//	spruce remove removals.yaml
//
// See --help for all available options.
package main

// main is the entry point for Spruce.
func main() {
	Execute()
}
