// Package main provides the entry point for the Spruce CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for Spruce.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spruce",
		Short: "Audit a fleet-management server's catalog for cruft",
		Long: `Spruce reports which objects in a fleet-management server's catalog are
not doing anything: packages, scripts, and printers no policy references,
policies and profiles scoped to nothing, device groups that are empty or
unreferenced, and devices that have stopped checking in.

Reports can emit a removal document (-o) which, after hand editing, feeds
"spruce remove" to delete the selected objects.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose logging and include the All/Used listings in reports")

	// Add subcommands
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewRemoveCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
