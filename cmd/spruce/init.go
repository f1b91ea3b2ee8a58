package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jssimporter/spruce/internal/config"
)

//go:embed templates/spruce.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new Spruce configuration file",
		Long: `Initialize creates a new .spruce.yaml configuration file in the current
directory.

The generated file includes commented defaults for the server URL, API
credentials, TLS verification, timeouts, and the catch-all group list used
by orphan detection.

Examples:
  # Create .spruce.yaml in current directory
  spruce init

  # Create config file at a specific path
  spruce init -o myconfig.yaml

  # Force overwrite existing file
  spruce init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/spruce.yaml")
	if err != nil {
		return fmt.Errorf("read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}

	// The file may hold an API password, so owner-only permissions.
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("write configuration file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to set:")
	fmt.Fprintln(cmd.OutOrStdout(), "  - The server URL and API credentials")
	fmt.Fprintln(cmd.OutOrStdout(), "  - TLS verification for self-signed certificates")
	fmt.Fprintln(cmd.OutOrStdout(), "  - The device check-in period and catch-all groups")

	return nil
}
