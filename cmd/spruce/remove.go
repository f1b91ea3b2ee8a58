package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jssimporter/spruce/internal/jamf"
	logpkg "github.com/jssimporter/spruce/internal/log"
	"github.com/jssimporter/spruce/internal/model"
	"github.com/jssimporter/spruce/internal/report"
)

// NewRemoveCmd creates the remove command.
func NewRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <removal-file>",
		Short: "Delete the objects listed in an edited removal document",
		Long: `Remove reads a removal document previously produced by
"spruce report -o" and deletes every object it lists from the server.

The document is meant to be hand-edited before removal: delete the entries
you want to keep, leave the ones that should go. Removal asks for
confirmation unless --force is given.

Example:
  spruce report -o removals.yaml
  $EDITOR removals.yaml
  spruce remove removals.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: runRemoveCmd,
	}

	addServerFlags(cmd)
	cmd.Flags().BoolP("force", "f", false,
		"Delete without asking for confirmation")

	return cmd
}

// runRemoveCmd executes the remove command.
func runRemoveCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildServerConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := logpkg.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	doc, err := readRemovalFile(args[0])
	if err != nil {
		return err
	}
	if len(doc.Removals) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to remove: the document lists no objects.")
		return nil
	}

	if doc.Server != "" && doc.Server != cfg.ServerURL {
		fmt.Fprintf(cmd.ErrOrStderr(),
			"Warning: the document was generated against %s but the configured server is %s\n",
			doc.Server, cfg.ServerURL)
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	if !force && !confirmRemoval(cmd, doc) {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted. Nothing was removed.")
		return nil
	}

	ctx, cancel := signalContext()
	defer cancel()

	client, err := newServerClient(cfg, logger)
	if err != nil {
		return err
	}
	return removeObjects(ctx, cmd, client, doc.Removals, logger)
}

// readRemovalFile parses the removal document at path.
func readRemovalFile(path string) (*model.RemovalDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open removal document: %w", err)
	}
	defer f.Close()

	doc, err := report.ReadRemovalDocument(f)
	if err != nil {
		return nil, fmt.Errorf("parse removal document %s: %w", path, err)
	}
	return doc, nil
}

// confirmRemoval prints the document's entries and asks the operator to
// confirm. Anything other than "y" or "yes" declines.
func confirmRemoval(cmd *cobra.Command, doc *model.RemovalDocument) bool {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "About to delete %d object(s):\n", len(doc.Removals))
	for _, entry := range doc.Removals {
		fmt.Fprintf(out, "  %s id=%d %s\n", entry.Kind, entry.ID, entry.Name)
	}
	fmt.Fprint(out, "Proceed? [y/N]: ")

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// removeObjects deletes each entry, continuing past individual failures
// so that one gone-missing object does not strand the rest of the list.
func removeObjects(ctx context.Context, cmd *cobra.Command, client *jamf.Client, entries []model.RemovalEntry, logger *slog.Logger) error {
	var removed, missing, failed int
	for _, entry := range entries {
		kind, err := model.KindFromTag(entry.Kind)
		if err != nil {
			logger.Warn("skipping entry with unknown kind",
				"kind", entry.Kind, "id", entry.ID)
			failed++
			continue
		}

		err = client.Delete(ctx, kind, entry.ID)
		switch {
		case err == nil:
			logger.Info("removed object",
				"kind", entry.Kind, "id", entry.ID, "name", entry.Name)
			removed++
		case errors.Is(err, jamf.ErrNotFound):
			logger.Warn("object already gone",
				"kind", entry.Kind, "id", entry.ID, "name", entry.Name)
			missing++
		case errors.Is(err, context.Canceled):
			return err
		default:
			logger.Error("failed to remove object",
				"kind", entry.Kind, "id", entry.ID, "name", entry.Name,
				"error", err)
			failed++
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"Removed %d object(s), %d already gone, %d failed.\n",
		removed, missing, failed)
	if failed > 0 {
		return fmt.Errorf("%d object(s) could not be removed", failed)
	}
	return nil
}
