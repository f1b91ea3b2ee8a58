package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jssimporter/spruce/internal/config"
	"github.com/jssimporter/spruce/internal/history"
	logpkg "github.com/jssimporter/spruce/internal/log"
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [before-run-id after-run-id]",
		Short: "Compare the cruft counts of two stored audit runs",
		Long: `Compare diffs the per-category cruft counts of two audit runs stored
in the local history database. Run without arguments (or with --list) to
see the stored runs and their IDs, then pass two IDs to diff them.

Examples:
  # List stored runs
  spruce compare

  # Diff run 3 against run 7
  spruce compare 3 7`,
		Args: cobra.RangeArgs(0, 2),
		RunE: runCompareCmd,
	}

	cmd.Flags().BoolP("list", "l", false, "List stored runs instead of comparing")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	logger := logpkg.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	store, err := history.Open(config.XDGDataDir(), history.Options{})
	if err != nil {
		return fmt.Errorf("open history database: %w (run \"spruce report\" first)", err)
	}
	defer store.Close()

	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if list || len(args) == 0 {
		return listRuns(cmd, store)
	}
	if len(args) != 2 {
		return fmt.Errorf("compare needs two run IDs, got %d", len(args))
	}

	beforeID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run ID %q", args[0])
	}
	afterID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run ID %q", args[1])
	}

	return compareRuns(cmd, store, beforeID, afterID)
}

// listRuns prints the stored runs, newest first.
func listRuns(cmd *cobra.Command, store *history.Store) error {
	runs, err := store.ListRuns(cmd.Context())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No stored runs. Run \"spruce report\" to create one.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tGENERATED\tSERVER\tVERSION")
	for _, run := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			run.ID,
			run.GeneratedAt.Format("2006-01-02 15:04:05"),
			run.Server,
			run.ToolVersion)
	}
	return w.Flush()
}

// compareRuns prints the count deltas between two stored runs.
func compareRuns(cmd *cobra.Command, store *history.Store, beforeID, afterID int64) error {
	beforeRun, err := store.Run(cmd.Context(), beforeID)
	if err != nil {
		return err
	}
	afterRun, err := store.Run(cmd.Context(), afterID)
	if err != nil {
		return err
	}
	if beforeRun.Server != afterRun.Server {
		fmt.Fprintf(cmd.ErrOrStderr(),
			"Warning: comparing runs from different servers (%s vs %s)\n",
			beforeRun.Server, afterRun.Server)
	}

	before, err := store.Summaries(cmd.Context(), beforeID)
	if err != nil {
		return err
	}
	after, err := store.Summaries(cmd.Context(), afterID)
	if err != nil {
		return err
	}

	deltas := history.Compare(before, after)
	if len(deltas) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Both runs are empty; nothing to compare.")
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Comparing run %d (%s) with run %d (%s)\n\n",
		beforeID, beforeRun.GeneratedAt.Format("2006-01-02 15:04"),
		afterID, afterRun.GeneratedAt.Format("2006-01-02 15:04"))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tBEFORE\tAFTER\tCHANGE")
	for _, d := range deltas {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n",
			d.Heading, d.Before, d.After, formatChange(d.Change()))
	}
	return w.Flush()
}

// formatChange renders a count delta with an explicit sign.
func formatChange(change int) string {
	if change > 0 {
		return fmt.Sprintf("+%d", change)
	}
	if change == 0 {
		return "0"
	}
	return strconv.Itoa(change)
}
