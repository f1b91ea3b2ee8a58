package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jssimporter/spruce/internal/config"
	"github.com/jssimporter/spruce/internal/device"
	"github.com/jssimporter/spruce/internal/history"
	"github.com/jssimporter/spruce/internal/jamf"
	logpkg "github.com/jssimporter/spruce/internal/log"
	"github.com/jssimporter/spruce/internal/model"
	"github.com/jssimporter/spruce/internal/pipeline"
	"github.com/jssimporter/spruce/internal/report"
)

// kindFlags maps object-type selection flags to kinds, in report order.
// Imaging configurations and provisioning profiles are deliberately absent:
// they are containers other audits read, not audited types of their own.
var kindFlags = []struct {
	flag string
	kind model.ObjectKind
}{
	{"packages", model.KindPackage},
	{"scripts", model.KindScript},
	{"printers", model.KindPrinter},
	{"policies", model.KindPolicy},
	{"computer-groups", model.KindComputerGroup},
	{"mobile-device-groups", model.KindMobileDeviceGroup},
	{"computer-profiles", model.KindComputerProfile},
	{"mobile-device-profiles", model.KindMobileDeviceProfile},
	{"apps", model.KindMobileDeviceApp},
	{"ebooks", model.KindEBook},
	{"computers", model.KindComputer},
	{"mobile-devices", model.KindMobileDevice},
}

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Audit the server's catalog and report cruft",
		Long: `Report audits the configured server's catalog and reports, per object
type, what is not in use: unreferenced packages, scripts, and printers,
unscoped policies and profiles, empty and unreferenced device groups, and
out-of-date or orphaned devices.

With no type flags, every type is audited. With one or more type flags,
only those types are.

Examples:
  # Full audit, human-readable report on stdout
  spruce report

  # Only packages and scripts, with the All/Used listings included
  spruce report --packages --scripts -v

  # Markdown report to a file
  spruce report --markdown --output report.md

  # Full audit plus a removal document for later editing
  spruce report -o removals.yaml`,
		Args: cobra.NoArgs,
		RunE: runReportCmd,
	}

	addServerFlags(cmd)

	// Object type selection flags
	cmd.Flags().BoolP("all", "a", false,
		"Audit every object type (the default when no type flag is given)")
	for _, kf := range kindFlags {
		cmd.Flags().Bool(kf.flag, false, "Audit "+kf.kind.String())
	}

	// Report output flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().String("output", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().StringP("ofile", "o", "",
		"Write a YAML removal document listing the report's removal candidates")

	// Device audit flags
	cmd.Flags().String("check-in-period", "",
		"Days without a check-in before a device counts as out of date")

	return cmd
}

// addServerFlags registers the server connection flags shared by the
// report and remove commands.
func addServerFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("server", "s", "",
		"Base URL of the server, e.g. https://jss.example.com:8443")
	cmd.Flags().StringP("username", "u", "",
		"API account username")
	cmd.Flags().StringP("password", "p", "",
		"API account password")
	cmd.Flags().Bool("insecure", false,
		"Skip TLS certificate verification (self-signed server certificates)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request API timeout")
	cmd.Flags().Int("concurrency", config.DefaultFetchConcurrency,
		"Number of record fetches in flight at once")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .spruce.yaml in current directory)")
}

// buildServerConfig assembles a Config from the config file and flags.
// File values are applied first so that flags, applied afterwards, win.
func buildServerConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	explicitPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = explicitPath

	configPath := config.FindConfigFile(explicitPath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
		if err := file.Apply(cfg); err != nil {
			return nil, fmt.Errorf("apply config file %s: %w", configPath, err)
		}
	} else if explicitPath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", explicitPath)
	}

	if cmd.Flags().Changed("server") {
		cfg.ServerURL, _ = cmd.Flags().GetString("server")
	}
	if cmd.Flags().Changed("username") {
		cfg.Username, _ = cmd.Flags().GetString("username")
	}
	if cmd.Flags().Changed("password") {
		cfg.Password, _ = cmd.Flags().GetString("password")
	}
	if cmd.Flags().Changed("insecure") {
		insecure, _ := cmd.Flags().GetBool("insecure")
		cfg.VerifySSL = !insecure
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.FetchConcurrency, _ = cmd.Flags().GetInt("concurrency")
	}
	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// newServerClient creates the API client for a validated config.
func newServerClient(cfg *config.Config, logger *slog.Logger) (*jamf.Client, error) {
	return jamf.NewClient(cfg.ServerURL, cfg.Username, cfg.Password,
		jamf.WithTimeout(cfg.Timeout),
		jamf.WithConcurrency(cfg.FetchConcurrency),
		jamf.WithInsecureSkipVerify(!cfg.VerifySSL),
		jamf.WithLogger(logger),
	)
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// selectedKinds returns the object kinds chosen by flags, in report order.
// No type flag, or --all, selects everything.
func selectedKinds(cmd *cobra.Command) ([]model.ObjectKind, error) {
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return nil, err
	}

	var kinds []model.ObjectKind
	for _, kf := range kindFlags {
		selected, err := cmd.Flags().GetBool(kf.flag)
		if err != nil {
			return nil, err
		}
		if selected {
			kinds = append(kinds, kf.kind)
		}
	}

	if all || len(kinds) == 0 {
		kinds = kinds[:0]
		for _, kf := range kindFlags {
			kinds = append(kinds, kf.kind)
		}
	}
	return kinds, nil
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServerConfig(cmd)
	if err != nil {
		return err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	cfg.RemovalFile, err = cmd.Flags().GetString("ofile")
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("check-in-period") {
		cfg.CheckInPeriod, _ = cmd.Flags().GetString("check-in-period")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := logpkg.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	kinds, err := selectedKinds(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	client, err := newServerClient(cfg, logger)
	if err != nil {
		return err
	}

	return runReport(ctx, cmd, cfg, client, kinds, logger)
}

// runReport executes the audit pipeline and writes the requested outputs.
func runReport(ctx context.Context, cmd *cobra.Command, cfg *config.Config, catalog pipeline.Catalog, kinds []model.ObjectKind, logger *slog.Logger) error {
	p, err := pipeline.DefaultPipeline(catalog, kinds, pipeline.StepConfig{
		CheckInDays:    device.CheckInPeriod(cfg.CheckInPeriod, logger),
		CatchAllGroups: cfg.CatchAllGroups,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	run := model.NewRunReport(cfg.ServerURL, getVersion())

	if err := p.Execute(ctx, run); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		// Partial runs are still worth reporting; the failed types are
		// simply absent.
		logger.Warn("some audits failed", "error", err)
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: some audits failed: %v\n", err)
	}
	if len(run.Reports) == 0 {
		return errors.New("no audit produced a report")
	}

	if err := writeOutputs(cmd, cfg, run); err != nil {
		return err
	}

	saveRunSummary(ctx, run, logger)
	return nil
}

// writeOutputs writes the report in the selected format plus, when
// requested, the removal document.
func writeOutputs(cmd *cobra.Command, cfg *config.Config, run *model.RunReport) error {
	output, closer, err := openOutput(cmd, cfg.OutputFile)
	if err != nil {
		return err
	}
	defer closer()

	writers := []report.Writer{newReportWriter(cfg, output)}

	if cfg.RemovalFile != "" {
		f, err := os.OpenFile(cfg.RemovalFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("create removal document: %w", err)
		}
		defer f.Close()
		writers = append(writers, report.NewRemovalWriter(f))
	}

	if _, err := report.NewMultiWriter(writers...).Write(run); err != nil {
		return err
	}

	if cfg.RemovalFile != "" {
		fmt.Fprintf(cmd.ErrOrStderr(),
			"Removal document written to %s. Edit it, then run: spruce remove %s\n",
			cfg.RemovalFile, cfg.RemovalFile)
	}
	return nil
}

// newReportWriter picks the report writer for the configured format.
func newReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output, report.WithMarkdownVerbose(cfg.Verbose))
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}

// openOutput returns the report destination and a close function.
// Reports go to stdout unless an output file is configured.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// saveRunSummary stores the run's summaries in the history database.
// History is best effort; a failed save never fails the report.
func saveRunSummary(ctx context.Context, run *model.RunReport, logger *slog.Logger) {
	store, err := history.Open(config.XDGDataDir(), history.DefaultOptions())
	if err != nil {
		logger.Warn("history database unavailable", "error", err)
		return
	}
	defer store.Close()

	runID, err := store.SaveRun(ctx, run)
	if err != nil {
		logger.Warn("failed to save run summary", "error", err)
		return
	}
	logger.Info("run summary saved", "run_id", runID)
}
