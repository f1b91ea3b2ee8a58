package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jssimporter/spruce/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// Headings follow the classic Spruce style: a bar of hashes, the result
// heading, then one object per line.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose includes the "All" and "Used" listings that are normally
	// suppressed.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output including All/Used listings.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the run in text format.
func (w *SimpleWriter) Write(run *model.RunReport) (int, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Spruce report for %s\n", run.Server)
	fmt.Fprintf(&b, "Generated %s by Spruce %s\n\n",
		run.GeneratedAt.Format("2006-01-02 15:04:05 MST"), run.ToolVersion)

	for _, report := range run.Reports {
		w.writeReport(&b, report)
	}

	return io.WriteString(w.output, b.String())
}

// writeReport renders one object type's results and metadata.
func (w *SimpleWriter) writeReport(b *strings.Builder, report *model.CruftReport) {
	for _, result := range report.Results {
		if result.VerboseOnly && !w.verbose {
			continue
		}
		fmt.Fprintf(b, "%s %s: (%d)\n", strings.Repeat("#", 10),
			result.Heading, len(result.Identities))
		if result.Description != "" {
			fmt.Fprintf(b, "%s\n", result.Description)
		}
		for _, id := range sortedByName(result.Identities) {
			fmt.Fprintf(b, "%s\n", id.String())
		}
		fmt.Fprintln(b)
	}

	for _, section := range report.Metadata {
		fmt.Fprintf(b, "%s %s (%s):\n", strings.Repeat("#", 10),
			section.Name, report.Kind.String())
		for _, entry := range section.Entries {
			fmt.Fprintf(b, "  %s: %s\n", entry.Key, entry.Value)
		}
		fmt.Fprintln(b)
	}
}
