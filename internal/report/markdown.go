package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/jssimporter/spruce/internal/model"
)

// MarkdownWriter outputs runs in Markdown format.
// This format is designed for documentation and sharing, e.g. pasting a
// cleanup report into a ticket.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter

	// verbose includes the "All" and "Used" listings.
	verbose bool
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownVerbose enables verbose output including All/Used listings.
func WithMarkdownVerbose(verbose bool) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.verbose = verbose
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the run in Markdown format.
func (w *MarkdownWriter) Write(run *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Spruce Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Server", "`" + run.Server + "`"},
			{"Generated", run.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Tool Version", run.ToolVersion},
		},
	})
	md.PlainText("")

	for _, report := range run.Reports {
		w.writeReport(md, report)
	}

	return len(md.String()), md.Build()
}

// writeReport renders one object type as an H2 section.
func (w *MarkdownWriter) writeReport(md *markdown.Markdown, report *model.CruftReport) {
	md.H2(report.Kind.String())
	md.PlainText("")

	for _, result := range report.Results {
		if result.VerboseOnly && !w.verbose {
			continue
		}
		md.H3(result.Heading + " (" + strconv.Itoa(len(result.Identities)) + ")")
		if result.Description != "" {
			md.PlainText(result.Description)
			md.PlainText("")
		}
		if len(result.Identities) == 0 {
			md.PlainText("None.")
		} else {
			items := make([]string, 0, len(result.Identities))
			for _, id := range sortedByName(result.Identities) {
				items = append(items, id.String())
			}
			md.BulletList(items...)
		}
		md.PlainText("")
	}

	for _, section := range report.Metadata {
		md.H3(section.Name)
		rows := make([][]string, 0, len(section.Entries))
		for _, entry := range section.Entries {
			rows = append(rows, []string{entry.Key, entry.Value})
		}
		md.Table(markdown.TableSet{
			Header: []string{section.Name, "Value"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}
