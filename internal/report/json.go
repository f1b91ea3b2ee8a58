package report

import (
	"encoding/json"
	"io"

	"github.com/jssimporter/spruce/internal/model"
)

// JSONWriter outputs runs in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because:
// 1. It's part of the standard library (no extra dependencies)
// 2. It's sufficient for our needs
// 3. It provides consistent behavior across Go versions
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// jsonRun mirrors model.RunReport with the kind rendered as its stable tag
// rather than its numeric enum value.
type jsonRun struct {
	Server      string       `json:"server"`
	GeneratedAt string       `json:"generated_at"`
	ToolVersion string       `json:"tool_version"`
	Reports     []jsonReport `json:"reports"`
}

type jsonReport struct {
	Kind     string                  `json:"kind"`
	Results  []model.Result          `json:"results"`
	Metadata []model.MetadataSection `json:"metadata,omitempty"`
}

// Write outputs the run in JSON format.
func (w *JSONWriter) Write(run *model.RunReport) (int, error) {
	out := jsonRun{
		Server:      run.Server,
		GeneratedAt: run.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		ToolVersion: run.ToolVersion,
		Reports:     make([]jsonReport, 0, len(run.Reports)),
	}
	for _, report := range run.Reports {
		out.Reports = append(out.Reports, jsonReport{
			Kind:     report.Kind.Tag(),
			Results:  report.Results,
			Metadata: report.Metadata,
		})
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(out, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}
