package report

import (
	"io"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jssimporter/spruce/internal/model"
)

// Writer defines the interface for report output.
// Implementations render an audit run in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs the run report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(run *model.RunReport) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write runs, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the run to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(run *model.RunReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(run)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// sortedByName returns the identities ordered case-insensitively by name
// with id as the tiebreaker, leaving the input untouched. All human-facing
// listings use this ordering so "adobe" and "Adobe" sort together.
func sortedByName(ids []model.Identity) []model.Identity {
	out := make([]model.Identity, len(ids))
	copy(out, ids)
	c := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		if cmp := c.CompareString(out[i].Name, out[j].Name); cmp != 0 {
			return cmp < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}
