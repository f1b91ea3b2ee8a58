package report

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jssimporter/spruce/internal/model"
)

// RemovalWriter serializes a run into the editable YAML removal document.
//
// The document lists every removal candidate from the run's non-verbose
// results; the operator deletes the lines for objects they want to keep and
// feeds the file back to "spruce remove". YAML was chosen over the
// original's plist format because it survives hand-editing well (comments,
// no closing tags) and round-trips through the same library the
// configuration already uses.
type RemovalWriter struct {
	baseWriter
}

// NewRemovalWriter creates a RemovalWriter that outputs to the given writer.
func NewRemovalWriter(output io.Writer) *RemovalWriter {
	return &RemovalWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the removal document for the run.
func (w *RemovalWriter) Write(run *model.RunReport) (int, error) {
	doc := model.RemovalDocument{
		Server:      run.Server,
		GeneratedAt: run.GeneratedAt,
		ToolVersion: run.ToolVersion,
		Removals:    run.RemovalCandidates(),
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal removal document: %w", err)
	}

	header := []byte("# Spruce removal document.\n" +
		"# Delete the entries you want to KEEP; everything left in the\n" +
		"# removals list will be deleted by \"spruce remove\".\n")
	n, err := w.output.Write(append(header, data...))
	if err != nil {
		return n, fmt.Errorf("failed to write removal document: %w", err)
	}
	return n, nil
}

// ReadRemovalDocument parses an edited removal document.
//
// Every entry's kind tag is validated here so that a typo made during
// hand-editing fails the whole ingest up front instead of surfacing halfway
// through a deletion pass.
func ReadRemovalDocument(r io.Reader) (*model.RemovalDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read removal document: %w", err)
	}

	var doc model.RemovalDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse removal document: %w", err)
	}

	for i, entry := range doc.Removals {
		if _, err := model.KindFromTag(entry.Kind); err != nil {
			return nil, fmt.Errorf("removal entry %d: %w", i, err)
		}
		if entry.ID <= 0 {
			return nil, fmt.Errorf("removal entry %d (%s): missing or invalid id", i, entry.Name)
		}
	}
	return &doc, nil
}
