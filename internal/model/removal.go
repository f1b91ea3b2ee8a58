package model

import "time"

// RemovalEntry names one object selected for deletion.
//
// The (Kind tag, ID) pair is the full removal key. Name is informational
// only and must never be used to resolve the object, since the server does
// not guarantee name uniqueness.
type RemovalEntry struct {
	Kind string `json:"kind" yaml:"kind"`
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// RemovalDocument is the structured document written by -o/--ofile and
// re-ingested by the remove command.
//
// The intended workflow: run a report with -o, hand-edit the Removals list
// down to the objects that should actually go, then feed the edited file to
// "spruce remove". The run metadata at the top records where and when the
// candidate list came from.
type RemovalDocument struct {
	// Server is the server the report was generated against. The remove
	// command warns when it differs from the configured server.
	Server string `json:"server" yaml:"server"`

	// GeneratedAt is when the source report ran.
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`

	// ToolVersion is the Spruce version that generated the document.
	ToolVersion string `json:"tool_version" yaml:"tool_version"`

	// Removals is the operator-edited list of objects to delete.
	Removals []RemovalEntry `json:"removals" yaml:"removals"`
}

// RemovalCandidates collects every identity from non-verbose results of all
// reports in the run into removal entries. Verbose-only results ("All",
// "Used") never feed removal; device results are skipped too, since
// inventory records are not deletion targets for this tool.
// An object appearing in several results of one report (e.g. a group that is
// both unused and empty) is listed once.
func (r *RunReport) RemovalCandidates() []RemovalEntry {
	var entries []RemovalEntry
	for _, report := range r.Reports {
		if report.Kind.IsDevice() {
			continue
		}
		seen := make(map[int]bool)
		for _, result := range report.Results {
			if result.VerboseOnly {
				continue
			}
			for _, id := range result.Identities {
				if seen[id.ID] {
					continue
				}
				seen[id.ID] = true
				entries = append(entries, RemovalEntry{
					Kind: report.Kind.Tag(),
					ID:   id.ID,
					Name: id.Name,
				})
			}
		}
	}
	return entries
}
