package model

import "time"

// Result is one named set of identities inside a CruftReport, e.g.
// "Unused Packages" or "Empty Computer Groups".
type Result struct {
	// Heading is the display heading, unique within one CruftReport.
	// Later pipeline stages look results back up by heading.
	Heading string `json:"heading" yaml:"heading"`

	// Description is a one-line human explanation of what membership in
	// this result means.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// VerboseOnly marks results that are suppressed in non-verbose
	// output ("All ..." and "Used ..." listings).
	VerboseOnly bool `json:"verbose_only" yaml:"verbose_only"`

	// Identities is the membership of the result.
	Identities []Identity `json:"identities" yaml:"identities"`
}

// MetadataEntry is one key/value line in a metadata section.
type MetadataEntry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// MetadataSection groups related metadata entries under a section name,
// e.g. "Cruftiness" or "Version Spread".
type MetadataSection struct {
	Name    string          `json:"name" yaml:"name"`
	Entries []MetadataEntry `json:"entries" yaml:"entries"`
}

// CruftReport is the assembled audit result for one object type: an ordered
// list of Results followed by ordered metadata sections (cruftiness scores
// and histograms).
//
// Order is part of the contract. Results render in insertion order (All,
// Used, Unused, then type-specific extras) and metadata sections likewise,
// so the presentation layer never re-sorts.
type CruftReport struct {
	// Kind identifies the audited object type.
	Kind ObjectKind `json:"kind" yaml:"kind"`

	// Results holds the named identity sets in insertion order.
	Results []Result `json:"results" yaml:"results"`

	// Metadata holds cruftiness and histogram sections in insertion order.
	Metadata []MetadataSection `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NewCruftReport creates an empty report for the given object type.
func NewCruftReport(kind ObjectKind) *CruftReport {
	return &CruftReport{Kind: kind}
}

// AddResult appends a result, preserving insertion order.
func (c *CruftReport) AddResult(result Result) {
	c.Results = append(c.Results, result)
}

// ResultByHeading returns a pointer to the result with the given heading.
// Later pipeline stages (nesting resolution) use this to pull back the
// partitioner's "Used"/"Unused" results and replace their membership.
func (c *CruftReport) ResultByHeading(heading string) (*Result, bool) {
	for i := range c.Results {
		if c.Results[i].Heading == heading {
			return &c.Results[i], true
		}
	}
	return nil, false
}

// AddMetadata appends an entry to the named metadata section, creating the
// section at the end of the section list if it does not exist yet.
func (c *CruftReport) AddMetadata(section, key, value string) {
	for i := range c.Metadata {
		if c.Metadata[i].Name == section {
			c.Metadata[i].Entries = append(c.Metadata[i].Entries,
				MetadataEntry{Key: key, Value: value})
			return
		}
	}
	c.Metadata = append(c.Metadata, MetadataSection{
		Name:    section,
		Entries: []MetadataEntry{{Key: key, Value: value}},
	})
}

// MetadataSection returns the named section, or false if absent.
func (c *CruftReport) MetadataSection(name string) (*MetadataSection, bool) {
	for i := range c.Metadata {
		if c.Metadata[i].Name == name {
			return &c.Metadata[i], true
		}
	}
	return nil, false
}

// RunReport is one full audit run: run metadata plus one CruftReport per
// requested object type, in the order they were produced.
type RunReport struct {
	// Server identifies the audited server, e.g. its base URL.
	Server string `json:"server" yaml:"server"`

	// GeneratedAt is the timestamp of the run.
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`

	// ToolVersion is the Spruce version that produced the run.
	ToolVersion string `json:"tool_version" yaml:"tool_version"`

	// Reports holds the per-type reports in production order.
	Reports []*CruftReport `json:"reports" yaml:"reports"`
}

// NewRunReport creates a RunReport stamped with the current time.
func NewRunReport(server, toolVersion string) *RunReport {
	return &RunReport{
		Server:      server,
		GeneratedAt: time.Now(),
		ToolVersion: toolVersion,
	}
}

// AddReport appends a per-type report, preserving production order.
func (r *RunReport) AddReport(report *CruftReport) {
	r.Reports = append(r.Reports, report)
}

// ReportByKind returns the report for the given kind, or false if the run
// did not include that type.
func (r *RunReport) ReportByKind(kind ObjectKind) (*CruftReport, bool) {
	for _, report := range r.Reports {
		if report.Kind == kind {
			return report, true
		}
	}
	return nil, false
}
