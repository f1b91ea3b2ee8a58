package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jssimporter/spruce/internal/analyze"
	"github.com/jssimporter/spruce/internal/device"
	"github.com/jssimporter/spruce/internal/model"
)

// Catalog is the pipeline's view of the audited server. The production
// implementation lives in internal/jamf; tests substitute a fake.
//
// Design decision: Steps depend on this narrow interface rather than on the
// HTTP client directly because the audit logic is pure given the catalog
// data. Everything network-shaped stays behind this boundary.
type Catalog interface {
	// List returns the flat (id, name) catalog list for an object type.
	List(ctx context.Context, kind model.ObjectKind) ([]model.Identity, error)

	// Containers returns the fully-populated records of a container type,
	// detailed enough that scope and payload field paths resolve.
	Containers(ctx context.Context, kind model.ObjectKind) ([]*model.Record, error)

	// Groups returns the typed group records for a group kind.
	Groups(ctx context.Context, kind model.ObjectKind) ([]model.Group, error)

	// Devices returns the typed inventory records for a device kind.
	Devices(ctx context.Context, kind model.ObjectKind) ([]model.Device, error)
}

// ContainerSource names one container type and the field paths at which its
// records reference the audited type. Inclusion and exclusion scope paths
// are listed side by side; a reference through either counts as used.
type ContainerSource struct {
	Kind  model.ObjectKind
	Paths []string
}

// cruftinessSection is the metadata section all steps record scores under.
const cruftinessSection = "Cruftiness"

// UsageStep audits one payload object type (packages, scripts, printers)
// whose usage is defined by references from container records.
type UsageStep struct {
	catalog     Catalog
	kind        model.ObjectKind
	sources     []ContainerSource
	description string
	logger      *slog.Logger
}

// NewUsageStep creates a usage audit step for the given payload type.
// description explains what "unused" means for this type and is rendered
// under the report's Unused heading. A nil logger falls back to the default.
func NewUsageStep(catalog Catalog, kind model.ObjectKind, sources []ContainerSource, description string, logger *slog.Logger) *UsageStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &UsageStep{
		catalog:     catalog,
		kind:        kind,
		sources:     sources,
		description: description,
		logger:      logger,
	}
}

// Name returns the step name.
func (s *UsageStep) Name() string {
	return s.kind.Tag()
}

// Do fetches the catalog list and every container source, computes the
// used/unused partition, and appends the finished report to the run.
func (s *UsageStep) Do(ctx context.Context, run *model.RunReport) error {
	all, err := s.catalog.List(ctx, s.kind)
	if err != nil {
		return fmt.Errorf("list %s: %w", s.kind.Tag(), err)
	}

	var sources []analyze.Source
	for _, cs := range s.sources {
		containers, err := s.catalog.Containers(ctx, cs.Kind)
		if err != nil {
			return fmt.Errorf("fetch %s containers: %w", cs.Kind.Tag(), err)
		}
		for _, path := range cs.Paths {
			sources = append(sources, analyze.Source{Containers: containers, Path: path})
		}
	}

	p := analyze.Partition(s.kind, all, analyze.Referenced(sources...))

	report := model.NewCruftReport(s.kind)
	for _, result := range p.Results(s.description) {
		report.AddResult(result)
	}
	report.AddMetadata(cruftinessSection,
		"Unused "+s.kind.String(), model.FormatScore(p.Cruftiness()))

	s.logger.Debug("usage audit complete",
		"kind", s.kind.Tag(),
		"all", len(p.All),
		"unused", len(p.Unused),
	)

	run.AddReport(report)
	return nil
}

// scopeSpec names the field paths that make a container record "scoped":
// a boolean all-targets flag plus the scope membership lists.
type scopeSpec struct {
	allPath   string
	listPaths []string
}

// ScopeStep audits a container object type (policies, profiles, apps,
// eBooks) whose usage is defined by its own scope: a container deployed to
// nothing is cruft regardless of what payloads it carries.
type ScopeStep struct {
	catalog     Catalog
	kind        model.ObjectKind
	spec        scopeSpec
	description string
	logger      *slog.Logger
}

// NewScopeStep creates a scope audit step for the given container type.
func NewScopeStep(catalog Catalog, kind model.ObjectKind, description string, logger *slog.Logger) (*ScopeStep, error) {
	spec, ok := scopeSpecs[kind]
	if !ok {
		return nil, fmt.Errorf("no scope definition for kind %s", kind.Tag())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ScopeStep{
		catalog:     catalog,
		kind:        kind,
		spec:        spec,
		description: description,
		logger:      logger,
	}, nil
}

// Name returns the step name.
func (s *ScopeStep) Name() string {
	return s.kind.Tag()
}

// Do fetches the type's full records, classifies each as scoped or
// unscoped, and appends the finished report to the run.
func (s *ScopeStep) Do(ctx context.Context, run *model.RunReport) error {
	all, err := s.catalog.List(ctx, s.kind)
	if err != nil {
		return fmt.Errorf("list %s: %w", s.kind.Tag(), err)
	}
	records, err := s.catalog.Containers(ctx, s.kind)
	if err != nil {
		return fmt.Errorf("fetch %s records: %w", s.kind.Tag(), err)
	}

	used := make(map[int]model.Identity)
	for _, record := range records {
		if !s.scoped(record) {
			continue
		}
		id, ok := record.Int("general/id")
		if !ok {
			continue
		}
		used[id] = model.Identity{ID: id, Name: record.Text("general/name")}
	}

	p := analyze.Partition(s.kind, all, used)

	report := model.NewCruftReport(s.kind)
	for _, result := range p.Results(s.description) {
		report.AddResult(result)
	}
	report.AddMetadata(cruftinessSection,
		"Unused "+s.kind.String(), model.FormatScore(p.Cruftiness()))

	s.logger.Debug("scope audit complete",
		"kind", s.kind.Tag(),
		"all", len(p.All),
		"unused", len(p.Unused),
	)

	run.AddReport(report)
	return nil
}

// scoped reports whether the record targets anything at all: either the
// all-targets flag is set or at least one scope list has members.
func (s *ScopeStep) scoped(record *model.Record) bool {
	if record.Bool(s.spec.allPath) {
		return true
	}
	for _, path := range s.spec.listPaths {
		if record.Count(path) > 0 {
			return true
		}
	}
	return false
}

// GroupStep audits a device group type. Usage is reference-based like
// UsageStep, but with two extra group-only passes: the nesting resolver
// reclassifies groups reachable through "member of" criteria, and the
// empty-group detector flags groups with no members.
type GroupStep struct {
	catalog Catalog
	kind    model.ObjectKind
	sources []ContainerSource
	logger  *slog.Logger
}

// NewGroupStep creates a group audit step for the given group kind.
func NewGroupStep(catalog Catalog, kind model.ObjectKind, sources []ContainerSource, logger *slog.Logger) *GroupStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &GroupStep{
		catalog: catalog,
		kind:    kind,
		sources: sources,
		logger:  logger,
	}
}

// Name returns the step name.
func (s *GroupStep) Name() string {
	return s.kind.Tag()
}

// Do fetches the groups and their referencing containers, resolves nesting,
// flags empty groups, and appends the finished report to the run.
//
// Nesting cycles never abort the audit. The resolver terminates on cyclic
// input and reports the cycles back; they are logged as warnings with their
// participants so the operator can repair the criteria.
func (s *GroupStep) Do(ctx context.Context, run *model.RunReport) error {
	groups, err := s.catalog.Groups(ctx, s.kind)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", s.kind.Tag(), err)
	}

	all := make([]model.Identity, 0, len(groups))
	for _, g := range groups {
		all = append(all, g.Identity)
	}

	var sources []analyze.Source
	for _, cs := range s.sources {
		containers, err := s.catalog.Containers(ctx, cs.Kind)
		if err != nil {
			return fmt.Errorf("fetch %s containers: %w", cs.Kind.Tag(), err)
		}
		for _, path := range cs.Paths {
			sources = append(sources, analyze.Source{Containers: containers, Path: path})
		}
	}

	p := analyze.Partition(s.kind, all, analyze.Referenced(sources...))
	resolved, cycles := analyze.ResolveNesting(p, groups)
	for _, cycle := range cycles {
		s.logger.Warn("group nesting cycle detected",
			"kind", s.kind.Tag(),
			"cycle", formatCycle(cycle),
		)
	}

	report := model.NewCruftReport(s.kind)
	description := s.kind.String() + " not scoped by any container and not nested inside a used group."
	for _, result := range resolved.Results(description) {
		report.AddResult(result)
	}

	empty, err := analyze.EmptyGroups(s.kind, groups)
	if err != nil {
		return err
	}
	report.AddResult(empty)

	report.AddMetadata(cruftinessSection,
		"Unused "+s.kind.String(), model.FormatScore(resolved.Cruftiness()))
	report.AddMetadata(cruftinessSection,
		"Empty "+s.kind.String(),
		model.FormatScore(analyze.Score(len(empty.Identities), len(groups))))

	s.logger.Debug("group audit complete",
		"kind", s.kind.Tag(),
		"all", len(resolved.All),
		"unused", len(resolved.Unused),
		"empty", len(empty.Identities),
		"cycles", len(cycles),
	)

	run.AddReport(report)
	return nil
}

// formatCycle renders a cycle as "A -> B -> A" for log output.
func formatCycle(cycle analyze.Cycle) string {
	names := make([]string, 0, len(cycle)+1)
	for _, id := range cycle {
		names = append(names, id.Name)
	}
	if len(cycle) > 0 {
		names = append(names, cycle[0].Name)
	}
	return strings.Join(names, " -> ")
}

// DeviceStep audits a device inventory type for staleness and spread:
// out-of-date devices, orphaned devices, and the OS version and hardware
// model histograms.
type DeviceStep struct {
	catalog  Catalog
	kind     model.ObjectKind
	analyzer *device.Analyzer
	logger   *slog.Logger
}

// NewDeviceStep creates a device audit step for the given device kind.
func NewDeviceStep(catalog Catalog, kind model.ObjectKind, analyzer *device.Analyzer, logger *slog.Logger) *DeviceStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeviceStep{
		catalog:  catalog,
		kind:     kind,
		analyzer: analyzer,
		logger:   logger,
	}
}

// Name returns the step name.
func (s *DeviceStep) Name() string {
	return s.kind.Tag()
}

// Do fetches the device inventory, classifies staleness and orphanhood,
// and appends the report with spread histograms to the run.
func (s *DeviceStep) Do(ctx context.Context, run *model.RunReport) error {
	devices, err := s.catalog.Devices(ctx, s.kind)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", s.kind.Tag(), err)
	}

	outOfDate := s.analyzer.OutOfDate(devices)
	orphaned := s.analyzer.Orphaned(devices)

	report := model.NewCruftReport(s.kind)
	report.AddResult(model.Result{
		Heading: "Out-of-Date " + s.kind.String(),
		Description: fmt.Sprintf("%s that have not checked in for %d days, or never checked in at all.",
			s.kind.String(), s.analyzer.CheckInDays),
		Identities: outOfDate,
	})
	report.AddResult(model.Result{
		Heading:     "Orphaned " + s.kind.String(),
		Description: s.kind.String() + " in no groups beyond the platform's catch-all groups.",
		Identities:  orphaned,
	})

	report.AddMetadata(cruftinessSection,
		"Out-of-Date "+s.kind.String(),
		model.FormatScore(analyze.Score(len(outOfDate), len(devices))))
	report.AddMetadata(cruftinessSection,
		"Orphaned "+s.kind.String(),
		model.FormatScore(analyze.Score(len(orphaned), len(devices))))

	for _, entry := range device.VersionHistogram(devices).Entries() {
		report.AddMetadata("Version Spread", entry.Key, strconv.Itoa(entry.Count))
	}
	for _, entry := range device.ModelHistogram(devices).EntriesByModel() {
		report.AddMetadata("Model Spread", entry.Key, strconv.Itoa(entry.Count))
	}

	s.logger.Debug("device audit complete",
		"kind", s.kind.Tag(),
		"devices", len(devices),
		"out_of_date", len(outOfDate),
		"orphaned", len(orphaned),
	)

	run.AddReport(report)
	return nil
}
