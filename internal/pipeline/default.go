package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/jssimporter/spruce/internal/device"
	"github.com/jssimporter/spruce/internal/model"
)

// usageSources wires each payload type to the container types and field
// paths that reference it. Packages and scripts are referenced from both
// policies and imaging configurations; printers only from policies.
var usageSources = map[model.ObjectKind][]ContainerSource{
	model.KindPackage: {
		{Kind: model.KindPolicy, Paths: []string{"package_configuration/packages/package"}},
		{Kind: model.KindImagingConfig, Paths: []string{"packages/package"}},
	},
	model.KindScript: {
		{Kind: model.KindPolicy, Paths: []string{"scripts/script"}},
		{Kind: model.KindImagingConfig, Paths: []string{"scripts/script"}},
	},
	model.KindPrinter: {
		{Kind: model.KindPolicy, Paths: []string{"printers/printer"}},
	},
}

// usageDescriptions explains, per payload type, what landing in the Unused
// result means.
var usageDescriptions = map[model.ObjectKind]string{
	model.KindPackage: "Packages not referenced by any policy or imaging configuration.",
	model.KindScript:  "Scripts not referenced by any policy or imaging configuration.",
	model.KindPrinter: "Printers not referenced by any policy.",
}

// scopeSpecs wires each container type to the field paths that constitute
// its scope. Computer-targeted and mobile-targeted containers carry
// different all-targets flags and membership lists.
var scopeSpecs = map[model.ObjectKind]scopeSpec{
	model.KindPolicy: {
		allPath: "scope/all_computers",
		listPaths: []string{
			"scope/computers/computer",
			"scope/computer_groups/computer_group",
			"scope/buildings/building",
			"scope/departments/department",
		},
	},
	model.KindComputerProfile: {
		allPath: "scope/all_computers",
		listPaths: []string{
			"scope/computers/computer",
			"scope/computer_groups/computer_group",
			"scope/buildings/building",
			"scope/departments/department",
		},
	},
	model.KindMobileDeviceProfile: {
		allPath: "scope/all_mobile_devices",
		listPaths: []string{
			"scope/mobile_devices/mobile_device",
			"scope/mobile_device_groups/mobile_device_group",
			"scope/buildings/building",
			"scope/departments/department",
		},
	},
	model.KindMobileDeviceApp: {
		allPath: "scope/all_mobile_devices",
		listPaths: []string{
			"scope/mobile_devices/mobile_device",
			"scope/mobile_device_groups/mobile_device_group",
			"scope/buildings/building",
			"scope/departments/department",
		},
	},
	model.KindEBook: {
		allPath: "scope/all_mobile_devices",
		listPaths: []string{
			"scope/mobile_devices/mobile_device",
			"scope/mobile_device_groups/mobile_device_group",
			"scope/computers/computer",
			"scope/computer_groups/computer_group",
		},
	},
}

// scopeDescriptions explains, per container type, what landing in the
// Unused result means.
var scopeDescriptions = map[model.ObjectKind]string{
	model.KindPolicy:              "Policies scoped to nothing. They never run anywhere.",
	model.KindComputerProfile:     "Computer configuration profiles scoped to nothing.",
	model.KindMobileDeviceProfile: "Mobile device configuration profiles scoped to nothing.",
	model.KindMobileDeviceApp:     "Mobile device applications scoped to nothing.",
	model.KindEBook:               "eBooks scoped to nothing.",
}

// groupSources wires each group kind to the container types that scope
// groups, with the inclusion and exclusion paths listed side by side.
var groupSources = map[model.ObjectKind][]ContainerSource{
	model.KindComputerGroup: {
		{Kind: model.KindPolicy, Paths: []string{
			"scope/computer_groups/computer_group",
			"scope/exclusions/computer_groups/computer_group",
		}},
		{Kind: model.KindComputerProfile, Paths: []string{
			"scope/computer_groups/computer_group",
			"scope/exclusions/computer_groups/computer_group",
		}},
		// eBooks can target computers as well as mobile devices.
		{Kind: model.KindEBook, Paths: []string{
			"scope/computer_groups/computer_group",
			"scope/exclusions/computer_groups/computer_group",
		}},
	},
	model.KindMobileDeviceGroup: {
		{Kind: model.KindMobileDeviceProfile, Paths: []string{
			"scope/mobile_device_groups/mobile_device_group",
			"scope/exclusions/mobile_device_groups/mobile_device_group",
		}},
		{Kind: model.KindMobileDeviceApp, Paths: []string{
			"scope/mobile_device_groups/mobile_device_group",
			"scope/exclusions/mobile_device_groups/mobile_device_group",
		}},
		{Kind: model.KindEBook, Paths: []string{
			"scope/mobile_device_groups/mobile_device_group",
			"scope/exclusions/mobile_device_groups/mobile_device_group",
		}},
		{Kind: model.KindProvisioningProfile, Paths: []string{
			"scope/mobile_device_groups/mobile_device_group",
			"scope/exclusions/mobile_device_groups/mobile_device_group",
		}},
	},
}

// StepConfig carries the settings the default steps need beyond the
// catalog itself.
type StepConfig struct {
	// CheckInDays is the staleness threshold for device audits.
	CheckInDays int

	// CatchAllGroups are the group names ignored by orphan detection.
	CatchAllGroups []string

	// Logger is used by every step. Nil falls back to slog.Default().
	Logger *slog.Logger
}

// NewStep creates the audit step for one object kind, wired with the
// canonical container sources and scope definitions for that kind.
func NewStep(catalog Catalog, kind model.ObjectKind, cfg StepConfig) (Step, error) {
	switch {
	case kind.IsDevice():
		analyzer := device.NewAnalyzer(cfg.CheckInDays, cfg.CatchAllGroups)
		return NewDeviceStep(catalog, kind, analyzer, cfg.Logger), nil
	case kind.IsGroup():
		return NewGroupStep(catalog, kind, groupSources[kind], cfg.Logger), nil
	default:
		if sources, ok := usageSources[kind]; ok {
			return NewUsageStep(catalog, kind, sources, usageDescriptions[kind], cfg.Logger), nil
		}
		if _, ok := scopeSpecs[kind]; ok {
			return NewScopeStep(catalog, kind, scopeDescriptions[kind], cfg.Logger)
		}
		return nil, fmt.Errorf("no audit defined for kind %s", kind.Tag())
	}
}

// DefaultPipeline creates a pipeline with one audit step per requested
// kind, in the order the kinds are given.
//
// Design decision: We provide a default pipeline because most runs want
// the canonical wiring for every kind, and building it here keeps the CLI
// free of per-kind field-path knowledge. Continue-on-error is the default
// here, unlike New, because a full audit run should survive one object
// type's failure.
func DefaultPipeline(catalog Catalog, kinds []model.ObjectKind, cfg StepConfig, opts ...Option) (*Pipeline, error) {
	pipelineOpts := make([]Option, 0, len(opts)+2)
	pipelineOpts = append(pipelineOpts, WithContinueOnError(true))
	if cfg.Logger != nil {
		pipelineOpts = append(pipelineOpts, WithLogger(cfg.Logger))
	}
	pipelineOpts = append(pipelineOpts, opts...)

	p := New(pipelineOpts...)
	for _, kind := range kinds {
		step, err := NewStep(catalog, kind, cfg)
		if err != nil {
			return nil, err
		}
		p.AddStep(step)
	}
	return p, nil
}
