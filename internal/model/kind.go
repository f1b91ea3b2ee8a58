package model

import "fmt"

// ObjectKind identifies one auditable catalog object type.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and map keys. Tag() provides the stable
// machine-readable form used in removal documents and the history database;
// String() provides the human-readable plural used in report headings.
type ObjectKind int

const (
	// KindPackage is an installer package (.pkg/.dmg) in the catalog.
	KindPackage ObjectKind = iota

	// KindScript is a shell or AppleScript payload attached to policies.
	KindScript

	// KindPrinter is a managed printer definition.
	KindPrinter

	// KindPolicy is a computer policy; both a catalog object and a
	// container that references packages, scripts, printers, and groups.
	KindPolicy

	// KindComputerGroup is a static or smart computer group.
	KindComputerGroup

	// KindMobileDeviceGroup is a static or smart mobile device group.
	KindMobileDeviceGroup

	// KindComputerProfile is an OS X configuration profile.
	KindComputerProfile

	// KindMobileDeviceProfile is a mobile device configuration profile.
	KindMobileDeviceProfile

	// KindMobileDeviceApp is a managed mobile application.
	KindMobileDeviceApp

	// KindEBook is a managed eBook.
	KindEBook

	// KindImagingConfig is a computer imaging configuration; a container
	// only, referencing packages and scripts.
	KindImagingConfig

	// KindProvisioningProfile is a mobile device provisioning profile; a
	// container only, scoped to mobile device groups.
	KindProvisioningProfile

	// KindComputer is a computer inventory record.
	KindComputer

	// KindMobileDevice is a mobile device inventory record.
	KindMobileDevice
)

// kindTags maps kinds to their stable machine-readable tags.
// These tags appear in removal documents and the run-history database,
// so they must never change for an existing kind.
var kindTags = map[ObjectKind]string{
	KindPackage:             "package",
	KindScript:              "script",
	KindPrinter:             "printer",
	KindPolicy:              "policy",
	KindComputerGroup:       "computer_group",
	KindMobileDeviceGroup:   "mobile_device_group",
	KindComputerProfile:     "os_x_configuration_profile",
	KindMobileDeviceProfile: "mobile_device_configuration_profile",
	KindMobileDeviceApp:     "mobile_device_application",
	KindEBook:               "ebook",
	KindImagingConfig:       "computer_configuration",
	KindProvisioningProfile: "mobile_device_provisioning_profile",
	KindComputer:            "computer",
	KindMobileDevice:        "mobile_device",
}

// kindNames maps kinds to the plural display names used in report headings.
var kindNames = map[ObjectKind]string{
	KindPackage:             "Packages",
	KindScript:              "Scripts",
	KindPrinter:             "Printers",
	KindPolicy:              "Policies",
	KindComputerGroup:       "Computer Groups",
	KindMobileDeviceGroup:   "Mobile Device Groups",
	KindComputerProfile:     "Computer Configuration Profiles",
	KindMobileDeviceProfile: "Mobile Device Configuration Profiles",
	KindMobileDeviceApp:     "Mobile Device Applications",
	KindEBook:               "eBooks",
	KindImagingConfig:       "Imaging Configurations",
	KindProvisioningProfile: "Provisioning Profiles",
	KindComputer:            "Computers",
	KindMobileDevice:        "Mobile Devices",
}

// Tag returns the stable machine-readable tag for the kind.
func (k ObjectKind) Tag() string {
	if tag, ok := kindTags[k]; ok {
		return tag
	}
	return "unknown"
}

// String returns the human-readable plural display name for the kind.
func (k ObjectKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsGroup reports whether the kind is one of the two group types.
// Group kinds get nesting resolution and empty-group detection.
func (k ObjectKind) IsGroup() bool {
	return k == KindComputerGroup || k == KindMobileDeviceGroup
}

// IsDevice reports whether the kind is a device inventory type.
// Device kinds get staleness and spread analysis instead of usage reports.
func (k ObjectKind) IsDevice() bool {
	return k == KindComputer || k == KindMobileDevice
}

// KindFromTag resolves a machine-readable tag back to its ObjectKind.
// Used when re-ingesting edited removal documents, where the tag plus the
// numeric id is the full removal key.
func KindFromTag(tag string) (ObjectKind, error) {
	for kind, t := range kindTags {
		if t == tag {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown object kind tag: %q", tag)
}
