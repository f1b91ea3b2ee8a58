package model

// Group is a typed view of a computer or mobile device group record.
//
// Smart groups compute their membership from criteria; a criterion on a
// group-type field with a "member of" comparison names another group whose
// members are implicitly included. Those nested names are collected here so
// the nesting resolver never has to touch raw records.
type Group struct {
	Identity

	// Kind is KindComputerGroup or KindMobileDeviceGroup.
	Kind ObjectKind

	// Smart is true when membership is criteria-driven rather than static.
	Smart bool

	// MemberCount is the server's cached member count at fetch time.
	MemberCount int

	// NestedGroupNames holds the names of groups referenced by "member of"
	// criteria. Criteria name groups by name, not id; the resolver maps
	// names back to identities against the full group list.
	NestedGroupNames []string
}

// Device is a typed view of a computer or mobile device inventory record,
// trimmed to the fields the staleness and spread analyzer consumes.
type Device struct {
	Identity

	// Kind is KindComputer or KindMobileDevice.
	Kind ObjectKind

	// SerialNumber is carried for display in staleness reports.
	SerialNumber string

	// LastCheckIn is the raw last-contact timestamp string as reported by
	// the server. Parsing is deferred to the analyzer, which treats an
	// absent or unparseable value as out of date.
	LastCheckIn string

	// OSVersion is the reported operating system version string.
	OSVersion string

	// ModelID is the hardware model identifier, e.g. "iMac13,3".
	ModelID string

	// Groups lists the names of all groups the device belongs to,
	// including the platform-default catch-all groups.
	Groups []string
}
