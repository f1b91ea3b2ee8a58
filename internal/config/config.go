package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout is the per-request timeout against the server API.
	// Catalog fetches are many small XML documents; a server that cannot
	// answer one of them inside a minute is not going to produce a usable
	// report anyway.
	DefaultTimeout = 60 * time.Second

	// DefaultFetchConcurrency is the number of object records fetched in
	// parallel when materializing container catalogs. The classic API is
	// one-record-per-request, so some parallelism matters for large
	// fleets, but hammering the server helps nobody.
	DefaultFetchConcurrency = 8

	// DefaultCheckInPeriod is the staleness threshold, in days, applied
	// when no period is configured. Matches one monthly patch cycle.
	DefaultCheckInPeriod = "30"

	// AppName is the application name used for XDG directory paths.
	AppName = "spruce"
)

// DefaultCatchAllGroups are the platform-default smart groups that every
// enrolled device automatically belongs to. Membership in these conveys no
// administrative signal, so orphan detection ignores them.
func DefaultCatchAllGroups() []string {
	return []string{
		"All Managed Clients",
		"All Managed Servers",
		"All Managed iPads",
		"All Managed iPhones",
		"All Managed iPod touches",
	}
}

// Config holds all configuration options for a Spruce run.
// This struct is populated from the config file and CLI flags and passed
// through the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., ServerConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// ServerURL is the base URL of the audited server,
	// e.g. "https://jss.example.com:8443".
	ServerURL string

	// Username is the API account used for catalog reads (and deletes,
	// when running remove).
	Username string

	// Password is the API account password.
	Password string

	// VerifySSL controls TLS certificate verification. Self-signed
	// certificates are endemic on in-house servers, so this is
	// configurable, but it defaults to on.
	VerifySSL bool

	// Timeout is the per-request timeout for API calls.
	Timeout time.Duration

	// FetchConcurrency is the number of record fetches in flight at once.
	FetchConcurrency int

	// CheckInPeriod is the raw staleness threshold in days as configured.
	// Kept as a string so that an invalid value can degrade to the
	// default with a log line instead of failing flag parsing.
	CheckInPeriod string

	// CatchAllGroups lists group names excluded from orphan detection.
	CatchAllGroups []string

	// Verbose enables debug logging and the All/Used report listings.
	Verbose bool

	// JSONReport selects JSON report output. Mutually exclusive with
	// MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown report output. Mutually exclusive
	// with JSONReport.
	MarkdownReport bool

	// OutputFile, when set, receives the report instead of stdout.
	OutputFile string

	// RemovalFile, when set, receives the YAML removal document
	// (the -o/--ofile workflow).
	RemovalFile string

	// ConfigFilePath is the explicit config file path from the CLI,
	// empty when the search order should apply.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults; users override specific
// values via the config file and flags after creation.
func NewConfig() *Config {
	return &Config{
		VerifySSL:        true,
		Timeout:          DefaultTimeout,
		FetchConcurrency: DefaultFetchConcurrency,
		CheckInPeriod:    DefaultCheckInPeriod,
		CatchAllGroups:   DefaultCatchAllGroups(),
	}
}

// XDGDataDir returns the XDG data directory for Spruce.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/spruce
// On macOS: ~/Library/Application Support/spruce
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for Spruce.
// On Linux: ~/.config/spruce
// On macOS: ~/Library/Application Support/spruce
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return ErrNoServer
	}
	if c.Username == "" || c.Password == "" {
		return ErrNoCredentials
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.FetchConcurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
