package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoServer is returned when no server URL is configured.
	ErrNoServer = errors.New("no server configured: set server in the config file or pass --server")

	// ErrNoCredentials is returned when the API username or password is
	// missing. Both are required even for read-only reporting.
	ErrNoCredentials = errors.New("missing API credentials: set username and password in the config file")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the fetch concurrency is not
	// positive. Zero would mean no record fetches at all.
	ErrInvalidConcurrency = errors.New("invalid fetch concurrency: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
