// Package config handles Spruce configuration: connection settings for the
// audited server, audit tuning (check-in period, catch-all groups), and
// report output options.
//
// Configuration is resolved from three layers, strongest first: CLI flags,
// a YAML configuration file (explicit path, then .spruce.yaml in the current
// directory, then the XDG config directory), and built-in defaults. The
// resolved Config is passed through the application by dependency injection;
// nothing reads ambient global state.
package config
