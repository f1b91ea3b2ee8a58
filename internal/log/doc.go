// Package log provides a slog handler that redacts credentials.
//
// Spruce logs the requests it makes against the server API, and those
// requests authenticate with an operator's API account. The redacting
// handler guarantees that a password or token attached to a log record,
// deliberately or by accident, never reaches the log output.
package log
