// Package logging builds the slog loggers folio writes with.
//
// A logger is either the colored console handler or JSON, at the configured
// level, fanned out to stderr and optionally a log file under the log
// directory. Context helpers carry the album path and publish run id so
// every line from one publish can be grouped. WarnWithContext enforces the
// event_type, error_hint and impact fields on warnings.
package logging
