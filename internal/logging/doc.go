// Package logging builds the slog loggers used by the ahn CLI.
//
// Two output formats are supported: a compact single-line console format for
// operators and a JSON format for machine consumption. Attribute helpers and
// standard field keys keep lifecycle events (pid, root, outcome, launch id)
// consistently named across packages.
package logging
