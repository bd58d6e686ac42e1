// Package lifecycle orchestrates the server lifecycle operations exposed by
// the ahn command: start, daemon, stop, restart and status.
//
// Each operation resolves and validates the application root, then composes
// the pid file reader, the process launcher and the shutdown coordinator.
// Conditions local to one step, such as an unreadable pid file or a server
// that has already exited, become reported results. Malformed invocations
// (missing or invalid path, unknown operation) are returned as errors.
//
// Stop and Restart hold an advisory lock next to the pid file so concurrent
// stops against the same server serialize. Daemonize does not lock: the
// server writes its pid file asynchronously after the launch returns.
package lifecycle
