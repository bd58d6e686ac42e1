// Package history persists lifecycle events (start, daemon, stop, restart)
// in a SQLite database so operators can see what happened to an application
// root over time.
package history
