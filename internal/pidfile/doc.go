// Package pidfile reads the process-id record a launched server writes at
// startup and resolves where that record lives for an application root.
//
// The controller never writes pid files; the server reports its own pid once
// it has finished daemonizing. Read never fails: missing and malformed files
// are reported through Record.Status so callers can decide what to tell the
// operator. Lock provides an advisory lock beside the pid file so concurrent
// stop/restart invocations serialize.
package pidfile
