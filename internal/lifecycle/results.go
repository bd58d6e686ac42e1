package lifecycle

import (
	"ahn/internal/pidfile"
	"ahn/internal/procctl"
)

// StartResult describes a foreground run that has exited.
type StartResult struct {
	Root     string
	LaunchID string
}

// DaemonResult describes a detached launch.
type DaemonResult struct {
	Root     string
	PidFile  string
	PID      int
	LaunchID string
	LogPath  string
}

// StopResult describes a stop attempt. Termination is nil when the pid file
// could not be read and no signal was sent.
type StopResult struct {
	Root        string
	PidFile     pidfile.Record
	Termination *procctl.Result
}

// PidFileUnreadable reports that the pid file was missing or malformed.
func (r StopResult) PidFileUnreadable() bool {
	return !r.PidFile.OK()
}

// Outcome returns the termination outcome, or "pid_file_unreadable".
func (r StopResult) Outcome() string {
	if r.Termination == nil {
		return outcomePidFileUnreadable
	}
	return string(r.Termination.Outcome)
}

// RestartResult combines both phases of a restart.
type RestartResult struct {
	Stop   StopResult
	Daemon DaemonResult
	// Aborted is true when the guard stopped the daemon phase.
	Aborted bool
}

// State is the observed state of a server.
type State string

const (
	StateRunning State = "running"
	// StateStopped means the pid file names a process that no longer exists.
	StateStopped State = "stopped"
	// StateUnknown means there is no readable pid file.
	StateUnknown State = "unknown"
)

// StatusResult describes a status probe.
type StatusResult struct {
	Root    string
	PidFile pidfile.Record
	State   State
}

const (
	outcomePidFileUnreadable = "pid_file_unreadable"
	outcomeLaunched          = "launched"
	outcomeExited            = "exited"
	outcomeFailed            = "failed"
	outcomeAborted           = "aborted"
)
