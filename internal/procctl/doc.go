// Package procctl stops a process identified only by its pid.
//
// Coordinator.Terminate runs the escalation protocol: SIGTERM, poll liveness
// at a fixed interval until the process exits or the timeout passes, then a
// single SIGKILL followed by a bounded check that the process is really gone.
// A process that vanishes at any step counts as stopped; "no such process" is
// never reported as an error.
//
// Liveness is probed natively with signal 0. PSProber shells out to ps for
// hosts where signal 0 cannot be trusted.
package procctl
