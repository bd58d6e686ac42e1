package procctl

import (
	"errors"
	"time"
)

// Signal names the two termination requests the coordinator sends.
type Signal string

const (
	// SignalGraceful may be intercepted by the target (SIGTERM).
	SignalGraceful Signal = "TERM"
	// SignalForceful cannot be intercepted (SIGKILL).
	SignalForceful Signal = "KILL"
)

// ErrNoProcess reports that the target pid does not exist.
var ErrNoProcess = errors.New("no such process")

// Signaler delivers signals to and probes processes by pid.
type Signaler interface {
	// Signal delivers sig to pid, returning ErrNoProcess if it does not exist.
	Signal(pid int, sig Signal) error
	// Alive reports whether pid currently exists.
	Alive(pid int) (bool, error)
}

// Clock abstracts wall time for the poll loop.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock returns the wall clock.
func SystemClock() Clock {
	return systemClock{}
}
