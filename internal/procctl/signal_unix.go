//go:build !windows

package procctl

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

type nativeSignaler struct{}

// NewSignaler returns a Signaler backed by kill(2).
func NewSignaler() Signaler {
	return nativeSignaler{}
}

func (nativeSignaler) Signal(pid int, sig Signal) error {
	if pid <= 0 {
		return fmt.Errorf("signal %s: invalid pid %d", sig, pid)
	}
	err := unix.Kill(pid, unixSignal(sig))
	if errors.Is(err, unix.ESRCH) {
		return ErrNoProcess
	}
	if err != nil {
		return fmt.Errorf("signal %s to pid %d: %w", sig, pid, err)
	}
	return nil
}

// Alive sends signal 0. EPERM means the process exists but belongs to
// someone else.
func (nativeSignaler) Alive(pid int) (bool, error) {
	if pid <= 0 {
		return false, nil
	}
	err := unix.Kill(pid, 0)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, unix.ESRCH):
		return false, nil
	case errors.Is(err, unix.EPERM):
		return true, nil
	default:
		return false, fmt.Errorf("probe pid %d: %w", pid, err)
	}
}

func unixSignal(sig Signal) unix.Signal {
	if sig == SignalForceful {
		return unix.SIGKILL
	}
	return unix.SIGTERM
}
