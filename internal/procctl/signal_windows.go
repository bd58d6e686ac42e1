//go:build windows

package procctl

import (
	"errors"
	"fmt"
	"os"
)

type nativeSignaler struct{}

// NewSignaler returns a Signaler backed by os.Process. Windows has no
// graceful termination signal, so both requests terminate the process.
func NewSignaler() Signaler {
	return nativeSignaler{}
}

func (nativeSignaler) Signal(pid int, sig Signal) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return ErrNoProcess
	}
	if err := proc.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return ErrNoProcess
		}
		return fmt.Errorf("signal %s to pid %d: %w", sig, pid, err)
	}
	return nil
}

func (nativeSignaler) Alive(pid int) (bool, error) {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false, nil
	}
	_ = proc.Release()
	return true, nil
}
