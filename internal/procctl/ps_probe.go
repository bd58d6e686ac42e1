package procctl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

const psTimeout = 5 * time.Second

// PSProber answers liveness by running `ps -p <pid>` and delegates signal
// delivery to the wrapped Signaler. A ps that rejects the flags (busybox)
// writes a usage error to stderr; the wrapped Signaler then answers instead.
type PSProber struct {
	Signaler
	// Command is the ps binary; defaults to "ps".
	Command string
}

// NewPSProber wraps next with a ps based liveness probe.
func NewPSProber(next Signaler) *PSProber {
	return &PSProber{Signaler: next, Command: "ps"}
}

// Alive reports whether ps lists pid.
func (p *PSProber) Alive(pid int) (bool, error) {
	if pid <= 0 {
		return false, nil
	}
	command := p.Command
	if command == "" {
		command = "ps"
	}
	ctx, cancel := context.WithTimeout(context.Background(), psTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, command, "-p", strconv.Itoa(pid), "-o", "pid=").Output()
	listed := len(bytes.TrimSpace(out)) > 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && !listed {
			if len(bytes.TrimSpace(exitErr.Stderr)) > 0 && p.Signaler != nil {
				return p.Signaler.Alive(pid)
			}
			return false, nil
		}
		return false, fmt.Errorf("ps probe pid %d: %w", pid, err)
	}
	return listed, nil
}
