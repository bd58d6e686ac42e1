package procctl

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ahn/internal/logging"
)

// Defaults for the escalation protocol.
const (
	DefaultTimeout      = 15 * time.Second
	DefaultPollInterval = 250 * time.Millisecond
	DefaultKillGrace    = time.Second
)

// Outcome classifies how a Terminate call ended.
type Outcome string

const (
	OutcomeAlreadyStopped       Outcome = "already_stopped"
	OutcomeStoppedGracefully    Outcome = "stopped_gracefully"
	OutcomeStoppedForcefully    Outcome = "stopped_forcefully"
	OutcomeTimedOutStillRunning Outcome = "timed_out_still_running"
)

// Stopped reports whether the process is known to be gone.
func (o Outcome) Stopped() bool {
	switch o {
	case OutcomeAlreadyStopped, OutcomeStoppedGracefully, OutcomeStoppedForcefully:
		return true
	default:
		return false
	}
}

// Result describes a completed Terminate call.
type Result struct {
	PID          int
	Outcome      Outcome
	Elapsed      time.Duration
	GracefulSent bool
	ForcefulSent bool
	Polls        int
}

// Options tunes the escalation protocol.
type Options struct {
	// Timeout bounds the wait between the graceful and forceful signals.
	Timeout time.Duration
	// PollInterval is the pause between liveness checks.
	PollInterval time.Duration
	// KillGrace bounds the post-SIGKILL liveness check. Zero trusts the kill.
	KillGrace time.Duration
	Clock     Clock
	Logger    *slog.Logger
}

// Coordinator runs the graceful-then-forceful termination protocol.
type Coordinator struct {
	signaler     Signaler
	timeout      time.Duration
	pollInterval time.Duration
	killGrace    time.Duration
	clock        Clock
	logger       *slog.Logger
}

// NewCoordinator builds a Coordinator. Zero Timeout and PollInterval fall
// back to the package defaults.
func NewCoordinator(signaler Signaler, opts Options) *Coordinator {
	if signaler == nil {
		signaler = NewSignaler()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.KillGrace < 0 {
		opts.KillGrace = 0
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	return &Coordinator{
		signaler:     signaler,
		timeout:      opts.Timeout,
		pollInterval: opts.PollInterval,
		killGrace:    opts.KillGrace,
		clock:        opts.Clock,
		logger:       logging.NewComponentLogger(opts.Logger, "procctl"),
	}
}

// Timeout returns the graceful wait bound.
func (c *Coordinator) Timeout() time.Duration {
	return c.timeout
}

// Terminate stops pid. Errors are returned only for failures other than the
// process being gone, such as lacking permission to signal it.
func (c *Coordinator) Terminate(pid int) (Result, error) {
	start := c.clock.Now()
	deadline := start.Add(c.timeout)
	res := Result{PID: pid}
	finish := func(outcome Outcome) (Result, error) {
		res.Outcome = outcome
		res.Elapsed = c.clock.Now().Sub(start)
		c.logger.Debug("termination finished",
			logging.Int(logging.FieldPID, pid),
			logging.String(logging.FieldOutcome, string(outcome)),
			logging.Duration("elapsed", res.Elapsed),
			logging.Int("polls", res.Polls),
		)
		return res, nil
	}

	err := c.signaler.Signal(pid, SignalGraceful)
	if errors.Is(err, ErrNoProcess) {
		return finish(OutcomeAlreadyStopped)
	}
	if err != nil {
		return res, fmt.Errorf("graceful stop: %w", err)
	}
	res.GracefulSent = true
	c.logger.Debug("sent graceful signal", logging.Int(logging.FieldPID, pid))

	for {
		res.Polls++
		if !c.alive(pid) {
			return finish(OutcomeStoppedGracefully)
		}
		if !c.clock.Now().Before(deadline) {
			break
		}
		c.clock.Sleep(c.pollInterval)
	}

	c.logger.Info("process ignored graceful signal, killing",
		logging.Int(logging.FieldPID, pid),
		logging.Duration("timeout", c.timeout),
	)
	res.ForcefulSent = true
	err = c.signaler.Signal(pid, SignalForceful)
	if errors.Is(err, ErrNoProcess) {
		return finish(OutcomeStoppedForcefully)
	}
	if err != nil {
		return res, fmt.Errorf("forceful stop: %w", err)
	}
	if c.killGrace == 0 {
		return finish(OutcomeStoppedForcefully)
	}

	killDeadline := c.clock.Now().Add(c.killGrace)
	for {
		res.Polls++
		if !c.alive(pid) {
			return finish(OutcomeStoppedForcefully)
		}
		if !c.clock.Now().Before(killDeadline) {
			return finish(OutcomeTimedOutStillRunning)
		}
		c.clock.Sleep(c.pollInterval)
	}
}

// alive counts probe failures as still running.
func (c *Coordinator) alive(pid int) bool {
	alive, err := c.signaler.Alive(pid)
	if err != nil {
		logging.WarnWithContext(c.logger, "liveness probe failed", "liveness_probe_failed",
			logging.Int(logging.FieldPID, pid),
			logging.Error(err),
			logging.String(logging.FieldImpact, "process assumed to still be running"),
		)
		return true
	}
	return alive
}
