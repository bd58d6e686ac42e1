package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"ahn/internal/history"
	"ahn/internal/launcher"
	"ahn/internal/logging"
	"ahn/internal/pidfile"
	"ahn/internal/procctl"
)

// Start runs the server attached to the console and returns when it exits.
// Inside an application's own bootstrap, when the working directory belongs
// to that same application, the root is taken as already resolved and is not
// validated again.
func (c *Controller) Start(ctx context.Context, req Request) (StartResult, error) {
	root, err := c.startRoot(req)
	if err != nil {
		return StartResult{}, err
	}
	res := StartResult{Root: root}
	startedAt := c.now()

	c.say("Starting ahn server at %s", root)
	launched, err := c.launcher.Launch(ctx, launcher.Request{
		Root: root,
		Mode: launcher.ModeConsole,
		Args: req.Invocation.Args,
	})
	res.LaunchID = launched.LaunchID

	ev := history.Event{
		Operation: history.OperationStart,
		Root:      root,
		Outcome:   outcomeExited,
		LaunchID:  launched.LaunchID,
		StartedAt: startedAt,
	}
	if err != nil {
		ev.Outcome = outcomeFailed
		ev.Detail = err.Error()
	}
	ev.FinishedAt = c.now()
	c.record(ctx, ev)

	if err != nil {
		var exitErr *launcher.ExitError
		if errors.As(err, &exitErr) {
			return res, exitErr
		}
		return res, fmt.Errorf("start server: %w", err)
	}
	return res, nil
}

func (c *Controller) startRoot(req Request) (string, error) {
	if bootstrapRoot := strings.TrimSpace(req.Invocation.BootstrapRoot); bootstrapRoot != "" {
		if root, ok := c.detector.Find(c.workingDir(req)); ok && sameDir(root, bootstrapRoot) {
			c.logger.Debug("running inside bootstrap, root already resolved", logging.String(logging.FieldRoot, root))
			return root, nil
		}
	}
	return c.resolveRoot(OperationStart, req)
}

// Daemonize launches the server detached. Without an override the launch is
// handed the default pid file location under the root.
func (c *Controller) Daemonize(ctx context.Context, req Request) (DaemonResult, error) {
	root, err := c.resolveRoot(OperationDaemon, req)
	if err != nil {
		return DaemonResult{}, err
	}
	return c.daemonize(ctx, root, c.pidFileLocation(root, req), req.Invocation.Args)
}

func (c *Controller) daemonize(ctx context.Context, root, pidPath string, args []string) (DaemonResult, error) {
	res := DaemonResult{Root: root, PidFile: pidPath}
	startedAt := c.now()

	c.say("Starting ahn server at %s", root)
	launched, err := c.launcher.Launch(ctx, launcher.Request{
		Root:    root,
		Mode:    launcher.ModeDaemon,
		PidFile: pidPath,
		LogPath: c.cfg.DaemonLogPath(root),
		Args:    args,
	})
	res.PID = launched.PID
	res.LaunchID = launched.LaunchID
	res.LogPath = launched.LogPath

	ev := history.Event{
		Operation: history.OperationDaemon,
		Root:      root,
		PID:       launched.PID,
		Outcome:   outcomeLaunched,
		LaunchID:  launched.LaunchID,
		PidFile:   pidPath,
		StartedAt: startedAt,
	}
	if err != nil {
		ev.Outcome = outcomeFailed
		ev.Detail = err.Error()
	}
	ev.FinishedAt = c.now()
	c.record(ctx, ev)

	if err != nil {
		return res, fmt.Errorf("daemonize server: %w", err)
	}
	return res, nil
}

// Stop terminates the server named by the pid file. An unreadable pid file
// is reported in the result and nothing is signalled.
func (c *Controller) Stop(ctx context.Context, req Request) (StopResult, error) {
	root, err := c.resolveRoot(OperationStop, req)
	if err != nil {
		return StopResult{}, err
	}
	pidPath := c.pidFileLocation(root, req)

	lock, err := c.lock(ctx, pidPath)
	if err != nil {
		return StopResult{Root: root, PidFile: pidfile.Record{Path: pidPath}}, err
	}
	defer c.unlock(lock)

	return c.stop(ctx, history.OperationStop, root, pidPath)
}

func (c *Controller) stop(ctx context.Context, op history.Operation, root, pidPath string) (StopResult, error) {
	startedAt := c.now()
	rec := pidfile.Read(pidPath)
	res := StopResult{Root: root, PidFile: rec}
	ev := history.Event{
		Operation: op,
		Root:      root,
		PID:       rec.PID,
		PidFile:   pidPath,
		StartedAt: startedAt,
	}

	if !rec.OK() {
		fmt.Fprintf(c.stderr, "Could not read pid file %s\n", pidPath)
		logging.WarnWithContext(c.logger, "pid file unreadable", "pid_file_unreadable",
			logging.String(logging.FieldPidFile, pidPath),
			logging.String("status", string(rec.Status)),
			logging.Error(rec.Err),
			logging.String(logging.FieldImpact, "no signal sent"),
			logging.String(logging.FieldErrorHint, "pass --pid-file if the server was daemonized with a custom location"),
		)
		ev.Outcome = outcomePidFileUnreadable
		ev.Detail = string(rec.Status)
		ev.FinishedAt = c.now()
		c.record(ctx, ev)
		return res, nil
	}

	c.say("Stopping ahn server at %s with pid %d", root, rec.PID)
	term, err := c.terminator.Terminate(rec.PID)
	ev.FinishedAt = c.now()
	if err != nil {
		ev.Outcome = outcomeFailed
		ev.Detail = err.Error()
		c.record(ctx, ev)
		return res, fmt.Errorf("stop pid %d: %w", rec.PID, err)
	}
	res.Termination = &term
	ev.Outcome = string(term.Outcome)
	c.record(ctx, ev)

	attrs := []logging.Attr{
		logging.Int(logging.FieldPID, rec.PID),
		logging.String(logging.FieldOutcome, string(term.Outcome)),
		logging.Duration("elapsed", term.Elapsed),
	}
	if term.Outcome == procctl.OutcomeTimedOutStillRunning {
		logging.WarnWithContext(c.logger, "server survived forceful signal", "stop_timed_out", append(attrs,
			logging.String(logging.FieldImpact, "server may still hold the pid file"),
			logging.String(logging.FieldErrorHint, "inspect the process manually"),
		)...)
	} else {
		c.logger.Info("server stopped", logging.Args(attrs...)...)
	}
	return res, nil
}

// Restart stops the server, then daemonizes a new one. An unreadable pid
// file does not prevent the new launch. With the restart guard enabled a
// server that survived the stop aborts the restart with ErrStillRunning.
func (c *Controller) Restart(ctx context.Context, req Request) (RestartResult, error) {
	root, err := c.resolveRoot(OperationRestart, req)
	if err != nil {
		return RestartResult{}, err
	}
	pidPath := c.pidFileLocation(root, req)

	lock, err := c.lock(ctx, pidPath)
	if err != nil {
		return RestartResult{}, err
	}
	defer c.unlock(lock)

	var res RestartResult
	res.Stop, err = c.stop(ctx, history.OperationRestart, root, pidPath)
	if err != nil {
		return res, err
	}

	if c.cfg.Lifecycle.RestartGuard && res.Stop.Outcome() == string(procctl.OutcomeTimedOutStillRunning) {
		res.Aborted = true
		c.record(ctx, history.Event{
			Operation:  history.OperationRestart,
			Root:       root,
			PID:        res.Stop.PidFile.PID,
			PidFile:    pidPath,
			Outcome:    outcomeAborted,
			Detail:     "previous server still running",
			StartedAt:  c.now(),
			FinishedAt: c.now(),
		})
		return res, fmt.Errorf("restart %s: pid %d: %w", root, res.Stop.PidFile.PID, ErrStillRunning)
	}

	res.Daemon, err = c.daemonize(ctx, root, pidPath, req.Invocation.Args)
	return res, err
}

// Status reports whether the server named by the pid file is running.
func (c *Controller) Status(ctx context.Context, req Request) (StatusResult, error) {
	if err := ctx.Err(); err != nil {
		return StatusResult{}, err
	}
	root, err := c.resolveRoot(OperationStatus, req)
	if err != nil {
		return StatusResult{}, err
	}
	rec := pidfile.Read(c.pidFileLocation(root, req))
	res := StatusResult{Root: root, PidFile: rec, State: StateUnknown}
	if !rec.OK() {
		return res, nil
	}
	alive, err := c.probe.Alive(rec.PID)
	if err != nil {
		return res, fmt.Errorf("probe pid %d: %w", rec.PID, err)
	}
	if alive {
		res.State = StateRunning
	} else {
		res.State = StateStopped
	}
	return res, nil
}

func sameDir(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ra, errA := filepath.EvalSymlinks(a)
	rb, errB := filepath.EvalSymlinks(b)
	return errA == nil && errB == nil && ra == rb
}
