package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ahn/internal/approot"
	"ahn/internal/config"
	"ahn/internal/history"
	"ahn/internal/launcher"
	"ahn/internal/logging"
	"ahn/internal/pidfile"
	"ahn/internal/procctl"
)

// lockSlack is added to the worst-case stop latency when waiting for the
// pid file lock.
const lockSlack = 5 * time.Second

// Launcher spawns the application bootstrap.
type Launcher interface {
	Launch(ctx context.Context, req launcher.Request) (launcher.Result, error)
}

// Terminator stops a process by pid.
type Terminator interface {
	Terminate(pid int) (procctl.Result, error)
}

// LivenessProbe reports whether a pid is running.
type LivenessProbe interface {
	Alive(pid int) (bool, error)
}

// Recorder persists lifecycle events.
type Recorder interface {
	Record(ctx context.Context, ev history.Event) (int64, error)
}

// Invocation carries what the command line knows about where and how ahn
// was run.
type Invocation struct {
	// WorkingDir is used to infer a missing root and to resolve relative paths.
	WorkingDir string
	// BootstrapRoot is the root of the application whose bootstrap launched
	// this invocation, empty otherwise.
	BootstrapRoot string
	// Args are forwarded to the bootstrap after the launch parameters.
	Args []string
}

// Request is the input to every operation.
type Request struct {
	// Path is the application root; empty infers it from the working directory.
	Path string
	// PidFile overrides the pid file location.
	PidFile    string
	Invocation Invocation
}

// Options wires a Controller. Nil collaborators are built from Config.
type Options struct {
	Config     *config.Config
	Detector   *approot.Detector
	Launcher   Launcher
	Terminator Terminator
	Probe      LivenessProbe
	Recorder   Recorder
	Logger     *slog.Logger
	Stdout     io.Writer
	Stderr     io.Writer
	Now        func() time.Time
}

// Controller implements the lifecycle operations.
type Controller struct {
	cfg        *config.Config
	detector   *approot.Detector
	launcher   Launcher
	terminator Terminator
	probe      LivenessProbe
	recorder   Recorder
	logger     *slog.Logger
	stdout     io.Writer
	stderr     io.Writer
	now        func() time.Time
}

// New builds a Controller.
func New(opts Options) *Controller {
	cfg := opts.Config
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	signaler := NewSignaler(cfg)
	c := &Controller{
		cfg:        cfg,
		detector:   opts.Detector,
		launcher:   opts.Launcher,
		terminator: opts.Terminator,
		probe:      opts.Probe,
		recorder:   opts.Recorder,
		logger:     logging.NewComponentLogger(logger, "lifecycle"),
		stdout:     opts.Stdout,
		stderr:     opts.Stderr,
		now:        opts.Now,
	}
	if c.detector == nil {
		c.detector = approot.NewDetector(cfg.Launch.Bootstrap)
	}
	if c.launcher == nil {
		c.launcher = launcher.New(launcher.Options{Bootstrap: cfg.Launch.Bootstrap, Logger: logger})
	}
	if c.terminator == nil {
		c.terminator = procctl.NewCoordinator(signaler, procctl.Options{
			Timeout:      cfg.StopTimeout(),
			PollInterval: cfg.PollInterval(),
			KillGrace:    cfg.KillGrace(),
			Logger:       logger,
		})
	}
	if c.probe == nil {
		c.probe = signaler
	}
	if c.stdout == nil {
		c.stdout = os.Stdout
	}
	if c.stderr == nil {
		c.stderr = os.Stderr
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// NewSignaler returns the signaler selected by lifecycle.liveness_probe.
func NewSignaler(cfg *config.Config) procctl.Signaler {
	native := procctl.NewSignaler()
	if cfg != nil && cfg.Lifecycle.LivenessProbe == config.ProbePS {
		return procctl.NewPSProber(native)
	}
	return native
}

// resolveRoot finds and validates the application root for op.
func (c *Controller) resolveRoot(op Operation, req Request) (string, error) {
	workingDir := c.workingDir(req)
	path := strings.TrimSpace(req.Path)
	if path == "" {
		root, ok := c.detector.Find(workingDir)
		if !ok {
			return "", &PathRequiredError{Operation: op}
		}
		return root, nil
	}
	root := path
	if !filepath.IsAbs(root) {
		root = filepath.Join(workingDir, root)
	}
	root = filepath.Clean(root)
	if !c.detector.IsApplication(root) {
		return "", &PathInvalidError{Path: path}
	}
	return root, nil
}

// Locate resolves the application root and pid file path req refers to
// without touching either.
func (c *Controller) Locate(op Operation, req Request) (root, pidPath string, err error) {
	root, err = c.resolveRoot(op, req)
	if err != nil {
		return "", "", err
	}
	return root, c.pidFileLocation(root, req), nil
}

func (c *Controller) workingDir(req Request) string {
	if dir := strings.TrimSpace(req.Invocation.WorkingDir); dir != "" {
		return dir
	}
	if dir, err := os.Getwd(); err == nil {
		return dir
	}
	return "."
}

func (c *Controller) pidFileLocation(root string, req Request) string {
	return pidfile.Resolve(root, req.PidFile, c.cfg.Lifecycle.PidFileName, c.workingDir(req))
}

func (c *Controller) lockWait() time.Duration {
	return c.cfg.StopTimeout() + c.cfg.KillGrace() + lockSlack
}

func (c *Controller) lock(ctx context.Context, pidPath string) (*pidfile.Lock, error) {
	if !c.cfg.Lifecycle.LockPidFile {
		return &pidfile.Lock{}, nil
	}
	lock, err := pidfile.Acquire(ctx, pidPath, c.lockWait())
	if errors.Is(err, pidfile.ErrLockUnavailable) {
		logging.WarnWithContext(c.logger, "pid file lock unavailable, continuing unlocked", "pid_lock_unavailable",
			logging.String(logging.FieldPidFile, pidPath),
			logging.Error(err),
			logging.String(logging.FieldImpact, "concurrent stop or restart is not serialized"),
			logging.String(logging.FieldErrorHint, "make the pid file directory writable or set lifecycle.lock_pid_file = false"),
		)
		return &pidfile.Lock{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lock pid file: %w", err)
	}
	return lock, nil
}

func (c *Controller) unlock(lock *pidfile.Lock) {
	if err := lock.Release(); err != nil {
		logging.WarnWithContext(c.logger, "pid file lock release failed", "pid_lock_release_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "lock is dropped when ahn exits"),
		)
	}
}

func (c *Controller) record(ctx context.Context, ev history.Event) {
	if c.recorder == nil {
		return
	}
	if _, err := c.recorder.Record(ctx, ev); err != nil {
		logging.WarnWithContext(c.logger, "lifecycle event not recorded", "history_record_failed",
			logging.String(logging.FieldOperation, string(ev.Operation)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "history will be missing this event"),
			logging.String(logging.FieldErrorHint, "check history.path in the ahn config"),
		)
	}
}

func (c *Controller) say(format string, args ...any) {
	fmt.Fprintf(c.stdout, format+"\n", args...)
}
