// Package launcher spawns the application's bootstrap either attached to the
// console or detached as a background daemon.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"ahn/internal/approot"
	"ahn/internal/logging"
)

// Mode selects how the server process is attached.
type Mode string

const (
	ModeConsole Mode = "console"
	ModeDaemon  Mode = "daemon"
)

// Environment variables handed to the bootstrap.
const (
	EnvMode     = "AHN_MODE"
	EnvRoot     = "AHN_ROOT"
	EnvLaunchID = "AHN_LAUNCH_ID"
	EnvPidFile  = "AHN_PID_FILE"
)

// DefaultDaemonLog is the daemon output file relative to the root.
const DefaultDaemonLog = "log/ahn-daemon.log"

// Request describes one launch.
type Request struct {
	// Root is an already validated application root.
	Root string
	Mode Mode
	// PidFile is forwarded to the bootstrap when non-empty.
	PidFile string
	// LogPath receives daemon output; defaults to DefaultDaemonLog under Root.
	LogPath string
	Args    []string
}

// Result describes a launched process. PID is zero for console launches,
// which have exited by the time Launch returns.
type Result struct {
	PID      int
	LaunchID string
	LogPath  string
}

// ExitError relays a non-zero exit status of a console-mode server.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("server exited with status %d", e.Code)
}

// Spec is a fully resolved process invocation.
type Spec struct {
	Path    string
	Args    []string
	Dir     string
	Env     []string
	LogPath string
}

// Executor spawns processes. Run blocks until the process exits; Start
// detaches it and returns its pid.
type Executor interface {
	Run(ctx context.Context, spec Spec) error
	Start(ctx context.Context, spec Spec) (int, error)
}

// Options configures a Launcher.
type Options struct {
	// Bootstrap is the entry point relative to the root.
	Bootstrap string
	Executor  Executor
	Logger    *slog.Logger
	// NewID generates launch identifiers; defaults to uuid.NewString.
	NewID func() string
}

// Launcher turns launch requests into bootstrap invocations.
type Launcher struct {
	bootstrap string
	executor  Executor
	logger    *slog.Logger
	newID     func() string
}

// New builds a Launcher.
func New(opts Options) *Launcher {
	bootstrap := strings.TrimSpace(opts.Bootstrap)
	if bootstrap == "" {
		bootstrap = approot.DefaultBootstrap
	}
	executor := opts.Executor
	if executor == nil {
		executor = NewOSExecutor()
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Launcher{
		bootstrap: filepath.FromSlash(bootstrap),
		executor:  executor,
		logger:    logging.NewComponentLogger(opts.Logger, "launcher"),
		newID:     newID,
	}
}

// Launch starts the bootstrap for req.
func (l *Launcher) Launch(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Root) == "" {
		return Result{}, errors.New("launch: root is empty")
	}
	spec, launchID := l.Command(req)
	res := Result{LaunchID: launchID}

	attrs := []logging.Attr{
		logging.String(logging.FieldRoot, req.Root),
		logging.String(logging.FieldMode, string(req.Mode)),
		logging.String(logging.FieldLaunchID, launchID),
	}

	switch req.Mode {
	case ModeConsole:
		l.logger.Debug("running server in foreground", logging.Args(attrs...)...)
		if err := l.executor.Run(ctx, spec); err != nil {
			var exitErr *ExitError
			if errors.As(err, &exitErr) {
				return res, exitErr
			}
			return res, fmt.Errorf("run %s: %w", spec.Path, err)
		}
		return res, nil
	case ModeDaemon:
		if spec.LogPath == "" {
			spec.LogPath = filepath.Join(req.Root, filepath.FromSlash(DefaultDaemonLog))
		}
		res.LogPath = spec.LogPath
		pid, err := l.executor.Start(ctx, spec)
		if err != nil {
			return res, fmt.Errorf("start %s: %w", spec.Path, err)
		}
		res.PID = pid
		l.logger.Info("server daemonized", logging.Args(append(attrs,
			logging.Int(logging.FieldPID, pid),
			logging.String("log_path", spec.LogPath),
		)...)...)
		return res, nil
	default:
		return res, fmt.Errorf("launch: unsupported mode %q", req.Mode)
	}
}

// Command resolves req into the invocation Launch would run, along with a
// fresh launch id.
func (l *Launcher) Command(req Request) (Spec, string) {
	launchID := l.newID()

	args := []string{"--mode", string(req.Mode)}
	if req.PidFile != "" {
		args = append(args, "--pid-file", req.PidFile)
	}
	args = append(args, req.Args...)

	env := append(os.Environ(),
		EnvMode+"="+string(req.Mode),
		EnvRoot+"="+req.Root,
		EnvLaunchID+"="+launchID,
	)
	if req.PidFile != "" {
		env = append(env, EnvPidFile+"="+req.PidFile)
	}

	return Spec{
		Path:    filepath.Join(req.Root, l.bootstrap),
		Args:    args,
		Dir:     req.Root,
		Env:     env,
		LogPath: req.LogPath,
	}, launchID
}
