package main

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"ahn/internal/config"
	"ahn/internal/history"
	"ahn/internal/launcher"
	"ahn/internal/lifecycle"
	"ahn/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		var level string
		if c.logLevelFlag != nil {
			level = *c.logLevelFlag
		}
		logger, err := logging.NewFromConfig(c.config, level)
		if err != nil {
			logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
			logger.Warn("logger setup failed, using defaults", logging.Error(err))
		}
		c.logger = logger
	})
	return c.logger
}

// newController wires a lifecycle controller to cmd's streams. The returned
// cleanup closes the history store.
func (c *commandContext) newController(cmd *cobra.Command) (*lifecycle.Controller, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := c.ensureLogger()

	cleanup := func() {}
	var recorder lifecycle.Recorder
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			logging.WarnWithContext(logger, "history unavailable", "history_open_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "lifecycle events will not be recorded"),
				logging.String(logging.FieldErrorHint, "check history.path or set history.enabled = false"),
			)
		} else {
			recorder = store
			cleanup = func() { _ = store.Close() }
		}
	}

	executor := &launcher.OSExecutor{
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}
	ctrl := lifecycle.New(lifecycle.Options{
		Config: cfg,
		Launcher: launcher.New(launcher.Options{
			Bootstrap: cfg.Launch.Bootstrap,
			Executor:  executor,
			Logger:    logger,
		}),
		Recorder: recorder,
		Logger:   logger,
		Stdout:   cmd.OutOrStdout(),
		Stderr:   cmd.ErrOrStderr(),
	})
	return ctrl, cleanup, nil
}

// invocation describes how ahn was run. rest holds arguments forwarded to
// the bootstrap.
func invocation(rest []string) lifecycle.Invocation {
	wd, _ := os.Getwd()
	return lifecycle.Invocation{
		WorkingDir:    wd,
		BootstrapRoot: os.Getenv(launcher.EnvRoot),
		Args:          rest,
	}
}

// splitPathArgs separates the optional application path from arguments that
// follow it or a "--" separator.
func splitPathArgs(cmd *cobra.Command, args []string) (string, []string) {
	dash := cmd.ArgsLenAtDash()
	if dash == 0 {
		return "", args
	}
	if len(args) == 0 {
		return "", nil
	}
	return args[0], args[1:]
}
