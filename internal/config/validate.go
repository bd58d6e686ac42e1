package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLifecycle(); err != nil {
		return err
	}
	if err := c.validateLaunch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLifecycle() error {
	if strings.ContainsAny(c.Lifecycle.PidFileName, `/\`) {
		return fmt.Errorf("lifecycle.pid_file_name must be a bare file name, got %q", c.Lifecycle.PidFileName)
	}
	if c.Lifecycle.StopTimeoutSeconds < 0 {
		return errors.New("lifecycle.stop_timeout_seconds must be positive")
	}
	if c.Lifecycle.PollIntervalMS < 0 {
		return errors.New("lifecycle.poll_interval_ms must be positive")
	}
	if c.Lifecycle.KillGraceMS < 0 {
		return errors.New("lifecycle.kill_grace_ms must not be negative")
	}
	switch c.Lifecycle.LivenessProbe {
	case ProbeNative, ProbePS:
	default:
		return fmt.Errorf("lifecycle.liveness_probe: unsupported value %q (want %q or %q)", c.Lifecycle.LivenessProbe, ProbeNative, ProbePS)
	}
	return nil
}

func (c *Config) validateLaunch() error {
	if filepath.IsAbs(c.Launch.Bootstrap) {
		return fmt.Errorf("launch.bootstrap must be relative to the application root, got %q", c.Launch.Bootstrap)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
