package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Lifecycle contains pid-file naming and stop protocol timings.
type Lifecycle struct {
	PidFileName        string `toml:"pid_file_name"`
	StopTimeoutSeconds int    `toml:"stop_timeout_seconds"`
	PollIntervalMS     int    `toml:"poll_interval_ms"`
	KillGraceMS        int    `toml:"kill_grace_ms"`
	RestartGuard       bool   `toml:"restart_guard"`
	LockPidFile        bool   `toml:"lock_pid_file"`
	LivenessProbe      string `toml:"liveness_probe"`
}

// Launch contains settings for spawning the application bootstrap.
type Launch struct {
	Bootstrap string `toml:"bootstrap"`
	DaemonLog string `toml:"daemon_log"`
}

// History contains settings for the lifecycle event store.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for ahn.
//
// Configuration sections by subsystem:
//   - Lifecycle: pid file name, stop timeout, polling, restart guard, locking
//   - Launch: bootstrap entry point and daemon log location
//   - History: sqlite store of lifecycle events
//   - Logging: log format and level
type Config struct {
	Lifecycle Lifecycle `toml:"lifecycle"`
	Launch    Launch    `toml:"launch"`
	History   History   `toml:"history"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// StopTimeout returns the graceful stop deadline.
func (c *Config) StopTimeout() time.Duration {
	return time.Duration(c.Lifecycle.StopTimeoutSeconds) * time.Second
}

// PollInterval returns the liveness polling interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Lifecycle.PollIntervalMS) * time.Millisecond
}

// KillGrace returns how long to verify a process is gone after SIGKILL.
func (c *Config) KillGrace() time.Duration {
	return time.Duration(c.Lifecycle.KillGraceMS) * time.Millisecond
}

// DaemonLogPath resolves the daemon log file for an application root.
func (c *Config) DaemonLogPath(root string) string {
	logPath := strings.TrimSpace(c.Launch.DaemonLog)
	if logPath == "" {
		return ""
	}
	if filepath.IsAbs(logPath) {
		return logPath
	}
	return filepath.Join(root, logPath)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
