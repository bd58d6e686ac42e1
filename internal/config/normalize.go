package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeLifecycle(); err != nil {
		return err
	}
	c.normalizeLaunch()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeLifecycle() error {
	if value, ok := os.LookupEnv("AHN_PID_FILE_NAME"); ok && strings.TrimSpace(value) != "" {
		c.Lifecycle.PidFileName = value
	}
	c.Lifecycle.PidFileName = strings.TrimSpace(c.Lifecycle.PidFileName)
	if c.Lifecycle.PidFileName == "" {
		c.Lifecycle.PidFileName = defaultPidFileName
	}

	if value, ok := os.LookupEnv("AHN_STOP_TIMEOUT"); ok && strings.TrimSpace(value) != "" {
		seconds, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("AHN_STOP_TIMEOUT: %w", err)
		}
		c.Lifecycle.StopTimeoutSeconds = seconds
	}
	if c.Lifecycle.StopTimeoutSeconds == 0 {
		c.Lifecycle.StopTimeoutSeconds = defaultStopTimeoutSeconds
	}
	if c.Lifecycle.PollIntervalMS == 0 {
		c.Lifecycle.PollIntervalMS = defaultPollIntervalMS
	}

	c.Lifecycle.LivenessProbe = strings.ToLower(strings.TrimSpace(c.Lifecycle.LivenessProbe))
	if c.Lifecycle.LivenessProbe == "" {
		c.Lifecycle.LivenessProbe = defaultLivenessProbe
	}
	return nil
}

func (c *Config) normalizeLaunch() {
	c.Launch.Bootstrap = strings.TrimSpace(c.Launch.Bootstrap)
	if c.Launch.Bootstrap == "" {
		c.Launch.Bootstrap = defaultBootstrap
	}
	c.Launch.DaemonLog = strings.TrimSpace(c.Launch.DaemonLog)
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	var err error
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("AHN_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
