package testsupport

import (
	"path/filepath"
	"testing"

	"ahn/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose history database lives in a per-test
// temp directory. Timings are shortened so stop paths finish quickly.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.History.Path = filepath.Join(base, "state", "history.db")
	cfgVal.Lifecycle.StopTimeoutSeconds = 2
	cfgVal.Lifecycle.PollIntervalMS = 20
	cfgVal.Lifecycle.KillGraceMS = 500

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithHistoryDisabled turns off event recording.
func WithHistoryDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// WithRestartGuard makes restart abort when the old server survives stop.
func WithRestartGuard() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Lifecycle.RestartGuard = true
	}
}

// WithStopTimeout overrides the graceful stop bound in seconds.
func WithStopTimeout(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Lifecycle.StopTimeoutSeconds = seconds
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Dir(cfg.History.Path))
}
