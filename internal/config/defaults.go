package config

const (
	defaultPidFileName        = "adhearsion.pid"
	defaultStopTimeoutSeconds = 15
	defaultPollIntervalMS     = 250
	defaultKillGraceMS        = 1000
	defaultLivenessProbe      = ProbeNative
	defaultBootstrap          = "script/ahn"
	defaultDaemonLog          = "log/ahn-daemon.log"
	defaultHistoryPath        = "~/.local/share/ahn/history.db"
	defaultLogFormat          = "console"
	defaultLogLevel           = "warn"
	defaultConfigPath         = "~/.config/ahn/config.toml"
	projectConfigName         = "ahn.toml"
)

// Liveness probe names accepted by lifecycle.liveness_probe.
const (
	ProbeNative = "native"
	ProbePS     = "ps"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Lifecycle: Lifecycle{
			PidFileName:        defaultPidFileName,
			StopTimeoutSeconds: defaultStopTimeoutSeconds,
			PollIntervalMS:     defaultPollIntervalMS,
			KillGraceMS:        defaultKillGraceMS,
			LockPidFile:        true,
			LivenessProbe:      defaultLivenessProbe,
		},
		Launch: Launch{
			Bootstrap: defaultBootstrap,
			DaemonLog: defaultDaemonLog,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
