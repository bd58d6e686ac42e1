package history

import "time"

// Operation names the lifecycle action an event records.
type Operation string

const (
	OperationStart   Operation = "start"
	OperationDaemon  Operation = "daemon"
	OperationStop    Operation = "stop"
	OperationRestart Operation = "restart"
)

// Event is one recorded lifecycle action.
type Event struct {
	ID        int64
	Operation Operation
	Root      string
	PID       int
	// Outcome is a short machine-readable result, e.g. "stopped_gracefully".
	Outcome    string
	LaunchID   string
	PidFile    string
	Detail     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the action took.
func (e Event) Duration() time.Duration {
	if e.StartedAt.IsZero() || e.FinishedAt.IsZero() {
		return 0
	}
	return e.FinishedAt.Sub(e.StartedAt)
}
