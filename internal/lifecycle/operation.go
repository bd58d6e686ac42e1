package lifecycle

import (
	"context"
	"strings"
)

// Operation is a lifecycle verb.
type Operation string

const (
	OperationStart   Operation = "start"
	OperationDaemon  Operation = "daemon"
	OperationStop    Operation = "stop"
	OperationRestart Operation = "restart"
	OperationStatus  Operation = "status"
)

// Operations lists every known operation in help order.
func Operations() []Operation {
	return []Operation{OperationStart, OperationDaemon, OperationStop, OperationRestart, OperationStatus}
}

// ParseOperation maps a verb to its Operation.
func ParseOperation(name string) (Operation, error) {
	op := Operation(strings.ToLower(strings.TrimSpace(name)))
	switch op {
	case OperationStart, OperationDaemon, OperationStop, OperationRestart, OperationStatus:
		return op, nil
	default:
		return "", &UnknownCommandError{Command: name}
	}
}

// Report is the result of a dispatched operation. Exactly one of the
// operation-specific fields is set on success.
type Report struct {
	Operation Operation
	Start     *StartResult
	Daemon    *DaemonResult
	Stop      *StopResult
	Restart   *RestartResult
	Status    *StatusResult
}

// Dispatch runs op.
func (c *Controller) Dispatch(ctx context.Context, op Operation, req Request) (Report, error) {
	report := Report{Operation: op}
	switch op {
	case OperationStart:
		res, err := c.Start(ctx, req)
		report.Start = &res
		return report, err
	case OperationDaemon:
		res, err := c.Daemonize(ctx, req)
		report.Daemon = &res
		return report, err
	case OperationStop:
		res, err := c.Stop(ctx, req)
		report.Stop = &res
		return report, err
	case OperationRestart:
		res, err := c.Restart(ctx, req)
		report.Restart = &res
		return report, err
	case OperationStatus:
		res, err := c.Status(ctx, req)
		report.Status = &res
		return report, err
	default:
		command := strings.TrimSpace(strings.Join(append([]string{string(op)}, req.Invocation.Args...), " "))
		return report, &UnknownCommandError{Command: command}
	}
}
