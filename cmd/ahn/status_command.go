package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ahn/internal/lifecycle"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var pidFile string
	cmd := &cobra.Command{
		Use:   "status [path]",
		Short: "Show whether the server is running",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := splitPathArgs(cmd, args)
			report, err := dispatch(ctx, cmd, lifecycle.OperationStatus, lifecycle.Request{
				Path:       path,
				PidFile:    pidFile,
				Invocation: invocation(nil),
			})
			if err != nil {
				return err
			}
			res := report.Status
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintf(out, "%-*s %s\n", statusLabelWidth, "Application:", res.Root)
			fmt.Fprintln(out, renderStatusLine("Server", strings.ToUpper(string(res.State)), statusKindFor(res.State), statusMessage(*res), colorize))
			return nil
		},
	}
	cmd.Flags().StringVar(&pidFile, "pid-file", "", "Pid file location (alias --pidfile)")
	return cmd
}

func statusKindFor(state lifecycle.State) statusKind {
	switch state {
	case lifecycle.StateRunning:
		return statusOK
	case lifecycle.StateStopped:
		return statusWarn
	default:
		return statusInfo
	}
}

func statusMessage(res lifecycle.StatusResult) string {
	switch res.State {
	case lifecycle.StateRunning:
		return fmt.Sprintf("pid %d", res.PidFile.PID)
	case lifecycle.StateStopped:
		return fmt.Sprintf("stale pid file %s (pid %d)", res.PidFile.Path, res.PidFile.PID)
	default:
		return fmt.Sprintf("no readable pid file at %s", res.PidFile.Path)
	}
}
