package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"ahn/internal/lifecycle"
	"ahn/internal/procctl"
)

func newLifecycleCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newOperationCommand(ctx, lifecycle.OperationStart, "start [path] [-- args...]",
			"Start the server in the foreground with a console", false),
		newOperationCommand(ctx, lifecycle.OperationDaemon, "daemon [path] [-- args...]",
			"Start the server in the background", true),
		newOperationCommand(ctx, lifecycle.OperationStop, "stop [path]",
			"Stop a running server", true),
		newOperationCommand(ctx, lifecycle.OperationRestart, "restart [path] [-- args...]",
			"Stop the server, then start it in the background", true),
		newStatusCommand(ctx),
	}
}

func newOperationCommand(ctx *commandContext, op lifecycle.Operation, use, short string, pidFlag bool) *cobra.Command {
	var pidFile string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, rest := splitPathArgs(cmd, args)
			report, err := dispatch(ctx, cmd, op, lifecycle.Request{
				Path:       path,
				PidFile:    pidFile,
				Invocation: invocation(rest),
			})
			if err != nil {
				return err
			}
			return renderReport(cmd.OutOrStdout(), report)
		},
	}
	if pidFlag {
		cmd.Flags().StringVar(&pidFile, "pid-file", "", "Pid file location (alias --pidfile)")
	}
	return cmd
}

func dispatch(ctx *commandContext, cmd *cobra.Command, op lifecycle.Operation, req lifecycle.Request) (lifecycle.Report, error) {
	ctrl, cleanup, err := ctx.newController(cmd)
	if err != nil {
		return lifecycle.Report{}, err
	}
	defer cleanup()
	return ctrl.Dispatch(cmd.Context(), op, req)
}

func renderReport(out io.Writer, report lifecycle.Report) error {
	switch {
	case report.Daemon != nil:
		renderDaemon(out, *report.Daemon)
	case report.Stop != nil:
		return renderStop(out, *report.Stop)
	case report.Restart != nil:
		if err := renderStop(out, report.Restart.Stop); err != nil {
			fmt.Fprintf(out, "Warning: %v; continuing with restart\n", err)
		}
		renderDaemon(out, report.Restart.Daemon)
	}
	return nil
}

func renderDaemon(out io.Writer, res lifecycle.DaemonResult) {
	fmt.Fprintf(out, "Server started in background (pid %d)\n", res.PID)
	fmt.Fprintf(out, "  Pid file: %s\n", res.PidFile)
	if res.LogPath != "" {
		fmt.Fprintf(out, "  Log file: %s\n", res.LogPath)
	}
	fmt.Fprintf(out, "  Launch:   %s\n", res.LaunchID)
}

// renderStop prints the termination outcome. A server that survived the
// forceful signal is reported as an error so scripts notice.
func renderStop(out io.Writer, res lifecycle.StopResult) error {
	if res.Termination == nil {
		return nil
	}
	term := res.Termination
	if term.Outcome == procctl.OutcomeTimedOutStillRunning {
		return fmt.Errorf("server at %s (pid %d) is still running after SIGKILL", res.Root, term.PID)
	}
	fmt.Fprintf(out, "%s after %s\n", outcomeLabel(string(term.Outcome)), term.Elapsed.Round(time.Millisecond))
	return nil
}
