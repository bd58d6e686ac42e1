package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ahn/internal/lifecycle"
	"ahn/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var pidFile string
	cmd := &cobra.Command{
		Use:   "doctor [path]",
		Short: "Check that an application can be started and stopped",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, _ := splitPathArgs(cmd, args)
			ctrl := lifecycle.New(lifecycle.Options{
				Config: cfg,
				Logger: ctx.ensureLogger(),
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			})
			root, pidPath, err := ctrl.Locate(lifecycle.Operation("doctor"), lifecycle.Request{
				Path:       path,
				PidFile:    pidFile,
				Invocation: invocation(nil),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintf(out, "%-*s %s\n", statusLabelWidth, "Application:", root)

			failed := 0
			for _, res := range preflight.RunAll(cfg, root, pidPath) {
				tag, kind := "OK", statusOK
				switch {
				case res.Passed:
				case res.Optional:
					tag, kind = "WARN", statusWarn
				default:
					tag, kind = "FAIL", statusFail
					failed++
				}
				fmt.Fprintln(out, renderStatusLine(res.Name, tag, kind, res.Detail, colorize))
			}
			if failed > 0 {
				return fmt.Errorf("%d preflight check(s) failed", failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pidFile, "pid-file", "", "Pid file location (alias --pidfile)")
	return cmd
}
