package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"ahn/internal/launcher"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code. A foreground
// server's own exit status is passed through.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand()
	cmd.SetArgs(normalizeArgs(args))
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		var exitErr *launcher.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(stderr, err)
		}
		return 1
	}
	return 0
}
