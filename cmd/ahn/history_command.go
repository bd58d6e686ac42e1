package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"ahn/internal/approot"
	"ahn/internal/config"
	"ahn/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var all bool

	cmd := &cobra.Command{
		Use:   "history [path]",
		Short: "Show recent lifecycle events",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := openHistory(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			root := ""
			if !all {
				root = historyRoot(cfg, args)
			}
			events, err := store.Recent(cmd.Context(), root, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No lifecycle events recorded")
				return nil
			}
			fmt.Fprintln(out, renderHistory(events, root == ""))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultLimit, "Maximum number of events to show")
	cmd.Flags().BoolVar(&all, "all", false, "Show events for every application")

	cmd.AddCommand(newHistoryPruneCommand(ctx))
	return cmd
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest lifecycle events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := openHistory(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Prune(cmd.Context(), keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d event(s)\n", removed)
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 100, "Number of newest events to keep")
	return cmd
}

func openHistory(cfg *config.Config) (*history.Store, error) {
	if !cfg.History.Enabled {
		return nil, fmt.Errorf("history is disabled (set history.enabled = true)")
	}
	return history.Open(cfg.History.Path)
}

// historyRoot picks the application to filter on: the argument, else the
// application enclosing the working directory, else none.
func historyRoot(cfg *config.Config, args []string) string {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		if abs, err := filepath.Abs(args[0]); err == nil {
			return abs
		}
		return args[0]
	}
	detector := approot.NewDetector(cfg.Launch.Bootstrap)
	root, _ := detector.Find(".")
	return root
}

func renderHistory(events []history.Event, showRoot bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := table.Row{"Time", "Operation", "Outcome", "PID", "Duration"}
	if showRoot {
		header = append(header, "Application")
	}
	tw.AppendHeader(header)

	for _, ev := range events {
		pid := "-"
		if ev.PID > 0 {
			pid = strconv.Itoa(ev.PID)
		}
		row := table.Row{
			ev.FinishedAt.Local().Format("2006-01-02 15:04:05"),
			string(ev.Operation),
			outcomeLabel(ev.Outcome),
			pid,
			ev.Duration().Round(time.Millisecond).String(),
		}
		if showRoot {
			row = append(row, ev.Root)
		}
		tw.AppendRow(row)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
