package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kepler471/daily/internal/config"
	"github.com/kepler471/daily/internal/service"
)

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear every task's completion flag now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prefs := func() config.Preferences { return a.cfg.Preferences }
			scheduler := service.NewResetScheduler(a.repo, prefs, a.log)
			if err := scheduler.ResetAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all tasks reopened")
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show counts, last reset and next rollover",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			tasks, err := a.tasks.List(ctx)
			if err != nil {
				return err
			}
			requiredLeft, err := a.repo.CountIncompleteRequired(ctx)
			if err != nil {
				return err
			}
			lastReset, err := a.repo.LastResetAt(ctx)
			if err != nil {
				return err
			}

			open := 0
			for _, task := range tasks {
				if !task.IsCompleted {
					open++
				}
			}

			now := time.Now()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tasks:          %d (%d open, %d required left)\n", len(tasks), open, requiredLeft)
			if lastReset.IsZero() {
				fmt.Fprintln(out, "last reset:     never")
			} else {
				fmt.Fprintf(out, "last reset:     %s\n", lastReset.Format(time.DateTime))
			}
			fmt.Fprintf(out, "next reset:     %s\n", service.NextResetTime(now, a.cfg.Preferences.ResetHour).Format(time.DateTime))
			if service.ResetOwed(lastReset, now, a.cfg.Preferences.ResetHour) {
				fmt.Fprintln(out, "reset owed:     yes (run `daily reset` or `daily serve`)")
			}
			return nil
		},
	}
}
