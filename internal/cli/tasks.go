package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kepler471/daily/internal/model"
	"github.com/kepler471/daily/internal/service"
)

func newAddCmd(a *app) *cobra.Command {
	var suggested bool
	var at string
	var position int

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task to the daily list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := service.TaskInput{
				Title:    joinArgs(args),
				Category: model.CategoryRequired,
				Position: position,
			}
			if suggested {
				input.Category = model.CategorySuggested
			}
			if at != "" {
				input.ScheduledTime = &at
			}

			task, err := a.tasks.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s  %s\n", shortID(task.ID), task.Title)
			return nil
		},
	}

	cmd.Flags().BoolVar(&suggested, "suggested", false, "file under the suggested column instead of required")
	cmd.Flags().StringVar(&at, "at", "", "remind daily at HH:MM (overrides category toggles)")
	cmd.Flags().IntVar(&position, "position", 0, "explicit sort position within the category")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show today's tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasks, err := a.tasks.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, task := range tasks {
				if task.IsCompleted && !all {
					continue
				}
				mark := " "
				if task.IsCompleted {
					mark = "x"
				}
				line := fmt.Sprintf("[%s] %s  %-9s %s", mark, shortID(task.ID), task.Category, task.Title)
				if task.ScheduledTime != nil {
					line += "  @" + *task.ScheduledTime
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include completed tasks")
	return cmd
}

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.resolveTaskID(cmd, args[0])
			if err != nil {
				return err
			}
			changed, err := a.tasks.Complete(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !changed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s was already done\n", shortID(id))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "done %s\n", shortID(id))
			return nil
		},
	}
}

func newReopenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <id>",
		Short: "Clear a task's completion flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.resolveTaskID(cmd, args[0])
			if err != nil {
				return err
			}
			changed, err := a.tasks.Reopen(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !changed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s was already open\n", shortID(id))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reopened %s\n", shortID(id))
			return nil
		},
	}
}

func newRmCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a task, or every task with --all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				if err := a.tasks.DeleteAll(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "all tasks deleted")
				return nil
			}
			if len(args) != 1 {
				return fmt.Errorf("task id required unless --all is set")
			}
			id, err := a.resolveTaskID(cmd, args[0])
			if err != nil {
				return err
			}
			if err := a.tasks.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", shortID(id))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "delete every task")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func joinArgs(args []string) string {
	title := args[0]
	for _, arg := range args[1:] {
		title += " " + arg
	}
	return title
}
