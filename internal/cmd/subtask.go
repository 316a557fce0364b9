package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"issuetracker/internal/domain"

	"github.com/spf13/cobra"
)

// newSubtaskCmd creates the subtask command group.
func newSubtaskCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtask",
		Short: "Manage an issue's checklist",
		Long: `Manage the checklist of sub-tasks on an issue.

Sub-tasks are addressed by their 1-based position as shown by
"tr show", or by ID.

Examples:
  tr subtask add SO-1 "Write migration"
  tr subtask toggle SO-1 1
  tr subtask rename SO-1 1 "Write and run migration"
  tr subtask remove SO-1 2`,
	}
	cmd.AddCommand(newSubtaskAddCmd(provider))
	cmd.AddCommand(newSubtaskToggleCmd(provider))
	cmd.AddCommand(newSubtaskRenameCmd(provider))
	cmd.AddCommand(newSubtaskRemoveCmd(provider))
	return cmd
}

func newSubtaskAddCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "add <issue> <title>",
		Short: "Add a sub-task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			issue, err := resolveIssue(app, args[0])
			if err != nil {
				return err
			}
			st, err := app.Tracker.AddSubTask(issue.ID, args[1])
			if err != nil {
				return fmt.Errorf("adding sub-task: %w", err)
			}
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(st)
			}
			n := len(app.Tracker.SubTasksForIssue(issue.ID))
			fmt.Fprintf(app.Out, "%s Added sub-task %d to %s: %s\n", app.SuccessColor("✓"), n, issue.Identifier, st.Title)
			return nil
		},
	}
}

func newSubtaskToggleCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <issue> <subtask>",
		Short: "Mark a sub-task done or not done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			issue, st, err := resolveSubTask(app, args[0], args[1])
			if err != nil {
				return err
			}
			app.Tracker.ToggleSubTask(st.ID)
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}
			st, _ = app.Tracker.SubTask(st.ID)
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(st)
			}
			state := "open"
			if st.Completed {
				state = "done"
			}
			fmt.Fprintf(app.Out, "%s %s: %q is %s\n", app.SuccessColor("✓"), issue.Identifier, st.Title, state)
			return nil
		},
	}
}

func newSubtaskRenameCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <issue> <subtask> <title>",
		Short: "Rename a sub-task",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			issue, st, err := resolveSubTask(app, args[0], args[1])
			if err != nil {
				return err
			}
			app.Tracker.RenameSubTask(st.ID, args[2])
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}
			st, _ = app.Tracker.SubTask(st.ID)
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(st)
			}
			fmt.Fprintf(app.Out, "%s %s: renamed sub-task to %q\n", app.SuccessColor("✓"), issue.Identifier, st.Title)
			return nil
		},
	}
}

func newSubtaskRemoveCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <issue> <subtask>",
		Short: "Remove a sub-task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			issue, st, err := resolveSubTask(app, args[0], args[1])
			if err != nil {
				return err
			}
			app.Tracker.RemoveSubTask(st.ID)
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(map[string]string{"removed": st.ID})
			}
			fmt.Fprintf(app.Out, "%s %s: removed sub-task %q\n", app.SuccessColor("✓"), issue.Identifier, st.Title)
			return nil
		},
	}
}

// resolveSubTask finds a sub-task of the issue by 1-based position or ID.
func resolveSubTask(app *App, issueRef, ref string) (domain.Issue, domain.SubTask, error) {
	issue, err := resolveIssue(app, issueRef)
	if err != nil {
		return domain.Issue{}, domain.SubTask{}, err
	}
	items := app.Tracker.SubTasksForIssue(issue.ID)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(items) {
			return issue, domain.SubTask{}, fmt.Errorf("%s has no sub-task %d: %w", issue.Identifier, n, domain.ErrNotFound)
		}
		return issue, items[n-1], nil
	}
	for _, st := range items {
		if st.ID == ref {
			return issue, st, nil
		}
	}
	return issue, domain.SubTask{}, fmt.Errorf("sub-task %q on %s: %w", ref, issue.Identifier, domain.ErrNotFound)
}
