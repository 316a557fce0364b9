package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"issuetracker/internal/domain"

	"github.com/spf13/cobra"
)

// newGoalCmd creates the goal command group.
func newGoalCmd(provider *AppProvider) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Track outcomes across issues",
		Long: `Manage the goals of a project. A goal's progress is the share of its
linked issues that are done; it is recomputed whenever links change.

Examples:
  tr goal create "Launch checkout" --target 2026-06-30 --issues SO-1,SO-2
  tr goal link "Launch checkout" SO-3
  tr goal update "Launch checkout" --status in_progress
  tr goal list`,
	}
	cmd.PersistentFlags().StringVar(&projectRef, "project", "", "Project prefix, name or ID (default: the only project)")

	cmd.AddCommand(newGoalCreateCmd(provider, &projectRef))
	cmd.AddCommand(newGoalListCmd(provider, &projectRef))
	cmd.AddCommand(newGoalUpdateCmd(provider, &projectRef))
	cmd.AddCommand(newGoalLinkCmd(provider, &projectRef, true))
	cmd.AddCommand(newGoalLinkCmd(provider, &projectRef, false))
	cmd.AddCommand(newGoalDeleteCmd(provider, &projectRef))
	return cmd
}

func resolveGoal(app *App, projectRef, ref string) (domain.Goal, error) {
	project, err := resolveProject(app, projectRef)
	if err != nil {
		return domain.Goal{}, err
	}
	g, ok := findByRef(app.Tracker.GoalsForProject(project.ID), ref,
		func(g domain.Goal) string { return g.ID },
		func(g domain.Goal) string { return g.Title })
	if !ok {
		return domain.Goal{}, fmt.Errorf("goal %q: %w", ref, domain.ErrNotFound)
	}
	return g, nil
}

// syncGoalProgress stores the computed progress on the goal.
func syncGoalProgress(app *App, goalID string) {
	app.Tracker.UpdateGoal(goalID, domain.GoalPatch{Progress: domain.Ptr(app.Tracker.GoalProgress(goalID))})
}

func newGoalCreateCmd(provider *AppProvider, projectRef *string) *cobra.Command {
	var description, target, status string
	var issues []string

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			project, err := resolveProject(app, *projectRef)
			if err != nil {
				return err
			}

			in := domain.NewGoal{ProjectID: project.ID, Title: args[0], Description: description}
			if in.TargetDate, err = parseDate(target); err != nil {
				return err
			}
			if status != "" {
				if in.Status, err = domain.ParseGoalStatus(status); err != nil {
					return err
				}
			}
			if in.IssueIDs, err = resolveIssueIDs(app, issues); err != nil {
				return err
			}

			id, err := app.Tracker.CreateGoal(in)
			if err != nil {
				return fmt.Errorf("creating goal: %w", err)
			}
			syncGoalProgress(app, id)
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}

			g, _ := app.Tracker.Goal(id)
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(g)
			}
			fmt.Fprintf(app.Out, "%s Created goal: %s [%s] %d%%\n", app.SuccessColor("✓"), g.Title, g.Status, g.Progress)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Goal description")
	cmd.Flags().StringVar(&target, "target", "", "Target date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "Status (not_started, in_progress, completed, cancelled)")
	cmd.Flags().StringSliceVar(&issues, "issues", nil, "Issues to link (comma-separated identifiers)")
	return cmd
}

func newGoalListCmd(provider *AppProvider, projectRef *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List goals with progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			project, err := resolveProject(app, *projectRef)
			if err != nil {
				return err
			}

			goals := app.Tracker.GoalsForProject(project.ID)
			for i := range goals {
				goals[i].Progress = app.Tracker.GoalProgress(goals[i].ID)
			}
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(goals)
			}
			if len(goals) == 0 {
				fmt.Fprintln(app.Out, "No goals found.")
				return nil
			}
			for _, g := range goals {
				fmt.Fprintf(app.Out, "  %s [%s] %d%% (%d issues)\n", g.Title, g.Status, g.Progress, len(g.IssueIDs))
				if g.TargetDate != "" {
					fmt.Fprintf(app.Out, "       Target: %s\n", g.TargetDate)
				}
			}
			return nil
		},
	}
}

func newGoalUpdateCmd(provider *AppProvider, projectRef *string) *cobra.Command {
	var title, description, target, status string

	cmd := &cobra.Command{
		Use:   "update <goal>",
		Short: "Change a goal's title, target date or status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			g, err := resolveGoal(app, *projectRef, args[0])
			if err != nil {
				return err
			}

			var patch domain.GoalPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("target") {
				d, err := parseDate(target)
				if err != nil {
					return err
				}
				patch.TargetDate = &d
			}
			if cmd.Flags().Changed("status") {
				s, err := domain.ParseGoalStatus(status)
				if err != nil {
					return err
				}
				patch.Status = &s
			}
			if patch == (domain.GoalPatch{}) {
				return errors.New("nothing to update (pass --title, --description, --target or --status)")
			}

			app.Tracker.UpdateGoal(g.ID, patch)
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}
			g, _ = app.Tracker.Goal(g.ID)
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(g)
			}
			fmt.Fprintf(app.Out, "%s Updated goal: %s [%s]\n", app.SuccessColor("✓"), g.Title, g.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&target, "target", "", "Target date (YYYY-MM-DD, \"none\" to clear)")
	cmd.Flags().StringVar(&status, "status", "", "Status (not_started, in_progress, completed, cancelled)")
	return cmd
}

// newGoalLinkCmd creates "link" or, with link false, "unlink".
func newGoalLinkCmd(provider *AppProvider, projectRef *string, link bool) *cobra.Command {
	use, short := "link <goal> <issue>...", "Link issues to a goal"
	if !link {
		use, short = "unlink <goal> <issue>...", "Unlink issues from a goal"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			g, err := resolveGoal(app, *projectRef, args[0])
			if err != nil {
				return err
			}
			ids, err := resolveIssueIDs(app, args[1:])
			if err != nil {
				return err
			}
			for _, id := range ids {
				if link {
					app.Tracker.LinkGoalIssue(g.ID, id)
				} else {
					app.Tracker.UnlinkGoalIssue(g.ID, id)
				}
			}
			syncGoalProgress(app, g.ID)
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}

			g, _ = app.Tracker.Goal(g.ID)
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(g)
			}
			fmt.Fprintf(app.Out, "%s %s: %d issues, %d%% done\n", app.SuccessColor("✓"), g.Title, len(g.IssueIDs), g.Progress)
			return nil
		},
	}
}

func newGoalDeleteCmd(provider *AppProvider, projectRef *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <goal>",
		Short: "Delete a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			g, err := resolveGoal(app, *projectRef, args[0])
			if err != nil {
				return err
			}
			app.Tracker.DeleteGoal(g.ID)
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(map[string]string{"deleted": g.ID})
			}
			fmt.Fprintf(app.Out, "%s Deleted goal %s\n", app.SuccessColor("✓"), g.Title)
			return nil
		},
	}
}
