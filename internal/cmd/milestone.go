package cmd

import (
	"encoding/json"
	"fmt"

	"issuetracker/internal/domain"

	"github.com/spf13/cobra"
)

// newMilestoneCmd creates the milestone command group.
func newMilestoneCmd(provider *AppProvider) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   "milestone",
		Short: "Group issues under dated milestones",
		Long: `Manage the milestones of a project.

Examples:
  tr milestone create "Beta" --due 2026-05-01 --issues SO-1,SO-2
  tr milestone link Beta SO-3
  tr milestone complete Beta
  tr milestone list`,
	}
	cmd.PersistentFlags().StringVar(&projectRef, "project", "", "Project prefix, name or ID (default: the only project)")

	cmd.AddCommand(newMilestoneCreateCmd(provider, &projectRef))
	cmd.AddCommand(newMilestoneListCmd(provider, &projectRef))
	cmd.AddCommand(newMilestoneLinkCmd(provider, &projectRef, true))
	cmd.AddCommand(newMilestoneLinkCmd(provider, &projectRef, false))
	cmd.AddCommand(newMilestoneCompleteCmd(provider, &projectRef))
	cmd.AddCommand(newMilestoneDeleteCmd(provider, &projectRef))
	return cmd
}

func resolveMilestone(app *App, projectRef, ref string) (domain.Milestone, error) {
	project, err := resolveProject(app, projectRef)
	if err != nil {
		return domain.Milestone{}, err
	}
	m, ok := findByRef(app.Tracker.MilestonesForProject(project.ID), ref,
		func(m domain.Milestone) string { return m.ID },
		func(m domain.Milestone) string { return m.Title })
	if !ok {
		return domain.Milestone{}, fmt.Errorf("milestone %q: %w", ref, domain.ErrNotFound)
	}
	return m, nil
}

func newMilestoneCreateCmd(provider *AppProvider, projectRef *string) *cobra.Command {
	var due string
	var issues []string

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a milestone",
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

			in := domain.NewMilestone{ProjectID: project.ID, Title: args[0]}
			if in.DueDate, err = parseDate(due); err != nil {
				return err
			}
			if in.IssueIDs, err = resolveIssueIDs(app, issues); err != nil {
				return err
			}

			id, err := app.Tracker.CreateMilestone(in)
			if err != nil {
				return fmt.Errorf("creating milestone: %w", err)
			}
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}

			m, _ := app.Tracker.Milestone(id)
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(m)
			}
			fmt.Fprintf(app.Out, "%s Created milestone: %s (%d issues)\n", app.SuccessColor("✓"), m.Title, len(m.IssueIDs))
			return nil
		},
	}

	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&issues, "issues", nil, "Issues to link (comma-separated identifiers)")
	return cmd
}

func newMilestoneListCmd(provider *AppProvider, projectRef *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List milestones",
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

			milestones := app.Tracker.MilestonesForProject(project.ID)
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(milestones)
			}
			if len(milestones) == 0 {
				fmt.Fprintln(app.Out, "No milestones found.")
				return nil
			}
			for _, m := range milestones {
				mark := " "
				if m.Completed {
					mark = "x"
				}
				due := m.DueDate
				if due == "" {
					due = "no due date"
				}
				fmt.Fprintf(app.Out, "  [%s] %s (%s, %d issues)\n", mark, m.Title, due, len(m.IssueIDs))
			}
			return nil
		},
	}
}

// newMilestoneLinkCmd creates "link" or, with link false, "unlink".
func newMilestoneLinkCmd(provider *AppProvider, projectRef *string, link bool) *cobra.Command {
	use, short := "link <milestone> <issue>...", "Link issues to a milestone"
	if !link {
		use, short = "unlink <milestone> <issue>...", "Unlink issues from a milestone"
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
			m, err := resolveMilestone(app, *projectRef, args[0])
			if err != nil {
				return err
			}
			ids, err := resolveIssueIDs(app, args[1:])
			if err != nil {
				return err
			}
			for _, id := range ids {
				if link {
					app.Tracker.LinkMilestoneIssue(m.ID, id)
				} else {
					app.Tracker.UnlinkMilestoneIssue(m.ID, id)
				}
			}
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}

			m, _ = app.Tracker.Milestone(m.ID)
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(m)
			}
			fmt.Fprintf(app.Out, "%s %s: %d issues\n", app.SuccessColor("✓"), m.Title, len(m.IssueIDs))
			return nil
		},
	}
}

func newMilestoneCompleteCmd(provider *AppProvider, projectRef *string) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "complete <milestone>",
		Short: "Mark a milestone completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			m, err := resolveMilestone(app, *projectRef, args[0])
			if err != nil {
				return err
			}
			app.Tracker.UpdateMilestone(m.ID, domain.MilestonePatch{Completed: domain.Ptr(!undo)})
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}

			m, _ = app.Tracker.Milestone(m.ID)
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(m)
			}
			state := "completed"
			if !m.Completed {
				state = "reopened"
			}
			fmt.Fprintf(app.Out, "%s Milestone %s %s\n", app.SuccessColor("✓"), m.Title, state)
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the milestone not completed")
	return cmd
}

func newMilestoneDeleteCmd(provider *AppProvider, projectRef *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <milestone>",
		Short: "Delete a milestone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			m, err := resolveMilestone(app, *projectRef, args[0])
			if err != nil {
				return err
			}
			app.Tracker.DeleteMilestone(m.ID)
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(map[string]string{"deleted": m.ID})
			}
			fmt.Fprintf(app.Out, "%s Deleted milestone %s\n", app.SuccessColor("✓"), m.Title)
			return nil
		},
	}
}
