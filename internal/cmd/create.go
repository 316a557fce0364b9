package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"issuetracker/internal/domain"

	"github.com/spf13/cobra"
)

// newCreateCmd creates the create command.
func newCreateCmd(provider *AppProvider) *cobra.Command {
	var (
		projectRef  string
		description string
		status      string
		priority    string
		assignee    string
		labels      []string
		estimate    int
		due         string
		parent      string
		cycle       string
	)

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a new issue",
		Long: `Create a new issue in a project.

The issue gets the next identifier of its project (e.g. SO-4); numbers are
never reused, even after deletes.

Examples:
  tr create "Fix login bug"
  tr create "Add dark mode" --project SO -p high -l feature
  tr create "Write docs" -a me --due 2026-04-01 --cycle "Sprint 1"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			project, err := resolveProject(app, projectRef)
			if err != nil {
				return err
			}

			in := domain.NewIssue{
				ProjectID:   project.ID,
				Title:       args[0],
				Description: description,
				Status:      app.Settings.DefaultStatus,
				Priority:    app.Settings.DefaultPriority,
				AssigneeID:  resolveAssignee(app, assignee),
				Estimate:    estimate,
			}
			if status != "" {
				if in.Status, err = domain.ParseStatus(status); err != nil {
					return err
				}
			}
			if priority != "" {
				if in.Priority, err = domain.ParsePriority(priority); err != nil {
					return err
				}
			}
			if len(labels) > 0 {
				if in.LabelIDs, err = resolveLabels(project, labels); err != nil {
					return err
				}
			}
			if in.DueDate, err = parseDate(due); err != nil {
				return err
			}
			if parent != "" {
				p, err := resolveIssue(app, parent)
				if err != nil {
					return fmt.Errorf("parent: %w", err)
				}
				in.ParentIssueID = p.ID
			}
			if cycle != "" {
				c, err := resolveCycle(app, project, cycle)
				if err != nil {
					return err
				}
				in.CycleID = c.ID
			}

			issue, err := app.Tracker.CreateIssue(in)
			if err != nil {
				return fmt.Errorf("creating issue: %w", err)
			}
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(issue)
			}

			fmt.Fprintf(app.Out, "%s Created issue: %s\n", app.SuccessColor("✓"), issue.Identifier)
			fmt.Fprintf(app.Out, "  Title: %s\n", issue.Title)
			fmt.Fprintf(app.Out, "  Priority: %s\n", issue.Priority)
			fmt.Fprintf(app.Out, "  Status: %s\n", issue.Status)
			if len(issue.LabelIDs) > 0 {
				fmt.Fprintf(app.Out, "  Labels: %s\n", strings.Join(labelNames(project, issue.LabelIDs), ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project prefix, name or ID (default: the only project)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Issue description")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Initial status (backlog, todo, in_progress, in_review, done, cancelled)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority (urgent, high, medium, low, none)")
	cmd.Flags().StringVarP(&assignee, "assignee", "a", "", "Assignee user ID (\"me\" for yourself)")
	cmd.Flags().StringSliceVarP(&labels, "labels", "l", nil, "Labels (comma-separated names)")
	cmd.Flags().IntVar(&estimate, "estimate", 0, "Estimate in points")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent issue identifier")
	cmd.Flags().StringVar(&cycle, "cycle", "", "Cycle name or ID")

	return cmd
}
