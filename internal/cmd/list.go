package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"issuetracker/internal/domain"
	"issuetracker/internal/query"

	"github.com/spf13/cobra"
)

// newListCmd creates the list command.
func newListCmd(provider *AppProvider) *cobra.Command {
	var (
		projectRef string
		filters    filterFlags
		sortBy     string
		groupBy    string
		view       string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List issues with filtering, sorting and grouping",
		Long: `List issues with various filters.

Filters are AND-combined; values within one filter are OR-combined, so
--labels bug,ui lists issues carrying either label. A saved view supplies
its filters first and explicit flags replace the matching dimension.

Examples:
  tr list                            # All issues, newest first
  tr list -s todo,in_progress        # Open work
  tr list -p urgent,high --sort priority:desc
  tr list --labels bug --group status
  tr list -q login                   # Search title, identifier, description
  tr list --view "My bugs"           # Apply a saved view`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			var base domain.IssueFilters
			var project *domain.Project
			if projectRef != "" || view != "" || filters.cycle != "" {
				p, err := resolveProject(app, projectRef)
				if err != nil {
					return err
				}
				project = &p
				base.ProjectID = p.ID
			}
			if view != "" {
				v, err := resolveView(app, *project, view)
				if err != nil {
					return err
				}
				base = v.Filters
				base.ProjectID = project.ID
			}

			f, err := filters.apply(app, project, base)
			if err != nil {
				return err
			}
			sort, err := domain.ParseSort(sortBy)
			if err != nil {
				return err
			}
			group, err := domain.ParseGroupBy(groupBy)
			if err != nil {
				return err
			}

			result := query.Run(app.Tracker.Issues(), f, sort, group)

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(result)
			}

			if result.FilteredCount == 0 {
				fmt.Fprintln(app.Out, "No issues found.")
				return nil
			}

			fmt.Fprintf(app.Out, "Issues (%d of %d):\n", result.FilteredCount, result.TotalCount)
			for _, g := range result.Groups {
				if group != domain.GroupNone {
					fmt.Fprintf(app.Out, "\n%s %s (%d)\n", group, g.Key, len(g.Issues))
				} else {
					fmt.Fprintln(app.Out)
				}
				for _, issue := range g.Issues {
					printIssueLine(app.Out, app, issue)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project prefix, name or ID (default: all projects)")
	filters.register(cmd)
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort field[:asc|desc] (created, updated, priority, status, title)")
	cmd.Flags().StringVar(&groupBy, "group", "", "Group by status, priority or assignee")
	cmd.Flags().StringVar(&view, "view", "", "Saved view name or ID")

	return cmd
}

// printIssueLine writes the one-line summary used by list-style output.
func printIssueLine(w io.Writer, app *App, issue domain.Issue) {
	fmt.Fprintf(w, "  %s  [%s] [%s] %s\n", issue.Identifier, issue.Status, issue.Priority, issue.Title)
	if issue.AssigneeID != "" {
		fmt.Fprintf(w, "       Assignee: %s\n", issue.AssigneeID)
	}
	if len(issue.LabelIDs) > 0 {
		project, _ := app.Tracker.Project(issue.ProjectID)
		fmt.Fprintf(w, "       Labels: %s\n", strings.Join(labelNames(project, issue.LabelIDs), ", "))
	}
}
