package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"issuetracker/internal/domain"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// issueDetails is the JSON shape of show output.
type issueDetails struct {
	domain.Issue
	Labels     []string            `json:"labels,omitempty"`
	SubTasks   []domain.SubTask    `json:"subtasks"`
	Relations  []domain.Relation   `json:"relations"`
	Time       domain.TimeTracking `json:"time"`
	Activities []domain.Activity   `json:"activities"`
}

// newShowCmd creates the show command.
func newShowCmd(provider *AppProvider) *cobra.Command {
	var noActivity bool

	cmd := &cobra.Command{
		Use:   "show <issue>",
		Short: "Show full details of an issue",
		Long: `Display detailed information about a single issue: fields, sub-tasks,
relations, time tracking and the activity log.

Examples:
  tr show SO-1
  tr show so-1 --no-activity`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			issue, err := resolveIssue(app, args[0])
			if err != nil {
				return err
			}
			project, _ := app.Tracker.Project(issue.ProjectID)

			details := issueDetails{
				Issue:      issue,
				Labels:     labelNames(project, issue.LabelIDs),
				SubTasks:   app.Tracker.SubTasksForIssue(issue.ID),
				Relations:  app.Tracker.RelationsForIssue(issue.ID),
				Time:       app.Tracker.TimeTracking(issue.ID),
				Activities: app.Tracker.ActivitiesForIssue(issue.ID),
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(details)
			}

			w := app.Out
			fmt.Fprintf(w, "%s: %s\n", issue.Identifier, issue.Title)
			fmt.Fprintf(w, "  Project:  %s\n", project.Name)
			fmt.Fprintf(w, "  Status:   %s\n", issue.Status)
			fmt.Fprintf(w, "  Priority: %s\n", issue.Priority)
			if issue.AssigneeID != "" {
				fmt.Fprintf(w, "  Assignee: %s\n", issue.AssigneeID)
			}
			if len(details.Labels) > 0 {
				fmt.Fprintf(w, "  Labels:   %s\n", strings.Join(details.Labels, ", "))
			}
			if issue.Estimate > 0 {
				fmt.Fprintf(w, "  Estimate: %d\n", issue.Estimate)
			}
			if issue.DueDate != "" {
				fmt.Fprintf(w, "  Due:      %s\n", issue.DueDate)
			}
			if issue.CycleID != "" {
				if c, ok := app.Tracker.Cycle(issue.CycleID); ok {
					fmt.Fprintf(w, "  Cycle:    %s\n", c.Name)
				}
			}
			if issue.ParentIssueID != "" {
				if p, ok := app.Tracker.Issue(issue.ParentIssueID); ok {
					fmt.Fprintf(w, "  Parent:   %s\n", p.Identifier)
				}
			}
			fmt.Fprintf(w, "  Created:  %s\n", humanize.Time(issue.CreatedAt))
			fmt.Fprintf(w, "  Updated:  %s\n", humanize.Time(issue.UpdatedAt))

			if issue.Description != "" {
				fmt.Fprintf(w, "\n%s\n", issue.Description)
			}

			if len(details.SubTasks) > 0 {
				done := 0
				for _, st := range details.SubTasks {
					if st.Completed {
						done++
					}
				}
				fmt.Fprintf(w, "\nSub-tasks (%d/%d):\n", done, len(details.SubTasks))
				for i, st := range details.SubTasks {
					mark := " "
					if st.Completed {
						mark = "x"
					}
					fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, mark, st.Title)
				}
			}

			if len(details.Relations) > 0 {
				fmt.Fprintln(w, "\nRelations:")
				for _, r := range details.Relations {
					fmt.Fprintf(w, "  %s\n", relationPhrase(app, issue.ID, r))
				}
			}

			if t := details.Time; t.EstimateMinutes != nil || t.LoggedMinutes > 0 {
				fmt.Fprintln(w, "\nTime:")
				if t.EstimateMinutes != nil {
					fmt.Fprintf(w, "  Estimate:  %s\n", domain.FormatMinutes(*t.EstimateMinutes))
				}
				fmt.Fprintf(w, "  Logged:    %s\n", domain.FormatMinutes(t.LoggedMinutes))
				if rem, ok := t.Remaining(); ok {
					fmt.Fprintf(w, "  Remaining: %s\n", domain.FormatMinutes(rem))
				}
			}

			if !noActivity && len(details.Activities) > 0 {
				fmt.Fprintln(w, "\nActivity:")
				for _, a := range details.Activities {
					who := a.UserID
					if who == "" {
						who = "someone"
					}
					fmt.Fprintf(w, "  %s %s (%s)\n", who, a.Summary(), humanize.Time(a.Timestamp))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noActivity, "no-activity", false, "Hide the activity log")
	return cmd
}

// relationPhrase renders r from the point of view of issueID,
// e.g. "blocks SO-2" or "blocked by SO-1".
func relationPhrase(app *App, issueID string, r domain.Relation) string {
	typ, other := r.Type, r.TargetIssueID
	if r.IssueID != issueID {
		typ, other = r.Type.Inverse(), r.IssueID
	}
	ref := other
	if o, ok := app.Tracker.Issue(other); ok {
		ref = o.Identifier
	}
	return typ.Label() + " " + ref
}
