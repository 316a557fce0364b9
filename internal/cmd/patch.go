package cmd

import (
	"slices"
	"strings"

	"issuetracker/internal/domain"

	"github.com/spf13/cobra"
)

// patchFlags are the issue fields settable from update and bulk update.
type patchFlags struct {
	title        string
	description  string
	status       string
	priority     string
	assignee     string
	labels       []string
	addLabels    []string
	removeLabels []string
	estimate     int
	due          string
	parent       string
	cycle        string
}

// register adds the flags to cmd. single adds the flags that only make
// sense for one issue at a time.
func (f *patchFlags) register(cmd *cobra.Command, single bool) {
	if single {
		cmd.Flags().StringVar(&f.title, "title", "", "New title")
		cmd.Flags().StringVarP(&f.description, "description", "d", "", "New description")
		cmd.Flags().StringVar(&f.parent, "parent", "", "Parent issue identifier (\"none\" to clear)")
		cmd.Flags().StringSliceVar(&f.addLabels, "add-label", nil, "Add label (can repeat)")
		cmd.Flags().StringSliceVar(&f.removeLabels, "remove-label", nil, "Remove label (can repeat)")
	}
	cmd.Flags().StringVarP(&f.status, "status", "s", "", "New status")
	cmd.Flags().StringVarP(&f.priority, "priority", "p", "", "New priority")
	cmd.Flags().StringVarP(&f.assignee, "assignee", "a", "", "Assign to user (empty string to unassign, \"me\" for yourself)")
	cmd.Flags().StringSliceVarP(&f.labels, "labels", "l", nil, "Replace labels (comma-separated names)")
	cmd.Flags().IntVar(&f.estimate, "estimate", 0, "Estimate in points")
	cmd.Flags().StringVar(&f.due, "due", "", "Due date (YYYY-MM-DD, \"none\" to clear)")
	cmd.Flags().StringVar(&f.cycle, "cycle", "", "Cycle name or ID (\"none\" to clear)")
}

// build turns the changed flags into a patch. project scopes label and
// cycle names; current is the label set add/remove apply to.
func (f *patchFlags) build(cmd *cobra.Command, app *App, project domain.Project, current []string) (domain.IssuePatch, error) {
	var patch domain.IssuePatch
	changed := cmd.Flags().Changed

	if changed("title") {
		patch.Title = &f.title
	}
	if changed("description") {
		patch.Description = &f.description
	}
	if changed("status") {
		s, err := domain.ParseStatus(f.status)
		if err != nil {
			return patch, err
		}
		patch.Status = &s
	}
	if changed("priority") {
		p, err := domain.ParsePriority(f.priority)
		if err != nil {
			return patch, err
		}
		patch.Priority = &p
	}
	if changed("assignee") {
		patch.AssigneeID = domain.Ptr(resolveAssignee(app, f.assignee))
	}
	if changed("estimate") {
		patch.Estimate = &f.estimate
	}
	if changed("due") {
		d, err := parseDate(f.due)
		if err != nil {
			return patch, err
		}
		patch.DueDate = &d
	}
	if changed("parent") {
		parent := ""
		if !isNone(f.parent) {
			p, err := resolveIssue(app, f.parent)
			if err != nil {
				return patch, err
			}
			parent = p.ID
		}
		patch.ParentIssueID = &parent
	}
	if changed("cycle") {
		cycle := ""
		if !isNone(f.cycle) {
			c, err := resolveCycle(app, project, f.cycle)
			if err != nil {
				return patch, err
			}
			cycle = c.ID
		}
		patch.CycleID = &cycle
	}

	if changed("labels") || changed("add-label") || changed("remove-label") {
		labels := slices.Clone(current)
		if changed("labels") {
			ids, err := resolveLabels(project, nonEmpty(f.labels))
			if err != nil {
				return patch, err
			}
			labels = ids
		}
		add, err := resolveLabels(project, f.addLabels)
		if err != nil {
			return patch, err
		}
		for _, id := range add {
			if !slices.Contains(labels, id) {
				labels = append(labels, id)
			}
		}
		remove, err := resolveLabels(project, f.removeLabels)
		if err != nil {
			return patch, err
		}
		labels = slices.DeleteFunc(labels, func(id string) bool {
			return slices.Contains(remove, id)
		})
		if labels == nil {
			labels = []string{}
		}
		patch.LabelIDs = labels
	}

	return patch, nil
}

func isNone(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, domain.NoValue)
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
