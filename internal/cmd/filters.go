package cmd

import (
	"errors"
	"fmt"

	"issuetracker/internal/domain"

	"github.com/spf13/cobra"
)

// filterFlags are the issue filter dimensions shared by list and view save.
type filterFlags struct {
	statuses   []string
	priorities []string
	assignees  []string
	labels     []string
	search     string
	cycle      string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.statuses, "status", "s", nil, "Filter by status (comma-separated)")
	cmd.Flags().StringSliceVarP(&f.priorities, "priority", "p", nil, "Filter by priority (comma-separated)")
	cmd.Flags().StringSliceVarP(&f.assignees, "assignee", "a", nil, "Filter by assignee (comma-separated, \"me\" for yourself)")
	cmd.Flags().StringSliceVarP(&f.labels, "labels", "l", nil, "Filter by labels (comma-separated, any matches)")
	cmd.Flags().StringVarP(&f.search, "search", "q", "", "Case-insensitive text search")
	cmd.Flags().StringVar(&f.cycle, "cycle", "", "Filter by cycle name or ID")
}

// apply overwrites each dimension of base that has a flag set. project
// scopes label and cycle names; a nil project matches labels by name
// across every project.
func (f *filterFlags) apply(app *App, project *domain.Project, base domain.IssueFilters) (domain.IssueFilters, error) {
	out := base.Clone()
	var err error

	if len(f.statuses) > 0 {
		if out.Status, err = parseStatuses(f.statuses); err != nil {
			return out, err
		}
	}
	if len(f.priorities) > 0 {
		if out.Priority, err = parsePriorities(f.priorities); err != nil {
			return out, err
		}
	}
	if len(f.assignees) > 0 {
		out.AssigneeIDs = nil
		for _, a := range nonEmpty(f.assignees) {
			out.AssigneeIDs = append(out.AssigneeIDs, resolveAssignee(app, a))
		}
	}
	if len(f.labels) > 0 {
		if out.LabelIDs, err = labelFilter(app, project, nonEmpty(f.labels)); err != nil {
			return out, err
		}
	}
	if f.search != "" {
		out.Search = f.search
	}
	if f.cycle != "" {
		if project == nil {
			return out, errors.New("--cycle needs a project")
		}
		c, err := resolveCycle(app, *project, f.cycle)
		if err != nil {
			return out, err
		}
		out.CycleID = c.ID
	}
	return out, nil
}

// labelFilter resolves label names. Without a project every project's
// labels with a matching name are included.
func labelFilter(app *App, project *domain.Project, refs []string) ([]string, error) {
	if project != nil {
		return resolveLabels(*project, refs)
	}
	var ids []string
	for _, ref := range refs {
		found := false
		for _, p := range app.Tracker.Projects() {
			if id, err := resolveLabels(p, []string{ref}); err == nil {
				ids = append(ids, id...)
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("label %q: %w", ref, domain.ErrNotFound)
		}
	}
	return ids, nil
}
