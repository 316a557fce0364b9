// Package query filters, sorts and groups issues. Every function is pure:
// inputs are never modified and results share no slices with them, so
// callers may run queries against a store snapshot from any goroutine.
package query

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"issuetracker/internal/domain"
)

// AllGroup is the single bucket key used when grouping is off.
const AllGroup = "all"

// Group is one bucket of a grouped result.
type Group struct {
	Key    string         `json:"key"`
	Issues []domain.Issue `json:"issues"`
}

// Result is the output of Run.
type Result struct {
	Issues        []domain.Issue `json:"issues"`
	Groups        []Group        `json:"groups"`
	TotalCount    int            `json:"total_count"`
	FilteredCount int            `json:"filtered_count"`
}

// Group returns the bucket with the given key.
func (r Result) Group(key string) (Group, bool) {
	for _, g := range r.Groups {
		if g.Key == key {
			return g, true
		}
	}
	return Group{}, false
}

// Run filters, sorts and groups issues.
func Run(issues []domain.Issue, f domain.IssueFilters, s domain.IssueSort, g domain.GroupBy) Result {
	filtered := Filter(issues, f)
	Sort(filtered, s)
	return Result{
		Issues:        filtered,
		Groups:        GroupIssues(filtered, g),
		TotalCount:    len(issues),
		FilteredCount: len(filtered),
	}
}

// Filter returns the issues matching f, in input order.
func Filter(issues []domain.Issue, f domain.IssueFilters) []domain.Issue {
	out := make([]domain.Issue, 0, len(issues))
	search := strings.ToLower(strings.TrimSpace(f.Search))
	for _, issue := range issues {
		if matches(issue, f, search) {
			out = append(out, issue.Clone())
		}
	}
	return out
}

// Matches reports whether the issue satisfies every populated dimension of f.
func Matches(issue domain.Issue, f domain.IssueFilters) bool {
	return matches(issue, f, strings.ToLower(strings.TrimSpace(f.Search)))
}

func matches(issue domain.Issue, f domain.IssueFilters, search string) bool {
	if f.ProjectID != "" && issue.ProjectID != f.ProjectID {
		return false
	}
	if f.CycleID != "" && issue.CycleID != f.CycleID {
		return false
	}
	if len(f.Status) > 0 && !slices.Contains(f.Status, issue.Status) {
		return false
	}
	if len(f.Priority) > 0 && !slices.Contains(f.Priority, issue.Priority) {
		return false
	}
	// An unassigned issue never matches an assignee filter.
	if len(f.AssigneeIDs) > 0 && (issue.AssigneeID == "" || !slices.Contains(f.AssigneeIDs, issue.AssigneeID)) {
		return false
	}
	if len(f.LabelIDs) > 0 && !slices.ContainsFunc(f.LabelIDs, issue.HasLabel) {
		return false
	}
	if search != "" &&
		!strings.Contains(strings.ToLower(issue.Title), search) &&
		!strings.Contains(strings.ToLower(issue.Identifier), search) &&
		!strings.Contains(strings.ToLower(issue.Description), search) {
		return false
	}
	return true
}

// Sort orders issues in place by a single key. Equal keys keep their
// relative order.
func Sort(issues []domain.Issue, s domain.IssueSort) {
	compare := comparator(s.Field)
	if s.Direction == domain.SortDesc {
		asc := compare
		compare = func(a, b domain.Issue) int { return asc(b, a) }
	}
	slices.SortStableFunc(issues, compare)
}

func comparator(field domain.SortField) func(a, b domain.Issue) int {
	switch field {
	case domain.SortUpdated:
		return func(a, b domain.Issue) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	case domain.SortPriority:
		return func(a, b domain.Issue) int { return cmp.Compare(a.Priority.Rank(), b.Priority.Rank()) }
	case domain.SortStatus:
		return func(a, b domain.Issue) int { return cmp.Compare(a.Status.Rank(), b.Status.Rank()) }
	case domain.SortTitle:
		// Collators keep scratch buffers; one per sort keeps Sort goroutine-safe.
		c := collate.New(language.Und, collate.IgnoreCase)
		return func(a, b domain.Issue) int { return c.CompareString(a.Title, b.Title) }
	}
	return func(a, b domain.Issue) int { return a.CreatedAt.Compare(b.CreatedAt) }
}

// GroupIssues buckets issues by g. Buckets appear in the order their key
// is first seen; issues keep their input order inside a bucket.
func GroupIssues(issues []domain.Issue, g domain.GroupBy) []Group {
	key := groupKey(g)
	if key == nil {
		return []Group{{Key: AllGroup, Issues: slices.Clone(issues)}}
	}
	var groups []Group
	index := map[string]int{}
	for _, issue := range issues {
		k := key(issue)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Issues = append(groups[i].Issues, issue)
	}
	return groups
}

func groupKey(g domain.GroupBy) func(domain.Issue) string {
	switch g {
	case domain.GroupStatus:
		return func(i domain.Issue) string { return string(i.Status) }
	case domain.GroupPriority:
		return func(i domain.Issue) string { return string(i.Priority) }
	case domain.GroupAssignee:
		return func(i domain.Issue) string {
			if i.AssigneeID == "" {
				return domain.Unassigned
			}
			return i.AssigneeID
		}
	}
	return nil
}
