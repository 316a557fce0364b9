package domain

import (
	"fmt"
	"strings"
)

// IssueFilters are AND-combined dimensions; an empty dimension matches
// everything. LabelIDs matches when any one label intersects.
type IssueFilters struct {
	Status      []Status   `json:"status,omitempty"`
	Priority    []Priority `json:"priority,omitempty"`
	AssigneeIDs []string   `json:"assignee_ids,omitempty"`
	LabelIDs    []string   `json:"label_ids,omitempty"`
	Search      string     `json:"search,omitempty"`
	ProjectID   string     `json:"project_id,omitempty"`
	CycleID     string     `json:"cycle_id,omitempty"`
}

// IsEmpty reports whether no dimension is populated.
func (f IssueFilters) IsEmpty() bool {
	return len(f.Status) == 0 && len(f.Priority) == 0 && len(f.AssigneeIDs) == 0 &&
		len(f.LabelIDs) == 0 && strings.TrimSpace(f.Search) == "" &&
		f.ProjectID == "" && f.CycleID == ""
}

// IssueSort orders issues by a single field.
type IssueSort struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

// DefaultSort is newest-first by creation time.
var DefaultSort = IssueSort{Field: SortCreated, Direction: SortDesc}

// ParseSort accepts "field" or "field:asc|desc".
func ParseSort(s string) (IssueSort, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultSort, nil
	}
	field, dir, hasDir := strings.Cut(s, ":")
	f, err := ParseSortField(field)
	if err != nil {
		return IssueSort{}, err
	}
	out := IssueSort{Field: f, Direction: SortAsc}
	if hasDir {
		switch SortDirection(strings.ToLower(strings.TrimSpace(dir))) {
		case SortAsc:
		case SortDesc:
			out.Direction = SortDesc
		default:
			return IssueSort{}, fmt.Errorf("unknown sort direction %q: %w", dir, ErrValidation)
		}
	}
	return out, nil
}
