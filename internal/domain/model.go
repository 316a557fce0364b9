// Package domain defines the records, enums and criteria shared by the
// tracker engine, the query engine and persistence collaborators.
package domain

import (
	"slices"
	"time"
)

// Unassigned is the sentinel used wherever a missing assignee must be
// rendered as a value (activity diffs, grouping keys).
const Unassigned = "unassigned"

// NoValue is the sentinel used when a missing date or estimate must be
// rendered as a value.
const NoValue = "none"

// NoDate is NoValue for date fields.
const NoDate = NoValue

// DateLayout is the format of calendar-date fields.
const DateLayout = "2006-01-02"

// Label is a project-scoped tag that issues reference by ID.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Member is reference data owned outside the engine.
type Member struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Project owns issues, cycles, goals, milestones and saved views.
// NextIssueNumber only ever increases; numbers are never reused.
type Project struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Prefix          string    `json:"prefix"`
	Color           string    `json:"color,omitempty"`
	MemberIDs       []string  `json:"member_ids,omitempty"`
	Labels          []Label   `json:"labels,omitempty"`
	NextIssueNumber int       `json:"next_issue_number"`
	CurrentView     string    `json:"current_view,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Label returns the project label with the given ID.
func (p Project) Label(id string) (Label, bool) {
	for _, l := range p.Labels {
		if l.ID == id {
			return l, true
		}
	}
	return Label{}, false
}

// Issue is a unit of work. Identifier is assigned at creation and never changes.
type Issue struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"project_id"`
	Identifier    string    `json:"identifier"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Status        Status    `json:"status"`
	Priority      Priority  `json:"priority"`
	AssigneeID    string    `json:"assignee_id,omitempty"`
	LabelIDs      []string  `json:"label_ids,omitempty"`
	Estimate      int       `json:"estimate,omitempty"`
	DueDate       string    `json:"due_date,omitempty"`
	ParentIssueID string    `json:"parent_issue_id,omitempty"`
	CycleID       string    `json:"cycle_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasLabel reports whether the issue carries the given label ID.
func (i Issue) HasLabel(id string) bool {
	return slices.Contains(i.LabelIDs, id)
}

// Clone returns a copy that shares no slices with i.
func (i Issue) Clone() Issue {
	i.LabelIDs = slices.Clone(i.LabelIDs)
	return i
}

type Cycle struct {
	ID        string      `json:"id"`
	ProjectID string      `json:"project_id"`
	Name      string      `json:"name"`
	StartDate string      `json:"start_date,omitempty"`
	EndDate   string      `json:"end_date,omitempty"`
	Status    CycleStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Goal tracks an outcome across issues. Progress (0-100) is caller-computed.
type Goal struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	TargetDate  string     `json:"target_date,omitempty"`
	Status      GoalStatus `json:"status"`
	Progress    int        `json:"progress"`
	IssueIDs    []string   `json:"issue_ids,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Milestone struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Title     string    `json:"title"`
	DueDate   string    `json:"due_date,omitempty"`
	Completed bool      `json:"completed"`
	IssueIDs  []string  `json:"issue_ids,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Relation is a directed, typed edge from IssueID to TargetIssueID.
type Relation struct {
	ID            string       `json:"id"`
	IssueID       string       `json:"issue_id"`
	Type          RelationType `json:"type"`
	TargetIssueID string       `json:"target_issue_id"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Involves reports whether issueID is either endpoint of the relation.
func (r Relation) Involves(issueID string) bool {
	return r.IssueID == issueID || r.TargetIssueID == issueID
}

// SubTask is a checklist item; ordering is insertion order.
type SubTask struct {
	ID        string    `json:"id"`
	IssueID   string    `json:"issue_id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// TimeTracking is the per-issue estimate and logged total.
// The zero value means "no estimate, nothing logged".
type TimeTracking struct {
	IssueID         string `json:"issue_id"`
	EstimateMinutes *int   `json:"estimate_minutes"`
	LoggedMinutes   int    `json:"logged_minutes"`
}

// Remaining returns estimate minus logged time, or false without an estimate.
func (t TimeTracking) Remaining() (int, bool) {
	if t.EstimateMinutes == nil {
		return 0, false
	}
	return *t.EstimateMinutes - t.LoggedMinutes, true
}

// SavedView is a named filter preset.
type SavedView struct {
	ID        string       `json:"id"`
	ProjectID string       `json:"project_id"`
	Name      string       `json:"name"`
	Filters   IssueFilters `json:"filters"`
	CreatedAt time.Time    `json:"created_at"`
}
