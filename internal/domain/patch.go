package domain

import "slices"

// NewProject holds the caller-supplied fields for creating a Project.
type NewProject struct {
	Name        string
	Description string
	Prefix      string
	Color       string
	MemberIDs   []string
	Labels      []Label
	CurrentView string
}

// NewIssue holds the caller-supplied fields for creating an Issue.
// Zero Status and Priority default to todo and none.
type NewIssue struct {
	ProjectID     string
	Title         string
	Description   string
	Status        Status
	Priority      Priority
	AssigneeID    string
	LabelIDs      []string
	Estimate      int
	DueDate       string
	ParentIssueID string
	CycleID       string
}

type NewCycle struct {
	ProjectID string
	Name      string
	StartDate string
	EndDate   string
	Status    CycleStatus
}

type NewGoal struct {
	ProjectID   string
	Title       string
	Description string
	TargetDate  string
	Status      GoalStatus
	IssueIDs    []string
}

type NewMilestone struct {
	ProjectID string
	Title     string
	DueDate   string
	IssueIDs  []string
}

type NewRelation struct {
	IssueID       string
	Type          RelationType
	TargetIssueID string
}

type NewSavedView struct {
	ProjectID string
	Name      string
	Filters   IssueFilters
}

// IssuePatch lists the issue fields that may change after creation.
// Nil pointers leave a field untouched. For the nullable references an
// empty string clears the value. LabelIDs replaces the label set whenever
// it is non-nil, so an empty non-nil slice removes every label.
type IssuePatch struct {
	Title         *string
	Description   *string
	Status        *Status
	Priority      *Priority
	AssigneeID    *string
	LabelIDs      []string
	Estimate      *int
	DueDate       *string
	ParentIssueID *string
	CycleID       *string
}

// IsEmpty reports whether the patch changes nothing.
func (p IssuePatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.AssigneeID == nil && p.LabelIDs == nil &&
		p.Estimate == nil && p.DueDate == nil && p.ParentIssueID == nil &&
		p.CycleID == nil
}

// Apply merges the patch into issue and returns the result.
// Timestamps are the caller's responsibility.
func (p IssuePatch) Apply(issue Issue) Issue {
	issue = issue.Clone()
	if p.Title != nil {
		issue.Title = *p.Title
	}
	if p.Description != nil {
		issue.Description = *p.Description
	}
	if p.Status != nil {
		issue.Status = *p.Status
	}
	if p.Priority != nil {
		issue.Priority = *p.Priority
	}
	if p.AssigneeID != nil {
		issue.AssigneeID = *p.AssigneeID
	}
	if p.LabelIDs != nil {
		issue.LabelIDs = slices.Clone(p.LabelIDs)
	}
	if p.Estimate != nil {
		issue.Estimate = *p.Estimate
	}
	if p.DueDate != nil {
		issue.DueDate = *p.DueDate
	}
	if p.ParentIssueID != nil {
		issue.ParentIssueID = *p.ParentIssueID
	}
	if p.CycleID != nil {
		issue.CycleID = *p.CycleID
	}
	return issue
}

type ProjectPatch struct {
	Name        *string
	Description *string
	Color       *string
	MemberIDs   []string
	CurrentView *string
}

func (p ProjectPatch) Apply(project Project) Project {
	if p.Name != nil {
		project.Name = *p.Name
	}
	if p.Description != nil {
		project.Description = *p.Description
	}
	if p.Color != nil {
		project.Color = *p.Color
	}
	if p.MemberIDs != nil {
		project.MemberIDs = slices.Clone(p.MemberIDs)
	}
	if p.CurrentView != nil {
		project.CurrentView = *p.CurrentView
	}
	return project
}

type CyclePatch struct {
	Name      *string
	StartDate *string
	EndDate   *string
	Status    *CycleStatus
}

func (p CyclePatch) Apply(c Cycle) Cycle {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.StartDate != nil {
		c.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		c.EndDate = *p.EndDate
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	return c
}

type GoalPatch struct {
	Title       *string
	Description *string
	TargetDate  *string
	Status      *GoalStatus
	Progress    *int
}

// Apply merges the patch; Progress is clamped to 0..100.
func (p GoalPatch) Apply(g Goal) Goal {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.TargetDate != nil {
		g.TargetDate = *p.TargetDate
	}
	if p.Status != nil {
		g.Status = *p.Status
	}
	if p.Progress != nil {
		g.Progress = min(max(*p.Progress, 0), 100)
	}
	return g
}

type MilestonePatch struct {
	Title     *string
	DueDate   *string
	Completed *bool
}

func (p MilestonePatch) Apply(m Milestone) Milestone {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.DueDate != nil {
		m.DueDate = *p.DueDate
	}
	if p.Completed != nil {
		m.Completed = *p.Completed
	}
	return m
}

// Ptr returns a pointer to v, for building patches inline.
func Ptr[T any](v T) *T {
	return &v
}
