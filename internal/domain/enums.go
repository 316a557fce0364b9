package domain

import (
	"fmt"
	"strings"
)

// Status represents the workflow state of an issue.
type Status string

const (
	StatusBacklog    Status = "backlog"
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusInReview   Status = "in_review"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{
	StatusBacklog, StatusTodo, StatusInProgress, StatusInReview, StatusDone, StatusCancelled,
}

// Rank orders statuses along the workflow: backlog ranks highest, cancelled lowest.
// Unknown values rank below every known status.
func (s Status) Rank() int {
	for i, st := range Statuses {
		if st == s {
			return len(Statuses) - i
		}
	}
	return 0
}

// ParseStatus converts user input to a Status. Dashes and spaces are
// accepted in place of underscores ("in-progress", "in review").
func ParseStatus(s string) (Status, error) {
	norm := normalizeEnum(s)
	for _, st := range Statuses {
		if string(st) == norm {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q: %w", s, ErrValidation)
}

// Priority represents the urgency of an issue.
type Priority string

const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists every priority from most to least severe.
var Priorities = []Priority{
	PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow, PriorityNone,
}

// Rank orders priorities by severity: urgent ranks highest, none lowest.
func (p Priority) Rank() int {
	for i, pr := range Priorities {
		if pr == p {
			return len(Priorities) - i
		}
	}
	return 0
}

// ParsePriority converts user input to a Priority.
func ParsePriority(s string) (Priority, error) {
	norm := normalizeEnum(s)
	for _, p := range Priorities {
		if string(p) == norm {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q: %w", s, ErrValidation)
}

// CycleStatus is set by the caller; cycles never transition on their own.
type CycleStatus string

const (
	CycleUpcoming  CycleStatus = "upcoming"
	CycleActive    CycleStatus = "active"
	CycleCompleted CycleStatus = "completed"
)

func ParseCycleStatus(s string) (CycleStatus, error) {
	switch CycleStatus(normalizeEnum(s)) {
	case CycleUpcoming:
		return CycleUpcoming, nil
	case CycleActive:
		return CycleActive, nil
	case CycleCompleted:
		return CycleCompleted, nil
	}
	return "", fmt.Errorf("unknown cycle status %q: %w", s, ErrValidation)
}

type GoalStatus string

const (
	GoalNotStarted GoalStatus = "not_started"
	GoalInProgress GoalStatus = "in_progress"
	GoalCompleted  GoalStatus = "completed"
	GoalCancelled  GoalStatus = "cancelled"
)

func ParseGoalStatus(s string) (GoalStatus, error) {
	switch GoalStatus(normalizeEnum(s)) {
	case GoalNotStarted:
		return GoalNotStarted, nil
	case GoalInProgress:
		return GoalInProgress, nil
	case GoalCompleted:
		return GoalCompleted, nil
	case GoalCancelled:
		return GoalCancelled, nil
	}
	return "", fmt.Errorf("unknown goal status %q: %w", s, ErrValidation)
}

// RelationType is the kind of a directed edge between two issues.
type RelationType string

const (
	RelationBlocks     RelationType = "blocks"
	RelationBlockedBy  RelationType = "blocked_by"
	RelationRelated    RelationType = "related"
	RelationDuplicates RelationType = "duplicates"
)

// Inverse returns the type as seen from the target issue.
func (t RelationType) Inverse() RelationType {
	switch t {
	case RelationBlocks:
		return RelationBlockedBy
	case RelationBlockedBy:
		return RelationBlocks
	}
	return t
}

// Label returns a short human phrase ("blocks", "blocked by", ...).
func (t RelationType) Label() string {
	return strings.ReplaceAll(string(t), "_", " ")
}

func ParseRelationType(s string) (RelationType, error) {
	switch RelationType(normalizeEnum(s)) {
	case RelationBlocks:
		return RelationBlocks, nil
	case RelationBlockedBy:
		return RelationBlockedBy, nil
	case RelationRelated, "relates_to":
		return RelationRelated, nil
	case RelationDuplicates:
		return RelationDuplicates, nil
	}
	return "", fmt.Errorf("unknown relation type %q: %w", s, ErrValidation)
}

// Action identifies what an Activity records.
type Action string

const (
	ActionCreated         Action = "created"
	ActionStatusChanged   Action = "status_changed"
	ActionPriorityChanged Action = "priority_changed"
	ActionAssigneeChanged Action = "assignee_changed"
	ActionLabelsChanged   Action = "labels_changed"
	ActionDueDateChanged  Action = "due_date_changed"
	ActionSubTaskAdded    Action = "subtask_added"
	ActionSubTaskToggled  Action = "subtask_toggled"
	ActionSubTaskRemoved  Action = "subtask_removed"
	ActionRelationAdded   Action = "relation_added"
	ActionRelationRemoved Action = "relation_removed"
	ActionTimeLogged      Action = "time_logged"
	ActionEstimateChanged Action = "estimate_changed"
)

// GroupBy selects how query results are bucketed.
type GroupBy string

const (
	GroupNone     GroupBy = "none"
	GroupStatus   GroupBy = "status"
	GroupPriority GroupBy = "priority"
	GroupAssignee GroupBy = "assignee"
)

func ParseGroupBy(s string) (GroupBy, error) {
	switch GroupBy(normalizeEnum(s)) {
	case GroupNone, "":
		return GroupNone, nil
	case GroupStatus:
		return GroupStatus, nil
	case GroupPriority:
		return GroupPriority, nil
	case GroupAssignee:
		return GroupAssignee, nil
	}
	return "", fmt.Errorf("unknown grouping %q: %w", s, ErrValidation)
}

// SortField is the single key issues are ordered by.
type SortField string

const (
	SortCreated  SortField = "created"
	SortUpdated  SortField = "updated"
	SortPriority SortField = "priority"
	SortStatus   SortField = "status"
	SortTitle    SortField = "title"
)

func ParseSortField(s string) (SortField, error) {
	switch SortField(normalizeEnum(s)) {
	case SortCreated, "":
		return SortCreated, nil
	case SortUpdated:
		return SortUpdated, nil
	case SortPriority:
		return SortPriority, nil
	case SortStatus:
		return SortStatus, nil
	case SortTitle:
		return SortTitle, nil
	}
	return "", fmt.Errorf("unknown sort field %q: %w", s, ErrValidation)
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}
