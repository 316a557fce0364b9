package domain

import (
	"strconv"
	"strings"
	"time"
)

// Activity is an append-only audit record for one issue.
//
// Exactly one of the detail pointers is set and it matches Action:
// Change for field diffs (status, priority, assignee, labels, due date,
// estimate), SubTask, Relation or Time for the ledger actions. Created
// carries no detail. Field, OldValue and NewValue hold the display strings
// derived from the detail.
type Activity struct {
	ID        string    `json:"id"`
	IssueID   string    `json:"issue_id"`
	UserID    string    `json:"user_id,omitempty"`
	Action    Action    `json:"action"`
	Field     string    `json:"field,omitempty"`
	OldValue  string    `json:"old_value,omitempty"`
	NewValue  string    `json:"new_value,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	Change   *FieldChange    `json:"change,omitempty"`
	SubTask  *SubTaskDetail  `json:"subtask,omitempty"`
	Relation *RelationDetail `json:"relation,omitempty"`
	Time     *TimeDetail     `json:"time,omitempty"`
}

type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

type SubTaskDetail struct {
	SubTaskID string `json:"subtask_id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type RelationDetail struct {
	RelationID    string       `json:"relation_id"`
	Type          RelationType `json:"type"`
	TargetIssueID string       `json:"target_issue_id"`
	// Description is the human phrase recorded at the time, e.g. "blocks SO-2".
	Description string `json:"description"`
}

type TimeDetail struct {
	Minutes int `json:"minutes"`
}

// FieldChangeActivity builds an Activity for a field diff.
func FieldChangeActivity(action Action, field, oldValue, newValue string) Activity {
	return Activity{
		Action:   action,
		Field:    field,
		OldValue: oldValue,
		NewValue: newValue,
		Change:   &FieldChange{Field: field, Old: oldValue, New: newValue},
	}
}

// SubTaskActivity builds an Activity for a sub-task ledger action.
// Toggles record the title in Field and the new state in NewValue;
// additions record the title in NewValue and removals in OldValue.
func SubTaskActivity(action Action, st SubTask) Activity {
	a := Activity{
		Action:  action,
		SubTask: &SubTaskDetail{SubTaskID: st.ID, Title: st.Title, Completed: st.Completed},
	}
	switch action {
	case ActionSubTaskToggled:
		a.Field = st.Title
		a.NewValue = strconv.FormatBool(st.Completed)
	case ActionSubTaskRemoved:
		a.Field = "subtask"
		a.OldValue = st.Title
	default:
		a.Field = "subtask"
		a.NewValue = st.Title
	}
	return a
}

// RelationActivity builds an Activity for a relation added or removed.
func RelationActivity(action Action, r Relation, description string) Activity {
	a := Activity{
		Action: action,
		Field:  "relation",
		Relation: &RelationDetail{
			RelationID:    r.ID,
			Type:          r.Type,
			TargetIssueID: r.TargetIssueID,
			Description:   description,
		},
	}
	if action == ActionRelationRemoved {
		a.OldValue = description
	} else {
		a.NewValue = description
	}
	return a
}

// TimeLoggedActivity builds an Activity for minutes added to the ledger.
func TimeLoggedActivity(minutes int) Activity {
	return Activity{
		Action:   ActionTimeLogged,
		Field:    "time",
		NewValue: strconv.Itoa(minutes),
		Time:     &TimeDetail{Minutes: minutes},
	}
}

// Summary renders a one-line description for list output.
func (a Activity) Summary() string {
	switch a.Action {
	case ActionCreated:
		return "created the issue"
	case ActionSubTaskAdded:
		return "added sub-task " + strconv.Quote(a.NewValue)
	case ActionSubTaskRemoved:
		return "removed sub-task " + strconv.Quote(a.OldValue)
	case ActionSubTaskToggled:
		if a.NewValue == "true" {
			return "completed sub-task " + strconv.Quote(a.Field)
		}
		return "reopened sub-task " + strconv.Quote(a.Field)
	case ActionRelationAdded:
		return "added relation: " + a.NewValue
	case ActionRelationRemoved:
		return "removed relation: " + a.OldValue
	case ActionTimeLogged:
		m, _ := strconv.Atoi(a.NewValue)
		return "logged " + FormatMinutes(m)
	}
	field := strings.ReplaceAll(a.Field, "_", " ")
	return "changed " + field + " from " + a.OldValue + " to " + a.NewValue
}
