package tracker

import (
	"slices"
	"strings"

	"issuetracker/internal/domain"
)

// AddActivity appends an activity with a fresh ID and timestamp and returns
// the ID. The only requirement is a non-empty IssueID; the user defaults
// to the store's actor.
func (s *Store) AddActivity(a domain.Activity) (string, error) {
	if strings.TrimSpace(a.IssueID) == "" {
		return "", domain.WrapOp("add", "activity", "", domain.NewValidationError("issue_id", "is required"))
	}
	var id string
	err := s.update("add activity", func(tx *txn) error {
		id = tx.appendActivity(a.IssueID, a.Clone()).ID
		return nil
	})
	return id, err
}

// Activities returns the whole log in append order, including entries for
// deleted issues.
func (s *Store) Activities() []domain.Activity {
	return cloneAll(s.current().activities.list(), domain.Activity.Clone)
}

// ActivitiesForIssue returns the issue's activities in append order.
// Entries left behind by a deleted issue are not returned.
func (s *Store) ActivitiesForIssue(issueID string) []domain.Activity {
	st := s.current()
	if !st.issues.has(issueID) {
		return nil
	}
	return cloneAll(st.activities.filter(func(a domain.Activity) bool {
		return a.IssueID == issueID
	}), domain.Activity.Clone)
}

// UpdateIssueWithActivity merges patch into the issue and appends one
// activity for each audited field (status, priority, assignee, labels, due
// date) whose value actually changed. Repeating an update with the same
// values records nothing. Unknown IDs are ignored.
func (s *Store) UpdateIssueWithActivity(id string, patch domain.IssuePatch) {
	_ = s.update("tracked update issue", func(tx *txn) error {
		tx.patchIssue(id, patch, true)
		return nil
	})
}

// diffIssue returns the activities describing audited changes from before
// to after. Values are compared exactly.
func diffIssue(before, after domain.Issue) []domain.Activity {
	var out []domain.Activity
	if before.Status != after.Status {
		out = append(out, domain.FieldChangeActivity(domain.ActionStatusChanged, "status",
			string(before.Status), string(after.Status)))
	}
	if before.Priority != after.Priority {
		out = append(out, domain.FieldChangeActivity(domain.ActionPriorityChanged, "priority",
			string(before.Priority), string(after.Priority)))
	}
	if old, cur := assigneeValue(before.AssigneeID), assigneeValue(after.AssigneeID); old != cur {
		out = append(out, domain.FieldChangeActivity(domain.ActionAssigneeChanged, "assignee", old, cur))
	}
	if !slices.Equal(before.LabelIDs, after.LabelIDs) {
		out = append(out, domain.FieldChangeActivity(domain.ActionLabelsChanged, "labels",
			strings.Join(before.LabelIDs, ","), strings.Join(after.LabelIDs, ",")))
	}
	if old, cur := dateValue(before.DueDate), dateValue(after.DueDate); old != cur {
		out = append(out, domain.FieldChangeActivity(domain.ActionDueDateChanged, "due_date", old, cur))
	}
	return out
}

func assigneeValue(id string) string {
	if id == "" {
		return domain.Unassigned
	}
	return id
}

func dateValue(d string) string {
	if d == "" {
		return domain.NoDate
	}
	return d
}
