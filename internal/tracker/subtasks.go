package tracker

import (
	"strings"

	"issuetracker/internal/domain"
)

// AddSubTask appends an open checklist item to the issue.
func (s *Store) AddSubTask(issueID, title string) (domain.SubTask, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.SubTask{}, domain.WrapOp("add", "subtask", "", domain.NewValidationError("title", "is required"))
	}
	var st domain.SubTask
	err := s.update("add subtask", func(tx *txn) error {
		if !tx.next.issues.has(issueID) {
			return domain.WrapOp("add subtask to", "issue", issueID, domain.ErrNotFound)
		}
		st = domain.SubTask{
			ID:        tx.newID(),
			IssueID:   issueID,
			Title:     title,
			CreatedAt: tx.now,
		}
		tx.subtasks().put(st.ID, st)
		tx.appendActivity(issueID, domain.SubTaskActivity(domain.ActionSubTaskAdded, st))
		return nil
	})
	return st, err
}

// ToggleSubTask flips the item's completed flag. Unknown IDs are ignored.
func (s *Store) ToggleSubTask(id string) {
	_ = s.update("toggle subtask", func(tx *txn) error {
		st, ok := tx.next.subtasks.get(id)
		if !ok {
			return nil
		}
		st.Completed = !st.Completed
		tx.subtasks().put(id, st)
		tx.appendActivity(st.IssueID, domain.SubTaskActivity(domain.ActionSubTaskToggled, st))
		return nil
	})
}

// RenameSubTask changes the item's title without recording an activity.
func (s *Store) RenameSubTask(id, title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}
	_ = s.update("rename subtask", func(tx *txn) error {
		st, ok := tx.next.subtasks.get(id)
		if !ok {
			return nil
		}
		st.Title = title
		tx.subtasks().put(id, st)
		return nil
	})
}

// RemoveSubTask deletes the item. Unknown IDs are ignored.
func (s *Store) RemoveSubTask(id string) {
	_ = s.update("remove subtask", func(tx *txn) error {
		st, ok := tx.next.subtasks.get(id)
		if !ok {
			return nil
		}
		tx.subtasks().remove(id)
		tx.appendActivity(st.IssueID, domain.SubTaskActivity(domain.ActionSubTaskRemoved, st))
		return nil
	})
}

// SubTask returns the item with the given ID.
func (s *Store) SubTask(id string) (domain.SubTask, bool) {
	return s.current().subtasks.get(id)
}

// SubTasksForIssue returns the issue's items in insertion order.
func (s *Store) SubTasksForIssue(issueID string) []domain.SubTask {
	return s.current().subtasks.filter(func(st domain.SubTask) bool {
		return st.IssueID == issueID
	})
}
