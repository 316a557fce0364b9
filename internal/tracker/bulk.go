package tracker

import (
	"slices"

	"issuetracker/internal/domain"
)

// --- Selection set ---

// ToggleIssueSelection adds the ID to the selection, or removes it if
// already selected.
func (s *Store) ToggleIssueSelection(id string) {
	_ = s.update("toggle selection", func(tx *txn) error {
		sel := tx.next.selection
		if slices.Contains(sel, id) {
			tx.setSelection(withoutIDs(sel, map[string]bool{id: true}))
		} else {
			tx.setSelection(append(slices.Clone(sel), id))
		}
		return nil
	})
}

// SelectAllIssues replaces the selection with ids.
func (s *Store) SelectAllIssues(ids []string) {
	_ = s.update("select all", func(tx *txn) error {
		tx.setSelection(dedupe(ids))
		return nil
	})
}

// ClearSelection empties the selection.
func (s *Store) ClearSelection() {
	_ = s.update("clear selection", func(tx *txn) error {
		if len(tx.next.selection) > 0 {
			tx.setSelection(nil)
		}
		return nil
	})
}

// Selection returns the selected IDs in selection order.
func (s *Store) Selection() []string {
	return slices.Clone(s.current().selection)
}

// IsSelected reports whether the issue is in the selection.
func (s *Store) IsSelected(id string) bool {
	return slices.Contains(s.current().selection, id)
}

// --- Bulk operations ---

// BulkUpdateIssues applies a tracked update to every selected issue, so
// each issue gets its own per-field activities, then clears the selection.
// IDs that no longer exist are skipped. Returns the number of issues updated.
func (s *Store) BulkUpdateIssues(patch domain.IssuePatch) int {
	var n int
	_ = s.update("bulk update", func(tx *txn) error {
		for _, id := range tx.next.selection {
			if tx.patchIssue(id, patch, true) {
				n++
			}
		}
		tx.setSelection(nil)
		return nil
	})
	s.log.Info("bulk update applied", "issues", n)
	return n
}

// BulkDeleteIssues deletes every selected issue with the usual cascades and
// clears the selection, all in one step. Returns the number deleted.
func (s *Store) BulkDeleteIssues() int {
	var n int
	_ = s.update("bulk delete", func(tx *txn) error {
		n = tx.deleteIssues(slices.Clone(tx.next.selection))
		tx.setSelection(nil)
		return nil
	})
	s.log.Info("bulk delete applied", "issues", n)
	return n
}
