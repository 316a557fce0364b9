package tracker

import (
	"strings"

	"issuetracker/internal/domain"
)

// SaveView stores a named filter snapshot for a project and returns its ID.
// Names need not be unique.
func (s *Store) SaveView(in domain.NewSavedView) (string, error) {
	if strings.TrimSpace(in.Name) == "" {
		return "", domain.WrapOp("save", "view", "", domain.NewValidationError("name", "is required"))
	}
	var id string
	err := s.update("save view", func(tx *txn) error {
		if !tx.next.projects.has(in.ProjectID) {
			return domain.WrapOp("save view in", "project", in.ProjectID, domain.ErrNotFound)
		}
		id = tx.newID()
		tx.savedViews().put(id, domain.SavedView{
			ID:        id,
			ProjectID: in.ProjectID,
			Name:      strings.TrimSpace(in.Name),
			Filters:   in.Filters.Clone(),
			CreatedAt: tx.now,
		})
		return nil
	})
	return id, err
}

// DeleteSavedView removes the view. Unknown IDs are ignored.
func (s *Store) DeleteSavedView(id string) {
	_ = s.update("delete view", func(tx *txn) error {
		if tx.next.savedViews.has(id) {
			tx.savedViews().remove(id)
		}
		return nil
	})
}

// SavedView returns a copy of the view with the given ID.
func (s *Store) SavedView(id string) (domain.SavedView, bool) {
	v, ok := s.current().savedViews.get(id)
	return v.Clone(), ok
}

// SavedViewsForProject returns the project's views in storage order.
func (s *Store) SavedViewsForProject(projectID string) []domain.SavedView {
	return cloneAll(s.current().savedViews.filter(func(v domain.SavedView) bool {
		return v.ProjectID == projectID
	}), domain.SavedView.Clone)
}
