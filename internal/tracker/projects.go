package tracker

import (
	"slices"
	"strings"

	"issuetracker/internal/domain"
	"issuetracker/internal/idgen"
)

// CreateProject validates and stores a new project and returns its ID.
// The prefix is normalized to upper case; the issue counter starts at 1.
func (s *Store) CreateProject(in domain.NewProject) (string, error) {
	prefix := idgen.NormalizePrefix(in.Prefix)

	var v domain.Validator
	v.Require("name", in.Name)
	if err := idgen.ValidatePrefix(prefix); err != nil {
		v.Add("prefix", err.Error())
	}
	if err := v.Err(); err != nil {
		return "", domain.WrapOp("create", "project", "", err)
	}

	var id string
	err := s.update("create project", func(tx *txn) error {
		id = tx.newID()
		labels := slices.Clone(in.Labels)
		for i := range labels {
			if labels[i].ID == "" {
				labels[i].ID = tx.newID()
			}
		}
		tx.projects().put(id, domain.Project{
			ID:              id,
			Name:            strings.TrimSpace(in.Name),
			Description:     in.Description,
			Prefix:          prefix,
			Color:           in.Color,
			MemberIDs:       slices.Clone(in.MemberIDs),
			Labels:          labels,
			NextIssueNumber: 1,
			CurrentView:     in.CurrentView,
			CreatedAt:       tx.now,
			UpdatedAt:       tx.now,
		})
		return nil
	})
	return id, err
}

// Project returns the project with the given ID.
func (s *Store) Project(id string) (domain.Project, bool) {
	p, ok := s.current().projects.get(id)
	return p.Clone(), ok
}

// ProjectByPrefix finds a project by its (case-insensitive) prefix.
func (s *Store) ProjectByPrefix(prefix string) (domain.Project, bool) {
	prefix = idgen.NormalizePrefix(prefix)
	for _, p := range s.current().projects.list() {
		if p.Prefix == prefix {
			return p.Clone(), true
		}
	}
	return domain.Project{}, false
}

// Projects returns all projects in creation order.
func (s *Store) Projects() []domain.Project {
	return cloneAll(s.current().projects.list(), domain.Project.Clone)
}

// UpdateProject merges patch into the project. Unknown IDs are ignored.
func (s *Store) UpdateProject(id string, patch domain.ProjectPatch) {
	_ = s.update("update project", func(tx *txn) error {
		p, ok := tx.next.projects.get(id)
		if !ok {
			return nil
		}
		p = patch.Apply(p)
		p.UpdatedAt = tx.now
		tx.projects().put(id, p)
		return nil
	})
}

// DeleteProject removes the project together with its issues (and their
// relations, sub-tasks and time entries), cycles, goals, milestones and
// saved views. Unknown IDs are ignored.
func (s *Store) DeleteProject(id string) {
	_ = s.update("delete project", func(tx *txn) error {
		if !tx.next.projects.has(id) {
			return nil
		}
		var issueIDs []string
		for _, issue := range tx.next.issues.list() {
			if issue.ProjectID == id {
				issueIDs = append(issueIDs, issue.ID)
			}
		}
		tx.deleteIssues(issueIDs)

		inProject := func(projectID string) bool { return projectID == id }
		tx.cycles().removeWhere(func(c domain.Cycle) bool { return inProject(c.ProjectID) })
		tx.goals().removeWhere(func(g domain.Goal) bool { return inProject(g.ProjectID) })
		tx.milestones().removeWhere(func(m domain.Milestone) bool { return inProject(m.ProjectID) })
		tx.savedViews().removeWhere(func(v domain.SavedView) bool { return inProject(v.ProjectID) })
		tx.projects().remove(id)
		return nil
	})
}

// AddProjectLabel appends a label to the project and returns the label ID.
func (s *Store) AddProjectLabel(projectID, name, color string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", domain.WrapOp("add label to", "project", projectID, domain.NewValidationError("name", "is required"))
	}
	var labelID string
	err := s.update("add project label", func(tx *txn) error {
		p, ok := tx.next.projects.get(projectID)
		if !ok {
			return domain.WrapOp("add label to", "project", projectID, domain.ErrNotFound)
		}
		labelID = tx.newID()
		p.Labels = append(slices.Clone(p.Labels), domain.Label{ID: labelID, Name: strings.TrimSpace(name), Color: color})
		p.UpdatedAt = tx.now
		tx.projects().put(projectID, p)
		return nil
	})
	return labelID, err
}

// RemoveProjectLabel deletes the label and strips it from every issue of
// the project. Unknown projects or labels are ignored.
func (s *Store) RemoveProjectLabel(projectID, labelID string) {
	_ = s.update("remove project label", func(tx *txn) error {
		p, ok := tx.next.projects.get(projectID)
		if !ok {
			return nil
		}
		if _, ok := p.Label(labelID); !ok {
			return nil
		}
		p.Labels = slices.DeleteFunc(slices.Clone(p.Labels), func(l domain.Label) bool { return l.ID == labelID })
		p.UpdatedAt = tx.now
		tx.projects().put(projectID, p)

		for _, issue := range tx.next.issues.list() {
			if issue.ProjectID != projectID || !issue.HasLabel(labelID) {
				continue
			}
			issue = issue.Clone()
			issue.LabelIDs = slices.DeleteFunc(issue.LabelIDs, func(id string) bool { return id == labelID })
			issue.UpdatedAt = tx.now
			tx.issues().put(issue.ID, issue)
		}
		return nil
	})
}
