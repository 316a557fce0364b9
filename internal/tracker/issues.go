package tracker

import (
	"slices"
	"strings"

	"issuetracker/internal/domain"
	"issuetracker/internal/idgen"
)

// CreateIssue stores a new issue in its project and returns it.
//
// The issue receives the identifier PREFIX-N from the project's counter;
// the counter increment, the project's UpdatedAt bump, the insert and the
// "created" activity commit together. Returns an error wrapping
// domain.ErrNotFound if the project does not exist.
func (s *Store) CreateIssue(in domain.NewIssue) (domain.Issue, error) {
	var v domain.Validator
	v.Require("title", in.Title)
	status, priority := in.Status, in.Priority
	if status == "" {
		status = domain.StatusTodo
	} else if status.Rank() == 0 {
		v.Add("status", "unknown status "+string(status))
	}
	if priority == "" {
		priority = domain.PriorityNone
	} else if priority.Rank() == 0 {
		v.Add("priority", "unknown priority "+string(priority))
	}
	if err := v.Err(); err != nil {
		return domain.Issue{}, domain.WrapOp("create", "issue", "", err)
	}

	var created domain.Issue
	err := s.update("create issue", func(tx *txn) error {
		project, ok := tx.next.projects.get(in.ProjectID)
		if !ok {
			return domain.WrapOp("create issue in", "project", in.ProjectID, domain.ErrNotFound)
		}

		var v domain.Validator
		labels := dedupe(in.LabelIDs)
		for _, id := range labels {
			if _, ok := project.Label(id); !ok {
				v.Add("label_ids", "unknown label "+id)
			}
		}
		if in.CycleID != "" {
			if c, ok := tx.next.cycles.get(in.CycleID); !ok || c.ProjectID != project.ID {
				v.Add("cycle_id", "unknown cycle "+in.CycleID)
			}
		}
		if err := v.Err(); err != nil {
			return domain.WrapOp("create", "issue", "", err)
		}

		created = domain.Issue{
			ID:            tx.newID(),
			ProjectID:     project.ID,
			Identifier:    idgen.IssueIdentifier(project.Prefix, project.NextIssueNumber),
			Title:         strings.TrimSpace(in.Title),
			Description:   in.Description,
			Status:        status,
			Priority:      priority,
			AssigneeID:    in.AssigneeID,
			LabelIDs:      labels,
			Estimate:      in.Estimate,
			DueDate:       in.DueDate,
			ParentIssueID: in.ParentIssueID,
			CycleID:       in.CycleID,
			CreatedAt:     tx.now,
			UpdatedAt:     tx.now,
		}
		project.NextIssueNumber++
		project.UpdatedAt = tx.now

		tx.projects().put(project.ID, project)
		tx.issues().put(created.ID, created)
		tx.appendActivity(created.ID, domain.Activity{Action: domain.ActionCreated})
		return nil
	})
	if err != nil {
		return domain.Issue{}, err
	}
	s.log.Info("issue created", "issue", created.Identifier, "project", created.ProjectID)
	return created.Clone(), nil
}

// Issue returns the issue with the given ID.
func (s *Store) Issue(id string) (domain.Issue, bool) {
	issue, ok := s.current().issues.get(id)
	return issue.Clone(), ok
}

// ResolveIssue finds an issue by opaque ID or by human identifier ("SO-1",
// case-insensitive prefix).
func (s *Store) ResolveIssue(ref string) (domain.Issue, bool) {
	st := s.current()
	if issue, ok := st.issues.get(ref); ok {
		return issue.Clone(), true
	}
	prefix, n, ok := idgen.ParseIssueIdentifier(ref)
	if !ok {
		return domain.Issue{}, false
	}
	want := idgen.IssueIdentifier(idgen.NormalizePrefix(prefix), n)
	for _, issue := range st.issues.list() {
		if issue.Identifier == want {
			return issue.Clone(), true
		}
	}
	return domain.Issue{}, false
}

// Issues returns every issue in creation order.
func (s *Store) Issues() []domain.Issue {
	return cloneAll(s.current().issues.list(), domain.Issue.Clone)
}

// IssuesForProject returns the project's issues in creation order.
func (s *Store) IssuesForProject(projectID string) []domain.Issue {
	return cloneAll(s.current().issues.filter(func(i domain.Issue) bool {
		return i.ProjectID == projectID
	}), domain.Issue.Clone)
}

// UpdateIssue merges patch into the issue and refreshes UpdatedAt without
// recording activities. Unknown IDs are ignored, as are patch fields that
// would store an unknown status or priority, a label outside the project
// or a cycle of another project.
func (s *Store) UpdateIssue(id string, patch domain.IssuePatch) {
	_ = s.update("update issue", func(tx *txn) error {
		tx.patchIssue(id, patch, false)
		return nil
	})
}

// DeleteIssue removes the issue along with its relations (either
// direction), sub-tasks and time entry, and unlinks it from goals,
// milestones and the selection. Activities are kept as history.
// Unknown IDs are ignored.
func (s *Store) DeleteIssue(id string) {
	_ = s.update("delete issue", func(tx *txn) error {
		tx.deleteIssues([]string{id})
		return nil
	})
}

// patchIssue applies patch to one issue and, when tracked, appends one
// activity per changed audited field. Reports whether the issue existed.
func (tx *txn) patchIssue(id string, patch domain.IssuePatch, tracked bool) bool {
	before, ok := tx.next.issues.get(id)
	if !ok {
		return false
	}
	if patch.LabelIDs != nil {
		patch.LabelIDs = tx.knownLabels(before.ProjectID, patch.LabelIDs)
	}
	patch = tx.dropInvalid(before, patch)
	if patch.IsEmpty() {
		return true
	}
	after := patch.Apply(before)
	after.UpdatedAt = tx.now
	tx.issues().put(id, after)

	if tracked {
		for _, a := range diffIssue(before, after) {
			tx.appendActivity(id, a)
		}
	}
	return true
}

// dropInvalid clears patch fields the issue could not legally hold.
func (tx *txn) dropInvalid(issue domain.Issue, patch domain.IssuePatch) domain.IssuePatch {
	log := tx.store.log
	if patch.Status != nil && patch.Status.Rank() == 0 {
		log.Debug("ignoring unknown status", "issue", issue.ID, "status", *patch.Status)
		patch.Status = nil
	}
	if patch.Priority != nil && patch.Priority.Rank() == 0 {
		log.Debug("ignoring unknown priority", "issue", issue.ID, "priority", *patch.Priority)
		patch.Priority = nil
	}
	if patch.CycleID != nil && *patch.CycleID != "" {
		if c, ok := tx.next.cycles.get(*patch.CycleID); !ok || c.ProjectID != issue.ProjectID {
			log.Debug("ignoring unknown cycle", "issue", issue.ID, "cycle", *patch.CycleID)
			patch.CycleID = nil
		}
	}
	return patch
}

// knownLabels keeps the label IDs defined on the project, deduplicated.
func (tx *txn) knownLabels(projectID string, ids []string) []string {
	project, ok := tx.next.projects.get(projectID)
	out := make([]string, 0, len(ids))
	for _, id := range dedupe(ids) {
		if ok {
			if _, known := project.Label(id); !known {
				continue
			}
		}
		out = append(out, id)
	}
	return out
}

// deleteIssues removes issues and everything that points at them.
func (tx *txn) deleteIssues(ids []string) int {
	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		if tx.next.issues.has(id) {
			doomed[id] = true
		}
	}
	if len(doomed) == 0 {
		return 0
	}

	issues := tx.issues()
	for id := range doomed {
		issues.remove(id)
	}
	tx.relations().removeWhere(func(r domain.Relation) bool {
		return doomed[r.IssueID] || doomed[r.TargetIssueID]
	})
	tx.subtasks().removeWhere(func(st domain.SubTask) bool { return doomed[st.IssueID] })
	tx.timeTracking().removeWhere(func(tt domain.TimeTracking) bool { return doomed[tt.IssueID] })

	for _, g := range tx.next.goals.list() {
		if kept := withoutIDs(g.IssueIDs, doomed); len(kept) != len(g.IssueIDs) {
			g.IssueIDs = kept
			g.UpdatedAt = tx.now
			tx.goals().put(g.ID, g)
		}
	}
	for _, m := range tx.next.milestones.list() {
		if kept := withoutIDs(m.IssueIDs, doomed); len(kept) != len(m.IssueIDs) {
			m.IssueIDs = kept
			m.UpdatedAt = tx.now
			tx.milestones().put(m.ID, m)
		}
	}
	if kept := withoutIDs(tx.next.selection, doomed); len(kept) != len(tx.next.selection) {
		tx.setSelection(kept)
	}
	return len(doomed)
}

func withoutIDs(ids []string, drop map[string]bool) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !drop[id] {
			out = append(out, id)
		}
	}
	return out
}

// dedupe returns ids without repeats, keeping first occurrences.
func dedupe(ids []string) []string {
	if ids == nil {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return slices.Clip(out)
}
