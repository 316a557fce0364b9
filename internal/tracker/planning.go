package tracker

import (
	"slices"
	"strings"

	"issuetracker/internal/domain"
)

// --- Cycles ---

// CreateCycle stores a new cycle (default status upcoming) and returns its ID.
func (s *Store) CreateCycle(in domain.NewCycle) (string, error) {
	var v domain.Validator
	v.Require("name", in.Name)
	status := in.Status
	if status == "" {
		status = domain.CycleUpcoming
	} else if _, err := domain.ParseCycleStatus(string(status)); err != nil {
		v.Add("status", err.Error())
	}
	if err := v.Err(); err != nil {
		return "", domain.WrapOp("create", "cycle", "", err)
	}

	var id string
	err := s.update("create cycle", func(tx *txn) error {
		if !tx.next.projects.has(in.ProjectID) {
			return domain.WrapOp("create cycle in", "project", in.ProjectID, domain.ErrNotFound)
		}
		id = tx.newID()
		tx.cycles().put(id, domain.Cycle{
			ID:        id,
			ProjectID: in.ProjectID,
			Name:      strings.TrimSpace(in.Name),
			StartDate: in.StartDate,
			EndDate:   in.EndDate,
			Status:    status,
			CreatedAt: tx.now,
			UpdatedAt: tx.now,
		})
		return nil
	})
	return id, err
}

// Cycle returns the cycle with the given ID.
func (s *Store) Cycle(id string) (domain.Cycle, bool) {
	return s.current().cycles.get(id)
}

// CyclesForProject returns the project's cycles in creation order.
func (s *Store) CyclesForProject(projectID string) []domain.Cycle {
	return s.current().cycles.filter(func(c domain.Cycle) bool { return c.ProjectID == projectID })
}

// UpdateCycle merges patch into the cycle. Unknown IDs are ignored.
func (s *Store) UpdateCycle(id string, patch domain.CyclePatch) {
	_ = s.update("update cycle", func(tx *txn) error {
		c, ok := tx.next.cycles.get(id)
		if !ok {
			return nil
		}
		c = patch.Apply(c)
		c.UpdatedAt = tx.now
		tx.cycles().put(id, c)
		return nil
	})
}

// DeleteCycle removes the cycle and clears CycleID on every issue that
// referenced it. The issues themselves are kept. Unknown IDs are ignored.
func (s *Store) DeleteCycle(id string) {
	_ = s.update("delete cycle", func(tx *txn) error {
		if !tx.next.cycles.has(id) {
			return nil
		}
		for _, issue := range tx.next.issues.list() {
			if issue.CycleID != id {
				continue
			}
			issue = issue.Clone()
			issue.CycleID = ""
			issue.UpdatedAt = tx.now
			tx.issues().put(issue.ID, issue)
		}
		tx.cycles().remove(id)
		return nil
	})
}

// --- Goals ---

// CreateGoal stores a new goal (default status not_started, progress 0)
// and returns its ID.
func (s *Store) CreateGoal(in domain.NewGoal) (string, error) {
	var v domain.Validator
	v.Require("title", in.Title)
	status := in.Status
	if status == "" {
		status = domain.GoalNotStarted
	} else if _, err := domain.ParseGoalStatus(string(status)); err != nil {
		v.Add("status", err.Error())
	}
	if err := v.Err(); err != nil {
		return "", domain.WrapOp("create", "goal", "", err)
	}

	var id string
	err := s.update("create goal", func(tx *txn) error {
		if !tx.next.projects.has(in.ProjectID) {
			return domain.WrapOp("create goal in", "project", in.ProjectID, domain.ErrNotFound)
		}
		id = tx.newID()
		tx.goals().put(id, domain.Goal{
			ID:          id,
			ProjectID:   in.ProjectID,
			Title:       strings.TrimSpace(in.Title),
			Description: in.Description,
			TargetDate:  in.TargetDate,
			Status:      status,
			IssueIDs:    tx.existingIssues(in.IssueIDs),
			CreatedAt:   tx.now,
			UpdatedAt:   tx.now,
		})
		return nil
	})
	return id, err
}

// Goal returns a copy of the goal with the given ID.
func (s *Store) Goal(id string) (domain.Goal, bool) {
	g, ok := s.current().goals.get(id)
	return g.Clone(), ok
}

// GoalsForProject returns the project's goals in creation order.
func (s *Store) GoalsForProject(projectID string) []domain.Goal {
	return cloneAll(s.current().goals.filter(func(g domain.Goal) bool {
		return g.ProjectID == projectID
	}), domain.Goal.Clone)
}

// UpdateGoal merges patch into the goal. Unknown IDs are ignored.
func (s *Store) UpdateGoal(id string, patch domain.GoalPatch) {
	_ = s.update("update goal", func(tx *txn) error {
		g, ok := tx.next.goals.get(id)
		if !ok {
			return nil
		}
		g = patch.Apply(g)
		g.UpdatedAt = tx.now
		tx.goals().put(id, g)
		return nil
	})
}

// DeleteGoal removes the goal. Linked issues are untouched.
func (s *Store) DeleteGoal(id string) {
	_ = s.update("delete goal", func(tx *txn) error {
		if tx.next.goals.has(id) {
			tx.goals().remove(id)
		}
		return nil
	})
}

// LinkGoalIssue adds the issue to the goal; linking twice is a no-op.
func (s *Store) LinkGoalIssue(goalID, issueID string) {
	_ = s.update("link goal issue", func(tx *txn) error {
		g, ok := tx.next.goals.get(goalID)
		if !ok || !tx.next.issues.has(issueID) || slices.Contains(g.IssueIDs, issueID) {
			return nil
		}
		g.IssueIDs = append(slices.Clone(g.IssueIDs), issueID)
		g.UpdatedAt = tx.now
		tx.goals().put(goalID, g)
		return nil
	})
}

// UnlinkGoalIssue drops the issue from the goal if it is linked.
func (s *Store) UnlinkGoalIssue(goalID, issueID string) {
	_ = s.update("unlink goal issue", func(tx *txn) error {
		g, ok := tx.next.goals.get(goalID)
		if !ok || !slices.Contains(g.IssueIDs, issueID) {
			return nil
		}
		g.IssueIDs = withoutIDs(g.IssueIDs, map[string]bool{issueID: true})
		g.UpdatedAt = tx.now
		tx.goals().put(goalID, g)
		return nil
	})
}

// GoalProgress returns the percentage (0-100) of the goal's linked issues
// that are done. Goals without linked issues report 0. The result is not
// stored; callers persist it with UpdateGoal if they want to.
func (s *Store) GoalProgress(goalID string) int {
	st := s.current()
	g, ok := st.goals.get(goalID)
	if !ok {
		return 0
	}
	total, done := 0, 0
	for _, id := range g.IssueIDs {
		issue, ok := st.issues.get(id)
		if !ok {
			continue
		}
		total++
		if issue.Status == domain.StatusDone {
			done++
		}
	}
	if total == 0 {
		return 0
	}
	return done * 100 / total
}

// --- Milestones ---

// CreateMilestone stores a new, incomplete milestone and returns its ID.
func (s *Store) CreateMilestone(in domain.NewMilestone) (string, error) {
	if strings.TrimSpace(in.Title) == "" {
		return "", domain.WrapOp("create", "milestone", "", domain.NewValidationError("title", "is required"))
	}
	var id string
	err := s.update("create milestone", func(tx *txn) error {
		if !tx.next.projects.has(in.ProjectID) {
			return domain.WrapOp("create milestone in", "project", in.ProjectID, domain.ErrNotFound)
		}
		id = tx.newID()
		tx.milestones().put(id, domain.Milestone{
			ID:        id,
			ProjectID: in.ProjectID,
			Title:     strings.TrimSpace(in.Title),
			DueDate:   in.DueDate,
			IssueIDs:  tx.existingIssues(in.IssueIDs),
			CreatedAt: tx.now,
			UpdatedAt: tx.now,
		})
		return nil
	})
	return id, err
}

// Milestone returns a copy of the milestone with the given ID.
func (s *Store) Milestone(id string) (domain.Milestone, bool) {
	m, ok := s.current().milestones.get(id)
	return m.Clone(), ok
}

// MilestonesForProject returns the project's milestones in creation order.
func (s *Store) MilestonesForProject(projectID string) []domain.Milestone {
	return cloneAll(s.current().milestones.filter(func(m domain.Milestone) bool {
		return m.ProjectID == projectID
	}), domain.Milestone.Clone)
}

// UpdateMilestone merges patch into the milestone. Unknown IDs are ignored.
func (s *Store) UpdateMilestone(id string, patch domain.MilestonePatch) {
	_ = s.update("update milestone", func(tx *txn) error {
		m, ok := tx.next.milestones.get(id)
		if !ok {
			return nil
		}
		m = patch.Apply(m)
		m.UpdatedAt = tx.now
		tx.milestones().put(id, m)
		return nil
	})
}

// DeleteMilestone removes the milestone. Linked issues are untouched.
func (s *Store) DeleteMilestone(id string) {
	_ = s.update("delete milestone", func(tx *txn) error {
		if tx.next.milestones.has(id) {
			tx.milestones().remove(id)
		}
		return nil
	})
}

// LinkMilestoneIssue adds the issue to the milestone; linking twice is a no-op.
func (s *Store) LinkMilestoneIssue(milestoneID, issueID string) {
	_ = s.update("link milestone issue", func(tx *txn) error {
		m, ok := tx.next.milestones.get(milestoneID)
		if !ok || !tx.next.issues.has(issueID) || slices.Contains(m.IssueIDs, issueID) {
			return nil
		}
		m.IssueIDs = append(slices.Clone(m.IssueIDs), issueID)
		m.UpdatedAt = tx.now
		tx.milestones().put(milestoneID, m)
		return nil
	})
}

// UnlinkMilestoneIssue drops the issue from the milestone if it is linked.
func (s *Store) UnlinkMilestoneIssue(milestoneID, issueID string) {
	_ = s.update("unlink milestone issue", func(tx *txn) error {
		m, ok := tx.next.milestones.get(milestoneID)
		if !ok || !slices.Contains(m.IssueIDs, issueID) {
			return nil
		}
		m.IssueIDs = withoutIDs(m.IssueIDs, map[string]bool{issueID: true})
		m.UpdatedAt = tx.now
		tx.milestones().put(milestoneID, m)
		return nil
	})
}

// --- Members ---

// SetMembers replaces the member reference data.
func (s *Store) SetMembers(members []domain.Member) {
	_ = s.update("set members", func(tx *txn) error {
		t := tx.members()
		*t = newTable[domain.Member]()
		for _, m := range members {
			if m.ID != "" {
				t.put(m.ID, m)
			}
		}
		return nil
	})
}

// Members returns the reference members in the order they were set.
func (s *Store) Members() []domain.Member {
	return s.current().members.list()
}

// existingIssues keeps the IDs of issues that exist, deduplicated.
func (tx *txn) existingIssues(ids []string) []string {
	var out []string
	for _, id := range dedupe(ids) {
		if tx.next.issues.has(id) {
			out = append(out, id)
		}
	}
	return out
}
