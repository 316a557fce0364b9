package tracker

import (
	"fmt"

	"issuetracker/internal/domain"
)

// Snapshot returns a deep copy of the committed state. The selection is
// process-local and not included.
func (s *Store) Snapshot() domain.Snapshot {
	st := s.current()
	return domain.Snapshot{
		Version:      domain.SnapshotVersion,
		Projects:     cloneAll(st.projects.list(), domain.Project.Clone),
		Issues:       cloneAll(st.issues.list(), domain.Issue.Clone),
		Cycles:       st.cycles.list(),
		Members:      st.members.list(),
		Goals:        cloneAll(st.goals.list(), domain.Goal.Clone),
		Milestones:   cloneAll(st.milestones.list(), domain.Milestone.Clone),
		Activities:   cloneAll(st.activities.list(), domain.Activity.Clone),
		Relations:    st.relations.list(),
		SubTasks:     st.subtasks.list(),
		TimeTracking: cloneAll(st.timeTracking.list(), domain.TimeTracking.Clone),
		SavedViews:   cloneAll(st.savedViews.list(), domain.SavedView.Clone),
	}
}

// Restore replaces the whole state with snap and clears the selection.
// Snapshots from a newer format version are rejected.
func (s *Store) Restore(snap domain.Snapshot) error {
	if snap.Version > domain.SnapshotVersion {
		return fmt.Errorf("snapshot version %d is newer than supported %d: %w",
			snap.Version, domain.SnapshotVersion, domain.ErrValidation)
	}
	next, err := stateFromSnapshot(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.st = next
	s.mu.Unlock()
	s.log.Debug("state restored",
		"projects", next.projects.len(),
		"issues", next.issues.len(),
		"activities", next.activities.len())
	return nil
}

// NewFromSnapshot creates a Store holding snap.
func NewFromSnapshot(snap domain.Snapshot, opts ...Option) (*Store, error) {
	s := New(opts...)
	if err := s.Restore(snap); err != nil {
		return nil, err
	}
	return s, nil
}

func stateFromSnapshot(snap domain.Snapshot) (*state, error) {
	st := emptyState()
	if err := load(&st.projects, "project", snap.Projects, func(p domain.Project) string { return p.ID }, domain.Project.Clone); err != nil {
		return nil, err
	}
	if err := load(&st.issues, "issue", snap.Issues, func(i domain.Issue) string { return i.ID }, domain.Issue.Clone); err != nil {
		return nil, err
	}
	if err := load(&st.cycles, "cycle", snap.Cycles, func(c domain.Cycle) string { return c.ID }, nil); err != nil {
		return nil, err
	}
	if err := load(&st.members, "member", snap.Members, func(m domain.Member) string { return m.ID }, nil); err != nil {
		return nil, err
	}
	if err := load(&st.goals, "goal", snap.Goals, func(g domain.Goal) string { return g.ID }, domain.Goal.Clone); err != nil {
		return nil, err
	}
	if err := load(&st.milestones, "milestone", snap.Milestones, func(m domain.Milestone) string { return m.ID }, domain.Milestone.Clone); err != nil {
		return nil, err
	}
	if err := load(&st.activities, "activity", snap.Activities, func(a domain.Activity) string { return a.ID }, domain.Activity.Clone); err != nil {
		return nil, err
	}
	if err := load(&st.relations, "relation", snap.Relations, func(r domain.Relation) string { return r.ID }, nil); err != nil {
		return nil, err
	}
	if err := load(&st.subtasks, "subtask", snap.SubTasks, func(t domain.SubTask) string { return t.ID }, nil); err != nil {
		return nil, err
	}
	if err := load(&st.timeTracking, "time tracking", snap.TimeTracking, func(t domain.TimeTracking) string { return t.IssueID }, domain.TimeTracking.Clone); err != nil {
		return nil, err
	}
	if err := load(&st.savedViews, "saved view", snap.SavedViews, func(v domain.SavedView) string { return v.ID }, domain.SavedView.Clone); err != nil {
		return nil, err
	}
	return st, nil
}

// load fills t from rows, rejecting empty keys. A repeated key keeps the
// last row at the position of the first.
func load[T any](t *table[T], entity string, rows []T, key func(T) string, clone func(T) T) error {
	for i, row := range rows {
		id := key(row)
		if id == "" {
			return fmt.Errorf("snapshot %s #%d has no id: %w", entity, i, domain.ErrValidation)
		}
		if clone != nil {
			row = clone(row)
		}
		t.put(id, row)
	}
	return nil
}
