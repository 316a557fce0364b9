package domain

import "slices"

// The engine never mutates a slice it has handed out or received; these
// copies keep callers from aliasing stored records.

func (p Project) Clone() Project {
	p.MemberIDs = slices.Clone(p.MemberIDs)
	p.Labels = slices.Clone(p.Labels)
	return p
}

func (g Goal) Clone() Goal {
	g.IssueIDs = slices.Clone(g.IssueIDs)
	return g
}

func (m Milestone) Clone() Milestone {
	m.IssueIDs = slices.Clone(m.IssueIDs)
	return m
}

func (f IssueFilters) Clone() IssueFilters {
	f.Status = slices.Clone(f.Status)
	f.Priority = slices.Clone(f.Priority)
	f.AssigneeIDs = slices.Clone(f.AssigneeIDs)
	f.LabelIDs = slices.Clone(f.LabelIDs)
	return f
}

func (v SavedView) Clone() SavedView {
	v.Filters = v.Filters.Clone()
	return v
}

func (t TimeTracking) Clone() TimeTracking {
	if t.EstimateMinutes != nil {
		est := *t.EstimateMinutes
		t.EstimateMinutes = &est
	}
	return t
}

func (a Activity) Clone() Activity {
	if a.Change != nil {
		c := *a.Change
		a.Change = &c
	}
	if a.SubTask != nil {
		st := *a.SubTask
		a.SubTask = &st
	}
	if a.Relation != nil {
		r := *a.Relation
		a.Relation = &r
	}
	if a.Time != nil {
		td := *a.Time
		a.Time = &td
	}
	return a
}
