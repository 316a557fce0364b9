package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issuetracker/internal/domain"
)

func TestUpdateIssueWithActivityRecordsChangedFields(t *testing.T) {
	s := newTestStore(t)
	p := mustProject(t, s, "Storefront", "SO", "bug")
	issue := mustIssue(t, s, p.ID, "Checkout")

	s.UpdateIssueWithActivity(issue.ID, domain.IssuePatch{
		Title:      domain.Ptr("not audited"),
		Status:     domain.Ptr(domain.StatusInProgress),
		Priority:   domain.Ptr(domain.PriorityHigh),
		AssigneeID: domain.Ptr("user-2"),
		LabelIDs:   []string{"bug"},
		DueDate:    domain.Ptr("2026-04-01"),
	})

	acts := s.ActivitiesForIssue(issue.ID)
	require.Len(t, acts, 6)
	assert.Equal(t, []domain.Action{
		domain.ActionCreated,
		domain.ActionStatusChanged,
		domain.ActionPriorityChanged,
		domain.ActionAssigneeChanged,
		domain.ActionLabelsChanged,
		domain.ActionDueDateChanged,
	}, actions(acts))

	tests := []struct {
		idx      int
		field    string
		old, new string
	}{
		{1, "status", "todo", "in_progress"},
		{2, "priority", "none", "high"},
		{3, "assignee", domain.Unassigned, "user-2"},
		{4, "labels", "", "bug"},
		{5, "due_date", domain.NoDate, "2026-04-01"},
	}
	for _, tt := range tests {
		a := acts[tt.idx]
		assert.Equal(t, tt.field, a.Field)
		assert.Equal(t, tt.old, a.OldValue, tt.field)
		assert.Equal(t, tt.new, a.NewValue, tt.field)
		require.NotNil(t, a.Change)
		assert.Equal(t, tt.field, a.Change.Field)
	}

	// All activities from one update share the transaction timestamp.
	for _, a := range acts[1:] {
		assert.Equal(t, acts[1].Timestamp, a.Timestamp)
	}
}

func TestUpdateIssueWithActivityIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	p := mustProject(t, s, "Storefront", "SO")
	issue := mustIssue(t, s, p.ID, "Checkout")

	patch := domain.IssuePatch{
		Status:     domain.Ptr(domain.StatusDone),
		AssigneeID: domain.Ptr("user-2"),
	}
	s.UpdateIssueWithActivity(issue.ID, patch)
	s.UpdateIssueWithActivity(issue.ID, patch)

	assert.Len(t, s.ActivitiesForIssue(issue.ID), 3)
}

func TestUnassignRecordsSentinel(t *testing.T) {
	s := newTestStore(t)
	p := mustProject(t, s, "Storefront", "SO")
	issue, err := s.CreateIssue(domain.NewIssue{ProjectID: p.ID, Title: "x", AssigneeID: "user-2"})
	require.NoError(t, err)

	s.UpdateIssueWithActivity(issue.ID, domain.IssuePatch{AssigneeID: domain.Ptr("")})

	acts := s.ActivitiesForIssue(issue.ID)
	require.Len(t, acts, 2)
	assert.Equal(t, "user-2", acts[1].OldValue)
	assert.Equal(t, domain.Unassigned, acts[1].NewValue)
}

func TestAddActivity(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddActivity(domain.Activity{Action: domain.ActionStatusChanged})
	require.ErrorIs(t, err, domain.ErrValidation)

	id, err := s.AddActivity(domain.Activity{IssueID: "issue-x", Action: domain.ActionStatusChanged, UserID: "bot"})
	require.NoError(t, err)

	all := s.Activities()
	require.Len(t, all, 1)
	assert.Equal(t, id, all[0].ID)
	assert.Equal(t, "bot", all[0].UserID)
	assert.False(t, all[0].Timestamp.IsZero())
}
