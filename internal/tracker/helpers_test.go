package tracker

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"issuetracker/internal/domain"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// newTestStore returns a Store with sequential IDs ("id-1", "id-2", ...)
// and a clock that advances one second per transaction.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	var ids, ticks int
	return New(
		WithActor("user-1"),
		WithIDGenerator(func() string {
			ids++
			return fmt.Sprintf("id-%d", ids)
		}),
		WithClock(func() time.Time {
			ticks++
			return epoch.Add(time.Duration(ticks) * time.Second)
		}),
	)
}

func mustProject(t *testing.T, s *Store, name, prefix string, labels ...string) domain.Project {
	t.Helper()
	in := domain.NewProject{Name: name, Prefix: prefix}
	for _, l := range labels {
		in.Labels = append(in.Labels, domain.Label{ID: l, Name: l})
	}
	id, err := s.CreateProject(in)
	require.NoError(t, err)
	p, ok := s.Project(id)
	require.True(t, ok)
	return p
}

func mustIssue(t *testing.T, s *Store, projectID, title string) domain.Issue {
	t.Helper()
	issue, err := s.CreateIssue(domain.NewIssue{ProjectID: projectID, Title: title})
	require.NoError(t, err)
	return issue
}

func actions(acts []domain.Activity) []domain.Action {
	out := make([]domain.Action, len(acts))
	for i, a := range acts {
		out[i] = a.Action
	}
	return out
}

func issueIDs(issues []domain.Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.ID
	}
	return out
}
