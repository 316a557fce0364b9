package tracker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issuetracker/internal/domain"
)

func TestSelection(t *testing.T) {
	s := newTestStore(t)

	s.ToggleIssueSelection("a")
	s.ToggleIssueSelection("b")
	assert.Equal(t, []string{"a", "b"}, s.Selection())
	assert.True(t, s.IsSelected("a"))

	s.ToggleIssueSelection("a")
	assert.Equal(t, []string{"b"}, s.Selection())
	assert.False(t, s.IsSelected("a"))

	s.SelectAllIssues([]string{"c", "d", "c"})
	assert.Equal(t, []string{"c", "d"}, s.Selection())

	s.ClearSelection()
	assert.Empty(t, s.Selection())
}

func TestBulkUpdateIssues(t *testing.T) {
	s := newTestStore(t)
	p := mustProject(t, s, "Storefront", "SO")
	a := mustIssue(t, s, p.ID, "A")
	b := mustIssue(t, s, p.ID, "B")
	c := mustIssue(t, s, p.ID, "C")

	s.SelectAllIssues([]string{a.ID, b.ID, "gone"})
	n := s.BulkUpdateIssues(domain.IssuePatch{Status: domain.Ptr(domain.StatusDone)})

	assert.Equal(t, 2, n)
	assert.Empty(t, s.Selection())
	for _, id := range []string{a.ID, b.ID} {
		got, _ := s.Issue(id)
		assert.Equal(t, domain.StatusDone, got.Status)
		acts := s.ActivitiesForIssue(id)
		require.Len(t, acts, 2)
		assert.Equal(t, domain.ActionStatusChanged, acts[1].Action)
	}
	untouched, _ := s.Issue(c.ID)
	assert.Equal(t, domain.StatusTodo, untouched.Status)
}

func TestBulkDeleteIssues(t *testing.T) {
	s := newTestStore(t)
	p := mustProject(t, s, "Storefront", "SO")
	a := mustIssue(t, s, p.ID, "A")
	b := mustIssue(t, s, p.ID, "B")
	c := mustIssue(t, s, p.ID, "C")
	_, err := s.AddRelation(domain.NewRelation{IssueID: c.ID, Type: domain.RelationBlocks, TargetIssueID: a.ID})
	require.NoError(t, err)
	_, err = s.AddRelation(domain.NewRelation{IssueID: b.ID, Type: domain.RelationRelated, TargetIssueID: c.ID})
	require.NoError(t, err)

	s.SelectAllIssues([]string{a.ID, b.ID})
	n := s.BulkDeleteIssues()

	assert.Equal(t, 2, n)
	assert.Empty(t, s.Selection())
	assert.Equal(t, []string{c.ID}, issueIDs(s.Issues()))

	assert.Empty(t, s.Snapshot().Relations)
	assert.Empty(t, s.RelationsForIssue(c.ID))

	assert.Zero(t, s.BulkDeleteIssues())
}

func TestConcurrentWriters(t *testing.T) {
	s := New()
	id, err := s.CreateProject(domain.NewProject{Name: "Storefront", Prefix: "SO"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 5 {
				_, err := s.CreateIssue(domain.NewIssue{ProjectID: id, Title: "parallel"})
				assert.NoError(t, err)
				_ = s.Issues()
			}
		}()
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, issue := range s.Issues() {
		assert.False(t, seen[issue.Identifier])
		seen[issue.Identifier] = true
	}
	assert.Len(t, seen, 100)
	p, _ := s.Project(id)
	assert.Equal(t, 101, p.NextIssueNumber)
}
