package snapshot

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issuetracker/internal/domain"
	"issuetracker/internal/kvstorage"
	"issuetracker/internal/kvstorage/filesystem"
	"issuetracker/internal/kvstorage/sqlite"
	"issuetracker/internal/tracker"
)

func backends(t *testing.T) map[string]kvstorage.KVStore {
	t.Helper()
	ctx := context.Background()

	fs, err := filesystem.New(t.TempDir(), Table)
	require.NoError(t, err)
	require.NoError(t, fs.Init(ctx))

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), sqlite.FileName), Table)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]kvstorage.KVStore{"filesystem": fs, "sqlite": db}
}

func populated(t *testing.T) *tracker.Store {
	t.Helper()
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := tracker.New(tracker.WithActor("ada"), tracker.WithClock(func() time.Time { return clock }))

	projectID, err := s.CreateProject(domain.NewProject{Name: "Storefront", Prefix: "SO",
		Labels: []domain.Label{{ID: "bug", Name: "Bug"}}})
	require.NoError(t, err)
	a, err := s.CreateIssue(domain.NewIssue{ProjectID: projectID, Title: "A", LabelIDs: []string{"bug"}})
	require.NoError(t, err)
	b, err := s.CreateIssue(domain.NewIssue{ProjectID: projectID, Title: "B"})
	require.NoError(t, err)
	_, err = s.AddRelation(domain.NewRelation{IssueID: a.ID, Type: domain.RelationBlocks, TargetIssueID: b.ID})
	require.NoError(t, err)
	_, err = s.AddSubTask(a.ID, "step one")
	require.NoError(t, err)
	s.SetTimeEstimate(a.ID, 90)
	s.LogTime(a.ID, 30)
	_, err = s.SaveView(domain.NewSavedView{ProjectID: projectID, Name: "Bugs",
		Filters: domain.IssueFilters{LabelIDs: []string{"bug"}}})
	require.NoError(t, err)
	return s
}

func TestRoundTrip(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := New(kv, nil)

			want := populated(t).Snapshot()
			require.NoError(t, repo.Save(ctx, want))

			got, err := repo.Load(ctx)
			require.NoError(t, err)

			restored, err := tracker.NewFromSnapshot(got)
			require.NoError(t, err)
			assert.Equal(t, want, restored.Snapshot())
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			snap, err := New(kv, nil).Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, domain.SnapshotVersion, snap.Version)
			assert.Empty(t, snap.Issues)
		})
	}
}

func TestLoadCorrupt(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, kv.Set(ctx, Key, []byte("{not json"), kvstorage.SetOptions{}))
			_, err := New(kv, nil).Load(ctx)
			assert.ErrorContains(t, err, "decoding snapshot")
		})
	}
}
