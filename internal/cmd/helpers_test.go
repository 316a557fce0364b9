package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"issuetracker/internal/domain"
	"issuetracker/internal/kvstorage/filesystem"
	"issuetracker/internal/snapshot"
	"issuetracker/internal/tracker"

	"github.com/spf13/cobra"
)

// setupTestApp returns an App backed by a filesystem snapshot store in a
// temp dir, with buffered output.
func setupTestApp(t *testing.T) *App {
	t.Helper()
	kv, err := filesystem.New(t.TempDir(), snapshot.Table)
	if err != nil {
		t.Fatalf("failed to create snapshot store: %v", err)
	}
	if err := kv.Init(context.Background()); err != nil {
		t.Fatalf("failed to init snapshot store: %v", err)
	}
	return &App{
		Tracker: tracker.New(tracker.WithActor("tester"), tracker.WithClock(tickingClock())),
		Repo:    snapshot.New(kv, nil),
		Out:     &bytes.Buffer{},
		Err:     &bytes.Buffer{},
	}
}

// tickingClock advances one second per call so creation order is
// reflected in timestamps.
func tickingClock() func() time.Time {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

// runCmd builds a fresh command with newCmd, executes it with args and
// returns what it wrote to app.Out.
func runCmd(t *testing.T, app *App, newCmd func(*AppProvider) *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := app.Out.(*bytes.Buffer)
	out.Reset()

	cmd := newCmd(NewTestProvider(app))
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// mustRun is runCmd that fails the test on error.
func mustRun(t *testing.T, app *App, newCmd func(*AppProvider) *cobra.Command, args ...string) string {
	t.Helper()
	out, err := runCmd(t, app, newCmd, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

// seedProject creates the Storefront project (prefix SO) with bug and
// feature labels.
func seedProject(t *testing.T, app *App) domain.Project {
	t.Helper()
	id, err := app.Tracker.CreateProject(domain.NewProject{
		Name:   "Storefront",
		Prefix: "SO",
		Labels: []domain.Label{{Name: "bug"}, {Name: "feature"}},
	})
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	p, _ := app.Tracker.Project(id)
	return p
}

func mustIssue(t *testing.T, app *App, projectID, title string) domain.Issue {
	t.Helper()
	issue, err := app.Tracker.CreateIssue(domain.NewIssue{ProjectID: projectID, Title: title})
	if err != nil {
		t.Fatalf("failed to create issue %q: %v", title, err)
	}
	return issue
}

// persisted reloads the tracker from the app's snapshot repository.
func persisted(t *testing.T, app *App) *tracker.Store {
	t.Helper()
	snap, err := app.Repo.Load(context.Background())
	if err != nil {
		t.Fatalf("failed to load snapshot: %v", err)
	}
	s, err := tracker.NewFromSnapshot(snap)
	if err != nil {
		t.Fatalf("failed to restore snapshot: %v", err)
	}
	return s
}

func labelID(t *testing.T, p domain.Project, name string) string {
	t.Helper()
	for _, l := range p.Labels {
		if l.Name == name {
			return l.ID
		}
	}
	t.Fatalf("project %s has no label %q", p.Prefix, name)
	return ""
}

func TestResolveProject(t *testing.T) {
	app := setupTestApp(t)

	if _, err := resolveProject(app, ""); err == nil {
		t.Error("expected error with no projects")
	}

	so := seedProject(t, app)
	for _, ref := range []string{"", "SO", "so", "Storefront", so.ID} {
		p, err := resolveProject(app, ref)
		if err != nil || p.ID != so.ID {
			t.Errorf("resolveProject(%q) = %v, %v; want %s", ref, p.ID, err, so.ID)
		}
	}

	if _, err := app.Tracker.CreateProject(domain.NewProject{Name: "Platform", Prefix: "PLT"}); err != nil {
		t.Fatal(err)
	}
	if _, err := resolveProject(app, ""); err == nil {
		t.Error("expected error when several projects exist and none is named")
	}
	if _, err := resolveProject(app, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("resolveProject(nope) error = %v, want ErrNotFound", err)
	}
}

func TestResolveLabels(t *testing.T) {
	app := setupTestApp(t)
	p := seedProject(t, app)

	ids, err := resolveLabels(p, []string{"BUG", labelID(t, p, "feature")})
	if err != nil {
		t.Fatalf("resolveLabels: %v", err)
	}
	if len(ids) != 2 || ids[0] != labelID(t, p, "bug") {
		t.Errorf("resolveLabels = %v", ids)
	}
	if _, err := resolveLabels(p, []string{"chore"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown label error = %v, want ErrNotFound", err)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2026-04-01", "2026-04-01", false},
		{"none", "", false},
		{"", "", false},
		{"04/01/2026", "", true},
	}
	for _, tt := range tests {
		got, err := parseDate(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseDate(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestResolveAssignee(t *testing.T) {
	app := setupTestApp(t)
	if got := resolveAssignee(app, "me"); got != "tester" {
		t.Errorf("resolveAssignee(me) = %q, want tester", got)
	}
	if got := resolveAssignee(app, "ada"); got != "ada" {
		t.Errorf("resolveAssignee(ada) = %q", got)
	}
}
