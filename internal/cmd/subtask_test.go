package cmd

import (
	"errors"
	"strings"
	"testing"

	"issuetracker/internal/domain"
)

func TestSubtaskLifecycle(t *testing.T) {
	app := setupTestApp(t)
	p := seedProject(t, app)
	issue := mustIssue(t, app, p.ID, "Ship checkout")

	out := mustRun(t, app, newSubtaskCmd, "add", "SO-1", "Write migration")
	if !strings.Contains(out, "Added sub-task 1 to SO-1: Write migration") {
		t.Errorf("add output = %q", out)
	}
	out = mustRun(t, app, newSubtaskCmd, "add", "SO-1", "  Update docs  ")
	if !strings.Contains(out, "Added sub-task 2 to SO-1: Update docs") {
		t.Errorf("add output = %q", out)
	}

	out = mustRun(t, app, newSubtaskCmd, "toggle", "SO-1", "1")
	if !strings.Contains(out, `SO-1: "Write migration" is done`) {
		t.Errorf("toggle output = %q", out)
	}
	out = mustRun(t, app, newSubtaskCmd, "toggle", "SO-1", "1")
	if !strings.Contains(out, `"Write migration" is open`) {
		t.Errorf("second toggle output = %q", out)
	}

	items := app.Tracker.SubTasksForIssue(issue.ID)
	mustRun(t, app, newSubtaskCmd, "rename", "SO-1", items[1].ID, "Update API docs")
	mustRun(t, app, newSubtaskCmd, "remove", "SO-1", "1")

	stored := persisted(t, app)
	items = stored.SubTasksForIssue(issue.ID)
	if len(items) != 1 || items[0].Title != "Update API docs" || items[0].Completed {
		t.Errorf("sub-tasks = %+v", items)
	}

	var actions []domain.Action
	for _, a := range stored.ActivitiesForIssue(issue.ID) {
		actions = append(actions, a.Action)
	}
	want := []domain.Action{
		domain.ActionCreated,
		domain.ActionSubTaskAdded, domain.ActionSubTaskAdded,
		domain.ActionSubTaskToggled, domain.ActionSubTaskToggled,
		domain.ActionSubTaskRemoved,
	}
	if len(actions) != len(want) {
		t.Fatalf("actions = %v, want %v", actions, want)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Errorf("action[%d] = %s, want %s", i, actions[i], want[i])
		}
	}
}

func TestSubtaskErrors(t *testing.T) {
	app := setupTestApp(t)
	p := seedProject(t, app)
	mustIssue(t, app, p.ID, "Ship checkout")
	mustRun(t, app, newSubtaskCmd, "add", "SO-1", "Only one")

	tests := []struct {
		name string
		args []string
		is   error
	}{
		{"blank title", []string{"add", "SO-1", " "}, domain.ErrValidation},
		{"unknown issue", []string{"add", "SO-9", "x"}, domain.ErrNotFound},
		{"index out of range", []string{"toggle", "SO-1", "2"}, domain.ErrNotFound},
		{"zero index", []string{"remove", "SO-1", "0"}, domain.ErrNotFound},
		{"unknown id", []string{"rename", "SO-1", "nope", "x"}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCmd(t, app, newSubtaskCmd, tt.args...)
			if !errors.Is(err, tt.is) {
				t.Errorf("error = %v, want %v", err, tt.is)
			}
		})
	}
}
