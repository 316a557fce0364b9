package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"issuetracker/internal/domain"
)

func TestCycleCommands(t *testing.T) {
	app := setupTestApp(t)
	p := seedProject(t, app)
	issue := mustIssue(t, app, p.ID, "Fix bug")

	out := mustRun(t, app, newCycleCmd, "create", "Sprint 1", "--start", "2026-03-02", "--end", "2026-03-13")
	if !strings.Contains(out, "Created cycle: Sprint 1 [upcoming]") {
		t.Errorf("create output = %q", out)
	}
	mustRun(t, app, newUpdateCmd, "SO-1", "--cycle", "sprint 1")

	out = mustRun(t, app, newCycleCmd, "list")
	if !strings.Contains(out, "Sprint 1 [upcoming] 2026-03-02 → 2026-03-13 (1 issues)") {
		t.Errorf("list output = %q", out)
	}

	out = mustRun(t, app, newCycleCmd, "update", "Sprint 1", "--status", "active", "--name", "Sprint 1a", "--end", "none")
	if !strings.Contains(out, "Updated cycle: Sprint 1a [active]") {
		t.Errorf("update output = %q", out)
	}
	cycles := app.Tracker.CyclesForProject(p.ID)
	if len(cycles) != 1 || cycles[0].EndDate != "" {
		t.Errorf("cycles = %+v", cycles)
	}

	mustRun(t, app, newCycleCmd, "delete", "Sprint 1a", "--project", "SO")
	stored := persisted(t, app)
	if n := len(stored.CyclesForProject(p.ID)); n != 0 {
		t.Errorf("%d cycles left", n)
	}
	got, ok := stored.Issue(issue.ID)
	if !ok || got.CycleID != "" {
		t.Errorf("issue after cycle delete = %+v, %v", got, ok)
	}
}

func TestCycleErrors(t *testing.T) {
	app := setupTestApp(t)
	seedProject(t, app)
	mustRun(t, app, newCycleCmd, "create", "Sprint 1")

	tests := []struct {
		name string
		args []string
		is   error
	}{
		{"end before start", []string{"create", "Bad", "--start", "2026-03-13", "--end", "2026-03-02"}, domain.ErrValidation},
		{"bad status", []string{"create", "Bad", "--status", "paused"}, domain.ErrValidation},
		{"blank name", []string{"create", " "}, domain.ErrValidation},
		{"unknown cycle", []string{"delete", "Sprint 9"}, domain.ErrNotFound},
		{"unknown project", []string{"list", "--project", "XX"}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCmd(t, app, newCycleCmd, tt.args...)
			if !errors.Is(err, tt.is) {
				t.Errorf("error = %v, want %v", err, tt.is)
			}
		})
	}
	if _, err := runCmd(t, app, newCycleCmd, "update", "Sprint 1"); err == nil {
		t.Error("expected error for empty cycle update")
	}
}

func TestGoalProgress(t *testing.T) {
	app := setupTestApp(t)
	p := seedProject(t, app)
	mustIssue(t, app, p.ID, "A")
	mustIssue(t, app, p.ID, "B")
	mustIssue(t, app, p.ID, "C")
	mustRun(t, app, newUpdateCmd, "SO-1", "-s", "done")

	out := mustRun(t, app, newGoalCmd, "create", "Launch checkout", "--target", "2026-06-30", "--issues", "SO-1,SO-2")
	if !strings.Contains(out, "Created goal: Launch checkout [not_started] 50%") {
		t.Errorf("create output = %q", out)
	}

	out = mustRun(t, app, newGoalCmd, "link", "launch checkout", "SO-3", "SO-1")
	if !strings.Contains(out, "Launch checkout: 3 issues, 33% done") {
		t.Errorf("link output = %q", out)
	}

	out = mustRun(t, app, newGoalCmd, "unlink", "Launch checkout", "SO-1")
	if !strings.Contains(out, "Launch checkout: 2 issues, 0% done") {
		t.Errorf("unlink output = %q", out)
	}

	// Progress follows issue status even without a link change.
	mustRun(t, app, newUpdateCmd, "SO-2", "-s", "done")
	app.JSON = true
	out = mustRun(t, app, newGoalCmd, "list")
	var goals []domain.Goal
	if err := json.Unmarshal([]byte(out), &goals); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(goals) != 1 || goals[0].Progress != 50 || goals[0].TargetDate != "2026-06-30" {
		t.Errorf("goals = %+v", goals)
	}
	app.JSON = false

	out = mustRun(t, app, newGoalCmd, "update", "Launch checkout", "--status", "in-progress", "--title", "Launch")
	if !strings.Contains(out, "Updated goal: Launch [in_progress]") {
		t.Errorf("update output = %q", out)
	}

	mustRun(t, app, newGoalCmd, "delete", "Launch")
	if n := len(persisted(t, app).GoalsForProject(p.ID)); n != 0 {
		t.Errorf("%d goals left", n)
	}
}

func TestGoalErrors(t *testing.T) {
	app := setupTestApp(t)
	seedProject(t, app)
	mustRun(t, app, newGoalCmd, "create", "Launch")

	if _, err := runCmd(t, app, newGoalCmd, "create", "Other", "--issues", "SO-4"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown issue error = %v", err)
	}
	if _, err := runCmd(t, app, newGoalCmd, "create", "Other", "--status", "someday"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad status error = %v", err)
	}
	if _, err := runCmd(t, app, newGoalCmd, "link", "Nope", "SO-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown goal error = %v", err)
	}
	if _, err := runCmd(t, app, newGoalCmd, "update", "Launch"); err == nil {
		t.Error("expected error for empty goal update")
	}
}

func TestMilestoneCommands(t *testing.T) {
	app := setupTestApp(t)
	p := seedProject(t, app)
	mustIssue(t, app, p.ID, "A")
	b := mustIssue(t, app, p.ID, "B")

	out := mustRun(t, app, newMilestoneCmd, "create", "Beta", "--due", "2026-05-01", "--issues", "SO-1")
	if !strings.Contains(out, "Created milestone: Beta (1 issues)") {
		t.Errorf("create output = %q", out)
	}
	out = mustRun(t, app, newMilestoneCmd, "link", "beta", "SO-2", "SO-2")
	if !strings.Contains(out, "Beta: 2 issues") {
		t.Errorf("link output = %q", out)
	}

	out = mustRun(t, app, newMilestoneCmd, "complete", "Beta")
	if !strings.Contains(out, "Milestone Beta completed") {
		t.Errorf("complete output = %q", out)
	}
	out = mustRun(t, app, newMilestoneCmd, "list")
	if !strings.Contains(out, "[x] Beta (2026-05-01, 2 issues)") {
		t.Errorf("list output = %q", out)
	}

	out = mustRun(t, app, newMilestoneCmd, "complete", "Beta", "--undo")
	if !strings.Contains(out, "Milestone Beta reopened") {
		t.Errorf("undo output = %q", out)
	}

	mustRun(t, app, newMilestoneCmd, "unlink", "Beta", "SO-1")
	ms := persisted(t, app).MilestonesForProject(p.ID)
	if len(ms) != 1 || ms[0].Completed || len(ms[0].IssueIDs) != 1 || ms[0].IssueIDs[0] != b.ID {
		t.Errorf("milestones = %+v", ms)
	}

	// Deleting an issue drops it from the milestone.
	mustRun(t, app, newDeleteCmd, "SO-2")
	ms = app.Tracker.MilestonesForProject(p.ID)
	if len(ms[0].IssueIDs) != 0 {
		t.Errorf("milestone still links deleted issue: %v", ms[0].IssueIDs)
	}

	mustRun(t, app, newMilestoneCmd, "delete", "Beta")
	out = mustRun(t, app, newMilestoneCmd, "list")
	if !strings.Contains(out, "No milestones found.") {
		t.Errorf("list after delete = %q", out)
	}
}
