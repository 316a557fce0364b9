package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"issuetracker/internal/domain"
)

func TestBulkUpdate(t *testing.T) {
	app := setupTestApp(t)
	p := seedIssues(t, app)

	out := mustRun(t, app, newBulkCmd, "update", "SO-1", "SO-2", "so-1", "-s", "done", "-a", "me")
	if !strings.Contains(out, "Updated 2 of 2 issues") {
		t.Errorf("output = %q", out)
	}

	stored := persisted(t, app)
	for _, ref := range []string{"SO-1", "SO-2"} {
		issue, _ := stored.ResolveIssue(ref)
		if issue.Status != domain.StatusDone || issue.AssigneeID != "tester" {
			t.Errorf("%s = %s/%s", ref, issue.Status, issue.AssigneeID)
		}
		acts := stored.ActivitiesForIssue(issue.ID)
		last := acts[len(acts)-1]
		if last.Action != domain.ActionAssigneeChanged || last.NewValue != "tester" {
			t.Errorf("%s last activity = %+v", ref, last)
		}
	}
	if other, _ := stored.ResolveIssue("SO-3"); other.Status != domain.StatusTodo {
		t.Errorf("SO-3 touched: %s", other.Status)
	}
	if sel := app.Tracker.Selection(); len(sel) != 0 {
		t.Errorf("selection not cleared: %v", sel)
	}

	mustRun(t, app, newBulkCmd, "update", "SO-3", "SO-4", "-l", "feature")
	for _, ref := range []string{"SO-3", "SO-4"} {
		issue, _ := app.Tracker.ResolveIssue(ref)
		if len(issue.LabelIDs) != 1 || issue.LabelIDs[0] != labelID(t, p, "feature") {
			t.Errorf("%s labels = %v", ref, issue.LabelIDs)
		}
	}
}

func TestBulkUpdateErrors(t *testing.T) {
	app := setupTestApp(t)
	seedIssues(t, app)
	other, err := app.Tracker.CreateProject(domain.NewProject{Name: "Platform", Prefix: "PLT", Labels: []domain.Label{{Name: "bug"}}})
	if err != nil {
		t.Fatal(err)
	}
	mustIssue(t, app, other, "Rotate keys")

	if _, err := runCmd(t, app, newBulkCmd, "update", "SO-1", "PLT-1", "-l", "bug"); err == nil || !strings.Contains(err.Error(), "same project") {
		t.Errorf("mixed-project labels error = %v", err)
	}
	if _, err := runCmd(t, app, newBulkCmd, "update", "SO-1"); err == nil {
		t.Error("expected error for an empty bulk update")
	}
	if _, err := runCmd(t, app, newBulkCmd, "update", "SO-1", "SO-99", "-s", "done"); err == nil {
		t.Error("expected error for an unknown issue")
	}
	if issue, _ := app.Tracker.ResolveIssue("SO-1"); issue.Status != domain.StatusTodo {
		t.Errorf("failed bulk update changed SO-1 to %s", issue.Status)
	}

	// Status applies across projects.
	mustRun(t, app, newBulkCmd, "update", "SO-1", "PLT-1", "-p", "low")
	if issue, _ := app.Tracker.ResolveIssue("PLT-1"); issue.Priority != domain.PriorityLow {
		t.Errorf("PLT-1 priority = %s", issue.Priority)
	}
}

func TestBulkDelete(t *testing.T) {
	app := setupTestApp(t)
	seedIssues(t, app)
	a, _ := app.Tracker.ResolveIssue("SO-1")
	b, _ := app.Tracker.ResolveIssue("SO-2")
	c, _ := app.Tracker.ResolveIssue("SO-3")
	if _, err := app.Tracker.AddRelation(domain.NewRelation{IssueID: a.ID, Type: domain.RelationRelated, TargetIssueID: b.ID}); err != nil {
		t.Fatal(err)
	}
	if _, err := app.Tracker.AddRelation(domain.NewRelation{IssueID: c.ID, Type: domain.RelationBlocks, TargetIssueID: b.ID}); err != nil {
		t.Fatal(err)
	}
	app.JSON = true

	out := mustRun(t, app, newBulkCmd, "delete", "SO-2", "SO-4", "SO-2")
	var result bulkResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if result.Selected != 2 || result.Affected != 2 || strings.Join(result.Issues, ",") != "SO-2,SO-4" {
		t.Errorf("result = %+v", result)
	}

	stored := persisted(t, app)
	if n := len(stored.Issues()); n != 2 {
		t.Errorf("%d issues left, want 2", n)
	}
	for _, id := range []string{a.ID, c.ID} {
		if rels := stored.RelationsForIssue(id); len(rels) != 0 {
			t.Errorf("dangling relations: %+v", rels)
		}
	}
	if sel := app.Tracker.Selection(); len(sel) != 0 {
		t.Errorf("selection not cleared: %v", sel)
	}
}
