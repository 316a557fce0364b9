package domain

import (
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"todo", StatusTodo, false},
		{"In Progress", StatusInProgress, false},
		{"in-review", StatusInReview, false},
		{" DONE ", StatusDone, false},
		{"finished", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrValidation) {
				t.Errorf("ParseStatus(%q) error = %v, want ErrValidation", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestRanks(t *testing.T) {
	if !(StatusBacklog.Rank() > StatusTodo.Rank() && StatusDone.Rank() > StatusCancelled.Rank()) {
		t.Error("status ranks out of workflow order")
	}
	if !(PriorityUrgent.Rank() > PriorityHigh.Rank() && PriorityLow.Rank() > PriorityNone.Rank()) {
		t.Error("priority ranks out of severity order")
	}
	if Status("weird").Rank() != 0 || Priority("weird").Rank() != 0 {
		t.Error("unknown values should rank 0")
	}
}

func TestRelationType(t *testing.T) {
	if got := RelationBlocks.Inverse(); got != RelationBlockedBy {
		t.Errorf("Inverse(blocks) = %q", got)
	}
	if got := RelationRelated.Inverse(); got != RelationRelated {
		t.Errorf("Inverse(related) = %q", got)
	}
	if got := RelationBlockedBy.Label(); got != "blocked by" {
		t.Errorf("Label(blocked_by) = %q", got)
	}
	if got, err := ParseRelationType("blocked-by"); err != nil || got != RelationBlockedBy {
		t.Errorf("ParseRelationType(blocked-by) = %q, %v", got, err)
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		in      string
		want    IssueSort
		wantErr bool
	}{
		{"", DefaultSort, false},
		{"priority", IssueSort{Field: SortPriority, Direction: SortAsc}, false},
		{"title:desc", IssueSort{Field: SortTitle, Direction: SortDesc}, false},
		{"title:sideways", IssueSort{}, true},
		{"color", IssueSort{}, true},
	}
	for _, tt := range tests {
		got, err := ParseSort(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSort(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSort(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestMinutes(t *testing.T) {
	parse := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"90", 90, false},
		{"45m", 45, false},
		{"2h", 120, false},
		{"1h30m", 90, false},
		{"1h 30m", 90, false},
		{"", 0, true},
		{"1h30", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range parse {
		got, err := ParseMinutes(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMinutes(%q) = %d, %v", tt.in, got, err)
		}
	}

	format := map[int]string{0: "0m", 45: "45m", 60: "1h", 125: "2h 5m", -30: "-30m"}
	for in, want := range format {
		if got := FormatMinutes(in); got != want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestValidationErrorUnwraps(t *testing.T) {
	var v Validator
	v.Require("title", " ")
	v.Add("status", "unknown")
	err := WrapOp("create", "issue", "", v.Err())

	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Errors) != 2 {
		t.Fatalf("expected 2 field errors, got %v", err)
	}
	if WrapOp("x", "y", "", nil) != nil {
		t.Error("WrapOp(nil) should be nil")
	}
}

func TestActivitySummary(t *testing.T) {
	tests := []struct {
		a    Activity
		want string
	}{
		{Activity{Action: ActionCreated}, "created the issue"},
		{FieldChangeActivity(ActionStatusChanged, "status", "todo", "done"), "changed status from todo to done"},
		{FieldChangeActivity(ActionDueDateChanged, "due_date", NoDate, "2026-04-01"), "changed due date from none to 2026-04-01"},
		{SubTaskActivity(ActionSubTaskToggled, SubTask{Title: "ship", Completed: true}), `completed sub-task "ship"`},
		{TimeLoggedActivity(90), "logged 1h 30m"},
	}
	for _, tt := range tests {
		if got := tt.a.Summary(); got != tt.want {
			t.Errorf("Summary() = %q, want %q", got, tt.want)
		}
	}
}

func TestIssuePatchApplyDoesNotAlias(t *testing.T) {
	labels := []string{"a"}
	issue := Issue{LabelIDs: []string{"x"}}
	got := IssuePatch{LabelIDs: labels, Title: Ptr("new")}.Apply(issue)
	labels[0] = "changed"
	if got.LabelIDs[0] != "a" || got.Title != "new" || issue.LabelIDs[0] != "x" {
		t.Errorf("Apply aliased input: %+v", got)
	}
	if !(IssuePatch{}).IsEmpty() || (IssuePatch{LabelIDs: []string{}}).IsEmpty() {
		t.Error("IsEmpty mismatch")
	}
}
