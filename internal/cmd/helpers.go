package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"issuetracker/internal/config"
	"issuetracker/internal/domain"
)

// resolveActor determines the user ID recorded on activities.
// Resolution priority:
//  1. actor config key or TR_ACTOR (via ApplyEnvOverrides), unless it is
//     still the "${USER}" default
//  2. git config user.name
//  3. the expanded default ($USER)
//  4. "unknown"
func resolveActor(store config.Store, settings config.Settings) string {
	if store != nil {
		if actor, ok := store.Get(config.KeyActor); ok && actor != "" && actor != "${USER}" {
			return os.ExpandEnv(actor)
		}
	}

	if out, err := exec.Command("git", "config", "user.name").Output(); err == nil {
		if name := strings.TrimSpace(string(out)); name != "" {
			return name
		}
	}

	if settings.Actor != "" {
		return settings.Actor
	}
	return "unknown"
}

// envBool reports whether the named variable is "1" or "true".
func envBool(name string) bool {
	v := strings.ToLower(os.Getenv(name))
	return v == "1" || v == "true"
}

// findByRef returns the first item whose ID equals ref, falling back to a
// case-insensitive name match.
func findByRef[T any](items []T, ref string, id, name func(T) string) (T, bool) {
	for _, it := range items {
		if id(it) == ref {
			return it, true
		}
	}
	for _, it := range items {
		if strings.EqualFold(strings.TrimSpace(name(it)), strings.TrimSpace(ref)) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// resolveProject finds a project by ID, prefix or name. An empty ref
// selects the only project when exactly one exists.
func resolveProject(app *App, ref string) (domain.Project, error) {
	projects := app.Tracker.Projects()
	if ref == "" {
		switch len(projects) {
		case 0:
			return domain.Project{}, fmt.Errorf("no projects yet (run `tr project create`)")
		case 1:
			return projects[0], nil
		}
		return domain.Project{}, fmt.Errorf("%d projects exist, choose one with --project", len(projects))
	}
	if p, ok := app.Tracker.ProjectByPrefix(ref); ok {
		return p, nil
	}
	p, ok := findByRef(projects, ref,
		func(p domain.Project) string { return p.ID },
		func(p domain.Project) string { return p.Name })
	if !ok {
		return domain.Project{}, fmt.Errorf("project %q: %w", ref, domain.ErrNotFound)
	}
	return p, nil
}

// resolveIssue finds an issue by ID or identifier ("SO-1").
func resolveIssue(app *App, ref string) (domain.Issue, error) {
	issue, ok := app.Tracker.ResolveIssue(strings.TrimSpace(ref))
	if !ok {
		return domain.Issue{}, fmt.Errorf("issue %q: %w", ref, domain.ErrNotFound)
	}
	return issue, nil
}

// resolveIssueIDs resolves every ref, failing on the first unknown one.
func resolveIssueIDs(app *App, refs []string) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		issue, err := resolveIssue(app, ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, issue.ID)
	}
	return ids, nil
}

// resolveLabels maps label names or IDs to the project's label IDs.
func resolveLabels(project domain.Project, refs []string) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		l, ok := findByRef(project.Labels, ref,
			func(l domain.Label) string { return l.ID },
			func(l domain.Label) string { return l.Name })
		if !ok {
			return nil, fmt.Errorf("label %q in project %s: %w", ref, project.Prefix, domain.ErrNotFound)
		}
		ids = append(ids, l.ID)
	}
	return ids, nil
}

// resolveCycle finds a project cycle by ID or name.
func resolveCycle(app *App, project domain.Project, ref string) (domain.Cycle, error) {
	c, ok := findByRef(app.Tracker.CyclesForProject(project.ID), ref,
		func(c domain.Cycle) string { return c.ID },
		func(c domain.Cycle) string { return c.Name })
	if !ok {
		return domain.Cycle{}, fmt.Errorf("cycle %q: %w", ref, domain.ErrNotFound)
	}
	return c, nil
}

// resolveAssignee maps "me" to the current actor.
func resolveAssignee(app *App, s string) string {
	if strings.EqualFold(s, "me") {
		return app.Tracker.Actor()
	}
	return s
}

// labelNames renders label IDs as names, keeping unknown IDs as-is.
func labelNames(project domain.Project, ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if l, ok := project.Label(id); ok {
			names = append(names, l.Name)
		} else {
			names = append(names, id)
		}
	}
	return names
}

// parseStatuses parses each value, skipping empty strings.
func parseStatuses(values []string) ([]domain.Status, error) {
	var out []domain.Status
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		s, err := domain.ParseStatus(v)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func parsePriorities(values []string) ([]domain.Priority, error) {
	var out []domain.Priority
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		p, err := domain.ParsePriority(v)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// parseDate accepts YYYY-MM-DD, or "none" to clear the value.
func parseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, domain.NoDate) {
		return "", nil
	}
	if _, err := time.Parse(domain.DateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, domain.ErrValidation)
	}
	return s, nil
}
