package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"issuetracker/internal/domain"

	"github.com/spf13/cobra"
)

// newViewCmd creates the view command group.
func newViewCmd(provider *AppProvider) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Save and reuse issue filters",
		Long: `Manage saved views. A view is a named set of list filters; apply it
with "tr list --view <name>".

Examples:
  tr view save "My bugs" -a me -l bug
  tr view list
  tr view delete "My bugs"`,
	}
	cmd.PersistentFlags().StringVar(&projectRef, "project", "", "Project prefix, name or ID (default: the only project)")

	cmd.AddCommand(newViewSaveCmd(provider, &projectRef))
	cmd.AddCommand(newViewListCmd(provider, &projectRef))
	cmd.AddCommand(newViewDeleteCmd(provider, &projectRef))
	return cmd
}

// resolveView finds a project's saved view by ID or name.
func resolveView(app *App, project domain.Project, ref string) (domain.SavedView, error) {
	v, ok := findByRef(app.Tracker.SavedViewsForProject(project.ID), ref,
		func(v domain.SavedView) string { return v.ID },
		func(v domain.SavedView) string { return v.Name })
	if !ok {
		return domain.SavedView{}, fmt.Errorf("view %q: %w", ref, domain.ErrNotFound)
	}
	return v, nil
}

func newViewSaveCmd(provider *AppProvider, projectRef *string) *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save the given filters as a view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			project, err := resolveProject(app, *projectRef)
			if err != nil {
				return err
			}
			f, err := filters.apply(app, &project, domain.IssueFilters{})
			if err != nil {
				return err
			}
			if f.IsEmpty() {
				return errors.New("a view needs at least one filter flag")
			}

			id, err := app.Tracker.SaveView(domain.NewSavedView{ProjectID: project.ID, Name: args[0], Filters: f})
			if err != nil {
				return fmt.Errorf("saving view: %w", err)
			}
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}

			v, _ := app.Tracker.SavedView(id)
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(v)
			}
			fmt.Fprintf(app.Out, "%s Saved view: %s\n", app.SuccessColor("✓"), v.Name)
			return nil
		},
	}

	filters.register(cmd)
	return cmd
}

func newViewListCmd(provider *AppProvider, projectRef *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			project, err := resolveProject(app, *projectRef)
			if err != nil {
				return err
			}

			views := app.Tracker.SavedViewsForProject(project.ID)
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(views)
			}
			if len(views) == 0 {
				fmt.Fprintln(app.Out, "No saved views.")
				return nil
			}
			for _, v := range views {
				fmt.Fprintf(app.Out, "  %s: %s\n", v.Name, describeFilters(app, project, v.Filters))
			}
			return nil
		},
	}
}

func newViewDeleteCmd(provider *AppProvider, projectRef *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <view>",
		Short: "Delete a saved view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			project, err := resolveProject(app, *projectRef)
			if err != nil {
				return err
			}
			v, err := resolveView(app, project, args[0])
			if err != nil {
				return err
			}
			app.Tracker.DeleteSavedView(v.ID)
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(map[string]string{"deleted": v.ID})
			}
			fmt.Fprintf(app.Out, "%s Deleted view %s\n", app.SuccessColor("✓"), v.Name)
			return nil
		},
	}
}

// describeFilters renders filters as "status=todo,done labels=bug".
func describeFilters(app *App, project domain.Project, f domain.IssueFilters) string {
	var parts []string
	add := func(key string, values []string) {
		if len(values) > 0 {
			parts = append(parts, key+"="+strings.Join(values, ","))
		}
	}
	add("status", stringsOf(f.Status))
	add("priority", stringsOf(f.Priority))
	add("assignee", f.AssigneeIDs)
	add("labels", labelNames(project, f.LabelIDs))
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search=%q", f.Search))
	}
	if f.CycleID != "" {
		name := f.CycleID
		if c, ok := app.Tracker.Cycle(f.CycleID); ok {
			name = c.Name
		}
		parts = append(parts, "cycle="+name)
	}
	return strings.Join(parts, " ")
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
