package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"issuetracker/internal/domain"

	"github.com/spf13/cobra"
)

// newProjectCmd creates the project command group.
func newProjectCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects and their labels",
	}
	cmd.AddCommand(newProjectCreateCmd(provider))
	cmd.AddCommand(newProjectListCmd(provider))
	cmd.AddCommand(newProjectDeleteCmd(provider))
	cmd.AddCommand(newProjectLabelAddCmd(provider))
	cmd.AddCommand(newProjectLabelRemoveCmd(provider))
	return cmd
}

func newProjectCreateCmd(provider *AppProvider) *cobra.Command {
	var (
		prefix      string
		description string
		color       string
		labels      []string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Long: `Create a project. Issues in the project are numbered PREFIX-1, PREFIX-2, ...

Examples:
  tr project create Storefront --prefix SO
  tr project create Platform --prefix PLT --labels bug,feature`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			in := domain.NewProject{
				Name:        args[0],
				Prefix:      prefix,
				Description: description,
				Color:       color,
			}
			for _, name := range labels {
				if name = strings.TrimSpace(name); name != "" {
					in.Labels = append(in.Labels, domain.Label{Name: name})
				}
			}

			id, err := app.Tracker.CreateProject(in)
			if err != nil {
				return fmt.Errorf("creating project: %w", err)
			}
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}

			project, _ := app.Tracker.Project(id)
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(project)
			}
			fmt.Fprintf(app.Out, "%s Created project: %s (%s)\n", app.SuccessColor("✓"), project.Name, project.Prefix)
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Identifier prefix, e.g. SO (required)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Project description")
	cmd.Flags().StringVar(&color, "color", "", "Display color")
	cmd.Flags().StringSliceVarP(&labels, "labels", "l", nil, "Initial labels (comma-separated names)")
	cmd.MarkFlagRequired("prefix")

	return cmd
}

func newProjectListCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			projects := app.Tracker.Projects()
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(projects)
			}
			if len(projects) == 0 {
				fmt.Fprintln(app.Out, "No projects found.")
				return nil
			}
			for _, p := range projects {
				issues := app.Tracker.IssuesForProject(p.ID)
				fmt.Fprintf(app.Out, "  %-6s %s (%d issues)\n", p.Prefix, p.Name, len(issues))
				if len(p.Labels) > 0 {
					names := make([]string, len(p.Labels))
					for i, l := range p.Labels {
						names[i] = l.Name
					}
					fmt.Fprintf(app.Out, "         Labels: %s\n", strings.Join(names, ", "))
				}
			}
			return nil
		},
	}
}

func newProjectDeleteCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project>",
		Short: "Delete a project with all its issues, cycles, goals and views",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			project, err := resolveProject(app, args[0])
			if err != nil {
				return err
			}
			issues := len(app.Tracker.IssuesForProject(project.ID))
			app.Tracker.DeleteProject(project.ID)
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(map[string]any{
					"deleted":        project.ID,
					"issues_removed": issues,
				})
			}
			fmt.Fprintf(app.Out, "%s Deleted project %s (%d issues removed)\n", app.SuccessColor("✓"), project.Name, issues)
			return nil
		},
	}
}

func newProjectLabelAddCmd(provider *AppProvider) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "label-add <project> <name>",
		Short: "Add a label to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			project, err := resolveProject(app, args[0])
			if err != nil {
				return err
			}
			id, err := app.Tracker.AddProjectLabel(project.ID, args[1], color)
			if err != nil {
				return fmt.Errorf("adding label: %w", err)
			}
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}

			if app.JSON {
				project, _ = app.Tracker.Project(project.ID)
				label, _ := project.Label(id)
				return json.NewEncoder(app.Out).Encode(label)
			}
			fmt.Fprintf(app.Out, "%s Added label %q to %s\n", app.SuccessColor("✓"), strings.TrimSpace(args[1]), project.Prefix)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Label color")
	return cmd
}

func newProjectLabelRemoveCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "label-remove <project> <label>",
		Short: "Remove a label from a project and all its issues",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			project, err := resolveProject(app, args[0])
			if err != nil {
				return err
			}
			ids, err := resolveLabels(project, args[1:])
			if err != nil {
				return err
			}
			app.Tracker.RemoveProjectLabel(project.ID, ids[0])
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(map[string]string{"removed": ids[0]})
			}
			fmt.Fprintf(app.Out, "%s Removed label %q from %s\n", app.SuccessColor("✓"), args[1], project.Prefix)
			return nil
		},
	}
}
