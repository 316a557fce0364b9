package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"issuetracker/internal/domain"

	"github.com/spf13/cobra"
)

// newCycleCmd creates the cycle command group.
func newCycleCmd(provider *AppProvider) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   "cycle",
		Short: "Plan work into time-boxed cycles",
		Long: `Manage the cycles of a project.

Examples:
  tr cycle create "Sprint 1" --start 2026-03-02 --end 2026-03-13
  tr cycle update "Sprint 1" --status active
  tr cycle list
  tr cycle delete "Sprint 1"`,
	}
	cmd.PersistentFlags().StringVar(&projectRef, "project", "", "Project prefix, name or ID (default: the only project)")

	cmd.AddCommand(newCycleCreateCmd(provider, &projectRef))
	cmd.AddCommand(newCycleListCmd(provider, &projectRef))
	cmd.AddCommand(newCycleUpdateCmd(provider, &projectRef))
	cmd.AddCommand(newCycleDeleteCmd(provider, &projectRef))
	return cmd
}

func newCycleCreateCmd(provider *AppProvider, projectRef *string) *cobra.Command {
	var start, end, status string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a cycle",
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

			in := domain.NewCycle{ProjectID: project.ID, Name: args[0]}
			if in.StartDate, err = parseDate(start); err != nil {
				return err
			}
			if in.EndDate, err = parseDate(end); err != nil {
				return err
			}
			if in.StartDate != "" && in.EndDate != "" && in.EndDate < in.StartDate {
				return fmt.Errorf("cycle ends before it starts: %w", domain.ErrValidation)
			}
			if status != "" {
				if in.Status, err = domain.ParseCycleStatus(status); err != nil {
					return err
				}
			}

			id, err := app.Tracker.CreateCycle(in)
			if err != nil {
				return fmt.Errorf("creating cycle: %w", err)
			}
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}

			c, _ := app.Tracker.Cycle(id)
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(c)
			}
			fmt.Fprintf(app.Out, "%s Created cycle: %s [%s]\n", app.SuccessColor("✓"), c.Name, c.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "Status (upcoming, active, completed)")
	return cmd
}

func newCycleListCmd(provider *AppProvider, projectRef *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cycles",
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

			cycles := app.Tracker.CyclesForProject(project.ID)
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(cycles)
			}
			if len(cycles) == 0 {
				fmt.Fprintln(app.Out, "No cycles found.")
				return nil
			}
			issues := app.Tracker.IssuesForProject(project.ID)
			for _, c := range cycles {
				n := 0
				for _, i := range issues {
					if i.CycleID == c.ID {
						n++
					}
				}
				fmt.Fprintf(app.Out, "  %s [%s] %s (%d issues)\n", c.Name, c.Status, dateRange(c.StartDate, c.EndDate), n)
			}
			return nil
		},
	}
}

func newCycleUpdateCmd(provider *AppProvider, projectRef *string) *cobra.Command {
	var name, start, end, status string

	cmd := &cobra.Command{
		Use:   "update <cycle>",
		Short: "Rename, reschedule or change the status of a cycle",
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
			c, err := resolveCycle(app, project, args[0])
			if err != nil {
				return err
			}

			var patch domain.CyclePatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("start") {
				d, err := parseDate(start)
				if err != nil {
					return err
				}
				patch.StartDate = &d
			}
			if cmd.Flags().Changed("end") {
				d, err := parseDate(end)
				if err != nil {
					return err
				}
				patch.EndDate = &d
			}
			if cmd.Flags().Changed("status") {
				s, err := domain.ParseCycleStatus(status)
				if err != nil {
					return err
				}
				patch.Status = &s
			}
			if patch == (domain.CyclePatch{}) {
				return errors.New("nothing to update (pass --name, --start, --end or --status)")
			}

			app.Tracker.UpdateCycle(c.ID, patch)
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}
			c, _ = app.Tracker.Cycle(c.ID)
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(c)
			}
			fmt.Fprintf(app.Out, "%s Updated cycle: %s [%s]\n", app.SuccessColor("✓"), c.Name, c.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD, \"none\" to clear)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD, \"none\" to clear)")
	cmd.Flags().StringVar(&status, "status", "", "Status (upcoming, active, completed)")
	return cmd
}

func newCycleDeleteCmd(provider *AppProvider, projectRef *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <cycle>",
		Short: "Delete a cycle; its issues stay but leave the cycle",
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
			c, err := resolveCycle(app, project, args[0])
			if err != nil {
				return err
			}
			app.Tracker.DeleteCycle(c.ID)
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(map[string]string{"deleted": c.ID})
			}
			fmt.Fprintf(app.Out, "%s Deleted cycle %s\n", app.SuccessColor("✓"), c.Name)
			return nil
		},
	}
}

// dateRange renders "start → end" with missing ends shown as "?".
func dateRange(start, end string) string {
	if start == "" && end == "" {
		return "(unscheduled)"
	}
	if start == "" {
		start = "?"
	}
	if end == "" {
		end = "?"
	}
	return start + " → " + end
}
