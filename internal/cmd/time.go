package cmd

import (
	"encoding/json"
	"fmt"

	"issuetracker/internal/domain"

	"github.com/spf13/cobra"
)

// newTimeCmd creates the time command group.
func newTimeCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "time",
		Short: "Estimate and log time on an issue",
		Long: `Track time against an issue. Durations accept "90", "45m", "2h" or "1h30m".

Examples:
  tr time estimate SO-1 4h
  tr time log SO-1 1h30m`,
	}
	cmd.AddCommand(newTimeEstimateCmd(provider))
	cmd.AddCommand(newTimeLogCmd(provider))
	return cmd
}

func newTimeEstimateCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "estimate <issue> <duration>",
		Short: "Set the time estimate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTime(cmd, provider, args, func(app *App, issueID string, minutes int) error {
				app.Tracker.SetTimeEstimate(issueID, minutes)
				return nil
			})
		},
	}
}

func newTimeLogCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "log <issue> <duration>",
		Short: "Add time spent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTime(cmd, provider, args, func(app *App, issueID string, minutes int) error {
				if minutes <= 0 {
					return fmt.Errorf("logged time must be positive: %w", domain.ErrValidation)
				}
				app.Tracker.LogTime(issueID, minutes)
				return nil
			})
		},
	}
}

func runTime(cmd *cobra.Command, provider *AppProvider, args []string, apply func(*App, string, int) error) error {
	app, err := provider.Get()
	if err != nil {
		return err
	}
	issue, err := resolveIssue(app, args[0])
	if err != nil {
		return err
	}
	minutes, err := domain.ParseMinutes(args[1])
	if err != nil {
		return err
	}

	if err := apply(app, issue.ID, minutes); err != nil {
		return err
	}
	if err := app.Save(cmd.Context()); err != nil {
		return err
	}

	t := app.Tracker.TimeTracking(issue.ID)
	if app.JSON {
		return json.NewEncoder(app.Out).Encode(t)
	}
	fmt.Fprintf(app.Out, "%s %s: logged %s", app.SuccessColor("✓"), issue.Identifier, domain.FormatMinutes(t.LoggedMinutes))
	if rem, ok := t.Remaining(); ok {
		fmt.Fprintf(app.Out, " of %s (%s remaining)", domain.FormatMinutes(*t.EstimateMinutes), domain.FormatMinutes(rem))
	}
	fmt.Fprintln(app.Out)
	return nil
}
