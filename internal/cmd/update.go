package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// newUpdateCmd creates the update command.
func newUpdateCmd(provider *AppProvider) *cobra.Command {
	var flags patchFlags

	cmd := &cobra.Command{
		Use:   "update <issue>",
		Short: "Update an issue",
		Long: `Update fields of an existing issue.

Changes to status, priority, assignee, labels and due date are recorded
in the issue's activity log.

Examples:
  tr update SO-1 --status in_progress
  tr update SO-1 -a me -p high
  tr update SO-1 --add-label bug --due 2026-04-01
  tr update SO-1 --cycle none`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			issue, err := resolveIssue(app, args[0])
			if err != nil {
				return err
			}
			project, _ := app.Tracker.Project(issue.ProjectID)

			patch, err := flags.build(cmd, app, project, issue.LabelIDs)
			if err != nil {
				return err
			}
			if patch.IsEmpty() {
				return errors.New("nothing to update (pass at least one field flag)")
			}

			before := len(app.Tracker.ActivitiesForIssue(issue.ID))
			app.Tracker.UpdateIssueWithActivity(issue.ID, patch)
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}

			updated, _ := app.Tracker.Issue(issue.ID)
			recorded := slices.Clone(app.Tracker.ActivitiesForIssue(issue.ID)[before:])

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(map[string]any{
					"issue":      updated,
					"activities": recorded,
				})
			}
			fmt.Fprintf(app.Out, "%s Updated %s\n", app.SuccessColor("✓"), updated.Identifier)
			for _, a := range recorded {
				fmt.Fprintf(app.Out, "  %s\n", a.Summary())
			}
			return nil
		},
	}

	flags.register(cmd, true)
	return cmd
}
