package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// deleteResult holds the JSON output of a delete operation.
type deleteResult struct {
	Deleted   []string `json:"deleted"`
	Relations int      `json:"relations_removed"`
	SubTasks  int      `json:"subtasks_removed"`
}

// newDeleteCmd creates the delete command.
func newDeleteCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <issue>...",
		Short: "Delete issues",
		Long: `Delete one or more issues.

Deleting an issue removes its relations (in both directions), sub-tasks
and time tracking, and drops it from goals and milestones. Its activity
log is kept but no longer shown. Identifiers are never reused.

Examples:
  tr delete SO-1
  tr delete SO-1 SO-2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			var result deleteResult
			relations := make(map[string]bool)
			for _, ref := range args {
				issue, err := resolveIssue(app, ref)
				if err != nil {
					return err
				}
				for _, r := range app.Tracker.RelationsForIssue(issue.ID) {
					relations[r.ID] = true
				}
				result.SubTasks += len(app.Tracker.SubTasksForIssue(issue.ID))
				app.Tracker.DeleteIssue(issue.ID)
				result.Deleted = append(result.Deleted, issue.Identifier)
			}
			result.Relations = len(relations)
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(result)
			}
			for _, id := range result.Deleted {
				fmt.Fprintf(app.Out, "%s Deleted %s\n", app.SuccessColor("✓"), id)
			}
			return nil
		},
	}

	return cmd
}
