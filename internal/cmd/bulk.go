package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"issuetracker/internal/domain"

	"github.com/spf13/cobra"
)

// newBulkCmd creates the bulk command group.
func newBulkCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Update or delete many issues at once",
		Long: `Apply one change to a selection of issues in a single step.

Bulk updates record the same activity entries as "tr update" on every
selected issue.

Examples:
  tr bulk update SO-1 SO-2 SO-3 --status done
  tr bulk update SO-4 SO-5 -a me -l bug
  tr bulk delete SO-6 SO-7`,
	}
	cmd.AddCommand(newBulkUpdateCmd(provider))
	cmd.AddCommand(newBulkDeleteCmd(provider))
	return cmd
}

// bulkResult holds the JSON output of a bulk operation.
type bulkResult struct {
	Selected int      `json:"selected"`
	Affected int      `json:"affected"`
	Issues   []string `json:"issues"`
}

func newBulkUpdateCmd(provider *AppProvider) *cobra.Command {
	var flags patchFlags

	cmd := &cobra.Command{
		Use:   "update <issue>...",
		Short: "Apply the same update to every listed issue",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			issues, err := resolveSelection(app, args)
			if err != nil {
				return err
			}
			project, _ := app.Tracker.Project(issues[0].ProjectID)
			if cmd.Flags().Changed("labels") || cmd.Flags().Changed("cycle") {
				for _, issue := range issues[1:] {
					if issue.ProjectID != project.ID {
						return errors.New("--labels and --cycle need every issue in the same project")
					}
				}
			}
			patch, err := flags.build(cmd, app, project, nil)
			if err != nil {
				return err
			}
			if patch.IsEmpty() {
				return errors.New("nothing to update (pass at least one field flag)")
			}

			app.Tracker.ClearSelection()
			app.Tracker.SelectAllIssues(issueIDsOf(issues))
			selected := len(app.Tracker.Selection())
			affected := app.Tracker.BulkUpdateIssues(patch)
			app.logger().Debug("bulk update applied", "selected", selected, "affected", affected)
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}

			return printBulk(app, "Updated", bulkResult{Selected: selected, Affected: affected, Issues: identifiersOf(issues)})
		},
	}

	flags.register(cmd, false)
	return cmd
}

func newBulkDeleteCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <issue>...",
		Short: "Delete every listed issue",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			issues, err := resolveSelection(app, args)
			if err != nil {
				return err
			}

			app.Tracker.ClearSelection()
			for _, issue := range issues {
				if !app.Tracker.IsSelected(issue.ID) {
					app.Tracker.ToggleIssueSelection(issue.ID)
				}
			}
			selected := len(app.Tracker.Selection())
			affected := app.Tracker.BulkDeleteIssues()
			app.logger().Debug("bulk delete applied", "selected", selected, "affected", affected)
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}

			return printBulk(app, "Deleted", bulkResult{Selected: selected, Affected: affected, Issues: identifiersOf(issues)})
		},
	}
}

// resolveSelection resolves refs to issues, dropping duplicates.
func resolveSelection(app *App, refs []string) ([]domain.Issue, error) {
	seen := make(map[string]bool)
	var issues []domain.Issue
	for _, ref := range refs {
		issue, err := resolveIssue(app, ref)
		if err != nil {
			return nil, err
		}
		if seen[issue.ID] {
			continue
		}
		seen[issue.ID] = true
		issues = append(issues, issue)
	}
	return issues, nil
}

func printBulk(app *App, verb string, result bulkResult) error {
	if app.JSON {
		return json.NewEncoder(app.Out).Encode(result)
	}
	fmt.Fprintf(app.Out, "%s %s %d of %d issues\n", app.SuccessColor("✓"), verb, result.Affected, result.Selected)
	return nil
}

func issueIDsOf(issues []domain.Issue) []string {
	ids := make([]string, len(issues))
	for i, issue := range issues {
		ids[i] = issue.ID
	}
	return ids
}

func identifiersOf(issues []domain.Issue) []string {
	ids := make([]string, len(issues))
	for i, issue := range issues {
		ids[i] = issue.Identifier
	}
	return ids
}
