package cmd

import (
	"encoding/json"
	"fmt"

	"issuetracker/internal/domain"

	"github.com/spf13/cobra"
)

// newRelateCmd creates the relate command.
func newRelateCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relate <issue> <type> <target>",
		Short: "Add a relation between two issues",
		Long: `Add a directed relation from one issue to another.

Types: blocks, blocked_by, related, duplicates.

Examples:
  tr relate SO-1 blocks SO-2
  tr relate SO-3 duplicates SO-1`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			from, err := resolveIssue(app, args[0])
			if err != nil {
				return err
			}
			typ, err := domain.ParseRelationType(args[1])
			if err != nil {
				return err
			}
			to, err := resolveIssue(app, args[2])
			if err != nil {
				return err
			}

			id, err := app.Tracker.AddRelation(domain.NewRelation{
				IssueID:       from.ID,
				Type:          typ,
				TargetIssueID: to.ID,
			})
			if err != nil {
				return fmt.Errorf("adding relation: %w", err)
			}
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}

			if app.JSON {
				r, _ := app.Tracker.Relation(id)
				return json.NewEncoder(app.Out).Encode(r)
			}
			fmt.Fprintf(app.Out, "%s %s %s %s\n", app.SuccessColor("✓"), from.Identifier, typ.Label(), to.Identifier)
			return nil
		},
	}

	return cmd
}

// newUnrelateCmd creates the unrelate command.
func newUnrelateCmd(provider *AppProvider) *cobra.Command {
	var relType string

	cmd := &cobra.Command{
		Use:   "unrelate <issue> <target>",
		Short: "Remove relations between two issues",
		Long: `Remove every relation between two issues, in either direction.
Use --type to remove only relations of one type.

Examples:
  tr unrelate SO-1 SO-2
  tr unrelate SO-1 SO-2 --type blocks`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			a, err := resolveIssue(app, args[0])
			if err != nil {
				return err
			}
			b, err := resolveIssue(app, args[1])
			if err != nil {
				return err
			}
			var only domain.RelationType
			if relType != "" {
				if only, err = domain.ParseRelationType(relType); err != nil {
					return err
				}
			}

			var removed []string
			for _, r := range app.Tracker.RelationsForIssue(a.ID) {
				connects := (r.IssueID == a.ID && r.TargetIssueID == b.ID) ||
					(r.IssueID == b.ID && r.TargetIssueID == a.ID)
				if !connects {
					continue
				}
				if only != "" && r.Type != only {
					continue
				}
				app.Tracker.RemoveRelation(r.ID)
				removed = append(removed, r.ID)
			}
			if len(removed) == 0 {
				return fmt.Errorf("no relation between %s and %s: %w", a.Identifier, b.Identifier, domain.ErrNotFound)
			}
			if err := app.Save(cmd.Context()); err != nil {
				return err
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(map[string]any{"removed": removed})
			}
			fmt.Fprintf(app.Out, "%s Removed %d relation(s) between %s and %s\n",
				app.SuccessColor("✓"), len(removed), a.Identifier, b.Identifier)
			return nil
		},
	}

	cmd.Flags().StringVarP(&relType, "type", "t", "", "Only remove relations of this type")
	return cmd
}
