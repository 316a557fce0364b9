package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"issuetracker/internal/config"
	"issuetracker/internal/config/yamlstore"
	"issuetracker/internal/domain"
	"issuetracker/internal/snapshot"
	"issuetracker/internal/tracker"

	"github.com/spf13/cobra"
)

type initOptions struct {
	Force   bool
	Backend string
	Project string
	Prefix  string
}

// newInitCmd creates the init command.
// Note: init doesn't use the provider's App since it creates the .tracker directory.
func newInitCmd(provider *AppProvider) *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new tracker",
		Long: `Initialize a new tracker in the current directory.

Creates .tracker/config.yaml and an empty state store. With --project
and --prefix the first project is created as well.

Examples:
  tr init
  tr init --backend sqlite
  tr init --project Storefront --prefix SO`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := provider.Out
			if out == nil {
				out = os.Stdout
			}
			base := provider.TrackerPath
			if base == "" {
				base = os.Getenv(config.EnvDir)
			}
			if base == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("getting current directory: %w", err)
				}
				base = cwd
			}
			return runInit(cmd.Context(), out, base, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Reinitialize even if .tracker exists (keeps existing data)")
	cmd.Flags().StringVar(&opts.Backend, "backend", "", "Storage backend (filesystem, sqlite; default filesystem)")
	cmd.Flags().StringVar(&opts.Project, "project", "", "Name of a first project to create")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "Identifier prefix for the first project (e.g. SO)")

	return cmd
}

func runInit(ctx context.Context, out io.Writer, base string, opts initOptions) error {
	switch opts.Backend {
	case "", config.BackendFilesystem, config.BackendSQLite:
	default:
		return fmt.Errorf("unknown storage backend %q (allowed: %s, %s)", opts.Backend, config.BackendFilesystem, config.BackendSQLite)
	}
	if (opts.Project == "") != (opts.Prefix == "") {
		return errors.New("--project and --prefix must be given together")
	}

	paths, err := config.PathsFor(base)
	if err != nil {
		return err
	}

	if _, err := os.Stat(paths.ConfigFile); err == nil {
		if !opts.Force {
			return errors.New("tracker already exists (use --force to reinitialize)")
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking .tracker directory: %w", err)
	}

	if err := os.MkdirAll(paths.Dir, 0o755); err != nil {
		return fmt.Errorf("creating .tracker directory: %w", err)
	}

	store, err := yamlstore.New(paths.ConfigFile)
	if err != nil {
		return fmt.Errorf("creating config store: %w", err)
	}
	if opts.Backend != "" {
		if err := store.Set(config.KeyStorageBackend, opts.Backend); err != nil {
			return fmt.Errorf("setting storage backend: %w", err)
		}
	}
	if err := config.ApplyDefaults(store); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	settings, err := config.Load(store)
	if err != nil {
		return err
	}

	kv, err := openSnapshotStore(ctx, paths.Dir, settings.Backend)
	if err != nil {
		return err
	}
	repo := snapshot.New(kv, nil)
	defer repo.Close()

	snap, err := repo.Load(ctx)
	if err != nil {
		return err
	}
	tr, err := tracker.NewFromSnapshot(snap, tracker.WithActor(resolveActor(store, settings)))
	if err != nil {
		return fmt.Errorf("restoring state: %w", err)
	}
	if opts.Project != "" {
		if _, err := tr.CreateProject(domain.NewProject{Name: opts.Project, Prefix: opts.Prefix}); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
	}
	if err := repo.Save(ctx, tr.Snapshot()); err != nil {
		return err
	}

	fmt.Fprintf(out, "Initialized tracker in %s\n", paths.Dir)
	fmt.Fprintf(out, "  Storage: %s\n", settings.Backend)
	if opts.Project != "" {
		p, _ := tr.ProjectByPrefix(opts.Prefix)
		fmt.Fprintf(out, "  Project: %s (%s)\n", p.Name, p.Prefix)
	}
	return nil
}
