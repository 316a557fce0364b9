package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"issuetracker/internal/config"
	"issuetracker/internal/config/yamlstore"
	"issuetracker/internal/kvstorage"
	"issuetracker/internal/kvstorage/filesystem"
	"issuetracker/internal/kvstorage/sqlite"
	"issuetracker/internal/logging"
	"issuetracker/internal/snapshot"
	"issuetracker/internal/tracker"

	"github.com/spf13/cobra"
)

// AppProvider lazily initializes the App on first use.
type AppProvider struct {
	once sync.Once
	app  *App
	err  error

	// Config captured from flags before Execute()
	TrackerPath string
	JSONOutput  bool
	Out         io.Writer
	Err         io.Writer
}

// Get returns the App, initializing it on first call.
func (p *AppProvider) Get() (*App, error) {
	p.once.Do(func() {
		if p.app == nil {
			p.app, p.err = p.init()
		}
	})
	return p.app, p.err
}

// Close releases the App if it was initialized.
func (p *AppProvider) Close() error {
	if p.app == nil {
		return nil
	}
	return p.app.Close()
}

// NewTestProvider creates a provider pre-initialized with the given App.
// Used for testing commands with a test App.
func NewTestProvider(app *App) *AppProvider {
	return &AppProvider{
		app: app,
		Out: app.Out,
		Err: app.Err,
	}
}

func (p *AppProvider) init() (*App, error) {
	ctx := context.Background()

	paths, err := config.ResolvePaths(p.TrackerPath)
	if err != nil {
		return nil, err
	}

	store, err := yamlstore.New(paths.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	config.ApplyEnvOverrides(store)
	settings, err := config.Load(store)
	if err != nil {
		return nil, err
	}

	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := p.Err
	if errOut == nil {
		errOut = os.Stderr
	}

	log := logging.New(logging.Config{
		Level:  settings.LogLevel,
		Format: settings.LogFormat,
		Output: errOut,
	})

	kv, err := openSnapshotStore(ctx, paths.Dir, settings.Backend)
	if err != nil {
		return nil, err
	}
	repo := snapshot.New(kv, log)
	snap, err := repo.Load(ctx)
	if err != nil {
		repo.Close()
		return nil, err
	}
	tr, err := tracker.NewFromSnapshot(snap,
		tracker.WithActor(resolveActor(store, settings)),
		tracker.WithLogger(log),
	)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("restoring state: %w", err)
	}

	return &App{
		Tracker:     tr,
		Repo:        repo,
		ConfigStore: store,
		Settings:    settings,
		Dir:         paths.Dir,
		Log:         log,
		Out:         out,
		Err:         errOut,
		JSON:        p.JSONOutput || envBool(config.EnvJSON),
	}, nil
}

// openSnapshotStore opens the snapshot table on the configured backend.
func openSnapshotStore(ctx context.Context, dir, backend string) (kvstorage.KVStore, error) {
	switch backend {
	case config.BackendSQLite:
		kv, err := sqlite.Open(ctx, filepath.Join(dir, sqlite.FileName), snapshot.Table)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return kv, nil
	case config.BackendFilesystem, "":
		kv, err := filesystem.New(dir, snapshot.Table)
		if err != nil {
			return nil, fmt.Errorf("creating snapshot store: %w", err)
		}
		if err := kv.Init(ctx); err != nil {
			return nil, fmt.Errorf("initializing snapshot store: %w", err)
		}
		return kv, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}

// Execute runs the CLI.
func Execute() error {
	provider := &AppProvider{
		Out: os.Stdout,
		Err: os.Stderr,
	}
	defer provider.Close()

	rootCmd := newRootCmd(provider)
	return rootCmd.Execute()
}

// newRootCmd creates the root command with all subcommands.
func newRootCmd(provider *AppProvider) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tr",
		Short: "A local issue tracker with projects, cycles and goals",
		Long: `tr tracks issues inside projects, plans them into cycles, goals and
milestones, and keeps an activity log of every tracked change.
State lives in a .tracker directory next to your code.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags - these populate the provider config
	rootCmd.PersistentFlags().BoolVar(&provider.JSONOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&provider.TrackerPath, "path", "", "Path to repo or .tracker directory (default: search from cwd)")

	rootCmd.AddCommand(newInitCmd(provider))
	rootCmd.AddCommand(newProjectCmd(provider))
	rootCmd.AddCommand(newCreateCmd(provider))
	rootCmd.AddCommand(newListCmd(provider))
	rootCmd.AddCommand(newShowCmd(provider))
	rootCmd.AddCommand(newUpdateCmd(provider))
	rootCmd.AddCommand(newDeleteCmd(provider))
	rootCmd.AddCommand(newRelateCmd(provider))
	rootCmd.AddCommand(newUnrelateCmd(provider))
	rootCmd.AddCommand(newSubtaskCmd(provider))
	rootCmd.AddCommand(newTimeCmd(provider))
	rootCmd.AddCommand(newCycleCmd(provider))
	rootCmd.AddCommand(newGoalCmd(provider))
	rootCmd.AddCommand(newMilestoneCmd(provider))
	rootCmd.AddCommand(newViewCmd(provider))
	rootCmd.AddCommand(newBulkCmd(provider))
	rootCmd.AddCommand(newConfigCmd(provider))

	return rootCmd
}
