package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"issuetracker/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCmd groups the commands that read and edit .tracker/config.yaml.
func newConfigCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and edit tracker settings",
		Long: `Read and edit tracker settings.

Settings live as flat key-value pairs in .tracker/config.yaml.
Known keys (actor, storage.backend, log.level, log.format,
defaults.priority, defaults.status) are validated; other keys are kept
as-is. Environment overrides (TR_ACTOR, TR_LOG_LEVEL, TR_STORAGE) are
shown but never written back.
`,
	}

	cmd.AddCommand(newConfigGetCmd(provider))
	cmd.AddCommand(newConfigSetCmd(provider))
	cmd.AddCommand(newConfigListCmd(provider))
	cmd.AddCommand(newConfigUnsetCmd(provider))
	cmd.AddCommand(newConfigValidateCmd(provider))

	return cmd
}

// configStore returns the app's config store, failing if none is open.
func configStore(provider *AppProvider) (*App, config.Store, error) {
	app, err := provider.Get()
	if err != nil {
		return nil, nil, err
	}
	if app.ConfigStore == nil {
		return nil, nil, errors.New("no configuration store is open")
	}
	return app, app.ConfigStore, nil
}

func newConfigGetCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Long: `Print the value of a setting, or "<key> (not set)".

Examples:
  tr config get actor
  tr config get defaults.priority`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, store, err := configStore(provider)
			if err != nil {
				return err
			}

			key := args[0]
			value, ok := store.Get(key)

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(map[string]any{
					"key":   key,
					"value": value,
					"set":   ok,
				})
			}
			if ok {
				fmt.Fprintln(app.Out, value)
			} else {
				fmt.Fprintf(app.Out, "%s (not set)\n", key)
			}
			return nil
		},
	}
}

func newConfigSetCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Long: `Change a setting. Values for known keys are checked before the file
is written.

Examples:
  tr config set actor alice
  tr config set defaults.priority high
  tr config set storage.backend sqlite`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, store, err := configStore(provider)
			if err != nil {
				return err
			}

			key, value := args[0], args[1]
			if err := config.ValidateKey(key, value); err != nil {
				return err
			}
			if err := store.Set(key, value); err != nil {
				return fmt.Errorf("setting config: %w", err)
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(map[string]string{"key": key, "value": value})
			}
			fmt.Fprintf(app.Out, "Set %s = %s\n", key, value)
			if key == config.KeyStorageBackend {
				fmt.Fprintf(app.Out, "%s existing data stays in the previous backend\n", app.WarnColor("!"))
			}
			return nil
		},
	}
}

func newConfigListCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every setting",
		Long: `Print every setting in key order, environment overrides included.

Examples:
  tr config list
  tr config list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, store, err := configStore(provider)
			if err != nil {
				return err
			}

			all := store.All()
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(all)
			}
			if len(all) == 0 {
				fmt.Fprintln(app.Out, "No configuration set")
				return nil
			}
			fmt.Fprintln(app.Out, "Configuration:")
			for _, k := range slices.Sorted(maps.Keys(all)) {
				fmt.Fprintf(app.Out, "  %s = %s\n", k, all[k])
			}
			return nil
		},
	}
}

func newConfigUnsetCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove one setting",
		Long: `Remove a setting from the file. Known keys fall back to their defaults.

Examples:
  tr config unset actor`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, store, err := configStore(provider)
			if err != nil {
				return err
			}

			key := args[0]
			if err := store.Unset(key); err != nil {
				return fmt.Errorf("unsetting config: %w", err)
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(map[string]string{"key": key})
			}
			fmt.Fprintf(app.Out, "Unset %s\n", key)
			return nil
		},
	}
}

func newConfigValidateCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check settings for invalid values",
		Long: `Check that known keys have valid values. Unknown keys are always
accepted.

Examples:
  tr config validate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, store, err := configStore(provider)
			if err != nil {
				return err
			}

			verr := config.Validate(store)
			if app.JSON {
				result := map[string]any{"valid": verr == nil}
				if verr != nil {
					result["error"] = verr.Error()
				}
				if err := json.NewEncoder(app.Out).Encode(result); err != nil {
					return err
				}
				return verr
			}
			if verr != nil {
				return verr
			}
			fmt.Fprintln(app.Out, "Configuration is valid.")
			return nil
		},
	}
}
