// ABOUTME: Local preference commands with optional Charm sync across machines
// ABOUTME: Writes land in sqlite first; the mirror is updated best-effort
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tripnara/tripnara-go/internal/ui"
)

// NewPrefsCmd creates the prefs command group
func NewPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage local client preferences",
		Long: `Manage client preferences such as the default draft mode or completed tours.

Preferences are stored locally. With charm_sync enabled they are also
mirrored to your Charm account; 'prefs sync' pulls remote values in.`,
	}
	cmd.AddCommand(newPrefsGetCmd(), newPrefsSetCmd(), newPrefsListCmd(), newPrefsDeleteCmd(), newPrefsSyncCmd())
	return cmd
}

func newPrefsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				v, ok, err := a.store.Preference(args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("preference %q is not set", args[0])
				}
				if jsonOutput() {
					return printJSON(cmd, map[string]string{"key": args[0], "value": v})
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			})
		},
	}
}

func newPrefsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if err := a.store.SetPreference(args[0], args[1]); err != nil {
					return err
				}
				notef(cmd, "Set %s", args[0])
				return nil
			})
		},
	}
}

func newPrefsListCmd() *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				prefs, err := a.store.Preferences().List(prefix)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(cmd, prefs)
				}
				if len(prefs) == 0 {
					notef(cmd, "No preferences set.")
					return nil
				}
				t := ui.NewTable("Key", "Value", "Updated")
				for _, p := range prefs {
					t.AddRow(p.Key, truncate(p.Value, 48), formatAge(time.Since(p.UpdatedAt), p.UpdatedAt))
				}
				return renderTable(cmd, t)
			})
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "Only keys starting with this prefix")
	return cmd
}

func newPrefsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <key>",
		Aliases: []string{"rm"},
		Short:   "Delete a preference",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if err := a.store.DeletePreference(args[0]); err != nil {
					return err
				}
				notef(cmd, "Deleted %s", args[0])
				return nil
			})
		},
	}
}

func newPrefsSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Sync preferences with Charm",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if a.charm == nil {
					return fmt.Errorf("charm sync is disabled; set charmSync: true in the config")
				}
				if err := a.charm.Sync(); err != nil {
					return fmt.Errorf("syncing with charm: %w", err)
				}
				n, err := a.store.PullMirror()
				if err != nil {
					return err
				}
				account, err := a.charm.ID()
				if err != nil {
					a.logger.Debug("charm account lookup failed", zap.Error(err))
					account = "unknown"
				}
				notef(cmd, "Synced with charm account %s; %d preference(s) updated from remote.", account, n)
				return nil
			})
		},
	}
}
