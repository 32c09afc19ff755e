// ABOUTME: Export command writes the local client state (user, preferences) as YAML or JSON
// ABOUTME: The access token is never exported
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export local client state",
		Example: `  tripnara export
  tripnara export --as json --output backup.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "yaml" && format != "json" {
				return fmt.Errorf("invalid export format %q: use yaml or json", format)
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				local := a.store.Local()
				if output != "" {
					if err := local.ExportToFile(output, format); err != nil {
						return err
					}
					notef(cmd, "Exported to %s", output)
					return nil
				}
				if format == "json" {
					return local.WriteJSON(cmd.OutOrStdout())
				}
				return local.WriteYAML(cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().StringVar(&format, "as", "yaml", "Export format: yaml or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
