// ABOUTME: Root command, global flags and command tree for the tripnara CLI
// ABOUTME: Global flags are package state read by every subcommand, reset on each NewRootCmd
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	configPath   string
	apiURL       string
	mockMode     bool
)

const banner = `
████████╗██████╗ ██╗██████╗ ███╗   ██╗ █████╗ ██████╗  █████╗
╚══██╔══╝██╔══██╗██║██╔══██╗████╗  ██║██╔══██╗██╔══██╗██╔══██╗
   ██║   ██████╔╝██║██████╔╝██╔██╗ ██║███████║██████╔╝███████║
   ██║   ██╔══██╗██║██╔═══╝ ██║╚██╗██║██╔══██║██╔══██╗██╔══██║
   ██║   ██║  ██║██║██║     ██║ ╚████║██║  ██║██║  ██║██║  ██║
   ╚═╝   ╚═╝  ╚═╝╚═╝╚═╝     ╚═╝  ╚═══╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═╝`

// NewRootCmd creates the root command with every subcommand attached
func NewRootCmd() *cobra.Command {
	verbose, quiet, mockMode = false, false, false
	outputFormat, configPath, apiURL = "auto", "", ""

	cmd := &cobra.Command{
		Use:   "tripnara",
		Short: "Plan, review and run trips from the terminal",
		Long: banner + `

TripNARA plans trips with three guardians watching over them:
Abu for safety, Dr.Dre for pacing and Neptune for repairs.

This CLI talks to the TripNARA backend: browse trips and their
persona views, inspect and edit decision drafts, replay how a plan
was decided, and run on-trip actions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat {
			case "auto", "table", "json":
				return nil
			}
			return fmt.Errorf("--format must be auto, table or json, got %q", outputFormat)
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Only print results and errors")
	flags.StringVar(&outputFormat, "format", "auto", "Output format: auto, table or json")
	flags.StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/tripnara/config.yaml)")
	flags.StringVar(&apiURL, "api-url", "", "Override the API base URL")
	flags.BoolVar(&mockMode, "mock", false, "Serve every request from the built-in mock backend")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewVersionCmd(),
		NewAuthCmd(),
		NewTripsCmd(),
		NewViewsCmd(),
		NewDraftCmd(),
		NewDecisionCmd(),
		NewExecuteCmd(),
		NewPlacesCmd(),
		NewCountriesCmd(),
		NewRoutesCmd(),
		NewWeatherCmd(),
		NewPlansCmd(),
		NewGateCmd(),
		NewPrefsCmd(),
		NewExportCmd(),
		NewMCPCmd(),
	)
	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
