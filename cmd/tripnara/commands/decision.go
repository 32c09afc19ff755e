// ABOUTME: Decision commands: safety validation of a route plan and decision engine health
// ABOUTME: The configured backend generation (legacy or v1) answers validate-safety
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tripnara/tripnara-go/internal/gate"
	"github.com/tripnara/tripnara-go/internal/models"
	"github.com/tripnara/tripnara-go/internal/ui"
)

// NewDecisionCmd creates the decision command group
func NewDecisionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decision",
		Short: "Run decision checks against a route plan",
	}
	cmd.AddCommand(newDecisionValidateSafetyCmd(), newDecisionHealthCmd())
	return cmd
}

func newDecisionValidateSafetyCmd() *cobra.Command {
	var tripID string
	cmd := &cobra.Command{
		Use:   "validate-safety <plan.json|->",
		Short: "Check a route plan against safety rules",
		Long: `Check a route plan draft against the safety rules (Abu).

The plan is a JSON file, "-" for stdin, or an inline JSON literal:

  {"tripId": "...", "routeDirectionId": "...", "segments": [...]}`,
		Example: `  tripnara decision validate-safety plan.json
  cat plan.json | tripnara decision validate-safety -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var plan models.RoutePlanDraft
			if err := readJSONArg(args[0], &plan); err != nil {
				return err
			}
			if tripID == "" {
				tripID = plan.TripID
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				res, err := a.api.Decision.ValidateSafety(ctx, models.ValidateSafetyRequest{TripID: tripID, Plan: plan})
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(cmd, struct {
						Backend string `json:"backend"`
						*models.ValidateSafetyResult
					}{a.api.Decision.Name(), res})
				}

				status := gate.Allow
				if !res.Allowed {
					status = gate.Reject
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  (%s backend)\n", ui.Badge(status, styled(cmd)), a.api.Decision.Name())
				if res.Message != "" {
					fmt.Fprintln(cmd.OutOrStdout(), res.Message)
				}
				if len(res.Violations) > 0 {
					t := ui.NewTable("Segment", "Violation", "Explanation")
					for _, v := range res.Violations {
						t.AddRow(orDash(v.SegmentID), orDash(v.Violation), truncate(v.Explanation, 60))
					}
					if err := renderTable(cmd, t); err != nil {
						return err
					}
				}
				for _, alt := range res.AlternativeRoutes {
					fmt.Fprintf(cmd.OutOrStdout(), "Alternative %s: %s\n", orDash(alt.RouteID), alt.Description)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&tripID, "trip", "", "Trip ID (defaults to the plan's tripId)")
	return cmd
}

func newDecisionHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the decision engine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				h, err := a.api.DecisionEngine.Health(ctx)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(cmd, h)
				}
				notef(cmd, "Decision engine: %s (client uses the %s backend)", h.Status, a.api.Decision.Name())
				return nil
			})
		},
	}
}
