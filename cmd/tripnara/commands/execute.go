// ABOUTME: On-trip execution command: status, reminders, change handling and fallback plans
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tripnara/tripnara-go/internal/models"
	"github.com/tripnara/tripnara-go/internal/ui"
)

// NewExecuteCmd creates the execute command
func NewExecuteCmd() *cobra.Command {
	var changeType, itemID, reason string
	var delay, advance int
	cmd := &cobra.Command{
		Use:   "execute <trip-id> <action>",
		Short: "Run an on-trip action",
		Long: `Run an on-trip execution action.

Actions:
  get_status     current day, phase and open issues
  remind         upcoming reminders
  handle_change  report a change (requires --change-type)
  fallback       ask for fallback plans (requires --reason)

Change handling and fallbacks can take up to two minutes.`,
		Example: `  tripnara execute trip-iceland get_status
  tripnara execute trip-iceland handle_change --change-type delay --item item-glacier-hike --delay 45
  tripnara execute trip-iceland fallback --reason "road closed"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action := models.ExecutionAction(args[1])
			var params any
			switch action {
			case models.ActionGetStatus:
			case models.ActionRemind:
				p := &models.RemindParams{}
				if cmd.Flags().Changed("advance") {
					p.AdvanceHours = &advance
				}
				params = p
			case models.ActionHandleChange:
				if changeType == "" {
					return fmt.Errorf("--change-type is required for handle_change")
				}
				p := &models.ChangeParams{ChangeType: changeType, ChangeDetails: models.ChangeDetails{ItemID: itemID, Reason: reason}}
				if cmd.Flags().Changed("delay") {
					p.ChangeDetails.DelayMinutes = &delay
				}
				params = p
			case models.ActionFallback:
				if reason == "" {
					return fmt.Errorf("--reason is required for fallback")
				}
				params = &models.FallbackParams{TriggerReason: reason, ItemID: itemID}
			default:
				return fmt.Errorf("unknown action %q: use get_status, remind, handle_change or fallback", args[1])
			}

			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				res, err := a.api.Execution.Execute(ctx, args[0], action, params)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(cmd, res)
				}
				return printExecution(cmd, res)
			})
		},
	}
	cmd.Flags().StringVar(&changeType, "change-type", "", "Kind of change, e.g. delay, cancel, weather")
	cmd.Flags().StringVar(&itemID, "item", "", "Affected itinerary item")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason for the change or fallback")
	cmd.Flags().IntVar(&delay, "delay", 0, "Delay in minutes for handle_change")
	cmd.Flags().IntVar(&advance, "advance", 0, "Hours ahead to look for reminders")
	return cmd
}

func printExecution(cmd *cobra.Command, res *models.ExecuteResponse) error {
	w := cmd.OutOrStdout()
	out := res.UIOutput
	if s := out.Status; s != nil {
		fmt.Fprintf(w, "Day %d (%s) · %s · %d active issue(s)\n", s.CurrentDay, s.CurrentDate, s.Phase, s.ActiveIssues)
	}
	if len(out.Reminders) > 0 {
		t := ui.NewTable("When", "Priority", "Reminder")
		for _, r := range out.Reminders {
			t.AddRow(formatTime(r.TriggerTime), r.Priority, truncate(r.Title+": "+r.Message, 60))
		}
		if err := renderTable(cmd, t); err != nil {
			return err
		}
	}
	if c := out.ChangeResult; c != nil {
		state := "applied"
		if !c.Success {
			state = "not applied"
		}
		fmt.Fprintf(w, "Change %s %s. %s\n", c.ChangeType, state, c.Message)
	}
	if fb := out.FallbackPlan; fb != nil {
		t := ui.NewTable("Solution", "Title", "Arrival", "Missing", "Risk", "")
		for _, s := range fb.Solutions {
			mark := ""
			if s.Recommended {
				mark = "recommended"
			}
			t.AddRow(s.ID, truncate(s.Title, 36), s.Impact.ArrivalTime, fmt.Sprint(s.Impact.MissingPlaces), s.Impact.RiskChange, mark)
		}
		if err := renderTable(cmd, t); err != nil {
			return err
		}
	}
	return nil
}
