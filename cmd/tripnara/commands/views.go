// ABOUTME: Persona view commands: abu (safety), drdre (pacing), neptune (repairs) and auto (warnings)
// ABOUTME: Each view renders server-computed data; --apply and --regenerate trigger the matching mutation
package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tripnara/tripnara-go/internal/api"
	"github.com/tripnara/tripnara-go/internal/models"
	"github.com/tripnara/tripnara-go/internal/tripview"
	"github.com/tripnara/tripnara-go/internal/ui"
)

// NewViewsCmd creates the persona views command group
func NewViewsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Persona views of a trip",
		Long: `Show a trip through one guardian persona.

  abu      safety: items carrying conflicts or Abu alerts
  drdre    pacing: days over the fatigue or under the buffer thresholds
  neptune  repairs: Neptune suggestions grouped by the item they fix
  auto     every warning-level alert across personas`,
	}
	cmd.AddCommand(newViewAbuCmd(), newViewDrDreCmd(), newViewNeptuneCmd(), newViewAutoCmd())
	return cmd
}

// loadOverview fetches the overview and fails only when the trip itself is unavailable.
func loadOverview(ctx context.Context, cmd *cobra.Command, a *app, tripID string) (*api.TripOverview, error) {
	ov, err := a.api.Overview.Load(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := ov.Errors[api.PartDetail]; err != nil {
		return nil, err
	}
	if failed := ov.Failed(); len(failed) > 0 && !jsonOutput() {
		ui.Notice(cmd.ErrOrStderr(), stylesFor(cmd), "Unavailable: "+strings.Join(failed, ", "))
	}
	return ov, nil
}

func newViewAbuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abu <trip-id>",
		Short: "Safety view: items with active risks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				ov, err := loadOverview(ctx, cmd, a, args[0])
				if err != nil {
					return err
				}
				var conflicts []models.TripConflict
				if ov.Conflicts != nil {
					conflicts = ov.Conflicts.Conflicts
				}
				view := tripview.Abu(ov.Detail, conflicts, ov.Alerts)
				if jsonOutput() {
					return printJSON(cmd, view)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Safety gate: %s\n", ui.Badge(view.Gate, styled(cmd)))
				if len(view.Items) == 0 && len(view.Alerts) == 0 {
					notef(cmd, "No safety risks on this trip.")
					return nil
				}
				t := ui.NewTable("Date", "Item", "Status", "Risks")
				for _, it := range view.Items {
					var risks []string
					for _, c := range it.Conflicts {
						risks = append(risks, c.Title)
					}
					for _, al := range it.Alerts {
						risks = append(risks, al.Title)
					}
					t.AddRow(it.Date, truncate(it.Item.Title(), 32), ui.Badge(it.Status, styled(cmd)), truncate(strings.Join(risks, "; "), 60))
				}
				for _, al := range view.Alerts {
					t.AddRow("-", "(trip)", ui.Badge(al.GateStatus(), styled(cmd)), truncate(al.Title+": "+al.Message, 60))
				}
				return renderTable(cmd, t)
			})
		},
	}
}

func newViewDrDreCmd() *cobra.Command {
	var locks []string
	var regenerate bool
	cmd := &cobra.Command{
		Use:   "drdre <trip-id>",
		Short: "Pacing view: strenuous days and their items",
		Long: `Flag days whose fatigue exceeds the effort threshold or whose buffer
falls below the minimum. Thresholds come from configuration
(fatigueThreshold, minBufferMinutes).

Lock items with --lock and pass --regenerate to rebuild the plan around them.`,
		Example: `  tripnara view drdre trip-iceland
  tripnara view drdre trip-iceland --lock item-blue-lagoon --regenerate`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				th := a.cfg.Thresholds()
				if err := th.Validate(); err != nil {
					return err
				}
				ov, err := loadOverview(ctx, cmd, a, args[0])
				if err != nil {
					return err
				}
				set := &tripview.LockSet{}
				for _, id := range locks {
					if !set.Locked(id) {
						set.Toggle(id)
					}
				}
				view := tripview.DrDre(ov.Detail, ov.Metrics, ov.Alerts, th, set)

				if regenerate {
					resp, err := tripview.NewActions(a.api.Trips, args[0]).Regenerate(ctx, set)
					if err != nil {
						return err
					}
					if jsonOutput() {
						return printJSON(cmd, resp)
					}
					return printChanges(cmd, resp.Changes)
				}
				if jsonOutput() {
					return printJSON(cmd, view)
				}
				if !view.Flagged() {
					notef(cmd, "Pacing looks fine: no day over fatigue %.0f or under %.0f min buffer.", th.EffortThreshold, th.MinBufferMinutes)
				} else {
					t := ui.NewTable("Date", "Fatigue", "Buffer", "Walk", "Reasons", "Items")
					for _, d := range view.Days {
						t.AddRow(d.Date, fmt.Sprintf("%.0f", d.Metrics.Fatigue), fmt.Sprintf("%.0f", d.Metrics.Buffer),
							fmt.Sprintf("%.1f", d.Metrics.Walk), strings.Join(d.Reasons, ","), fmt.Sprint(len(d.Items)))
					}
					if err := renderTable(cmd, t); err != nil {
						return err
					}
				}
				for _, al := range view.Alerts {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Badge(al.GateStatus(), styled(cmd)), al.Message)
				}
				if len(view.Locked) > 0 {
					notef(cmd, "Locked: %s", strings.Join(view.Locked, ", "))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&locks, "lock", nil, "Item ID to keep when regenerating (repeatable)")
	cmd.Flags().BoolVar(&regenerate, "regenerate", false, "Regenerate the plan keeping locked items")
	return cmd
}

func newViewNeptuneCmd() *cobra.Command {
	var apply, action string
	var preview bool
	cmd := &cobra.Command{
		Use:   "neptune <trip-id>",
		Short: "Repair view: Neptune suggestions by item",
		Example: `  tripnara view neptune trip-iceland
  tripnara view neptune trip-iceland --apply sug-glacier --preview`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				trip, err := a.api.Trips.Get(ctx, args[0])
				if err != nil {
					return err
				}
				list, err := a.api.Trips.Suggestions(ctx, args[0], api.SuggestionQuery{Persona: string(models.PersonaNeptune)})
				if err != nil {
					return err
				}
				view := tripview.Neptune(trip, list.Items)

				if apply != "" {
					r, ok := findRepair(view, apply)
					if !ok {
						return fmt.Errorf("no Neptune suggestion %q on trip %s", apply, args[0])
					}
					resp, err := tripview.NewActions(a.api.Trips, args[0]).ApplyRepair(ctx, r, action, preview)
					if err != nil {
						return err
					}
					if jsonOutput() {
						return printJSON(cmd, resp)
					}
					verb := "Applied"
					if preview {
						verb = "Preview of"
					}
					notef(cmd, "%s %s:", verb, r.Suggestion.Title)
					for _, ch := range resp.AppliedChanges {
						fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", ch.Type, ch.Description)
					}
					return nil
				}

				if jsonOutput() {
					return printJSON(cmd, struct {
						tripview.RepairView
						Critical int `json:"critical"`
					}{view, view.Critical()})
				}
				if len(view.Items) == 0 && len(view.Unscoped) == 0 {
					notef(cmd, "Nothing to repair.")
					return nil
				}
				t := ui.NewTable("Item", "Status", "Suggestion", "ID", "Actions")
				for _, it := range view.Items {
					for _, r := range it.Repairs {
						t.AddRow(truncate(it.Item.Title(), 28), ui.Badge(r.Status, styled(cmd)), truncate(r.Suggestion.Title, 40), r.Suggestion.ID, actionIDs(r))
					}
				}
				for _, r := range view.Unscoped {
					t.AddRow("("+orDash(r.Suggestion.Scope)+")", ui.Badge(r.Status, styled(cmd)), truncate(r.Suggestion.Title, 40), r.Suggestion.ID, actionIDs(r))
				}
				if err := renderTable(cmd, t); err != nil {
					return err
				}
				if n := view.Critical(); n > 0 {
					notef(cmd, "%d critical repair(s).", n)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&apply, "apply", "", "Suggestion ID to apply")
	cmd.Flags().StringVar(&action, "action", "", "Action ID within the suggestion (default: its first action)")
	cmd.Flags().BoolVar(&preview, "preview", false, "Preview the changes without applying them")
	return cmd
}

func findRepair(v tripview.RepairView, id string) (tripview.Repair, bool) {
	for _, it := range v.Items {
		for _, r := range it.Repairs {
			if r.Suggestion.ID == id {
				return r, true
			}
		}
	}
	for _, r := range v.Unscoped {
		if r.Suggestion.ID == id {
			return r, true
		}
	}
	return tripview.Repair{}, false
}

func actionIDs(r tripview.Repair) string {
	ids := make([]string, 0, len(r.Suggestion.Actions))
	for _, a := range r.Suggestion.Actions {
		ids = append(ids, a.ID)
	}
	return orDash(strings.Join(ids, ","))
}

func newViewAutoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auto <trip-id>",
		Short: "Warning alerts across every persona",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				alerts, err := a.api.Trips.PersonaAlerts(ctx, args[0])
				if err != nil {
					return err
				}
				entries := tripview.Auto(alerts)
				if jsonOutput() {
					return printJSON(cmd, entries)
				}
				if len(entries) == 0 {
					notef(cmd, "No warnings.")
					return nil
				}
				t := ui.NewTable("Persona", "Status", "Alert", "Message")
				for _, e := range entries {
					t.AddRow(string(e.Alert.Persona), ui.Badge(e.Status, styled(cmd)), truncate(e.Alert.Title, 30), truncate(e.Alert.Message, 50))
				}
				return renderTable(cmd, t)
			})
		},
	}
}
