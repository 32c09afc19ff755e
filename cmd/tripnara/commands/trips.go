// ABOUTME: Trip commands: list, show, overview (optionally live), regenerate and replace
// ABOUTME: Overview tolerates partial failures and reports which parts were unavailable
package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tripnara/tripnara-go/internal/api"
	"github.com/tripnara/tripnara-go/internal/gate"
	"github.com/tripnara/tripnara-go/internal/models"
	"github.com/tripnara/tripnara-go/internal/poll"
	"github.com/tripnara/tripnara-go/internal/tripview"
	"github.com/tripnara/tripnara-go/internal/ui"
)

// NewTripsCmd creates the trips command group
func NewTripsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "trips",
		Aliases: []string{"trip"},
		Short:   "List and inspect trips",
	}
	cmd.AddCommand(newTripsListCmd(), newTripsShowCmd(), newTripsOverviewCmd(), newTripsRegenerateCmd(), newTripsReplaceCmd())
	return cmd
}

func newTripsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your trips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				trips, err := a.api.Trips.List(ctx)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(cmd, trips)
				}
				if len(trips) == 0 {
					notef(cmd, "No trips yet.")
					return nil
				}
				t := ui.NewTable("ID", "Destination", "Dates", "Status", "Budget", "Updated")
				for _, tr := range trips {
					t.AddRow(tr.ID, truncate(tr.Destination, 32), tr.StartDate+" → "+tr.EndDate,
						string(tr.Status), tr.TotalBudget.StringFixed(2), orDash(formatTime(tr.UpdatedAt)))
				}
				return renderTable(cmd, t)
			})
		},
	}
}

func newTripsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <trip-id>",
		Short: "Show a trip's itinerary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				trip, err := a.api.Trips.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(cmd, trip)
				}
				printTripHeader(cmd, trip)
				return renderItinerary(cmd, trip)
			})
		},
	}
}

func printTripHeader(cmd *cobra.Command, trip *models.TripDetail) {
	st := stylesFor(cmd)
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, st.Title.Render(trip.Destination))
	fmt.Fprintf(w, "%s → %s · %s · budget %s\n", trip.StartDate, trip.EndDate, trip.Status, trip.TotalBudget.StringFixed(2))
	s := trip.Statistics
	fmt.Fprintln(w, st.Muted.Render(fmt.Sprintf("%d days, %d items, progress %s", s.TotalDays, s.TotalItems, orDash(s.Progress))))
}

func renderItinerary(cmd *cobra.Command, trip *models.TripDetail) error {
	t := ui.NewTable("Date", "Time", "Item", "Type", "ID")
	for _, d := range trip.Days {
		for _, it := range d.Items {
			t.AddRow(d.Date, itemTime(it), truncate(it.Title(), 40), it.Type, it.ID)
		}
	}
	if len(t.Rows) == 0 {
		notef(cmd, "No itinerary items yet.")
		return nil
	}
	return renderTable(cmd, t)
}

func itemTime(it models.ItineraryItem) string {
	start, end := clock(it.StartTime), clock(it.EndTime)
	if start == "" {
		return "-"
	}
	if end == "" {
		return start
	}
	return start + "-" + end
}

// clock extracts HH:MM from an RFC 3339 or bare time value.
func clock(raw string) string {
	if i := strings.IndexByte(raw, 'T'); i >= 0 {
		raw = raw[i+1:]
	}
	if len(raw) >= 5 {
		return raw[:5]
	}
	return raw
}

func newTripsOverviewCmd() *cobra.Command {
	var watch bool
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "overview <trip-id>",
		Short: "Show detail, live state, alerts, conflicts and metrics together",
		Long: `Load every part of a trip's status at once.

Parts are fetched in parallel and settle independently: if one endpoint
fails the rest still render and the missing parts are listed.

With --watch the overview refreshes until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if metricsAddr != "" && !watch {
				return fmt.Errorf("--metrics-addr requires --watch")
			}
			return withApp(cmd, appOptions{metrics: metricsAddr != ""}, func(ctx context.Context, a *app) error {
				show := func(ctx context.Context) error {
					ov, err := a.api.Overview.Load(ctx, args[0])
					if err != nil {
						return err
					}
					if ov.AllFailed() {
						return ov.Errors[api.PartDetail]
					}
					return printOverview(cmd, ov)
				}
				if !watch {
					return show(ctx)
				}
				if metricsAddr != "" {
					stop, err := serveMetrics(a, metricsAddr)
					if err != nil {
						return err
					}
					defer stop()
				}
				p := poll.Poller{
					Visible: a.cfg.VisiblePollInterval,
					Hidden:  a.cfg.HiddenPollInterval,
					OnError: func(err error) {
						a.logger.Warn("overview refresh failed", zap.Error(err))
					},
				}
				return p.Run(ctx, func(ctx context.Context) error {
					err := show(ctx)
					if a.metrics != nil {
						outcome := "ok"
						if err != nil {
							outcome = "error"
						}
						a.metrics.ObservePoll("trip_overview", outcome)
					}
					return err
				})
			})
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Refresh until interrupted")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "With --watch, serve Prometheus metrics on this address")
	return cmd
}

type overviewJSON struct {
	Trip        *models.TripDetail    `json:"trip,omitempty"`
	State       *models.TripState     `json:"state,omitempty"`
	Alerts      []models.PersonaAlert `json:"alerts"`
	Conflicts   []models.TripConflict `json:"conflicts"`
	Metrics     *models.TripMetrics   `json:"metrics,omitempty"`
	Unavailable []string              `json:"unavailable,omitempty"`
}

func printOverview(cmd *cobra.Command, ov *api.TripOverview) error {
	var conflicts []models.TripConflict
	if ov.Conflicts != nil {
		conflicts = ov.Conflicts.Conflicts
	}
	if jsonOutput() {
		return printJSON(cmd, overviewJSON{
			Trip: ov.Detail, State: ov.State, Alerts: ov.Alerts, Conflicts: conflicts,
			Metrics: ov.Metrics, Unavailable: ov.Failed(),
		})
	}

	st := stylesFor(cmd)
	w := cmd.OutOrStdout()
	if ov.Detail != nil {
		printTripHeader(cmd, ov.Detail)
	}
	if s := ov.State; s != nil && s.NextStop != nil {
		fmt.Fprintf(w, "Next: %s at %s\n", s.NextStop.PlaceName, clock(s.NextStop.StartTime))
	}

	worst := gate.Allow
	for _, al := range ov.Alerts {
		worst = gate.Worst(worst, al.GateStatus())
	}
	for _, c := range conflicts {
		worst = gate.Worst(worst, gate.FromSeverity(c.Severity))
	}
	fmt.Fprintf(w, "Gate: %s\n", ui.Badge(worst, styled(cmd)))

	if len(ov.Alerts) > 0 {
		t := ui.NewTable("Persona", "Status", "Alert", "Message")
		for _, al := range ov.Alerts {
			t.AddRow(string(al.Persona), ui.Badge(al.GateStatus(), styled(cmd)), truncate(al.Title, 30), truncate(al.Message, 50))
		}
		if err := renderTable(cmd, t); err != nil {
			return err
		}
	}
	if len(conflicts) > 0 {
		t := ui.NewTable("Conflict", "Severity", "Days", "Title")
		for _, c := range conflicts {
			t.AddRow(c.ID, c.Severity, strings.Join(c.AffectedDays, ","), truncate(c.Title, 50))
		}
		if err := renderTable(cmd, t); err != nil {
			return err
		}
	}
	if m := ov.Metrics; m != nil {
		fmt.Fprintf(w, "Totals: walk %.1f km, drive %.1f km, fatigue %.0f\n",
			m.Summary.TotalWalk, m.Summary.TotalDrive, m.Summary.TotalFatigue)
	}
	if failed := ov.Failed(); len(failed) > 0 {
		ui.Notice(cmd.ErrOrStderr(), st, "Unavailable: "+strings.Join(failed, ", "))
	}
	return nil
}

func newTripsRegenerateCmd() *cobra.Command {
	var locks []string
	cmd := &cobra.Command{
		Use:   "regenerate <trip-id>",
		Short: "Regenerate a plan, keeping locked items in place",
		Example: `  tripnara trips regenerate trip-iceland --lock item-blue-lagoon --lock item-glacier-hike`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				set := &tripview.LockSet{}
				for _, id := range locks {
					if !set.Locked(id) {
						set.Toggle(id)
					}
				}
				resp, err := tripview.NewActions(a.api.Trips, args[0]).Regenerate(ctx, set)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(cmd, resp)
				}
				return printChanges(cmd, resp.Changes)
			})
		},
	}
	cmd.Flags().StringSliceVar(&locks, "lock", nil, "Item ID to keep unchanged (repeatable)")
	return cmd
}

func printChanges(cmd *cobra.Command, changes []models.TripChange) error {
	if len(changes) == 0 {
		notef(cmd, "Plan regenerated with no changes.")
		return nil
	}
	t := ui.NewTable("Day", "Slot", "Change", "Place", "Reason")
	for _, c := range changes {
		t.AddRow(fmt.Sprint(c.Day), c.Slot, c.Type, truncate(c.PlaceName, 30), truncate(c.Reason, 40))
	}
	return renderTable(cmd, t)
}

func newTripsReplaceCmd() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "replace <trip-id> <item-id>",
		Short: "Ask for a replacement for one itinerary item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(reason) == "" {
				return fmt.Errorf("--reason is required")
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				resp, err := tripview.NewActions(a.api.Trips, args[0]).Replace(ctx, args[1], reason)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(cmd, resp)
				}
				if len(resp.Alternatives) == 0 {
					notef(cmd, "Item replaced.")
					return nil
				}
				t := ui.NewTable("Place", "Score", "Reason")
				for _, alt := range resp.Alternatives {
					t.AddRow(truncate(alt.PlaceName, 32), fmt.Sprintf("%.2f", alt.Score), truncate(alt.Reason, 48))
				}
				return renderTable(cmd, t)
			})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Why the item should be replaced")
	return cmd
}
