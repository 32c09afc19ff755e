// ABOUTME: Route direction commands: browse curated routes, their templates, and start a trip from a template
// ABOUTME: create-trip derives the end date from the template length when --end is omitted
package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tripnara/tripnara-go/internal/models"
	"github.com/tripnara/tripnara-go/internal/ui"
)

// NewRoutesCmd creates the route directions command group
func NewRoutesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "routes",
		Aliases: []string{"route-directions"},
		Short:   "Curated route directions and the trip templates built from them",
	}
	cmd.AddCommand(newRoutesListCmd(), newRoutesShowCmd(), newRoutesTemplatesCmd(), newRoutesTemplateCmd(), newRoutesCreateTripCmd())
	return cmd
}

func newRoutesListCmd() *cobra.Command {
	var country string
	var tags []string
	var month int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List route directions",
		Example: `  tripnara routes list --country IS
  tripnara routes list --country IS --tag glacier --month 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month < 0 || month > 12 {
				return fmt.Errorf("--month must be between 1 and 12, got %d", month)
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				dirs, err := a.api.RouteDirections.Query(ctx, models.RouteDirectionQuery{CountryCode: country, Tags: tags, Month: month})
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(cmd, dirs)
				}
				if len(dirs) == 0 {
					notef(cmd, "No route directions match.")
					return nil
				}
				t := ui.NewTable("ID", "Country", "Name", "Tags", "Risk", "Status")
				for _, d := range dirs {
					risk := "-"
					if d.RiskProfile != nil {
						risk = d.RiskProfile.Level
					}
					t.AddRow(fmt.Sprint(d.ID), d.CountryCode, truncate(d.DisplayName(), 30), truncate(strings.Join(d.Tags, ","), 30), risk, orDash(d.Status))
				}
				return renderTable(cmd, t)
			})
		},
	}
	cmd.Flags().StringVar(&country, "country", "", "ISO country code")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Only directions carrying this tag (repeatable)")
	cmd.Flags().IntVar(&month, "month", 0, "Travel month (1-12)")
	return cmd
}

func newRoutesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <direction-id>",
		Short: "Show a route direction with its skeleton itinerary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "direction id")
			if err != nil {
				return err
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				d, err := a.api.RouteDirections.Get(ctx, id)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(cmd, d)
				}
				st := stylesFor(cmd)
				w := cmd.OutOrStdout()
				fmt.Fprintln(w, st.Title.Render(d.DisplayName()))
				if d.Description != "" {
					fmt.Fprintln(w, d.Description)
				}
				fmt.Fprintln(w, st.Muted.Render(fmt.Sprintf("%s · %s · hubs %s", d.CountryCode, strings.Join(d.Regions, ", "), orDash(strings.Join(d.EntryHubs, ", ")))))
				if s := d.Seasonality; s != nil {
					fmt.Fprintf(w, "Best months: %s\n", joinInts(s.BestMonths))
				}
				if r := d.RiskProfile; r != nil {
					fmt.Fprintf(w, "Risk: %s %s\n", r.Level, strings.Join(r.Factors, ", "))
				}
				if sk := d.ItinerarySkeleton; sk != nil && len(sk.DailyPlan) > 0 {
					t := ui.NewTable("Day", "Regions", "Highlights")
					for _, day := range sk.DailyPlan {
						t.AddRow(fmt.Sprint(day.Day), strings.Join(day.Regions, ", "), truncate(strings.Join(day.Highlights, ", "), 50))
					}
					return renderTable(cmd, t)
				}
				return nil
			})
		},
	}
}

func newRoutesTemplatesCmd() *cobra.Command {
	var country string
	var direction int64
	var days int
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List active route templates",
		Long: `List active route templates.

Without --direction every active template is listed and each one is
labelled with its route direction; --country keeps one country.`,
		Example: `  tripnara routes templates --country IS
  tripnara routes templates --direction 3 --days 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if direction < 0 || days < 0 {
				return fmt.Errorf("--direction and --days must be positive")
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				var templates []models.RouteTemplate
				var err error
				if direction > 0 || days > 0 {
					active := true
					templates, err = a.api.RouteDirections.Templates(ctx, models.RouteTemplateQuery{RouteDirectionID: direction, DurationDays: days, IsActive: &active})
				} else {
					templates, err = a.api.RouteDirections.Catalog(ctx, country)
				}
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(cmd, templates)
				}
				if len(templates) == 0 {
					notef(cmd, "No templates found.")
					return nil
				}
				t := ui.NewTable("ID", "Name", "Days", "POIs", "Pace", "Direction")
				for _, tpl := range templates {
					dir := fmt.Sprintf("#%d", tpl.RouteDirectionID)
					if ref := tpl.RouteDirection; ref != nil {
						dir = ref.CountryCode + " " + orDash(ref.NameCN)
					}
					t.AddRow(fmt.Sprint(tpl.ID), truncate(tpl.DisplayName(), 30), fmt.Sprint(tpl.DurationDays),
						fmt.Sprint(tpl.POICount()), orDash(tpl.DefaultPacePreference), truncate(dir, 24))
				}
				return renderTable(cmd, t)
			})
		},
	}
	cmd.Flags().StringVar(&country, "country", "", "ISO country code")
	cmd.Flags().Int64Var(&direction, "direction", 0, "Route direction ID")
	cmd.Flags().IntVar(&days, "days", 0, "Template length in days")
	cmd.MarkFlagsMutuallyExclusive("country", "direction")
	return cmd
}

func newRoutesTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template <template-id>",
		Short: "Show a template's day plans",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "template id")
			if err != nil {
				return err
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				tpl, err := a.api.RouteDirections.Template(ctx, id)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(cmd, tpl)
				}
				fmt.Fprintln(cmd.OutOrStdout(), stylesFor(cmd).Title.Render(tpl.DisplayName()))
				fmt.Fprintf(cmd.OutOrStdout(), "%d days · pace %s\n", tpl.DurationDays, orDash(tpl.DefaultPacePreference))
				if !tpl.Active() {
					ui.Notice(cmd.ErrOrStderr(), stylesFor(cmd), "This template is inactive and cannot start a trip.")
				}
				t := ui.NewTable("Day", "Theme", "POI", "Minutes", "Required")
				for _, d := range tpl.DayPlans {
					if len(d.POIs) == 0 {
						t.AddRow(fmt.Sprint(d.Day), orDash(d.Theme), "-", "-", "")
						continue
					}
					for _, p := range d.POIs {
						minutes := "-"
						if p.DurationMinutes != nil {
							minutes = fmt.Sprint(*p.DurationMinutes)
						}
						req := ""
						if p.Required {
							req = "yes"
						}
						name := p.NameCN
						if p.NameEN != "" {
							name += " (" + p.NameEN + ")"
						}
						t.AddRow(fmt.Sprint(d.Day), truncate(orDash(d.Theme), 24), truncate(name, 36), minutes, req)
					}
				}
				return renderTable(cmd, t)
			})
		},
	}
}

func newRoutesCreateTripCmd() *cobra.Command {
	var destination, start, end, budget, pace string
	cmd := &cobra.Command{
		Use:   "create-trip <template-id>",
		Short: "Start a new trip from a route template",
		Example: `  tripnara routes create-trip 11 --destination IS --start 2026-07-01
  tripnara routes create-trip 11 --destination IS --start 2026-07-01 --end 2026-07-05 --budget 3200 --pace RELAXED`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "template id")
			if err != nil {
				return err
			}
			req := models.CreateTripFromTemplateRequest{
				Destination:    destination,
				StartDate:      start,
				EndDate:        end,
				PacePreference: strings.ToUpper(pace),
			}
			if budget != "" {
				b, err := decimal.NewFromString(budget)
				if err != nil || b.IsNegative() {
					return fmt.Errorf("--budget must be a non-negative amount, got %q", budget)
				}
				req.TotalBudget = &b
			}
			switch req.PacePreference {
			case "", "RELAXED", "BALANCED", "CHALLENGE":
			default:
				return fmt.Errorf("--pace must be RELAXED, BALANCED or CHALLENGE, got %q", pace)
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if req.EndDate == "" {
					tpl, err := a.api.RouteDirections.Template(ctx, id)
					if err != nil {
						return err
					}
					if req.EndDate, err = models.TemplateEndDate(req.StartDate, tpl.DurationDays); err != nil {
						return err
					}
				}
				res, err := a.api.RouteDirections.CreateTrip(ctx, id, req)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(cmd, res)
				}
				notef(cmd, "Created trip %s (%s → %s).", res.Trip.ID, res.Trip.StartDate, res.Trip.EndDate)
				s := res.Stats
				fmt.Fprintf(cmd.OutOrStdout(), "%d days, %d items; %d places matched, %d missing\n",
					s.TotalDays, s.TotalItems, s.PlacesMatched, s.PlacesMissing)
				for _, warning := range res.Warnings {
					ui.Notice(cmd.ErrOrStderr(), stylesFor(cmd), warning)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&destination, "destination", "", "Destination country code (required)")
	cmd.Flags().StringVar(&start, "start", "", "Start date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&end, "end", "", "End date, YYYY-MM-DD (default: start plus the template length)")
	cmd.Flags().StringVar(&budget, "budget", "", "Total budget")
	cmd.Flags().StringVar(&pace, "pace", "", "Override the template pace: RELAXED, BALANCED or CHALLENGE")
	_ = cmd.MarkFlagRequired("destination")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return orDash(strings.Join(parts, ", "))
}
