// ABOUTME: Current weather command for a coordinate, with optional wind and aurora detail
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tripnara/tripnara-go/internal/gate"
	"github.com/tripnara/tripnara-go/internal/models"
	"github.com/tripnara/tripnara-go/internal/ui"
)

// NewWeatherCmd creates the weather command
func NewWeatherCmd() *cobra.Command {
	var lat, lng float64
	var wind, aurora bool
	cmd := &cobra.Command{
		Use:     "weather",
		Short:   "Show current weather at a coordinate",
		Example: `  tripnara weather --lat 63.4186 --lng -19.0060 --wind`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lng") {
				return fmt.Errorf("--lat and --lng are required")
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				cw, err := a.api.Weather.Current(ctx, models.WeatherParams{Lat: lat, Lng: lng, IncludeWindDetails: wind, IncludeAuroraInfo: aurora})
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(cmd, cw)
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "%s, %.1f°C, wind %.1f m/s\n", cw.Condition, cw.Temperature, cw.WindSpeed)
				if cw.FeelsLikeTemperature != nil {
					fmt.Fprintf(w, "Feels like %.1f°C\n", *cw.FeelsLikeTemperature)
				}
				for _, al := range cw.Alerts {
					fmt.Fprintf(w, "%s %s: %s\n", ui.Badge(gate.FromSeverity(al.Severity), styled(cmd)), al.Title, al.Description)
				}
				fmt.Fprintln(w, stylesFor(cmd).Muted.Render(fmt.Sprintf("%s · updated %s", orDash(cw.Source), formatTime(cw.LastUpdated))))
				return nil
			})
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude")
	cmd.Flags().BoolVar(&wind, "wind", false, "Include wind details")
	cmd.Flags().BoolVar(&aurora, "aurora", false, "Include aurora information")
	return cmd
}
