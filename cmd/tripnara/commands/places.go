// ABOUTME: Place commands: text search, nearby search and image upload
package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tripnara/tripnara-go/internal/api"
	"github.com/tripnara/tripnara-go/internal/models"
	"github.com/tripnara/tripnara-go/internal/ui"
)

// NewPlacesCmd creates the places command group
func NewPlacesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "places",
		Aliases: []string{"place"},
		Short:   "Search places and manage their images",
	}
	cmd.AddCommand(newPlacesSearchCmd(), newPlacesNearbyCmd(), newPlacesUploadCmd())
	return cmd
}

func printPlaces(cmd *cobra.Command, places []models.Place) error {
	if jsonOutput() {
		return printJSON(cmd, places)
	}
	if len(places) == 0 {
		notef(cmd, "No places found.")
		return nil
	}
	t := ui.NewTable("ID", "Name", "Category", "Rating", "Distance", "Address")
	for _, p := range places {
		dist := "-"
		if p.DistanceM != nil {
			dist = fmt.Sprintf("%.0f m", *p.DistanceM)
		}
		t.AddRow(fmt.Sprint(p.ID), truncate(p.Name(), 32), p.Category, fmt.Sprintf("%.1f", p.Rating), dist, truncate(orDash(p.Address), 40))
	}
	return renderTable(cmd, t)
}

func newPlacesSearchCmd() *cobra.Command {
	var category string
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search places by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePositiveInt(limit, "limit"); err != nil {
				return err
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				places, err := a.api.Places.Search(ctx, models.PlaceSearchParams{Query: args[0], Category: category, Limit: limit})
				if err != nil {
					return err
				}
				return printPlaces(cmd, places)
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Restrict to a category")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum results")
	return cmd
}

func newPlacesNearbyCmd() *cobra.Command {
	var lat, lng float64
	var radius, limit int
	var category string
	cmd := &cobra.Command{
		Use:     "nearby",
		Short:   "Find places around a coordinate",
		Example: `  tripnara places nearby --lat 64.1466 --lng -21.9426 --radius 2000`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lng") {
				return fmt.Errorf("--lat and --lng are required")
			}
			if err := validatePositiveInt(radius, "radius"); err != nil {
				return err
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				places, err := a.api.Places.Nearby(ctx, models.NearbyParams{Lat: lat, Lng: lng, RadiusM: radius, Category: category, Limit: limit})
				if err != nil {
					return err
				}
				return printPlaces(cmd, places)
			})
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude")
	cmd.Flags().IntVar(&radius, "radius", 1000, "Search radius in meters")
	cmd.Flags().StringVar(&category, "category", "", "Restrict to a category")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum results")
	return cmd
}

func newPlacesUploadCmd() *cobra.Command {
	var captions []string
	cmd := &cobra.Command{
		Use:   "upload <place-id> <image>...",
		Short: "Upload images for a place",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			placeID, err := parseID(args[0], "place-id")
			if err != nil {
				return err
			}
			images := make([]api.Image, 0, len(args)-1)
			for _, path := range args[1:] {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading image: %w", err)
				}
				images = append(images, api.Image{Name: filepath.Base(path), Content: data})
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				res, err := a.api.Upload.UploadPlaceImages(ctx, placeID, images, captions)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(cmd, res)
				}
				notef(cmd, "Uploaded %d image(s) to %s; %d total.", len(res.NewImages), orDash(res.PlaceName), res.TotalImages)
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&captions, "caption", nil, "Caption for the image at the same position (repeatable)")
	return cmd
}
