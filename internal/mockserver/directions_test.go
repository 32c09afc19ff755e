package mockserver

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripnara/tripnara-go/internal/httpclient"
	"github.com/tripnara/tripnara-go/internal/models"
)

func TestRouteDirectionsByCountry(t *testing.T) {
	_, a, _ := setup(t, Options{OpenAuth: true})
	ctx := context.Background()

	dirs, err := a.RouteDirections.Query(ctx, models.RouteDirectionQuery{CountryCode: "is", Tags: []string{"glacier"}})
	require.NoError(t, err)
	require.Len(t, dirs, 1)
	assert.Equal(t, int64(3), dirs[0].ID)

	byCountry, err := a.RouteDirections.ByCountry(ctx, "IS", nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, byCountry.Active, 1)
	assert.Len(t, byCountry.Deprecated, 1)

	_, err = a.RouteDirections.Get(ctx, 404)
	assert.True(t, httpclient.IsNotFound(err))
}

func TestTemplateCatalogResolvesDirections(t *testing.T) {
	_, a, _ := setup(t, Options{OpenAuth: true})

	all, err := a.RouteDirections.Catalog(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2, "inactive templates are hidden")
	require.NotNil(t, all[1].RouteDirection)
	assert.Equal(t, "JP", all[1].CountryCode())

	japan, err := a.RouteDirections.Catalog(context.Background(), "JP")
	require.NoError(t, err)
	require.Len(t, japan, 1)
	assert.Equal(t, "Kyoto Weekend", japan[0].DisplayName())
}

func TestUpdateTemplate(t *testing.T) {
	_, a, _ := setup(t, Options{OpenAuth: true})
	ctx := context.Background()
	inactive := false

	updated, err := a.RouteDirections.UpdateTemplate(ctx, 12, models.UpdateRouteTemplateRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active())

	got, err := a.RouteDirections.Template(ctx, 12)
	require.NoError(t, err)
	assert.False(t, got.Active())

	zero := 0
	_, err = a.RouteDirections.UpdateTemplate(ctx, 12, models.UpdateRouteTemplateRequest{DurationDays: &zero})
	require.Error(t, err)
}

func TestCreateTripFromTemplate(t *testing.T) {
	_, a, _ := setup(t, Options{OpenAuth: true})
	ctx := context.Background()
	budget := decimal.NewFromInt(900)

	res, err := a.RouteDirections.CreateTrip(ctx, 12, models.CreateTripFromTemplateRequest{
		Destination: "jp", StartDate: "2026-10-20", EndDate: "2026-10-21", TotalBudget: &budget,
	})
	require.NoError(t, err)
	assert.Equal(t, "JP", res.Trip.Destination)
	assert.True(t, budget.Equal(res.Trip.TotalBudget))
	assert.Equal(t, models.TemplateTripStats{TotalDays: 2, TotalItems: 2, PlacesMatched: 2, PlacesMissing: 1}, res.Stats)
	require.Len(t, res.GeneratedItems, 2)
	assert.Equal(t, "2026-10-21", res.GeneratedItems[1].Date)
	assert.Len(t, res.Warnings, 1)

	short, err := a.RouteDirections.CreateTrip(ctx, 11, models.CreateTripFromTemplateRequest{
		Destination: "IS", StartDate: "2026-07-01", EndDate: "2026-07-02",
	})
	require.NoError(t, err)
	assert.Len(t, short.GeneratedItems, 2)
	assert.Contains(t, short.Warnings[len(short.Warnings)-1], "later days were dropped")

	_, err = a.RouteDirections.CreateTrip(ctx, 13, models.CreateTripFromTemplateRequest{
		Destination: "IS", StartDate: "2026-07-01", EndDate: "2026-07-05",
	})
	var apiErr *httpclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "TEMPLATE_INACTIVE", apiErr.Code)
}
