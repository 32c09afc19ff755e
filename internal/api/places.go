// ABOUTME: Place, hotel and trail lookups plus place-image batch fetching
// ABOUTME: Image batch fetching degrades to an all-failed result instead of returning an error
package api

import (
	"context"
	"strconv"

	"github.com/tripnara/tripnara-go/internal/httpclient"
	"github.com/tripnara/tripnara-go/internal/models"
	"go.uber.org/zap"
)

type PlacesService struct {
	c *httpclient.Client
}

func (s *PlacesService) Search(ctx context.Context, p models.PlaceSearchParams) ([]models.Place, error) {
	req := httpclient.Get("/places/search").
		WithParam("q", p.Query).
		WithParam("category", p.Category).
		WithParam("limit", itoa(p.Limit))
	return httpclient.JSON[[]models.Place](ctx, s.c, req)
}

func (s *PlacesService) Nearby(ctx context.Context, p models.NearbyParams) ([]models.Place, error) {
	req := httpclient.Get("/places/nearby").
		WithParam("lat", ftoa(p.Lat)).
		WithParam("lng", ftoa(p.Lng)).
		WithParam("radius", itoa(p.RadiusM)).
		WithParam("category", p.Category).
		WithParam("limit", itoa(p.Limit))
	return httpclient.JSON[[]models.Place](ctx, s.c, req)
}

func (s *PlacesService) Autocomplete(ctx context.Context, q string, limit int) ([]models.Autocomplete, error) {
	req := httpclient.Get("/places/autocomplete").WithParam("q", q).WithParam("limit", itoa(limit))
	return httpclient.JSON[[]models.Autocomplete](ctx, s.c, req)
}

func (s *PlacesService) SemanticSearch(ctx context.Context, req models.SemanticSearchRequest) ([]models.Place, error) {
	return httpclient.JSON[[]models.Place](ctx, s.c, httpclient.Post("/places/semantic-search", req))
}

func (s *PlacesService) Detail(ctx context.Context, id int64) (*models.Place, error) {
	return ptr(httpclient.JSON[models.Place](ctx, s.c, httpclient.Get("/places/"+strconv.FormatInt(id, 10))))
}

// Recommendations returns places suggested for a trip.
func (s *PlacesService) Recommendations(ctx context.Context, tripID string, limit int) ([]models.Place, error) {
	req := httpclient.Get("/places/recommendations").WithParam("tripId", tripID).WithParam("limit", itoa(limit))
	return httpclient.JSON[[]models.Place](ctx, s.c, req)
}

// RecommendHotels is a convenience over HotelsService for place-centric callers.
func (s *PlacesService) RecommendHotels(ctx context.Context, p models.HotelRecommendationParams) ([]models.Hotel, error) {
	return (&HotelsService{c: s.c}).Recommendations(ctx, p)
}

type HotelsService struct {
	c *httpclient.Client
}

func (s *HotelsService) Recommendations(ctx context.Context, p models.HotelRecommendationParams) ([]models.Hotel, error) {
	req := httpclient.Get("/hotels/recommendations").
		WithParam("tripId", p.TripID).
		WithParam("city", p.City).
		WithParam("budget", p.Budget).
		WithParam("checkIn", p.CheckIn).
		WithParam("checkOut", p.CheckOut)
	return httpclient.JSON[[]models.Hotel](ctx, s.c, req)
}

type TrailsService struct {
	c *httpclient.Client
}

func (s *TrailsService) List(ctx context.Context, difficulty string) ([]models.Trail, error) {
	return httpclient.JSON[[]models.Trail](ctx, s.c, httpclient.Get("/trails").WithParam("difficulty", difficulty))
}

func (s *TrailsService) Get(ctx context.Context, id int64) (*models.Trail, error) {
	return ptr(httpclient.JSON[models.Trail](ctx, s.c, httpclient.Get("/trails/"+strconv.FormatInt(id, 10))))
}

type PlaceImagesService struct {
	c      *httpclient.Client
	logger *zap.Logger
}

// BatchGet fetches one photo per place. The endpoint has no envelope.
// Any failure yields a result where every place is marked failed, so galleries can render empty.
func (s *PlaceImagesService) BatchGet(ctx context.Context, places []models.PlaceImageRequest) models.BatchPlaceImages {
	if len(places) == 0 {
		return models.BatchPlaceImages{Success: true, Results: []models.PlaceImageResult{}}
	}
	body := map[string]any{"places": places}
	out, err := httpclient.Bare[models.BatchPlaceImages](ctx, s.c, httpclient.Post("/places/images/batch", body))
	if err == nil {
		return out
	}
	if !httpclient.IsCanceled(err) {
		s.logger.Warn("place image batch failed", zap.Int("places", len(places)), zap.Error(err))
	}
	return allFailed(places, err)
}

func allFailed(places []models.PlaceImageRequest, err error) models.BatchPlaceImages {
	results := make([]models.PlaceImageResult, len(places))
	for i, p := range places {
		results[i] = models.PlaceImageResult{
			PlaceID:   p.PlaceID,
			PlaceName: p.PlaceName,
			Error:     err.Error(),
		}
	}
	return models.BatchPlaceImages{
		Success: false,
		Results: results,
		Stats:   models.BatchImageStats{Total: len(places), Failed: len(places)},
	}
}

func (s *PlaceImagesService) CacheStats(ctx context.Context) (*models.ImageCacheStats, error) {
	return ptr(httpclient.Flexible[models.ImageCacheStats](ctx, s.c, httpclient.Get("/places/images/cache-stats")))
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
