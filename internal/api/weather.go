// ABOUTME: Current weather lookup by coordinates
package api

import (
	"context"

	"github.com/tripnara/tripnara-go/internal/httpclient"
	"github.com/tripnara/tripnara-go/internal/models"
)

type WeatherService struct {
	c *httpclient.Client
}

func (s *WeatherService) Current(ctx context.Context, p models.WeatherParams) (*models.CurrentWeather, error) {
	req := httpclient.Get("/weather/current").
		WithParam("lat", ftoa(p.Lat)).
		WithParam("lng", ftoa(p.Lng))
	if p.IncludeWindDetails {
		req.WithParam("includeWindDetails", "true")
	}
	if p.IncludeAuroraInfo {
		req.WithParam("includeAuroraInfo", "true")
	}
	return ptr(httpclient.JSON[models.CurrentWeather](ctx, s.c, req))
}
