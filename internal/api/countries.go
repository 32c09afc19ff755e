// ABOUTME: Country reference endpoints: listing, currency strategy, terrain packs, payment info and profile
package api

import (
	"context"
	"strings"

	"github.com/tripnara/tripnara-go/internal/httpclient"
	"github.com/tripnara/tripnara-go/internal/models"
)

type CountriesService struct {
	c *httpclient.Client
}

func (s *CountriesService) List(ctx context.Context, q models.CountryQuery) (*models.CountryList, error) {
	req := httpclient.Get("/countries").
		WithParam("q", q.Q).
		WithParam("limit", itoa(q.Limit)).
		WithParam("offset", itoa(q.Offset))
	return ptr(httpclient.JSON[models.CountryList](ctx, s.c, req))
}

func (s *CountriesService) CurrencyStrategy(ctx context.Context, code string) (*models.CurrencyStrategy, error) {
	return ptr(httpclient.JSON[models.CurrencyStrategy](ctx, s.c, httpclient.Get(pathf("/countries/%s/currency-strategy", iso(code)))))
}

func (s *CountriesService) Pack(ctx context.Context, code string) (*models.CountryPack, error) {
	return ptr(httpclient.JSON[models.CountryPack](ctx, s.c, httpclient.Get(pathf("/countries/%s/pack", iso(code)))))
}

func (s *CountriesService) Packs(ctx context.Context) ([]models.CountryPack, error) {
	return httpclient.JSON[[]models.CountryPack](ctx, s.c, httpclient.Get("/countries/packs"))
}

func (s *CountriesService) UpdatePack(ctx context.Context, code string, pack models.CountryPack) (*models.CountryPack, error) {
	return ptr(httpclient.JSON[models.CountryPack](ctx, s.c, httpclient.Put(pathf("/countries/%s/pack", iso(code)), pack)))
}

func (s *CountriesService) PaymentInfo(ctx context.Context, code string) (*models.PaymentInfo, error) {
	return ptr(httpclient.JSON[models.PaymentInfo](ctx, s.c, httpclient.Get(pathf("/countries/%s/payment-info", iso(code)))))
}

func (s *CountriesService) TerrainAdvice(ctx context.Context, code string) (*models.TerrainAdvice, error) {
	return ptr(httpclient.JSON[models.TerrainAdvice](ctx, s.c, httpclient.Get(pathf("/countries/%s/terrain-advice", iso(code)))))
}

func (s *CountriesService) Profile(ctx context.Context, code string) (models.CountryProfile, error) {
	return httpclient.JSON[models.CountryProfile](ctx, s.c, httpclient.Get(pathf("/countries/%s/profile", iso(code))))
}

func iso(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
