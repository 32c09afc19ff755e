// ABOUTME: Route direction endpoints and the route templates derived from them, including create-trip-from-template
// ABOUTME: Catalog resolves templates whose embedded direction is missing with bounded parallel lookups
package api

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/tripnara/tripnara-go/internal/httpclient"
	"github.com/tripnara/tripnara-go/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MaxDirectionLookups caps how many missing directions Catalog fetches per call.
const MaxDirectionLookups = 10

type RouteDirectionsService struct {
	c      *httpclient.Client
	logger *zap.Logger
}

func (s *RouteDirectionsService) Query(ctx context.Context, q models.RouteDirectionQuery) ([]models.RouteDirection, error) {
	req := httpclient.Get("/route-directions").
		WithParam("countryCode", iso(q.CountryCode)).
		WithParam("tag", q.Tag).
		WithParam("tags", strings.Join(q.Tags, ",")).
		WithParam("isActive", boolParam(q.IsActive)).
		WithParam("month", itoa(q.Month))
	return httpclient.JSON[[]models.RouteDirection](ctx, s.c, req)
}

func (s *RouteDirectionsService) Get(ctx context.Context, id int64) (*models.RouteDirection, error) {
	return ptr(httpclient.JSON[models.RouteDirection](ctx, s.c, httpclient.Get(fmt.Sprintf("/route-directions/%d", id))))
}

func (s *RouteDirectionsService) Cards(ctx context.Context, q models.RouteMatchQuery) ([]models.RouteDirectionCard, error) {
	return httpclient.JSON[[]models.RouteDirectionCard](ctx, s.c, matchRequest("/route-directions/cards", q))
}

func (s *RouteDirectionsService) Interactions(ctx context.Context, q models.RouteMatchQuery) (*models.RouteDirectionInteractions, error) {
	return ptr(httpclient.JSON[models.RouteDirectionInteractions](ctx, s.c, matchRequest("/route-directions/interactions", q)))
}

func (s *RouteDirectionsService) ByCountry(ctx context.Context, countryCode string, tags []string, month, limit int) (*models.RouteDirectionsByCountry, error) {
	req := httpclient.Get(pathf("/route-directions/by-country/%s", iso(countryCode))).
		WithParam("tags", strings.Join(tags, ",")).
		WithParam("month", itoa(month)).
		WithParam("limit", itoa(limit))
	return ptr(httpclient.JSON[models.RouteDirectionsByCountry](ctx, s.c, req))
}

func (s *RouteDirectionsService) Templates(ctx context.Context, q models.RouteTemplateQuery) ([]models.RouteTemplate, error) {
	req := httpclient.Get("/route-directions/templates").
		WithParam("routeDirectionId", i64toa(q.RouteDirectionID)).
		WithParam("durationDays", itoa(q.DurationDays)).
		WithParam("isActive", boolParam(q.IsActive)).
		WithParam("limit", itoa(q.Limit)).
		WithParam("offset", itoa(q.Offset))
	return httpclient.JSON[[]models.RouteTemplate](ctx, s.c, req)
}

func (s *RouteDirectionsService) Template(ctx context.Context, id int64) (*models.RouteTemplate, error) {
	return ptr(httpclient.JSON[models.RouteTemplate](ctx, s.c, httpclient.Get(fmt.Sprintf("/route-directions/templates/%d", id))))
}

func (s *RouteDirectionsService) UpdateTemplate(ctx context.Context, id int64, req models.UpdateRouteTemplateRequest) (*models.RouteTemplate, error) {
	return ptr(httpclient.JSON[models.RouteTemplate](ctx, s.c, httpclient.Put(fmt.Sprintf("/route-directions/templates/%d", id), req)))
}

// CreateTrip seeds a new trip from a template. The request is validated before it is sent.
func (s *RouteDirectionsService) CreateTrip(ctx context.Context, templateID int64, req models.CreateTripFromTemplateRequest) (*models.CreateTripFromTemplateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.Destination = iso(req.Destination)
	r := httpclient.Post(fmt.Sprintf("/route-directions/templates/%d/create-trip", templateID), req).WithTimeout(EngineTimeout)
	return ptr(httpclient.JSON[models.CreateTripFromTemplateResult](ctx, s.c, r))
}

// TemplatesForDraft loads the templates of the route direction a plan draft was built on.
func (s *RouteDirectionsService) TemplatesForDraft(ctx context.Context, draft models.RoutePlanDraft) ([]models.RouteTemplate, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(draft.RouteDirectionID), 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("draft for trip %s has no usable route direction id %q", draft.TripID, draft.RouteDirectionID)
	}
	return s.Templates(ctx, models.RouteTemplateQuery{RouteDirectionID: id})
}

// Catalog lists active templates, optionally for one country. Templates returned without
// their direction get it resolved by ID; lookups that fail leave the template unresolved.
func (s *RouteDirectionsService) Catalog(ctx context.Context, countryCode string) ([]models.RouteTemplate, error) {
	all, err := s.Templates(ctx, models.RouteTemplateQuery{})
	if err != nil {
		return nil, err
	}
	templates := make([]models.RouteTemplate, 0, len(all))
	for _, t := range all {
		if t.Active() {
			templates = append(templates, t)
		}
	}

	var missing []int64
	seen := map[int64]bool{}
	for _, t := range templates {
		if t.RouteDirection == nil && t.RouteDirectionID > 0 && !seen[t.RouteDirectionID] {
			seen[t.RouteDirectionID] = true
			missing = append(missing, t.RouteDirectionID)
		}
	}
	if len(missing) > MaxDirectionLookups {
		missing = missing[:MaxDirectionLookups]
	}

	resolved := map[int64]*models.RouteDirectionRef{}
	var mu sync.Mutex
	var g errgroup.Group
	for _, id := range missing {
		g.Go(func() error {
			d, err := s.Get(ctx, id)
			if err != nil {
				s.logger.Debug("route direction lookup failed", zap.Int64("route_direction_id", id), zap.Error(err))
				return nil
			}
			mu.Lock()
			resolved[id] = d.Ref()
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := templates[:0]
	want := iso(countryCode)
	for _, t := range templates {
		if t.RouteDirection == nil {
			t.RouteDirection = resolved[t.RouteDirectionID]
		}
		if want != "" && t.CountryCode() != want {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func matchRequest(path string, q models.RouteMatchQuery) *httpclient.Request {
	return httpclient.Get(path).
		WithParam("countryCode", iso(q.CountryCode)).
		WithParam("month", itoa(q.Month)).
		WithParam("preferences", strings.Join(q.Preferences, ",")).
		WithParam("pace", q.Pace).
		WithParam("riskTolerance", q.RiskTolerance)
}

func boolParam(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

func i64toa(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}
