// ABOUTME: Trip resource endpoints: CRUD, live state, persona alerts, conflicts, metrics, budget and suggestions
package api

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/tripnara/tripnara-go/internal/httpclient"
	"github.com/tripnara/tripnara-go/internal/models"
)

type TripsService struct {
	c *httpclient.Client
}

func (s *TripsService) List(ctx context.Context) ([]models.TripListItem, error) {
	return httpclient.JSON[[]models.TripListItem](ctx, s.c, httpclient.Get("/trips"))
}

func (s *TripsService) Get(ctx context.Context, id string) (*models.TripDetail, error) {
	return ptr(httpclient.JSON[models.TripDetail](ctx, s.c, httpclient.Get(pathf("/trips/%s", id))))
}

func (s *TripsService) Create(ctx context.Context, req models.CreateTripRequest) (*models.TripDetail, error) {
	return ptr(httpclient.JSON[models.TripDetail](ctx, s.c, httpclient.Post("/trips", req)))
}

func (s *TripsService) Update(ctx context.Context, id string, req models.CreateTripRequest) (*models.TripDetail, error) {
	return ptr(httpclient.JSON[models.TripDetail](ctx, s.c, httpclient.Put(pathf("/trips/%s", id), req)))
}

func (s *TripsService) Delete(ctx context.Context, id string) error {
	return httpclient.Exec(ctx, s.c, httpclient.Delete(pathf("/trips/%s", id)))
}

func (s *TripsService) State(ctx context.Context, id string) (*models.TripState, error) {
	return ptr(httpclient.JSON[models.TripState](ctx, s.c, httpclient.Get(pathf("/trips/%s/state", id))))
}

// Schedule returns the day schedule; an empty date means the current day.
func (s *TripsService) Schedule(ctx context.Context, id, date string) (*models.Schedule, error) {
	req := httpclient.Get(pathf("/trips/%s/schedule", id)).WithParam("date", date)
	return ptr(httpclient.JSON[models.Schedule](ctx, s.c, req))
}

func (s *TripsService) Actions(ctx context.Context, id string) ([]models.ActionHistory, error) {
	return httpclient.JSON[[]models.ActionHistory](ctx, s.c, httpclient.Get(pathf("/trips/%s/actions", id)))
}

// PersonaAlerts tolerates the bare-array and {active:[...]} payload shapes.
func (s *TripsService) PersonaAlerts(ctx context.Context, id string) ([]models.PersonaAlert, error) {
	alerts, err := httpclient.JSON[models.PersonaAlerts](ctx, s.c, httpclient.Get(pathf("/trips/%s/persona-alerts", id)))
	return []models.PersonaAlert(alerts), err
}

func (s *TripsService) Tasks(ctx context.Context, id string) ([]models.Task, error) {
	return httpclient.JSON[[]models.Task](ctx, s.c, httpclient.Get(pathf("/trips/%s/tasks", id)))
}

func (s *TripsService) Conflicts(ctx context.Context, id string) (*models.ConflictsResponse, error) {
	return ptr(httpclient.JSON[models.ConflictsResponse](ctx, s.c, httpclient.Get(pathf("/trips/%s/conflicts", id))))
}

func (s *TripsService) Metrics(ctx context.Context, id string) (*models.TripMetrics, error) {
	return ptr(httpclient.JSON[models.TripMetrics](ctx, s.c, httpclient.Get(pathf("/trips/%s/metrics", id))))
}

func (s *TripsService) DayMetrics(ctx context.Context, id, dayID string) (*models.DayMetricsResponse, error) {
	return ptr(httpclient.JSON[models.DayMetricsResponse](ctx, s.c, httpclient.Get(pathf("/trips/%s/days/%s/metrics", id, dayID))))
}

func (s *TripsService) BudgetSummary(ctx context.Context, id string) (*models.BudgetSummary, error) {
	return ptr(httpclient.JSON[models.BudgetSummary](ctx, s.c, httpclient.Get(pathf("/trips/%s/budget/summary", id))))
}

func (s *TripsService) Regenerate(ctx context.Context, id string, req models.RegenerateRequest) (*models.RegenerateResponse, error) {
	r := httpclient.Post(pathf("/trips/%s/regenerate", id), req).WithTimeout(EngineTimeout)
	return ptr(httpclient.JSON[models.RegenerateResponse](ctx, s.c, r))
}

func (s *TripsService) ReplaceItem(ctx context.Context, id, itemID string, req models.ReplaceItemRequest) (*models.ReplaceItemResponse, error) {
	r := httpclient.Post(pathf("/trips/%s/items/%s/replace", id, itemID), req).WithTimeout(EngineTimeout)
	return ptr(httpclient.JSON[models.ReplaceItemResponse](ctx, s.c, r))
}

// SuggestionQuery filters Suggestions. Zero values are omitted.
type SuggestionQuery struct {
	Persona  string
	Scope    string
	ScopeID  string
	Severity string
	Status   string
	Limit    int
	Offset   int
}

func (s *TripsService) Suggestions(ctx context.Context, id string, q SuggestionQuery) (*models.SuggestionList, error) {
	req := httpclient.Get(pathf("/trips/%s/suggestions", id)).
		WithParam("persona", q.Persona).
		WithParam("scope", q.Scope).
		WithParam("scopeId", q.ScopeID).
		WithParam("severity", q.Severity).
		WithParam("status", q.Status).
		WithParam("limit", itoa(q.Limit)).
		WithParam("offset", itoa(q.Offset))
	return ptr(httpclient.JSON[models.SuggestionList](ctx, s.c, req))
}

func (s *TripsService) ApplySuggestion(ctx context.Context, id, suggestionID string, req models.ApplySuggestionRequest) (*models.ApplySuggestionResponse, error) {
	r := httpclient.Post(pathf("/trips/%s/suggestions/%s/apply", id, suggestionID), req)
	return ptr(httpclient.JSON[models.ApplySuggestionResponse](ctx, s.c, r))
}

func (s *TripsService) DismissSuggestion(ctx context.Context, id, suggestionID string) error {
	return httpclient.Exec(ctx, s.c, httpclient.Post(pathf("/trips/%s/suggestions/%s/dismiss", id, suggestionID), nil))
}

func (s *TripsService) Evidence(ctx context.Context, id string, limit, offset int) (*models.EvidenceList, error) {
	req := httpclient.Get(pathf("/trips/%s/evidence", id)).
		WithParam("limit", itoa(limit)).
		WithParam("offset", itoa(offset))
	return ptr(httpclient.JSON[models.EvidenceList](ctx, s.c, req))
}

// AttentionQueue lists items across trips that need the user. Severity may be empty.
func (s *TripsService) AttentionQueue(ctx context.Context, severity string, limit, offset int) (*models.AttentionQueue, error) {
	req := httpclient.Get("/trips/attention-queue").
		WithParam("severity", severity).
		WithParam("limit", itoa(limit)).
		WithParam("offset", itoa(offset))
	return ptr(httpclient.JSON[models.AttentionQueue](ctx, s.c, req))
}

func (s *TripsService) PipelineStatus(ctx context.Context, id string) (*models.PipelineStatus, error) {
	return ptr(httpclient.JSON[models.PipelineStatus](ctx, s.c, httpclient.Get(pathf("/trips/%s/pipeline-status", id))))
}

func (s *TripsService) Share(ctx context.Context, id, permission string) (*models.TripShare, error) {
	body := map[string]string{"permission": permission}
	return ptr(httpclient.JSON[models.TripShare](ctx, s.c, httpclient.Post(pathf("/trips/%s/share", id), body)))
}

// Recap is returned raw; its report layout is owned by the backend.
func (s *TripsService) Recap(ctx context.Context, id string) (json.RawMessage, error) {
	return httpclient.JSON[json.RawMessage](ctx, s.c, httpclient.Get(pathf("/trips/%s/recap", id)))
}

func ptr[T any](v T, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
