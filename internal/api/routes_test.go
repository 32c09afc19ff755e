// ABOUTME: Route table checks for the thinner contract operations: each call must hit its method and path
// ABOUTME: Payload shapes for these endpoints are covered by the models tests
package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripnara/tripnara-go/internal/models"
)

func TestRoutes(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		route string
		data  any
		call  func(a *API) error
	}{
		{"GET /trips/trip-1/actions", nil, func(a *API) error { _, err := a.Trips.Actions(ctx, "trip-1"); return err }},
		{"GET /trips/trip-1/schedule", nil, func(a *API) error { _, err := a.Trips.Schedule(ctx, "trip-1", "2026-07-01"); return err }},
		{"GET /trips/trip-1/tasks", nil, func(a *API) error { _, err := a.Trips.Tasks(ctx, "trip-1"); return err }},
		{"GET /trips/trip-1/days/day-2/metrics", nil, func(a *API) error { _, err := a.Trips.DayMetrics(ctx, "trip-1", "day-2"); return err }},
		{"GET /trips/trip-1/budget/summary", nil, func(a *API) error { _, err := a.Trips.BudgetSummary(ctx, "trip-1"); return err }},
		{"GET /trips/trip-1/evidence", nil, func(a *API) error { _, err := a.Trips.Evidence(ctx, "trip-1", 10, 0); return err }},
		{"GET /trips/attention-queue", nil, func(a *API) error { _, err := a.Trips.AttentionQueue(ctx, "high", 5, 0); return err }},
		{"GET /trips/trip-1/pipeline-status", nil, func(a *API) error { _, err := a.Trips.PipelineStatus(ctx, "trip-1"); return err }},
		{"POST /trips/trip-1/share", nil, func(a *API) error { _, err := a.Trips.Share(ctx, "trip-1", "view"); return err }},
		{"GET /trips/trip-1/recap", nil, func(a *API) error { _, err := a.Trips.Recap(ctx, "trip-1"); return err }},

		{"GET /places/autocomplete", nil, func(a *API) error { _, err := a.Places.Autocomplete(ctx, "gey", 5); return err }},
		{"POST /places/semantic-search", nil, func(a *API) error {
			_, err := a.Places.SemanticSearch(ctx, models.SemanticSearchRequest{})
			return err
		}},
		{"GET /places/7", nil, func(a *API) error { _, err := a.Places.Detail(ctx, 7); return err }},
		{"GET /hotels/recommendations", nil, func(a *API) error {
			_, err := a.Places.RecommendHotels(ctx, models.HotelRecommendationParams{TripID: "trip-1"})
			return err
		}},
		{"GET /places/images/cache-stats", nil, func(a *API) error { _, err := a.PlaceImages.CacheStats(ctx); return err }},
		{"GET /upload/place/7/images", nil, func(a *API) error { _, err := a.Upload.PlaceImages(ctx, 7); return err }},

		{"GET /countries/IS/pack", nil, func(a *API) error { _, err := a.Countries.Pack(ctx, "is"); return err }},
		{"GET /countries/packs", nil, func(a *API) error { _, err := a.Countries.Packs(ctx); return err }},
		{"PUT /countries/IS/pack", nil, func(a *API) error {
			_, err := a.Countries.UpdatePack(ctx, " is ", models.CountryPack{})
			return err
		}},
		{"GET /countries/IS/payment-info", nil, func(a *API) error { _, err := a.Countries.PaymentInfo(ctx, "IS"); return err }},
		{"GET /countries/IS/terrain-advice", nil, func(a *API) error { _, err := a.Countries.TerrainAdvice(ctx, "IS"); return err }},

		{"POST /api/v1/fitness/questionnaire/submit", nil, func(a *API) error {
			_, err := a.Fitness.Submit(ctx, models.QuestionnaireSubmission{})
			return err
		}},

		{"POST /decision/check-constraints", nil, func(a *API) error {
			_, err := a.LegacyDecision.CheckConstraintsWithExplanation(ctx, models.CheckConstraintsRequest{})
			return err
		}},
		{"POST /decision/feedback/conflict", nil, func(a *API) error {
			return a.LegacyDecision.SubmitFeedback(ctx, FeedbackConflict, models.FeedbackRequest{})
		}},
		{"GET /decision/feedback/stats", nil, func(a *API) error { _, err := a.LegacyDecision.FeedbackStats(ctx); return err }},
		{"POST /decision-engine/v1/generate-plan", nil, func(a *API) error {
			_, err := a.DecisionEngine.GeneratePlan(ctx, models.GeneratePlanRequest{})
			return err
		}},
		{"POST /decision-engine/v1/repair-plan", nil, func(a *API) error {
			_, err := a.DecisionEngine.RepairPlan(ctx, models.RepairPlanRequest{})
			return err
		}},
		{"POST /decision-engine/v1/explain-plan", nil, func(a *API) error {
			_, err := a.DecisionEngine.ExplainPlan(ctx, models.ExplainPlanRequest{})
			return err
		}},

		{"GET /decision-draft/admin/draft-1/debug-info", nil, func(a *API) error { _, err := a.DraftAdmin.DebugInfo(ctx, "draft-1"); return err }},
		{"GET /decision-draft/admin/stats", nil, func(a *API) error { _, err := a.DraftAdmin.Stats(ctx); return err }},
		{"PUT /decision-draft/admin/draft-1/steps/batch", nil, func(a *API) error {
			_, err := a.DraftAdmin.BatchUpdateSteps(ctx, "draft-1", models.BatchUpdateStepsRequest{})
			return err
		}},

		{"POST /execution/reorder", nil, func(a *API) error { _, err := a.Execution.Reorder(ctx, models.ReorderRequest{}); return err }},
		{"POST /execution/apply-fallback", nil, func(a *API) error {
			_, err := a.Execution.ApplyFallback(ctx, models.ApplyFallbackRequest{})
			return err
		}},
		{"GET /execution/fallback/sol-1/preview", nil, func(a *API) error {
			_, err := a.Execution.PreviewFallback(ctx, "trip-1", "sol-1")
			return err
		}},

		{"POST /agent/planning-assistant/v2/plans/plan-1/optimize", nil, func(a *API) error {
			_, err := a.Plans.Optimize(ctx, "plan-1", models.OptimizePlanRequest{})
			return err
		}},
		{"POST /agent/planning-assistant/v2/plans/plan-1/confirm", nil, func(a *API) error {
			_, err := a.Plans.Confirm(ctx, "plan-1", models.ConfirmPlanRequest{})
			return err
		}},

		{"POST /auth/email/register", map[string]any{"accessToken": "fresh"}, func(a *API) error {
			_, err := a.Auth.RegisterWithEmail(ctx, models.EmailLoginRequest{Email: "ana@example.com"})
			if err == nil && a.client.Tokens().Token() != "fresh" {
				t.Errorf("register did not store the issued token")
			}
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			hit := false
			a := newTestAPI(t, routes{
				tt.route: func(w http.ResponseWriter, r *http.Request) {
					hit = true
					writeEnvelope(w, tt.data)
				},
			})

			require.NoError(t, tt.call(a))
			assert.True(t, hit, "handler for %s was not called", tt.route)
		})
	}
}

func TestRoutes_QueryParameters(t *testing.T) {
	var query map[string]string
	a := newTestAPI(t, routes{
		"GET /trips/attention-queue": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			query = map[string]string{"severity": q.Get("severity"), "limit": q.Get("limit"), "offset": q.Get("offset")}
			writeEnvelope(w, nil)
		},
	})

	_, err := a.Trips.AttentionQueue(context.Background(), "high", 5, 0)
	require.NoError(t, err)
	assert.Equal(t, "high", query["severity"])
	assert.Equal(t, "5", query["limit"])
	// zero values are omitted
	assert.Equal(t, "", query["offset"])
}
