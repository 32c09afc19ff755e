package mockserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripnara/tripnara-go/internal/api"
	"github.com/tripnara/tripnara-go/internal/gate"
	"github.com/tripnara/tripnara-go/internal/httpclient"
	"github.com/tripnara/tripnara-go/internal/models"
)

func setup(t *testing.T, opts Options) (*Server, *api.API, *httpclient.MemoryTokens) {
	t.Helper()
	srv, err := New(opts)
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	tokens := httpclient.NewMemoryTokens("")
	c, err := httpclient.New(httpclient.Options{BaseURL: ts.URL, Tokens: tokens})
	require.NoError(t, err)
	return srv, api.New(c, api.Options{}), tokens
}

func login(t *testing.T, a *api.API) {
	t.Helper()
	session, err := a.Auth.LoginWithEmail(context.Background(), models.EmailLoginRequest{Email: "ana@example.com", Code: "123456"})
	require.NoError(t, err)
	require.NotEmpty(t, session.AccessToken)
}

func TestRequiresBearerToken(t *testing.T) {
	_, a, _ := setup(t, Options{})
	_, err := a.Trips.List(context.Background())
	require.Error(t, err)
	assert.True(t, httpclient.IsUnauthorized(err))
}

func TestLoginStoresToken(t *testing.T) {
	_, a, tokens := setup(t, Options{})
	login(t, a)

	assert.Contains(t, tokens.Token(), "mock-")

	trips, err := a.Trips.List(context.Background())
	require.NoError(t, err)
	ids := make([]string, 0, len(trips))
	for _, tr := range trips {
		ids = append(ids, tr.ID)
	}
	assert.ElementsMatch(t, []string{TripID, "trip-kyoto"}, ids)
}

func TestRefreshAfterRevocation(t *testing.T) {
	srv, a, tokens := setup(t, Options{})
	login(t, a)
	before := tokens.Token()

	srv.RevokeTokens()
	trip, err := a.Trips.Get(context.Background(), TripID)
	require.NoError(t, err)
	assert.Equal(t, TripID, trip.ID)

	assert.NotEqual(t, before, tokens.Token())
}

func TestLogoutRevokesRefresh(t *testing.T) {
	srv, a, _ := setup(t, Options{})
	login(t, a)
	require.NoError(t, a.Auth.Logout(context.Background()))

	srv.RevokeTokens()
	_, err := a.Auth.Refresh(context.Background())
	require.Error(t, err)
}

func TestOverviewLoadsEveryPart(t *testing.T) {
	_, a, _ := setup(t, Options{OpenAuth: true})
	ov, err := a.Overview.Load(context.Background(), TripID)
	require.NoError(t, err)
	assert.True(t, ov.OK(), "failed parts: %v", ov.Failed())
	assert.Len(t, ov.Alerts, 4)
	require.NotNil(t, ov.Conflicts)
}

func TestUnknownTrip(t *testing.T) {
	_, a, _ := setup(t, Options{OpenAuth: true})
	_, err := a.Trips.Get(context.Background(), "trip-mars")
	require.Error(t, err)
	assert.True(t, httpclient.IsNotFound(err))
}

func TestDraftReads(t *testing.T) {
	_, a, _ := setup(t, Options{OpenAuth: true})
	ctx := context.Background()

	d, err := a.Drafts.Get(ctx, DraftID, models.ModeExpert)
	require.NoError(t, err)
	assert.Equal(t, models.ModeExpert, d.UserMode)
	require.Len(t, d.DecisionSteps, 4)

	ex, err := a.Drafts.Explanation(ctx, DraftID, models.ModeToC)
	require.NoError(t, err)
	assert.Equal(t, 4, ex.DecisionCount)
	assert.Len(t, ex.KeyDecisions, 3)
	assert.Equal(t, models.ModeToC, ex.Mode())

	ex, err = a.Drafts.Explanation(ctx, DraftID, models.ModeExpert)
	require.NoError(t, err)
	assert.Equal(t, models.ModeExpert, ex.Mode())

	rp, err := a.Drafts.Replay(ctx, DraftID)
	require.NoError(t, err)
	require.Len(t, rp.Timeline, 4)
	assert.Equal(t, models.StepIntake, rp.Timeline[0].Step)
	assert.Nil(t, rp.Timeline[0].DecisionMade)
	assert.NotNil(t, rp.Timeline[2].DecisionMade)

	_, err = a.Drafts.Get(ctx, "draft-missing", models.ModeToC)
	assert.True(t, httpclient.IsNotFound(err))
}

func TestPreviewImpactFollowsOutputs(t *testing.T) {
	_, a, _ := setup(t, Options{OpenAuth: true})
	res, err := a.Drafts.PreviewImpact(context.Background(), DraftID, models.PreviewImpactRequest{StepID: "step-intent", NewValue: "fast"})
	require.NoError(t, err)
	assert.Equal(t, []string{"step-route", "step-glacier", "step-budget"}, res.AffectedSteps)
	assert.Contains(t, res.AffectedEvidence, "ev-guides")

	res, err = a.Drafts.PreviewImpact(context.Background(), DraftID, models.PreviewImpactRequest{StepID: "step-budget"})
	require.NoError(t, err)
	assert.Empty(t, res.AffectedSteps)
}

func TestUpdateStepRecordsVersion(t *testing.T) {
	_, a, _ := setup(t, Options{OpenAuth: true})
	ctx := context.Background()

	status := gate.Allow
	title := "Guided glacier walk"
	st, err := a.Drafts.UpdateStep(ctx, DraftID, "step-glacier", models.UpdateStepRequest{Status: &status, Title: &title})
	require.NoError(t, err)
	assert.Equal(t, gate.Allow, st.GateStatus())
	assert.Equal(t, title, st.Title)

	versions, err := a.Drafts.Versions(ctx, DraftID)
	require.NoError(t, err)
	require.Len(t, versions, 2)

	cmp, err := a.Drafts.CompareVersions(ctx, DraftID, "v1", "v2")
	require.NoError(t, err)
	require.Len(t, cmp.Diff.Modified, 1)
	assert.Equal(t, "step-glacier", cmp.Diff.Modified[0].ID)
	assert.Empty(t, cmp.Diff.Added)

	d, err := a.Drafts.Get(ctx, DraftID, models.ModeToC)
	require.NoError(t, err)
	got, ok := d.Step("step-glacier")
	require.True(t, ok)
	assert.Equal(t, "ALLOW", got.Status)
}

func TestUpdateUnknownStep(t *testing.T) {
	_, a, _ := setup(t, Options{OpenAuth: true})
	title := "x"
	_, err := a.Drafts.UpdateStep(context.Background(), DraftID, "step-nope", models.UpdateStepRequest{Title: &title})
	assert.True(t, httpclient.IsNotFound(err))
}

func TestValidateSafety(t *testing.T) {
	_, a, _ := setup(t, Options{OpenAuth: true})
	res, err := a.Decision.ValidateSafety(context.Background(), models.ValidateSafetyRequest{
		TripID: TripID,
		Plan: models.RoutePlanDraft{
			TripID: TripID,
			Segments: []models.RouteSegment{
				{SegmentID: "seg-flat", SlopePct: 3},
				{SegmentID: "seg-steep", SlopePct: 22},
			},
		},
	})
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, "seg-steep", res.Violations[0].SegmentID)
	assert.Equal(t, models.PersonaAbu, res.Violations[0].Persona)
}

func TestExecuteActions(t *testing.T) {
	_, a, _ := setup(t, Options{OpenAuth: true})
	ctx := context.Background()

	res, err := a.Execution.Execute(ctx, TripID, models.ActionGetStatus, nil)
	require.NoError(t, err)
	require.NotNil(t, res.UIOutput.Status)
	assert.Equal(t, 2, res.UIOutput.Status.CurrentDay)

	res, err = a.Execution.Execute(ctx, TripID, models.ActionRemind, &models.RemindParams{})
	require.NoError(t, err)
	assert.Len(t, res.UIOutput.Reminders, 1)

	res, err = a.Execution.Execute(ctx, TripID, models.ActionFallback, &models.FallbackParams{TriggerReason: "weather"})
	require.NoError(t, err)
	require.NotNil(t, res.UIOutput.FallbackPlan)
	assert.True(t, res.UIOutput.FallbackPlan.Solutions[0].Recommended)

	_, err = a.Execution.Execute(ctx, "trip-mars", models.ActionGetStatus, nil)
	assert.True(t, httpclient.IsNotFound(err))
}

func TestUnknownEndpointUsesEnvelope(t *testing.T) {
	srv, err := New(Options{})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":"NOT_FOUND","message":"no such endpoint in the mock backend"}}`, rec.Body.String())
}

func TestStartServesOnLoopback(t *testing.T) {
	run, err := Start("", Options{OpenAuth: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = run.Stop(context.Background()) })

	c, err := httpclient.New(httpclient.Options{BaseURL: run.URL})
	require.NoError(t, err)
	h, err := api.New(c, api.Options{}).DecisionEngine.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
}

func TestSuggestionsFixture(t *testing.T) {
	_, a, _ := setup(t, Options{OpenAuth: true})
	list, err := a.Trips.Suggestions(context.Background(), TripID, api.SuggestionQuery{})
	require.NoError(t, err)
	assert.Equal(t, 4, list.Total)
}
