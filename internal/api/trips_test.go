// ABOUTME: Tests for trip endpoints: unwrapping, error promotion, alert shapes and query building
package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripnara/tripnara-go/internal/gate"
	"github.com/tripnara/tripnara-go/internal/httpclient"
	"github.com/tripnara/tripnara-go/internal/models"
)

func TestTrips_Get(t *testing.T) {
	a := newTestAPI(t, routes{
		"GET /trips/{id}": func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, map[string]any{
				"id":          r.PathValue("id"),
				"destination": "Iceland",
				"totalBudget": "1234.50",
				"TripDay": []map[string]any{
					{"id": "d1", "date": "2026-07-01", "ItineraryItem": []map[string]any{
						{"id": "i1", "type": "ACTIVITY", "Place": map[string]any{"nameCN": "黄金圈"}},
					}},
				},
			})
		},
	})

	trip, err := a.Trips.Get(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "123", trip.ID)
	assert.Equal(t, "1234.5", trip.TotalBudget.String())
	require.Len(t, trip.Items(), 1)
	assert.Equal(t, "黄金圈", trip.Items()[0].Title())
}

func TestTrips_List(t *testing.T) {
	a := newTestAPI(t, routes{
		"GET /trips": ok([]map[string]any{{"id": "a"}, {"id": "b"}}),
	})

	trips, err := a.Trips.List(context.Background())
	require.NoError(t, err)
	ids := []string{trips[0].ID, trips[1].ID}
	if diff := cmp.Diff([]string{"a", "b"}, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestTrips_EnvelopeErrorPromotion(t *testing.T) {
	a := newTestAPI(t, routes{
		"GET /trips/{id}": fail(http.StatusOK, "NOT_FOUND", "m"),
	})

	trip, err := a.Trips.Get(context.Background(), "123")
	assert.Nil(t, trip)
	var apiErr *httpclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "m", apiErr.Message)
	assert.True(t, httpclient.IsNotFound(err))
	assert.Equal(t, "m", err.Error())
}

func TestTrips_PersonaAlertShapes(t *testing.T) {
	alert := map[string]any{"id": "a1", "persona": "ABU", "severity": "warning", "title": "Road closed"}
	tests := map[string]any{
		"bare array":     []any{alert},
		"active wrapper": map[string]any{"active": []any{alert}},
	}

	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			a := newTestAPI(t, routes{"GET /trips/{id}/persona-alerts": ok(payload)})
			alerts, err := a.Trips.PersonaAlerts(context.Background(), "t1")
			require.NoError(t, err)
			require.Len(t, alerts, 1)
			assert.Equal(t, models.PersonaAbu, alerts[0].Persona)
			assert.Equal(t, gate.Reject, alerts[0].GateStatus())
		})
	}
}

func TestTrips_SuggestionsQuery(t *testing.T) {
	a := newTestAPI(t, routes{
		"GET /trips/{id}/suggestions": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "neptune", q.Get("persona"))
			assert.Equal(t, "item", q.Get("scope"))
			assert.Equal(t, "10", q.Get("limit"))
			assert.False(t, q.Has("offset"))
			assert.False(t, q.Has("status"))
			writeEnvelope(w, map[string]any{"items": []any{map[string]any{"id": "s1"}}, "total": 1})
		},
	})

	list, err := a.Trips.Suggestions(context.Background(), "t1", SuggestionQuery{Persona: "neptune", Scope: "item", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
}

func TestTrips_RegenerateSendsLocks(t *testing.T) {
	a := newTestAPI(t, routes{
		"POST /trips/{id}/regenerate": func(w http.ResponseWriter, r *http.Request) {
			var body models.RegenerateRequest
			decodeBody(t, r, &body)
			assert.Equal(t, []string{"i1", "i2"}, body.LockedItemIDs)
			writeEnvelope(w, map[string]any{"changes": []any{map[string]any{"type": "replace", "itemId": "i3"}}})
		},
	})

	res, err := a.Trips.Regenerate(context.Background(), "t1", models.RegenerateRequest{LockedItemIDs: []string{"i1", "i2"}})
	require.NoError(t, err)
	require.Len(t, res.Changes, 1)
	assert.Equal(t, "i3", res.Changes[0].ItemID)
}

func TestTrips_DismissSuggestion(t *testing.T) {
	called := false
	a := newTestAPI(t, routes{
		"POST /trips/{id}/suggestions/{sid}/dismiss": func(w http.ResponseWriter, r *http.Request) {
			called = r.PathValue("sid") == "s1"
			writeEnvelope(w, nil)
		},
	})

	require.NoError(t, a.Trips.DismissSuggestion(context.Background(), "t1", "s1"))
	assert.True(t, called)
}

func TestTrips_PathEscaping(t *testing.T) {
	a := newTestAPI(t, routes{
		"GET /trips/{id}/state": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "a b", r.PathValue("id"))
			writeEnvelope(w, map[string]any{"timezone": "Atlantic/Reykjavik"})
		},
	})

	st, err := a.Trips.State(context.Background(), "a b")
	require.NoError(t, err)
	assert.Equal(t, "Atlantic/Reykjavik", st.Timezone)
}
