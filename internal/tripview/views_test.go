// ABOUTME: Tests for the persona views and the lock set, built from decoded API fixtures
package tripview

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripnara/tripnara-go/internal/gate"
	"github.com/tripnara/tripnara-go/internal/models"
)

func decode[T any](t *testing.T, raw string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func sampleTrip(t *testing.T) *models.TripDetail {
	trip := decode[models.TripDetail](t, `{
		"id": "trip-1",
		"TripDay": [
			{"id": "d1", "date": "2026-06-01", "ItineraryItem": [{"id": "i1", "type": "ACTIVITY"}, {"id": "i2", "type": "MEAL_ANCHOR"}]},
			{"id": "d2", "date": "2026-06-02", "ItineraryItem": [{"id": "i3", "type": "ACTIVITY"}]}
		]
	}`)
	return &trip
}

func TestAbu_OnlyRiskyItems(t *testing.T) {
	conflicts := []models.TripConflict{
		{ID: "c1", Severity: "HIGH", AffectedItemIDs: []string{"i3"}},
	}
	alerts := decode[[]models.PersonaAlert](t, `[
		{"id": "a1", "persona": "ABU", "severity": "warning", "metadata": {"itemId": "i1", "action": "REJECT"}},
		{"id": "a2", "persona": "ABU", "severity": "info"},
		{"id": "a3", "persona": "DR_DRE", "severity": "warning", "metadata": {"itemId": "i2"}}
	]`)

	v := Abu(sampleTrip(t), conflicts, alerts)

	require.Len(t, v.Items, 2)
	assert.Equal(t, "i1", v.Items[0].Item.ID)
	assert.Equal(t, gate.Reject, v.Items[0].Status)
	assert.Equal(t, "i3", v.Items[1].Item.ID)
	assert.Equal(t, "2026-06-02", v.Items[1].Date)
	assert.Equal(t, gate.NeedConfirm, v.Items[1].Status)
	require.Len(t, v.Alerts, 1)
	assert.Equal(t, "a2", v.Alerts[0].ID)
	assert.Equal(t, gate.Reject, v.Gate)
}

func TestAbu_NothingFlagged(t *testing.T) {
	v := Abu(sampleTrip(t), nil, nil)
	assert.Empty(t, v.Items)
	assert.Equal(t, gate.Allow, v.Gate)

	assert.Empty(t, Abu(nil, []models.TripConflict{{AffectedItemIDs: []string{"i1"}}}, nil).Items)
}

func TestDrDre_Thresholds(t *testing.T) {
	metrics := &models.TripMetrics{Days: []models.DayMetricsResponse{
		{Date: "2026-06-01", Metrics: models.DayMetrics{Fatigue: 82, Buffer: 45}},
		{Date: "2026-06-02", Metrics: models.DayMetrics{Fatigue: 70, Buffer: 30}},
		{Date: "2026-06-03", Metrics: models.DayMetrics{Fatigue: 75, Buffer: 10}},
	}}
	var locks LockSet
	locks.Toggle("i2")

	v := DrDre(sampleTrip(t), metrics, nil, DefaultThresholds(), &locks)

	require.Len(t, v.Days, 2)
	assert.Equal(t, []string{ReasonFatigue}, v.Days[0].Reasons)
	assert.Len(t, v.Days[0].Items, 2)
	assert.Equal(t, []string{ReasonFatigue, ReasonLowBuffer}, v.Days[1].Reasons)
	assert.Empty(t, v.Days[1].Items)
	assert.Equal(t, []string{"i2"}, v.Locked)
	assert.True(t, v.Flagged())
}

func TestDrDre_CustomThresholds(t *testing.T) {
	metrics := &models.TripMetrics{Days: []models.DayMetricsResponse{
		{Date: "2026-06-02", Metrics: models.DayMetrics{Fatigue: 70, Buffer: 30}},
	}}

	v := DrDre(sampleTrip(t), metrics, nil, Thresholds{EffortThreshold: 60, MinBufferMinutes: 0}, nil)
	require.Len(t, v.Days, 1)
	assert.Equal(t, []string{ReasonFatigue}, v.Days[0].Reasons)
	assert.Nil(t, v.Locked)

	assert.False(t, DrDre(nil, nil, nil, DefaultThresholds(), nil).Flagged())
}

func TestThresholds_Validate(t *testing.T) {
	assert.NoError(t, DefaultThresholds().Validate())
	assert.Error(t, Thresholds{EffortThreshold: 120}.Validate())
	assert.Error(t, Thresholds{EffortThreshold: 50, MinBufferMinutes: -1}.Validate())
}

func TestNeptune_CriticalFirst(t *testing.T) {
	suggestions := decode[[]models.Suggestion](t, `[
		{"id": "s1", "persona": "NEPTUNE", "scope": "item", "scopeId": "i1", "severity": "info"},
		{"id": "s2", "persona": "NEPTUNE", "scope": "item", "scopeId": "i3", "severity": "blocker"},
		{"id": "s3", "persona": "NEPTUNE", "scope": "item", "scopeId": "i1", "severity": "warn"},
		{"id": "s4", "persona": "NEPTUNE", "scope": "trip", "severity": "warn"},
		{"id": "s5", "persona": "ABU", "scope": "item", "scopeId": "i2", "severity": "blocker"}
	]`)

	v := Neptune(sampleTrip(t), suggestions)

	require.Len(t, v.Items, 2)
	assert.Equal(t, "i3", v.Items[0].Item.ID)
	assert.Equal(t, "i1", v.Items[1].Item.ID)
	assert.Equal(t, "s3", v.Items[1].Repairs[0].Suggestion.ID)
	require.Len(t, v.Unscoped, 1)
	assert.Equal(t, 1, v.Critical())
}

func TestRepairStatus(t *testing.T) {
	assert.Equal(t, gate.Reject, RepairStatus("blocker"))
	assert.Equal(t, gate.SuggestReplace, RepairStatus("WARN"))
	assert.Equal(t, gate.Allow, RepairStatus("info"))
	assert.Equal(t, gate.NeedConfirm, RepairStatus(""))
}

func TestAuto_WarningsOnly(t *testing.T) {
	alerts := decode[[]models.PersonaAlert](t, `[
		{"id": "a1", "persona": "ABU", "severity": "warning"},
		{"id": "a2", "persona": "NEPTUNE", "severity": "info"},
		{"id": "a3", "persona": "DR_DRE", "severity": "WARNING", "metadata": {"action": "ADJUST"}}
	]`)

	got := Auto(alerts)

	require.Len(t, got, 2)
	assert.Equal(t, gate.Reject, got[0].Status)
	assert.Equal(t, gate.SuggestReplace, got[1].Status)
}

func TestLockSet(t *testing.T) {
	var l LockSet
	assert.False(t, l.Locked("x"))
	assert.True(t, l.Toggle("b"))
	assert.True(t, l.Toggle("a"))
	assert.Equal(t, []string{"a", "b"}, l.IDs())
	assert.False(t, l.Toggle("b"))
	assert.Equal(t, 1, l.Len())
	l.Clear()
	assert.Empty(t, l.IDs())
}

type mutator struct {
	regen   models.RegenerateRequest
	applied models.ApplySuggestionRequest
}

func (m *mutator) Regenerate(_ context.Context, _ string, req models.RegenerateRequest) (*models.RegenerateResponse, error) {
	m.regen = req
	return &models.RegenerateResponse{}, nil
}

func (m *mutator) ReplaceItem(context.Context, string, string, models.ReplaceItemRequest) (*models.ReplaceItemResponse, error) {
	return &models.ReplaceItemResponse{}, nil
}

func (m *mutator) ApplySuggestion(_ context.Context, _ string, _ string, req models.ApplySuggestionRequest) (*models.ApplySuggestionResponse, error) {
	m.applied = req
	return &models.ApplySuggestionResponse{Success: true}, nil
}

func TestActions_Delegate(t *testing.T) {
	m := &mutator{}
	acts := NewActions(m, "trip-1")
	var locks LockSet
	locks.Toggle("i3")
	locks.Toggle("i1")

	_, err := acts.Regenerate(context.Background(), &locks)
	require.NoError(t, err)
	assert.Equal(t, []string{"i1", "i3"}, m.regen.LockedItemIDs)

	r := Repair{Suggestion: decode[models.Suggestion](t, `{"id": "s1", "actions": [{"id": "buffer_30", "label": "Add buffer"}]}`)}
	_, err = acts.ApplyRepair(context.Background(), r, "", true)
	require.NoError(t, err)
	assert.Equal(t, "buffer_30", m.applied.ActionID)
	assert.True(t, m.applied.Preview)

	_, err = acts.ApplyRepair(context.Background(), Repair{}, "", false)
	assert.ErrorIs(t, err, ErrNoAction)
}
