// ABOUTME: Tests for grid, hierarchical and force layouts and for view rendering over filtered steps
package draft

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripnara/tripnara-go/internal/models"
)

func stepsN(n int) []models.DecisionStep {
	out := make([]models.DecisionStep, n)
	for i := range out {
		out[i] = models.DecisionStep{ID: string(rune('a' + i))}
	}
	return out
}

func TestLayout_Grid(t *testing.T) {
	got := Layout(stepsN(5), LayoutGrid, DefaultLayoutOptions())

	want := map[string]Position{
		"a": {X: 50, Y: 50},
		"b": {X: 340, Y: 50},
		"c": {X: 630, Y: 50},
		"d": {X: 50, Y: 280},
		"e": {X: 340, Y: 280},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("grid layout mismatch (-want +got):\n%s", diff)
	}
}

func TestLayout_UnknownFallsBackToGrid(t *testing.T) {
	steps := stepsN(3)
	assert.Equal(t, Layout(steps, LayoutGrid, LayoutOptions{}), Layout(steps, "spiral", LayoutOptions{}))

	lt, ok := ParseLayoutType("spiral")
	assert.False(t, ok)
	assert.Equal(t, LayoutGrid, lt)
}

func TestLayout_Hierarchical(t *testing.T) {
	steps := []models.DecisionStep{
		{ID: "intent", Outputs: []models.DecisionStepOutput{{Name: "dates"}}},
		{ID: "route", Inputs: []models.DecisionStepInput{{Name: "dates"}}, Outputs: []models.DecisionStepOutput{{Name: "route"}}},
		{ID: "hotels", Inputs: []models.DecisionStepInput{{Name: "route"}}},
		{ID: "budget", Inputs: []models.DecisionStepInput{{Name: "dates"}}},
	}

	got := Layout(steps, LayoutHierarchical, DefaultLayoutOptions())

	want := map[string]Position{
		"intent": {X: 100, Y: 100},
		"route":  {X: 100, Y: 300},
		"budget": {X: 400, Y: 300},
		"hotels": {X: 100, Y: 500},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("hierarchical layout mismatch (-want +got):\n%s", diff)
	}
}

func TestLayout_HierarchicalCycle(t *testing.T) {
	steps := []models.DecisionStep{
		{ID: "a", Inputs: []models.DecisionStepInput{{Name: "y"}}, Outputs: []models.DecisionStepOutput{{Name: "x"}}},
		{ID: "b", Inputs: []models.DecisionStepInput{{Name: "x"}}, Outputs: []models.DecisionStepOutput{{Name: "y"}}},
		{ID: "c"},
	}

	got := Layout(steps, LayoutHierarchical, DefaultLayoutOptions())

	require.Len(t, got, 3)
	assert.Equal(t, Position{X: 100, Y: 100}, got["c"])
	assert.Equal(t, float64(300), got["a"].Y)
	assert.Equal(t, float64(300), got["b"].Y)
}

func TestLayout_ForceIsDeterministic(t *testing.T) {
	steps := stepsN(6)
	opts := DefaultLayoutOptions()

	first := Layout(steps, LayoutForce, opts)
	second := Layout(steps, LayoutForce, opts)
	assert.Equal(t, first, second)
	require.Len(t, first, 6)

	opts.Seed = 99
	assert.NotEqual(t, first, Layout(steps, LayoutForce, opts))
}

func TestLayout_ForceSpreadsNodes(t *testing.T) {
	got := Layout(stepsN(4), LayoutForce, DefaultLayoutOptions())
	for a, pa := range got {
		for b, pb := range got {
			if a == b {
				continue
			}
			assert.False(t, pa == pb, "%s and %s overlap", a, b)
		}
	}
}

func TestLayout_Empty(t *testing.T) {
	for _, lt := range []LayoutType{LayoutGrid, LayoutHierarchical, LayoutForce} {
		assert.Empty(t, Layout(nil, lt, DefaultLayoutOptions()), lt)
	}
}

func TestView_PlacesVisibleStepsOnly(t *testing.T) {
	d := &models.DecisionDraft{DecisionSteps: sampleSteps()}

	c := View{Filter: Filter{Query: "hotel"}, Layout: LayoutGrid}.Render(d)

	assert.Equal(t, []string{"s1", "s3"}, ids(c.Steps))
	assert.Equal(t, 1, c.Hidden)
	assert.Len(t, c.Positions, 2)
	assert.NotContains(t, c.Positions, "s2")
	assert.Equal(t, Position{X: 50, Y: 50}, c.Positions["s1"])
}
