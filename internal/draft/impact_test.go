// ABOUTME: Tests that impact previews stage edits and only write them on Apply
package draft

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripnara/tripnara-go/internal/gate"
	"github.com/tripnara/tripnara-go/internal/models"
)

type fakeEditor struct {
	previews  []models.PreviewImpactRequest
	updates   []models.UpdateStepRequest
	updateErr error
}

func (f *fakeEditor) PreviewImpact(_ context.Context, _ string, req models.PreviewImpactRequest) (*models.ImpactPreviewResult, error) {
	f.previews = append(f.previews, req)
	return &models.ImpactPreviewResult{AffectedSteps: []string{"s2"}, ImpactSummary: "one step changes"}, nil
}

func (f *fakeEditor) UpdateStep(_ context.Context, _ string, stepID string, upd models.UpdateStepRequest) (*models.DecisionStep, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updates = append(f.updates, upd)
	return &models.DecisionStep{ID: stepID, Status: string(*upd.Status)}, nil
}

func TestImpactPreview_ApplyWritesOnce(t *testing.T) {
	ed := &fakeEditor{}
	p := NewImpactPreview(ed, "d1")
	status := gate.SuggestReplace

	edit, err := p.Preview(context.Background(), "s1", "train", models.UpdateStepRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, []string{"s2"}, edit.Impact.AffectedSteps)
	assert.Empty(t, ed.updates, "preview must not write")

	step, err := p.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, gate.SuggestReplace, step.GateStatus())
	assert.Len(t, ed.updates, 1)

	_, pending := p.Pending()
	assert.False(t, pending)
	_, err = p.Apply(context.Background())
	assert.ErrorIs(t, err, ErrNoPendingEdit)
}

func TestImpactPreview_Discard(t *testing.T) {
	ed := &fakeEditor{}
	p := NewImpactPreview(ed, "d1")
	status := gate.Reject

	_, err := p.Preview(context.Background(), "s1", nil, models.UpdateStepRequest{Status: &status})
	require.NoError(t, err)
	p.Discard()

	_, err = p.Apply(context.Background())
	assert.ErrorIs(t, err, ErrNoPendingEdit)
	assert.Empty(t, ed.updates)
	assert.Len(t, ed.previews, 1)
}

func TestImpactPreview_FailedApplyKeepsEdit(t *testing.T) {
	ed := &fakeEditor{updateErr: errors.New("conflict")}
	p := NewImpactPreview(ed, "d1")
	status := gate.Allow

	_, err := p.Preview(context.Background(), "s1", true, models.UpdateStepRequest{Status: &status})
	require.NoError(t, err)

	_, err = p.Apply(context.Background())
	assert.EqualError(t, err, "conflict")
	edit, pending := p.Pending()
	require.True(t, pending)
	assert.Equal(t, "s1", edit.StepID)
}
