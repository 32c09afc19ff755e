// ABOUTME: Impact preview for a hypothetical step edit, held as a pending edit until explicitly applied
package draft

import (
	"context"
	"errors"
	"sync"

	"github.com/tripnara/tripnara-go/internal/models"
)

// ErrNoPendingEdit is returned by Apply when nothing was previewed.
var ErrNoPendingEdit = errors.New("no previewed edit to apply")

// Editor is the slice of the draft API the preview needs.
type Editor interface {
	PreviewImpact(ctx context.Context, draftID string, req models.PreviewImpactRequest) (*models.ImpactPreviewResult, error)
	UpdateStep(ctx context.Context, draftID, stepID string, upd models.UpdateStepRequest) (*models.DecisionStep, error)
}

// PendingEdit is a previewed change that has not been written.
type PendingEdit struct {
	StepID   string
	NewValue any
	Update   models.UpdateStepRequest
	Impact   models.ImpactPreviewResult
}

// ImpactPreview never writes to the draft until Apply.
type ImpactPreview struct {
	editor  Editor
	draftID string

	mu      sync.Mutex
	pending *PendingEdit
}

func NewImpactPreview(editor Editor, draftID string) *ImpactPreview {
	return &ImpactPreview{editor: editor, draftID: draftID}
}

// Preview asks the backend what changing stepID to newValue would affect.
// The result replaces any earlier pending edit; a failed preview leaves the earlier one in place.
func (p *ImpactPreview) Preview(ctx context.Context, stepID string, newValue any, upd models.UpdateStepRequest) (*PendingEdit, error) {
	res, err := p.editor.PreviewImpact(ctx, p.draftID, models.PreviewImpactRequest{StepID: stepID, NewValue: newValue})
	if err != nil {
		return nil, err
	}
	edit := &PendingEdit{StepID: stepID, NewValue: newValue, Update: upd, Impact: *res}
	p.mu.Lock()
	p.pending = edit
	p.mu.Unlock()
	return edit, nil
}

func (p *ImpactPreview) Pending() (*PendingEdit, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending, p.pending != nil
}

// Apply writes the pending edit. On failure the edit stays pending so it can be retried.
func (p *ImpactPreview) Apply(ctx context.Context) (*models.DecisionStep, error) {
	p.mu.Lock()
	edit := p.pending
	p.mu.Unlock()
	if edit == nil {
		return nil, ErrNoPendingEdit
	}
	step, err := p.editor.UpdateStep(ctx, p.draftID, edit.StepID, edit.Update)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	if p.pending == edit {
		p.pending = nil
	}
	p.mu.Unlock()
	return step, nil
}

// Discard drops the pending edit without writing anything.
func (p *ImpactPreview) Discard() {
	p.mu.Lock()
	p.pending = nil
	p.mu.Unlock()
}
