// ABOUTME: Decision-draft administration: generation, debug info, batch edits, reordering and version management
package api

import (
	"context"

	"github.com/tripnara/tripnara-go/internal/httpclient"
	"github.com/tripnara/tripnara-go/internal/models"
)

const draftAdminBase = "/decision-draft/admin"

type DraftAdminService struct {
	c *httpclient.Client
}

func (s *DraftAdminService) Generate(ctx context.Context, req models.GenerateDraftRequest) (*models.DecisionDraft, error) {
	out, err := httpclient.JSON[struct {
		Draft models.DecisionDraft `json:"draft"`
	}](ctx, s.c, httpclient.Post(draftAdminBase+"/generate", req).WithTimeout(EngineTimeout))
	if err != nil {
		return nil, err
	}
	return &out.Draft, nil
}

func (s *DraftAdminService) DebugInfo(ctx context.Context, draftID string) (*models.DecisionDebugInfo, error) {
	out, err := httpclient.JSON[struct {
		DebugInfo models.DecisionDebugInfo `json:"debug_info"`
	}](ctx, s.c, httpclient.Get(pathf(draftAdminBase+"/%s/debug-info", draftID)))
	if err != nil {
		return nil, err
	}
	return &out.DebugInfo, nil
}

func (s *DraftAdminService) Stats(ctx context.Context) (*models.DraftStats, error) {
	return ptr(httpclient.JSON[models.DraftStats](ctx, s.c, httpclient.Get(draftAdminBase+"/stats")))
}

func (s *DraftAdminService) UpdateStep(ctx context.Context, draftID, stepID string, upd models.UpdateStepRequest) (*models.DecisionStep, error) {
	out, err := httpclient.JSON[struct {
		Step models.DecisionStep `json:"step"`
	}](ctx, s.c, httpclient.Put(pathf(draftAdminBase+"/%s/step/%s", draftID, stepID), upd))
	if err != nil {
		return nil, err
	}
	return &out.Step, nil
}

func (s *DraftAdminService) BatchUpdateSteps(ctx context.Context, draftID string, req models.BatchUpdateStepsRequest) ([]models.DecisionStep, error) {
	out, err := httpclient.JSON[struct {
		Steps []models.DecisionStep `json:"steps"`
	}](ctx, s.c, httpclient.Put(pathf(draftAdminBase+"/%s/steps/batch", draftID), req))
	return out.Steps, err
}

// Regenerate recomputes the given steps, or the whole draft when stepIDs is empty.
func (s *DraftAdminService) Regenerate(ctx context.Context, draftID string, stepIDs []string) (*models.DecisionDraft, error) {
	body := map[string]any{}
	if len(stepIDs) > 0 {
		body["step_ids"] = stepIDs
	}
	out, err := httpclient.JSON[struct {
		Draft models.DecisionDraft `json:"draft"`
	}](ctx, s.c, httpclient.Post(pathf(draftAdminBase+"/%s/regenerate", draftID), body).WithTimeout(EngineTimeout))
	if err != nil {
		return nil, err
	}
	return &out.Draft, nil
}

func (s *DraftAdminService) ReorderSteps(ctx context.Context, draftID string, stepIDs []string) ([]models.DecisionStep, error) {
	out, err := httpclient.JSON[struct {
		Steps []models.DecisionStep `json:"steps"`
	}](ctx, s.c, httpclient.Put(pathf(draftAdminBase+"/%s/steps/reorder", draftID), models.ReorderStepsRequest{StepIDs: stepIDs}))
	return out.Steps, err
}

// CreateVersion checkpoints the current steps and returns the new version id.
func (s *DraftAdminService) CreateVersion(ctx context.Context, draftID, description string) (string, error) {
	out, err := httpclient.JSON[struct {
		VersionID string `json:"version_id"`
	}](ctx, s.c, httpclient.Post(pathf(draftAdminBase+"/%s/version", draftID), models.CreateVersionRequest{Description: description}))
	return out.VersionID, err
}

func (s *DraftAdminService) Rollback(ctx context.Context, draftID, versionID string) (*models.DecisionDraft, error) {
	out, err := httpclient.JSON[struct {
		Draft models.DecisionDraft `json:"draft"`
	}](ctx, s.c, httpclient.Post(pathf(draftAdminBase+"/%s/version/%s/rollback", draftID, versionID), nil))
	if err != nil {
		return nil, err
	}
	return &out.Draft, nil
}

// Fork creates a new draft from a version and returns the new draft.
func (s *DraftAdminService) Fork(ctx context.Context, draftID, versionID string) (*models.DecisionDraft, error) {
	out, err := httpclient.JSON[struct {
		Draft models.DecisionDraft `json:"draft"`
	}](ctx, s.c, httpclient.Post(pathf(draftAdminBase+"/%s/version/%s/fork", draftID, versionID), nil))
	if err != nil {
		return nil, err
	}
	return &out.Draft, nil
}
