// ABOUTME: Decision-draft endpoints: draft and explanation retrieval, step edits, impact preview, replay and versions
// ABOUTME: Each response nests its payload under a named key which is unwrapped here
package api

import (
	"context"

	"github.com/tripnara/tripnara-go/internal/httpclient"
	"github.com/tripnara/tripnara-go/internal/models"
)

type DraftsService struct {
	c *httpclient.Client
}

func modeOrDefault(m models.UserMode) string {
	if m == "" {
		return string(models.ModeToC)
	}
	return string(m)
}

func (s *DraftsService) Get(ctx context.Context, draftID string, mode models.UserMode) (*models.DecisionDraft, error) {
	req := httpclient.Get(pathf("/decision-draft/%s", draftID)).WithParam("mode", modeOrDefault(mode))
	out, err := httpclient.JSON[struct {
		Draft models.DecisionDraft `json:"draft"`
	}](ctx, s.c, req)
	if err != nil {
		return nil, err
	}
	return &out.Draft, nil
}

func (s *DraftsService) Explanation(ctx context.Context, draftID string, mode models.UserMode) (*models.Explanation, error) {
	req := httpclient.Get(pathf("/decision-draft/%s/explanation", draftID)).WithParam("mode", modeOrDefault(mode))
	return s.explanation(ctx, req)
}

func (s *DraftsService) StepExplanation(ctx context.Context, draftID, stepID string, mode models.UserMode) (*models.Explanation, error) {
	req := httpclient.Get(pathf("/decision-draft/%s/step/%s/explanation", draftID, stepID)).WithParam("mode", modeOrDefault(mode))
	return s.explanation(ctx, req)
}

func (s *DraftsService) explanation(ctx context.Context, req *httpclient.Request) (*models.Explanation, error) {
	out, err := httpclient.JSON[struct {
		Explanation models.Explanation `json:"explanation"`
	}](ctx, s.c, req)
	if err != nil {
		return nil, err
	}
	return &out.Explanation, nil
}

// UpdateStep sends a partial update; only non-nil fields change.
func (s *DraftsService) UpdateStep(ctx context.Context, draftID, stepID string, upd models.UpdateStepRequest) (*models.DecisionStep, error) {
	out, err := httpclient.JSON[struct {
		Step models.DecisionStep `json:"step"`
	}](ctx, s.c, httpclient.Patch(pathf("/decision-draft/%s/steps/%s", draftID, stepID), upd))
	if err != nil {
		return nil, err
	}
	return &out.Step, nil
}

// PreviewImpact computes the effect of a hypothetical edit without changing the draft.
func (s *DraftsService) PreviewImpact(ctx context.Context, draftID string, req models.PreviewImpactRequest) (*models.ImpactPreviewResult, error) {
	out, err := httpclient.JSON[struct {
		Impact models.ImpactPreviewResult `json:"impact"`
	}](ctx, s.c, httpclient.Post(pathf("/decision-draft/%s/preview-impact", draftID), req))
	if err != nil {
		return nil, err
	}
	return &out.Impact, nil
}

func (s *DraftsService) Replay(ctx context.Context, draftID string) (*models.DecisionReplay, error) {
	out, err := httpclient.JSON[struct {
		Replay models.DecisionReplay `json:"replay"`
	}](ctx, s.c, httpclient.Get(pathf("/decision-draft/%s/replay", draftID)))
	if err != nil {
		return nil, err
	}
	return &out.Replay, nil
}

func (s *DraftsService) Versions(ctx context.Context, draftID string) ([]models.DecisionDraftVersion, error) {
	out, err := httpclient.JSON[struct {
		Versions []models.DecisionDraftVersion `json:"versions"`
	}](ctx, s.c, httpclient.Get(pathf("/decision-draft/%s/versions", draftID)))
	return out.Versions, err
}

func (s *DraftsService) Version(ctx context.Context, draftID, versionID string) (*models.DecisionDraftVersion, error) {
	out, err := httpclient.JSON[struct {
		Version models.DecisionDraftVersion `json:"version"`
	}](ctx, s.c, httpclient.Get(pathf("/decision-draft/%s/versions/%s", draftID, versionID)))
	if err != nil {
		return nil, err
	}
	return &out.Version, nil
}

func (s *DraftsService) CompareVersions(ctx context.Context, draftID, v1, v2 string) (*models.VersionComparison, error) {
	return ptr(httpclient.JSON[models.VersionComparison](ctx, s.c,
		httpclient.Get(pathf("/decision-draft/%s/versions/%s/compare/%s", draftID, v1, v2))))
}
