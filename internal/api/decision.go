// ABOUTME: Legacy decision endpoints under /decision: safety, pacing, node replacement, constraints and feedback
package api

import (
	"context"

	"github.com/tripnara/tripnara-go/internal/httpclient"
	"github.com/tripnara/tripnara-go/internal/models"
)

type LegacyDecisionService struct {
	c *httpclient.Client
}

func (s *LegacyDecisionService) ValidateSafety(ctx context.Context, req models.ValidateSafetyRequest) (*models.ValidateSafetyResult, error) {
	return ptr(httpclient.JSON[models.ValidateSafetyResult](ctx, s.c, httpclient.Post("/decision/validate-safety", req)))
}

func (s *LegacyDecisionService) AdjustPacing(ctx context.Context, req models.AdjustPacingRequest) (*models.AdjustPacingResult, error) {
	return ptr(httpclient.JSON[models.AdjustPacingResult](ctx, s.c, httpclient.Post("/decision/adjust-pacing", req)))
}

func (s *LegacyDecisionService) ReplaceNodes(ctx context.Context, req models.ReplaceNodesRequest) (*models.ReplaceNodesResult, error) {
	return ptr(httpclient.JSON[models.ReplaceNodesResult](ctx, s.c, httpclient.Post("/decision/replace-nodes", req)))
}

func (s *LegacyDecisionService) CheckConstraintsWithExplanation(ctx context.Context, req models.CheckConstraintsRequest) (*models.CheckConstraintsResult, error) {
	r := httpclient.Post("/decision/check-constraints", req).WithTimeout(EngineTimeout)
	return ptr(httpclient.JSON[models.CheckConstraintsResult](ctx, s.c, r))
}

func (s *LegacyDecisionService) GenerateMultiplePlans(ctx context.Context, req models.GenerateMultiplePlansRequest) (*models.MultiplePlansResult, error) {
	r := httpclient.Post("/decision/generate-multiple-plans", req).WithTimeout(MultiPlanTimeout)
	return ptr(httpclient.JSON[models.MultiplePlansResult](ctx, s.c, r))
}

func (s *LegacyDecisionService) DetectConflicts(ctx context.Context, req models.DetectConflictsRequest) (*models.DetectConflictsResult, error) {
	r := httpclient.Post("/decision/detect-conflicts", req).WithTimeout(EngineTimeout)
	return ptr(httpclient.JSON[models.DetectConflictsResult](ctx, s.c, r))
}

// FeedbackKind selects one of the feedback collection endpoints.
type FeedbackKind string

const (
	FeedbackPlanVariant     FeedbackKind = "plan-variant"
	FeedbackConflict        FeedbackKind = "conflict"
	FeedbackDecisionQuality FeedbackKind = "decision-quality"
	FeedbackBatch           FeedbackKind = "batch"
)

func (s *LegacyDecisionService) SubmitFeedback(ctx context.Context, kind FeedbackKind, fb models.FeedbackRequest) error {
	return httpclient.Exec(ctx, s.c, httpclient.Post("/decision/feedback/"+string(kind), fb))
}

func (s *LegacyDecisionService) FeedbackStats(ctx context.Context) (models.FeedbackStats, error) {
	return httpclient.JSON[models.FeedbackStats](ctx, s.c, httpclient.Get("/decision/feedback/stats"))
}
