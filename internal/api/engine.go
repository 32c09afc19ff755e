// ABOUTME: Decision engine v1 endpoints under /decision-engine/v1
// ABOUTME: Generation and constraint checks carry their own long deadlines
package api

import (
	"context"

	"github.com/tripnara/tripnara-go/internal/httpclient"
	"github.com/tripnara/tripnara-go/internal/models"
)

const engineBase = "/decision-engine/v1"

type DecisionEngineService struct {
	c *httpclient.Client
}

func (s *DecisionEngineService) GeneratePlan(ctx context.Context, req models.GeneratePlanRequest) (*models.GeneratePlanResult, error) {
	r := httpclient.Post(engineBase+"/generate-plan", req).WithTimeout(EngineTimeout)
	return ptr(httpclient.JSON[models.GeneratePlanResult](ctx, s.c, r))
}

func (s *DecisionEngineService) RepairPlan(ctx context.Context, req models.RepairPlanRequest) (*models.RepairPlanResult, error) {
	r := httpclient.Post(engineBase+"/repair-plan", req).WithTimeout(EngineTimeout)
	return ptr(httpclient.JSON[models.RepairPlanResult](ctx, s.c, r))
}

func (s *DecisionEngineService) ValidateSafety(ctx context.Context, req models.EngineValidateSafetyRequest) (*models.ValidateSafetyResult, error) {
	return ptr(httpclient.JSON[models.ValidateSafetyResult](ctx, s.c, httpclient.Post(engineBase+"/validate-safety", req)))
}

func (s *DecisionEngineService) CheckConstraints(ctx context.Context, req models.CheckConstraintsRequest) (*models.EngineCheckConstraintsResult, error) {
	r := httpclient.Post(engineBase+"/check-constraints", req).WithTimeout(EngineTimeout)
	return ptr(httpclient.JSON[models.EngineCheckConstraintsResult](ctx, s.c, r))
}

func (s *DecisionEngineService) GenerateMultiplePlans(ctx context.Context, req models.EngineMultiplePlansRequest) (*models.EngineMultiplePlansResult, error) {
	r := httpclient.Post(engineBase+"/generate-multiple-plans", req).WithTimeout(MultiPlanTimeout)
	return ptr(httpclient.JSON[models.EngineMultiplePlansResult](ctx, s.c, r))
}

func (s *DecisionEngineService) ExplainPlan(ctx context.Context, req models.ExplainPlanRequest) (*models.ExplainPlanResult, error) {
	return ptr(httpclient.JSON[models.ExplainPlanResult](ctx, s.c, httpclient.Post(engineBase+"/explain-plan", req)))
}

func (s *DecisionEngineService) AdjustPacing(ctx context.Context, req models.AdjustPacingRequest) (*models.AdjustPacingResult, error) {
	return ptr(httpclient.JSON[models.AdjustPacingResult](ctx, s.c, httpclient.Post(engineBase+"/adjust-pacing", req)))
}

func (s *DecisionEngineService) ReplaceNodes(ctx context.Context, req models.ReplaceNodesRequest) (*models.ReplaceNodesResult, error) {
	return ptr(httpclient.JSON[models.ReplaceNodesResult](ctx, s.c, httpclient.Post(engineBase+"/replace-nodes", req)))
}

func (s *DecisionEngineService) Health(ctx context.Context) (*models.EngineHealth, error) {
	return ptr(httpclient.JSON[models.EngineHealth](ctx, s.c, httpclient.Get(engineBase+"/health")))
}
