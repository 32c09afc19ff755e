// ABOUTME: DecisionBackend strategy: one interface over the legacy and v1 decision generations
// ABOUTME: The v1 implementation adapts engine results back into the legacy result shapes
package api

import (
	"context"
	"encoding/json"

	"github.com/tripnara/tripnara-go/internal/models"
)

// DecisionBackend is the decision capability consumers depend on, independent of API generation.
type DecisionBackend interface {
	Name() string
	ValidateSafety(ctx context.Context, req models.ValidateSafetyRequest) (*models.ValidateSafetyResult, error)
	AdjustPacing(ctx context.Context, req models.AdjustPacingRequest) (*models.AdjustPacingResult, error)
	ReplaceNodes(ctx context.Context, req models.ReplaceNodesRequest) (*models.ReplaceNodesResult, error)
	CheckConstraintsWithExplanation(ctx context.Context, req models.CheckConstraintsRequest) (*models.CheckConstraintsResult, error)
	GenerateMultiplePlans(ctx context.Context, req models.GenerateMultiplePlansRequest) (*models.MultiplePlansResult, error)
	DetectConflicts(ctx context.Context, req models.DetectConflictsRequest) (*models.DetectConflictsResult, error)
	SubmitFeedback(ctx context.Context, kind FeedbackKind, fb models.FeedbackRequest) error
	FeedbackStats(ctx context.Context) (models.FeedbackStats, error)
}

// v1VariantCount is how many variants the engine is asked for.
const v1VariantCount = 3

// NewDecisionBackend selects the generation. Conflict detection and feedback exist only on the
// legacy API, so the v1 backend delegates them.
func NewDecisionBackend(useV1 bool, legacy *LegacyDecisionService, engine *DecisionEngineService) DecisionBackend {
	if useV1 {
		return &v1Backend{LegacyDecisionService: legacy, engine: engine}
	}
	return &legacyBackend{LegacyDecisionService: legacy}
}

type legacyBackend struct {
	*LegacyDecisionService
}

func (b *legacyBackend) Name() string { return "legacy" }

type v1Backend struct {
	*LegacyDecisionService
	engine *DecisionEngineService
}

func (b *v1Backend) Name() string { return "v1" }

func (b *v1Backend) ValidateSafety(ctx context.Context, req models.ValidateSafetyRequest) (*models.ValidateSafetyResult, error) {
	plan, err := json.Marshal(req.Plan)
	if err != nil {
		return nil, err
	}
	return b.engine.ValidateSafety(ctx, models.EngineValidateSafetyRequest{
		TripID:       req.TripID,
		Plan:         plan,
		WorldContext: req.WorldContext,
	})
}

func (b *v1Backend) AdjustPacing(ctx context.Context, req models.AdjustPacingRequest) (*models.AdjustPacingResult, error) {
	return b.engine.AdjustPacing(ctx, req)
}

func (b *v1Backend) ReplaceNodes(ctx context.Context, req models.ReplaceNodesRequest) (*models.ReplaceNodesResult, error) {
	return b.engine.ReplaceNodes(ctx, req)
}

func (b *v1Backend) CheckConstraintsWithExplanation(ctx context.Context, req models.CheckConstraintsRequest) (*models.CheckConstraintsResult, error) {
	res, err := b.engine.CheckConstraints(ctx, req)
	if err != nil {
		return nil, err
	}
	return adaptConstraintCheck(res), nil
}

func (b *v1Backend) GenerateMultiplePlans(ctx context.Context, req models.GenerateMultiplePlansRequest) (*models.MultiplePlansResult, error) {
	constraints := req.Constraints
	res, err := b.engine.GenerateMultiplePlans(ctx, models.EngineMultiplePlansRequest{
		State:       req.State,
		Constraints: &constraints,
		Count:       v1VariantCount,
	})
	if err != nil {
		return nil, err
	}
	return adaptVariants(res), nil
}

// adaptConstraintCheck maps feasible to isValid. v1 has no summary or conflict report, so both are zero.
func adaptConstraintCheck(res *models.EngineCheckConstraintsResult) *models.CheckConstraintsResult {
	out := &models.CheckConstraintsResult{
		IsValid:    res.Feasible,
		Violations: res.Violations,
		Conflicts:  models.ConflictReport{Conflicts: []models.ConstraintConflict{}},
		InfeasibilityExplanation: models.InfeasibilityExplanation{
			Feasible: res.Feasible,
			Reasons:  []models.InfeasibilityReason{},
		},
	}
	if out.Violations == nil {
		out.Violations = []models.ConstraintViolation{}
	}
	if res.InfeasibilityExplanation != nil {
		out.InfeasibilityExplanation = *res.InfeasibilityExplanation
	}
	return out
}

func adaptVariants(res *models.EngineMultiplePlansResult) *models.MultiplePlansResult {
	out := &models.MultiplePlansResult{
		Variants: make([]models.PlanVariant, 0, len(res.Variants)),
		Log:      models.RunLog{RunID: res.Log.RunID, Explanation: res.Log.Explanation},
	}
	for _, v := range res.Variants {
		out.Variants = append(out.Variants, adaptVariant(v))
	}
	return out
}

func adaptVariant(v models.EngineVariant) models.PlanVariant {
	pv := models.PlanVariant{
		ID:          clampVariantID(v.ID),
		Score:       adaptScore(v.Score),
		Tradeoffs:   make([]models.VariantTradeoff, 0, len(v.Tradeoffs)),
		Feasibility: models.VariantFeasibility{IsValid: true},
		PlanSummary: models.VariantSummary{Days: planDays(v.Plan)},
		Plan:        v.Plan,
		Metadata:    v.Metadata,
	}
	for _, t := range v.Tradeoffs {
		pv.Tradeoffs = append(pv.Tradeoffs, models.VariantTradeoff{
			Constraint:  deref(t.Constraint),
			Sacrificed:  deref(t.Sacrificed),
			Reason:      deref(t.Reason),
			CanAdjust:   deref(t.CanAdjust),
			ImpactScore: deref(t.ImpactScore),
		})
	}
	return pv
}

func clampVariantID(id string) models.VariantID {
	switch v := models.VariantID(id); v {
	case models.VariantConservative, models.VariantBalanced, models.VariantAggressive:
		return v
	}
	return models.VariantBalanced
}

// adaptScore uses the explicit total when present, otherwise the sum of the numeric components.
func adaptScore(score map[string]float64) models.VariantScore {
	var out models.VariantScore
	if score == nil {
		return out
	}
	if total, ok := score["total"]; ok {
		out.Total = total
	} else {
		for _, v := range score {
			out.Total += v
		}
	}
	out.Breakdown = models.ScoreBreakdown{
		Satisfaction:  score["satisfaction"],
		ViolationRisk: score["violationRisk"],
		Robustness:    score["robustness"],
		Cost:          score["cost"],
	}
	return out
}

func planDays(plan json.RawMessage) int {
	if len(plan) == 0 {
		return 0
	}
	var p struct {
		Days []json.RawMessage `json:"days"`
	}
	if err := json.Unmarshal(plan, &p); err != nil {
		return 0
	}
	return len(p.Days)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
