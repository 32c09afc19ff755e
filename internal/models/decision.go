// ABOUTME: Decision engine request and response shapes for the legacy and v1 API generations
// ABOUTME: Legacy shapes are canonical; v1 responses are adapted into them by the api package
package models

import "encoding/json"

// Persona is one of the three guardian strategies.
type Persona string

const (
	PersonaAbu     Persona = "ABU"
	PersonaDrDre   Persona = "DR_DRE"
	PersonaNeptune Persona = "NEPTUNE"
)

type RouteSegment struct {
	SegmentID      string          `json:"segmentId"`
	DayIndex       int             `json:"dayIndex"`
	DistanceKm     float64         `json:"distanceKm"`
	AscentM        float64         `json:"ascentM"`
	SlopePct       float64         `json:"slopePct"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	GraphRelations *GraphRelations `json:"graphRelations,omitempty"`
}

type GraphRelations struct {
	FromPlaceID  string `json:"fromPlaceId,omitempty"`
	ToPlaceID    string `json:"toPlaceId,omitempty"`
	GraphNodeID  string `json:"graphNodeId,omitempty"`
	RelationType string `json:"relationType,omitempty"`
}

type RoutePlanDraft struct {
	TripID           string         `json:"tripId"`
	RouteDirectionID string         `json:"routeDirectionId"`
	Segments         []RouteSegment `json:"segments"`
}

// WorldContext is passed through opaquely; the server owns its schema.
type WorldContext = json.RawMessage

type DecisionLogItem struct {
	Persona     Persona  `json:"persona"`
	Action      string   `json:"action"`
	Explanation string   `json:"explanation"`
	ReasonCodes []string `json:"reasonCodes,omitempty"`
	Timestamp   string   `json:"timestamp"`
}

type ValidateSafetyRequest struct {
	TripID       string         `json:"tripId,omitempty"`
	Plan         RoutePlanDraft `json:"plan"`
	WorldContext WorldContext   `json:"worldContext"`
}

type SafetyViolation struct {
	SegmentID   string          `json:"segmentId,omitempty"`
	Violation   string          `json:"violation,omitempty"`
	Explanation string          `json:"explanation"`
	Persona     Persona         `json:"persona,omitempty"`
	Action      string          `json:"action,omitempty"`
	Evidence    json.RawMessage `json:"evidence,omitempty"`
	Reason      string          `json:"reason,omitempty"`
	Code        string          `json:"code,omitempty"`
	Message     string          `json:"message,omitempty"`
}

type AlternativeRoute struct {
	RouteID     string          `json:"routeId,omitempty"`
	Description string          `json:"description"`
	Plan        json.RawMessage `json:"plan,omitempty"`
	Changes     []string        `json:"changes,omitempty"`
	Reason      string          `json:"reason,omitempty"`
}

type ValidateSafetyResult struct {
	Allowed           bool               `json:"allowed"`
	Violations        []SafetyViolation  `json:"violations"`
	AlternativeRoutes []AlternativeRoute `json:"alternativeRoutes,omitempty"`
	Message           string             `json:"message,omitempty"`
	DecisionLog       []DecisionLogItem  `json:"decisionLog,omitempty"`
}

type AdjustPacingRequest struct {
	TripID       string         `json:"tripId"`
	Plan         RoutePlanDraft `json:"plan"`
	WorldContext WorldContext   `json:"worldContext"`
}

type PacingDayChange struct {
	DayIndex         int `json:"dayIndex"`
	OriginalDuration int `json:"originalDuration"`
	AdjustedDuration int `json:"adjustedDuration"`
	InsertedBreaks   int `json:"insertedBreaks,omitempty"`
}

type PacingChange struct {
	Persona     Persona           `json:"persona"`
	Action      string            `json:"action"`
	Explanation string            `json:"explanation"`
	Changes     []PacingDayChange `json:"changes,omitempty"`
	Type        string            `json:"type,omitempty"`
	SegmentID   string            `json:"segmentId,omitempty"`
	NewSegments []string          `json:"newSegments,omitempty"`
	Reason      string            `json:"reason,omitempty"`
}

type AdjustPacingResult struct {
	Success      bool              `json:"success"`
	AdjustedPlan *RoutePlanDraft   `json:"adjustedPlan,omitempty"`
	Changes      []PacingChange    `json:"changes"`
	Message      string            `json:"message,omitempty"`
	DecisionLog  []DecisionLogItem `json:"decisionLog,omitempty"`
}

type UnavailableNode struct {
	NodeID string `json:"nodeId"`
	Reason string `json:"reason"`
}

type ReplaceNodesRequest struct {
	TripID           string            `json:"tripId"`
	Plan             RoutePlanDraft    `json:"plan"`
	WorldContext     WorldContext      `json:"worldContext"`
	UnavailableNodes []UnavailableNode `json:"unavailableNodes"`
}

type ReplacementValidation struct {
	ElevationChange *float64 `json:"elevationChange,omitempty"`
	DistanceChange  *float64 `json:"distanceChange,omitempty"`
	SlopeChange     *float64 `json:"slopeChange,omitempty"`
	SafetyCheck     string   `json:"safetyCheck"`
}

type NodeReplacement struct {
	Persona           Persona               `json:"persona"`
	OriginalNodeID    string                `json:"originalNodeId"`
	ReplacementNodeID string                `json:"replacementNodeId"`
	Reason            string                `json:"reason"`
	Explanation       string                `json:"explanation"`
	Validation        ReplacementValidation `json:"validation"`
}

type ReplaceNodesResult struct {
	Success      bool              `json:"success"`
	ReplacedPlan *RoutePlanDraft   `json:"replacedPlan,omitempty"`
	Replacements []NodeReplacement `json:"replacements"`
	Message      string            `json:"message,omitempty"`
	DecisionLog  []DecisionLogItem `json:"decisionLog,omitempty"`
}

// ConstraintDSL carries hard and soft constraints through opaquely.
type ConstraintDSL struct {
	HardConstraints json.RawMessage `json:"hard_constraints,omitempty"`
	SoftConstraints json.RawMessage `json:"soft_constraints,omitempty"`
}

type CheckConstraintsRequest struct {
	State json.RawMessage `json:"state"`
	Plan  json.RawMessage `json:"plan"`
}

type ConstraintViolation struct {
	Code        string          `json:"code"`
	Severity    string          `json:"severity"`
	Message     string          `json:"message"`
	Details     json.RawMessage `json:"details,omitempty"`
	Suggestions []string        `json:"suggestions,omitempty"`
}

type InfeasibilityReason struct {
	Constraint         string   `json:"constraint"`
	Description        string   `json:"description"`
	FixSuggestions     []string `json:"fix_suggestions,omitempty"`
	AffectedActivities []any    `json:"affected_activities,omitempty"`
}

type InfeasibilityExplanation struct {
	Feasible bool                  `json:"feasible"`
	Reasons  []InfeasibilityReason `json:"reasons"`
	Summary  string                `json:"summary"`
}

type ConstraintConflict struct {
	Between         []string        `json:"between"`
	Description     string          `json:"description"`
	Severity        string          `json:"severity"`
	TradeoffOptions []string        `json:"tradeoff_options"`
	Details         json.RawMessage `json:"details,omitempty"`
}

type ViolationSummary struct {
	ErrorCount   int `json:"errorCount"`
	WarningCount int `json:"warningCount"`
	InfoCount    int `json:"infoCount"`
}

type ConflictReport struct {
	Conflicts     []ConstraintConflict `json:"conflicts"`
	HasConflicts  bool                 `json:"has_conflicts"`
	CriticalCount int                  `json:"critical_count"`
	HighCount     int                  `json:"high_count"`
	MediumCount   int                  `json:"medium_count"`
	LowCount      int                  `json:"low_count"`
}

type CheckConstraintsResult struct {
	IsValid                  bool                     `json:"isValid"`
	Violations               []ConstraintViolation    `json:"violations"`
	Summary                  ViolationSummary         `json:"summary"`
	Conflicts                ConflictReport           `json:"conflicts"`
	InfeasibilityExplanation InfeasibilityExplanation `json:"infeasibilityExplanation"`
}

type DetectConflictsRequest struct {
	Constraints ConstraintDSL   `json:"constraints"`
	Plan        json.RawMessage `json:"plan,omitempty"`
	State       json.RawMessage `json:"state,omitempty"`
}

type DetectConflictsResult struct {
	Conflicts    []ConstraintConflict `json:"conflicts"`
	HasConflicts bool                 `json:"has_conflicts"`
	Summary      struct {
		Critical int `json:"critical"`
		High     int `json:"high"`
		Medium   int `json:"medium"`
		Low      int `json:"low"`
	} `json:"summary"`
}

type GenerateMultiplePlansRequest struct {
	State       json.RawMessage `json:"state"`
	Constraints ConstraintDSL   `json:"constraints"`
}

// VariantID is the legacy closed set of plan variants.
type VariantID string

const (
	VariantConservative VariantID = "conservative"
	VariantBalanced     VariantID = "balanced"
	VariantAggressive   VariantID = "aggressive"
)

type VariantTradeoff struct {
	Constraint  string  `json:"constraint"`
	Sacrificed  string  `json:"sacrificed"`
	Reason      string  `json:"reason"`
	CanAdjust   bool    `json:"can_adjust"`
	ImpactScore float64 `json:"impact_score"`
}

type ScoreBreakdown struct {
	Satisfaction  float64 `json:"satisfaction"`
	ViolationRisk float64 `json:"violationRisk"`
	Robustness    float64 `json:"robustness"`
	Cost          float64 `json:"cost"`
}

type VariantScore struct {
	Total     float64        `json:"total"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

type VariantFeasibility struct {
	IsValid    bool `json:"isValid"`
	Violations int  `json:"violations"`
	Conflicts  int  `json:"conflicts"`
}

type VariantSummary struct {
	Days            int `json:"days"`
	TotalActivities int `json:"totalActivities"`
}

type PlanVariant struct {
	ID          VariantID          `json:"id"`
	Score       VariantScore       `json:"score"`
	Tradeoffs   []VariantTradeoff  `json:"tradeoffs"`
	Feasibility VariantFeasibility `json:"feasibility"`
	PlanSummary VariantSummary     `json:"planSummary"`
	Plan        json.RawMessage    `json:"plan,omitempty"`
	Metadata    json.RawMessage    `json:"metadata,omitempty"`
}

type RunLog struct {
	RunID       string `json:"runId"`
	Explanation string `json:"explanation"`
}

type MultiplePlansResult struct {
	Variants []PlanVariant `json:"variants"`
	Log      RunLog        `json:"log"`
}

// Feedback endpoints accept free-form payloads.
type FeedbackRequest map[string]any

type FeedbackStats map[string]any

// EnginePlan is the v1 plan representation.
type EnginePlan struct {
	Version string            `json:"version,omitempty"`
	Days    []json.RawMessage `json:"days"`
}

type EngineLog struct {
	RunID       string `json:"runId,omitempty"`
	Explanation string `json:"explanation,omitempty"`
	StrategyMix []struct {
		Persona string   `json:"persona"`
		Weight  *float64 `json:"weight,omitempty"`
	} `json:"strategyMix,omitempty"`
}

type GeneratePlanRequest struct {
	TripID string          `json:"tripId"`
	State  json.RawMessage `json:"state"`
}

type GeneratePlanResult struct {
	Plan EnginePlan `json:"plan"`
	Log  EngineLog  `json:"log"`
}

type RepairPlanRequest struct {
	TripID  string          `json:"tripId"`
	State   json.RawMessage `json:"state"`
	Plan    EnginePlan      `json:"plan"`
	Trigger string          `json:"trigger"`
}

type RepairPlanResult struct {
	Plan           EnginePlan `json:"plan"`
	Log            EngineLog  `json:"log"`
	Triggers       []string   `json:"triggers,omitempty"`
	ChangedSlotIDs []string   `json:"changedSlotIds,omitempty"`
}

type EngineValidateSafetyRequest struct {
	TripID       string          `json:"tripId"`
	Plan         json.RawMessage `json:"plan"`
	WorldContext WorldContext    `json:"worldContext"`
}

type EngineCheckConstraintsResult struct {
	Feasible                 bool                      `json:"feasible"`
	Violations               []ConstraintViolation     `json:"violations"`
	InfeasibilityExplanation *InfeasibilityExplanation `json:"infeasibilityExplanation,omitempty"`
}

type EngineMultiplePlansRequest struct {
	State       json.RawMessage `json:"state"`
	Constraints *ConstraintDSL  `json:"constraints,omitempty"`
	Count       int             `json:"count,omitempty"`
}

// EngineVariant keeps score components as a free map since v1 may add new axes.
type EngineVariant struct {
	ID        string           `json:"id"`
	Plan      json.RawMessage  `json:"plan,omitempty"`
	Score     ScoreComponents  `json:"score,omitempty"`
	Tradeoffs []EngineTradeoff `json:"tradeoffs,omitempty"`
	Metadata  json.RawMessage  `json:"metadata,omitempty"`
}

// ScoreComponents holds the numeric score axes of a v1 variant.
// Non-numeric components (grades, labels, nested objects) are dropped on decode.
type ScoreComponents map[string]float64

func (s *ScoreComponents) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = nil
		return nil
	}
	out := make(ScoreComponents, len(raw))
	for k, v := range raw {
		var f *float64
		if err := json.Unmarshal(v, &f); err != nil || f == nil {
			continue
		}
		out[k] = *f
	}
	*s = out
	return nil
}

// EngineTradeoff fields are all optional on the wire.
type EngineTradeoff struct {
	Constraint  *string  `json:"constraint,omitempty"`
	Sacrificed  *string  `json:"sacrificed,omitempty"`
	Reason      *string  `json:"reason,omitempty"`
	CanAdjust   *bool    `json:"can_adjust,omitempty"`
	ImpactScore *float64 `json:"impact_score,omitempty"`
}

type EngineMultiplePlansResult struct {
	Variants []EngineVariant `json:"variants"`
	Log      EngineLog       `json:"log"`
}

type ExplainPlanRequest struct {
	Plan       json.RawMessage       `json:"plan"`
	Log        *EngineLog            `json:"log,omitempty"`
	Violations []ConstraintViolation `json:"violations,omitempty"`
}

type ExplainSlot struct {
	SlotID string `json:"slotId,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type ExplainPlanResult struct {
	Summary     string                `json:"summary"`
	WhyThisPlan []string              `json:"whyThisPlan"`
	Slots       []ExplainSlot         `json:"slots"`
	Violations  []ConstraintViolation `json:"violations"`
}

type EngineHealth struct {
	Status string `json:"status"`
}
