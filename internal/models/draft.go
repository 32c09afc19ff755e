// ABOUTME: Decision draft records: steps, evidence, guardian reviews, replay timeline and versions
// ABOUTME: Field names mirror the snake_case wire format of the decision-draft endpoints
package models

import (
	"encoding/json"

	"github.com/tripnara/tripnara-go/internal/gate"
)

// UserMode selects how much of a draft the server exposes.
type UserMode string

const (
	ModeToC    UserMode = "toc"
	ModeExpert UserMode = "expert"
	ModeStudio UserMode = "studio"
)

// Valid reports whether m is one of the known modes.
func (m UserMode) Valid() bool {
	return m == ModeToC || m == ModeExpert || m == ModeStudio
}

// DecisionType classifies a decision step.
type DecisionType string

const (
	DecisionTransport     DecisionType = "transport-decision"
	DecisionPace          DecisionType = "pace-decision"
	DecisionPOISelection  DecisionType = "poi-selection"
	DecisionAccommodation DecisionType = "accommodation-decision"
	DecisionTiming        DecisionType = "timing-decision"
	DecisionBudget        DecisionType = "budget-decision"
	DecisionSafety        DecisionType = "safety-decision"
	DecisionPreference    DecisionType = "preference-decision"
	DecisionOther         DecisionType = "other"
)

// DecisionTypes lists every known decision type.
func DecisionTypes() []DecisionType {
	return []DecisionType{
		DecisionTransport, DecisionPace, DecisionPOISelection, DecisionAccommodation,
		DecisionTiming, DecisionBudget, DecisionSafety, DecisionPreference, DecisionOther,
	}
}

// OrchestrationStep is the pipeline phase that produced a step or timeline event.
type OrchestrationStep string

const (
	StepIntake   OrchestrationStep = "INTAKE"
	StepResearch OrchestrationStep = "RESEARCH"
	StepGateEval OrchestrationStep = "GATE_EVAL"
	StepPlanGen  OrchestrationStep = "PLAN_GEN"
	StepVerify   OrchestrationStep = "VERIFY"
	StepRepair   OrchestrationStep = "REPAIR"
	StepNarrate  OrchestrationStep = "NARRATE"
)

type DecisionStepInput struct {
	Name       string          `json:"name"`
	Value      json.RawMessage `json:"value,omitempty"`
	Source     string          `json:"source,omitempty"`
	Confidence *float64        `json:"confidence,omitempty"`
}

type DecisionStepOutput struct {
	Name       string          `json:"name"`
	Value      json.RawMessage `json:"value,omitempty"`
	Type       string          `json:"type,omitempty"`
	Confidence *float64        `json:"confidence,omitempty"`
}

// EvidenceRef is a cited source backing one or more decisions.
type EvidenceRef struct {
	EvidenceID         string   `json:"evidence_id"`
	SourceTitle        string   `json:"source_title"`
	SourceURL          string   `json:"source_url,omitempty"`
	Publisher          string   `json:"publisher,omitempty"`
	PublishedAt        string   `json:"published_at,omitempty"`
	RetrievedAt        string   `json:"retrieved_at"`
	DataTimestamp      string   `json:"data_timestamp,omitempty"`
	Excerpt            string   `json:"excerpt"`
	Relevance          float64  `json:"relevance"`
	Confidence         float64  `json:"confidence"`
	RelatedDecisionIDs []string `json:"related_decision_ids"`
}

type DecisionLogEntry struct {
	Timestamp  string          `json:"timestamp"`
	Agent      string          `json:"agent,omitempty"`
	Action     string          `json:"action"`
	Reasoning  string          `json:"reasoning,omitempty"`
	Inputs     json.RawMessage `json:"inputs,omitempty"`
	Outputs    json.RawMessage `json:"outputs,omitempty"`
	Confidence *float64        `json:"confidence,omitempty"`
}

type GuardianReview struct {
	Status     string   `json:"status"`
	Reasoning  string   `json:"reasoning,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Concerns   []string `json:"concerns,omitempty"`
}

type GuardianReviews struct {
	Abu     *GuardianReview `json:"abu,omitempty"`
	DrDre   *GuardianReview `json:"dr_dre,omitempty"`
	Neptune *GuardianReview `json:"neptune,omitempty"`
}

type UserFeedback struct {
	Action    string `json:"action"`
	Reasoning string `json:"reasoning,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	UserID    string `json:"user_id,omitempty"`
}

type StepDraft struct {
	StepDraftID string          `json:"step_draft_id"`
	StepType    string          `json:"step_type"`
	Inputs      json.RawMessage `json:"inputs,omitempty"`
	Outputs     json.RawMessage `json:"outputs,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

type WorkflowDraft struct {
	WorkflowDraftID string          `json:"workflow_draft_id"`
	Steps           []StepDraft     `json:"steps"`
	Metadata        json.RawMessage `json:"metadata,omitempty"`
}

// DecisionStep is one node of the decision graph.
// Status arrives in the review vocabulary (pending/approved/...) or any gate spelling.
type DecisionStep struct {
	ID                string               `json:"id"`
	Title             string               `json:"title"`
	Description       string               `json:"description"`
	Type              DecisionType         `json:"type"`
	Status            string               `json:"status"`
	Confidence        float64              `json:"confidence"`
	Inputs            []DecisionStepInput  `json:"inputs"`
	Outputs           []DecisionStepOutput `json:"outputs"`
	Evidence          []EvidenceRef        `json:"evidence"`
	DecisionLog       []DecisionLogEntry   `json:"decision_log"`
	StepDraftIDs      []string             `json:"step_draft_ids"`
	StepDrafts        []StepDraft          `json:"step_drafts,omitempty"`
	OrchestrationStep OrchestrationStep    `json:"orchestration_step,omitempty"`
	SubAgent          string               `json:"sub_agent,omitempty"`
	SkillsUsed        []string             `json:"skills_used,omitempty"`
	GuardianReview    *GuardianReviews     `json:"guardian_review,omitempty"`
	UserFeedback      *UserFeedback        `json:"user_feedback,omitempty"`
	CreatedAt         string               `json:"created_at"`
	UpdatedAt         string               `json:"updated_at"`
}

// GateStatus is the step status folded into the canonical lattice.
func (s DecisionStep) GateStatus() gate.Status {
	return gate.Normalize(s.Status)
}

type DecisionDraftMetadata struct {
	DecisionCount int    `json:"decision_count"`
	StepCount     int    `json:"step_count"`
	CreatedBy     string `json:"created_by,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type DecisionDraft struct {
	DraftID       string                `json:"draft_id"`
	PlanID        string                `json:"plan_id"`
	PlanVersion   int                   `json:"plan_version"`
	DecisionSteps []DecisionStep        `json:"decision_steps"`
	StepDraftID   string                `json:"step_draft_id,omitempty"`
	StepDraft     *WorkflowDraft        `json:"step_draft,omitempty"`
	UserMode      UserMode              `json:"user_mode"`
	DebugInfo     *DecisionDebugInfo    `json:"debug_info,omitempty"`
	Metadata      DecisionDraftMetadata `json:"metadata"`
}

// Step returns the step with the given id.
func (d *DecisionDraft) Step(id string) (DecisionStep, bool) {
	for _, s := range d.DecisionSteps {
		if s.ID == id {
			return s, true
		}
	}
	return DecisionStep{}, false
}

type TokenUsage struct {
	Prompt     int `json:"prompt"`
	Completion int `json:"completion"`
	Total      int `json:"total"`
}

type LLMCall struct {
	CallID     string      `json:"call_id"`
	Timestamp  string      `json:"timestamp"`
	Model      string      `json:"model"`
	Prompt     string      `json:"prompt"`
	Response   string      `json:"response"`
	TokensUsed *TokenUsage `json:"tokens_used,omitempty"`
	Cost       *float64    `json:"cost,omitempty"`
	LatencyMS  *int        `json:"latency_ms,omitempty"`
}

type SkillCall struct {
	CallID     string          `json:"call_id"`
	Timestamp  string          `json:"timestamp"`
	SkillName  string          `json:"skill_name"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
	Response   json.RawMessage `json:"response,omitempty"`
	LatencyMS  *int            `json:"latency_ms,omitempty"`
	Success    bool            `json:"success"`
	Error      string          `json:"error,omitempty"`
}

type PerformanceMetrics struct {
	GenerationTimeMS int      `json:"generation_time_ms"`
	ExecutionTimeMS  int      `json:"execution_time_ms"`
	SuccessRate      float64  `json:"success_rate"`
	TotalCostUSD     *float64 `json:"total_cost_usd,omitempty"`
	LLMCallsCount    int      `json:"llm_calls_count"`
	SkillCallsCount  int      `json:"skill_calls_count"`
}

type DecisionDebugInfo struct {
	LLMCalls                []LLMCall          `json:"llm_calls"`
	SkillCalls              []SkillCall        `json:"skill_calls"`
	PerformanceMetrics      PerformanceMetrics `json:"performance_metrics"`
	OptimizationSuggestions []string           `json:"optimization_suggestions,omitempty"`
}

// Explanation carries the union of the toc, expert and studio explanation shapes.
// Which fields are populated depends on the requested mode.
type Explanation struct {
	Summary       string         `json:"summary"`
	DecisionCount int            `json:"decision_count,omitempty"`
	KeyDecisions  []DecisionStep `json:"key_decisions,omitempty"`
	KeyEvidence   []EvidenceRef  `json:"key_evidence,omitempty"`

	DecisionSteps []DecisionStep     `json:"decision_steps,omitempty"`
	StepDrafts    []StepDraft        `json:"step_drafts,omitempty"`
	EvidenceChain []EvidenceRef      `json:"evidence_chain,omitempty"`
	DecisionLog   []DecisionLogEntry `json:"decision_log,omitempty"`

	LLMCalls                []LLMCall           `json:"llm_calls,omitempty"`
	SkillCalls              []SkillCall         `json:"skill_calls,omitempty"`
	PerformanceMetrics      *PerformanceMetrics `json:"performance_metrics,omitempty"`
	OptimizationSuggestions []string            `json:"optimization_suggestions,omitempty"`
}

// Mode infers which explanation variant was returned.
func (e Explanation) Mode() UserMode {
	switch {
	case e.PerformanceMetrics != nil || len(e.LLMCalls) > 0:
		return ModeStudio
	case len(e.DecisionSteps) > 0 || len(e.EvidenceChain) > 0:
		return ModeExpert
	default:
		return ModeToC
	}
}

type ImpactPreviewResult struct {
	AffectedSteps    []string `json:"affected_steps"`
	AffectedEvidence []string `json:"affected_evidence"`
	ImpactSummary    string   `json:"impact_summary"`
	ConfidenceChange float64  `json:"confidence_change"`
}

type ReplayTimelineItem struct {
	Timestamp     string            `json:"timestamp"`
	Step          OrchestrationStep `json:"step"`
	DecisionStep  *DecisionStep     `json:"decision_step,omitempty"`
	EvidenceAdded []EvidenceRef     `json:"evidence_added,omitempty"`
	DecisionMade  *DecisionLogEntry `json:"decision_made,omitempty"`
}

type DecisionReplay struct {
	Timeline   []ReplayTimelineItem `json:"timeline"`
	DurationMS int64                `json:"duration_ms"`
}

type DecisionDraftVersion struct {
	VersionID     string          `json:"version_id"`
	DraftID       string          `json:"draft_id"`
	VersionNumber int             `json:"version_number"`
	CreatedAt     string          `json:"created_at"`
	CreatedBy     string          `json:"created_by,omitempty"`
	Description   string          `json:"description,omitempty"`
	DecisionSteps []DecisionStep  `json:"decision_steps"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
}

type VersionDiff struct {
	Added    []DecisionStep `json:"decision_steps_added"`
	Removed  []DecisionStep `json:"decision_steps_removed"`
	Modified []DecisionStep `json:"decision_steps_modified"`
}

type VersionComparison struct {
	Version1 DecisionDraftVersion `json:"version1"`
	Version2 DecisionDraftVersion `json:"version2"`
	Diff     VersionDiff          `json:"diff"`
}

type FeedbackInput struct {
	Action    string `json:"action"`
	Reasoning string `json:"reasoning,omitempty"`
}

// UpdateStepRequest is a partial update: nil fields are not sent.
type UpdateStepRequest struct {
	Title        *string              `json:"title,omitempty"`
	Description  *string              `json:"description,omitempty"`
	Status       *gate.Status         `json:"status,omitempty"`
	Confidence   *float64             `json:"confidence,omitempty"`
	Outputs      []DecisionStepOutput `json:"outputs,omitempty"`
	UserFeedback *FeedbackInput       `json:"user_feedback,omitempty"`
}

type PreviewImpactRequest struct {
	StepID   string `json:"step_id"`
	NewValue any    `json:"new_value"`
}

type GenerateDraftRequest struct {
	PlanID      string   `json:"plan_id"`
	PlanVersion *int     `json:"plan_version,omitempty"`
	UserMode    UserMode `json:"user_mode,omitempty"`
}

type StepUpdate struct {
	StepID  string            `json:"step_id"`
	Updates UpdateStepRequest `json:"updates"`
}

type BatchUpdateStepsRequest struct {
	Updates []StepUpdate `json:"updates"`
}

type ReorderStepsRequest struct {
	StepIDs []string `json:"step_ids"`
}

type CreateVersionRequest struct {
	Description string `json:"description,omitempty"`
}

type DraftStats struct {
	TotalDrafts       int     `json:"total_drafts"`
	TotalDecisions    int     `json:"total_decisions"`
	AverageConfidence float64 `json:"average_confidence"`
	SuccessRate       float64 `json:"success_rate"`
}
