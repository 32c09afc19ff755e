// ABOUTME: Trip records: list and detail views, live state, persona alerts, conflicts, metrics and budget
// ABOUTME: Also folds the variant persona-alert payload shapes into one canonical slice
package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tripnara/tripnara-go/internal/gate"
)

type TripStatus string

const (
	TripPlanning   TripStatus = "PLANNING"
	TripInProgress TripStatus = "IN_PROGRESS"
	TripCompleted  TripStatus = "COMPLETED"
	TripCancelled  TripStatus = "CANCELLED"
)

type DayRef struct {
	ID   string `json:"id"`
	Date string `json:"date"`
}

type TripListItem struct {
	ID          string          `json:"id"`
	Destination string          `json:"destination"`
	StartDate   string          `json:"startDate"`
	EndDate     string          `json:"endDate"`
	Status      TripStatus      `json:"status"`
	TotalBudget decimal.Decimal `json:"totalBudget"`
	Days        []DayRef        `json:"days"`
	CreatedAt   string          `json:"createdAt,omitempty"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`
}

type PlaceRef struct {
	ID       int64   `json:"id"`
	NameCN   string  `json:"nameCN"`
	NameEN   *string `json:"nameEN"`
	Category string  `json:"category"`
	Address  string  `json:"address"`
	Rating   float64 `json:"rating"`
}

// DisplayName prefers the English name when present.
func (p *PlaceRef) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.NameEN != nil && *p.NameEN != "" {
		return *p.NameEN
	}
	return p.NameCN
}

type ItineraryItem struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Note      *string   `json:"note,omitempty"`
	PlaceID   *int64    `json:"placeId,omitempty"`
	TrailID   *int64    `json:"trailId,omitempty"`
	TripDayID string    `json:"tripDayId,omitempty"`
	Place     *PlaceRef `json:"Place,omitempty"`
}

// Title is the human label of an item: its place name, else note, else type.
func (i ItineraryItem) Title() string {
	if name := i.Place.DisplayName(); name != "" {
		return name
	}
	if i.Note != nil && *i.Note != "" {
		return *i.Note
	}
	return i.Type
}

type TripDay struct {
	ID    string          `json:"id"`
	Date  string          `json:"date"`
	Items []ItineraryItem `json:"ItineraryItem"`
}

type TripStatistics struct {
	TotalDays       int             `json:"totalDays"`
	TotalItems      int             `json:"totalItems"`
	TotalActivities int             `json:"totalActivities"`
	Progress        string          `json:"progress"`
	BudgetUsed      decimal.Decimal `json:"budgetUsed"`
	BudgetRemaining decimal.Decimal `json:"budgetRemaining"`
}

type PipelineStage struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	CompletedAt string `json:"completedAt,omitempty"`
	Summary     string `json:"summary,omitempty"`
}

type PipelineStatus struct {
	Stages []PipelineStage `json:"stages"`
}

type TripDetail struct {
	ID                string          `json:"id"`
	Destination       string          `json:"destination"`
	StartDate         string          `json:"startDate"`
	EndDate           string          `json:"endDate"`
	TotalBudget       decimal.Decimal `json:"totalBudget"`
	Status            TripStatus      `json:"status"`
	Days              []TripDay       `json:"TripDay"`
	Statistics        TripStatistics  `json:"statistics"`
	PipelineStatus    *PipelineStatus `json:"pipelineStatus,omitempty"`
	ActiveAlertsCount int             `json:"activeAlertsCount,omitempty"`
	PendingTasksCount int             `json:"pendingTasksCount,omitempty"`
}

// Items flattens every itinerary item across days in order.
func (t *TripDetail) Items() []ItineraryItem {
	var out []ItineraryItem
	for _, d := range t.Days {
		out = append(out, d.Items...)
	}
	return out
}

type CreateTripRequest struct {
	Destination string          `json:"destination"`
	StartDate   string          `json:"startDate"`
	EndDate     string          `json:"endDate"`
	TotalBudget decimal.Decimal `json:"totalBudget"`
	Preferences []string        `json:"preferences,omitempty"`
	Pace        string          `json:"pace,omitempty"`
}

type NextStop struct {
	ItemID               string `json:"itemId"`
	PlaceID              int64  `json:"placeId"`
	PlaceName            string `json:"placeName"`
	StartTime            string `json:"startTime"`
	EstimatedArrivalTime string `json:"estimatedArrivalTime,omitempty"`
}

type TripState struct {
	CurrentDayID  *string   `json:"currentDayId"`
	CurrentItemID *string   `json:"currentItemId"`
	NextStop      *NextStop `json:"nextStop,omitempty"`
	ETA           string    `json:"eta,omitempty"`
	Timezone      string    `json:"timezone"`
	Now           string    `json:"now"`
}

type ScheduleItem struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	PlaceID   int64  `json:"placeId"`
	PlaceName string `json:"placeName"`
	Type      string `json:"type"`
}

type Schedule struct {
	Date     string         `json:"date"`
	Schedule *struct {
		Items []ScheduleItem `json:"items"`
	} `json:"schedule"`
	Persisted bool `json:"persisted"`
}

type AlertMetadata struct {
	DecisionSource string   `json:"decisionSource,omitempty"`
	Action         string   `json:"action,omitempty"`
	ReasonCodes    []string `json:"reasonCodes,omitempty"`
	ItemID         string   `json:"itemId,omitempty"`
}

type PersonaAlert struct {
	ID        string         `json:"id"`
	Persona   Persona        `json:"persona"`
	Name      string         `json:"name"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Severity  string         `json:"severity"`
	CreatedAt string         `json:"createdAt"`
	Metadata  *AlertMetadata `json:"metadata,omitempty"`
}

// GateStatus infers the lattice value for an alert from its action, then its severity.
func (a PersonaAlert) GateStatus() gate.Status {
	action := ""
	if a.Metadata != nil {
		action = a.Metadata.Action
	}
	return gate.FromPersonaAlert(action, a.Severity)
}

// PersonaAlerts decodes either a bare array or an {"active": [...]} object.
type PersonaAlerts []PersonaAlert

func (p *PersonaAlerts) UnmarshalJSON(data []byte) error {
	var list []PersonaAlert
	if err := json.Unmarshal(data, &list); err == nil {
		*p = list
		return nil
	}
	var wrapped struct {
		Active []PersonaAlert `json:"active"`
		Alerts []PersonaAlert `json:"alerts"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return fmt.Errorf("persona alerts: %w", err)
	}
	if wrapped.Active != nil {
		*p = wrapped.Active
	} else {
		*p = wrapped.Alerts
	}
	return nil
}

type AttentionMetadata struct {
	Day         int      `json:"day,omitempty"`
	PoiID       string   `json:"poiId,omitempty"`
	EvidenceIDs []string `json:"evidenceIds,omitempty"`
	ActionURL   string   `json:"actionUrl,omitempty"`
	Persona     string   `json:"persona,omitempty"`
	Action      string   `json:"action,omitempty"`
}

type AttentionItem struct {
	ID          string             `json:"id"`
	Type        string             `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	TripID      string             `json:"tripId"`
	Severity    string             `json:"severity"`
	CreatedAt   string             `json:"createdAt"`
	UpdatedAt   string             `json:"updatedAt,omitempty"`
	Status      string             `json:"status,omitempty"`
	Metadata    *AttentionMetadata `json:"metadata,omitempty"`
}

func (a AttentionItem) GateStatus() gate.Status {
	action := ""
	if a.Metadata != nil {
		action = a.Metadata.Action
	}
	return gate.FromAttentionItem(action, a.Severity)
}

type AttentionQueue struct {
	Items  []AttentionItem `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type ConflictSuggestion struct {
	Action      string `json:"action"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

type TripConflict struct {
	ID              string               `json:"id"`
	Type            string               `json:"type"`
	Severity        string               `json:"severity"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	AffectedDays    []string             `json:"affectedDays"`
	AffectedItemIDs []string             `json:"affectedItemIds"`
	Suggestions     []ConflictSuggestion `json:"suggestions,omitempty"`
}

type ConflictsResponse struct {
	TripID    string         `json:"tripId"`
	Conflicts []TripConflict `json:"conflicts"`
	Total     int            `json:"total"`
}

type DayMetrics struct {
	Walk    float64 `json:"walk"`
	Drive   float64 `json:"drive"`
	Buffer  float64 `json:"buffer"`
	Fatigue float64 `json:"fatigue"`
	Ascent  float64 `json:"ascent"`
	Cost    float64 `json:"cost"`
}

type DayMetricsResponse struct {
	Date      string         `json:"date"`
	Metrics   DayMetrics     `json:"metrics"`
	Conflicts []TripConflict `json:"conflicts"`
}

type TripMetrics struct {
	TripID  string               `json:"tripId"`
	Days    []DayMetricsResponse `json:"days"`
	Summary struct {
		TotalWalk          float64 `json:"totalWalk"`
		TotalDrive         float64 `json:"totalDrive"`
		TotalBuffer        float64 `json:"totalBuffer"`
		TotalFatigue       float64 `json:"totalFatigue"`
		TotalCost          float64 `json:"totalCost"`
		AverageWalkPerDay  float64 `json:"averageWalkPerDay"`
		AverageDrivePerDay float64 `json:"averageDrivePerDay"`
	} `json:"summary"`
}

type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Priority  string `json:"priority"`
	Category  string `json:"category"`
	Route     string `json:"route,omitempty"`
}

type ActionHistory struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	CreatedAt string          `json:"createdAt"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type CategoryBreakdown struct {
	Accommodation  decimal.Decimal `json:"accommodation"`
	Transportation decimal.Decimal `json:"transportation"`
	Food           decimal.Decimal `json:"food"`
	Activities     decimal.Decimal `json:"activities"`
	Other          decimal.Decimal `json:"other"`
}

type BudgetWarning struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

type BudgetSummary struct {
	TotalBudget       decimal.Decimal            `json:"totalBudget"`
	TotalSpent        decimal.Decimal            `json:"totalSpent"`
	Remaining         decimal.Decimal            `json:"remaining"`
	DailyBudget       decimal.Decimal            `json:"dailyBudget"`
	DailySpent        map[string]decimal.Decimal `json:"dailySpent"`
	CategoryBreakdown CategoryBreakdown          `json:"categoryBreakdown"`
	Warnings          []BudgetWarning            `json:"warnings"`
}

// Overspent reports whether spending exceeds the declared budget.
func (b BudgetSummary) Overspent() bool {
	return b.TotalSpent.GreaterThan(b.TotalBudget)
}

type ReplaceItemConstraints struct {
	MaxDistance     *int     `json:"maxDistance,omitempty"`
	MustBeOpen      *bool    `json:"mustBeOpen,omitempty"`
	AvoidCategories []string `json:"avoidCategories,omitempty"`
}

type ReplaceItemRequest struct {
	Reason         string                  `json:"reason"`
	PreferredStyle string                  `json:"preferredStyle,omitempty"`
	Constraints    *ReplaceItemConstraints `json:"constraints,omitempty"`
}

type ReplacementAlternative struct {
	PlaceID   int64   `json:"placeId"`
	PlaceName string  `json:"placeName"`
	Reason    string  `json:"reason"`
	Score     float64 `json:"score"`
}

type ReplaceItemResponse struct {
	NewItem      json.RawMessage          `json:"newItem"`
	Alternatives []ReplacementAlternative `json:"alternatives"`
	ReplacedItem struct {
		PlaceID int64  `json:"placeId"`
		Reason  string `json:"reason"`
	} `json:"replacedItem"`
}

type RegenerateRequest struct {
	LockedItemIDs  []string        `json:"lockedItemIds,omitempty"`
	NewPreferences json.RawMessage `json:"newPreferences,omitempty"`
}

type TripChange struct {
	Type      string `json:"type"`
	ItemID    string `json:"itemId,omitempty"`
	PlaceID   int64  `json:"placeId"`
	PlaceName string `json:"placeName"`
	Day       int    `json:"day"`
	Slot      string `json:"slot"`
	Reason    string `json:"reason"`
}

type RegenerateResponse struct {
	UpdatedDraft json.RawMessage `json:"updatedDraft"`
	Changes      []TripChange    `json:"changes"`
}

type Suggestion struct {
	ID       string  `json:"id"`
	Persona  Persona `json:"persona"`
	Scope    string  `json:"scope"`
	ScopeID  string  `json:"scopeId,omitempty"`
	Severity string  `json:"severity"`
	Status   string  `json:"status"`
	Title    string  `json:"title"`
	Summary  string  `json:"summary"`
	Actions  []struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	} `json:"actions"`
	CreatedAt string `json:"createdAt"`
}

type SuggestionList struct {
	Items []Suggestion `json:"items"`
	Total int          `json:"total"`
}

type ApplySuggestionRequest struct {
	ActionID string         `json:"actionId"`
	Params   map[string]any `json:"params,omitempty"`
	Preview  bool           `json:"preview,omitempty"`
}

type ApplySuggestionResponse struct {
	Success        bool   `json:"success"`
	SuggestionID   string `json:"suggestionId"`
	AppliedChanges []struct {
		Type        string `json:"type"`
		Description string `json:"description"`
	} `json:"appliedChanges"`
	TriggeredSuggestions []string `json:"triggeredSuggestions,omitempty"`
}

type EvidenceItem struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source,omitempty"`
	Link        string `json:"link,omitempty"`
	Timestamp   string `json:"timestamp"`
	PoiID       string `json:"poiId,omitempty"`
	Day         int    `json:"day,omitempty"`
	Severity    string `json:"severity,omitempty"`
}

type EvidenceList struct {
	Items  []EvidenceItem `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type TripShare struct {
	ShareToken string `json:"shareToken"`
	ShareURL   string `json:"shareUrl"`
	Permission string `json:"permission"`
	ExpiresAt  string `json:"expiresAt,omitempty"`
}
