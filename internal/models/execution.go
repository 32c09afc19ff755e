// ABOUTME: On-trip execution records: the action discriminator, per-action parameters and fallback plans
// ABOUTME: One executeRequest carries exactly one of the parameter blocks matching its action
package models

import (
	"encoding/json"
	"time"
)

// ExecutionAction selects what /execution/execute does.
type ExecutionAction string

const (
	ActionGetStatus    ExecutionAction = "get_status"
	ActionRemind       ExecutionAction = "remind"
	ActionHandleChange ExecutionAction = "handle_change"
	ActionFallback     ExecutionAction = "fallback"
)

// Valid reports whether a is a known action.
func (a ExecutionAction) Valid() bool {
	switch a {
	case ActionGetStatus, ActionRemind, ActionHandleChange, ActionFallback:
		return true
	}
	return false
}

// Timeout is the per-action request deadline. Change handling and fallback run long server-side.
func (a ExecutionAction) Timeout() time.Duration {
	switch a {
	case ActionHandleChange, ActionFallback:
		return 120 * time.Second
	default:
		return 60 * time.Second
	}
}

// Verb names the action for user-facing messages.
func (a ExecutionAction) Verb() string {
	switch a {
	case ActionGetStatus:
		return "fetching status"
	case ActionRemind:
		return "fetching reminders"
	case ActionHandleChange:
		return "handling the change"
	case ActionFallback:
		return "triggering the fallback"
	default:
		return "executing the action"
	}
}

type RemindParams struct {
	ReminderTypes []string `json:"reminderTypes,omitempty"`
	AdvanceHours  *int     `json:"advanceHours,omitempty"`
}

type ChangeDetails struct {
	ItemID        string          `json:"itemId,omitempty"`
	OriginalValue json.RawMessage `json:"originalValue,omitempty"`
	NewValue      json.RawMessage `json:"newValue,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	DelayMinutes  *int            `json:"delayMinutes,omitempty"`
}

type ChangeParams struct {
	ChangeType    string        `json:"changeType"`
	ChangeDetails ChangeDetails `json:"changeDetails"`
}

type FallbackParams struct {
	TriggerReason string          `json:"triggerReason"`
	OriginalPlan  json.RawMessage `json:"originalPlan,omitempty"`
	ItemID        string          `json:"itemId,omitempty"`
}

type ExecuteRequest struct {
	TripID         string          `json:"tripId"`
	Action         ExecutionAction `json:"action"`
	RemindParams   *RemindParams   `json:"remindParams,omitempty"`
	ChangeParams   *ChangeParams   `json:"changeParams,omitempty"`
	FallbackParams *FallbackParams `json:"fallbackParams,omitempty"`
}

type Reminder struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	TriggerTime string `json:"triggerTime"`
	Priority    string `json:"priority"`
}

type ExecutionState struct {
	TripID          string            `json:"tripId"`
	Phase           string            `json:"phase"`
	CurrentDay      int               `json:"currentDay"`
	CurrentDate     string            `json:"currentDate"`
	Reminders       []Reminder        `json:"reminders"`
	PendingChanges  []json.RawMessage `json:"pendingChanges"`
	ActiveFallbacks []json.RawMessage `json:"activeFallbacks"`
	LastUpdated     string            `json:"lastUpdated"`
}

type ScheduleEntry struct {
	PlaceID   int64  `json:"placeId"`
	PlaceName string `json:"placeName"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status,omitempty"`
}

type DaySchedule struct {
	Date     string `json:"date"`
	Schedule struct {
		Items []ScheduleEntry `json:"items"`
	} `json:"schedule"`
}

type ChangeResult struct {
	ChangeID        string       `json:"changeId,omitempty"`
	ChangeType      string       `json:"changeType"`
	Success         bool         `json:"success"`
	Message         string       `json:"message,omitempty"`
	UpdatedSchedule *DaySchedule `json:"updatedSchedule,omitempty"`
}

type FallbackImpact struct {
	ArrivalTime   string `json:"arrivalTime"`
	MissingPlaces int    `json:"missingPlaces"`
	RiskChange    string `json:"riskChange"`
}

type FallbackChange struct {
	ItemID   string          `json:"itemId"`
	Action   string          `json:"action"`
	NewTime  string          `json:"newTime,omitempty"`
	NewPlace json.RawMessage `json:"newPlace,omitempty"`
}

type FallbackSolution struct {
	ID          string           `json:"id"`
	Type        string           `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Changes     []FallbackChange `json:"changes"`
	Impact      FallbackImpact   `json:"impact"`
	Recommended bool             `json:"recommended,omitempty"`
}

type FallbackPlan struct {
	ID            string             `json:"id"`
	TriggerReason string             `json:"triggerReason"`
	Solutions     []FallbackSolution `json:"solutions"`
}

type ExecutionStatus struct {
	CurrentDay   int    `json:"currentDay"`
	CurrentDate  string `json:"currentDate"`
	Phase        string `json:"phase"`
	ActiveIssues int    `json:"activeIssues"`
}

type ExecutionUIOutput struct {
	Reminders    []Reminder       `json:"reminders,omitempty"`
	ChangeResult *ChangeResult    `json:"changeResult,omitempty"`
	FallbackPlan *FallbackPlan    `json:"fallbackPlan,omitempty"`
	Status       *ExecutionStatus `json:"status,omitempty"`
}

type ExecuteResponse struct {
	ExecutionState ExecutionState    `json:"executionState"`
	UIOutput       ExecutionUIOutput `json:"uiOutput"`
}

type ReorderRequest struct {
	TripID   string   `json:"tripId"`
	DayID    string   `json:"dayId"`
	NewOrder []string `json:"newOrder"`
	Reason   string   `json:"reason,omitempty"`
}

type ReorderResponse struct {
	Success         bool        `json:"success"`
	Message         string      `json:"message,omitempty"`
	UpdatedSchedule DaySchedule `json:"updatedSchedule"`
	Impact          *struct {
		TimeAdjustments []struct {
			ItemID       string `json:"itemId"`
			OriginalTime string `json:"originalTime"`
			NewTime      string `json:"newTime"`
		} `json:"timeAdjustments"`
	} `json:"impact,omitempty"`
}

type ApplyFallbackRequest struct {
	TripID     string `json:"tripId"`
	SolutionID string `json:"solutionId"`
	Confirm    bool   `json:"confirm,omitempty"`
}

type ApplyFallbackResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message,omitempty"`
	AppliedChanges []struct {
		ItemID  string          `json:"itemId"`
		Action  string          `json:"action"`
		Details json.RawMessage `json:"details,omitempty"`
	} `json:"appliedChanges"`
	UpdatedSchedule DaySchedule    `json:"updatedSchedule"`
	Impact          FallbackImpact `json:"impact"`
}

type FallbackPreview struct {
	SolutionID  string           `json:"solutionId"`
	Type        string           `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Changes     []FallbackChange `json:"changes"`
	Impact      FallbackImpact   `json:"impact"`
	Timeline    DaySchedule      `json:"timeline"`
}
