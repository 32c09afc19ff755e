// ABOUTME: Planning assistant v2 plan generation records including async task status
// ABOUTME: Task status is terminal once completed or failed
package models

import "encoding/json"

type Travelers struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

type PlanPreferences struct {
	Pace      string   `json:"pace,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

type GeneratePlansRequest struct {
	SessionID   string           `json:"sessionId"`
	Destination string           `json:"destination"`
	Duration    int              `json:"duration"`
	Budget      float64          `json:"budget"`
	Travelers   Travelers        `json:"travelers"`
	Preferences *PlanPreferences `json:"preferences,omitempty"`
	UserID      string           `json:"userId,omitempty"`
}

type CandidatePlan struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	NameCN          string `json:"nameCN,omitempty"`
	Destination     string `json:"destination"`
	Duration        int    `json:"duration"`
	EstimatedBudget struct {
		Total     float64            `json:"total"`
		Breakdown map[string]float64 `json:"breakdown"`
	} `json:"estimatedBudget"`
	Pace        string `json:"pace"`
	Suitability struct {
		Score   float64  `json:"score"`
		Reasons []string `json:"reasons"`
	} `json:"suitability"`
	Highlights []string `json:"highlights,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

type GeneratedPlans struct {
	Plans       []CandidatePlan `json:"plans"`
	GeneratedAt string          `json:"generatedAt"`
	SessionID   string          `json:"sessionId"`
}

type TaskState string

const (
	TaskPending    TaskState = "pending"
	TaskProcessing TaskState = "processing"
	TaskCompleted  TaskState = "completed"
	TaskFailed     TaskState = "failed"
)

// Terminal reports whether polling can stop.
func (s TaskState) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

type AsyncTask struct {
	TaskID    string    `json:"taskId"`
	Status    TaskState `json:"status"`
	CreatedAt string    `json:"createdAt"`
}

type TaskStatus struct {
	AsyncTask
	Progress    *float64        `json:"progress,omitempty"`
	Result      *GeneratedPlans `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`
	CompletedAt string          `json:"completedAt,omitempty"`
}

type ComparePlansParams struct {
	PlanIDs       []string
	CompareFields []string
	SessionID     string
	Language      string
}

type PlanComparison struct {
	Plans []struct {
		ID     string             `json:"id"`
		Name   string             `json:"name"`
		Scores map[string]float64 `json:"scores"`
	} `json:"plans"`
	Dimensions  []string `json:"dimensions"`
	Differences []struct {
		Field       string          `json:"field"`
		Plan1Value  json.RawMessage `json:"plan1Value"`
		Plan2Value  json.RawMessage `json:"plan2Value"`
		Impact      string          `json:"impact"`
		Description string          `json:"description"`
	} `json:"differences"`
	Recommendation struct {
		BestBudget string `json:"bestBudget,omitempty"`
		BestRoute  string `json:"bestRoute,omitempty"`
		Summary    string `json:"summary"`
	} `json:"recommendation"`
}

type OptimizePlanRequest struct {
	SessionID        string         `json:"sessionId"`
	OptimizationType string         `json:"optimizationType"`
	Requirements     map[string]any `json:"requirements"`
}

type ConfirmPlanRequest struct {
	SessionID      string `json:"sessionId"`
	UserID         string `json:"userId,omitempty"`
	SaveToCalendar bool   `json:"saveToCalendar,omitempty"`
	SendReminders  bool   `json:"sendReminders,omitempty"`
}

type ConfirmPlanResponse struct {
	Success bool   `json:"success"`
	TripID  string `json:"tripId"`
}
