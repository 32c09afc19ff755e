// ABOUTME: Decision-engine and execution endpoints of the mock backend
// ABOUTME: Safety checks flag steep segments; execution answers each action with canned state
package mockserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tripnara/tripnara-go/internal/models"
)

// MaxSlopePct is the grade above which the mock safety guardian rejects a segment.
const MaxSlopePct = 15.0

func (s *Server) validateSafety(w http.ResponseWriter, r *http.Request) {
	var req models.ValidateSafetyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid safety request")
		return
	}
	res := models.ValidateSafetyResult{Allowed: true, Violations: []models.SafetyViolation{}}
	now := time.Now().UTC().Format(time.RFC3339)
	for _, seg := range req.Plan.Segments {
		if seg.SlopePct <= MaxSlopePct {
			continue
		}
		res.Allowed = false
		res.Violations = append(res.Violations, models.SafetyViolation{
			SegmentID:   seg.SegmentID,
			Violation:   "SLOPE_TOO_STEEP",
			Explanation: fmt.Sprintf("Segment %s climbs at %.1f%%, above the %.0f%% limit.", seg.SegmentID, seg.SlopePct, MaxSlopePct),
			Persona:     models.PersonaAbu,
			Action:      "REJECT",
		})
		res.AlternativeRoutes = append(res.AlternativeRoutes, models.AlternativeRoute{
			RouteID:     "alt-" + seg.SegmentID,
			Description: "Take the valley road around " + seg.SegmentID,
			Reason:      "lower grade",
		})
	}
	action := "ALLOW"
	if !res.Allowed {
		action = "REJECT"
		res.Message = fmt.Sprintf("%d segment(s) failed the safety check.", len(res.Violations))
	}
	res.DecisionLog = []models.DecisionLogItem{{
		Persona:     models.PersonaAbu,
		Action:      action,
		Explanation: "slope check",
		Timestamp:   now,
	}}
	writeData(w, res)
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request) {
	var req models.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid execute request")
		return
	}
	if !req.Action.Valid() {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown action "+string(req.Action))
		return
	}
	if req.TripID != TripID {
		writeError(w, http.StatusNotFound, "TRIP_NOT_FOUND", "trip not found")
		return
	}
	now := time.Now().UTC()
	state := models.ExecutionState{
		TripID:          req.TripID,
		Phase:           "on_trip",
		CurrentDay:      2,
		CurrentDate:     now.Format("2006-01-02"),
		Reminders:       []models.Reminder{},
		PendingChanges:  []json.RawMessage{},
		ActiveFallbacks: []json.RawMessage{},
		LastUpdated:     now.Format(time.RFC3339),
	}
	var out models.ExecutionUIOutput
	switch req.Action {
	case models.ActionGetStatus:
		out.Status = &models.ExecutionStatus{CurrentDay: 2, CurrentDate: state.CurrentDate, Phase: state.Phase, ActiveIssues: 1}
	case models.ActionRemind:
		out.Reminders = []models.Reminder{{
			ID:          "rem-1",
			Type:        "departure",
			Title:       "Leave for Skaftafell",
			Message:     "Depart by 08:00 to reach the glacier lagoon before the tour.",
			TriggerTime: now.Add(time.Hour).Format(time.RFC3339),
			Priority:    "high",
		}}
		state.Reminders = out.Reminders
	case models.ActionHandleChange:
		if req.ChangeParams == nil || req.ChangeParams.ChangeType == "" {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "changeParams.changeType is required")
			return
		}
		out.ChangeResult = &models.ChangeResult{
			ChangeID:   "chg-1",
			ChangeType: req.ChangeParams.ChangeType,
			Success:    true,
			Message:    "Schedule shifted to absorb the change.",
		}
	case models.ActionFallback:
		if req.FallbackParams == nil || req.FallbackParams.TriggerReason == "" {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "fallbackParams.triggerReason is required")
			return
		}
		out.FallbackPlan = &models.FallbackPlan{
			ID:            "fb-1",
			TriggerReason: req.FallbackParams.TriggerReason,
			Solutions: []models.FallbackSolution{{
				ID:          "sol-1",
				Type:        "reroute",
				Title:       "Drive the coastal road",
				Description: "Skip the glacier hike and visit Reynisfjara instead.",
				Changes:     []models.FallbackChange{{ItemID: "item-glacier-hike", Action: "replace"}},
				Impact:      models.FallbackImpact{ArrivalTime: "18:30", MissingPlaces: 1, RiskChange: "lower"},
				Recommended: true,
			}},
		}
	}
	writeData(w, models.ExecuteResponse{ExecutionState: state, UIOutput: out})
}
