// ABOUTME: MCP tool handler implementations for the tripnara server
// ABOUTME: Each handler calls the API, shapes the result as JSON text and reports failures as tool errors
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/tripnara/tripnara-go/internal/api"
	"github.com/tripnara/tripnara-go/internal/draft"
	"github.com/tripnara/tripnara-go/internal/gate"
	"github.com/tripnara/tripnara-go/internal/httpclient"
	"github.com/tripnara/tripnara-go/internal/models"
	"github.com/tripnara/tripnara-go/internal/tripview"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	api        *api.API
	thresholds tripview.Thresholds
	logger     *zap.Logger
}

// NormalizeGateStatus handles the normalize_gate_status tool
func (h *Handlers) NormalizeGateStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("status")
	if err != nil {
		return mcp.NewToolResultError("status argument is required and must be a string"), nil
	}
	s, recognised := gate.Parse(raw)
	return jsonResult(map[string]interface{}{
		"input":      raw,
		"status":     s,
		"recognised": recognised,
		"label":      gate.Label(s),
		"label_en":   gate.LabelEn(s),
		"icon":       gate.Icon(s).Glyph(),
	})
}

// GetTrip handles the get_trip tool
func (h *Handlers) GetTrip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("trip_id", "")
	if id == "" {
		trips, err := h.api.Trips.List(ctx)
		if err != nil {
			return h.failure("list trips", err), nil
		}
		return jsonResult(map[string]interface{}{"trips": trips})
	}
	trip, err := h.api.Trips.Get(ctx, id)
	if err != nil {
		return h.failure("get trip", err), nil
	}
	return jsonResult(trip)
}

// TripOverview handles the trip_overview tool
func (h *Handlers) TripOverview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("trip_id")
	if err != nil {
		return mcp.NewToolResultError("trip_id argument is required and must be a string"), nil
	}
	persona := strings.ToLower(request.GetString("persona", "auto"))

	ov, err := h.api.Overview.Load(ctx, id)
	if err != nil {
		return h.failure("load overview", err), nil
	}
	if ov.Detail == nil {
		return h.failure("load overview", ov.Errors[api.PartDetail]), nil
	}

	response := map[string]interface{}{
		"trip_id": id,
		"persona": persona,
	}
	if failed := ov.Failed(); len(failed) > 0 {
		notes := make(map[string]string, len(failed))
		for _, part := range failed {
			notes[part] = ov.Errors[part].Error()
		}
		response["unavailable"] = notes
	}

	switch persona {
	case "abu":
		var conflicts []models.TripConflict
		if ov.Conflicts != nil {
			conflicts = ov.Conflicts.Conflicts
		}
		response["view"] = tripview.Abu(ov.Detail, conflicts, ov.Alerts)
	case "drdre", "dr_dre":
		response["view"] = tripview.DrDre(ov.Detail, ov.Metrics, ov.Alerts, h.thresholds, nil)
	case "neptune":
		list, err := h.api.Trips.Suggestions(ctx, id, api.SuggestionQuery{Persona: string(models.PersonaNeptune)})
		if err != nil {
			return h.failure("load suggestions", err), nil
		}
		view := tripview.Neptune(ov.Detail, list.Items)
		response["view"] = view
		response["critical"] = view.Critical()
	case "auto":
		response["view"] = tripview.Auto(ov.Alerts)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown persona %q: use abu, drdre, neptune or auto", persona)), nil
	}
	return jsonResult(response)
}

// GetDecisionDraft handles the get_decision_draft tool
func (h *Handlers) GetDecisionDraft(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("draft_id")
	if err != nil {
		return mcp.NewToolResultError("draft_id argument is required and must be a string"), nil
	}
	mode := models.UserMode(request.GetString("mode", string(models.ModeToC)))
	if !mode.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown mode %q: use toc, expert or studio", mode)), nil
	}

	d, err := h.api.Drafts.Get(ctx, id, mode)
	if err != nil {
		return h.failure("get draft", err), nil
	}
	response := map[string]interface{}{"draft": d}
	// The explanation is optional; a draft without one is still useful.
	if ex, err := h.api.Drafts.Explanation(ctx, id, mode); err == nil {
		response["explanation"] = ex
	} else if !httpclient.IsCanceled(err) {
		h.logger.Debug("explanation unavailable", zap.String("draft_id", id), zap.Error(err))
	}
	return jsonResult(response)
}

// FilterDecisionSteps handles the filter_decision_steps tool
func (h *Handlers) FilterDecisionSteps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("draft_id")
	if err != nil {
		return mcp.NewToolResultError("draft_id argument is required and must be a string"), nil
	}
	layout, ok := draft.ParseLayoutType(request.GetString("layout", string(draft.LayoutGrid)))
	if !ok {
		return mcp.NewToolResultError("layout must be grid, hierarchical or force"), nil
	}
	view := draft.View{
		Filter: draft.Filter{
			Query:  request.GetString("query", ""),
			Status: gate.Status(request.GetString("status", draft.All)),
			Type:   models.DecisionType(request.GetString("type", draft.All)),
		},
		Layout:  layout,
		Options: draft.DefaultLayoutOptions(),
	}

	d, err := h.api.Drafts.Get(ctx, id, models.ModeToC)
	if err != nil {
		return h.failure("get draft", err), nil
	}
	canvas := view.Render(d)

	steps := make([]map[string]interface{}, 0, len(canvas.Steps))
	for _, s := range canvas.Steps {
		steps = append(steps, map[string]interface{}{
			"id":       s.ID,
			"title":    s.Title,
			"type":     s.Type,
			"status":   s.GateStatus(),
			"position": canvas.Positions[s.ID],
		})
	}
	return jsonResult(map[string]interface{}{
		"draft_id": id,
		"layout":   layout,
		"steps":    steps,
		"hidden":   canvas.Hidden,
	})
}

// PreviewStepImpact handles the preview_step_impact tool
func (h *Handlers) PreviewStepImpact(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	draftID, err := request.RequireString("draft_id")
	if err != nil {
		return mcp.NewToolResultError("draft_id argument is required and must be a string"), nil
	}
	stepID, err := request.RequireString("step_id")
	if err != nil {
		return mcp.NewToolResultError("step_id argument is required and must be a string"), nil
	}

	preview := draft.NewImpactPreview(h.api.Drafts, draftID)
	pending, err := preview.Preview(ctx, stepID, request.GetString("new_value", ""), models.UpdateStepRequest{})
	if err != nil {
		return h.failure("preview impact", err), nil
	}
	// Tools never apply edits.
	preview.Discard()
	return jsonResult(map[string]interface{}{
		"step_id": pending.StepID,
		"impact":  pending.Impact,
	})
}

// ValidateSafety handles the validate_safety tool
func (h *Handlers) ValidateSafety(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tripID, err := request.RequireString("trip_id")
	if err != nil {
		return mcp.NewToolResultError("trip_id argument is required and must be a string"), nil
	}
	rawSegments, err := request.RequireString("segments")
	if err != nil {
		return mcp.NewToolResultError("segments argument is required and must be a JSON string"), nil
	}
	var segments []models.RouteSegment
	if err := json.Unmarshal([]byte(rawSegments), &segments); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("segments is not a JSON array of segments: %v", err)), nil
	}
	world := json.RawMessage("{}")
	if raw := request.GetString("world_context", ""); raw != "" {
		if !json.Valid([]byte(raw)) {
			return mcp.NewToolResultError("world_context must be a JSON object"), nil
		}
		world = json.RawMessage(raw)
	}

	res, err := h.api.Decision.ValidateSafety(ctx, models.ValidateSafetyRequest{
		TripID:       tripID,
		Plan:         models.RoutePlanDraft{TripID: tripID, Segments: segments},
		WorldContext: world,
	})
	if err != nil {
		return h.failure("validate safety", err), nil
	}
	status := gate.Allow
	if !res.Allowed {
		status = gate.Reject
	}
	return jsonResult(map[string]interface{}{
		"status":  status,
		"backend": h.api.Decision.Name(),
		"result":  res,
	})
}

// ExecuteTripAction handles the execute_trip_action tool
func (h *Handlers) ExecuteTripAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tripID, err := request.RequireString("trip_id")
	if err != nil {
		return mcp.NewToolResultError("trip_id argument is required and must be a string"), nil
	}
	rawAction, err := request.RequireString("action")
	if err != nil {
		return mcp.NewToolResultError("action argument is required and must be a string"), nil
	}
	action := models.ExecutionAction(rawAction)

	var params any
	switch action {
	case models.ActionGetStatus:
	case models.ActionRemind:
		params = &models.RemindParams{}
	case models.ActionHandleChange:
		changeType := request.GetString("change_type", "")
		if changeType == "" {
			return mcp.NewToolResultError("change_type is required for handle_change"), nil
		}
		params = &models.ChangeParams{
			ChangeType: changeType,
			ChangeDetails: models.ChangeDetails{
				ItemID: request.GetString("item_id", ""),
				Reason: request.GetString("reason", ""),
			},
		}
	case models.ActionFallback:
		reason := request.GetString("reason", "")
		if reason == "" {
			return mcp.NewToolResultError("reason is required for fallback"), nil
		}
		params = &models.FallbackParams{TriggerReason: reason, ItemID: request.GetString("item_id", "")}
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown action %q: use get_status, remind, handle_change or fallback", rawAction)), nil
	}

	res, err := h.api.Execution.Execute(ctx, tripID, action, params)
	if err != nil {
		return h.failure(string(action), err), nil
	}
	return jsonResult(res)
}

// failure turns an API error into a tool error, keeping the server's message.
func (h *Handlers) failure(op string, err error) *mcp.CallToolResult {
	if httpclient.IsCanceled(err) {
		return mcp.NewToolResultError(op + " canceled")
	}
	h.logger.Warn("tool call failed", zap.String("op", op), zap.Error(err))
	var apiErr *httpclient.APIError
	if errors.As(err, &apiErr) {
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %s: %s", op, apiErr.Title(), apiErr.Message))
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", op, err))
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
