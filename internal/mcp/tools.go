// ABOUTME: MCP tool definitions and registration for the tripnara server
// ABOUTME: Exposes gate normalization, trip views, decision drafts, safety checks and execution as tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/tripnara/tripnara-go/internal/api"
	"github.com/tripnara/tripnara-go/internal/tripview"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, client *api.API, thresholds tripview.Thresholds, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	handlers := &Handlers{api: client, thresholds: thresholds, logger: logger}

	// 1. normalize_gate_status - fold any backend status spelling into the lattice
	server.AddTool(mcp.Tool{
		Name:        "normalize_gate_status",
		Description: "Normalize a raw decision status (PASSED, WARN, BLOCK, approved, ...) into ALLOW, NEED_CONFIRM, SUGGEST_REPLACE or REJECT.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"status": map[string]interface{}{
					"type":        "string",
					"description": "Raw status token as returned by any backend endpoint",
				},
			},
			Required: []string{"status"},
		},
	}, handlers.NormalizeGateStatus)

	// 2. get_trip - trip detail with days and itinerary items
	server.AddTool(mcp.Tool{
		Name:        "get_trip",
		Description: "Get a trip with its days and itinerary items. Omit trip_id to list all trips.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"trip_id": map[string]interface{}{
					"type":        "string",
					"description": "Trip ID; empty lists every trip",
				},
			},
		},
	}, handlers.GetTrip)

	// 3. trip_overview - persona views over state, alerts, conflicts and metrics
	server.AddTool(mcp.Tool{
		Name:        "trip_overview",
		Description: "Load a trip overview and render a persona view: abu (safety), drdre (pacing), neptune (repairs) or auto (warnings from every persona).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"trip_id": map[string]interface{}{
					"type":        "string",
					"description": "Trip ID",
				},
				"persona": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"abu", "drdre", "neptune", "auto"},
					"description": "Which persona view to render (default: auto)",
					"default":     "auto",
				},
			},
			Required: []string{"trip_id"},
		},
	}, handlers.TripOverview)

	// 4. get_decision_draft - the decision graph and its explanation
	server.AddTool(mcp.Tool{
		Name:        "get_decision_draft",
		Description: "Get a decision draft with its steps and an explanation at the requested detail level.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"draft_id": map[string]interface{}{
					"type":        "string",
					"description": "Decision draft ID",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"toc", "expert", "studio"},
					"description": "Detail level (default: toc)",
					"default":     "toc",
				},
			},
			Required: []string{"draft_id"},
		},
	}, handlers.GetDecisionDraft)

	// 5. filter_decision_steps - conjunctive filter plus layout
	server.AddTool(mcp.Tool{
		Name:        "filter_decision_steps",
		Description: "Filter a draft's steps by text, gate status and decision type, and lay out the visible steps.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"draft_id": map[string]interface{}{
					"type":        "string",
					"description": "Decision draft ID",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Case-insensitive text matched against title, description and type",
				},
				"status": map[string]interface{}{
					"type":        "string",
					"description": "Gate status, any spelling, or 'all'",
				},
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Decision type such as safety-decision, or 'all'",
				},
				"layout": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"grid", "hierarchical", "force"},
					"description": "Node layout (default: grid)",
					"default":     "grid",
				},
			},
			Required: []string{"draft_id"},
		},
	}, handlers.FilterDecisionSteps)

	// 6. preview_step_impact - what a step edit would ripple into, without applying it
	server.AddTool(mcp.Tool{
		Name:        "preview_step_impact",
		Description: "Preview which steps and evidence a change to one decision step would affect. Nothing is written.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"draft_id": map[string]interface{}{
					"type":        "string",
					"description": "Decision draft ID",
				},
				"step_id": map[string]interface{}{
					"type":        "string",
					"description": "Step to change",
				},
				"new_value": map[string]interface{}{
					"type":        "string",
					"description": "Proposed value for the step",
				},
			},
			Required: []string{"draft_id", "step_id"},
		},
	}, handlers.PreviewStepImpact)

	// 7. validate_safety - Abu's route safety check
	server.AddTool(mcp.Tool{
		Name:        "validate_safety",
		Description: "Run the safety guardian over a route plan. Segments are passed as JSON.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"trip_id": map[string]interface{}{
					"type":        "string",
					"description": "Trip ID",
				},
				"segments": map[string]interface{}{
					"type":        "string",
					"description": "JSON array of route segments: [{\"segmentId\":\"s1\",\"dayIndex\":0,\"distanceKm\":12,\"ascentM\":800,\"slopePct\":18}]",
				},
				"world_context": map[string]interface{}{
					"type":        "string",
					"description": "Optional JSON object describing weather, closures and similar context",
				},
			},
			Required: []string{"trip_id", "segments"},
		},
	}, handlers.ValidateSafety)

	// 8. execute_trip_action - on-trip execution
	server.AddTool(mcp.Tool{
		Name:        "execute_trip_action",
		Description: "Run an on-trip action: get_status, remind, handle_change or fallback.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"trip_id": map[string]interface{}{
					"type":        "string",
					"description": "Trip ID",
				},
				"action": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"get_status", "remind", "handle_change", "fallback"},
					"description": "Action to execute",
				},
				"change_type": map[string]interface{}{
					"type":        "string",
					"description": "For handle_change: the kind of change (delay, cancel, ...)",
				},
				"item_id": map[string]interface{}{
					"type":        "string",
					"description": "For handle_change and fallback: the affected itinerary item",
				},
				"reason": map[string]interface{}{
					"type":        "string",
					"description": "For handle_change and fallback: why the change or fallback is needed",
				},
			},
			Required: []string{"trip_id", "action"},
		},
	}, handlers.ExecuteTripAction)

	return handlers
}
