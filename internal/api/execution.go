// ABOUTME: On-trip execution dispatch and schedule adjustments
// ABOUTME: Execute picks a deadline per action and names the action when that deadline expires
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/tripnara/tripnara-go/internal/httpclient"
	"github.com/tripnara/tripnara-go/internal/models"
)

type ExecutionService struct {
	c *httpclient.Client
	// timeoutFor overrides the per-action deadline; nil uses ExecutionAction.Timeout.
	timeoutFor func(models.ExecutionAction) time.Duration
}

// Execute runs one action against /execution/execute. params must match the action:
// *models.RemindParams, *models.ChangeParams, *models.FallbackParams, or nil.
func (s *ExecutionService) Execute(ctx context.Context, tripID string, action models.ExecutionAction, params any) (*models.ExecuteResponse, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("unknown execution action %q", action)
	}
	req := models.ExecuteRequest{TripID: tripID, Action: action}
	switch p := params.(type) {
	case nil:
	case *models.RemindParams:
		req.RemindParams = p
	case *models.ChangeParams:
		req.ChangeParams = p
	case *models.FallbackParams:
		req.FallbackParams = p
	default:
		return nil, fmt.Errorf("unsupported parameters %T for action %s", params, action)
	}

	timeout := action.Timeout()
	if s.timeoutFor != nil {
		timeout = s.timeoutFor(action)
	}
	out, err := httpclient.JSON[models.ExecuteResponse](ctx, s.c,
		httpclient.Post("/execution/execute", req).WithTimeout(timeout))
	if httpclient.IsTimeout(err) {
		return nil, fmt.Errorf("timed out after %s while %s; the operation may take longer, retry later or check the backend: %w",
			timeout, action.Verb(), err)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ExecutionService) Reorder(ctx context.Context, req models.ReorderRequest) (*models.ReorderResponse, error) {
	return ptr(httpclient.JSON[models.ReorderResponse](ctx, s.c, httpclient.Post("/execution/reorder", req)))
}

func (s *ExecutionService) ApplyFallback(ctx context.Context, req models.ApplyFallbackRequest) (*models.ApplyFallbackResponse, error) {
	r := httpclient.Post("/execution/apply-fallback", req).WithTimeout(models.ActionFallback.Timeout())
	return ptr(httpclient.JSON[models.ApplyFallbackResponse](ctx, s.c, r))
}

func (s *ExecutionService) PreviewFallback(ctx context.Context, tripID, solutionID string) (*models.FallbackPreview, error) {
	req := httpclient.Get(pathf("/execution/fallback/%s/preview", solutionID)).WithParam("tripId", tripID)
	return ptr(httpclient.JSON[models.FallbackPreview](ctx, s.c, req))
}
