// ABOUTME: Planning assistant v2 plan endpoints, which answer without the response envelope
// ABOUTME: WaitForTask polls an async generation task until it finishes or the attempt budget runs out
package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tripnara/tripnara-go/internal/httpclient"
	"github.com/tripnara/tripnara-go/internal/models"
	"github.com/tripnara/tripnara-go/internal/poll"
)

// ErrTaskFailed is returned by WaitForTask when the task ends in the failed state.
var ErrTaskFailed = errors.New("plan generation task failed")

type PlansService struct {
	c            *httpclient.Client
	pollInterval time.Duration
	pollAttempts int
	clock        poll.Clock
}

func plansPath(p string) string {
	return PlanningV2BasePath + "/plans" + p
}

func (s *PlansService) Generate(ctx context.Context, req models.GeneratePlansRequest) (*models.GeneratedPlans, error) {
	r := httpclient.Post(plansPath("/generate"), req).WithTimeout(MultiPlanTimeout)
	return ptr(httpclient.Bare[models.GeneratedPlans](ctx, s.c, r))
}

func (s *PlansService) GenerateAsync(ctx context.Context, req models.GeneratePlansRequest) (*models.AsyncTask, error) {
	return ptr(httpclient.Bare[models.AsyncTask](ctx, s.c, httpclient.Post(plansPath("/generate-async"), req)))
}

func (s *PlansService) TaskStatus(ctx context.Context, taskID string) (*models.TaskStatus, error) {
	return ptr(httpclient.Bare[models.TaskStatus](ctx, s.c, httpclient.Get(plansPath(pathf("/generate/%s", taskID)))))
}

// WaitForTask polls TaskStatus until the task completes or fails.
// A failed task returns its last status together with ErrTaskFailed.
func (s *PlansService) WaitForTask(ctx context.Context, taskID string) (*models.TaskStatus, error) {
	st, err := poll.WaitFor(ctx, poll.WaitOptions{
		Interval:    s.pollInterval,
		MaxAttempts: s.pollAttempts,
		Clock:       s.clock,
	}, func(ctx context.Context) (*models.TaskStatus, bool, error) {
		st, err := s.TaskStatus(ctx, taskID)
		if err != nil {
			return nil, false, err
		}
		return st, st.Status.Terminal(), nil
	})
	if err != nil {
		return st, err
	}
	if st.Status == models.TaskFailed {
		msg := st.Error
		if msg == "" {
			msg = "no reason given"
		}
		return st, fmt.Errorf("%w: %s", ErrTaskFailed, msg)
	}
	return st, nil
}

func (s *PlansService) Compare(ctx context.Context, p models.ComparePlansParams) (*models.PlanComparison, error) {
	req := httpclient.Get(plansPath("/compare")).
		WithParam("planIds", strings.Join(p.PlanIDs, ",")).
		WithParam("compareFields", strings.Join(p.CompareFields, ",")).
		WithParam("sessionId", p.SessionID).
		WithParam("language", p.Language)
	return ptr(httpclient.Bare[models.PlanComparison](ctx, s.c, req))
}

func (s *PlansService) Optimize(ctx context.Context, planID string, req models.OptimizePlanRequest) (*models.GeneratedPlans, error) {
	r := httpclient.Post(plansPath(pathf("/%s/optimize", planID)), req).WithTimeout(MultiPlanTimeout)
	return ptr(httpclient.Bare[models.GeneratedPlans](ctx, s.c, r))
}

func (s *PlansService) Confirm(ctx context.Context, planID string, req models.ConfirmPlanRequest) (*models.ConfirmPlanResponse, error) {
	return ptr(httpclient.Bare[models.ConfirmPlanResponse](ctx, s.c, httpclient.Post(plansPath(pathf("/%s/confirm", planID)), req)))
}
