// ABOUTME: Fitness questionnaire and profile endpoints, served under /api/v1/fitness without the envelope
// ABOUTME: A missing profile is an expected state and is reported as ErrNoFitnessProfile
package api

import (
	"context"
	"errors"

	"github.com/tripnara/tripnara-go/internal/httpclient"
	"github.com/tripnara/tripnara-go/internal/models"
)

const fitnessBase = "/api/v1/fitness"

// ErrNoFitnessProfile means the user has not completed the questionnaire yet.
var ErrNoFitnessProfile = errors.New("no fitness profile yet")

type FitnessService struct {
	c *httpclient.Client
}

// Questionnaire returns the questions in the given locale ("zh" or "en").
func (s *FitnessService) Questionnaire(ctx context.Context, locale string) (*models.Questionnaire, error) {
	if locale == "" {
		locale = "zh"
	}
	req := httpclient.Get(fitnessBase+"/questionnaire").WithParam("locale", locale)
	return ptr(httpclient.Bare[models.Questionnaire](ctx, s.c, req))
}

func (s *FitnessService) Submit(ctx context.Context, sub models.QuestionnaireSubmission) (*models.QuestionnaireResult, error) {
	return ptr(httpclient.Bare[models.QuestionnaireResult](ctx, s.c, httpclient.Post(fitnessBase+"/questionnaire/submit", sub)))
}

func (s *FitnessService) Profile(ctx context.Context, userID string) (*models.FitnessProfile, error) {
	p, err := httpclient.Bare[models.FitnessProfile](ctx, s.c, httpclient.Get(pathf(fitnessBase+"/profile/%s", userID)))
	if httpclient.IsNotFound(err) {
		return nil, ErrNoFitnessProfile
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
