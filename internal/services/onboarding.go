// internal/services/onboarding.go
package services

import (
	"context"
	nethttp "net/http"

	"formalization-guide/internal/common/config"
	"formalization-guide/internal/common/logger"
	"formalization-guide/internal/common/observability"
	"formalization-guide/internal/models"
)

// OnboardingClient talks to the remote onboarding service.
type OnboardingClient struct {
	rest *restClient
}

func NewOnboardingClient(cfg config.ServiceEndpoint, log logger.Logger, obs *observability.Observability) *OnboardingClient {
	return &OnboardingClient{
		rest: newRESTClient(cfg, log.WithFields(map[string]interface{}{"service": "onboarding"}), obs),
	}
}

func (c *OnboardingClient) GetStatus(ctx context.Context) (models.OnboardingStatus, error) {
	var status models.OnboardingStatus
	if err := c.rest.doJSON(ctx, nethttp.MethodGet, "/onboarding/status", nil, &status); err != nil {
		return models.OnboardingStatus{}, err
	}
	return status, nil
}

type submitAnswerRequest struct {
	QuestionKey string      `json:"questionId"`
	Answer      interface{} `json:"answer"`
}

func (c *OnboardingClient) SubmitAnswer(ctx context.Context, questionKey string, value interface{}) error {
	req := submitAnswerRequest{QuestionKey: questionKey, Answer: value}
	return c.rest.doJSON(ctx, nethttp.MethodPost, "/onboarding/answers", req, nil)
}

type profileFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// UpdateProfileField is the side channel for follow-up answers; they are
// profile attributes, not catalog answers.
func (c *OnboardingClient) UpdateProfileField(ctx context.Context, field, value string) error {
	req := profileFieldRequest{Field: field, Value: value}
	return c.rest.doJSON(ctx, nethttp.MethodPatch, "/producers/profile", req, nil)
}
