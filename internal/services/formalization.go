// internal/services/formalization.go
package services

import (
	"context"
	"fmt"
	nethttp "net/http"

	"formalization-guide/internal/common/config"
	"formalization-guide/internal/common/errors"
	"formalization-guide/internal/common/logger"
	"formalization-guide/internal/common/observability"
	"formalization-guide/internal/models"
)

// FormalizationClient talks to the remote formalization service, the sole
// authority for tasks and eligibility.
type FormalizationClient struct {
	rest *restClient
}

func NewFormalizationClient(cfg config.ServiceEndpoint, log logger.Logger, obs *observability.Observability) *FormalizationClient {
	return &FormalizationClient{
		rest: newRESTClient(cfg, log.WithFields(map[string]interface{}{"service": "formalization"}), obs),
	}
}

func (c *FormalizationClient) GetTasks(ctx context.Context) ([]models.ChecklistTask, error) {
	var tasks []models.ChecklistTask
	if err := c.rest.doJSON(ctx, nethttp.MethodGet, "/formalization/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *FormalizationClient) GetStatus(ctx context.Context) (models.EligibilitySnapshot, error) {
	var snapshot models.EligibilitySnapshot
	err := c.rest.doJSON(ctx, nethttp.MethodGet, "/formalization/status", nil, &snapshot)
	if err != nil {
		// A validation-style response here means the authority has no score
		// yet; signal that distinctly so callers can fall back conservatively.
		if errors.IsValidation(err) {
			return models.EligibilitySnapshot{}, errors.NewAuthorityUnavailableError(err.Error())
		}
		return models.EligibilitySnapshot{}, err
	}
	return snapshot, nil
}

type updateTaskRequest struct {
	Status models.TaskStatus `json:"status"`
}

func (c *FormalizationClient) UpdateTaskStatus(ctx context.Context, taskID string, status models.TaskStatus) error {
	req := updateTaskRequest{Status: status}
	path := fmt.Sprintf("/formalization/tasks/%s", taskID)
	return c.rest.doJSON(ctx, nethttp.MethodPatch, path, req, nil)
}
