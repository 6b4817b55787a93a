// internal/services/services.go
// Package services defines the contracts of the remote collaborators the
// guided flow depends on, plus their HTTP implementations. All durable
// state lives behind these services; the core persists nothing itself.
package services

import (
	"context"

	"formalization-guide/internal/models"
)

// OnboardingService persists answers and serves onboarding progress.
type OnboardingService interface {
	GetStatus(ctx context.Context) (models.OnboardingStatus, error)
	SubmitAnswer(ctx context.Context, questionKey string, value interface{}) error
	UpdateProfileField(ctx context.Context, field, value string) error
}

// FormalizationService owns the authoritative task list and eligibility
// score.
type FormalizationService interface {
	GetTasks(ctx context.Context) ([]models.ChecklistTask, error)
	GetStatus(ctx context.Context) (models.EligibilitySnapshot, error)
	UpdateTaskStatus(ctx context.Context, taskID string, status models.TaskStatus) error
}

// PresignedUpload is the document service's upload grant.
type PresignedUpload struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	FileKey   string `json:"fileKey"`
}

// DocumentService issues upload grants and records uploaded documents.
// Size and content-type limits are enforced by the client before presign
// is ever requested.
type DocumentService interface {
	PresignUpload(ctx context.Context, filename, contentType string, sizeBytes int64) (PresignedUpload, error)
	RegisterDocument(ctx context.Context, docType, fileURL, fileKey, filename string) (models.Document, error)
}
