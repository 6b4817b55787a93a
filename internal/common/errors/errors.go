// Package errors provides standardized error handling for the guided flow.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Validation errors block the action and mutate no state.
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeEmptyMultiSelect    ErrorCode = "EMPTY_MULTI_SELECT"
	ErrCodeInvalidAnswerType   ErrorCode = "INVALID_ANSWER_TYPE"
	ErrCodeQuestionNotFound    ErrorCode = "QUESTION_NOT_FOUND"
	ErrCodeFileTooLarge        ErrorCode = "FILE_TOO_LARGE"
	ErrCodeUnsupportedFileType ErrorCode = "UNSUPPORTED_FILE_TYPE"

	// Transport errors are retryable by re-invoking the same action.
	ErrCodeTransportFailed    ErrorCode = "TRANSPORT_FAILED"
	ErrCodeServiceUnreachable ErrorCode = "SERVICE_UNREACHABLE"

	// The scoring authority cannot produce a snapshot yet; callers default
	// to the conservative "not eligible" snapshot instead of blocking.
	ErrCodeAuthorityUnavailable ErrorCode = "AUTHORITY_UNAVAILABLE"

	ErrCodeTaskNotFound          ErrorCode = "TASK_NOT_FOUND"
	ErrCodeInvalidTaskTransition ErrorCode = "INVALID_TASK_TRANSITION"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationError creates a non-retryable validation error with an
// inline, user-facing message.
func NewValidationError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmptyMultiSelectError rejects a multi-choice submission with zero
// selections.
func NewEmptyMultiSelectError(questionKey string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyMultiSelect,
		Message:   "select at least one option",
		Details:   fmt.Sprintf("questionKey: %s", questionKey),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidAnswerTypeError creates a non-retryable answer shape error.
func NewInvalidAnswerTypeError(questionKey, expected string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidAnswerType,
		Message:   fmt.Sprintf("answer must be %s for this question", expected),
		Details:   fmt.Sprintf("questionKey: %s", questionKey),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuestionNotFoundError creates a non-retryable catalog lookup error.
func NewQuestionNotFoundError(questionKey string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuestionNotFound,
		Message:   "question not found in catalog",
		Details:   fmt.Sprintf("questionKey: %s", questionKey),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFileTooLargeError rejects an upload exceeding the size limit.
func NewFileTooLargeError(sizeBytes, maxBytes int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeFileTooLarge,
		Message:   "file exceeds the maximum upload size",
		Details:   fmt.Sprintf("size: %d, max: %d", sizeBytes, maxBytes),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnsupportedFileTypeError rejects an upload with a content type outside
// the accepted set.
func NewUnsupportedFileTypeError(contentType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedFileType,
		Message:   "file type not accepted; use PDF, JPEG or PNG",
		Details:   fmt.Sprintf("contentType: %s", contentType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportError creates a retryable network/service failure.
func NewTransportError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransportFailed,
		Message:   "service request failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthorityUnavailableError signals that the eligibility score is not
// computable yet. Callers fall back to the conservative snapshot.
func NewAuthorityUnavailableError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthorityUnavailable,
		Message:   "eligibility authority unavailable",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTaskNotFoundError creates a non-retryable task lookup error.
func NewTaskNotFoundError(taskID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTaskNotFound,
		Message:   "task not found in checklist",
		Details:   fmt.Sprintf("taskId: %s", taskID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTaskTransitionError rejects a backwards task status move.
func NewInvalidTaskTransitionError(taskID, from, to string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTaskTransition,
		Message:   "task status can only move forward",
		Details:   fmt.Sprintf("taskId: %s, from: %s, to: %s", taskID, from, to),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Classification Helpers
// ==========================

// AsStandard extracts a *StandardError from err, or nil.
func AsStandard(err error) *StandardError {
	var se *StandardError
	if errors.As(err, &se) {
		return se
	}
	return nil
}

// IsValidation reports whether err is a blocking validation error.
func IsValidation(err error) bool {
	se := AsStandard(err)
	if se == nil {
		return false
	}
	switch se.Code {
	case ErrCodeValidationFailed, ErrCodeEmptyMultiSelect, ErrCodeInvalidAnswerType,
		ErrCodeQuestionNotFound, ErrCodeFileTooLarge, ErrCodeUnsupportedFileType,
		ErrCodeInvalidTaskTransition:
		return true
	}
	return false
}

// IsRetryable reports whether re-invoking the same action may succeed.
func IsRetryable(err error) bool {
	if se := AsStandard(err); se != nil {
		return se.Retryable
	}
	return false
}

// IsAuthorityUnavailable reports whether the scoring authority declined to
// produce a snapshot.
func IsAuthorityUnavailable(err error) bool {
	se := AsStandard(err)
	return se != nil && se.Code == ErrCodeAuthorityUnavailable
}
