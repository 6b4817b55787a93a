// internal/models/onboarding.go
package models

type OnboardingState string

const (
	OnboardingNotStarted OnboardingState = "not_started"
	OnboardingInProgress OnboardingState = "in_progress"
	OnboardingCompleted  OnboardingState = "completed"
)

// OnboardingStatus mirrors the remote onboarding service status payload.
type OnboardingStatus struct {
	Status            OnboardingState `json:"status"`
	ProgressPercent   float64         `json:"progressPercentage"`
	TotalQuestions    int             `json:"totalQuestions"`
	AnsweredQuestions int             `json:"answeredQuestions"`
	NextQuestion      *Question       `json:"nextQuestion,omitempty"`
}

// Progress is the (answered, total) pair surfaced by the question controller.
// Monotonically non-decreasing within a session.
type Progress struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
}
