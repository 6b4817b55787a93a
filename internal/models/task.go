// internal/models/task.go
package models

type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

type TaskStatus string

const (
	TaskStatusTodo  TaskStatus = "todo"
	TaskStatusDoing TaskStatus = "doing"
	TaskStatusDone  TaskStatus = "done"
)

// GuidanceStep is one ordered instruction inside a task. Tip carries
// supplementary explanatory content for steps that need it.
type GuidanceStep struct {
	Text string `json:"text"`
	Tip  string `json:"tip,omitempty"`
}

// ChecklistTask is one discrete compliance action the producer must complete.
// Status only moves forward (todo -> doing -> done); tasks are never deleted,
// only replaced wholesale on plan regeneration.
type ChecklistTask struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Priority          TaskPriority   `json:"priority"`
	Status            TaskStatus     `json:"status"`
	DetailedSteps     []GuidanceStep `json:"detailedSteps,omitempty"`
	RelatedDocumentID string         `json:"relatedDocumentId,omitempty"`
	RequiresUpload    bool           `json:"requiresUpload"`
	RequirementID     string         `json:"requirementId,omitempty"`
}

// CanTransition reports whether a status change respects the forward-only
// task lifecycle.
func (t ChecklistTask) CanTransition(to TaskStatus) bool {
	switch t.Status {
	case TaskStatusTodo:
		return to == TaskStatusDoing || to == TaskStatusDone
	case TaskStatusDoing:
		return to == TaskStatusDone
	default:
		return false
	}
}
