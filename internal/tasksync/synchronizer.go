// Package tasksync keeps the local checklist and eligibility view aligned
// with the formalization service, which is the sole authority for both.
package tasksync

import (
	"context"

	"formalization-guide/internal/common/errors"
	"formalization-guide/internal/common/logger"
	"formalization-guide/internal/common/observability"
	"formalization-guide/internal/models"
	"formalization-guide/internal/services"
)

// Synchronizer mirrors the remote checklist and eligibility snapshot.
// The snapshot is always replaced wholesale; it is never computed or
// patched locally.
type Synchronizer struct {
	remote services.FormalizationService
	logger logger.Logger
	obs    *observability.Observability

	tasks       []models.ChecklistTask
	snapshot    models.EligibilitySnapshot
	hasSnapshot bool
}

func NewSynchronizer(remote services.FormalizationService, log logger.Logger, obs *observability.Observability) *Synchronizer {
	return &Synchronizer{
		remote: remote,
		logger: log,
		obs:    obs,
	}
}

// Seed installs a locally generated checklist. Used right after plan
// generation, before the remote service has its own copy.
func (s *Synchronizer) Seed(tasks []models.ChecklistTask) {
	s.tasks = make([]models.ChecklistTask, len(tasks))
	copy(s.tasks, tasks)
}

// LoadRemote replaces the checklist with the remote service's version.
// The local copy stays untouched when the fetch fails.
func (s *Synchronizer) LoadRemote(ctx context.Context) error {
	tasks, err := s.remote.GetTasks(ctx)
	if err != nil {
		return err
	}
	s.tasks = tasks
	return nil
}

// Tasks returns a copy of the current checklist.
func (s *Synchronizer) Tasks() []models.ChecklistTask {
	out := make([]models.ChecklistTask, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Task returns the checklist entry with the given id.
func (s *Synchronizer) Task(id string) (models.ChecklistTask, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.ChecklistTask{}, false
}

// ==========================
// Task Transitions
// ==========================

// StartTask moves a task from todo to doing.
func (s *Synchronizer) StartTask(ctx context.Context, id string) error {
	return s.transition(ctx, id, models.TaskStatusDoing)
}

// CompleteTask marks a task done and then refreshes eligibility. A failed
// remote update blocks the completion so the same action can be retried;
// only the post-completion refresh is advisory.
func (s *Synchronizer) CompleteTask(ctx context.Context, id string) error {
	if err := s.transition(ctx, id, models.TaskStatusDone); err != nil {
		return err
	}

	if s.obs != nil {
		s.obs.RecordTaskCompleted(ctx, string(models.TaskStatusDone))
	}

	if _, err := s.RefreshEligibility(ctx); err != nil {
		s.logger.Warn("eligibility refresh after completion failed", map[string]interface{}{
			"taskId": id,
			"error":  err.Error(),
		})
	}
	return nil
}

func (s *Synchronizer) transition(ctx context.Context, id string, to models.TaskStatus) error {
	idx := -1
	for i, t := range s.tasks {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return errors.NewTaskNotFoundError(id)
	}

	task := s.tasks[idx]
	if !task.CanTransition(to) {
		return errors.NewInvalidTaskTransitionError(id, string(task.Status), string(to))
	}

	// The remote service is the authority on task state; the local status
	// only moves once the update landed there.
	if err := s.remote.UpdateTaskStatus(ctx, id, to); err != nil {
		s.logger.Warn("remote task update failed, keeping current status", map[string]interface{}{
			"taskId": id,
			"status": string(to),
			"error":  err.Error(),
		})
		return err
	}

	s.tasks[idx].Status = to
	return nil
}

// ==========================
// Eligibility
// ==========================

// RefreshEligibility replaces the snapshot with the authority's latest
// verdict. While the authority cannot produce a score, the conservative
// "not eligible" snapshot is installed instead.
func (s *Synchronizer) RefreshEligibility(ctx context.Context) (models.EligibilitySnapshot, error) {
	snapshot, err := s.remote.GetStatus(ctx)
	if err != nil {
		if errors.IsAuthorityUnavailable(err) {
			s.snapshot = models.ConservativeSnapshot()
			s.hasSnapshot = true
			s.logger.Info("authority unavailable, using conservative snapshot", nil)
			return s.snapshot, nil
		}
		return s.snapshot, err
	}

	s.snapshot = snapshot
	s.hasSnapshot = true
	return snapshot, nil
}

// Snapshot returns the last installed snapshot. ok is false before the
// first successful refresh.
func (s *Synchronizer) Snapshot() (models.EligibilitySnapshot, bool) {
	return s.snapshot, s.hasSnapshot
}

// AllComplete reports whether every task is done and the authority confirms
// eligibility. A stale or conservative snapshot keeps this false.
func (s *Synchronizer) AllComplete() bool {
	if len(s.tasks) == 0 {
		return false
	}
	for _, t := range s.tasks {
		if t.Status != models.TaskStatusDone {
			return false
		}
	}
	return s.hasSnapshot && s.snapshot.IsEligible
}
