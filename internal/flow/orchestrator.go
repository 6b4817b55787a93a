package flow

import (
	"context"
	"fmt"

	"formalization-guide/internal/common/errors"
	"formalization-guide/internal/common/logger"
	"formalization-guide/internal/common/observability"
	"formalization-guide/internal/models"
	"formalization-guide/internal/onboarding"
	"formalization-guide/internal/plan"
	"formalization-guide/internal/services"
	"formalization-guide/internal/session"
	"formalization-guide/internal/tasksync"
)

// Orchestrator owns the active screen and coordinates the questionnaire,
// the plan generator, the synchronizer and the document service around it.
// One orchestrator serves one session; it is not safe for concurrent use,
// matching the single-thread-of-control session model.
type Orchestrator struct {
	controller *onboarding.Controller
	sync       *tasksync.Synchronizer
	remote     services.OnboardingService
	documents  services.DocumentService
	session    *session.Session
	logger     logger.Logger
	obs        *observability.Observability

	screen       Screen
	selectedTask string
	resolved     bool
	busy         bool
}

type Options struct {
	Controller    *onboarding.Controller
	Synchronizer  *tasksync.Synchronizer
	Onboarding    services.OnboardingService
	Documents     services.DocumentService
	Session       *session.Session
	Logger        logger.Logger
	Observability *observability.Observability
}

func NewOrchestrator(opts Options) *Orchestrator {
	return &Orchestrator{
		controller: opts.Controller,
		sync:       opts.Synchronizer,
		remote:     opts.Onboarding,
		documents:  opts.Documents,
		session:    opts.Session,
		logger:     opts.Logger,
		obs:        opts.Observability,
		screen:     ScreenWelcome,
	}
}

// Current returns the active screen.
func (o *Orchestrator) Current() Screen {
	return o.screen
}

// SelectedTask returns the task shown on the detail screen.
func (o *Orchestrator) SelectedTask() (models.ChecklistTask, bool) {
	if o.selectedTask == "" {
		return models.ChecklistTask{}, false
	}
	return o.sync.Task(o.selectedTask)
}

// Session exposes the run's working state to screen renderers.
func (o *Orchestrator) Session() *session.Session {
	return o.session
}

// ==========================
// Initial Resolution
// ==========================

// Resolve determines the starting screen from the remote onboarding status.
// It runs exactly once per orchestrator; later calls are rejected.
func (o *Orchestrator) Resolve(ctx context.Context) error {
	if o.resolved {
		return fmt.Errorf("initial resolution already ran")
	}
	release, err := o.acquire()
	if err != nil {
		return err
	}
	defer release()
	o.resolved = true

	status, err := o.remote.GetStatus(ctx)
	if err != nil {
		// Unknown remote state: start from the questionnaire rather than
		// guessing at a task list.
		o.logger.Warn("onboarding status check failed, starting fresh", map[string]interface{}{
			"error": err.Error(),
		})
		return o.fire(EventStart)
	}

	if status.Status != models.OnboardingCompleted {
		return o.fire(EventStart)
	}

	if err := o.sync.LoadRemote(ctx); err != nil {
		o.logger.Warn("remote task load failed on resume", map[string]interface{}{
			"error": err.Error(),
		})
	}
	o.refreshEligibility(ctx)
	return o.fire(EventResumeTasks)
}

// ==========================
// Onboarding Actions
// ==========================

// SubmitAnswer forwards a single-value answer and advances to the
// completion screen when the questionnaire finishes.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, raw interface{}) error {
	release, err := o.acquire()
	if err != nil {
		return err
	}
	defer release()

	if o.screen != ScreenOnboarding {
		return o.wrongScreen("submit answer")
	}
	if err := o.controller.SubmitAnswer(ctx, raw); err != nil {
		return err
	}
	return o.afterAnswer()
}

// ToggleSelection flips one multi-choice option.
func (o *Orchestrator) ToggleSelection(option string) error {
	if o.screen != ScreenOnboarding {
		return o.wrongScreen("toggle selection")
	}
	return o.controller.ToggleSelection(option)
}

// ConfirmSelections submits the pending multi-choice selections.
func (o *Orchestrator) ConfirmSelections(ctx context.Context) error {
	release, err := o.acquire()
	if err != nil {
		return err
	}
	defer release()

	if o.screen != ScreenOnboarding {
		return o.wrongScreen("confirm selections")
	}
	if err := o.controller.ConfirmSelections(ctx); err != nil {
		return err
	}
	return o.afterAnswer()
}

// SubmitFollowUp records the conditional follow-up answer.
func (o *Orchestrator) SubmitFollowUp(ctx context.Context, value string) error {
	release, err := o.acquire()
	if err != nil {
		return err
	}
	defer release()
	return o.controller.SubmitFollowUp(ctx, value)
}

// afterAnswer generates the plan when the last answer lands.
func (o *Orchestrator) afterAnswer() error {
	if !o.controller.Completed() {
		return nil
	}

	generated := plan.Generate(o.controller.Answers())
	o.sync.Seed(generated.Checklist)
	o.session.InstallPlan(generated.Risk, generated.Documents)

	o.logger.Info("plan generated", map[string]interface{}{
		"caseType": string(generated.Risk.CaseType),
		"tasks":    len(generated.Checklist),
	})
	return o.fire(EventOnboardingDone)
}

// ContinueToTasks leaves the completion screen after one eligibility
// refresh.
func (o *Orchestrator) ContinueToTasks(ctx context.Context) error {
	release, err := o.acquire()
	if err != nil {
		return err
	}
	defer release()

	if o.screen != ScreenOnboardingComplete {
		return o.wrongScreen("continue to tasks")
	}
	o.refreshEligibility(ctx)
	return o.fire(EventContinue)
}

// ==========================
// Task Navigation
// ==========================

// SelectTask opens the detail screen for one checklist task.
func (o *Orchestrator) SelectTask(ctx context.Context, taskID string) error {
	release, err := o.acquire()
	if err != nil {
		return err
	}
	defer release()

	if o.screen != ScreenTaskList {
		return o.wrongScreen("select task")
	}
	if _, ok := o.sync.Task(taskID); !ok {
		return errors.NewTaskNotFoundError(taskID)
	}
	o.selectedTask = taskID
	return o.fire(EventSelectTask)
}

// StartNextTask opens the first pending task.
func (o *Orchestrator) StartNextTask(ctx context.Context) error {
	next, ok := o.nextPendingTask()
	if !ok {
		return errors.NewTaskNotFoundError("(no pending tasks)")
	}
	return o.SelectTask(ctx, next.ID)
}

// OpenUpload moves to the upload screen for tasks that require a file.
func (o *Orchestrator) OpenUpload() error {
	if o.screen != ScreenTaskDetail {
		return o.wrongScreen("open upload")
	}
	task, ok := o.SelectedTask()
	if !ok {
		return errors.NewTaskNotFoundError(o.selectedTask)
	}
	if !task.RequiresUpload {
		return errors.NewValidationError("this task has no document to upload",
			fmt.Sprintf("taskId: %s", task.ID))
	}
	return o.fire(EventOpenUpload)
}

// Back returns towards the task list. Re-entering the list refreshes the
// eligibility snapshot so the displayed score never goes stale.
func (o *Orchestrator) Back(ctx context.Context) error {
	release, err := o.acquire()
	if err != nil {
		return err
	}
	defer release()

	if err := o.fire(EventBack); err != nil {
		return err
	}
	if o.screen == ScreenTaskList {
		o.refreshEligibility(ctx)
	}
	return nil
}

// ==========================
// Task Completion
// ==========================

// CompleteSelectedTask finishes a task that needs no upload.
func (o *Orchestrator) CompleteSelectedTask(ctx context.Context) error {
	release, err := o.acquire()
	if err != nil {
		return err
	}
	defer release()

	if o.screen != ScreenTaskDetail {
		return o.wrongScreen("complete task")
	}
	task, ok := o.SelectedTask()
	if !ok {
		return errors.NewTaskNotFoundError(o.selectedTask)
	}
	if task.RequiresUpload {
		return errors.NewValidationError("this task is completed by uploading its document",
			fmt.Sprintf("taskId: %s", task.ID))
	}

	if err := o.sync.CompleteTask(ctx, task.ID); err != nil {
		return err
	}
	return o.fire(EventTaskCompleted)
}

// UploadDocument validates, presigns and registers the selected task's
// document, then completes the task.
func (o *Orchestrator) UploadDocument(ctx context.Context, filename, contentType string, sizeBytes int64) error {
	release, err := o.acquire()
	if err != nil {
		return err
	}
	defer release()

	if o.screen != ScreenDocumentUpload {
		return o.wrongScreen("upload document")
	}
	task, ok := o.SelectedTask()
	if !ok {
		return errors.NewTaskNotFoundError(o.selectedTask)
	}

	grant, err := o.documents.PresignUpload(ctx, filename, contentType, sizeBytes)
	if err != nil {
		return err
	}

	doc, err := o.documents.RegisterDocument(ctx, task.RelatedDocumentID, grant.FileURL, grant.FileKey, filename)
	if err != nil {
		return err
	}

	o.session.AdvanceDocument(task.RelatedDocumentID, doc.Status)

	if err := o.sync.CompleteTask(ctx, task.ID); err != nil {
		return err
	}
	return o.fire(EventUploadSucceeded)
}

// AdvanceAfterCompletion decides where to go from the celebration of a
// single task: next pending task, the eligibility explanation, or the
// final celebration. Task completion alone never reaches all_complete;
// the synchronizer's eligibility verdict decides.
func (o *Orchestrator) AdvanceAfterCompletion(ctx context.Context) error {
	release, err := o.acquire()
	if err != nil {
		return err
	}
	defer release()

	if o.screen != ScreenTaskComplete {
		return o.wrongScreen("advance after completion")
	}

	if next, ok := o.nextPendingTask(); ok {
		o.selectedTask = next.ID
		return o.fire(EventNextTask)
	}

	if o.sync.AllComplete() {
		return o.fire(EventAllDone)
	}
	return o.fire(EventShowEligibility)
}

// ShowEligibility opens the score explanation from the task list.
func (o *Orchestrator) ShowEligibility(ctx context.Context) error {
	release, err := o.acquire()
	if err != nil {
		return err
	}
	defer release()

	if o.screen != ScreenTaskList {
		return o.wrongScreen("show eligibility")
	}
	return o.fire(EventShowEligibility)
}

// ContinueToSalesProject moves an eligible producer towards the sales
// project guidance.
func (o *Orchestrator) ContinueToSalesProject() error {
	if o.screen != ScreenEligibility {
		return o.wrongScreen("continue to sales project")
	}
	snapshot, ok := o.sync.Snapshot()
	if !ok || !snapshot.IsEligible {
		return errors.NewValidationError("sales project guidance requires an eligible snapshot", "")
	}
	return o.fire(EventContinue)
}

// FinishSalesProject closes the flow with the final celebration.
func (o *Orchestrator) FinishSalesProject() error {
	if o.screen != ScreenSalesProject {
		return o.wrongScreen("finish sales project")
	}
	return o.fire(EventAllDone)
}

// ==========================
// Internals
// ==========================

func (o *Orchestrator) nextPendingTask() (models.ChecklistTask, bool) {
	for _, t := range o.sync.Tasks() {
		if t.Status != models.TaskStatusDone {
			return t, true
		}
	}
	return models.ChecklistTask{}, false
}

func (o *Orchestrator) refreshEligibility(ctx context.Context) {
	if _, err := o.sync.RefreshEligibility(ctx); err != nil {
		// Advisory: the previous snapshot stays on display until the next
		// successful refresh.
		o.logger.Warn("eligibility refresh failed", map[string]interface{}{
			"screen": string(o.screen),
			"error":  err.Error(),
		})
	}
}

func (o *Orchestrator) fire(event Event) error {
	next, err := Transition(o.screen, event)
	if err != nil {
		return err
	}

	if o.obs != nil {
		o.obs.RecordScreenTransition(context.Background(), string(o.screen), string(next))
	}
	o.logger.Debug("screen transition", map[string]interface{}{
		"from":  string(o.screen),
		"to":    string(next),
		"event": string(event),
	})
	o.screen = next
	return nil
}

// acquire rejects a new transition-triggering action while a prior one is
// still in flight. This is a re-entrancy guard, not a mutex; the session
// model is single-threaded.
func (o *Orchestrator) acquire() (func(), error) {
	if o.busy {
		return nil, errors.NewValidationError("another action is still in progress", "")
	}
	o.busy = true
	return func() { o.busy = false }, nil
}

func (o *Orchestrator) wrongScreen(action string) error {
	return fmt.Errorf("cannot %s on screen %s", action, o.screen)
}
