package flow

import (
	"context"
	"testing"

	"formalization-guide/internal/catalog"
	"formalization-guide/internal/common/errors"
	"formalization-guide/internal/common/logger"
	"formalization-guide/internal/models"
	"formalization-guide/internal/onboarding"
	"formalization-guide/internal/plan"
	"formalization-guide/internal/services"
	"formalization-guide/internal/session"
	"formalization-guide/internal/tasksync"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Fake Collaborators
// ==========================

type fakeOnboarding struct {
	status models.OnboardingStatus
}

func (f *fakeOnboarding) GetStatus(ctx context.Context) (models.OnboardingStatus, error) {
	return f.status, nil
}

func (f *fakeOnboarding) SubmitAnswer(ctx context.Context, questionKey string, value interface{}) error {
	return nil
}

func (f *fakeOnboarding) UpdateProfileField(ctx context.Context, field, value string) error {
	return nil
}

type fakeFormalization struct {
	tasks       []models.ChecklistTask
	snapshot    models.EligibilitySnapshot
	statusErr   error
	statusCalls int
}

func (f *fakeFormalization) GetTasks(ctx context.Context) ([]models.ChecklistTask, error) {
	return f.tasks, nil
}

func (f *fakeFormalization) GetStatus(ctx context.Context) (models.EligibilitySnapshot, error) {
	f.statusCalls++
	if f.statusErr != nil {
		return models.EligibilitySnapshot{}, f.statusErr
	}
	return f.snapshot, nil
}

func (f *fakeFormalization) UpdateTaskStatus(ctx context.Context, taskID string, status models.TaskStatus) error {
	return nil
}

type fakeDocuments struct {
	registered []string
	presignErr error
}

func (f *fakeDocuments) PresignUpload(ctx context.Context, filename, contentType string, sizeBytes int64) (services.PresignedUpload, error) {
	if f.presignErr != nil {
		return services.PresignedUpload{}, f.presignErr
	}
	return services.PresignedUpload{
		UploadURL: "https://storage.example/upload",
		FileURL:   "https://storage.example/files/" + filename,
		FileKey:   "docs/" + filename,
	}, nil
}

func (f *fakeDocuments) RegisterDocument(ctx context.Context, docType, fileURL, fileKey, filename string) (models.Document, error) {
	f.registered = append(f.registered, docType)
	return models.Document{ID: docType, Type: docType, Status: models.DocumentStatusUploaded}, nil
}

type fixture struct {
	orch          *Orchestrator
	onboardingSvc *fakeOnboarding
	formalization *fakeFormalization
	documents     *fakeDocuments
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	onboardingSvc := &fakeOnboarding{
		status: models.OnboardingStatus{Status: models.OnboardingNotStarted},
	}
	formalization := &fakeFormalization{
		snapshot: models.EligibilitySnapshot{IsEligible: true, Level: models.LevelEligible, Score: 90},
	}
	documents := &fakeDocuments{}
	log := logger.NewTestLogger(t)

	orch := NewOrchestrator(Options{
		Controller:   onboarding.NewController(catalog.Default(), onboardingSvc, log, nil),
		Synchronizer: tasksync.NewSynchronizer(formalization, log, nil),
		Onboarding:   onboardingSvc,
		Documents:    documents,
		Session:      session.New(),
		Logger:       log,
	})
	return &fixture{
		orch:          orch,
		onboardingSvc: onboardingSvc,
		formalization: formalization,
		documents:     documents,
	}
}

// answerSimpleCase walks the questionnaire with the in-natura, private-market
// answers, producing the two-task plan.
func answerSimpleCase(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, f.orch.Resolve(ctx))
	require.Equal(t, ScreenOnboarding, f.orch.Current())

	require.NoError(t, f.orch.ToggleSelection("Frutas"))
	require.NoError(t, f.orch.ConfirmSelections(ctx))
	require.NoError(t, f.orch.SubmitAnswer(ctx, "Não, vendo in natura (como colhido)"))
	require.NoError(t, f.orch.SubmitAnswer(ctx, "Tenho ativa"))
	require.NoError(t, f.orch.SubmitFollowUp(ctx, "CAF-99"))
	require.NoError(t, f.orch.SubmitAnswer(ctx, "Mercados/Escolas Privadas"))

	require.Equal(t, ScreenOnboardingComplete, f.orch.Current())
}

// ==========================
// Initial Resolution Tests
// ==========================

func TestOrchestrator_Resolve_FreshUserStartsOnboarding(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.orch.Resolve(context.Background()))

	assert.Equal(t, ScreenOnboarding, f.orch.Current())
}

func TestOrchestrator_Resolve_CompletedUserResumesTasks(t *testing.T) {
	f := newFixture(t)
	f.onboardingSvc.status = models.OnboardingStatus{Status: models.OnboardingCompleted}
	f.formalization.tasks = []models.ChecklistTask{
		{ID: "task-1", Status: models.TaskStatusTodo},
	}

	require.NoError(t, f.orch.Resolve(context.Background()))

	assert.Equal(t, ScreenTaskList, f.orch.Current())
	assert.Equal(t, 1, f.formalization.statusCalls, "resume must refresh eligibility")
}

func TestOrchestrator_Resolve_RunsOnlyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.orch.Resolve(ctx))
	require.Error(t, f.orch.Resolve(ctx))
}

// ==========================
// Onboarding-to-Plan Tests
// ==========================

func TestOrchestrator_CompletionGeneratesPlan(t *testing.T) {
	f := newFixture(t)

	answerSimpleCase(t, f)

	sess := f.orch.Session()
	assert.Equal(t, models.CaseInNatura, sess.Risk.CaseType)
	assert.Len(t, sess.Documents, 4)

	require.NoError(t, f.orch.ContinueToTasks(context.Background()))
	assert.Equal(t, ScreenTaskList, f.orch.Current())
	assert.Equal(t, 1, f.formalization.statusCalls)
}

func TestOrchestrator_EmptyMultiSelectStaysOnOnboarding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.orch.Resolve(ctx))

	err := f.orch.ConfirmSelections(ctx)

	require.Error(t, err)
	se := errors.AsStandard(err)
	require.NotNil(t, se)
	assert.Equal(t, errors.ErrCodeEmptyMultiSelect, se.Code)
	assert.Equal(t, ScreenOnboarding, f.orch.Current())
}

// ==========================
// Task Journey Tests
// ==========================

func TestOrchestrator_UploadJourneyCompletesTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	answerSimpleCase(t, f)
	require.NoError(t, f.orch.ContinueToTasks(ctx))

	require.NoError(t, f.orch.StartNextTask(ctx))
	assert.Equal(t, ScreenTaskDetail, f.orch.Current())

	task, ok := f.orch.SelectedTask()
	require.True(t, ok)
	assert.Equal(t, plan.TaskInvoicing, task.ID)

	require.NoError(t, f.orch.OpenUpload())
	assert.Equal(t, ScreenDocumentUpload, f.orch.Current())

	require.NoError(t, f.orch.UploadDocument(ctx, "nota.pdf", "application/pdf", 2048))
	assert.Equal(t, ScreenTaskComplete, f.orch.Current())
	assert.Equal(t, []string{plan.DocInvoiceExample}, f.documents.registered)

	doc, ok := f.orch.Session().Document(plan.DocInvoiceExample)
	require.True(t, ok)
	assert.Equal(t, models.DocumentStatusUploaded, doc.Status)

	task, _ = f.orch.SelectedTask()
	assert.Equal(t, models.TaskStatusDone, task.Status)
}

func TestOrchestrator_AllCompleteRouting(t *testing.T) {
	tests := []struct {
		name       string
		isEligible bool
		want       Screen
	}{
		{name: "eligible celebrates", isEligible: true, want: ScreenAllComplete},
		{name: "ineligible explains the score", isEligible: false, want: ScreenEligibility},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			f.formalization.snapshot = models.EligibilitySnapshot{IsEligible: tt.isEligible}
			answerSimpleCase(t, f)
			require.NoError(t, f.orch.ContinueToTasks(ctx))

			require.NoError(t, f.orch.StartNextTask(ctx))
			require.NoError(t, f.orch.OpenUpload())
			require.NoError(t, f.orch.UploadDocument(ctx, "nota.pdf", "application/pdf", 2048))

			require.NoError(t, f.orch.AdvanceAfterCompletion(ctx))
			assert.Equal(t, tt.want, f.orch.Current())
		})
	}
}

func TestOrchestrator_BackToTaskListRefreshesEligibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	answerSimpleCase(t, f)
	require.NoError(t, f.orch.ContinueToTasks(ctx))
	require.NoError(t, f.orch.StartNextTask(ctx))

	before := f.formalization.statusCalls
	require.NoError(t, f.orch.Back(ctx))

	assert.Equal(t, ScreenTaskList, f.orch.Current())
	assert.Equal(t, before+1, f.formalization.statusCalls)
}

func TestOrchestrator_OpenUploadRejectedWithoutUploadRequirement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.formalization.snapshot = models.EligibilitySnapshot{IsEligible: false}
	answerSimpleCase(t, f)
	require.NoError(t, f.orch.ContinueToTasks(ctx))

	// The personal documents task is pre-done; pick it directly.
	require.NoError(t, f.orch.SelectTask(ctx, plan.TaskPersonalDocuments))

	task, _ := f.orch.SelectedTask()
	require.True(t, task.RequiresUpload)

	// Swap to a task that carries no upload requirement via the fake list.
	require.NoError(t, f.orch.Back(ctx))
	f.orch.sync.Seed([]models.ChecklistTask{
		{ID: "talk-to-city-hall", Status: models.TaskStatusTodo},
	})
	require.NoError(t, f.orch.SelectTask(ctx, "talk-to-city-hall"))

	err := f.orch.OpenUpload()
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, ScreenTaskDetail, f.orch.Current())
}

func TestOrchestrator_DirectCompletionForNonUploadTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	answerSimpleCase(t, f)
	require.NoError(t, f.orch.ContinueToTasks(ctx))

	f.orch.sync.Seed([]models.ChecklistTask{
		{ID: "talk-to-city-hall", Status: models.TaskStatusTodo},
	})
	require.NoError(t, f.orch.SelectTask(ctx, "talk-to-city-hall"))
	require.NoError(t, f.orch.CompleteSelectedTask(ctx))

	assert.Equal(t, ScreenTaskComplete, f.orch.Current())
}

func TestOrchestrator_PresignFailureKeepsUploadScreen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	answerSimpleCase(t, f)
	require.NoError(t, f.orch.ContinueToTasks(ctx))
	require.NoError(t, f.orch.StartNextTask(ctx))
	require.NoError(t, f.orch.OpenUpload())

	f.documents.presignErr = errors.NewFileTooLargeError(20<<20, 10<<20)
	err := f.orch.UploadDocument(ctx, "nota.pdf", "application/pdf", 20<<20)

	require.Error(t, err)
	assert.Equal(t, ScreenDocumentUpload, f.orch.Current())
	assert.Empty(t, f.documents.registered)

	task, _ := f.orch.SelectedTask()
	assert.Equal(t, models.TaskStatusTodo, task.Status)
}

// ==========================
// Eligibility Screen Tests
// ==========================

func TestOrchestrator_SalesProjectRequiresEligibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.formalization.snapshot = models.EligibilitySnapshot{IsEligible: false}
	answerSimpleCase(t, f)
	require.NoError(t, f.orch.ContinueToTasks(ctx))
	require.NoError(t, f.orch.ShowEligibility(ctx))

	err := f.orch.ContinueToSalesProject()

	require.Error(t, err)
	assert.Equal(t, ScreenEligibility, f.orch.Current())
}

func TestOrchestrator_SalesProjectJourney(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	answerSimpleCase(t, f)
	require.NoError(t, f.orch.ContinueToTasks(ctx))
	require.NoError(t, f.orch.ShowEligibility(ctx))

	require.NoError(t, f.orch.ContinueToSalesProject())
	assert.Equal(t, ScreenSalesProject, f.orch.Current())

	require.NoError(t, f.orch.FinishSalesProject())
	assert.Equal(t, ScreenAllComplete, f.orch.Current())
}
