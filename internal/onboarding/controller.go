// Package onboarding implements the one-question-at-a-time wizard that walks
// a producer through the questionnaire. The controller owns the in-session
// answer set; the remote onboarding service owns persistence.
package onboarding

import (
	"context"
	"fmt"

	"formalization-guide/internal/catalog"
	"formalization-guide/internal/common/errors"
	"formalization-guide/internal/common/logger"
	"formalization-guide/internal/common/observability"
	"formalization-guide/internal/models"
	"formalization-guide/internal/services"
)

// Controller drives the question sequence. One question is active at a time;
// submission either advances the sequence or leaves it untouched on failure.
type Controller struct {
	catalog *catalog.Catalog
	remote  services.OnboardingService
	logger  logger.Logger
	obs     *observability.Observability

	answers   models.AnswerSet
	selected  []string
	followUp  *models.FollowUp
	completed bool
}

func NewController(cat *catalog.Catalog, remote services.OnboardingService, log logger.Logger, obs *observability.Observability) *Controller {
	return &Controller{
		catalog: cat,
		remote:  remote,
		logger:  log,
		obs:     obs,
		answers: models.AnswerSet{},
	}
}

// Current returns the active question and progress. ok is false once every
// question has been answered or skipped.
func (c *Controller) Current() (models.Question, models.Progress, bool) {
	q, ok := c.catalog.Next(c.answers)
	return q, c.Progress(), ok
}

// Progress reports answered versus total for the session. The total shrinks
// only when skip conditions remove questions; the answered count never
// decreases.
func (c *Controller) Progress() models.Progress {
	remaining := c.catalog.Remaining(c.answers)
	return models.Progress{
		Answered: len(c.answers),
		Total:    len(c.answers) + remaining,
	}
}

// Completed reports whether the questionnaire is finished.
func (c *Controller) Completed() bool {
	return c.completed
}

// Answers returns a copy of the session's answer set.
func (c *Controller) Answers() models.AnswerSet {
	out := make(models.AnswerSet, len(c.answers))
	for k, v := range c.answers {
		out[k] = v
	}
	return out
}

// ==========================
// Single-Value Submission
// ==========================

// SubmitAnswer handles boolean, free-text and single-choice questions. The
// raw value is normalized, validated against the question definition, then
// persisted remotely before the sequence advances. On any failure the active
// question is unchanged.
func (c *Controller) SubmitAnswer(ctx context.Context, raw interface{}) error {
	q, _, ok := c.Current()
	if !ok {
		return errors.NewQuestionNotFoundError("(none active)")
	}
	if q.Type == models.QuestionTypeMultiChoice {
		return errors.NewInvalidAnswerTypeError(q.Key, "a confirmed selection list")
	}

	value, err := c.normalize(q, raw)
	if err != nil {
		return err
	}

	if err := c.remote.SubmitAnswer(ctx, q.Key, value.Raw()); err != nil {
		return err
	}

	c.record(q, value)
	return nil
}

func (c *Controller) normalize(q models.Question, raw interface{}) (models.AnswerValue, error) {
	switch q.Type {
	case models.QuestionTypeBoolean:
		value, err := models.NormalizeBool(raw)
		if err != nil {
			return nil, errors.NewInvalidAnswerTypeError(q.Key, "a yes/no value")
		}
		return value, nil

	case models.QuestionTypeText:
		text, ok := raw.(string)
		if !ok || text == "" {
			return nil, errors.NewInvalidAnswerTypeError(q.Key, "a non-empty text")
		}
		return models.TextAnswer{Value: text}, nil

	case models.QuestionTypeSingleChoice:
		choice, ok := raw.(string)
		if !ok {
			return nil, errors.NewInvalidAnswerTypeError(q.Key, "one of the listed options")
		}
		for _, opt := range q.Options {
			if opt == choice {
				return models.ChoiceAnswer{Value: choice}, nil
			}
		}
		return nil, errors.NewValidationError(
			"answer is not one of the listed options",
			fmt.Sprintf("questionKey: %s, answer: %s", q.Key, choice),
		)

	default:
		return nil, errors.NewInvalidAnswerTypeError(q.Key, string(q.Type))
	}
}

// ==========================
// Multi-Select Submission
// ==========================

// ToggleSelection adds or removes one option of the active multi-choice
// question. Nothing is persisted until ConfirmSelections.
func (c *Controller) ToggleSelection(option string) error {
	q, _, ok := c.Current()
	if !ok {
		return errors.NewQuestionNotFoundError("(none active)")
	}
	if q.Type != models.QuestionTypeMultiChoice {
		return errors.NewInvalidAnswerTypeError(q.Key, "a single value")
	}

	valid := false
	for _, opt := range q.Options {
		if opt == option {
			valid = true
			break
		}
	}
	if !valid {
		return errors.NewValidationError(
			"option is not part of this question",
			fmt.Sprintf("questionKey: %s, option: %s", q.Key, option),
		)
	}

	for i, sel := range c.selected {
		if sel == option {
			c.selected = append(c.selected[:i], c.selected[i+1:]...)
			return nil
		}
	}
	c.selected = append(c.selected, option)
	return nil
}

// Selections returns the pending multi-choice selections in toggle order.
func (c *Controller) Selections() []string {
	out := make([]string, len(c.selected))
	copy(out, c.selected)
	return out
}

// ConfirmSelections submits the pending multi-choice selections. An empty
// confirmation is rejected inline and the question stays active.
func (c *Controller) ConfirmSelections(ctx context.Context) error {
	q, _, ok := c.Current()
	if !ok {
		return errors.NewQuestionNotFoundError("(none active)")
	}
	if q.Type != models.QuestionTypeMultiChoice {
		return errors.NewInvalidAnswerTypeError(q.Key, "a single value")
	}
	if len(c.selected) == 0 {
		return errors.NewEmptyMultiSelectError(q.Key)
	}

	value := models.ChoiceListAnswer{Values: c.Selections()}
	if err := c.remote.SubmitAnswer(ctx, q.Key, value.Raw()); err != nil {
		return err
	}

	c.selected = nil
	c.record(q, value)
	return nil
}

// ==========================
// Follow-Up Handling
// ==========================

// ActiveFollowUp returns the pending conditional follow-up prompt, if the
// previous answer triggered one. The follow-up must be resolved before the
// next question is submitted.
func (c *Controller) ActiveFollowUp() *models.FollowUp {
	return c.followUp
}

// SubmitFollowUp persists the follow-up answer as a profile field. Follow-up
// answers are profile attributes, not questionnaire answers, so they do not
// move the progress counter.
func (c *Controller) SubmitFollowUp(ctx context.Context, value string) error {
	if c.followUp == nil {
		return errors.NewQuestionNotFoundError("(no follow-up active)")
	}
	if value == "" {
		return errors.NewValidationError("follow-up answer must not be empty",
			fmt.Sprintf("profileField: %s", c.followUp.ProfileField))
	}

	if err := c.remote.UpdateProfileField(ctx, c.followUp.ProfileField, value); err != nil {
		return err
	}

	c.followUp = nil
	return nil
}

// SkipFollowUp discards the pending follow-up without answering it.
func (c *Controller) SkipFollowUp() {
	c.followUp = nil
}

// ==========================
// Internal State Updates
// ==========================

// triggersFollowUp matches the recorded answer against the follow-up's
// trigger value. Boolean answers accept any recognized literal for the
// trigger ("true", "Sim", ...), so catalogs may attach follow-ups to
// yes/no questions too.
func triggersFollowUp(onAnswer string, value models.AnswerValue) bool {
	switch v := value.(type) {
	case models.ChoiceAnswer:
		return v.Value == onAnswer
	case models.TextAnswer:
		return v.Value == onAnswer
	case models.BoolAnswer:
		want, err := models.NormalizeBool(onAnswer)
		if err != nil {
			return false
		}
		return v.Value == want.Value
	}
	return false
}

func (c *Controller) record(q models.Question, value models.AnswerValue) {
	c.answers[q.Key] = value

	if q.FollowUp != nil && triggersFollowUp(q.FollowUp.OnAnswer, value) {
		c.followUp = q.FollowUp
	}

	if c.obs != nil {
		c.obs.RecordAnswerSubmitted(context.Background(), string(q.Type))
	}
	c.logger.Info("answer recorded", map[string]interface{}{
		"questionKey": q.Key,
		"answered":    len(c.answers),
	})

	if _, _, ok := c.Current(); !ok {
		c.completed = true
	}
}
