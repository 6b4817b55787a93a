// internal/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"formalization-guide/internal/models"
)

// Catalog is the immutable set of onboarding questions, loaded once and
// sorted by order.
type Catalog struct {
	questions []models.Question
	byKey     map[string]models.Question
}

// New builds a catalog from question definitions. Keys must be unique.
func New(questions []models.Question) (*Catalog, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("catalog requires at least one question")
	}

	sorted := make([]models.Question, len(questions))
	copy(sorted, questions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	byKey := make(map[string]models.Question, len(sorted))
	for _, q := range sorted {
		if q.Key == "" {
			return nil, fmt.Errorf("question with order %d has empty key", q.Order)
		}
		if _, dup := byKey[q.Key]; dup {
			return nil, fmt.Errorf("duplicate question key: %s", q.Key)
		}
		if (q.Type == models.QuestionTypeSingleChoice || q.Type == models.QuestionTypeMultiChoice) && len(q.Options) == 0 {
			return nil, fmt.Errorf("choice question %s has no options", q.Key)
		}
		byKey[q.Key] = q
	}

	return &Catalog{questions: sorted, byKey: byKey}, nil
}

// LoadFile reads and schema-validates a JSON catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	if err := validateCatalogJSON(data); err != nil {
		return nil, err
	}

	var questions []models.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}

	return New(questions)
}

// Get returns the question with the given key.
func (c *Catalog) Get(key string) (models.Question, bool) {
	q, ok := c.byKey[key]
	return q, ok
}

// Len returns the number of questions in the catalog.
func (c *Catalog) Len() int {
	return len(c.questions)
}

// Questions returns the questions in presentation order.
func (c *Catalog) Questions() []models.Question {
	out := make([]models.Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// Next returns the first unanswered question in order, honoring skip
// conditions against already-given answers. ok is false when onboarding
// is complete.
func (c *Catalog) Next(answers models.AnswerSet) (models.Question, bool) {
	for _, q := range c.questions {
		if _, answered := answers[q.Key]; answered {
			continue
		}
		if c.skipped(q, answers) {
			continue
		}
		return q, true
	}
	return models.Question{}, false
}

// Remaining counts the questions still to be answered, skip conditions
// applied.
func (c *Catalog) Remaining(answers models.AnswerSet) int {
	n := 0
	for _, q := range c.questions {
		if _, answered := answers[q.Key]; answered {
			continue
		}
		if c.skipped(q, answers) {
			continue
		}
		n++
	}
	return n
}

func (c *Catalog) skipped(q models.Question, answers models.AnswerSet) bool {
	if q.SkipWhen == nil {
		return false
	}
	dep, answered := answers[q.SkipWhen.QuestionKey]
	if !answered {
		// Dependency not answered yet; the question stays in the sequence.
		return false
	}
	for _, accepted := range q.SkipWhen.AnswerNotIn {
		if text, ok := dep.(models.ChoiceAnswer); ok && text.Value == accepted {
			return false
		}
		if text, ok := dep.(models.TextAnswer); ok && text.Value == accepted {
			return false
		}
	}
	return true
}
