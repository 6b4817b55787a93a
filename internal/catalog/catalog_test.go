package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"formalization-guide/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Construction Tests
// ==========================

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		questions []models.Question
		wantErr   bool
		errMsg    string
	}{
		{
			name:      "default questionnaire is valid",
			questions: defaultQuestions(),
			wantErr:   false,
		},
		{
			name:      "empty catalog rejected",
			questions: nil,
			wantErr:   true,
			errMsg:    "at least one question",
		},
		{
			name: "duplicate key rejected",
			questions: []models.Question{
				{Key: "q1", Prompt: "a", Type: models.QuestionTypeBoolean, Order: 1},
				{Key: "q1", Prompt: "b", Type: models.QuestionTypeBoolean, Order: 2},
			},
			wantErr: true,
			errMsg:  "duplicate question key",
		},
		{
			name: "empty key rejected",
			questions: []models.Question{
				{Key: "", Prompt: "a", Type: models.QuestionTypeBoolean, Order: 1},
			},
			wantErr: true,
			errMsg:  "empty key",
		},
		{
			name: "choice question without options rejected",
			questions: []models.Question{
				{Key: "q1", Prompt: "a", Type: models.QuestionTypeSingleChoice, Order: 1},
			},
			wantErr: true,
			errMsg:  "no options",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.questions)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
				assert.Equal(t, len(tt.questions), c.Len())
			}
		})
	}
}

func TestNew_SortsByOrder(t *testing.T) {
	c, err := New([]models.Question{
		{Key: "third", Prompt: "c", Type: models.QuestionTypeBoolean, Order: 3},
		{Key: "first", Prompt: "a", Type: models.QuestionTypeBoolean, Order: 1},
		{Key: "second", Prompt: "b", Type: models.QuestionTypeBoolean, Order: 2},
	})
	require.NoError(t, err)

	questions := c.Questions()
	assert.Equal(t, "first", questions[0].Key)
	assert.Equal(t, "second", questions[1].Key)
	assert.Equal(t, "third", questions[2].Key)
}

// ==========================
// Sequencing Tests
// ==========================

func TestCatalog_Next(t *testing.T) {
	c := Default()

	tests := []struct {
		name     string
		answers  models.AnswerSet
		wantKey  string
		wantDone bool
	}{
		{
			name:    "fresh session starts at food type",
			answers: models.AnswerSet{},
			wantKey: "tipo_alimento",
		},
		{
			name: "advances in order",
			answers: models.AnswerSet{
				"tipo_alimento": models.ChoiceListAnswer{Values: []string{"Frutas"}},
			},
			wantKey: "processa_alimento",
		},
		{
			name: "program question asked for public market",
			answers: models.AnswerSet{
				"tipo_alimento":     models.ChoiceListAnswer{Values: []string{"Frutas"}},
				"processa_alimento": models.ChoiceAnswer{Value: "Não, vendo in natura (como colhido)"},
				"documentacao_base": models.ChoiceAnswer{Value: "Tenho ativa"},
				"publico_alvo":      models.ChoiceAnswer{Value: "Escola Pública (PNAE)"},
			},
			wantKey: "ja_vendeu_programas",
		},
		{
			name: "program question skipped for private-only market",
			answers: models.AnswerSet{
				"tipo_alimento":     models.ChoiceListAnswer{Values: []string{"Frutas"}},
				"processa_alimento": models.ChoiceAnswer{Value: "Não, vendo in natura (como colhido)"},
				"documentacao_base": models.ChoiceAnswer{Value: "Tenho ativa"},
				"publico_alvo":      models.ChoiceAnswer{Value: "Mercados/Escolas Privadas"},
			},
			wantDone: true,
		},
		{
			name: "all answered means complete",
			answers: models.AnswerSet{
				"tipo_alimento":       models.ChoiceListAnswer{Values: []string{"Frutas"}},
				"processa_alimento":   models.ChoiceAnswer{Value: "Não, vendo in natura (como colhido)"},
				"documentacao_base":   models.ChoiceAnswer{Value: "Tenho ativa"},
				"publico_alvo":        models.ChoiceAnswer{Value: "Ambos"},
				"ja_vendeu_programas": models.BoolAnswer{Value: false},
			},
			wantDone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, ok := c.Next(tt.answers)

			if tt.wantDone {
				assert.False(t, ok)
			} else {
				require.True(t, ok)
				assert.Equal(t, tt.wantKey, q.Key)
			}
		})
	}
}

func TestCatalog_Remaining(t *testing.T) {
	c := Default()

	assert.Equal(t, 5, c.Remaining(models.AnswerSet{}))

	answers := models.AnswerSet{
		"tipo_alimento": models.ChoiceListAnswer{Values: []string{"Frutas"}},
		"publico_alvo":  models.ChoiceAnswer{Value: "Mercados/Escolas Privadas"},
	}
	// Skip condition removes the program question from the remaining count.
	assert.Equal(t, 2, c.Remaining(answers))
}

// ==========================
// File Loading Tests
// ==========================

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid catalog file", func(t *testing.T) {
		path := filepath.Join(dir, "catalog.json")
		content := `[
			{"key": "q1", "prompt": "Pergunta 1", "type": "boolean", "order": 1},
			{"key": "q2", "prompt": "Pergunta 2", "type": "single_choice", "order": 2,
			 "options": ["A", "B"]}
		]`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		c, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("schema violation rejected", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		content := `[{"key": "q1", "type": "mystery", "order": 1}]`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		_, err := LoadFile(path)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "absent.json"))
		require.Error(t, err)
	})
}

// ==========================
// Default Catalog Tests
// ==========================

func TestDefault(t *testing.T) {
	c := Default()

	require.Equal(t, 5, c.Len())

	doc, ok := c.Get("documentacao_base")
	require.True(t, ok)
	require.NotNil(t, doc.FollowUp)
	assert.Equal(t, "Tenho ativa", doc.FollowUp.OnAnswer)
	assert.Equal(t, "caf_number", doc.FollowUp.ProfileField)
	assert.Equal(t, "caf_dap", doc.RequirementID)

	programs, ok := c.Get("ja_vendeu_programas")
	require.True(t, ok)
	require.NotNil(t, programs.SkipWhen)
	assert.Equal(t, "publico_alvo", programs.SkipWhen.QuestionKey)
}
