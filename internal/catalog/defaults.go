// internal/catalog/defaults.go
package catalog

import "formalization-guide/internal/models"

// Default returns the built-in questionnaire used when no catalog file is
// configured. Questions follow the PNAE onboarding guide.
func Default() *Catalog {
	c, err := New(defaultQuestions())
	if err != nil {
		// Defaults are fixed data; a construction failure is a programming error.
		panic(err)
	}
	return c
}

func defaultQuestions() []models.Question {
	return []models.Question{
		{
			Key:    "tipo_alimento",
			Prompt: "Quais alimentos você produz para venda?",
			Type:   models.QuestionTypeMultiChoice,
			Options: []string{
				"Frutas",
				"Verduras e Legumes",
				"Grãos e Cereais",
				"Processados (Geleias, Conservas)",
				"Origem Animal (Queijos, Mel, Ovos)",
				"Outro",
			},
			AllowMultiple: true,
			Order:         1,
		},
		{
			Key:    "processa_alimento",
			Prompt: "Você transforma o alimento antes de vender?",
			Type:   models.QuestionTypeSingleChoice,
			Options: []string{
				"Não, vendo in natura (como colhido)",
				"Sim, transformo em casa",
				"Sim, em cozinha industrial/agroindústria",
			},
			Order: 2,
		},
		{
			Key:    "documentacao_base",
			Prompt: "Como está o seu cadastro de agricultor familiar (CAF/DAP)?",
			Type:   models.QuestionTypeSingleChoice,
			Options: []string{
				"Tenho ativa",
				"Tenho, mas está vencida",
				"Não tenho",
			},
			Order:         3,
			RequirementID: "caf_dap",
			FollowUp: &models.FollowUp{
				OnAnswer:     "Tenho ativa",
				Prompt:       "Qual é o número do seu CAF/DAP?",
				ProfileField: "caf_number",
			},
		},
		{
			Key:    "publico_alvo",
			Prompt: "Para quem você pretende vender?",
			Type:   models.QuestionTypeSingleChoice,
			Options: []string{
				"Escola Pública (PNAE)",
				"Mercados/Escolas Privadas",
				"Ambos",
			},
			Order: 4,
		},
		{
			Key:    "ja_vendeu_programas",
			Prompt: "Você já vendeu para programas públicos (PNAE, PAA)?",
			Type:   models.QuestionTypeBoolean,
			Order:  5,
			SkipWhen: &models.SkipCondition{
				QuestionKey: "publico_alvo",
				AnswerNotIn: []string{"Escola Pública (PNAE)", "Ambos"},
			},
		},
	}
}
