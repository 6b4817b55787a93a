// Package plan derives the personalized formalization plan from a completed
// answer set. Generation is a pure function of the answers: no clock, no
// randomness, no I/O. The same answers always produce the same plan.
package plan

import "formalization-guide/internal/models"

// Risk flags raised during answer analysis.
const (
	FlagProcessing   = "processing_detected"
	FlagAnimalOrigin = "animal_origin"
)

// Stable task identifiers. The formalization service keys progress off these,
// so regeneration maps onto the same remote records.
const (
	TaskSanitaryConsultation = "consultoria_sanitaria"
	TaskPersonalDocuments    = "documentos_pessoais"
	TaskInvoicing            = "nota_fiscal_produtor"
	TaskRegistration         = "cadastro_caf_dap"
	TaskSupplierRegistration = "cadastro_fornecedor"
	TaskCallsMonitoring      = "acompanhar_chamadas"
)

// Document identifiers, one per required file.
const (
	DocIdentity       = "identity"
	DocRegistration   = "registration"
	DocProofOfAddress = "proof_of_address"
	DocInvoiceExample = "invoice_example"
)

// Plan is the full generated guidance package.
type Plan struct {
	Risk      models.RiskProfile     `json:"risk"`
	Checklist []models.ChecklistTask `json:"checklist"`
	Documents []models.Document      `json:"documents"`
}

// Generate builds the plan for a completed questionnaire. Task and document
// order is fixed per rule, so two producers with the same answers see the
// same plan.
func Generate(answers models.AnswerSet) Plan {
	risk := classify(answers)

	checklist := baseChecklist(answers)
	if risk.CaseType == models.CaseNeedsHuman {
		checklist = append([]models.ChecklistTask{sanitaryConsultationTask()}, checklist...)
	}

	return Plan{
		Risk:      risk,
		Checklist: checklist,
		Documents: requiredDocuments(answers),
	}
}

// ==========================
// Risk Classification
// ==========================

func classify(answers models.AnswerSet) models.RiskProfile {
	flags := []string{}

	if processesFood(answers) {
		flags = append(flags, FlagProcessing)
	}
	if answers.HasChoice("tipo_alimento", "Origem Animal") {
		flags = append(flags, FlagAnimalOrigin)
	}

	caseType := models.CaseInNatura
	if len(flags) > 0 {
		// Any sanitary-sensitive production needs a human specialist before
		// the producer can sell.
		caseType = models.CaseNeedsHuman
	}

	return models.RiskProfile{Flags: flags, CaseType: caseType}
}

func processesFood(answers models.AnswerSet) bool {
	if answers.HasChoice("tipo_alimento", "Processados") {
		return true
	}
	processing := answers.Text("processa_alimento")
	return processing != "" && !answers.HasChoice("processa_alimento", "in natura")
}

// ==========================
// Checklist Construction
// ==========================

func baseChecklist(answers models.AnswerSet) []models.ChecklistTask {
	tasks := []models.ChecklistTask{personalDocumentsTask()}

	if answers.Text("documentacao_base") != "Tenho ativa" {
		tasks = append(tasks, registrationTask(answers.Text("documentacao_base")))
	}
	tasks = append(tasks, invoicingTask())

	if sellsToPublicPrograms(answers) {
		tasks = append(tasks, supplierRegistrationTask(), callsMonitoringTask())
	}

	return tasks
}

func sellsToPublicPrograms(answers models.AnswerSet) bool {
	target := answers.Text("publico_alvo")
	return target == "Escola Pública (PNAE)" || target == "Ambos"
}

func sanitaryConsultationTask() models.ChecklistTask {
	return models.ChecklistTask{
		ID:          TaskSanitaryConsultation,
		Title:       "Buscar orientação sanitária",
		Description: "Sua produção exige avaliação sanitária antes da venda. Procure um especialista para entender as exigências do seu caso.",
		Priority:    models.PriorityHigh,
		Status:      models.TaskStatusTodo,
		DetailedSteps: []models.GuidanceStep{
			{Text: "Procure a vigilância sanitária do seu município"},
			{Text: "Leve a lista dos alimentos que você produz"},
			{Text: "Anote as adequações exigidas para a sua produção", Tip: "A visita de orientação é gratuita na maioria dos municípios."},
		},
	}
}

func personalDocumentsTask() models.ChecklistTask {
	return models.ChecklistTask{
		ID:                TaskPersonalDocuments,
		Title:             "Separar documentos pessoais",
		Description:       "RG, CPF e comprovante de residência são a base de qualquer cadastro.",
		Priority:          models.PriorityHigh,
		Status:            models.TaskStatusDone,
		RelatedDocumentID: DocIdentity,
		RequiresUpload:    true,
		DetailedSteps: []models.GuidanceStep{
			{Text: "Tire uma foto legível do seu RG ou CNH"},
			{Text: "Tire uma foto de um comprovante de residência recente"},
		},
	}
}

func invoicingTask() models.ChecklistTask {
	return models.ChecklistTask{
		ID:                TaskInvoicing,
		Title:             "Emitir nota fiscal de produtor",
		Description:       "Para vender formalmente você precisa emitir nota fiscal de produtor rural.",
		Priority:          models.PriorityHigh,
		Status:            models.TaskStatusTodo,
		RelatedDocumentID: DocInvoiceExample,
		RequiresUpload:    true,
		DetailedSteps: []models.GuidanceStep{
			{Text: "Procure a secretaria da fazenda do seu município"},
			{Text: "Solicite o bloco de notas de produtor rural ou acesso ao emissor eletrônico"},
			{Text: "Emita uma nota de exemplo e envie aqui", Tip: "A primeira nota pode ser de valor simbólico, serve para validar o cadastro."},
		},
	}
}

func registrationTask(currentState string) models.ChecklistTask {
	description := "O CAF (antiga DAP) identifica você como agricultor familiar e libera o acesso aos programas públicos."
	if currentState == "Tenho, mas está vencida" {
		description = "Seu CAF/DAP está vencido. Renove o cadastro para manter o acesso aos programas públicos."
	}

	return models.ChecklistTask{
		ID:                TaskRegistration,
		Title:             "Obter ou renovar o CAF/DAP",
		Description:       description,
		Priority:          models.PriorityHigh,
		Status:            models.TaskStatusTodo,
		RelatedDocumentID: DocRegistration,
		RequiresUpload:    true,
		RequirementID:     "caf_dap",
		DetailedSteps: []models.GuidanceStep{
			{Text: "Procure o sindicato rural ou a EMATER da sua região"},
			{Text: "Leve RG, CPF e comprovante da atividade rural"},
			{Text: "Envie aqui a foto do documento emitido"},
		},
	}
}

func supplierRegistrationTask() models.ChecklistTask {
	return models.ChecklistTask{
		ID:          TaskSupplierRegistration,
		Title:       "Cadastrar-se como fornecedor",
		Description: "Escolas públicas compram de fornecedores cadastrados na prefeitura.",
		Priority:    models.PriorityMedium,
		Status:      models.TaskStatusTodo,
		DetailedSteps: []models.GuidanceStep{
			{Text: "Procure o setor de compras ou de merenda escolar da prefeitura"},
			{Text: "Pergunte sobre o cadastro de fornecedores da agricultura familiar"},
		},
	}
}

func callsMonitoringTask() models.ChecklistTask {
	return models.ChecklistTask{
		ID:          TaskCallsMonitoring,
		Title:       "Acompanhar chamadas públicas",
		Description: "As compras do PNAE acontecem por chamadas públicas periódicas.",
		Priority:    models.PriorityMedium,
		Status:      models.TaskStatusTodo,
		DetailedSteps: []models.GuidanceStep{
			{Text: "Acompanhe o site e o mural da prefeitura"},
			{Text: "Prepare sua proposta com antecedência", Tip: "As chamadas costumam sair no início do ano letivo."},
		},
	}
}

// ==========================
// Required Documents
// ==========================

func requiredDocuments(answers models.AnswerSet) []models.Document {
	registrationStatus := models.DocumentStatusMissing
	if answers.Text("documentacao_base") == "Tenho ativa" {
		// An active CAF/DAP counts as already provided; the producer only
		// needs to upload it for the record.
		registrationStatus = models.DocumentStatusUploaded
	}

	return []models.Document{
		{ID: DocIdentity, Type: "identity", Name: "Documento de identidade (RG ou CNH)", Status: models.DocumentStatusMissing},
		{ID: DocRegistration, Type: "registration", Name: "CAF/DAP", Status: registrationStatus},
		{ID: DocProofOfAddress, Type: "proof_of_address", Name: "Comprovante de residência", Status: models.DocumentStatusMissing},
		{ID: DocInvoiceExample, Type: "invoice_example", Name: "Nota fiscal de exemplo", Status: models.DocumentStatusMissing},
	}
}
