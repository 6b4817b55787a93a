// Package session holds the per-user working state of a guided-flow run.
// One Session instance is created per run and borrowed by whichever
// component owns the active screen; nothing in here is persisted.
package session

import (
	"time"

	"formalization-guide/internal/models"

	"github.com/google/uuid"
)

// Session is the single mutable context object of a guided-flow run.
type Session struct {
	ID        string
	StartedAt time.Time

	Risk      models.RiskProfile
	Documents []models.Document
}

func New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
}

// InstallPlan stores the generated risk profile and required documents.
func (s *Session) InstallPlan(risk models.RiskProfile, documents []models.Document) {
	s.Risk = risk
	s.Documents = make([]models.Document, len(documents))
	copy(s.Documents, documents)
}

// Document returns the tracked document with the given id.
func (s *Session) Document(id string) (models.Document, bool) {
	for _, d := range s.Documents {
		if d.ID == id {
			return d, true
		}
	}
	return models.Document{}, false
}

// AdvanceDocument moves a document's status forward. Regressions are
// ignored, matching the monotonic document lifecycle.
func (s *Session) AdvanceDocument(id string, to models.DocumentStatus) bool {
	for i := range s.Documents {
		if s.Documents[i].ID == id {
			s.Documents[i].Advance(to)
			return true
		}
	}
	return false
}

// MissingDocuments lists the documents still waiting for an upload.
func (s *Session) MissingDocuments() []models.Document {
	var out []models.Document
	for _, d := range s.Documents {
		if d.Status == models.DocumentStatusMissing {
			out = append(out, d)
		}
	}
	return out
}
