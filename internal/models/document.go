// internal/models/document.go
package models

type DocumentStatus string

const (
	DocumentStatusMissing    DocumentStatus = "missing"
	DocumentStatusUploaded   DocumentStatus = "uploaded"
	DocumentStatusAIReviewed DocumentStatus = "ai_reviewed"
	DocumentStatusAccepted   DocumentStatus = "accepted"
)

var documentStatusRank = map[DocumentStatus]int{
	DocumentStatusMissing:    0,
	DocumentStatusUploaded:   1,
	DocumentStatusAIReviewed: 2,
	DocumentStatusAccepted:   3,
}

// Document tracks one required file. Status advances monotonically
// missing -> uploaded -> ai_reviewed -> accepted and never regresses.
type Document struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Name   string         `json:"name"`
	Status DocumentStatus `json:"status"`
	Notes  string         `json:"notes,omitempty"`
}

// Advance moves the document to the given status, ignoring regressions.
func (d *Document) Advance(to DocumentStatus) {
	if documentStatusRank[to] > documentStatusRank[d.Status] {
		d.Status = to
	}
}
