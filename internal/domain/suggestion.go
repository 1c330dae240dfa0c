package domain

import "time"

// ModelProvenance records which backend produced a suggestion.
type ModelProvenance struct {
	Provider      string
	Model         string
	PromptVersion string
	LatencyMs     int64
}

// Suggestion is the output of one triage run: predicted category, cited
// knowledge-base articles and a draft reply. Immutable once created except
// for the AutoClosed flag, which may flip false->true within the same run.
type Suggestion struct {
	ID         string
	TicketID   string
	Category   TicketCategory
	ArticleIDs []string
	DraftReply string
	Confidence float64
	AutoClosed bool
	Provenance ModelProvenance
	CreatedAt  time.Time
}
