package dto

import "time"

// SuggestionSummary is the API projection of a triage suggestion.
type SuggestionSummary struct {
	ID            string    `json:"id"`
	TicketID      string    `json:"ticket_id"`
	Category      string    `json:"category"`
	ArticleIDs    []string  `json:"article_ids"`
	DraftReply    string    `json:"draft_reply"`
	Confidence    float64   `json:"confidence"`
	AutoClosed    bool      `json:"auto_closed"`
	Provider      string    `json:"provider"`
	Model         string    `json:"model"`
	PromptVersion string    `json:"prompt_version"`
	LatencyMs     int64     `json:"latency_ms"`
	CreatedAt     time.Time `json:"created_at"`
}

// AuditLogEntry is the API projection of one audit record.
type AuditLogEntry struct {
	ID            string         `json:"id"`
	TicketID      string         `json:"ticket_id"`
	CorrelationID string         `json:"correlation_id"`
	Actor         string         `json:"actor"`
	Action        string         `json:"action"`
	Metadata      map[string]any `json:"metadata"`
	CreatedAt     time.Time      `json:"created_at"`
}

// TriageConfigResponse is the operator config projection.
type TriageConfigResponse struct {
	AutoCloseEnabled    bool    `json:"auto_close_enabled"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	SLAHours            int     `json:"sla_hours"`
}

// UpdateTriageConfigRequest payload for PUT /admin/triage-config.
type UpdateTriageConfigRequest struct {
	AutoCloseEnabled    bool    `json:"auto_close_enabled"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	SLAHours            int     `json:"sla_hours"`
}
