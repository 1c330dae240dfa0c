package events

import (
	"time"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated    EventType = "ticket_created"
	EventTicketReplyAdded EventType = "ticket_reply_added"
	EventTriageCompleted  EventType = "triage_completed"
	EventTicketAutoClosed EventType = "ticket_auto_closed"
	EventTicketEscalated  EventType = "ticket_escalated"
)

// Event represents a domain event emitted by services and the pipeline.
type Event struct {
	ID            string      `json:"id"`
	Type          EventType   `json:"type"`
	TicketID      string      `json:"ticket_id"`
	CorrelationID string      `json:"correlation_id,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
	Payload       interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	RequesterID string `json:"requester_id"`
	Title       string `json:"title"`
}

// TicketReplyAddedPayload payload.
type TicketReplyAddedPayload struct {
	ReplyID     string `json:"reply_id"`
	IsAgent     bool   `json:"is_agent"`
	BodyPreview string `json:"body_preview"`
}

// TriageCompletedPayload payload.
type TriageCompletedPayload struct {
	SuggestionID string                `json:"suggestion_id"`
	Category     domain.TicketCategory `json:"category"`
	Confidence   float64               `json:"confidence"`
	AutoClosed   bool                  `json:"auto_closed"`
}

// TicketAutoClosedPayload payload.
type TicketAutoClosedPayload struct {
	SuggestionID string  `json:"suggestion_id"`
	Confidence   float64 `json:"confidence"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	SuggestionID string `json:"suggestion_id"`
	Reason       string `json:"reason"`
}
