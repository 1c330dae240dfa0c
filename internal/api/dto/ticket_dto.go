package dto

import "time"

// CreateTicketRequest payload for POST /tickets.
type CreateTicketRequest struct {
	RequesterID string `json:"requester_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CreateReplyRequest payload for POST /tickets/:id/replies.
type CreateReplyRequest struct {
	AuthorID *string `json:"author_id,omitempty"`
	Content  string  `json:"content"`
	IsAgent  bool    `json:"is_agent"`
}

// AssignTicketRequest payload for POST /tickets/:id/assign.
type AssignTicketRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// TicketSummary is the list-view projection of a ticket.
type TicketSummary struct {
	ID           string     `json:"id"`
	ExternalKey  string     `json:"external_key"`
	RequesterID  string     `json:"requester_id"`
	AssigneeID   *string    `json:"assignee_id,omitempty"`
	SuggestionID *string    `json:"suggestion_id,omitempty"`
	Title        string     `json:"title"`
	Category     string     `json:"category"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
}

// TicketDetail is the single-ticket projection with thread and latest
// suggestion.
type TicketDetail struct {
	TicketSummary
	Description string             `json:"description"`
	Replies     []ReplyResponse    `json:"replies"`
	Suggestion  *SuggestionSummary `json:"suggestion,omitempty"`
}

// ReplyResponse is one reply-thread entry.
type ReplyResponse struct {
	ID        string    `json:"id"`
	AuthorID  *string   `json:"author_id,omitempty"`
	Content   string    `json:"content"`
	IsAgent   bool      `json:"is_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// TriageStartedResponse acknowledges an asynchronous triage trigger.
type TriageStartedResponse struct {
	TicketID      string `json:"ticket_id"`
	CorrelationID string `json:"correlation_id"`
}
