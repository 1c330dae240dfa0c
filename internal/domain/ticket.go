package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen         TicketStatus = "open"
	TicketStatusTriaged      TicketStatus = "triaged"
	TicketStatusWaitingHuman TicketStatus = "waiting_human"
	TicketStatusResolved     TicketStatus = "resolved"
	TicketStatusClosed       TicketStatus = "closed"
)

// TicketCategory enumerates triage categories.
type TicketCategory string

const (
	CategoryBilling  TicketCategory = "billing"
	CategoryTech     TicketCategory = "tech"
	CategoryShipping TicketCategory = "shipping"
	CategoryOther    TicketCategory = "other"
)

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID           string
	ExternalKey  string
	RequesterID  string
	AssigneeID   *string
	SuggestionID *string
	Title        string
	Description  string
	Category     TicketCategory
	Status       TicketStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ClosedAt     *time.Time
}

// TriageText is the text the pipeline classifies and drafts against.
func (t *Ticket) TriageText() string {
	return t.Title + " " + t.Description
}

var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:         {TicketStatusTriaged, TicketStatusClosed},
	TicketStatusTriaged:      {TicketStatusWaitingHuman, TicketStatusResolved},
	TicketStatusWaitingHuman: {TicketStatusTriaged, TicketStatusResolved, TicketStatusClosed},
	TicketStatusResolved:     {TicketStatusClosed},
	TicketStatusClosed:       {},
}

// IsValidTransition reports whether moving from current to next is a
// pipeline transition. Re-triage re-enters triaged from waiting_human;
// resolved and closed tickets stay put. Human reopen/close actions
// outside the pipeline are not constrained here.
func IsValidTransition(current, next TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
