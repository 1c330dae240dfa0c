package domain

import "time"

// TicketReply captures one entry in a ticket's reply thread.
type TicketReply struct {
	ID        string
	TicketID  string
	AuthorID  *string
	Content   string
	IsAgent   bool
	CreatedAt time.Time
}
