package domain

import "time"

// AuditActor indicates who performed an audited action.
type AuditActor string

const (
	ActorSystem AuditActor = "system"
	ActorAgent  AuditActor = "agent"
	ActorUser   AuditActor = "user"
)

// AuditAction enumerates the audit vocabulary. The strings are fixed for
// compatibility with existing readers.
type AuditAction string

const (
	ActionTicketCreated   AuditAction = "TICKET_CREATED"
	ActionAgentClassified AuditAction = "AGENT_CLASSIFIED"
	ActionKBRetrieved     AuditAction = "KB_RETRIEVED"
	ActionDraftGenerated  AuditAction = "DRAFT_GENERATED"
	ActionAutoClosed      AuditAction = "AUTO_CLOSED"
	ActionAssignedToHuman AuditAction = "ASSIGNED_TO_HUMAN"
	ActionTriageFailed    AuditAction = "TRIAGE_FAILED"
	ActionReplySent       AuditAction = "REPLY_SENT"
	ActionTicketAssigned  AuditAction = "TICKET_ASSIGNED"
)

// AuditLog is an immutable audit trail entry. Entries sharing a
// correlation ID belong to the same triage run.
type AuditLog struct {
	ID            string
	TicketID      string
	CorrelationID string
	Actor         AuditActor
	Action        AuditAction
	Metadata      map[string]any
	CreatedAt     time.Time
}
