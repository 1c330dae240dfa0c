package triage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/repository"
)

// Recorder appends immutable audit entries for pipeline stages. Stage
// writes are required for a run to be considered observable; a write
// failure fails the run. Only the terminal-failure entry is best-effort.
type Recorder struct {
	audits repository.AuditLogRepository
	logger *zap.Logger
}

// NewRecorder builds a recorder over the audit repository.
func NewRecorder(audits repository.AuditLogRepository, logger *zap.Logger) *Recorder {
	return &Recorder{audits: audits, logger: logger}
}

// Record appends one system-actor audit entry.
func (r *Recorder) Record(ctx context.Context, ticketID, correlationID string, action domain.AuditAction, metadata map[string]any) error {
	entry := &domain.AuditLog{
		TicketID:      ticketID,
		CorrelationID: correlationID,
		Actor:         domain.ActorSystem,
		Action:        action,
		Metadata:      metadata,
	}
	if err := r.audits.Create(ctx, entry); err != nil {
		return fmt.Errorf("audit %s: %w", action, err)
	}
	return nil
}

// RecordFailure appends the terminal TRIAGE_FAILED entry. The write is
// best-effort: losing it must not mask the run error it describes, so a
// storage failure here is logged and swallowed.
func (r *Recorder) RecordFailure(ctx context.Context, ticketID, correlationID string, runErr error) {
	err := r.Record(ctx, ticketID, correlationID, domain.ActionTriageFailed, map[string]any{
		"error": runErr.Error(),
	})
	if err != nil {
		r.logger.Error("failed to record TRIAGE_FAILED audit",
			zap.String("ticket_id", ticketID),
			zap.String("correlation_id", correlationID),
			zap.NamedError("run_error", runErr),
			zap.Error(err),
		)
	}
}
