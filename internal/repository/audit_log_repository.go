package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// AuditLogRepository stores append-only audit entries.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.AuditLog, error)
	ListByCorrelation(ctx context.Context, correlationID string) ([]domain.AuditLog, error)
}

type auditLogRepository struct {
	pool *pgxpool.Pool
}

// NewAuditLogRepository builds repository.
func NewAuditLogRepository(pool *pgxpool.Pool) AuditLogRepository {
	return &auditLogRepository{pool: pool}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	const query = `
        INSERT INTO audit_logs (ticket_id, correlation_id, actor, action, metadata)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.TicketID,
		entry.CorrelationID,
		entry.Actor,
		entry.Action,
		entry.Metadata,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *auditLogRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.AuditLog, error) {
	const query = `
        SELECT id, ticket_id, correlation_id, actor, action, metadata, created_at
        FROM audit_logs WHERE ticket_id=$1 ORDER BY created_at ASC`
	return r.list(ctx, query, ticketID)
}

func (r *auditLogRepository) ListByCorrelation(ctx context.Context, correlationID string) ([]domain.AuditLog, error) {
	const query = `
        SELECT id, ticket_id, correlation_id, actor, action, metadata, created_at
        FROM audit_logs WHERE correlation_id=$1 ORDER BY created_at ASC`
	return r.list(ctx, query, correlationID)
}

func (r *auditLogRepository) list(ctx context.Context, query string, arg any) ([]domain.AuditLog, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditLog
	for rows.Next() {
		var entry domain.AuditLog
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.CorrelationID,
			&entry.Actor,
			&entry.Action,
			&entry.Metadata,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
