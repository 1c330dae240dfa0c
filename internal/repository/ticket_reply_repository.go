package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// TicketReplyRepository stores reply-thread entries.
type TicketReplyRepository interface {
	Create(ctx context.Context, reply *domain.TicketReply) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketReply, error)
}

type ticketReplyRepository struct {
	pool *pgxpool.Pool
}

// NewTicketReplyRepository builds repository.
func NewTicketReplyRepository(pool *pgxpool.Pool) TicketReplyRepository {
	return &ticketReplyRepository{pool: pool}
}

func (r *ticketReplyRepository) Create(ctx context.Context, reply *domain.TicketReply) error {
	const query = `
        INSERT INTO ticket_replies (ticket_id, author_id, content, is_agent)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		reply.TicketID,
		reply.AuthorID,
		reply.Content,
		reply.IsAgent,
	).Scan(&reply.ID, &reply.CreatedAt)
}

func (r *ticketReplyRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketReply, error) {
	const query = `
        SELECT id, ticket_id, author_id, content, is_agent, created_at
        FROM ticket_replies WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketReply
	for rows.Next() {
		var reply domain.TicketReply
		if err := rows.Scan(
			&reply.ID,
			&reply.TicketID,
			&reply.AuthorID,
			&reply.Content,
			&reply.IsAgent,
			&reply.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, reply)
	}
	return result, rows.Err()
}
