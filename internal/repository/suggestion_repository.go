package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// SuggestionRepository stores triage suggestions.
type SuggestionRepository interface {
	Create(ctx context.Context, suggestion *domain.Suggestion) error
	SetAutoClosed(ctx context.Context, id string, autoClosed bool) error
	GetByID(ctx context.Context, id string) (*domain.Suggestion, error)
	GetLatestByTicket(ctx context.Context, ticketID string) (*domain.Suggestion, error)
}

type suggestionRepository struct {
	pool *pgxpool.Pool
}

// NewSuggestionRepository builds repository.
func NewSuggestionRepository(pool *pgxpool.Pool) SuggestionRepository {
	return &suggestionRepository{pool: pool}
}

func (r *suggestionRepository) Create(ctx context.Context, suggestion *domain.Suggestion) error {
	const query = `
        INSERT INTO suggestions (ticket_id, category, article_ids, draft_reply, confidence, auto_closed, provider, model, prompt_version, latency_ms)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		suggestion.TicketID,
		suggestion.Category,
		suggestion.ArticleIDs,
		suggestion.DraftReply,
		suggestion.Confidence,
		suggestion.AutoClosed,
		suggestion.Provenance.Provider,
		suggestion.Provenance.Model,
		suggestion.Provenance.PromptVersion,
		suggestion.Provenance.LatencyMs,
	).Scan(&suggestion.ID, &suggestion.CreatedAt)
}

func (r *suggestionRepository) SetAutoClosed(ctx context.Context, id string, autoClosed bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE suggestions SET auto_closed=$1 WHERE id=$2`, autoClosed, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *suggestionRepository) GetByID(ctx context.Context, id string) (*domain.Suggestion, error) {
	const query = `
        SELECT id, ticket_id, category, article_ids, draft_reply, confidence, auto_closed,
               provider, model, prompt_version, latency_ms, created_at
        FROM suggestions WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *suggestionRepository) GetLatestByTicket(ctx context.Context, ticketID string) (*domain.Suggestion, error) {
	const query = `
        SELECT id, ticket_id, category, article_ids, draft_reply, confidence, auto_closed,
               provider, model, prompt_version, latency_ms, created_at
        FROM suggestions WHERE ticket_id=$1 ORDER BY created_at DESC LIMIT 1`
	return r.fetchSingle(ctx, query, ticketID)
}

func (r *suggestionRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Suggestion, error) {
	var suggestion domain.Suggestion
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&suggestion.ID,
		&suggestion.TicketID,
		&suggestion.Category,
		&suggestion.ArticleIDs,
		&suggestion.DraftReply,
		&suggestion.Confidence,
		&suggestion.AutoClosed,
		&suggestion.Provenance.Provider,
		&suggestion.Provenance.Model,
		&suggestion.Provenance.PromptVersion,
		&suggestion.Provenance.LatencyMs,
		&suggestion.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &suggestion, nil
}
