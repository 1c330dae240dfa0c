package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// TriageConfigRepository stores the operator-tunable singleton. Get
// returns pgx.ErrNoRows when no row exists; callers fall back to the
// documented defaults without persisting them.
type TriageConfigRepository interface {
	Get(ctx context.Context) (*domain.TriageConfig, error)
	Upsert(ctx context.Context, cfg *domain.TriageConfig) error
}

type triageConfigRepository struct {
	pool *pgxpool.Pool
}

// NewTriageConfigRepository builds repository.
func NewTriageConfigRepository(pool *pgxpool.Pool) TriageConfigRepository {
	return &triageConfigRepository{pool: pool}
}

func (r *triageConfigRepository) Get(ctx context.Context) (*domain.TriageConfig, error) {
	const query = `
        SELECT auto_close_enabled, confidence_threshold, sla_hours, updated_at
        FROM triage_config WHERE id=1`
	var cfg domain.TriageConfig
	if err := r.pool.QueryRow(ctx, query).Scan(
		&cfg.AutoCloseEnabled,
		&cfg.ConfidenceThreshold,
		&cfg.SLAHours,
		&cfg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *triageConfigRepository) Upsert(ctx context.Context, cfg *domain.TriageConfig) error {
	const query = `
        INSERT INTO triage_config (id, auto_close_enabled, confidence_threshold, sla_hours, updated_at)
        VALUES (1,$1,$2,$3,NOW())
        ON CONFLICT (id) DO UPDATE SET
            auto_close_enabled=EXCLUDED.auto_close_enabled,
            confidence_threshold=EXCLUDED.confidence_threshold,
            sla_hours=EXCLUDED.sla_hours,
            updated_at=NOW()
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		cfg.AutoCloseEnabled,
		cfg.ConfidenceThreshold,
		cfg.SLAHours,
	).Scan(&cfg.UpdatedAt)
}
