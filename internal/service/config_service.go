package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/repository"
	apperrors "github.com/spec-kit/ticket-triage/pkg/util/errorutil"
)

// ConfigService exposes the operator-tunable triage settings. Reading
// falls back to documented defaults when no record exists; only an
// explicit operator update persists a record.
type ConfigService struct {
	configs repository.TriageConfigRepository
}

// NewConfigService constructs the service.
func NewConfigService(configs repository.TriageConfigRepository) *ConfigService {
	return &ConfigService{configs: configs}
}

// GetConfig returns the stored config, or in-memory defaults when absent.
func (s *ConfigService) GetConfig(ctx context.Context) (domain.TriageConfig, error) {
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DefaultTriageConfig(), nil
		}
		return domain.TriageConfig{}, apperrors.MapError(err)
	}
	return *cfg, nil
}

// UpdateConfig validates and persists operator settings.
func (s *ConfigService) UpdateConfig(ctx context.Context, cfg domain.TriageConfig) (domain.TriageConfig, error) {
	if !cfg.Validate() {
		return domain.TriageConfig{}, apperrors.NewValidationError(
			"confidence_threshold must be in [0,1] and sla_hours >= 1", nil)
	}
	if err := s.configs.Upsert(ctx, &cfg); err != nil {
		return domain.TriageConfig{}, apperrors.MapError(err)
	}
	return cfg, nil
}
