package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

const triageConfigCacheKey = "triage:config"

// cachedConfig is the Redis wire shape. A present-but-empty marker is
// cached too so a missing row does not hit Postgres on every run.
type cachedConfig struct {
	Exists              bool    `json:"exists"`
	AutoCloseEnabled    bool    `json:"auto_close_enabled"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	SLAHours            int     `json:"sla_hours"`
}

type triageConfigCache struct {
	inner  TriageConfigRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewTriageConfigCache wraps a TriageConfigRepository with a Redis
// read-through cache. Cache failures degrade to pass-through.
func NewTriageConfigCache(inner TriageConfigRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) TriageConfigRepository {
	if client == nil || ttl <= 0 {
		return inner
	}
	return &triageConfigCache{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (c *triageConfigCache) Get(ctx context.Context) (*domain.TriageConfig, error) {
	if raw, err := c.client.Get(ctx, triageConfigCacheKey).Bytes(); err == nil {
		var cached cachedConfig
		if err := json.Unmarshal(raw, &cached); err == nil {
			if !cached.Exists {
				return nil, pgx.ErrNoRows
			}
			return &domain.TriageConfig{
				AutoCloseEnabled:    cached.AutoCloseEnabled,
				ConfidenceThreshold: cached.ConfidenceThreshold,
				SLAHours:            cached.SLAHours,
			}, nil
		}
	} else if err != redis.Nil {
		c.logger.Warn("triage config cache read failed", zap.Error(err))
	}

	cfg, err := c.inner.Get(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.store(ctx, cachedConfig{Exists: false})
		}
		return nil, err
	}
	c.store(ctx, cachedConfig{
		Exists:              true,
		AutoCloseEnabled:    cfg.AutoCloseEnabled,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		SLAHours:            cfg.SLAHours,
	})
	return cfg, nil
}

func (c *triageConfigCache) Upsert(ctx context.Context, cfg *domain.TriageConfig) error {
	if err := c.inner.Upsert(ctx, cfg); err != nil {
		return err
	}
	if err := c.client.Del(ctx, triageConfigCacheKey).Err(); err != nil {
		c.logger.Warn("triage config cache invalidation failed", zap.Error(err))
	}
	return nil
}

func (c *triageConfigCache) store(ctx context.Context, cached cachedConfig) {
	raw, err := json.Marshal(cached)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, triageConfigCacheKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("triage config cache write failed", zap.Error(err))
	}
}
