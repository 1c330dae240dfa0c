package triage

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// ErrBackendUnavailable signals that an external model backend could not
// serve the request. Callers fall back to the deterministic path.
var ErrBackendUnavailable = errors.New("model backend unavailable")

// BackendStub selects the deterministic classifier/drafter.
const BackendStub = "stub"

// BackendExternal selects the external-model stand-in, which always fails
// over to the deterministic path until a real integration is configured.
const BackendExternal = "external"

// externalClassifier is a stand-in for a hosted model integration. It
// reports unavailable on every call; the fallback wrapper keeps the
// pipeline deterministic.
type externalClassifier struct{}

func (externalClassifier) Classify(context.Context, string) (Classification, error) {
	return Classification{}, ErrBackendUnavailable
}

type externalDrafter struct{}

func (externalDrafter) Draft(context.Context, string, []domain.Article) (Draft, error) {
	return Draft{}, ErrBackendUnavailable
}

// fallbackClassifier tries the primary backend and falls back to the
// deterministic classifier on any error. It never returns an error.
type fallbackClassifier struct {
	primary  Classifier
	fallback *KeywordClassifier
	logger   *zap.Logger
}

func (c *fallbackClassifier) Classify(ctx context.Context, text string) (Classification, error) {
	result, err := c.primary.Classify(ctx, text)
	if err == nil {
		return result, nil
	}
	c.logger.Warn("classifier backend failed; using deterministic fallback", zap.Error(err))
	return c.fallback.Classify(ctx, text)
}

type fallbackDrafter struct {
	primary  Drafter
	fallback *TemplateDrafter
	logger   *zap.Logger
}

func (d *fallbackDrafter) Draft(ctx context.Context, text string, articles []domain.Article) (Draft, error) {
	result, err := d.primary.Draft(ctx, text, articles)
	if err == nil {
		return result, nil
	}
	d.logger.Warn("drafter backend failed; using deterministic fallback", zap.Error(err))
	return d.fallback.Draft(ctx, text, articles)
}

// NewClassifier selects a classifier backend by name. Unknown names map
// to the deterministic stub.
func NewClassifier(backend string, logger *zap.Logger) Classifier {
	if backend == BackendExternal {
		return &fallbackClassifier{
			primary:  externalClassifier{},
			fallback: NewKeywordClassifier(),
			logger:   logger,
		}
	}
	return NewKeywordClassifier()
}

// NewDrafter selects a drafter backend by name.
func NewDrafter(backend string, logger *zap.Logger) Drafter {
	if backend == BackendExternal {
		return &fallbackDrafter{
			primary:  externalDrafter{},
			fallback: NewTemplateDrafter(),
			logger:   logger,
		}
	}
	return NewTemplateDrafter()
}
