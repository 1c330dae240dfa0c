package triage

import (
	"context"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/observability"
	apperrors "github.com/spec-kit/ticket-triage/pkg/util/errorutil"
)

// Runner launches triage runs as fire-and-forget background tasks. The
// caller never waits on pipeline completion; run failures are observable
// only via the audit trail, metrics and logs. There is no per-ticket
// mutual exclusion across concurrent runs; the last writer wins.
type Runner struct {
	pipeline *Pipeline
	metrics  *observability.Metrics
	logger   *zap.Logger

	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

// NewRunner constructs the runner.
func NewRunner(pipeline *Pipeline, metrics *observability.Metrics, logger *zap.Logger) *Runner {
	return &Runner{
		pipeline: pipeline,
		metrics:  metrics,
		logger:   logger,
	}
}

// StartTriage validates input and schedules a background triage run. It
// returns immediately; errors are reported only for malformed input or a
// shut-down runner, never for pipeline failures. The run detaches from
// the caller's cancellation.
func (r *Runner) StartTriage(ctx context.Context, ticketID, correlationID string) error {
	if strings.TrimSpace(ticketID) == "" {
		return apperrors.NewValidationError("ticket id required", nil)
	}
	if strings.TrimSpace(correlationID) == "" {
		return apperrors.NewValidationError("correlation id required", nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return apperrors.NewConflict("triage runner shut down", nil)
	}
	r.wg.Add(1)
	go r.run(context.WithoutCancel(ctx), ticketID, correlationID)
	return nil
}

// run is the supervised error sink: pipeline errors and panics end here,
// logged and counted. No automatic retry.
func (r *Runner) run(ctx context.Context, ticketID, correlationID string) {
	defer r.wg.Done()
	defer func() {
		if rec := recover(); rec != nil {
			r.metrics.RecordTriage("failed")
			r.logger.Error("triage run panicked",
				zap.String("ticket_id", ticketID),
				zap.String("correlation_id", correlationID),
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()),
			)
		}
	}()

	r.metrics.RecordTriage("started")
	if err := r.pipeline.Run(ctx, ticketID, correlationID); err != nil {
		r.logger.Error("triage run failed",
			zap.String("ticket_id", ticketID),
			zap.String("correlation_id", correlationID),
			zap.Error(err),
		)
	}
}

// Shutdown stops accepting new runs and waits up to timeout for in-flight
// runs to finish.
func (r *Runner) Shutdown(timeout time.Duration) {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		r.logger.Warn("triage runner shutdown timed out with runs in flight")
	}
}
