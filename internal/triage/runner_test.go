package triage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
	apperrors "github.com/spec-kit/ticket-triage/pkg/util/errorutil"
)

func newTestRunner(fx *pipelineFixture) *Runner {
	return NewRunner(fx.pipeline, fx.metrics, zap.NewNop())
}

func TestRunner_RejectsBlankInput(t *testing.T) {
	t.Parallel()

	fx := newPipelineFixture()
	runner := newTestRunner(fx)

	err := runner.StartTriage(context.Background(), "", uuid.NewString())
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)

	err = runner.StartTriage(context.Background(), uuid.NewString(), "  ")
	require.Error(t, err)
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestRunner_ExecutesInBackground(t *testing.T) {
	t.Parallel()

	fx := newPipelineFixture()
	runner := newTestRunner(fx)
	ticketID := fx.seedTicket("Package missing", "My package tracking shows no delivery")

	err := runner.StartTriage(context.Background(), ticketID, uuid.NewString())
	require.NoError(t, err)

	runner.Shutdown(time.Second)

	assert.Equal(t, domain.TicketStatusWaitingHuman, fx.tickets.get(ticketID).Status)
	assert.Equal(t, int64(1), fx.metrics.TriageCount("started"))
	assert.Equal(t, int64(1), fx.metrics.TriageCount("assigned_to_human"))
}

func TestRunner_SurvivesCallerCancellation(t *testing.T) {
	t.Parallel()

	fx := newPipelineFixture()
	runner := newTestRunner(fx)
	ticketID := fx.seedTicket("Login broken", "I get an error on every login")

	ctx, cancel := context.WithCancel(context.Background())
	err := runner.StartTriage(ctx, ticketID, uuid.NewString())
	cancel()
	require.NoError(t, err)

	runner.Shutdown(time.Second)
	assert.Equal(t, domain.TicketStatusWaitingHuman, fx.tickets.get(ticketID).Status)
}

func TestRunner_PipelineFailureNotReturnedToCaller(t *testing.T) {
	t.Parallel()

	fx := newPipelineFixture()
	runner := newTestRunner(fx)
	missingID := uuid.NewString()

	err := runner.StartTriage(context.Background(), missingID, uuid.NewString())
	require.NoError(t, err, "submission must not surface pipeline failures")

	runner.Shutdown(time.Second)
	assert.Equal(t, int64(1), fx.metrics.TriageCount("failed"))
	require.NotNil(t, fx.audits.find(domain.ActionTriageFailed))
}

func TestRunner_RejectsAfterShutdown(t *testing.T) {
	t.Parallel()

	fx := newPipelineFixture()
	runner := newTestRunner(fx)
	runner.Shutdown(time.Second)

	err := runner.StartTriage(context.Background(), uuid.NewString(), uuid.NewString())
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "CONFLICT", domainErr.Code)
}
