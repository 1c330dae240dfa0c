package triage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/observability"
	"github.com/spec-kit/ticket-triage/internal/repository"
	apperrors "github.com/spec-kit/ticket-triage/pkg/util/errorutil"
)

// Pipeline orchestrates one triage run: classify, retrieve, draft,
// decide. It owns the run's suggestion creation and ticket mutations.
// Operator config is loaded once per run and passed explicitly; the
// pipeline holds no mutable global state.
type Pipeline struct {
	tickets       repository.TicketRepository
	replies       repository.TicketReplyRepository
	suggestions   repository.SuggestionRepository
	triageConfig  repository.TriageConfigRepository
	classifier    Classifier
	retriever     *Retriever
	drafter       Drafter
	recorder      *Recorder
	dispatcher    events.Dispatcher
	metrics       *observability.Metrics
	logger        *zap.Logger
	promptVersion string
}

// PipelineDependencies bundles collaborators for the pipeline.
type PipelineDependencies struct {
	TicketRepo       repository.TicketRepository
	ReplyRepo        repository.TicketReplyRepository
	SuggestionRepo   repository.SuggestionRepository
	TriageConfigRepo repository.TriageConfigRepository
	Classifier       Classifier
	Retriever        *Retriever
	Drafter          Drafter
	Recorder         *Recorder
	Dispatcher       events.Dispatcher
	Metrics          *observability.Metrics
	Logger           *zap.Logger
	PromptVersion    string
}

// NewPipeline constructs the pipeline.
func NewPipeline(deps PipelineDependencies) *Pipeline {
	return &Pipeline{
		tickets:       deps.TicketRepo,
		replies:       deps.ReplyRepo,
		suggestions:   deps.SuggestionRepo,
		triageConfig:  deps.TriageConfigRepo,
		classifier:    deps.Classifier,
		retriever:     deps.Retriever,
		drafter:       deps.Drafter,
		recorder:      deps.Recorder,
		dispatcher:    deps.Dispatcher,
		metrics:       deps.Metrics,
		logger:        deps.Logger,
		promptVersion: deps.PromptVersion,
	}
}

// Run executes one triage run for the given ticket. Stages run strictly
// sequentially; each stage's audit entry is written before the next stage
// starts. Any error terminates the run after a best-effort TRIAGE_FAILED
// audit entry.
func (p *Pipeline) Run(ctx context.Context, ticketID, correlationID string) error {
	start := time.Now()
	L := p.logger.With(
		zap.String("ticket_id", ticketID),
		zap.String("correlation_id", correlationID),
	)

	ticket, err := p.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return p.fail(ctx, ticketID, correlationID, fmt.Errorf("load ticket: %w", err))
	}

	if ticket.Status != domain.TicketStatusTriaged &&
		!domain.IsValidTransition(ticket.Status, domain.TicketStatusTriaged) {
		return p.fail(ctx, ticketID, correlationID, apperrors.NewConflict(
			"ticket status does not allow triage",
			map[string]any{"status": ticket.Status},
		))
	}

	cfg, err := p.loadConfig(ctx)
	if err != nil {
		return p.fail(ctx, ticketID, correlationID, fmt.Errorf("load triage config: %w", err))
	}

	text := ticket.TriageText()

	classification, err := p.classifier.Classify(ctx, text)
	if err != nil {
		return p.fail(ctx, ticketID, correlationID, fmt.Errorf("classify: %w", err))
	}
	if err := p.recorder.Record(ctx, ticketID, correlationID, domain.ActionAgentClassified, map[string]any{
		"category":   classification.Category,
		"confidence": classification.Confidence,
		"latency_ms": classification.LatencyMs,
	}); err != nil {
		return p.fail(ctx, ticketID, correlationID, err)
	}

	articles := p.retriever.Retrieve(ctx, text, classification.Category)
	if err := p.recorder.Record(ctx, ticketID, correlationID, domain.ActionKBRetrieved, map[string]any{
		"article_count": len(articles),
		"article_ids":   articleIDs(articles),
	}); err != nil {
		return p.fail(ctx, ticketID, correlationID, err)
	}

	draft, err := p.drafter.Draft(ctx, text, articles)
	if err != nil {
		return p.fail(ctx, ticketID, correlationID, fmt.Errorf("draft: %w", err))
	}
	if err := p.recorder.Record(ctx, ticketID, correlationID, domain.ActionDraftGenerated, map[string]any{
		"draft_length":   len(draft.Reply),
		"citation_count": len(draft.Citations),
		"latency_ms":     draft.LatencyMs,
	}); err != nil {
		return p.fail(ctx, ticketID, correlationID, err)
	}

	suggestion := &domain.Suggestion{
		TicketID:   ticket.ID,
		Category:   classification.Category,
		ArticleIDs: draft.Citations,
		DraftReply: draft.Reply,
		Confidence: classification.Confidence,
		Provenance: domain.ModelProvenance{
			Provider:      classification.Provider,
			Model:         classification.Model,
			PromptVersion: p.promptVersion,
			LatencyMs:     time.Since(start).Milliseconds(),
		},
	}
	if err := p.suggestions.Create(ctx, suggestion); err != nil {
		return p.fail(ctx, ticketID, correlationID, fmt.Errorf("persist suggestion: %w", err))
	}

	ticket.SuggestionID = &suggestion.ID
	ticket.Category = classification.Category
	ticket.Status = domain.TicketStatusTriaged
	if err := p.tickets.Update(ctx, ticket); err != nil {
		return p.fail(ctx, ticketID, correlationID, fmt.Errorf("update ticket: %w", err))
	}

	decision := Decide(classification.Confidence, cfg)
	if decision.AutoClose {
		if err := p.autoClose(ctx, ticket, suggestion, correlationID, cfg); err != nil {
			return p.fail(ctx, ticketID, correlationID, err)
		}
		p.metrics.RecordTriage("auto_closed")
		L.Info("triage auto-closed ticket",
			zap.String("category", string(classification.Category)),
			zap.Float64("confidence", classification.Confidence),
		)
	} else {
		if err := p.escalate(ctx, ticket, suggestion, correlationID, decision.Reason); err != nil {
			return p.fail(ctx, ticketID, correlationID, err)
		}
		p.metrics.RecordTriage("assigned_to_human")
		L.Info("triage escalated ticket",
			zap.String("category", string(classification.Category)),
			zap.Float64("confidence", classification.Confidence),
			zap.String("reason", decision.Reason),
		)
	}

	p.publish(ctx, events.Event{
		Type:          events.EventTriageCompleted,
		TicketID:      ticket.ID,
		CorrelationID: correlationID,
		Payload: events.TriageCompletedPayload{
			SuggestionID: suggestion.ID,
			Category:     suggestion.Category,
			Confidence:   suggestion.Confidence,
			AutoClosed:   decision.AutoClose,
		},
	})
	return nil
}

func (p *Pipeline) autoClose(ctx context.Context, ticket *domain.Ticket, suggestion *domain.Suggestion, correlationID string, cfg domain.TriageConfig) error {
	ticket.Status = domain.TicketStatusResolved
	if err := p.tickets.Update(ctx, ticket); err != nil {
		return fmt.Errorf("resolve ticket: %w", err)
	}

	reply := &domain.TicketReply{
		TicketID: ticket.ID,
		Content:  suggestion.DraftReply,
		IsAgent:  true,
	}
	if err := p.replies.Create(ctx, reply); err != nil {
		return fmt.Errorf("append auto-close reply: %w", err)
	}

	if err := p.suggestions.SetAutoClosed(ctx, suggestion.ID, true); err != nil {
		return fmt.Errorf("mark suggestion auto-closed: %w", err)
	}
	suggestion.AutoClosed = true

	if err := p.recorder.Record(ctx, ticket.ID, correlationID, domain.ActionAutoClosed, map[string]any{
		"suggestion_id": suggestion.ID,
		"confidence":    suggestion.Confidence,
		"threshold":     cfg.ConfidenceThreshold,
	}); err != nil {
		return err
	}

	p.publish(ctx, events.Event{
		Type:          events.EventTicketAutoClosed,
		TicketID:      ticket.ID,
		CorrelationID: correlationID,
		Payload: events.TicketAutoClosedPayload{
			SuggestionID: suggestion.ID,
			Confidence:   suggestion.Confidence,
		},
	})
	return nil
}

func (p *Pipeline) escalate(ctx context.Context, ticket *domain.Ticket, suggestion *domain.Suggestion, correlationID, reason string) error {
	ticket.Status = domain.TicketStatusWaitingHuman
	if err := p.tickets.Update(ctx, ticket); err != nil {
		return fmt.Errorf("escalate ticket: %w", err)
	}

	if err := p.recorder.Record(ctx, ticket.ID, correlationID, domain.ActionAssignedToHuman, map[string]any{
		"suggestion_id": suggestion.ID,
		"reason":        reason,
	}); err != nil {
		return err
	}

	p.publish(ctx, events.Event{
		Type:          events.EventTicketEscalated,
		TicketID:      ticket.ID,
		CorrelationID: correlationID,
		Payload: events.TicketEscalatedPayload{
			SuggestionID: suggestion.ID,
			Reason:       reason,
		},
	})
	return nil
}

// loadConfig reads the operator config once per run, applying in-memory
// defaults when no record exists. Defaults are never persisted here.
func (p *Pipeline) loadConfig(ctx context.Context) (domain.TriageConfig, error) {
	cfg, err := p.triageConfig.Get(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DefaultTriageConfig(), nil
		}
		return domain.TriageConfig{}, err
	}
	return *cfg, nil
}

func (p *Pipeline) fail(ctx context.Context, ticketID, correlationID string, runErr error) error {
	p.metrics.RecordTriage("failed")
	p.recorder.RecordFailure(ctx, ticketID, correlationID, runErr)
	return runErr
}

func (p *Pipeline) publish(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = p.dispatcher.Publish(ctx, event)
}

func articleIDs(articles []domain.Article) []string {
	ids := make([]string, 0, len(articles))
	for _, article := range articles {
		ids = append(ids, article.ID)
	}
	return ids
}
