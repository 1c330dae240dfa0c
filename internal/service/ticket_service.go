package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/repository"
	apperrors "github.com/spec-kit/ticket-triage/pkg/util/errorutil"
)

// TriageStarter schedules background triage runs.
type TriageStarter interface {
	StartTriage(ctx context.Context, ticketID, correlationID string) error
}

// TicketService coordinates ticket workflows around the triage pipeline.
type TicketService struct {
	tickets     repository.TicketRepository
	replies     repository.TicketReplyRepository
	suggestions repository.SuggestionRepository
	audits      repository.AuditLogRepository
	runner      TriageStarter
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	ReplyRepo      repository.TicketReplyRepository
	SuggestionRepo repository.SuggestionRepository
	AuditRepo      repository.AuditLogRepository
	Runner         TriageStarter
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	RequesterID string
	Title       string
	Description string
}

// TicketCreateResult is the synchronous response to ticket creation. The
// triage run completes in the background; CorrelationID lets callers find
// its audit trail later.
type TicketCreateResult struct {
	Ticket        *domain.Ticket
	CorrelationID string
}

// TicketDetail aggregates a ticket with its reply thread and latest
// suggestion (nil when no triage run has completed yet).
type TicketDetail struct {
	Ticket     *domain.Ticket
	Replies    []domain.TicketReply
	Suggestion *domain.Suggestion
}

// TicketListFilter describes listing filters.
type TicketListFilter struct {
	RequesterID *string
	AssigneeID  *string
	Statuses    []domain.TicketStatus
	Categories  []domain.TicketCategory
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		replies:     deps.ReplyRepo,
		suggestions: deps.SuggestionRepo,
		audits:      deps.AuditRepo,
		runner:      deps.Runner,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
	}
}

// CreateTicket creates a ticket and fires a background triage run. The
// response never waits on, or surfaces errors from, the pipeline.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*TicketCreateResult, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}
	requesterID := strings.TrimSpace(input.RequesterID)
	if requesterID == "" {
		return nil, apperrors.NewValidationError("requester id required", nil)
	}

	ticket := &domain.Ticket{
		ExternalKey: generateTicketKey(),
		RequesterID: requesterID,
		Title:       title,
		Description: description,
		Category:    domain.CategoryOther,
		Status:      domain.TicketStatusOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	correlationID := uuid.NewString()

	if err := s.audits.Create(ctx, &domain.AuditLog{
		TicketID:      ticket.ID,
		CorrelationID: correlationID,
		Actor:         domain.ActorUser,
		Action:        domain.ActionTicketCreated,
		Metadata: map[string]any{
			"requester_id": requesterID,
			"title":        title,
		},
	}); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:          events.EventTicketCreated,
		TicketID:      ticket.ID,
		CorrelationID: correlationID,
		Payload: events.TicketCreatedPayload{
			RequesterID: requesterID,
			Title:       title,
		},
	})

	if err := s.runner.StartTriage(ctx, ticket.ID, correlationID); err != nil {
		// the ticket exists; triage can be re-triggered manually
		s.logger.Error("failed to schedule triage run",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err),
		)
	}

	return &TicketCreateResult{Ticket: ticket, CorrelationID: correlationID}, nil
}

// TriggerTriage schedules a fresh triage run for an existing ticket and
// returns its correlation id. A new run overwrites the ticket's current
// suggestion reference.
func (s *TicketService) TriggerTriage(ctx context.Context, ticketID string) (string, error) {
	correlationID := uuid.NewString()
	if err := s.runner.StartTriage(ctx, ticketID, correlationID); err != nil {
		return "", err
	}
	return correlationID, nil
}

// GetTicket fetches a ticket with its reply thread and latest suggestion.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*TicketDetail, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	replies, err := s.replies.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	detail := &TicketDetail{Ticket: ticket, Replies: replies}
	if ticket.SuggestionID != nil {
		// the ticket's reference wins over recency when runs raced
		suggestion, err := s.suggestions.GetByID(ctx, *ticket.SuggestionID)
		if err == nil {
			detail.Suggestion = suggestion
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
	}
	return detail, nil
}

// ListTickets returns paginated tickets.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		RequesterID: filter.RequesterID,
		AssigneeID:  filter.AssigneeID,
		Statuses:    filter.Statuses,
		Categories:  filter.Categories,
		SearchTerm:  filter.SearchTerm,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// AddReply appends a reply to a ticket's thread and audits it.
func (s *TicketService) AddReply(ctx context.Context, ticketID string, authorID *string, content string, isAgent bool) (*domain.TicketReply, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content required", nil)
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	reply := &domain.TicketReply{
		TicketID: ticket.ID,
		AuthorID: authorID,
		Content:  content,
		IsAgent:  isAgent,
	}
	if err := s.replies.Create(ctx, reply); err != nil {
		return nil, apperrors.MapError(err)
	}

	actor := domain.ActorUser
	if isAgent {
		actor = domain.ActorAgent
	}
	if err := s.audits.Create(ctx, &domain.AuditLog{
		TicketID:      ticket.ID,
		CorrelationID: uuid.NewString(),
		Actor:         actor,
		Action:        domain.ActionReplySent,
		Metadata: map[string]any{
			"reply_id": reply.ID,
			"is_agent": isAgent,
		},
	}); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketReplyAdded,
		TicketID: ticket.ID,
		Payload: events.TicketReplyAddedPayload{
			ReplyID:     reply.ID,
			IsAgent:     isAgent,
			BodyPreview: stringPreview(content, 120),
		},
	})
	return reply, nil
}

// AssignTicket sets the ticket's assignee and audits it.
func (s *TicketService) AssignTicket(ctx context.Context, ticketID, assigneeID string) (*domain.Ticket, error) {
	assigneeID = strings.TrimSpace(assigneeID)
	if assigneeID == "" {
		return nil, apperrors.NewValidationError("assignee id required", nil)
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	oldAssignee := ticket.AssigneeID
	ticket.AssigneeID = &assigneeID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.audits.Create(ctx, &domain.AuditLog{
		TicketID:      ticket.ID,
		CorrelationID: uuid.NewString(),
		Actor:         domain.ActorAgent,
		Action:        domain.ActionTicketAssigned,
		Metadata: map[string]any{
			"old_assignee": derefOrEmpty(oldAssignee),
			"new_assignee": assigneeID,
		},
	}); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// GetSuggestion returns the ticket's latest suggestion.
func (s *TicketService) GetSuggestion(ctx context.Context, ticketID string) (*domain.Suggestion, error) {
	suggestion, err := s.suggestions.GetLatestByTicket(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("suggestion", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return suggestion, nil
}

// ListAuditTrail returns the ticket's audit entries in creation order.
func (s *TicketService) ListAuditTrail(ctx context.Context, ticketID string) ([]domain.AuditLog, error) {
	entries, err := s.audits.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// ListAuditByCorrelation returns the entries of one triage run.
func (s *TicketService) ListAuditByCorrelation(ctx context.Context, correlationID string) ([]domain.AuditLog, error) {
	entries, err := s.audits.ListByCorrelation(ctx, correlationID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func generateTicketKey() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func derefOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
