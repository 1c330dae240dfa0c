package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/repository"
)

type stubTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
	saveErr error
}

func newStubTicketRepo() *stubTicketRepo {
	return &stubTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (s *stubTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	cp := *ticket
	s.tickets[ticket.ID] = &cp
	return nil
}

func (s *stubTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	if _, ok := s.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *ticket
	s.tickets[ticket.ID] = &cp
	return nil
}

func (s *stubTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *ticket
	return &cp, nil
}

func (s *stubTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Ticket
	for _, ticket := range s.tickets {
		if filter.RequesterID != nil && ticket.RequesterID != *filter.RequesterID {
			continue
		}
		out = append(out, *ticket)
	}
	return out, nil
}

type stubReplyRepo struct {
	mu      sync.Mutex
	replies []domain.TicketReply
}

func (s *stubReplyRepo) Create(_ context.Context, reply *domain.TicketReply) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reply.ID == "" {
		reply.ID = uuid.NewString()
	}
	s.replies = append(s.replies, *reply)
	return nil
}

func (s *stubReplyRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketReply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.TicketReply
	for _, reply := range s.replies {
		if reply.TicketID == ticketID {
			out = append(out, reply)
		}
	}
	return out, nil
}

type stubSuggestionRepo struct {
	mu          sync.Mutex
	suggestions []domain.Suggestion
}

func (s *stubSuggestionRepo) Create(_ context.Context, suggestion *domain.Suggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if suggestion.ID == "" {
		suggestion.ID = uuid.NewString()
	}
	s.suggestions = append(s.suggestions, *suggestion)
	return nil
}

func (s *stubSuggestionRepo) SetAutoClosed(_ context.Context, id string, autoClosed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.suggestions {
		if s.suggestions[i].ID == id {
			s.suggestions[i].AutoClosed = autoClosed
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (s *stubSuggestionRepo) GetByID(_ context.Context, id string) (*domain.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.suggestions {
		if s.suggestions[i].ID == id {
			cp := s.suggestions[i]
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubSuggestionRepo) GetLatestByTicket(_ context.Context, ticketID string) (*domain.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.suggestions) - 1; i >= 0; i-- {
		if s.suggestions[i].TicketID == ticketID {
			cp := s.suggestions[i]
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type stubAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

func (s *stubAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *stubAuditRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.AuditLog
	for _, entry := range s.entries {
		if entry.TicketID == ticketID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (s *stubAuditRepo) ListByCorrelation(_ context.Context, correlationID string) ([]domain.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.AuditLog
	for _, entry := range s.entries {
		if entry.CorrelationID == correlationID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (s *stubAuditRepo) find(action domain.AuditAction) *domain.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].Action == action {
			cp := s.entries[i]
			return &cp
		}
	}
	return nil
}

type stubConfigRepo struct {
	mu  sync.Mutex
	cfg *domain.TriageConfig
}

func (s *stubConfigRepo) Get(context.Context) (*domain.TriageConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg == nil {
		return nil, pgx.ErrNoRows
	}
	cp := *s.cfg
	return &cp, nil
}

func (s *stubConfigRepo) Upsert(_ context.Context, cfg *domain.TriageConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *cfg
	s.cfg = &cp
	return nil
}

// stubTriageStarter records StartTriage calls instead of running anything.
type stubTriageStarter struct {
	mu       sync.Mutex
	startErr error
	calls    []startCall
}

type startCall struct {
	TicketID      string
	CorrelationID string
}

func (s *stubTriageStarter) StartTriage(_ context.Context, ticketID, correlationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startErr != nil {
		return s.startErr
	}
	s.calls = append(s.calls, startCall{TicketID: ticketID, CorrelationID: correlationID})
	return nil
}

func (s *stubTriageStarter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubTriageStarter) lastCall() startCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return startCall{}
	}
	return s.calls[len(s.calls)-1]
}
