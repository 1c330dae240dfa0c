package triage

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/repository"
)

// mockTicketRepo implements repository.TicketRepository for testing.
type mockTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
	getErr  error
	saveErr error
}

func newMockTicketRepo() *mockTicketRepo {
	return &mockTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (m *mockTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	cp := *ticket
	m.tickets[ticket.ID] = &cp
	return nil
}

func (m *mockTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if _, ok := m.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *ticket
	m.tickets[ticket.ID] = &cp
	return nil
}

func (m *mockTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	ticket, ok := m.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *ticket
	return &cp, nil
}

func (m *mockTicketRepo) ListWithFilter(context.Context, repository.TicketFilter) ([]domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Ticket, 0, len(m.tickets))
	for _, ticket := range m.tickets {
		out = append(out, *ticket)
	}
	return out, nil
}

func (m *mockTicketRepo) get(id string) *domain.Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()
	ticket := m.tickets[id]
	cp := *ticket
	return &cp
}

// mockReplyRepo implements repository.TicketReplyRepository.
type mockReplyRepo struct {
	mu      sync.Mutex
	replies []domain.TicketReply
	saveErr error
}

func (m *mockReplyRepo) Create(_ context.Context, reply *domain.TicketReply) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if reply.ID == "" {
		reply.ID = uuid.NewString()
	}
	m.replies = append(m.replies, *reply)
	return nil
}

func (m *mockReplyRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketReply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.TicketReply
	for _, reply := range m.replies {
		if reply.TicketID == ticketID {
			out = append(out, reply)
		}
	}
	return out, nil
}

// mockSuggestionRepo implements repository.SuggestionRepository.
type mockSuggestionRepo struct {
	mu          sync.Mutex
	suggestions []domain.Suggestion
	saveErr     error
}

func (m *mockSuggestionRepo) Create(_ context.Context, suggestion *domain.Suggestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if suggestion.ID == "" {
		suggestion.ID = uuid.NewString()
	}
	m.suggestions = append(m.suggestions, *suggestion)
	return nil
}

func (m *mockSuggestionRepo) SetAutoClosed(_ context.Context, id string, autoClosed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.suggestions {
		if m.suggestions[i].ID == id {
			m.suggestions[i].AutoClosed = autoClosed
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *mockSuggestionRepo) GetByID(_ context.Context, id string) (*domain.Suggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.suggestions {
		if m.suggestions[i].ID == id {
			cp := m.suggestions[i]
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockSuggestionRepo) GetLatestByTicket(_ context.Context, ticketID string) (*domain.Suggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.suggestions) - 1; i >= 0; i-- {
		if m.suggestions[i].TicketID == ticketID {
			cp := m.suggestions[i]
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockSuggestionRepo) byTicket(ticketID string) []domain.Suggestion {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Suggestion
	for _, suggestion := range m.suggestions {
		if suggestion.TicketID == ticketID {
			out = append(out, suggestion)
		}
	}
	return out
}

// mockArticleRepo implements repository.ArticleRepository.
type mockArticleRepo struct {
	mu        sync.Mutex
	articles  []domain.Article
	tagErr    error
	searchErr error
	// searchResults overrides text search output when set.
	searchResults []domain.Article
}

func (m *mockArticleRepo) Create(_ context.Context, article *domain.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if article.ID == "" {
		article.ID = uuid.NewString()
	}
	m.articles = append(m.articles, *article)
	return nil
}

func (m *mockArticleRepo) Update(_ context.Context, article *domain.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.articles {
		if m.articles[i].ID == article.ID {
			m.articles[i] = *article
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *mockArticleRepo) GetByID(_ context.Context, id string) (*domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.articles {
		if m.articles[i].ID == id {
			cp := m.articles[i]
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockArticleRepo) List(context.Context, int, int) ([]domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Article{}, m.articles...), nil
}

func (m *mockArticleRepo) ListByTagPublished(_ context.Context, tag string, limit int) ([]domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tagErr != nil {
		return nil, m.tagErr
	}
	var out []domain.Article
	for _, article := range m.articles {
		if article.Status != domain.ArticleStatusPublished {
			continue
		}
		for _, candidate := range article.Tags {
			if candidate == tag {
				out = append(out, article)
				break
			}
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *mockArticleRepo) SearchTextPublished(_ context.Context, _ string, limit int) ([]domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	source := m.searchResults
	if source == nil {
		for _, article := range m.articles {
			if article.Status == domain.ArticleStatusPublished {
				source = append(source, article)
			}
		}
	}
	if len(source) > limit {
		source = source[:limit]
	}
	return append([]domain.Article{}, source...), nil
}

// mockConfigRepo implements repository.TriageConfigRepository.
type mockConfigRepo struct {
	mu     sync.Mutex
	cfg    *domain.TriageConfig
	getErr error
}

func (m *mockConfigRepo) Get(context.Context) (*domain.TriageConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.cfg == nil {
		return nil, pgx.ErrNoRows
	}
	cp := *m.cfg
	return &cp, nil
}

func (m *mockConfigRepo) Upsert(_ context.Context, cfg *domain.TriageConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *cfg
	m.cfg = &cp
	return nil
}

// mockAuditRepo implements repository.AuditLogRepository.
type mockAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditLog
	// failOn makes Create fail for one specific action.
	failOn  domain.AuditAction
	failErr error
}

func (m *mockAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil && (m.failOn == "" || m.failOn == entry.Action) {
		return m.failErr
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.AuditLog
	for _, entry := range m.entries {
		if entry.TicketID == ticketID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (m *mockAuditRepo) ListByCorrelation(_ context.Context, correlationID string) ([]domain.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.AuditLog
	for _, entry := range m.entries {
		if entry.CorrelationID == correlationID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (m *mockAuditRepo) actions() []domain.AuditAction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(m.entries))
	for _, entry := range m.entries {
		out = append(out, entry.Action)
	}
	return out
}

func (m *mockAuditRepo) find(action domain.AuditAction) *domain.AuditLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].Action == action {
			cp := m.entries[i]
			return &cp
		}
	}
	return nil
}
