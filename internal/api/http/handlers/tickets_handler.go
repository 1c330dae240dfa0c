package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-triage/internal/api/dto"
	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/service"
	apperrors "github.com/spec-kit/ticket-triage/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints, including the triage trigger
// surface.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets. Responds as soon as the ticket is stored;
// the triage run completes in the background.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.RequesterID == "" || req.Title == "" || req.Description == "" {
		return apperrors.NewValidationError("requester_id, title, description required", nil)
	}

	result, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		RequesterID: req.RequesterID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data":           ticketSummary(result.Ticket),
		"correlation_id": result.CorrelationID,
	})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := parseTicketQuery(c)
	tickets, err := h.service.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	detail, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(detail)})
}

// AddReply POST /tickets/:id/replies.
func (h *TicketsHandler) AddReply(c *fiber.Ctx) error {
	var req dto.CreateReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Content) == "" {
		return apperrors.NewValidationError("content required", nil)
	}
	reply, err := h.service.AddReply(c.UserContext(), c.Params("id"), req.AuthorID, req.Content, req.IsAgent)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": replyResponse(reply)})
}

// AssignTicket POST /tickets/:id/assign.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.AssignTicket(c.UserContext(), c.Params("id"), req.AssigneeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// TriggerTriage POST /tickets/:id/triage. Manual re-trigger; responds
// 202 with the new run's correlation id.
func (h *TicketsHandler) TriggerTriage(c *fiber.Ctx) error {
	ticketID := c.Params("id")
	correlationID, err := h.service.TriggerTriage(c.UserContext(), ticketID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"data": dto.TriageStartedResponse{
			TicketID:      ticketID,
			CorrelationID: correlationID,
		},
	})
}

// GetSuggestion GET /tickets/:id/suggestion.
func (h *TicketsHandler) GetSuggestion(c *fiber.Ctx) error {
	suggestion, err := h.service.GetSuggestion(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": suggestionSummary(suggestion)})
}

// GetAuditTrail GET /tickets/:id/audit. An optional correlation_id query
// narrows the trail to a single triage run.
func (h *TicketsHandler) GetAuditTrail(c *fiber.Ctx) error {
	var entries []domain.AuditLog
	var err error
	if correlationID := c.Query("correlation_id"); correlationID != "" {
		entries, err = h.service.ListAuditByCorrelation(c.UserContext(), correlationID)
	} else {
		entries, err = h.service.ListAuditTrail(c.UserContext(), c.Params("id"))
	}
	if err != nil {
		return err
	}
	items := make([]dto.AuditLogEntry, 0, len(entries))
	for i := range entries {
		items = append(items, auditLogEntry(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseTicketQuery(c *fiber.Ctx) service.TicketListFilter {
	filter := service.TicketListFilter{
		Limit:  parseIntQuery(c, "limit", 20),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if requester := c.Query("requester_id"); requester != "" {
		filter.RequesterID = &requester
	}
	if assignee := c.Query("assignee_id"); assignee != "" {
		filter.AssigneeID = &assignee
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	for _, status := range splitQuery(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, domain.TicketStatus(status))
	}
	for _, category := range splitQuery(c.Query("category")) {
		filter.Categories = append(filter.Categories, domain.TicketCategory(category))
	}
	if from := c.Query("created_from"); from != "" {
		if parsed, err := time.Parse(time.RFC3339, from); err == nil {
			filter.CreatedFrom = &parsed
		}
	}
	if to := c.Query("created_to"); to != "" {
		if parsed, err := time.Parse(time.RFC3339, to); err == nil {
			filter.CreatedTo = &parsed
		}
	}
	return filter
}

func parseIntQuery(c *fiber.Ctx, key string, fallback int) int {
	val := c.Query(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitQuery(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
