package handlers

import (
	"github.com/spec-kit/ticket-triage/internal/api/dto"
	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/service"
)

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:           ticket.ID,
		ExternalKey:  ticket.ExternalKey,
		RequesterID:  ticket.RequesterID,
		AssigneeID:   ticket.AssigneeID,
		SuggestionID: ticket.SuggestionID,
		Title:        ticket.Title,
		Category:     string(ticket.Category),
		Status:       string(ticket.Status),
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
		ClosedAt:     ticket.ClosedAt,
	}
}

func ticketDetail(detail *service.TicketDetail) dto.TicketDetail {
	out := dto.TicketDetail{
		TicketSummary: ticketSummary(detail.Ticket),
		Description:   detail.Ticket.Description,
		Replies:       make([]dto.ReplyResponse, 0, len(detail.Replies)),
	}
	for i := range detail.Replies {
		out.Replies = append(out.Replies, replyResponse(&detail.Replies[i]))
	}
	if detail.Suggestion != nil {
		summary := suggestionSummary(detail.Suggestion)
		out.Suggestion = &summary
	}
	return out
}

func replyResponse(reply *domain.TicketReply) dto.ReplyResponse {
	return dto.ReplyResponse{
		ID:        reply.ID,
		AuthorID:  reply.AuthorID,
		Content:   reply.Content,
		IsAgent:   reply.IsAgent,
		CreatedAt: reply.CreatedAt,
	}
}

func suggestionSummary(suggestion *domain.Suggestion) dto.SuggestionSummary {
	return dto.SuggestionSummary{
		ID:            suggestion.ID,
		TicketID:      suggestion.TicketID,
		Category:      string(suggestion.Category),
		ArticleIDs:    suggestion.ArticleIDs,
		DraftReply:    suggestion.DraftReply,
		Confidence:    suggestion.Confidence,
		AutoClosed:    suggestion.AutoClosed,
		Provider:      suggestion.Provenance.Provider,
		Model:         suggestion.Provenance.Model,
		PromptVersion: suggestion.Provenance.PromptVersion,
		LatencyMs:     suggestion.Provenance.LatencyMs,
		CreatedAt:     suggestion.CreatedAt,
	}
}

func auditLogEntry(entry *domain.AuditLog) dto.AuditLogEntry {
	return dto.AuditLogEntry{
		ID:            entry.ID,
		TicketID:      entry.TicketID,
		CorrelationID: entry.CorrelationID,
		Actor:         string(entry.Actor),
		Action:        string(entry.Action),
		Metadata:      entry.Metadata,
		CreatedAt:     entry.CreatedAt,
	}
}

func articleResponse(article *domain.Article) dto.ArticleResponse {
	return dto.ArticleResponse{
		ID:        article.ID,
		Title:     article.Title,
		Body:      article.Body,
		Tags:      article.Tags,
		Status:    string(article.Status),
		CreatedAt: article.CreatedAt,
		UpdatedAt: article.UpdatedAt,
	}
}
