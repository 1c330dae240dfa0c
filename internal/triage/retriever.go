package triage

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/repository"
)

// MaxRetrievedArticles caps how many knowledge-base articles one run
// considers.
const MaxRetrievedArticles = 3

// Retriever looks up candidate knowledge-base articles for a ticket.
// Lookup failures degrade to an empty list; retrieval never blocks the
// rest of the pipeline.
type Retriever struct {
	articles repository.ArticleRepository
	logger   *zap.Logger
}

// NewRetriever builds a retriever over the article repository.
func NewRetriever(articles repository.ArticleRepository, logger *zap.Logger) *Retriever {
	return &Retriever{articles: articles, logger: logger}
}

// Retrieve returns up to MaxRetrievedArticles published articles: first
// those tagged with the predicted category, then, when fewer than two
// matched, relevance-ranked text search results merged in without
// duplicates.
func (r *Retriever) Retrieve(ctx context.Context, text string, category domain.TicketCategory) []domain.Article {
	matched, err := r.articles.ListByTagPublished(ctx, string(category), MaxRetrievedArticles)
	if err != nil {
		r.logger.Warn("kb tag lookup failed", zap.String("category", string(category)), zap.Error(err))
		matched = nil
	}

	if len(matched) >= 2 {
		return truncateArticles(matched)
	}

	ranked, err := r.articles.SearchTextPublished(ctx, text, MaxRetrievedArticles)
	if err != nil {
		r.logger.Warn("kb text search failed", zap.Error(err))
		return truncateArticles(matched)
	}

	seen := make(map[string]bool, len(matched))
	for _, article := range matched {
		seen[article.ID] = true
	}
	for _, article := range ranked {
		if seen[article.ID] {
			continue
		}
		seen[article.ID] = true
		matched = append(matched, article)
	}
	return truncateArticles(matched)
}

func truncateArticles(articles []domain.Article) []domain.Article {
	if len(articles) > MaxRetrievedArticles {
		return articles[:MaxRetrievedArticles]
	}
	return articles
}
