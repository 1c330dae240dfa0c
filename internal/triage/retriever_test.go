package triage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

func publishedArticle(id, tag string) domain.Article {
	return domain.Article{
		ID:     id,
		Title:  "Article " + id,
		Body:   "Body " + id,
		Tags:   []string{tag},
		Status: domain.ArticleStatusPublished,
	}
}

func TestRetriever_TagMatchesOnly(t *testing.T) {
	t.Parallel()

	repo := &mockArticleRepo{articles: []domain.Article{
		publishedArticle("a1", "billing"),
		publishedArticle("a2", "billing"),
		publishedArticle("a3", "shipping"),
	}}
	retriever := NewRetriever(repo, zap.NewNop())

	articles := retriever.Retrieve(context.Background(), "refund please", domain.CategoryBilling)
	assert.Len(t, articles, 2)
	assert.Equal(t, "a1", articles[0].ID)
	assert.Equal(t, "a2", articles[1].ID)
}

func TestRetriever_TextSearchBackfill(t *testing.T) {
	t.Parallel()

	repo := &mockArticleRepo{
		articles: []domain.Article{
			publishedArticle("a1", "billing"),
		},
		searchResults: []domain.Article{
			publishedArticle("a2", "general"),
			publishedArticle("a3", "general"),
		},
	}
	retriever := NewRetriever(repo, zap.NewNop())

	articles := retriever.Retrieve(context.Background(), "refund", domain.CategoryBilling)
	assert.Len(t, articles, 3)
	// tag match stays first, ranked results appended
	assert.Equal(t, "a1", articles[0].ID)
	assert.Equal(t, "a2", articles[1].ID)
	assert.Equal(t, "a3", articles[2].ID)
}

func TestRetriever_DeduplicatesAndCaps(t *testing.T) {
	t.Parallel()

	repo := &mockArticleRepo{
		articles: []domain.Article{
			publishedArticle("a1", "billing"),
		},
		searchResults: []domain.Article{
			publishedArticle("a1", "billing"), // duplicate of the tag match
			publishedArticle("a2", "general"),
			publishedArticle("a3", "general"),
		},
	}
	retriever := NewRetriever(repo, zap.NewNop())

	articles := retriever.Retrieve(context.Background(), "refund", domain.CategoryBilling)
	assert.LessOrEqual(t, len(articles), MaxRetrievedArticles)

	seen := make(map[string]bool)
	for _, article := range articles {
		assert.False(t, seen[article.ID], "duplicate article %s", article.ID)
		seen[article.ID] = true
	}
}

func TestRetriever_SkipsSearchWhenEnoughTagMatches(t *testing.T) {
	t.Parallel()

	repo := &mockArticleRepo{
		articles: []domain.Article{
			publishedArticle("a1", "tech"),
			publishedArticle("a2", "tech"),
		},
		searchErr: errors.New("search must not be called"),
	}
	retriever := NewRetriever(repo, zap.NewNop())

	articles := retriever.Retrieve(context.Background(), "broken login", domain.CategoryTech)
	assert.Len(t, articles, 2)
}

func TestRetriever_DegradesToEmptyOnFailure(t *testing.T) {
	t.Parallel()

	repo := &mockArticleRepo{
		tagErr:    errors.New("kb down"),
		searchErr: errors.New("kb down"),
	}
	retriever := NewRetriever(repo, zap.NewNop())

	articles := retriever.Retrieve(context.Background(), "anything", domain.CategoryOther)
	assert.Empty(t, articles)
}

func TestRetriever_SearchFailureKeepsTagMatches(t *testing.T) {
	t.Parallel()

	repo := &mockArticleRepo{
		articles: []domain.Article{
			publishedArticle("a1", "billing"),
		},
		searchErr: errors.New("search down"),
	}
	retriever := NewRetriever(repo, zap.NewNop())

	articles := retriever.Retrieve(context.Background(), "refund", domain.CategoryBilling)
	assert.Len(t, articles, 1)
	assert.Equal(t, "a1", articles[0].ID)
}
