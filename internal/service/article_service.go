package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/repository"
	apperrors "github.com/spec-kit/ticket-triage/pkg/util/errorutil"
)

// ArticleService manages knowledge-base articles.
type ArticleService struct {
	articles repository.ArticleRepository
}

// ArticleInput describes article create/update payload.
type ArticleInput struct {
	Title string
	Body  string
	Tags  []string
}

// NewArticleService constructs the service.
func NewArticleService(articles repository.ArticleRepository) *ArticleService {
	return &ArticleService{articles: articles}
}

// CreateArticle creates a draft article with normalized tags.
func (s *ArticleService) CreateArticle(ctx context.Context, input ArticleInput) (*domain.Article, error) {
	title := strings.TrimSpace(input.Title)
	body := strings.TrimSpace(input.Body)
	if title == "" || body == "" {
		return nil, apperrors.NewValidationError("title and body required", nil)
	}

	article := &domain.Article{
		Title:  title,
		Body:   body,
		Tags:   domain.NormalizeTags(input.Tags),
		Status: domain.ArticleStatusDraft,
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	return article, nil
}

// PublishArticle moves an article to published status, making it visible
// to the retriever.
func (s *ArticleService) PublishArticle(ctx context.Context, id string) (*domain.Article, error) {
	article, err := s.getArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.Status == domain.ArticleStatusPublished {
		return article, nil
	}
	article.Status = domain.ArticleStatusPublished
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	return article, nil
}

// GetArticle fetches one article.
func (s *ArticleService) GetArticle(ctx context.Context, id string) (*domain.Article, error) {
	return s.getArticle(ctx, id)
}

// ListArticles returns paginated articles.
func (s *ArticleService) ListArticles(ctx context.Context, limit, offset int) ([]domain.Article, error) {
	articles, err := s.articles.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return articles, nil
}

func (s *ArticleService) getArticle(ctx context.Context, id string) (*domain.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("article", map[string]any{"article_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return article, nil
}
