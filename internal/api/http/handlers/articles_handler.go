package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-triage/internal/api/dto"
	"github.com/spec-kit/ticket-triage/internal/service"
	apperrors "github.com/spec-kit/ticket-triage/pkg/util/errorutil"
)

// ArticlesHandler manages knowledge-base endpoints.
type ArticlesHandler struct {
	service *service.ArticleService
}

// NewArticlesHandler constructs handler.
func NewArticlesHandler(articleService *service.ArticleService) *ArticlesHandler {
	return &ArticlesHandler{service: articleService}
}

// CreateArticle POST /kb/articles.
func (h *ArticlesHandler) CreateArticle(c *fiber.Ctx) error {
	var req dto.CreateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.Body == "" {
		return apperrors.NewValidationError("title and body required", nil)
	}
	article, err := h.service.CreateArticle(c.UserContext(), service.ArticleInput{
		Title: req.Title,
		Body:  req.Body,
		Tags:  req.Tags,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": articleResponse(article)})
}

// ListArticles GET /kb/articles.
func (h *ArticlesHandler) ListArticles(c *fiber.Ctx) error {
	articles, err := h.service.ListArticles(c.UserContext(), parseIntQuery(c, "limit", 20), parseIntQuery(c, "offset", 0))
	if err != nil {
		return err
	}
	items := make([]dto.ArticleResponse, 0, len(articles))
	for i := range articles {
		items = append(items, articleResponse(&articles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetArticle GET /kb/articles/:id.
func (h *ArticlesHandler) GetArticle(c *fiber.Ctx) error {
	article, err := h.service.GetArticle(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponse(article)})
}

// PublishArticle POST /kb/articles/:id/publish.
func (h *ArticlesHandler) PublishArticle(c *fiber.Ctx) error {
	article, err := h.service.PublishArticle(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponse(article)})
}
