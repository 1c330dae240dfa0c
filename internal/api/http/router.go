package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-triage/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Tickets  *handlers.TicketsHandler
	Articles *handlers.ArticlesHandler
	Admin    *handlers.AdminHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	tickets := app.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/replies", cfg.Tickets.AddReply)
	tickets.Post("/:id/assign", cfg.Tickets.AssignTicket)
	tickets.Post("/:id/triage", cfg.Tickets.TriggerTriage)
	tickets.Get("/:id/suggestion", cfg.Tickets.GetSuggestion)
	tickets.Get("/:id/audit", cfg.Tickets.GetAuditTrail)

	kb := app.Group("/kb/articles")
	kb.Post("", cfg.Articles.CreateArticle)
	kb.Get("", cfg.Articles.ListArticles)
	kb.Get("/:id", cfg.Articles.GetArticle)
	kb.Post("/:id/publish", cfg.Articles.PublishArticle)

	admin := app.Group("/admin")
	admin.Get("/triage-config", cfg.Admin.GetTriageConfig)
	admin.Put("/triage-config", cfg.Admin.UpdateTriageConfig)
}
