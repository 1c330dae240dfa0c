package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// HealthHandler serves liveness/readiness probes.
type HealthHandler struct {
	ready func(*fiber.Ctx) error
}

// NewHealthHandler constructs handler. readyCheck may be nil.
func NewHealthHandler(readyCheck func(*fiber.Ctx) error) *HealthHandler {
	return &HealthHandler{ready: readyCheck}
}

// Live GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready GET /health/ready.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if h.ready != nil {
		if err := h.ready(c); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
