package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-triage/internal/api/dto"
	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/service"
	apperrors "github.com/spec-kit/ticket-triage/pkg/util/errorutil"
)

// AdminHandler manages operator configuration endpoints.
type AdminHandler struct {
	configs *service.ConfigService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(configService *service.ConfigService) *AdminHandler {
	return &AdminHandler{configs: configService}
}

// GetTriageConfig GET /admin/triage-config. Returns defaults when no
// record has been persisted yet.
func (h *AdminHandler) GetTriageConfig(c *fiber.Ctx) error {
	cfg, err := h.configs.GetConfig(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": triageConfigResponse(cfg)})
}

// UpdateTriageConfig PUT /admin/triage-config.
func (h *AdminHandler) UpdateTriageConfig(c *fiber.Ctx) error {
	var req dto.UpdateTriageConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	cfg, err := h.configs.UpdateConfig(c.UserContext(), domain.TriageConfig{
		AutoCloseEnabled:    req.AutoCloseEnabled,
		ConfidenceThreshold: req.ConfidenceThreshold,
		SLAHours:            req.SLAHours,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": triageConfigResponse(cfg)})
}

func triageConfigResponse(cfg domain.TriageConfig) dto.TriageConfigResponse {
	return dto.TriageConfigResponse{
		AutoCloseEnabled:    cfg.AutoCloseEnabled,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		SLAHours:            cfg.SLAHours,
	}
}
