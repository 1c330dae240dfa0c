package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/observability"
)

func TestRequestTimeoutBindsHandlerContext(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 5*time.Second)

	var sawDeadline bool
	app.Get("/probe-ctx", func(c *fiber.Ctx) error {
		_, sawDeadline = c.UserContext().Deadline()
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/probe-ctx", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, sawDeadline, "handler context must carry the request deadline")
}

func TestErrorMiddlewareEnvelope(t *testing.T) {
	app := fiber.New()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	RegisterMiddlewares(app, logger, metrics, 0)

	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("kaput")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
