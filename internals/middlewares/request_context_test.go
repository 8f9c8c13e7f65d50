package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestContext_DeadlineReachesHandler(t *testing.T) {
	app := fiber.New()
	app.Use(RequestContext(2 * time.Second))

	var (
		hasDeadline bool
		reqID       any
	)
	app.Get("/ping", func(c *fiber.Ctx) error {
		_, hasDeadline = c.UserContext().Deadline()
		reqID = c.Locals("reqid")
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.True(t, hasDeadline)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, resp.Header.Get("X-Request-ID"), reqID)
}

func TestRequestContext_KeepsIncomingID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestContext(time.Second))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-42")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "req-42", resp.Header.Get("X-Request-ID"))
}

func TestRequestContext_ExpiredDeadlineCancels(t *testing.T) {
	app := fiber.New()
	app.Use(RequestContext(time.Nanosecond))

	var ctxErr error
	app.Get("/slow", func(c *fiber.Ctx) error {
		<-c.UserContext().Done()
		ctxErr = c.UserContext().Err()
		return c.SendStatus(fiber.StatusGatewayTimeout)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/slow", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
	assert.ErrorIs(t, ctxErr, context.DeadlineExceeded)
}
