package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backoffice/internal/observability"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func readyResponse(t *testing.T, h *HealthHandler) (int, map[string]any) {
	t.Helper()
	app := fiber.New()
	app.Get("/ready", h.Ready)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestReadyAllHealthy(t *testing.T) {
	ok := pingFunc(func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		if !hasDeadline {
			return errors.New("probe without deadline")
		}
		return nil
	})
	h := NewHealthHandler("backoffice", "test", observability.NewMetrics(),
		Dependency{Name: "postgres", Pinger: ok},
		Dependency{Name: "redis", Pinger: ok})

	status, body := readyResponse(t, h)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body["status"])
	deps := body["dependencies"].(map[string]any)
	assert.Equal(t, "ok", deps["postgres"].(map[string]any)["status"])
	assert.Equal(t, "ok", deps["redis"].(map[string]any)["status"])
}

func TestReadyReportsDownDependency(t *testing.T) {
	h := NewHealthHandler("backoffice", "test", nil,
		Dependency{Name: "postgres", Pinger: pingFunc(func(context.Context) error { return nil })},
		Dependency{Name: "redis", Pinger: pingFunc(func(context.Context) error { return errors.New("connection refused") })})

	status, body := readyResponse(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", body["code"])
	details := body["details"].(map[string]any)
	redis := details["redis"].(map[string]any)
	assert.Equal(t, "down", redis["status"])
	assert.Equal(t, "connection refused", redis["error"])
	assert.Equal(t, "ok", details["postgres"].(map[string]any)["status"])
}

func TestReadyWithoutDependencies(t *testing.T) {
	status, body := readyResponse(t, NewHealthHandler("backoffice", "test", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["dependencies"])
}
