package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backoffice/internal/domain"
	apperrors "github.com/storefront/backoffice/pkg/util/errorutil"
)

func newGateApp(tm *TokenManager, gate fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).SendString(domainErr.Message)
		},
	})
	app.Get("/", NewAuthMiddleware(tm).Authenticate, gate, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusTeapot)
		}
		return c.SendString(principal.CustomerID)
	})
	return app
}

func TestGate(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	customerToken, _, err := tm.GenerateToken("cust-1", domain.RoleCustomer)
	require.NoError(t, err)
	adminToken, _, err := tm.GenerateToken("admin-1", domain.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name       string
		gate       fiber.Handler
		header     string
		wantStatus int
	}{
		{"no header", RequireAnyRole(), "", http.StatusUnauthorized},
		{"wrong scheme", RequireAnyRole(), "Basic " + customerToken, http.StatusUnauthorized},
		{"bad token", RequireAnyRole(), "Bearer nope", http.StatusUnauthorized},
		{"any role customer", RequireAnyRole(), "Bearer " + customerToken, http.StatusOK},
		{"lowercase scheme", RequireAnyRole(), "bearer " + customerToken, http.StatusOK},
		{"admin gate customer", RequireRole(domain.RoleAdmin), "Bearer " + customerToken, http.StatusForbidden},
		{"admin gate admin", RequireRole(domain.RoleAdmin), "Bearer " + adminToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newGateApp(tm, tt.gate)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestRequireRoleWithoutPrincipal(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	app.Get("/", RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
