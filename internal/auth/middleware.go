package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/storefront/backoffice/internal/domain"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	CustomerID string
	Role       domain.Role
}

// AuthMiddleware validates bearer tokens and records the principal.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate enforces authentication for protected routes.
func (m *AuthMiddleware) Authenticate(c *fiber.Ctx) error {
	claims, err := m.tokens.Verify(bearerToken(c.Get(fiber.HeaderAuthorization)))
	if err != nil {
		return err
	}

	c.Locals(principalKey, &Principal{CustomerID: claims.CustomerID(), Role: claims.Role})
	return c.Next()
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
