package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/storefront/backoffice/internal/domain"
	apperrors "github.com/storefront/backoffice/pkg/util/errorutil"
)

// RequireRole admits only principals whose role equals role exactly.
func RequireRole(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return unauthenticated(nil)
		}
		if err := CheckRole(principal.Role, role); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireAnyRole ensures caller is authenticated.
func RequireAnyRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized(unauthenticatedMessage)
		}
		return c.Next()
	}
}
