package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/storefront/backoffice/internal/api/http/handlers"
	"github.com/storefront/backoffice/internal/auth"
	"github.com/storefront/backoffice/internal/domain"
)

// APIPrefix is the mount point of the versioned API.
const APIPrefix = "/api/v1"

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Customers      *handlers.CustomersHandler
	Products       *handlers.ProductsHandler
	Sales          *handlers.SalesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group(APIPrefix)
	authenticated := cfg.AuthMiddleware.Authenticate
	adminOnly := auth.RequireRole(domain.RoleAdmin)

	customers := api.Group("/customers")
	customers.Post("/create", cfg.Customers.Register)
	customers.Post("/login", cfg.Customers.Login)
	customers.Post("/logout", authenticated, auth.RequireAnyRole(), cfg.Customers.Logout)

	products := api.Group("/products", authenticated)
	products.Post("/create", adminOnly, cfg.Products.Create)
	products.Get("/", auth.RequireAnyRole(), cfg.Products.List)

	sales := api.Group("/sales", authenticated, adminOnly)
	sales.Get("/", cfg.Sales.ListByMonth)
	sales.Post("/create", cfg.Sales.Create)
}
