package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/storefront/backoffice/internal/api/dto"
	"github.com/storefront/backoffice/internal/auth"
	"github.com/storefront/backoffice/internal/events"
	"github.com/storefront/backoffice/internal/repository"
	"github.com/storefront/backoffice/internal/service"
	apperrors "github.com/storefront/backoffice/pkg/util/errorutil"
)

// ProductsHandler exposes catalog endpoints.
type ProductsHandler struct {
	catalog *service.CatalogService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(catalog *service.CatalogService) *ProductsHandler {
	return &ProductsHandler{catalog: catalog}
}

// Create handles POST /products/create.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Unauthorized")
	}
	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	actor := events.Actor{CustomerID: principal.CustomerID, Role: principal.Role}
	product, err := h.catalog.CreateProduct(c.UserContext(), actor, req.Name, *req.Price)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.CreateProductResponse{
		Message: "Product created successfully",
		Product: dto.NewProductResponse(product),
	})
}

// List handles GET /products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	filter, err := parseProductQuery(c)
	if err != nil {
		return err
	}
	products, err := h.catalog.ListProducts(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, dto.NewProductResponse(&products[i]))
	}
	return c.JSON(items)
}

func parseProductQuery(c *fiber.Ctx) (repository.ProductFilter, error) {
	var filter repository.ProductFilter
	if name := c.Query("name"); name != "" {
		filter.Name = &name
	}
	minPrice, err := queryDecimal(c, "minPrice")
	if err != nil {
		return filter, err
	}
	maxPrice, err := queryDecimal(c, "maxPrice")
	if err != nil {
		return filter, err
	}
	filter.MinPrice = minPrice
	filter.MaxPrice = maxPrice
	return filter, nil
}

func queryDecimal(c *fiber.Ctx, key string) (*decimal.Decimal, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, apperrors.NewValidationError(key+" must be a number", map[string]any{key: raw})
	}
	return &value, nil
}
