package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/storefront/backoffice/internal/domain"
	"github.com/storefront/backoffice/internal/events"
	"github.com/storefront/backoffice/internal/repository"
	apperrors "github.com/storefront/backoffice/pkg/util/errorutil"
)

// CatalogService manages products.
type CatalogService struct {
	products   repository.ProductRepository
	dispatcher events.Dispatcher
}

// NewCatalogService constructs the service.
func NewCatalogService(products repository.ProductRepository, dispatcher events.Dispatcher) *CatalogService {
	return &CatalogService{products: products, dispatcher: dispatcher}
}

// CreateProduct adds a product to the catalog. Prices carry at most two
// decimal places and lie within [domain.MinProductPrice, domain.MaxProductPrice].
func (s *CatalogService) CreateProduct(ctx context.Context, actor events.Actor, name string, price decimal.Decimal) (*domain.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if price.LessThan(domain.MinProductPrice) {
		return nil, apperrors.NewValidationError("price must be at least 1", map[string]any{"price": price.String()})
	}
	if price.GreaterThan(domain.MaxProductPrice) {
		return nil, apperrors.NewValidationError("price must be at most "+domain.MaxProductPrice.String(),
			map[string]any{"price": price.String()})
	}
	if !price.Equal(price.Round(2)) {
		return nil, apperrors.NewValidationError("price supports at most two decimal places", map[string]any{"price": price.String()})
	}

	product := &domain.Product{Name: name, Price: price}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventProductCreated,
		EntityID: product.ID,
		Actor:    actor,
		Payload:  events.ProductCreatedPayload{Name: product.Name, Price: product.Price},
	})
	return product, nil
}

// ListProducts returns matching products, or a NOT_FOUND error when nothing matches.
func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	if filter.MinPrice != nil && filter.MinPrice.IsNegative() {
		return nil, apperrors.NewValidationError("minPrice must not be negative", nil)
	}
	if filter.MaxPrice != nil && filter.MaxPrice.IsNegative() {
		return nil, apperrors.NewValidationError("maxPrice must not be negative", nil)
	}

	products, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if len(products) == 0 {
		return nil, apperrors.NewNotFound("No products found", nil)
	}
	return products, nil
}
