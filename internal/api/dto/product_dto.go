package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/storefront/backoffice/internal/domain"
	apperrors "github.com/storefront/backoffice/pkg/util/errorutil"
)

// CreateProductRequest payload. Fields other than name and price are ignored.
type CreateProductRequest struct {
	Name  string           `json:"name" validate:"required"`
	Price *decimal.Decimal `json:"price" validate:"required"`
}

// Validate checks required fields and the price bounds.
func (r CreateProductRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if r.Price.LessThan(domain.MinProductPrice) {
		return apperrors.NewValidationError("price must be at least 1", map[string]any{"price": "min"})
	}
	if r.Price.GreaterThan(domain.MaxProductPrice) {
		return apperrors.NewValidationError("price must be at most "+domain.MaxProductPrice.String(), map[string]any{"price": "max"})
	}
	return nil
}

// ProductResponse is the public view of a product.
type ProductResponse struct {
	ID    string      `json:"id,omitempty"`
	Name  string      `json:"name"`
	Price json.Number `json:"price"`
}

// CreateProductResponse is returned on successful creation.
type CreateProductResponse struct {
	Message string          `json:"message"`
	Product ProductResponse `json:"product"`
}

// NewProductResponse maps a product.
func NewProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{ID: p.ID, Name: p.Name, Price: Money(p.Price)}
}

// Money renders an amount as a JSON number.
func Money(amount decimal.Decimal) json.Number {
	return json.Number(amount.String())
}
