package dto

import (
	"encoding/json"
	"time"

	"github.com/storefront/backoffice/internal/domain"
)

// SaleLineRequest is one product line of a sale.
type SaleLineRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1,max=2147483647"`
}

// CreateSaleRequest payload. CustomerID is accepted for compatibility; the
// buyer is always the authenticated caller.
type CreateSaleRequest struct {
	CustomerID string            `json:"customerId"`
	Products   []SaleLineRequest `json:"products" validate:"required,min=1,dive"`
	SaleDate   *time.Time        `json:"saleDate"`
}

// Validate checks that at least one well-formed line is present.
func (r CreateSaleRequest) Validate() error {
	return validateStruct(r)
}

// SaleCustomerResponse is the customer embedded in a sale.
type SaleCustomerResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// SaleProductResponse is the product embedded in a sale line.
type SaleProductResponse struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Price json.Number `json:"price"`
}

// SaleLineResponse is one line of a sale.
type SaleLineResponse struct {
	Product   *SaleProductResponse `json:"product"`
	Quantity  int                  `json:"quantity"`
	UnitPrice json.Number          `json:"unitPrice"`
}

// SaleResponse is a sale with its references resolved.
type SaleResponse struct {
	ID          string                `json:"id"`
	Customer    *SaleCustomerResponse `json:"customer"`
	Products    []SaleLineResponse    `json:"products"`
	TotalAmount json.Number           `json:"totalAmount"`
	SaleDate    time.Time             `json:"saleDate"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// NewSaleResponse maps a resolved sale. The customer's password digest is
// never part of the response.
func NewSaleResponse(detail *domain.SaleDetail) SaleResponse {
	resp := SaleResponse{
		ID:          detail.ID,
		Products:    make([]SaleLineResponse, 0, len(detail.Lines)),
		TotalAmount: Money(detail.TotalAmount),
		SaleDate:    detail.SaleDate,
		CreatedAt:   detail.CreatedAt,
	}
	if c := detail.Customer; c != nil {
		resp.Customer = &SaleCustomerResponse{
			ID:        c.ID,
			Name:      c.Name,
			Email:     c.Email,
			Role:      c.Role,
			CreatedAt: c.CreatedAt,
		}
	}
	for _, line := range detail.Lines {
		item := SaleLineResponse{Quantity: line.Quantity, UnitPrice: Money(line.UnitPrice)}
		if p := line.Product; p != nil {
			item.Product = &SaleProductResponse{ID: p.ID, Name: p.Name, Price: Money(p.Price)}
		}
		resp.Products = append(resp.Products, item)
	}
	return resp
}
