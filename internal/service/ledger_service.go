package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront/backoffice/internal/domain"
	"github.com/storefront/backoffice/internal/events"
	"github.com/storefront/backoffice/internal/repository"
	apperrors "github.com/storefront/backoffice/pkg/util/errorutil"
)

// LedgerService validates and records sales.
type LedgerService struct {
	customers  repository.CustomerRepository
	products   repository.ProductRepository
	sales      repository.SaleRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// LedgerDependencies bundles repositories for the ledger service.
type LedgerDependencies struct {
	CustomerRepo repository.CustomerRepository
	ProductRepo  repository.ProductRepository
	SaleRepo     repository.SaleRepository
	Dispatcher   events.Dispatcher
	// Now defaults to time.Now.
	Now func() time.Time
}

// SaleLineInput is one requested line of a sale.
type SaleLineInput struct {
	ProductID string
	Quantity  int
}

// SaleCreateInput describes a sale request. SaleDate defaults to now.
type SaleCreateInput struct {
	Items    []SaleLineInput
	SaleDate *time.Time
}

// NewLedgerService constructs the service.
func NewLedgerService(deps LedgerDependencies) *LedgerService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &LedgerService{
		customers:  deps.CustomerRepo,
		products:   deps.ProductRepo,
		sales:      deps.SaleRepo,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

// CreateSale records a sale bought by customerID. Every product is resolved
// before anything is written; the total is the sum of resolved price times
// quantity and is stored as-is.
func (s *LedgerService) CreateSale(ctx context.Context, customerID string, input SaleCreateInput) (*domain.SaleDetail, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewCustomerNotFound(customerID)
		}
		return nil, apperrors.NewInternalError(err)
	}

	if err := validateSaleItems(input.Items); err != nil {
		return nil, err
	}

	total := decimal.Zero
	items := make([]domain.SaleItem, 0, len(input.Items))
	for _, line := range input.Items {
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NewProductNotFound(line.ProductID)
			}
			return nil, apperrors.NewInternalError(err)
		}
		item := domain.SaleItem{ProductID: product.ID, Quantity: line.Quantity, UnitPrice: product.Price}
		total = total.Add(item.Subtotal())
		items = append(items, item)
	}
	if total.GreaterThan(domain.MaxSaleTotal) {
		return nil, apperrors.NewValidationError("sale total must be at most "+domain.MaxSaleTotal.String(),
			map[string]any{"totalAmount": total.String()})
	}

	saleDate := s.now()
	if input.SaleDate != nil {
		saleDate = *input.SaleDate
	}

	sale := &domain.Sale{
		CustomerID:  customer.ID,
		Items:       items,
		TotalAmount: total,
		SaleDate:    saleDate,
	}
	if err := s.sales.Create(ctx, sale); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	stored, err := s.sales.GetByID(ctx, sale.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	detail, err := newSaleResolver(s.customers, s.products).detail(ctx, *stored)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventSaleCreated,
		EntityID: sale.ID,
		Actor:    events.Actor{CustomerID: customer.ID, Role: customer.Role},
		Payload: events.SaleCreatedPayload{
			CustomerID:  customer.ID,
			ItemCount:   len(items),
			TotalAmount: total,
			SaleDate:    saleDate,
		},
	})
	return detail, nil
}

func validateSaleItems(items []SaleLineInput) error {
	if len(items) == 0 {
		return apperrors.NewValidationError("Products array is required", nil)
	}
	for i, line := range items {
		if line.ProductID == "" {
			return apperrors.NewValidationError(fmt.Sprintf("products[%d].productId is required", i), nil)
		}
		if line.Quantity < 1 {
			return apperrors.NewValidationError(fmt.Sprintf("products[%d].quantity must be at least 1", i),
				map[string]any{"productId": line.ProductID})
		}
		if line.Quantity > domain.MaxSaleQuantity {
			return apperrors.NewValidationError(fmt.Sprintf("products[%d].quantity must be at most %d", i, domain.MaxSaleQuantity),
				map[string]any{"productId": line.ProductID})
		}
	}
	return nil
}
