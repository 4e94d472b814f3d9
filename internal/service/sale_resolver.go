package service

import (
	"context"
	"errors"

	"github.com/storefront/backoffice/internal/domain"
	"github.com/storefront/backoffice/internal/repository"
)

// saleResolver expands sale references into current customer and product
// records. A resolver memoizes lookups and serves a single call.
type saleResolver struct {
	customers repository.CustomerRepository
	products  repository.ProductRepository

	customerCache map[string]*domain.Customer
	productCache  map[string]*domain.Product
}

func newSaleResolver(customers repository.CustomerRepository, products repository.ProductRepository) *saleResolver {
	return &saleResolver{
		customers:     customers,
		products:      products,
		customerCache: make(map[string]*domain.Customer),
		productCache:  make(map[string]*domain.Product),
	}
}

// detail joins a sale with its references. References that no longer
// resolve are left nil.
func (r *saleResolver) detail(ctx context.Context, sale domain.Sale) (*domain.SaleDetail, error) {
	customer, err := r.customer(ctx, sale.CustomerID)
	if err != nil {
		return nil, err
	}
	lines := make([]domain.SaleLine, 0, len(sale.Items))
	for _, item := range sale.Items {
		product, err := r.product(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, domain.SaleLine{Product: product, Quantity: item.Quantity, UnitPrice: item.UnitPrice})
	}
	return &domain.SaleDetail{Sale: sale, Customer: customer, Lines: lines}, nil
}

func (r *saleResolver) customer(ctx context.Context, id string) (*domain.Customer, error) {
	if cached, ok := r.customerCache[id]; ok {
		return cached, nil
	}
	customer, err := r.customers.GetByID(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	r.customerCache[id] = customer
	return customer, nil
}

func (r *saleResolver) product(ctx context.Context, id string) (*domain.Product, error) {
	if cached, ok := r.productCache[id]; ok {
		return cached, nil
	}
	product, err := r.products.GetByID(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	r.productCache[id] = product
	return product, nil
}
