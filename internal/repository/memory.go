package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backoffice/internal/domain"
)

// MemoryStore keeps customers, products and sales in process memory. It
// backs development runs without POSTGRES_DSN and the service tests.
type MemoryStore struct {
	mu        sync.RWMutex
	now       func() time.Time
	customers map[string]domain.Customer
	products  map[string]domain.Product
	sales     map[string]domain.Sale
	// saleFailure, when set, makes the next sale insert fail before anything is stored.
	saleFailure error
}

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:       time.Now,
		customers: make(map[string]domain.Customer),
		products:  make(map[string]domain.Product),
		sales:     make(map[string]domain.Sale),
	}
}

// Customers exposes the store as a CustomerRepository.
func (m *MemoryStore) Customers() CustomerRepository { return memoryCustomers{m} }

// Products exposes the store as a ProductRepository.
func (m *MemoryStore) Products() ProductRepository { return memoryProducts{m} }

// Sales exposes the store as a SaleRepository.
func (m *MemoryStore) Sales() SaleRepository { return memorySales{m} }

// FailNextSale makes the next sale insert return err.
func (m *MemoryStore) FailNextSale(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saleFailure = err
}

// SaleCount returns the number of stored sales.
func (m *MemoryStore) SaleCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sales)
}

// SetProductPrice overwrites the price of a stored product.
func (m *MemoryStore) SetProductPrice(id string, price decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product, ok := m.products[id]; ok {
		product.Price = price
		m.products[id] = product
	}
}

type memoryCustomers struct{ m *MemoryStore }

func (r memoryCustomers) Create(ctx context.Context, customer *domain.Customer) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.customers {
		if existing.Email == customer.Email {
			return ErrEmailTaken
		}
	}
	customer.ID = uuid.NewString()
	customer.CreatedAt = r.m.now()
	r.m.customers[customer.ID] = *customer
	return nil
}

func (r memoryCustomers) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	customer, ok := r.m.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &customer, nil
}

func (r memoryCustomers) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for _, customer := range r.m.customers {
		if customer.Email == email {
			found := customer
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r memoryCustomers) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	customer, ok := r.m.customers[id]
	if !ok {
		return ErrNotFound
	}
	customer.Role = role
	r.m.customers[id] = customer
	return nil
}

type memoryProducts struct{ m *MemoryStore }

func (r memoryProducts) Create(ctx context.Context, product *domain.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	product.ID = uuid.NewString()
	product.CreatedAt = r.m.now()
	r.m.products[product.ID] = *product
	return nil
}

func (r memoryProducts) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	product, ok := r.m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &product, nil
}

func (r memoryProducts) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	var result []domain.Product
	for _, product := range r.m.products {
		if filter.Name != nil && !strings.Contains(strings.ToLower(product.Name), strings.ToLower(*filter.Name)) {
			continue
		}
		if filter.MinPrice != nil && product.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && product.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		result = append(result, product)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

type memorySales struct{ m *MemoryStore }

func (r memorySales) Create(ctx context.Context, sale *domain.Sale) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.saleFailure; err != nil {
		r.m.saleFailure = nil
		return err
	}
	if _, ok := r.m.customers[sale.CustomerID]; !ok {
		return ErrNotFound
	}
	for _, item := range sale.Items {
		if _, ok := r.m.products[item.ProductID]; !ok {
			return ErrNotFound
		}
	}
	sale.ID = uuid.NewString()
	sale.CreatedAt = r.m.now()
	stored := *sale
	stored.Items = append([]domain.SaleItem(nil), sale.Items...)
	r.m.sales[sale.ID] = stored
	return nil
}

func (r memorySales) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	sale, ok := r.m.sales[id]
	if !ok {
		return nil, ErrNotFound
	}
	sale.Items = append([]domain.SaleItem(nil), sale.Items...)
	return &sale, nil
}

func (r memorySales) ListBySaleDate(ctx context.Context, from, to time.Time) ([]domain.Sale, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	var result []domain.Sale
	for _, sale := range r.m.sales {
		if sale.SaleDate.Before(from) || sale.SaleDate.After(to) {
			continue
		}
		sale.Items = append([]domain.SaleItem(nil), sale.Items...)
		result = append(result, sale)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].SaleDate.Equal(result[j].SaleDate) {
			return result[i].SaleDate.Before(result[j].SaleDate)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// MemoryIdempotencyStore is an in-process IdempotencyStore.
type MemoryIdempotencyStore struct {
	mu   sync.Mutex
	now  func() time.Time
	keys map[string]time.Time
}

// NewMemoryIdempotencyStore builds an empty store.
func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{now: time.Now, keys: make(map[string]time.Time)}
}

func (s *MemoryIdempotencyStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if expires, ok := s.keys[key]; ok && s.now().Before(expires) {
		return false, nil
	}
	s.keys[key] = s.now().Add(ttl)
	return true, nil
}

func (s *MemoryIdempotencyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}
