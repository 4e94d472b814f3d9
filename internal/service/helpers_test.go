package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/backoffice/internal/config"
	"github.com/storefront/backoffice/internal/domain"
	"github.com/storefront/backoffice/internal/events"
	"github.com/storefront/backoffice/internal/repository"
	apperrors "github.com/storefront/backoffice/pkg/util/errorutil"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) record(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	store    *repository.MemoryStore
	recorder *eventRecorder
	auth     *AuthService
	catalog  *CatalogService
	ledger   *LedgerService
	queries  *SalesQueryService
	now      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repository.NewMemoryStore()
	dispatcher := events.NewInMemoryDispatcher()
	recorder := &eventRecorder{}
	dispatcher.SubscribeAll(recorder.record)

	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            bcrypt.MinCost,
	}}
	authService, err := NewAuthService(cfg, AuthDependencies{CustomerRepo: store.Customers(), Dispatcher: dispatcher})
	require.NoError(t, err)

	now := time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC)
	return &testEnv{
		store:    store,
		recorder: recorder,
		auth:     authService,
		catalog:  NewCatalogService(store.Products(), dispatcher),
		ledger: NewLedgerService(LedgerDependencies{
			CustomerRepo: store.Customers(),
			ProductRepo:  store.Products(),
			SaleRepo:     store.Sales(),
			Dispatcher:   dispatcher,
			Now:          func() time.Time { return now },
		}),
		queries: NewSalesQueryService(SalesQueryDependencies{
			CustomerRepo: store.Customers(),
			ProductRepo:  store.Products(),
			SaleRepo:     store.Sales(),
		}),
		now: now,
	}
}

func (e *testEnv) admin(t *testing.T) *domain.Customer {
	t.Helper()
	admin, _, err := e.auth.CreateAdmin(context.Background(), "Admin", "admin@example.com", "admin-pass")
	require.NoError(t, err)
	return admin
}

func (e *testEnv) product(t *testing.T, name, price string) *domain.Product {
	t.Helper()
	product, err := e.catalog.CreateProduct(context.Background(), events.Actor{}, name, decimal.RequireFromString(price))
	require.NoError(t, err)
	return product
}

func requireDomainError(t *testing.T, err error, code string, status int) *apperrors.DomainError {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
	assert.Equal(t, status, domainErr.HTTPStatus)
	return domainErr
}

