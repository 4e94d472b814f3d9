package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backoffice/internal/domain"
	"github.com/storefront/backoffice/internal/events"
	"github.com/storefront/backoffice/internal/repository"
	apperrors "github.com/storefront/backoffice/pkg/util/errorutil"
)

func TestCreateProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := events.Actor{CustomerID: "admin-1"}

	product, err := env.catalog.CreateProduct(ctx, actor, " Desk ", decimal.RequireFromString("199.99"))
	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "Desk", product.Name)
	require.Len(t, env.recorder.events, 1)
	assert.Equal(t, events.EventProductCreated, env.recorder.events[0].Type)
	assert.Equal(t, "admin-1", env.recorder.events[0].Actor.CustomerID)

	tests := map[string]struct {
		name  string
		price string
	}{
		"empty name":     {"  ", "10"},
		"below minimum":  {"Cheap", "0.99"},
		"zero":           {"Free", "0"},
		"three decimals": {"Precise", "10.005"},
		"above maximum":  {"Yacht", "10000000000"},
	}
	for label, tt := range tests {
		t.Run(label, func(t *testing.T) {
			_, err := env.catalog.CreateProduct(ctx, actor, tt.name, decimal.RequireFromString(tt.price))
			requireDomainError(t, err, apperrors.CodeValidationFailed, http.StatusBadRequest)
		})
	}

	_, err = env.catalog.CreateProduct(ctx, actor, "Minimum", decimal.NewFromInt(1))
	assert.NoError(t, err)
	_, err = env.catalog.CreateProduct(ctx, actor, "Maximum", domain.MaxProductPrice)
	assert.NoError(t, err)
}

func TestListProducts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.ListProducts(ctx, repository.ProductFilter{})
	notFound := requireDomainError(t, err, apperrors.CodeNotFound, http.StatusNotFound)
	assert.Equal(t, "No products found", notFound.Message)

	env.product(t, "Red Chair", "50")
	env.product(t, "Blue Chair", "75")
	env.product(t, "Table", "300")

	name := "chair"
	maxPrice := decimal.RequireFromString("60")
	got, err := env.catalog.ListProducts(ctx, repository.ProductFilter{Name: &name, MaxPrice: &maxPrice})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Red Chair", got[0].Name)

	minPrice := decimal.RequireFromString("1000")
	_, err = env.catalog.ListProducts(ctx, repository.ProductFilter{MinPrice: &minPrice})
	requireDomainError(t, err, apperrors.CodeNotFound, http.StatusNotFound)

	negative := decimal.RequireFromString("-1")
	_, err = env.catalog.ListProducts(ctx, repository.ProductFilter{MinPrice: &negative})
	requireDomainError(t, err, apperrors.CodeValidationFailed, http.StatusBadRequest)
}
