package worker

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/storefront/backoffice/internal/domain"
	"github.com/storefront/backoffice/internal/repository"
	"github.com/storefront/backoffice/internal/service"
)

func seededQueries(t *testing.T, saleDates ...time.Time) *service.SalesQueryService {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()
	customer := &domain.Customer{Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin}
	require.NoError(t, store.Customers().Create(ctx, customer))
	product := &domain.Product{Name: "Pen", Price: decimal.RequireFromString("2.25")}
	require.NoError(t, store.Products().Create(ctx, product))

	for _, date := range saleDates {
		require.NoError(t, store.Sales().Create(ctx, &domain.Sale{
			CustomerID:  customer.ID,
			Items:       []domain.SaleItem{{ProductID: product.ID, Quantity: 2, UnitPrice: product.Price}},
			TotalAmount: decimal.RequireFromString("4.50"),
			SaleDate:    date,
		}))
	}
	return service.NewSalesQueryService(service.SalesQueryDependencies{
		CustomerRepo: store.Customers(),
		ProductRepo:  store.Products(),
		SaleRepo:     store.Sales(),
	})
}

func TestMonthlyReportSummarizesPreviousMonth(t *testing.T) {
	queries := seededQueries(t,
		time.Date(2023, 12, 31, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
	)
	core, logs := observer.New(zapcore.InfoLevel)
	job := NewMonthlyReportJob(queries, zap.New(core))
	job.now = func() time.Time { return time.Date(2024, 2, 1, 0, 5, 0, 0, time.UTC) }

	summary, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2024, summary.Year)
	assert.Equal(t, time.January, summary.Month)
	assert.Equal(t, 2, summary.SaleCount)
	assert.True(t, decimal.RequireFromString("9").Equal(summary.Revenue))

	entries := logs.FilterMessage("monthly sales report").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "9.00", entries[0].ContextMap()["revenue"])
}

func TestMonthlyReportCrossesYear(t *testing.T) {
	queries := seededQueries(t, time.Date(2023, 12, 31, 12, 0, 0, 0, time.UTC))
	job := NewMonthlyReportJob(queries, zap.NewNop())
	job.now = func() time.Time { return time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC) }

	summary, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2023, summary.Year)
	assert.Equal(t, time.December, summary.Month)
	assert.Equal(t, 1, summary.SaleCount)
}

func TestStartMonthlyReportScheduler(t *testing.T) {
	job := NewMonthlyReportJob(seededQueries(t), zap.NewNop())

	scheduler, err := StartMonthlyReportScheduler("5 0 1 * *", job)
	require.NoError(t, err)
	assert.Len(t, scheduler.Entries(), 1)
	<-scheduler.Stop().Done()

	_, err = StartMonthlyReportScheduler("not a schedule", job)
	assert.Error(t, err)
}
