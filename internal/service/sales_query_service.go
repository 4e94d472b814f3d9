package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront/backoffice/internal/domain"
	"github.com/storefront/backoffice/internal/repository"
	apperrors "github.com/storefront/backoffice/pkg/util/errorutil"
)

// SalesQueryService serves read-side sale lookups.
type SalesQueryService struct {
	customers repository.CustomerRepository
	products  repository.ProductRepository
	sales     repository.SaleRepository
	location  *time.Location
}

// SalesQueryDependencies bundles repositories for the query service.
type SalesQueryDependencies struct {
	CustomerRepo repository.CustomerRepository
	ProductRepo  repository.ProductRepository
	SaleRepo     repository.SaleRepository
	// Location sets calendar month boundaries; nil means UTC.
	Location *time.Location
}

// MonthlySummary aggregates the sales of one calendar month.
type MonthlySummary struct {
	Year      int
	Month     time.Month
	SaleCount int
	Revenue   decimal.Decimal
}

// NewSalesQueryService constructs the service.
func NewSalesQueryService(deps SalesQueryDependencies) *SalesQueryService {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &SalesQueryService{
		customers: deps.CustomerRepo,
		products:  deps.ProductRepo,
		sales:     deps.SaleRepo,
		location:  loc,
	}
}

// MonthRange returns the first and last instant of the calendar month.
func MonthRange(year, month int, loc *time.Location) (time.Time, time.Time, error) {
	if year < 1 || month < 1 || month > 12 {
		return time.Time{}, time.Time{}, apperrors.NewValidationError("Valid year and month (1-12) are required.", nil)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end, nil
}

// GetSalesByMonth returns the month's sales with customers and products
// resolved, or NOT_FOUND when there are none.
func (s *SalesQueryService) GetSalesByMonth(ctx context.Context, year, month int) ([]domain.SaleDetail, error) {
	sales, err := s.salesInMonth(ctx, year, month)
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return nil, apperrors.NewNotFound("No sales found", nil)
	}

	resolver := newSaleResolver(s.customers, s.products)
	result := make([]domain.SaleDetail, 0, len(sales))
	for _, sale := range sales {
		detail, err := resolver.detail(ctx, sale)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		result = append(result, *detail)
	}
	return result, nil
}

// SummarizeMonth counts the month's sales and adds up their totals.
func (s *SalesQueryService) SummarizeMonth(ctx context.Context, year, month int) (MonthlySummary, error) {
	sales, err := s.salesInMonth(ctx, year, month)
	if err != nil {
		return MonthlySummary{}, err
	}
	summary := MonthlySummary{Year: year, Month: time.Month(month), SaleCount: len(sales), Revenue: decimal.Zero}
	for _, sale := range sales {
		summary.Revenue = summary.Revenue.Add(sale.TotalAmount)
	}
	return summary, nil
}

// Location returns the zone used for month boundaries.
func (s *SalesQueryService) Location() *time.Location {
	return s.location
}

func (s *SalesQueryService) salesInMonth(ctx context.Context, year, month int) ([]domain.Sale, error) {
	from, to, err := MonthRange(year, month, s.location)
	if err != nil {
		return nil, err
	}
	sales, err := s.sales.ListBySaleDate(ctx, from, to)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return sales, nil
}
