package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/storefront/backoffice/internal/domain"
	"github.com/storefront/backoffice/internal/persistence"
)

// SaleRepository persists sales together with their line items.
type SaleRepository interface {
	// Create writes the sale and all of its items atomically.
	Create(ctx context.Context, sale *domain.Sale) error
	GetByID(ctx context.Context, id string) (*domain.Sale, error)
	// ListBySaleDate returns sales with from <= sale_date <= to, oldest first.
	ListBySaleDate(ctx context.Context, from, to time.Time) ([]domain.Sale, error)
}

type saleRepository struct {
	pool *pgxpool.Pool
}

// NewSaleRepository instantiates repository.
func NewSaleRepository(pool *pgxpool.Pool) SaleRepository {
	return &saleRepository{pool: pool}
}

func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	return persistence.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		return insertSale(ctx, tx, sale)
	})
}

func insertSale(ctx context.Context, tx pgx.Tx, sale *domain.Sale) error {
	const saleInsert = `
        INSERT INTO sales (customer_id, total_amount, sale_date)
        VALUES ($1, $2::text::numeric, $3)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, saleInsert,
		sale.CustomerID,
		sale.TotalAmount.String(),
		sale.SaleDate,
	).Scan(&sale.ID, &sale.CreatedAt); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	const itemInsert = `
        INSERT INTO sale_items (sale_id, position, product_id, quantity, unit_price)
        VALUES ($1, $2, $3, $4, $5::text::numeric)`
	batch := &pgx.Batch{}
	for i, item := range sale.Items {
		batch.Queue(itemInsert, sale.ID, i, item.ProductID, item.Quantity, item.UnitPrice.String())
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert sale items: %w", err)
	}
	return nil
}

const saleSelect = `
        SELECT s.id, s.customer_id, s.total_amount::text, s.sale_date, s.created_at,
               i.product_id, i.quantity, i.unit_price::text
        FROM sales s
        JOIN sale_items i ON i.sale_id = s.id`

func (r *saleRepository) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	rows, err := r.pool.Query(ctx, saleSelect+` WHERE s.id=$1 ORDER BY i.position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sales, err := scanSales(rows)
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return nil, ErrNotFound
	}
	return &sales[0], nil
}

func (r *saleRepository) ListBySaleDate(ctx context.Context, from, to time.Time) ([]domain.Sale, error) {
	rows, err := r.pool.Query(ctx,
		saleSelect+` WHERE s.sale_date BETWEEN $1 AND $2 ORDER BY s.sale_date, s.id, i.position`,
		from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSales(rows)
}

// scanSales folds one row per item into sales. Rows of a sale must be adjacent.
func scanSales(rows pgx.Rows) ([]domain.Sale, error) {
	var result []domain.Sale
	for rows.Next() {
		var (
			sale      domain.Sale
			item      domain.SaleItem
			total     string
			unitPrice string
		)
		if err := rows.Scan(
			&sale.ID,
			&sale.CustomerID,
			&total,
			&sale.SaleDate,
			&sale.CreatedAt,
			&item.ProductID,
			&item.Quantity,
			&unitPrice,
		); err != nil {
			return nil, err
		}

		var err error
		if item.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
			return nil, fmt.Errorf("parse unit price of sale %s: %w", sale.ID, err)
		}

		if n := len(result); n > 0 && result[n-1].ID == sale.ID {
			result[n-1].Items = append(result[n-1].Items, item)
			continue
		}
		if sale.TotalAmount, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("parse total of sale %s: %w", sale.ID, err)
		}
		sale.Items = []domain.SaleItem{item}
		result = append(result, sale)
	}
	return result, rows.Err()
}
