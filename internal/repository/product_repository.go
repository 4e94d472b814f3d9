package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/storefront/backoffice/internal/domain"
)

// ProductFilter captures catalog search parameters. Nil fields do not filter.
type ProductFilter struct {
	Name     *string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// ProductRepository encapsulates catalog persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository instantiates repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (name, price)
        VALUES ($1, $2::text::numeric)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		product.Name,
		product.Price.String(),
	).Scan(&product.ID, &product.CreatedAt)
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	const query = `
        SELECT id, name, price::text, created_at
        FROM products WHERE id=$1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	products, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrNotFound
	}
	return &products[0], nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	base := `SELECT id, name, price::text, created_at FROM products`
	clauses, args := buildProductFilter(filter)
	query := fmt.Sprintf(`%s WHERE %s ORDER BY name ASC, id ASC`, base, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

// buildProductFilter renders the AND-composed WHERE clauses for filter.
func buildProductFilter(filter ProductFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Name != nil && *filter.Name != "" {
		args = append(args, "%"+escapeLike(*filter.Name)+"%")
		clauses = append(clauses, fmt.Sprintf(`name ILIKE $%d ESCAPE '\'`, len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, filter.MinPrice.String())
		clauses = append(clauses, fmt.Sprintf("price >= $%d::text::numeric", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, filter.MaxPrice.String())
		clauses = append(clauses, fmt.Sprintf("price <= $%d::text::numeric", len(args)))
	}
	return clauses, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var result []domain.Product
	for rows.Next() {
		var (
			product domain.Product
			price   string
		)
		if err := rows.Scan(&product.ID, &product.Name, &price, &product.CreatedAt); err != nil {
			return nil, err
		}
		parsed, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("parse price of product %s: %w", product.ID, err)
		}
		product.Price = parsed
		result = append(result, product)
	}
	return result, rows.Err()
}
