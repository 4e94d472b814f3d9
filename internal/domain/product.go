package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Price bounds for a catalog entry. The upper bound is the largest value the
// products.price column (NUMERIC(12,2)) holds.
var (
	MinProductPrice = decimal.NewFromInt(1)
	MaxProductPrice = decimal.RequireFromString("9999999999.99")
)

// Product is a catalog entry.
type Product struct {
	ID        string
	Name      string
	Price     decimal.Decimal
	CreatedAt time.Time
}
