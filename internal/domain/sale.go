package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Storage limits of a sale: sale_items.quantity is INTEGER and
// sales.total_amount is NUMERIC(14,2).
const MaxSaleQuantity = math.MaxInt32

var MaxSaleTotal = decimal.RequireFromString("999999999999.99")

// Sale is an immutable record of one customer buying one or more products.
type Sale struct {
	ID          string
	CustomerID  string
	Items       []SaleItem
	TotalAmount decimal.Decimal
	SaleDate    time.Time
	CreatedAt   time.Time
}

// SaleItem is a single line of a sale. UnitPrice is the product price observed
// when the sale was created.
type SaleItem struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal returns UnitPrice multiplied by Quantity.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SaleDetail is a sale with its customer and products resolved to their
// current attributes.
type SaleDetail struct {
	Sale
	Customer *Customer
	Lines    []SaleLine
}

// SaleLine pairs a sale item with the resolved product.
type SaleLine struct {
	Product   *Product
	Quantity  int
	UnitPrice decimal.Decimal
}
