package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront/backoffice/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCustomerRegistered EventType = "customer_registered"
	EventProductCreated     EventType = "product_created"
	EventSaleCreated        EventType = "sale_created"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	CustomerID string      `json:"customer_id,omitempty"`
	Role       domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// CustomerRegisteredPayload payload.
type CustomerRegisteredPayload struct {
	Email string `json:"email"`
}

// ProductCreatedPayload payload.
type ProductCreatedPayload struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// SaleCreatedPayload payload.
type SaleCreatedPayload struct {
	CustomerID  string          `json:"customer_id"`
	ItemCount   int             `json:"item_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	SaleDate    time.Time       `json:"sale_date"`
}
