package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the order lifecycle state. Cancelled is terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
)

// OrderLine is a single priced line of an order, immutable once created.
// Price is quantity times the catalog unit price at settlement time.
type OrderLine struct {
	FoodID   string          `json:"food_id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Order is a settled customer order. TotalPrice is the sum of line prices
// and excludes shipping and applied credit. The delivery fields are a
// snapshot of the customer at creation time, not a live link.
type Order struct {
	ID              string
	CustomerID      string
	Lines           []OrderLine
	TotalPrice      decimal.Decimal
	Status          Status
	DeliveryAddress string
	ContactPhone    string
	Email           string
	CreatedAt       time.Time
}

// Repository defines persistence operations for orders. MarkCancelled
// performs a conditional status flip: it only succeeds when the order is
// still pending at update time, and reports whether a row transitioned.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Order, error)
	MarkCancelled(ctx context.Context, id string) (bool, error)
}
