package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Payment records a charge made for an order. Created once at settlement
// time and immutable afterwards.
type Payment struct {
	ID            string
	OrderID       string
	CustomerID    string
	TransactionID string
	Amount        decimal.Decimal
	Status        string
	CreatedAt     time.Time
}

// Charge is the gateway's view of a completed charge.
type Charge struct {
	TransactionID string
	Status        string
}

// GatewayError indicates the payment provider rejected or failed a charge.
// The settlement transaction it occurred in must be rolled back; the
// caller may retry the whole settlement from scratch.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway: %v", e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// Gateway charges a tokenized payment source.
type Gateway interface {
	Charge(ctx context.Context, token string, amount decimal.Decimal, currency string) (*Charge, error)
}

// Repository defines persistence for payments.
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	ListByCustomer(ctx context.Context, customerID string) ([]Payment, error)
}
