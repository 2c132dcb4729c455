package credit

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNoLedger is returned when a customer has no store credit row.
var ErrNoLedger = errors.New("no store credit for customer")

// Validity is how long issued credit remains usable. Topping up an
// existing balance resets the expiry to now plus this duration.
const Validity = 90 * 24 * time.Hour

// StoreCredit is the single per-customer credit ledger row. Amount never
// goes negative, and ExpiresAt is non-nil exactly when Amount is positive.
type StoreCredit struct {
	ID         string
	CustomerID string
	Amount     decimal.Decimal
	ExpiresAt  *time.Time
}

// Apply reduces payable by the lesser of the balance and payable itself,
// returning the updated row and the amount applied. When the balance
// reaches exactly zero the expiry is cleared.
func (c StoreCredit) Apply(payable decimal.Decimal) (StoreCredit, decimal.Decimal) {
	applied := decimal.Min(c.Amount, payable)
	c.Amount = c.Amount.Sub(applied)
	if c.Amount.IsZero() {
		c.ExpiresAt = nil
	}
	return c, applied
}

// Issue adds amount to the balance and resets the expiry to now+Validity
// regardless of the previous expiry.
func (c StoreCredit) Issue(amount decimal.Decimal, now time.Time) StoreCredit {
	expiry := now.Add(Validity)
	c.Amount = c.Amount.Add(amount)
	c.ExpiresAt = &expiry
	return c
}

// Expired reports whether the row's expiry has passed. A zero balance has
// no expiry and is never expired.
func (c StoreCredit) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// Repository defines persistence for store credit rows. GetForUpdate must
// take an exclusive lock on the row for the rest of the surrounding
// transaction, so concurrent settlements and cancellations for the same
// customer serialize on the ledger.
type Repository interface {
	Get(ctx context.Context, customerID string) (*StoreCredit, error)
	GetForUpdate(ctx context.Context, customerID string) (*StoreCredit, error)
	Create(ctx context.Context, c *StoreCredit) error
	Update(ctx context.Context, c *StoreCredit) error
}
