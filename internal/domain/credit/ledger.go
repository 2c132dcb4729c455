package credit

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger owns the per-customer store credit balance. Apply and Issue are
// read-modify-write sequences with no idempotency key, so callers must
// invoke them exactly once per order and inside a transaction that holds
// the row lock taken by GetForUpdate.
type Ledger struct {
	credits Repository
	now     func() time.Time
}

// NewLedger creates a Ledger over the given repository.
func NewLedger(credits Repository) *Ledger {
	return &Ledger{credits: credits, now: time.Now}
}

// Apply spends available credit against payable. An absent ledger row
// means zero credit and is not an error. It returns the amount applied
// and the remaining payable amount.
func (l *Ledger) Apply(ctx context.Context, customerID string, payable decimal.Decimal) (applied, remaining decimal.Decimal, err error) {
	row, err := l.credits.GetForUpdate(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNoLedger) {
			return decimal.Zero, payable, nil
		}
		return decimal.Zero, payable, errors.Wrap(err, "load store credit")
	}
	if !row.Amount.IsPositive() {
		return decimal.Zero, payable, nil
	}

	updated, applied := row.Apply(payable)
	if err := l.credits.Update(ctx, &updated); err != nil {
		return decimal.Zero, payable, errors.Wrap(err, "update store credit")
	}

	return applied, payable.Sub(applied), nil
}

// Issue adds amount to the customer's balance, creating the ledger row on
// first issuance. The expiry is reset to now+Validity either way.
func (l *Ledger) Issue(ctx context.Context, customerID string, amount decimal.Decimal) (*StoreCredit, error) {
	row, err := l.credits.GetForUpdate(ctx, customerID)
	if err != nil {
		if !errors.Is(err, ErrNoLedger) {
			return nil, errors.Wrap(err, "load store credit")
		}

		created := StoreCredit{
			ID:         uuid.New().String(),
			CustomerID: customerID,
		}.Issue(amount, l.now())
		if err := l.credits.Create(ctx, &created); err != nil {
			return nil, errors.Wrap(err, "create store credit")
		}
		return &created, nil
	}

	updated := row.Issue(amount, l.now())
	if err := l.credits.Update(ctx, &updated); err != nil {
		return nil, errors.Wrap(err, "update store credit")
	}
	return &updated, nil
}

// Balance returns the customer's ledger row. ErrNoLedger when none exists.
func (l *Ledger) Balance(ctx context.Context, customerID string) (*StoreCredit, error) {
	return l.credits.Get(ctx, customerID)
}

// IsExpired reports whether the customer's credit has passed its expiry.
// Expired credit is not zeroed here; spending it is still allowed.
func (l *Ledger) IsExpired(ctx context.Context, customerID string) (bool, error) {
	row, err := l.credits.Get(ctx, customerID)
	if err != nil {
		return false, err
	}
	return row.Expired(l.now()), nil
}
