package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/pourcart/internal/domain/credit"
)

const (
	getCreditSQL = `SELECT id, customer_id, amount, expires_at
		FROM store_credits WHERE customer_id = $1`

	// FOR UPDATE serializes concurrent settlements and cancellations for
	// the same customer on the single ledger row.
	getCreditForUpdateSQL = `SELECT id, customer_id, amount, expires_at
		FROM store_credits WHERE customer_id = $1 FOR UPDATE`

	createCreditSQL = `INSERT INTO store_credits (id, customer_id, amount, expires_at)
		VALUES ($1, $2, $3, $4)`

	updateCreditSQL = `UPDATE store_credits SET amount = $2, expires_at = $3
		WHERE customer_id = $1`
)

var _ credit.Repository = (*CreditRepository)(nil)

// CreditRepository implements credit.Repository backed by PostgreSQL.
type CreditRepository struct {
	pool *pgxpool.Pool
}

// NewCreditRepository returns a CreditRepository that uses the given pool.
func NewCreditRepository(pool *pgxpool.Pool) *CreditRepository {
	return &CreditRepository{pool: pool}
}

// Get returns the customer's ledger row without locking it.
func (r *CreditRepository) Get(ctx context.Context, customerID string) (*credit.StoreCredit, error) {
	return r.get(ctx, getCreditSQL, customerID)
}

// GetForUpdate returns the customer's ledger row under an exclusive row
// lock held until the surrounding transaction ends.
func (r *CreditRepository) GetForUpdate(ctx context.Context, customerID string) (*credit.StoreCredit, error) {
	return r.get(ctx, getCreditForUpdateSQL, customerID)
}

func (r *CreditRepository) get(ctx context.Context, sql, customerID string) (*credit.StoreCredit, error) {
	var c credit.StoreCredit
	err := querier(ctx, r.pool).QueryRow(ctx, sql, customerID).Scan(
		&c.ID, &c.CustomerID, &c.Amount, &c.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, credit.ErrNoLedger
		}
		return nil, errors.Wrapf(err, "get store credit for customer %q", customerID)
	}
	return &c, nil
}

// Create inserts the customer's first ledger row. The customer_id unique
// constraint guarantees at most one row per customer.
func (r *CreditRepository) Create(ctx context.Context, c *credit.StoreCredit) error {
	_, err := querier(ctx, r.pool).Exec(ctx, createCreditSQL,
		c.ID, c.CustomerID, c.Amount, c.ExpiresAt,
	)
	if err != nil {
		return errors.Wrapf(err, "create store credit for customer %q", c.CustomerID)
	}
	return nil
}

// Update persists a new balance and expiry for an existing ledger row.
func (r *CreditRepository) Update(ctx context.Context, c *credit.StoreCredit) error {
	tag, err := querier(ctx, r.pool).Exec(ctx, updateCreditSQL,
		c.CustomerID, c.Amount, c.ExpiresAt,
	)
	if err != nil {
		return errors.Wrapf(err, "update store credit for customer %q", c.CustomerID)
	}
	if tag.RowsAffected() != 1 {
		return credit.ErrNoLedger
	}
	return nil
}
