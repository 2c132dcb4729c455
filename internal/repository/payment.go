package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/pourcart/internal/domain/payment"
)

const (
	createPaymentSQL = `INSERT INTO payments
		(id, order_id, customer_id, transaction_id, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	listPaymentsByCustomerSQL = `SELECT id, order_id, customer_id, transaction_id, amount, status, created_at
		FROM payments WHERE customer_id = $1 ORDER BY created_at DESC`
)

var _ payment.Repository = (*PaymentRepository)(nil)

// PaymentRepository implements payment.Repository backed by PostgreSQL.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository returns a PaymentRepository that uses the given pool.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// Create persists a new payment record.
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	_, err := querier(ctx, r.pool).Exec(ctx, createPaymentSQL,
		p.ID, p.OrderID, p.CustomerID, p.TransactionID, p.Amount, p.Status, p.CreatedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "create payment %q", p.ID)
	}
	return nil
}

// ListByCustomer returns the customer's payments, newest first.
func (r *PaymentRepository) ListByCustomer(ctx context.Context, customerID string) ([]payment.Payment, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, listPaymentsByCustomerSQL, customerID)
	if err != nil {
		return nil, errors.Wrapf(err, "list payments for customer %q", customerID)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (payment.Payment, error) {
		var p payment.Payment
		err := row.Scan(&p.ID, &p.OrderID, &p.CustomerID, &p.TransactionID, &p.Amount, &p.Status, &p.CreatedAt)
		return p, err
	})
}
