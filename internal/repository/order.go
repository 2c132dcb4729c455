package repository

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/pourcart/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders
		(id, customer_id, lines, total_price, status, delivery_address, contact_phone, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	getOrderByIDSQL = `SELECT id, customer_id, lines, total_price, status,
		delivery_address, contact_phone, email, created_at
		FROM orders WHERE id = $1`

	listOrdersByCustomerSQL = `SELECT id, customer_id, lines, total_price, status,
		delivery_address, contact_phone, email, created_at
		FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`

	markOrderCancelledSQL = `UPDATE orders SET status = 'cancelled'
		WHERE id = $1 AND status = 'pending'`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order. The order lines are serialized to JSON for
// storage in the JSONB column.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	linesJSON, err := json.Marshal(o.Lines)
	if err != nil {
		return errors.Wrap(err, "marshal order lines")
	}

	_, err = querier(ctx, r.pool).Exec(ctx, createOrderSQL,
		o.ID, o.CustomerID, linesJSON, o.TotalPrice, string(o.Status),
		o.DeliveryAddress, o.ContactPhone, o.Email, o.CreatedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "create order %q", o.ID)
	}

	return nil
}

// GetByID returns a single order by its identifier.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get order %q", id)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get order %q", id)
	}
	return &o, nil
}

// ListByCustomer returns the customer's orders, newest first.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]order.Order, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, listOrdersByCustomerSQL, customerID)
	if err != nil {
		return nil, errors.Wrapf(err, "list orders for customer %q", customerID)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// MarkCancelled flips a pending order to cancelled. The status check is
// part of the UPDATE itself, so under concurrent cancels only one caller
// observes a transitioned row.
func (r *OrderRepository) MarkCancelled(ctx context.Context, id string) (bool, error) {
	tag, err := querier(ctx, r.pool).Exec(ctx, markOrderCancelledSQL, id)
	if err != nil {
		return false, errors.Wrapf(err, "cancel order %q", id)
	}
	return tag.RowsAffected() == 1, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o         order.Order
		linesJSON []byte
		status    string
	)
	err := row.Scan(
		&o.ID, &o.CustomerID, &linesJSON, &o.TotalPrice, &status,
		&o.DeliveryAddress, &o.ContactPhone, &o.Email, &o.CreatedAt,
	)
	if err != nil {
		return o, err
	}
	if err := json.Unmarshal(linesJSON, &o.Lines); err != nil {
		return o, errors.Wrap(err, "unmarshal order lines")
	}
	o.Status = order.Status(status)
	return o, nil
}
