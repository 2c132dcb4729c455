package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/pourcart/internal/domain/shipment"
)

const (
	createShipmentSQL = `INSERT INTO shipments
		(id, order_id, carrier, tracking_number, estimated_delivery)
		VALUES ($1, $2, $3, $4, $5)`

	getShipmentByOrderSQL = `SELECT id, order_id, carrier, tracking_number, estimated_delivery
		FROM shipments WHERE order_id = $1`
)

// ErrShipmentNotFound is returned when an order has no shipment row.
var ErrShipmentNotFound = errors.New("shipment not found")

var _ shipment.Repository = (*ShipmentRepository)(nil)

// ShipmentRepository implements shipment.Repository backed by PostgreSQL.
type ShipmentRepository struct {
	pool *pgxpool.Pool
}

// NewShipmentRepository returns a ShipmentRepository that uses the given pool.
func NewShipmentRepository(pool *pgxpool.Pool) *ShipmentRepository {
	return &ShipmentRepository{pool: pool}
}

// Create persists a new shipment record.
func (r *ShipmentRepository) Create(ctx context.Context, s *shipment.Shipment) error {
	_, err := querier(ctx, r.pool).Exec(ctx, createShipmentSQL,
		s.ID, s.OrderID, s.Carrier, s.TrackingNumber, s.EstimatedDelivery,
	)
	if err != nil {
		return errors.Wrapf(err, "create shipment %q", s.ID)
	}
	return nil
}

// GetByOrderID returns the shipment created for the given order.
func (r *ShipmentRepository) GetByOrderID(ctx context.Context, orderID string) (*shipment.Shipment, error) {
	var s shipment.Shipment
	err := querier(ctx, r.pool).QueryRow(ctx, getShipmentByOrderSQL, orderID).Scan(
		&s.ID, &s.OrderID, &s.Carrier, &s.TrackingNumber, &s.EstimatedDelivery,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrShipmentNotFound
		}
		return nil, errors.Wrapf(err, "get shipment for order %q", orderID)
	}
	return &s, nil
}
