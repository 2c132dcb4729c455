package shipment

import (
	"context"
	"time"
)

// DefaultCarrier is used for every shipment until carrier selection exists.
const DefaultCarrier = "default-carrier"

// DeliveryEstimate is added to the settlement time to produce the
// estimated delivery date.
const DeliveryEstimate = 24 * time.Hour

// Shipment is created once per order at settlement time.
type Shipment struct {
	ID                string
	OrderID           string
	Carrier           string
	TrackingNumber    string
	EstimatedDelivery time.Time
}

// TrackingNumber derives the deterministic tracking number for an order.
func TrackingNumber(customerID, orderID string) string {
	return customerID + "-" + orderID
}

// Repository defines persistence for shipments.
type Repository interface {
	Create(ctx context.Context, s *Shipment) error
	GetByOrderID(ctx context.Context, orderID string) (*Shipment, error)
}
