package customer

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested customer does not exist.
var ErrNotFound = errors.New("customer not found")

// Customer holds the delivery contact data snapshotted onto orders.
type Customer struct {
	ID              string
	Email           string
	PhoneNumber     string
	DeliveryAddress string
}

// Repository defines read operations for customers.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Customer, error)
}
