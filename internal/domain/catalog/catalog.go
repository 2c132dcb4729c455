package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested food item does not exist.
var ErrNotFound = errors.New("food item not found")

// FoodItem represents a catalog entry available for ordering. Prices are
// treated as immutable for the duration of an order.
type FoodItem struct {
	ID            string
	Title         string
	Description   string
	BasePrice     decimal.Decimal
	PricePerLiter decimal.Decimal
}

// Repository defines read operations for the food catalog.
type Repository interface {
	List(ctx context.Context) ([]FoodItem, error)
	GetByID(ctx context.Context, id string) (*FoodItem, error)
	GetByIDs(ctx context.Context, ids []string) ([]FoodItem, error)
}
