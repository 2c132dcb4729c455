package pricing

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/pourcart/internal/domain/catalog"
)

// ItemNotFoundError indicates a cart references a food item that does not
// exist in the catalog.
type ItemNotFoundError struct {
	FoodID string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("food item %s not found", e.FoodID)
}

// CartItem is a single (food, quantity) pair from a customer cart.
// Quantity must already be validated as positive by the caller.
type CartItem struct {
	FoodID   string
	Quantity int
}

// Line is a priced cart item. Price is quantity times the catalog unit
// price at quote time.
type Line struct {
	FoodID    string
	Quantity  int
	UnitPrice decimal.Decimal
	Price     decimal.Decimal
}

// Quote holds the priced lines and their subtotal, excluding shipping.
type Quote struct {
	Lines    []Line
	Subtotal decimal.Decimal
}

// Engine prices carts against the food catalog. It performs no writes and
// is safe to retry.
type Engine struct {
	catalog catalog.Repository
}

// NewEngine creates a pricing Engine backed by the given catalog.
func NewEngine(catalog catalog.Repository) *Engine {
	return &Engine{catalog: catalog}
}

// Price resolves every cart item against the catalog in a single batch and
// computes per-line prices and the subtotal. It fails with
// ItemNotFoundError when any food id does not resolve.
func (e *Engine) Price(ctx context.Context, items []CartItem) (*Quote, error) {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.FoodID
	}

	fetched, err := e.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get food items")
	}

	byID := make(map[string]catalog.FoodItem, len(fetched))
	for _, f := range fetched {
		byID[f.ID] = f
	}

	quote := &Quote{
		Lines:    make([]Line, len(items)),
		Subtotal: decimal.Zero,
	}
	for i, item := range items {
		f, ok := byID[item.FoodID]
		if !ok {
			return nil, &ItemNotFoundError{FoodID: item.FoodID}
		}

		price := f.PricePerLiter.Mul(decimal.NewFromInt(int64(item.Quantity)))
		quote.Lines[i] = Line{
			FoodID:    item.FoodID,
			Quantity:  item.Quantity,
			UnitPrice: f.PricePerLiter,
			Price:     price,
		}
		quote.Subtotal = quote.Subtotal.Add(price)
	}

	return quote, nil
}
