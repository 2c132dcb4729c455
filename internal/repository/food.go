package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/pourcart/internal/domain/catalog"
)

const (
	listFoodsSQL = `SELECT id, title, description, base_price, price_per_liter
		FROM food_items ORDER BY id`

	getFoodByIDSQL = `SELECT id, title, description, base_price, price_per_liter
		FROM food_items WHERE id = $1`

	getFoodsByIDsSQL = `SELECT id, title, description, base_price, price_per_liter
		FROM food_items WHERE id = ANY($1)`
)

var _ catalog.Repository = (*FoodRepository)(nil)

// FoodRepository implements catalog.Repository backed by PostgreSQL.
type FoodRepository struct {
	pool *pgxpool.Pool
}

// NewFoodRepository returns a FoodRepository that uses the given pool.
func NewFoodRepository(pool *pgxpool.Pool) *FoodRepository {
	return &FoodRepository{pool: pool}
}

// List returns all food items ordered by ID.
func (r *FoodRepository) List(ctx context.Context) ([]catalog.FoodItem, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, listFoodsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list food items")
	}
	return pgx.CollectRows(rows, scanFoodItem)
}

// GetByID returns a single food item by its identifier.
func (r *FoodRepository) GetByID(ctx context.Context, id string) (*catalog.FoodItem, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, getFoodByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get food item %q", id)
	}

	f, err := pgx.CollectExactlyOneRow(rows, scanFoodItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get food item %q", id)
	}
	return &f, nil
}

// GetByIDs returns food items matching any of the given IDs.
func (r *FoodRepository) GetByIDs(ctx context.Context, ids []string) ([]catalog.FoodItem, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, getFoodsByIDsSQL, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get food items by ids")
	}
	return pgx.CollectRows(rows, scanFoodItem)
}

func scanFoodItem(row pgx.CollectableRow) (catalog.FoodItem, error) {
	var f catalog.FoodItem
	err := row.Scan(&f.ID, &f.Title, &f.Description, &f.BasePrice, &f.PricePerLiter)
	return f, err
}
