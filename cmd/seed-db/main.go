package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/pourcart/internal/repository"
)

type foodJSON struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	BasePrice     decimal.Decimal `json:"basePrice"`
	PricePerLiter decimal.Decimal `json:"pricePerLiter"`
}

type customerJSON struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber"`
	DeliveryAddress string `json:"deliveryAddress"`
}

type seedFile struct {
	Foods     []foodJSON     `json:"foods"`
	Customers []customerJSON `json:"customers"`
}

func main() {
	var (
		databaseURL string
		seedPath    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&seedPath, "seed-file", "db/seed/catalog.json", "path to seed JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, seedPath); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, databaseURL, seedPath string) error {
	raw, err := os.ReadFile(seedPath)
	if err != nil {
		return errors.Wrap(err, "read seed file")
	}

	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return errors.Wrap(err, "parse seed file")
	}

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	for _, f := range seed.Foods {
		_, err := pool.Exec(ctx, `INSERT INTO food_items (id, title, description, base_price, price_per_liter)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET
				title = EXCLUDED.title,
				description = EXCLUDED.description,
				base_price = EXCLUDED.base_price,
				price_per_liter = EXCLUDED.price_per_liter`,
			f.ID, f.Title, f.Description, f.BasePrice, f.PricePerLiter,
		)
		if err != nil {
			return errors.Wrapf(err, "seed food %q", f.ID)
		}
	}

	for _, c := range seed.Customers {
		_, err := pool.Exec(ctx, `INSERT INTO customers (id, email, phone_number, delivery_address)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET
				email = EXCLUDED.email,
				phone_number = EXCLUDED.phone_number,
				delivery_address = EXCLUDED.delivery_address`,
			c.ID, c.Email, c.PhoneNumber, c.DeliveryAddress,
		)
		if err != nil {
			return errors.Wrapf(err, "seed customer %q", c.ID)
		}
	}

	slog.Info("seeded database",
		"foods", len(seed.Foods),
		"customers", len(seed.Customers),
	)
	return nil
}
