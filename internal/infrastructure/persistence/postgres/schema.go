package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the engine's tables when they do not exist yet.
// Called once at startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	const stmt = `
		CREATE TABLE IF NOT EXISTS products (
			id             TEXT PRIMARY KEY,
			name           TEXT NOT NULL,
			price_cents    BIGINT NOT NULL,
			stock_quantity INT NOT NULL CHECK (stock_quantity >= 0),
			status         TEXT NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL,
			updated_at     TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS cart_lines (
			customer_id TEXT NOT NULL,
			product_id  TEXT NOT NULL,
			quantity    INT NOT NULL CHECK (quantity > 0),
			added_at    TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (customer_id, product_id)
		);

		CREATE TABLE IF NOT EXISTS orders (
			id               TEXT PRIMARY KEY,
			customer_id      TEXT NOT NULL,
			lines            JSONB NOT NULL,
			total_cents      BIGINT NOT NULL,
			shipping_address JSONB NOT NULL,
			contact          JSONB NOT NULL,
			payment_method   TEXT NOT NULL,
			payment          JSONB,
			status           TEXT NOT NULL,
			history          JSONB NOT NULL,
			version          BIGINT NOT NULL,
			created_at       TIMESTAMPTZ NOT NULL,
			updated_at       TIMESTAMPTZ NOT NULL,
			feedback         JSONB
		);
		CREATE INDEX IF NOT EXISTS orders_customer_idx ON orders (customer_id, created_at);

		CREATE TABLE IF NOT EXISTS outbox (
			id         BIGSERIAL PRIMARY KEY,
			event_id   TEXT NOT NULL,
			topic      TEXT NOT NULL,
			key        TEXT NOT NULL,
			payload    JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			sent_at    TIMESTAMPTZ
		);
	`
	_, err := pool.Exec(ctx, stmt)
	return err
}
