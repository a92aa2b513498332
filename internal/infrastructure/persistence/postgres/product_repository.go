package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "order_engine/internal/domain/product"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) db(ctx context.Context) querier {
	return dbFrom(ctx, r.pool)
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	const query = `
		SELECT id, name, price_cents, stock_quantity, status, created_at, updated_at
		FROM products
		WHERE id = $1;
	`
	var p domain.Product
	err := r.db(ctx).QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.PriceCents,
		&p.StockQuantity,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Save inserts or updates catalog data. The conflict branch leaves
// stock_quantity alone: only the ledger moves that column.
func (r *ProductRepository) Save(ctx context.Context, p *domain.Product) error {
	if p == nil {
		return fmt.Errorf("product is nil")
	}

	const query = `
		INSERT INTO products (id, name, price_cents, stock_quantity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			price_cents = EXCLUDED.price_cents,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at;
	`
	_, err := r.db(ctx).Exec(ctx, query,
		p.ID,
		p.Name,
		p.PriceCents,
		p.StockQuantity,
		p.Status,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

// DecrementStock performs the check-and-decrement as one conditional
// UPDATE. The affected-row count tells us whether the reservation won;
// a miss is classified by re-reading the row.
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}

	const query = `
		UPDATE products
		SET stock_quantity = stock_quantity - $2, updated_at = now()
		WHERE id = $1 AND status = $3 AND stock_quantity >= $2;
	`
	tag, err := r.db(ctx).Exec(ctx, query, id, quantity, domain.StatusActive)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	p, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.Active() {
		return domain.ErrInactive
	}
	return domain.ErrInsufficientStock
}

func (r *ProductRepository) IncrementStock(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}

	const query = `
		UPDATE products
		SET stock_quantity = stock_quantity + $2, updated_at = now()
		WHERE id = $1;
	`
	tag, err := r.db(ctx).Exec(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
