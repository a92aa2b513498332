package memory

import (
	"context"
	"sync"

	"order_engine/internal/domain/product"
)

// ProductRepository keeps products in a mutex-guarded map. The mutex
// makes DecrementStock a single critical section per repository, which
// is the whole point: concurrent reservations can never jointly push
// stock below zero.
type ProductRepository struct {
	mu       sync.Mutex
	products map[string]*product.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[string]*product.Product)}
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *ProductRepository) Save(ctx context.Context, p *product.Product) error {
	if p == nil {
		return product.ErrMissingField
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *p
	// Stock on an existing row belongs to the ledger, not the catalog.
	if existing, ok := r.products[p.ID]; ok {
		cp.StockQuantity = existing.StockQuantity
	}
	r.products[p.ID] = &cp
	return nil
}

func (r *ProductRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return product.ErrInvalidQuantity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return product.ErrNotFound
	}
	if !p.Active() {
		return product.ErrInactive
	}
	if p.StockQuantity < quantity {
		return product.ErrInsufficientStock
	}
	p.StockQuantity -= quantity
	return nil
}

func (r *ProductRepository) IncrementStock(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return product.ErrInvalidQuantity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return product.ErrNotFound
	}
	p.StockQuantity += quantity
	return nil
}
