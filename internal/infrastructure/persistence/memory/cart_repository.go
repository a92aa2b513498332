package memory

import (
	"context"
	"sort"
	"sync"

	"order_engine/internal/domain/cart"
)

type CartRepository struct {
	mu    sync.Mutex
	carts map[string]map[string]cart.Line
}

func NewCartRepository() *CartRepository {
	return &CartRepository{carts: make(map[string]map[string]cart.Line)}
}

func (r *CartRepository) FindLines(ctx context.Context, customerID string) ([]cart.Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines := make([]cart.Line, 0, len(r.carts[customerID]))
	for _, l := range r.carts[customerID] {
		lines = append(lines, l)
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].AddedAt.Equal(lines[j].AddedAt) {
			return lines[i].ProductID < lines[j].ProductID
		}
		return lines[i].AddedAt.Before(lines[j].AddedAt)
	})
	return lines, nil
}

func (r *CartRepository) FindLine(ctx context.Context, customerID, productID string) (*cart.Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.carts[customerID][productID]
	if !ok {
		return nil, cart.ErrLineNotFound
	}
	cp := l
	return &cp, nil
}

func (r *CartRepository) UpsertLine(ctx context.Context, customerID string, line *cart.Line) error {
	if line == nil {
		return cart.ErrMissingProduct
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.carts[customerID] == nil {
		r.carts[customerID] = make(map[string]cart.Line)
	}
	r.carts[customerID][line.ProductID] = *line
	return nil
}

func (r *CartRepository) DeleteLine(ctx context.Context, customerID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts[customerID], productID)
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, customerID)
	return nil
}
