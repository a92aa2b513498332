package memory

import (
	"context"
	"sort"
	"sync"

	"order_engine/internal/domain/order"
)

type OrderRepository struct {
	mu     sync.Mutex
	orders map[string]*order.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]*order.Order)}
}

func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	if o == nil {
		return order.ErrMissingField
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders[o.ID] = clone(o)
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return clone(o), nil
}

func (r *OrderRepository) FindByCustomer(ctx context.Context, customerID string) ([]*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*order.Order
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			out = append(out, clone(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, o *order.Order, expectedVersion int64) error {
	if o == nil {
		return order.ErrMissingField
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[o.ID]
	if !ok {
		return order.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return order.ErrVersionConflict
	}

	stored.Status = o.Status
	stored.History = append([]order.StatusChange(nil), o.History...)
	stored.UpdatedAt = o.UpdatedAt
	stored.Version = expectedVersion + 1
	o.Version = stored.Version
	return nil
}

func (r *OrderRepository) AttachFeedback(ctx context.Context, orderID string, fb *order.Feedback) error {
	if fb == nil {
		return order.ErrMissingField
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[orderID]
	if !ok {
		return order.ErrNotFound
	}
	if stored.Feedback != nil {
		return order.ErrFeedbackExists
	}
	cp := *fb
	stored.Feedback = &cp
	stored.UpdatedAt = cp.SubmittedAt
	return nil
}

// clone deep-copies an order so callers never alias stored state.
func clone(o *order.Order) *order.Order {
	cp := *o
	cp.Lines = append([]order.Line(nil), o.Lines...)
	cp.History = append([]order.StatusChange(nil), o.History...)
	if o.Payment != nil {
		p := *o.Payment
		cp.Payment = &p
	}
	if o.Feedback != nil {
		f := *o.Feedback
		cp.Feedback = &f
	}
	return &cp
}
