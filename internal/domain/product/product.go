package product

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Product is catalog data plus the stock counter. The counter is owned
// by the stock ledger; no other component may change StockQuantity.
type Product struct {
	ID            string
	Name          string
	PriceCents    int64
	StockQuantity int
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func New(id, name string, priceCents int64, stockQuantity int) (*Product, error) {
	if id == "" || name == "" {
		return nil, ErrMissingField
	}
	if priceCents <= 0 {
		return nil, ErrInvalidPrice
	}
	if stockQuantity < 0 {
		return nil, ErrInvalidStock
	}

	now := time.Now().UTC()
	return &Product{
		ID:            id,
		Name:          name,
		PriceCents:    priceCents,
		StockQuantity: stockQuantity,
		Status:        StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (p *Product) Active() bool {
	return p.Status == StatusActive
}
