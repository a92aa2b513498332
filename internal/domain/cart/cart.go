package cart

import "time"

// Line is one intended purchase in a customer's cart. A cart holds at
// most one line per product; adding the same product again raises the
// quantity instead of duplicating the line.
type Line struct {
	ProductID string
	Quantity  int
	AddedAt   time.Time
}

func NewLine(productID string, quantity int) (*Line, error) {
	if productID == "" {
		return nil, ErrMissingProduct
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return &Line{
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   time.Now().UTC(),
	}, nil
}

// View is the priced, display-ready projection of a cart. Totals here
// are advisory; checkout recomputes against live prices.
type View struct {
	CustomerID string
	Lines      []ViewLine
	TotalCents int64
}

type ViewLine struct {
	ProductID  string
	Name       string
	Quantity   int
	PriceCents int64
	InStock    int
	// Missing marks a line whose product no longer exists so the UI
	// can prompt the customer to prune it.
	Missing bool
}
