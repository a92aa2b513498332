package cart

import (
	"context"
	"errors"
	"fmt"

	domain "order_engine/internal/domain/cart"
	"order_engine/internal/domain/product"
	"order_engine/internal/domain/repository"
	"order_engine/pkg/logger"
)

// Service maintains each customer's working set of intended purchases.
// Stock is deliberately not checked here; a cart may exceed what is
// currently available and the conflict is resolved at checkout.
type Service struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	log      logger.Logger
}

func NewService(carts repository.CartRepository, products repository.ProductRepository, log logger.Logger) *Service {
	return &Service{carts: carts, products: products, log: log}
}

// AddLine puts quantity units of a product into the cart, summing with
// an existing line for the same product.
func (s *Service) AddLine(ctx context.Context, customerID, productID string, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return fmt.Errorf("add line: %w", err)
	}

	line, err := domain.NewLine(productID, quantity)
	if err != nil {
		return err
	}
	if existing, err := s.carts.FindLine(ctx, customerID, productID); err == nil {
		line.Quantity += existing.Quantity
		line.AddedAt = existing.AddedAt
	} else if !errors.Is(err, domain.ErrLineNotFound) {
		return fmt.Errorf("add line: %w", err)
	}

	return s.carts.UpsertLine(ctx, customerID, line)
}

// SetLineQuantity replaces a line's quantity. Zero removes the line;
// negative quantities are rejected.
func (s *Service) SetLineQuantity(ctx context.Context, customerID, productID string, quantity int) error {
	if quantity < 0 {
		return domain.ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.carts.DeleteLine(ctx, customerID, productID)
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return fmt.Errorf("set line quantity: %w", err)
	}

	line, err := domain.NewLine(productID, quantity)
	if err != nil {
		return err
	}
	if existing, err := s.carts.FindLine(ctx, customerID, productID); err == nil {
		line.AddedAt = existing.AddedAt
	}
	return s.carts.UpsertLine(ctx, customerID, line)
}

func (s *Service) RemoveLine(ctx context.Context, customerID, productID string) error {
	return s.carts.DeleteLine(ctx, customerID, productID)
}

// View joins cart lines with live product data. A line whose product
// has disappeared comes back with Missing set instead of being
// silently dropped, so the UI can tell the customer to prune it. The
// total is advisory only; checkout recomputes it.
func (s *Service) View(ctx context.Context, customerID string) (domain.View, error) {
	lines, err := s.carts.FindLines(ctx, customerID)
	if err != nil {
		return domain.View{}, fmt.Errorf("view cart: %w", err)
	}

	view := domain.View{CustomerID: customerID, Lines: make([]domain.ViewLine, 0, len(lines))}
	for _, l := range lines {
		p, err := s.products.FindByID(ctx, l.ProductID)
		if errors.Is(err, product.ErrNotFound) {
			view.Lines = append(view.Lines, domain.ViewLine{
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				Missing:   true,
			})
			continue
		}
		if err != nil {
			return domain.View{}, fmt.Errorf("view cart: %w", err)
		}

		view.Lines = append(view.Lines, domain.ViewLine{
			ProductID:  p.ID,
			Name:       p.Name,
			Quantity:   l.Quantity,
			PriceCents: p.PriceCents,
			InStock:    p.StockQuantity,
		})
		view.TotalCents += int64(l.Quantity) * p.PriceCents
	}
	return view, nil
}
