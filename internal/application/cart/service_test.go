package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "order_engine/internal/domain/cart"
	"order_engine/internal/domain/product"
	"order_engine/internal/infrastructure/persistence/memory"
	"order_engine/pkg/logger"
)

func newService(t *testing.T) (*Service, *memory.CartRepository, *memory.ProductRepository) {
	t.Helper()
	carts := memory.NewCartRepository()
	products := memory.NewProductRepository()
	return NewService(carts, products, logger.NewNop()), carts, products
}

func seedProduct(t *testing.T, products *memory.ProductRepository, id string, priceCents int64, stock int) {
	t.Helper()
	p, err := product.New(id, "Product "+id, priceCents, stock)
	require.NoError(t, err)
	require.NoError(t, products.Save(context.Background(), p))
}

func TestService_AddLine_SumsQuantities(t *testing.T) {
	svc, carts, products := newService(t)
	seedProduct(t, products, "p1", 100, 10)
	ctx := context.Background()

	require.NoError(t, svc.AddLine(ctx, "c1", "p1", 2))
	require.NoError(t, svc.AddLine(ctx, "c1", "p1", 3))

	lines, err := carts.FindLines(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestService_AddLine_Rejections(t *testing.T) {
	svc, _, products := newService(t)
	seedProduct(t, products, "p1", 100, 10)
	ctx := context.Background()

	err := svc.AddLine(ctx, "c1", "p1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	err = svc.AddLine(ctx, "c1", "p1", -1)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	err = svc.AddLine(ctx, "c1", "missing", 1)
	assert.ErrorIs(t, err, product.ErrNotFound)
}

// Stock is not checked when adding: the cart may legitimately exceed
// what is available, and the conflict is resolved at checkout.
func TestService_AddLine_MayExceedStock(t *testing.T) {
	svc, carts, products := newService(t)
	seedProduct(t, products, "p1", 100, 2)
	ctx := context.Background()

	require.NoError(t, svc.AddLine(ctx, "c1", "p1", 50))

	lines, err := carts.FindLines(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 50, lines[0].Quantity)
}

func TestService_SetLineQuantity(t *testing.T) {
	svc, carts, products := newService(t)
	seedProduct(t, products, "p1", 100, 10)
	ctx := context.Background()

	require.NoError(t, svc.AddLine(ctx, "c1", "p1", 2))
	require.NoError(t, svc.SetLineQuantity(ctx, "c1", "p1", 7))

	line, err := carts.FindLine(ctx, "c1", "p1")
	require.NoError(t, err)
	assert.Equal(t, 7, line.Quantity)

	// Zero removes the line.
	require.NoError(t, svc.SetLineQuantity(ctx, "c1", "p1", 0))
	_, err = carts.FindLine(ctx, "c1", "p1")
	assert.ErrorIs(t, err, domain.ErrLineNotFound)

	// Negative is rejected outright.
	err = svc.SetLineQuantity(ctx, "c1", "p1", -2)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestService_View_JoinsLiveProductData(t *testing.T) {
	svc, _, products := newService(t)
	seedProduct(t, products, "p1", 100, 10)
	seedProduct(t, products, "p2", 250, 3)
	ctx := context.Background()

	require.NoError(t, svc.AddLine(ctx, "c1", "p1", 2))
	require.NoError(t, svc.AddLine(ctx, "c1", "p2", 1))

	view, err := svc.View(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)
	assert.Equal(t, int64(450), view.TotalCents)
	assert.Equal(t, "Product p1", view.Lines[0].Name)
	assert.Equal(t, 10, view.Lines[0].InStock)
}

// A line whose product has been removed comes back flagged, never
// silently dropped, so the UI can prompt the customer to prune it.
func TestService_View_MissingProductIsFlagged(t *testing.T) {
	carts := memory.NewCartRepository()
	products := memory.NewProductRepository()
	svc := NewService(carts, products, logger.NewNop())
	ctx := context.Background()

	line, err := domain.NewLine("ghost", 2)
	require.NoError(t, err)
	require.NoError(t, carts.UpsertLine(ctx, "c1", line))

	view, err := svc.View(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.True(t, view.Lines[0].Missing)
	assert.Equal(t, "ghost", view.Lines[0].ProductID)
	assert.Equal(t, int64(0), view.TotalCents)
}
