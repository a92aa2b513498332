package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order_engine/internal/application/stock"
	cartdomain "order_engine/internal/domain/cart"
	"order_engine/internal/domain/order"
	"order_engine/internal/domain/product"
	"order_engine/internal/infrastructure/persistence/memory"
	"order_engine/pkg/contracts"
	"order_engine/pkg/logger"
)

type fixture struct {
	svc      *Service
	carts    *memory.CartRepository
	products *memory.ProductRepository
	orders   *memory.OrderRepository
	outbox   *memory.OutboxRepository
	ledger   *stock.Ledger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	carts := memory.NewCartRepository()
	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository()
	outbox := memory.NewOutboxRepository()
	ledger := stock.NewLedger(products, nil, logger.NewNop())
	svc := NewService(carts, products, orders, ledger, memory.NewTxManager(), outbox, "order-events", nil, logger.NewNop())
	return &fixture{svc: svc, carts: carts, products: products, orders: orders, outbox: outbox, ledger: ledger}
}

func (f *fixture) seedProduct(t *testing.T, id string, priceCents int64, stockQty int) {
	t.Helper()
	p, err := product.New(id, "Product "+id, priceCents, stockQty)
	require.NoError(t, err)
	require.NoError(t, f.products.Save(context.Background(), p))
}

func (f *fixture) addLine(t *testing.T, customerID, productID string, qty int) {
	t.Helper()
	line, err := cartdomain.NewLine(productID, qty)
	require.NoError(t, err)
	require.NoError(t, f.carts.UpsertLine(context.Background(), customerID, line))
}

func (f *fixture) stockOf(t *testing.T, id string) int {
	t.Helper()
	p, err := f.products.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.StockQuantity
}

func codCommand() PlaceOrderCommand {
	return PlaceOrderCommand{
		ShippingAddress: order.ShippingAddress{Line1: "1 Main St", City: "Springfield", PostalCode: "560001"},
		Contact:         order.Contact{Name: "A Customer", Phone: "9999999999"},
		PaymentMethod:   order.PaymentCOD,
	}
}

func TestPlaceOrder_TotalAndCartClearing(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "pA", 100, 10)
	f.seedProduct(t, "pB", 250, 10)
	f.addLine(t, "c1", "pA", 2)
	f.addLine(t, "c1", "pB", 1)
	ctx := context.Background()

	o, err := f.svc.PlaceOrder(ctx, "c1", codCommand())

	require.NoError(t, err)
	assert.Equal(t, int64(450), o.TotalCents)
	assert.Equal(t, order.StatusPending, o.Status)
	require.Len(t, o.Lines, 2)

	// Stock decremented and cart emptied.
	assert.Equal(t, 8, f.stockOf(t, "pA"))
	assert.Equal(t, 9, f.stockOf(t, "pB"))
	lines, err := f.carts.FindLines(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, lines)

	// Durable copy matches.
	stored, err := f.orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(450), stored.TotalCents)
}

func TestPlaceOrder_RecordsCreatedEvent(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "pA", 100, 10)
	f.addLine(t, "c1", "pA", 1)
	ctx := context.Background()

	o, err := f.svc.PlaceOrder(ctx, "c1", codCommand())
	require.NoError(t, err)

	pending, err := f.outbox.FetchPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "order-events", pending[0].Topic)
	assert.Equal(t, o.ID, pending[0].Key)

	var ev contracts.Event
	require.NoError(t, json.Unmarshal(pending[0].Payload, &ev))
	assert.Equal(t, contracts.EventOrderCreated, ev.Type)
	assert.Equal(t, o.ID, ev.OrderID)
	assert.Equal(t, int64(100), ev.TotalCents)
}

// The hardest property in the engine: a multi-line checkout where a
// later line cannot be reserved must release every earlier reservation
// and create no order.
func TestPlaceOrder_RollsBackAllReservationsOnFailure(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "pA", 100, 10)
	f.seedProduct(t, "pB", 200, 10)
	f.seedProduct(t, "pC", 300, 1)
	f.addLine(t, "c1", "pA", 2)
	f.addLine(t, "c1", "pB", 3)
	f.addLine(t, "c1", "pC", 5) // more than available
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, "c1", codCommand())

	var creation *CreationError
	require.ErrorAs(t, err, &creation)
	assert.Equal(t, "pC", creation.ProductID)
	assert.ErrorIs(t, err, product.ErrInsufficientStock)

	// Stock back to pre-checkout values.
	assert.Equal(t, 10, f.stockOf(t, "pA"))
	assert.Equal(t, 10, f.stockOf(t, "pB"))
	assert.Equal(t, 1, f.stockOf(t, "pC"))

	// No order was created and the cart is intact for retry.
	orders, err := f.orders.FindByCustomer(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, orders)
	lines, err := f.carts.FindLines(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, lines, 3)
}

func TestPlaceOrder_FailsForDeletedProduct(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "pA", 100, 10)
	f.addLine(t, "c1", "pA", 1)
	f.addLine(t, "c1", "ghost", 1)
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, "c1", codCommand())

	var creation *CreationError
	require.ErrorAs(t, err, &creation)
	assert.Equal(t, "ghost", creation.ProductID)
	assert.ErrorIs(t, err, product.ErrNotFound)
	assert.Equal(t, 10, f.stockOf(t, "pA"))
}

// Unit prices are captured at order time; later catalog price changes
// must not leak into an existing order.
func TestPlaceOrder_PriceFrozenAtOrderTime(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "pA", 100, 10)
	f.addLine(t, "c1", "pA", 2)
	ctx := context.Background()

	o, err := f.svc.PlaceOrder(ctx, "c1", codCommand())
	require.NoError(t, err)

	// Catalog raises the price afterwards.
	p, err := f.products.FindByID(ctx, "pA")
	require.NoError(t, err)
	p.PriceCents = 999
	require.NoError(t, f.products.Save(ctx, p))

	stored, err := f.orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), stored.Lines[0].UnitPriceCents)
	assert.Equal(t, int64(200), stored.TotalCents)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), "c1", codCommand())

	assert.ErrorIs(t, err, cartdomain.ErrEmpty)
}

func TestPlaceOrder_UPIRequiresDetails(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "pA", 100, 10)
	f.addLine(t, "c1", "pA", 1)

	cmd := codCommand()
	cmd.PaymentMethod = order.PaymentUPI

	_, err := f.svc.PlaceOrder(context.Background(), "c1", cmd)

	assert.ErrorIs(t, err, order.ErrMissingPaymentDetails)
	// Rejected before any stock was touched.
	assert.Equal(t, 10, f.stockOf(t, "pA"))

	cmd.Payment = &order.PaymentDetails{UPIID: "a@bank", TransactionID: "txn-1"}
	o, err := f.svc.PlaceOrder(context.Background(), "c1", cmd)
	require.NoError(t, err)
	assert.Equal(t, order.PaymentUPI, o.PaymentMethod)
}

type failingOutbox struct{}

func (failingOutbox) Insert(ctx context.Context, eventID, topic, key string, payload []byte) error {
	return errors.New("outbox unavailable")
}

// An order whose created event cannot be recorded must not exist:
// otherwise the notification could never be delivered even once.
func TestPlaceOrder_FailedEventRecordAbortsCheckout(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "pA", 100, 10)
	f.addLine(t, "c1", "pA", 2)
	ctx := context.Background()

	svc := NewService(f.carts, f.products, f.orders, f.ledger, memory.NewTxManager(), failingOutbox{}, "order-events", nil, logger.NewNop())
	_, err := svc.PlaceOrder(ctx, "c1", codCommand())

	require.Error(t, err)

	// No order, stock restored, cart intact for retry.
	orders, err := f.orders.FindByCustomer(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Equal(t, 10, f.stockOf(t, "pA"))
	lines, err := f.carts.FindLines(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestCreationError_Unwraps(t *testing.T) {
	err := &CreationError{ProductID: "p1", Reason: product.ErrInsufficientStock}
	assert.True(t, errors.Is(err, product.ErrInsufficientStock))
	assert.Contains(t, err.Error(), "p1")
}
