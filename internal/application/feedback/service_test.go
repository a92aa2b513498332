package feedback

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order_engine/internal/domain/order"
	"order_engine/internal/infrastructure/persistence/memory"
	"order_engine/pkg/logger"
)

func seedOrder(t *testing.T, orders *memory.OrderRepository, id, customerID string, status order.Status) {
	t.Helper()
	o, err := order.New(id, customerID,
		[]order.Line{{ProductID: "p1", Name: "Widget", Quantity: 1, UnitPriceCents: 100}},
		order.ShippingAddress{Line1: "1 Main St"}, order.Contact{Name: "A"}, order.PaymentCOD, nil)
	require.NoError(t, err)
	o.Status = status
	require.NoError(t, orders.Save(context.Background(), o))
}

func TestSubmit_OnDeliveredOrder(t *testing.T) {
	orders := memory.NewOrderRepository()
	svc := NewService(orders, logger.NewNop())
	seedOrder(t, orders, "o1", "c1", order.StatusDelivered)
	ctx := context.Background()

	fb, err := svc.Submit(ctx, "o1", "c1", 4, "arrived in one piece")

	require.NoError(t, err)
	assert.Equal(t, 4, fb.Rating)
	assert.False(t, fb.SubmittedAt.IsZero())

	stored, err := orders.FindByID(ctx, "o1")
	require.NoError(t, err)
	require.NotNil(t, stored.Feedback)
	assert.Equal(t, "arrived in one piece", stored.Feedback.Comment)
}

func TestSubmit_OnlyOnce(t *testing.T) {
	orders := memory.NewOrderRepository()
	svc := NewService(orders, logger.NewNop())
	seedOrder(t, orders, "o1", "c1", order.StatusDelivered)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "o1", "c1", 5, "")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "o1", "c1", 1, "changed my mind")
	assert.ErrorIs(t, err, order.ErrFeedbackExists)
}

func TestSubmit_RequiresDelivery(t *testing.T) {
	orders := memory.NewOrderRepository()
	svc := NewService(orders, logger.NewNop())
	seedOrder(t, orders, "o1", "c1", order.StatusShipped)

	_, err := svc.Submit(context.Background(), "o1", "c1", 4, "")
	assert.ErrorIs(t, err, order.ErrNotDelivered)
}

func TestSubmit_OwnerOnly(t *testing.T) {
	orders := memory.NewOrderRepository()
	svc := NewService(orders, logger.NewNop())
	seedOrder(t, orders, "o1", "c1", order.StatusDelivered)

	_, err := svc.Submit(context.Background(), "o1", "someone-else", 4, "")
	assert.ErrorIs(t, err, order.ErrNotOwner)
}

func TestSubmit_RatingBounds(t *testing.T) {
	orders := memory.NewOrderRepository()
	svc := NewService(orders, logger.NewNop())
	seedOrder(t, orders, "o1", "c1", order.StatusDelivered)

	for _, r := range []int{0, 6, -3} {
		_, err := svc.Submit(context.Background(), "o1", "c1", r, "")
		assert.ErrorIs(t, err, order.ErrInvalidRating)
	}
}

func TestSubmit_UnknownOrder(t *testing.T) {
	orders := memory.NewOrderRepository()
	svc := NewService(orders, logger.NewNop())

	_, err := svc.Submit(context.Background(), "missing", "c1", 4, "")
	assert.ErrorIs(t, err, order.ErrNotFound)
}
