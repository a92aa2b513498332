package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func someLines() []Line {
	return []Line{
		{ProductID: "p1", Name: "Widget", Quantity: 2, UnitPriceCents: 100},
		{ProductID: "p2", Name: "Gadget", Quantity: 1, UnitPriceCents: 250},
	}
}

func TestNew_ComputesTotalOnce(t *testing.T) {
	o, err := New("o1", "c1", someLines(), ShippingAddress{Line1: "1 Main St"}, Contact{Name: "A"}, PaymentCOD, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(450), o.TotalCents)
	assert.Equal(t, int64(200), o.Lines[0].LineTotalCents)
	assert.Equal(t, int64(250), o.Lines[1].LineTotalCents)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, int64(1), o.Version)
	require.Len(t, o.History, 1)
	assert.Equal(t, StatusPending, o.History[0].Status)
}

func TestNew_Validation(t *testing.T) {
	addr := ShippingAddress{Line1: "1 Main St"}
	contact := Contact{Name: "A"}

	_, err := New("", "c1", someLines(), addr, contact, PaymentCOD, nil)
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = New("o1", "c1", nil, addr, contact, PaymentCOD, nil)
	assert.ErrorIs(t, err, ErrNoLines)

	_, err = New("o1", "c1", []Line{{ProductID: "p1", Quantity: 0, UnitPriceCents: 100}}, addr, contact, PaymentCOD, nil)
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = New("o1", "c1", someLines(), addr, contact, PaymentMethod("CARD"), nil)
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestValidatePayment_UPI(t *testing.T) {
	err := ValidatePayment(PaymentUPI, nil)
	assert.ErrorIs(t, err, ErrMissingPaymentDetails)

	err = ValidatePayment(PaymentUPI, &PaymentDetails{UPIID: "a@bank"})
	assert.ErrorIs(t, err, ErrMissingPaymentDetails)

	err = ValidatePayment(PaymentUPI, &PaymentDetails{UPIID: "a@bank", TransactionID: "txn-1"})
	assert.NoError(t, err)

	assert.NoError(t, ValidatePayment(PaymentCOD, nil))
}

func TestNewFeedback_RatingBounds(t *testing.T) {
	for _, r := range []int{0, -1, 6, 100} {
		_, err := NewFeedback(r, "")
		assert.ErrorIs(t, err, ErrInvalidRating)
	}

	fb, err := NewFeedback(5, "great")
	require.NoError(t, err)
	assert.Equal(t, 5, fb.Rating)
	assert.False(t, fb.SubmittedAt.IsZero())
}

func TestApplyStatus_AppendsHistory(t *testing.T) {
	o, err := New("o1", "c1", someLines(), ShippingAddress{}, Contact{}, PaymentCOD, nil)
	require.NoError(t, err)
	before := o.UpdatedAt

	o.ApplyStatus(StatusProcessing)

	assert.Equal(t, StatusProcessing, o.Status)
	require.Len(t, o.History, 2)
	assert.Equal(t, StatusProcessing, o.History[1].Status)
	assert.False(t, o.UpdatedAt.Before(before))
}
