package order

import "time"

type PaymentMethod string

const (
	PaymentCOD PaymentMethod = "COD"
	PaymentUPI PaymentMethod = "UPI"
)

// PaymentDetails is recorded, never processed; the gateway lives
// outside the engine.
type PaymentDetails struct {
	UPIID         string
	TransactionID string
}

type ShippingAddress struct {
	Line1      string
	City       string
	State      string
	PostalCode string
}

type Contact struct {
	Name  string
	Phone string
	Email string
}

// Line captures the unit price at order time. Later product price
// changes never touch it, so the customer pays what they were quoted.
type Line struct {
	ProductID      string
	Name           string
	Quantity       int
	UnitPriceCents int64
	LineTotalCents int64
}

type StatusChange struct {
	Status Status
	At     time.Time
}

type Feedback struct {
	Rating      int
	Comment     string
	SubmittedAt time.Time
}

// Order is immutable after creation except for Status, History,
// UpdatedAt, Version, and the single optional Feedback.
type Order struct {
	ID              string
	CustomerID      string
	Lines           []Line
	TotalCents      int64
	ShippingAddress ShippingAddress
	Contact         Contact
	PaymentMethod   PaymentMethod
	Payment         *PaymentDetails
	Status          Status
	History         []StatusChange
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Feedback        *Feedback
}

func New(id, customerID string, lines []Line, addr ShippingAddress, contact Contact, method PaymentMethod, payment *PaymentDetails) (*Order, error) {
	if id == "" || customerID == "" {
		return nil, ErrMissingField
	}
	if len(lines) == 0 {
		return nil, ErrNoLines
	}
	if err := ValidatePayment(method, payment); err != nil {
		return nil, err
	}

	var total int64
	for i := range lines {
		if lines[i].ProductID == "" || lines[i].Quantity <= 0 || lines[i].UnitPriceCents <= 0 {
			return nil, ErrMissingField
		}
		lines[i].LineTotalCents = int64(lines[i].Quantity) * lines[i].UnitPriceCents
		total += lines[i].LineTotalCents
	}

	now := time.Now().UTC()
	return &Order{
		ID:              id,
		CustomerID:      customerID,
		Lines:           lines,
		TotalCents:      total,
		ShippingAddress: addr,
		Contact:         contact,
		PaymentMethod:   method,
		Payment:         payment,
		Status:          StatusPending,
		History:         []StatusChange{{Status: StatusPending, At: now}},
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// ValidatePayment rejects malformed payment input before any stock is
// touched. UPI requires both the UPI id and a transaction reference.
func ValidatePayment(method PaymentMethod, payment *PaymentDetails) error {
	switch method {
	case PaymentCOD:
		return nil
	case PaymentUPI:
		if payment == nil || payment.UPIID == "" || payment.TransactionID == "" {
			return ErrMissingPaymentDetails
		}
		return nil
	default:
		return ErrInvalidPaymentMethod
	}
}

func NewFeedback(rating int, comment string) (*Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	return &Feedback{
		Rating:      rating,
		Comment:     comment,
		SubmittedAt: time.Now().UTC(),
	}, nil
}

// ApplyStatus moves the order to the target status after the state
// machine has approved the transition. It stamps UpdatedAt and appends
// to History; persistence bumps Version.
func (o *Order) ApplyStatus(target Status) {
	now := time.Now().UTC()
	o.Status = target
	o.UpdatedAt = now
	o.History = append(o.History, StatusChange{Status: target, At: now})
}
