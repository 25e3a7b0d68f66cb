package domain

import (
	"time"

	"github.com/govalues/decimal"
)

// PaymentStatus is the payment axis of an order. PENDING from creation
// until the gateway reports a terminal state.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

type Order struct {
	ID     uint64
	UserID uint64
	Number string

	// MerchantRefNo is the correlation key the gateway echoes back in
	// callbacks. Assigned once at payment initiation, never changed.
	MerchantRefNo *string

	IsPaid        bool
	PaidAt        *time.Time
	TransactionID *string
	PaymentStatus PaymentStatus
	PaymentResult *PaymentResult

	IsDelivered bool
	DeliveredAt *time.Time

	ItemsPrice    decimal.Decimal
	ShippingPrice decimal.Decimal
	TaxPrice      decimal.Decimal
	TotalPrice    decimal.Decimal

	CreatedAt time.Time
	User      *User
}
