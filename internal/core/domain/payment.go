package domain

import (
	"time"

	"github.com/govalues/decimal"
)

// PaymentOutcome is the verified result of a gateway callback after the
// numeric status code has been mapped through the gateway's code table.
type PaymentOutcome string

const (
	OutcomeSuccess   PaymentOutcome = "SUCCESS"
	OutcomeFailed    PaymentOutcome = "FAILED"
	OutcomeCancelled PaymentOutcome = "CANCELLED"
	OutcomePending   PaymentOutcome = "PENDING"
)

// PaymentResult keeps what the gateway told us about a transaction. Stored
// on the order as jsonb so failed and cancelled attempts stay visible too.
type PaymentResult struct {
	TransactionID  string            `json:"transaction_id"`
	StatusCode     int               `json:"status_code"`
	ApprovedAmount decimal.Decimal   `json:"approved_amount"`
	Raw            map[string]string `json:"raw,omitempty"`
	ReceivedAt     time.Time         `json:"received_at"`
}

// OrderPaymentStatus is the browser-facing view served by the status
// endpoint and cached between polls.
type OrderPaymentStatus struct {
	OrderID uint64         `json:"order_id"`
	UserID  uint64         `json:"-"`
	IsPaid  bool           `json:"is_paid"`
	Status  PaymentStatus  `json:"status,omitempty"`
	Result  *PaymentResult `json:"payment_result,omitempty"`
}
