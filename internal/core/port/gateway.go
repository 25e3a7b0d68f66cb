package port

import (
	"context"
	"net/url"

	"github.com/kimsann/payway-checkout/internal/core/domain"
)

// CheckoutRequest carries everything the browser needs to hand control to
// the gateway's hosted payment page: the target URL plus the signed form
// fields to auto-submit.
type CheckoutRequest struct {
	Endpoint string
	Fields   url.Values
}

// CallbackNotice is the closed shape a gateway callback is parsed into at
// the HTTP trust boundary. Raw keeps the original form fields for audit.
type CallbackNotice struct {
	TranID         string
	StatusCode     int
	ApprovedAmount string
	Hash           string
	Raw            map[string]string
}

// TransactionState is the gateway's answer to an explicit check-transaction
// request, used when a callback was lost.
type TransactionState struct {
	TranID         string
	StatusCode     int
	ApprovedAmount string
}

//go:generate mockgen -source=gateway.go -destination=mock/gateway.go -package=mock
type GatewayClient interface {
	// BuildCheckout produces the signed redirect form for an order. The
	// merchant reference must already be persisted on the order.
	BuildCheckout(order *domain.Order, refNo string) (*CheckoutRequest, error)
	// VerifyCallback recomputes the callback signature and compares it in
	// constant time. Returns domain.ErrInvalidSignature on mismatch.
	VerifyCallback(notice *CallbackNotice) error
	// MapStatus translates the gateway's numeric status code to an outcome.
	MapStatus(code int) domain.PaymentOutcome
	// CheckTransaction queries the gateway for the state of a transaction.
	CheckTransaction(ctx context.Context, refNo string) (*TransactionState, error)
}
