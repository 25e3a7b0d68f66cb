package port

import (
	"context"

	"github.com/kimsann/payway-checkout/internal/core/domain"
)

//go:generate mockgen -source=source.go -destination=mock/source.go -package=mock

// StatusSource is what the reconciliation watcher polls. Implemented over
// HTTP against the status endpoint, or directly by the service in-process.
type StatusSource interface {
	OrderPaymentStatus(ctx context.Context, orderID uint64) (*domain.OrderPaymentStatus, error)
}
