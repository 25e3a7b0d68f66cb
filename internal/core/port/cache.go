package port

import (
	"context"

	"github.com/kimsann/payway-checkout/internal/core/domain"
)

//go:generate mockgen -source=cache.go -destination=mock/cache.go -package=mock

// OrderCache holds the short-lived payment-status view between client
// polls. A miss is (nil, nil), not an error.
type OrderCache interface {
	GetStatus(ctx context.Context, orderID uint64) (*domain.OrderPaymentStatus, error)
	SetStatus(ctx context.Context, status *domain.OrderPaymentStatus) error
	Invalidate(ctx context.Context, orderID uint64) error
}
