package port

import (
	"context"

	"github.com/kimsann/payway-checkout/internal/core/domain"
)

//go:generate mockgen -source=events.go -destination=mock/events.go -package=mock

// EventPublisher announces committed paid transitions to downstream
// consumers (fulfillment, notifications). Fired at most once per order.
type EventPublisher interface {
	PublishOrderPaid(ctx context.Context, order *domain.Order) error
}
