package port

import (
	"context"

	"github.com/kimsann/payway-checkout/internal/core/domain"
)

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock
type Service interface {
	RegisterUser(ctx context.Context, user *domain.User) (*domain.User, error)
	LoginUser(ctx context.Context, login string, password string) (string, error)

	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetOrder(ctx context.Context, userID uint64, orderID uint64) (*domain.Order, error)
	GetOrdersByUser(ctx context.Context, userID uint64) ([]*domain.Order, error)

	InitiatePayment(ctx context.Context, userID uint64, orderID uint64) (*CheckoutRequest, error)
	ProcessCallback(ctx context.Context, notice *CallbackNotice) error
	OrderPaymentStatus(ctx context.Context, userID uint64, orderID uint64) (*domain.OrderPaymentStatus, error)
	ReconcileOrder(ctx context.Context, userID uint64, orderID uint64) (*domain.OrderPaymentStatus, error)

	MarkOrderDelivered(ctx context.Context, userID uint64, orderID uint64) (*domain.Order, error)
}
