package port

import (
	"context"

	"github.com/kimsann/payway-checkout/internal/core/domain"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock
type Repository interface {
	// User
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByLogin(ctx context.Context, login string) (*domain.User, error)

	// Order
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ReadOrder(ctx context.Context, orderID uint64) (*domain.Order, error)
	GetOrderByMerchantRef(ctx context.Context, refNo string) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID uint64) ([]*domain.Order, error)
	ListOrdersByPaymentStatus(ctx context.Context, status domain.PaymentStatus) ([]*domain.Order, error)

	// Payment lifecycle. AssignMerchantRef sets the reference only when none
	// is present and returns the effective stored value, so a concurrent
	// double-initiation reuses the first reference instead of minting twice.
	AssignMerchantRef(ctx context.Context, orderID uint64, refNo string) (string, error)
	// MarkOrderPaid performs the unpaid->paid transition as one conditional
	// update. The bool reports whether this call actually transitioned the
	// order; false with a nil error means it was already paid.
	MarkOrderPaid(ctx context.Context, refNo string, result *domain.PaymentResult) (bool, error)
	// RecordPaymentOutcome stores a non-success outcome for UI display
	// without touching the paid flag.
	RecordPaymentOutcome(ctx context.Context, refNo string, status domain.PaymentStatus, result *domain.PaymentResult) error

	// Fulfillment
	MarkOrderDelivered(ctx context.Context, orderID uint64) (*domain.Order, error)
}
