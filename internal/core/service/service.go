package service

import (
	"context"
	"errors"
	"time"

	"github.com/govalues/decimal"
	"github.com/kimsann/payway-checkout/internal/core/domain"
	"github.com/kimsann/payway-checkout/internal/core/port"
	"github.com/kimsann/payway-checkout/internal/core/utils"
	"go.uber.org/zap"
)

type Service struct {
	repo         port.Repository
	tokenService port.TokenService
	gateway      port.GatewayClient
	cache        port.OrderCache
	events       port.EventPublisher
	logger       *zap.Logger
}

func NewService(repo port.Repository, tokenService port.TokenService,
	gateway port.GatewayClient, cache port.OrderCache,
	events port.EventPublisher, logger *zap.Logger) (*Service, error) {
	return &Service{
		repo:         repo,
		tokenService: tokenService,
		gateway:      gateway,
		cache:        cache,
		events:       events,
		logger:       logger,
	}, nil
}

func (s *Service) RegisterUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	exUser, err := s.repo.GetUserByLogin(ctx, user.Login)
	if err != nil && !errors.Is(err, domain.ErrDataNotFound) {
		s.logger.Error("Get user", zap.Error(err))
		return nil, domain.ErrInternal
	}

	if exUser != nil {
		return nil, domain.ErrConflictingData
	}

	newUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		s.logger.Error("Create user", zap.Error(err))
		return nil, domain.ErrInternal
	}

	return newUser, nil
}

func (s *Service) LoginUser(ctx context.Context, login string, password string) (string, error) {
	user, err := s.repo.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", domain.ErrInternal
	}

	err = utils.ComparePassword(password, user.Password)
	if err != nil {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokenService.CreateToken(user)
	if err != nil {
		s.logger.Error("Create token", zap.Error(err))
		return "", domain.ErrTokenCreation
	}

	return token, nil
}

func (s *Service) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order.Number == "" {
		return nil, domain.ErrBadRequest
	}

	// Monetary fields are fixed here, once. The payment flow only ever
	// validates against TotalPrice, never adjusts it.
	total, err := order.ItemsPrice.Add(order.ShippingPrice)
	if err == nil {
		total, err = total.Add(order.TaxPrice)
	}
	if err != nil {
		return nil, domain.ErrBadRequest
	}
	if total.Cmp(decimal.Zero) <= 0 {
		return nil, domain.ErrOrderBadAmount
	}
	order.TotalPrice = total
	order.CreatedAt = time.Now()
	order.PaymentStatus = domain.PaymentStatusPending

	newOrder, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		if errors.Is(err, domain.ErrConflictingData) {
			return nil, domain.ErrConflictingData
		}
		s.logger.Error("Create order", zap.Error(err))
		return nil, err
	}

	return newOrder, nil
}

func (s *Service) GetOrder(ctx context.Context, userID uint64, orderID uint64) (*domain.Order, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func (s *Service) GetOrdersByUser(ctx context.Context, userID uint64) ([]*domain.Order, error) {
	list, err := s.repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Get orders for user", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *Service) MarkOrderDelivered(ctx context.Context, userID uint64, orderID uint64) (*domain.Order, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, err
		}
		s.logger.Error("Read order for delivery", zap.Error(err))
		return nil, domain.ErrInternal
	}
	if order.UserID != userID {
		return nil, domain.ErrForbidden
	}

	order, err = s.repo.MarkOrderDelivered(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotPaid) || errors.Is(err, domain.ErrDataNotFound) {
			return nil, err
		}
		s.logger.Error("Mark order delivered", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return order, nil
}
