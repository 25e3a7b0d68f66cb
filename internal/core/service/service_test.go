package service_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/govalues/decimal"
	"github.com/kimsann/payway-checkout/internal/adapter/auth"
	"github.com/kimsann/payway-checkout/internal/core/domain"
	"github.com/kimsann/payway-checkout/internal/core/port/mock"
	"github.com/kimsann/payway-checkout/internal/core/service"
	"github.com/kimsann/payway-checkout/internal/core/utils"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type mocks struct {
	repo    *mock.MockRepository
	ts      *mock.MockTokenService
	gateway *mock.MockGatewayClient
	cache   *mock.MockOrderCache
	events  *mock.MockEventPublisher
}

func newMocks(ctrl *gomock.Controller) *mocks {
	return &mocks{
		repo:    mock.NewMockRepository(ctrl),
		ts:      mock.NewMockTokenService(ctrl),
		gateway: mock.NewMockGatewayClient(ctrl),
		cache:   mock.NewMockOrderCache(ctrl),
		events:  mock.NewMockEventPublisher(ctrl),
	}
}

func newService(t *testing.T, m *mocks) *service.Service {
	t.Helper()
	logger, _ := zap.NewProduction()
	s, err := service.NewService(m.repo, m.ts, m.gateway, m.cache, m.events, logger)
	assert.NoError(t, err)
	return s
}

type prepareMocks func(m *mocks)

func TestService_UserRegister(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	type userRegisterTest struct {
		name      string
		user      domain.User
		mock      prepareMocks
		expError  error
		expResult *domain.User
	}

	hashedPass, _ := utils.HashPassword("test")
	user := domain.User{
		Login:    "test",
		Password: hashedPass,
		ID:       1,
	}

	tests := []userRegisterTest{
		{
			name: "Register good",
			user: domain.User{Login: user.Login, Password: "test"},
			mock: func(m *mocks) {
				m.repo.EXPECT().GetUserByLogin(gomock.Any(), user.Login).Return(nil, domain.ErrDataNotFound)
				m.repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(&user, nil)
			},
			expError:  nil,
			expResult: &user,
		},
		{
			name: "Register already exists",
			user: domain.User{Login: user.Login, Password: "test"},
			mock: func(m *mocks) {
				m.repo.EXPECT().GetUserByLogin(gomock.Any(), user.Login).Return(&user, nil)
			},
			expError:  domain.ErrConflictingData,
			expResult: nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := newMocks(mockCtrl)
			test.mock(m)
			s := newService(t, m)

			result, err := s.RegisterUser(context.Background(), &test.user)

			assert.Equal(t, test.expResult, result)
			assert.Equal(t, test.expError, err)
		})
	}
}

func TestService_UserLogin(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	type userLoginTest struct {
		name     string
		user     domain.User
		mock     prepareMocks
		expError error
	}

	hashedPass, _ := utils.HashPassword("test")
	user := domain.User{
		Login:    "test",
		Password: hashedPass,
		ID:       1,
	}

	tests := []userLoginTest{
		{
			name: "Login good",
			user: domain.User{Login: user.Login, Password: "test", ID: 1},
			mock: func(m *mocks) {
				m.repo.EXPECT().GetUserByLogin(gomock.Any(), user.Login).Return(&user, nil)
			},
			expError: nil,
		},
		{
			name: "Password bad",
			user: domain.User{Login: user.Login, Password: "hacker"},
			mock: func(m *mocks) {
				m.repo.EXPECT().GetUserByLogin(gomock.Any(), user.Login).Return(&user, nil)
			},
			expError: domain.ErrInvalidCredentials,
		},
		{
			name: "Login bad",
			user: domain.User{Login: "hacker", Password: "test"},
			mock: func(m *mocks) {
				m.repo.EXPECT().GetUserByLogin(gomock.Any(), "hacker").Return(nil, domain.ErrDataNotFound)
			},
			expError: domain.ErrInvalidCredentials,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := newMocks(mockCtrl)
			test.mock(m)

			ts, err := auth.New()
			assert.NoError(t, err)

			logger, _ := zap.NewProduction()
			s, err := service.NewService(m.repo, ts, m.gateway, m.cache, m.events, logger)
			assert.NoError(t, err)

			token, err := s.LoginUser(context.Background(), test.user.Login, test.user.Password)
			assert.Equal(t, test.expError, err)

			if token != "" {
				payload, err := ts.VerifyToken(token)
				assert.NoError(t, err)
				assert.Equal(t, payload.UserID, test.user.ID)
			}
		})
	}
}

func TestService_CreateOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	type createOrderTest struct {
		name     string
		order    domain.Order
		mock     prepareMocks
		expError error
		expTotal decimal.Decimal
	}

	tests := []createOrderTest{
		{
			name: "Create good order",
			order: domain.Order{
				Number:        "ORD-100",
				UserID:        1,
				ItemsPrice:    decimal.MustParse("8.50"),
				ShippingPrice: decimal.MustParse("1.00"),
				TaxPrice:      decimal.MustParse("0.50"),
			},
			mock: func(m *mocks) {
				m.repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, o *domain.Order) (*domain.Order, error) {
						return o, nil
					})
			},
			expError: nil,
			expTotal: decimal.MustParse("10.00"),
		},
		{
			name: "Order number taken",
			order: domain.Order{
				Number:     "ORD-100",
				UserID:     1,
				ItemsPrice: decimal.MustParse("10"),
			},
			mock: func(m *mocks) {
				m.repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
					Return(nil, domain.ErrConflictingData)
			},
			expError: domain.ErrConflictingData,
		},
		{
			name: "Order zero total",
			order: domain.Order{
				Number: "ORD-101",
				UserID: 1,
			},
			mock:     func(m *mocks) {},
			expError: domain.ErrOrderBadAmount,
		},
		{
			name:     "Order missing number",
			order:    domain.Order{UserID: 1, ItemsPrice: decimal.MustParse("10")},
			mock:     func(m *mocks) {},
			expError: domain.ErrBadRequest,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := newMocks(mockCtrl)
			test.mock(m)
			s := newService(t, m)

			result, err := s.CreateOrder(context.Background(), &test.order)

			assert.Equal(t, test.expError, err)
			if test.expError == nil {
				assert.NotNil(t, result)
				assert.Equal(t, 0, result.TotalPrice.Cmp(test.expTotal))
				assert.Equal(t, domain.PaymentStatusPending, result.PaymentStatus)
			}
		})
	}
}

func TestService_MarkOrderDelivered(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	type deliverTest struct {
		name     string
		userID   uint64
		mock     prepareMocks
		expError error
	}

	paid := domain.Order{ID: 5, UserID: 1, IsPaid: true}
	delivered := domain.Order{ID: 5, UserID: 1, IsPaid: true, IsDelivered: true}

	tests := []deliverTest{
		{
			name:   "Deliver paid order",
			userID: 1,
			mock: func(m *mocks) {
				m.repo.EXPECT().ReadOrder(gomock.Any(), uint64(5)).
					Return(&paid, nil)
				m.repo.EXPECT().MarkOrderDelivered(gomock.Any(), uint64(5)).
					Return(&delivered, nil)
			},
			expError: nil,
		},
		{
			name:   "Deliver unpaid order rejected",
			userID: 1,
			mock: func(m *mocks) {
				unpaid := domain.Order{ID: 5, UserID: 1}
				m.repo.EXPECT().ReadOrder(gomock.Any(), uint64(5)).
					Return(&unpaid, nil)
				m.repo.EXPECT().MarkOrderDelivered(gomock.Any(), uint64(5)).
					Return(nil, domain.ErrOrderNotPaid)
			},
			expError: domain.ErrOrderNotPaid,
		},
		{
			name:   "Deliver foreign order rejected",
			userID: 2,
			mock: func(m *mocks) {
				m.repo.EXPECT().ReadOrder(gomock.Any(), uint64(5)).
					Return(&paid, nil)
				// No MarkOrderDelivered expectation: another user's order
				// must never be touched.
			},
			expError: domain.ErrForbidden,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := newMocks(mockCtrl)
			test.mock(m)
			s := newService(t, m)

			_, err := s.MarkOrderDelivered(context.Background(), test.userID, 5)
			assert.Equal(t, test.expError, err)
		})
	}
}
