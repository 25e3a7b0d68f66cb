package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"github.com/kimsann/payway-checkout/internal/core/domain"
	"github.com/kimsann/payway-checkout/internal/core/port"
	"go.uber.org/zap"
)

type OrderHandler struct {
	Handler
	service port.Service
}

func NewOrderHandler(service port.Service, logger *zap.Logger) (*OrderHandler, error) {
	return &OrderHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type createOrderRequest struct {
	Number        string  `json:"number" binding:"required"`
	ItemsPrice    float64 `json:"items_price" binding:"required"`
	ShippingPrice float64 `json:"shipping_price"`
	TaxPrice      float64 `json:"tax_price"`
}

func (oh *OrderHandler) CreateOrder(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	req := createOrderRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	items, err := decimal.NewFromFloat64(req.ItemsPrice)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}
	shipping, err := decimal.NewFromFloat64(req.ShippingPrice)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}
	tax, err := decimal.NewFromFloat64(req.TaxPrice)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order := &domain.Order{
		UserID:        userID,
		Number:        req.Number,
		ItemsPrice:    items,
		ShippingPrice: shipping,
		TaxPrice:      tax,
	}

	created, err := oh.service.CreateOrder(ctx, order)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccessWithStatus(ctx, orderResp(created), http.StatusCreated)
}

type OrderResp struct {
	ID            uint64                `json:"id"`
	Number        string                `json:"number"`
	IsPaid        bool                  `json:"is_paid"`
	PaidAt        *time.Time            `json:"paid_at,omitempty"`
	PaymentStatus string                `json:"payment_status,omitempty"`
	PaymentResult *domain.PaymentResult `json:"payment_result,omitempty"`
	IsDelivered   bool                  `json:"is_delivered"`
	DeliveredAt   *time.Time            `json:"delivered_at,omitempty"`
	ItemsPrice    decimal.Decimal       `json:"items_price"`
	ShippingPrice decimal.Decimal       `json:"shipping_price"`
	TaxPrice      decimal.Decimal       `json:"tax_price"`
	TotalPrice    decimal.Decimal       `json:"total_price"`
	CreatedAt     time.Time             `json:"created_at"`
}

func orderResp(o *domain.Order) OrderResp {
	return OrderResp{
		ID:            o.ID,
		Number:        o.Number,
		IsPaid:        o.IsPaid,
		PaidAt:        o.PaidAt,
		PaymentStatus: string(o.PaymentStatus),
		PaymentResult: o.PaymentResult,
		IsDelivered:   o.IsDelivered,
		DeliveredAt:   o.DeliveredAt,
		ItemsPrice:    o.ItemsPrice,
		ShippingPrice: o.ShippingPrice,
		TaxPrice:      o.TaxPrice,
		TotalPrice:    o.TotalPrice,
		CreatedAt:     o.CreatedAt,
	}
}

func orderIDParam(ctx *gin.Context) (uint64, error) {
	return strconv.ParseUint(ctx.Param("id"), 10, 64)
}

func (oh *OrderHandler) GetOrder(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	orderID, err := orderIDParam(ctx)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.GetOrder(ctx, userID, orderID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, orderResp(order))
}

func (oh *OrderHandler) ListOrdersByUser(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	list, err := oh.service.GetOrdersByUser(ctx, userID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	result := make([]OrderResp, 0, len(list))
	for _, o := range list {
		result = append(result, orderResp(o))
	}

	oh.handleSuccess(ctx, result)
}

type statusResp struct {
	OrderID       uint64                `json:"order_id"`
	IsPaid        bool                  `json:"is_paid"`
	Status        string                `json:"status,omitempty"`
	PaymentResult *domain.PaymentResult `json:"payment_result,omitempty"`
}

// OrderStatus serves the reconciliation poller: a cheap, cacheable view of
// the payment axis only.
func (oh *OrderHandler) OrderStatus(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	orderID, err := orderIDParam(ctx)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	status, err := oh.service.OrderPaymentStatus(ctx, userID, orderID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, statusResp{
		OrderID:       status.OrderID,
		IsPaid:        status.IsPaid,
		Status:        string(status.Status),
		PaymentResult: status.Result,
	})
}

func (oh *OrderHandler) MarkDelivered(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	orderID, err := orderIDParam(ctx)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.MarkOrderDelivered(ctx, userID, orderID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, orderResp(order))
}
