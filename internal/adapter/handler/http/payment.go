package http

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kimsann/payway-checkout/internal/adapter/metrics"
	"github.com/kimsann/payway-checkout/internal/core/domain"
	"github.com/kimsann/payway-checkout/internal/core/port"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	Handler
	service port.Service
	metrics *metrics.PaymentMetrics
}

func NewPaymentHandler(service port.Service, m *metrics.PaymentMetrics, logger *zap.Logger) (*PaymentHandler, error) {
	return &PaymentHandler{
		Handler: *NewHandler(logger),
		service: service,
		metrics: m,
	}, nil
}

type checkoutResp struct {
	Endpoint string            `json:"endpoint"`
	Fields   map[string]string `json:"fields"`
}

// Initiate returns the signed form the browser auto-submits to the
// gateway's hosted payment page.
func (ph *PaymentHandler) Initiate(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	orderID, err := orderIDParam(ctx)
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	checkout, err := ph.service.InitiatePayment(ctx, userID, orderID)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.metrics.Initiations.Inc()

	fields := make(map[string]string, len(checkout.Fields))
	for key := range checkout.Fields {
		fields[key] = checkout.Fields.Get(key)
	}

	ph.handleSuccess(ctx, checkoutResp{
		Endpoint: checkout.Endpoint,
		Fields:   fields,
	})
}

// Callback is the unauthenticated webhook endpoint the gateway posts to.
// The form payload is parsed into a closed structure here; everything
// after this point works with typed fields only.
func (ph *PaymentHandler) Callback(ctx *gin.Context) {
	tranID := ctx.PostForm("tran_id")
	statusStr := ctx.PostForm("status")

	statusCode, err := strconv.Atoi(statusStr)
	if err != nil || tranID == "" {
		ph.metrics.Callbacks.WithLabelValues("malformed").Inc()
		ph.handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	raw := make(map[string]string, len(ctx.Request.PostForm))
	for key := range ctx.Request.PostForm {
		raw[key] = ctx.Request.PostForm.Get(key)
	}

	notice := &port.CallbackNotice{
		TranID:         tranID,
		StatusCode:     statusCode,
		ApprovedAmount: ctx.PostForm("apv"),
		Hash:           ctx.PostForm("hash"),
		Raw:            raw,
	}

	err = ph.service.ProcessCallback(ctx, notice)
	ph.metrics.Callbacks.WithLabelValues(callbackResult(err)).Inc()
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccess(ctx, struct {
		Status string `json:"status"`
	}{Status: "ok"})
}

func callbackResult(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, domain.ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, domain.ErrAmountMismatch):
		return "amount_mismatch"
	case errors.Is(err, domain.ErrOrderNotFound):
		return "unknown_order"
	case errors.Is(err, domain.ErrPersistence):
		return "retryable_error"
	default:
		return "error"
	}
}

// Reconcile asks the gateway for the transaction state directly, for the
// case where the callback never arrived.
func (ph *PaymentHandler) Reconcile(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	orderID, err := orderIDParam(ctx)
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	status, err := ph.service.ReconcileOrder(ctx, userID, orderID)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.metrics.Reconciles.Inc()

	ph.handleSuccess(ctx, statusResp{
		OrderID:       status.OrderID,
		IsPaid:        status.IsPaid,
		Status:        string(status.Status),
		PaymentResult: status.Result,
	})
}
