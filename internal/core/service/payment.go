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

// amountTolerance absorbs rounding differences between the gateway's
// approved amount string and the stored total. Anything beyond it is a
// verification failure, never an auto-correction.
var amountTolerance = decimal.MustParse("0.01")

func (s *Service) InitiatePayment(ctx context.Context, userID uint64, orderID uint64) (*port.CheckoutRequest, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, err
		}
		s.logger.Error("Read order for initiation", zap.Error(err))
		return nil, domain.ErrInternal
	}
	if order.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if order.IsPaid {
		return nil, domain.ErrOrderAlreadyPaid
	}
	if order.TotalPrice.Cmp(decimal.Zero) <= 0 {
		return nil, domain.ErrOrderBadAmount
	}

	// The reference must be durable before the browser ever sees the
	// redirect form: a callback can race ahead of this response.
	refNo := ""
	if order.MerchantRefNo != nil {
		refNo = *order.MerchantRefNo
	} else {
		refNo, err = s.repo.AssignMerchantRef(ctx, orderID, utils.NewMerchantRef())
		if err != nil {
			s.logger.Error("Assign merchant reference", zap.Error(err))
			return nil, domain.ErrInternal
		}
	}

	checkout, err := s.gateway.BuildCheckout(order, refNo)
	if err != nil {
		s.logger.Error("Build checkout request", zap.Error(err))
		return nil, err
	}

	return checkout, nil
}

// ProcessCallback is the trust boundary for gateway webhooks. Nothing is
// read or written before the signature verifies.
func (s *Service) ProcessCallback(ctx context.Context, notice *port.CallbackNotice) error {
	if err := s.gateway.VerifyCallback(notice); err != nil {
		// Raw payload goes to the audit log, never into the order.
		s.logger.Warn("callback rejected: signature mismatch",
			zap.String("tran_id", notice.TranID),
			zap.Any("payload", notice.Raw))
		return err
	}

	order, err := s.repo.GetOrderByMerchantRef(ctx, notice.TranID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			// A verified callback with no matching order is an alarm:
			// either a lost initiation or a replayed reference.
			s.logger.Error("callback for unknown merchant reference",
				zap.String("tran_id", notice.TranID))
			return domain.ErrOrderNotFound
		}
		s.logger.Error("Read order for callback", zap.Error(err))
		return domain.ErrPersistence
	}

	return s.applyGatewayState(ctx, order, notice.StatusCode, notice.ApprovedAmount, notice.Raw)
}

// applyGatewayState maps a verified gateway report onto the order. Shared
// by the callback path and the explicit reconcile path.
func (s *Service) applyGatewayState(ctx context.Context, order *domain.Order,
	statusCode int, approvedAmount string, raw map[string]string) error {
	refNo := *order.MerchantRefNo
	outcome := s.gateway.MapStatus(statusCode)

	result := &domain.PaymentResult{
		TransactionID: refNo,
		StatusCode:    statusCode,
		Raw:           raw,
		ReceivedAt:    time.Now(),
	}

	switch outcome {
	case domain.OutcomeSuccess:
		apv, err := decimal.Parse(approvedAmount)
		if err != nil {
			s.logger.Warn("callback with unparseable amount",
				zap.String("tran_id", refNo), zap.String("apv", approvedAmount))
			return domain.ErrBadRequest
		}
		diff, err := order.TotalPrice.Sub(apv)
		if err == nil {
			diff = diff.Abs()
		}
		if err != nil || diff.Cmp(amountTolerance) > 0 {
			s.logger.Error("callback approved amount does not match order total",
				zap.String("tran_id", refNo),
				zap.String("apv", approvedAmount),
				zap.String("total", order.TotalPrice.String()))
			return domain.ErrAmountMismatch
		}
		result.ApprovedAmount = apv
		return s.markOrderPaid(ctx, order, result)

	case domain.OutcomeFailed, domain.OutcomeCancelled:
		if order.IsPaid {
			// Never let a late failure report shadow a committed payment.
			return nil
		}
		status := domain.PaymentStatusFailed
		if outcome == domain.OutcomeCancelled {
			status = domain.PaymentStatusCancelled
		}
		if err := s.repo.RecordPaymentOutcome(ctx, refNo, status, result); err != nil {
			s.logger.Error("Record payment outcome", zap.Error(err))
			return domain.ErrPersistence
		}
		s.invalidateStatus(ctx, order.ID)
		return nil

	default: // pending, nothing terminal to record
		return nil
	}
}

// markOrderPaid is the only path that flips an order to paid. The
// repository performs the transition as one conditional update; side
// effects run only when this call actually won the transition.
func (s *Service) markOrderPaid(ctx context.Context, order *domain.Order, result *domain.PaymentResult) error {
	refNo := *order.MerchantRefNo

	transitioned, err := s.repo.MarkOrderPaid(ctx, refNo, result)
	if err != nil {
		s.logger.Error("Mark order paid", zap.Error(err))
		return domain.ErrPersistence
	}
	if !transitioned {
		s.logger.Debug("duplicate success callback ignored",
			zap.String("tran_id", refNo))
		return nil
	}

	s.invalidateStatus(ctx, order.ID)

	order.IsPaid = true
	order.PaidAt = &result.ReceivedAt
	order.TransactionID = &result.TransactionID
	order.PaymentStatus = domain.PaymentStatusPaid
	order.PaymentResult = result

	if err := s.events.PublishOrderPaid(ctx, order); err != nil {
		// The transition is committed; a lost event must not fail the
		// callback and trigger a gateway retry of the whole callback.
		s.logger.Error("Publish paid event", zap.Error(err),
			zap.Uint64("order", order.ID))
	}

	s.logger.Info("order paid",
		zap.Uint64("order", order.ID),
		zap.String("tran_id", refNo))

	return nil
}

func (s *Service) invalidateStatus(ctx context.Context, orderID uint64) {
	if err := s.cache.Invalidate(ctx, orderID); err != nil {
		s.logger.Error("Invalidate status cache", zap.Error(err),
			zap.Uint64("order", orderID))
	}
}

func (s *Service) OrderPaymentStatus(ctx context.Context, userID uint64, orderID uint64) (*domain.OrderPaymentStatus, error) {
	cached, err := s.cache.GetStatus(ctx, orderID)
	if err != nil {
		s.logger.Debug("status cache read failed", zap.Error(err))
	} else if cached != nil {
		if cached.UserID != userID {
			return nil, domain.ErrForbidden
		}
		return cached, nil
	}

	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, err
		}
		s.logger.Error("Read order for status", zap.Error(err))
		return nil, domain.ErrInternal
	}
	if order.UserID != userID {
		return nil, domain.ErrForbidden
	}

	status := statusView(order)
	if err := s.cache.SetStatus(ctx, status); err != nil {
		s.logger.Debug("status cache write failed", zap.Error(err))
	}

	return status, nil
}

// ReconcileOrder asks the gateway directly for the transaction state,
// covering the case where the callback was lost. Same verification and
// idempotency rules as the callback path.
func (s *Service) ReconcileOrder(ctx context.Context, userID uint64, orderID uint64) (*domain.OrderPaymentStatus, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, err
		}
		s.logger.Error("Read order for reconcile", zap.Error(err))
		return nil, domain.ErrInternal
	}
	if order.UserID != userID {
		return nil, domain.ErrForbidden
	}

	if order.IsPaid || order.MerchantRefNo == nil {
		return statusView(order), nil
	}

	state, err := s.gateway.CheckTransaction(ctx, *order.MerchantRefNo)
	if err != nil {
		s.logger.Error("Check transaction", zap.Error(err),
			zap.String("tran_id", *order.MerchantRefNo))
		return nil, domain.ErrInternal
	}

	if err := s.applyGatewayState(ctx, order, state.StatusCode, state.ApprovedAmount, nil); err != nil {
		return nil, err
	}

	fresh, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		s.logger.Error("Re-read order after reconcile", zap.Error(err))
		return nil, domain.ErrInternal
	}

	return statusView(fresh), nil
}

// RecoverPendingPayments reconciles every initiated-but-unresolved order
// against the gateway, typically once at startup after downtime during
// which callbacks may have been missed.
func (s *Service) RecoverPendingPayments(ctx context.Context) error {
	orders, err := s.repo.ListOrdersByPaymentStatus(ctx, domain.PaymentStatusPending)
	if err != nil {
		return err
	}

	for _, order := range orders {
		if order.MerchantRefNo == nil || order.IsPaid {
			continue
		}
		state, err := s.gateway.CheckTransaction(ctx, *order.MerchantRefNo)
		if err != nil {
			s.logger.Warn("recover: check transaction failed",
				zap.String("tran_id", *order.MerchantRefNo), zap.Error(err))
			continue
		}
		if err := s.applyGatewayState(ctx, order, state.StatusCode, state.ApprovedAmount, nil); err != nil {
			s.logger.Warn("recover: apply gateway state failed",
				zap.String("tran_id", *order.MerchantRefNo), zap.Error(err))
		}
	}

	return nil
}

func statusView(order *domain.Order) *domain.OrderPaymentStatus {
	return &domain.OrderPaymentStatus{
		OrderID: order.ID,
		UserID:  order.UserID,
		IsPaid:  order.IsPaid,
		Status:  order.PaymentStatus,
		Result:  order.PaymentResult,
	}
}
