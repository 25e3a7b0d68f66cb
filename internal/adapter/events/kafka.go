package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/kimsann/payway-checkout/internal/adapter/config"
	"github.com/kimsann/payway-checkout/internal/core/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher writes order.paid events. Without brokers configured it stays
// disabled and publishing is a silent no-op, so a single-node deployment
// runs without kafka at all.
type Publisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

type orderPaidEvent struct {
	OrderID       uint64    `json:"order_id"`
	Number        string    `json:"number"`
	UserID        uint64    `json:"user_id"`
	MerchantRefNo string    `json:"merchant_ref_no"`
	TransactionID string    `json:"transaction_id,omitempty"`
	TotalPrice    string    `json:"total_price"`
	PaidAt        time.Time `json:"paid_at"`
}

func NewPublisher(cfg *config.Kafka, logger *zap.Logger) *Publisher {
	p := &Publisher{logger: logger}

	brokers := make([]string, 0)
	for _, b := range strings.Split(cfg.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return p
	}

	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        cfg.PaidTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}

	return p
}

func (p *Publisher) PublishOrderPaid(ctx context.Context, order *domain.Order) error {
	if p.writer == nil {
		p.logger.Debug("kafka disabled, skip paid event",
			zap.Uint64("order", order.ID))
		return nil
	}

	event := orderPaidEvent{
		OrderID:    order.ID,
		Number:     order.Number,
		UserID:     order.UserID,
		TotalPrice: order.TotalPrice.String(),
	}
	if order.MerchantRefNo != nil {
		event.MerchantRefNo = *order.MerchantRefNo
	}
	if order.TransactionID != nil {
		event.TransactionID = *order.TransactionID
	}
	if order.PaidAt != nil {
		event.PaidAt = *order.PaidAt
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.MerchantRefNo),
		Value: data,
		Time:  time.Now().UTC(),
	})
}

func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
