package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kimsann/payway-checkout/internal/core/domain"
)

var orderColumns = []string{
	"id", "user_id", "number",
	"merchant_ref_no",
	"is_paid", "paid_at", "transaction_id", "payment_status", "payment_result",
	"is_delivered", "delivered_at",
	"items_price", "shipping_price", "tax_price", "total_price",
	"created_at",
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	order := domain.Order{}
	var status string
	var resultRaw []byte

	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.Number,
		&order.MerchantRefNo,
		&order.IsPaid,
		&order.PaidAt,
		&order.TransactionID,
		&status,
		&resultRaw,
		&order.IsDelivered,
		&order.DeliveredAt,
		&order.ItemsPrice,
		&order.ShippingPrice,
		&order.TaxPrice,
		&order.TotalPrice,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.PaymentStatus = domain.PaymentStatus(status)
	if len(resultRaw) > 0 {
		result := domain.PaymentResult{}
		if err := json.Unmarshal(resultRaw, &result); err != nil {
			return nil, fmt.Errorf("error decoding payment result: %w", err)
		}
		order.PaymentResult = &result
	}

	return &order, nil
}

func marshalResult(result *domain.PaymentResult) ([]byte, error) {
	if result == nil {
		return nil, nil
	}
	return json.Marshal(result)
}

func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Insert("orders").
		Columns("user_id", "number",
			"items_price", "shipping_price", "tax_price", "total_price",
			"payment_status", "created_at").
		Values(order.UserID, order.Number,
			order.ItemsPrice, order.ShippingPrice, order.TaxPrice, order.TotalPrice,
			string(order.PaymentStatus), order.CreatedAt).
		Suffix("returning id")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&order.ID)
	if err != nil {
		if pgErr := (*pgconn.PgError)(nil); errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}

	return order, nil
}

func (r *Repository) ReadOrder(ctx context.Context, orderID uint64) (*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": orderID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	order, err := scanOrder(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return order, nil
}

func (r *Repository) GetOrderByMerchantRef(ctx context.Context, refNo string) (*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"merchant_ref_no": refNo})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	order, err := scanOrder(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return order, nil
}

func (r *Repository) ListOrdersByUser(ctx context.Context, userID uint64) ([]*domain.Order, error) {
	return r.listOrders(ctx, sq.Eq{"user_id": userID})
}

func (r *Repository) ListOrdersByPaymentStatus(ctx context.Context, status domain.PaymentStatus) ([]*domain.Order, error) {
	return r.listOrders(ctx, sq.Eq{"payment_status": string(status)})
}

func (r *Repository) listOrders(ctx context.Context, where sq.Eq) ([]*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(where).
		OrderBy("created_at")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// AssignMerchantRef stores the reference only when the order has none yet.
// The returned value is whatever ended up on the row, so a racing second
// initiation gets the first reference back instead of a new one.
func (r *Repository) AssignMerchantRef(ctx context.Context, orderID uint64, refNo string) (string, error) {
	statement := r.db.QueryBuilder.
		Update("orders").
		Set("merchant_ref_no", refNo).
		Set("payment_status", string(domain.PaymentStatusPending)).
		Where(sq.Eq{"id": orderID}).
		Where("merchant_ref_no IS NULL")

	sql, args, err := statement.ToSql()
	if err != nil {
		return "", err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return "", err
	}
	if tag.RowsAffected() > 0 {
		return refNo, nil
	}

	order, err := r.ReadOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order.MerchantRefNo == nil {
		return "", domain.ErrNoUpdatedData
	}
	return *order.MerchantRefNo, nil
}

// MarkOrderPaid is the single writer of the paid transition. The WHERE
// clause carries the idempotency guarantee: concurrent deliveries of the
// same success callback race on one conditional update and only one wins.
func (r *Repository) MarkOrderPaid(ctx context.Context, refNo string, result *domain.PaymentResult) (bool, error) {
	resultRaw, err := marshalResult(result)
	if err != nil {
		return false, err
	}

	statement := r.db.QueryBuilder.
		Update("orders").
		Set("is_paid", true).
		Set("paid_at", result.ReceivedAt).
		Set("transaction_id", result.TransactionID).
		Set("payment_status", string(domain.PaymentStatusPaid)).
		Set("payment_result", resultRaw).
		Where(sq.Eq{"merchant_ref_no": refNo}).
		Where(sq.Eq{"is_paid": false})

	sql, args, err := statement.ToSql()
	if err != nil {
		return false, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	// Zero rows is fine when the order exists and is already paid.
	if _, err := r.GetOrderByMerchantRef(ctx, refNo); err != nil {
		return false, err
	}
	return false, nil
}

func (r *Repository) RecordPaymentOutcome(ctx context.Context, refNo string,
	status domain.PaymentStatus, result *domain.PaymentResult) error {
	resultRaw, err := marshalResult(result)
	if err != nil {
		return err
	}

	statement := r.db.QueryBuilder.
		Update("orders").
		Set("payment_status", string(status)).
		Set("payment_result", resultRaw).
		Set("transaction_id", result.TransactionID).
		Where(sq.Eq{"merchant_ref_no": refNo}).
		// A recorded failure must never shadow a committed payment.
		Where(sq.Eq{"is_paid": false})

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *Repository) MarkOrderDelivered(ctx context.Context, orderID uint64) (*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Update("orders").
		Set("is_delivered", true).
		Set("delivered_at", time.Now()).
		Where(sq.Eq{"id": orderID}).
		Where(sq.Eq{"is_paid": true}).
		Where(sq.Eq{"is_delivered": false})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		order, err := r.ReadOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if !order.IsPaid {
			return nil, domain.ErrOrderNotPaid
		}
		// Already delivered, idempotent.
		return order, nil
	}

	return r.ReadOrder(ctx, orderID)
}
