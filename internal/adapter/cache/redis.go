package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kimsann/payway-checkout/internal/adapter/config"
	"github.com/kimsann/payway-checkout/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

// OrderCache serves the payment-status view between client polls. The
// entry TTL is deliberately short: the cache only absorbs poll bursts, the
// database stays authoritative. With no redis address configured every
// operation is a no-op and reads always miss.
type OrderCache struct {
	rdb     *redis.Client
	ttl     time.Duration
	enabled bool
}

type cacheEntry struct {
	UserID uint64                     `json:"user_id"`
	Status *domain.OrderPaymentStatus `json:"status"`
}

func NewOrderCache(cfg *config.Redis) *OrderCache {
	if cfg.Addr == "" {
		return &OrderCache{}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &OrderCache{rdb: rdb, ttl: cfg.StatusTTL, enabled: true}
}

func statusKey(orderID uint64) string {
	return fmt.Sprintf("order_status:%d", orderID)
}

func (c *OrderCache) GetStatus(ctx context.Context, orderID uint64) (*domain.OrderPaymentStatus, error) {
	if !c.enabled {
		return nil, nil
	}

	raw, err := c.rdb.Get(ctx, statusKey(orderID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache read error: %w", err)
	}

	entry := cacheEntry{}
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("cache decode error: %w", err)
	}
	if entry.Status != nil {
		entry.Status.UserID = entry.UserID
	}

	return entry.Status, nil
}

func (c *OrderCache) SetStatus(ctx context.Context, status *domain.OrderPaymentStatus) error {
	if !c.enabled {
		return nil
	}

	raw, err := json.Marshal(cacheEntry{UserID: status.UserID, Status: status})
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, statusKey(status.OrderID), raw, c.ttl).Err()
}

func (c *OrderCache) Invalidate(ctx context.Context, orderID uint64) error {
	if !c.enabled {
		return nil
	}

	return c.rdb.Del(ctx, statusKey(orderID)).Err()
}
