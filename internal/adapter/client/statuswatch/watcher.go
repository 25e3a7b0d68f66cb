package statuswatch

import (
	"context"
	"sync"
	"time"

	"github.com/kimsann/payway-checkout/internal/core/domain"
	"github.com/kimsann/payway-checkout/internal/core/port"
	"go.uber.org/zap"
)

// Result is the terminal state of a watch.
type Result string

const (
	ResultPaid      Result = "PAID"
	ResultFailed    Result = "FAILED"
	ResultCancelled Result = "CANCELLED"
	ResultTimedOut  Result = "TIMED_OUT"
)

const (
	defaultInterval     = 3 * time.Second
	defaultCeiling      = 5 * time.Minute
	defaultQueryTimeout = 5 * time.Second
)

// Watcher polls an order's payment status until it resolves or the overall
// ceiling passes. It compensates for the gateway callback being
// server-to-server: the party that opened the payment page has no other way
// to learn the outcome.
//
// A watcher owns its timers. Starting a new watch supersedes and stops any
// prior one, so re-invocation never leaks a second polling loop.
type Watcher struct {
	source       port.StatusSource
	logger       *zap.Logger
	interval     time.Duration
	ceiling      time.Duration
	queryTimeout time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	poke   chan struct{}
}

type Option func(*Watcher)

func WithInterval(d time.Duration) Option {
	return func(w *Watcher) { w.interval = d }
}

func WithCeiling(d time.Duration) Option {
	return func(w *Watcher) { w.ceiling = d }
}

func WithQueryTimeout(d time.Duration) Option {
	return func(w *Watcher) { w.queryTimeout = d }
}

func NewWatcher(source port.StatusSource, logger *zap.Logger, opts ...Option) *Watcher {
	w := &Watcher{
		source:       source,
		logger:       logger,
		interval:     defaultInterval,
		ceiling:      defaultCeiling,
		queryTimeout: defaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch starts polling for orderID and returns a channel that delivers
// exactly one Result. The first query fires immediately, then on every
// interval tick and on every Poke.
func (w *Watcher) Watch(ctx context.Context, orderID uint64) <-chan Result {
	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	poke := make(chan struct{}, 1)
	w.poke = poke
	w.mu.Unlock()

	results := make(chan Result, 1)
	go w.run(runCtx, cancel, orderID, poke, results)

	return results
}

// Poke requests an immediate re-check outside the regular interval, for
// moments when the caller has reason to believe the state just changed
// (the user came back from the payment page).
func (w *Watcher) Poke() {
	w.mu.Lock()
	poke := w.poke
	w.mu.Unlock()

	if poke == nil {
		return
	}
	select {
	case poke <- struct{}{}:
	default:
	}
}

// Stop cancels the active watch, if any.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
		w.poke = nil
	}
}

func (w *Watcher) run(ctx context.Context, cancel context.CancelFunc,
	orderID uint64, poke <-chan struct{}, results chan<- Result) {
	defer cancel()
	defer close(results)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	deadline := time.NewTimer(w.ceiling)
	defer deadline.Stop()

	if result, done := w.check(ctx, orderID); done {
		results <- result
		return
	}

	for {
		select {
		case <-ticker.C:
		case <-poke:
			w.logger.Debug("poked for immediate re-check", zap.Uint64("order", orderID))
		case <-deadline.C:
			w.logger.Warn("watch ceiling reached without resolution",
				zap.Uint64("order", orderID))
			results <- ResultTimedOut
			return
		case <-ctx.Done():
			return
		}

		if result, done := w.check(ctx, orderID); done {
			results <- result
			return
		}
	}
}

func (w *Watcher) check(ctx context.Context, orderID uint64) (Result, bool) {
	queryCtx, cancel := context.WithTimeout(ctx, w.queryTimeout)
	defer cancel()

	status, err := w.source.OrderPaymentStatus(queryCtx, orderID)
	if err != nil {
		// Individual query failures are survivable, the ceiling decides.
		w.logger.Debug("status query failed, will retry",
			zap.Uint64("order", orderID), zap.Error(err))
		return "", false
	}

	if status.IsPaid {
		return ResultPaid, true
	}
	switch status.Status {
	case domain.PaymentStatusFailed:
		return ResultFailed, true
	case domain.PaymentStatusCancelled:
		return ResultCancelled, true
	}

	return "", false
}
