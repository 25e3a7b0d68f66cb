package statuswatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kimsann/payway-checkout/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// scriptedSource returns the queued answers in order and sticks on the last
// one. It counts queries so tests can assert polling actually stopped.
type scriptedSource struct {
	mu      sync.Mutex
	answers []sourceAnswer
	calls   int
}

type sourceAnswer struct {
	status *domain.OrderPaymentStatus
	err    error
}

func (s *scriptedSource) OrderPaymentStatus(_ context.Context, orderID uint64) (*domain.OrderPaymentStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	idx := s.calls - 1
	if idx >= len(s.answers) {
		idx = len(s.answers) - 1
	}
	a := s.answers[idx]
	if a.err != nil {
		return nil, a.err
	}
	st := *a.status
	st.OrderID = orderID
	return &st, nil
}

func (s *scriptedSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func pending() *domain.OrderPaymentStatus {
	return &domain.OrderPaymentStatus{Status: domain.PaymentStatusPending}
}

func paid() *domain.OrderPaymentStatus {
	return &domain.OrderPaymentStatus{IsPaid: true, Status: domain.PaymentStatusPaid}
}

func awaitResult(t *testing.T, results <-chan Result) Result {
	t.Helper()
	select {
	case result := <-results:
		return result
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not resolve in time")
		return ""
	}
}

func TestWatcher_ResolvesOutcomes(t *testing.T) {
	tests := []struct {
		name      string
		answers   []sourceAnswer
		expResult Result
	}{
		{
			name:      "Paid on first check",
			answers:   []sourceAnswer{{status: paid()}},
			expResult: ResultPaid,
		},
		{
			name: "Paid after pending polls",
			answers: []sourceAnswer{
				{status: pending()}, {status: pending()}, {status: paid()},
			},
			expResult: ResultPaid,
		},
		{
			name: "Failed",
			answers: []sourceAnswer{
				{status: pending()},
				{status: &domain.OrderPaymentStatus{Status: domain.PaymentStatusFailed}},
			},
			expResult: ResultFailed,
		},
		{
			name: "Cancelled",
			answers: []sourceAnswer{
				{status: &domain.OrderPaymentStatus{Status: domain.PaymentStatusCancelled}},
			},
			expResult: ResultCancelled,
		},
		{
			name: "Query errors are retried",
			answers: []sourceAnswer{
				{err: errors.New("connection refused")},
				{err: errors.New("connection refused")},
				{status: paid()},
			},
			expResult: ResultPaid,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			source := &scriptedSource{answers: test.answers}
			w := NewWatcher(source, zap.NewNop(),
				WithInterval(5*time.Millisecond), WithCeiling(2*time.Second))
			defer w.Stop()

			result := awaitResult(t, w.Watch(context.Background(), 7))
			assert.Equal(t, test.expResult, result)
		})
	}
}

func TestWatcher_StopsPollingAfterResolution(t *testing.T) {
	source := &scriptedSource{answers: []sourceAnswer{
		{status: pending()}, {status: paid()},
	}}
	w := NewWatcher(source, zap.NewNop(),
		WithInterval(5*time.Millisecond), WithCeiling(2*time.Second))
	defer w.Stop()

	result := awaitResult(t, w.Watch(context.Background(), 7))
	assert.Equal(t, ResultPaid, result)

	settled := source.callCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, source.callCount())
}

func TestWatcher_CeilingTimesOut(t *testing.T) {
	source := &scriptedSource{answers: []sourceAnswer{{status: pending()}}}
	w := NewWatcher(source, zap.NewNop(),
		WithInterval(5*time.Millisecond), WithCeiling(30*time.Millisecond))
	defer w.Stop()

	result := awaitResult(t, w.Watch(context.Background(), 7))
	assert.Equal(t, ResultTimedOut, result)
}

func TestWatcher_PokeTriggersImmediateCheck(t *testing.T) {
	source := &scriptedSource{answers: []sourceAnswer{
		{status: pending()}, {status: paid()},
	}}
	// Interval far beyond the test horizon: only a poke can reach the
	// second answer.
	w := NewWatcher(source, zap.NewNop(),
		WithInterval(time.Hour), WithCeiling(time.Hour))
	defer w.Stop()

	results := w.Watch(context.Background(), 7)

	assert.Eventually(t, func() bool { return source.callCount() >= 1 },
		time.Second, time.Millisecond)
	w.Poke()

	assert.Equal(t, ResultPaid, awaitResult(t, results))
}

func TestWatcher_RestartSupersedesPriorWatch(t *testing.T) {
	source := &scriptedSource{answers: []sourceAnswer{{status: pending()}}}
	w := NewWatcher(source, zap.NewNop(),
		WithInterval(5*time.Millisecond), WithCeiling(time.Hour))
	defer w.Stop()

	first := w.Watch(context.Background(), 7)

	second := w.Watch(context.Background(), 7)

	// The superseded watch must release its loop: its channel closes with
	// no result delivered.
	select {
	case _, open := <-first:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("superseded watch did not shut down")
	}

	source.mu.Lock()
	source.answers = []sourceAnswer{{status: paid()}}
	source.calls = 0
	source.mu.Unlock()

	assert.Equal(t, ResultPaid, awaitResult(t, second))
}

func TestWatcher_StopCancelsWatch(t *testing.T) {
	source := &scriptedSource{answers: []sourceAnswer{{status: pending()}}}
	w := NewWatcher(source, zap.NewNop(),
		WithInterval(5*time.Millisecond), WithCeiling(time.Hour))

	results := w.Watch(context.Background(), 7)
	w.Stop()

	select {
	case _, open := <-results:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("stopped watch did not shut down")
	}

	// Poke after Stop must be a harmless no-op.
	w.Poke()
}
