// Package ratelimit implements the fixed-window request limiter guarding the
// waitlist intake. The window resets wholesale rather than sliding, trading
// precision for O(1) memory and check cost per identity.
package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/momta/momta/internal/observability/metrics"
	"go.uber.org/zap"
)

// ErrInvalidArgument signals a caller contract violation: empty identity or a
// non-positive limit or window.
var ErrInvalidArgument = errors.New("invalid_argument")

// Result is the outcome of a single admission check. ResetAt is always the
// entry's current window reset, post-mutation.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Store is the backing counter state for one limiter instance. The memory
// store is authoritative per process; the redis store shares counters across
// instances without changing the check contract.
type Store interface {
	// Check applies the fixed-window admission rules for identity and
	// returns the decision. It never fails for well-formed input; a store
	// error (redis unreachable) is an infrastructure failure.
	Check(ctx context.Context, identity string, limit int, window time.Duration) (Result, error)

	// Sweep removes entries whose window has already elapsed and reports
	// how many were deleted.
	Sweep(ctx context.Context) (int, error)
}

// Limiter applies a fixed-window admission policy over an injected store.
type Limiter struct {
	store         Store
	limit         int
	window        time.Duration
	sweepInterval time.Duration

	log     *zap.Logger
	metrics *metrics.Metrics
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func New(store Store, limit int, window, sweepInterval time.Duration, log *zap.Logger, m *metrics.Metrics) *Limiter {
	return &Limiter{
		store:         store,
		limit:         limit,
		window:        window,
		sweepInterval: sweepInterval,
		log:           log.Named("ratelimit"),
		metrics:       m,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
}

// CheckLimit admits or rejects one request for identity under the supplied
// limit and window. Rejected attempts do not count against the budget.
func (l *Limiter) CheckLimit(ctx context.Context, identity string, limit int, window time.Duration) (Result, error) {
	if identity == "" || limit <= 0 || window <= 0 {
		return Result{}, ErrInvalidArgument
	}

	res, err := l.store.Check(ctx, identity, limit, window)
	if err != nil {
		return Result{}, err
	}

	l.metrics.ObserveLimitDecision(res.Allowed)
	return res, nil
}

// Allow applies the limiter's configured limit and window.
func (l *Limiter) Allow(ctx context.Context, identity string) (Result, error) {
	return l.CheckLimit(ctx, identity, l.limit, l.window)
}

// Start launches the periodic sweep of expired entries. The sweep runs
// independently of request traffic so steady-state memory stays bounded by the
// number of identities active within one window.
func (l *Limiter) Start() {
	go l.sweepLoop()
}

// Stop terminates the sweep goroutine and waits for it to exit.
func (l *Limiter) Stop() {
	close(l.stopCh)
	<-l.doneCh
}

func (l *Limiter) sweepLoop() {
	defer close(l.doneCh)

	ticker := time.NewTicker(l.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := l.store.Sweep(context.Background())
			if err != nil {
				l.log.Warn("sweep failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				l.metrics.ObserveLimitEvictions(removed)
				l.log.Debug("swept expired entries", zap.Int("removed", removed))
			}
		case <-l.stopCh:
			return
		}
	}
}
