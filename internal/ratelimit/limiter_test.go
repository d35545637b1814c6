package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/momta/momta/internal/clock"
	"github.com/momta/momta/internal/observability/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLimiter(store Store) *Limiter {
	return New(store, 3, 15*time.Minute, 5*time.Minute, zap.NewNop(), (*metrics.Metrics)(nil))
}

func TestCheckLimitWindowBudget(t *testing.T) {
	store := NewMemoryStore(clock.NewSystemClock())
	limiter := newTestLimiter(store)
	ctx := context.Background()

	wantAllowed := []bool{true, true, true, false}
	wantRemaining := []int{2, 1, 0, 0}

	for i := 0; i < 4; i++ {
		res, err := limiter.CheckLimit(ctx, "a@x.com", 3, 15*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, wantAllowed[i], res.Allowed, "call %d", i+1)
		assert.Equal(t, wantRemaining[i], res.Remaining, "call %d", i+1)
	}
}

func TestCheckLimitRejectionDoesNotConsumeBudget(t *testing.T) {
	store := NewMemoryStore(clock.NewSystemClock())
	limiter := newTestLimiter(store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := limiter.CheckLimit(ctx, "a@x.com", 3, 15*time.Minute)
		require.NoError(t, err)
		require.True(t, res.Allowed)
	}

	first, err := limiter.CheckLimit(ctx, "a@x.com", 3, 15*time.Minute)
	require.NoError(t, err)
	second, err := limiter.CheckLimit(ctx, "a@x.com", 3, 15*time.Minute)
	require.NoError(t, err)

	assert.False(t, first.Allowed)
	assert.False(t, second.Allowed)
	assert.Equal(t, first.ResetAt, second.ResetAt)
}

func TestCheckLimitWindowElapse(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC))
	store := NewMemoryStore(clk)
	limiter := newTestLimiter(store)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := limiter.CheckLimit(ctx, "a@x.com", 3, 15*time.Minute)
		require.NoError(t, err)
	}

	// A fresh window re-admits regardless of prior rejections.
	clk.Advance(15*time.Minute + time.Second)
	res, err := limiter.CheckLimit(ctx, "a@x.com", 3, 15*time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 2, res.Remaining)
	assert.Equal(t, clk.Now().Add(15*time.Minute), res.ResetAt)
}

func TestCheckLimitIdentitiesAreIndependent(t *testing.T) {
	store := NewMemoryStore(clock.NewSystemClock())
	limiter := newTestLimiter(store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := limiter.CheckLimit(ctx, "a@x.com", 3, 15*time.Minute)
		require.NoError(t, err)
		require.True(t, res.Allowed)
	}

	res, err := limiter.CheckLimit(ctx, "b@x.com", 3, 15*time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 2, res.Remaining)
}

func TestCheckLimitInvalidArguments(t *testing.T) {
	limiter := newTestLimiter(NewMemoryStore(clock.NewSystemClock()))
	ctx := context.Background()

	_, err := limiter.CheckLimit(ctx, "", 3, 15*time.Minute)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = limiter.CheckLimit(ctx, "a@x.com", 0, 15*time.Minute)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = limiter.CheckLimit(ctx, "a@x.com", 3, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestMemoryStoreSweep(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC))
	store := NewMemoryStore(clk)
	ctx := context.Background()

	_, err := store.Check(ctx, "a@x.com", 3, 10*time.Minute)
	require.NoError(t, err)
	_, err = store.Check(ctx, "b@x.com", 3, 30*time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	clk.Advance(20 * time.Minute)
	removed, err := store.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())

	// The surviving entry still carries its count.
	res, err := store.Check(ctx, "b@x.com", 3, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Remaining)
}

func TestMemoryStoreConcurrentChecks(t *testing.T) {
	store := NewMemoryStore(clock.NewSystemClock())
	limiter := newTestLimiter(store)
	ctx := context.Background()

	const callers = 20
	allowed := make(chan bool, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := limiter.CheckLimit(ctx, "a@x.com", 3, 15*time.Minute)
			if err != nil {
				t.Error(err)
				return
			}
			allowed <- res.Allowed
		}()
	}
	wg.Wait()
	close(allowed)

	admitted := 0
	for ok := range allowed {
		if ok {
			admitted++
		}
	}
	assert.Equal(t, 3, admitted)
}
