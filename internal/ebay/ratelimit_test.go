package ebay_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/resale-router/internal/ebay"
)

func TestRateLimiter_Wait(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		burst   int
		daily   int64
		calls   int
		wantErr bool
	}{
		{name: "within burst", burst: 5, daily: 5000, calls: 5},
		{name: "daily limit exhausted", burst: 10, daily: 2, calls: 3, wantErr: true},
		{name: "zero daily limit", burst: 1, daily: 0, calls: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rl := ebay.NewRateLimiter(100, tt.burst, tt.daily)

			var lastErr error
			for range tt.calls {
				if lastErr = rl.Wait(context.Background()); lastErr != nil {
					break
				}
			}

			if tt.wantErr {
				require.ErrorIs(t, lastErr, ebay.ErrDailyLimitReached)
				return
			}
			require.NoError(t, lastErr)
			assert.Equal(t, int64(tt.calls), rl.DailyCount())
		})
	}
}

func TestRateLimiter_Snapshot(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := ebay.NewRateLimiter(100, 10, 3,
		ebay.WithRateLimiterNowFunc(func() time.Time { return start }),
	)

	require.NoError(t, rl.Wait(context.Background()))

	got := rl.Snapshot()
	assert.Equal(t, ebay.LimiterState{
		Used:      1,
		Limit:     3,
		Remaining: 2,
		ResetAt:   start.Add(24 * time.Hour),
	}, got)
}

func TestRateLimiter_DailyReset(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	current := start

	rl := ebay.NewRateLimiter(
		100, 10, 2,
		ebay.WithRateLimiterNowFunc(func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return current
		}),
	)

	require.NoError(t, rl.Wait(context.Background()))
	require.NoError(t, rl.Wait(context.Background()))
	require.ErrorIs(t, rl.Wait(context.Background()), ebay.ErrDailyLimitReached)

	mu.Lock()
	current = start.Add(25 * time.Hour)
	mu.Unlock()

	require.NoError(t, rl.Wait(context.Background()))
	assert.Equal(t, int64(1), rl.DailyCount())
	assert.Equal(t, int64(1), rl.Remaining())
}

func TestRateLimiter_ContextCanceled(t *testing.T) {
	t.Parallel()

	// One call per ten seconds, burst one.
	rl := ebay.NewRateLimiter(0.1, 1, 5000)
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := rl.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter wait")
	assert.Equal(t, int64(1), rl.DailyCount())
}

func TestRateLimiter_ConcurrentCallersNeverExceedDailyLimit(t *testing.T) {
	t.Parallel()

	const (
		daily   = 10
		callers = 50
	)
	rl := ebay.NewRateLimiter(1e6, callers, daily)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
		denied  int
	)
	wg.Add(callers)
	for range callers {
		go func() {
			defer wg.Done()
			err := rl.Wait(context.Background())
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, ebay.ErrDailyLimitReached)
				denied++
				return
			}
			allowed++
		}()
	}
	wg.Wait()

	assert.Equal(t, daily, allowed)
	assert.Equal(t, callers-daily, denied)
	assert.Equal(t, int64(daily), rl.DailyCount())
	assert.Equal(t, int64(0), rl.Remaining())
}
