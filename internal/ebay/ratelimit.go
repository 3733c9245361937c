package ebay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/donaldgifford/resale-router/internal/metrics"
)

// ErrDailyLimitReached is returned when the daily API call limit has been exhausted.
var ErrDailyLimitReached = errors.New("daily API limit reached")

// RateLimiter controls API call rate and daily usage limits shared by every
// eBay client in the process. It uses a token bucket for per-second limiting
// and a rolling 24-hour window for the daily quota.
type RateLimiter struct {
	limiter  *rate.Limiter
	daily    atomic.Int64
	maxDaily int64
	resetAt  time.Time
	mu       sync.Mutex
	nowFunc  func() time.Time
}

// LimiterState is a point-in-time view of the daily quota.
type LimiterState struct {
	Used      int64     `json:"used"`
	Limit     int64     `json:"limit"`
	Remaining int64     `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the time function for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// NewRateLimiter creates a rate limiter with the given per-second rate,
// burst size, and daily limit. The daily window resets 24 hours after it
// opened.
func NewRateLimiter(
	perSecond float64,
	burst int,
	maxDaily int64,
	opts ...RateLimiterOption,
) *RateLimiter {
	r := &RateLimiter{
		limiter:  rate.NewLimiter(rate.Limit(perSecond), burst),
		maxDaily: maxDaily,
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.resetAt = r.nowFunc().Add(24 * time.Hour)
	return r
}

// Wait blocks until the rate limiter allows the call, or the context is canceled.
// Returns ErrDailyLimitReached if the daily limit has been exhausted.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.checkDailyReset()

	if err := r.reserve(); err != nil {
		return err
	}

	if err := r.limiter.Wait(ctx); err != nil {
		r.daily.Add(-1)
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	return nil
}

// reserve claims one call from the daily quota.
func (r *RateLimiter) reserve() error {
	for {
		used := r.daily.Load()
		if used >= r.maxDaily {
			return fmt.Errorf("%w (%d/%d)", ErrDailyLimitReached, used, r.maxDaily)
		}
		if r.daily.CompareAndSwap(used, used+1) {
			return nil
		}
	}
}

// DailyCount returns the current daily call count.
func (r *RateLimiter) DailyCount() int64 {
	return r.daily.Load()
}

// Remaining returns the number of API calls remaining in the current window.
func (r *RateLimiter) Remaining() int64 {
	return max(r.maxDaily-r.daily.Load(), 0)
}

// Snapshot returns the current quota state.
func (r *RateLimiter) Snapshot() LimiterState {
	r.checkDailyReset()

	r.mu.Lock()
	resetAt := r.resetAt
	r.mu.Unlock()

	return LimiterState{
		Used:      r.daily.Load(),
		Limit:     r.maxDaily,
		Remaining: r.Remaining(),
		ResetAt:   resetAt,
	}
}

func (r *RateLimiter) checkDailyReset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFunc()
	if now.After(r.resetAt) {
		r.daily.Store(0)
		r.resetAt = now.Add(24 * time.Hour)
	}
}

// acquire waits on r, if set, and records API usage metrics.
func acquire(ctx context.Context, r *RateLimiter) error {
	if r == nil {
		metrics.EbayAPICallsTotal.Inc()
		return nil
	}
	if err := r.Wait(ctx); err != nil {
		if errors.Is(err, ErrDailyLimitReached) {
			metrics.EbayDailyLimitHits.Inc()
		}
		return fmt.Errorf("rate limit: %w", err)
	}
	metrics.EbayAPICallsTotal.Inc()
	metrics.EbayDailyUsage.Set(float64(r.DailyCount()))
	return nil
}
