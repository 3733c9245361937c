// Package scheduler runs the background jobs that keep marketplace access
// warm: credential pre-fetch and quota polling.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/resale-router/internal/ebay"
	"github.com/donaldgifford/resale-router/internal/metrics"
)

// Job names, also used as scheduler lock keys and metric labels.
const (
	JobTokenRefresh = "token_refresh"
	JobQuotaPoll    = "quota_poll"
)

const jobTimeout = 30 * time.Second

// QuotaSource reports the marketplace's view of the search quota.
type QuotaSource interface {
	GetBrowseQuota(ctx context.Context) (*ebay.QuotaState, error)
}

// Locker serializes jobs across replicas. store.Store satisfies it.
type Locker interface {
	AcquireSchedulerLock(ctx context.Context, jobName, holder string, ttl time.Duration) (bool, error)
	ReleaseSchedulerLock(ctx context.Context, jobName, holder string) error
}

// Scheduler manages periodic credential refresh and quota polling.
type Scheduler struct {
	cron   *cron.Cron
	log    *slog.Logger
	tokens ebay.TokenProvider
	quota  QuotaSource
	locker Locker
	holder string
	shared bool

	tokenInterval time.Duration
	quotaInterval time.Duration

	mu        sync.RWMutex
	lastQuota *ebay.QuotaState
}

// Option configures the Scheduler.
type Option func(*Scheduler)

// WithTokenRefresh pre-fetches a credential from tokens every interval.
func WithTokenRefresh(tokens ebay.TokenProvider, interval time.Duration) Option {
	return func(s *Scheduler) {
		s.tokens = tokens
		s.tokenInterval = interval
	}
}

// WithQuotaPoll polls src every interval and exports the remaining quota.
func WithQuotaPoll(src QuotaSource, interval time.Duration) Option {
	return func(s *Scheduler) {
		s.quota = src
		s.quotaInterval = interval
	}
}

// WithLocker makes each run take a lock named after the job, held by holder.
func WithLocker(l Locker, holder string) Option {
	return func(s *Scheduler) {
		s.locker = l
		s.holder = holder
	}
}

// WithSharedCredentials marks the token provider as backed by a cache shared
// across replicas, so one replica's refresh warms them all and the refresh
// job may take the lock. Without it every replica refreshes its own cache.
func WithSharedCredentials() Option {
	return func(s *Scheduler) {
		s.shared = true
	}
}

// WithLogger sets the scheduler logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		s.log = l
	}
}

// New creates a Scheduler. Jobs without a source or with a non-positive
// interval are not registered.
func New(opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(),
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.tokens != nil && s.tokenInterval > 0 {
		if _, err := s.cron.AddFunc(
			"@every "+s.tokenInterval.String(),
			func() { s.run(JobTokenRefresh, s.tokenInterval, s.RunTokenRefresh) },
		); err != nil {
			return nil, err
		}
	}

	if s.quota != nil && s.quotaInterval > 0 {
		if _, err := s.cron.AddFunc(
			"@every "+s.quotaInterval.String(),
			func() { s.run(JobQuotaPoll, s.quotaInterval, s.RunQuotaPoll) },
		); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started", "jobs", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// LastQuota returns the most recent quota observation, or nil before the
// first successful poll.
func (s *Scheduler) LastQuota() *ebay.QuotaState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastQuota == nil {
		return nil
	}
	q := *s.lastQuota
	return &q
}

// RunTokenRefresh fetches a credential so that the first search after an
// expiry does not pay for the token round trip.
func (s *Scheduler) RunTokenRefresh(ctx context.Context) error {
	_, err := s.tokens.Token(ctx)
	return err
}

// RunQuotaPoll records the marketplace's remaining search quota.
func (s *Scheduler) RunQuotaPoll(ctx context.Context) error {
	q, err := s.quota.GetBrowseQuota(ctx)
	if err != nil {
		return err
	}

	metrics.EbayQuotaRemaining.Set(float64(q.Remaining))

	s.mu.Lock()
	s.lastQuota = q
	s.mu.Unlock()

	s.log.Debug("quota polled", "remaining", q.Remaining, "limit", q.Limit, "reset_at", q.ResetAt)
	return nil
}

// locked reports whether job runs under the cross-replica lock.
func (s *Scheduler) locked(job string) bool {
	if s.locker == nil {
		return false
	}
	return job != JobTokenRefresh || s.shared
}

// run executes fn under the job lock, if any, and records the outcome.
func (s *Scheduler) run(job string, ttl time.Duration, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if s.locked(job) {
		ok, err := s.locker.AcquireSchedulerLock(ctx, job, s.holder, ttl)
		if err != nil {
			s.log.Error("acquiring scheduler lock", "job", job, "error", err)
			metrics.SchedulerJobRunsTotal.WithLabelValues(job, "failure").Inc()
			return
		}
		if !ok {
			s.log.Debug("scheduler lock held elsewhere, skipping", "job", job)
			metrics.SchedulerJobRunsTotal.WithLabelValues(job, "skipped").Inc()
			return
		}
		defer func() {
			if err := s.locker.ReleaseSchedulerLock(context.Background(), job, s.holder); err != nil {
				s.log.Warn("releasing scheduler lock", "job", job, "error", err)
			}
		}()
	}

	if err := fn(ctx); err != nil {
		s.log.Error("scheduled job failed", "job", job, "error", err)
		metrics.SchedulerJobRunsTotal.WithLabelValues(job, "failure").Inc()
		return
	}
	metrics.SchedulerJobRunsTotal.WithLabelValues(job, "success").Inc()
}
