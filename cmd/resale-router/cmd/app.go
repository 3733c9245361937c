package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/donaldgifford/resale-router/internal/api/handlers"
	"github.com/donaldgifford/resale-router/internal/comps"
	"github.com/donaldgifford/resale-router/internal/config"
	"github.com/donaldgifford/resale-router/internal/ebay"
	"github.com/donaldgifford/resale-router/internal/scheduler"
	"github.com/donaldgifford/resale-router/internal/store"
	"github.com/donaldgifford/resale-router/internal/valuation"
	"github.com/donaldgifford/resale-router/pkg/tables"
)

// app holds the wired components shared by serve and valuate.
type app struct {
	tables    *tables.Tables
	valuator  *valuation.Valuator
	limiter   *ebay.RateLimiter
	tokens    *ebay.OAuthTokenProvider
	analytics *ebay.AnalyticsClient
	store     *store.PostgresStore
	redis     *redis.Client
}

// newApp wires the pipeline from cfg. Marketplace search is enabled only
// with credentials; the audit log only with a database host.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	t, err := tables.Load(cfg.Pricing.TablesFile)
	if err != nil {
		return nil, fmt.Errorf("loading pricing tables: %w", err)
	}

	a := &app{tables: t}
	opts := []valuation.Option{valuation.WithLogger(logger)}

	if cfg.Ebay.Enabled() {
		searcher := a.marketplace(cfg, logger)
		opts = append(opts, valuation.WithFetcher(comps.NewFetcher(
			searcher,
			&t.Condition,
			comps.WithTokenProvider(a.tokens),
			comps.WithLogger(logger),
			comps.WithLimits(comps.Limits{
				MaxQueries:         cfg.Comparables.MaxQueries,
				PerQueryLimit:      cfg.Comparables.PerQueryLimit,
				Target:             cfg.Comparables.TargetComparables,
				CallTimeout:        cfg.Comparables.CallTimeout,
				EstimateSampleSize: cfg.Comparables.EstimateSampleSize,
			}),
		)))
	} else {
		logger.Warn("ebay credentials not configured, valuations use manual estimates only")
	}

	if cfg.Database.Enabled() {
		s, err := store.NewPostgresStore(ctx, cfg.Database.DSN(),
			store.WithMaxConns(int32(min(cfg.Database.PoolSize, 1<<15))), //nolint:gosec // bounded above
		)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		a.store = s
		opts = append(opts, valuation.WithRecorder(s))
	}

	a.valuator = valuation.New(t, opts...)
	return a, nil
}

func (a *app) marketplace(cfg *config.Config, logger *slog.Logger) ebay.Searcher {
	ec := cfg.Ebay

	a.limiter = ebay.NewRateLimiter(ec.RateLimit.PerSecond, ec.RateLimit.Burst, ec.RateLimit.DailyLimit)

	tokenOpts := []ebay.OAuthOption{
		ebay.WithTokenURL(ec.TokenURL),
		ebay.WithScope(ec.Scope),
		ebay.WithOAuthLogger(logger),
	}
	if cfg.CredentialsCache.Enabled {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.CredentialsCache.Addr,
			Password: cfg.CredentialsCache.Password,
			DB:       cfg.CredentialsCache.DB,
		})
		tokenOpts = append(tokenOpts,
			ebay.WithTokenCache(ebay.NewRedisTokenCache(a.redis, cfg.CredentialsCache.KeyPrefix)))
	}
	a.tokens = ebay.NewOAuthTokenProvider(ec.AppID, ec.CertID, tokenOpts...)

	a.analytics = ebay.NewAnalyticsClient(a.tokens, ebay.WithAnalyticsURL(ec.AnalyticsURL))

	browse := ebay.NewBrowseClient(a.tokens,
		ebay.WithBrowseURL(ec.BrowseURL),
		ebay.WithMarketplace(ec.Marketplace),
		ebay.WithRateLimiter(a.limiter),
	)

	var searcherOpts []ebay.SearcherOption
	if ec.CompletedSource == config.CompletedSourceFinding {
		searcherOpts = append(searcherOpts, ebay.WithFindingClient(ebay.NewFindingClient(ec.AppID,
			ebay.WithFindingURL(ec.FindingURL),
			ebay.WithGlobalID(ec.GlobalID),
			ebay.WithSoldOnly(true),
			ebay.WithFindingRateLimiter(a.limiter),
		)))
	}

	return ebay.NewMarketplaceSearcher(browse, searcherOpts...)
}

// scheduler builds the background jobs for the enabled components.
func (a *app) scheduler(cfg *config.Config, logger *slog.Logger) (*scheduler.Scheduler, error) {
	opts := []scheduler.Option{scheduler.WithLogger(logger)}
	if a.tokens != nil {
		opts = append(opts,
			scheduler.WithTokenRefresh(a.tokens, cfg.Schedule.TokenRefreshInterval),
			scheduler.WithQuotaPoll(a.analytics, cfg.Schedule.QuotaPollInterval),
		)
	}
	if a.store != nil {
		host, err := os.Hostname()
		if err != nil {
			host = "resale-router"
		}
		opts = append(opts, scheduler.WithLocker(a.store, fmt.Sprintf("%s-%d", host, os.Getpid())))
	}
	if a.redis != nil {
		opts = append(opts, scheduler.WithSharedCredentials())
	}
	return scheduler.New(opts...)
}

// pinger and routeReader keep a nil *PostgresStore from becoming a non-nil
// interface.
func (a *app) pinger() handlers.Pinger {
	if a.store == nil {
		return nil
	}
	return a.store
}

func (a *app) routeReader() handlers.RouteReader {
	if a.store == nil {
		return nil
	}
	return a.store
}

// quotaReporter is nil when search is disabled.
func (a *app) quotaReporter(s *scheduler.Scheduler) handlers.QuotaReporter {
	if a.analytics == nil {
		return nil
	}
	return s
}

func (a *app) close() error {
	var errs []error
	if a.store != nil {
		a.store.Close()
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	return errors.Join(errs...)
}
