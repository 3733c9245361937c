//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/donaldgifford/resale-router/internal/store"
	domain "github.com/donaldgifford/resale-router/pkg/types"
)

func setupPostgres(t *testing.T) *store.PostgresStore {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("rr_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := store.NewPostgresStore(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	require.NoError(t, s.Migrate(ctx))
	// Migrating twice is a no-op.
	require.NoError(t, s.Migrate(ctx))

	return s
}

func routingResult(route domain.RouteType, category string, created time.Time) *domain.RoutingResult {
	price := 120.0
	return &domain.RoutingResult{
		ID: uuid.NewString(),
		Primary: domain.DispositionRoute{
			Type:            route,
			Priority:        1,
			EstimatedReturn: 73.48,
			TimeToMoney:     domain.TimeWeeks,
			Effort:          domain.EffortHigh,
		},
		Alternatives: []domain.DispositionRoute{
			{Type: domain.RouteDonation, Priority: 2, TimeToMoney: domain.TimeNone, Effort: domain.EffortLow},
		},
		Estimate: domain.PriceEstimate{
			SuggestedPrice: &price,
			Currency:       "USD",
			Confidence:     domain.ConfidenceMedium,
			Source:         domain.SourceSoldListings,
			SampleSize:     domain.SampleSize{Sold: 5, Total: 5},
		},
		Costs:     domain.CostBreakdown{Price: 120, ShippingCost: 30, MarketplaceFee: 15.9, NetProfit: 74.1},
		Category:  category,
		Condition: domain.ConditionGood,
		CreatedAt: created.UTC().Truncate(time.Microsecond),
	}
}

func TestPostgresStore_RoutingResults(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()
	now := time.Now()

	resale := routingResult(domain.RouteResale, "Kitchen", now.Add(-time.Hour))
	donation := routingResult(domain.RouteDonation, "books", now)
	donation.Estimate.SuggestedPrice = nil
	donation.Estimate.Source = domain.SourceNoData

	require.NoError(t, s.SaveRoutingResult(ctx, resale))
	require.NoError(t, s.SaveRoutingResult(ctx, donation))

	t.Run("get round trips the full result", func(t *testing.T) {
		got, err := s.GetRoutingResult(ctx, resale.ID)
		require.NoError(t, err)
		assert.Equal(t, resale.Primary, got.Primary)
		assert.Equal(t, resale.Alternatives, got.Alternatives)
		assert.Equal(t, resale.Costs, got.Costs)
		assert.True(t, resale.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := s.GetRoutingResult(ctx, uuid.NewString())
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		got, total, err := s.ListRoutingResults(ctx, &store.RoutingQuery{})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, got, 2)
		assert.Equal(t, donation.ID, got[0].ID)
		assert.Nil(t, got[0].SuggestedPrice)
		assert.Equal(t, "kitchen", got[1].Category)
		require.NotNil(t, got[1].SuggestedPrice)
		assert.InDelta(t, 120.0, *got[1].SuggestedPrice, 0.001)
	})

	t.Run("filter by route", func(t *testing.T) {
		route := domain.RouteResale
		got, total, err := s.ListRoutingResults(ctx, &store.RoutingQuery{Route: &route})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, got, 1)
		assert.Equal(t, resale.ID, got[0].ID)
		assert.InDelta(t, 73.48, got[0].EstimatedReturn, 0.001)
	})
}

func TestPostgresStore_SchedulerLock(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	ok, err := s.AcquireSchedulerLock(ctx, "quota-poll", "replica-a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.AcquireSchedulerLock(ctx, "quota-poll", "replica-b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "unexpired lock is not stolen")

	require.NoError(t, s.ReleaseSchedulerLock(ctx, "quota-poll", "replica-a"))

	ok, err = s.AcquireSchedulerLock(ctx, "quota-poll", "replica-b", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
