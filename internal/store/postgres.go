package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/donaldgifford/resale-router/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool    *pgxpool.Pool
	nowFunc func() time.Time
}

// PostgresOption configures a PostgresStore.
type PostgresOption func(*postgresConfig)

type postgresConfig struct {
	maxConns int32
	nowFunc  func() time.Time
}

// WithMaxConns overrides the pool size.
func WithMaxConns(n int32) PostgresOption {
	return func(c *postgresConfig) {
		if n > 0 {
			c.maxConns = n
		}
	}
}

// WithStoreNowFunc overrides the clock used for lock expiry.
func WithStoreNowFunc(fn func() time.Time) PostgresOption {
	return func(c *postgresConfig) {
		c.nowFunc = fn
	}
}

// NewPostgresStore connects and pings the database.
func NewPostgresStore(
	ctx context.Context,
	connString string,
	opts ...PostgresOption,
) (*PostgresStore, error) {
	c := postgresConfig{maxConns: defaultPoolSize, nowFunc: time.Now}
	for _, opt := range opts {
		opt(&c)
	}

	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}
	cfg.MaxConns = c.maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool, nowFunc: c.nowFunc}, nil
}

// Close shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// SaveRoutingResult stores r. The full result is kept as JSON; the columns
// alongside it exist for filtering.
func (s *PostgresStore) SaveRoutingResult(ctx context.Context, r *domain.RoutingResult) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding routing result: %w", err)
	}

	args := pgx.NamedArgs{
		"id":               r.ID,
		"created_at":       r.CreatedAt,
		"category":         strings.ToLower(strings.TrimSpace(r.Category)),
		"condition":        string(r.Condition),
		"primary_route":    string(r.Primary.Type),
		"estimated_return": r.Primary.EstimatedReturn,
		"suggested_price":  r.Estimate.SuggestedPrice,
		"source":           string(r.Estimate.Source),
		"confidence":       string(r.Estimate.Confidence),
		"result":           body,
	}

	if _, err := s.pool.Exec(ctx, queryInsertRoutingResult, args); err != nil {
		return fmt.Errorf("inserting routing result: %w", err)
	}
	return nil
}

// GetRoutingResult returns the stored result with the given id.
func (s *PostgresStore) GetRoutingResult(ctx context.Context, id string) (*domain.RoutingResult, error) {
	var body []byte
	err := s.pool.QueryRow(ctx, queryGetRoutingResult, id).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting routing result: %w", err)
	}

	var r domain.RoutingResult
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decoding routing result: %w", err)
	}
	return &r, nil
}

// ListRoutingResults returns matching summaries, newest first, and the total
// number of matches.
func (s *PostgresStore) ListRoutingResults(
	ctx context.Context,
	q *RoutingQuery,
) ([]RoutingSummary, int, error) {
	if q == nil {
		q = &RoutingQuery{}
	}
	dataSQL, countSQL, args := q.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting routing results: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying routing results: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (RoutingSummary, error) {
		var r RoutingSummary
		err := row.Scan(
			&r.ID, &r.CreatedAt, &r.Category, &r.Condition, &r.PrimaryRoute,
			&r.EstimatedReturn, &r.SuggestedPrice, &r.Source, &r.Confidence,
		)
		return r, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scanning routing results: %w", err)
	}

	return out, total, nil
}

// AcquireSchedulerLock takes the lock for jobName unless another holder owns
// an unexpired one.
func (s *PostgresStore) AcquireSchedulerLock(
	ctx context.Context,
	jobName, holder string,
	ttl time.Duration,
) (bool, error) {
	var got string
	err := s.pool.QueryRow(ctx, queryAcquireSchedulerLock,
		jobName, holder, s.nowFunc().Add(ttl),
	).Scan(&got)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("acquiring scheduler lock: %w", err)
	}
	return true, nil
}

// ReleaseSchedulerLock drops the lock if holder owns it.
func (s *PostgresStore) ReleaseSchedulerLock(ctx context.Context, jobName, holder string) error {
	if _, err := s.pool.Exec(ctx, queryReleaseSchedulerLock, jobName, holder); err != nil {
		return fmt.Errorf("releasing scheduler lock: %w", err)
	}
	return nil
}
