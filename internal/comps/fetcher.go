// Package comps gathers comparable listings for a set of ranked search
// queries, widening the condition filter when the market is thin.
package comps

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/donaldgifford/resale-router/internal/ebay"
	"github.com/donaldgifford/resale-router/internal/metrics"
	"github.com/donaldgifford/resale-router/pkg/tables"
	domain "github.com/donaldgifford/resale-router/pkg/types"
)

// ErrCredentials is returned when the marketplace credential cannot be
// obtained. It fails the whole fetch; individual search failures never do.
var ErrCredentials = errors.New("acquiring marketplace credentials")

// Limits bounds the work done for a single fetch.
type Limits struct {
	MaxQueries         int
	PerQueryLimit      int
	Target             int
	CallTimeout        time.Duration
	EstimateSampleSize int
}

// DefaultLimits returns the stock fetch limits.
func DefaultLimits() Limits {
	return Limits{
		MaxQueries:         3,
		PerQueryLimit:      50,
		Target:             20,
		CallTimeout:        10 * time.Second,
		EstimateSampleSize: 10,
	}
}

// Result holds the deduplicated comparables from one fetch.
type Result struct {
	Active   []domain.ComparableListing
	Sold     []domain.ComparableListing
	Attempts []Attempt
	// SoldEstimated is set when sold data was inferred from active listings.
	SoldEstimated bool
}

// Total is the number of comparables gathered.
func (r *Result) Total() int {
	return len(r.Active) + len(r.Sold)
}

// Attempt records one query's pass through the cascade.
type Attempt struct {
	Query  string `json:"query"`
	Stage  Stage  `json:"stage"`
	Found  int    `json:"found"`
	Failed int    `json:"failed"`
}

// Fetcher issues searches against the marketplace.
type Fetcher struct {
	searcher   ebay.Searcher
	tokens     ebay.TokenProvider
	conditions *tables.ConditionTables
	limits     Limits
	logger     *slog.Logger
	tracer     trace.Tracer
	randFunc   func() float64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTokenProvider primes the marketplace credential before searching.
// A failure to obtain it aborts the fetch with ErrCredentials.
func WithTokenProvider(tp ebay.TokenProvider) Option {
	return func(f *Fetcher) {
		f.tokens = tp
	}
}

// WithLimits overrides the default limits. Zero fields keep their defaults.
func WithLimits(l Limits) Option {
	return func(f *Fetcher) {
		d := f.limits
		if l.MaxQueries > 0 {
			d.MaxQueries = l.MaxQueries
		}
		if l.PerQueryLimit > 0 {
			d.PerQueryLimit = l.PerQueryLimit
		}
		if l.Target > 0 {
			d.Target = l.Target
		}
		if l.CallTimeout > 0 {
			d.CallTimeout = l.CallTimeout
		}
		if l.EstimateSampleSize > 0 {
			d.EstimateSampleSize = l.EstimateSampleSize
		}
		f.limits = d
	}
}

// WithLogger sets the logger for the Fetcher.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = l
	}
}

// WithRandFunc replaces the source of the sold-price dampening factor.
// fn must return values in [0, 1).
func WithRandFunc(fn func() float64) Option {
	return func(f *Fetcher) {
		f.randFunc = fn
	}
}

// NewFetcher creates a Fetcher.
func NewFetcher(
	searcher ebay.Searcher,
	conditions *tables.ConditionTables,
	opts ...Option,
) *Fetcher {
	f := &Fetcher{
		searcher:   searcher,
		conditions: conditions,
		limits:     DefaultLimits(),
		logger:     slog.Default(),
		tracer:     otel.Tracer("github.com/donaldgifford/resale-router/internal/comps"),
		randFunc:   rand.Float64,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Limits returns the effective limits.
func (f *Fetcher) Limits() Limits {
	return f.limits
}

// Fetch runs the candidates, most specific first, through the condition
// cascade until enough comparables are found or MaxQueries candidates have
// been tried. Search failures are logged and skipped; the only error is
// ErrCredentials.
func (f *Fetcher) Fetch(
	ctx context.Context,
	queries []domain.SearchQueryCandidate,
	cond domain.Condition,
) (*Result, error) {
	ctx, span := f.tracer.Start(ctx, "comps.Fetch", trace.WithAttributes(
		attribute.Int("queries", len(queries)),
		attribute.String("condition", string(cond)),
	))
	defer span.End()

	if err := f.prime(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "credentials")
		return nil, err
	}

	r := &run{
		fetcher: f,
		stages:  Cascade(cond, f.conditions),
		active:  newBucket(),
		sold:    newBucket(),
	}

	for i, q := range queries {
		if i >= f.limits.MaxQueries || r.total() >= f.limits.Target {
			break
		}
		r.candidate(ctx, q)
	}

	res := &Result{
		Active:   r.active.items,
		Sold:     r.sold.items,
		Attempts: r.attempts,
	}

	if r.estimate && len(res.Sold) == 0 {
		res.Sold = EstimateSold(res.Active, f.limits.EstimateSampleSize, f.randFunc)
		res.SoldEstimated = len(res.Sold) > 0
		metrics.EstimatedSoldTotal.Add(float64(len(res.Sold)))
	}

	metrics.ComparablesFound.WithLabelValues(string(domain.ListingActive)).Observe(float64(len(res.Active)))
	metrics.ComparablesFound.WithLabelValues(string(domain.ListingCompleted)).Observe(float64(len(res.Sold)))

	span.SetAttributes(
		attribute.Int("active", len(res.Active)),
		attribute.Int("sold", len(res.Sold)),
		attribute.Bool("sold_estimated", res.SoldEstimated),
	)

	f.logger.Debug("comparables fetched",
		"active", len(res.Active),
		"sold", len(res.Sold),
		"sold_estimated", res.SoldEstimated,
		"attempts", len(res.Attempts),
	)

	return res, nil
}

func (f *Fetcher) prime(ctx context.Context) error {
	if f.tokens == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, f.limits.CallTimeout)
	defer cancel()

	if _, err := f.tokens.Token(ctx); err != nil {
		metrics.CredentialFailuresTotal.Inc()
		f.logger.Error("marketplace credential unavailable", "error", err)
		return fmt.Errorf("%w: %w", ErrCredentials, err)
	}
	return nil
}

// run is the state of one Fetch. It is only touched by the goroutine that
// called Fetch; searches report back through their own result slots.
type run struct {
	fetcher  *Fetcher
	stages   []Strategy
	active   *bucket
	sold     *bucket
	attempts []Attempt
	// estimate is set once the completed-listings source reports it cannot
	// serve sold data. Later searches skip it.
	estimate bool
}

func (r *run) total() int {
	return len(r.active.items) + len(r.sold.items)
}

// candidate walks one query through the strategy chain. Each strategy runs
// only when the previous one came back short.
func (r *run) candidate(ctx context.Context, q domain.SearchQueryCandidate) {
	for _, s := range r.stages {
		out := r.stage(ctx, q.Text, s)

		r.attempts = append(r.attempts, Attempt{
			Query:  q.Text,
			Stage:  s.Stage,
			Found:  len(out.active) + len(out.sold),
			Failed: out.failed,
		})
		metrics.CascadeStageTotal.WithLabelValues(string(s.Stage)).Inc()

		r.active.add(out.active)
		r.sold.add(out.sold)

		if len(out.active)+len(out.sold) >= s.Enough {
			return
		}
	}
}

type stageResult struct {
	active []domain.ComparableListing
	sold   []domain.ComparableListing
	failed int
}

// stage searches active and completed listings in parallel. Neither search
// can cancel the other; each records its own outcome.
func (r *run) stage(ctx context.Context, query string, s Strategy) stageResult {
	var (
		g                  errgroup.Group
		active, sold       []domain.ComparableListing
		activeErr, soldErr error
	)
	searchCompleted := !r.estimate

	g.Go(func() error {
		active, activeErr = r.fetcher.search(ctx, query, s, domain.ListingActive)
		return nil
	})
	if searchCompleted {
		g.Go(func() error {
			sold, soldErr = r.fetcher.search(ctx, query, s, domain.ListingCompleted)
			return nil
		})
	}
	_ = g.Wait()

	var out stageResult
	if activeErr == nil {
		out.active = active
	} else {
		out.failed++
	}

	switch {
	case !searchCompleted:
	case soldErr == nil:
		out.sold = sold
	case errors.Is(soldErr, ebay.ErrCompletedUnsupported):
		r.estimate = true
	default:
		out.failed++
	}

	return out
}

// search performs one bounded call. Errors are logged here and returned so
// the stage can count them.
func (f *Fetcher) search(
	ctx context.Context,
	query string,
	s Strategy,
	kind domain.ListingKind,
) ([]domain.ComparableListing, error) {
	ctx, span := f.tracer.Start(ctx, "comps.search", trace.WithAttributes(
		attribute.String("query", query),
		attribute.String("stage", string(s.Stage)),
		attribute.String("kind", string(kind)),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, f.limits.CallTimeout)
	defer cancel()

	metrics.SearchCallsTotal.WithLabelValues(string(kind)).Inc()

	listings, err := f.searcher.Search(ctx, ebay.SearchRequest{
		Query:        query,
		ConditionIDs: s.ConditionIDs,
		Kind:         kind,
		Limit:        f.limits.PerQueryLimit,
	})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ebay.ErrCompletedUnsupported) {
			f.logger.Debug("completed listings unavailable, estimating sold prices",
				"query", query, "error", err)
			return nil, err
		}
		span.SetStatus(codes.Error, "search failed")
		metrics.SearchFailuresTotal.WithLabelValues(string(kind)).Inc()
		f.logger.Warn("comparables search failed",
			"query", query,
			"kind", kind,
			"stage", s.Stage,
			"error", err,
		)
		return nil, err
	}

	span.SetAttributes(attribute.Int("results", len(listings)))
	return listings, nil
}

// bucket accumulates listings of one kind, keeping the first listing seen
// for each identity.
type bucket struct {
	seen  map[string]struct{}
	items []domain.ComparableListing
}

func newBucket() *bucket {
	return &bucket{seen: make(map[string]struct{}), items: []domain.ComparableListing{}}
}

func (b *bucket) add(listings []domain.ComparableListing) {
	for i := range listings {
		id := listings[i].Identity()
		if _, ok := b.seen[id]; ok {
			continue
		}
		b.seen[id] = struct{}{}
		b.items = append(b.items, listings[i])
	}
}
