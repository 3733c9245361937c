// Package valuation runs the valuation-and-routing pipeline: query building,
// comparables search, statistics, cost modeling, and route selection, with
// a heuristic fallback whenever the market cannot be consulted.
package valuation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/resale-router/internal/comps"
	"github.com/donaldgifford/resale-router/internal/metrics"
	"github.com/donaldgifford/resale-router/pkg/cost"
	"github.com/donaldgifford/resale-router/pkg/disposition"
	"github.com/donaldgifford/resale-router/pkg/manual"
	"github.com/donaldgifford/resale-router/pkg/query"
	"github.com/donaldgifford/resale-router/pkg/stats"
	"github.com/donaldgifford/resale-router/pkg/tables"
	domain "github.com/donaldgifford/resale-router/pkg/types"
)

// ErrRecorderDisabled is returned by Route when persistence was requested
// but no recorder is configured.
var ErrRecorderDisabled = errors.New("routing result persistence is not configured")

// Fetcher gathers comparable listings.
type Fetcher interface {
	Fetch(
		ctx context.Context,
		queries []domain.SearchQueryCandidate,
		cond domain.Condition,
	) (*comps.Result, error)
}

// Recorder persists routing results for audit.
type Recorder interface {
	SaveRoutingResult(ctx context.Context, r *domain.RoutingResult) error
}

// Valuator is the pipeline entry point. It holds no per-request state and is
// safe for concurrent use.
type Valuator struct {
	tables   *tables.Tables
	fetcher  Fetcher
	recorder Recorder
	logger   *slog.Logger
	tracer   trace.Tracer
	nowFunc  func() time.Time
	idFunc   func() string
}

// Option configures a Valuator.
type Option func(*Valuator)

// WithFetcher enables live market lookups. Without one every valuation uses
// the heuristic estimator.
func WithFetcher(f Fetcher) Option {
	return func(v *Valuator) {
		v.fetcher = f
	}
}

// WithRecorder enables persistence of routing results.
func WithRecorder(r Recorder) Option {
	return func(v *Valuator) {
		v.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(v *Valuator) {
		v.logger = l
	}
}

// WithNowFunc overrides the clock used to stamp routing results.
func WithNowFunc(fn func() time.Time) Option {
	return func(v *Valuator) {
		v.nowFunc = fn
	}
}

// WithIDFunc overrides routing result id generation.
func WithIDFunc(fn func() string) Option {
	return func(v *Valuator) {
		v.idFunc = fn
	}
}

// New creates a Valuator over the given tables. The tables must not be
// modified afterwards.
func New(t *tables.Tables, opts ...Option) *Valuator {
	v := &Valuator{
		tables:  t,
		logger:  slog.Default(),
		tracer:  otel.Tracer("github.com/donaldgifford/resale-router/internal/valuation"),
		nowFunc: time.Now,
		idFunc:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Tables returns the lookup tables in use.
func (v *Valuator) Tables() *tables.Tables {
	return v.tables
}

// Valuation is an estimate with the lookup trail behind it.
type Valuation struct {
	Estimate domain.PriceEstimate          `json:"estimate"`
	Queries  []domain.SearchQueryCandidate `json:"queries"`
	Attempts []comps.Attempt               `json:"attempts,omitempty"`
	// Fallback explains why the heuristic estimator was used, if it was.
	Fallback string `json:"fallback,omitempty"`
}

// Valuate returns a price estimate for attrs. It never fails: market lookup
// problems degrade the estimate's source and confidence instead.
func (v *Valuator) Valuate(ctx context.Context, attrs *domain.ItemAttributes) domain.PriceEstimate {
	return v.Assess(ctx, attrs).Estimate
}

// Assess is Valuate with the queries, search attempts, and fallback reason
// that produced the estimate.
func (v *Valuator) Assess(ctx context.Context, attrs *domain.ItemAttributes) *Valuation {
	start := v.nowFunc()
	ctx, span := v.tracer.Start(ctx, "valuation.Valuate", trace.WithAttributes(
		attribute.String("category", attrs.Category),
		attribute.String("condition", string(attrs.Condition.Grade)),
	))
	defer span.End()

	out := v.assess(ctx, attrs)

	span.SetAttributes(
		attribute.String("source", string(out.Estimate.Source)),
		attribute.String("confidence", string(out.Estimate.Confidence)),
	)
	metrics.ValuationsTotal.WithLabelValues(
		string(out.Estimate.Source), string(out.Estimate.Confidence),
	).Inc()
	metrics.ValuationDuration.Observe(v.nowFunc().Sub(start).Seconds())

	return out
}

func (v *Valuator) assess(ctx context.Context, attrs *domain.ItemAttributes) *Valuation {
	if strings.TrimSpace(attrs.Category) == "" {
		return &Valuation{
			Estimate: domain.PriceEstimate{
				Currency:   v.tables.Stats.DefaultCurrency,
				Confidence: domain.ConfidenceLow,
				Source:     domain.SourceErrorFallback,
				Reason:     "item category is required",
			},
			Fallback: "missing category",
		}
	}

	queries := query.Build(attrs, &v.tables.Query)
	out := &Valuation{Queries: queries}

	if v.fetcher == nil {
		return v.fallback(ctx, attrs, out, "marketplace search is not configured")
	}

	res, err := v.fetcher.Fetch(ctx, queries, attrs.Condition.Grade)
	if err != nil {
		if errors.Is(err, comps.ErrCredentials) {
			return v.fallback(ctx, attrs, out, "marketplace credentials unavailable")
		}
		return v.fallback(ctx, attrs, out, fmt.Sprintf("comparables lookup failed: %v", err))
	}
	out.Attempts = res.Attempts

	est := stats.Analyze(res.Active, res.Sold, &v.tables.Stats)
	if est.Source == domain.SourceNoData {
		return v.fallback(ctx, attrs, out, "no comparable listings found")
	}

	if res.SoldEstimated && est.Reason == "" {
		est.Reason = "sold prices unavailable; estimated sold samples excluded from pricing"
	}
	out.Estimate = est
	return out
}

func (v *Valuator) fallback(
	ctx context.Context,
	attrs *domain.ItemAttributes,
	out *Valuation,
	reason string,
) *Valuation {
	v.logger.InfoContext(ctx, "using heuristic estimate",
		"category", attrs.Category,
		"reason", reason,
	)

	est := manual.Estimate(attrs, v.tables)
	est.Reason = reason + "; " + est.Reason
	out.Estimate = est
	out.Fallback = reason
	return out
}

// RouteRequest is the input to Route.
type RouteRequest struct {
	Item        domain.ItemAttributes
	Preferences domain.Preferences
	// Persist stores the result through the configured Recorder.
	Persist bool
}

// Route runs the full pipeline and recommends a disposition. The result is
// always returned; the error is non-nil only when persistence was requested
// and did not succeed.
func (v *Valuator) Route(ctx context.Context, req *RouteRequest) (*domain.RoutingResult, error) {
	ctx, span := v.tracer.Start(ctx, "valuation.Route", trace.WithAttributes(
		attribute.Bool("persist", req.Persist),
	))
	defer span.End()

	attrs := &req.Item
	est := v.Valuate(ctx, attrs)
	costs := cost.Cost(attrs.Category, attrs.SizeHints(), est.Price(), &v.tables.Cost)

	result := disposition.Route(&disposition.Input{
		Estimate:    est,
		Costs:       costs,
		Preferences: req.Preferences,
		Condition:   attrs.Condition.Grade,
		Category:    attrs.Category,
	}, &v.tables.Routing)
	result.ID = v.idFunc()
	result.CreatedAt = v.nowFunc().UTC()

	metrics.RoutesTotal.WithLabelValues(string(result.Primary.Type)).Inc()
	span.SetAttributes(
		attribute.String("route", string(result.Primary.Type)),
		attribute.String("result_id", result.ID),
	)

	v.logger.DebugContext(ctx, "item routed",
		"id", result.ID,
		"route", result.Primary.Type,
		"estimated_return", result.Primary.EstimatedReturn,
		"source", est.Source,
	)

	if !req.Persist {
		return &result, nil
	}

	if err := v.record(ctx, &result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist")
		return &result, err
	}
	return &result, nil
}

func (v *Valuator) record(ctx context.Context, r *domain.RoutingResult) error {
	if v.recorder == nil {
		return ErrRecorderDisabled
	}
	if err := v.recorder.SaveRoutingResult(ctx, r); err != nil {
		metrics.AuditWriteFailuresTotal.Inc()
		v.logger.ErrorContext(ctx, "recording routing result", "id", r.ID, "error", err)
		return fmt.Errorf("recording routing result: %w", err)
	}
	return nil
}
