// Package metrics defines Prometheus metrics for resale-router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rr"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "Whether the last readiness probe succeeded (1) or failed (0).",
	})
)

// eBay API metrics.
var (
	EbayAPICallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ebay_api_calls_total",
		Help:      "Total cumulative eBay API calls.",
	})

	EbayDailyUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ebay_daily_usage",
		Help:      "Current daily eBay API call count within the rolling 24-hour window.",
	})

	EbayDailyLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ebay_daily_limit_hits_total",
		Help:      "Total number of times the daily eBay API limit was reached.",
	})

	EbayQuotaRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ebay_quota_remaining",
		Help:      "Browse API calls remaining as last reported by the eBay Analytics API.",
	})

	CredentialRefreshesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_refreshes_total",
		Help:      "Total number of OAuth token requests sent to eBay.",
	})

	CredentialFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_failures_total",
		Help:      "Total number of valuations that could not obtain a credential.",
	})
)

// Comparables metrics.
var (
	SearchCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_calls_total",
		Help:      "Total number of comparable searches by listing kind.",
	}, []string{"kind"})

	SearchFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_failures_total",
		Help:      "Total number of failed comparable searches by listing kind.",
	}, []string{"kind"})

	CascadeStageTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cascade_stage_total",
		Help:      "Number of times each condition-filter stage was searched.",
	}, []string{"stage"})

	ComparablesFound = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "comparables_found",
		Help:      "Comparables returned per fetch by listing kind.",
		Buckets:   []float64{0, 1, 3, 5, 10, 20, 50, 100},
	}, []string{"kind"})

	EstimatedSoldTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "estimated_sold_total",
		Help:      "Total number of sold prices estimated from active listings.",
	})
)

// Valuation metrics.
var (
	ValuationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "valuations_total",
		Help:      "Total number of price estimates by source and confidence.",
	}, []string{"source", "confidence"})

	RoutesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "routes_total",
		Help:      "Total number of routing decisions by primary route type.",
	}, []string{"type"})

	ValuationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "valuation_duration_seconds",
		Help:      "Duration of valuations in seconds, including market lookups.",
		Buckets:   prometheus.DefBuckets,
	})

	AuditWriteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_write_failures_total",
		Help:      "Total number of routing results that could not be persisted.",
	})
)

// Scheduler metrics.
var (
	SchedulerJobRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scheduler_job_runs_total",
		Help:      "Total number of scheduled job runs by job and outcome.",
	}, []string{"job_name", "outcome"})
)
