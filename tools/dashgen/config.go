package main

import "errors"

// KnownMetrics is the set of metric names exported by resale-router plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"rr_http_request_duration_seconds": true,
	"rr_http_requests_total":           true,
	"rr_readyz_up":                     true,

	// eBay API metrics.
	"rr_ebay_api_calls_total":        true,
	"rr_ebay_daily_usage":            true,
	"rr_ebay_daily_limit_hits_total": true,
	"rr_ebay_quota_remaining":        true,
	"rr_credential_refreshes_total":  true,
	"rr_credential_failures_total":   true,

	// Comparables metrics.
	"rr_search_calls_total":    true,
	"rr_search_failures_total": true,
	"rr_cascade_stage_total":   true,
	"rr_comparables_found":     true,
	"rr_estimated_sold_total":  true,

	// Valuation metrics.
	"rr_valuations_total":           true,
	"rr_routes_total":               true,
	"rr_valuation_duration_seconds": true,
	"rr_audit_write_failures_total": true,

	// Scheduler metrics.
	"rr_scheduler_job_runs_total": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}

// knownWith returns KnownMetrics extended with recording rule outputs.
func knownWith(records []string) map[string]bool {
	known := make(map[string]bool, len(KnownMetrics)+len(records))
	for k, v := range KnownMetrics {
		known[k] = v
	}
	for _, r := range records {
		known[r] = true
	}
	return known
}
