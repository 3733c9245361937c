package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ValuationsBySource returns a timeseries panel showing which strategy
// produced each estimate.
func ValuationsBySource() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Estimates by Source").
		Description("Price estimates per second by estimate source").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`sum by (source) (rr:valuations:rate5m)`, "{{source}}", "A")).
		FillOpacity(30).
		LineWidth(1).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// FallbackRate returns a stat panel showing the share of estimates that had
// no usable market sample behind them.
func FallbackRate() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Fallback Estimates %").
		Description("Share of estimates from no_data, error_fallback, or manual_heuristic sources").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(
			`sum(rr:valuations:rate5m{source=~"no_data|error_fallback|manual_heuristic"}) / sum(rr:valuations:rate5m) * 100`,
			"", "A",
		)).
		Unit("percent").
		Thresholds(ThresholdsGreenYellowRed(25, 50)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// ValuationLatency returns a timeseries panel showing valuation duration
// percentiles, market lookups included.
func ValuationLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Valuation Duration").
		Description("Valuation duration percentiles including marketplace lookups").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(10).
		WithTarget(PromQuery(Quantile(0.50, "rr_valuation_duration_seconds"), "p50", "A")).
		WithTarget(PromQuery(Quantile(0.95, "rr_valuation_duration_seconds"), "p95", "B")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// RoutesByType returns a timeseries panel showing primary route decisions.
func RoutesByType() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Routing Decisions").
		Description("Primary routes recommended per hour by route type").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(12).
		WithTarget(PromQuery(
			`sum by (type) (increase(`+Sel("rr_routes_total")+`[1h]))`,
			"{{type}}", "A",
		)).
		FillOpacity(30).
		LineWidth(1).
		Legend(TableLegend("sum")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleBars)
}

// AuditFailures returns a stat panel showing routing results that could not
// be written to the audit log.
func AuditFailures() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Audit Write Failures (24h)").
		Description("Routing results that could not be persisted in the last 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`increase(`+Sel("rr_audit_write_failures_total")+`[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// SchedulerRuns returns a timeseries panel showing scheduled job outcomes.
func SchedulerRuns() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Scheduled Jobs").
		Description("Token refresh and quota poll runs per hour by outcome").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(6).
		WithTarget(PromQuery(
			`sum by (job_name, outcome) (increase(`+Sel("rr_scheduler_job_runs_total")+`[1h]))`,
			"{{job_name}} {{outcome}}", "A",
		)).
		FillOpacity(30).
		LineWidth(1).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleBars)
}
