package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/bargauge"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// SearchRate returns a timeseries panel showing comparable searches and
// failures by listing kind.
func SearchRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Comparable Searches").
		Description("Marketplace searches per second by listing kind, with failures").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`sum by (kind) (rr:search_calls:rate5m)`, "{{kind}}", "A")).
		WithTarget(PromQuery(`sum by (kind) (rr:search_failures:rate5m)`, "{{kind}} failed", "B")).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// CascadeStages returns a bar gauge panel showing how often each condition
// filter stage was searched.
func CascadeStages() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Condition Cascade").
		Description("Searches per condition-filter stage in the last hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum by (stage) (increase(`+Sel("rr_cascade_stage_total")+`[1h]))`,
			"{{stage}}", "A",
		)).
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}

// ComparablesFound returns a bar gauge panel showing the distribution of
// comparables returned per fetch.
func ComparablesFound() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Comparables per Fetch").
		Description("Distribution of comparables returned per fetch in the last hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(increase(`+Sel("rr_comparables_found_bucket")+`[1h])) by (le)`,
			"{{le}}", "A",
		)).
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}
