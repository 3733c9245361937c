package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// APICallsRate returns a timeseries panel showing the eBay API call rate.
func APICallsRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("API Calls Rate").
		Description("eBay Browse and Finding API calls per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`rr:ebay_api_calls:rate5m`, "calls/s", "A")).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// DailyUsage returns a timeseries panel showing the rolling 24h eBay API
// usage with a threshold line at the daily budget.
func DailyUsage() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Daily Usage vs Limit").
		Description(fmt.Sprintf("Rolling 24h eBay API call count (limit: %d)", EbayDailyLimit)).
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(Sel("rr_ebay_daily_usage"), "local", "A")).
		WithTarget(PromQuery(
			fmt.Sprintf("%d - %s", EbayDailyLimit, Sel("rr_ebay_quota_remaining")),
			"reported by eBay", "B",
		)).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(float64(EbayDailyLimit)*0.8, float64(EbayDailyLimit))).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// LimitHits returns a stat panel showing the number of daily limit hits
// in the past 24 hours.
func LimitHits() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Limit Hits (24h)").
		Description("Times the eBay daily budget was reached in the last 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`increase(`+Sel("rr_ebay_daily_limit_hits_total")+`[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 3)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// CredentialHealth returns a timeseries panel comparing OAuth token
// requests with valuations that ran without a credential.
func CredentialHealth() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Credentials").
		Description("OAuth token requests and valuations that could not obtain a token").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`increase(`+Sel("rr_credential_refreshes_total")+`[1h])`, "refreshes/h", "A")).
		WithTarget(PromQuery(`increase(`+Sel("rr_credential_failures_total")+`[1h])`, "failures/h", "B")).
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
