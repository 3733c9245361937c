// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/resale-router/tools/dashgen/panels"
)

// BuildOverview constructs the Resale Router overview dashboard.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Resale Router Overview").
		Uid("rr-overview").
		Tags([]string{"rr", "resale-router"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.QuotaGauge()).
		WithPanel(panels.RemoteQuotaStat()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	b.WithRow(dashboard.NewRowBuilder("eBay API").
		WithPanel(panels.APICallsRate()).
		WithPanel(panels.DailyUsage()).
		WithPanel(panels.LimitHits()).
		WithPanel(panels.CredentialHealth()))

	b.WithRow(dashboard.NewRowBuilder("Comparables").
		WithPanel(panels.SearchRate()).
		WithPanel(panels.CascadeStages()).
		WithPanel(panels.ComparablesFound()))

	b.WithRow(dashboard.NewRowBuilder("Valuation").
		WithPanel(panels.ValuationsBySource()).
		WithPanel(panels.FallbackRate()).
		WithPanel(panels.ValuationLatency()))

	b.WithRow(dashboard.NewRowBuilder("Routing").
		WithPanel(panels.RoutesByType()).
		WithPanel(panels.AuditFailures()).
		WithPanel(panels.SchedulerRuns()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
