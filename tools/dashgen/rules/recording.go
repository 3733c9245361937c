package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "rr-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "rr-recording",
					Rules: []Rule{
						{
							Record: "rr:http_requests:rate5m",
							Expr:   `sum by (path) (rate(rr_http_requests_total[5m]))`,
						},
						{
							Record: "rr:http_errors:rate5m",
							Expr:   `sum by (path) (rate(rr_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "rr:ebay_api_calls:rate5m",
							Expr:   `rate(rr_ebay_api_calls_total[5m])`,
						},
						{
							Record: "rr:search_calls:rate5m",
							Expr:   `sum by (kind) (rate(rr_search_calls_total[5m]))`,
						},
						{
							Record: "rr:search_failures:rate5m",
							Expr:   `sum by (kind) (rate(rr_search_failures_total[5m]))`,
						},
						{
							Record: "rr:valuations:rate5m",
							Expr:   `sum by (source, confidence) (rate(rr_valuations_total[5m]))`,
						},
					},
				},
			},
		},
	}
}
