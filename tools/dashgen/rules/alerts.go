package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// resale-router operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "rr-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "rr-alerts",
					Rules: []Rule{
						{
							Alert: "RrDown",
							Expr:  `absent(up{job="resale-router"})`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Resale Router is down",
								"description": "The resale-router job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert: "RrReadinessDown",
							Expr:  `rr_readyz_up == 0`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Resale Router readiness check is failing",
								"description": "The audit log database has been unreachable for more than 2 minutes.",
							},
						},
						{
							Alert: "RrHighErrorRate",
							Expr:  `sum(rr:http_errors:rate5m) / sum(rr:http_requests:rate5m) > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on Resale Router",
								"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert: "RrSearchFailures",
							Expr:  `sum(rr:search_failures:rate5m) / sum(rr:search_calls:rate5m) > 0.25`,
							For:   "10m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Marketplace searches are failing",
								"description": "More than a quarter of comparable searches have failed for 10 minutes; estimates are degrading to fallbacks.",
							},
						},
						{
							Alert: "RrFallbackEstimates",
							Expr:  `sum(rr:valuations:rate5m{source=~"no_data|error_fallback"}) / sum(rr:valuations:rate5m) > 0.5`,
							For:   "15m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Most estimates have no market data",
								"description": "Over half of price estimates in the last 15 minutes came from no_data or error_fallback sources.",
							},
						},
						{
							Alert: "RrEbayQuotaHigh",
							Expr:  `rr_ebay_daily_usage > 4000`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "eBay API daily usage is above 80% of the budget",
								"description": "Daily eBay API usage has exceeded 4000 calls (budget is 5000).",
							},
						},
						{
							Alert: "RrEbayLimitReached",
							Expr:  `increase(rr_ebay_daily_limit_hits_total[5m]) > 0`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "eBay API daily budget has been reached",
								"description": "The daily eBay call budget is exhausted. Valuations use manual estimates until reset.",
							},
						},
						{
							Alert: "RrAuditWriteFailures",
							Expr:  `increase(rr_audit_write_failures_total[15m]) > 0`,
							For:   "1m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Routing results are not being recorded",
								"description": "One or more routing results could not be written to the audit log.",
							},
						},
						{
							Alert: "RrSchedulerJobFailing",
							Expr:  `increase(rr_scheduler_job_runs_total{outcome="failure"}[1h]) > 2`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "A scheduled job is failing repeatedly",
								"description": "Token refresh or quota polling has failed more than twice in the last hour.",
							},
						},
					},
				},
			},
		},
	}
}
