package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	apiclient "github.com/donaldgifford/resale-router/internal/api/client"
	"github.com/donaldgifford/resale-router/internal/store"
	"github.com/donaldgifford/resale-router/internal/valuation"
	domain "github.com/donaldgifford/resale-router/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05"

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printEstimate(tw *tabWriter, e *domain.PriceEstimate) {
	tw.writef("Suggested Price:\t%s\n", price(e.SuggestedPrice, e.Currency))
	tw.writef("Confidence:\t%s\n", e.Confidence)
	tw.writef("Source:\t%s\n", e.Source)
	tw.writef("Range:\t%.2f - %.2f (median %.2f)\n", e.Range.Min, e.Range.Max, e.Range.Median)
	tw.writef("Sample:\t%d sold, %d active, %d estimated\n",
		e.SampleSize.Sold, e.SampleSize.Active, e.SampleSize.Estimated)
	if e.Reason != "" {
		tw.writef("Reason:\t%s\n", e.Reason)
	}
}

func printValuation(w io.Writer, v *valuation.Valuation) error {
	tw := newTabWriter(w)
	printEstimate(tw, &v.Estimate)
	if v.Fallback != "" {
		tw.writef("Fallback:\t%s\n", v.Fallback)
	}
	for i := range v.Attempts {
		a := &v.Attempts[i]
		tw.writef("Search:\t%s %q found %d, failed %d\n", a.Stage, a.Query, a.Found, a.Failed)
	}
	return tw.finish()
}

func printRouting(w io.Writer, r *domain.RoutingResult) error {
	tw := newTabWriter(w)
	if r.ID != "" {
		tw.writef("ID:\t%s\n", r.ID)
	}
	tw.writef("Category:\t%s (%s)\n", r.Category, r.Condition)
	printEstimate(tw, &r.Estimate)
	tw.writef("Net Profit:\t%.2f (shipping %.2f, fees %.2f)\n",
		r.Costs.NetProfit, r.Costs.ShippingCost, r.Costs.MarketplaceFee)
	if r.InstantOffer.Eligible {
		tw.writef("Instant Offer:\t%.2f\n", r.InstantOffer.Amount)
	} else {
		tw.writef("Instant Offer:\tnot eligible (%s)\n", r.InstantOffer.Rationale)
	}
	if err := tw.finish(); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	routes := append([]domain.DispositionRoute{r.Primary}, r.Alternatives...)
	tw = newTabWriter(w)
	tw.writef("PRIORITY\tROUTE\tRETURN\tTIME\tEFFORT\tREASON\n")
	for i := range routes {
		tw.writef("%d\t%s\t%.2f\t%s\t%s\t%s\n",
			routes[i].Priority,
			routes[i].Type,
			routes[i].EstimatedReturn,
			routes[i].TimeToMoney,
			routes[i].Effort,
			truncate(routes[i].Reason, 50),
		)
	}
	return tw.finish()
}

func printQueries(w io.Writer, cs []domain.SearchQueryCandidate) error {
	tw := newTabWriter(w)
	tw.writef("PRIORITY\tKIND\tQUERY\n")
	for _, c := range cs {
		tw.writef("%d\t%s\t%s\n", c.Priority, c.Kind, c.Text)
	}
	return tw.finish()
}

func printRouteSummaries(w io.Writer, rs []store.RoutingSummary) error {
	tw := newTabWriter(w)
	tw.writef("ID\tCREATED\tCATEGORY\tCONDITION\tROUTE\tRETURN\tPRICE\tSOURCE\n")
	for i := range rs {
		tw.writef("%s\t%s\t%s\t%s\t%s\t%.2f\t%s\t%s\n",
			rs[i].ID,
			rs[i].CreatedAt.Local().Format(timeLayout),
			truncate(rs[i].Category, 30),
			rs[i].Condition,
			rs[i].PrimaryRoute,
			rs[i].EstimatedReturn,
			price(rs[i].SuggestedPrice, ""),
			rs[i].Source,
		)
	}
	return tw.finish()
}

func printQuota(w io.Writer, q *apiclient.Quota) error {
	tw := newTabWriter(w)
	if q.Local == nil {
		tw.writef("Local:\tmarketplace search disabled\n")
	} else {
		tw.writef("Local:\t%d / %d used, %d remaining, resets %s\n",
			q.Local.Used, q.Local.Limit, q.Local.Remaining,
			q.Local.ResetAt.Local().Format(timeLayout))
	}
	if q.Remote != nil {
		tw.writef("eBay:\t%d / %d used, %d remaining, resets %s\n",
			q.Remote.Count, q.Remote.Limit, q.Remote.Remaining,
			q.Remote.ResetAt.Local().Format(timeLayout))
	}
	return tw.finish()
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func price(p *float64, currency string) string {
	if p == nil {
		return "-"
	}
	if currency == "" {
		return fmt.Sprintf("%.2f", *p)
	}
	return fmt.Sprintf("%.2f %s", *p, currency)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
