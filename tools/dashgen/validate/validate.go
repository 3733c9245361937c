// Package validate checks generated PromQL against the metrics the server
// exports.
package validate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/prometheus/prometheus/promql/parser"
)

// Result collects validation problems. Errors fail generation; warnings are
// suspicious but legal.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether there were no errors.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0
}

// Merge appends o's problems to r.
func (r *Result) Merge(o Result) {
	r.Errors = append(r.Errors, o.Errors...)
	r.Warnings = append(r.Warnings, o.Warnings...)
}

var histogramSuffixes = []string{"_bucket", "_sum", "_count"}

// counterFuncs only make sense over monotonically increasing series.
var counterFuncs = []string{"rate", "irate", "increase"}

// Expr parses expr and checks that every selected metric is known.
// Recording rule outputs (names containing a colon) must be known too.
func Expr(where, expr string, known map[string]bool) Result {
	var res Result

	node, err := parser.ParseExpr(expr)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: parsing %q: %v", where, expr, err))
		return res
	}

	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		switch n := n.(type) {
		case *parser.VectorSelector:
			if n.Name != "" && !knownMetric(n.Name, known) {
				res.Errors = append(res.Errors, fmt.Sprintf("%s: unknown metric %q", where, n.Name))
			}
		case *parser.Call:
			if !slices.Contains(counterFuncs, n.Func.Name) {
				return nil
			}
			for _, arg := range n.Args {
				ms, ok := arg.(*parser.MatrixSelector)
				if !ok {
					continue
				}
				vs, ok := ms.VectorSelector.(*parser.VectorSelector)
				if ok && !counterLike(vs.Name) {
					res.Warnings = append(res.Warnings,
						fmt.Sprintf("%s: %s() over %q, which does not look like a counter", where, n.Func.Name, vs.Name))
				}
			}
		}
		return nil
	})

	return res
}

// Exprs validates a set of named expressions.
func Exprs(exprs map[string]string, known map[string]bool) Result {
	names := make([]string, 0, len(exprs))
	for name := range exprs {
		names = append(names, name)
	}
	slices.Sort(names)

	var res Result
	for _, name := range names {
		res.Merge(Expr(name, exprs[name], known))
	}
	return res
}

// Dashboard validates every Prometheus target in dash, including panels
// nested in rows.
func Dashboard(dash *dashboard.Dashboard, known map[string]bool) Result {
	var res Result
	for _, p := range dash.Panels {
		if p.Panel != nil {
			res.Merge(panel(p.Panel, known))
		}
		if p.RowPanel != nil {
			for i := range p.RowPanel.Panels {
				res.Merge(panel(&p.RowPanel.Panels[i], known))
			}
		}
	}
	return res
}

func panel(p *dashboard.Panel, known map[string]bool) Result {
	var res Result

	title := "untitled panel"
	if p.Title != nil {
		title = *p.Title
	}
	if len(p.Targets) == 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("panel %q has no targets", title))
	}

	for _, t := range p.Targets {
		var expr string
		switch q := t.(type) {
		case *prometheus.Dataquery:
			expr = q.Expr
		case prometheus.Dataquery:
			expr = q.Expr
		default:
			res.Warnings = append(res.Warnings, fmt.Sprintf("panel %q: non-Prometheus target %T", title, t))
			continue
		}
		res.Merge(Expr("panel "+title, expr, known))
	}
	return res
}

func knownMetric(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range histogramSuffixes {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}

func counterLike(name string) bool {
	for _, suffix := range append([]string{"_total"}, histogramSuffixes...) {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
