package store

import (
	"fmt"
	"strings"
	"time"

	domain "github.com/donaldgifford/resale-router/pkg/types"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// RoutingQuery filters the audit log. Nil fields are not filtered on.
type RoutingQuery struct {
	Route     *domain.RouteType
	Category  *string
	Source    *domain.EstimateSource
	Since     *time.Time
	MinReturn *float64
	Limit     int
	Offset    int
}

const summarySelect = `SELECT id, created_at, category, condition, primary_route,
	estimated_return, suggested_price, source, confidence
FROM routing_results`

const countSelect = "SELECT COUNT(*) FROM routing_results"

// ToSQL builds the data and count statements with positional parameters.
// Results are newest first.
func (q *RoutingQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var where []string
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if q.Route != nil {
		add("primary_route = $%d", string(*q.Route))
	}
	if q.Category != nil {
		add("category = $%d", strings.ToLower(*q.Category))
	}
	if q.Source != nil {
		add("source = $%d", string(*q.Source))
	}
	if q.Since != nil {
		add("created_at >= $%d", *q.Since)
	}
	if q.MinReturn != nil {
		add("estimated_return >= $%d", *q.MinReturn)
	}

	var whereClause string
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		summarySelect, whereClause, limit, max(q.Offset, 0),
	)
	countSQL = countSelect + whereClause

	return dataSQL, countSQL, args
}
