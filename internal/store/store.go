// Package store persists routing results as an audit log. Business logic
// depends on the Store interface, never on the Postgres implementation.
package store

import (
	"context"
	"errors"
	"time"

	domain "github.com/donaldgifford/resale-router/pkg/types"
)

// ErrNotFound is returned when a routing result does not exist.
var ErrNotFound = errors.New("routing result not found")

// RoutingSummary is the indexed projection of a stored routing result.
type RoutingSummary struct {
	ID              string                `json:"id"`
	CreatedAt       time.Time             `json:"created_at"`
	Category        string                `json:"category"`
	Condition       domain.Condition      `json:"condition"`
	PrimaryRoute    domain.RouteType      `json:"primary_route"`
	EstimatedReturn float64               `json:"estimated_return"`
	SuggestedPrice  *float64              `json:"suggested_price"`
	Source          domain.EstimateSource `json:"source"`
	Confidence      domain.Confidence     `json:"confidence"`
}

// Store defines the audit-log operations.
type Store interface {
	SaveRoutingResult(ctx context.Context, r *domain.RoutingResult) error
	GetRoutingResult(ctx context.Context, id string) (*domain.RoutingResult, error)
	ListRoutingResults(ctx context.Context, q *RoutingQuery) ([]RoutingSummary, int, error)

	// Scheduler locks keep replicas from running the same job at once.
	AcquireSchedulerLock(ctx context.Context, jobName, holder string, ttl time.Duration) (bool, error)
	ReleaseSchedulerLock(ctx context.Context, jobName, holder string) error

	Ping(ctx context.Context) error
}
