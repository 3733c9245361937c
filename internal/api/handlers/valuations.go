package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/resale-router/internal/valuation"
	"github.com/donaldgifford/resale-router/pkg/query"
	"github.com/donaldgifford/resale-router/pkg/tables"
	domain "github.com/donaldgifford/resale-router/pkg/types"
)

// Valuator runs the pricing pipeline.
type Valuator interface {
	Assess(ctx context.Context, attrs *domain.ItemAttributes) *valuation.Valuation
	Route(ctx context.Context, req *valuation.RouteRequest) (*domain.RoutingResult, error)
}

// ValuationHandler serves valuation, routing, and query-candidate endpoints.
type ValuationHandler struct {
	valuator Valuator
	queries  *tables.QueryTables
	timeout  time.Duration
}

// NewValuationHandler creates a new ValuationHandler. A positive timeout
// bounds each pipeline run.
func NewValuationHandler(v Valuator, qt *tables.QueryTables, timeout time.Duration) *ValuationHandler {
	return &ValuationHandler{valuator: v, queries: qt, timeout: timeout}
}

// ValuateInput is the request body for the valuation endpoint.
type ValuateInput struct {
	Body domain.ItemAttributes
}

// ValuateOutput is the response for the valuation endpoint.
type ValuateOutput struct {
	Body valuation.Valuation
}

// RouteInput is the request body for the routing endpoint.
type RouteInput struct {
	Body struct {
		Item        domain.ItemAttributes `json:"item"                  doc:"Item to value and route"`
		Preferences domain.Preferences    `json:"preferences,omitempty" doc:"Seller preferences"`
		Persist     bool                  `json:"persist,omitempty"     doc:"Record the result in the audit log"`
	}
}

// RouteBody is a routing result plus the outcome of persisting it.
type RouteBody struct {
	Result       domain.RoutingResult `json:"result"`
	Persisted    bool                 `json:"persisted"`
	PersistError string               `json:"persist_error,omitempty" doc:"Why the requested persist did not happen"`
}

// RouteOutput is the response for the routing endpoint.
type RouteOutput struct {
	Body RouteBody
}

// QueriesInput is the request body for the query-candidates endpoint.
type QueriesInput struct {
	Body domain.ItemAttributes
}

// QueriesOutput is the response for the query-candidates endpoint.
type QueriesOutput struct {
	Body struct {
		Candidates []domain.SearchQueryCandidate `json:"candidates"`
	}
}

// Valuate prices an item.
func (h *ValuationHandler) Valuate(ctx context.Context, input *ValuateInput) (*ValuateOutput, error) {
	ctx, cancel := h.bound(ctx)
	defer cancel()

	return &ValuateOutput{Body: *h.valuator.Assess(ctx, &input.Body)}, nil
}

// Route prices an item and recommends a disposition. A failed persist does
// not fail the request: the result is returned with persisted=false.
func (h *ValuationHandler) Route(ctx context.Context, input *RouteInput) (*RouteOutput, error) {
	ctx, cancel := h.bound(ctx)
	defer cancel()

	result, err := h.valuator.Route(ctx, &valuation.RouteRequest{
		Item:        input.Body.Item,
		Preferences: input.Body.Preferences,
		Persist:     input.Body.Persist,
	})
	if result == nil {
		return nil, huma.Error500InternalServerError("routing failed")
	}

	out := &RouteOutput{}
	out.Body.Result = *result
	switch {
	case err == nil:
		out.Body.Persisted = input.Body.Persist
	case errors.Is(err, valuation.ErrRecorderDisabled):
		out.Body.PersistError = "audit log is not configured"
	default:
		out.Body.PersistError = err.Error()
	}
	return out, nil
}

// Queries returns the search candidates the pipeline would try for an item.
func (h *ValuationHandler) Queries(_ context.Context, input *QueriesInput) (*QueriesOutput, error) {
	out := &QueriesOutput{}
	out.Body.Candidates = query.Build(&input.Body, h.queries)
	return out, nil
}

func (h *ValuationHandler) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.timeout)
}

// RegisterValuationRoutes registers the pipeline endpoints with the Huma API.
func RegisterValuationRoutes(api huma.API, h *ValuationHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "create-valuation",
		Method:      http.MethodPost,
		Path:        "/api/v1/valuations",
		Summary:     "Value an item",
		Description: "Estimates a resale price from comparable listings, falling back to manual heuristics.",
		Tags:        []string{"valuations"},
	}, h.Valuate)

	huma.Register(api, huma.Operation{
		OperationID: "create-route",
		Method:      http.MethodPost,
		Path:        "/api/v1/routes",
		Summary:     "Route an item",
		Description: "Values an item and recommends resale, instant offer, local pickup, or donation.",
		Tags:        []string{"routes"},
	}, h.Route)

	huma.Register(api, huma.Operation{
		OperationID: "build-queries",
		Method:      http.MethodPost,
		Path:        "/api/v1/queries",
		Summary:     "Preview search queries",
		Description: "Returns the ranked marketplace search candidates built for an item.",
		Tags:        []string{"valuations"},
	}, h.Queries)
}
