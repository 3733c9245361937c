package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/resale-router/internal/store"
	domain "github.com/donaldgifford/resale-router/pkg/types"
)

// RouteReader reads the routing audit log.
type RouteReader interface {
	GetRoutingResult(ctx context.Context, id string) (*domain.RoutingResult, error)
	ListRoutingResults(ctx context.Context, q *store.RoutingQuery) ([]store.RoutingSummary, int, error)
}

// RoutesHandler serves the routing audit log.
type RoutesHandler struct {
	store RouteReader
}

// NewRoutesHandler creates a new RoutesHandler. A nil reader means the
// audit log is disabled.
func NewRoutesHandler(r RouteReader) *RoutesHandler {
	return &RoutesHandler{store: r}
}

// GetRouteInput is the input for fetching one routing result.
type GetRouteInput struct {
	ID string `path:"id" doc:"Routing result ID"`
}

// GetRouteOutput is the response for fetching one routing result.
type GetRouteOutput struct {
	Body domain.RoutingResult
}

// ListRoutesInput filters the audit log.
type ListRoutesInput struct {
	Route     string  `query:"route"      doc:"Primary route type"                   enum:"resale,instant-offer,local-pickup,donation,"`
	Category  string  `query:"category"   doc:"Item category"`
	Source    string  `query:"source"     doc:"Estimate source"`
	Since     string  `query:"since"      doc:"Only results created at or after this RFC 3339 time"`
	MinReturn float64 `query:"min_return" doc:"Minimum estimated return of the primary route"       minimum:"0"`
	Limit     int     `query:"limit"      doc:"Number of results (default 50)"                     minimum:"0" maximum:"500"`
	Offset    int     `query:"offset"     doc:"Pagination offset"                                  minimum:"0"`
}

// ListRoutesOutput is the response for listing routing results.
type ListRoutesOutput struct {
	Body struct {
		Results []store.RoutingSummary `json:"results"`
		Total   int                    `json:"total"`
		Limit   int                    `json:"limit"`
		Offset  int                    `json:"offset"`
	}
}

// GetRoute returns a stored routing result.
func (h *RoutesHandler) GetRoute(ctx context.Context, input *GetRouteInput) (*GetRouteOutput, error) {
	if h.store == nil {
		return nil, huma.Error404NotFound("audit log is not configured")
	}

	r, err := h.store.GetRoutingResult(ctx, input.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("routing result not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("loading routing result: " + err.Error())
	}

	return &GetRouteOutput{Body: *r}, nil
}

// ListRoutes returns recent routing results, newest first.
func (h *RoutesHandler) ListRoutes(ctx context.Context, input *ListRoutesInput) (*ListRoutesOutput, error) {
	if h.store == nil {
		return nil, huma.Error503ServiceUnavailable("audit log is not configured")
	}

	q := &store.RoutingQuery{Limit: input.Limit, Offset: input.Offset}
	if input.Route != "" {
		rt := domain.RouteType(input.Route)
		q.Route = &rt
	}
	if c := strings.TrimSpace(input.Category); c != "" {
		q.Category = &c
	}
	if input.Source != "" {
		src := domain.EstimateSource(input.Source)
		q.Source = &src
	}
	if input.Since != "" {
		since, err := time.Parse(time.RFC3339, input.Since)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("since must be an RFC 3339 time")
		}
		q.Since = &since
	}
	if input.MinReturn > 0 {
		q.MinReturn = &input.MinReturn
	}

	results, total, err := h.store.ListRoutingResults(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing routing results: " + err.Error())
	}

	out := &ListRoutesOutput{}
	out.Body.Results = results
	if out.Body.Results == nil {
		out.Body.Results = []store.RoutingSummary{}
	}
	out.Body.Total = total
	out.Body.Limit = q.Limit
	out.Body.Offset = q.Offset
	return out, nil
}

// RegisterRouteLogRoutes registers the audit log endpoints with the Huma API.
func RegisterRouteLogRoutes(api huma.API, h *RoutesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-routes",
		Method:      http.MethodGet,
		Path:        "/api/v1/routes",
		Summary:     "List routing results",
		Description: "Returns recorded routing results, newest first, with optional filters.",
		Tags:        []string{"routes"},
		Errors:      []int{http.StatusServiceUnavailable},
	}, h.ListRoutes)

	huma.Register(api, huma.Operation{
		OperationID: "get-route",
		Method:      http.MethodGet,
		Path:        "/api/v1/routes/{id}",
		Summary:     "Get a routing result",
		Description: "Returns a recorded routing result by ID.",
		Tags:        []string{"routes"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetRoute)
}
