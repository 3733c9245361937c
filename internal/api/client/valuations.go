package client

import (
	"context"

	"github.com/donaldgifford/resale-router/internal/valuation"
	domain "github.com/donaldgifford/resale-router/pkg/types"
)

// RouteRequest is the body of a routing request.
type RouteRequest struct {
	Item        domain.ItemAttributes `json:"item"`
	Preferences domain.Preferences    `json:"preferences,omitempty"`
	Persist     bool                  `json:"persist,omitempty"`
}

// RouteResponse is a routing result plus the outcome of persisting it.
type RouteResponse struct {
	Result       domain.RoutingResult `json:"result"`
	Persisted    bool                 `json:"persisted"`
	PersistError string               `json:"persist_error,omitempty"`
}

// Valuate prices an item.
func (c *Client) Valuate(ctx context.Context, attrs *domain.ItemAttributes) (*valuation.Valuation, error) {
	var v valuation.Valuation
	if err := c.post(ctx, "/api/v1/valuations", attrs, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Route prices an item and recommends a disposition.
func (c *Client) Route(ctx context.Context, req *RouteRequest) (*RouteResponse, error) {
	var resp RouteResponse
	if err := c.post(ctx, "/api/v1/routes", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Queries returns the search candidates the server would try for an item.
func (c *Client) Queries(ctx context.Context, attrs *domain.ItemAttributes) ([]domain.SearchQueryCandidate, error) {
	var resp struct {
		Candidates []domain.SearchQueryCandidate `json:"candidates"`
	}
	if err := c.post(ctx, "/api/v1/queries", attrs, &resp); err != nil {
		return nil, err
	}
	return resp.Candidates, nil
}
