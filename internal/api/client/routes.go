package client

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/donaldgifford/resale-router/internal/store"
	domain "github.com/donaldgifford/resale-router/pkg/types"
)

// ListRoutesParams filters the audit log. Zero values are not sent.
type ListRoutesParams struct {
	Route     string
	Category  string
	Source    string
	Since     time.Time
	MinReturn float64
	Limit     int
	Offset    int
}

func (p *ListRoutesParams) values() url.Values {
	v := url.Values{}
	if p.Route != "" {
		v.Set("route", p.Route)
	}
	if p.Category != "" {
		v.Set("category", p.Category)
	}
	if p.Source != "" {
		v.Set("source", p.Source)
	}
	if !p.Since.IsZero() {
		v.Set("since", p.Since.UTC().Format(time.RFC3339))
	}
	if p.MinReturn > 0 {
		v.Set("min_return", strconv.FormatFloat(p.MinReturn, 'f', -1, 64))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		v.Set("offset", strconv.Itoa(p.Offset))
	}
	return v
}

// RouteList is a page of the audit log.
type RouteList struct {
	Results []store.RoutingSummary `json:"results"`
	Total   int                    `json:"total"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
}

// GetRoute returns a recorded routing result.
func (c *Client) GetRoute(ctx context.Context, id string) (*domain.RoutingResult, error) {
	var r domain.RoutingResult
	if err := c.get(ctx, "/api/v1/routes/"+url.PathEscape(id), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRoutes returns recorded routing results, newest first.
func (c *Client) ListRoutes(ctx context.Context, p *ListRoutesParams) (*RouteList, error) {
	path := "/api/v1/routes"
	if p != nil {
		if q := p.values().Encode(); q != "" {
			path += "?" + q
		}
	}

	var list RouteList
	if err := c.get(ctx, path, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
