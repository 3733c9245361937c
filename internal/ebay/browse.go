package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBrowseURL   = "https://api.ebay.com/buy/browse/v1/item_summary/search"
	defaultMarketplace = "EBAY_US"
	defaultLimit       = 50
	maxBrowseLimit     = 200
)

// BrowseClient searches active listings through the eBay Browse API.
type BrowseClient struct {
	tokens      TokenProvider
	browseURL   string
	marketplace string
	client      *http.Client
	rateLimiter *RateLimiter
}

// BrowseOption configures the BrowseClient.
type BrowseOption func(*BrowseClient)

// WithBrowseURL overrides the default Browse API endpoint.
func WithBrowseURL(u string) BrowseOption {
	return func(c *BrowseClient) {
		c.browseURL = u
	}
}

// WithMarketplace overrides the default marketplace.
func WithMarketplace(m string) BrowseOption {
	return func(c *BrowseClient) {
		if m != "" {
			c.marketplace = m
		}
	}
}

// WithBrowseHTTPClient overrides the default HTTP client.
func WithBrowseHTTPClient(hc *http.Client) BrowseOption {
	return func(c *BrowseClient) {
		c.client = hc
	}
}

// WithRateLimiter injects a rate limiter that controls per-second and daily
// API call limits. When set, every Search() call goes through Wait() first.
func WithRateLimiter(r *RateLimiter) BrowseOption {
	return func(c *BrowseClient) {
		c.rateLimiter = r
	}
}

// NewBrowseClient creates a new eBay Browse API client.
func NewBrowseClient(tokens TokenProvider, opts ...BrowseOption) *BrowseClient {
	c := &BrowseClient{
		tokens:      tokens,
		browseURL:   defaultBrowseURL,
		marketplace: defaultMarketplace,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchResponse holds one page of Browse API results.
type SearchResponse struct {
	Items []ItemSummary
	Total int
}

type browseAPIResponse struct {
	ItemSummaries []ItemSummary `json:"itemSummaries"`
	Total         int           `json:"total"`
}

// Search returns the first page of active listings matching req.
func (c *BrowseClient) Search(
	ctx context.Context,
	req SearchRequest,
) (*SearchResponse, error) {
	if err := acquire(ctx, c.rateLimiter); err != nil {
		return nil, err
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting auth token: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.buildSearchURL(req), http.NoBody,
	)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("X-EBAY-C-MARKETPLACE-ID", c.marketplace)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"eBay API error (status %d): %s",
			resp.StatusCode,
			string(body),
		)
	}

	var apiResp browseAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	return &SearchResponse{
		Items: apiResp.ItemSummaries,
		Total: apiResp.Total,
	}, nil
}

func (c *BrowseClient) buildSearchURL(req SearchRequest) string {
	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("limit", strconv.Itoa(clampLimit(req.Limit, maxBrowseLimit)))

	if len(req.ConditionIDs) > 0 {
		params.Set("filter", "conditionIds:{"+strings.Join(req.ConditionIDs, "|")+"}")
	}

	return c.browseURL + "?" + params.Encode()
}

func clampLimit(limit, ceiling int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return min(limit, ceiling)
}
