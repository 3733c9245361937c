package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultAnalyticsURL = "https://api.ebay.com/developer/analytics/v1_beta/rate_limit/"

// QuotaResource identifies one rate-limited eBay API resource.
type QuotaResource struct {
	APIContext string `json:"api_context"`
	APIName    string `json:"api_name"`
	Name       string `json:"resource"`
}

// BrowseSearchResource is the Analytics resource for Browse item searches.
var BrowseSearchResource = QuotaResource{APIContext: "buy", APIName: "browse", Name: "buy.browse"}

type rateLimitResponse struct {
	RateLimits []rateLimitEntry `json:"rateLimits"`
}

type rateLimitEntry struct {
	APIContext string     `json:"apiContext"`
	APIName    string     `json:"apiName"`
	Resources  []resource `json:"resources"`
}

type resource struct {
	Name  string      `json:"name"`
	Rates []quotaRate `json:"rates"`
}

type quotaRate struct {
	Count      int64  `json:"count"`
	Limit      int64  `json:"limit"`
	Remaining  int64  `json:"remaining"`
	Reset      string `json:"reset"`
	TimeWindow int64  `json:"timeWindow"`
}

// QuotaState is eBay's view of the quota for one resource.
type QuotaState struct {
	Resource   string        `json:"resource"`
	Count      int64         `json:"count"`
	Limit      int64         `json:"limit"`
	Remaining  int64         `json:"remaining"`
	ResetAt    time.Time     `json:"reset_at"`
	TimeWindow time.Duration `json:"time_window"`
}

// AnalyticsClient queries the eBay Developer Analytics API for rate limit state.
type AnalyticsClient struct {
	tokens       TokenProvider
	analyticsURL string
	client       *http.Client
}

// AnalyticsOption configures the AnalyticsClient.
type AnalyticsOption func(*AnalyticsClient)

// WithAnalyticsURL overrides the default Analytics API endpoint.
func WithAnalyticsURL(u string) AnalyticsOption {
	return func(c *AnalyticsClient) {
		c.analyticsURL = u
	}
}

// WithAnalyticsHTTPClient overrides the default HTTP client.
func WithAnalyticsHTTPClient(hc *http.Client) AnalyticsOption {
	return func(c *AnalyticsClient) {
		c.client = hc
	}
}

// NewAnalyticsClient creates a new eBay Analytics API client.
func NewAnalyticsClient(
	tokens TokenProvider,
	opts ...AnalyticsOption,
) *AnalyticsClient {
	c := &AnalyticsClient{
		tokens:       tokens,
		analyticsURL: defaultAnalyticsURL,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetBrowseQuota returns the quota for Browse item searches.
func (c *AnalyticsClient) GetBrowseQuota(ctx context.Context) (*QuotaState, error) {
	return c.GetQuota(ctx, BrowseSearchResource)
}

// GetQuota returns the current quota for res.
func (c *AnalyticsClient) GetQuota(
	ctx context.Context,
	res QuotaResource,
) (*QuotaState, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting auth token: %w", err)
	}

	u, err := url.Parse(c.analyticsURL)
	if err != nil {
		return nil, fmt.Errorf("parsing analytics URL: %w", err)
	}

	q := u.Query()
	q.Set("api_context", res.APIContext)
	q.Set("api_name", res.APIName)
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodGet, u.String(), http.NoBody,
	)
	if err != nil {
		return nil, fmt.Errorf("creating analytics request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing analytics request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading analytics response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"analytics API error (status %d): %s",
			resp.StatusCode,
			string(body),
		)
	}

	var apiResp rateLimitResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parsing analytics response: %w", err)
	}

	return extractQuota(apiResp, res.Name)
}

func extractQuota(resp rateLimitResponse, name string) (*QuotaState, error) {
	for _, entry := range resp.RateLimits {
		for _, res := range entry.Resources {
			if res.Name != name {
				continue
			}
			if len(res.Rates) == 0 {
				return nil, fmt.Errorf("no rates found for resource %q", name)
			}

			r := res.Rates[0]
			resetAt, err := time.Parse(time.RFC3339, r.Reset)
			if err != nil {
				return nil, fmt.Errorf("parsing reset time %q: %w", r.Reset, err)
			}

			return &QuotaState{
				Resource:   name,
				Count:      r.Count,
				Limit:      r.Limit,
				Remaining:  r.Remaining,
				ResetAt:    resetAt,
				TimeWindow: time.Duration(r.TimeWindow) * time.Second,
			}, nil
		}
	}

	return nil, fmt.Errorf("resource %q not found in analytics response", name)
}
