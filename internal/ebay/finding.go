package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultFindingURL  = "https://svcs.ebay.com/services/search/FindingService/v1"
	findingVersion     = "1.13.0"
	defaultGlobalID    = "EBAY-US"
	maxFindingPageSize = 100
)

// FindingClient searches completed listings through the eBay Finding API
// findCompletedItems operation. The Finding API authenticates with the
// application id rather than an OAuth token.
type FindingClient struct {
	appID       string
	findingURL  string
	globalID    string
	soldOnly    bool
	client      *http.Client
	rateLimiter *RateLimiter
}

// FindingOption configures the FindingClient.
type FindingOption func(*FindingClient)

// WithFindingURL overrides the default Finding API endpoint.
func WithFindingURL(u string) FindingOption {
	return func(c *FindingClient) {
		c.findingURL = u
	}
}

// WithGlobalID overrides the default site id (EBAY-US).
func WithGlobalID(id string) FindingOption {
	return func(c *FindingClient) {
		if id != "" {
			c.globalID = id
		}
	}
}

// WithSoldOnly controls whether unsold completed listings are excluded.
func WithSoldOnly(soldOnly bool) FindingOption {
	return func(c *FindingClient) {
		c.soldOnly = soldOnly
	}
}

// WithFindingHTTPClient overrides the default HTTP client.
func WithFindingHTTPClient(hc *http.Client) FindingOption {
	return func(c *FindingClient) {
		c.client = hc
	}
}

// WithFindingRateLimiter shares a rate limiter with the Finding client.
func WithFindingRateLimiter(r *RateLimiter) FindingOption {
	return func(c *FindingClient) {
		c.rateLimiter = r
	}
}

// NewFindingClient creates a new eBay Finding API client.
func NewFindingClient(appID string, opts ...FindingOption) *FindingClient {
	c := &FindingClient{
		appID:      appID,
		findingURL: defaultFindingURL,
		globalID:   defaultGlobalID,
		soldOnly:   true,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FindingItem is one completed listing. The Finding API wraps every scalar
// in a single-element array.
type FindingItem struct {
	ItemID        []string              `json:"itemId"`
	Title         []string              `json:"title"`
	ViewItemURL   []string              `json:"viewItemURL"`
	Location      []string              `json:"location"`
	SellingStatus []findingSellingState `json:"sellingStatus"`
	Condition     []findingCondition    `json:"condition"`
	SellerInfo    []findingSeller       `json:"sellerInfo"`
}

type findingSellingState struct {
	CurrentPrice []findingAmount `json:"currentPrice"`
	SellingState []string        `json:"sellingState"`
}

type findingAmount struct {
	CurrencyID string `json:"@currencyId"`
	Value      string `json:"__value__"`
}

type findingCondition struct {
	ConditionID          []string `json:"conditionId"`
	ConditionDisplayName []string `json:"conditionDisplayName"`
}

type findingSeller struct {
	SellerUserName []string `json:"sellerUserName"`
}

type findingError struct {
	ErrorID []string `json:"errorId"`
	Message []string `json:"message"`
}

type findingResponse struct {
	FindCompletedItemsResponse []struct {
		Ack          []string `json:"ack"`
		ErrorMessage []struct {
			Error []findingError `json:"error"`
		} `json:"errorMessage"`
		SearchResult []struct {
			Item []FindingItem `json:"item"`
		} `json:"searchResult"`
	} `json:"findCompletedItemsResponse"`
}

// FindCompleted returns completed listings matching req. A retired endpoint
// (404 or 410) yields ErrCompletedUnsupported.
func (c *FindingClient) FindCompleted(
	ctx context.Context,
	req SearchRequest,
) ([]FindingItem, error) {
	if err := acquire(ctx, c.rateLimiter); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.buildURL(req), http.NoBody,
	)
	if err != nil {
		return nil, fmt.Errorf("creating finding request: %w", err)
	}
	httpReq.Header.Set("X-EBAY-SOA-GLOBAL-ID", c.globalID)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing finding request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading finding response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusGone:
		return nil, fmt.Errorf("finding API (status %d): %w", resp.StatusCode, ErrCompletedUnsupported)
	default:
		return nil, fmt.Errorf(
			"finding API error (status %d): %s",
			resp.StatusCode,
			string(body),
		)
	}

	var apiResp findingResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parsing finding response: %w", err)
	}
	if len(apiResp.FindCompletedItemsResponse) == 0 {
		return nil, nil
	}

	r := apiResp.FindCompletedItemsResponse[0]
	if ack := first(r.Ack); ack != "Success" && ack != "Warning" {
		msg := "unknown error"
		if len(r.ErrorMessage) > 0 && len(r.ErrorMessage[0].Error) > 0 {
			e := r.ErrorMessage[0].Error[0]
			msg = first(e.ErrorID) + ": " + first(e.Message)
		}
		return nil, fmt.Errorf("finding API ack %q: %s", ack, msg)
	}

	var items []FindingItem
	for _, sr := range r.SearchResult {
		items = append(items, sr.Item...)
	}
	return items, nil
}

func (c *FindingClient) buildURL(req SearchRequest) string {
	params := url.Values{}
	params.Set("OPERATION-NAME", "findCompletedItems")
	params.Set("SERVICE-VERSION", findingVersion)
	params.Set("SECURITY-APPNAME", c.appID)
	params.Set("RESPONSE-DATA-FORMAT", "JSON")
	params.Set("REST-PAYLOAD", "")
	params.Set("keywords", req.Query)
	params.Set("paginationInput.entriesPerPage", strconv.Itoa(clampLimit(req.Limit, maxFindingPageSize)))

	n := 0
	if c.soldOnly {
		params.Set(fmt.Sprintf("itemFilter(%d).name", n), "SoldItemsOnly")
		params.Set(fmt.Sprintf("itemFilter(%d).value", n), "true")
		n++
	}
	if len(req.ConditionIDs) > 0 {
		params.Set(fmt.Sprintf("itemFilter(%d).name", n), "Condition")
		for i, id := range req.ConditionIDs {
			params.Set(fmt.Sprintf("itemFilter(%d).value(%d)", n, i), id)
		}
	}

	return c.findingURL + "?" + params.Encode()
}

func first(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}
