package ebay_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/resale-router/internal/ebay"
	"github.com/donaldgifford/resale-router/internal/ebay/mocks"
)

const emptyBrowse = `{"itemSummaries":[],"total":0}`

func TestBrowseClient_Search(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		req        ebay.SearchRequest
		handler    http.HandlerFunc
		tokenErr   error
		wantErr    bool
		errContain string
		wantItems  int
	}{
		{
			name: "successful search with results",
			req:  ebay.SearchRequest{Query: "herman miller aeron chair", Limit: 10},
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
				assert.Equal(t, "EBAY_US", r.Header.Get("X-EBAY-C-MARKETPLACE-ID"))
				assert.Equal(t, "herman miller aeron chair", r.URL.Query().Get("q"))
				assert.Equal(t, "10", r.URL.Query().Get("limit"))

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{
					"itemSummaries": [
						{"itemId": "v1|1|0", "title": "Aeron B", "price": {"value": "410.00", "currency": "USD"}},
						{"itemId": "v1|2|0", "title": "Aeron C", "price": {"value": "455.00", "currency": "USD"}}
					],
					"total": 2
				}`))
			},
			wantItems: 2,
		},
		{
			name: "empty results",
			req:  ebay.SearchRequest{Query: "nonexistent item xyz"},
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(emptyBrowse))
			},
		},
		{
			name: "429 rate limited response",
			req:  ebay.SearchRequest{Query: "test"},
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"errors": [{"message": "Rate limit exceeded"}]}`))
			},
			wantErr:    true,
			errContain: "status 429",
		},
		{
			name:       "token provider error",
			req:        ebay.SearchRequest{Query: "test"},
			handler:    func(_ http.ResponseWriter, _ *http.Request) {},
			tokenErr:   errors.New("token fetch failed"),
			wantErr:    true,
			errContain: "getting auth token",
		},
		{
			name: "HTML error page",
			req:  ebay.SearchRequest{Query: "test"},
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte(`<!DOCTYPE html><html><body>Service Unavailable</body></html>`))
			},
			wantErr:    true,
			errContain: "parsing search response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			mockTokens := mocks.NewMockTokenProvider(t)
			if tt.tokenErr != nil {
				mockTokens.EXPECT().Token(mock.Anything).Return("", tt.tokenErr)
			} else {
				mockTokens.EXPECT().Token(mock.Anything).Return("test-token", nil)
			}

			client := ebay.NewBrowseClient(mockTokens, ebay.WithBrowseURL(srv.URL))

			resp, err := client.Search(context.Background(), tt.req)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContain)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Len(t, resp.Items, tt.wantItems)
		})
	}
}

func TestBrowseClient_Search_QueryParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		req        ebay.SearchRequest
		wantLimit  string
		wantFilter string
	}{
		{
			name:      "default limit without filter",
			req:       ebay.SearchRequest{Query: "oak table"},
			wantLimit: "50",
		},
		{
			name:       "condition filter",
			req:        ebay.SearchRequest{Query: "oak table", ConditionIDs: []string{"3000", "4000", "5000"}, Limit: 25},
			wantLimit:  "25",
			wantFilter: "conditionIds:{3000|4000|5000}",
		},
		{
			name:      "limit clamped to page maximum",
			req:       ebay.SearchRequest{Query: "oak table", Limit: 1000},
			wantLimit: "200",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.req.Query, r.URL.Query().Get("q"))
				assert.Equal(t, tt.wantLimit, r.URL.Query().Get("limit"))
				assert.Equal(t, tt.wantFilter, r.URL.Query().Get("filter"))
				_, _ = w.Write([]byte(emptyBrowse))
			}))
			defer srv.Close()

			mockTokens := mocks.NewMockTokenProvider(t)
			mockTokens.EXPECT().Token(mock.Anything).Return("test-token", nil)

			client := ebay.NewBrowseClient(mockTokens, ebay.WithBrowseURL(srv.URL))
			_, err := client.Search(context.Background(), tt.req)
			require.NoError(t, err)
		})
	}
}

func TestBrowseClient_Search_RateLimited(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(emptyBrowse))
	}))
	defer srv.Close()

	mockTokens := mocks.NewMockTokenProvider(t)
	mockTokens.EXPECT().Token(mock.Anything).Return("test-token", nil).Once()

	rl := ebay.NewRateLimiter(100, 10, 1)
	client := ebay.NewBrowseClient(
		mockTokens,
		ebay.WithBrowseURL(srv.URL),
		ebay.WithRateLimiter(rl),
	)

	_, err := client.Search(context.Background(), ebay.SearchRequest{Query: "test"})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), ebay.SearchRequest{Query: "test"})
	require.ErrorIs(t, err, ebay.ErrDailyLimitReached)
	assert.Contains(t, err.Error(), "rate limit:")
}
