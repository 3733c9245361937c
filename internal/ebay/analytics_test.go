package ebay_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/resale-router/internal/ebay"
	"github.com/donaldgifford/resale-router/internal/ebay/mocks"
)

// rateLimitBody lists two Browse resources so lookups must match by name.
const rateLimitBody = `{
	"rateLimits": [{
		"apiContext": "buy",
		"apiName": "Browse",
		"apiVersion": "v1",
		"resources": [
			{
				"name": "buy.browse",
				"rates": [{"count": 742, "limit": 5000, "remaining": 4258, "reset": "2026-10-16T07:00:00.000Z", "timeWindow": 86400}]
			},
			{
				"name": "buy.browse.item.bulk",
				"rates": [{"count": 3, "limit": 5000, "remaining": 4997, "reset": "2026-10-16T07:00:00.000Z", "timeWindow": 86400}]
			}
		]
	}]
}`

func quotaServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer quota-token", r.Header.Get("Authorization"))
		assert.Equal(t, "buy", r.URL.Query().Get("api_context"))
		assert.Equal(t, "browse", r.URL.Query().Get("api_name"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnalyticsClient_GetBrowseQuota(t *testing.T) {
	t.Parallel()

	srv := quotaServer(t, http.StatusOK, rateLimitBody)

	mockTokens := mocks.NewMockTokenProvider(t)
	mockTokens.EXPECT().Token(mock.Anything).Return("quota-token", nil)

	client := ebay.NewAnalyticsClient(mockTokens, ebay.WithAnalyticsURL(srv.URL))
	quota, err := client.GetBrowseQuota(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "buy.browse", quota.Resource)
	assert.Equal(t, int64(742), quota.Count)
	assert.Equal(t, int64(5000), quota.Limit)
	assert.Equal(t, int64(4258), quota.Remaining)
	assert.True(t, quota.ResetAt.Equal(time.Date(2026, 10, 16, 7, 0, 0, 0, time.UTC)))
	assert.Equal(t, 24*time.Hour, quota.TimeWindow)
}

func TestAnalyticsClient_GetQuota_ByResource(t *testing.T) {
	t.Parallel()

	srv := quotaServer(t, http.StatusOK, rateLimitBody)

	mockTokens := mocks.NewMockTokenProvider(t)
	mockTokens.EXPECT().Token(mock.Anything).Return("quota-token", nil)

	client := ebay.NewAnalyticsClient(mockTokens, ebay.WithAnalyticsURL(srv.URL))
	quota, err := client.GetQuota(context.Background(), ebay.QuotaResource{
		APIContext: "buy",
		APIName:    "browse",
		Name:       "buy.browse.item.bulk",
	})
	require.NoError(t, err)
	assert.Equal(t, "buy.browse.item.bulk", quota.Resource)
	assert.Equal(t, int64(4997), quota.Remaining)
}

func TestAnalyticsClient_GetQuota_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		tokenErr   error
		errContain string
	}{
		{
			name:       "resource missing",
			status:     http.StatusOK,
			body:       `{"rateLimits":[{"apiContext":"buy","apiName":"Browse","resources":[{"name":"buy.deal","rates":[]}]}]}`,
			errContain: `"buy.browse" not found`,
		},
		{
			name:       "no rate limits",
			status:     http.StatusOK,
			body:       `{"rateLimits":[]}`,
			errContain: `"buy.browse" not found`,
		},
		{
			name:       "resource without rates",
			status:     http.StatusOK,
			body:       `{"rateLimits":[{"apiContext":"buy","apiName":"Browse","resources":[{"name":"buy.browse","rates":[]}]}]}`,
			errContain: "no rates found",
		},
		{
			name:       "bad reset timestamp",
			status:     http.StatusOK,
			body:       `{"rateLimits":[{"resources":[{"name":"buy.browse","rates":[{"count":1,"limit":5000,"remaining":4999,"reset":"tomorrow","timeWindow":86400}]}]}]}`,
			errContain: "parsing reset time",
		},
		{
			name:       "malformed body",
			status:     http.StatusOK,
			body:       "<html>",
			errContain: "parsing analytics response",
		},
		{
			name:       "unauthorized",
			status:     http.StatusUnauthorized,
			body:       `{"errors":[{"message":"Invalid access token"}]}`,
			errContain: "status 401",
		},
		{
			name:       "server error",
			status:     http.StatusBadGateway,
			errContain: "status 502",
		},
		{
			name:       "token failure",
			tokenErr:   assert.AnError,
			errContain: "getting auth token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockTokens := mocks.NewMockTokenProvider(t)
			url := "http://127.0.0.1:0"
			if tt.tokenErr != nil {
				mockTokens.EXPECT().Token(mock.Anything).Return("", tt.tokenErr)
			} else {
				mockTokens.EXPECT().Token(mock.Anything).Return("quota-token", nil)
				url = quotaServer(t, tt.status, tt.body).URL
			}

			client := ebay.NewAnalyticsClient(mockTokens, ebay.WithAnalyticsURL(url))
			_, err := client.GetBrowseQuota(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContain)
		})
	}
}
