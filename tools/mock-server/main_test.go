package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/donaldgifford/resale-router/internal/ebay"
	domain "github.com/donaldgifford/resale-router/pkg/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOptions() options {
	return options{basePrice: 60, items: 24, sold: 12}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newMux(testLogger(), testOptions()))
	t.Cleanup(srv.Close)
	return srv
}

func TestTokenHandler_Success(t *testing.T) {
	handler := tokenHandler(testLogger())
	req := httptest.NewRequest(http.MethodPost, "/identity/v1/oauth2/token", http.NoBody)
	req.SetBasicAuth("app-id", "cert-id")
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["access_token"] == nil || resp["access_token"] == "" {
		t.Error("expected non-empty access_token")
	}
	if resp["expires_in"] != float64(7200) {
		t.Errorf("expires_in=%v, want 7200", resp["expires_in"])
	}
}

func TestTokenHandler_MissingAuth(t *testing.T) {
	handler := tokenHandler(testLogger())
	req := httptest.NewRequest(http.MethodPost, "/identity/v1/oauth2/token", http.NoBody)
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := generate("oak table", 10, 60)
	b := generate("OAK TABLE", 10, 60)
	if len(a) != 10 {
		t.Fatalf("len=%d, want 10", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("listing %d differs: %+v vs %+v", i, a[i], b[i])
		}
		if a[i].price < 1 {
			t.Errorf("listing %d price=%v, want >= 1", i, a[i].price)
		}
	}

	c := generate("walnut table", 10, 60)
	if a[0].price == c[0].price && a[1].price == c[1].price {
		t.Error("different queries produced identical prices")
	}
}

func TestPaginate(t *testing.T) {
	ls := generate("q", 5, 10)

	if got := paginate(ls, 0, 2); len(got) != 2 {
		t.Errorf("first page len=%d, want 2", len(got))
	}
	if got := paginate(ls, 4, 10); len(got) != 1 {
		t.Errorf("last page len=%d, want 1", len(got))
	}
	if got := paginate(ls, 10, 10); got != nil {
		t.Errorf("past end=%v, want nil", got)
	}
}

func TestFindingHandler_UnsupportedOperation(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/services/search/FindingService/v1?OPERATION-NAME=findItemsAdvanced")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

// TestClients drives the real eBay clients against the mock server.
func TestClients(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	tokens := ebay.NewOAuthTokenProvider("app-id", "cert-id",
		ebay.WithTokenURL(srv.URL+"/identity/v1/oauth2/token"))

	browse := ebay.NewBrowseClient(tokens,
		ebay.WithBrowseURL(srv.URL+"/buy/browse/v1/item_summary/search"))
	finding := ebay.NewFindingClient("app-id",
		ebay.WithFindingURL(srv.URL+"/services/search/FindingService/v1"),
		ebay.WithSoldOnly(true))
	searcher := ebay.NewMarketplaceSearcher(browse, ebay.WithFindingClient(finding))

	active, err := searcher.Search(ctx, ebay.SearchRequest{
		Query: "oak side table",
		Kind:  domain.ListingActive,
		Limit: 10,
	})
	if err != nil {
		t.Fatalf("active search: %v", err)
	}
	if len(active) != 10 {
		t.Fatalf("active len=%d, want 10", len(active))
	}
	for i := range active {
		if active[i].Kind != domain.ListingActive || active[i].Price.Amount <= 0 {
			t.Errorf("active[%d]=%+v", i, active[i])
		}
	}

	sold, err := searcher.Search(ctx, ebay.SearchRequest{
		Query: "oak side table",
		Kind:  domain.ListingCompleted,
		Limit: 50,
	})
	if err != nil {
		t.Fatalf("completed search: %v", err)
	}
	if len(sold) != testOptions().sold {
		t.Fatalf("completed len=%d, want %d", len(sold), testOptions().sold)
	}
	for i := range sold {
		if sold[i].Kind != domain.ListingCompleted || sold[i].Price.Currency != "USD" {
			t.Errorf("sold[%d]=%+v", i, sold[i])
		}
	}

	analytics := ebay.NewAnalyticsClient(tokens,
		ebay.WithAnalyticsURL(srv.URL+"/developer/analytics/v1_beta/rate_limit/"))
	quota, err := analytics.GetBrowseQuota(ctx)
	if err != nil {
		t.Fatalf("quota: %v", err)
	}
	if quota.Count != 2 {
		t.Errorf("count=%d, want 2", quota.Count)
	}
	if quota.Remaining != dailyLimit-2 {
		t.Errorf("remaining=%d, want %d", quota.Remaining, dailyLimit-2)
	}
}
