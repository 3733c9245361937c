// Package main implements a mock eBay API server for local development.
// It generates deterministic listings per query so the resale router can be
// exercised end to end without real eBay credentials: the OAuth token
// endpoint, Browse item search, Finding findCompletedItems, and the
// Analytics rate_limit resource.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/donaldgifford/resale-router/internal/ebay"
)

const (
	defaultLimit = 50
	dailyLimit   = 5000
)

type options struct {
	basePrice float64
	items     int
	sold      int
}

type browseAPIResponse struct {
	ItemSummaries []ebay.ItemSummary `json:"itemSummaries"`
	Total         int                `json:"total"`
	Offset        int                `json:"offset"`
	Limit         int                `json:"limit"`
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	basePrice := flag.Float64("base-price", 60, "center of the generated price distribution")
	items := flag.Int("items", 24, "active listings generated per query")
	sold := flag.Int("sold", 12, "completed listings generated per query")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	opts := options{basePrice: *basePrice, items: *items, sold: *sold}
	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock eBay server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, newMux(logger, opts)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newMux(logger *slog.Logger, opts options) *http.ServeMux {
	var calls atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("POST /identity/v1/oauth2/token", tokenHandler(logger))
	mux.HandleFunc("GET /buy/browse/v1/item_summary/search", searchHandler(logger, opts, &calls))
	mux.HandleFunc("GET /services/search/FindingService/v1", findingHandler(logger, opts, &calls))
	mux.HandleFunc("GET /developer/analytics/v1_beta/rate_limit/", rateLimitHandler(&calls))
	return mux
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}

func tokenHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Credentials are required but not verified.
		if _, _, ok := r.BasicAuth(); !ok {
			logger.Warn("token request missing Basic Auth header")
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error":             "invalid_client",
				"error_description": "client authentication failed",
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": "mock-token-v1-" + strconv.FormatInt(int64(os.Getpid()), 16),
			"expires_in":   7200,
			"token_type":   "Application Access Token",
		})
		logger.Info("issued mock token")
	}
}

func searchHandler(logger *slog.Logger, opts options, calls *atomic.Int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"errors": []map[string]any{{"errorId": 1001, "message": "Invalid access token"}},
			})
			return
		}
		calls.Add(1)

		q := r.URL.Query().Get("q")
		limit := intParam(r, "limit", defaultLimit)
		offset := intParam(r, "offset", 0)

		all := generate(q, opts.items, opts.basePrice)
		page := paginate(all, offset, limit)

		items := make([]ebay.ItemSummary, 0, len(page))
		for i := range page {
			items = append(items, page[i].summary())
		}

		writeJSON(w, http.StatusOK, browseAPIResponse{
			ItemSummaries: items,
			Total:         len(all),
			Offset:        offset,
			Limit:         limit,
		})
		logger.Info("search", "query", q, "total", len(all), "returned", len(items))
	}
}

func findingHandler(logger *slog.Logger, opts options, calls *atomic.Int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		if op := params.Get("OPERATION-NAME"); op != "findCompletedItems" {
			writeJSON(w, http.StatusBadRequest, findingError("unsupported operation "+op))
			return
		}
		if params.Get("SECURITY-APPNAME") == "" {
			writeJSON(w, http.StatusOK, findingError("missing SECURITY-APPNAME"))
			return
		}
		calls.Add(1)

		q := params.Get("keywords")
		limit := intParam(r, "paginationInput.entriesPerPage", defaultLimit)

		// Completed sales clear a little below the active asking prices.
		sold := paginate(generate("sold:"+q, opts.sold, opts.basePrice*0.9), 0, limit)

		items := make([]map[string]any, 0, len(sold))
		for i := range sold {
			items = append(items, sold[i].findingItem())
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"findCompletedItemsResponse": []map[string]any{{
				"ack": []string{"Success"},
				"searchResult": []map[string]any{{
					"@count": strconv.Itoa(len(items)),
					"item":   items,
				}},
			}},
		})
		logger.Info("completed search", "query", q, "returned", len(items))
	}
}

func findingError(msg string) map[string]any {
	return map[string]any{
		"findCompletedItemsResponse": []map[string]any{{
			"ack": []string{"Failure"},
			"errorMessage": []map[string]any{{
				"error": []map[string]any{{
					"errorId": []string{"10001"},
					"message": []string{msg},
				}},
			}},
		}},
	}
}

func rateLimitHandler(calls *atomic.Int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, map[string]any{})
			return
		}

		used := calls.Load()
		now := time.Now().UTC()
		reset := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)

		writeJSON(w, http.StatusOK, map[string]any{
			"rateLimits": []map[string]any{{
				"apiContext": r.URL.Query().Get("api_context"),
				"apiName":    r.URL.Query().Get("api_name"),
				"resources": []map[string]any{{
					"name": "buy.browse",
					"rates": []map[string]any{{
						"count":      used,
						"limit":      dailyLimit,
						"remaining":  max(dailyLimit-used, 0),
						"reset":      reset.Format(time.RFC3339),
						"timeWindow": 86400,
					}},
				}},
			}},
		})
	}
}

func intParam(r *http.Request, name string, def int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(name)); err == nil && v >= 0 {
		return v
	}
	return def
}

// listing is one generated marketplace item.
type listing struct {
	id        string
	title     string
	price     float64
	condition string
	condID    string
	seller    string
}

var conditions = []struct{ name, id string }{
	{"New", "1000"},
	{"Used", "3000"},
	{"Used", "3000"},
	{"For parts or not working", "7000"},
}

// generate returns n listings for query. The same query always yields the
// same listings, priced around base with a spread of roughly 20%.
func generate(query string, n int, base float64) []listing {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(query)))
	rng := rand.New(rand.NewPCG(h.Sum64(), uint64(n))) //nolint:gosec // deterministic fixture data

	title := strings.TrimPrefix(query, "sold:")
	if title == "" {
		title = "item"
	}

	out := make([]listing, 0, n)
	for i := range n {
		c := conditions[rng.IntN(len(conditions))]
		price := base * (1 + 0.2*rng.NormFloat64())
		out = append(out, listing{
			id:        fmt.Sprintf("%d", 100000000000+h.Sum64()%1000000+uint64(i)),
			title:     fmt.Sprintf("%s #%d", title, i+1),
			price:     max(price, 1),
			condition: c.name,
			condID:    c.id,
			seller:    fmt.Sprintf("seller%d", rng.IntN(50)),
		})
	}
	return out
}

func paginate(ls []listing, offset, limit int) []listing {
	if offset >= len(ls) {
		return nil
	}
	return ls[offset:min(offset+limit, len(ls))]
}

func (l *listing) summary() ebay.ItemSummary {
	return ebay.ItemSummary{
		ItemID:        "v1|" + l.id + "|0",
		Title:         l.title,
		Price:         ebay.ItemPrice{Value: strconv.FormatFloat(l.price, 'f', 2, 64), Currency: "USD"},
		ItemWebURL:    "https://www.ebay.com/itm/" + l.id,
		Seller:        &ebay.ItemSeller{Username: l.seller},
		Condition:     l.condition,
		ConditionID:   l.condID,
		BuyingOptions: []string{"FIXED_PRICE"},
		ItemLocation:  &ebay.ItemLocation{City: "Portland", PostalCode: "972**", Country: "US"},
	}
}

func (l *listing) findingItem() map[string]any {
	return map[string]any{
		"itemId":      []string{l.id},
		"title":       []string{l.title},
		"viewItemURL": []string{"https://www.ebay.com/itm/" + l.id},
		"location":    []string{"Portland,OR,USA"},
		"sellingStatus": []map[string]any{{
			"currentPrice": []map[string]string{{
				"@currencyId": "USD",
				"__value__":   strconv.FormatFloat(l.price, 'f', 2, 64),
			}},
			"sellingState": []string{"EndedWithSales"},
		}},
		"condition": []map[string]any{{
			"conditionId":          []string{l.condID},
			"conditionDisplayName": []string{l.condition},
		}},
		"sellerInfo": []map[string]any{{
			"sellerUserName": []string{l.seller},
		}},
	}
}
