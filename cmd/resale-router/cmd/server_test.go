package cmd

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/resale-router/internal/config"
)

func TestNewServer_ManualOnly(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := newApp(t.Context(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.close() })

	assert.Nil(t, a.store)
	assert.Nil(t, a.tokens)
	assert.Nil(t, a.pinger())
	assert.Nil(t, a.routeReader())

	sched, err := a.scheduler(cfg, log)
	require.NoError(t, err)
	assert.Empty(t, sched.Entries())
	assert.Nil(t, a.quotaReporter(sched))

	e := newServer(cfg, a, sched, log)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{name: "liveness", method: http.MethodGet, path: "/healthz", wantStatus: http.StatusOK, wantBody: `"ok"`},
		{name: "readiness without database", method: http.MethodGet, path: "/readyz", wantStatus: http.StatusOK, wantBody: `"ready"`},
		{name: "metrics", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK, wantBody: "rr_"},
		{name: "swagger ui", method: http.MethodGet, path: "/swagger/index.html", wantStatus: http.StatusOK, wantBody: "/openapi.json"},
		{name: "openapi document", method: http.MethodGet, path: "/openapi.json", wantStatus: http.StatusOK, wantBody: "/api/v1/routes"},
		{
			name:       "manual valuation",
			method:     http.MethodPost,
			path:       "/api/v1/valuations",
			body:       `{"category":"furniture","condition":{"grade":"good"}}`,
			wantStatus: http.StatusOK,
			wantBody:   `"source":"manual_heuristic"`,
		},
		{name: "audit log disabled", method: http.MethodGet, path: "/api/v1/routes", wantStatus: http.StatusServiceUnavailable},
		{name: "quota without search", method: http.MethodGet, path: "/api/v1/quota", wantStatus: http.StatusOK, wantBody: `"local":null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var body io.Reader = http.NoBody
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestNewApp_WithMarketplace(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Ebay.AppID = "app"
	cfg.Ebay.CertID = "cert"
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := newApp(t.Context(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.close() })

	require.NotNil(t, a.tokens)
	require.NotNil(t, a.limiter)
	assert.Nil(t, a.redis)
	assert.Equal(t, int64(5000), a.limiter.Snapshot().Limit)

	sched, err := a.scheduler(cfg, log)
	require.NoError(t, err)
	assert.Len(t, sched.Entries(), 2)
	assert.NotNil(t, a.quotaReporter(sched))
}

func TestNewApp_BadTablesFile(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Pricing.TablesFile = "/nonexistent/tables.yaml"

	_, err := newApp(t.Context(), cfg, slog.New(slog.DiscardHandler))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading pricing tables")
}
