package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/resale-router/internal/ebay"
)

// QuotaReporter exposes the last quota observed by the analytics poller.
type QuotaReporter interface {
	LastQuota() *ebay.QuotaState
}

// QuotaHandler provides the eBay API quota status endpoint.
type QuotaHandler struct {
	rl     *ebay.RateLimiter
	remote QuotaReporter
}

// NewQuotaHandler creates a new QuotaHandler. Either argument may be nil.
func NewQuotaHandler(rl *ebay.RateLimiter, remote QuotaReporter) *QuotaHandler {
	return &QuotaHandler{rl: rl, remote: remote}
}

// QuotaOutput is the response body for the quota endpoint.
type QuotaOutput struct {
	Body struct {
		Local  *ebay.LimiterState `json:"local"            doc:"Process-local daily call budget; null when search is disabled"`
		Remote *ebay.QuotaState   `json:"remote,omitempty" doc:"Last quota reported by the eBay Analytics API"`
	}
}

// GetQuota returns the current eBay API quota status.
func (h *QuotaHandler) GetQuota(_ context.Context, _ *struct{}) (*QuotaOutput, error) {
	resp := &QuotaOutput{}
	if h.rl != nil {
		s := h.rl.Snapshot()
		resp.Body.Local = &s
	}
	if h.remote != nil {
		resp.Body.Remote = h.remote.LastQuota()
	}
	return resp, nil
}

// RegisterQuotaRoutes registers the quota endpoint with the Huma API.
func RegisterQuotaRoutes(api huma.API, h *QuotaHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-quota",
		Method:      http.MethodGet,
		Path:        "/api/v1/quota",
		Summary:     "Get eBay API quota status",
		Description: "Returns the local daily call budget and the last quota polled from eBay.",
		Tags:        []string{"ebay"},
	}, h.GetQuota)
}
