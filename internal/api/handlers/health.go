package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a new HealthHandler. A nil db means the service
// runs without persistence and is ready as soon as it is up.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 if the database is reachable or not configured, 503
// otherwise.
func (h *HealthHandler) Readyz(c echo.Context) error {
	if h.db != nil {
		if err := h.db.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: "unavailable"})
		}
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}
