package cmd

import (
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donaldgifford/resale-router/api/openapi"
	"github.com/donaldgifford/resale-router/internal/api/handlers"
	"github.com/donaldgifford/resale-router/internal/api/middleware"
	"github.com/donaldgifford/resale-router/internal/config"
	"github.com/donaldgifford/resale-router/internal/scheduler"
)

const apiTitle = "resale-router API"

// newServer builds the Echo router with probes, metrics, and the Huma API.
// Huma serves its OpenAPI document at /openapi.json and docs at /docs;
// Swagger UI over the same document is at /swagger.
func newServer(cfg *config.Config, a *app, sched *scheduler.Scheduler, log *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Tracing())
	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	health := handlers.NewHealthHandler(a.pinger())
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig(apiTitle, Version))
	openapi.RegisterRoutes(e, apiTitle, "")

	handlers.RegisterValuationRoutes(api, handlers.NewValuationHandler(
		a.valuator, &a.tables.Query, cfg.Server.RequestTimeout,
	))
	handlers.RegisterRouteLogRoutes(api, handlers.NewRoutesHandler(a.routeReader()))
	handlers.RegisterQuotaRoutes(api, handlers.NewQuotaHandler(a.limiter, a.quotaReporter(sched)))

	return e
}
