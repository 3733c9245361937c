// Package middleware provides Echo middleware for resale-router.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/resale-router/internal/metrics"
)

// probePaths are excluded from the request histogram and counter.
var probePaths = map[string]struct{}{
	"/metrics": {},
	"/healthz": {},
	"/readyz":  {},
}

// Metrics returns Echo middleware that records request duration and status,
// labelled by route template so path parameters do not explode cardinality.
// Probe paths are skipped; /readyz outcomes drive the readyz_up gauge.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			if _, skip := probePaths[path]; skip {
				err := next(c)
				if path == "/readyz" {
					metrics.ReadyzUp.Set(boolGauge(c.Response().Status < 300))
				}
				return err
			}

			start := time.Now()
			err := next(c)

			status := statusOf(c, err)
			method := c.Request().Method

			metrics.HTTPRequestDuration.
				WithLabelValues(method, path, status).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, path, status).
				Inc()

			return err
		}
	}
}

// statusOf reports the response status, or the status an unhandled
// echo.HTTPError will be rendered with.
func statusOf(c echo.Context, err error) string {
	if he, ok := err.(*echo.HTTPError); ok && !c.Response().Committed {
		return strconv.Itoa(he.Code)
	}
	return strconv.Itoa(c.Response().Status)
}

func boolGauge(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
}
