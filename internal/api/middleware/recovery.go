package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Recovery returns Echo middleware that recovers from panics, logs the stack
// trace, marks the active span failed, and returns a 500 problem document.
func Recovery(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					buf := make([]byte, 4096)
					n := runtime.Stack(buf, false)
					ctx := c.Request().Context()

					span := trace.SpanFromContext(ctx)
					span.RecordError(fmt.Errorf("panic: %v", r))
					span.SetStatus(codes.Error, "panic")

					log.ErrorContext(ctx, "panic recovered",
						"error", fmt.Sprint(r),
						"method", c.Request().Method,
						"path", c.Request().URL.Path,
						"request_id", RequestID(ctx),
						"stack", string(buf[:n]),
					)

					err = c.JSON(http.StatusInternalServerError, map[string]any{
						"title":  http.StatusText(http.StatusInternalServerError),
						"status": http.StatusInternalServerError,
						"detail": "internal server error",
					})
				}
			}()
			return next(c)
		}
	}
}
