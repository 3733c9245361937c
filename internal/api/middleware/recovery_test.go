package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestRecovery_NoPanic(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Recovery(logger)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, buf.String(), "no panic should produce no log output")
}

func TestRecovery_Panic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		method   string
		path     string
		value    any
		wantLogs []string
	}{
		{
			name:     "string value",
			method:   http.MethodGet,
			path:     "/panic",
			value:    "test panic",
			wantLogs: []string{"panic recovered", "test panic", "path=/panic"},
		},
		{
			name:     "non-string value",
			method:   http.MethodPost,
			path:     "/api/v1/routes",
			value:    42,
			wantLogs: []string{"42", "method=POST"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			e := echo.New()
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := Recovery(logger)(func(_ echo.Context) error {
				panic(tt.value)
			})

			require.NoError(t, handler(c))
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.JSONEq(t,
				`{"title":"Internal Server Error","status":500,"detail":"internal server error"}`,
				rec.Body.String(),
			)
			for _, want := range tt.wantLogs {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestRecovery_MarksSpanFailed(t *testing.T) {
	t.Parallel()

	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))

	e := echo.New()
	ctx, span := tp.Tracer("test").Start(context.Background(), "request")
	req := httptest.NewRequest(http.MethodGet, "/panic", http.NoBody).WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Recovery(slog.New(slog.DiscardHandler))(func(_ echo.Context) error {
		panic("boom")
	})
	require.NoError(t, handler(c))
	span.End()

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	require.NotEmpty(t, spans[0].Events)
	assert.Equal(t, "exception", spans[0].Events[0].Name)
}
