package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/echonova-backend/internal/observability"
	"github.com/yungbote/echonova-backend/internal/platform/apierr"
	"github.com/yungbote/echonova-backend/internal/platform/ctxutil"
)

func TestAttachTraceContextEchoesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())

	var seen *ctxutil.TraceData
	r.GET("/healthcheck", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set(headerRequestID, "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen == nil || seen.RequestID != "req-123" {
		t.Fatalf("expected request id on context, got %+v", seen)
	}
	if seen.TraceID == "" {
		t.Fatalf("expected a generated trace id")
	}
	if got := rec.Header().Get(headerRequestID); got != "req-123" {
		t.Fatalf("X-Request-Id = %q, want req-123", got)
	}
	if got := rec.Header().Get(headerTraceID); got != seen.TraceID {
		t.Fatalf("X-Trace-Id = %q, want %q", got, seen.TraceID)
	}
}

func TestMetricsMiddlewareToleratesNil(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(nil))
	r.GET("/healthcheck", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAttachTraceContextReplacesUnsafeRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/healthcheck", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, bad := range []string{"a b", "x\"y", strings.Repeat("a", maxRequestIDLen+1)} {
		req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
		req.Header.Set(headerRequestID, bad)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		got := rec.Header().Get(headerRequestID)
		if got == "" || got == bad {
			t.Fatalf("request id %q should have been replaced, got %q", bad, got)
		}
	}
}

func TestMetricsMiddlewareLabelsDiagnosticErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics()
	r := gin.New()
	r.Use(Metrics(m))
	turn := func(c *gin.Context) {
		_ = c.Error(apierr.New(http.StatusNotFound, "session_not_found", errors.New("session not found")))
		c.Status(http.StatusNotFound)
	}
	r.POST("/diagnostic-turn", turn)
	r.POST("/api/diagnostico-ia", turn)
	r.GET("/healthcheck", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/diagnostic-turn", "/api/diagnostico-ia"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, path, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

	var sb strings.Builder
	if err := m.WritePrometheus(&sb); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := sb.String()
	for _, want := range []string{
		`en_api_requests_total{method="POST",route="/diagnostic-turn",status="404"} 2.000000`,
		`en_api_errors_total{route="/diagnostic-turn",code="session_not_found"} 2.000000`,
		`en_api_requests_total{method="GET",route="/healthcheck",status="200"} 1.000000`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "/api/diagnostico-ia") {
		t.Fatalf("alias route should fold into /diagnostic-turn:\n%s", out)
	}
}
