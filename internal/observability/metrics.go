package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/echonova-backend/internal/platform/envutil"
	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge
	apiReqError *Counter
	apiErrCodes *CounterVec

	turns        *CounterVec
	turnLatency  *HistogramVec
	reports      *Counter
	ephemeral    *Counter
	backendError *CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

func Current() *Metrics {
	return instance
}

// Init builds the process-wide registry. It returns nil when metrics are
// disabled; every method on a nil *Metrics is a no-op.
func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("en_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"en_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		),
		apiInflight: NewGauge("en_api_inflight_requests", "In-flight API requests."),
		apiReqError: NewCounter("en_api_requests_error_total", "Total API requests with 5xx status."),
		apiErrCodes: NewCounterVec("en_api_errors_total", "Rejected API requests by route/error code.", []string{"route", "code"}),
		turns:       NewCounterVec("en_diagnostic_turns_total", "Diagnostic turns by backend/reply status.", []string{"backend", "status"}),
		turnLatency: NewHistogramVec(
			"en_diagnostic_backend_duration_seconds",
			"Language model round trip in seconds by backend/outcome.",
			[]string{"backend", "outcome"},
			[]float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		),
		reports:      NewCounter("en_diagnostic_reports_total", "Final reports persisted."),
		ephemeral:    NewCounter("en_diagnostic_ephemeral_sessions_total", "First turns that did not start a session."),
		backendError: NewCounterVec("en_diagnostic_backend_errors_total", "Backend failures by backend/code.", []string{"backend", "code"}),
	}
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []collector{
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiReqError, m.apiErrCodes,
		m.turns, m.turnLatency, m.reports, m.ephemeral, m.backendError,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
	if isServerErrorStatus(status) {
		m.apiReqError.Inc()
	}
}

// ObserveAPIError counts a failed request by the error code it answered with.
func (m *Metrics) ObserveAPIError(route, code string) {
	if m == nil {
		return
	}
	m.apiErrCodes.Inc(route, code)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveBackend records one language model round trip. outcome is "ok" or
// the error code handed back to the caller.
func (m *Metrics) ObserveBackend(backend, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	if backend == "" {
		backend = "unknown"
	}
	m.turnLatency.Observe(dur.Seconds(), backend, outcome)
	if outcome != "ok" {
		m.backendError.Inc(backend, outcome)
	}
}

func (m *Metrics) IncTurn(backend, status string) {
	if m == nil {
		return
	}
	if backend == "" {
		backend = "unknown"
	}
	m.turns.Inc(backend, status)
}

func (m *Metrics) IncReport() {
	if m == nil {
		return
	}
	m.reports.Inc()
}

func (m *Metrics) IncEphemeralSession() {
	if m == nil {
		return
	}
	m.ephemeral.Inc()
}

func isServerErrorStatus(status string) bool {
	status = strings.TrimSpace(status)
	if len(status) < 3 {
		return false
	}
	return status[0] == '5'
}
