package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultTimeout   = 120 * time.Second
	maxResponseBytes = 4 << 20
	maxErrorBody     = 2 << 10
)

const instrumentationName = "github.com/yungbote/echonova-backend/internal/platform/llm"

var tracer = otel.Tracer(instrumentationName)

var (
	instrumentsOnce sync.Once
	requestCounter  metric.Int64Counter
	requestDuration metric.Float64Histogram
)

// instruments are created against the global meter, which forwards to the
// SDK provider once observability installs one.
func loadInstruments() {
	instrumentsOnce.Do(func() {
		meter := otel.Meter(instrumentationName)
		requestCounter, _ = meter.Int64Counter(
			"llm.requests",
			metric.WithDescription("Language model turns sent, by provider and outcome"),
		)
		requestDuration, _ = meter.Float64Histogram(
			"llm.request.duration",
			metric.WithDescription("Language model round trip in milliseconds"),
			metric.WithUnit("ms"),
		)
	})
}

func defaultHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// postJSON posts payload to url and decodes a 2xx JSON body into out.
// Every failure past request construction is a *BackendError.
func postJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", provider, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", provider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return &BackendError{Provider: provider, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &BackendError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return &BackendError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}

// call is the telemetry of one SendTurn: a span plus the request metrics.
type call struct {
	span     trace.Span
	provider string
	model    string
	start    time.Time
}

func startCall(ctx context.Context, provider, model string, historyLen int) (context.Context, *call) {
	loadInstruments()
	ctx, span := tracer.Start(ctx, "llm."+provider+".send_turn", trace.WithAttributes(
		attribute.String("llm.provider", provider),
		attribute.String("llm.model", model),
		attribute.Int("llm.history_len", historyLen),
	))
	return ctx, &call{span: span, provider: provider, model: model, start: time.Now()}
}

func (c *call) end(ctx context.Context, reply Reply, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		c.span.RecordError(err)
		c.span.SetStatus(codes.Error, err.Error())
	} else {
		c.span.SetAttributes(attribute.String("llm.reply_status", string(reply.Status)))
	}
	c.span.End()

	attrs := metric.WithAttributes(
		attribute.String("llm.provider", c.provider),
		attribute.String("llm.model", c.model),
		attribute.String("outcome", outcome),
	)
	if requestCounter != nil {
		requestCounter.Add(ctx, 1, attrs)
	}
	if requestDuration != nil {
		requestDuration.Record(ctx, float64(time.Since(c.start).Milliseconds()), attrs)
	}
}

func trimBaseURL(raw, def string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = def
	}
	return strings.TrimRight(raw, "/")
}

func orDefault(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}
