package metrics

import (
	"context"
	"time"

	"github.com/mikey/llm-email-triage/internal/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ModelCallDuration tracks model call latency in seconds
	ModelCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "email_triage_model_call_duration_seconds",
			Help:    "LLM call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"provider", "status"},
	)

	// ModelErrorCount counts failed model calls by kind
	ModelErrorCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_triage_model_errors_total",
			Help: "Total number of failed LLM calls",
		},
		[]string{"provider", "kind"},
	)

	// HTTPRequestDuration tracks HTTP request latency in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "email_triage_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~16s
		},
		[]string{"method", "path", "status"},
	)

	// EmailClassifiedCount counts analyzed emails by outcome
	EmailClassifiedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_triage_emails_classified_total",
			Help: "Total number of emails analyzed",
		},
		[]string{"intake", "status", "classification"}, // classification: produtivo, improdutivo, other, none
	)
)

// RecordModelCall records the duration and outcome of one model call
func RecordModelCall(provider string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "failed"
		kind, ok := core.ModelErrorKindOf(err)
		if !ok {
			kind = core.ModelErrorUnavailable
		}
		ModelErrorCount.WithLabelValues(provider, string(kind)).Inc()
	}
	ModelCallDuration.WithLabelValues(provider, status).Observe(duration.Seconds())
}

// RecordHTTPRequestDuration records one HTTP request
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementEmailClassified counts one analyzed email. result may be nil when analysis failed.
func IncrementEmailClassified(intake string, result *core.ClassificationResult) {
	if result == nil {
		EmailClassifiedCount.WithLabelValues(intake, "failed", "none").Inc()
		return
	}
	classification := "none"
	if result.Status == core.StatusSuccess {
		classification = ClassificationLabel(result.Classification)
	}
	EmailClassifiedCount.WithLabelValues(intake, string(result.Status), classification).Inc()
}

// ClassificationLabel bounds the label values a model's free text can produce
func ClassificationLabel(classification string) string {
	switch classification {
	case "Produtivo":
		return "produtivo"
	case "Improdutivo":
		return "improdutivo"
	default:
		return "other"
	}
}

// InstrumentedLLMClient records metrics around another LLMClient
type InstrumentedLLMClient struct {
	next     core.LLMClient
	provider string
}

// NewInstrumentedLLMClient wraps next
func NewInstrumentedLLMClient(next core.LLMClient, provider string) *InstrumentedLLMClient {
	return &InstrumentedLLMClient{next: next, provider: provider}
}

// Generate calls the wrapped client
func (c *InstrumentedLLMClient) Generate(ctx context.Context, prompt core.Prompt) (*core.ModelReply, error) {
	start := time.Now()
	reply, err := c.next.Generate(ctx, prompt)
	RecordModelCall(c.provider, err, time.Since(start))
	return reply, err
}

// Close closes the wrapped client when it holds resources
func (c *InstrumentedLLMClient) Close() error {
	if closer, ok := c.next.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
