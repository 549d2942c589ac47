package metrics

import (
	"net/http"
	"strconv"
	"time"

	"weekly-menu/internal/shared"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors are the Prometheus metrics exported on /metrics.
type Collectors struct {
	registry *prometheus.Registry

	RequestDuration *prometheus.HistogramVec
	RequestCount    *prometheus.CounterVec
	ActiveRequests  prometheus.Gauge
	ListsGenerated  *prometheus.CounterVec
	LLMTokens       *prometheus.CounterVec
	LLMLatency      *prometheus.HistogramVec
}

// NewCollectors creates the collectors on a fresh registry that also
// carries the Go runtime and process collectors.
func NewCollectors() *Collectors {
	c := &Collectors{
		registry: prometheus.NewRegistry(),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		RequestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		ActiveRequests: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_active_requests",
				Help: "Number of active HTTP requests",
			},
		),
		ListsGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopping_lists_generated_total",
				Help: "Shopping list generations by outcome",
			},
			[]string{"result"},
		),
		LLMTokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_tokens_total",
				Help: "Tokens consumed by LLM calls",
			},
			[]string{"agent", "kind"},
		),
		LLMLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llm_request_duration_seconds",
				Help:    "LLM call latency in seconds",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
			},
			[]string{"agent"},
		),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.RequestDuration, c.RequestCount, c.ActiveRequests,
		c.ListsGenerated, c.LLMTokens, c.LLMLatency,
	)
	return c
}

// ObserveRequest records one finished HTTP request.
func (c *Collectors) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	c.RequestDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
	c.RequestCount.WithLabelValues(method, path, code).Inc()
}

// ObserveListGeneration counts a shopping list generation with its outcome
// ("persisted", "local", "no_plan" or "error").
func (c *Collectors) ObserveListGeneration(result string) {
	c.ListsGenerated.WithLabelValues(result).Inc()
}

// ObserveLLM records token usage and latency of an LLM call.
func (c *Collectors) ObserveLLM(meta shared.AgentMeta) {
	if meta.AgentName == "" {
		return
	}
	c.LLMTokens.WithLabelValues(meta.AgentName, "prompt").Add(float64(meta.Usage.PromptTokens))
	c.LLMTokens.WithLabelValues(meta.AgentName, "completion").Add(float64(meta.Usage.CompletionTokens))
	c.LLMLatency.WithLabelValues(meta.AgentName).Observe(meta.Latency.Seconds())
}

// Gatherer exposes the registry, mainly for tests.
func (c *Collectors) Gatherer() prometheus.Gatherer {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
