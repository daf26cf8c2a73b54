package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives the observations emitted by the HTTP layer and the
// summarizer domain.
type Recorder interface {
	ObserveHTTPRequest(method, route string, status int, latency time.Duration)
	ObserveGeneration(operation string, latency time.Duration, err error)
	ObserveTokens(operation string, usage TokenUsage)
	ObserveTruncation(length string)
	ObserveExport(format string, cached bool)
}

// TokenUsage is the prompt/completion split reported by the model server.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// IsZero reports whether the model server sent no counters.
func (u TokenUsage) IsZero() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0
}

// Prometheus implements Recorder on a dedicated registry.
type Prometheus struct {
	registry    *prometheus.Registry
	httpTotal   *prometheus.CounterVec
	httpLatency *prometheus.HistogramVec
	generations *prometheus.CounterVec
	genLatency  *prometheus.HistogramVec
	tokens      *prometheus.CounterVec
	truncations *prometheus.CounterVec
	exports     *prometheus.CounterVec
}

// NewPrometheus registers the collectors on a fresh registry.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	p := &Prometheus{
		registry: reg,
		httpTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "summarizer_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "summarizer_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "summarizer_generations_total",
			Help: "Model generations by operation and result.",
		}, []string{"operation", "result"}),
		genLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "summarizer_generation_duration_seconds",
			Help:    "Latency of the model call plus post-processing.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 160},
		}, []string{"operation"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "summarizer_tokens_total",
			Help: "Tokens reported by the model service.",
		}, []string{"operation", "kind"}),
		truncations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "summarizer_truncations_total",
			Help: "Generated summaries cut down to the sentence cap.",
		}, []string{"length"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "summarizer_exports_total",
			Help: "Rendered exports by format and cache outcome.",
		}, []string{"format", "cache"}),
	}
	reg.MustRegister(p.httpTotal, p.httpLatency, p.generations, p.genLatency, p.tokens, p.truncations, p.exports)
	return p
}

// Handler exposes the registry in the Prometheus text format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *Prometheus) ObserveHTTPRequest(method, route string, status int, latency time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	p.httpTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpLatency.WithLabelValues(method, route).Observe(latency.Seconds())
}

func (p *Prometheus) ObserveGeneration(operation string, latency time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	p.generations.WithLabelValues(operation, result).Inc()
	p.genLatency.WithLabelValues(operation).Observe(latency.Seconds())
}

func (p *Prometheus) ObserveTokens(operation string, usage TokenUsage) {
	if usage.IsZero() {
		return
	}
	p.tokens.WithLabelValues(operation, "prompt").Add(float64(usage.PromptTokens))
	p.tokens.WithLabelValues(operation, "completion").Add(float64(usage.CompletionTokens))
}

func (p *Prometheus) ObserveTruncation(length string) {
	p.truncations.WithLabelValues(length).Inc()
}

func (p *Prometheus) ObserveExport(format string, cached bool) {
	outcome := "miss"
	if cached {
		outcome = "hit"
	}
	p.exports.WithLabelValues(format, outcome).Inc()
}

var _ Recorder = (*Prometheus)(nil)

// Noop discards every observation.
type Noop struct{}

func (Noop) ObserveHTTPRequest(string, string, int, time.Duration) {}
func (Noop) ObserveGeneration(string, time.Duration, error)        {}
func (Noop) ObserveTokens(string, TokenUsage)                      {}
func (Noop) ObserveTruncation(string)                              {}
func (Noop) ObserveExport(string, bool)                            {}

var _ Recorder = Noop{}
