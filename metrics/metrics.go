package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsNamespace    = "caloriecounter"
	metricsSubsystemLLM = "llm"
	metricsSubsystemAPI = "api"
)

var (
	registry *prometheus.Registry

	llmRequestsTotal *prometheus.CounterVec
	llmErrorsTotal   *prometheus.CounterVec
	pipelineTime     *prometheus.HistogramVec
	httpRequests     prometheus.Counter
)

func init() {
	registry = prometheus.NewRegistry()
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: metricsNamespace}))
	registry.MustRegister(collectors.NewGoCollector())

	llmRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystemLLM,
		Name:      "requests_total",
		Help:      "The total number of requests sent to AI providers.",
	}, []string{"provider", "model", "stage"})
	registry.MustRegister(llmRequestsTotal)

	llmErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystemLLM,
		Name:      "errors_total",
		Help:      "The total number of failed AI provider requests.",
	}, []string{"provider", "model", "stage"})
	registry.MustRegister(llmErrorsTotal)

	pipelineTime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystemLLM,
		Name:      "pipeline_duration_seconds",
		Help:      "Time to run the two-stage analysis pipeline.",
		Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 80},
	}, []string{"provider"})
	registry.MustRegister(pipelineTime)

	httpRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystemAPI,
		Name:      "requests_total",
		Help:      "The total number of API requests.",
	})
	registry.MustRegister(httpRequests)
}

func ObserveLLMRequest(provider, model, stage string) {
	llmRequestsTotal.WithLabelValues(provider, model, stage).Inc()
}

func ObserveLLMError(provider, model, stage string) {
	llmErrorsTotal.WithLabelValues(provider, model, stage).Inc()
}

func ObservePipelineDuration(provider string, seconds float64) {
	pipelineTime.WithLabelValues(provider).Observe(seconds)
}

func IncrementHTTPRequests() {
	httpRequests.Inc()
}

// Handler serves the registry for Prometheus scrapes.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
