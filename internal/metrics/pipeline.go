package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	PipelineRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askdesk",
			Name:      "pipeline_requests_total",
			Help:      "Total number of answer pipeline runs by terminal outcome",
		},
		[]string{"outcome"}, // answered / fallback_synthesis / no_evidence / rejected_evidence / error
	)

	PipelineStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "askdesk",
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"stage"}, // decompose / retrieve / validate / synthesize
	)

	DecompositionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askdesk",
			Name:      "decompositions_total",
			Help:      "Total decompositions by outcome",
		},
		[]string{"outcome"}, // matched / empty / failed
	)

	RetrievalResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askdesk",
			Name:      "retrieval_results_total",
			Help:      "Total retrieved evidence items by source",
		},
		[]string{"source"}, // database / web
	)

	RetrievalTimeoutsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "askdesk",
			Name:      "retrieval_timeouts_total",
			Help:      "Total per-topic retrieval tasks dropped on timeout",
		},
	)

	ValidationDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askdesk",
			Name:      "validation_dropped_total",
			Help:      "Total evidence items dropped by validation",
		},
		[]string{"filter"}, // error / relevance
	)

	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askdesk",
			Name:      "llm_requests_total",
			Help:      "Total LLM completion requests",
		},
		[]string{"provider", "model", "status"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "askdesk",
			Name:      "llm_request_duration_seconds",
			Help:      "LLM completion request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider", "model"},
	)

	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askdesk",
			Name:      "llm_tokens_total",
			Help:      "Total LLM tokens consumed",
		},
		[]string{"provider", "model", "type"}, // prompt / completion / total
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askdesk",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "askdesk",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	WebSearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askdesk",
			Name:      "websearch_requests_total",
			Help:      "Total web search requests",
		},
		[]string{"status"}, // success / error / disabled
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers Prometheus pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(PipelineRequestsTotal)
	prometheus.MustRegister(PipelineStageDuration)
	prometheus.MustRegister(DecompositionsTotal)
	prometheus.MustRegister(RetrievalResultsTotal)
	prometheus.MustRegister(RetrievalTimeoutsTotal)
	prometheus.MustRegister(ValidationDroppedTotal)
	prometheus.MustRegister(LLMRequestsTotal)
	prometheus.MustRegister(LLMRequestDuration)
	prometheus.MustRegister(LLMTokensTotal)
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(WebSearchRequestsTotal)
	pipelineMetricsRegistered = true
}
