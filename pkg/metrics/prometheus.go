// Package metrics provides Prometheus metrics for the call-performance service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the service registers.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Scoring pipeline
	callsScored      prometheus.Counter
	callsDuplicate   prometheus.Counter
	scoringErrors    prometheus.Counter
	overallScores    prometheus.Histogram
	analyzerLatency  prometheus.Histogram
	analyzerErrors   prometheus.Counter
	complianceIssues prometheus.Counter

	// Coaching and training
	interventions     *prometheus.CounterVec
	coachingFallbacks prometheus.Counter
	trainingPlans     prometheus.Counter

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueues      prometheus.Counter
	queueDequeues      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount   prometheus.Gauge
	workerLatency prometheus.Histogram
	workerErrors  prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Store
	trackedAgents prometheus.Gauge
}

// Global metrics manager on a custom registry so the default Go
// collectors never collide with ours.
var globalManager *Manager                      //nolint:gochecknoglobals // singleton metrics manager
var customRegistry = prometheus.NewRegistry()   //nolint:gochecknoglobals // singleton registry
func init() {                                   //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "voicrm",
		subsystem:        "coaching",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.callsScored = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "calls_scored_total",
		Help: "Total number of calls scored.",
	})
	m.callsDuplicate = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "calls_duplicate_total",
		Help: "Total number of duplicate call submissions rejected.",
	})
	m.scoringErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "scoring_errors_total",
		Help: "Total number of scoring failures (incomplete analyses, invalid input).",
	})
	m.overallScores = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "overall_score",
		Help:    "Distribution of overall call scores (0-100).",
		Buckets: []float64{10, 20, 30, 40, 50, 60, 65, 70, 75, 80, 85, 90, 100},
	})
	m.analyzerLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "analyzer_latency_ms",
		Help:    "Transcript analyzer latency in milliseconds.",
		Buckets: m.histogramBuckets,
	})
	m.analyzerErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "analyzer_errors_total",
		Help: "Total number of transcript analyzer failures.",
	})
	m.complianceIssues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "compliance_failures_total",
		Help: "Total number of calls that failed the compliance scan.",
	})

	m.interventions = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "interventions_total",
		Help: "Coaching interventions generated, by type.",
	}, []string{"type"})
	m.coachingFallbacks = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "coaching_fallbacks_total",
		Help: "Fallback coaching records emitted after analyzer failures.",
	})
	m.trainingPlans = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "training_plans_created_total",
		Help: "Total number of training plans created.",
	})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_size",
		Help: "Current number of queued call events.",
	})
	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_capacity",
		Help: "Configured call queue capacity.",
	})
	m.queueUtilization = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_utilization",
		Help: "Call queue utilization ratio (0-1).",
	})
	m.queueEnqueues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueues_total",
		Help: "Total call events enqueued.",
	})
	m.queueDequeues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_dequeues_total",
		Help: "Total call events dequeued.",
	})
	m.queueEnqueueErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueue_errors_total",
		Help: "Enqueue failures (queue full, closed, or context cancelled).",
	})

	m.workerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_count",
		Help: "Number of pipeline workers.",
	})
	m.workerLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "worker_processing_latency_ms",
		Help:    "End-to-end call processing latency in milliseconds.",
		Buckets: m.histogramBuckets,
	})
	m.workerErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_errors_total",
		Help: "Total worker processing failures.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "HTTP requests by endpoint, method, and status code.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds.",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.trackedAgents = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "tracked_agents",
		Help: "Number of agents with recorded metrics.",
	})
}

// Package-level helpers against the global manager.

func RecordCallScored(overallScore float64) {
	globalManager.callsScored.Inc()
	globalManager.overallScores.Observe(overallScore)
}

func RecordCallDuplicate() { globalManager.callsDuplicate.Inc() }

func RecordScoringError() { globalManager.scoringErrors.Inc() }

func RecordAnalyzerLatency(latencyMs float64) { globalManager.analyzerLatency.Observe(latencyMs) }

func RecordAnalyzerError() { globalManager.analyzerErrors.Inc() }

func RecordComplianceFailure() { globalManager.complianceIssues.Inc() }

func RecordIntervention(interventionType string) {
	globalManager.interventions.WithLabelValues(interventionType).Inc()
}

func RecordCoachingFallback() { globalManager.coachingFallbacks.Inc() }

func RecordTrainingPlanCreated() { globalManager.trainingPlans.Inc() }

func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

func UpdateQueueUtilization(utilization float64) { globalManager.queueUtilization.Set(utilization) }

func RecordQueueEnqueue() { globalManager.queueEnqueues.Inc() }

func RecordQueueDequeue() { globalManager.queueDequeues.Inc() }

func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerLatency.Observe(latencyMs)
}

func RecordWorkerError() { globalManager.workerErrors.Inc() }

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
}

func UpdateTrackedAgents(count int) { globalManager.trackedAgents.Set(float64(count)) }

// GetRegistry exposes the custom registry for the /healthz exposition handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
