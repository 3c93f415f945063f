// Package metrics provides Prometheus metrics for the weight service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// WeighingsTotal counts weighing calls by direction and outcome kind.
	WeighingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weighings_total",
			Help: "Total number of weighing events by direction and outcome",
		},
		[]string{"direction", "outcome"},
	)

	// WeighingDuration tracks the ledger transaction time of a weighing.
	WeighingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weighing_duration_seconds",
			Help:    "Weighing ledger transaction duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"direction"},
	)

	// NetWeightKilograms is the distribution of computed net cargo weights.
	NetWeightKilograms = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "net_weight_kilograms",
			Help:    "Net cargo weight computed on truck exit",
			Buckets: []float64{0, 500, 1000, 2500, 5000, 10000, 20000, 40000},
		},
	)

	// UnknownContainersTotal counts containers treated as zero tare.
	UnknownContainersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "unknown_container_tares_total",
			Help: "Containers without a registered weight during net computation",
		},
	)

	// OrphanedSessionsTotal counts older open in sessions skipped for a truck.
	OrphanedSessionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orphaned_sessions_total",
			Help: "Open in sessions superseded by a newer open in of the same truck",
		},
	)

	// BatchRowsImported counts tare rows applied by batch imports.
	BatchRowsImported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batch_rows_imported_total",
			Help: "Container tare rows imported by file format",
		},
		[]string{"format"},
	)

	// LogQueueEntries counts audit log entries by queue outcome.
	LogQueueEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "log_queue_entries_total",
			Help: "Log entries by outcome (enqueued, dropped, written, failed)",
		},
		[]string{"outcome"},
	)

	// CircuitBreakerState is 0 closed, 1 open, 2 half-open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(time.Since(start).Seconds())
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordWeighing records one weighing call. outcome is "success" or an
// error kind name.
func RecordWeighing(direction, outcome string, duration time.Duration) {
	WeighingsTotal.WithLabelValues(direction, outcome).Inc()
	WeighingDuration.WithLabelValues(direction).Observe(duration.Seconds())
}

// RecordNetWeight records a computed net weight and its unknown containers.
func RecordNetWeight(neto int, unknownContainers int) {
	NetWeightKilograms.Observe(float64(neto))
	UnknownContainersTotal.Add(float64(unknownContainers))
}

// RecordOrphanedSessions records superseded open sessions.
func RecordOrphanedSessions(n int) {
	OrphanedSessionsTotal.Add(float64(n))
}

// RecordBatchImport records imported tare rows.
func RecordBatchImport(format string, rows int) {
	BatchRowsImported.WithLabelValues(format).Add(float64(rows))
}

// SetCircuitBreakerState publishes a breaker state as a gauge value.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordLogQueue adds n entries to a log queue outcome.
func RecordLogQueue(outcome string, n int) {
	LogQueueEntries.WithLabelValues(outcome).Add(float64(n))
}
